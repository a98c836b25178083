package canon

// AxisMask identifies which of the nine axes are physically present on the
// machine.  Bit i corresponds to axis index i (see Axis* constants).
type AxisMask uint16

// Enabled reports whether axis is present in the mask.
func (m AxisMask) Enabled(axis int) bool {
	return m&(1<<uint(axis)) != 0
}

// AxisMaskXYZ is the common case of a three-axis Cartesian machine.
const AxisMaskXYZ AxisMask = (1 << AxisX) | (1 << AxisY) | (1 << AxisZ)

// Plane identifies the plane in which arc and cutter-compensation moves are
// interpreted.
type Plane int

const (
	PlaneXY Plane = iota
	PlaneYZ
	PlaneXZ
)

// MotionMode selects whether successive feed segments blend (CONTINUOUS,
// enabling collinear fusion) or come to an exact stop at each programmed
// endpoint.
type MotionMode int

const (
	MotionContinuous MotionMode = iota
	MotionExactStop
)

// FeedMode is encoded as an integer per the upstream protocol; only
// FeedPerRevSynched means the feed rate is spindle-synchronized (see
// Synchronized).
type FeedMode int

const (
	FeedInverseTime FeedMode = iota
	FeedUnitsPerMinute
	FeedPerRevSynched
)

// Synchronized reports whether this feed mode requires the spindle to be
// running in sync with the programmed feed.
func (f FeedMode) Synchronized() bool {
	return f == FeedPerRevSynched
}

// MoveCategory classifies a proposed move by which axis groups it touches.
type MoveCategory int

const (
	// Degenerate describes a move with no axis motion at all.
	Degenerate MoveCategory = iota
	Linear
	Angular
	Combined
)

// CutterCompensation selects the side (if any) cutter radius compensation
// is applied on.  Not part of the original interpreter-list data model but
// standard on any canonical interface of this shape; see SPEC_FULL.md.
type CutterCompensation int

const (
	CutCompNone CutterCompensation = iota
	CutCompOuter
	CutCompInner
)

// ProbeType enumerates the probing behaviors a STRAIGHT_PROBE caller may
// request; the concrete meaning (stop-on-contact vs stop-on-loss, error on
// miss or not) is interpreted downstream, this core only threads it
// through to the emitted message.
type ProbeType int

const (
	ProbeTowardWorkStopOnContact ProbeType = iota
	ProbeTowardWorkErrorOnNoContact
	ProbeAwayFromWorkStopOnLoss
	ProbeAwayFromWorkErrorOnNoLoss
)

// CanonicalState is the process-wide world state described in §3.  It is
// never a package-level singleton: callers hold an *Engine (engine.go),
// which embeds one CanonicalState instance, and pass it explicitly.
type CanonicalState struct {
	// EndPoint is the last commanded end position in internal units,
	// after rotation and offsets.
	EndPoint Pose

	// ProgramOrigin is the active work-coordinate origin, internal units.
	ProgramOrigin Pose

	// ToolOffset is the active tool-length offset, internal units.
	ToolOffset Pose

	// XYRotation is the rotation about Z applied to programmed X, Y.
	XYRotation float64

	LengthUnits LengthUnits
	ActivePlane Plane
	MotionMode  MotionMode

	// MotionTolerance is the blend tolerance surfaced to the executor.
	MotionTolerance float64

	// NaivecamTolerance is the fusion tolerance; zero disables fusion.
	NaivecamTolerance float64

	FeedMode          FeedMode
	LinearFeedRate    float64 // internal units / second
	AngularFeedRate   float64 // degrees / second

	SpindleSpeed  float64 // rpm
	CSSMaximum    float64 // rpm, CSS active iff > 0
	CSSNumerator  float64 // non-zero iff CSS is active

	// SpindleClockwise is the direction of the last SpindleOn call; it
	// signs the CSS numerator broadcast by SpindleOn/SpindleOff/
	// SetSpindleSpeed while CSS is active.
	SpindleClockwise bool

	// CartesianMove and AngularMove classify the most recently dispatched
	// move; set by envelope computation, read by feed clamping.
	CartesianMove bool
	AngularMove   bool

	// Synched reports whether spindle-synchronized feed is active.
	Synched bool

	CutterCompensation CutterCompensation

	BlockDelete          bool
	OptionalProgramStop  bool

	// AxisMask identifies which axes are physically present; supplied by
	// the axis configuration service.  INIT_CANON resets it to all nine
	// axes.
	AxisMask AxisMask

	// ExternalLengthUnits and ExternalAngleUnits are the host's
	// externalization factors, used by toExternal/fromExternal.
	ExternalLengthUnits float64
	ExternalAngleUnits  float64
}

// defaultState returns a CanonicalState with the zero/identity values
// INIT_CANON resets to: zero end point, zero origin and offset, no
// rotation, millimeters, XY plane, continuous motion, unit external scale
// factors, and every axis present.
func defaultState() CanonicalState {
	return CanonicalState{
		LengthUnits:         Millimeters,
		ActivePlane:         PlaneXY,
		MotionMode:          MotionContinuous,
		FeedMode:            FeedUnitsPerMinute,
		AxisMask:            AxisMaskXYZ | (1 << AxisA) | (1 << AxisB) | (1 << AxisC) | (1 << AxisU) | (1 << AxisV) | (1 << AxisW),
		ExternalLengthUnits: 1,
		ExternalAngleUnits:  1,
	}
}
