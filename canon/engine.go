package canon

// toolTableCapacity bounds the local tool table; GET_EXTERNAL_TOOL_TABLE
// on a pocket outside [0, toolTableCapacity) is rejected per §7 without
// ever consulting the backing store.
const toolTableCapacity = 256

// Engine is the explicit, non-singleton replacement for the process-wide
// canonical-state/segment-buffer/interpreter-list trio described in §9's
// design notes: a G-code interpreter constructs one Engine and drives it
// synchronously; nothing here is a hidden package-level global.
type Engine struct {
	State  CanonicalState
	Buffer SegmentBuffer

	Limits LimitSource
	Status ExternalStatus
	List   InterpreterList

	tools toolTable
	probe probeLog

	line int

	// bufferOrigin is the commanded end position in effect when the
	// segment buffer's current fusion run began; flush emits a single
	// LinearMove from here to the buffer's last entry.
	bufferOrigin Pose
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithLimitSource overrides the default constant-limit stand-in with a
// real axis configuration service client (see package axisconfig).
func WithLimitSource(src LimitSource) Option {
	return func(e *Engine) { e.Limits = src }
}

// WithExternalStatus overrides the default in-memory status stand-in with
// a real status-reporting client (see package externalstatus).
func WithExternalStatus(s ExternalStatus) Option {
	return func(e *Engine) { e.Status = s }
}

// WithInterpreterList overrides the default SliceList sink.
func WithInterpreterList(list InterpreterList) Option {
	return func(e *Engine) { e.List = list }
}

// NewEngine constructs an Engine in its INIT_CANON state.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		State:  defaultState(),
		Limits: constantLimits{vel: sentinel, acc: sentinel, jerk: sentinel},
		Status: &LocalStatus{},
		List:   &SliceList{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// InitCanon resets the canonical state and clears the segment buffer,
// matching the INIT_CANON lifecycle call of §3.  The interpreter list and
// probe log are untouched: they outlive this reset.
func (e *Engine) InitCanon() {
	e.State = defaultState()
	e.Buffer.Clear()
	e.tools = toolTable{}
	e.line = 0
}

// Finish flushes the segment buffer, matching FINISH's lifecycle contract.
func (e *Engine) Finish() {
	e.flush()
}

// NextLine advances and returns the dispatcher's line-number counter.
// Motion dispatchers call it once per emitted move, so a move dispatched
// right after SetLine(n) is tagged n+1.
func (e *Engine) NextLine() int {
	e.line++
	return e.line
}

// SetLine sets the line-number counter to n, overriding the internal count.
// Auxiliary messages, which read the counter without advancing it, are
// tagged n; the next motion dispatch advances it and is tagged n+1.
func (e *Engine) SetLine(n int) {
	e.line = n
}

func (e *Engine) emit(msg Message) {
	e.List.Append(msg)
}

func (e *Engine) header(t MessageType) Header {
	return Header{Type: t, Line: e.line}
}

// deriveEnvelope derives the envelope for a move and asserts that a
// non-degenerate move produced a strictly positive velocity, per §4.2/§7's
// assertion taxonomy: the chosen min-of-maxima must be positive whenever
// at least one axis moves, or the axis configuration service has violated
// its contract and this is a bug, not a recoverable error.
func (e *Engine) deriveEnvelope(from, to Pose) Envelope {
	env := DeriveEnvelope(from, to, e.State.AxisMask, e.Limits)
	if env.Category != Degenerate {
		assertPositive(env.Velocity, "envelope velocity")
	}
	e.State.CartesianMove = env.Category == Linear || env.Category == Combined
	e.State.AngularMove = env.Category == Angular || env.Category == Combined
	return env
}

// toInternal runs a program-unit pose through §4.1's standard pipeline:
// fromProgram then rotateAndOffset.
func (e *Engine) toInternal(p Pose) Pose {
	p = fromProgram(p, e.State.LengthUnits)
	return rotateAndOffset(p, e.State.XYRotation, e.State.ProgramOrigin, e.State.ToolOffset)
}

// toProgramPose is the inverse of toInternal.
func (e *Engine) toProgramPose(p Pose) Pose {
	p = unoffsetAndUnrotate(p, e.State.XYRotation, e.State.ProgramOrigin, e.State.ToolOffset)
	return toProgram(p, e.State.LengthUnits)
}

// externalize converts an internal pose to external units, using the
// configuration service's externalization factors.
func (e *Engine) externalize(p Pose) Pose {
	return toExternal(p, e.State.ExternalLengthUnits, e.State.ExternalAngleUnits)
}
