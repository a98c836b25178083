package canon

// ExternalStatus is the client-side view of the status-reporting
// collaborator named as out-of-scope in spec.md §1 (current position,
// probed position, tool table, coolant, spindle sensors): this core only
// calls into it, it never implements the reporting itself.  See the
// externalstatus package for a concrete SCPI-style client, and
// LocalStatus below for the in-memory stand-in used by tests and by
// Engine when no external system is wired.
type ExternalStatus interface {
	// Position returns the current machine position in internal units,
	// in the same world (rotated+offset) frame as CanonicalState.EndPoint.
	Position() (Pose, error)

	// ProbePosition returns the most recently probed position, in the
	// same frame as Position.
	ProbePosition() (Pose, error)

	// DigitalInput reads a digital input; def is returned when the input
	// cannot be read (LocalStatus always returns def with a nil error).
	DigitalInput(index int, def bool) (bool, error)

	// AnalogInput reads an analog input; def is returned when the input
	// cannot be read (LocalStatus always returns def with a nil error).
	AnalogInput(index int, def float64) (float64, error)

	// FeedOverrideEnabled, SpindleOverrideEnabled and AdaptiveFeedEnabled
	// report the live state of each override, as last acknowledged by
	// the executor.
	FeedOverrideEnabled() (bool, error)
	SpindleOverrideEnabled() (bool, error)
	AdaptiveFeedEnabled() (bool, error)
}

// LocalStatus is a minimal, in-memory ExternalStatus: position and probe
// position are whatever was last pushed into it (defaulting to the zero
// pose), inputs always return their default, and overrides report
// disabled.  It exists so Engine is usable standalone (e.g. in tests, or
// embedded in a simulator) without requiring a live status service.
type LocalStatus struct {
	position      Pose
	probePosition Pose
}

// SetPosition lets a test or simulator drive what Position returns next.
func (l *LocalStatus) SetPosition(p Pose) { l.position = p }

// SetProbePosition lets a test or simulator drive what ProbePosition
// returns next.
func (l *LocalStatus) SetProbePosition(p Pose) { l.probePosition = p }

func (l *LocalStatus) Position() (Pose, error)      { return l.position, nil }
func (l *LocalStatus) ProbePosition() (Pose, error) { return l.probePosition, nil }

func (l *LocalStatus) DigitalInput(index int, def bool) (bool, error) { return def, nil }
func (l *LocalStatus) AnalogInput(index int, def float64) (float64, error) {
	return def, nil
}

func (l *LocalStatus) FeedOverrideEnabled() (bool, error)    { return false, nil }
func (l *LocalStatus) SpindleOverrideEnabled() (bool, error) { return false, nil }
func (l *LocalStatus) AdaptiveFeedEnabled() (bool, error)    { return false, nil }

// constantLimits is a LimitSource stand-in returning the same triple for
// every axis; useful for tests and as Engine's default when no axis
// configuration service client is wired.
type constantLimits struct {
	vel, acc, jerk float64
}

func (c constantLimits) MaxVelocity(axis int) (float64, error)     { return c.vel, nil }
func (c constantLimits) MaxAcceleration(axis int) (float64, error) { return c.acc, nil }
func (c constantLimits) MaxJerk(axis int) (float64, error)         { return c.jerk, nil }
