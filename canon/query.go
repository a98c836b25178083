package canon

// This file implements §6's Query Interface: read-only calls that cross
// into the status-reporting collaborator (ExternalStatus) and the axis
// configuration service (LimitSource), translating their internal-frame
// answers into program units before returning them to the caller.

// GetExternalPosition returns the machine's current position, in program
// units, after undoing rotation/offset and converting out of internal
// length units.  Per §4.7 it clears (discards, without emitting) the
// segment buffer first: a polled position jump invalidates any points
// buffered against the old EndPoint, and refreshes
// CanonicalState.EndPoint so subsequent dispatch calls see the new frame.
func (e *Engine) GetExternalPosition() (Pose, error) {
	e.Buffer.Clear()
	internal, err := e.Status.Position()
	if err != nil {
		return Pose{}, err
	}
	e.State.EndPoint = internal
	return e.toProgramPose(internal), nil
}

// GetExternalProbePosition returns the most recently probed position, in
// program units, and appends a line to the probe log (if open) whenever
// the value differs from the last line written.  Per §4.7 it flushes any
// pending fusion run first, so the probed read is never stale against an
// unemitted buffered move.
func (e *Engine) GetExternalProbePosition() (Pose, error) {
	e.flush()
	internal, err := e.Status.ProbePosition()
	if err != nil {
		return Pose{}, err
	}
	program := e.toProgramPose(internal)
	if e.probe.IsOpen() {
		if _, werr := e.probe.WriteIfChanged(program); werr != nil {
			return program, werr
		}
	}
	return program, nil
}

// GetExternalToolTable returns the recorded geometry for pocket, in
// program units, or the zero entry (ToolNo -1) if pocket is out of range.
func (e *Engine) GetExternalToolTable(pocket int) ToolTableEntry {
	entry := e.tools.Entry(pocket)
	if entry.ToolNo == -1 {
		return entry
	}
	entry.Offset = toProgram(entry.Offset, e.State.LengthUnits)
	return entry
}

// GetAxisPosition returns a single axis's current EndPoint coordinate, in
// program units, without consulting ExternalStatus.
func (e *Engine) GetAxisPosition(axis int) (float64, error) {
	if axis < 0 || axis >= numAxes {
		return 0, ErrAxisOutOfRange
	}
	return e.toProgramPose(e.State.EndPoint).At(axis), nil
}

// GetAxisMask returns the axis mask currently in effect.
func (e *Engine) GetAxisMask() AxisMask {
	return e.State.AxisMask
}

// SetAxisMask installs a new axis mask, as supplied by the axis
// configuration service; callers typically do this once after
// InitCanon, before the first dispatch.
func (e *Engine) SetAxisMask(mask AxisMask) {
	e.State.AxisMask = mask
}

// GetDigitalInput reads digital input index through ExternalStatus, which
// returns def when the input cannot be read.
func (e *Engine) GetDigitalInput(index int, def bool) (bool, error) {
	return e.Status.DigitalInput(index, def)
}

// GetAnalogInput reads analog input index through ExternalStatus, which
// returns def when the input cannot be read.
func (e *Engine) GetAnalogInput(index int, def float64) (float64, error) {
	return e.Status.AnalogInput(index, def)
}

// FeedOverrideEnabled, SpindleOverrideEnabled and AdaptiveFeedEnabled
// report the live state of each override, as last acknowledged by the
// executor via ExternalStatus.
func (e *Engine) FeedOverrideEnabled() (bool, error)    { return e.Status.FeedOverrideEnabled() }
func (e *Engine) SpindleOverrideEnabled() (bool, error) { return e.Status.SpindleOverrideEnabled() }
func (e *Engine) AdaptiveFeedEnabled() (bool, error)    { return e.Status.AdaptiveFeedEnabled() }

// GetSpindleSpeed returns the last commanded spindle speed and, when CSS
// is active, its bookkeeping.
func (e *Engine) GetSpindleSpeed() (rpm, cssMaximum, cssNumerator float64) {
	return e.State.SpindleSpeed, e.State.CSSMaximum, e.State.CSSNumerator
}

// CSSActive reports whether constant surface speed mode is in effect.
func (e *Engine) CSSActive() bool {
	return e.State.CSSMaximum > 0
}
