package canon

import "math"

// This file implements the auxiliary (non-motion) dispatch operations of
// §5/§6: mode setters, overrides, I/O, program control, spindle and
// coolant, tool selection, and cutter compensation.  Auxiliary calls that
// change state observed by a pending fusion run (origin, offset, rotation,
// units, feed rate, feed mode) flush first, so no buffered LinearMove
// straddles a frame change; plane selection does not flush.

// SetMotionMode selects CONTINUOUS (enabling naive-cam fusion) or
// EXACT_STOP.  Switching away from CONTINUOUS flushes any pending run.
func (e *Engine) SetMotionMode(mode MotionMode) {
	if mode != MotionContinuous {
		e.flush()
	}
	e.State.MotionMode = mode
	kind := TermBlend
	if mode == MotionExactStop {
		kind = TermStop
	}
	e.emit(SetTermCond{
		Header:    e.header(MsgSetTermCond),
		Kind:      kind,
		Tolerance: e.State.MotionTolerance,
	})
}

// SetNaivecamTolerance sets the XYZ fusion tolerance; zero or negative
// disables fusion.  Per §4.4 this is a pure-query mutator: it does not
// flush, so points already buffered under the old tolerance stay buffered
// and only the next dispatch sees the new value.
func (e *Engine) SetNaivecamTolerance(tol float64) {
	e.State.NaivecamTolerance = tol
}

// SetMotionTolerance sets the blend tolerance surfaced to the executor in
// SetTermCond messages.  Arc chord-deviation degradation uses
// NaivecamTolerance, not this value.
func (e *Engine) SetMotionTolerance(tol float64) {
	e.State.MotionTolerance = tol
}

// SetPlane selects the active arc/cutter-compensation plane.
func (e *Engine) SetPlane(p Plane) {
	e.State.ActivePlane = p
}

// SetLengthUnits changes the program-side length unit, per §4.1: this does
// not rescale EndPoint or ProgramOrigin, which remain in internal units;
// it only changes how subsequent program-unit arguments are interpreted.
func (e *Engine) SetLengthUnits(u LengthUnits) {
	e.flush()
	e.State.LengthUnits = u
}

// SetXYRotation sets the XY rotation (degrees) applied to subsequently
// programmed positions.
func (e *Engine) SetXYRotation(thetaDeg float64) {
	e.flush()
	e.State.XYRotation = thetaDeg
}

// SetOrigin sets the active work-coordinate origin (program units) and
// broadcasts the change downstream.
func (e *Engine) SetOrigin(origin Pose) {
	e.flush()
	internal := fromProgram(origin, e.State.LengthUnits)
	e.State.ProgramOrigin = internal
	e.emit(OriginSet{Header: e.header(MsgOriginSet), Origin: e.externalize(internal)})
}

// SetToolOffset sets the active tool length offset (program units) and
// broadcasts both the generic offset-changed message and the
// tool-specific one, matching the source's dual notification for a tool
// change (§6).
func (e *Engine) SetToolOffset(offset Pose) {
	e.flush()
	internal := fromProgram(offset, e.State.LengthUnits)
	e.State.ToolOffset = internal
	ext := e.externalize(internal)
	e.emit(OffsetSet{Header: e.header(MsgOffsetSet), Offset: ext})
	e.emit(ToolSetOffset{Header: e.header(MsgToolSetOffset), Offset: ext})
}

// SetFeedRate sets the commanded linear feed rate, internal units/second.
// Per §4.4 this flushes first: otherwise a feed-rate change mid-run would
// retroactively apply to points already buffered under the old rate.
func (e *Engine) SetFeedRate(rate float64) {
	e.flush()
	e.State.LinearFeedRate = rate
}

// SetAngularFeedRate sets the commanded angular feed rate, degrees/second.
func (e *Engine) SetAngularFeedRate(rate float64) {
	e.State.AngularFeedRate = rate
}

// SetFeedMode selects the feed-rate interpretation (inverse-time,
// units-per-minute, or spindle-synchronized).  Flushes first per §4.4, for
// the same reason SetFeedRate does: the buffered run's eventual LinearMove
// must carry the feed mode in effect when its points were accepted.
func (e *Engine) SetFeedMode(mode FeedMode) {
	e.flush()
	e.State.FeedMode = mode
}

// SetCutterCompensation sets the active cutter-radius compensation side.
func (e *Engine) SetCutterCompensation(c CutterCompensation) {
	e.State.CutterCompensation = c
}

// SetBlockDelete and SetOptionalProgramStop toggle the two program-control
// flags.  OptionalProgramStop gates optional PROGRAM_STOP dispatch;
// BlockDelete is stored only and no dispatch reads it.
func (e *Engine) SetBlockDelete(on bool)         { e.State.BlockDelete = on }
func (e *Engine) SetOptionalProgramStop(on bool) { e.State.OptionalProgramStop = on }

// EnableFeedOverride, EnableSpindleOverride and EnableAdaptiveFeed toggle
// the named override and broadcast the change.
func (e *Engine) EnableFeedOverride(on bool) {
	e.emit(FeedOverride{Header: e.header(MsgFeedOverride), Enable: on})
}

func (e *Engine) EnableSpindleOverride(on bool) {
	e.emit(SpindleOverride{Header: e.header(MsgSpindleOverride), Enable: on})
}

func (e *Engine) EnableAdaptiveFeed(on bool) {
	e.emit(AdaptiveFeed{Header: e.header(MsgAdaptiveFeed), Enable: on})
}

// EnableFeedHold toggles whether an external feed-hold request is honored.
func (e *Engine) EnableFeedHold(on bool) {
	e.emit(FeedHold{Header: e.header(MsgFeedHold), Enable: on})
}

// DigitalOutputNow sets a digital output immediately, outside of any
// synchronized window.
func (e *Engine) DigitalOutputNow(index int, value bool) {
	e.emit(DigitalOutput{Header: e.header(MsgDigitalOutput), Index: index, Value: value, Now: true})
}

// DigitalOutputSynced brackets a digital output write to the start or end
// of the next motion segment, per §6's synchronized-I/O model.
func (e *Engine) DigitalOutputSynced(index int, value bool, atStart bool) {
	e.emit(DigitalOutput{Header: e.header(MsgDigitalOutput), Index: index, Value: value, Start: atStart, End: !atStart})
}

// AnalogOutputNow and AnalogOutputSynced mirror the digital-output pair
// for analog values.
func (e *Engine) AnalogOutputNow(index int, value float64) {
	e.emit(AnalogOutput{Header: e.header(MsgAnalogOutput), Index: index, Value: value, Now: true})
}

func (e *Engine) AnalogOutputSynced(index int, value float64, atStart bool) {
	e.emit(AnalogOutput{Header: e.header(MsgAnalogOutput), Index: index, Value: value, Start: atStart, End: !atStart})
}

// SyncInput arms subsequent synchronized I/O to wait on the named input.
func (e *Engine) SyncInput(index int, t InputType) {
	e.emit(SyncInput{Header: e.header(MsgSyncInput), Index: index, InputType: t})
}

// WaitForInput blocks (downstream) until input index satisfies kind, or
// timeoutSeconds elapses.
func (e *Engine) WaitForInput(index int, t InputType, kind WaitKind, timeoutSeconds float64) {
	e.emit(InputWait{
		Header:    e.header(MsgInputWait),
		Index:     index,
		InputType: t,
		WaitKind:  kind,
		Timeout:   timeoutSeconds,
	})
}

// Dwell pauses motion for seconds, flushing any pending fusion run first
// since a dwell must land at a concrete, already-committed position.
func (e *Engine) Dwell(seconds float64) {
	e.flush()
	e.emit(Dwell{Header: e.header(MsgDwell), Seconds: seconds})
}

// cssNumerator computes the constant-surface-speed numerator broadcast
// alongside a commanded rpm, per §4.5: the magnitude depends only on rpm
// and the active length units (never on a tool or stock diameter) —
// ±(25.4*12)/(2*pi) per rpm for inches, ±1000/(2*pi) per rpm for
// millimeters — and the sign follows the spindle's commanded direction.
func cssNumerator(rpm float64, clockwise bool, units LengthUnits) float64 {
	magnitude := 1000.0 / (2 * math.Pi)
	if units == Inches {
		magnitude = (25.4 * 12) / (2 * math.Pi)
	}
	n := magnitude * rpm
	if !clockwise {
		n = -n
	}
	return n
}

// cssXOffset is the x-offset carried on every CSS-active SpindleSpeed
// message: the program origin's X plus the tool offset's X, externalized.
func (e *Engine) cssXOffset() float64 {
	return e.externalize(Pose{X: e.State.ProgramOrigin.X + e.State.ToolOffset.X}).X
}

// cssSpeedMessage builds the SpindleSpeed message carrying the current CSS
// bookkeeping for the spindle's last commanded rpm and direction.
func (e *Engine) cssSpeedMessage() SpindleSpeed {
	return SpindleSpeed{
		Header:       e.header(MsgSpindleSpeed),
		RPM:          e.State.SpindleSpeed,
		CSSMaximum:   e.State.CSSMaximum,
		CSSNumerator: e.State.CSSNumerator,
		XOffset:      e.cssXOffset(),
	}
}

// SpindleOn starts the spindle; clockwise selects M3 vs M4 direction.  Per
// §4.5, every spindle command broadcasts a companion SpindleSpeed message
// carrying the CSS bookkeeping while CSS is active, since a direction
// change flips the numerator's sign.
func (e *Engine) SpindleOn(clockwise bool) {
	e.State.SpindleClockwise = clockwise
	if e.State.CSSMaximum > 0 {
		e.State.CSSNumerator = cssNumerator(e.State.SpindleSpeed, clockwise, e.State.LengthUnits)
		e.emit(e.cssSpeedMessage())
	}
	e.emit(SpindleState{Header: e.header(MsgSpindleOn), On: true, Clockwise: clockwise})
}

// SpindleOff stops the spindle, also broadcasting the companion CSS speed
// message first when CSS is active, matching SpindleOn's rule.
func (e *Engine) SpindleOff() {
	if e.State.CSSMaximum > 0 {
		e.State.CSSNumerator = cssNumerator(e.State.SpindleSpeed, e.State.SpindleClockwise, e.State.LengthUnits)
		e.emit(e.cssSpeedMessage())
	}
	e.emit(SpindleState{Header: e.header(MsgSpindleOff), On: false})
}

// SetSpindleMode sets the constant-surface-speed cap cssMaximum (rpm);
// zero disables CSS.  Per §4.4 this is a pure-query mutator distinct from
// SetSpindleSpeed: it neither flushes nor emits a message, only changes
// how subsequent spindle commands compute their CSS numerator.
func (e *Engine) SetSpindleMode(cssMaximum float64) {
	e.State.CSSMaximum = cssMaximum
	if cssMaximum > 0 {
		e.State.CSSNumerator = cssNumerator(e.State.SpindleSpeed, e.State.SpindleClockwise, e.State.LengthUnits)
	} else {
		e.State.CSSNumerator = 0
	}
}

// SetSpindleSpeed commands rpm.  When CSS is active (SetSpindleMode set a
// positive cssMaximum), the broadcast SpindleSpeed message's numerator and
// x-offset are recomputed from rpm and the current state, per §4.5.
func (e *Engine) SetSpindleSpeed(rpm float64) {
	e.State.SpindleSpeed = rpm
	if e.State.CSSMaximum > 0 {
		e.State.CSSNumerator = cssNumerator(rpm, e.State.SpindleClockwise, e.State.LengthUnits)
	} else {
		e.State.CSSNumerator = 0
	}
	e.emit(e.cssSpeedMessage())
}

// StartSpindleSynchronization and StopSpindleSynchronization toggle
// feed/spindle lock for rigid tapping and synchronized feed modes.
func (e *Engine) StartSpindleSynchronization() {
	e.State.Synched = true
	e.emit(SpindleSync{Header: e.header(MsgSpindleSyncStart), Start: true})
}

func (e *Engine) StopSpindleSynchronization() {
	e.State.Synched = false
	e.emit(SpindleSync{Header: e.header(MsgSpindleSyncStop), Start: false})
}

// IsSynchronized reports the last-set spindle synchronization state, which
// is false until synchronization is started after INIT_CANON.  The
// returned error is always nil.
func (e *Engine) IsSynchronized() (bool, error) {
	return e.State.Synched, nil
}

// Coolant sets flood and mist coolant independently.
func (e *Engine) Coolant(flood, mist bool) {
	e.emit(CoolantMsg(flood, mist))
}

// CoolantMsg builds the Coolant message for flood/mist, split out so tests
// can construct the expected value without duplicating field order.
func CoolantMsg(flood, mist bool) Coolant {
	return Coolant{Header: Header{Type: MsgCoolant}, Flood: flood, Mist: mist}
}

// SelectTool prepares pocket for a subsequent ToolChange.
func (e *Engine) SelectTool(pocket int) {
	e.emit(ToolPrepare{Header: e.header(MsgToolPrepare), Pocket: pocket})
}

// ChangeTool commands the tool change at the spindle and reports the newly
// active tool number downstream.
func (e *Engine) ChangeTool(pocket int) {
	e.flush()
	e.emit(ToolChange{Header: e.header(MsgToolChange), Pocket: pocket})
	entry := e.tools.Entry(pocket)
	e.emit(ToolSetNumber{Header: e.header(MsgToolSetNumber), Tool: entry.ToolNo})
}

// SetToolTableEntry records geometry for pocket in the local tool table.
func (e *Engine) SetToolTableEntry(pocket int, entry ToolTableEntry) {
	e.tools.SetEntry(pocket, entry)
}

// Message surfaces free text to the operator, optionally flagged as an
// error.
func (e *Engine) Message(text string, isError bool) {
	t := MsgOperatorMessage
	if isError {
		t = MsgOperatorError
	}
	e.emit(OperatorMessage{Header: e.header(t), Text: text, IsError: isError})
}

// ProgramStop pauses program execution; optional distinguishes M1 from M0.
func (e *Engine) ProgramStop(optional bool) {
	if optional && !e.State.OptionalProgramStop {
		return
	}
	e.flush()
	e.emit(ProgramControl{Header: e.header(MsgProgramStop), Optional: optional})
}

// ProgramEnd flushes and marks the end of the program.
func (e *Engine) ProgramEnd() {
	e.flush()
	e.emit(ProgramControl{Header: e.header(MsgProgramEnd)})
}

// OpenProbeLog and CloseProbeLog implement the PROBEOPEN/PROBECLOSE
// hot-comments of §6.
func (e *Engine) OpenProbeLog(path string) error  { return e.probe.Open(path) }
func (e *Engine) CloseProbeLog() error            { return e.probe.Close() }
func (e *Engine) ProbeLogIsOpen() bool            { return e.probe.IsOpen() }
