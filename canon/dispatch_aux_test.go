package canon

import (
	"math"
	"testing"
)

func TestSetSpindleSpeedCSSNumerator(t *testing.T) {
	e := newTestEngine()
	e.SpindleOn(true)
	e.SetSpindleMode(200)
	e.SetSpindleSpeed(1000)
	rpm, cssMax, numerator := e.GetSpindleSpeed()
	if rpm != 1000 || cssMax != 200 {
		t.Fatalf("GetSpindleSpeed = (%v, %v, _), want (1000, 200, _)", rpm, cssMax)
	}
	want := 1000.0 * 1000.0 / (2 * math.Pi)
	if math.Abs(numerator-want) > 1e-9 {
		t.Errorf("CSS numerator = %v, want %v", numerator, want)
	}
	if !e.CSSActive() {
		t.Error("CSSActive() should be true when cssMaximum > 0")
	}
}

func TestSetSpindleSpeedWithoutCSS(t *testing.T) {
	e := newTestEngine()
	e.SetSpindleSpeed(500)
	if e.CSSActive() {
		t.Error("CSSActive() should be false when cssMaximum is 0")
	}
	_, _, numerator := e.GetSpindleSpeed()
	if numerator != 0 {
		t.Errorf("CSS numerator = %v, want 0 when CSS is inactive", numerator)
	}
}

func TestSetSpindleSpeedCounterclockwiseCSSNumeratorIsNegative(t *testing.T) {
	e := newTestEngine()
	e.SpindleOn(false)
	e.SetSpindleMode(200)
	e.SetSpindleSpeed(1000)
	_, _, numerator := e.GetSpindleSpeed()
	if numerator >= 0 {
		t.Errorf("CSS numerator = %v, want negative for counterclockwise spindle direction", numerator)
	}
}

func TestSpindleOnEmitsCSSCompanionMessageWhenActive(t *testing.T) {
	e := newTestEngine()
	e.SetSpindleMode(200)
	e.SetSpindleSpeed(800)
	n := len(messagesOf(e)) // skip SetSpindleSpeed's own SpindleSpeed message
	e.SpindleOn(true)

	msgs := messagesOf(e)[n:]
	if len(msgs) != 2 {
		t.Fatalf("len(msgs) = %d, want 2 (SpindleSpeed then SpindleState)", len(msgs))
	}
	speed, ok := msgs[0].(SpindleSpeed)
	if !ok {
		t.Fatalf("msgs[0] = %+v, want SpindleSpeed", msgs[0])
	}
	if speed.CSSNumerator == 0 {
		t.Error("SpindleOn should recompute a non-zero CSS numerator once CSS is active")
	}
	state, ok := msgs[1].(SpindleState)
	if !ok || !state.On || !state.Clockwise {
		t.Errorf("msgs[1] = %+v, want SpindleState{On:true, Clockwise:true}", msgs[1])
	}
}

func TestSpindleOffEmitsCSSCompanionMessageWhenActive(t *testing.T) {
	e := newTestEngine()
	e.SetSpindleMode(200)
	e.SetSpindleSpeed(800)
	e.SpindleOn(true)
	n := len(messagesOf(e)) // skip the messages emitted so far; the list accumulates

	e.SpindleOff()
	msgs := messagesOf(e)[n:]
	if len(msgs) != 2 {
		t.Fatalf("len(msgs) = %d, want 2 (SpindleSpeed then SpindleState)", len(msgs))
	}
	if _, ok := msgs[0].(SpindleSpeed); !ok {
		t.Errorf("msgs[0] = %+v, want SpindleSpeed", msgs[0])
	}
	state, ok := msgs[1].(SpindleState)
	if !ok || state.On {
		t.Errorf("msgs[1] = %+v, want SpindleState{On:false}", msgs[1])
	}
}

func TestSpindleOnNoCSSCompanionMessageWhenInactive(t *testing.T) {
	e := newTestEngine()
	e.SpindleOn(true)
	msgs := messagesOf(e)
	if len(msgs) != 1 {
		t.Fatalf("len(msgs) = %d, want 1 (SpindleState only, CSS inactive)", len(msgs))
	}
	if _, ok := msgs[0].(SpindleState); !ok {
		t.Errorf("msgs[0] = %+v, want SpindleState", msgs[0])
	}
}

func TestToolTableRoundTripProgramUnits(t *testing.T) {
	e := newTestEngine()
	e.SetLengthUnits(Inches)
	e.SetToolTableEntry(3, ToolTableEntry{ToolNo: 7, Offset: Pose{Z: 25.4}, Diameter: 6.35})

	got := e.GetExternalToolTable(3)
	if got.ToolNo != 7 {
		t.Fatalf("ToolNo = %d, want 7", got.ToolNo)
	}
	if got.Offset.Z != 1 {
		t.Errorf("Offset.Z in program units (inches) = %v, want 1 (25.4mm stored -> 1in)", got.Offset.Z)
	}
}

func TestToolTableOutOfRangePocket(t *testing.T) {
	e := newTestEngine()
	got := e.GetExternalToolTable(99)
	if got.ToolNo != -1 {
		t.Errorf("ToolNo for unset pocket = %d, want -1", got.ToolNo)
	}
}

func TestChangeToolEmitsChangeThenNumber(t *testing.T) {
	e := newTestEngine()
	e.SetToolTableEntry(2, ToolTableEntry{ToolNo: 9})
	e.ChangeTool(2)
	msgs := messagesOf(e)
	if len(msgs) != 2 {
		t.Fatalf("len(msgs) = %d, want 2", len(msgs))
	}
	if msgs[0].header().Type != MsgToolChange {
		t.Errorf("msgs[0].Type = %v, want MsgToolChange", msgs[0].header().Type)
	}
	tn, ok := msgs[1].(ToolSetNumber)
	if !ok || tn.Tool != 9 {
		t.Errorf("msgs[1] = %+v, want ToolSetNumber{Tool: 9}", msgs[1])
	}
}
