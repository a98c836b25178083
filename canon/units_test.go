package canon

import "testing"

func TestToExternalFromExternalRoundTrip(t *testing.T) {
	p := Pose{X: 10, Y: 20, Z: 30, A: 90, B: 45, C: 180, U: 1, V: 2, W: 3}
	ext := toExternal(p, 0.001, 2) // internal mm -> external meters, degrees -> half-turns
	got := fromExternal(ext, 0.001, 2)
	if got != p {
		t.Errorf("fromExternal(toExternal(p)) = %+v, want %+v", got, p)
	}
}

func TestFromExternalZeroScaleDefaultsToOne(t *testing.T) {
	p := Pose{X: 5, A: 10}
	got := fromExternal(p, 0, 0)
	if got != p {
		t.Errorf("fromExternal with zero scales = %+v, want %+v (identity)", got, p)
	}
}

func TestToExternalAppliesLengthOnlyToLinearAxes(t *testing.T) {
	p := Pose{X: 1, A: 1}
	got := toExternal(p, 10, 1)
	if got.X != 10 {
		t.Errorf("toExternal X = %v, want 10", got.X)
	}
	if got.A != 1 {
		t.Errorf("toExternal A = %v, want 1 (angle scale is 1, unaffected by length scale)", got.A)
	}
}

func TestRotateAndOffsetThenUnoffsetAndUnrotateIsIdentity(t *testing.T) {
	p := Pose{X: 10, Y: 5, Z: 1}
	origin := Pose{X: 1, Y: 2, Z: 3}
	toolOffset := Pose{Z: 0.5}
	xyRotation := 30.0

	offset := rotateAndOffset(p, xyRotation, origin, toolOffset)
	got := unoffsetAndUnrotate(offset, xyRotation, origin, toolOffset)

	const eps = 1e-9
	if diff := (got.X - p.X); diff > eps || diff < -eps {
		t.Errorf("round trip X = %v, want %v", got.X, p.X)
	}
	if diff := (got.Y - p.Y); diff > eps || diff < -eps {
		t.Errorf("round trip Y = %v, want %v", got.Y, p.Y)
	}
	if diff := (got.Z - p.Z); diff > eps || diff < -eps {
		t.Errorf("round trip Z = %v, want %v", got.Z, p.Z)
	}
}

func TestFromProgramToProgramRoundTrip(t *testing.T) {
	p := Pose{X: 1, Y: 2, Z: 3}
	internal := fromProgram(p, Inches)
	got := toProgram(internal, Inches)
	const eps = 1e-9
	if d := got.X - p.X; d > eps || d < -eps {
		t.Errorf("round trip X = %v, want %v", got.X, p.X)
	}
	if internal.X != 25.4 {
		t.Errorf("fromProgram(1in) X = %v, want 25.4 (mm)", internal.X)
	}
}
