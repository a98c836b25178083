package canon

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPoseAtWithRoundTrip(t *testing.T) {
	var p Pose
	for axis := 0; axis < numAxes; axis++ {
		p = p.With(axis, float64(axis+1))
	}
	for axis := 0; axis < numAxes; axis++ {
		if got, want := p.At(axis), float64(axis+1); got != want {
			t.Errorf("axis %d: At() = %v, want %v", axis, got, want)
		}
	}
}

func TestPoseAtPanicsOutOfRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for out-of-range axis")
		}
	}()
	Pose{}.At(99)
}

func TestPoseAddSubInverse(t *testing.T) {
	a := Pose{X: 1, Y: 2, Z: 3, A: 4, B: 5, C: 6, U: 7, V: 8, W: 9}
	b := Pose{X: 0.5, Y: -1, Z: 2, A: 1, B: 1, C: 1, U: 1, V: 1, W: 1}
	got := a.Add(b).Sub(b)
	if diff := cmp.Diff(a, got); diff != "" {
		t.Errorf("Add then Sub did not round trip (-want +got):\n%s", diff)
	}
}

func TestIsLinearAxis(t *testing.T) {
	linear := map[int]bool{
		AxisX: true, AxisY: true, AxisZ: true,
		AxisA: false, AxisB: false, AxisC: false,
		AxisU: true, AxisV: true, AxisW: true,
	}
	for axis, want := range linear {
		if got := IsLinearAxis(axis); got != want {
			t.Errorf("IsLinearAxis(%d) = %v, want %v", axis, got, want)
		}
	}
}

func TestLengthUnitRoundTrip(t *testing.T) {
	for _, u := range []LengthUnits{Millimeters, Inches, Centimeters} {
		p := Pose{X: 10, Y: 20, Z: 30, A: 45, U: 1, V: 2, W: 3}
		internal := fromProgramLengths(p, u)
		back := toProgramLengths(internal, u)
		if diff := cmp.Diff(p, back, cmp.Comparer(func(a, b float64) bool {
			return math.Abs(a-b) < 1e-9
		})); diff != "" {
			t.Errorf("unit %v: round trip mismatch (-want +got):\n%s", u, diff)
		}
	}
}

func TestRotateXYRoundTrip(t *testing.T) {
	x, y := 3.0, 4.0
	for _, theta := range []float64{0, 30, 90, 180, -45, 359} {
		rx, ry := rotateXY(x, y, theta)
		bx, by := rotateXY(rx, ry, -theta)
		if math.Abs(bx-x) > 1e-9 || math.Abs(by-y) > 1e-9 {
			t.Errorf("theta=%v: rotate round trip = (%v, %v), want (%v, %v)", theta, bx, by, x, y)
		}
	}
}

func TestRotateAndOffsetInverse(t *testing.T) {
	p := Pose{X: 12, Y: -4, Z: 7, A: 15, U: 1}
	origin := Pose{X: 1, Y: 2, Z: 3}
	toolOffset := Pose{Z: 5}
	for _, theta := range []float64{0, 37.5, -90} {
		fwd := rotateAndOffset(p, theta, origin, toolOffset)
		back := unoffsetAndUnrotate(fwd, theta, origin, toolOffset)
		if diff := cmp.Diff(p, back, cmp.Comparer(func(a, b float64) bool {
			return math.Abs(a-b) < 1e-9
		})); diff != "" {
			t.Errorf("theta=%v: rotateAndOffset/unoffsetAndUnrotate did not invert (-want +got):\n%s", theta, diff)
		}
	}
}
