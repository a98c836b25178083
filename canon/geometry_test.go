package canon

import (
	"math"
	"testing"
)

func TestChordDeviationFullCircleSaturatesAtDiameter(t *testing.T) {
	got := chordDeviation(5, 2*math.Pi)
	if math.Abs(got-10) > 1e-9 {
		t.Errorf("chordDeviation(5, 2pi) = %v, want 10 (2r)", got)
	}
}

func TestChordDeviationZeroSweepIsZero(t *testing.T) {
	if got := chordDeviation(5, 0); got != 0 {
		t.Errorf("chordDeviation(5, 0) = %v, want 0", got)
	}
}

func TestArcDegradesNonPositiveToleranceNeverDegrades(t *testing.T) {
	if arcDegrades(100, math.Pi, 0) {
		t.Error("arcDegrades with tolerance 0 should be false")
	}
	if arcDegrades(100, math.Pi, -1) {
		t.Error("arcDegrades with negative tolerance should be false")
	}
}

func TestArcDegradesLargeRadiusSmallSweep(t *testing.T) {
	if arcDegrades(1000, 0.001, 0.01) {
		t.Error("a nearly-flat arc should not degrade against a loose tolerance")
	}
	if !arcDegrades(1, math.Pi, 0.01) {
		t.Error("a tight half-circle on a unit radius should degrade against a tight tolerance")
	}
}

func TestArcSegmentCountAtLeastOne(t *testing.T) {
	if n := arcSegmentCount(100, math.Pi, 1000); n != 1 {
		t.Errorf("arcSegmentCount with a loose tolerance = %d, want 1", n)
	}
	if n := arcSegmentCount(0, math.Pi, 0.01); n != 1 {
		t.Errorf("arcSegmentCount with radius 0 = %d, want 1", n)
	}
	if n := arcSegmentCount(100, math.Pi, 0); n != 1 {
		t.Errorf("arcSegmentCount with tolerance 0 = %d, want 1", n)
	}
}

func TestArcSegmentCountRefinesToTolerance(t *testing.T) {
	// Any n returned must keep the sub-arc's chord deviation within tolerance.
	radius, angle, tol := 10.0, math.Pi, 0.001
	n := arcSegmentCount(radius, angle, tol)
	if n < 2 {
		t.Fatalf("arcSegmentCount(%v, %v, %v) = %d, want several segments for a tight tolerance", radius, angle, tol, n)
	}
	subAngle := angle / float64(n)
	if d := chordDeviation(radius, subAngle); d > tol+1e-12 {
		t.Errorf("chordDeviation of one sub-arc = %v, exceeds tolerance %v", d, tol)
	}
	// n-1 segments must NOT suffice, confirming n is the minimal count.
	subAngleCoarser := angle / float64(n-1)
	if d := chordDeviation(radius, subAngleCoarser); d <= tol {
		t.Errorf("chordDeviation with one fewer segment = %v, unexpectedly within tolerance %v (n=%d not minimal)", d, tol, n)
	}
}

func TestSolveBiarcJointDegenerateZeroLengthChord(t *testing.T) {
	p := Pose{X: 1, Y: 2, Z: 3}
	tangent := Pose{X: 1}
	if _, ok := solveBiarcJoint(p, p, tangent, tangent); ok {
		t.Error("solveBiarcJoint with a zero-length chord should return ok=false")
	}
}

func TestSolveBiarcJointParallelTangentsJoinAtChordMidpoint(t *testing.T) {
	// a = 2*(tStart.tEnd - 1) == 0 for identical unit tangents: the
	// quadratic degenerates to the linear b*beta+c=0, which for a
	// straight-line pair of parallel tangents along the chord itself
	// places the join at the chord's midpoint.
	start := Pose{X: 0}
	end := Pose{X: 10}
	tangent := Pose{X: 1}
	joint, ok := solveBiarcJoint(start, end, tangent, tangent)
	if !ok {
		t.Fatal("solveBiarcJoint with parallel tangents along the chord should succeed via the linear fallback")
	}
	if math.Abs(joint.Point.X-5) > 1e-9 {
		t.Errorf("joint.Point.X = %v, want 5 (chord midpoint)", joint.Point.X)
	}
}

func TestSolveBiarcJointRejectsDoublyDegenerateSystem(t *testing.T) {
	// a == 0 (parallel tangents) and b == 0 (chord perpendicular to the
	// tangents): the linear fallback b*beta+c=0 has no solution.
	start := Pose{X: 0, Y: 0}
	end := Pose{X: 0, Y: 5}
	tangent := Pose{X: 1}
	if _, ok := solveBiarcJoint(start, end, tangent, tangent); ok {
		t.Error("solveBiarcJoint should return ok=false when both a and b vanish")
	}
}

func TestSolveBiarcJointRejectsNegativeDiscriminant(t *testing.T) {
	tStart := Pose{X: 1.5, Y: 1}
	tEnd := Pose{X: 1.5, Y: -1}
	start := Pose{X: 0, Y: 0}
	end := Pose{X: 0, Y: 1}
	if _, ok := solveBiarcJoint(start, end, tStart, tEnd); ok {
		t.Error("solveBiarcJoint should return ok=false for a negative discriminant")
	}
}

func TestSolveBiarcJointRejectsBothRootsPositive(t *testing.T) {
	tStart := Pose{X: 2}
	tEnd := Pose{X: 2}
	start := Pose{X: 0}
	end := Pose{X: 1}
	if _, ok := solveBiarcJoint(start, end, tStart, tEnd); ok {
		t.Error("solveBiarcJoint should return ok=false when both quadratic roots are positive")
	}
}

func TestSolveBiarcJointAcceptedCaseSatisfiesQuadraticAndJointFormula(t *testing.T) {
	start := Pose{X: 0, Y: 0}
	end := Pose{X: 1, Y: 1}
	tStart := Pose{X: 1, Y: 0}
	tEnd := Pose{X: 0, Y: 1}

	joint, ok := solveBiarcJoint(start, end, tStart, tEnd)
	if !ok {
		t.Fatal("solveBiarcJoint should succeed for perpendicular tangents on a diagonal chord")
	}

	v := start.Sub(end)
	a := 2 * (dot3(tStart, tEnd) - 1)
	sumT := Pose{X: tStart.X + tEnd.X, Y: tStart.Y + tEnd.Y, Z: tStart.Z + tEnd.Z}
	b := 2 * dot3(v, sumT)
	c := dot3(v, v)
	if lhs := a*joint.Beta*joint.Beta + b*joint.Beta + c; math.Abs(lhs) > 1e-9 {
		t.Errorf("a*beta^2+b*beta+c = %v, want ~0 (beta=%v)", lhs, joint.Beta)
	}

	aim0 := Pose{X: start.X + joint.Beta*tStart.X, Y: start.Y + joint.Beta*tStart.Y, Z: start.Z + joint.Beta*tStart.Z}
	aim1 := Pose{X: end.X - joint.Beta*tEnd.X, Y: end.Y - joint.Beta*tEnd.Y, Z: end.Z - joint.Beta*tEnd.Z}
	want := Pose{X: (aim0.X + aim1.X) / 2, Y: (aim0.Y + aim1.Y) / 2, Z: (aim0.Z + aim1.Z) / 2}
	if joint.Point != want {
		t.Errorf("joint.Point = %+v, want midpoint of the two tangent-ray aim points = %+v", joint.Point, want)
	}
}

func TestSolveHalfArcCenterQuarterCircle(t *testing.T) {
	// Unit circle centered on the origin: starting at (1,0) tangent to +Y
	// reaches the quarter-circle point (0,1) after a 90-degree CCW turn.
	p := Pose{X: 1, Y: 0}
	tangent := Pose{X: 0, Y: 1}
	j := Pose{X: 0, Y: 1}

	center, normal, ok := solveHalfArcCenter(p, tangent, j)
	if !ok {
		t.Fatal("solveHalfArcCenter should succeed for a valid quarter-circle construction")
	}
	if math.Abs(center.X) > 1e-9 || math.Abs(center.Y) > 1e-9 {
		t.Errorf("center = %+v, want (0,0)", center)
	}
	if math.Abs(normal.Z-1) > 1e-9 {
		t.Errorf("normal = %+v, want (0,0,1)", normal)
	}
}

func TestSolveHalfArcCenterParallelChordDegenerates(t *testing.T) {
	p := Pose{X: 0, Y: 0}
	tangent := Pose{X: 1, Y: 0}
	j := Pose{X: 5, Y: 0} // chord parallel to tangent: infinite radius
	if _, _, ok := solveHalfArcCenter(p, tangent, j); ok {
		t.Error("solveHalfArcCenter should return ok=false when the chord is parallel to the tangent")
	}
}

func TestArcChordDeviationQuarterCircleIsNonZero(t *testing.T) {
	// Start (5,0), end (0,5), center (0,0): a CCW quarter circle. Its
	// chord deviation must be well below the full-circle saturation value.
	dev, mid1, mid2, ok := arcChordDeviation(5, 0, 0, 5, 0, 0, 1)
	if !ok {
		t.Fatal("arcChordDeviation should succeed for a non-degenerate radius")
	}
	if dev <= 0 || dev >= 10 {
		t.Errorf("deviation = %v, want in (0, 10) for a quarter circle of radius 5", dev)
	}
	if midR := math.Hypot(mid1, mid2); math.Abs(midR-5) > 1e-9 {
		t.Errorf("midpoint radius = %v, want 5 (on the arc)", midR)
	}
}

func TestArcChordDeviationZeroRadiusDegenerates(t *testing.T) {
	if _, _, _, ok := arcChordDeviation(0, 0, 0, 0, 0, 0, 1); ok {
		t.Error("arcChordDeviation should return ok=false for a zero-radius arc")
	}
}

func TestNormalize3ZeroVectorReturnsZeroPose(t *testing.T) {
	if got := normalize3(Pose{}); got != (Pose{}) {
		t.Errorf("normalize3(zero) = %+v, want zero Pose", got)
	}
}

func TestNormalize3UnitLength(t *testing.T) {
	got := normalize3(Pose{X: 3, Y: 4})
	length := math.Sqrt(got.X*got.X + got.Y*got.Y)
	if math.Abs(length-1) > 1e-9 {
		t.Errorf("normalize3({3,4}) has length %v, want 1", length)
	}
	if math.Abs(got.X-0.6) > 1e-9 || math.Abs(got.Y-0.8) > 1e-9 {
		t.Errorf("normalize3({3,4}) = %+v, want {0.6, 0.8}", got)
	}
}
