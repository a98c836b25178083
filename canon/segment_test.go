package canon

import "testing"

func TestSegmentBufferPushClearEmpty(t *testing.T) {
	var buf SegmentBuffer
	if !buf.Empty() {
		t.Fatal("new buffer should be empty")
	}
	buf.Push(Pose{X: 1}, 1)
	buf.Push(Pose{X: 2}, 2)
	if buf.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", buf.Len())
	}
	last, ok := buf.Last()
	if !ok || last.Point.X != 2 || last.Line != 2 {
		t.Fatalf("Last() = %+v, %v, want X=2 Line=2 true", last, ok)
	}
	buf.Clear()
	if !buf.Empty() {
		t.Fatal("buffer should be empty after Clear")
	}
	if _, ok := buf.Last(); ok {
		t.Fatal("Last() should report false on empty buffer")
	}
}

func TestPerpendicularDistanceOnLine(t *testing.T) {
	base := Pose{X: 0, Y: 0, Z: 0}
	tip := Pose{X: 10, Y: 0, Z: 0}
	onLine := Pose{X: 5, Y: 0, Z: 0}
	if d := perpendicularDistance(onLine, base, tip); d > 1e-9 {
		t.Errorf("perpendicularDistance on-line = %v, want ~0", d)
	}
	off := Pose{X: 5, Y: 1, Z: 0}
	if d := perpendicularDistance(off, base, tip); d < 0.99 || d > 1.01 {
		t.Errorf("perpendicularDistance off-line = %v, want ~1", d)
	}
}

func TestPerpendicularDistanceDegenerateSegment(t *testing.T) {
	base := Pose{X: 3, Y: 3, Z: 3}
	tip := base
	p := Pose{X: 4, Y: 3, Z: 3}
	if d := perpendicularDistance(p, base, tip); d < 0.99 || d > 1.01 {
		t.Errorf("degenerate segment distance = %v, want ~1", d)
	}
}

func TestLinkableRejectsWhenNotContinuous(t *testing.T) {
	var buf SegmentBuffer
	end := Pose{}
	cand := Pose{X: 1}
	if Linkable(MotionExactStop, 0.01, &buf, end, cand) {
		t.Error("Linkable should be false outside CONTINUOUS mode")
	}
}

func TestLinkableRejectsZeroTolerance(t *testing.T) {
	var buf SegmentBuffer
	end := Pose{}
	cand := Pose{X: 1}
	if Linkable(MotionContinuous, 0, &buf, end, cand) {
		t.Error("Linkable should be false with non-positive tolerance")
	}
}

func TestLinkableRejectsNoMotion(t *testing.T) {
	var buf SegmentBuffer
	end := Pose{X: 1, Y: 1}
	if Linkable(MotionContinuous, 0.01, &buf, end, end) {
		t.Error("Linkable should be false when candidate equals endPoint (no XYZ motion)")
	}
}

func TestLinkableAcceptsCollinearPoint(t *testing.T) {
	var buf SegmentBuffer
	end := Pose{X: 0, Y: 0, Z: 0}
	cand := Pose{X: 10, Y: 0, Z: 0}
	if !Linkable(MotionContinuous, 0.01, &buf, end, cand) {
		t.Error("Linkable should accept first collinear candidate")
	}
}

func TestLinkableRejectsOffAxisPoint(t *testing.T) {
	var buf SegmentBuffer
	end := Pose{X: 0, Y: 0, Z: 0}
	buf.Push(Pose{X: 5, Y: 5, Z: 0}, 1)
	cand := Pose{X: 10, Y: 0, Z: 0}
	if Linkable(MotionContinuous, 0.01, &buf, end, cand) {
		t.Error("Linkable should reject a candidate whose line leaves prior entries outside tolerance")
	}
}

func TestLinkableRejectsBufferAtCapacity(t *testing.T) {
	var buf SegmentBuffer
	end := Pose{X: 0, Y: 0, Z: 0}
	for i := 0; i < MaxSegmentBufferLen; i++ {
		buf.Push(Pose{X: float64(i + 1)}, i)
	}
	cand := Pose{X: float64(MaxSegmentBufferLen + 1)}
	if Linkable(MotionContinuous, 0.01, &buf, end, cand) {
		t.Error("Linkable should reject once the buffer is at MaxSegmentBufferLen")
	}
}

func TestLinkableRejectsABCChange(t *testing.T) {
	var buf SegmentBuffer
	end := Pose{X: 0, Y: 0, Z: 0, A: 0}
	cand := Pose{X: 10, Y: 0, Z: 0, A: 5}
	if Linkable(MotionContinuous, 0.01, &buf, end, cand) {
		t.Error("Linkable should reject when ABC/UVW differs from the reference point")
	}
}
