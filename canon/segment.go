package canon

import "math"

// This file implements §4.3: the Segment Buffer and its collinear-fusion
// predicate.  The buffer is pure data; the orchestration of flush-and-emit
// lives on Engine (dispatch_motion.go), which is the only thing that knows how to
// turn a buffered point into a LinearMove.

// MaxSegmentBufferLen bounds the segment buffer; a buffer at this length is
// never linkable regardless of geometry.
const MaxSegmentBufferLen = 100

// SegmentEntry is one pending feed endpoint awaiting fusion.
type SegmentEntry struct {
	Point Pose
	Line  int
}

// SegmentBuffer is the ordered buffer of pending feed endpoints used by the
// collinear-fusion optimizer.
type SegmentBuffer struct {
	entries []SegmentEntry
}

// Len reports the number of buffered entries.
func (b *SegmentBuffer) Len() int {
	return len(b.entries)
}

// Empty reports whether no fusion candidate is pending.
func (b *SegmentBuffer) Empty() bool {
	return len(b.entries) == 0
}

// Push appends a new entry to the buffer.
func (b *SegmentBuffer) Push(p Pose, line int) {
	b.entries = append(b.entries, SegmentEntry{Point: p, Line: line})
}

// Last returns the most recently buffered entry, and false if the buffer
// is empty.
func (b *SegmentBuffer) Last() (SegmentEntry, bool) {
	if len(b.entries) == 0 {
		return SegmentEntry{}, false
	}
	return b.entries[len(b.entries)-1], true
}

// Entries returns the buffered entries in push order.  The slice is
// shared with the buffer's internal storage and must not be mutated.
func (b *SegmentBuffer) Entries() []SegmentEntry {
	return b.entries
}

// Clear empties the buffer.  After Clear, Empty reports true.
func (b *SegmentBuffer) Clear() {
	b.entries = nil
}

// perpendicularDistance computes the perpendicular distance from point P to
// the line segment spanning base->tip (XYZ only), per §4.3: the projection
// parameter t = <M, P-B> / <M, M> is clamped to [0,1] before computing
// D = |P - (B + t*M)|.
func perpendicularDistance(p, base, tip Pose) float64 {
	mx, my, mz := tip.X-base.X, tip.Y-base.Y, tip.Z-base.Z
	mm := mx*mx + my*my + mz*mz
	if mm < epsilon {
		// base == tip: distance from P to that single point.
		dx, dy, dz := p.X-base.X, p.Y-base.Y, p.Z-base.Z
		return math.Sqrt(dx*dx + dy*dy + dz*dz)
	}
	px, py, pz := p.X-base.X, p.Y-base.Y, p.Z-base.Z
	t := (mx*px + my*py + mz*pz) / mm
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	cx, cy, cz := base.X+t*mx, base.Y+t*my, base.Z+t*mz
	dx, dy, dz := p.X-cx, p.Y-cy, p.Z-cz
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// abcuvwEqual reports whether a,b,c,u,v,w are exactly equal between p and
// o.  §9 preserves the source's exact-equality check deliberately:
// tolerance-based merging across A/B/C/U/V/W must be requested explicitly
// by the caller (e.g. by quantizing upstream), not silently applied here.
func abcuvwEqual(p, o Pose) bool {
	return p.A == o.A && p.B == o.B && p.C == o.C &&
		p.U == o.U && p.V == o.V && p.W == o.W
}

// Linkable reports whether candidate can be fused into buf given the
// motion mode, naive-cam tolerance, and the XYZ/ABC/UVW position the
// buffer run started from (endPoint).  It implements every clause of
// §4.3's linkability predicate except the ABC/UVW-changed special case,
// which dispatch_motion.go handles by pushing before flushing instead of the
// usual flush-then-push order.
func Linkable(mode MotionMode, naivecamTolerance float64, buf *SegmentBuffer, endPoint, candidate Pose) bool {
	if mode != MotionContinuous || naivecamTolerance <= 0 {
		return false
	}
	if buf.Len() >= MaxSegmentBufferLen {
		return false
	}

	reference := endPoint
	if last, ok := buf.Last(); ok {
		reference = last.Point
	}
	if !abcuvwEqual(candidate, reference) {
		return false
	}

	if candidate.X == endPoint.X && candidate.Y == endPoint.Y && candidate.Z == endPoint.Z {
		return false
	}

	for _, e := range buf.Entries() {
		if perpendicularDistance(e.Point, endPoint, candidate) > naivecamTolerance {
			return false
		}
	}
	return true
}
