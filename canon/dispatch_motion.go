package canon

import "math"

// This file implements the motion-dispatch operations of §5/§6: traverse,
// straight feed (with naive-cam fusion through the segment buffer),
// straight probe, rigid tap, arc feed (with chord-deviation degradation),
// and the spline/NURBS biarc emission path.  Every dispatch function takes
// its target in program units, per §4.1's pipeline.  StraightTraverse,
// StraightFeed, StraightProbe and ArcFeed return the internal target they
// committed as CanonicalState.EndPoint; RigidTap leaves EndPoint unchanged.

// flush emits the segment buffer's pending fusion run, if any, as a single
// LinearMove from bufferOrigin to the buffer's last entry, then clears the
// buffer.  Flushing an empty buffer is a no-op, so repeated calls are safe
// (§9's flush-idempotence invariant).
func (e *Engine) flush() {
	if e.Buffer.Empty() {
		return
	}
	last, _ := e.Buffer.Last()
	env := e.deriveEnvelope(e.bufferOrigin, last.Point)
	vel := ClampFeed(env, e.State.LinearFeedRate, e.State.AngularFeedRate)
	if vel == 0 || env.Acceleration == 0 {
		// Zero-velocity/zero-acceleration moves are dropped, not emitted,
		// per §4.3/§7's zero-motion guard.
		e.Buffer.Clear()
		return
	}
	e.emit(LinearMove{
		Header:     Header{Type: MsgLinearMove, Line: last.Line},
		End:        last.Point,
		Vel:        vel,
		IniMaxVel:  env.Velocity,
		Acc:        env.Acceleration,
		IniMaxJerk: env.Jerk,
		FeedMode:   e.State.FeedMode,
	})
	e.Buffer.Clear()
}

// pushOrEmit is the shared entry point for a feed-class move: it either
// folds target into the pending naive-cam fusion run, or flushes the
// pending run and emits target directly, per §4.3.
func (e *Engine) pushOrEmit(target Pose, line int) {
	if e.Buffer.Empty() {
		if Linkable(e.State.MotionMode, e.State.NaivecamTolerance, &e.Buffer, e.State.EndPoint, target) {
			e.bufferOrigin = e.State.EndPoint
			e.Buffer.Push(target, line)
			return
		}
		e.emitLinear(e.State.EndPoint, target, line)
		return
	}

	if Linkable(e.State.MotionMode, e.State.NaivecamTolerance, &e.Buffer, e.bufferOrigin, target) {
		e.Buffer.Push(target, line)
		return
	}

	// target cannot extend the run on the XYZ geometry test. If only its
	// ABC/UVW coordinates changed from the run's last point, §4.3 requires
	// pushing it before flushing so the rotary move itself is not lost to
	// the fusion break. Either way, flush the pending run, then retry
	// target against the now-clean buffer so a plain XYZ break does not
	// silently drop it.
	if last, ok := e.Buffer.Last(); ok && !abcuvwEqual(target, last.Point) {
		e.Buffer.Push(target, line)
		e.flush()
		return
	}
	e.flush()
	e.pushOrEmit(target, line)
}

// emitLinear derives an envelope for a single from->to move and appends a
// LinearMove, bypassing the segment buffer entirely (used for any feed move
// the buffer never had a chance to fuse, and for a degenerate biarc pair).
func (e *Engine) emitLinear(from, to Pose, line int) {
	env := e.deriveEnvelope(from, to)
	vel := ClampFeed(env, e.State.LinearFeedRate, e.State.AngularFeedRate)
	e.emit(LinearMove{
		Header:     Header{Type: MsgLinearMove, Line: line},
		End:        to,
		Vel:        vel,
		IniMaxVel:  env.Velocity,
		Acc:        env.Acceleration,
		IniMaxJerk: env.Jerk,
		FeedMode:   e.State.FeedMode,
	})
}

// StraightTraverse commands an uncoordinated rapid move to target (program
// units).  Traverses never participate in naive-cam fusion: any pending
// fusion run is flushed first.  If spindle-synchronized feed was running,
// it is stopped before the traverse and resumed after, per §4.5; a
// zero-velocity or zero-acceleration traverse is dropped instead of
// emitted, per §4.3/§7's zero-motion guard.
func (e *Engine) StraightTraverse(target Pose) Pose {
	e.flush()
	to := e.toInternal(target)
	line := e.NextLine()
	env := e.deriveEnvelope(e.State.EndPoint, to)
	if env.Velocity == 0 || env.Acceleration == 0 {
		e.State.EndPoint = to
		return to
	}

	wasSynched := e.State.Synched
	if wasSynched {
		e.StopSpindleSynchronization()
	}
	e.emit(LinearMove{
		Header:     Header{Type: MsgTraverse, Line: line},
		End:        to,
		Vel:        env.Velocity,
		IniMaxVel:  env.Velocity,
		Acc:        env.Acceleration,
		IniMaxJerk: env.Jerk,
	})
	if wasSynched {
		e.StartSpindleSynchronization()
	}
	e.State.EndPoint = to
	return to
}

// StraightFeed commands a coordinated feed move to target (program units),
// eligible for naive-cam fusion.
func (e *Engine) StraightFeed(target Pose) Pose {
	to := e.toInternal(target)
	line := e.NextLine()
	e.pushOrEmit(to, line)
	e.State.EndPoint = to
	return to
}

// StraightProbe commands a feed move toward or away from work, reporting
// contact or loss per probeType.  Probe moves always flush any pending
// fusion run first: a probe's stop condition must not be hidden inside a
// fused chain.
func (e *Engine) StraightProbe(target Pose, probeType ProbeType) Pose {
	e.flush()
	to := e.toInternal(target)
	line := e.NextLine()
	env := e.deriveEnvelope(e.State.EndPoint, to)
	vel := ClampFeed(env, e.State.LinearFeedRate, e.State.AngularFeedRate)
	e.emit(Probe{
		Header:     Header{Type: MsgProbe, Line: line},
		End:        to,
		ProbeType:  probeType,
		Vel:        vel,
		IniMaxVel:  env.Velocity,
		Acc:        env.Acceleration,
		IniMaxJerk: env.Jerk,
	})
	e.State.EndPoint = to
	return to
}

// RigidTap commands a spindle-synchronized reciprocating tap to target and
// back; the spindle direction reverses automatically at the bottom, so
// EndPoint is restored to its pre-tap value on return.
func (e *Engine) RigidTap(target Pose) {
	e.flush()
	to := e.toInternal(target)
	line := e.NextLine()
	env := e.deriveEnvelope(e.State.EndPoint, to)
	e.emit(RigidTap{
		Header:     Header{Type: MsgRigidTap, Line: line},
		End:        to,
		Vel:        env.Velocity,
		IniMaxVel:  env.Velocity,
		Acc:        env.Acceleration,
		IniMaxJerk: env.Jerk,
	})
	// EndPoint is unchanged: a rigid tap returns to its start by contract.
}

// planeAxes maps the active plane to its (first, second, third) axis
// indices, following the RS274NGC/LinuxCNC canonical-interface convention:
// PlaneXY -> X,Y,Z; PlaneXZ -> X,Z,Y; PlaneYZ -> Y,Z,X. first/second are
// the arc's in-plane coordinates; third is the axis normal to the plane.
func planeAxes(p Plane) (first, second, third int) {
	switch p {
	case PlaneXZ:
		return AxisX, AxisZ, AxisY
	case PlaneYZ:
		return AxisY, AxisZ, AxisX
	default:
		return AxisX, AxisY, AxisZ
	}
}

// ArcFeed commands ARC_FEED per §4.5/§6: firstEnd/secondEnd is the arc's
// end point in the active plane's two in-plane axes, firstAxis/secondAxis
// its center in those same axes, axisEnd the end point's third-axis
// coordinate, and abcuvw the end point's A,B,C,U,V,W.  rotation is the
// signed canonical turn count: 0 means target is reached by a straight
// move (no curvature), positive is counterclockwise, negative clockwise,
// and |rotation|>1 adds extra full revolutions.
//
// When the active plane is XY, motion is CONTINUOUS, naive-cam fusion is
// enabled, and the arc's chord deviation falls under NaivecamTolerance,
// the arc is degraded into two linked straight feeds through the chord
// midpoint, pushed through the same fusion primitive straight feeds use,
// per §4.5 Step 1.  Otherwise a real CircularMove is emitted (Step 2).
func (e *Engine) ArcFeed(firstEnd, secondEnd, firstAxis, secondAxis float64, rotation int, axisEnd float64, abcuvw Pose) Pose {
	first, second, third := planeAxes(e.State.ActivePlane)

	toProgram := abcuvw.With(first, firstEnd).With(second, secondEnd).With(third, axisEnd)
	centerProgram := Pose{}.With(first, firstAxis).With(second, secondAxis).With(third, axisEnd)

	to := e.toInternal(toProgram)
	c := e.toInternal(centerProgram)
	from := e.State.EndPoint

	if rotation == 0 {
		e.flush()
		line := e.NextLine()
		env := e.deriveEnvelope(from, to)
		vel := ClampFeed(env, e.State.LinearFeedRate, e.State.AngularFeedRate)
		e.emit(LinearMove{
			Header:     Header{Type: MsgLinearMove, Line: line},
			End:        to,
			Vel:        vel,
			IniMaxVel:  env.Velocity,
			Acc:        env.Acceleration,
			IniMaxJerk: env.Jerk,
			FeedMode:   e.State.FeedMode,
		})
		e.State.EndPoint = to
		return to
	}

	if e.State.ActivePlane == PlaneXY && e.State.MotionMode == MotionContinuous && e.State.NaivecamTolerance > 0 {
		dev, mid1, mid2, ok := arcChordDeviation(from.At(first), from.At(second), to.At(first), to.At(second), c.At(first), c.At(second), rotation)
		if ok && dev < e.State.NaivecamTolerance {
			midThird := (from.At(third) + to.At(third)) / 2
			midpoint := to.With(first, mid1).With(second, mid2).With(third, midThird)

			e.pushOrEmit(midpoint, e.NextLine())
			e.State.EndPoint = midpoint
			e.pushOrEmit(to, e.NextLine())
			e.State.EndPoint = to
			return to
		}
	}

	e.flush()
	line := e.NextLine()
	env := e.deriveEnvelope(from, to)
	vel := ClampFeed(env, e.State.LinearFeedRate, e.State.AngularFeedRate)
	turn := rotation - 1
	if rotation < 0 {
		turn = rotation
	}
	normal := rotate(Pose{}.With(third, 1), e.State.XYRotation)
	e.emit(CircularMove{
		Header:     Header{Type: MsgCircularMove, Line: line},
		End:        to,
		Center:     c,
		Normal:     normal,
		Turn:       turn,
		Vel:        vel,
		IniMaxVel:  env.Velocity,
		Acc:        env.Acceleration,
		IniMaxJerk: env.Jerk,
		FeedMode:   e.State.FeedMode,
	})
	e.State.EndPoint = to
	return to
}

// SplinePoint is one Hermite control point of a spline commanded through
// SplineFeed: Point in program units, Tangent a (not necessarily unit)
// direction vector at that point.
type SplinePoint struct {
	Point   Pose
	Tangent Pose
}

// SplineFeed commands a smooth feed through points, approximated as a
// chain of biarcs per §4.5.  A pair whose biarc construction degenerates
// falls back to a single straight chord between that pair's endpoints.
func (e *Engine) SplineFeed(points []SplinePoint) {
	e.flush()
	if len(points) == 0 {
		return
	}
	prev := e.State.EndPoint
	prevTangent := normalize3(e.toInternal(points[0].Point).Sub(prev))
	for _, cp := range points {
		to := e.toInternal(cp.Point)
		tangent := normalize3(fromProgram(cp.Tangent, e.State.LengthUnits))
		e.emitBiarc(prev, to, prevTangent, tangent)
		prev = to
		prevTangent = tangent
	}
	e.State.EndPoint = prev
}

// emitBiarc appends the two ARC_FEED arcs connecting from to to with
// tangents tFrom, tTo, per §4.5: the join point splits the pair so each
// half is tangent to its endpoint's Hermite direction.  Falls back to a
// single LinearMove when the joint solve or either half-arc's center
// construction degenerates (zero-length chord, tangent parallel to its own
// chord, i.e. infinite radius).
func (e *Engine) emitBiarc(from, to, tFrom, tTo Pose) {
	line := e.NextLine()
	joint, ok := solveBiarcJoint(from, to, tFrom, tTo)
	if !ok {
		e.emitLinear(from, to, line)
		return
	}

	c1, n1, ok1 := solveHalfArcCenter(from, tFrom, joint.Point)
	c2, n2, ok2 := solveHalfArcCenter(to, tTo, joint.Point)
	if !ok1 || !ok2 {
		e.emitLinear(from, to, line)
		return
	}

	e.emitArc(from, joint.Point, c1, n1, line)
	e.emitArc(joint.Point, to, c2, n2, e.NextLine())
}

// emitArc derives an envelope for a from->to move and appends a single
// CircularMove about center with the given plane normal, turning no extra
// revolutions (the single-winding case, turn=0).
func (e *Engine) emitArc(from, to, center, normal Pose, line int) {
	env := e.deriveEnvelope(from, to)
	vel := ClampFeed(env, e.State.LinearFeedRate, e.State.AngularFeedRate)
	e.emit(CircularMove{
		Header:     Header{Type: MsgCircularMove, Line: line},
		End:        to,
		Center:     center,
		Normal:     normal,
		Turn:       0,
		Vel:        vel,
		IniMaxVel:  env.Velocity,
		Acc:        env.Acceleration,
		IniMaxJerk: env.Jerk,
		FeedMode:   e.State.FeedMode,
	})
}

// NURBSBlockPoint is one control point or knot of a 3D NURBS curve
// commanded through NURBSFeed.
type NURBSBlockPoint struct {
	Point   Pose
	Weight  float64
	IsKnot  bool
	Knot    float64
	Overlay *float64
}

// NURBSFeed emits a NURBS_FEED_3D block: one NURBSBlock message per control
// point/knot, sharing the curve's order and counts, per §6's supplemented
// NURBS feature.
func (e *Engine) NURBSFeed(points []NURBSBlockPoint, order int) {
	e.flush()
	if len(points) == 0 {
		return
	}
	line := e.NextLine()
	cpCount, knotCount := 0, 0
	for _, p := range points {
		if p.IsKnot {
			knotCount++
		} else {
			cpCount++
		}
	}
	curveLen := nurbsCurveLength(points)
	for _, p := range points {
		internal := e.toInternal(p.Point)
		msg := NURBSBlock{
			Header:            Header{Type: MsgNURBSBlock, Line: line},
			ControlPointCount: cpCount,
			KnotCount:         knotCount,
			Order:             order,
			CurveLength:       curveLen,
			CurrentKnot:       p.Knot,
			Weight:            p.Weight,
			Point:             internal,
			IsKnot:            p.IsKnot,
		}
		if p.Overlay != nil {
			msg.HasOverlay = true
			msg.Overlay = *p.Overlay
		}
		e.emit(msg)
	}
	if last := points[len(points)-1]; !last.IsKnot {
		e.State.EndPoint = e.toInternal(last.Point)
	}
}

// nurbsCurveLength approximates total curve length as the sum of
// consecutive control-point chord lengths; used only to populate the
// informational CurveLength field shared by every emitted block.
func nurbsCurveLength(points []NURBSBlockPoint) float64 {
	var total float64
	var prev Pose
	havePrev := false
	for _, p := range points {
		if p.IsKnot {
			continue
		}
		if havePrev {
			total += math.Hypot(p.Point.X-prev.X, p.Point.Y-prev.Y)
		}
		prev = p.Point
		havePrev = true
	}
	return total
}
