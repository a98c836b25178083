package canon

import "math"

// sentinel is the "this axis does not move" placeholder used when folding
// per-axis limits into a single envelope value: +infinity, represented as
// 1e9 per §4.2, so it never constrains the minimum.
const sentinel = 1e9

// LimitSource supplies per-axis kinematic limits from the external axis
// configuration service.  Implementations may cache results between
// dispatches, but must reflect configuration changes across a call to
// Engine.InitCanon.  See the axisconfig package for the concrete client.
type LimitSource interface {
	MaxVelocity(axis int) (float64, error)
	MaxAcceleration(axis int) (float64, error)
	MaxJerk(axis int) (float64, error)
}

// Envelope is the kinematic envelope derived for a proposed move: the
// largest velocity/acceleration/jerk triple that no participating axis
// exceeds.
type Envelope struct {
	Velocity     float64
	Acceleration float64
	Jerk         float64
	Category     MoveCategory
}

// delta holds the per-axis magnitude of motion for a proposed move, zeroed
// for axes absent from the mask or moving by less than epsilon.
type delta struct {
	d        [numAxes]float64
	anyLin   bool
	anyAng   bool
}

func computeDelta(from, to Pose, mask AxisMask) delta {
	var out delta
	for axis := 0; axis < numAxes; axis++ {
		if !mask.Enabled(axis) {
			continue
		}
		d := math.Abs(to.At(axis) - from.At(axis))
		if d < epsilon {
			continue
		}
		out.d[axis] = d
		if IsLinearAxis(axis) {
			out.anyLin = true
		} else {
			out.anyAng = true
		}
	}
	return out
}

// classify implements the table in §4.2: any linear delta with no angular
// delta is Linear; the reverse is Angular; both present is Combined;
// neither is Degenerate.
func (d delta) classify() MoveCategory {
	switch {
	case d.anyLin && d.anyAng:
		return Combined
	case d.anyLin:
		return Linear
	case d.anyAng:
		return Angular
	default:
		return Degenerate
	}
}

// axisLimit looks up one of the three limit kinds for axis from src,
// falling back to the sentinel (and swallowing the error, which a caller
// unable to reach the axis configuration service will see as "no limit
// known") when the lookup fails.
func axisLimit(src LimitSource, axis int, kind int) float64 {
	var (
		v   float64
		err error
	)
	switch kind {
	case 0:
		v, err = src.MaxVelocity(axis)
	case 1:
		v, err = src.MaxAcceleration(axis)
	default:
		v, err = src.MaxJerk(axis)
	}
	if err != nil {
		return sentinel
	}
	return v
}

// minOverMovingAxes returns the minimum of kind (0=vel,1=acc,2=jerk) over
// every axis in the supplied index set that actually moves (non-zero
// delta), defaulting to sentinel for axes that do not participate so a
// fully-stationary group never constrains the result.
func minOverMovingAxes(src LimitSource, d delta, kind int, axes []int) float64 {
	min := sentinel
	for _, axis := range axes {
		if d.d[axis] == 0 {
			continue
		}
		v := axisLimit(src, axis, kind)
		if v < min {
			min = v
		}
	}
	return min
}

var linearAxes = []int{AxisX, AxisY, AxisZ, AxisU, AxisV, AxisW}
var angularAxes = []int{AxisA, AxisB, AxisC}

// DeriveEnvelope computes the kinematic envelope for a move from `from` to
// `to` (both internal units), given the axis mask and limit source in
// effect.  The envelope is the minimum, across every moving axis, of that
// axis's max velocity/acceleration/jerk; for a Combined move the final
// value is the minimum of the linear-axis minimum and the angular-axis
// minimum, a deliberately conservative bound (§4.2).
func DeriveEnvelope(from, to Pose, mask AxisMask, src LimitSource) Envelope {
	d := computeDelta(from, to, mask)
	cat := d.classify()

	if cat == Degenerate {
		return Envelope{Category: Degenerate}
	}

	linVel := minOverMovingAxes(src, d, 0, linearAxes)
	linAcc := minOverMovingAxes(src, d, 1, linearAxes)
	linJerk := minOverMovingAxes(src, d, 2, linearAxes)

	angVel := minOverMovingAxes(src, d, 0, angularAxes)
	angAcc := minOverMovingAxes(src, d, 1, angularAxes)
	angJerk := minOverMovingAxes(src, d, 2, angularAxes)

	var env Envelope
	env.Category = cat
	switch cat {
	case Linear:
		env.Velocity, env.Acceleration, env.Jerk = linVel, linAcc, linJerk
	case Angular:
		env.Velocity, env.Acceleration, env.Jerk = angVel, angAcc, angJerk
	case Combined:
		env.Velocity = math.Min(linVel, angVel)
		env.Acceleration = math.Min(linAcc, angAcc)
		env.Jerk = math.Min(linJerk, angJerk)
	}
	return env
}

// ClampFeed applies the feed clamp from §4.2: the effective commanded
// velocity is the smaller of the envelope velocity and the programmed
// feed, where the programmed feed is linearFeedRate for Linear/Combined
// moves and angularFeedRate for pure Angular moves.  A Degenerate move
// returns linearFeedRate unclamped; per the open question in §9 this is
// the documented, intentional no-motion price, not a bug.
func ClampFeed(env Envelope, linearFeedRate, angularFeedRate float64) float64 {
	switch env.Category {
	case Angular:
		return math.Min(env.Velocity, angularFeedRate)
	case Linear, Combined:
		return math.Min(env.Velocity, linearFeedRate)
	default:
		return linearFeedRate
	}
}
