// Package canon implements the canonical motion front-end that sits between
// a G-code interpreter and a downstream trajectory-execution queue.  It
// translates canonical commands (traverses, feeds, arcs, splines, dwells,
// spindle and coolant changes, tool offsets, I/O sync) into trajectory
// messages appended, in strict generation order, to an interpreter list.
//
// Nothing in this package spawns a goroutine or blocks on I/O; every
// dispatch function runs synchronously on the caller, matching the
// single-threaded cooperative model of the interpreter that drives it.
package canon

import "math"

// Axis indices into a Pose, matching the bit positions used by AxisMask.
const (
	AxisX = iota
	AxisY
	AxisZ
	AxisA
	AxisB
	AxisC
	AxisU
	AxisV
	AxisW
	numAxes = 9
)

// epsilon is the smallest delta considered as motion on an axis.
const epsilon = 1e-7

// Pose holds the nine canonical coordinates.  X, Y, Z, U, V, W are lengths
// (millimeters internally); A, B, C are angles (degrees internally).
type Pose struct {
	X, Y, Z float64
	A, B, C float64
	U, V, W float64
}

// At returns the coordinate of Pose for the given axis index.
func (p Pose) At(axis int) float64 {
	switch axis {
	case AxisX:
		return p.X
	case AxisY:
		return p.Y
	case AxisZ:
		return p.Z
	case AxisA:
		return p.A
	case AxisB:
		return p.B
	case AxisC:
		return p.C
	case AxisU:
		return p.U
	case AxisV:
		return p.V
	case AxisW:
		return p.W
	default:
		panic("canon: axis index out of range")
	}
}

// With returns a copy of p with the given axis set to v.
func (p Pose) With(axis int, v float64) Pose {
	switch axis {
	case AxisX:
		p.X = v
	case AxisY:
		p.Y = v
	case AxisZ:
		p.Z = v
	case AxisA:
		p.A = v
	case AxisB:
		p.B = v
	case AxisC:
		p.C = v
	case AxisU:
		p.U = v
	case AxisV:
		p.V = v
	case AxisW:
		p.W = v
	default:
		panic("canon: axis index out of range")
	}
	return p
}

// IsLinearAxis reports whether axis indexes one of X, Y, Z, U, V, W.
func IsLinearAxis(axis int) bool {
	switch axis {
	case AxisX, AxisY, AxisZ, AxisU, AxisV, AxisW:
		return true
	default:
		return false
	}
}

// Sub returns p - o, component-wise.
func (p Pose) Sub(o Pose) Pose {
	return Pose{
		X: p.X - o.X, Y: p.Y - o.Y, Z: p.Z - o.Z,
		A: p.A - o.A, B: p.B - o.B, C: p.C - o.C,
		U: p.U - o.U, V: p.V - o.V, W: p.W - o.W,
	}
}

// Add returns p + o, component-wise.
func (p Pose) Add(o Pose) Pose {
	return Pose{
		X: p.X + o.X, Y: p.Y + o.Y, Z: p.Z + o.Z,
		A: p.A + o.A, B: p.B + o.B, C: p.C + o.C,
		U: p.U + o.U, V: p.V + o.V, W: p.W + o.W,
	}
}

// Abs returns the component-wise absolute value of p.
func (p Pose) Abs() Pose {
	return Pose{
		X: math.Abs(p.X), Y: math.Abs(p.Y), Z: math.Abs(p.Z),
		A: math.Abs(p.A), B: math.Abs(p.B), C: math.Abs(p.C),
		U: math.Abs(p.U), V: math.Abs(p.V), W: math.Abs(p.W),
	}
}

// LengthUnits is the program-side length unit in effect.
type LengthUnits int

const (
	// Millimeters is the internal length unit; programs using it need no
	// conversion on the way in or out.
	Millimeters LengthUnits = iota
	Inches
	Centimeters
)

// lengthScale returns the factor that converts a length from program units
// to internal (mm) units.
func lengthScale(u LengthUnits) float64 {
	switch u {
	case Inches:
		return 25.4
	case Centimeters:
		return 10
	default:
		return 1
	}
}

// fromProgramLengths scales only the length-valued coordinates of p by the
// program->internal conversion factor for u; angles are untouched.
func fromProgramLengths(p Pose, u LengthUnits) Pose {
	s := lengthScale(u)
	p.X *= s
	p.Y *= s
	p.Z *= s
	p.U *= s
	p.V *= s
	p.W *= s
	return p
}

// toProgramLengths is the inverse of fromProgramLengths.
func toProgramLengths(p Pose, u LengthUnits) Pose {
	s := lengthScale(u)
	p.X /= s
	p.Y /= s
	p.Z /= s
	p.U /= s
	p.V /= s
	p.W /= s
	return p
}

// rotateXY rotates the X,Y pair of p by theta degrees about the origin.
func rotateXY(x, y, thetaDeg float64) (float64, float64) {
	if thetaDeg == 0 {
		return x, y
	}
	r := thetaDeg * math.Pi / 180
	sin, cos := math.Sincos(r)
	return x*cos - y*sin, x*sin + y*cos
}
