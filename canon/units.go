package canon

// This file implements §4.1 Units & Offsets: pure transformations over a
// Pose.  Every dispatch function that receives program-unit coordinates
// calls fromProgram then rotateAndOffset, in that order, before any
// envelope or message work; nothing outside this file mixes internal and
// program units in the same expression.

// fromProgram converts a pose expressed in program units (using the
// state's active length unit) into internal units (mm, degrees).
func fromProgram(p Pose, lengthUnits LengthUnits) Pose {
	return fromProgramLengths(p, lengthUnits)
}

// toProgram is the inverse of fromProgram.
func toProgram(p Pose, lengthUnits LengthUnits) Pose {
	return toProgramLengths(p, lengthUnits)
}

// toExternal converts an internal-unit pose to the host's external units,
// as reported by the axis configuration service.
func toExternal(p Pose, externalLength, externalAngle float64) Pose {
	p.X *= externalLength
	p.Y *= externalLength
	p.Z *= externalLength
	p.U *= externalLength
	p.V *= externalLength
	p.W *= externalLength
	p.A *= externalAngle
	p.B *= externalAngle
	p.C *= externalAngle
	return p
}

// fromExternal is the inverse of toExternal.
func fromExternal(p Pose, externalLength, externalAngle float64) Pose {
	if externalLength == 0 {
		externalLength = 1
	}
	if externalAngle == 0 {
		externalAngle = 1
	}
	p.X /= externalLength
	p.Y /= externalLength
	p.Z /= externalLength
	p.U /= externalLength
	p.V /= externalLength
	p.W /= externalLength
	p.A /= externalAngle
	p.B /= externalAngle
	p.C /= externalAngle
	return p
}

// rotate applies a planar rotation of theta degrees about Z to the X,Y pair
// of p, leaving every other coordinate untouched.
func rotate(p Pose, thetaDeg float64) Pose {
	p.X, p.Y = rotateXY(p.X, p.Y, thetaDeg)
	return p
}

// rotateAndOffset rotates p's X,Y by xyRotation degrees, then adds the
// program origin and tool length offset.  This is the standard pipeline
// every positional dispatcher runs a target pose through before computing
// an envelope or emitting a trajectory message.
func rotateAndOffset(p Pose, xyRotation float64, origin, toolOffset Pose) Pose {
	p = rotate(p, xyRotation)
	return p.Add(origin).Add(toolOffset)
}

// unoffsetAndUnrotate is the exact inverse of rotateAndOffset: subtract the
// origin and tool offset, then rotate back by -xyRotation.
func unoffsetAndUnrotate(p Pose, xyRotation float64, origin, toolOffset Pose) Pose {
	p = p.Sub(origin).Sub(toolOffset)
	return rotate(p, -xyRotation)
}
