// Package encoder implements the raw-counts-to-joint-rotation
// conversion of spec §3/§4.4.
package encoder

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/laixer/glonax/kinematic"
)

// Converter maps raw encoder counts to a joint Rotation3, per the total
// function in spec §3: angle = (count/factor - offset) * (invert ?
// -1 : 1), axis-angle about Axis.
type Converter struct {
	Factor float32
	Offset float32
	Invert bool
	Axis   mgl32.Vec3
}

// NewConverter builds a Converter.
func NewConverter(factor, offset float32, invert bool, axis mgl32.Vec3) Converter {
	return Converter{Factor: factor, Offset: offset, Invert: invert, Axis: axis.Normalize()}
}

// ToRotation converts a raw count into a quaternion rotation about Axis.
func (c Converter) ToRotation(count uint32) mgl32.Quat {
	angle := (float32(count)/c.Factor - c.Offset)
	if c.Invert {
		angle = -angle
	}
	return mgl32.QuatRotate(angle, c.Axis)
}

// FromRotation is the informational inverse used by the simulator to
// round-trip a rotation back into a raw count: one-way conversion is
// the real operating mode, this exists only for test/replay tooling
// (spec §4.4).
func (c Converter) FromRotation(r mgl32.Quat) uint32 {
	angle := kinematic.RotationAngle(r)
	value := (float64(2*math.Pi-angle) + float64(c.Offset)) * float64(c.Factor)
	return uint32(value)
}
