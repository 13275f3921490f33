package object

import "github.com/go-gl/mathgl/mgl32"

// RotatorReference discriminates whether a Rotator's rotation is
// absolute (world frame) or relative to the segment's parent.
type RotatorReference int

// Rotator reference frames.
const (
	RotatorAbsolute RotatorReference = iota
	RotatorRelative
)

// Rotator is a sensor-fusion reading: a 3D rotation reported by a
// source address, with the frame it is expressed in, per spec §3.
type Rotator struct {
	Source    uint8
	Rotation  mgl32.Quat
	Reference RotatorReference
}
