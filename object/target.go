package object

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/golang/geo/r3"
)

// TargetConstraint narrows how a Target's orientation should be
// honored by the planner; nil/zero means no constraint beyond reaching
// Point.
type TargetConstraint struct {
	// Axis, when non-zero, is the attachment axis the planner should
	// try to align with Orientation (spec §4.6 step 7).
	Axis r3.Vector
}

// Target is a Cartesian motion target in world coordinates, per spec §3.
type Target struct {
	Point       r3.Vector
	Orientation mgl32.Quat
	Constraint  *TargetConstraint
}
