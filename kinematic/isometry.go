package kinematic

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/golang/geo/r3"
)

// Isometry is a rigid transform: a rotation followed by a translation.
type Isometry struct {
	Translation r3.Vector
	Rotation    mgl32.Quat
}

// IdentityIsometry is the identity transform.
func IdentityIsometry() Isometry {
	return Isometry{Rotation: mgl32.QuatIdent()}
}

// NewIsometry builds an isometry from a translation and rotation.
func NewIsometry(translation r3.Vector, rotation mgl32.Quat) Isometry {
	return Isometry{Translation: translation, Rotation: rotation}
}

func toVec3(v r3.Vector) mgl32.Vec3 {
	return mgl32.Vec3{float32(v.X), float32(v.Y), float32(v.Z)}
}

func fromVec3(v mgl32.Vec3) r3.Vector {
	return r3.Vector{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])}
}

// Transform applies the isometry to a point: rotate then translate.
func (i Isometry) Transform(p r3.Vector) r3.Vector {
	rotated := i.Rotation.Rotate(toVec3(p))
	return fromVec3(rotated).Add(i.Translation)
}

// Compose returns the isometry equivalent to applying i then o, i.e.
// "i followed by o" in the world-location sense used by §4.3: a
// segment's world isometry is its parent's isometry composed with its
// own relative isometry.
func (i Isometry) Compose(o Isometry) Isometry {
	return Isometry{
		Translation: i.Transform(o.Translation),
		Rotation:    i.Rotation.Mul(o.Rotation),
	}
}
