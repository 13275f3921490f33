package kinematic

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

func acos32(x float32) float32 {
	return float32(math.Acos(float64(x)))
}

// RotationAngle recovers the rotation angle (in radians, [0, 2π)) a
// unit quaternion encodes. mathgl's Quat type stores W directly but
// does not expose an angle accessor, so this reconstructs it the
// standard way: angle = 2*acos(W).
func RotationAngle(q mgl32.Quat) float32 {
	w := q.W
	if w > 1 {
		w = 1
	} else if w < -1 {
		w = -1
	}
	angle := 2 * acos32(w)
	return normalizeAngle(angle)
}

// RotationAxis recovers the normalized rotation axis a unit quaternion
// encodes.
func RotationAxis(q mgl32.Quat) mgl32.Vec3 {
	return q.V.Normalize()
}

// SignedAngleAboutAxis recovers the signed rotation angle q encodes
// about a known single-turn axis (e.g. a joint's configured hinge
// axis), rather than RotationAngle's unsigned [0, 2π) magnitude. It
// assumes q's own rotation axis is parallel or antiparallel to axis,
// which holds for any rotation built by composing increments about a
// fixed joint axis (spec §4.3's AddRelativeRotation usage).
func SignedAngleAboutAxis(q mgl32.Quat, axis mgl32.Vec3) float32 {
	axis = axis.Normalize()
	halfSin := q.V.Dot(axis)
	return 2 * float32(math.Atan2(float64(halfSin), float64(q.W)))
}

func normalizeAngle(a float32) float32 {
	const tau = 2 * 3.14159265358979323846
	for a < 0 {
		a += tau
	}
	for a >= tau {
		a -= tau
	}
	return a
}
