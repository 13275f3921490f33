package encoder_test

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"go.viam.com/test"

	"github.com/laixer/glonax/encoder"
	"github.com/laixer/glonax/kinematic"
)

func TestToRotationAngleMagnitude(t *testing.T) {
	c := encoder.NewConverter(1000, 0.1, false, mgl32.Vec3{0, 0, 1})
	for _, count := range []uint32{0, 100, 500, 900} {
		rot := c.ToRotation(count)
		got := float64(kinematic.RotationAngle(rot))
		want := math.Mod(math.Abs(float64(count)/1000-0.1), 2*math.Pi)
		if want < 0 {
			want += 2 * math.Pi
		}
		test.That(t, got, test.ShouldAlmostEqual, want, 1e-4)
	}
}

func TestInvertDoesNotChangeAngleMagnitude(t *testing.T) {
	forward := encoder.NewConverter(1000, 0, false, mgl32.Vec3{0, 0, 1})
	inverted := encoder.NewConverter(1000, 0, true, mgl32.Vec3{0, 0, 1})

	a := kinematic.RotationAngle(forward.ToRotation(300))
	b := kinematic.RotationAngle(inverted.ToRotation(300))
	test.That(t, float64(a), test.ShouldAlmostEqual, float64(b), 1e-4)
}

// FromRotation is informational only (spec §4.4); it is deterministic
// given a rotation, not required to invert ToRotation exactly across
// the full domain.
func TestFromRotationIsDeterministic(t *testing.T) {
	c := encoder.NewConverter(1000, 0, false, mgl32.Vec3{0, 0, 1})
	rot := c.ToRotation(250)
	a := c.FromRotation(rot)
	b := c.FromRotation(rot)
	test.That(t, a, test.ShouldEqual, b)
}
