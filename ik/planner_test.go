package ik_test

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/laixer/glonax/glonaxerr"
	"github.com/laixer/glonax/ik"
	"github.com/laixer/glonax/kinematic"
	"github.com/laixer/glonax/object"
)

func newExcavator() *kinematic.Actor {
	ident := mgl32.QuatIdent()
	return kinematic.NewActorBuilder("excavator").
		AttachRigid("root", kinematic.IdentityIsometry()).
		AttachRigid("boom", kinematic.NewIsometry(r3.Vector{X: 0, Y: 0, Z: 1.295}, ident)).
		AttachRigid("arm", kinematic.NewIsometry(r3.Vector{X: 6.0, Y: 0, Z: 0}, ident)).
		AttachRigid("attachment", kinematic.NewIsometry(r3.Vector{X: 2.97, Y: 0, Z: 0}, ident)).
		Build()
}

// TestSolveMatchesScenario2 reproduces spec §8 scenario 2's geometry:
// θ1 = acos((6² + 5² − 2.97²)/(2·6·5)) ≈ 0.5163 and
// θ0 = acos((6² + 2.97² − 5²)/(2·6·2.97)) ≈ 0.9811, so the arm angle is
// −(π − θ0) ≈ −2.1605.
func TestSolveMatchesScenario2(t *testing.T) {
	excavator := newExcavator()

	target := object.Target{Point: r3.Vector{X: 5.0, Y: 0.0, Z: 1.295}}

	result, err := ik.Solve(excavator, target)
	test.That(t, err, test.ShouldBeNil)

	test.That(t, float64(result.Errors[object.ActuatorSlew]), test.ShouldAlmostEqual, 0.0, 1e-4)
	test.That(t, float64(result.Errors[object.ActuatorBoom]), test.ShouldAlmostEqual, 0.5163, 1e-3)
	test.That(t, float64(result.Errors[object.ActuatorArm]), test.ShouldAlmostEqual, -2.1605, 1e-3)
}

// TestSolveReportsUnreachable covers the reachability edge case: a
// target farther than L1+L2 from the boom origin.
func TestSolveReportsUnreachable(t *testing.T) {
	excavator := newExcavator()

	target := object.Target{Point: r3.Vector{X: 100, Y: 0, Z: 1.295}}

	_, err := ik.Solve(excavator, target)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err, test.ShouldEqual, glonaxerr.ErrUnreachable)
}

// TestShortestRotationMatchesScenario6 reproduces spec §8 scenario 6.
func TestShortestRotationMatchesScenario6(t *testing.T) {
	delta := (10 - 200) * math.Pi / 180
	got := ik.ShortestRotation(float32(delta))
	want := 170 * math.Pi / 180
	test.That(t, float64(got), test.ShouldAlmostEqual, want, 1e-3)
}

// TestShortestRotationStaysInRange checks the testable property in
// §8: the result lies in (−π, π] and is congruent to the input mod 2π.
func TestShortestRotationStaysInRange(t *testing.T) {
	for _, delta := range []float32{0, 0.1, 3.0, -3.0, 6.5, -6.5, math.Pi, -math.Pi} {
		got := ik.ShortestRotation(delta)
		test.That(t, got > -math.Pi-1e-4 && got <= math.Pi+1e-4, test.ShouldBeTrue)

		diff := math.Mod(float64(got-delta)+4*math.Pi, 2*math.Pi)
		test.That(t, diff < 1e-3 || diff > 2*math.Pi-1e-3, test.ShouldBeTrue)
	}
}
