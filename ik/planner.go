// Package ik implements the inverse-kinematic planner of spec §4.6: a
// closed-form law-of-cosines solve for the four-joint excavator chain
// {Slew, Boom, Arm, Attachment}, grounded on
// glonax-core/src/algorithm/ik.rs.
package ik

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/golang/geo/r3"

	"github.com/laixer/glonax/glonaxerr"
	"github.com/laixer/glonax/kinematic"
	"github.com/laixer/glonax/object"
)

var (
	slewAxis  = mgl32.Vec3{0, 0, 1}
	pitchAxis = mgl32.Vec3{0, 1, 0}
)

// Errors reports the per-actuator angle error the tick pipeline should
// drive toward zero, keyed by actuator enum value (spec §4.6, last
// paragraph).
type Errors map[object.Actuator]float32

// attachmentLowerBound and attachmentUpperBound bracket the warn-only
// band of spec §4.6 step 7: outside this range the attachment solution
// is still returned, never clamped.
const (
	attachmentLowerBound = -55 * math.Pi / 180
	attachmentUpperBound = 125 * math.Pi / 180
)

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func lawOfCosines(a, b, c float32) float32 {
	cos := (a*a + b*b - c*c) / (2 * a * b)
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return float32(math.Acos(float64(cos)))
}

// ShortestRotation reduces a signed angle delta to (−π, π], per spec
// §4.6's tie-break and the testable property in §8.
func ShortestRotation(delta float32) float32 {
	const tau = 2 * math.Pi
	d := float32(math.Mod(float64(delta)+tau, tau))
	if d > math.Pi {
		d -= tau
	}
	return d
}

// Result is the outcome of a successful Solve.
type Result struct {
	Errors Errors
	// AttachmentOutOfRange is set when the optional attachment solve
	// (step 7) falls outside the warn-only band; the solution is still
	// returned, never clamped.
	AttachmentOutOfRange bool
}

// Solve computes actuator errors driving excavator toward target,
// given its current kinematic state. It returns glonaxerr.ErrUnreachable
// itself (unwrapped, with an empty Result and no actuator errors) when
// target lies beyond the boom and arm's combined reach, per spec §4.6.
func Solve(excavator *kinematic.Actor, target object.Target) (Result, error) {
	boomOrigin, err := excavator.WorldLocation("boom")
	if err != nil {
		return Result{}, err
	}
	armOffset, err := excavator.RelativeLocation("arm")
	if err != nil {
		return Result{}, err
	}
	attachmentOffset, err := excavator.RelativeLocation("attachment")
	if err != nil {
		return Result{}, err
	}

	d := target.Point.Sub(boomOrigin)
	targetDistance := float32(d.Norm())

	l1 := abs32(float32(armOffset.X))
	l2 := abs32(float32(attachmentOffset.X))

	if targetDistance > l1+l2 {
		return Result{}, glonaxerr.ErrUnreachable
	}

	slewTarget := float32(math.Atan2(d.Y, d.X))
	pitch := float32(math.Atan2(d.Z, math.Sqrt(d.X*d.X+d.Y*d.Y)))

	theta1 := lawOfCosines(l1, targetDistance, l2)
	boomTarget := theta1 + pitch

	theta0 := lawOfCosines(l1, l2, targetDistance)
	armTarget := -(float32(math.Pi) - theta0)

	rootRotation := excavator.Rotation()
	boomRotation, err := excavator.RelativeRotation("boom")
	if err != nil {
		return Result{}, err
	}
	armRotation, err := excavator.RelativeRotation("arm")
	if err != nil {
		return Result{}, err
	}

	currentSlew := kinematic.SignedAngleAboutAxis(rootRotation, slewAxis)
	currentBoom := kinematic.SignedAngleAboutAxis(boomRotation, pitchAxis)
	currentArm := kinematic.SignedAngleAboutAxis(armRotation, pitchAxis)

	errs := Errors{
		object.ActuatorSlew: ShortestRotation(slewTarget - currentSlew),
		object.ActuatorBoom: boomTarget - currentBoom,
		object.ActuatorArm:  armTarget - currentArm,
	}

	result := Result{Errors: errs}

	if target.Constraint != nil && target.Constraint.Axis != (r3.Vector{}) {
		attachmentRotation, err := excavator.RelativeRotation("attachment")
		if err != nil {
			return Result{}, err
		}
		currentAttachment := kinematic.SignedAngleAboutAxis(attachmentRotation, pitchAxis)

		targetPitch := kinematic.SignedAngleAboutAxis(target.Orientation, pitchAxis)
		rel := targetPitch - (-boomTarget + armTarget)
		errs[object.ActuatorAttachment] = rel - currentAttachment
		result.AttachmentOutOfRange = rel < attachmentLowerBound || rel > attachmentUpperBound
	}

	return result, nil
}
