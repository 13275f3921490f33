package controlloop_test

import (
	"testing"

	"go.viam.com/test"

	"github.com/laixer/glonax/controlloop"
	"github.com/laixer/glonax/object"
)

func TestUpdateSignIsOppositeError(t *testing.T) {
	l := controlloop.NewLinear(15000, 12000, false)
	for _, err := range []float32{0.1, 0.5, -0.1, -0.9} {
		v := l.Update(err)
		if err > 0 {
			test.That(t, v < 0, test.ShouldBeTrue)
		} else {
			test.That(t, v > 0, test.ShouldBeTrue)
		}
	}
}

func TestUpdateMagnitudeAtLeastOffset(t *testing.T) {
	l := controlloop.NewLinear(15000, 12000, false)
	for _, err := range []float32{0.001, 0.5, -0.001, -0.9} {
		v := l.Update(err)
		mag := v
		if mag < 0 {
			mag = -mag
		}
		test.That(t, int(mag) >= 12000, test.ShouldBeTrue)
	}
}

func TestInverseFlipsSign(t *testing.T) {
	fwd := controlloop.NewLinear(15000, 12000, false)
	inv := controlloop.NewLinear(15000, 12000, true)
	test.That(t, fwd.Update(0.5), test.ShouldEqual, -inv.Update(0.5))
}

func TestDeadbandGatesSmallError(t *testing.T) {
	test.That(t, controlloop.ApplyDeadband(0.01), test.ShouldBeNil)
	got := controlloop.ApplyDeadband(0.5)
	test.That(t, got, test.ShouldNotBeNil)
	test.That(t, *got, test.ShouldEqual, float32(0.5))
}

// TestActuatorStateDebouncesIdle covers spec §8 scenario 3: after a
// non-zero command, the first nil-error tick emits a single zero
// command, and subsequent nil ticks emit nothing.
func TestActuatorStateDebouncesIdle(t *testing.T) {
	l := controlloop.NewLinear(15000, 12000, false)
	as := controlloop.NewActuatorState(object.ActuatorBoom, l)

	err := float32(0.5)
	change, ok := as.Update(&err)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, change.Value, test.ShouldNotEqual, int16(0))

	change, ok = as.Update(nil)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, change.Value, test.ShouldEqual, int16(0))

	_, ok = as.Update(nil)
	test.That(t, ok, test.ShouldBeFalse)
}
