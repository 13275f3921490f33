package object_test

import (
	"testing"

	"go.viam.com/test"

	"github.com/laixer/glonax/object"
)

func TestStopLowersToChange(t *testing.T) {
	m := object.Stop(object.ActuatorBoom, object.ActuatorArm)
	test.That(t, m.Kind, test.ShouldEqual, object.MotionChangeKind)
	test.That(t, m.Change, test.ShouldResemble, []object.Change{
		{Actuator: object.ActuatorBoom, Value: 0},
		{Actuator: object.ActuatorArm, Value: 0},
	})
}

func TestConsecutiveIdenticalChangesAreEqual(t *testing.T) {
	a := object.NewChange(object.Change{Actuator: object.ActuatorBoom, Value: 1000})
	b := object.NewChange(object.Change{Actuator: object.ActuatorBoom, Value: 1000})
	test.That(t, a, test.ShouldResemble, b)
}
