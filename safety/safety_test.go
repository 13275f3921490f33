package safety_test

import (
	"testing"

	"go.viam.com/test"

	"github.com/laixer/glonax/object"
	"github.com/laixer/glonax/safety"
)

func TestEvaluateReturnsNilWhenNotEmergency(t *testing.T) {
	test.That(t, safety.Evaluate(false, 1500), test.ShouldBeNil)
	test.That(t, safety.Active(false), test.ShouldBeFalse)
}

func TestEvaluateEmitsOrderedOverrideSequence(t *testing.T) {
	cmds := safety.Evaluate(true, 1500)
	test.That(t, len(cmds), test.ShouldEqual, 6)

	lock, ok := cmds[0].(object.Control)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, lock.Kind, test.ShouldEqual, object.ControlHydraulicLock)
	test.That(t, lock.State, test.ShouldBeTrue)

	motion, ok := cmds[1].(object.Motion)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, motion.Kind, test.ShouldEqual, object.MotionStopAll)

	boost, ok := cmds[2].(object.Control)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, boost.Kind, test.ShouldEqual, object.ControlHydraulicBoost)
	test.That(t, boost.State, test.ShouldBeFalse)

	alarm, ok := cmds[3].(object.Control)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, alarm.Kind, test.ShouldEqual, object.ControlMachineTravelAlarm)

	strobe, ok := cmds[4].(object.Control)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, strobe.Kind, test.ShouldEqual, object.ControlMachineStrobeLight)

	engine, ok := cmds[5].(object.Engine)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, engine.State, test.ShouldEqual, object.EngineStopping)
}

func TestEvaluateEmitsNothingOnceEngineStopped(t *testing.T) {
	test.That(t, safety.Evaluate(true, 0), test.ShouldBeNil)
}

func TestActiveStaysTrueForWholeEmergencyRegardlessOfRPM(t *testing.T) {
	test.That(t, safety.Active(true), test.ShouldBeTrue)
}
