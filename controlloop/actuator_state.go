package controlloop

import "github.com/laixer/glonax/object"

// ActuatorState wraps a Linear controller with the idle de-bounce
// described in spec §4.5: when error is nil (target reached, or no
// active target) and the previous tick was not already at rest, it
// emits exactly one zero-value command to guarantee the actuator
// halts. Subsequent nil inputs produce no event.
type ActuatorState struct {
	Actuator object.Actuator
	Linear   Linear
	stopped  bool
}

// NewActuatorState builds an ActuatorState for the given actuator.
func NewActuatorState(actuator object.Actuator, linear Linear) *ActuatorState {
	return &ActuatorState{Actuator: actuator, Linear: linear}
}

// Update consumes an optional error (nil meaning no active error, after
// ApplyDeadband) and returns the Change to emit, if any.
func (a *ActuatorState) Update(err *float32) (object.Change, bool) {
	if err == nil {
		if a.stopped {
			return object.Change{}, false
		}
		a.stopped = true
		return object.Change{Actuator: a.Actuator, Value: 0}, true
	}
	a.stopped = false
	return object.Change{Actuator: a.Actuator, Value: a.Linear.Update(*err)}, true
}
