// Package governor implements the engine governor of spec §4.7: a pure
// function mapping (signal, command) to the next engine command to
// emit, grounded on glonax-runtime/src/driver/governor.rs.
package governor

import (
	"time"

	"github.com/laixer/glonax/object"
)

// DefaultTransitionTimeout is the age after which a pending Starting or
// Request command collapses back to NoRequest, per spec §4.7.
const DefaultTransitionTimeout = 2 * time.Second

// Governor reshapes requested RPM into the idle/max envelope and owns
// no state between calls.
type Governor struct {
	RPMIdle           uint16
	RPMMax            uint16
	TransitionTimeout time.Duration
}

// New constructs a Governor. A zero TransitionTimeout is replaced with
// DefaultTransitionTimeout.
func New(rpmIdle, rpmMax uint16, transitionTimeout time.Duration) Governor {
	if transitionTimeout == 0 {
		transitionTimeout = DefaultTransitionTimeout
	}
	return Governor{RPMIdle: rpmIdle, RPMMax: rpmMax, TransitionTimeout: transitionTimeout}
}

// Reshape clamps rpm to [RPMIdle, RPMMax].
func (g Governor) Reshape(rpm uint16) uint16 {
	if rpm < g.RPMIdle {
		return g.RPMIdle
	}
	if rpm > g.RPMMax {
		return g.RPMMax
	}
	return rpm
}

func (g Governor) idle(state object.EngineState) object.Engine {
	return object.Engine{RPM: g.Reshape(g.RPMIdle), State: state}
}

// NextState computes the next engine command to emit, per the
// transition table in spec §4.7. commandInstant is the time the
// command was issued; a zero value means "no age information", and the
// timeout collapse is skipped.
func (g Governor) NextState(signal, command object.Engine, commandInstant time.Time) object.Engine {
	expired := !commandInstant.IsZero() && time.Since(commandInstant) > g.TransitionTimeout

	switch signal.State {
	case object.EngineNoRequest:
		switch command.State {
		case object.EngineStarting, object.EngineRequest:
			if expired {
				return g.idle(object.EngineNoRequest)
			}
			return g.idle(object.EngineStarting)
		default:
			return g.idle(object.EngineNoRequest)
		}

	case object.EngineStarting:
		if expired {
			return g.idle(object.EngineNoRequest)
		}
		return g.idle(object.EngineStarting)

	case object.EngineRequest:
		switch command.State {
		case object.EngineStarting, object.EngineRequest:
			return object.Engine{RPM: g.Reshape(command.RPM), State: object.EngineRequest}
		default:
			return g.idle(object.EngineStopping)
		}

	case object.EngineStopping:
		return g.idle(object.EngineStopping)

	default:
		return g.idle(object.EngineNoRequest)
	}
}
