// Package safety implements the safety interlock of spec §4.10: an
// emergency predicate that, when true, replaces rather than merges
// with a tick's normal motion/engine output. Grounded on the pure
// signal-to-command shape of governor.Governor (this package's sibling
// override authority), generalized from a single state machine to a
// fixed, ordered command sequence.
package safety

import "github.com/laixer/glonax/object"

// Evaluate returns the interlock's override command sequence for one
// tick, in the exact emission order spec §4.10 requires:
// HydraulicLock(on), Motion::StopAll, HydraulicBoost(off),
// MachineTravelAlarm(on), MachineStrobeLight(on), Engine::shutdown().
//
// It returns nil when emergency is false (interlock inactive, normal
// output stands) or when emergency is true but the engine has already
// spun down (rpm == 0): there is nothing left to command once the
// engine is stopped.
func Evaluate(emergency bool, engineRPM uint16) []object.Object {
	if !emergency || engineRPM == 0 {
		return nil
	}
	return []object.Object{
		object.HydraulicLock(true),
		object.StopAll(),
		object.HydraulicBoost(false),
		object.MachineTravelAlarm(true),
		object.MachineStrobeLight(true),
		object.Shutdown(),
	}
}

// Active reports whether the interlock overrides a tick's normal
// motion/engine output. Unlike Evaluate, it depends only on the
// emergency predicate: normal output stays suppressed for the whole
// duration of an emergency, even once the engine has spun down and
// Evaluate has nothing left to emit (spec §4.10, "When emergency is
// cleared ... other components resume normal command emission").
func Active(emergency bool) bool {
	return emergency
}
