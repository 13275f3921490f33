package object

// ControlKind enumerates the discrete on/off or pulse directives a
// Control object can carry, per spec §3.
type ControlKind int

// Control directives known to the core.
const (
	ControlHydraulicLock ControlKind = iota
	ControlHydraulicBoost
	ControlHydraulicReset
	ControlMachineShutdown
	ControlMachineLights
	ControlMachineHorn
	ControlMachineStrobeLight
	ControlMachineTravelAlarm
	ControlMachineLock
	ControlEngineStart
	ControlEngineStop
	ControlCabinLock
	ControlFanSpeed
)

// Control is a discrete on/off or pulse directive.
type Control struct {
	Kind  ControlKind
	State bool
}

// HydraulicLock builds a hydraulic-lock Control directive.
func HydraulicLock(on bool) Control { return Control{Kind: ControlHydraulicLock, State: on} }

// HydraulicBoost builds a hydraulic-boost Control directive.
func HydraulicBoost(on bool) Control { return Control{Kind: ControlHydraulicBoost, State: on} }

// MachineTravelAlarm builds a travel-alarm Control directive.
func MachineTravelAlarm(on bool) Control { return Control{Kind: ControlMachineTravelAlarm, State: on} }

// MachineStrobeLight builds a strobe-light Control directive.
func MachineStrobeLight(on bool) Control { return Control{Kind: ControlMachineStrobeLight, State: on} }
