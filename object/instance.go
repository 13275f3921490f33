package object

import "github.com/google/uuid"

// MachineType identifies the kind of machine the runtime is driving.
type MachineType uint8

// Machine types known to the core.
const (
	MachineExcavator MachineType = iota + 1
	MachineWheelLoader
	MachineDozer
	MachineGrader
	MachineHauler
	MachineForestry
)

// Instance is the process-wide machine identity: a unique id, the
// model name, its MachineType, and a firmware/software version triple.
// It is initialised once at startup and exposed read-only thereafter
// (spec §9, "Global state").
type Instance struct {
	ID      uuid.UUID
	Model   string
	Type    MachineType
	Version [3]uint8
}

// NewInstance constructs an Instance.
func NewInstance(id uuid.UUID, model string, ty MachineType, version [3]uint8) Instance {
	return Instance{ID: id, Model: model, Type: ty, Version: version}
}
