package object

// Change is a single actuator value assignment within a Motion::Change
// instruction.
type Change struct {
	Actuator Actuator
	Value    int16
}

// Motion is a motion instruction. Whether a given instruction has a
// positive effect depends on the actuator itself; the sign of Value is
// generally used as a forward/backward direction, but that is left to
// the downstream driver.
//
// Stop(actuators) is modelled as sugar lowered to Change((a,0)...) at
// construction time (spec §9, second open question): only Change is
// ever wire-encoded by the HCU driver.
type Motion struct {
	Kind     MotionKind
	Change   []Change
	Straight int16
}

// MotionKind discriminates the Motion union.
type MotionKind int

// Motion kinds.
const (
	MotionStopAll MotionKind = iota
	MotionResumeAll
	MotionResetAll
	MotionStraightDrive
	MotionChangeKind
)

// StopAll stops all actuator motion.
func StopAll() Motion { return Motion{Kind: MotionStopAll} }

// ResumeAll resumes motion after a StopAll.
func ResumeAll() Motion { return Motion{Kind: MotionResumeAll} }

// ResetAll clears any latched fault state.
func ResetAll() Motion { return Motion{Kind: MotionResetAll} }

// StraightDrive commands the drive actuators directly with a signed
// value, used by wheeled/tracked travel rather than excavator slew/arm
// actuation.
func StraightDrive(value int16) Motion {
	return Motion{Kind: MotionStraightDrive, Straight: value}
}

// NewChange builds a Motion::Change instruction from actuator/value
// pairs.
func NewChange(changes ...Change) Motion {
	return Motion{Kind: MotionChangeKind, Change: changes}
}

// Stop lowers a Motion::Stop(actuators) request to the Change sugar
// the HCU driver actually encodes on the wire (spec §9).
func Stop(actuators ...Actuator) Motion {
	changes := make([]Change, len(actuators))
	for i, a := range actuators {
		changes[i] = Change{Actuator: a, Value: 0}
	}
	return NewChange(changes...)
}
