package object

// Actuator identifies a hydraulically driven joint. The values are
// plain enum ordinals, not HCU wire slots: the driver package maps each
// actuator to its bank/slot (Boom is bank 0 slot 0, Arm is bank 1
// slot 0, index 4 overall).
type Actuator uint16

// Actuators known to the core.
const (
	ActuatorSlew Actuator = iota
	ActuatorBoom
	ActuatorArm
	ActuatorAttachment
	ActuatorLimpLeft
	ActuatorLimpRight
)

func (a Actuator) String() string {
	switch a {
	case ActuatorSlew:
		return "slew"
	case ActuatorBoom:
		return "boom"
	case ActuatorArm:
		return "arm"
	case ActuatorAttachment:
		return "attachment"
	case ActuatorLimpLeft:
		return "limp_left"
	case ActuatorLimpRight:
		return "limp_right"
	default:
		return "unknown"
	}
}
