package driver

import (
	"time"

	"github.com/laixer/glonax/glonaxerr"
	"github.com/laixer/glonax/j1939"
	"github.com/laixer/glonax/logging"
	"github.com/laixer/glonax/object"
)

// rpmScale is the SAE J1939 SPN 190 (Engine Speed) resolution:
// 0.125 rpm per bit, grounded on the round-trip values in
// device/net/engine.rs's turn_on/turn_off tests (0x18AA -> 789 rpm).
const rpmScale = 0.125

// percentTorqueOffset is the SAE SPN 512/513 (Percent Torque) encode
// offset: raw byte value - 125 = signed percent, per the same tests
// (0xEA -> 109%, 0x91 -> 20%).
const percentTorqueOffset = 125

func decodeRPM(lo, hi byte) uint16 {
	raw := uint16(lo) | uint16(hi)<<8
	return uint16(float32(raw) * rpmScale)
}

func encodeRPM(rpm uint16) (lo, hi byte) {
	raw := uint16(float32(rpm) / rpmScale)
	return byte(raw), byte(raw >> 8)
}

func decodePercentTorque(b byte) uint8 {
	if int(b) < percentTorqueOffset {
		return 0
	}
	return b - percentTorqueOffset
}

func encodePercentTorque(v uint8) byte {
	return v + percentTorqueOffset
}

// EngineManagement parses ElectronicEngineController1 into an
// object.Engine signal and emits TorqueSpeedControl1 speed requests and
// an ElectronicBrakeController1 shutdown frame, grounded on
// device/net/engine.rs's EngineMessage/EngineManagementSystem pair.
//
// The wire frame carries driver_demand/actual_engine/rpm only; State is
// left at object.EngineNoRequest on ingress since the original does not
// derive a request/starting/stopping state from this PGN (that state
// belongs to the command side, produced by the governor).
type EngineManagement struct {
	source    uint8
	heartbeat *Heartbeat
	logger    logging.Logger
}

// NewEngineManagement builds a generic engine management driver bound to
// source address sa.
func NewEngineManagement(sa uint8, logger logging.Logger) *EngineManagement {
	return &EngineManagement{source: sa, heartbeat: NewHeartbeat(0), logger: logger}
}

func (d *EngineManagement) Vendor() string     { return "j1939" }
func (d *EngineManagement) Product() string    { return "engine" }
func (d *EngineManagement) Destination() uint8 { return 0xFF }
func (d *EngineManagement) Source() uint8      { return d.source }

// Parse decodes ElectronicEngineController1 into an object.Engine.
func (d *EngineManagement) Parse(frame j1939.Frame) (object.Object, bool) {
	if frame.ID().PGN != j1939.PGNElectronicEngineController1 {
		return nil, false
	}
	if len(frame.PDU()) != 8 {
		return nil, false
	}
	pdu := frame.PDUPadded()
	return object.Engine{
		DriverDemand: decodePercentTorque(pdu[1]),
		ActualEngine: decodePercentTorque(pdu[2]),
		RPM:          decodeRPM(pdu[3], pdu[4]),
		State:        object.EngineNoRequest,
	}, true
}

func (d *EngineManagement) TryRecv(frame j1939.Frame, rx chan<- object.Object, now time.Time) (bool, error) {
	obj, ok := d.Parse(frame)
	if !ok {
		return false, nil
	}
	d.heartbeat.Mark(now)
	if d.heartbeat.Expired(now) {
		return true, glonaxerr.ErrMessageTimeout
	}
	rx <- obj
	return true, nil
}

// SpeedRequest builds the TorqueSpeedControl1 frame requesting rpm,
// priority 3 (spec §6.1).
func (d *EngineManagement) SpeedRequest(rpm uint16) j1939.Frame {
	lo, hi := encodeRPM(rpm)
	id := j1939.NewIDBuilder(j1939.PGNTorqueSpeedControl1).Priority(j1939.PriorityControl).Source(d.source).Build()
	return j1939.NewFrame(id, []byte{0b01, lo, hi})
}

// Shutdown builds the ElectronicBrakeController1 engine-shutdown frame
// (spec §6.1: priority 3, byte[3] = 0b00010000).
func (d *EngineManagement) Shutdown() j1939.Frame {
	id := j1939.NewIDBuilder(j1939.PGNElectronicBrakeController1).Priority(j1939.PriorityControl).Source(d.source).Build()
	return j1939.NewFrame(id, []byte{0xFF, 0xFF, 0xFF, 0b00010000})
}

// Trigger emits a speed request or shutdown frame for a routed Engine
// command object.
func (d *EngineManagement) Trigger(tx chan<- j1939.Frame, obj object.Object) {
	engine, ok := obj.(object.Engine)
	if !ok {
		return
	}
	if engine.State == object.EngineStopping {
		tx <- d.Shutdown()
		return
	}
	tx <- d.SpeedRequest(engine.RPM)
}

func (d *EngineManagement) Tick(chan<- j1939.Frame) {}

func (d *EngineManagement) Setup(chan<- j1939.Frame)    {}
func (d *EngineManagement) Teardown(chan<- j1939.Frame) {}

// vendorState encodes the 8-byte vendor control frame's state byte, per
// spec §4.1: "Shutdown=0x07, Locked=0x47, Nominal=0x43, Starting=0xC3".
type vendorState byte

const (
	vendorStateShutdown vendorState = 0x07
	vendorStateLocked   vendorState = 0x47
	vendorStateNominal  vendorState = 0x43
	vendorStateStarting vendorState = 0xC3
)

func vendorStateFor(state object.EngineState, locked bool) vendorState {
	switch {
	case state == object.EngineStopping:
		return vendorStateShutdown
	case locked:
		return vendorStateLocked
	case state == object.EngineStarting:
		return vendorStateStarting
	default:
		return vendorStateNominal
	}
}

// VendorEngineManagement wraps EngineManagement and additionally
// synthesises the vendor proprietary control frame (spec §4.1's
// "vendor variant"): a state byte plus speed/10.
type VendorEngineManagement struct {
	*EngineManagement
	vendorPGN j1939.PGN
	locked    bool
}

// NewVendorEngineManagement wraps a generic EngineManagement driver,
// publishing its vendor-specific control frame on the given proprietary
// PGN.
func NewVendorEngineManagement(generic *EngineManagement, vendorPGN j1939.PGN) *VendorEngineManagement {
	return &VendorEngineManagement{EngineManagement: generic, vendorPGN: vendorPGN}
}

// SetLocked toggles the hydraulic-lock bit folded into the vendor
// control frame's state byte.
func (d *VendorEngineManagement) SetLocked(locked bool) {
	d.locked = locked
}

// VendorControlFrame builds the 8-byte proprietary control frame:
// byte0 state, byte1 speed/10, remainder "not available".
func (d *VendorEngineManagement) VendorControlFrame(state object.EngineState, rpm uint16) j1939.Frame {
	id := j1939.NewIDBuilder(d.vendorPGN).Source(d.source).Build()
	payload := []byte{byte(vendorStateFor(state, d.locked)), byte(rpm / 10), 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}
	return j1939.NewFrame(id, payload)
}

// Trigger emits the generic speed/shutdown frames and the vendor
// control frame for a routed Engine command object.
func (d *VendorEngineManagement) Trigger(tx chan<- j1939.Frame, obj object.Object) {
	d.EngineManagement.Trigger(tx, obj)
	if engine, ok := obj.(object.Engine); ok {
		tx <- d.VendorControlFrame(engine.State, engine.RPM)
	}
}
