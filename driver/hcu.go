package driver

import (
	"fmt"
	"time"

	"github.com/laixer/glonax/j1939"
	"github.com/laixer/glonax/logging"
	"github.com/laixer/glonax/object"
)

// hcuBanks lists the two PGNs the hydraulic control unit exposes, each
// carrying 4 actuator slots as little-endian i16, grounded on
// net/actuator.rs's BANK_PGN_LIST/BANK_SLOTS.
var hcuBanks = [2]j1939.PGN{j1939.HCUBank0, j1939.HCUBank1}

const hcuBankSlots = 4

// hcuNoChange is the "leave this slot untouched" sentinel (net/actuator.rs
// fills absent slots with 0xFF 0xFF).
const hcuNoChange = 0xFFFF

// wireIndex addresses one of the 8 slots across the two banks:
// offset = bank*hcuBankSlots + slot.
type wireIndex struct {
	bank int
	slot uint8
}

func (w wireIndex) offset() uint8 { return uint8(w.bank)*hcuBankSlots + w.slot }

// actuatorWireIndex maps object.Actuator to its HCU wire slot. The
// mapping is NOT the enum's Go iota ordinal: net/actuator.rs keys its
// actuator map by the controller's own u8 wire index, a fact confirmed
// against spec §8 scenario 5 (Boom at wire-index 0, Arm at wire-index
// 4). This table is this implementation's assignment of the two
// unused slots (bank0/slot3, bank1/slot3 are left unassigned).
var actuatorWireIndex = map[object.Actuator]wireIndex{
	object.ActuatorBoom:       {bank: 0, slot: 0},
	object.ActuatorSlew:       {bank: 0, slot: 1},
	object.ActuatorAttachment: {bank: 0, slot: 2},
	object.ActuatorArm:        {bank: 1, slot: 0},
	object.ActuatorLimpLeft:   {bank: 1, slot: 1},
	object.ActuatorLimpRight:  {bank: 1, slot: 2},
}

// ActuatorState is the HCU's self-reported health, decoded from the
// ProprietaryB(65282) diagnostic frame, grounded on net/actuator.rs's
// ActuatorState enum.
type ActuatorState int

const (
	ActuatorStateNominal ActuatorState = iota
	ActuatorStateIdent
	ActuatorStateFaulty
)

func (s ActuatorState) String() string {
	switch s {
	case ActuatorStateNominal:
		return "no error"
	case ActuatorStateIdent:
		return "ident"
	case ActuatorStateFaulty:
		return "faulty"
	default:
		return "unknown"
	}
}

// pgnActuatorDiagnostic is the HCU's proprietary health/firmware report.
const pgnActuatorDiagnostic = j1939.PGN(65282)

// HCU is the hydraulic control unit driver (spec §4.1): it encodes
// Motion commands into the two actuator banks, emits the vendor
// lock/unlock frame, and decodes the unit's diagnostic report into a
// ModuleStatus signal, grounded on net/actuator.rs's ActuatorService.
type HCU struct {
	destination uint8
	source      uint8
	heartbeat   *Heartbeat
	logger      logging.Logger

	locked bool

	strategy          ActuatorKeepaliveStrategy
	keepaliveInterval time.Duration
	lastTick          time.Time
	lastSlots         [2][hcuBankSlots]uint16
	lastTouched       [2]bool
}

// ActuatorKeepaliveStrategy selects how the HCU driver keeps the
// actuator banks fresh on the bus, per spec §9's "planned extension"
// note and net/actuator.rs's interval().
type ActuatorKeepaliveStrategy int

const (
	// ActuatorKeepaliveOnChange re-sends a bank frame only when Trigger
	// receives a Motion::Change affecting one of its slots. This is the
	// default and the only strategy wired into the default registry.
	ActuatorKeepaliveOnChange ActuatorKeepaliveStrategy = iota
	// ActuatorKeepaliveKeepAlive additionally re-sends the last
	// commanded bank payloads on a fixed interval via Tick, so the HCU
	// never goes quiet while an actuator is held at a nonzero value.
	// Unused by default; spec §9 leaves the choice between the two
	// unresolved for production.
	ActuatorKeepaliveKeepAlive
)

// DefaultKeepaliveInterval matches net/actuator.rs's interval() cadence.
const DefaultKeepaliveInterval = 50 * time.Millisecond

// NewHCU builds an HCU driver bound to the given peer address, using
// the default on-change actuator strategy.
func NewHCU(destination, source uint8, logger logging.Logger) *HCU {
	return &HCU{destination: destination, source: source, heartbeat: NewHeartbeat(0), logger: logger}
}

// NewHCUKeepalive builds an HCU driver that additionally re-sends its
// last commanded actuator banks every interval (a zero interval uses
// DefaultKeepaliveInterval). Not used by the default driver registry.
func NewHCUKeepalive(destination, source uint8, logger logging.Logger, interval time.Duration) *HCU {
	if interval == 0 {
		interval = DefaultKeepaliveInterval
	}
	d := NewHCU(destination, source, logger)
	d.strategy = ActuatorKeepaliveKeepAlive
	d.keepaliveInterval = interval
	return d
}

func (d *HCU) Vendor() string     { return "j1939" }
func (d *HCU) Product() string    { return "hcu" }
func (d *HCU) Destination() uint8 { return d.destination }
func (d *HCU) Source() uint8      { return d.source }

// Parse decodes the ProprietaryB(65282) diagnostic frame into a
// ModuleStatus, mirroring net/actuator.rs's Display format
// ("State: ...; Version: ...; Last error: ...").
func (d *HCU) Parse(frame j1939.Frame) (object.Object, bool) {
	if frame.ID().Source != d.destination || frame.ID().PGN != pgnActuatorDiagnostic {
		return nil, false
	}
	pdu := frame.PDUPadded()

	var state ActuatorState
	var ok bool
	switch pdu[1] {
	case 0x14:
		state, ok = ActuatorStateNominal, true
	case 0x16:
		state, ok = ActuatorStateIdent, true
	case 0xfa:
		state, ok = ActuatorStateFaulty, true
	}
	if !ok {
		return nil, false
	}

	status := object.ModuleStatus{Name: "hcu", State: object.ModuleHealthy}
	version := "-"
	if pdu[2] != 0xFF || pdu[3] != 0xFF || pdu[4] != 0xFF {
		version = fmt.Sprintf("%d.%d.%d", pdu[2], pdu[3], pdu[4])
	}
	lastError := "-"
	if pdu[6] != 0xFF || pdu[7] != 0xFF {
		lastError = fmt.Sprintf("%d", uint16(pdu[6])|uint16(pdu[7])<<8)
	}
	status.Error = fmt.Sprintf("state: %s; version: %s; last error: %s", state, version, lastError)
	if state == ActuatorStateFaulty {
		status.State = object.ModuleFaulted
	} else if state == ActuatorStateIdent {
		status.State = object.ModuleDegraded
	}
	return status, true
}

func (d *HCU) TryRecv(frame j1939.Frame, rx chan<- object.Object, now time.Time) (bool, error) {
	obj, ok := d.Parse(frame)
	if !ok {
		return false, nil
	}
	d.heartbeat.Mark(now)
	rx <- obj
	return true, nil
}

// motionLockFrame builds the vendor "ZC" motion lock/unlock frame
// (net/actuator.rs's set_motion_lock): payload 'Z','C',0xFF, then 0x00
// for locked or 0x01 for unlocked.
func (d *HCU) motionLockFrame(locked bool) j1939.Frame {
	unlockByte := byte(0x01)
	if locked {
		unlockByte = 0x00
	}
	id := j1939.NewIDBuilder(j1939.PGNProprietarilyConfigurableMessage3).Destination(d.destination).Source(d.source).Build()
	return j1939.NewFrame(id, []byte{'Z', 'C', 0xFF, unlockByte})
}

// encodeBanks builds the (at most two) bank frames carrying changes,
// per net/actuator.rs's set_actuator_control: a bank frame is only
// emitted when at least one of its slots changed.
func (d *HCU) encodeBanks(changes []object.Change) []j1939.Frame {
	var slots [2][hcuBankSlots]uint16
	var touched [2]bool
	for i := range slots {
		for j := range slots[i] {
			slots[i][j] = hcuNoChange
		}
	}

	for _, c := range changes {
		wi, ok := actuatorWireIndex[c.Actuator]
		if !ok {
			continue
		}
		slots[wi.bank][wi.slot] = uint16(c.Value)
		touched[wi.bank] = true
	}

	d.lastSlots = slots
	d.lastTouched = touched

	return d.bankFrames(slots, touched)
}

func (d *HCU) bankFrames(slots [2][hcuBankSlots]uint16, touched [2]bool) []j1939.Frame {
	var frames []j1939.Frame
	for bank := range hcuBanks {
		if !touched[bank] {
			continue
		}
		payload := make([]byte, 0, 8)
		for _, v := range slots[bank] {
			payload = append(payload, byte(v), byte(v>>8))
		}
		id := j1939.NewIDBuilder(hcuBanks[bank]).Destination(d.destination).Source(d.source).Build()
		frames = append(frames, j1939.NewFrame(id, payload))
	}
	return frames
}

// Trigger encodes a routed Motion command into bank frames and/or the
// vendor lock frame.
func (d *HCU) Trigger(tx chan<- j1939.Frame, obj object.Object) {
	motion, ok := obj.(object.Motion)
	if !ok {
		return
	}
	switch motion.Kind {
	case object.MotionStopAll:
		d.locked = true
		tx <- d.motionLockFrame(true)
	case object.MotionResumeAll:
		d.locked = false
		tx <- d.motionLockFrame(false)
	case object.MotionResetAll:
		tx <- d.motionLockFrame(false)
	case object.MotionChangeKind:
		if d.locked {
			return
		}
		for _, f := range d.encodeBanks(motion.Change) {
			tx <- f
		}
		d.lastTick = time.Now()
	}
}

// Tick re-sends the last commanded actuator banks on a fixed interval
// under the ActuatorKeepaliveKeepAlive strategy (net/actuator.rs's
// interval()); it is a no-op under the default on-change strategy.
func (d *HCU) Tick(tx chan<- j1939.Frame) {
	if d.strategy != ActuatorKeepaliveKeepAlive || d.locked {
		return
	}
	now := time.Now()
	if !d.lastTick.IsZero() && now.Sub(d.lastTick) < d.keepaliveInterval {
		return
	}
	d.lastTick = now
	for _, f := range d.bankFrames(d.lastSlots, d.lastTouched) {
		tx <- f
	}
}

// Setup requests the HCU's diagnostic report and leaves it unlocked.
func (d *HCU) Setup(tx chan<- j1939.Frame) {
	tx <- requestFrame(d.destination, d.source, pgnActuatorDiagnostic)
}

// Teardown locks motion on shutdown.
func (d *HCU) Teardown(tx chan<- j1939.Frame) {
	tx <- d.motionLockFrame(true)
}
