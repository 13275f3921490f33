package driver

import (
	"time"

	"github.com/laixer/glonax/j1939"
	"github.com/laixer/glonax/logging"
	"github.com/laixer/glonax/object"
)

// Identity requests and records a peer's software version and address
// claim, grounded on driver/net/ecu.rs. It does not push Objects onto
// the signal channel; its findings are logged only, matching the
// original's debug!() calls.
type Identity struct {
	destination uint8
	source      uint8
	heartbeat   *Heartbeat
	logger      logging.Logger
}

// NewIdentity builds an Identity driver bound to the given peer address.
func NewIdentity(destination, source uint8, logger logging.Logger) *Identity {
	return &Identity{destination: destination, source: source, heartbeat: NewHeartbeat(0), logger: logger}
}

func (d *Identity) Vendor() string     { return "j1939" }
func (d *Identity) Product() string    { return "ecu" }
func (d *Identity) Destination() uint8 { return d.destination }
func (d *Identity) Source() uint8      { return d.source }

// Parse decodes SoftwareIdentification and AddressClaimed responses
// from our bound peer. It returns ok=false for anything else; Identity
// has no Object representation, so the bool alone signals acceptance.
func (d *Identity) Parse(frame j1939.Frame) (object.Object, bool) {
	if frame.ID().Source != d.destination {
		return nil, false
	}
	switch frame.ID().PGN {
	case j1939.PGNSoftwareIdentification:
		pdu := frame.PDUPadded()
		if pdu[0] < 1 || pdu[4] != '*' {
			return nil, false
		}
		return nil, true
	case j1939.PGNAddressClaimed:
		return nil, true
	default:
		return nil, false
	}
}

// TryRecv accepts a frame from the bound peer and marks heartbeat
// activity; it never publishes an Object.
func (d *Identity) TryRecv(frame j1939.Frame, _ chan<- object.Object, now time.Time) (bool, error) {
	if _, ok := d.Parse(frame); !ok {
		return false, nil
	}
	d.heartbeat.Mark(now)
	d.logger.Debugf("identity: peer %d accepted frame pgn=%d", d.destination, frame.ID().PGN)
	return true, nil
}

func (d *Identity) Trigger(chan<- j1939.Frame, object.Object) {}

func (d *Identity) Tick(chan<- j1939.Frame) {}

// Setup requests AddressClaimed and SoftwareIdentification from the
// bound peer.
func (d *Identity) Setup(tx chan<- j1939.Frame) {
	tx <- requestFrame(d.destination, d.source, j1939.PGNAddressClaimed)
	tx <- requestFrame(d.destination, d.source, j1939.PGNSoftwareIdentification)
}

func (d *Identity) Teardown(chan<- j1939.Frame) {}
