package driver

import (
	"time"

	"github.com/laixer/glonax/j1939"
	"github.com/laixer/glonax/logging"
	"github.com/laixer/glonax/object"
)

// Probe discovers live ECU addresses on the bus by broadcasting a
// round of Request frames and recording every new source/destination
// address it observes, grounded on driver/net/probe.rs's Probe.
type Probe struct {
	source uint8
	logger logging.Logger
	seen   map[uint8]struct{}
}

// NewProbe builds a Probe broadcasting from source address sa.
func NewProbe(sa uint8, logger logging.Logger) *Probe {
	return &Probe{source: sa, logger: logger, seen: make(map[uint8]struct{})}
}

func (d *Probe) Vendor() string     { return "j1939" }
func (d *Probe) Product() string    { return "probe" }
func (d *Probe) Destination() uint8 { return 0xFF }
func (d *Probe) Source() uint8      { return d.source }

// Parse never yields an Object; Probe's output is the discovered
// address set, read via Discovered.
func (d *Probe) Parse(j1939.Frame) (object.Object, bool) { return nil, false }

// TryRecv records any previously-unseen source or destination address
// observed on the bus. It always reports accepted=false: Probe is
// passively eavesdropping, not claiming ownership of the frame.
func (d *Probe) TryRecv(frame j1939.Frame, _ chan<- object.Object, _ time.Time) (bool, error) {
	id := frame.ID()
	if _, ok := d.seen[id.Source]; !ok {
		d.seen[id.Source] = struct{}{}
		d.logger.Debugf("probe: discovered source address %d", id.Source)
	}
	if id.Destination != 0xFF {
		if _, ok := d.seen[id.Destination]; !ok {
			d.seen[id.Destination] = struct{}{}
			d.logger.Debugf("probe: discovered destination address %d", id.Destination)
		}
	}
	return false, nil
}

// Discovered returns the addresses observed so far, in no particular
// order.
func (d *Probe) Discovered() []uint8 {
	addrs := make([]uint8, 0, len(d.seen))
	for a := range d.seen {
		addrs = append(addrs, a)
	}
	return addrs
}

func (d *Probe) Trigger(chan<- j1939.Frame, object.Object) {}

func (d *Probe) Tick(chan<- j1939.Frame) {}

// Setup broadcasts a discovery round: AddressClaimed,
// SoftwareIdentification and TimeDate requests to the broadcast
// address (probe.rs also requests ComponentIdentification and
// VehicleIdentification, PGNs this implementation's j1939 package does
// not define; see DESIGN.md).
func (d *Probe) Setup(tx chan<- j1939.Frame) {
	tx <- requestFrame(0xFF, d.source, j1939.PGNAddressClaimed)
	tx <- requestFrame(0xFF, d.source, j1939.PGNSoftwareIdentification)
	tx <- requestFrame(0xFF, d.source, j1939.PGNTimeDate)
}

func (d *Probe) Teardown(chan<- j1939.Frame) {}
