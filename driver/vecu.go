package driver

import (
	"time"

	"github.com/laixer/glonax/j1939"
	"github.com/laixer/glonax/object"
)

// pgnVECUNetworkUnlock is the vendor proprietary group the Volvo VECU
// expects a fixed unlock payload on before it will arbitrate on the
// bus, grounded on driver/net/volvo_vecu.rs.
const pgnVECUNetworkUnlock = j1939.PGN(65410)

// VolvoVECU sends the vendor network-unlock frame a Volvo-equipped
// machine's electronic control unit requires once at startup; it has
// no ingress decode and routes no commands, grounded on
// driver/net/volvo_vecu.rs.
type VolvoVECU struct {
	destination uint8
	source      uint8
}

// NewVolvoVECU builds a VolvoVECU driver bound to the given addresses.
func NewVolvoVECU(destination, source uint8) *VolvoVECU {
	return &VolvoVECU{destination: destination, source: source}
}

func (d *VolvoVECU) Vendor() string     { return "volvo" }
func (d *VolvoVECU) Product() string    { return "vecu" }
func (d *VolvoVECU) Destination() uint8 { return d.destination }
func (d *VolvoVECU) Source() uint8      { return d.source }

func (d *VolvoVECU) Parse(j1939.Frame) (object.Object, bool) { return nil, false }

func (d *VolvoVECU) TryRecv(j1939.Frame, chan<- object.Object, time.Time) (bool, error) {
	return false, nil
}

func (d *VolvoVECU) Trigger(chan<- j1939.Frame, object.Object) {}

func (d *VolvoVECU) Tick(chan<- j1939.Frame) {}

// networkUnlockFrame builds the fixed 8-byte unlock payload
// (0C 5C 00 00 00 00 05 FF) on ProprietaryB(65410).
func (d *VolvoVECU) networkUnlockFrame() j1939.Frame {
	id := j1939.NewIDBuilder(pgnVECUNetworkUnlock).Source(d.source).Build()
	return j1939.NewFrame(id, []byte{0x0C, 0x5C, 0x00, 0x00, 0x00, 0x00, 0x05, 0xFF})
}

// Setup sends the network-unlock frame once, ahead of any actuator
// bank frame from the HCU driver (spec EXPANSION item 1).
func (d *VolvoVECU) Setup(tx chan<- j1939.Frame) {
	tx <- d.networkUnlockFrame()
}

func (d *VolvoVECU) Teardown(chan<- j1939.Frame) {}
