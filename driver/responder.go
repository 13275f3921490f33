package driver

import (
	"time"

	"github.com/laixer/glonax/j1939"
	"github.com/laixer/glonax/logging"
	"github.com/laixer/glonax/object"
)

// Responder answers Request PGN frames addressed to this node with
// AddressClaimed, SoftwareIdentification and TimeDate replies, grounded
// on driver/net/reqres.rs's RequestResponder.
type Responder struct {
	source  uint8
	version [3]uint8
	logger  logging.Logger
	now     func() time.Time
}

// NewResponder builds a Responder bound to sa, replying with the given
// firmware version. now defaults to time.Now if nil.
func NewResponder(sa uint8, version [3]uint8, logger logging.Logger, now func() time.Time) *Responder {
	if now == nil {
		now = time.Now
	}
	return &Responder{source: sa, version: version, logger: logger, now: now}
}

func (d *Responder) Vendor() string     { return "j1939" }
func (d *Responder) Product() string    { return "request responder" }
func (d *Responder) Destination() uint8 { return d.source }
func (d *Responder) Source() uint8      { return d.source }

// Parse reports whether frame is a Request PGN frame addressed to this
// node. It yields no Object; Respond decodes the requested PGN.
func (d *Responder) Parse(frame j1939.Frame) (object.Object, bool) {
	if frame.ID().PGN != j1939.PGNRequest || frame.ID().Destination != d.source {
		return nil, false
	}
	return nil, true
}

// requestedPGN decodes the 3-byte little-endian PGN payload of a
// Request frame.
func requestedPGN(pdu []byte) j1939.PGN {
	if len(pdu) < 3 {
		return 0
	}
	return j1939.PGN(uint32(pdu[0]) | uint32(pdu[1])<<8 | uint32(pdu[2])<<16)
}

// TryRecv only reports acceptance; Responder carries no outbound
// channel here, so the network authority calls Respond for the reply
// frame once TryRecv has accepted a request (spec §4.2 dispatch loop).
func (d *Responder) TryRecv(frame j1939.Frame, _ chan<- object.Object, now time.Time) (bool, error) {
	if _, ok := d.Parse(frame); !ok {
		return false, nil
	}
	return true, nil
}

func (d *Responder) Trigger(chan<- j1939.Frame, object.Object) {}

func (d *Responder) Tick(chan<- j1939.Frame) {}

func (d *Responder) Setup(chan<- j1939.Frame)    {}
func (d *Responder) Teardown(chan<- j1939.Frame) {}

// Respond builds the reply frame for a decoded Request, or ok=false for
// a PGN this responder does not answer.
func (d *Responder) Respond(frame j1939.Frame) (j1939.Frame, bool) {
	if frame.ID().PGN != j1939.PGNRequest || frame.ID().Destination != d.source {
		return j1939.Frame{}, false
	}
	switch requestedPGN(frame.PDU()) {
	case j1939.PGNAddressClaimed:
		id := j1939.NewIDBuilder(j1939.PGNAddressClaimed).Source(d.source).Build()
		return j1939.NewFrame(id, []byte{d.source, 0, 0, 0, 0, 0, 0, 0}), true
	case j1939.PGNSoftwareIdentification:
		id := j1939.NewIDBuilder(j1939.PGNSoftwareIdentification).Source(d.source).Build()
		payload := []byte{1, d.version[0], d.version[1], d.version[2], '*'}
		return j1939.NewFrame(id, payload), true
	case j1939.PGNTimeDate:
		id := j1939.NewIDBuilder(j1939.PGNTimeDate).Source(d.source).Build()
		pdu := encodeTimeDate(d.now())
		return j1939.NewFrame(id, pdu[:]), true
	default:
		return j1939.Frame{}, false
	}
}
