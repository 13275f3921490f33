package driver

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/laixer/glonax/encoder"
	"github.com/laixer/glonax/j1939"
	"github.com/laixer/glonax/logging"
	"github.com/laixer/glonax/object"
)

const pgnKueblerEncoder = j1939.PGN(65450)

// KueblerEncoder decodes a Kübler rotary encoder's ProprietaryB(65450)
// position report into a joint Rotator signal, grounded on
// device/net/encoder.rs's KueblerEncoder/EncoderMessage.
type KueblerEncoder struct {
	node      uint8
	converter encoder.Converter
	heartbeat *Heartbeat
	logger    logging.Logger
}

// NewKueblerEncoder builds an encoder driver bound to node, converting
// raw counts through conv into a joint rotation about conv.Axis.
func NewKueblerEncoder(node uint8, conv encoder.Converter, logger logging.Logger) *KueblerEncoder {
	return &KueblerEncoder{node: node, converter: conv, heartbeat: NewHeartbeat(0), logger: logger}
}

func (d *KueblerEncoder) Vendor() string     { return "kübler" }
func (d *KueblerEncoder) Product() string    { return "encoder" }
func (d *KueblerEncoder) Destination() uint8 { return d.node }
func (d *KueblerEncoder) Source() uint8      { return d.node }

// Parse decodes a position report into a Rotator; speed and the
// sensor's own error state are diagnostic-only and not modelled.
func (d *KueblerEncoder) Parse(frame j1939.Frame) (object.Object, bool) {
	if frame.ID().PGN != pgnKueblerEncoder || frame.ID().Source != d.node {
		return nil, false
	}
	pdu := frame.PDUPadded()
	var position uint32
	if pdu[0] != 0xFF || pdu[1] != 0xFF || pdu[2] != 0xFF || pdu[3] != 0xFF {
		position = uint32(pdu[0]) | uint32(pdu[1])<<8 | uint32(pdu[2])<<16 | uint32(pdu[3])<<24
	}
	return object.Rotator{
		Source:    d.node,
		Rotation:  d.converter.ToRotation(position),
		Reference: object.RotatorRelative,
	}, true
}

func (d *KueblerEncoder) TryRecv(frame j1939.Frame, rx chan<- object.Object, now time.Time) (bool, error) {
	obj, ok := d.Parse(frame)
	if !ok {
		return false, nil
	}
	d.heartbeat.Mark(now)
	rx <- obj
	return true, nil
}

func (d *KueblerEncoder) Trigger(chan<- j1939.Frame, object.Object) {}
func (d *KueblerEncoder) Tick(chan<- j1939.Frame)                   {}
func (d *KueblerEncoder) Setup(chan<- j1939.Frame)                  {}
func (d *KueblerEncoder) Teardown(chan<- j1939.Frame)               {}

const pgnKueblerInclinometer = j1939.PGN(65451)

// inclinometerScale converts the sensor's raw slope counts to radians,
// matching the encoder family's count/1000 convention (device/net/inclino.rs
// gives no independent scale for slope_long/slope_lat).
const inclinometerScale = 1000.0

// KueblerInclinometer decodes a Kübler dual-axis inclinometer's
// ProprietaryB(65451) process-data frame into a Rotator, combining the
// reported Z-axis and X-axis slope into a single orientation, grounded
// on driver/net/inclino.rs's ProcessDataMessage.
type KueblerInclinometer struct {
	destination uint8
	source      uint8
	heartbeat   *Heartbeat
	logger      logging.Logger
}

// NewKueblerInclinometer builds an inclinometer driver bound to da/sa.
func NewKueblerInclinometer(da, sa uint8, logger logging.Logger) *KueblerInclinometer {
	return &KueblerInclinometer{destination: da, source: sa, heartbeat: NewHeartbeat(0), logger: logger}
}

func (d *KueblerInclinometer) Vendor() string     { return "kübler" }
func (d *KueblerInclinometer) Product() string    { return "inclinometer" }
func (d *KueblerInclinometer) Destination() uint8 { return d.destination }
func (d *KueblerInclinometer) Source() uint8      { return d.source }

// Parse decodes the process-data frame into a Rotator composed from the
// reported Z-axis ("slope long") and X-axis ("slope lat") tilt.
func (d *KueblerInclinometer) Parse(frame j1939.Frame) (object.Object, bool) {
	if frame.ID().PGN != pgnKueblerInclinometer || frame.ID().Source != d.destination {
		return nil, false
	}
	pdu := frame.PDUPadded()

	var slopeLong, slopeLat uint16
	if pdu[0] != 0xFF || pdu[1] != 0xFF {
		slopeLong = uint16(pdu[0]) | uint16(pdu[1])<<8
	}
	if pdu[2] != 0xFF || pdu[3] != 0xFF {
		slopeLat = uint16(pdu[2]) | uint16(pdu[3])<<8
	}

	zRot := mgl32.QuatRotate(float32(slopeLong)/inclinometerScale, mgl32.Vec3{0, 0, 1})
	xRot := mgl32.QuatRotate(float32(slopeLat)/inclinometerScale, mgl32.Vec3{1, 0, 0})

	return object.Rotator{
		Source:    d.destination,
		Rotation:  zRot.Mul(xRot),
		Reference: object.RotatorAbsolute,
	}, true
}

func (d *KueblerInclinometer) TryRecv(frame j1939.Frame, rx chan<- object.Object, now time.Time) (bool, error) {
	obj, ok := d.Parse(frame)
	if !ok {
		return false, nil
	}
	d.heartbeat.Mark(now)
	rx <- obj
	return true, nil
}

func (d *KueblerInclinometer) Trigger(chan<- j1939.Frame, object.Object) {}
func (d *KueblerInclinometer) Tick(chan<- j1939.Frame)                   {}

// Setup requests address claim from the bound peer (driver/net/inclino.rs).
func (d *KueblerInclinometer) Setup(tx chan<- j1939.Frame) {
	tx <- requestFrame(d.destination, d.source, j1939.PGNAddressClaimed)
}

func (d *KueblerInclinometer) Teardown(chan<- j1939.Frame) {}
