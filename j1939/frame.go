// Package j1939 implements the wire-level codec for SAE J1939 frames
// layered on CAN: 29-bit identifier construction/decoding and
// immutable frame values, per spec §3 and §6.1.
package j1939

import "fmt"

// Priority is the 3-bit J1939 priority field; 0 is highest.
type Priority uint8

// Priorities used by the core.
const (
	PriorityControl Priority = 3
	PriorityDefault Priority = 6
)

// Identifier is the decoded form of a 29-bit J1939 CAN identifier:
// priority, PGN, source address and (for PDU1-format PGNs) destination
// address.
type Identifier struct {
	Priority    Priority
	PGN         PGN
	Destination uint8
	Source      uint8
}

// Frame is the wire unit: an identifier plus 0-8 payload bytes.
// Immutable once constructed.
type Frame struct {
	id  Identifier
	pdu [8]byte
	len uint8
}

// NewFrame builds a Frame from an identifier and up to 8 payload bytes.
// Unused trailing bytes are padded with 0xFF, the J1939 "not available"
// filler.
func NewFrame(id Identifier, pdu []byte) Frame {
	var f Frame
	f.id = id
	for i := range f.pdu {
		f.pdu[i] = 0xFF
	}
	n := copy(f.pdu[:], pdu)
	f.len = uint8(n)
	return f
}

// ID returns the frame's decoded identifier.
func (f Frame) ID() Identifier { return f.id }

// PDU returns the frame's payload, length-bounded to what was supplied
// to NewFrame (callers that need the full padded 8 bytes should use
// PDUPadded).
func (f Frame) PDU() []byte {
	return f.pdu[:f.len]
}

// PDUPadded returns the full 8-byte payload, "not available" padded.
func (f Frame) PDUPadded() [8]byte { return f.pdu }

func (f Frame) String() string {
	return fmt.Sprintf("id=%s pdu=% X", f.id, f.PDU())
}

// ToCANID encodes the identifier into a raw 29-bit extended CAN
// identifier, per J1939-21: bits 26-28 priority, bits 8-25 PGN
// (with destination address folded in for PDU1-format PGNs), bits 0-7
// source address.
func (id Identifier) ToCANID() uint32 {
	pgn := uint32(id.PGN)
	if id.PGN.IsPDU1() {
		pgn = (pgn &^ 0xFF) | uint32(id.Destination)
	}
	return (uint32(id.Priority)&0x7)<<26 | (pgn&0x3FFFF)<<8 | uint32(id.Source)
}

// IdentifierFromCANID decodes a raw 29-bit extended CAN identifier into
// an Identifier. For PDU1-format PGNs the low byte of the PGN field is
// the destination address; for PDU2-format PGNs it is a group
// extension and the frame is a broadcast (Destination is the J1939
// global address 0xFF).
func IdentifierFromCANID(canID uint32) Identifier {
	priority := Priority((canID >> 26) & 0x7)
	pgnRaw := (canID >> 8) & 0x3FFFF
	source := uint8(canID & 0xFF)

	pf := uint8((pgnRaw >> 8) & 0xFF)
	if pf < 240 {
		// PDU1: low byte is the destination address.
		da := uint8(pgnRaw & 0xFF)
		pgn := PGN(pgnRaw &^ 0xFF)
		return Identifier{Priority: priority, PGN: pgn, Destination: da, Source: source}
	}
	return Identifier{Priority: priority, PGN: PGN(pgnRaw), Destination: 0xFF, Source: source}
}

func (id Identifier) String() string {
	return fmt.Sprintf("pri=%d pgn=%d da=%d sa=%d", id.Priority, id.PGN, id.Destination, id.Source)
}

// IDBuilder constructs Identifiers fluently, mirroring the teacher
// corpus's builder-style construction for composite value types.
type IDBuilder struct {
	id Identifier
}

// NewIDBuilder starts a builder from a PGN, defaulting priority to 6
// (the J1939 default) and destination to the global address.
func NewIDBuilder(pgn PGN) *IDBuilder {
	return &IDBuilder{id: Identifier{Priority: PriorityDefault, PGN: pgn, Destination: 0xFF}}
}

// Priority sets the identifier's priority.
func (b *IDBuilder) Priority(p Priority) *IDBuilder {
	b.id.Priority = p
	return b
}

// Destination sets the identifier's destination address.
func (b *IDBuilder) Destination(da uint8) *IDBuilder {
	b.id.Destination = da
	return b
}

// Source sets the identifier's source address.
func (b *IDBuilder) Source(sa uint8) *IDBuilder {
	b.id.Source = sa
	return b
}

// Build returns the constructed Identifier.
func (b *IDBuilder) Build() Identifier {
	return b.id
}

// FrameBuilder constructs Frames fluently.
type FrameBuilder struct {
	id  Identifier
	pdu []byte
}

// NewFrameBuilder starts a builder from an identifier.
func NewFrameBuilder(id Identifier) *FrameBuilder {
	return &FrameBuilder{id: id}
}

// CopyFrom sets the payload bytes.
func (b *FrameBuilder) CopyFrom(pdu []byte) *FrameBuilder {
	b.pdu = pdu
	return b
}

// Build returns the constructed Frame.
func (b *FrameBuilder) Build() Frame {
	return NewFrame(b.id, b.pdu)
}
