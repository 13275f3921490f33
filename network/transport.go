// Package network implements the network authority of spec §4.2: it
// owns one bound CAN interface, dispatches inbound frames to the C1
// drivers, drains per-driver outbound frames, and enforces the
// heartbeat/timeout policy, grounded on the concurrency idiom in
// services/motion/builtin/state/state.go (PanicCapturingGo-spawned
// duties, context-driven shutdown) generalized from a single state
// goroutine to the receive/tick pair spec §4.2 describes.
package network

import "github.com/laixer/glonax/j1939"

// Transport is the wire-level frame source/sink the authority drives.
// CANSocket (Linux, socketcan_linux.go) is the production
// implementation; tests substitute an in-memory transport.
type Transport interface {
	Send(frame j1939.Frame) error
	Recv() (j1939.Frame, error)
	Close() error
}
