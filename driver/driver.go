// Package driver implements the frame codec and driver plug-ins of
// spec §4.1: per-driver parse/emit contracts dispatched by the network
// authority (C2), grounded on the Routable/J1939Unit trait split in
// glonax-runtime/src/net and the device/driver family
// (engine.rs, hcu.rs, net/actuator.rs).
package driver

import (
	"time"

	"github.com/laixer/glonax/j1939"
	"github.com/laixer/glonax/object"
)

// Heartbeat tracks a driver's last-accepted-frame time against a
// configured deadline, per spec §4.2's heartbeat policy. Zero value is
// "never received".
type Heartbeat struct {
	Window time.Duration
	last   time.Time
}

// DefaultHeartbeatWindow is the default rx-activity deadline (spec §4.2).
const DefaultHeartbeatWindow = 1 * time.Second

// NewHeartbeat builds a Heartbeat with the given window; a zero window
// is replaced with DefaultHeartbeatWindow.
func NewHeartbeat(window time.Duration) *Heartbeat {
	if window == 0 {
		window = DefaultHeartbeatWindow
	}
	return &Heartbeat{Window: window}
}

// Mark records rx-activity at the given instant.
func (h *Heartbeat) Mark(now time.Time) {
	h.last = now
}

// Expired reports whether no rx-activity has been marked within Window
// of now. A Heartbeat that has never been marked is never considered
// expired: a driver that was never addressed is not unhealthy.
func (h *Heartbeat) Expired(now time.Time) bool {
	if h.last.IsZero() {
		return false
	}
	return now.Sub(h.last) > h.Window
}

// Driver is the capability set every field-bus plug-in implements
// (spec §4.1). The network authority dispatches every inbound frame
// and every routed command object to the registered drivers in
// registration order; a driver accepts a given frame at most once.
type Driver interface {
	// Vendor and Product identify the driver for diagnostics.
	Vendor() string
	Product() string

	// Destination and Source are the J1939 addresses this driver binds.
	Destination() uint8
	Source() uint8

	// Parse is a pure, side-effect-free decode: it returns ok=false if
	// the frame is not addressed to this driver or is malformed.
	Parse(frame j1939.Frame) (obj object.Object, ok bool)

	// TryRecv is called by the network authority for every inbound
	// frame. It may push parsed Objects onto rx and must report
	// whether it accepted the frame (the authority then resets the
	// driver's timeout count and offers the frame to an optional
	// responder capability). now is the authority's receive-loop
	// clock reading, threaded through rather than read internally so
	// heartbeat bookkeeping stays testable without a real clock.
	TryRecv(frame j1939.Frame, rx chan<- object.Object, now time.Time) (accepted bool, err error)

	// Trigger is called for every command Object taken off the command
	// bus; the driver ignores object types it does not handle and may
	// enqueue outbound frames for the rest.
	Trigger(tx chan<- j1939.Frame, obj object.Object)

	// Tick is called periodically (spec §4.2, every 10ms) for
	// heartbeat/governor-style periodic emission.
	Tick(tx chan<- j1939.Frame)

	// Setup requests initial identification / sends one-shot unlock
	// frames; Teardown is its mirror at shutdown.
	Setup(tx chan<- j1939.Frame)
	Teardown(tx chan<- j1939.Frame)
}

// Registry is the ordered list of drivers a network authority dispatches
// frames and commands to, per spec §9's "tagged variant over a closed
// driver enum" design note: a flat, heterogeneous, registration-ordered
// list rather than open-ended runtime discovery.
type Registry struct {
	drivers []Driver
}

// NewRegistry builds an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends a driver; dispatch order follows registration order.
func (r *Registry) Register(d Driver) {
	r.drivers = append(r.drivers, d)
}

// Drivers returns the registered drivers in registration order.
func (r *Registry) Drivers() []Driver {
	return r.drivers
}
