// Package repository implements the shared state store of spec §4.8: a
// single-writer, many-reader snapshot of the machine's last-known
// signals, read-only to everything except the tick pipeline's drain
// step. Grounded on the single-owner State in
// services/motion/builtin/state/state.go: one sync.RWMutex guards a
// plain struct, writers mutate it directly, readers take a cheap
// locked copy.
package repository

import (
	"sync"

	"github.com/laixer/glonax/object"
)

// Repository holds the runtime's shared mutable state.
type Repository struct {
	mu sync.RWMutex

	instance object.Instance

	engine   object.Engine
	rotators map[uint8]object.Rotator
	modules  map[string]object.ModuleStatus
	controls map[object.Control]struct{}
	targets  []object.Target
}

// New constructs a Repository for the given machine Instance.
func New(instance object.Instance) *Repository {
	return &Repository{
		instance: instance,
		rotators: make(map[uint8]object.Rotator),
		modules:  make(map[string]object.ModuleStatus),
		controls: make(map[object.Control]struct{}),
	}
}

// Instance returns the process-wide machine identity.
func (r *Repository) Instance() object.Instance {
	return r.instance
}

// SetEngine absorbs a new last-known Engine signal.
func (r *Repository) SetEngine(e object.Engine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.engine = e
}

// Engine returns the last-known Engine signal.
func (r *Repository) Engine() object.Engine {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.engine
}

// SetRotator absorbs a Rotator reading keyed by its source address.
func (r *Repository) SetRotator(source uint8, rot object.Rotator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rotators[source] = rot
}

// Rotators returns a snapshot copy of the source-address -> Rotator map.
func (r *Repository) Rotators() map[uint8]object.Rotator {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[uint8]object.Rotator, len(r.rotators))
	for k, v := range r.rotators {
		out[k] = v
	}
	return out
}

// SetModuleStatus absorbs a named component's health report.
func (r *Repository) SetModuleStatus(status object.ModuleStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modules[status.Name] = status
}

// ModuleStatuses returns a snapshot copy of the name -> ModuleStatus map.
func (r *Repository) ModuleStatuses() map[string]object.ModuleStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]object.ModuleStatus, len(r.modules))
	for k, v := range r.modules {
		out[k] = v
	}
	return out
}

// SetControl latches a Control directive into the active set.
func (r *Repository) SetControl(c object.Control) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.controls[c] = struct{}{}
}

// Controls returns a snapshot slice of the latched Control set.
func (r *Repository) Controls() []object.Control {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]object.Control, 0, len(r.controls))
	for c := range r.controls {
		out = append(out, c)
	}
	return out
}

// PushTarget appends a motion Target to the pending target list.
func (r *Repository) PushTarget(t object.Target) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.targets = append(r.targets, t)
}

// Targets returns a snapshot copy of the pending target list.
func (r *Repository) Targets() []object.Target {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]object.Target, len(r.targets))
	copy(out, r.targets)
	return out
}

// ClearTargets drops all pending targets, e.g. once the planner has
// consumed them for the tick.
func (r *Repository) ClearTargets() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.targets = nil
}
