package object

// ModuleState is the health of a named component as surfaced onto the
// signal bus for observability, per spec §7.
type ModuleState int

// Module states.
const (
	ModuleHealthy ModuleState = iota
	ModuleDegraded
	ModuleFaulted
)

// ModuleStatus reports a named component's health, with an optional
// error description when the state is not Healthy.
type ModuleStatus struct {
	Name  string
	State ModuleState
	Error string
}
