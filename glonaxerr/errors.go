// Package glonaxerr defines the error taxonomy shared across glonax
// components, per the operational error classes a field-bus control
// stack surfaces: timeouts, malformed frames, unreachable targets and
// back-pressure, plus a Fatal wrapper for startup failures.
package glonaxerr

import "github.com/pkg/errors"

// Sentinel errors for the operational taxonomy. Components wrap these
// with errors.Wrap/Wrapf so errors.Is / errors.Cause keep working once
// the error crosses a goroutine boundary and is logged or turned into a
// ModuleStatus.
var (
	// ErrMessageTimeout indicates a driver's heartbeat deadline lapsed.
	ErrMessageTimeout = errors.New("message timeout")
	// ErrBusError indicates a frame was accepted but could not be parsed.
	ErrBusError = errors.New("bus error")
	// ErrUnreachable indicates a kinematic target is outside the reach
	// of the arm.
	ErrUnreachable = errors.New("target unreachable")
	// ErrQueueFull indicates a bounded queue rejected a non-blocking send.
	ErrQueueFull = errors.New("queue full")
)

// FatalError wraps a startup failure (socket creation, configuration
// parsing) that must abort the process.
type FatalError struct {
	cause error
}

// NewFatal wraps err as a FatalError.
func NewFatal(err error) *FatalError {
	return &FatalError{cause: err}
}

func (e *FatalError) Error() string {
	return "fatal: " + e.cause.Error()
}

// Unwrap allows errors.Is/errors.As to see through FatalError.
func (e *FatalError) Unwrap() error {
	return e.cause
}
