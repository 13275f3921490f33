package pipeline

import (
	"time"

	"github.com/laixer/glonax/ik"
	"github.com/laixer/glonax/object"
)

// Context is the tick-scoped mutable state exclusively owned by the
// pipeline (spec §4.8, "Machine state (tick context)"), distinct from
// the long-lived, read-mostly repository.
type Context struct {
	Target *object.Target

	MotionCommand   object.Motion
	EngineCommand   object.Engine
	EngineCommandAt time.Time
	EngineSignal    object.Engine

	// Encoders is the raw-count-by-source map of spec §4.8 (u8 -> f32).
	// Nothing populates or reads it: the Kübler encoder driver already
	// converts counts into Rotator signals, and sensor fusion applies
	// those Rotators directly.
	Encoders map[uint8]float32

	ActuatorErrors ik.Errors

	Emergency bool
}

// newContext builds an empty tick context.
func newContext() Context {
	return Context{Encoders: make(map[uint8]float32), ActuatorErrors: make(ik.Errors)}
}
