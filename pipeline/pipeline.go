// Package pipeline implements the tick pipeline of spec §4.9: the
// single cooperative task that drains signals, runs sensor fusion, the
// kinematic planner and the per-actuator controller, then finalizes
// the tick through the safety interlock, engine governor and signal
// fan-out, in strict registration order every tick.
package pipeline

import (
	"time"

	"github.com/laixer/glonax/bus"
	"github.com/laixer/glonax/controlloop"
	"github.com/laixer/glonax/governor"
	"github.com/laixer/glonax/ik"
	"github.com/laixer/glonax/kinematic"
	"github.com/laixer/glonax/logging"
	"github.com/laixer/glonax/object"
	"github.com/laixer/glonax/repository"
	"github.com/laixer/glonax/safety"
)

// Pipeline runs one machine's tick cadence. It owns the Context
// exclusively (spec §4.8's ownership rule); the repository is shared
// read-mostly and only written here, in the drain step.
type Pipeline struct {
	world     *kinematic.World
	actorName string

	// jointBySource maps an encoder/rotator signal's source address to
	// the actor segment it drives. The C4 encoder conversion itself
	// already happened inside the Kübler encoder driver (driver.KueblerEncoder
	// embeds an encoder.Converter and publishes an already-converted
	// Rotator), so sensor fusion here applies Rotator signals directly
	// rather than re-running a conversion from Context.Encoders; see
	// DESIGN.md for this deviation from a literal reading of spec §4.9
	// step 3's "convert via C4" wording.
	jointBySource map[uint8]string

	controllers map[object.Actuator]*controlloop.ActuatorState

	repo     *repository.Repository
	sub      *bus.Subscription
	commands *bus.CommandQueue
	signals  *bus.SignalBus
	governor governor.Governor
	logger   logging.Logger
	now      func() time.Time

	initFunc    func(*kinematic.World)
	initialized bool
	moving      bool

	ctx Context
}

// New builds a Pipeline. initFunc, if non-nil, runs once on the first
// Tick (spec §4.9 step 2's "world builder installs the excavator
// actor" example). now defaults to time.Now.
func New(
	world *kinematic.World,
	actorName string,
	jointBySource map[uint8]string,
	controllers map[object.Actuator]*controlloop.ActuatorState,
	repo *repository.Repository,
	sub *bus.Subscription,
	commands *bus.CommandQueue,
	signals *bus.SignalBus,
	gov governor.Governor,
	logger logging.Logger,
	initFunc func(*kinematic.World),
	now func() time.Time,
) *Pipeline {
	if now == nil {
		now = time.Now
	}
	return &Pipeline{
		world:         world,
		actorName:     actorName,
		jointBySource: jointBySource,
		controllers:   controllers,
		repo:          repo,
		sub:           sub,
		commands:      commands,
		signals:       signals,
		governor:      gov,
		logger:        logger,
		initFunc:      initFunc,
		now:           now,
		ctx:           newContext(),
	}
}

// SetTarget installs the active kinematic target. A nil target clears
// it, collapsing the controller step to idle/stop.
func (p *Pipeline) SetTarget(t *object.Target) {
	p.ctx.Target = t
}

// SetEmergency sets the tick context's emergency flag consulted by the
// safety interlock (spec §4.10).
func (p *Pipeline) SetEmergency(emergency bool) {
	p.ctx.Emergency = emergency
}

// SetEngineRequest records an externally-requested engine state,
// timestamped for the governor's transition-timeout check (spec §4.7).
func (p *Pipeline) SetEngineRequest(state object.EngineState, rpm uint16) {
	p.ctx.EngineCommand = object.Engine{State: state, RPM: rpm}
	p.ctx.EngineCommandAt = p.now()
}

// Context returns the current tick context, for diagnostics/tests.
func (p *Pipeline) Context() Context {
	return p.ctx
}

// Tick executes one full pipeline pass, per spec §4.9's five steps.
func (p *Pipeline) Tick() {
	p.drainSignals()

	if !p.initialized {
		if p.initFunc != nil {
			p.initFunc(p.world)
		}
		p.initialized = true
	}

	actor, ok := p.world.Actor(p.actorName)
	if ok {
		p.sensorFusion(actor)
		p.planKinematics(actor)
	}

	motion, emitMotion := p.control()

	p.postTick(motion, emitMotion)

	p.ctx.ActuatorErrors = make(ik.Errors)
}

// drainSignals absorbs every signal currently queued on the
// subscription into the repository and the tick context (spec §4.9
// step 1), without blocking for more.
func (p *Pipeline) drainSignals() {
	for {
		select {
		case obj := <-p.sub.Receive():
			p.absorb(obj)
		default:
			return
		}
	}
}

func (p *Pipeline) absorb(obj object.Object) {
	switch v := obj.(type) {
	case object.Engine:
		p.ctx.EngineSignal = v
		p.repo.SetEngine(v)
	case object.Rotator:
		p.repo.SetRotator(v.Source, v)
	case object.ModuleStatus:
		p.repo.SetModuleStatus(v)
	case object.Control:
		p.repo.SetControl(v)
	case object.Target:
		target := v
		p.ctx.Target = &target
	}
}

// sensorFusion applies every relative-frame Rotator bound to a known
// joint onto the actor, per spec §4.9 step 3's first bullet.
func (p *Pipeline) sensorFusion(actor *kinematic.Actor) {
	for source, rot := range p.repo.Rotators() {
		if rot.Reference != object.RotatorRelative {
			continue
		}
		segment, ok := p.jointBySource[source]
		if !ok {
			continue
		}
		if err := actor.SetRelativeRotation(segment, rot.Rotation); err != nil {
			p.logger.Warnf("pipeline: sensor fusion: %v", err)
		}
	}
}

// planKinematics fills the tick's actuator-error map from the active
// target, per spec §4.6/§4.9.
func (p *Pipeline) planKinematics(actor *kinematic.Actor) {
	if p.ctx.Target == nil {
		return
	}
	result, err := ik.Solve(actor, *p.ctx.Target)
	if err != nil {
		p.signals.Publish(object.ModuleStatus{Name: "planner", State: object.ModuleDegraded, Error: err.Error()})
		return
	}
	p.ctx.ActuatorErrors = result.Errors
	if result.AttachmentOutOfRange {
		p.logger.Warnf("pipeline: attachment angle outside nominal range")
	}
}

// control runs the per-actuator Linear controller over the tick's
// actuator errors, returning the Motion to emit and whether it should
// be emitted at all this tick (spec §4.9 step 3's last bullet).
func (p *Pipeline) control() (object.Motion, bool) {
	var changes []object.Change
	for actuator, state := range p.controllers {
		var errPtr *float32
		if v, ok := p.ctx.ActuatorErrors[actuator]; ok {
			errPtr = controlloop.ApplyDeadband(v)
		}
		if change, ok := state.Update(errPtr); ok {
			changes = append(changes, change)
		}
	}

	if len(changes) > 0 {
		p.moving = true
		return object.NewChange(changes...), true
	}
	if p.moving {
		p.moving = false
		return object.StopAll(), true
	}
	return object.Motion{}, false
}

// postTick finalizes the tick (spec §4.9 step 4): the safety interlock
// may entirely replace the normal motion/engine output; otherwise the
// governor's engine command and the controller's motion command are
// forwarded to the command queue, and both are re-published on the
// signal bus so read-only observers see outbound activity.
func (p *Pipeline) postTick(motion object.Motion, emitMotion bool) {
	if safety.Active(p.ctx.Emergency) {
		for _, cmd := range safety.Evaluate(p.ctx.Emergency, p.ctx.EngineSignal.RPM) {
			if err := p.commands.Send(cmd); err != nil {
				p.logger.Warnf("pipeline: interlock command dropped: %v", err)
			}
			p.signals.Publish(cmd)
		}
		return
	}

	engineCmd := p.governor.NextState(p.ctx.EngineSignal, p.ctx.EngineCommand, p.ctx.EngineCommandAt)
	if err := p.commands.Send(engineCmd); err != nil {
		p.logger.Warnf("pipeline: engine command dropped: %v", err)
	}
	p.signals.Publish(engineCmd)

	if emitMotion {
		if err := p.commands.Send(motion); err != nil {
			p.logger.Warnf("pipeline: motion command dropped: %v", err)
		}
		p.signals.Publish(motion)
	}
}
