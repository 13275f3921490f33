package network

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	goutils "go.viam.com/utils"

	"github.com/laixer/glonax/bus"
	"github.com/laixer/glonax/driver"
	"github.com/laixer/glonax/j1939"
	"github.com/laixer/glonax/logging"
	"github.com/laixer/glonax/object"
)

// DefaultTickInterval is the authority's periodic tick/keepalive period
// (spec §4.2).
const DefaultTickInterval = 10 * time.Millisecond

// unhealthyAfter is the number of consecutive MessageTimeout returns
// from a driver's TryRecv before it is surfaced as unhealthy (spec
// §4.2, "three consecutive ticks").
const unhealthyAfter = 3

// responder is the optional capability a Driver may offer beyond the
// base interface: answering an accepted frame immediately rather than
// via Tick/Trigger (only driver.Responder implements this today).
type responder interface {
	Respond(frame j1939.Frame) (j1939.Frame, bool)
}

// Authority is the network authority of spec §4.2: it owns transport,
// dispatches inbound frames to every registered driver, drains
// per-driver outbound frames on a fixed tick, and routes command-bus
// objects to every driver's Trigger (each driver filters by object
// type internally, so "the destination matches" reduces to a type
// check rather than an address lookup).
type Authority struct {
	transport Transport
	registry  *driver.Registry
	commands  *bus.CommandQueue
	signals   *bus.SignalBus
	logger    logging.Logger

	tickInterval time.Duration
	timeouts     map[driver.Driver]int
}

// NewAuthority builds an Authority. tickInterval of 0 uses
// DefaultTickInterval.
func NewAuthority(transport Transport, registry *driver.Registry, commands *bus.CommandQueue, signals *bus.SignalBus, logger logging.Logger, tickInterval time.Duration) *Authority {
	if tickInterval == 0 {
		tickInterval = DefaultTickInterval
	}
	return &Authority{
		transport:    transport,
		registry:     registry,
		commands:     commands,
		signals:      signals,
		logger:       logger,
		tickInterval: tickInterval,
		timeouts:     make(map[driver.Driver]int),
	}
}

// Run calls Setup on every driver, then runs the receive and tick
// duties concurrently until ctx is cancelled. Once the tick duty has
// stopped it routes a best-effort StopAll to every driver, calls
// Teardown on every driver, sends the resulting frames, closes the
// transport and returns. Frames still waiting in the outbound queue at
// that point are dropped, not drained.
func (a *Authority) Run(ctx context.Context) error {
	tx := make(chan j1939.Frame, 64)
	rx := make(chan object.Object, 64)

	setupTx := make(chan j1939.Frame, 64)
	for _, d := range a.registry.Drivers() {
		d.Setup(setupTx)
	}
	close(setupTx)
	for f := range setupTx {
		if err := a.transport.Send(f); err != nil {
			a.logger.Warnf("network: setup send failed: %v", err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	goutils.PanicCapturingGo(func() {
		for obj := range rx {
			a.signals.Publish(obj)
		}
	})

	g.Go(func() error {
		defer close(rx)
		return a.receiveLoop(gctx, rx, tx)
	})
	tickDone := make(chan struct{})
	g.Go(func() error {
		defer close(tickDone)
		return a.tickLoop(gctx, tx)
	})
	g.Go(func() error {
		<-gctx.Done()
		<-tickDone
		a.teardown()
		return a.transport.Close()
	})
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case f := <-tx:
				if err := a.transport.Send(f); err != nil {
					a.logger.Warnf("network: send failed: %v", err)
				}
			}
		}
	})

	return g.Wait()
}

func (a *Authority) teardown() {
	teardownTx := make(chan j1939.Frame, 64)
	for _, d := range a.registry.Drivers() {
		d.Trigger(teardownTx, object.StopAll())
		d.Teardown(teardownTx)
	}
	close(teardownTx)
	for f := range teardownTx {
		_ = a.transport.Send(f)
	}
}

// receiveLoop blocks on the transport and dispatches every frame to
// every registered driver in order, per spec §4.1's tie-break rule.
func (a *Authority) receiveLoop(ctx context.Context, rx chan<- object.Object, tx chan<- j1939.Frame) error {
	for {
		frame, err := a.transport.Recv()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		a.dispatch(frame, rx, tx)
	}
}

func (a *Authority) dispatch(frame j1939.Frame, rx chan<- object.Object, tx chan<- j1939.Frame) {
	for _, d := range a.registry.Drivers() {
		accepted, err := d.TryRecv(frame, rx, time.Now())
		switch {
		case err != nil:
			a.timeouts[d]++
			if a.timeouts[d] == unhealthyAfter {
				a.signals.Publish(object.ModuleStatus{
					Name:  d.Vendor() + "/" + d.Product(),
					State: object.ModuleDegraded,
					Error: err.Error(),
				})
			}
		case accepted:
			a.timeouts[d] = 0
			if r, ok := d.(responder); ok {
				if reply, ok := r.Respond(frame); ok {
					tx <- reply
				}
			}
		}
	}
}

// tickLoop drains the command bus and fires the periodic driver tick,
// per spec §4.2.
func (a *Authority) tickLoop(ctx context.Context, tx chan<- j1939.Frame) error {
	ticker := time.NewTicker(a.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			for _, d := range a.registry.Drivers() {
				d.Tick(tx)
			}
		case cmd := <-a.commands.Receive():
			for _, d := range a.registry.Drivers() {
				d.Trigger(tx, cmd)
			}
		}
	}
}
