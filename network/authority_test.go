package network_test

import (
	"context"
	"testing"
	"time"

	"go.viam.com/test"

	"github.com/laixer/glonax/bus"
	"github.com/laixer/glonax/driver"
	"github.com/laixer/glonax/j1939"
	"github.com/laixer/glonax/logging"
	"github.com/laixer/glonax/network"
	"github.com/laixer/glonax/object"
)

func TestAuthorityDispatchesInboundFrameToSignalBus(t *testing.T) {
	logger := logging.NewTestLogger(t)
	transport := network.NewMemoryTransport(4, 4)
	registry := driver.NewRegistry()
	registry.Register(driver.NewEngineManagement(0x0, logger))

	commands := bus.NewCommandQueue(4, logger)
	signals := bus.NewSignalBus(logger)
	sub := signals.Subscribe(4)

	authority := network.NewAuthority(transport, registry, commands, signals, logger, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- authority.Run(ctx) }()

	id := j1939.NewIDBuilder(j1939.PGNElectronicEngineController1).Source(0x0).Build()
	transport.Inbound <- j1939.NewFrame(id, []byte{0xFF, 0xEA, 0x91, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF})

	select {
	case sig := <-sub.Receive():
		engine, ok := sig.(object.Engine)
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, engine.DriverDemand, test.ShouldEqual, uint8(109))
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for signal")
	}

	cancel()
	select {
	case err := <-done:
		test.That(t, err, test.ShouldBeNil)
	case <-time.After(2 * time.Second):
		t.Fatal("authority did not shut down")
	}
}

func TestAuthorityRoutesCommandToMatchingDriver(t *testing.T) {
	logger := logging.NewTestLogger(t)
	transport := network.NewMemoryTransport(4, 8)
	registry := driver.NewRegistry()
	registry.Register(driver.NewHCU(0x27, 0x11, logger))

	commands := bus.NewCommandQueue(4, logger)
	signals := bus.NewSignalBus(logger)

	authority := network.NewAuthority(transport, registry, commands, signals, logger, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- authority.Run(ctx) }()

	test.That(t, commands.Send(object.NewChange(object.Change{Actuator: object.ActuatorBoom, Value: 500})), test.ShouldBeNil)

	deadline := time.After(2 * time.Second)
	found := false
	for !found {
		select {
		case f := <-transport.Sent:
			if f.ID().PGN == j1939.HCUBank0 {
				found = true
			}
		case <-deadline:
			t.Fatal("timed out waiting for HCU bank frame")
		}
	}

	cancel()
	<-done
}
