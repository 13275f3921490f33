// Command glonaxd wires the field-bus network authority and the tick
// pipeline into one running machine control process, per spec §5's
// process architecture. It is a minimal wiring entrypoint: it takes the
// config path as its only argument and shuts down on SIGINT/SIGTERM;
// flag parsing and daemonization detail are out of scope (spec
// EXPANSION's carried-forward Non-goals), left to a process supervisor
// (systemd) in production.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/golang/geo/r3"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/laixer/glonax/bus"
	"github.com/laixer/glonax/config"
	"github.com/laixer/glonax/controlloop"
	"github.com/laixer/glonax/driver"
	"github.com/laixer/glonax/encoder"
	"github.com/laixer/glonax/kinematic"
	"github.com/laixer/glonax/logging"
	"github.com/laixer/glonax/network"
	"github.com/laixer/glonax/object"
	"github.com/laixer/glonax/pipeline"
	"github.com/laixer/glonax/repository"
)

func main() {
	logger := logging.NewDevelopmentLogger("glonaxd")
	defer logger.Sync()

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: glonaxd <config.yaml>")
		os.Exit(1)
	}

	if err := run(os.Args[1], logger); err != nil {
		logger.Errorf("glonaxd: %v", err)
		os.Exit(1)
	}
}

func run(configPath string, logger logging.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	machineType, ok := cfg.Instance.MachineType()
	if !ok {
		return fmt.Errorf("glonaxd: unknown machine type %q", cfg.Instance.Type)
	}
	instance := object.NewInstance(uuid.New(), cfg.Instance.Model, machineType, cfg.Instance.Version)

	actor := buildActor(cfg, instance.Model)
	world := kinematic.NewWorld()
	world.AddActor(actor)

	registry := driver.NewRegistry()
	jointBySource := make(map[uint8]string)
	for _, binding := range cfg.Network.Drivers {
		d, err := buildDriver(binding, logger)
		if err != nil {
			return err
		}
		registry.Register(d)
		if binding.Joint != "" {
			jointBySource[binding.Source] = binding.Joint
		}
	}

	controllers := map[object.Actuator]*controlloop.ActuatorState{
		object.ActuatorSlew:       controlloop.NewActuatorState(object.ActuatorSlew, controlloop.NewLinear(6000, 6000, false)),
		object.ActuatorBoom:       controlloop.NewActuatorState(object.ActuatorBoom, controlloop.NewLinear(6000, 6000, false)),
		object.ActuatorArm:        controlloop.NewActuatorState(object.ActuatorArm, controlloop.NewLinear(6000, 6000, true)),
		object.ActuatorAttachment: controlloop.NewActuatorState(object.ActuatorAttachment, controlloop.NewLinear(6000, 6000, false)),
	}

	repo := repository.New(instance)
	signals := bus.NewSignalBus(logger)
	commands := bus.NewCommandQueue(64, logger)

	transport, err := network.NewCANSocket(cfg.Network.Interface)
	if err != nil {
		return err
	}

	authority := network.NewAuthority(transport, registry, commands, signals, logger, network.DefaultTickInterval)

	pipelineSub := signals.Subscribe(256)
	p := pipeline.New(world, actor.Name, jointBySource, controllers, repo, pipelineSub, commands, signals, cfg.BuildGovernor(), logger, nil, nil)

	watcher, err := config.NewWatcher(configPath, logger)
	if err != nil {
		logger.Warnf("glonaxd: config watcher disabled: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return authority.Run(gctx) })

	g.Go(func() error {
		ticker := time.NewTicker(network.DefaultTickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				p.Tick()
			case cfg := <-watcherChanges(watcher):
				if cfg == nil {
					continue
				}
				logger.Infof("glonaxd: config reloaded from %s; restart to apply", configPath)
			}
		}
	})

	err = g.Wait()
	if watcher != nil {
		watcher.Close()
	}
	return err
}

// watcherChanges returns watcher.Changes(), or a nil channel (which
// blocks forever in a select) when the watcher could not be started.
func watcherChanges(watcher *config.Watcher) <-chan *config.Config {
	if watcher == nil {
		return nil
	}
	return watcher.Changes()
}

func buildActor(cfg *config.Config, name string) *kinematic.Actor {
	b := kinematic.NewActorBuilder(name)
	for _, seg := range cfg.Actor {
		b.AttachRigid(seg.Name, kinematic.NewIsometry(r3.Vector{X: seg.X, Y: seg.Y, Z: seg.Z}, mgl32.QuatIdent()))
	}
	return b.Build()
}

// buildDriver constructs the concrete driver.Driver named by a
// DriverBinding, per spec §4.1's closed driver set.
func buildDriver(binding config.DriverBinding, logger logging.Logger) (driver.Driver, error) {
	switch {
	case binding.Vendor == "j1939" && binding.Product == "hcu":
		return driver.NewHCU(binding.Destination, binding.Source, logger), nil
	case binding.Vendor == "j1939" && binding.Product == "engine":
		return driver.NewEngineManagement(binding.Source, logger), nil
	case binding.Vendor == "j1939" && binding.Product == "ecu":
		return driver.NewIdentity(binding.Destination, binding.Source, logger), nil
	case binding.Vendor == "j1939" && binding.Product == "probe":
		return driver.NewProbe(binding.Source, logger), nil
	case binding.Vendor == "kübler" && binding.Product == "encoder":
		axis := mgl32.Vec3{0, 1, 0}
		if binding.Joint == "slew" {
			axis = mgl32.Vec3{0, 0, 1}
		}
		conv := encoder.NewConverter(binding.EncoderFactor, binding.EncoderOffset, binding.EncoderInvert, axis)
		return driver.NewKueblerEncoder(binding.Source, conv, logger), nil
	case binding.Vendor == "kübler" && binding.Product == "inclinometer":
		return driver.NewKueblerInclinometer(binding.Destination, binding.Source, logger), nil
	case binding.Vendor == "volvo" && binding.Product == "vecu":
		return driver.NewVolvoVECU(binding.Destination, binding.Source), nil
	default:
		return nil, fmt.Errorf("glonaxd: unknown driver binding %s/%s", binding.Vendor, binding.Product)
	}
}
