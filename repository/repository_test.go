package repository_test

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"go.viam.com/test"

	"github.com/laixer/glonax/object"
	"github.com/laixer/glonax/repository"
)

func newTestInstance() object.Instance {
	return object.NewInstance(uuid.New(), "Test", object.MachineExcavator, [3]uint8{0, 0, 1})
}

func TestSetAndGetEngine(t *testing.T) {
	r := repository.New(newTestInstance())

	r.SetEngine(object.Engine{RPM: 900, State: object.EngineRequest})
	got := r.Engine()
	test.That(t, got.RPM, test.ShouldEqual, uint16(900))
	test.That(t, got.State, test.ShouldEqual, object.EngineRequest)
}

func TestRotatorsSnapshotIsIndependentOfLiveMap(t *testing.T) {
	r := repository.New(newTestInstance())
	r.SetRotator(5, object.Rotator{Source: 5})

	snap := r.Rotators()
	r.SetRotator(6, object.Rotator{Source: 6})

	test.That(t, len(snap), test.ShouldEqual, 1)
	test.That(t, len(r.Rotators()), test.ShouldEqual, 2)
}

func TestControlsAreASet(t *testing.T) {
	r := repository.New(newTestInstance())
	r.SetControl(object.HydraulicLock(true))
	r.SetControl(object.HydraulicLock(true))
	r.SetControl(object.HydraulicBoost(false))

	test.That(t, len(r.Controls()), test.ShouldEqual, 2)
}

func TestTargetsAppendAndClear(t *testing.T) {
	r := repository.New(newTestInstance())
	r.PushTarget(object.Target{})
	r.PushTarget(object.Target{})
	test.That(t, len(r.Targets()), test.ShouldEqual, 2)

	r.ClearTargets()
	test.That(t, len(r.Targets()), test.ShouldEqual, 0)
}

// TestConcurrentAccessIsSafe exercises the single-writer/reader
// pattern under the race detector: one writer goroutine racing the
// test goroutine's reads.
func TestConcurrentAccessIsSafe(t *testing.T) {
	r := repository.New(newTestInstance())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			r.SetEngine(object.Engine{RPM: uint16(i)})
		}
	}()

	for i := 0; i < 100; i++ {
		_ = r.Engine()
	}
	wg.Wait()
}
