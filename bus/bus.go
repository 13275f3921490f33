// Package bus implements the command and signal buses of spec §4.11: a
// bounded multi-producer/single-consumer command queue, and a
// single-producer/multi-consumer signal broadcast that drops instead
// of blocking its producer. Both are grounded on the
// channel/select/PanicCapturingGo idiom in
// services/motion/builtin/state/state.go, adapted from that package's
// execution-goroutine lifecycle to a plain queue/fan-out shape.
package bus

import (
	"sync"
	"sync/atomic"

	"github.com/laixer/glonax/glonaxerr"
	"github.com/laixer/glonax/logging"
	"github.com/laixer/glonax/object"
)

// CommandQueue is a bounded multi-producer, single-consumer channel of
// outbound commands. Send never blocks: a full queue logs and returns
// glonaxerr.ErrQueueFull rather than stalling the producer (spec §4.11,
// §5 "no per-request timeouts").
type CommandQueue struct {
	ch     chan object.Object
	logger logging.Logger
}

// NewCommandQueue constructs a CommandQueue with the given capacity.
func NewCommandQueue(capacity int, logger logging.Logger) *CommandQueue {
	return &CommandQueue{ch: make(chan object.Object, capacity), logger: logger}
}

// Send enqueues a command without blocking. It returns
// glonaxerr.ErrQueueFull (already logged) if the queue has no room.
func (q *CommandQueue) Send(cmd object.Object) error {
	select {
	case q.ch <- cmd:
		return nil
	default:
		q.logger.Warnf("command queue full, dropping %T", cmd)
		return glonaxerr.ErrQueueFull
	}
}

// Receive returns the consumer-side channel. Only the network
// authority may read from it (spec §5, "Shared-resource policy").
func (q *CommandQueue) Receive() <-chan object.Object {
	return q.ch
}

// subscriber is one broadcast consumer's bounded mailbox.
type subscriber struct {
	ch      chan object.Object
	dropped atomic.Uint64
}

// SignalBus is a single-producer, multi-consumer broadcast. Publish
// never blocks: a subscriber whose mailbox is full has the signal
// dropped and counted, rather than stalling the producer or other
// subscribers (spec §4.11).
type SignalBus struct {
	mu          sync.RWMutex
	subscribers map[*subscriber]struct{}
	logger      logging.Logger
}

// NewSignalBus constructs an empty SignalBus.
func NewSignalBus(logger logging.Logger) *SignalBus {
	return &SignalBus{subscribers: make(map[*subscriber]struct{}), logger: logger}
}

// Subscription is a live broadcast subscription; call Unsubscribe when
// the consumer is done to stop counting drops against it.
type Subscription struct {
	bus *SignalBus
	sub *subscriber
}

// Receive returns the channel this subscription's signals arrive on.
func (s *Subscription) Receive() <-chan object.Object {
	return s.sub.ch
}

// Dropped returns the count of signals dropped because this
// subscription's mailbox was full.
func (s *Subscription) Dropped() uint64 {
	return s.sub.dropped.Load()
}

// Unsubscribe removes the subscription from the bus.
func (s *Subscription) Unsubscribe() {
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()
	delete(s.bus.subscribers, s.sub)
}

// Subscribe registers a new broadcast consumer with the given mailbox
// capacity.
func (b *SignalBus) Subscribe(capacity int) *Subscription {
	sub := &subscriber{ch: make(chan object.Object, capacity)}

	b.mu.Lock()
	b.subscribers[sub] = struct{}{}
	b.mu.Unlock()

	return &Subscription{bus: b, sub: sub}
}

// Publish fans a signal out to every current subscriber. Slow
// subscribers (full mailbox) have the signal dropped for them and
// counted; Publish itself never blocks.
func (b *SignalBus) Publish(sig object.Object) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.subscribers {
		select {
		case sub.ch <- sig:
		default:
			sub.dropped.Add(1)
			if b.logger != nil {
				b.logger.Debugf("signal bus dropped %T for slow subscriber", sig)
			}
		}
	}
}
