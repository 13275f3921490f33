package network

import (
	"errors"

	"github.com/laixer/glonax/j1939"
)

// errTransportClosed is returned by a closed MemoryTransport's Recv,
// unblocking the authority's receive loop on shutdown the same way
// closing the CAN socket's file descriptor does.
var errTransportClosed = errors.New("transport closed")

// MemoryTransport is an in-process Transport for tests: Send appends
// to Sent, Recv drains an injectable Inbound channel.
type MemoryTransport struct {
	Inbound chan j1939.Frame
	Sent    chan j1939.Frame
	closed  chan struct{}
}

// NewMemoryTransport builds a MemoryTransport with the given inbound
// and outbound buffer capacities.
func NewMemoryTransport(inboundCap, sentCap int) *MemoryTransport {
	return &MemoryTransport{
		Inbound: make(chan j1939.Frame, inboundCap),
		Sent:    make(chan j1939.Frame, sentCap),
		closed:  make(chan struct{}),
	}
}

func (t *MemoryTransport) Send(frame j1939.Frame) error {
	select {
	case t.Sent <- frame:
	default:
	}
	return nil
}

func (t *MemoryTransport) Recv() (j1939.Frame, error) {
	select {
	case f := <-t.Inbound:
		return f, nil
	case <-t.closed:
		return j1939.Frame{}, errTransportClosed
	}
}

func (t *MemoryTransport) Close() error {
	select {
	case <-t.closed:
	default:
		close(t.closed)
	}
	return nil
}
