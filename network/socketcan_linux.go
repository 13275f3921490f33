//go:build linux

package network

import (
	"encoding/binary"
	"net"

	"golang.org/x/sys/unix"

	"github.com/laixer/glonax/glonaxerr"
	"github.com/laixer/glonax/j1939"
)

// canFrameSize is sizeof(struct can_frame): a 4-byte CAN ID, a 1-byte
// DLC, 3 reserved/pad bytes, then 8 data bytes.
const canFrameSize = 16

// CANSocket is a raw AF_CAN/CAN_RAW socket bound to a named interface,
// the production Transport for the network authority.
type CANSocket struct {
	fd int
}

// NewCANSocket opens and binds a raw CAN_RAW socket on the named
// interface (e.g. "can0").
func NewCANSocket(ifname string) (*CANSocket, error) {
	iface, err := net.InterfaceByName(ifname)
	if err != nil {
		return nil, glonaxerr.NewFatal(err)
	}

	fd, err := unix.Socket(unix.AF_CAN, unix.SOCK_RAW, unix.CAN_RAW)
	if err != nil {
		return nil, glonaxerr.NewFatal(err)
	}

	addr := &unix.SockaddrCAN{Ifindex: iface.Index}
	if err := unix.Bind(fd, addr); err != nil {
		unix.Close(fd)
		return nil, glonaxerr.NewFatal(err)
	}

	return &CANSocket{fd: fd}, nil
}

// Send writes frame as a raw socketcan can_frame, extended-ID flagged.
func (s *CANSocket) Send(frame j1939.Frame) error {
	var buf [canFrameSize]byte
	binary.LittleEndian.PutUint32(buf[0:4], frame.ID().ToCANID()|unix.CAN_EFF_FLAG)
	pdu := frame.PDU()
	buf[4] = uint8(len(pdu))
	copy(buf[8:], pdu)

	_, err := unix.Write(s.fd, buf[:])
	return err
}

// Recv blocks for the next frame on the bus and decodes it.
func (s *CANSocket) Recv() (j1939.Frame, error) {
	var buf [canFrameSize]byte
	n, err := unix.Read(s.fd, buf[:])
	if err != nil {
		return j1939.Frame{}, err
	}
	if n < canFrameSize {
		return j1939.Frame{}, glonaxerr.ErrBusError
	}

	canID := binary.LittleEndian.Uint32(buf[0:4]) & unix.CAN_EFF_MASK
	dlc := buf[4]
	id := j1939.IdentifierFromCANID(canID)
	return j1939.NewFrame(id, buf[8:8+dlc]), nil
}

// Close releases the underlying file descriptor.
func (s *CANSocket) Close() error {
	return unix.Close(s.fd)
}
