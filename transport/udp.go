package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/orion/limits"
)

// pollInterval bounds each socket read so context cancellation is noticed
// while waiting for a frame.
const pollInterval = 100 * time.Millisecond

// minReadWait is the shortest read deadline used. A deadline already in the
// past fails the read without looking at queued datagrams.
const minReadWait = time.Millisecond

// UDPRadio emulates a shared radio channel over UDP. It satisfies the Radio
// interface and always reports zero errors per frame.
type UDPRadio struct {
	conn   net.PacketConn
	peers  []net.Addr
	buffer []byte

	mu     sync.Mutex
	closed bool
}

// NewUDPRadio listens on listenAddr and transmits every frame to each peer.
func NewUDPRadio(listenAddr string, peers []string) (*UDPRadio, error) {
	if len(peers) == 0 {
		return nil, ErrNoPeers
	}

	resolved := make([]net.Addr, 0, len(peers))
	for _, p := range peers {
		addr, err := net.ResolveUDPAddr("udp", p)
		if err != nil {
			return nil, fmt.Errorf("resolve peer %s: %w", p, err)
		}
		resolved = append(resolved, addr)
	}

	conn, err := net.ListenPacket("udp", listenAddr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", listenAddr, err)
	}

	logrus.WithFields(logrus.Fields{
		"local_addr": conn.LocalAddr().String(),
		"peers":      len(resolved),
		"component":  "UDPRadio",
	}).Info("Created UDP radio")

	return &UDPRadio{
		conn:   conn,
		peers:  resolved,
		buffer: make([]byte, limits.MaxFrame),
	}, nil
}

// LocalAddr returns the address the radio listens on.
func (r *UDPRadio) LocalAddr() net.Addr {
	return r.conn.LocalAddr()
}

// Transmit writes frame to every peer. Errors from individual peers are joined.
func (r *UDPRadio) Transmit(frame []byte) error {
	if r.isClosed() {
		return ErrRadioClosed
	}

	var errs []error
	for _, peer := range r.peers {
		if _, err := r.conn.WriteTo(frame, peer); err != nil {
			errs = append(errs, fmt.Errorf("write to %s: %w", peer, err))
		}
	}
	return errors.Join(errs...)
}

// Receive reads one datagram. A negative timeout waits until a datagram
// arrives or ctx is done. A zero timeout still makes one short read, so a
// datagram already queued on the socket is returned.
func (r *UDPRadio) Receive(ctx context.Context, timeout time.Duration) ([]byte, int, error) {
	var deadline time.Time
	if timeout >= 0 {
		deadline = time.Now().Add(timeout)
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		if r.isClosed() {
			return nil, 0, ErrRadioClosed
		}

		wait := pollInterval
		if !deadline.IsZero() {
			if remaining := time.Until(deadline); remaining < wait {
				wait = remaining
			}
			if wait < minReadWait {
				wait = minReadWait
			}
		}

		frame, err := r.readFrame(wait)
		if err != nil {
			if r.handleReadError(err) {
				if !deadline.IsZero() && !time.Now().Before(deadline) {
					return nil, 0, nil
				}
				continue
			}
			if r.isClosed() {
				return nil, 0, ErrRadioClosed
			}
			return nil, 0, err
		}
		return frame, 0, nil
	}
}

// readFrame reads a single datagram with a read deadline of wait.
func (r *UDPRadio) readFrame(wait time.Duration) ([]byte, error) {
	if err := r.conn.SetReadDeadline(time.Now().Add(wait)); err != nil {
		return nil, err
	}
	n, _, err := r.conn.ReadFrom(r.buffer)
	if err != nil {
		return nil, err
	}
	frame := make([]byte, n)
	copy(frame, r.buffer[:n])
	return frame, nil
}

// handleReadError reports whether the read loop should continue.
func (r *UDPRadio) handleReadError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if r.isClosed() {
		return false
	}
	logrus.WithFields(logrus.Fields{
		"error":     err.Error(),
		"component": "UDPRadio",
	}).Debug("Error reading frame")
	return false
}

func (r *UDPRadio) isClosed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// Close shuts down the radio.
func (r *UDPRadio) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.mu.Unlock()
	return r.conn.Close()
}
