package orion

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/opd-ai/orion/address"
	"github.com/opd-ai/orion/limits"
	"github.com/opd-ai/orion/logging"
	"github.com/opd-ai/orion/packet"
	"github.com/opd-ai/orion/transport"
)

var (
	// ErrReceiveInProgress indicates another receive call is already waiting on the endpoint
	ErrReceiveInProgress = errors.New("receive already in progress")

	// ErrNilRadio indicates New was called without a radio
	ErrNilRadio = errors.New("radio is nil")

	// ErrEmptyPacket indicates an attempt to send a nil or Empty packet
	ErrEmptyPacket = errors.New("cannot send empty packet")

	// ErrInvalidTimeoutPolicy indicates an unknown TimeoutPolicy value
	ErrInvalidTimeoutPolicy = errors.New("invalid timeout policy")
)

// Stats counts endpoint activity since creation.
type Stats struct {
	Sent      uint64 // packets transmitted
	Received  uint64 // packets returned to callers
	Malformed uint64 // frames that parsed to an Empty packet
	Filtered  uint64 // packets discarded by ReceiveForSelf
	Timeouts  uint64 // radio receive timeouts
}

// Endpoint is an ORION network interface bound to one radio.
type Endpoint struct {
	options Options
	link    *transport.Link
	logger  logging.Logger

	receiving atomic.Bool

	sent      atomic.Uint64
	received  atomic.Uint64
	malformed atomic.Uint64
	filtered  atomic.Uint64
	timeouts  atomic.Uint64
}

// New creates an Endpoint over radio. A nil options value uses NewOptions.
func New(radio transport.Radio, options *Options) (*Endpoint, error) {
	if radio == nil {
		return nil, ErrNilRadio
	}
	if options == nil {
		options = NewOptions()
	}
	if err := limits.ValidateLimit(options.MaxPayload); err != nil {
		return nil, err
	}
	if options.TimeoutPolicy > IgnoreTimeout {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTimeoutPolicy, options.TimeoutPolicy)
	}

	logger := logging.OrNop(options.Logger)
	e := &Endpoint{
		options: *options,
		link:    transport.NewLink(radio, logger),
		logger:  logger,
	}
	e.options.Logger = logger

	logger.Log(logging.LevelInfo, fmt.Sprintf("endpoint bound to %s", e.LocalSocket()))
	return e, nil
}

// Address returns the endpoint's own address.
func (e *Endpoint) Address() address.Address { return e.options.Address }

// Port returns the endpoint's own port.
func (e *Endpoint) Port() address.Port { return e.options.Port }

// LocalSocket returns the endpoint's address and port.
func (e *Endpoint) LocalSocket() address.Socket {
	return address.Socket{Address: e.options.Address, Port: e.options.Port}
}

// BuildPacket returns a packet from this endpoint to dest:destPort. Data beyond
// the endpoint's MaxPayload is truncated.
func (e *Endpoint) BuildPacket(data []byte, dest address.Address, destPort address.Port, flags packet.Flags) *packet.Packet {
	return packet.New(data, e.options.Address, dest, e.options.Port, destPort, flags,
		packet.WithMaxLength(e.options.MaxPayload))
}

// Send serializes p and hands it to the radio. Radio failures are returned
// wrapped in a *transport.LinkError.
func (e *Endpoint) Send(p *packet.Packet) error {
	if p == nil || p.IsEmpty() {
		return ErrEmptyPacket
	}
	e.logger.Log(logging.LevelDebug, fmt.Sprintf("sending packet to %s", p.DestSocket()))
	if err := e.link.Transmit(p.Save()); err != nil {
		return err
	}
	e.sent.Add(1)
	return nil
}

// ReceiveAny returns the next frame heard on the radio, parsed, whatever its
// addressing. Malformed frames come back as Empty packets; checking IsEmpty is
// the caller's job. Radio timeouts are not returned: the call keeps listening
// until a frame arrives or ctx is done. A negative timeout makes each radio
// wait unbounded.
func (e *Endpoint) ReceiveAny(ctx context.Context, timeout time.Duration) (*packet.Packet, error) {
	if !e.receiving.CompareAndSwap(false, true) {
		return nil, ErrReceiveInProgress
	}
	defer e.receiving.Store(false)

	e.logger.Log(logging.LevelDebug, "listening for any packet")
	for {
		frame, err := e.link.Receive(ctx, timeout)
		if err != nil {
			return nil, err
		}
		if len(frame) == 0 {
			e.timeouts.Add(1)
			continue
		}

		p := e.parse(frame)
		e.received.Add(1)
		return p, nil
	}
}

// ReceiveForSelf returns the next well-formed packet addressed to this
// endpoint's address and port, discarding everything else. When the radio
// times out first, the result depends on Options.TimeoutPolicy: nil packet and
// nil error under ReturnOnTimeout, keep listening under IgnoreTimeout.
func (e *Endpoint) ReceiveForSelf(ctx context.Context, timeout time.Duration) (*packet.Packet, error) {
	if !e.receiving.CompareAndSwap(false, true) {
		return nil, ErrReceiveInProgress
	}
	defer e.receiving.Store(false)

	e.logger.Log(logging.LevelDebug, fmt.Sprintf("listening for packets addressed to %s", e.LocalSocket()))
	for {
		frame, err := e.link.Receive(ctx, timeout)
		if err != nil {
			return nil, err
		}
		if len(frame) == 0 {
			e.timeouts.Add(1)
			if e.options.TimeoutPolicy == ReturnOnTimeout {
				return nil, nil
			}
			continue
		}

		p := e.parse(frame)
		if p.IsEmpty() {
			continue
		}
		if !e.accepts(p) {
			e.filtered.Add(1)
			e.logger.Log(logging.LevelDebug, fmt.Sprintf("ignoring packet for %s", p.DestSocket()))
			continue
		}

		e.received.Add(1)
		e.logger.Log(logging.LevelInfo, fmt.Sprintf("received packet from %s", p.SourceSocket()))
		return p, nil
	}
}

func (e *Endpoint) parse(frame []byte) *packet.Packet {
	p := packet.Load(frame)
	if p.IsEmpty() {
		e.malformed.Add(1)
		e.logger.Log(logging.LevelWarn, fmt.Sprintf("dropped malformed frame of %d bytes", len(frame)))
	}
	return p
}

// accepts reports whether p is addressed to this endpoint.
func (e *Endpoint) accepts(p *packet.Packet) bool {
	if p.DestPort() != e.options.Port {
		return false
	}
	if p.Dest() == e.options.Address {
		return true
	}
	return e.options.AcceptBroadcast && p.Dest().IsBroadcast()
}

// Integrity returns the link's estimate for the most recent usable frame, in [0,1].
func (e *Endpoint) Integrity() float64 {
	return e.link.Integrity()
}

// Stats returns a snapshot of the endpoint counters.
func (e *Endpoint) Stats() Stats {
	return Stats{
		Sent:      e.sent.Load(),
		Received:  e.received.Load(),
		Malformed: e.malformed.Load(),
		Filtered:  e.filtered.Load(),
		Timeouts:  e.timeouts.Load(),
	}
}

// Close closes the underlying radio when it supports closing.
func (e *Endpoint) Close() error {
	return e.link.Close()
}
