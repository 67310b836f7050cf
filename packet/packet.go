package packet

import (
	"bytes"

	"github.com/opd-ai/orion/address"
	"github.com/opd-ai/orion/limits"
)

// Packet is one ORION frame in structured form.
//
// The payload length is not stored separately: Length always reports len(Data),
// which keeps the header field and the payload consistent across every mutator.
// A Packet produced by a failed Load is Empty; Empty packets are all zero and
// ignore every mutator.
type Packet struct {
	source     address.Address
	dest       address.Address
	sourcePort address.Port
	destPort   address.Port
	flags      Flags
	age        uint8
	data       []byte
	maxLength  int
	empty      bool
}

// Option configures packet construction.
type Option func(*Packet)

// WithMaxLength sets the payload bound used by New and SetData. Values outside
// [0, limits.MaxPayloadExtended] are clamped.
func WithMaxLength(n int) Option {
	return func(p *Packet) {
		p.maxLength = limits.ClampLimit(n)
	}
}

// New builds a packet with age zero. Data longer than the configured maximum
// (limits.MaxPayloadExtended unless WithMaxLength says otherwise) is truncated
// silently.
func New(data []byte, source, dest address.Address, sourcePort, destPort address.Port, flags Flags, opts ...Option) *Packet {
	p := &Packet{
		source:     source,
		dest:       dest,
		sourcePort: sourcePort,
		destPort:   destPort,
		flags:      flags,
		maxLength:  limits.MaxPayloadExtended,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.data = limits.Truncate(data, p.maxLength)
	return p
}

// emptyPacket returns the canonical zeroed packet that a failed parse yields.
func emptyPacket() *Packet {
	return &Packet{
		data:      []byte{},
		maxLength: limits.MaxPayloadExtended,
		empty:     true,
	}
}

// IsEmpty reports whether the packet came from a failed parse. No field of an
// Empty packet should be trusted.
func (p *Packet) IsEmpty() bool { return p.empty }

// Source returns the source address.
func (p *Packet) Source() address.Address { return p.source }

// Dest returns the destination address.
func (p *Packet) Dest() address.Address { return p.dest }

// SourcePort returns the source port.
func (p *Packet) SourcePort() address.Port { return p.sourcePort }

// DestPort returns the destination port.
func (p *Packet) DestPort() address.Port { return p.destPort }

// SourceSocket returns the source address and port.
func (p *Packet) SourceSocket() address.Socket {
	return address.Socket{Address: p.source, Port: p.sourcePort}
}

// DestSocket returns the destination address and port.
func (p *Packet) DestSocket() address.Socket {
	return address.Socket{Address: p.dest, Port: p.destPort}
}

// Flags returns the flag byte.
func (p *Packet) Flags() Flags { return p.flags }

// Age returns the hop counter.
func (p *Packet) Age() uint8 { return p.age }

// Data returns the payload. The slice is owned by the packet.
func (p *Packet) Data() []byte { return p.data }

// Length returns the payload length carried in the header.
func (p *Packet) Length() int { return len(p.data) }

// MaxLength returns the payload bound applied by SetData.
func (p *Packet) MaxLength() int { return p.maxLength }

// WireSize returns the serialized size, header included.
func (p *Packet) WireSize() int { return limits.HeaderSize + len(p.data) }

// SetSource replaces the source address.
func (p *Packet) SetSource(a address.Address) {
	if p.empty {
		return
	}
	p.source = a
}

// SetDest replaces the destination address.
func (p *Packet) SetDest(a address.Address) {
	if p.empty {
		return
	}
	p.dest = a
}

// SetSourcePort replaces the source port.
func (p *Packet) SetSourcePort(port address.Port) {
	if p.empty {
		return
	}
	p.sourcePort = port
}

// SetDestPort replaces the destination port.
func (p *Packet) SetDestPort(port address.Port) {
	if p.empty {
		return
	}
	p.destPort = port
}

// SetFlags replaces the whole flag byte. Data and Length are untouched.
func (p *Packet) SetFlags(f Flags) {
	if p.empty {
		return
	}
	p.flags = f
}

// SetData replaces the payload, truncating it to MaxLength.
func (p *Packet) SetData(data []byte) {
	if p.empty {
		return
	}
	p.data = limits.Truncate(data, p.maxLength)
}

// IncrementAge adds one hop to the age, saturating at 255.
func (p *Packet) IncrementAge() {
	if p.empty || p.age == 255 {
		return
	}
	p.age++
}

// Equal reports whether both packets carry identical header fields and payload.
func (p *Packet) Equal(o *Packet) bool {
	if p == nil || o == nil {
		return p == o
	}
	return p.empty == o.empty &&
		p.source == o.source &&
		p.dest == o.dest &&
		p.sourcePort == o.sourcePort &&
		p.destPort == o.destPort &&
		p.flags == o.flags &&
		p.age == o.age &&
		bytes.Equal(p.data, o.data)
}

// Clone returns a deep copy.
func (p *Packet) Clone() *Packet {
	c := *p
	c.data = append([]byte{}, p.data...)
	return &c
}
