package packet

import (
	"encoding/binary"

	"github.com/opd-ai/orion/address"
	"github.com/opd-ai/orion/limits"
)

// HeaderSize is the fixed header length in bytes.
const HeaderSize = limits.HeaderSize

// Header is the fixed wire header.
type Header struct {
	Source     address.Address
	Dest       address.Address
	SourcePort address.Port
	DestPort   address.Port
	Flags      Flags
	Age        uint8
	Length     uint16
}

// EncodeHeader writes h into the first HeaderSize bytes of buf.
// buf must be at least HeaderSize long.
func EncodeHeader(buf []byte, h Header) {
	_ = buf[HeaderSize-1]
	copy(buf[0:4], h.Source[:])
	copy(buf[4:8], h.Dest[:])
	binary.BigEndian.PutUint16(buf[8:10], uint16(h.SourcePort))
	binary.BigEndian.PutUint16(buf[10:12], uint16(h.DestPort))
	buf[12] = byte(h.Flags)
	buf[13] = h.Age
	binary.BigEndian.PutUint16(buf[14:16], h.Length)
}

// DecodeHeader reads a header from b. ok is false when b is shorter than HeaderSize.
func DecodeHeader(b []byte) (h Header, ok bool) {
	if len(b) < HeaderSize {
		return Header{}, false
	}
	copy(h.Source[:], b[0:4])
	copy(h.Dest[:], b[4:8])
	h.SourcePort = address.Port(binary.BigEndian.Uint16(b[8:10]))
	h.DestPort = address.Port(binary.BigEndian.Uint16(b[10:12]))
	h.Flags = Flags(b[12])
	h.Age = b[13]
	h.Length = binary.BigEndian.Uint16(b[14:16])
	return h, true
}

// Header returns the packet's header fields.
func (p *Packet) Header() Header {
	return Header{
		Source:     p.source,
		Dest:       p.dest,
		SourcePort: p.sourcePort,
		DestPort:   p.destPort,
		Flags:      p.flags,
		Age:        p.age,
		Length:     uint16(len(p.data)),
	}
}

// Save serializes the packet to its wire form.
func (p *Packet) Save() []byte {
	buf := make([]byte, HeaderSize+len(p.data))
	EncodeHeader(buf, p.Header())
	copy(buf[HeaderSize:], p.data)
	return buf
}

// Load parses a frame. Input shorter than the header, or whose declared length
// runs past the end of the input, yields an Empty packet. Bytes after the
// declared payload are ignored. The result never aliases b.
func Load(b []byte) *Packet {
	p, _ := decodeFrame(b)
	if p == nil {
		return emptyPacket()
	}
	return p
}

// decodeFrame parses one frame at the start of b and reports how many bytes it
// consumed. It returns nil when b does not hold a complete frame.
func decodeFrame(b []byte) (*Packet, int) {
	h, ok := DecodeHeader(b)
	if !ok {
		return nil, 0
	}
	end := HeaderSize + int(h.Length)
	if end > len(b) {
		return nil, 0
	}
	data := make([]byte, h.Length)
	copy(data, b[HeaderSize:end])
	return &Packet{
		source:     h.Source,
		dest:       h.Dest,
		sourcePort: h.SourcePort,
		destPort:   h.DestPort,
		flags:      h.Flags,
		age:        h.Age,
		data:       data,
		maxLength:  limits.MaxPayloadExtended,
	}, end
}
