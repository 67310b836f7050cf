package packet

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/opd-ai/orion/address"
)

// ErrGroupTooLarge indicates grouped members do not fit in one outer payload.
var ErrGroupTooLarge = errors.New("grouped packets exceed payload limit")

// NewGroup builds a packet with the GROUP flag whose payload is the
// concatenated wire form of members. Members are never split: if they do not
// fit within the outer packet's maximum length NewGroup fails.
func NewGroup(source, dest address.Address, sourcePort, destPort address.Port, members []*Packet, opts ...Option) (*Packet, error) {
	var payload []byte
	for _, m := range members {
		payload = append(payload, m.Save()...)
	}

	p := New(nil, source, dest, sourcePort, destPort, FlagGroup, opts...)
	if len(payload) > p.maxLength {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrGroupTooLarge, len(payload), p.maxLength)
	}
	if payload != nil {
		p.data = payload
	}
	return p, nil
}

// GroupedPackets returns the sub-packets carried in a GROUP payload, in order.
// It returns an empty slice when GROUP is clear. A trailing fragment too short
// for a header, or whose declared length overruns the payload, is dropped.
// Extraction never fails; at worst it returns fewer packets.
func (p *Packet) GroupedPackets() (out []*Packet) {
	out = []*Packet{}
	if p.empty || !p.IsGroup() {
		return out
	}

	defer func() {
		if r := recover(); r != nil {
			out = []*Packet{}
		}
	}()

	subs := ScanRecords(p.data, HeaderSize,
		func(header []byte) int { return int(binary.BigEndian.Uint16(header[14:16])) },
		func(record []byte) *Packet {
			sub, _ := decodeFrame(record)
			return sub
		},
	)
	return append(out, subs...)
}
