// Package checksum gives the CHECKSUM packet flag a concrete mechanism.
//
// Seal appends a 4-byte BLAKE2b digest of the payload and sets the flag.
// Verify checks and strips it. The packet core only carries the flag; this
// package is one of the higher layers that interpret it.
package checksum

import (
	"bytes"
	"errors"
	"fmt"

	"golang.org/x/crypto/blake2b"

	"github.com/opd-ai/orion/packet"
)

// Size is the length of the digest trailer in bytes.
const Size = 4

var (
	// ErrMismatch indicates the trailer does not match the payload
	ErrMismatch = errors.New("checksum mismatch")

	// ErrNotSealed indicates the CHECKSUM flag is clear or the payload is shorter than the trailer
	ErrNotSealed = errors.New("packet carries no checksum")

	// ErrNoRoom indicates the payload plus trailer would exceed the packet's maximum length
	ErrNoRoom = errors.New("no room for checksum")
)

// Sum returns the trailer for payload.
func Sum(payload []byte) []byte {
	h, err := blake2b.New(Size, nil)
	if err != nil {
		// Size is a valid digest length; New only fails for sizes outside [1,64].
		panic(err)
	}
	h.Write(payload)
	return h.Sum(nil)
}

// Seal appends the trailer to p's payload and sets the CHECKSUM flag. A packet
// that is already sealed is sealed again over its current payload.
func Seal(p *packet.Packet) error {
	if p.IsEmpty() {
		return ErrNotSealed
	}
	data := p.Data()
	if len(data)+Size > p.MaxLength() {
		return fmt.Errorf("%w: payload %d, limit %d", ErrNoRoom, len(data), p.MaxLength())
	}
	sealed := make([]byte, 0, len(data)+Size)
	sealed = append(sealed, data...)
	sealed = append(sealed, Sum(data)...)
	p.SetData(sealed)
	p.SetChecksum(true)
	return nil
}

// Verify checks the trailer on a sealed packet and returns the payload without it.
// The packet is not modified.
func Verify(p *packet.Packet) ([]byte, error) {
	data := p.Data()
	if p.IsEmpty() || !p.IsChecksum() || len(data) < Size {
		return nil, ErrNotSealed
	}
	body, trailer := data[:len(data)-Size], data[len(data)-Size:]
	if !bytes.Equal(Sum(body), trailer) {
		return nil, ErrMismatch
	}
	out := make([]byte, len(body))
	copy(out, body)
	return out, nil
}

// Open verifies p and, on success, strips the trailer and clears the CHECKSUM flag.
func Open(p *packet.Packet) error {
	body, err := Verify(p)
	if err != nil {
		return err
	}
	p.SetData(body)
	p.SetChecksum(false)
	return nil
}
