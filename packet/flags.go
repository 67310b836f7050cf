package packet

import (
	"errors"
	"strings"
)

// Flags is the packet flag byte. Bit 0 of the protocol numbering is the most
// significant bit.
type Flags uint8

const (
	// FlagGroup marks a payload made of complete sub-packets
	FlagGroup Flags = 1 << (7 - iota)
	// FlagChecksum marks a payload covered by a checksum
	FlagChecksum
	// FlagSignature marks a payload carrying a signature
	FlagSignature
	// FlagKey marks a payload carrying or relating to key material
	FlagKey
	// FlagEncoding marks a non-default payload encoding
	FlagEncoding
	// FlagFormatting marks structured payload formatting
	FlagFormatting
	// FlagEncryption marks an encrypted payload
	FlagEncryption
	// FlagSubheader marks a payload that begins with an application sub-header
	FlagSubheader
)

// ErrInvalidFlags indicates flag text that is not eight binary digits.
var ErrInvalidFlags = errors.New("invalid flag bits")

var flagNames = [8]string{"GROUP", "CHECKSUM", "SIGNATURE", "KEY", "ENCODING", "FORMATTING", "ENCRYPTION", "SUBHEADER"}

// Has reports whether every bit in mask is set.
func (f Flags) Has(mask Flags) bool {
	return f&mask == mask
}

// With returns f with the bits in mask set or cleared.
func (f Flags) With(mask Flags, on bool) Flags {
	if on {
		return f | mask
	}
	return f &^ mask
}

// Bit reports the flag at protocol bit index i (0 = GROUP). Out of range indices report false.
func (f Flags) Bit(i int) bool {
	if i < 0 || i > 7 {
		return false
	}
	return f&(1<<(7-i)) != 0
}

// String renders the byte as eight binary digits, GROUP first.
func (f Flags) String() string {
	var b [8]byte
	for i := range b {
		if f.Bit(i) {
			b[i] = '1'
		} else {
			b[i] = '0'
		}
	}
	return string(b[:])
}

// Names lists the names of the set flags in bit order.
func (f Flags) Names() []string {
	var names []string
	for i, name := range flagNames {
		if f.Bit(i) {
			names = append(names, name)
		}
	}
	return names
}

// ParseFlags parses the eight-digit form produced by Flags.String.
func ParseFlags(text string) (Flags, error) {
	text = strings.TrimSpace(text)
	if len(text) != 8 {
		return 0, ErrInvalidFlags
	}
	var f Flags
	for i := 0; i < 8; i++ {
		switch text[i] {
		case '1':
			f |= 1 << (7 - i)
		case '0':
		default:
			return 0, ErrInvalidFlags
		}
	}
	return f, nil
}
