package address

import (
	"strconv"
	"strings"
)

// Size is the number of octets in an Address.
const Size = 4

// Address is a four-octet ORION endpoint address.
type Address [Size]byte

// Port multiplexes applications sharing one Address. Zero means unset.
type Port uint16

var (
	// Unspecified is 0.0.0.0, the address carried by zeroed packets.
	Unspecified = Address{}

	// Broadcast is 255.255.255.255, the unfiltered destination.
	Broadcast = Address{255, 255, 255, 255}
)

// NewAddress builds an Address from integer components, clamping each into [0,255].
func NewAddress(a, b, c, d int) Address {
	return Address{clampOctet(a), clampOctet(b), clampOctet(c), clampOctet(d)}
}

func clampOctet(v int) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}

// ParseAddress parses dotted-quad text. It fails with a *FormatError wrapping
// ErrInvalidAddress unless the text holds exactly four canonical decimal octets.
func ParseAddress(text string) (Address, error) {
	parts := strings.Split(text, ".")
	if len(parts) != Size {
		return Address{}, newFormatError("address", text, ErrInvalidAddress)
	}

	var addr Address
	for i, part := range parts {
		v, ok := parseOctet(part)
		if !ok {
			return Address{}, newFormatError("address", text, ErrInvalidAddress)
		}
		addr[i] = v
	}
	return addr, nil
}

// MustParseAddress is like ParseAddress but panics on malformed text.
// It is intended for constants and tests.
func MustParseAddress(text string) Address {
	addr, err := ParseAddress(text)
	if err != nil {
		panic(err)
	}
	return addr
}

// parseOctet accepts "0" through "255" without signs or leading zeros.
func parseOctet(s string) (byte, bool) {
	if s == "" || len(s) > 3 {
		return 0, false
	}
	if len(s) > 1 && s[0] == '0' {
		return 0, false
	}
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	if n > 255 {
		return 0, false
	}
	return byte(n), true
}

// String formats the address as four dot-separated decimal octets.
func (a Address) String() string {
	var b strings.Builder
	b.Grow(15)
	for i, o := range a {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(strconv.Itoa(int(o)))
	}
	return b.String()
}

// IsBroadcast reports whether a is 255.255.255.255.
func (a Address) IsBroadcast() bool {
	return a == Broadcast
}

// IsUnspecified reports whether a is 0.0.0.0.
func (a Address) IsUnspecified() bool {
	return a == Unspecified
}

// IsValidAddress reports whether text parses with ParseAddress.
func IsValidAddress(text string) bool {
	_, err := ParseAddress(text)
	return err == nil
}
