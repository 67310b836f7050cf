package address

import (
	"strconv"
	"strings"
)

// Socket is an Address and Port pair, written "a.b.c.d:port".
type Socket struct {
	Address Address
	Port    Port
}

// ParseSocket splits text on its last colon. The address part must satisfy
// ParseAddress and the port part must be a decimal integer in [1,65535].
func ParseSocket(text string) (Socket, error) {
	i := strings.LastIndexByte(text, ':')
	if i < 0 {
		return Socket{}, newFormatError("socket", text, ErrInvalidSocket)
	}

	addr, err := ParseAddress(text[:i])
	if err != nil {
		return Socket{}, newFormatError("socket", text, ErrInvalidAddress)
	}

	port, ok := parsePort(text[i+1:])
	if !ok {
		return Socket{}, newFormatError("socket", text, ErrInvalidPort)
	}

	return Socket{Address: addr, Port: port}, nil
}

func parsePort(s string) (Port, bool) {
	if s == "" || s[0] == '+' || s[0] == '-' {
		return 0, false
	}
	if len(s) > 1 && s[0] == '0' {
		return 0, false
	}
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil || n == 0 {
		return 0, false
	}
	return Port(n), true
}

// String formats the socket as "a.b.c.d:port".
func (s Socket) String() string {
	return s.Address.String() + ":" + strconv.Itoa(int(s.Port))
}

// IsValidSocket reports whether text parses with ParseSocket.
func IsValidSocket(text string) bool {
	_, err := ParseSocket(text)
	return err == nil
}
