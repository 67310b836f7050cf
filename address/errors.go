package address

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAddress indicates text that is not four octets in [0,255]
	ErrInvalidAddress = errors.New("invalid address")

	// ErrInvalidPort indicates a socket port outside [1,65535]
	ErrInvalidPort = errors.New("invalid port")

	// ErrInvalidSocket indicates socket text without an address:port separator
	ErrInvalidSocket = errors.New("invalid socket address")
)

// FormatError reports malformed address or socket text.
type FormatError struct {
	Op    string // parse operation, "address" or "socket"
	Input string // offending text
	Err   error  // one of the sentinel errors above
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("parse %s %q: %v", e.Op, e.Input, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

func newFormatError(op, input string, err error) *FormatError {
	return &FormatError{
		Op:    op,
		Input: input,
		Err:   err,
	}
}
