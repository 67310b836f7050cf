package transport

import (
	"errors"
	"fmt"
)

var (
	// ErrRadioClosed indicates the radio has been closed
	ErrRadioClosed = errors.New("radio closed")

	// ErrNoPeers indicates a UDP radio was configured without peers
	ErrNoPeers = errors.New("no peers configured")
)

// LinkError reports a failure of the underlying radio.
type LinkError struct {
	Op  string // "transmit" or "receive"
	Err error  // error returned by the radio
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("link %s: %v", e.Op, e.Err)
}

func (e *LinkError) Unwrap() error {
	return e.Err
}
