package transport

import (
	"context"
	"time"
)

// Radio is the boundary to the physical transport. Transmit is fire and forget.
// Receive blocks until a frame arrives, the timeout elapses (empty frame, nil
// error) or ctx is done. errorCount is the modem's count of corrected or
// detected errors in the returned frame.
type Radio interface {
	Transmit(frame []byte) error
	Receive(ctx context.Context, timeout time.Duration) (frame []byte, errorCount int, err error)
}

// BlockForever is the timeout value that disables the receive timeout.
const BlockForever time.Duration = -1
