package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/opd-ai/orion/limits"
	"github.com/opd-ai/orion/logging"
)

// Link wraps a Radio and tracks link integrity.
type Link struct {
	radio  Radio
	logger logging.Logger

	mu         sync.RWMutex
	integrity  float64
	lastErrors int
}

// NewLink creates a Link over radio. A nil logger discards messages.
// Integrity starts at 1.
func NewLink(radio Radio, logger logging.Logger) *Link {
	return &Link{
		radio:     radio,
		logger:    logging.OrNop(logger),
		integrity: 1,
	}
}

// Transmit hands frame to the radio. There is no delivery confirmation.
func (l *Link) Transmit(frame []byte) error {
	if err := l.radio.Transmit(frame); err != nil {
		l.logger.Log(logging.LevelError, fmt.Sprintf("transmit of %d bytes failed: %v", len(frame), err))
		return &LinkError{Op: "transmit", Err: err}
	}
	l.logger.Log(logging.LevelDebug, fmt.Sprintf("transmitted %d bytes", len(frame)))
	return nil
}

// Receive waits for one frame. An empty result with a nil error means the
// timeout elapsed with nothing received. Context cancellation is returned
// unwrapped so callers can compare against ctx.Err().
func (l *Link) Receive(ctx context.Context, timeout time.Duration) ([]byte, error) {
	frame, errorCount, err := l.radio.Receive(ctx, timeout)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		l.logger.Log(logging.LevelError, fmt.Sprintf("receive failed: %v", err))
		return nil, &LinkError{Op: "receive", Err: err}
	}
	if len(frame) == 0 {
		return nil, nil
	}
	if len(frame) > limits.HeaderSize {
		l.record(errorCount, len(frame))
	}
	l.logger.Log(logging.LevelDebug, fmt.Sprintf("received %d bytes with %d errors", len(frame), errorCount))
	return frame, nil
}

func (l *Link) record(errorCount, size int) {
	v := 1 - float64(errorCount)/float64(size)
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}

	l.mu.Lock()
	l.integrity = v
	l.lastErrors = errorCount
	l.mu.Unlock()

	if v < 0.7 {
		l.logger.Log(logging.LevelWarn, fmt.Sprintf("low link integrity %.2f (%d errors in %d bytes)", v, errorCount, size))
	}
}

// Integrity returns the estimate from the last frame longer than the packet
// header, in [0,1].
func (l *Link) Integrity() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.integrity
}

// LastErrorCount returns the error count that produced the current integrity.
func (l *Link) LastErrorCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lastErrors
}

// Close closes the radio if it supports closing.
func (l *Link) Close() error {
	if c, ok := l.radio.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
