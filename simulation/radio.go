package simulation

import (
	"context"
	"sync"
	"time"
)

type delivery struct {
	frame      []byte
	errorCount int
}

// Radio is a transport.Radio attached to a Medium.
type Radio struct {
	name   string
	medium *Medium
	inbox  chan delivery

	closeOnce sync.Once
	done      chan struct{}
}

// Name returns the radio's name in delivery records.
func (r *Radio) Name() string { return r.name }

// Transmit sends frame to every other radio on the medium.
func (r *Radio) Transmit(frame []byte) error {
	if r.isClosed() {
		return ErrRadioClosed
	}
	r.medium.broadcast(r, frame)
	return nil
}

// Receive waits for the next frame. A queued frame is returned even with a
// zero timeout. It returns an empty frame when timeout elapses first; a
// negative timeout waits indefinitely.
func (r *Radio) Receive(ctx context.Context, timeout time.Duration) ([]byte, int, error) {
	select {
	case d := <-r.inbox:
		return d.frame, d.errorCount, nil
	default:
	}

	var expired <-chan time.Time
	if timeout >= 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case d := <-r.inbox:
		return d.frame, d.errorCount, nil
	case <-expired:
		return nil, 0, nil
	case <-ctx.Done():
		return nil, 0, ctx.Err()
	case <-r.done:
		return nil, 0, ErrRadioClosed
	}
}

// Inject queues a raw frame for this radio as if it had been heard with
// errorCount errors. It reports false when the inbox is full.
func (r *Radio) Inject(frame []byte, errorCount int) bool {
	heard := make([]byte, len(frame))
	copy(heard, frame)
	return r.enqueue(delivery{frame: heard, errorCount: errorCount})
}

// Pending returns the number of queued frames.
func (r *Radio) Pending() int {
	return len(r.inbox)
}

func (r *Radio) enqueue(d delivery) bool {
	select {
	case r.inbox <- d:
		return true
	default:
		return false
	}
}

func (r *Radio) isClosed() bool {
	select {
	case <-r.done:
		return true
	default:
		return false
	}
}

// Close detaches the radio from the medium. Pending receives return ErrRadioClosed.
func (r *Radio) Close() error {
	r.closeOnce.Do(func() { close(r.done) })
	return nil
}
