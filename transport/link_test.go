package transport

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rxResult struct {
	frame  []byte
	errors int
	err    error
}

// scriptedRadio replays a fixed sequence of receive results.
type scriptedRadio struct {
	script      []rxResult
	transmitted [][]byte
	txErr       error
	closed      bool
}

func (r *scriptedRadio) Transmit(frame []byte) error {
	if r.txErr != nil {
		return r.txErr
	}
	r.transmitted = append(r.transmitted, frame)
	return nil
}

func (r *scriptedRadio) Receive(ctx context.Context, timeout time.Duration) ([]byte, int, error) {
	if len(r.script) == 0 {
		return nil, 0, nil
	}
	next := r.script[0]
	r.script = r.script[1:]
	return next.frame, next.errors, next.err
}

func (r *scriptedRadio) Close() error {
	r.closed = true
	return nil
}

func TestLinkIntegrity(t *testing.T) {
	radio := &scriptedRadio{script: []rxResult{
		{frame: make([]byte, 20), errors: 2},
		{frame: make([]byte, 16), errors: 16},
		{frame: make([]byte, 4), errors: 4},
		{frame: make([]byte, 40), errors: 0},
		{frame: make([]byte, 17), errors: 50},
	}}
	link := NewLink(radio, nil)
	assert.Equal(t, 1.0, link.Integrity())

	ctx := context.Background()

	_, err := link.Receive(ctx, time.Second)
	require.NoError(t, err)
	assert.InDelta(t, 0.9, link.Integrity(), 1e-9)
	assert.Equal(t, 2, link.LastErrorCount())

	// header-sized and shorter frames leave the estimate alone
	_, err = link.Receive(ctx, time.Second)
	require.NoError(t, err)
	assert.InDelta(t, 0.9, link.Integrity(), 1e-9)
	_, err = link.Receive(ctx, time.Second)
	require.NoError(t, err)
	assert.InDelta(t, 0.9, link.Integrity(), 1e-9)

	_, err = link.Receive(ctx, time.Second)
	require.NoError(t, err)
	assert.Equal(t, 1.0, link.Integrity())

	// error counts above the frame size clamp to zero
	_, err = link.Receive(ctx, time.Second)
	require.NoError(t, err)
	assert.Equal(t, 0.0, link.Integrity())
}

func TestLinkReceiveTimeout(t *testing.T) {
	link := NewLink(&scriptedRadio{}, nil)
	frame, err := link.Receive(context.Background(), 10*time.Millisecond)
	assert.NoError(t, err)
	assert.Empty(t, frame)
	assert.Equal(t, 1.0, link.Integrity())
}

func TestLinkReceiveError(t *testing.T) {
	boom := errors.New("modem unplugged")
	link := NewLink(&scriptedRadio{script: []rxResult{{err: boom}}}, nil)

	_, err := link.Receive(context.Background(), time.Second)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	var le *LinkError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, "receive", le.Op)
	assert.Equal(t, "link receive: modem unplugged", err.Error())
}

func TestLinkReceiveContextErrorUnwrapped(t *testing.T) {
	link := NewLink(&scriptedRadio{script: []rxResult{{err: context.Canceled}}}, nil)
	_, err := link.Receive(context.Background(), time.Second)
	assert.Equal(t, context.Canceled, err)
}

func TestLinkTransmit(t *testing.T) {
	radio := &scriptedRadio{}
	link := NewLink(radio, nil)

	require.NoError(t, link.Transmit([]byte("frame")))
	assert.Equal(t, [][]byte{[]byte("frame")}, radio.transmitted)

	radio.txErr = errors.New("busy")
	err := link.Transmit([]byte("frame"))
	assert.ErrorIs(t, err, radio.txErr)
}

func TestLinkClose(t *testing.T) {
	radio := &scriptedRadio{}
	require.NoError(t, NewLink(radio, nil).Close())
	assert.True(t, radio.closed)
}
