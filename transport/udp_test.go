package transport

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newRadioPair creates two UDP radios on loopback that transmit to each other.
func newRadioPair(t *testing.T) (*UDPRadio, *UDPRadio) {
	t.Helper()

	a, err := NewUDPRadio("127.0.0.1:0", []string{"127.0.0.1:9"})
	require.NoError(t, err)
	b, err := NewUDPRadio("127.0.0.1:0", []string{a.LocalAddr().String()})
	require.NoError(t, err)
	a.peers[0] = b.LocalAddr()

	t.Cleanup(func() {
		a.Close()
		b.Close()
	})
	return a, b
}

func TestUDPRadioTransmitReceive(t *testing.T) {
	a, b := newRadioPair(t)

	require.NoError(t, a.Transmit([]byte("hello over the air")))

	frame, errs, err := b.Receive(context.Background(), 2*time.Second)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello over the air"), frame)
	assert.Zero(t, errs)

	require.NoError(t, b.Transmit([]byte("reply")))
	frame, _, err = a.Receive(context.Background(), 2*time.Second)
	require.NoError(t, err)
	assert.Equal(t, []byte("reply"), frame)
}

func TestUDPRadioReceiveTimeout(t *testing.T) {
	_, b := newRadioPair(t)

	start := time.Now()
	frame, _, err := b.Receive(context.Background(), 50*time.Millisecond)
	require.NoError(t, err)
	assert.Empty(t, frame)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestUDPRadioZeroTimeoutReturnsQueuedFrame(t *testing.T) {
	a, b := newRadioPair(t)
	require.NoError(t, a.Transmit([]byte("already waiting")))

	var frame []byte
	require.Eventually(t, func() bool {
		got, _, err := b.Receive(context.Background(), 0)
		require.NoError(t, err)
		frame = got
		return len(got) > 0
	}, 2*time.Second, time.Millisecond)
	assert.Equal(t, []byte("already waiting"), frame)
}

func TestUDPRadioZeroTimeoutWithNothingQueued(t *testing.T) {
	_, b := newRadioPair(t)

	frame, _, err := b.Receive(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, frame)
}

func TestUDPRadioReceiveContextCancel(t *testing.T) {
	_, b := newRadioPair(t)

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	_, _, err := b.Receive(ctx, BlockForever)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestUDPRadioClosed(t *testing.T) {
	a, _ := newRadioPair(t)
	require.NoError(t, a.Close())
	require.NoError(t, a.Close())

	assert.ErrorIs(t, a.Transmit([]byte("x")), ErrRadioClosed)
	_, _, err := a.Receive(context.Background(), time.Second)
	assert.ErrorIs(t, err, ErrRadioClosed)
}

func TestNewUDPRadioValidation(t *testing.T) {
	_, err := NewUDPRadio("127.0.0.1:0", nil)
	assert.ErrorIs(t, err, ErrNoPeers)

	_, err = NewUDPRadio("127.0.0.1:0", []string{"not an address"})
	assert.Error(t, err)
}

func TestUDPRadioWithLink(t *testing.T) {
	a, b := newRadioPair(t)
	tx := NewLink(a, nil)
	rx := NewLink(b, nil)

	frame := make([]byte, 64)
	require.NoError(t, tx.Transmit(frame))

	got, err := rx.Receive(context.Background(), 2*time.Second)
	require.NoError(t, err)
	assert.Len(t, got, 64)
	assert.Equal(t, 1.0, rx.Integrity())
}
