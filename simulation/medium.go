package simulation

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// inboxSize is the number of frames a radio buffers before dropping.
const inboxSize = 64

// ErrRadioClosed indicates the simulated radio has been closed.
var ErrRadioClosed = errors.New("simulated radio closed")

// CorruptFunc returns the frame as a receiver hears it and the error count
// its modem reports. It must not modify frame.
type CorruptFunc func(frame []byte) (heard []byte, errorCount int)

// DeliveryRecord is one frame delivered from one radio to another.
type DeliveryRecord struct {
	From       string
	To         string
	Size       int
	ErrorCount int
	Dropped    bool
	Timestamp  time.Time
}

// Option configures a Medium.
type Option func(*Medium)

// WithCorruption installs fn as the channel model.
func WithCorruption(fn CorruptFunc) Option {
	return func(m *Medium) {
		m.corrupt = fn
	}
}

// WithBitErrors flips each bit independently with probability rate and
// reports the number of damaged bytes as the error count.
func WithBitErrors(rng *rand.Rand, rate float64) Option {
	var mu sync.Mutex
	return WithCorruption(func(frame []byte) ([]byte, int) {
		mu.Lock()
		defer mu.Unlock()

		heard := make([]byte, len(frame))
		copy(heard, frame)
		damaged := 0
		for i := range heard {
			var mask byte
			for bit := 0; bit < 8; bit++ {
				if rng.Float64() < rate {
					mask |= 1 << bit
				}
			}
			if mask != 0 {
				heard[i] ^= mask
				damaged++
			}
		}
		return heard, damaged
	})
}

// Medium is a shared in-memory channel.
type Medium struct {
	mu          sync.RWMutex
	radios      []*Radio
	deliveryLog []DeliveryRecord
	corrupt     CorruptFunc
}

// NewMedium creates an empty, error-free medium unless options say otherwise.
func NewMedium(opts ...Option) *Medium {
	m := &Medium{}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Attach adds a radio named name to the medium.
func (m *Medium) Attach(name string) *Radio {
	r := &Radio{
		name:   name,
		medium: m,
		inbox:  make(chan delivery, inboxSize),
		done:   make(chan struct{}),
	}

	m.mu.Lock()
	m.radios = append(m.radios, r)
	m.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function": "Medium.Attach",
		"radio":    name,
	}).Debug("Attached simulated radio")
	return r
}

// DeliveryLog returns a copy of every delivery so far.
func (m *Medium) DeliveryLog() []DeliveryRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]DeliveryRecord, len(m.deliveryLog))
	copy(out, m.deliveryLog)
	return out
}

// broadcast delivers frame from sender to every other open radio.
func (m *Medium) broadcast(sender *Radio, frame []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.radios {
		if r == sender || r.isClosed() {
			continue
		}

		heard, errorCount := m.hear(frame)
		dropped := !r.enqueue(delivery{frame: heard, errorCount: errorCount})
		m.deliveryLog = append(m.deliveryLog, DeliveryRecord{
			From:       sender.name,
			To:         r.name,
			Size:       len(heard),
			ErrorCount: errorCount,
			Dropped:    dropped,
			Timestamp:  time.Now(),
		})

		if dropped {
			logrus.WithFields(logrus.Fields{
				"function": "Medium.broadcast",
				"from":     sender.name,
				"to":       r.name,
			}).Warn("Dropped frame due to full inbox")
		}
	}
}

func (m *Medium) hear(frame []byte) ([]byte, int) {
	if m.corrupt == nil {
		heard := make([]byte, len(frame))
		copy(heard, frame)
		return heard, 0
	}
	return m.corrupt(frame)
}
