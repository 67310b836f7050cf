// Package limits provides the payload size profiles for ORION packets.
// This ensures every component truncates and validates against the same bounds.
package limits

import (
	"errors"
	"fmt"
)

const (
	// HeaderSize is the fixed ORION header length in bytes
	HeaderSize = 16

	// MaxPayloadCompact is the payload bound for the compact deployment profile
	// used by low-bitrate pager links
	MaxPayloadCompact = 1024

	// MaxPayloadExtended is the payload bound for the extended profile.
	// It is the largest length the 16-bit length field can express.
	MaxPayloadExtended = 65535

	// MaxFrame is the largest frame any profile can produce
	MaxFrame = HeaderSize + MaxPayloadExtended
)

var (
	// ErrPayloadTooLarge indicates a payload exceeds the configured bound
	ErrPayloadTooLarge = errors.New("payload too large")

	// ErrInvalidLimit indicates a bound outside [0, MaxPayloadExtended]
	ErrInvalidLimit = errors.New("invalid payload limit")
)

// ValidateLimit checks that maxLen is a usable payload bound.
func ValidateLimit(maxLen int) error {
	if maxLen < 0 || maxLen > MaxPayloadExtended {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrInvalidLimit, maxLen, MaxPayloadExtended)
	}
	return nil
}

// ClampLimit forces maxLen into [0, MaxPayloadExtended].
func ClampLimit(maxLen int) int {
	if maxLen < 0 {
		return 0
	}
	if maxLen > MaxPayloadExtended {
		return MaxPayloadExtended
	}
	return maxLen
}

// Truncate returns data cut to at most maxLen bytes. It never fails; oversize
// payloads are shortened silently. The returned slice does not alias data.
func Truncate(data []byte, maxLen int) []byte {
	maxLen = ClampLimit(maxLen)
	n := len(data)
	if n > maxLen {
		n = maxLen
	}
	out := make([]byte, n)
	copy(out, data[:n])
	return out
}

// ValidatePayloadSize reports whether payload fits within maxLen.
// Returns an error with the actual and maximum sizes.
func ValidatePayloadSize(payload []byte, maxLen int) error {
	if len(payload) > ClampLimit(maxLen) {
		return fmt.Errorf("%w: size %d exceeds limit %d", ErrPayloadTooLarge, len(payload), maxLen)
	}
	return nil
}
