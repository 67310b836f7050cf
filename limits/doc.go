// Package limits provides centralized payload size constants and helpers for
// ORION packets.
//
// # Deployment Profiles
//
// The payload bound is chosen per deployment, not fixed by the wire format:
//
//   - MaxPayloadCompact (1024 bytes): pager links where a frame must stay short
//     enough to survive a slow, noisy channel.
//
//   - MaxPayloadExtended (65535 bytes): the largest payload the 16-bit length
//     field can describe.
//
// # Truncation Policy
//
// Packet construction never rejects an oversize payload. Truncate cuts it to the
// configured bound instead. Callers that must not lose data validate first:
//
//	if err := limits.ValidatePayloadSize(body, limits.MaxPayloadCompact); err != nil {
//	    // err wraps ErrPayloadTooLarge
//	}
package limits
