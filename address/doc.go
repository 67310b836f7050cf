// Package address implements the dotted-quad addressing used by ORION packets.
//
// An Address is four octets. It is not an IP address: it is a flat namespace
// for radio endpoints that happens to share the familiar textual form
// "a.b.c.d". A Socket pairs an Address with a 16-bit Port and is written as
// "a.b.c.d:port".
//
// Text parsing is strict. ParseAddress accepts exactly four decimal octets in
// [0,255] with no signs, whitespace or leading zeros, so every accepted string
// formats back to itself through Address.String. Numeric construction through
// NewAddress clamps out-of-range components instead of failing.
//
//	addr, err := address.ParseAddress("10.0.0.7")
//	if err != nil {
//	    // err wraps address.ErrInvalidAddress
//	}
//
//	sock, err := address.ParseSocket("10.0.0.7:65535")
//
// IsValidAddress and IsValidSocket never fail and are meant for gating
// untrusted input, such as an email subject line that names a destination.
package address
