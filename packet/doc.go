// Package packet implements the ORION frame: a fixed 16-byte header followed by
// a variable payload.
//
// Wire layout, all multi-byte fields big-endian:
//
//	offset  size  field
//	0       4     source address
//	4       4     destination address
//	8       2     source port
//	10      2     destination port
//	12      1     flags (MSB = GROUP ... LSB = SUBHEADER)
//	13      1     age
//	14      2     payload length
//	16      N     payload
//
// Packets are built with New, serialized with Save and parsed with Load. Load
// never returns an error: a frame that is too short for its header or its
// declared payload yields an Empty packet, which callers detect with IsEmpty.
//
//	p := packet.New([]byte("hi"), src, dst, 100, 200, 0)
//	frame := p.Save()
//
//	q := packet.Load(frame)
//	if q.IsEmpty() {
//	    // truncated or corrupted frame
//	}
//
// A packet with the GROUP flag carries complete frames back to back in its
// payload. NewGroup builds one and GroupedPackets takes it apart.
package packet
