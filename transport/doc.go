// Package transport adapts the physical radio modem to the ORION endpoint.
//
// # Architecture
//
// The modem is an external collaborator. It modulates, demodulates and corrects
// errors; this package only sees whole frames through the Radio interface:
//
//	type Radio interface {
//	    Transmit(frame []byte) error
//	    Receive(ctx context.Context, timeout time.Duration) (frame []byte, errorCount int, err error)
//	}
//
// An empty frame from Receive means nothing arrived before the timeout. A
// negative timeout blocks until a frame arrives or ctx is done.
//
// # Link Integrity
//
// Link wraps a Radio and keeps a running integrity estimate, the fraction of
// the last usable frame that the modem reported as error free:
//
//	integrity = 1 - errorCount/len(frame)
//
// Frames no longer than the 16-byte packet header are too short to estimate
// from and leave the previous value in place.
//
// # Radio Implementations
//
// UDPRadio emulates a shared radio channel with UDP datagrams. Every transmit
// is written to each configured peer, which stands in for every receiver in
// range hearing the transmission:
//
//	radio, err := transport.NewUDPRadio("127.0.0.1:7300", []string{"127.0.0.1:7301"})
//	link := transport.NewLink(radio, nil)
//
// The simulation package provides an in-memory Radio with error injection for
// tests.
package transport
