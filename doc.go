// Package orion implements ORION endpoints: addressed, connectionless framing
// for short messages over an unreliable, low-bitrate radio link.
//
// An Endpoint binds a local address and port to one radio. It builds packets
// with itself as the source, transmits them, and receives frames either
// unfiltered or filtered to its own address and port. Delivery is best effort:
// there is no acknowledgement, retransmission or ordering across packets.
//
// # Getting Started
//
//	radio, err := transport.NewUDPRadio("127.0.0.1:7300", []string{"127.0.0.1:7301"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	options := orion.NewOptions()
//	options.Address = address.MustParseAddress("10.0.0.7")
//	options.Port = 65535
//
//	ep, err := orion.New(radio, options)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ep.Close()
//
//	p := ep.BuildPacket([]byte("meet at 5"), address.MustParseAddress("10.0.0.9"), 65535, 0)
//	if err := ep.Send(p); err != nil {
//	    log.Fatal(err)
//	}
//
//	in, err := ep.ReceiveForSelf(ctx, 30*time.Second)
//	if err == nil && in != nil {
//	    fmt.Printf("%s: %s (integrity %.2f)\n", in.SourceSocket(), in.Data(), ep.Integrity())
//	}
//
// # Concurrency
//
// An Endpoint allows one outstanding receive at a time; a second concurrent
// call fails with ErrReceiveInProgress. The receive call is the only place an
// Endpoint blocks, and it ends when a frame arrives, the timeout elapses, or
// the context is done.
//
// # Subpackages
//
//   - address: dotted-quad addresses, ports and sockets
//   - packet: the wire format, flags and grouping
//   - transport: the Radio boundary, link integrity and a UDP radio
//   - simulation: an in-memory radio channel with error injection
//   - checksum: a concrete mechanism for the CHECKSUM flag
//   - gateway: the mail-to-radio paging gateway
//   - config: TOML configuration for the orion-pager daemon
package orion
