package app

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/opd-ai/orion"
	"github.com/opd-ai/orion/address"
	"github.com/opd-ai/orion/limits"
	"github.com/opd-ai/orion/logging"
	"github.com/opd-ai/orion/transport"
)

// radioFlags are shared by the commands that open their own radio.
func radioFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "listen",
			Usage: "UDP address the radio emulation listens on",
			Value: "0.0.0.0:7440",
		},
		&cli.StringSliceFlag{
			Name:     "peer",
			Usage:    "UDP address of another radio (repeatable)",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "address",
			Usage: "ORION address of this station",
			Value: "0.0.0.0",
		},
		&cli.UintFlag{
			Name:  "port",
			Usage: "ORION port of this station",
			Value: 65535,
		},
		&cli.BoolFlag{
			Name:  "extended",
			Usage: "Use the extended payload profile instead of compact",
		},
	}
}

// openEndpoint builds an Endpoint over a UDP radio from radioFlags.
func openEndpoint(ctx *cli.Context, configure func(*orion.Options)) (*orion.Endpoint, error) {
	addr, err := address.ParseAddress(ctx.String("address"))
	if err != nil {
		return nil, err
	}
	port := ctx.Uint("port")
	if port < 1 || port > 65535 {
		return nil, fmt.Errorf("%w: %d", address.ErrInvalidPort, port)
	}

	radio, err := transport.NewUDPRadio(ctx.String("listen"), ctx.StringSlice("peer"))
	if err != nil {
		return nil, err
	}

	opts := orion.NewOptions()
	opts.Address = addr
	opts.Port = address.Port(port)
	opts.MaxPayload = limits.MaxPayloadCompact
	if ctx.Bool("extended") {
		opts.MaxPayload = limits.MaxPayloadExtended
	}
	opts.Logger = logging.NewLogrus(logrus.WithField("component", "endpoint"))
	if configure != nil {
		configure(opts)
	}

	ep, err := orion.New(radio, opts)
	if err != nil {
		radio.Close()
		return nil, err
	}
	return ep, nil
}
