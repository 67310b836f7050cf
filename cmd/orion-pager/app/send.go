package app

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/opd-ai/orion/address"
	"github.com/opd-ai/orion/checksum"
	"github.com/opd-ai/orion/gateway"
	"github.com/opd-ai/orion/packet"
)

func sendCmd() *cli.Command {
	return &cli.Command{
		Name:      "send",
		Usage:     "Transmit one page directly over the radio",
		ArgsUsage: "TEXT...",
		Flags: append(radioFlags(),
			&cli.StringFlag{
				Name:  "to",
				Usage: "Destination address; anything invalid broadcasts",
				Value: address.Broadcast.String(),
			},
			&cli.UintFlag{
				Name:  "to-port",
				Usage: "Destination port",
				Value: uint(gateway.PagePort),
			},
			&cli.StringFlag{
				Name:  "flags",
				Usage: "Flag byte as 8 bits, GROUP first",
				Value: "00000000",
			},
			&cli.BoolFlag{
				Name:  "checksum",
				Usage: "Seal the page with a checksum trailer",
			},
		),
		Action: func(ctx *cli.Context) error {
			if ctx.NArg() == 0 {
				return cli.Exit("send needs page text", 2)
			}
			flags, err := packet.ParseFlags(ctx.String("flags"))
			if err != nil {
				return err
			}
			toPort := ctx.Uint("to-port")
			if toPort > 65535 {
				return fmt.Errorf("%w: %d", address.ErrInvalidPort, toPort)
			}

			ep, err := openEndpoint(ctx, nil)
			if err != nil {
				return err
			}
			defer ep.Close()

			text := gateway.PageBody(strings.Join(ctx.Args().Slice(), " "), -1)
			p := ep.BuildPacket(text, gateway.Destination(ctx.String("to")), address.Port(toPort), flags)
			if ctx.Bool("checksum") {
				if err := checksum.Seal(p); err != nil {
					return err
				}
			}
			if err := ep.Send(p); err != nil {
				return err
			}
			fmt.Fprintf(ctx.App.Writer, "Page sent to %s (%d bytes).\n", p.DestSocket(), p.Length())
			return nil
		},
	}
}
