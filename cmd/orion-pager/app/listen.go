package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/opd-ai/orion"
	"github.com/opd-ai/orion/checksum"
	"github.com/opd-ai/orion/packet"
)

// lowIntegrity is the integrity below which received pages are flagged.
const lowIntegrity = 0.7

func listenCmd() *cli.Command {
	return &cli.Command{
		Name:  "listen",
		Usage: "Print pages heard on the radio",
		Flags: append(radioFlags(),
			&cli.BoolFlag{
				Name:  "any",
				Usage: "Print every packet instead of only those addressed to this station",
			},
			&cli.BoolFlag{
				Name:  "broadcast",
				Usage: "Also accept pages sent to the broadcast address",
				Value: true,
			},
		),
		Action: func(ctx *cli.Context) error {
			ep, err := openEndpoint(ctx, func(o *orion.Options) {
				o.TimeoutPolicy = orion.IgnoreTimeout
				o.AcceptBroadcast = ctx.Bool("broadcast")
			})
			if err != nil {
				return err
			}
			defer ep.Close()
			return listen(ctx.Context, ep, ctx.App.Writer, ctx.Bool("any"))
		},
	}
}

func listen(ctx context.Context, ep *orion.Endpoint, w io.Writer, all bool) error {
	for {
		fmt.Fprintln(w, "Listening for pages...")
		var (
			p   *packet.Packet
			err error
		)
		if all {
			p, err = ep.ReceiveAny(ctx, time.Second)
		} else {
			p, err = ep.ReceiveForSelf(ctx, time.Second)
		}
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		if p == nil || p.IsEmpty() {
			continue
		}
		printPage(w, p, ep.Integrity())
	}
}

func printPage(w io.Writer, p *packet.Packet, integrity float64) {
	fmt.Fprintf(w, "Page received (integrity: %.2f%%)\n", integrity*100)
	if integrity < lowIntegrity {
		fmt.Fprintln(w, "WARNING: low page integrity, uncorrectable errors may be present.")
	}
	fmt.Fprintln(w, describe(p))

	if !p.IsGroup() {
		fmt.Fprintln(w, pageText(p))
		return
	}
	fmt.Fprintln(w, "Page is a group. Showing grouped pages:")
	for _, sub := range p.GroupedPackets() {
		fmt.Fprintln(w, describe(sub))
		fmt.Fprintln(w, pageText(sub))
	}
}

func describe(p *packet.Packet) string {
	return fmt.Sprintf("%s -> %s (A: %d, F: %s, L: %d):",
		p.SourceSocket(), p.DestSocket(), p.Age(), p.Flags(), p.Length())
}

// pageText returns the printable ASCII content, checking a checksum trailer
// when one is present.
func pageText(p *packet.Packet) string {
	data := p.Data()
	note := ""
	if p.IsChecksum() {
		body, err := checksum.Verify(p)
		switch {
		case err == nil:
			data = body
		case errors.Is(err, checksum.ErrMismatch):
			note = " [checksum mismatch]"
		}
	}

	var b strings.Builder
	for _, c := range data {
		if c < 0x80 {
			b.WriteByte(c)
		}
	}
	return b.String() + note
}
