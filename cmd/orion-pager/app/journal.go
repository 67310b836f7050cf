package app

import (
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/opd-ai/orion/gateway"
)

func journalCmd() *cli.Command {
	return &cli.Command{
		Name:  "journal",
		Usage: "List pages the gateway has sent",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "db",
				Usage:    "Path to the journal database",
				Required: true,
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Number of pages to show",
				Value: 20,
			},
		},
		Action: func(ctx *cli.Context) error {
			j, err := gateway.OpenJournal(ctx.String("db"))
			if err != nil {
				return err
			}
			defer j.Close()

			entries, err := j.Recent(ctx.Context, ctx.Int("limit"))
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(ctx.App.Writer, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSENT\tFROM\tTO\tBYTES\tCONFIRMED")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%t\n",
					e.ID, e.SentAt.Local().Format(gateway.TimestampLayout), e.From, e.Destination, e.Length, e.Confirmed)
			}
			return tw.Flush()
		},
	}
}
