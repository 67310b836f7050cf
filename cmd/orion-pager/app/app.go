// Package app holds the orion-pager command line.
package app

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/opd-ai/orion/logging"
)

// Instance returns the orion-pager application.
func Instance() *cli.App {
	loglevel := "info"
	return &cli.App{
		Name:  "orion-pager",
		Usage: "Mail to ORION paging gateway and radio tools",
		Commands: []*cli.Command{
			serveCmd(),
			listenCmd(),
			sendCmd(),
			journalCmd(),
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "Verbosity of log, valid values are: debug, info, warn, error",
				EnvVars:     []string{"ORION_LOG_LEVEL"},
				Destination: &loglevel,
				Value:       loglevel,
			},
		},
		Before: func(ctx *cli.Context) error {
			logrus.SetOutput(ctx.App.ErrWriter)
			logrus.SetLevel(logging.ParseLevel(loglevel))
			return nil
		},
	}
}

// Run executes the application with args and treats cancellation as a
// clean exit.
func Run(ctx context.Context, args []string) error {
	err := Instance().RunContext(ctx, args)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
