package app

import (
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/opd-ai/orion"
	"github.com/opd-ai/orion/config"
	"github.com/opd-ai/orion/gateway"
	"github.com/opd-ai/orion/logging"
	"github.com/opd-ai/orion/transport"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the mail to page gateway",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "config",
				Aliases:  []string{"c"},
				Usage:    "Path to the TOML configuration file",
				EnvVars:  []string{"ORION_PAGER_CONFIG"},
				Required: true,
			},
		},
		Action: func(ctx *cli.Context) error {
			cfg, err := config.Load(ctx.String("config"))
			if err != nil {
				return err
			}
			return serve(ctx, cfg)
		},
	}
}

func serve(ctx *cli.Context, cfg config.Config) error {
	log := logrus.WithFields(logrus.Fields{
		"component": "serve",
		"address":   cfg.Address.String(),
	})

	radio, err := transport.NewUDPRadio(cfg.Radio.Listen, cfg.Radio.Peers)
	if err != nil {
		return err
	}
	ep, err := orion.New(radio, cfg.EndpointOptions(logging.NewLogrus(logrus.WithField("component", "endpoint"))))
	if err != nil {
		radio.Close()
		return err
	}
	defer ep.Close()

	source := gateway.NewMaildirSource(cfg.Maildir)
	if err := source.Init(); err != nil {
		return err
	}

	var sink gateway.Sink
	if cfg.SMTP.Server != "" {
		sink = gateway.NewSMTPSink(cfg.SMTP)
	} else {
		log.Warn("No SMTP server configured, confirmations disabled")
	}

	var journal *gateway.Journal
	if cfg.Journal != "" {
		journal, err = gateway.OpenJournal(cfg.Journal)
		if err != nil {
			return err
		}
		defer journal.Close()
	}

	gw, err := gateway.New(ep, source, sink, journal, cfg.GatewayConfig())
	if err != nil {
		return err
	}

	log.WithField("radio", radio.LocalAddr().String()).Info("Pager gateway listening")
	return gw.Run(ctx.Context)
}
