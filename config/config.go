// Package config loads the pager daemon configuration from TOML.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"

	"github.com/opd-ai/orion"
	"github.com/opd-ai/orion/address"
	"github.com/opd-ai/orion/gateway"
	"github.com/opd-ai/orion/limits"
	"github.com/opd-ai/orion/logging"
)

var (
	// ErrMissingField indicates a required setting is absent
	ErrMissingField = errors.New("missing required setting")

	// ErrInvalidValue indicates a setting is out of range
	ErrInvalidValue = errors.New("invalid setting")
)

// Profile names accepted by the "profile" key.
const (
	ProfileCompact  = "compact"
	ProfileExtended = "extended"
)

// RadioConfig selects the UDP radio emulation.
type RadioConfig struct {
	Listen string
	Peers  []string
}

// Config is the validated daemon configuration.
type Config struct {
	Address        address.Address
	Port           address.Port
	MaxPayload     int
	MaxPageLength  int
	Cooldown       time.Duration
	PollInterval   time.Duration
	Checksum       bool
	Radio          RadioConfig
	Maildir        string
	Journal        string
	SMTP           gateway.SMTPConfig
	ConfirmSubject string
	ConfirmHeader  string
}

type fileConfig struct {
	Address        string `toml:"address"`
	Port           int    `toml:"port"`
	Profile        string `toml:"profile"`
	MaxPageLength  int    `toml:"max_page_length"`
	Cooldown       string `toml:"cooldown"`
	PollInterval   string `toml:"poll_interval"`
	Checksum       bool   `toml:"checksum"`
	Maildir        string `toml:"maildir"`
	Journal        string `toml:"journal"`
	ConfirmSubject string `toml:"confirm_subject"`
	ConfirmHeader  string `toml:"confirm_header"`

	Radio struct {
		Listen string   `toml:"listen"`
		Peers  []string `toml:"peers"`
	} `toml:"radio"`

	SMTP struct {
		Server   string `toml:"server"`
		Port     int    `toml:"port"`
		Username string `toml:"username"`
		Password string `toml:"password"`
		From     string `toml:"from"`
	} `toml:"smtp"`
}

// Default returns the settings used for keys a file leaves out.
func Default() Config {
	gw := gateway.DefaultConfig()
	return Config{
		Address:        address.Unspecified,
		Port:           gateway.PagePort,
		MaxPayload:     limits.MaxPayloadCompact,
		MaxPageLength:  gw.MaxPageLength,
		Cooldown:       gw.Cooldown,
		PollInterval:   gw.PollInterval,
		Radio:          RadioConfig{Listen: "0.0.0.0:7440"},
		Journal:        "orion-pager.sqlite",
		SMTP:           gateway.SMTPConfig{Port: 587},
		ConfirmSubject: gw.ConfirmSubject,
		ConfirmHeader:  gw.ConfirmHeader,
	}
}

// Load reads path, applies it over Default and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load pager config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		logrus.WithFields(logrus.Fields{
			"function": "config.Load",
			"path":     path,
			"keys":     fmt.Sprint(undecoded),
		}).Warn("Ignoring unknown configuration keys")
	}

	if meta.IsDefined("address") {
		a, err := address.ParseAddress(strings.TrimSpace(raw.Address))
		if err != nil {
			return Config{}, fmt.Errorf("parse address: %w", err)
		}
		cfg.Address = a
	}

	if meta.IsDefined("port") {
		if raw.Port < 1 || raw.Port > 65535 {
			return Config{}, fmt.Errorf("%w: port %d", ErrInvalidValue, raw.Port)
		}
		cfg.Port = address.Port(raw.Port)
	}

	if meta.IsDefined("profile") {
		switch strings.ToLower(strings.TrimSpace(raw.Profile)) {
		case ProfileCompact:
			cfg.MaxPayload = limits.MaxPayloadCompact
		case ProfileExtended:
			cfg.MaxPayload = limits.MaxPayloadExtended
		default:
			return Config{}, fmt.Errorf("%w: profile %q", ErrInvalidValue, raw.Profile)
		}
	}

	if meta.IsDefined("max_page_length") {
		cfg.MaxPageLength = raw.MaxPageLength
	}

	if meta.IsDefined("cooldown") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Cooldown))
		if err != nil {
			return Config{}, fmt.Errorf("parse cooldown: %w", err)
		}
		cfg.Cooldown = d
	}

	if meta.IsDefined("poll_interval") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.PollInterval))
		if err != nil {
			return Config{}, fmt.Errorf("parse poll_interval: %w", err)
		}
		cfg.PollInterval = d
	}

	if meta.IsDefined("checksum") {
		cfg.Checksum = raw.Checksum
	}

	if meta.IsDefined("maildir") {
		cfg.Maildir = strings.TrimSpace(raw.Maildir)
	}

	if meta.IsDefined("journal") {
		cfg.Journal = strings.TrimSpace(raw.Journal)
	}

	if meta.IsDefined("confirm_subject") {
		cfg.ConfirmSubject = raw.ConfirmSubject
	}

	if meta.IsDefined("confirm_header") {
		cfg.ConfirmHeader = raw.ConfirmHeader
	}

	if meta.IsDefined("radio", "listen") {
		cfg.Radio.Listen = strings.TrimSpace(raw.Radio.Listen)
	}

	if meta.IsDefined("radio", "peers") {
		cfg.Radio.Peers = normalizeList(raw.Radio.Peers)
	}

	if meta.IsDefined("smtp", "server") {
		cfg.SMTP.Server = strings.TrimSpace(raw.SMTP.Server)
	}
	if meta.IsDefined("smtp", "port") {
		cfg.SMTP.Port = raw.SMTP.Port
	}
	if meta.IsDefined("smtp", "username") {
		cfg.SMTP.Username = strings.TrimSpace(raw.SMTP.Username)
	}
	if meta.IsDefined("smtp", "password") {
		cfg.SMTP.Password = raw.SMTP.Password
	}
	if meta.IsDefined("smtp", "from") {
		cfg.SMTP.From = strings.TrimSpace(raw.SMTP.From)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first setting that cannot work.
func (c Config) Validate() error {
	if c.Port == 0 {
		return fmt.Errorf("%w: port 0", ErrInvalidValue)
	}
	if err := limits.ValidateLimit(c.MaxPayload); err != nil {
		return err
	}
	if c.MaxPageLength < 0 || c.MaxPageLength > c.MaxPayload {
		return fmt.Errorf("%w: max_page_length %d not in [0, %d]", ErrInvalidValue, c.MaxPageLength, c.MaxPayload)
	}
	if c.Cooldown < 0 {
		return fmt.Errorf("%w: cooldown %s", ErrInvalidValue, c.Cooldown)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("%w: poll_interval %s", ErrInvalidValue, c.PollInterval)
	}
	if c.Radio.Listen == "" {
		return fmt.Errorf("%w: radio.listen", ErrMissingField)
	}
	if len(c.Radio.Peers) == 0 {
		return fmt.Errorf("%w: radio.peers", ErrMissingField)
	}
	if c.Maildir == "" {
		return fmt.Errorf("%w: maildir", ErrMissingField)
	}
	if c.SMTP.Server != "" && (c.SMTP.Port < 1 || c.SMTP.Port > 65535) {
		return fmt.Errorf("%w: smtp.port %d", ErrInvalidValue, c.SMTP.Port)
	}
	return nil
}

// EndpointOptions returns options for the daemon's endpoint.
func (c Config) EndpointOptions(logger logging.Logger) *orion.Options {
	opts := orion.NewOptions()
	opts.Address = c.Address
	opts.Port = c.Port
	opts.MaxPayload = c.MaxPayload
	opts.Logger = logger
	return opts
}

// GatewayConfig returns the gateway settings. The SMTP account and sender
// are treated as the gateway's own mailboxes.
func (c Config) GatewayConfig() gateway.Config {
	gw := gateway.DefaultConfig()
	gw.MaxPageLength = c.MaxPageLength
	gw.Cooldown = c.Cooldown
	gw.PollInterval = c.PollInterval
	gw.Checksum = c.Checksum
	gw.ConfirmSubject = c.ConfirmSubject
	gw.ConfirmHeader = c.ConfirmHeader
	gw.OwnAddresses = normalizeList([]string{c.SMTP.Username, c.SMTP.From})
	return gw
}

func normalizeList(in []string) []string {
	if len(in) == 0 {
		return []string{}
	}
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
