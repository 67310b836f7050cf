package gateway

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrBadHeader indicates a recipient or subject containing a line break.
var ErrBadHeader = errors.New("header value contains line break")

// SMTPConfig describes the relay used for confirmation mail.
type SMTPConfig struct {
	Server   string
	Port     int
	Username string
	Password string
	From     string
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPSink sends confirmations through an SMTP relay. The connection is
// upgraded with STARTTLS when the server offers it.
type SMTPSink struct {
	config   SMTPConfig
	clock    TimeProvider
	sendMail sendMailFunc
}

// NewSMTPSink creates a sink for config.
func NewSMTPSink(config SMTPConfig) *SMTPSink {
	return &SMTPSink{
		config:   config,
		clock:    RealTimeProvider{},
		sendMail: smtp.SendMail,
	}
}

// Send mails body to the single recipient to.
func (s *SMTPSink) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.ContainsAny(to, "\r\n") || strings.ContainsAny(subject, "\r\n") {
		return ErrBadHeader
	}

	addr := net.JoinHostPort(s.config.Server, strconv.Itoa(s.config.Port))
	var auth smtp.Auth
	if s.config.Username != "" {
		auth = smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Server)
	}

	msg := s.compose(to, subject, body)
	if err := s.sendMail(addr, auth, s.from(), []string{to}, msg); err != nil {
		return fmt.Errorf("smtp send to %s via %s: %w", to, addr, err)
	}

	logrus.WithFields(logrus.Fields{
		"component": "smtp",
		"function":  "Send",
		"to":        to,
	}).Debug("Confirmation mailed")
	return nil
}

func (s *SMTPSink) from() string {
	if s.config.From != "" {
		return s.config.From
	}
	return s.config.Username
}

func (s *SMTPSink) compose(to, subject, body string) []byte {
	var b strings.Builder
	header := func(k, v string) {
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(v)
		b.WriteString("\r\n")
	}
	header("From", s.from())
	header("To", to)
	header("Subject", mime.QEncoding.Encode("utf-8", subject))
	header("Date", s.clock.Now().Format(time.RFC1123Z))
	header("MIME-Version", "1.0")
	header("Content-Type", "text/plain; charset=utf-8")
	b.WriteString("\r\n")

	body = strings.ReplaceAll(body, "\r\n", "\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	b.WriteString("\r\n")
	return []byte(b.String())
}
