package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/opd-ai/orion/address"
	"github.com/opd-ai/orion/checksum"
	"github.com/opd-ai/orion/packet"
)

// PagePort is the port pages are sent from and to.
const PagePort address.Port = 65535

// TimestampLayout formats the send time in confirmation mail.
const TimestampLayout = "2006-01-02 15:04:05"

var (
	// ErrNilSender indicates New was called without a packet sender
	ErrNilSender = errors.New("gateway sender is nil")

	// ErrNilSource indicates New was called without a message source
	ErrNilSource = errors.New("gateway source is nil")

	// ErrInvalidConfig indicates a Config field is out of range
	ErrInvalidConfig = errors.New("invalid gateway config")

	// ErrNilMessage indicates Page was called without a message
	ErrNilMessage = errors.New("gateway message is nil")
)

// Message is one paging request.
type Message struct {
	ID            uuid.UUID
	ReturnAddress string // bare mailbox of the requester
	Subject       string
	Body          string
}

// Source yields paging requests. Next returns a nil message and nil error
// when nothing is waiting.
type Source interface {
	Next(ctx context.Context) (*Message, error)
}

// Sink delivers confirmation mail.
type Sink interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Sender builds and transmits packets. *orion.Endpoint satisfies it.
type Sender interface {
	BuildPacket(data []byte, dest address.Address, destPort address.Port, flags packet.Flags) *packet.Packet
	Send(p *packet.Packet) error
}

// Config holds gateway settings.
type Config struct {
	// MaxPageLength bounds the page text in bytes.
	MaxPageLength int
	// Cooldown is the minimum spacing between pages.
	Cooldown time.Duration
	// PollInterval is the wait after finding the source empty. Must be positive.
	PollInterval time.Duration
	// ConfirmSubject and ConfirmHeader shape the confirmation mail.
	ConfirmSubject string
	ConfirmHeader  string
	// OwnAddresses are the gateway's own mailboxes; they never get
	// confirmations. Display-name forms are accepted.
	OwnAddresses []string
	// Checksum seals every page with a checksum trailer.
	Checksum bool
	// TimeProvider supplies confirmation timestamps. Nil uses the system clock.
	TimeProvider TimeProvider
}

// DefaultConfig returns the settings the pager daemon starts from.
func DefaultConfig() Config {
	return Config{
		MaxPageLength:  256,
		Cooldown:       5 * time.Second,
		PollInterval:   5 * time.Second,
		ConfirmSubject: "Page sent",
		ConfirmHeader:  "ORION pager gateway",
	}
}

func (c Config) validate() error {
	if c.MaxPageLength < 0 {
		return fmt.Errorf("%w: max page length %d", ErrInvalidConfig, c.MaxPageLength)
	}
	if c.Cooldown < 0 {
		return fmt.Errorf("%w: cooldown %s", ErrInvalidConfig, c.Cooldown)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("%w: poll interval %s", ErrInvalidConfig, c.PollInterval)
	}
	return nil
}

// Result describes a page that went out.
type Result struct {
	ID          uuid.UUID
	Destination address.Address
	Text        string
	SentAt      time.Time
	Confirmed   bool
}

// Gateway relays messages from a Source onto the radio.
type Gateway struct {
	sender  Sender
	source  Source
	sink    Sink
	journal *Journal
	config  Config
	clock   TimeProvider
	limiter *rate.Limiter
	own     map[string]struct{}
}

// New creates a Gateway. sink and journal may be nil to skip confirmations
// and persistence.
func New(sender Sender, source Source, sink Sink, journal *Journal, config Config) (*Gateway, error) {
	if sender == nil {
		return nil, ErrNilSender
	}
	if source == nil {
		return nil, ErrNilSource
	}
	if err := config.validate(); err != nil {
		return nil, err
	}

	limit := rate.Inf
	if config.Cooldown > 0 {
		limit = rate.Every(config.Cooldown)
	}

	own := make(map[string]struct{}, len(config.OwnAddresses))
	for _, a := range config.OwnAddresses {
		if a = mailbox(a); a != "" {
			own[strings.ToLower(a)] = struct{}{}
		}
	}

	return &Gateway{
		sender:  sender,
		source:  source,
		sink:    sink,
		journal: journal,
		config:  config,
		clock:   getTimeProvider(config.TimeProvider),
		limiter: rate.NewLimiter(limit, 1),
		own:     own,
	}, nil
}

// Destination returns the address named by subject, or the broadcast
// address when subject is not a valid address.
func Destination(subject string) address.Address {
	a, err := address.ParseAddress(strings.TrimSpace(subject))
	if err != nil {
		return address.Broadcast
	}
	return a
}

// PageBody returns body with non-ASCII bytes dropped, cut to max bytes.
func PageBody(body string, max int) []byte {
	out := make([]byte, 0, len(body))
	for i := 0; i < len(body); i++ {
		if body[i] < 0x80 {
			out = append(out, body[i])
		}
	}
	if max >= 0 && len(out) > max {
		out = out[:max]
	}
	return out
}

// Confirmation renders the mail sent back after a page goes out.
func Confirmation(header, text string, dest address.Address, sentAt time.Time) string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString("The following page:\n")
	b.WriteString(text)
	fmt.Fprintf(&b, "\nto address %s was successfully sent on %s.", dest, sentAt.Format(TimestampLayout))
	return b.String()
}

// Page transmits msg and confirms it to the requester, assigning msg.ID if it
// is unset. A confirmation failure is logged but does not fail the page,
// which has already gone out.
func (g *Gateway) Page(ctx context.Context, msg *Message) (*Result, error) {
	if msg == nil {
		return nil, ErrNilMessage
	}
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	log := logrus.WithFields(logrus.Fields{
		"component": "gateway",
		"function":  "Page",
		"page_id":   msg.ID.String(),
		"from":      msg.ReturnAddress,
	})

	dest := Destination(msg.Subject)
	text := PageBody(msg.Body, g.config.MaxPageLength)

	p := g.sender.BuildPacket(text, dest, PagePort, 0)
	// the sender may cut the text further to its own payload limit
	text = append([]byte(nil), p.Data()...)
	if g.config.Checksum {
		if room := p.MaxLength() - checksum.Size; room >= 0 && len(text) > room {
			text = text[:room]
			p.SetData(text)
		}
		if err := checksum.Seal(p); err != nil {
			return nil, fmt.Errorf("seal page %s: %w", msg.ID, err)
		}
	}
	if err := g.sender.Send(p); err != nil {
		return nil, fmt.Errorf("send page %s: %w", msg.ID, err)
	}

	res := &Result{
		ID:          msg.ID,
		Destination: dest,
		Text:        string(text),
		SentAt:      g.clock.Now(),
	}
	log.WithFields(logrus.Fields{
		"destination": dest.String(),
		"length":      len(text),
	}).Info("Sent page")

	// the page is on air; cancellation must not lose its journal entry
	journalCtx := context.WithoutCancel(ctx)
	if g.journal != nil {
		err := g.journal.Record(journalCtx, Entry{
			ID:          res.ID,
			SentAt:      res.SentAt,
			From:        msg.ReturnAddress,
			Destination: dest,
			Length:      len(text),
		})
		if err != nil {
			log.WithError(err).Warn("Failed to journal page")
		}
	}

	if !g.shouldConfirm(msg.ReturnAddress) {
		return res, nil
	}
	body := Confirmation(g.config.ConfirmHeader, res.Text, dest, res.SentAt)
	if err := g.sink.Send(ctx, msg.ReturnAddress, g.config.ConfirmSubject, body); err != nil {
		log.WithError(err).Warn("Failed to send confirmation")
		return res, nil
	}
	res.Confirmed = true
	if g.journal != nil {
		if err := g.journal.Confirm(journalCtx, res.ID); err != nil {
			log.WithError(err).Warn("Failed to journal confirmation")
		}
	}
	return res, nil
}

func (g *Gateway) shouldConfirm(to string) bool {
	if g.sink == nil || strings.TrimSpace(to) == "" {
		return false
	}
	_, self := g.own[strings.ToLower(mailbox(to))]
	return !self
}

// Run polls the source and pages every message until ctx is done. Pages are
// spaced at least Cooldown apart. A failing source or page is logged and the
// loop continues after the cooldown.
func (g *Gateway) Run(ctx context.Context) error {
	log := logrus.WithFields(logrus.Fields{
		"component": "gateway",
		"function":  "Run",
	})
	log.Info("Gateway started")

	for {
		msg, err := g.source.Next(ctx)
		if ctx.Err() != nil {
			return g.stopped(ctx, ctx.Err())
		}
		if err != nil {
			log.WithError(err).Error("Failed to fetch message, retrying after cooldown")
			if err := g.limiter.Wait(ctx); err != nil {
				return g.stopped(ctx, err)
			}
			continue
		}
		if msg == nil {
			if err := g.idle(ctx); err != nil {
				return g.stopped(ctx, err)
			}
			continue
		}

		if err := g.limiter.Wait(ctx); err != nil {
			return g.stopped(ctx, err)
		}
		log.WithField("from", msg.ReturnAddress).Info("Message received")
		if _, err := g.Page(ctx, msg); err != nil {
			log.WithError(err).Error("Failed to page, continuing after cooldown")
		}
	}
}

func (g *Gateway) idle(ctx context.Context) error {
	t := time.NewTimer(g.config.PollInterval)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (g *Gateway) stopped(ctx context.Context, err error) error {
	logrus.WithFields(logrus.Fields{
		"component": "gateway",
		"function":  "Run",
	}).Info("Gateway stopped")
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}
