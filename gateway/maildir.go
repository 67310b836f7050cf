package gateway

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrNoTextBody indicates a message without a text/plain part.
var ErrNoTextBody = errors.New("message has no text/plain body")

// MaildirSource reads paging requests from a maildir. Messages are taken from
// new/ oldest first and moved to cur/ once read, whether or not they parse.
type MaildirSource struct {
	dir string
}

// NewMaildirSource returns a source over the maildir rooted at dir.
func NewMaildirSource(dir string) *MaildirSource {
	return &MaildirSource{dir: dir}
}

// Init creates the tmp, new and cur directories if they are missing.
func (s *MaildirSource) Init() error {
	for _, sub := range []string{"tmp", "new", "cur"} {
		if err := os.MkdirAll(filepath.Join(s.dir, sub), 0o700); err != nil {
			return fmt.Errorf("init maildir %s: %w", s.dir, err)
		}
	}
	return nil
}

// Next returns the oldest unread message, or nil when new/ is empty.
func (s *MaildirSource) Next(ctx context.Context) (*Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name, err := s.oldest()
	if err != nil || name == "" {
		return nil, err
	}

	path := filepath.Join(s.dir, "new", name)
	msg, parseErr := readMessageFile(path)
	if err := os.Rename(path, filepath.Join(s.dir, "cur", name+":2,S")); err != nil {
		return nil, fmt.Errorf("move %s to cur: %w", name, err)
	}
	if parseErr != nil {
		logrus.WithFields(logrus.Fields{
			"component": "maildir",
			"function":  "Next",
			"file":      name,
		}).WithError(parseErr).Warn("Skipping unreadable message")
		return nil, fmt.Errorf("read %s: %w", name, parseErr)
	}
	return msg, nil
}

// Pending returns the number of unread messages.
func (s *MaildirSource) Pending() (int, error) {
	entries, err := s.entries()
	return len(entries), err
}

func (s *MaildirSource) oldest() (string, error) {
	entries, err := s.entries()
	if err != nil || len(entries) == 0 {
		return "", err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].modTime.Equal(entries[j].modTime) {
			return entries[i].modTime.Before(entries[j].modTime)
		}
		return entries[i].name < entries[j].name
	})
	return entries[0].name, nil
}

type maildirEntry struct {
	name    string
	modTime time.Time
}

func (s *MaildirSource) entries() ([]maildirEntry, error) {
	dirents, err := os.ReadDir(filepath.Join(s.dir, "new"))
	if err != nil {
		return nil, fmt.Errorf("list maildir: %w", err)
	}
	out := make([]maildirEntry, 0, len(dirents))
	for _, d := range dirents {
		if d.IsDir() || strings.HasPrefix(d.Name(), ".") {
			continue
		}
		info, err := d.Info()
		if err != nil {
			// removed by another reader between ReadDir and Info
			continue
		}
		out = append(out, maildirEntry{name: d.Name(), modTime: info.ModTime()})
	}
	return out, nil
}

func readMessageFile(path string) (*Message, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseMessage(f)
}

// ParseMessage reads an RFC 5322 message: the bare From mailbox, the decoded
// Subject and the first text/plain body.
func ParseMessage(r io.Reader) (*Message, error) {
	m, err := mail.ReadMessage(r)
	if err != nil {
		return nil, err
	}

	dec := new(mime.WordDecoder)
	subject, err := dec.DecodeHeader(m.Header.Get("Subject"))
	if err != nil {
		subject = m.Header.Get("Subject")
	}

	body, err := textBody(m.Header.Get("Content-Type"), m.Header.Get("Content-Transfer-Encoding"), m.Body)
	if err != nil {
		return nil, err
	}

	return &Message{
		ID:            uuid.New(),
		ReturnAddress: mailbox(m.Header.Get("From")),
		Subject:       strings.TrimSpace(subject),
		Body:          body,
	}, nil
}

// mailbox strips the display name and angle brackets from a From header.
func mailbox(from string) string {
	if a, err := mail.ParseAddress(from); err == nil {
		return a.Address
	}
	if i := strings.LastIndex(from, "<"); i >= 0 {
		return strings.TrimSpace(strings.TrimSuffix(from[i+1:], ">"))
	}
	return strings.TrimSpace(from)
}

func textBody(contentType, encoding string, body io.Reader) (string, error) {
	mediaType := "text/plain"
	var params map[string]string
	if contentType != "" {
		var err error
		mediaType, params, err = mime.ParseMediaType(contentType)
		if err != nil {
			return "", fmt.Errorf("content type %q: %w", contentType, err)
		}
	}

	switch {
	case mediaType == "text/plain":
		b, err := io.ReadAll(decodeTransfer(encoding, body))
		if err != nil {
			return "", err
		}
		return string(b), nil
	case strings.HasPrefix(mediaType, "multipart/"):
		mr := multipart.NewReader(body, params["boundary"])
		for {
			part, err := mr.NextPart()
			if errors.Is(err, io.EOF) {
				return "", ErrNoTextBody
			}
			if err != nil {
				return "", err
			}
			// NextPart already undoes quoted-printable and drops that header
			text, err := textBody(part.Header.Get("Content-Type"), part.Header.Get("Content-Transfer-Encoding"), part)
			if errors.Is(err, ErrNoTextBody) {
				continue
			}
			return text, err
		}
	default:
		return "", ErrNoTextBody
	}
}

func decodeTransfer(encoding string, r io.Reader) io.Reader {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "base64":
		return base64.NewDecoder(base64.StdEncoding, r)
	case "quoted-printable":
		return quotedprintable.NewReader(r)
	default:
		return r
	}
}
