package gateway

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMaildir(t *testing.T) (*MaildirSource, string) {
	t.Helper()
	dir := t.TempDir()
	src := NewMaildirSource(dir)
	require.NoError(t, src.Init())
	return src, dir
}

func deliver(t *testing.T, dir, name, raw string, mtime time.Time) {
	t.Helper()
	path := filepath.Join(dir, "new", name)
	require.NoError(t, os.WriteFile(path, []byte(strings.ReplaceAll(raw, "\n", "\r\n")), 0o600))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

const plainMessage = `From: Alice Example <alice@example.org>
To: pager@example.org
Subject: 10.0.0.5
Content-Type: text/plain; charset=us-ascii

call home
`

func TestMaildirEmpty(t *testing.T) {
	src, _ := newMaildir(t)
	msg, err := src.Next(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, msg)
}

func TestMaildirReadsAndMovesMessage(t *testing.T) {
	src, dir := newMaildir(t)
	deliver(t, dir, "1700000000.1.host", plainMessage, testTime)

	n, err := src.Pending()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	msg, err := src.Next(context.Background())
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, "alice@example.org", msg.ReturnAddress)
	assert.Equal(t, "10.0.0.5", msg.Subject)
	assert.Equal(t, "call home\r\n", msg.Body)

	_, err = os.Stat(filepath.Join(dir, "cur", "1700000000.1.host:2,S"))
	assert.NoError(t, err)
	n, err = src.Pending()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMaildirOldestFirst(t *testing.T) {
	src, dir := newMaildir(t)
	deliver(t, dir, "b", strings.Replace(plainMessage, "10.0.0.5", "second", 1), testTime.Add(time.Minute))
	deliver(t, dir, "c", strings.Replace(plainMessage, "10.0.0.5", "first", 1), testTime)

	msg, err := src.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "first", msg.Subject)
	msg, err = src.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "second", msg.Subject)
}

func TestMaildirUnreadableMessageIsConsumed(t *testing.T) {
	src, dir := newMaildir(t)
	deliver(t, dir, "bad", "From: x@y.z\nContent-Type: text/html\n\n<b>hi</b>\n", testTime)

	msg, err := src.Next(context.Background())
	assert.Nil(t, msg)
	assert.ErrorIs(t, err, ErrNoTextBody)

	msg, err = src.Next(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, msg)
}

func TestMaildirMissingDirectory(t *testing.T) {
	src := NewMaildirSource(filepath.Join(t.TempDir(), "absent"))
	_, err := src.Next(context.Background())
	assert.Error(t, err)
}

func TestParseMessage(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		from    string
		subject string
		body    string
	}{
		{
			name:    "bare from",
			raw:     "From: bob@example.org\nSubject: hi\n\nbody\n",
			from:    "bob@example.org",
			subject: "hi",
			body:    "body\n",
		},
		{
			name:    "encoded subject",
			raw:     "From: <bob@example.org>\nSubject: =?utf-8?q?10.0.0.7?=\n\nbody\n",
			from:    "bob@example.org",
			subject: "10.0.0.7",
			body:    "body\n",
		},
		{
			name:    "base64 body",
			raw:     "From: bob@example.org\nSubject: x\nContent-Type: text/plain\nContent-Transfer-Encoding: base64\n\nY2FsbCBob21l\n",
			from:    "bob@example.org",
			subject: "x",
			body:    "call home",
		},
		{
			name:    "quoted-printable body",
			raw:     "From: bob@example.org\nSubject: x\nContent-Transfer-Encoding: quoted-printable\n\nmeet =3D now\n",
			from:    "bob@example.org",
			subject: "x",
			body:    "meet = now\n",
		},
		{
			name: "multipart alternative",
			raw: "From: \"Bob\" <bob@example.org>\nSubject: x\n" +
				"Content-Type: multipart/alternative; boundary=XX\n\n" +
				"--XX\nContent-Type: text/html\n\n<p>html</p>\n" +
				"--XX\nContent-Type: text/plain\n\nplain text\n" +
				"--XX--\n",
			from:    "bob@example.org",
			subject: "x",
			body:    "plain text",
		},
		{
			name:    "unclosed angle bracket",
			raw:     "From: Bob <bob@example.org\nSubject: x\n\nbody\n",
			from:    "bob@example.org",
			subject: "x",
			body:    "body\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := ParseMessage(strings.NewReader(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.from, msg.ReturnAddress)
			assert.Equal(t, tt.subject, msg.Subject)
			assert.Equal(t, tt.body, msg.Body)
		})
	}
}

func TestParseMessageMultipartWithoutText(t *testing.T) {
	raw := "From: bob@example.org\nSubject: x\n" +
		"Content-Type: multipart/mixed; boundary=XX\n\n" +
		"--XX\nContent-Type: image/png\n\nPNG\n" +
		"--XX--\n"
	_, err := ParseMessage(strings.NewReader(raw))
	assert.ErrorIs(t, err, ErrNoTextBody)
}
