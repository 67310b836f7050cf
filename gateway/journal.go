package gateway

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/opd-ai/orion/address"
)

// ErrUnknownPage indicates a journal lookup for an id that was never recorded.
var ErrUnknownPage = errors.New("page not in journal")

const journalSchema = `
create table if not exists t_pages (
	id          text primary key,
	sent_at     text not null,
	sender      text not null,
	destination text not null,
	length      integer not null,
	confirmed   integer not null default 0
);
create index if not exists idx_pages_sent_at on t_pages(sent_at);
`

// Entry is one page the gateway transmitted.
type Entry struct {
	ID          uuid.UUID
	SentAt      time.Time
	From        string
	Destination address.Address
	Length      int
	Confirmed   bool
}

// Journal persists sent pages in SQLite.
type Journal struct {
	db *sql.DB
}

// OpenJournal opens or creates the journal database at path.
func OpenJournal(path string) (*Journal, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("unable to create journal directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("unable to open journal: %w", err)
	}
	return newJournal(db)
}

// OpenMemoryJournal opens a journal that lives only as long as the process.
func OpenMemoryJournal() (*Journal, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("unable to open journal: %w", err)
	}
	return newJournal(db)
}

func newJournal(db *sql.DB) (*Journal, error) {
	// every pooled connection to :memory: would see its own empty database
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(journalSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to initialize journal: %w", err)
	}
	return &Journal{db: db}, nil
}

// Record stores e.
func (j *Journal) Record(ctx context.Context, e Entry) error {
	_, err := j.db.ExecContext(ctx,
		"insert into t_pages(id, sent_at, sender, destination, length, confirmed) values ($1, $2, $3, $4, $5, $6)",
		e.ID.String(), e.SentAt.UTC().Format(time.RFC3339Nano), e.From, e.Destination.String(), e.Length, boolToInt(e.Confirmed))
	if err != nil {
		return fmt.Errorf("record page %s: %w", e.ID, err)
	}
	return nil
}

// Confirm marks the page with id as confirmed to its sender.
func (j *Journal) Confirm(ctx context.Context, id uuid.UUID) error {
	res, err := j.db.ExecContext(ctx, "update t_pages set confirmed = 1 where id = $1", id.String())
	if err != nil {
		return fmt.Errorf("confirm page %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("confirm page %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("confirm page %s: %w", id, ErrUnknownPage)
	}
	return nil
}

// Get returns the entry recorded under id.
func (j *Journal) Get(ctx context.Context, id uuid.UUID) (Entry, error) {
	row := j.db.QueryRowContext(ctx,
		"select id, sent_at, sender, destination, length, confirmed from t_pages where id = $1", id.String())
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("get page %s: %w", id, ErrUnknownPage)
	}
	return e, err
}

// Recent returns up to limit entries, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx,
		"select id, sent_at, sender, destination, length, confirmed from t_pages order by sent_at desc limit $1", limit)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close closes the database.
func (j *Journal) Close() error {
	return j.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (Entry, error) {
	var (
		e                Entry
		id, sentAt, dest string
	)
	if err := s.Scan(&id, &sentAt, &e.From, &dest, &e.Length, &e.Confirmed); err != nil {
		return Entry{}, err
	}
	var err error
	if e.ID, err = uuid.Parse(id); err != nil {
		return Entry{}, fmt.Errorf("journal row id %q: %w", id, err)
	}
	if e.SentAt, err = time.Parse(time.RFC3339Nano, sentAt); err != nil {
		return Entry{}, fmt.Errorf("journal row %s sent_at: %w", id, err)
	}
	if e.Destination, err = address.ParseAddress(dest); err != nil {
		return Entry{}, fmt.Errorf("journal row %s destination: %w", id, err)
	}
	return e, nil
}
