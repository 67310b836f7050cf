package gateway

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/orion/address"
)

func TestJournalRecordAndConfirm(t *testing.T) {
	j, err := OpenMemoryJournal()
	require.NoError(t, err)
	defer j.Close()
	ctx := context.Background()

	e := Entry{
		ID:          uuid.New(),
		SentAt:      testTime,
		From:        "alice@example.org",
		Destination: pagerAddr,
		Length:      9,
	}
	require.NoError(t, j.Record(ctx, e))

	got, err := j.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, e.ID, got.ID)
	assert.True(t, got.SentAt.Equal(testTime))
	assert.Equal(t, e.From, got.From)
	assert.Equal(t, pagerAddr, got.Destination)
	assert.Equal(t, 9, got.Length)
	assert.False(t, got.Confirmed)

	require.NoError(t, j.Confirm(ctx, e.ID))
	got, err = j.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.True(t, got.Confirmed)
}

func TestJournalUnknownPage(t *testing.T) {
	j, err := OpenMemoryJournal()
	require.NoError(t, err)
	defer j.Close()

	assert.ErrorIs(t, j.Confirm(context.Background(), uuid.New()), ErrUnknownPage)
	_, err = j.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrUnknownPage)
}

func TestJournalDuplicateID(t *testing.T) {
	j, err := OpenMemoryJournal()
	require.NoError(t, err)
	defer j.Close()

	e := Entry{ID: uuid.New(), SentAt: testTime, Destination: address.Broadcast}
	require.NoError(t, j.Record(context.Background(), e))
	assert.Error(t, j.Record(context.Background(), e))
}

func TestJournalRecentNewestFirst(t *testing.T) {
	j, err := OpenMemoryJournal()
	require.NoError(t, err)
	defer j.Close()
	ctx := context.Background()

	var ids []uuid.UUID
	for i := 0; i < 5; i++ {
		id := uuid.New()
		ids = append(ids, id)
		require.NoError(t, j.Record(ctx, Entry{
			ID:          id,
			SentAt:      testTime.Add(time.Duration(i) * time.Minute),
			Destination: address.Broadcast,
		}))
	}

	recent, err := j.Recent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, ids[4], recent[0].ID)
	assert.Equal(t, ids[3], recent[1].ID)
	assert.Equal(t, ids[2], recent[2].ID)
}

func TestJournalPersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "journal.sqlite")
	ctx := context.Background()

	j, err := OpenJournal(path)
	require.NoError(t, err)
	e := Entry{ID: uuid.New(), SentAt: testTime, From: "bob@example.org", Destination: pagerAddr, Length: 3}
	require.NoError(t, j.Record(ctx, e))
	require.NoError(t, j.Close())

	j, err = OpenJournal(path)
	require.NoError(t, err)
	defer j.Close()

	got, err := j.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob@example.org", got.From)
}
