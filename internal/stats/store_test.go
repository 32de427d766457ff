package stats

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "db", "stats.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndRecent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.UnixMilli(1_700_000_000_000)

	for i := range 3 {
		sess := &Session{
			Seed:     int64(i + 1),
			Preset:   "shooter",
			Started:  base.Add(time.Duration(i) * time.Minute),
			Duration: 90 * time.Second,
			Shots:    10,
			Hits:     i,
		}
		require.NoError(t, s.Record(ctx, sess))
		assert.NotEqual(t, uuid.Nil, sess.ID)
	}

	got, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, int64(3), got[0].Seed, "newest first")
	assert.Equal(t, int64(2), got[1].Seed)
	assert.True(t, got[0].Started.Equal(base.Add(2*time.Minute)))
	assert.Equal(t, 90*time.Second, got[0].Duration)
	assert.Equal(t, "shooter", got[0].Preset)
	assert.InDelta(t, 0.2, got[0].Accuracy(), 1e-9)
}

func TestRecordKeepsGivenID(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	id := uuid.New()

	require.NoError(t, s.Record(ctx, &Session{ID: id, Preset: "classic", Started: time.Now()}))
	require.Error(t, s.Record(ctx, &Session{ID: id, Preset: "classic", Started: time.Now()}), "duplicate id")

	got, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, id, got[0].ID)
}

func TestMigrateIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Record(context.Background(), &Session{Preset: "flash", Started: time.Now()}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Migrate())

	got, err := s.Recent(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestDisabledStore(t *testing.T) {
	s, err := Open("")
	require.NoError(t, err)
	assert.False(t, s.Enabled())

	require.NoError(t, s.Record(context.Background(), &Session{}))
	got, err := s.Recent(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, s.Close())
}

func TestAccuracyWithoutShots(t *testing.T) {
	assert.Zero(t, Session{Hits: 3}.Accuracy())
}
