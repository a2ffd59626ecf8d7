package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/belmarfabian/ranking-ciencias-sociales-chile/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"), time.Hour)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestProfileCacheRoundTrip(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	rec := model.RawRecord{
		Source:      model.SourceScholar,
		SourceID:    "AbC123",
		Name:        "Ana Soto",
		Metrics:     model.Metrics{HIndex: 9, Citations: 300},
		RetrievedAt: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.PutProfile(ctx, rec))

	got, err := s.GetProfile(ctx, model.SourceScholar, "AbC123")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, rec.Name, got.Name)
	assert.Equal(t, rec.Metrics, got.Metrics)
}

func TestProfileCacheMiss(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	got, err := s.GetProfile(context.Background(), model.SourceScholar, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestProfileCacheSourceQualified(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutProfile(ctx, model.RawRecord{Source: model.SourceScholar, SourceID: "X1", Name: "scraped"}))
	require.NoError(t, s.PutProfile(ctx, model.RawRecord{Source: model.SourceOpenAlex, SourceID: "X1", Name: "api"}))

	got, err := s.GetProfile(ctx, model.SourceOpenAlex, "X1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "api", got.Name)
}

func TestProfileCacheExpiry(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutProfile(ctx, model.RawRecord{Source: model.SourceScholar, SourceID: "X1", Name: "old"}))

	// Move the clock past the TTL.
	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	got, err := s.GetProfile(ctx, model.SourceScholar, "X1")
	require.NoError(t, err)
	assert.Nil(t, got)

	purged, err := s.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, purged)
}

func TestProfileCacheReplace(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutProfile(ctx, model.RawRecord{Source: model.SourceScholar, SourceID: "X1", Metrics: model.Metrics{HIndex: 5}}))
	require.NoError(t, s.PutProfile(ctx, model.RawRecord{Source: model.SourceScholar, SourceID: "X1", Metrics: model.Metrics{HIndex: 6}}))

	got, err := s.GetProfile(ctx, model.SourceScholar, "X1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 6, got.Metrics.HIndex)
}

func TestRunLog(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.StartRun(ctx, "rank")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	require.NoError(t, s.FinishRun(ctx, id, "complete", 42, "sorted by h_index"))

	runs, err := s.LastRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, id, runs[0].ID)
	assert.Equal(t, "rank", runs[0].Kind)
	assert.Equal(t, "complete", runs[0].Status)
	assert.Equal(t, 42, runs[0].Researchers)
	require.NotNil(t, runs[0].FinishedAt)
}

func TestFinishRunUnknownID(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	err := s.FinishRun(context.Background(), "no-such-run", "complete", 0, "")
	assert.Error(t, err)
}
