package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/progress-hub/ai-progress-hub/internal/domain/progress"
)

type fakePruner struct {
	cutoff  time.Time
	deleted int64
	err     error
	calls   int
}

func (f *fakePruner) DeleteExpiredRepetitions(_ context.Context, cutoff time.Time) (int64, error) {
	f.calls++
	f.cutoff = cutoff
	return f.deleted, f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCleanupRepetitionsJob_Run(t *testing.T) {
	pruner := &fakePruner{deleted: 7}
	job := NewCleanupRepetitionsJob(pruner, CleanupRepetitionsConfig{
		Retention: 30 * 24 * time.Hour,
		Timeout:   5 * time.Second,
	}, discardLogger())

	before := time.Now().UTC()
	require.NoError(t, job.Run(context.Background()))

	assert.Equal(t, 1, pruner.calls)

	// Cutoff is now minus the retention window.
	wantCutoff := before.Add(-30 * 24 * time.Hour)
	assert.WithinDuration(t, wantCutoff, pruner.cutoff, 2*time.Second)

	stats := job.LastRunStats()
	require.NotNil(t, stats)
	assert.Equal(t, int64(7), stats.Deleted)
	assert.NoError(t, stats.Err)
}

func TestCleanupRepetitionsJob_RunError(t *testing.T) {
	pruneErr := errors.New("connection reset")
	pruner := &fakePruner{err: pruneErr}
	job := NewCleanupRepetitionsJob(pruner, DefaultCleanupRepetitionsConfig(), discardLogger())

	err := job.Run(context.Background())
	assert.ErrorIs(t, err, pruneErr)

	stats := job.LastRunStats()
	require.NotNil(t, stats)
	assert.ErrorIs(t, stats.Err, pruneErr)
}

// mapPruner holds review times in memory and applies the same strict
// comparison the SQL backend uses.
type mapPruner struct {
	reviews map[string]time.Time
}

func (m *mapPruner) DeleteExpiredRepetitions(_ context.Context, cutoff time.Time) (int64, error) {
	var deleted int64
	for id, next := range m.reviews {
		if progress.ReviewExpired(next, cutoff) {
			delete(m.reviews, id)
			deleted++
		}
	}
	return deleted, nil
}

func TestCleanupRepetitionsJob_RetentionBoundary(t *testing.T) {
	now := time.Now().UTC()
	pruner := &mapPruner{reviews: map[string]time.Time{
		"long-overdue": now.Add(-31 * 24 * time.Hour),
		"just-inside":  now.Add(-29 * 24 * time.Hour),
		"due-today":    now,
	}}

	job := NewCleanupRepetitionsJob(pruner, CleanupRepetitionsConfig{
		Retention: 30 * 24 * time.Hour,
		Timeout:   5 * time.Second,
	}, discardLogger())

	require.NoError(t, job.Run(context.Background()))

	assert.NotContains(t, pruner.reviews, "long-overdue")
	assert.Contains(t, pruner.reviews, "just-inside")
	assert.Contains(t, pruner.reviews, "due-today")

	stats := job.LastRunStats()
	require.NotNil(t, stats)
	assert.Equal(t, int64(1), stats.Deleted)
}

func TestCleanupRepetitionsJob_DefaultsApplied(t *testing.T) {
	job := NewCleanupRepetitionsJob(&fakePruner{}, CleanupRepetitionsConfig{}, nil)

	assert.Equal(t, "cleanup_repetitions", job.Name())
	assert.Contains(t, job.Description(), "720h")
	assert.Nil(t, job.LastRunStats())
}
