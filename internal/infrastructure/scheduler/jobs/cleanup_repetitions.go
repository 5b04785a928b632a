// Package jobs contains implementations of scheduled jobs for AI Progress Hub.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/progress-hub/ai-progress-hub/internal/domain/progress"
	"github.com/progress-hub/ai-progress-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// CLEANUP REPETITIONS JOB
// ══════════════════════════════════════════════════════════════════════════════

// RepetitionPruner deletes spaced-repetition records older than a cutoff.
type RepetitionPruner interface {
	DeleteExpiredRepetitions(ctx context.Context, cutoff time.Time) (int64, error)
}

// CleanupRepetitionsConfig contains configuration for the cleanup job.
type CleanupRepetitionsConfig struct {
	// Retention is how long repetition records are kept past their
	// review time before the sweep removes them.
	Retention time.Duration

	// Timeout bounds a single sweep run.
	Timeout time.Duration
}

// DefaultCleanupRepetitionsConfig returns sensible defaults.
func DefaultCleanupRepetitionsConfig() CleanupRepetitionsConfig {
	return CleanupRepetitionsConfig{
		Retention: progress.RetentionPeriod,
		Timeout:   30 * time.Second,
	}
}

// CleanupRepetitionsStats holds the outcome of the latest sweep.
type CleanupRepetitionsStats struct {
	RanAt   time.Time
	Cutoff  time.Time
	Deleted int64
	Err     error
}

// CleanupRepetitionsJob removes spaced-repetition records whose review
// time fell past the retention window. Old review rows carry no signal
// once the material has aged out, and an unbounded table slows the
// due-items query for everyone.
//
// A failed sweep is logged and swallowed: expired rows are invisible to
// readers either way, so the next run simply picks them up.
type CleanupRepetitionsJob struct {
	store  RepetitionPruner
	config CleanupRepetitionsConfig
	logger *slog.Logger

	lastRunStats atomic.Value // *CleanupRepetitionsStats
}

// NewCleanupRepetitionsJob creates the cleanup job.
func NewCleanupRepetitionsJob(store RepetitionPruner, config CleanupRepetitionsConfig, logger *slog.Logger) *CleanupRepetitionsJob {
	if config.Retention <= 0 {
		config.Retention = progress.RetentionPeriod
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &CleanupRepetitionsJob{
		store:  store,
		config: config,
		logger: logger,
	}
}

// Name returns the unique name of the job.
func (j *CleanupRepetitionsJob) Name() string {
	return "cleanup_repetitions"
}

// Description returns a human-readable description of the job.
func (j *CleanupRepetitionsJob) Description() string {
	return fmt.Sprintf("removes spaced-repetition records older than %s", j.config.Retention)
}

// Run executes one sweep.
func (j *CleanupRepetitionsJob) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	now := timeutil.Now()
	cutoff := timeutil.RetentionCutoff(now, j.config.Retention)

	deleted, err := j.store.DeleteExpiredRepetitions(ctx, cutoff)

	stats := &CleanupRepetitionsStats{
		RanAt:   now,
		Cutoff:  cutoff,
		Deleted: deleted,
		Err:     err,
	}
	j.lastRunStats.Store(stats)

	if err != nil {
		j.logger.Error("repetition cleanup failed",
			"cutoff", cutoff.Format(time.RFC3339),
			"error", err,
		)
		return fmt.Errorf("failed to delete expired repetitions: %w", err)
	}

	if deleted > 0 {
		j.logger.Info("repetition cleanup completed",
			"cutoff", cutoff.Format(time.RFC3339),
			"deleted", deleted,
		)
	}

	return nil
}

// LastRunStats returns the outcome of the most recent sweep, or nil if
// the job has not run yet.
func (j *CleanupRepetitionsJob) LastRunStats() *CleanupRepetitionsStats {
	stats, _ := j.lastRunStats.Load().(*CleanupRepetitionsStats)
	return stats
}
