// Package persistence defines the storage contract for progress data and
// the gateway that selects between the PostgreSQL and file backends.
package persistence

import (
	"context"
	"time"

	"github.com/progress-hub/ai-progress-hub/internal/domain/progress"
)

// Storage mode names reported by Store.Mode and the health endpoint.
const (
	ModePostgres = "postgres"
	ModeFile     = "file_based"
)

// Store is the persistence contract shared by both backends. All
// snapshot and daily-log writes are last-write-wins upserts keyed by
// identifier (and date, for logs); there is no conflict detection.
//
// Implementations return progress.ErrSnapshotNotFound for absence so
// callers can tell a missing snapshot from an I/O failure.
type Store interface {
	// SaveSnapshot stores the complete snapshot for the identifier,
	// replacing any previous one.
	SaveSnapshot(ctx context.Context, userID string, s *progress.Snapshot) error

	// LoadSnapshot returns the stored snapshot for the identifier, or
	// progress.ErrSnapshotNotFound if none exists.
	LoadSnapshot(ctx context.Context, userID string) (*progress.Snapshot, error)

	// SaveDailyLog upserts a daily log entry keyed by (identifier, date).
	SaveDailyLog(ctx context.Context, userID string, log *progress.DailyLog) error

	// DueRepetitionItems returns spaced-repetition items whose review
	// time is at or before now, ordered by review time ascending. The
	// file backend has no review index and returns an empty slice.
	DueRepetitionItems(ctx context.Context, userID string) ([]progress.RepetitionItem, error)

	// DeleteExpiredRepetitions removes repetition rows whose review
	// time predates the cutoff and reports how many were removed. A
	// no-op for the file backend.
	DeleteExpiredRepetitions(ctx context.Context, cutoff time.Time) (int64, error)

	// Mode identifies the active backend.
	Mode() string

	// Ping checks backend availability.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close()
}
