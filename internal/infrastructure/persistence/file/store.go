// Package file implements the development fallback storage backend:
// per-identifier JSON files on a local filesystem. It mirrors the
// on-disk layout of the original deployment - data/progress_<user>.json
// for snapshots and data/logs/<user>_<date>.json for daily logs - so an
// existing data directory remains readable.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/progress-hub/ai-progress-hub/internal/domain/progress"
)

// Store persists progress records as JSON files. Writes fully overwrite
// the identifier's file; there is no partial merge.
type Store struct {
	fs      afero.Fs
	dataDir string
}

// NewStore creates a file store rooted at dataDir on the OS filesystem.
func NewStore(dataDir string) *Store {
	return NewStoreWithFs(afero.NewOsFs(), dataDir)
}

// NewStoreWithFs creates a file store on the given filesystem. Tests use
// this with an in-memory filesystem.
func NewStoreWithFs(fs afero.Fs, dataDir string) *Store {
	return &Store{fs: fs, dataDir: dataDir}
}

// Mode identifies this backend.
func (s *Store) Mode() string {
	return "file_based"
}

// Ping verifies the data directory is usable, creating it if needed.
func (s *Store) Ping(_ context.Context) error {
	return s.fs.MkdirAll(s.dataDir, 0o755)
}

// Close is a no-op for file storage.
func (s *Store) Close() {}

// ─────────────────────────────────────────────────────────────────────────────
// Snapshots
// ─────────────────────────────────────────────────────────────────────────────

// SaveSnapshot overwrites the snapshot file for the identifier.
func (s *Store) SaveSnapshot(_ context.Context, userID string, snap *progress.Snapshot) error {
	if err := s.fs.MkdirAll(s.dataDir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	path := s.snapshotPath(userID)
	if err := afero.WriteFile(s.fs, path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot file: %w", err)
	}

	return nil
}

// LoadSnapshot reads the snapshot file for the identifier.
func (s *Store) LoadSnapshot(_ context.Context, userID string) (*progress.Snapshot, error) {
	path := s.snapshotPath(userID)

	data, err := afero.ReadFile(s.fs, path)
	if os.IsNotExist(err) {
		return nil, progress.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	var snap progress.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot file: %w", err)
	}
	snap.Normalize()

	return &snap, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Daily Logs
// ─────────────────────────────────────────────────────────────────────────────

// SaveDailyLog overwrites the log file for (identifier, date).
func (s *Store) SaveDailyLog(_ context.Context, userID string, log *progress.DailyLog) error {
	logsDir := filepath.Join(s.dataDir, "logs")
	if err := s.fs.MkdirAll(logsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	data, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal daily log: %w", err)
	}

	path := filepath.Join(logsDir, fmt.Sprintf("%s_%s.json", userID, log.Date))
	if err := afero.WriteFile(s.fs, path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write daily log file: %w", err)
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Spaced Repetition
// ─────────────────────────────────────────────────────────────────────────────

// DueRepetitionItems has no file-backed review index: the file backend
// always reports nothing due.
func (s *Store) DueRepetitionItems(_ context.Context, _ string) ([]progress.RepetitionItem, error) {
	return []progress.RepetitionItem{}, nil
}

// DeleteExpiredRepetitions is a no-op for file storage.
func (s *Store) DeleteExpiredRepetitions(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

func (s *Store) snapshotPath(userID string) string {
	return filepath.Join(s.dataDir, fmt.Sprintf("progress_%s.json", userID))
}
