package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/progress-hub/ai-progress-hub/internal/domain/progress"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROGRESS STORE IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// ProgressStore implements the persistence.Store contract on PostgreSQL.
type ProgressStore struct {
	conn *Connection
}

// NewProgressStore creates a new ProgressStore.
func NewProgressStore(conn *Connection) *ProgressStore {
	return &ProgressStore{conn: conn}
}

// Mode identifies this backend.
func (s *ProgressStore) Mode() string {
	return "postgres"
}

// Ping checks database availability.
func (s *ProgressStore) Ping(ctx context.Context) error {
	return s.conn.Ping(ctx)
}

// Close closes the underlying pool.
func (s *ProgressStore) Close() {
	s.conn.Close()
}

// ─────────────────────────────────────────────────────────────────────────────
// Snapshots
// ─────────────────────────────────────────────────────────────────────────────

// SaveSnapshot upserts the snapshot for the identifier. Last write wins.
func (s *ProgressStore) SaveSnapshot(ctx context.Context, userID string, snap *progress.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	query := `
		INSERT INTO user_progress (user_id, data, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			data = EXCLUDED.data,
			updated_at = NOW()
	`

	if _, err := s.conn.Exec(ctx, query, userID, data); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	return nil
}

// LoadSnapshot returns the stored snapshot for the identifier.
func (s *ProgressStore) LoadSnapshot(ctx context.Context, userID string) (*progress.Snapshot, error) {
	query := `SELECT data FROM user_progress WHERE user_id = $1`

	var data []byte
	err := s.conn.QueryRow(ctx, query, userID).Scan(&data)
	if IsNoRows(err) {
		return nil, progress.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var snap progress.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	snap.Normalize()

	return &snap, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Daily Logs
// ─────────────────────────────────────────────────────────────────────────────

// SaveDailyLog upserts a daily log keyed by (identifier, date).
func (s *ProgressStore) SaveDailyLog(ctx context.Context, userID string, log *progress.DailyLog) error {
	data, err := json.Marshal(log)
	if err != nil {
		return fmt.Errorf("failed to marshal daily log: %w", err)
	}

	query := `
		INSERT INTO daily_logs (user_id, date, data)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, date) DO UPDATE SET
			data = EXCLUDED.data
	`

	if _, err := s.conn.Exec(ctx, query, userID, log.Date, data); err != nil {
		return fmt.Errorf("failed to save daily log: %w", err)
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Spaced Repetition
// ─────────────────────────────────────────────────────────────────────────────

// DueRepetitionItems returns items due for review, earliest first.
func (s *ProgressStore) DueRepetitionItems(ctx context.Context, userID string) ([]progress.RepetitionItem, error) {
	query := `
		SELECT task_id, data FROM spaced_repetition
		WHERE user_id = $1 AND next_review <= NOW()
		ORDER BY next_review ASC
	`

	rows, err := s.conn.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query due repetition items: %w", err)
	}
	defer rows.Close()

	return scanRepetitionItems(rows)
}

// DeleteExpiredRepetitions removes rows whose review time predates the
// cutoff. The strict comparison matches progress.ReviewExpired.
func (s *ProgressStore) DeleteExpiredRepetitions(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.conn.Exec(ctx,
		`DELETE FROM spaced_repetition WHERE next_review < $1`,
		cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired repetition items: %w", err)
	}

	return tag.RowsAffected(), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

func scanRepetitionItems(rows pgx.Rows) ([]progress.RepetitionItem, error) {
	items := []progress.RepetitionItem{}

	for rows.Next() {
		var taskID string
		var data []byte

		if err := rows.Scan(&taskID, &data); err != nil {
			return nil, fmt.Errorf("failed to scan repetition item: %w", err)
		}

		var item progress.RepetitionItem
		if err := json.Unmarshal(data, &item); err != nil {
			return nil, fmt.Errorf("failed to unmarshal repetition item: %w", err)
		}
		item.TaskID = taskID
		item.Normalize()

		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return items, nil
}
