package progress

import (
	"fmt"
	"math"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// TASK COMPLETION EVENT
// ══════════════════════════════════════════════════════════════════════════════

// TaskCompletion is a transient event asserting that a named task has
// been finished. It is never persisted directly; it mutates a snapshot.
type TaskCompletion struct {
	TaskID string `json:"taskId"`
	Points int    `json:"points"`

	// Time is the elapsed duration in hours. Informational only - it
	// does not participate in scoring.
	Time float64 `json:"time"`

	Category   Category `json:"category"`
	Notes      string   `json:"notes,omitempty"`
	Difficulty string   `json:"difficulty,omitempty"`
}

// Validate checks the structural requirements of the event.
func (c TaskCompletion) Validate() error {
	if c.TaskID == "" {
		return ErrInvalidTaskID
	}
	if c.Points < 0 {
		return ErrInvalidPoints
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// MUTATOR
// ══════════════════════════════════════════════════════════════════════════════

// ApplyCompletion applies a task-completion event to the snapshot in
// place and returns the XP earned by this event.
//
// The operation is idempotent on the task id: if the task is already in
// CompletedTasks the snapshot is left untouched and the earned XP is 0.
// Otherwise:
//
//   - the task id is appended to CompletedTasks
//   - earned XP = floor(points * category multiplier), added to both
//     TotalXP and DailyXP
//   - the "Google Cloud AI" certification gains the category's fixed
//     increase, clamped at 100; the other two certifications are never
//     touched by completions
//   - project and capstone completions append a portfolio item
//   - non-empty notes are stored under the task id
//
// The returned value is the XP actually earned by this event.
func ApplyCompletion(s *Snapshot, c TaskCompletion, now time.Time) XP {
	if s.HasCompleted(c.TaskID) {
		return 0
	}

	s.CompletedTasks = append(s.CompletedTasks, c.TaskID)

	earned := XP(math.Floor(float64(c.Points) * c.Category.Multiplier()))
	s.TotalXP = s.TotalXP.Add(earned)
	s.DailyXP = s.DailyXP.Add(earned)

	// Only the Google Cloud AI track accumulates from completions.
	current := s.CertificationProgress[CertGoogleCloudAI]
	next := current + c.Category.CertIncrease()
	if next > 100 {
		next = 100
	}
	s.CertificationProgress[CertGoogleCloudAI] = next

	if c.Category.CountsTowardPortfolio() {
		s.PortfolioItems = append(s.PortfolioItems, PortfolioItem{
			ID:            c.TaskID,
			Name:          fmt.Sprintf("Task: %s", c.TaskID),
			CompletedDate: now.UTC().Format(time.RFC3339),
			Type:          string(c.Category),
			XP:            int(earned),
		})
	}

	if c.Notes != "" {
		s.Notes[c.TaskID] = c.Notes
	}

	return earned
}
