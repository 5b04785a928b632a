package progress

import "time"

// RepetitionItem is a scheduled spaced-repetition review reminder for a
// previously completed task. Items are created and rescheduled by the
// frontend; this core only reads due items and expires old ones.
type RepetitionItem struct {
	TaskID       string  `json:"taskId"`
	LastReviewed string  `json:"lastReviewed"`
	NextReview   string  `json:"nextReview"`
	Difficulty   float64 `json:"difficulty"`
	Interval     int     `json:"interval"`
}

// Normalize fills in scheduling defaults.
func (r *RepetitionItem) Normalize() {
	if r.Difficulty == 0 {
		r.Difficulty = 1.0
	}
	if r.Interval == 0 {
		r.Interval = 1
	}
}

// RetentionPeriod is how long an overdue review is kept before the
// retention sweep deletes it.
const RetentionPeriod = 30 * 24 * time.Hour

// ReviewExpired is the retention predicate the storage backends
// implement: an item expires when its scheduled review is strictly
// before the cutoff. A review due exactly at the cutoff survives
// the sweep.
func ReviewExpired(nextReview, cutoff time.Time) bool {
	return nextReview.Before(cutoff)
}
