package progress

// DailyLog is one day's learning journal entry. It is upserted by
// (identifier, date) - writing the same date twice replaces the entry.
type DailyLog struct {
	// Date is the log key in "YYYY-MM-DD" form.
	Date string `json:"date" validate:"required"`

	TasksCompleted []string `json:"tasksCompleted"`
	HoursSpent     float64  `json:"hoursSpent"`
	XPEarned       int      `json:"xpEarned"`
	Notes          string   `json:"notes"`
	Challenges     string   `json:"challenges"`
	Learnings      string   `json:"learnings"`
	Mood           string   `json:"mood"`
}

// Normalize fills in defaults for optional fields.
func (l *DailyLog) Normalize() {
	if l.TasksCompleted == nil {
		l.TasksCompleted = []string{}
	}
	if l.Mood == "" {
		l.Mood = "neutral"
	}
}
