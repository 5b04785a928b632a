// Package progress contains the learning-progress domain model for the
// AI Progress Hub. This is the core of the business logic - it has no
// external dependencies.
package progress

import (
	"errors"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// XP represents experience points.
type XP int

// IsValid checks that XP is non-negative.
func (x XP) IsValid() bool {
	return x >= 0
}

// Add adds a delta to the XP value.
func (x XP) Add(delta XP) XP {
	return x + delta
}

// Category classifies a completed task for scoring purposes.
type Category string

const (
	// CategoryCapstone - end-of-phase capstone work, highest XP multiplier.
	CategoryCapstone Category = "capstone"
	// CategoryProject - portfolio-worthy project work.
	CategoryProject Category = "project"
	// CategoryAI - AI/ML coursework.
	CategoryAI Category = "ai"
	// CategoryProduction - production/MLOps coursework.
	CategoryProduction Category = "production"
)

// Multiplier returns the XP multiplier for the category.
// Unrecognized categories score at 1.0.
func (c Category) Multiplier() float64 {
	switch c {
	case CategoryCapstone:
		return 1.5
	case CategoryProject:
		return 1.2
	default:
		return 1.0
	}
}

// CertIncrease returns how many certification percentage points a
// completion in this category contributes.
func (c Category) CertIncrease() int {
	switch c {
	case CategoryAI:
		return 5
	case CategoryProduction:
		return 3
	case CategoryProject:
		return 2
	case CategoryCapstone:
		return 10
	default:
		return 1
	}
}

// CountsTowardPortfolio returns true if completions in this category
// produce a portfolio item.
func (c Category) CountsTowardPortfolio() bool {
	return c == CategoryProject || c == CategoryCapstone
}

// ══════════════════════════════════════════════════════════════════════════════
// CERTIFICATIONS
// ══════════════════════════════════════════════════════════════════════════════

// The tracked certification names. The set is fixed: a snapshot always
// carries exactly these three entries and never gains or loses keys.
const (
	CertGoogleCloudAI  = "Google Cloud AI"
	CertAWSMLSpecialty = "AWS ML Specialty"
	CertAzureAIEngineer = "Azure AI Engineer"
)

// CertificationNames returns the fixed set of tracked certifications.
func CertificationNames() []string {
	return []string{CertGoogleCloudAI, CertAWSMLSpecialty, CertAzureAIEngineer}
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrSnapshotNotFound - no snapshot is stored for the identifier.
	// Absence is a normal outcome for new users; callers decide whether
	// to surface it or substitute a default snapshot.
	ErrSnapshotNotFound = errors.New("progress snapshot not found")

	// ErrInvalidTaskID - a completion event arrived without a task id.
	ErrInvalidTaskID = errors.New("invalid task id: must not be empty")

	// ErrInvalidPoints - a completion event carried negative points.
	ErrInvalidPoints = errors.New("invalid points: must be non-negative")
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: SNAPSHOT
// ══════════════════════════════════════════════════════════════════════════════

// PortfolioItem is a portfolio entry created by completing a task in a
// portfolio-eligible category.
type PortfolioItem struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	CompletedDate string `json:"completedDate"`
	Type          string `json:"type"`
	XP            int    `json:"xp"`
}

// Snapshot is the complete progress record for one user identifier at a
// point in time. It is replaced wholesale on each save; there is no
// partial-merge path.
//
// JSON field names follow the wire format consumed by the frontend
// (camelCase), which is also the persisted representation.
type Snapshot struct {
	// CurrentWeek and CurrentDay are caller-advanced position markers.
	CurrentWeek int `json:"currentWeek"`
	CurrentDay  int `json:"currentDay"`

	// TotalXP only ever grows; DailyXP is a caller-reset counter.
	TotalXP XP `json:"totalXP"`
	DailyXP XP `json:"dailyXP"`

	// Streak is maintained by the caller, not computed here.
	Streak int `json:"streak"`

	// CompletedTasks is the primary idempotency key: a task id appears
	// at most once, and every completion mutation is gated on it.
	CompletedTasks []string `json:"completedTasks"`

	// StruggledTasks are tasks the caller marked as difficult.
	StruggledTasks []string `json:"struggledTasks"`

	// Notes maps task id to a free-text note.
	Notes map[string]string `json:"notes"`

	// PortfolioItems are appended for project/capstone completions.
	PortfolioItems []PortfolioItem `json:"portfolioItems"`

	// CertificationProgress holds a percentage in [0,100] for each of
	// the fixed certification names.
	CertificationProgress map[string]int `json:"certificationProgress"`

	// DifficultyLevel is free-form and not mutated by the core.
	DifficultyLevel string `json:"difficultyLevel"`

	// LastUpdated is an ISO-8601 timestamp set by the save path.
	LastUpdated string `json:"lastUpdated,omitempty"`
}

// NewSnapshot creates a fresh default snapshot for a new user.
// The certification map always starts with exactly the fixed three
// entries at zero.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		CurrentWeek:    1,
		CurrentDay:     1,
		TotalXP:        0,
		DailyXP:        0,
		Streak:         0,
		CompletedTasks: []string{},
		StruggledTasks: []string{},
		Notes:          map[string]string{},
		PortfolioItems: []PortfolioItem{},
		CertificationProgress: map[string]int{
			CertGoogleCloudAI:   0,
			CertAWSMLSpecialty:  0,
			CertAzureAIEngineer: 0,
		},
		DifficultyLevel: "medium",
	}
}

// Normalize re-establishes the structural invariants after the snapshot
// has been deserialized from an untrusted source: nil collections become
// empty, the certification map is reduced to exactly the fixed three
// keys, and values are clamped into [0,100].
func (s *Snapshot) Normalize() {
	if s.CurrentWeek < 1 {
		s.CurrentWeek = 1
	}
	if s.CurrentDay < 1 {
		s.CurrentDay = 1
	}
	if s.CompletedTasks == nil {
		s.CompletedTasks = []string{}
	}
	if s.StruggledTasks == nil {
		s.StruggledTasks = []string{}
	}
	if s.Notes == nil {
		s.Notes = map[string]string{}
	}
	if s.PortfolioItems == nil {
		s.PortfolioItems = []PortfolioItem{}
	}
	if s.DifficultyLevel == "" {
		s.DifficultyLevel = "medium"
	}

	certs := make(map[string]int, 3)
	for _, name := range CertificationNames() {
		pct := s.CertificationProgress[name]
		if pct < 0 {
			pct = 0
		}
		if pct > 100 {
			pct = 100
		}
		certs[name] = pct
	}
	s.CertificationProgress = certs
}

// HasCompleted reports whether the task id is already recorded as
// completed.
func (s *Snapshot) HasCompleted(taskID string) bool {
	for _, id := range s.CompletedTasks {
		if id == taskID {
			return true
		}
	}
	return false
}

// Touch stamps LastUpdated with the given instant.
func (s *Snapshot) Touch(now time.Time) {
	s.LastUpdated = now.UTC().Format(time.RFC3339)
}

// Clone creates a deep copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}

	clone := *s
	clone.CompletedTasks = append([]string(nil), s.CompletedTasks...)
	clone.StruggledTasks = append([]string(nil), s.StruggledTasks...)
	clone.PortfolioItems = append([]PortfolioItem(nil), s.PortfolioItems...)

	clone.Notes = make(map[string]string, len(s.Notes))
	for k, v := range s.Notes {
		clone.Notes[k] = v
	}

	clone.CertificationProgress = make(map[string]int, len(s.CertificationProgress))
	for k, v := range s.CertificationProgress {
		clone.CertificationProgress[k] = v
	}

	return &clone
}
