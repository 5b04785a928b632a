package progress

import "math"

// ══════════════════════════════════════════════════════════════════════════════
// ANALYTICS
// ══════════════════════════════════════════════════════════════════════════════
//
// Pure functions over a snapshot. No I/O, deterministic: the same
// snapshot always produces the same metrics.

// Velocity holds learning-velocity metrics derived from a snapshot.
type Velocity struct {
	XPPerDay         float64 `json:"xp_per_day"`
	TasksPerDay      float64 `json:"tasks_per_day"`
	EfficiencyScore  float64 `json:"efficiency_score"`
	ConsistencyScore float64 `json:"consistency_score"`
}

// LearningVelocity estimates pace from the snapshot. Days active is a
// rough estimate of one day per three completed tasks, floored at 1.
func LearningVelocity(s *Snapshot) Velocity {
	daysActive := math.Max(1, float64(len(s.CompletedTasks))/3)

	return Velocity{
		XPPerDay:         float64(s.TotalXP) / daysActive,
		TasksPerDay:      float64(len(s.CompletedTasks)) / daysActive,
		EfficiencyScore:  float64(s.TotalXP) / math.Max(1, float64(len(s.StruggledTasks)+1)),
		ConsistencyScore: float64(s.Streak) / daysActive,
	}
}

// Readiness describes how close a certification track is to exam-ready.
type Readiness struct {
	CurrentProgress     int    `json:"current_progress"`
	EstimatedDaysToReady int   `json:"estimated_days_to_ready"`
	ConfidenceLevel     string `json:"confidence_level"`
	RecommendedFocus    string `json:"recommended_focus"`
}

// CertificationReadiness predicts readiness per certification, assuming
// roughly 2% of progress per study day. The day estimate rounds up
// (75% done is 13 days out, not 12) and never drops below 1.
func CertificationReadiness(s *Snapshot) map[string]Readiness {
	readiness := make(map[string]Readiness, len(s.CertificationProgress))

	for cert, pct := range s.CertificationProgress {
		days := int(math.Ceil(float64(100-pct) / 2))
		if days < 1 {
			days = 1
		}

		confidence := "low"
		switch {
		case pct > 70:
			confidence = "high"
		case pct > 40:
			confidence = "medium"
		}

		focus := "foundation_building"
		if pct > 60 {
			focus = "practice_exams"
		}

		readiness[cert] = Readiness{
			CurrentProgress:      pct,
			EstimatedDaysToReady: days,
			ConfidenceLevel:      confidence,
			RecommendedFocus:     focus,
		}
	}

	return readiness
}

// maxRecommendations caps the advice list regardless of how many rules
// fire.
const maxRecommendations = 3

// Recommendations builds an ordered list of study recommendations by
// evaluating fixed rules: struggle rate, weekly XP velocity,
// certification proximity, then portfolio size. At most three messages
// are returned, in rule-evaluation order.
func Recommendations(s *Snapshot) []string {
	recommendations := []string{}

	struggleRate := float64(len(s.StruggledTasks)) / math.Max(1, float64(len(s.CompletedTasks)))
	if struggleRate > 0.3 {
		recommendations = append(recommendations,
			"Consider reviewing fundamentals - high struggle rate detected")
	} else if struggleRate < 0.1 {
		recommendations = append(recommendations,
			"You're doing great! Consider taking on more challenging projects")
	}

	if int(s.TotalXP) < s.CurrentWeek*1000 {
		recommendations = append(recommendations,
			"Increase daily study time to meet weekly XP targets")
	}

	maxCert := 0
	for _, pct := range s.CertificationProgress {
		if pct > maxCert {
			maxCert = pct
		}
	}
	if maxCert > 80 {
		recommendations = append(recommendations,
			"You're close to certification! Schedule your exam soon")
	}

	if len(s.PortfolioItems) < s.CurrentWeek {
		recommendations = append(recommendations,
			"Focus on completing more portfolio projects")
	}

	if len(recommendations) > maxRecommendations {
		recommendations = recommendations[:maxRecommendations]
	}

	return recommendations
}

// Summary holds the aggregate figures returned alongside analytics.
type Summary struct {
	TotalXP        int     `json:"total_xp"`
	CompletionRate float64 `json:"completion_rate"`
	StruggleRate   float64 `json:"struggle_rate"`
	PortfolioCount int     `json:"portfolio_count"`
}

// Summarize computes the summary block for a snapshot. The completion
// rate assumes five tasks per week of curriculum.
func Summarize(s *Snapshot) Summary {
	return Summary{
		TotalXP:        int(s.TotalXP),
		CompletionRate: float64(len(s.CompletedTasks)) / math.Max(1, float64(s.CurrentWeek*5)),
		StruggleRate:   float64(len(s.StruggledTasks)) / math.Max(1, float64(len(s.CompletedTasks))),
		PortfolioCount: len(s.PortfolioItems),
	}
}
