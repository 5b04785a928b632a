package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLearningVelocity_EmptySnapshot(t *testing.T) {
	v := LearningVelocity(NewSnapshot())

	assert.Zero(t, v.XPPerDay)
	assert.Zero(t, v.TasksPerDay)
	assert.Zero(t, v.EfficiencyScore)
	assert.Zero(t, v.ConsistencyScore)
}

func TestLearningVelocity_ActiveSnapshot(t *testing.T) {
	s := NewSnapshot()
	s.TotalXP = 900
	s.Streak = 6
	s.CompletedTasks = []string{"a", "b", "c", "d", "e", "f"} // daysActive = 2
	s.StruggledTasks = []string{"b"}

	v := LearningVelocity(s)

	assert.InDelta(t, 450.0, v.XPPerDay, 1e-9)
	assert.InDelta(t, 3.0, v.TasksPerDay, 1e-9)
	assert.InDelta(t, 450.0, v.EfficiencyScore, 1e-9) // 900 / (1+1)
	assert.InDelta(t, 3.0, v.ConsistencyScore, 1e-9)
}

func TestCertificationReadiness_Thresholds(t *testing.T) {
	s := NewSnapshot()
	s.CertificationProgress[CertGoogleCloudAI] = 75
	s.CertificationProgress[CertAWSMLSpecialty] = 50
	s.CertificationProgress[CertAzureAIEngineer] = 10

	readiness := CertificationReadiness(s)
	require.Len(t, readiness, 3)

	gcp := readiness[CertGoogleCloudAI]
	assert.Equal(t, 75, gcp.CurrentProgress)
	assert.Equal(t, 13, gcp.EstimatedDaysToReady, "estimate rounds up: ceil(25/2)")
	assert.Equal(t, "high", gcp.ConfidenceLevel)
	assert.Equal(t, "practice_exams", gcp.RecommendedFocus)

	aws := readiness[CertAWSMLSpecialty]
	assert.Equal(t, 25, aws.EstimatedDaysToReady)
	assert.Equal(t, "medium", aws.ConfidenceLevel)
	assert.Equal(t, "foundation_building", aws.RecommendedFocus)

	azure := readiness[CertAzureAIEngineer]
	assert.Equal(t, 45, azure.EstimatedDaysToReady)
	assert.Equal(t, "low", azure.ConfidenceLevel)
}

func TestCertificationReadiness_FloorsAtOneDay(t *testing.T) {
	s := NewSnapshot()
	s.CertificationProgress[CertGoogleCloudAI] = 100

	readiness := CertificationReadiness(s)
	assert.Equal(t, 1, readiness[CertGoogleCloudAI].EstimatedDaysToReady)
}

func TestRecommendations_Cap(t *testing.T) {
	// Fire every rule at once: high struggle rate, low XP, near-cert,
	// thin portfolio.
	s := NewSnapshot()
	s.CurrentWeek = 4
	s.TotalXP = 100
	s.CompletedTasks = []string{"a", "b"}
	s.StruggledTasks = []string{"a"}
	s.CertificationProgress[CertGoogleCloudAI] = 90

	recs := Recommendations(s)
	assert.Len(t, recs, maxRecommendations)
	assert.Contains(t, recs[0], "reviewing fundamentals")
}

func TestRecommendations_LowStruggleRate(t *testing.T) {
	s := NewSnapshot()
	s.CurrentWeek = 1
	s.TotalXP = 5000
	s.CompletedTasks = []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"}
	s.PortfolioItems = []PortfolioItem{{ID: "p1"}}

	recs := Recommendations(s)
	require.NotEmpty(t, recs)
	assert.Contains(t, recs[0], "more challenging projects")
	// XP target met, no cert above 80, portfolio covers week 1.
	assert.Len(t, recs, 1)
}

func TestRecommendations_EmptyWhenNothingFires(t *testing.T) {
	s := NewSnapshot()
	s.CurrentWeek = 1
	s.TotalXP = 2000
	// struggle rate 0.2 - neither branch of the first rule fires.
	s.CompletedTasks = []string{"a", "b", "c", "d", "e"}
	s.StruggledTasks = []string{"a"}
	s.PortfolioItems = []PortfolioItem{{ID: "p1"}}

	assert.Empty(t, Recommendations(s))
}

func TestSummarize(t *testing.T) {
	s := NewSnapshot()
	s.CurrentWeek = 2
	s.TotalXP = 1234
	s.CompletedTasks = []string{"a", "b", "c", "d", "e"}
	s.StruggledTasks = []string{"a", "b"}
	s.PortfolioItems = []PortfolioItem{{ID: "p1"}, {ID: "p2"}}

	sum := Summarize(s)
	assert.Equal(t, 1234, sum.TotalXP)
	assert.InDelta(t, 0.5, sum.CompletionRate, 1e-9) // 5 / (2*5)
	assert.InDelta(t, 0.4, sum.StruggleRate, 1e-9)   // 2 / 5
	assert.Equal(t, 2, sum.PortfolioCount)
}
