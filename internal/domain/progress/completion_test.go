package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyCompletion_FirstCompletion(t *testing.T) {
	s := NewSnapshot()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	earned := ApplyCompletion(s, TaskCompletion{
		TaskID:   "week1-intro",
		Points:   100,
		Category: CategoryAI,
	}, now)

	assert.Equal(t, XP(100), earned)
	assert.Equal(t, XP(100), s.TotalXP)
	assert.Equal(t, XP(100), s.DailyXP)
	assert.Equal(t, []string{"week1-intro"}, s.CompletedTasks)
	assert.Equal(t, 5, s.CertificationProgress[CertGoogleCloudAI])
	assert.Empty(t, s.PortfolioItems)
}

func TestApplyCompletion_Idempotent(t *testing.T) {
	s := NewSnapshot()
	now := time.Now().UTC()
	event := TaskCompletion{TaskID: "capstone-1", Points: 200, Category: CategoryCapstone}

	first := ApplyCompletion(s, event, now)
	require.Equal(t, XP(300), first)

	once := s.Clone()

	second := ApplyCompletion(s, event, now)
	assert.Equal(t, XP(0), second)
	assert.Equal(t, once.CompletedTasks, s.CompletedTasks)
	assert.Equal(t, once.TotalXP, s.TotalXP)
	assert.Equal(t, once.CertificationProgress, s.CertificationProgress)
	assert.Equal(t, once.PortfolioItems, s.PortfolioItems)
}

func TestApplyCompletion_CategoryMultipliers(t *testing.T) {
	tests := []struct {
		category Category
		points   int
		want     XP
	}{
		{CategoryCapstone, 100, 150},
		{CategoryProject, 100, 120},
		{CategoryAI, 100, 100},
		{CategoryProduction, 100, 100},
		{Category("whatever"), 100, 100},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			s := NewSnapshot()
			earned := ApplyCompletion(s, TaskCompletion{
				TaskID:   "task-" + string(tt.category),
				Points:   tt.points,
				Category: tt.category,
			}, time.Now().UTC())

			assert.Equal(t, tt.want, earned)
			assert.Equal(t, tt.want, s.TotalXP)
		})
	}
}

func TestApplyCompletion_XPMonotonic(t *testing.T) {
	s := NewSnapshot()
	now := time.Now().UTC()

	var sum XP
	events := []TaskCompletion{
		{TaskID: "a", Points: 50, Category: CategoryAI},
		{TaskID: "b", Points: 75, Category: CategoryProject},
		{TaskID: "c", Points: 33, Category: CategoryCapstone},
		{TaskID: "d", Points: 10, Category: Category("misc")},
	}

	for _, ev := range events {
		prev := s.TotalXP
		sum += ApplyCompletion(s, ev, now)
		assert.GreaterOrEqual(t, s.TotalXP, prev)
	}

	// floor(50*1.0) + floor(75*1.2) + floor(33*1.5) + floor(10*1.0)
	assert.Equal(t, XP(50+90+49+10), sum)
	assert.Equal(t, sum, s.TotalXP)
}

func TestApplyCompletion_CertificationClamp(t *testing.T) {
	s := NewSnapshot()
	now := time.Now().UTC()

	// Capstones add 10 each; 15 of them would overshoot 100.
	for i := 0; i < 15; i++ {
		ApplyCompletion(s, TaskCompletion{
			TaskID:   "capstone-" + string(rune('a'+i)),
			Points:   10,
			Category: CategoryCapstone,
		}, now)
	}

	assert.Equal(t, 100, s.CertificationProgress[CertGoogleCloudAI])
	// Completions never touch the other two tracks.
	assert.Equal(t, 0, s.CertificationProgress[CertAWSMLSpecialty])
	assert.Equal(t, 0, s.CertificationProgress[CertAzureAIEngineer])
}

func TestApplyCompletion_PortfolioGating(t *testing.T) {
	now := time.Date(2026, 1, 5, 9, 30, 0, 0, time.UTC)

	s := NewSnapshot()
	ApplyCompletion(s, TaskCompletion{TaskID: "ml-basics", Points: 80, Category: CategoryAI}, now)
	assert.Empty(t, s.PortfolioItems, "ai completions must not create portfolio items")

	ApplyCompletion(s, TaskCompletion{TaskID: "chatbot", Points: 100, Category: CategoryProject}, now)
	require.Len(t, s.PortfolioItems, 1)
	item := s.PortfolioItems[0]
	assert.Equal(t, "chatbot", item.ID)
	assert.Equal(t, "Task: chatbot", item.Name)
	assert.Equal(t, "project", item.Type)
	assert.Equal(t, 120, item.XP)
	assert.Equal(t, now.Format(time.RFC3339), item.CompletedDate)

	ApplyCompletion(s, TaskCompletion{TaskID: "final", Points: 100, Category: CategoryCapstone}, now)
	assert.Len(t, s.PortfolioItems, 2)
}

func TestApplyCompletion_Notes(t *testing.T) {
	s := NewSnapshot()
	now := time.Now().UTC()

	ApplyCompletion(s, TaskCompletion{TaskID: "quiet", Points: 10, Category: CategoryAI}, now)
	assert.NotContains(t, s.Notes, "quiet")

	ApplyCompletion(s, TaskCompletion{
		TaskID:   "noisy",
		Points:   10,
		Category: CategoryAI,
		Notes:    "tricky gradient math",
	}, now)
	assert.Equal(t, "tricky gradient math", s.Notes["noisy"])
}

func TestTaskCompletion_Validate(t *testing.T) {
	assert.ErrorIs(t, TaskCompletion{Points: 10}.Validate(), ErrInvalidTaskID)
	assert.ErrorIs(t, TaskCompletion{TaskID: "x", Points: -1}.Validate(), ErrInvalidPoints)
	assert.NoError(t, TaskCompletion{TaskID: "x", Points: 0}.Validate())
}
