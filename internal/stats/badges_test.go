package stats

import (
	"testing"

	"github.com/google/uuid"

	"lockin-backend/internal/models"
)

func badge(reqType string, reqValue int) models.Badge {
	return models.Badge{
		ID:               uuid.New(),
		Name:             reqType,
		RequirementType:  reqType,
		RequirementValue: reqValue,
	}
}

func TestEvaluateBadges_InclusiveThreshold(t *testing.T) {
	catalog := []models.Badge{badge(models.ReqQuizCount, 5)}

	tests := []struct {
		name      string
		quizCount int
		wantCount int
	}{
		{"below threshold", 4, 0},
		{"exactly at threshold", 5, 1},
		{"above threshold", 6, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := UserStats{QuizCount: tt.quizCount}
			earned := map[uuid.UUID]bool{}
			got := EvaluateBadges(s, catalog, earned)
			if len(got) != tt.wantCount {
				t.Errorf("Expected %d new badges, got %d", tt.wantCount, len(got))
			}
		})
	}
}

func TestEvaluateBadges_SecondRunAwardsNothing(t *testing.T) {
	catalog := []models.Badge{
		badge(models.ReqQuizCount, 5),
		badge(models.ReqStreakDays, 3),
	}
	s := UserStats{QuizCount: 10, CurrentStreak: 7}

	earned := map[uuid.UUID]bool{}
	first := EvaluateBadges(s, catalog, earned)
	if len(first) != 2 {
		t.Fatalf("Expected 2 new badges on first run, got %d", len(first))
	}
	for _, b := range first {
		earned[b.ID] = true
	}

	second := EvaluateBadges(s, catalog, earned)
	if len(second) != 0 {
		t.Errorf("Expected no new badges on second run, got %d", len(second))
	}
}

func TestEvaluateBadges_QuizCountAwardedExactlyOnce(t *testing.T) {
	// A user with exactly 5 quiz events crosses a quiz_count=5 badge once.
	var events []models.ActivityEvent
	for i := 0; i < 5; i++ {
		events = append(events, quiz(day("2024-03-01"), 100))
	}
	s := CollectUserStats(events, day("2024-03-01"))
	if s.QuizCount != 5 {
		t.Fatalf("Expected quiz count 5, got %d", s.QuizCount)
	}

	catalog := []models.Badge{badge(models.ReqQuizCount, 5)}
	earned := map[uuid.UUID]bool{}

	total := 0
	for run := 0; run < 2; run++ {
		newly := EvaluateBadges(s, catalog, earned)
		total += len(newly)
		for _, b := range newly {
			earned[b.ID] = true
		}
	}
	if total != 1 {
		t.Errorf("Expected badge awarded exactly once, got %d awards", total)
	}
}

func TestBadgeValue_CompletionTimeDirection(t *testing.T) {
	// completion_time compares with >= like every other requirement, so a
	// larger average duration passes the threshold.
	s := UserStats{AvgCompletionTime: 120}
	if got := BadgeValue(models.ReqCompletionTime, s); got != 120 {
		t.Errorf("Expected completion time value 120, got %d", got)
	}

	catalog := []models.Badge{badge(models.ReqCompletionTime, 60)}
	newly := EvaluateBadges(s, catalog, map[uuid.UUID]bool{})
	if len(newly) != 1 {
		t.Errorf("Expected slower-than-threshold average to satisfy badge, got %d", len(newly))
	}
}

func TestCollectUserStats_AccuracyAndTotalDays(t *testing.T) {
	events := []models.ActivityEvent{
		flashcard(day("2024-03-01"), true),
		flashcard(day("2024-03-01"), false),
		flashcard(day("2024-03-02"), true),
		quiz(day("2024-03-02"), 90),
	}
	s := CollectUserStats(events, day("2024-03-02"))

	if s.Accuracy != 67 {
		t.Errorf("Expected accuracy 67, got %d", s.Accuracy)
	}
	if s.TotalDays != 2 {
		t.Errorf("Expected 2 total days, got %d", s.TotalDays)
	}
	if s.CurrentStreak != 2 {
		t.Errorf("Expected current streak 2, got %d", s.CurrentStreak)
	}
}
