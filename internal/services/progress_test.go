package services

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"lockin-backend/internal/models"
)

func flashcardAt(at time.Time, correct bool) models.ActivityEvent {
	return models.ActivityEvent{
		ID:         uuid.New(),
		Kind:       models.ActivityFlashcard,
		IsCorrect:  &correct,
		OccurredAt: at,
	}
}

func quizAt(at time.Time, score int) models.ActivityEvent {
	return models.ActivityEvent{
		ID:         uuid.New(),
		Kind:       models.ActivityQuiz,
		Score:      &score,
		OccurredAt: at,
	}
}

// asOf is a Wednesday; the week bucket starts Sunday 2024-01-07.
func TestBuildSummary_PerPeriodBlocks(t *testing.T) {
	asOf := time.Date(2024, 1, 10, 15, 0, 0, 0, time.Local)
	events := []models.ActivityEvent{
		flashcardAt(time.Date(2024, 1, 10, 9, 0, 0, 0, time.Local), true),
		flashcardAt(time.Date(2024, 1, 10, 10, 0, 0, 0, time.Local), false),
		quizAt(time.Date(2024, 1, 9, 20, 0, 0, 0, time.Local), 80),
		flashcardAt(time.Date(2024, 1, 3, 12, 0, 0, 0, time.Local), true),
	}

	summary := buildSummary(events, 4, asOf)

	if summary.Today.Flashcards.Studied != 2 || summary.Today.Flashcards.AccuracyPct != 50 {
		t.Errorf("Expected today 2 studied / 50%%, got %d/%d%%",
			summary.Today.Flashcards.Studied, summary.Today.Flashcards.AccuracyPct)
	}
	if summary.Today.Quizzes.Attempts != 0 {
		t.Errorf("Expected no quizzes today, got %d", summary.Today.Quizzes.Attempts)
	}

	if summary.ThisWeek.Flashcards.Studied != 2 {
		t.Errorf("Expected 2 flashcards this week, got %d", summary.ThisWeek.Flashcards.Studied)
	}
	if summary.ThisWeek.Quizzes.Attempts != 1 || summary.ThisWeek.Quizzes.AvgScore != 80 {
		t.Errorf("Expected 1 quiz / avg 80 this week, got %d/%d",
			summary.ThisWeek.Quizzes.Attempts, summary.ThisWeek.Quizzes.AvgScore)
	}

	if summary.AllTime.Flashcards.Studied != 3 {
		t.Errorf("Expected 3 flashcards all-time, got %d", summary.AllTime.Flashcards.Studied)
	}

	if summary.CurrentStreak != 2 || summary.LongestStreak != 2 {
		t.Errorf("Expected streak 2/2, got %d/%d", summary.CurrentStreak, summary.LongestStreak)
	}
	if summary.TotalStudyDays != 3 {
		t.Errorf("Expected 3 study days, got %d", summary.TotalStudyDays)
	}
	if summary.TotalSessions != 4 {
		t.Errorf("Expected 4 sessions, got %d", summary.TotalSessions)
	}
	if summary.NextMilestone == nil || *summary.NextMilestone != 3 {
		t.Errorf("Expected next milestone 3, got %v", summary.NextMilestone)
	}
}

func TestBuildSummary_Empty(t *testing.T) {
	summary := buildSummary(nil, 0, time.Now())

	if summary.CurrentStreak != 0 || summary.LongestStreak != 0 {
		t.Errorf("Expected zero streaks, got %d/%d", summary.CurrentStreak, summary.LongestStreak)
	}
	if summary.Today.Flashcards.AccuracyPct != 0 || summary.AllTime.Quizzes.AvgScore != 0 {
		t.Error("Expected zeroed stat blocks for an empty history")
	}
	if summary.LastStudyDate != nil {
		t.Errorf("Expected nil last study date, got %v", summary.LastStudyDate)
	}
}
