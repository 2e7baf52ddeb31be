package stats

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"lockin-backend/internal/models"
)

func flashcard(at time.Time, correct bool) models.ActivityEvent {
	return models.ActivityEvent{
		ID:         uuid.New(),
		Kind:       models.ActivityFlashcard,
		IsCorrect:  &correct,
		OccurredAt: at,
	}
}

func quiz(at time.Time, score int) models.ActivityEvent {
	return models.ActivityEvent{
		ID:         uuid.New(),
		Kind:       models.ActivityQuiz,
		Score:      &score,
		OccurredAt: at,
	}
}

func TestAggregateRange_EmptyIsZeroNotNaN(t *testing.T) {
	start, end := DayRange(day("2024-01-01"))
	agg := AggregateRange(nil, start, end)

	if agg.Flashcards.AccuracyPct != 0 {
		t.Errorf("Expected accuracy 0 for no flashcards, got %d", agg.Flashcards.AccuracyPct)
	}
	if agg.Quizzes.AvgScore != 0 {
		t.Errorf("Expected avg score 0 for no quizzes, got %d", agg.Quizzes.AvgScore)
	}
}

func TestAggregateRange_PartitionsByKind(t *testing.T) {
	at := day("2024-06-01")
	events := []models.ActivityEvent{
		flashcard(at, true),
		flashcard(at, true),
		flashcard(at, false),
		quiz(at, 80),
		quiz(at, 90),
	}

	start, end := DayRange(at)
	agg := AggregateRange(events, start, end)

	if agg.Flashcards.Studied != 3 || agg.Flashcards.Correct != 2 {
		t.Errorf("Expected 3 studied / 2 correct, got %d/%d", agg.Flashcards.Studied, agg.Flashcards.Correct)
	}
	if agg.Flashcards.AccuracyPct != 67 {
		t.Errorf("Expected accuracy 67, got %d", agg.Flashcards.AccuracyPct)
	}
	if agg.Quizzes.Attempts != 2 || agg.Quizzes.AvgScore != 85 {
		t.Errorf("Expected 2 attempts avg 85, got %d/%d", agg.Quizzes.Attempts, agg.Quizzes.AvgScore)
	}
	if agg.TotalSessions != 5 {
		t.Errorf("Expected 5 total sessions, got %d", agg.TotalSessions)
	}
}

func TestAggregateRange_InclusiveEndOfDay(t *testing.T) {
	// An event at 23:59 falls inside the day bucket.
	late := day("2024-06-01").Add(13*time.Hour + 59*time.Minute)
	start, end := DayRange(day("2024-06-01"))

	agg := AggregateRange([]models.ActivityEvent{flashcard(late, true)}, start, end)
	if agg.Flashcards.Studied != 1 {
		t.Errorf("Expected late event inside day bucket, studied=%d", agg.Flashcards.Studied)
	}

	nextDay := day("2024-06-02")
	agg = AggregateRange([]models.ActivityEvent{flashcard(nextDay, true)}, start, end)
	if agg.Flashcards.Studied != 0 {
		t.Errorf("Expected next-day event excluded, studied=%d", agg.Flashcards.Studied)
	}
}

func TestWeekRange_SundayStart(t *testing.T) {
	// 2024-06-05 is a Wednesday; its week starts Sunday 2024-06-02.
	start, end := WeekRange(day("2024-06-05"))
	if start.Weekday() != time.Sunday {
		t.Errorf("Expected week to start on Sunday, got %s", start.Weekday())
	}
	if !start.Equal(dayOf(day("2024-06-02"))) {
		t.Errorf("Expected week start 2024-06-02, got %v", start)
	}
	if end.Before(dayOf(day("2024-06-08"))) {
		t.Errorf("Expected week end on Saturday evening, got %v", end)
	}
}

func TestDailyChart_OldestFirstAndConsistentWithAggregate(t *testing.T) {
	asOf := day("2024-06-07")
	var events []models.ActivityEvent
	for i := 0; i < 7; i++ {
		at := asOf.AddDate(0, 0, -i)
		events = append(events, flashcard(at, i%2 == 0), quiz(at, 70+i))
	}

	buckets := DailyChart(events, asOf, 7)
	if len(buckets) != 7 {
		t.Fatalf("Expected 7 buckets, got %d", len(buckets))
	}
	if buckets[0].Date != "2024-06-01" || buckets[6].Date != "2024-06-07" {
		t.Errorf("Expected oldest-first ordering, got %s .. %s", buckets[0].Date, buckets[6].Date)
	}

	// Bucketing must not invent or drop events: the per-bucket counts sum to
	// the all-time aggregate over the same events.
	var flashSum, quizSum int
	for _, b := range buckets {
		flashSum += b.FlashcardCount
		quizSum += b.QuizCount
	}
	all := AggregateAll(events)
	if flashSum != all.Flashcards.Studied {
		t.Errorf("Chart flashcard total %d != all-time %d", flashSum, all.Flashcards.Studied)
	}
	if quizSum != all.Quizzes.Attempts {
		t.Errorf("Chart quiz total %d != all-time %d", quizSum, all.Quizzes.Attempts)
	}
}

func TestStudyTime_Formatting(t *testing.T) {
	ms := func(n int) *int { return &n }
	events := []models.ActivityEvent{
		{Kind: models.ActivityFlashcard, DurationMs: ms(3_600_000), OccurredAt: day("2024-01-01")},
		{Kind: models.ActivityQuiz, DurationMs: ms(540_000), OccurredAt: day("2024-01-01")},
		{Kind: models.ActivityQuiz, OccurredAt: day("2024-01-01")}, // no duration recorded
	}

	total := StudyTime(events)
	if total.Hours != 1 || total.Minutes != 9 {
		t.Errorf("Expected 1h 9m, got %dh %dm", total.Hours, total.Minutes)
	}
}

func TestScenario_TwoDayFlashcardHistory(t *testing.T) {
	// Studied on Jan 1 (correct) and Jan 2 (incorrect), evaluated on Jan 2:
	// streak 2/2 and 50% accuracy.
	events := []models.ActivityEvent{
		flashcard(day("2024-01-01"), true),
		flashcard(day("2024-01-02"), false),
	}
	asOf := day("2024-01-02")

	res := ComputeStreak(events, asOf)
	if res.CurrentStreak != 2 || res.LongestStreak != 2 {
		t.Errorf("Expected streak 2/2, got %d/%d", res.CurrentStreak, res.LongestStreak)
	}

	all := AggregateAll(events)
	if all.Flashcards.AccuracyPct != 50 {
		t.Errorf("Expected accuracy 50, got %d", all.Flashcards.AccuracyPct)
	}
}
