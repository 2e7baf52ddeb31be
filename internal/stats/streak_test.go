package stats

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"lockin-backend/internal/models"
)

func eventOn(t time.Time) models.ActivityEvent {
	return models.ActivityEvent{
		ID:         uuid.New(),
		UserID:     uuid.New(),
		Kind:       models.ActivityFlashcard,
		OccurredAt: t,
	}
}

func day(s string) time.Time {
	d, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		panic(err)
	}
	// Mid-morning, so truncation to the calendar day is exercised.
	return d.Add(10 * time.Hour)
}

func TestComputeStreak_Empty(t *testing.T) {
	res := ComputeStreak(nil, day("2024-01-02"))
	if res.CurrentStreak != 0 || res.LongestStreak != 0 {
		t.Errorf("Expected zero streaks, got current=%d longest=%d", res.CurrentStreak, res.LongestStreak)
	}
	if res.LastActiveDate != nil {
		t.Errorf("Expected nil last active date, got %v", res.LastActiveDate)
	}
}

func TestComputeStreak_SingleDay(t *testing.T) {
	tests := []struct {
		name            string
		studied         string
		asOf            string
		expectedCurrent int
	}{
		{"studied today", "2024-01-02", "2024-01-02", 1},
		{"studied yesterday", "2024-01-01", "2024-01-02", 1},
		{"studied three days ago", "2024-01-01", "2024-01-04", 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := ComputeStreak([]models.ActivityEvent{eventOn(day(tc.studied))}, day(tc.asOf))
			if res.CurrentStreak != tc.expectedCurrent {
				t.Errorf("Expected current streak %d, got %d", tc.expectedCurrent, res.CurrentStreak)
			}
			if res.LongestStreak != 1 {
				t.Errorf("Expected longest streak 1, got %d", res.LongestStreak)
			}
		})
	}
}

func TestComputeStreak_UnbrokenRunEndingToday(t *testing.T) {
	asOf := day("2024-03-10")
	var events []models.ActivityEvent
	for i := 0; i < 5; i++ {
		events = append(events, eventOn(asOf.AddDate(0, 0, -i)))
	}

	res := ComputeStreak(events, asOf)
	if res.CurrentStreak != 5 {
		t.Errorf("Expected current streak 5, got %d", res.CurrentStreak)
	}
	if res.LongestStreak != 5 {
		t.Errorf("Expected longest streak 5, got %d", res.LongestStreak)
	}
}

func TestComputeStreak_GapKeepsRunsSeparate(t *testing.T) {
	// Today, yesterday, then a gap before an isolated older day: longest is
	// the 2-day run, never the sum.
	events := []models.ActivityEvent{
		eventOn(day("2024-01-10")),
		eventOn(day("2024-01-09")),
		eventOn(day("2024-01-06")),
	}

	res := ComputeStreak(events, day("2024-01-10"))
	if res.CurrentStreak != 2 {
		t.Errorf("Expected current streak 2, got %d", res.CurrentStreak)
	}
	if res.LongestStreak != 2 {
		t.Errorf("Expected longest streak 2, got %d", res.LongestStreak)
	}
}

func TestComputeStreak_LongestRunInHistory(t *testing.T) {
	// A 4-day run far in the past beats the 2-day current run.
	events := []models.ActivityEvent{
		eventOn(day("2024-05-20")),
		eventOn(day("2024-05-19")),
		eventOn(day("2024-05-04")),
		eventOn(day("2024-05-03")),
		eventOn(day("2024-05-02")),
		eventOn(day("2024-05-01")),
	}

	res := ComputeStreak(events, day("2024-05-20"))
	if res.CurrentStreak != 2 {
		t.Errorf("Expected current streak 2, got %d", res.CurrentStreak)
	}
	if res.LongestStreak != 4 {
		t.Errorf("Expected longest streak 4, got %d", res.LongestStreak)
	}
}

func TestComputeStreak_StaleHistoryHasNoCurrentStreak(t *testing.T) {
	events := []models.ActivityEvent{
		eventOn(day("2024-01-01")),
		eventOn(day("2024-01-02")),
		eventOn(day("2024-01-03")),
	}

	res := ComputeStreak(events, day("2024-02-01"))
	if res.CurrentStreak != 0 {
		t.Errorf("Expected current streak 0, got %d", res.CurrentStreak)
	}
	if res.LongestStreak != 3 {
		t.Errorf("Expected longest streak 3, got %d", res.LongestStreak)
	}
	if res.LastActiveDate == nil || !res.LastActiveDate.Equal(dayOf(day("2024-01-03"))) {
		t.Errorf("Expected last active 2024-01-03, got %v", res.LastActiveDate)
	}
}

func TestComputeStreak_MultipleEventsSameDayCountOnce(t *testing.T) {
	events := []models.ActivityEvent{
		eventOn(day("2024-01-02")),
		eventOn(day("2024-01-02").Add(3 * time.Hour)),
		eventOn(day("2024-01-01")),
	}

	res := ComputeStreak(events, day("2024-01-02"))
	if res.CurrentStreak != 2 {
		t.Errorf("Expected current streak 2, got %d", res.CurrentStreak)
	}
	if TotalStudyDays(events) != 2 {
		t.Errorf("Expected 2 distinct study days, got %d", TotalStudyDays(events))
	}
}

func TestMilestones(t *testing.T) {
	achieved, next := Milestones(5, 14)
	if len(achieved) != 3 || achieved[0] != 3 || achieved[1] != 7 || achieved[2] != 14 {
		t.Errorf("Expected achieved [3 7 14], got %v", achieved)
	}
	if next == nil || *next != 7 {
		t.Errorf("Expected next milestone 7, got %v", next)
	}

	achieved, next = Milestones(150, 150)
	if len(achieved) != 6 {
		t.Errorf("Expected full ladder achieved, got %v", achieved)
	}
	if next != nil {
		t.Errorf("Expected no next milestone past the ladder, got %d", *next)
	}
}
