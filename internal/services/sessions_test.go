package services

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"lockin-backend/internal/models"
)

func TestDurationOf(t *testing.T) {
	start := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		end       time.Time
		ms        int64
		minutes   int64
		formatted string
	}{
		{"ninety minutes", start.Add(90 * time.Minute), 5_400_000, 90, "1h 30m"},
		{"under a minute", start.Add(45 * time.Second), 45_000, 0, "0h 0m"},
		{"exact hours", start.Add(2 * time.Hour), 7_200_000, 120, "2h 0m"},
		{"clock skew clamps to zero", start.Add(-time.Minute), 0, 0, "0h 0m"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := durationOf(start, tc.end)
			if d.Milliseconds != tc.ms {
				t.Errorf("Milliseconds: expected %d, got %d", tc.ms, d.Milliseconds)
			}
			if d.Minutes != tc.minutes {
				t.Errorf("Minutes: expected %d, got %d", tc.minutes, d.Minutes)
			}
			if d.Formatted != tc.formatted {
				t.Errorf("Formatted: expected %q, got %q", tc.formatted, d.Formatted)
			}
		})
	}
}

func TestTimerEntries(t *testing.T) {
	newest := time.Date(2024, 6, 2, 10, 0, 0, 0, time.UTC)
	newestEnd := newest.Add(90 * time.Minute)
	older := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	olderEnd := older.Add(25 * time.Minute)

	closed := []models.StudySession{
		{ID: uuid.New(), StartedAt: newest, EndedAt: &newestEnd},
		{ID: uuid.New(), StartedAt: older, EndedAt: &olderEnd},
	}

	entries := timerEntries(closed)

	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].Session.ID != closed[0].ID {
		t.Error("Expected newest-first order to be preserved")
	}
	if entries[0].Duration.Formatted != "1h 30m" || entries[0].Duration.Minutes != 90 {
		t.Errorf("Expected 1h 30m / 90 minutes, got %q / %d",
			entries[0].Duration.Formatted, entries[0].Duration.Minutes)
	}
	if entries[1].Duration.Milliseconds != 1_500_000 {
		t.Errorf("Expected 1500000ms, got %d", entries[1].Duration.Milliseconds)
	}
}

func TestTimerEntries_Empty(t *testing.T) {
	entries := timerEntries(nil)
	if entries == nil || len(entries) != 0 {
		t.Errorf("Expected empty non-nil slice, got %v", entries)
	}
}
