// Package stats holds the pure engagement-analytics core: streak
// computation, day/week/all-time aggregation, and badge threshold
// evaluation. Everything here operates on an in-memory snapshot of a user's
// activity events and has no side effects; handlers read the snapshot from
// the repository layer and write any results back themselves.
//
// All calendar-day boundaries use server-local time, not UTC and not the
// user's timezone. That is a known limitation, kept for consistency with
// the rest of the system.
package stats

import (
	"sort"
	"time"

	"lockin-backend/internal/models"
)

// StreakResult summarizes a user's consecutive-day engagement.
type StreakResult struct {
	CurrentStreak  int        `json:"current_streak"`
	LongestStreak  int        `json:"longest_streak"`
	LastActiveDate *time.Time `json:"last_active_date"`
}

// ComputeStreak derives streak lengths from a user's activity events as of
// the given date. The current streak counts backward from asOf (or asOf-1:
// studying yesterday but not yet today keeps the streak alive); the longest
// streak is the maximum consecutive-day run anywhere in the history.
func ComputeStreak(events []models.ActivityEvent, asOf time.Time) StreakResult {
	days := distinctDays(events)
	if len(days) == 0 {
		return StreakResult{}
	}

	// Sorted descending: days[0] is the most recent study day.
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	today := dayOf(asOf)
	yesterday := today.AddDate(0, 0, -1)

	current := 0
	if days[0].Equal(today) || days[0].Equal(yesterday) {
		current = 1
		for i := 1; i < len(days); i++ {
			if days[i].Equal(days[i-1].AddDate(0, 0, -1)) {
				current++
			} else {
				break
			}
		}
	}

	longest := 1
	run := 1
	for i := 1; i < len(days); i++ {
		if days[i].Equal(days[i-1].AddDate(0, 0, -1)) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	if current > longest {
		longest = current
	}

	last := days[0]
	return StreakResult{
		CurrentStreak:  current,
		LongestStreak:  longest,
		LastActiveDate: &last,
	}
}

// TotalStudyDays counts distinct local calendar days with at least one
// activity event.
func TotalStudyDays(events []models.ActivityEvent) int {
	return len(distinctDays(events))
}

// distinctDays reduces events to their unique local calendar dates
// (midnight-truncated, unordered).
func distinctDays(events []models.ActivityEvent) []time.Time {
	seen := make(map[time.Time]struct{}, len(events))
	for _, e := range events {
		seen[dayOf(e.OccurredAt)] = struct{}{}
	}
	days := make([]time.Time, 0, len(seen))
	for d := range seen {
		days = append(days, d)
	}
	return days
}

// dayOf truncates a timestamp to local midnight.
func dayOf(t time.Time) time.Time {
	t = t.Local()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}
