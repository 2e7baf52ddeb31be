package stats

import (
	"math"
	"time"

	"lockin-backend/internal/models"
)

// FlashcardStats and QuizStats are the two halves of an aggregate bucket.
type FlashcardStats struct {
	Studied     int `json:"studied"`
	Correct     int `json:"correct"`
	AccuracyPct int `json:"accuracy_pct"`
}

type QuizStats struct {
	Attempts int `json:"attempts"`
	AvgScore int `json:"avg_score"`
}

// Aggregate is the summary of activity within one time bucket.
type Aggregate struct {
	Flashcards    FlashcardStats `json:"flashcards"`
	Quizzes       QuizStats      `json:"quizzes"`
	TotalSessions int            `json:"total_sessions"`
}

// DayBucket is one day's aggregate for the trailing chart.
type DayBucket struct {
	Date              string `json:"date"` // YYYY-MM-DD
	Day               string `json:"day"`  // short weekday label
	FlashcardCount    int    `json:"flashcard_count"`
	FlashcardAccuracy int    `json:"flashcard_accuracy"`
	QuizCount         int    `json:"quiz_count"`
	QuizScore         int    `json:"quiz_score"`
}

// StudyTimeTotal is the summed duration of the filtered events.
type StudyTimeTotal struct {
	Hours   int64 `json:"hours"`
	Minutes int64 `json:"minutes"`
}

// AggregateRange filters events to [start, end] inclusive and computes
// per-kind summaries. Accuracy and average score are 0 when the relevant
// event count is zero, never NaN.
func AggregateRange(events []models.ActivityEvent, start, end time.Time) Aggregate {
	var agg Aggregate
	var scoreSum int

	for _, e := range events {
		if e.OccurredAt.Before(start) || e.OccurredAt.After(end) {
			continue
		}
		agg.TotalSessions++
		switch e.Kind {
		case models.ActivityFlashcard:
			agg.Flashcards.Studied++
			if e.IsCorrect != nil && *e.IsCorrect {
				agg.Flashcards.Correct++
			}
		case models.ActivityQuiz:
			if e.Score != nil {
				agg.Quizzes.Attempts++
				scoreSum += *e.Score
			}
		}
	}

	if agg.Flashcards.Studied > 0 {
		agg.Flashcards.AccuracyPct = roundPct(agg.Flashcards.Correct, agg.Flashcards.Studied)
	}
	if agg.Quizzes.Attempts > 0 {
		agg.Quizzes.AvgScore = int(math.Round(float64(scoreSum) / float64(agg.Quizzes.Attempts)))
	}
	return agg
}

// AggregateAll summarizes the full history without a lower bound.
func AggregateAll(events []models.ActivityEvent) Aggregate {
	var min, max time.Time
	if len(events) == 0 {
		return Aggregate{}
	}
	min = events[0].OccurredAt
	max = events[0].OccurredAt
	for _, e := range events[1:] {
		if e.OccurredAt.Before(min) {
			min = e.OccurredAt
		}
		if e.OccurredAt.After(max) {
			max = e.OccurredAt
		}
	}
	return AggregateRange(events, min, max)
}

// DayRange returns the local [00:00:00, 23:59:59.999] bounds of the day
// containing t.
func DayRange(t time.Time) (time.Time, time.Time) {
	start := dayOf(t)
	end := start.Add(24*time.Hour - time.Millisecond)
	return start, end
}

// WeekRange returns the Sunday-start week containing t, ending Saturday
// 23:59:59.999.
func WeekRange(t time.Time) (time.Time, time.Time) {
	day := dayOf(t)
	start := day.AddDate(0, 0, -int(day.Weekday()))
	end := start.AddDate(0, 0, 7).Add(-time.Millisecond)
	return start, end
}

// EndOfDay pushes a caller-supplied range end to 23:59:59.999 local so the
// whole final day is included.
func EndOfDay(t time.Time) time.Time {
	return dayOf(t).Add(24*time.Hour - time.Millisecond)
}

// DailyChart buckets the trailing n days (ending asOf) one aggregate per
// day, oldest first.
func DailyChart(events []models.ActivityEvent, asOf time.Time, n int) []DayBucket {
	buckets := make([]DayBucket, 0, n)
	for i := n - 1; i >= 0; i-- {
		day := dayOf(asOf).AddDate(0, 0, -i)
		start, end := DayRange(day)
		agg := AggregateRange(events, start, end)
		buckets = append(buckets, DayBucket{
			Date:              day.Format("2006-01-02"),
			Day:               day.Format("Mon"),
			FlashcardCount:    agg.Flashcards.Studied,
			FlashcardAccuracy: agg.Flashcards.AccuracyPct,
			QuizCount:         agg.Quizzes.Attempts,
			QuizScore:         agg.Quizzes.AvgScore,
		})
	}
	return buckets
}

// StudyTime sums duration_ms across events and formats the total as whole
// hours and minutes.
func StudyTime(events []models.ActivityEvent) StudyTimeTotal {
	var totalMs int64
	for _, e := range events {
		if e.DurationMs != nil {
			totalMs += int64(*e.DurationMs)
		}
	}
	return StudyTimeTotal{
		Hours:   totalMs / 3_600_000,
		Minutes: totalMs % 3_600_000 / 60_000,
	}
}

func roundPct(part, whole int) int {
	return int(math.Round(float64(part) / float64(whole) * 100))
}
