package stats

import (
	"math"
	"time"

	"github.com/google/uuid"

	"lockin-backend/internal/models"
)

// UserStats is the snapshot of scalars the badge catalog thresholds are
// checked against.
type UserStats struct {
	CurrentStreak     int `json:"current_streak"`
	QuizCount         int `json:"quiz_count"`
	Accuracy          int `json:"accuracy"`
	AvgCompletionTime int `json:"avg_completion_time"` // milliseconds
	TotalDays         int `json:"total_days"`
}

// CollectUserStats derives the badge-relevant scalars from a user's full
// activity history.
func CollectUserStats(events []models.ActivityEvent, asOf time.Time) UserStats {
	streak := ComputeStreak(events, asOf)

	var quizCount, flashTotal, flashCorrect int
	var durSum, durCount int
	for _, e := range events {
		switch e.Kind {
		case models.ActivityQuiz:
			quizCount++
		case models.ActivityFlashcard:
			flashTotal++
			if e.IsCorrect != nil && *e.IsCorrect {
				flashCorrect++
			}
		}
		if e.DurationMs != nil && *e.DurationMs > 0 {
			durSum += *e.DurationMs
			durCount++
		}
	}

	accuracy := 0
	if flashTotal > 0 {
		accuracy = roundPct(flashCorrect, flashTotal)
	}
	avgDuration := 0
	if durCount > 0 {
		avgDuration = int(math.Round(float64(durSum) / float64(durCount)))
	}

	return UserStats{
		CurrentStreak:     streak.CurrentStreak,
		QuizCount:         quizCount,
		Accuracy:          accuracy,
		AvgCompletionTime: avgDuration,
		TotalDays:         TotalStudyDays(events),
	}
}

// BadgeValue picks the stat a requirement type is measured against. Unknown
// types evaluate to 0 and therefore never award.
func BadgeValue(requirementType string, s UserStats) int {
	switch requirementType {
	case models.ReqStreakDays:
		return s.CurrentStreak
	case models.ReqQuizCount:
		return s.QuizCount
	case models.ReqAccuracyPct:
		return s.Accuracy
	case models.ReqCompletionTime:
		// Compared with >= like every other requirement type: a larger
		// average duration satisfies the threshold.
		return s.AvgCompletionTime
	case models.ReqTotalDays:
		return s.TotalDays
	default:
		return 0
	}
}

// EvaluateBadges returns the catalog badges whose thresholds the stats
// snapshot crosses, excluding already-earned ones. Thresholds are
// inclusive: a tie earns the badge. Persisting the awards is the caller's
// job.
func EvaluateBadges(s UserStats, catalog []models.Badge, earned map[uuid.UUID]bool) []models.Badge {
	var crossed []models.Badge
	for _, b := range catalog {
		if earned[b.ID] {
			continue
		}
		if BadgeValue(b.RequirementType, s) >= b.RequirementValue {
			crossed = append(crossed, b)
		}
	}
	return crossed
}
