package models

import (
	"time"

	"github.com/google/uuid"
)

// Badge requirement types. Each maps to one scalar in stats.UserStats.
const (
	ReqStreakDays     = "streak_days"
	ReqQuizCount      = "quiz_count"
	ReqAccuracyPct    = "accuracy_percentage"
	ReqCompletionTime = "completion_time"
	ReqTotalDays      = "total_days"
)

// Badge is a catalog entry. The catalog is seeded by migration and
// read-mostly at runtime.
type Badge struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	Icon             string    `json:"icon"`
	Category         string    `json:"category"` // streak | quiz | accuracy | speed | milestone
	RequirementType  string    `json:"requirement_type"`
	RequirementValue int       `json:"requirement_value"`
	Rarity           string    `json:"rarity"` // common | rare | epic | legendary
	Points           int       `json:"points"`
	CreatedAt        time.Time `json:"created_at"`
}

// UserBadge records a badge earned by a user. Unique per (user, badge) —
// a badge is awarded at most once ever.
type UserBadge struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	BadgeID       uuid.UUID `json:"badge_id"`
	EarnedAt      time.Time `json:"earned_at"`
	ProgressValue int       `json:"progress_value"` // stat value at the moment of award
	IsNew         bool      `json:"is_new"`
	Badge         *Badge    `json:"badge,omitempty"`
}

// EarnedBadge is the response shape for a badge newly crossed during an
// evaluation call.
type EarnedBadge struct {
	Badge         Badge     `json:"badge"`
	EarnedAt      time.Time `json:"earned_at"`
	ProgressValue int       `json:"progress_value"`
}

// BadgeProgress pairs a catalog badge with the user's progress toward it.
type BadgeProgress struct {
	Badge              Badge      `json:"badge"`
	Earned             bool       `json:"earned"`
	EarnedAt           *time.Time `json:"earned_at,omitempty"`
	CurrentValue       int        `json:"current_value"`
	ProgressPercentage float64    `json:"progress_percentage"`
	IsNew              bool       `json:"is_new"`
}
