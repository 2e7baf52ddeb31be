package models

import (
	"time"

	"github.com/google/uuid"
)

// GradeEntry is one weighted assessment result used by the grade calculator.
type GradeEntry struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	Assessment string    `json:"assessment"`
	Grade      int       `json:"grade"`  // 0-100
	Weight     int       `json:"weight"` // percent of final grade
	CreatedAt  time.Time `json:"created_at"`
}

type GradeEntryRequest struct {
	Assessment string `json:"assessment"`
	Grade      *int   `json:"grade"`
	Weight     *int   `json:"weight"`
}

// GradeSummary is the weighted-average view over a user's entries.
type GradeSummary struct {
	Entries         []*GradeEntry `json:"entries"`
	TotalWeight     int           `json:"total_weight"`
	WeightedAverage float64       `json:"weighted_average"`
}
