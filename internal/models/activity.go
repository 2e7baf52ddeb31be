package models

import (
	"time"

	"github.com/google/uuid"
)

// Activity kinds recorded in the study log.
const (
	ActivityFlashcard = "flashcard"
	ActivityQuiz      = "quiz"
)

// ActivityEvent is one recorded study interaction: a flashcard review or a
// quiz attempt. Rows are append-only — never updated, never deleted.
// Flashcard events carry CardIndex and IsCorrect; quiz events carry Score.
type ActivityEvent struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	StudySetID uuid.UUID  `json:"study_set_id"`
	Kind       string     `json:"kind"` // "flashcard" | "quiz"
	CardIndex  *int       `json:"card_index,omitempty"`
	IsCorrect  *bool      `json:"is_correct,omitempty"`
	Score      *int       `json:"score,omitempty"` // 0-100
	DurationMs *int       `json:"duration_ms,omitempty"`
	SessionID  *string    `json:"session_id,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
}

type RecordFlashcardRequest struct {
	UserID     uuid.UUID `json:"user_id"`
	StudySetID uuid.UUID `json:"study_set_id"`
	CardIndex  *int      `json:"card_index"`
	IsCorrect  *bool     `json:"is_correct"`
	DurationMs *int      `json:"duration_ms"`
	SessionID  *string   `json:"session_id"`
}

type RecordQuizRequest struct {
	UserID     uuid.UUID `json:"user_id"`
	StudySetID uuid.UUID `json:"study_set_id"`
	Score      *int      `json:"score"`
	DurationMs *int      `json:"duration_ms"`
	SessionID  *string   `json:"session_id"`
}
