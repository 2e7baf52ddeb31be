package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// StudySet is an AI-generated set of flashcards or quiz questions. ItemsJSON
// holds the raw array exactly as extracted from the model response.
type StudySet struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Prompt    string          `json:"prompt"`
	Kind      string          `json:"kind"` // "flashcard" | "quiz"
	ItemsJSON json.RawMessage `json:"items"`
	ItemCount int             `json:"item_count"`
	ShareCode *string         `json:"share_code,omitempty"` // quiz sets only
	Status    string          `json:"status"`               // "pending" | "completed" | "failed"
	CreatedAt time.Time       `json:"created_at"`
}

type GenerateStudySetRequest struct {
	Prompt string `json:"prompt"`
}

// FlashcardItem is one card in a flashcard study set.
type FlashcardItem struct {
	Front          string `json:"front"`
	Back           string `json:"back"`
	Difficulty     string `json:"difficulty"`      // "easy" | "medium" | "hard"
	CognitiveSkill string `json:"cognitive_skill"` // recall | comprehension | application | analysis
}

// QuizItem is one multiple-choice question in a quiz study set.
type QuizItem struct {
	Question       string   `json:"question"`
	Options        []string `json:"options"`
	Correct        string   `json:"correct"` // "A" | "B" | "C" | "D"
	Difficulty     string   `json:"difficulty"`
	CognitiveSkill string   `json:"cognitive_skill"`
}

// GenerationJob is a queued LLM generation request consumed by the worker
// pool.
type GenerationJob struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	StudySetID uuid.UUID `json:"study_set_id"`
	Prompt     string    `json:"prompt"`
	RetryCount int       `json:"retry_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// WSMessage is the envelope pushed to WebSocket clients via Redis pub/sub.
type WSMessage struct {
	Type    string      `json:"type"` // "badge_earned" | "study_set_ready" | "study_set_failed"
	Payload interface{} `json:"payload"`
}

// API error envelope.

type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}
