package models

import (
	"time"

	"github.com/google/uuid"
)

// Task is an assignment tracked by the organizer board.
type Task struct {
	ID              uuid.UUID  `json:"id"`
	UserID          uuid.UUID  `json:"user_id"`
	ClassName       string     `json:"class_name"`
	Assignment      string     `json:"assignment"`
	Description     *string    `json:"description,omitempty"`
	Status          string     `json:"status"`   // "todo" | "in_progress" | "done"
	Priority        string     `json:"priority"` // "low" | "medium" | "high"
	Deadline        *time.Time `json:"deadline,omitempty"`
	CalendarEventID *string    `json:"calendar_event_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

type TaskRequest struct {
	ClassName   string     `json:"class_name"`
	Assignment  string     `json:"assignment"`
	Description *string    `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	Deadline    *time.Time `json:"deadline"`
}
