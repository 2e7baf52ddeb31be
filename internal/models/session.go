package models

import (
	"time"

	"github.com/google/uuid"
)

// StudySession is one continuous study interval. A session is open while
// EndedAt is nil; at most one open session exists per user.
type StudySession struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

// SessionDuration is the elapsed time of a closed session, reported in the
// three shapes the frontend timer consumes.
type SessionDuration struct {
	Milliseconds int64  `json:"milliseconds"`
	Minutes      int64  `json:"minutes"`
	Formatted    string `json:"formatted"` // "1h 23m"
}

type SessionRequest struct {
	UserID uuid.UUID `json:"user_id"`
}
