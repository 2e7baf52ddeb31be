package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"lockin-backend/internal/models"
	"lockin-backend/internal/repository"
)

// SessionService manages the live study timer: at most one open session per
// user, closed sessions report their duration in timer-friendly shapes.
type SessionService struct {
	sessionRepo *repository.SessionRepo
}

func NewSessionService(sessionRepo *repository.SessionRepo) *SessionService {
	return &SessionService{sessionRepo: sessionRepo}
}

func (s *SessionService) Start(ctx context.Context, userID uuid.UUID) (*models.StudySession, error) {
	if userID == uuid.Nil {
		return nil, &ValidationError{Fields: map[string]string{"user_id": "user_id is required"}}
	}

	session, err := s.sessionRepo.Start(ctx, userID)
	if errors.Is(err, repository.ErrSessionActive) {
		return nil, &ConflictError{Message: "A study session is already active"}
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (s *SessionService) End(ctx context.Context, userID uuid.UUID) (*models.StudySession, *models.SessionDuration, error) {
	if userID == uuid.Nil {
		return nil, nil, &ValidationError{Fields: map[string]string{"user_id": "user_id is required"}}
	}

	session, err := s.sessionRepo.End(ctx, userID)
	if errors.Is(err, repository.ErrNoActiveSession) {
		return nil, nil, &NotFoundError{Message: "No active study session found"}
	}
	if err != nil {
		return nil, nil, err
	}

	return session, durationOf(session.StartedAt, *session.EndedAt), nil
}

// TimerEntry pairs a completed session with its computed duration.
type TimerEntry struct {
	Session  models.StudySession     `json:"session"`
	Duration *models.SessionDuration `json:"duration"`
}

// TimerData feeds the timer page: the completed-session history, newest
// first, plus the open session and its elapsed time when one is running.
type TimerData struct {
	Sessions  []TimerEntry         `json:"sessions"`
	Active    bool                 `json:"active"`
	Session   *models.StudySession `json:"session,omitempty"`
	ElapsedMs int64                `json:"elapsed_ms"`
}

func (s *SessionService) Timer(ctx context.Context, userID uuid.UUID) (*TimerData, error) {
	closed, err := s.sessionRepo.ListClosed(ctx, userID)
	if err != nil {
		return nil, err
	}
	data := &TimerData{Sessions: timerEntries(closed)}

	open, err := s.sessionRepo.GetOpen(ctx, userID)
	if errors.Is(err, repository.ErrNoActiveSession) {
		return data, nil
	}
	if err != nil {
		return nil, err
	}

	data.Active = true
	data.Session = open
	data.ElapsedMs = time.Since(open.StartedAt).Milliseconds()
	return data, nil
}

func timerEntries(closed []models.StudySession) []TimerEntry {
	entries := make([]TimerEntry, 0, len(closed))
	for _, sess := range closed {
		entries = append(entries, TimerEntry{
			Session:  sess,
			Duration: durationOf(sess.StartedAt, *sess.EndedAt),
		})
	}
	return entries
}

func durationOf(start, end time.Time) *models.SessionDuration {
	ms := end.Sub(start).Milliseconds()
	if ms < 0 {
		ms = 0
	}

	hours := ms / 3_600_000
	minutes := (ms % 3_600_000) / 60_000

	return &models.SessionDuration{
		Milliseconds: ms,
		Minutes:      ms / 60_000,
		Formatted:    fmt.Sprintf("%dh %dm", hours, minutes),
	}
}
