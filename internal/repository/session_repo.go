package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"lockin-backend/internal/models"
)

// ErrSessionActive is returned by Start when the user already has an open
// session. ErrNoActiveSession is returned by End when there is none.
var (
	ErrSessionActive   = errors.New("session already active")
	ErrNoActiveSession = errors.New("no active session")
)

type SessionRepo struct {
	pool *pgxpool.Pool
}

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func NewSessionRepo(pool *pgxpool.Pool) *SessionRepo {
	return &SessionRepo{pool: pool}
}

// Start opens a new session. The check-then-insert runs in one transaction
// with the open row locked, so two concurrent starts cannot both succeed;
// the partial unique index on (user_id) WHERE ended_at IS NULL backs this up.
func (r *SessionRepo) Start(ctx context.Context, userID uuid.UUID) (*models.StudySession, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var existing uuid.UUID
	err = tx.QueryRow(ctx,
		"SELECT id FROM study_sessions WHERE user_id = $1 AND ended_at IS NULL FOR UPDATE", userID,
	).Scan(&existing)
	if err == nil {
		return nil, ErrSessionActive
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	s := &models.StudySession{ID: uuid.New(), UserID: userID}
	err = tx.QueryRow(ctx,
		"INSERT INTO study_sessions (id, user_id) VALUES ($1, $2) RETURNING started_at",
		s.ID, s.UserID,
	).Scan(&s.StartedAt)
	if err != nil {
		// Two starts can race past the FOR UPDATE check when neither has a
		// row to lock yet; the loser trips the partial unique index.
		if isUniqueViolation(err) {
			return nil, ErrSessionActive
		}
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// End closes the user's open session and returns it with EndedAt set.
func (r *SessionRepo) End(ctx context.Context, userID uuid.UUID) (*models.StudySession, error) {
	s := &models.StudySession{UserID: userID}
	err := r.pool.QueryRow(ctx, `
		UPDATE study_sessions
		SET ended_at = NOW()
		WHERE user_id = $1 AND ended_at IS NULL
		RETURNING id, started_at, ended_at
	`, userID).Scan(&s.ID, &s.StartedAt, &s.EndedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoActiveSession
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetOpen returns the user's open session, or ErrNoActiveSession.
func (r *SessionRepo) GetOpen(ctx context.Context, userID uuid.UUID) (*models.StudySession, error) {
	s := &models.StudySession{}
	err := r.pool.QueryRow(ctx,
		"SELECT id, user_id, started_at, ended_at FROM study_sessions WHERE user_id = $1 AND ended_at IS NULL",
		userID,
	).Scan(&s.ID, &s.UserID, &s.StartedAt, &s.EndedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoActiveSession
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ListClosed returns the user's completed sessions, newest first.
func (r *SessionRepo) ListClosed(ctx context.Context, userID uuid.UUID) ([]models.StudySession, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT id, user_id, started_at, ended_at FROM study_sessions WHERE user_id = $1 AND ended_at IS NOT NULL ORDER BY started_at DESC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]models.StudySession, 0)
	for rows.Next() {
		var s models.StudySession
		if err := rows.Scan(&s.ID, &s.UserID, &s.StartedAt, &s.EndedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// CountClosed returns how many completed sessions the user has.
func (r *SessionRepo) CountClosed(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM study_sessions WHERE user_id = $1 AND ended_at IS NOT NULL", userID,
	).Scan(&n)
	return n, err
}
