package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"lockin-backend/internal/models"
)

// ActivityRepo persists the append-only study log. Events are never updated
// or deleted; every analytics read works over this table.
type ActivityRepo struct {
	pool *pgxpool.Pool
}

func NewActivityRepo(pool *pgxpool.Pool) *ActivityRepo {
	return &ActivityRepo{pool: pool}
}

func (r *ActivityRepo) Insert(ctx context.Context, e *models.ActivityEvent) error {
	query := `
		INSERT INTO activity_events (id, user_id, study_set_id, kind, card_index, is_correct, score, duration_ms, session_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING occurred_at`

	e.ID = uuid.New()

	return r.pool.QueryRow(ctx, query,
		e.ID, e.UserID, e.StudySetID, e.Kind, e.CardIndex, e.IsCorrect, e.Score, e.DurationMs, e.SessionID,
	).Scan(&e.OccurredAt)
}

const activityColumns = `id, user_id, study_set_id, kind, card_index, is_correct, score, duration_ms, session_id, occurred_at`

// ListByUser returns the user's full study log, oldest first. The analytics
// core computes streaks and aggregates in memory over this slice.
func (r *ActivityRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.ActivityEvent, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT "+activityColumns+" FROM activity_events WHERE user_id = $1 ORDER BY occurred_at ASC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]models.ActivityEvent, 0)
	for rows.Next() {
		var e models.ActivityEvent
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.StudySetID, &e.Kind, &e.CardIndex,
			&e.IsCorrect, &e.Score, &e.DurationMs, &e.SessionID, &e.OccurredAt,
		); err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	return events, rows.Err()
}

// StreakCandidate is a user who studied yesterday but not yet today, joined
// with contact fields for reminder delivery.
type StreakCandidate struct {
	UserID   uuid.UUID
	Email    string
	FullName string
}

// ListStreakReminderCandidates returns active users whose most recent event
// fell on the previous local day. Their streak breaks at midnight unless
// they study today.
func (r *ActivityRepo) ListStreakReminderCandidates(ctx context.Context) ([]StreakCandidate, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT u.id, u.email, u.full_name
		FROM users u
		WHERE u.is_active = TRUE
		  AND EXISTS (
			SELECT 1 FROM activity_events e
			WHERE e.user_id = u.id
			  AND e.occurred_at >= CURRENT_DATE - INTERVAL '1 day'
			  AND e.occurred_at < CURRENT_DATE
		  )
		  AND NOT EXISTS (
			SELECT 1 FROM activity_events e
			WHERE e.user_id = u.id
			  AND e.occurred_at >= CURRENT_DATE
		  )
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	candidates := make([]StreakCandidate, 0)
	for rows.Next() {
		var c StreakCandidate
		if err := rows.Scan(&c.UserID, &c.Email, &c.FullName); err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}

	return candidates, rows.Err()
}

// ListByUserAndKind filters the log to one activity kind, oldest first.
func (r *ActivityRepo) ListByUserAndKind(ctx context.Context, userID uuid.UUID, kind string) ([]models.ActivityEvent, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT "+activityColumns+" FROM activity_events WHERE user_id = $1 AND kind = $2 ORDER BY occurred_at ASC",
		userID, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]models.ActivityEvent, 0)
	for rows.Next() {
		var e models.ActivityEvent
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.StudySetID, &e.Kind, &e.CardIndex,
			&e.IsCorrect, &e.Score, &e.DurationMs, &e.SessionID, &e.OccurredAt,
		); err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	return events, rows.Err()
}
