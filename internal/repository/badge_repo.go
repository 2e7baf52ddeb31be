package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lockin-backend/internal/models"
)

type BadgeRepo struct {
	pool *pgxpool.Pool
}

func NewBadgeRepo(pool *pgxpool.Pool) *BadgeRepo {
	return &BadgeRepo{pool: pool}
}

const badgeColumns = `id, name, description, icon, category, requirement_type, requirement_value, rarity, points, created_at`

func (r *BadgeRepo) ListCatalog(ctx context.Context) ([]models.Badge, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT "+badgeColumns+" FROM badges ORDER BY category, requirement_value")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	badges := make([]models.Badge, 0)
	for rows.Next() {
		var b models.Badge
		if err := rows.Scan(
			&b.ID, &b.Name, &b.Description, &b.Icon, &b.Category,
			&b.RequirementType, &b.RequirementValue, &b.Rarity, &b.Points, &b.CreatedAt,
		); err != nil {
			return nil, err
		}
		badges = append(badges, b)
	}

	return badges, rows.Err()
}

// ListEarned returns the user's earned badges with catalog rows attached,
// newest first.
func (r *BadgeRepo) ListEarned(ctx context.Context, userID uuid.UUID) ([]models.UserBadge, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT ub.id, ub.user_id, ub.badge_id, ub.earned_at, ub.progress_value, ub.is_new,
			b.id, b.name, b.description, b.icon, b.category, b.requirement_type, b.requirement_value, b.rarity, b.points, b.created_at
		FROM user_badges ub
		JOIN badges b ON b.id = ub.badge_id
		WHERE ub.user_id = $1
		ORDER BY ub.earned_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	earned := make([]models.UserBadge, 0)
	for rows.Next() {
		var ub models.UserBadge
		b := &models.Badge{}
		if err := rows.Scan(
			&ub.ID, &ub.UserID, &ub.BadgeID, &ub.EarnedAt, &ub.ProgressValue, &ub.IsNew,
			&b.ID, &b.Name, &b.Description, &b.Icon, &b.Category,
			&b.RequirementType, &b.RequirementValue, &b.Rarity, &b.Points, &b.CreatedAt,
		); err != nil {
			return nil, err
		}
		ub.Badge = b
		earned = append(earned, ub)
	}

	return earned, rows.Err()
}

// EarnedIDs returns the set of badge IDs the user already holds.
func (r *BadgeRepo) EarnedIDs(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]bool, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT badge_id FROM user_badges WHERE user_id = $1", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[uuid.UUID]bool)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = true
	}

	return ids, rows.Err()
}

// Award records an earned badge. The unique constraint on (user_id, badge_id)
// makes a repeat award a no-op; awarded reports whether a row was inserted.
func (r *BadgeRepo) Award(ctx context.Context, userID, badgeID uuid.UUID, progressValue int) (awarded bool, earnedAt time.Time, err error) {
	err = r.pool.QueryRow(ctx, `
		INSERT INTO user_badges (id, user_id, badge_id, progress_value, is_new)
		VALUES ($1, $2, $3, $4, TRUE)
		ON CONFLICT (user_id, badge_id) DO NOTHING
		RETURNING earned_at
	`, uuid.New(), userID, badgeID, progressValue).Scan(&earnedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		// Conflict: the badge was already held.
		return false, time.Time{}, nil
	}
	if err != nil {
		return false, time.Time{}, err
	}
	return true, earnedAt, nil
}

// MarkViewed clears the new-badge flag for one earned badge. Reports
// whether the user actually holds it.
func (r *BadgeRepo) MarkViewed(ctx context.Context, userID, badgeID uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		"UPDATE user_badges SET is_new = FALSE WHERE user_id = $1 AND badge_id = $2", userID, badgeID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
