package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"lockin-backend/internal/models"
)

type GradeRepo struct {
	pool *pgxpool.Pool
}

func NewGradeRepo(pool *pgxpool.Pool) *GradeRepo {
	return &GradeRepo{pool: pool}
}

func (r *GradeRepo) Create(ctx context.Context, entry *models.GradeEntry) error {
	query := `
		INSERT INTO grade_entries (id, user_id, assessment, grade, weight)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	entry.ID = uuid.New()

	return r.pool.QueryRow(ctx, query,
		entry.ID, entry.UserID, entry.Assessment, entry.Grade, entry.Weight,
	).Scan(&entry.CreatedAt)
}

func (r *GradeRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.GradeEntry, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT id, user_id, assessment, grade, weight, created_at FROM grade_entries WHERE user_id = $1 ORDER BY created_at ASC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*models.GradeEntry, 0)
	for rows.Next() {
		entry := &models.GradeEntry{}
		if err := rows.Scan(
			&entry.ID, &entry.UserID, &entry.Assessment, &entry.Grade, &entry.Weight, &entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func (r *GradeRepo) Delete(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, "DELETE FROM grade_entries WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
