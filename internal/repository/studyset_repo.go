package repository

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"lockin-backend/internal/models"
)

type StudySetRepo struct {
	pool *pgxpool.Pool
}

func NewStudySetRepo(pool *pgxpool.Pool) *StudySetRepo {
	return &StudySetRepo{pool: pool}
}

const studySetColumns = `id, user_id, prompt, kind, items_json, item_count, share_code, status, created_at`

// Create inserts a pending set before its generation job is enqueued.
func (r *StudySetRepo) Create(ctx context.Context, set *models.StudySet) error {
	query := `
		INSERT INTO study_sets (id, user_id, prompt, kind, items_json, item_count, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	set.ID = uuid.New()
	set.Status = "pending"
	if len(set.ItemsJSON) == 0 {
		set.ItemsJSON = json.RawMessage("[]")
	}

	return r.pool.QueryRow(ctx, query,
		set.ID, set.UserID, set.Prompt, set.Kind, set.ItemsJSON, set.ItemCount, set.Status,
	).Scan(&set.CreatedAt)
}

// Complete stores the extracted items once generation succeeds. Quiz sets
// get a share code so results pages can be linked.
func (r *StudySetRepo) Complete(ctx context.Context, id uuid.UUID, kind string, items json.RawMessage, count int, shareCode *string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE study_sets
		SET kind = $1, items_json = $2, item_count = $3, share_code = $4, status = 'completed'
		WHERE id = $5
	`, kind, items, count, shareCode, id)
	return err
}

func (r *StudySetRepo) MarkFailed(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "UPDATE study_sets SET status = 'failed' WHERE id = $1", id)
	return err
}

func (r *StudySetRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.StudySet, error) {
	set := &models.StudySet{}
	err := r.pool.QueryRow(ctx,
		"SELECT "+studySetColumns+" FROM study_sets WHERE id = $1", id,
	).Scan(
		&set.ID, &set.UserID, &set.Prompt, &set.Kind, &set.ItemsJSON,
		&set.ItemCount, &set.ShareCode, &set.Status, &set.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return set, nil
}

func (r *StudySetRepo) GetByShareCode(ctx context.Context, shareCode string) (*models.StudySet, error) {
	set := &models.StudySet{}
	err := r.pool.QueryRow(ctx,
		"SELECT "+studySetColumns+" FROM study_sets WHERE share_code = $1", shareCode,
	).Scan(
		&set.ID, &set.UserID, &set.Prompt, &set.Kind, &set.ItemsJSON,
		&set.ItemCount, &set.ShareCode, &set.Status, &set.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return set, nil
}

func (r *StudySetRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.StudySet, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT "+studySetColumns+" FROM study_sets WHERE user_id = $1 ORDER BY created_at DESC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sets := make([]*models.StudySet, 0)
	for rows.Next() {
		set := &models.StudySet{}
		if err := rows.Scan(
			&set.ID, &set.UserID, &set.Prompt, &set.Kind, &set.ItemsJSON,
			&set.ItemCount, &set.ShareCode, &set.Status, &set.CreatedAt,
		); err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}

	return sets, rows.Err()
}

func (r *StudySetRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM study_sets WHERE id = $1 AND user_id = $2", id, userID)
	return err
}
