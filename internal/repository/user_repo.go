package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lockin-backend/internal/models"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, full_name, auth_provider, google_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	user.ID = uuid.New()
	user.IsActive = true
	if user.AuthProvider == "" {
		user.AuthProvider = "local"
	}

	return r.pool.QueryRow(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.FullName, user.AuthProvider, user.GoogleID,
	).Scan(&user.CreatedAt)
}

const userColumns = `id, email, password_hash, full_name, avatar_url, auth_provider, google_id,
	calendar_permissions, study_goal_minutes, is_active, created_at, last_login_at`

func (r *UserRepo) scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.FullName, &user.AvatarURL,
		&user.AuthProvider, &user.GoogleID, &user.CalendarPermissions, &user.StudyGoalMinutes,
		&user.IsActive, &user.CreatedAt, &user.LastLoginAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.scanUser(r.pool.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = $1", email))
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.scanUser(r.pool.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1", id))
}

func (r *UserRepo) GetByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	return r.scanUser(r.pool.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE google_id = $1", googleID))
}

func (r *UserRepo) UpdateLastLogin(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "UPDATE users SET last_login_at = $1 WHERE id = $2", time.Now(), userID)
	return err
}

func (r *UserRepo) Update(ctx context.Context, user *models.User) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE users SET full_name = $1, email = $2, avatar_url = $3, study_goal_minutes = $4 WHERE id = $5",
		user.FullName, user.Email, user.AvatarURL, user.StudyGoalMinutes, user.ID,
	)
	return err
}

func (r *UserRepo) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	_, err := r.pool.Exec(ctx, "UPDATE users SET password_hash = $1 WHERE id = $2", passwordHash, userID)
	return err
}

func (r *UserRepo) LinkGoogleAccount(ctx context.Context, userID uuid.UUID, googleID string, avatarURL *string) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE users SET google_id = $1, avatar_url = COALESCE($2, avatar_url) WHERE id = $3",
		googleID, avatarURL, userID,
	)
	return err
}

// SetGoogleTokens stores the OAuth tokens issued after a calendar consent
// exchange. The refresh token is only replaced when Google sends a new one.
func (r *UserRepo) SetGoogleTokens(ctx context.Context, userID uuid.UUID, accessToken string, refreshToken *string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users
		SET google_access_token = $1,
			google_refresh_token = COALESCE($2, google_refresh_token),
			calendar_permissions = TRUE
		WHERE id = $3
	`, accessToken, refreshToken, userID)
	return err
}

func (r *UserRepo) GetGoogleTokens(ctx context.Context, userID uuid.UUID) (accessToken, refreshToken *string, err error) {
	err = r.pool.QueryRow(ctx,
		"SELECT google_access_token, google_refresh_token FROM users WHERE id = $1", userID,
	).Scan(&accessToken, &refreshToken)
	return
}

func (r *UserRepo) ClearCalendarAccess(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users
		SET google_access_token = NULL,
			google_refresh_token = NULL,
			calendar_permissions = FALSE
		WHERE id = $1
	`, userID)
	return err
}

func (r *UserRepo) HasCalendarPermissions(ctx context.Context, userID uuid.UUID) (bool, error) {
	var granted bool
	err := r.pool.QueryRow(ctx,
		"SELECT calendar_permissions FROM users WHERE id = $1", userID).Scan(&granted)
	return granted, err
}

func (r *UserRepo) Delete(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM users WHERE id = $1", userID)
	return err
}
