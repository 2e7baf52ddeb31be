package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"lockin-backend/internal/models"
)

type TaskRepo struct {
	pool *pgxpool.Pool
}

func NewTaskRepo(pool *pgxpool.Pool) *TaskRepo {
	return &TaskRepo{pool: pool}
}

const taskColumns = `id, user_id, class_name, assignment, description, status, priority, deadline, calendar_event_id, created_at`

func (r *TaskRepo) Create(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (id, user_id, class_name, assignment, description, status, priority, deadline)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`

	task.ID = uuid.New()

	return r.pool.QueryRow(ctx, query,
		task.ID, task.UserID, task.ClassName, task.Assignment, task.Description,
		task.Status, task.Priority, task.Deadline,
	).Scan(&task.CreatedAt)
}

func (r *TaskRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	task := &models.Task{}
	err := r.pool.QueryRow(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE id = $1", id,
	).Scan(
		&task.ID, &task.UserID, &task.ClassName, &task.Assignment, &task.Description,
		&task.Status, &task.Priority, &task.Deadline, &task.CalendarEventID, &task.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return task, nil
}

// ListByUser returns the user's tasks, soonest deadline first with undated
// tasks last.
func (r *TaskRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Task, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE user_id = $1 ORDER BY deadline ASC NULLS LAST, created_at DESC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0)
	for rows.Next() {
		task := &models.Task{}
		if err := rows.Scan(
			&task.ID, &task.UserID, &task.ClassName, &task.Assignment, &task.Description,
			&task.Status, &task.Priority, &task.Deadline, &task.CalendarEventID, &task.CreatedAt,
		); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	return tasks, rows.Err()
}

func (r *TaskRepo) Update(ctx context.Context, task *models.Task) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE tasks
		SET class_name = $1, assignment = $2, description = $3, status = $4, priority = $5, deadline = $6
		WHERE id = $7 AND user_id = $8
	`, task.ClassName, task.Assignment, task.Description, task.Status, task.Priority, task.Deadline,
		task.ID, task.UserID)
	return err
}

func (r *TaskRepo) UpdateStatus(ctx context.Context, id, userID uuid.UUID, status string) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE tasks SET status = $1 WHERE id = $2 AND user_id = $3", status, id, userID)
	return err
}

func (r *TaskRepo) SetCalendarEventID(ctx context.Context, id uuid.UUID, eventID string) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE tasks SET calendar_event_id = $1 WHERE id = $2", eventID, id)
	return err
}

func (r *TaskRepo) ClearCalendarEventID(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE tasks SET calendar_event_id = NULL WHERE id = $1", id)
	return err
}

func (r *TaskRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM tasks WHERE id = $1 AND user_id = $2", id, userID)
	return err
}

// ListDueBetween returns unfinished tasks with a deadline inside the window,
// joined with the owner's email for reminder delivery.
type DeadlineReminder struct {
	Task     models.Task
	Email    string
	FullName string
}

func (r *TaskRepo) ListDueBetween(ctx context.Context, from, to time.Time) ([]DeadlineReminder, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT t.id, t.user_id, t.class_name, t.assignment, t.description, t.status, t.priority,
			t.deadline, t.calendar_event_id, t.created_at, u.email, u.full_name
		FROM tasks t
		JOIN users u ON u.id = t.user_id
		WHERE t.status != 'done'
		  AND t.deadline IS NOT NULL
		  AND t.deadline >= $1
		  AND t.deadline < $2
		  AND u.is_active = TRUE
		ORDER BY t.deadline ASC
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reminders := make([]DeadlineReminder, 0)
	for rows.Next() {
		var rem DeadlineReminder
		if err := rows.Scan(
			&rem.Task.ID, &rem.Task.UserID, &rem.Task.ClassName, &rem.Task.Assignment,
			&rem.Task.Description, &rem.Task.Status, &rem.Task.Priority, &rem.Task.Deadline,
			&rem.Task.CalendarEventID, &rem.Task.CreatedAt, &rem.Email, &rem.FullName,
		); err != nil {
			return nil, err
		}
		reminders = append(reminders, rem)
	}

	return reminders, rows.Err()
}
