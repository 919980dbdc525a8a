package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/lifeboard/internal/domain"
	"example.com/lifeboard/internal/events"
	"example.com/lifeboard/internal/observability"
)

// TaskStore persists tasks and records task lifecycle events in the outbox.
type TaskStore struct {
	pool *pgxpool.Pool
}

const taskColumns = `t.task_id, t.project_id, t.parent_task_id, t.title, t.status, t.priority,
	t.due_date, t.completed_at, t.position, t.is_recurring, t.recurrence_rule, t.created_at, t.updated_at`

func scanTask(row pgx.Row) (*domain.Task, error) {
	var t domain.Task
	err := row.Scan(
		&t.ID, &t.ProjectID, &t.ParentTaskID, &t.Title, &t.Status, &t.Priority,
		&t.DueDate, &t.CompletedAt, &t.Position, &t.IsRecurring, &t.RecurrenceRule,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts a task under an owned project and records a task.created
// outbox event in the same transaction.
func (r *TaskStore) Create(ctx context.Context, userID string, task domain.Task) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const stmt = `INSERT INTO tasks (task_id, project_id, parent_task_id, title, status, priority, due_date, position, is_recurring, recurrence_rule, created_at, updated_at)
        SELECT $1, p.project_id, $3, $4, $5, $6, $7,
            (SELECT COALESCE(MAX(position), -1) + 1 FROM tasks WHERE project_id = $2),
            $8, $9, $10, $11
        FROM projects p
        JOIN board_columns c ON c.column_id = p.column_id
        JOIN boards b ON b.board_id = c.board_id
        JOIN life_areas a ON a.area_id = b.area_id
        WHERE p.project_id = $2 AND a.user_id = $12`
	tag, err := tx.Exec(ctx, stmt,
		task.ID, task.ProjectID, task.ParentTaskID, task.Title, string(task.Status), string(task.Priority),
		task.DueDate, task.IsRecurring, task.RecurrenceRule, task.CreatedAt, task.UpdatedAt, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProjectNotFound
	}

	event := events.TaskCreated{
		TaskID:    task.ID,
		UserID:    userID,
		ProjectID: task.ProjectID,
		Title:     task.Title,
		Priority:  string(task.Priority),
		DueDate:   task.DueDate,
		CreatedAt: task.CreatedAt,
	}
	if err := insertOutbox(ctx, tx, userID, "task", task.ID, "task.created", task.CreatedAt, event); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	observability.RecordTaskPersisted(task.UpdatedAt)
	return nil
}

// Get loads an owned task. Returns nil when absent.
func (r *TaskStore) Get(ctx context.Context, userID, taskID string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + `
        FROM tasks t
        JOIN projects p ON p.project_id = t.project_id
        JOIN board_columns c ON c.column_id = p.column_id
        JOIN boards b ON b.board_id = c.board_id
        JOIN life_areas a ON a.area_id = b.area_id
        WHERE t.task_id = $1 AND a.user_id = $2`

	task, err := scanTask(r.pool.QueryRow(ctx, query, taskID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return task, nil
}

// Update rewrites the mutable fields of an owned task.
func (r *TaskStore) Update(ctx context.Context, userID string, task domain.Task) error {
	const stmt = `UPDATE tasks t
        SET title = $3, status = $4, priority = $5, due_date = $6, is_recurring = $7, recurrence_rule = $8, updated_at = $9
        FROM projects p
        JOIN board_columns c ON c.column_id = p.column_id
        JOIN boards b ON b.board_id = c.board_id
        JOIN life_areas a ON a.area_id = b.area_id
        WHERE t.task_id = $1 AND t.project_id = p.project_id AND a.user_id = $2`
	tag, err := r.pool.Exec(ctx, stmt,
		task.ID, userID, task.Title, string(task.Status), string(task.Priority),
		task.DueDate, task.IsRecurring, task.RecurrenceRule, task.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

// UpdateStatus persists a status flip. A transition into done also records a
// task.completed outbox event in the same transaction. The recurring
// successor insert happens in a separate Create call by the service layer.
func (r *TaskStore) UpdateStatus(ctx context.Context, userID string, task domain.Task) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const stmt = `UPDATE tasks t
        SET status = $3, completed_at = $4, updated_at = $5
        FROM projects p
        JOIN board_columns c ON c.column_id = p.column_id
        JOIN boards b ON b.board_id = c.board_id
        JOIN life_areas a ON a.area_id = b.area_id
        WHERE t.task_id = $1 AND t.project_id = p.project_id AND a.user_id = $2`
	tag, err := tx.Exec(ctx, stmt,
		task.ID, userID, string(task.Status), task.CompletedAt, task.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}

	if task.Status == domain.TaskStatusDone && task.CompletedAt != nil {
		event := events.TaskCompleted{
			TaskID:      task.ID,
			UserID:      userID,
			ProjectID:   task.ProjectID,
			CompletedAt: *task.CompletedAt,
			Recurring:   task.IsRecurring,
		}
		if err := insertOutbox(ctx, tx, userID, "task", task.ID, "task.completed", *task.CompletedAt, event); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	if task.Status == domain.TaskStatusDone && task.CompletedAt != nil {
		observability.RecordTaskCompleted(*task.CompletedAt)
	}
	return nil
}

// Delete removes an owned task.
func (r *TaskStore) Delete(ctx context.Context, userID, taskID string) error {
	const stmt = `DELETE FROM tasks t
        USING projects p, board_columns c, boards b, life_areas a
        WHERE t.task_id = $1 AND t.project_id = p.project_id AND p.column_id = c.column_id
          AND c.board_id = b.board_id AND b.area_id = a.area_id AND a.user_id = $2`
	tag, err := r.pool.Exec(ctx, stmt, taskID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

// ListByProject returns a project's tasks ordered by position.
func (r *TaskStore) ListByProject(ctx context.Context, userID, projectID string) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + `
        FROM tasks t
        JOIN projects p ON p.project_id = t.project_id
        JOIN board_columns c ON c.column_id = p.column_id
        JOIN boards b ON b.board_id = c.board_id
        JOIN life_areas a ON a.area_id = b.area_id
        WHERE t.project_id = $1 AND a.user_id = $2
        ORDER BY t.position, t.created_at`

	rows, err := r.pool.Query(ctx, query, projectID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

// ListIncompleteDue returns every incomplete task with a due date for the
// user, ordered soonest first. Used by the dashboard and the notifier scan.
func (r *TaskStore) ListIncompleteDue(ctx context.Context, userID string) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + `
        FROM tasks t
        JOIN projects p ON p.project_id = t.project_id
        JOIN board_columns c ON c.column_id = p.column_id
        JOIN boards b ON b.board_id = c.board_id
        JOIN life_areas a ON a.area_id = b.area_id
        WHERE a.user_id = $1 AND t.status <> 'done' AND t.due_date IS NOT NULL
        ORDER BY t.due_date`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

// Reorder rewrites positions to match the order of the provided ids.
func (r *TaskStore) Reorder(ctx context.Context, userID string, orderedIDs []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const stmt = `UPDATE tasks t
        SET position = $3, updated_at = $4
        FROM projects p
        JOIN board_columns c ON c.column_id = p.column_id
        JOIN boards b ON b.board_id = c.board_id
        JOIN life_areas a ON a.area_id = b.area_id
        WHERE t.task_id = $1 AND t.project_id = p.project_id AND a.user_id = $2`
	now := time.Now().UTC()
	for pos, id := range orderedIDs {
		if _, err := tx.Exec(ctx, stmt, id, userID, pos, now); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func collectTasks(rows pgx.Rows) ([]domain.Task, error) {
	tasks := []domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}
