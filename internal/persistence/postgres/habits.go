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

// HabitStore persists habits and their daily logs. Log writes record a
// habit.logged outbox event in the same transaction.
type HabitStore struct {
	pool *pgxpool.Pool
}

// Create inserts a habit.
func (r *HabitStore) Create(ctx context.Context, habit domain.Habit) error {
	const stmt = `INSERT INTO habits (habit_id, user_id, area_id, name, description, frequency, target_count, is_archived, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`
	_, err := r.pool.Exec(ctx, stmt,
		habit.ID, habit.UserID, habit.AreaID, habit.Name, habit.Description,
		string(habit.Frequency), habit.TargetCount, habit.IsArchived, habit.CreatedAt, habit.UpdatedAt)
	return err
}

// Get loads an owned habit. Returns nil when absent.
func (r *HabitStore) Get(ctx context.Context, userID, habitID string) (*domain.Habit, error) {
	const query = `SELECT habit_id, user_id, area_id, name, description, frequency, target_count, is_archived, created_at, updated_at
        FROM habits WHERE habit_id = $1 AND user_id = $2`

	var h domain.Habit
	err := r.pool.QueryRow(ctx, query, habitID, userID).Scan(
		&h.ID, &h.UserID, &h.AreaID, &h.Name, &h.Description,
		&h.Frequency, &h.TargetCount, &h.IsArchived, &h.CreatedAt, &h.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// Update rewrites the mutable fields of a habit.
func (r *HabitStore) Update(ctx context.Context, habit domain.Habit) error {
	const stmt = `UPDATE habits
        SET area_id = $3, name = $4, description = $5, frequency = $6, target_count = $7, is_archived = $8, updated_at = $9
        WHERE habit_id = $1 AND user_id = $2`
	tag, err := r.pool.Exec(ctx, stmt,
		habit.ID, habit.UserID, habit.AreaID, habit.Name, habit.Description,
		string(habit.Frequency), habit.TargetCount, habit.IsArchived, habit.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrHabitNotFound
	}
	return nil
}

// Delete removes an owned habit; its logs cascade.
func (r *HabitStore) Delete(ctx context.Context, userID, habitID string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM habits WHERE habit_id = $1 AND user_id = $2`, habitID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrHabitNotFound
	}
	return nil
}

// ListActive returns the user's unarchived habits.
func (r *HabitStore) ListActive(ctx context.Context, userID string) ([]domain.Habit, error) {
	const query = `SELECT habit_id, user_id, area_id, name, description, frequency, target_count, is_archived, created_at, updated_at
        FROM habits WHERE user_id = $1 AND NOT is_archived ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	habits := []domain.Habit{}
	for rows.Next() {
		var h domain.Habit
		if err := rows.Scan(&h.ID, &h.UserID, &h.AreaID, &h.Name, &h.Description,
			&h.Frequency, &h.TargetCount, &h.IsArchived, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

// ListLogs returns a habit's logs newest first.
func (r *HabitStore) ListLogs(ctx context.Context, userID, habitID string) ([]domain.HabitLog, error) {
	const query = `SELECT l.log_id, l.habit_id, l.completed_at, l.value, l.note
        FROM habit_logs l
        JOIN habits h ON h.habit_id = l.habit_id
        WHERE l.habit_id = $1 AND h.user_id = $2
        ORDER BY l.completed_at DESC`

	rows, err := r.pool.Query(ctx, query, habitID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []domain.HabitLog{}
	for rows.Next() {
		var l domain.HabitLog
		if err := rows.Scan(&l.ID, &l.HabitID, &l.CompletedAt, &l.Value, &l.Note); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// FindLogForDay returns the log row inside [dayStart, dayEnd), or nil.
func (r *HabitStore) FindLogForDay(ctx context.Context, userID, habitID string, dayStart, dayEnd time.Time) (*domain.HabitLog, error) {
	const query = `SELECT l.log_id, l.habit_id, l.completed_at, l.value, l.note
        FROM habit_logs l
        JOIN habits h ON h.habit_id = l.habit_id
        WHERE l.habit_id = $1 AND h.user_id = $2 AND l.completed_at >= $3 AND l.completed_at < $4
        LIMIT 1`

	var l domain.HabitLog
	err := r.pool.QueryRow(ctx, query, habitID, userID, dayStart, dayEnd).Scan(
		&l.ID, &l.HabitID, &l.CompletedAt, &l.Value, &l.Note)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// InsertLog records a fresh completion and a habit.logged outbox event.
func (r *HabitStore) InsertLog(ctx context.Context, userID string, log domain.HabitLog) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const stmt = `INSERT INTO habit_logs (log_id, habit_id, completed_at, value, note)
        SELECT $1, h.habit_id, $3, $4, $5
        FROM habits h WHERE h.habit_id = $2 AND h.user_id = $6`
	tag, err := tx.Exec(ctx, stmt,
		log.ID, log.HabitID, log.CompletedAt, log.Value, log.Note, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrHabitNotFound
	}

	event := events.HabitLogged{
		HabitID:     log.HabitID,
		UserID:      userID,
		CompletedAt: log.CompletedAt,
		Value:       log.Value,
	}
	if err := insertOutbox(ctx, tx, userID, "habit", log.HabitID, "habit.logged", log.CompletedAt, event); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	observability.RecordHabitLogged(log.CompletedAt)
	return nil
}

// IncrementLogValue bumps the value of an existing same-day log row.
func (r *HabitStore) IncrementLogValue(ctx context.Context, userID, logID string) error {
	const stmt = `UPDATE habit_logs l
        SET value = l.value + 1
        FROM habits h
        WHERE l.log_id = $1 AND l.habit_id = h.habit_id AND h.user_id = $2`
	tag, err := r.pool.Exec(ctx, stmt, logID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrHabitNotFound
	}
	return nil
}

// DeleteLogsForDay removes every log row inside [dayStart, dayEnd).
func (r *HabitStore) DeleteLogsForDay(ctx context.Context, userID, habitID string, dayStart, dayEnd time.Time) error {
	const stmt = `DELETE FROM habit_logs l
        USING habits h
        WHERE l.habit_id = $1 AND l.habit_id = h.habit_id AND h.user_id = $2
          AND l.completed_at >= $3 AND l.completed_at < $4`
	_, err := r.pool.Exec(ctx, stmt, habitID, userID, dayStart, dayEnd)
	return err
}
