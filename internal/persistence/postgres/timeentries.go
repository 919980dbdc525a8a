package postgres

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/lifeboard/internal/domain"
)

// TimeEntryStore persists time entries with keyset pagination over
// (start_time, entry_id).
type TimeEntryStore struct {
	pool *pgxpool.Pool
}

const timeEntryColumns = `entry_id, user_id, project_id, task_id, start_time, end_time, duration, description, created_at`

func scanTimeEntry(row pgx.Row) (*domain.TimeEntry, error) {
	var e domain.TimeEntry
	err := row.Scan(
		&e.ID, &e.UserID, &e.ProjectID, &e.TaskID, &e.StartTime,
		&e.EndTime, &e.Duration, &e.Description, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Insert records a new time entry.
func (r *TimeEntryStore) Insert(ctx context.Context, entry domain.TimeEntry) error {
	const stmt = `INSERT INTO time_entries (entry_id, user_id, project_id, task_id, start_time, end_time, duration, description, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`
	_, err := r.pool.Exec(ctx, stmt,
		entry.ID, entry.UserID, entry.ProjectID, entry.TaskID, entry.StartTime,
		entry.EndTime, entry.Duration, entry.Description, entry.CreatedAt)
	return err
}

// Get loads an owned time entry. Returns nil when absent.
func (r *TimeEntryStore) Get(ctx context.Context, userID, entryID string) (*domain.TimeEntry, error) {
	query := `SELECT ` + timeEntryColumns + ` FROM time_entries WHERE entry_id = $1 AND user_id = $2`

	entry, err := scanTimeEntry(r.pool.QueryRow(ctx, query, entryID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Update rewrites the stop fields of a time entry.
func (r *TimeEntryStore) Update(ctx context.Context, entry domain.TimeEntry) error {
	const stmt = `UPDATE time_entries
        SET end_time = $3, duration = $4, description = $5
        WHERE entry_id = $1 AND user_id = $2`
	tag, err := r.pool.Exec(ctx, stmt,
		entry.ID, entry.UserID, entry.EndTime, entry.Duration, entry.Description)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTimeEntryNotFound
	}
	return nil
}

// Delete removes an owned time entry.
func (r *TimeEntryStore) Delete(ctx context.Context, userID, entryID string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM time_entries WHERE entry_id = $1 AND user_id = $2`, entryID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTimeEntryNotFound
	}
	return nil
}

// ListRunning returns the user's open entries, oldest first.
func (r *TimeEntryStore) ListRunning(ctx context.Context, userID string) ([]domain.TimeEntry, error) {
	query := `SELECT ` + timeEntryColumns + `
        FROM time_entries WHERE user_id = $1 AND end_time IS NULL ORDER BY start_time`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTimeEntries(rows)
}

// ListByUser returns entries newest first. A non-nil cursor resumes after the
// (start_time, entry_id) pair it encodes; a next cursor is returned when more
// rows remain.
func (r *TimeEntryStore) ListByUser(ctx context.Context, userID string, cursor *domain.TimeCursor, limit int) ([]domain.TimeEntry, *domain.TimeCursor, error) {
	query := `SELECT ` + timeEntryColumns + `
        FROM time_entries WHERE user_id = $1`
	args := []interface{}{userID}

	if cursor != nil {
		query += ` AND (start_time, entry_id) < ($2, $3)`
		args = append(args, cursor.StartTime, cursor.ID)
	}
	query += ` ORDER BY start_time DESC, entry_id DESC LIMIT $` + strconv.Itoa(len(args)+1)
	args = append(args, limit+1)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	entries, err := collectTimeEntries(rows)
	if err != nil {
		return nil, nil, err
	}

	var next *domain.TimeCursor
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[limit-1]
		next = &domain.TimeCursor{StartTime: last.StartTime, ID: last.ID}
	}
	return entries, next, nil
}

func collectTimeEntries(rows pgx.Rows) ([]domain.TimeEntry, error) {
	entries := []domain.TimeEntry{}
	for rows.Next() {
		entry, err := scanTimeEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}
