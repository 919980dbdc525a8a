package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/lifeboard/internal/domain"
)

// GoalStore persists goals.
type GoalStore struct {
	pool *pgxpool.Pool
}

// Create inserts a goal.
func (r *GoalStore) Create(ctx context.Context, goal domain.Goal) error {
	const stmt = `INSERT INTO goals (goal_id, user_id, parent_goal_id, title, description, target_date, target_value, current_value, unit, is_archived, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`
	_, err := r.pool.Exec(ctx, stmt,
		goal.ID, goal.UserID, goal.ParentGoalID, goal.Title, goal.Description,
		goal.TargetDate, goal.TargetValue, goal.CurrentValue, goal.Unit,
		goal.IsArchived, goal.CreatedAt, goal.UpdatedAt)
	return err
}

// Get loads an owned goal. Returns nil when absent.
func (r *GoalStore) Get(ctx context.Context, userID, goalID string) (*domain.Goal, error) {
	const query = `SELECT goal_id, user_id, parent_goal_id, title, description, target_date, target_value, current_value, unit, is_archived, created_at, updated_at
        FROM goals WHERE goal_id = $1 AND user_id = $2`

	var g domain.Goal
	err := r.pool.QueryRow(ctx, query, goalID, userID).Scan(
		&g.ID, &g.UserID, &g.ParentGoalID, &g.Title, &g.Description,
		&g.TargetDate, &g.TargetValue, &g.CurrentValue, &g.Unit,
		&g.IsArchived, &g.CreatedAt, &g.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// Update rewrites the mutable fields of a goal.
func (r *GoalStore) Update(ctx context.Context, goal domain.Goal) error {
	const stmt = `UPDATE goals
        SET parent_goal_id = $3, title = $4, description = $5, target_date = $6, target_value = $7, current_value = $8, unit = $9, is_archived = $10, updated_at = $11
        WHERE goal_id = $1 AND user_id = $2`
	tag, err := r.pool.Exec(ctx, stmt,
		goal.ID, goal.UserID, goal.ParentGoalID, goal.Title, goal.Description,
		goal.TargetDate, goal.TargetValue, goal.CurrentValue, goal.Unit,
		goal.IsArchived, goal.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrGoalNotFound
	}
	return nil
}

// Delete removes an owned goal.
func (r *GoalStore) Delete(ctx context.Context, userID, goalID string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM goals WHERE goal_id = $1 AND user_id = $2`, goalID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrGoalNotFound
	}
	return nil
}

// ListActive returns the user's unarchived goals, soonest target first.
func (r *GoalStore) ListActive(ctx context.Context, userID string) ([]domain.Goal, error) {
	const query = `SELECT goal_id, user_id, parent_goal_id, title, description, target_date, target_value, current_value, unit, is_archived, created_at, updated_at
        FROM goals WHERE user_id = $1 AND NOT is_archived
        ORDER BY target_date NULLS LAST, created_at`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	goals := []domain.Goal{}
	for rows.Next() {
		var g domain.Goal
		if err := rows.Scan(&g.ID, &g.UserID, &g.ParentGoalID, &g.Title, &g.Description,
			&g.TargetDate, &g.TargetValue, &g.CurrentValue, &g.Unit,
			&g.IsArchived, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}
