package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/lifeboard/internal/domain"
)

// KanbanStore persists the life area / board / column / project hierarchy.
type KanbanStore struct {
	pool *pgxpool.Pool
}

// CreateArea inserts a life area.
func (r *KanbanStore) CreateArea(ctx context.Context, area domain.LifeArea) error {
	const stmt = `INSERT INTO life_areas (area_id, user_id, name, icon, color, description, position, is_archived, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,
            (SELECT COALESCE(MAX(position), -1) + 1 FROM life_areas WHERE user_id = $2),
            $7,$8,$9)`
	_, err := r.pool.Exec(ctx, stmt,
		area.ID, area.UserID, area.Name, area.Icon, area.Color, area.Description,
		area.IsArchived, area.CreatedAt, area.UpdatedAt)
	return err
}

// GetArea loads a life area owned by the user. Returns nil when absent.
func (r *KanbanStore) GetArea(ctx context.Context, userID, areaID string) (*domain.LifeArea, error) {
	const query = `SELECT area_id, user_id, name, icon, color, description, position, is_archived, created_at, updated_at
        FROM life_areas WHERE area_id = $1 AND user_id = $2`

	var area domain.LifeArea
	err := r.pool.QueryRow(ctx, query, areaID, userID).Scan(
		&area.ID, &area.UserID, &area.Name, &area.Icon, &area.Color, &area.Description,
		&area.Position, &area.IsArchived, &area.CreatedAt, &area.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &area, nil
}

// UpdateArea rewrites the mutable fields of a life area.
func (r *KanbanStore) UpdateArea(ctx context.Context, area domain.LifeArea) error {
	const stmt = `UPDATE life_areas
        SET name = $3, icon = $4, color = $5, description = $6, is_archived = $7, updated_at = $8
        WHERE area_id = $1 AND user_id = $2`
	tag, err := r.pool.Exec(ctx, stmt,
		area.ID, area.UserID, area.Name, area.Icon, area.Color, area.Description,
		area.IsArchived, area.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAreaNotFound
	}
	return nil
}

// ListAreas returns the user's unarchived areas with board counts, ordered by
// position.
func (r *KanbanStore) ListAreas(ctx context.Context, userID string) ([]domain.AreaSummary, error) {
	const query = `SELECT a.area_id, a.user_id, a.name, a.icon, a.color, a.description, a.position, a.is_archived, a.created_at, a.updated_at,
            COUNT(b.board_id)
        FROM life_areas a
        LEFT JOIN boards b ON b.area_id = a.area_id
        WHERE a.user_id = $1 AND NOT a.is_archived
        GROUP BY a.area_id
        ORDER BY a.position, a.created_at`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []domain.AreaSummary{}
	for rows.Next() {
		var s domain.AreaSummary
		if err := rows.Scan(
			&s.ID, &s.UserID, &s.Name, &s.Icon, &s.Color, &s.Description,
			&s.Position, &s.IsArchived, &s.CreatedAt, &s.UpdatedAt, &s.BoardCount); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// ReorderAreas rewrites positions to match the order of the provided ids,
// inside one transaction so a partial reorder never persists.
func (r *KanbanStore) ReorderAreas(ctx context.Context, userID string, orderedIDs []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for pos, id := range orderedIDs {
		if _, err := tx.Exec(ctx,
			`UPDATE life_areas SET position = $3, updated_at = NOW() WHERE area_id = $1 AND user_id = $2`,
			id, userID, pos); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// CreateBoard inserts a board; the caller has already verified area ownership.
func (r *KanbanStore) CreateBoard(ctx context.Context, userID string, board domain.Board) error {
	const stmt = `INSERT INTO boards (board_id, area_id, name, description, position, created_at, updated_at)
        SELECT $1, a.area_id, $3, $4,
            (SELECT COALESCE(MAX(position), -1) + 1 FROM boards WHERE area_id = $2),
            $5, $6
        FROM life_areas a WHERE a.area_id = $2 AND a.user_id = $7`
	tag, err := r.pool.Exec(ctx, stmt,
		board.ID, board.AreaID, board.Name, board.Description, board.CreatedAt, board.UpdatedAt, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAreaNotFound
	}
	return nil
}

// GetBoardTree loads one board with its columns and projects in a single
// round-trip per level. Returns nil when the board does not belong to the user.
func (r *KanbanStore) GetBoardTree(ctx context.Context, userID, boardID string) (*domain.BoardTree, error) {
	const boardQuery = `SELECT b.board_id, b.area_id, b.name, b.description, b.position, b.created_at, b.updated_at
        FROM boards b
        JOIN life_areas a ON a.area_id = b.area_id
        WHERE b.board_id = $1 AND a.user_id = $2`

	var tree domain.BoardTree
	err := r.pool.QueryRow(ctx, boardQuery, boardID, userID).Scan(
		&tree.ID, &tree.AreaID, &tree.Name, &tree.Description, &tree.Position,
		&tree.CreatedAt, &tree.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	const columnQuery = `SELECT column_id, board_id, name, color, position, wip_limit, is_collapsed, created_at, updated_at
        FROM board_columns WHERE board_id = $1 ORDER BY position, created_at`

	rows, err := r.pool.Query(ctx, columnQuery, boardID)
	if err != nil {
		return nil, err
	}
	columnIndex := map[string]int{}
	for rows.Next() {
		var c domain.Column
		if err := rows.Scan(&c.ID, &c.BoardID, &c.Name, &c.Color, &c.Position,
			&c.WIPLimit, &c.IsCollapsed, &c.CreatedAt, &c.UpdatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		columnIndex[c.ID] = len(tree.Columns)
		tree.Columns = append(tree.Columns, domain.ColumnTree{Column: c, Projects: []domain.Project{}})
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	const projectQuery = `SELECT p.project_id, p.column_id, p.title, p.description, p.priority, p.due_date, p.position, p.is_archived, p.created_at, p.updated_at
        FROM projects p
        JOIN board_columns c ON c.column_id = p.column_id
        WHERE c.board_id = $1 AND NOT p.is_archived
        ORDER BY p.position, p.created_at`

	rows, err = r.pool.Query(ctx, projectQuery, boardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.ID, &p.ColumnID, &p.Title, &p.Description, &p.Priority,
			&p.DueDate, &p.Position, &p.IsArchived, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		if idx, ok := columnIndex[p.ColumnID]; ok {
			tree.Columns[idx].Projects = append(tree.Columns[idx].Projects, p)
		}
	}
	return &tree, rows.Err()
}

// UpdateBoard rewrites the mutable fields of an owned board.
func (r *KanbanStore) UpdateBoard(ctx context.Context, userID string, board domain.Board) error {
	const stmt = `UPDATE boards b
        SET name = $3, description = $4, updated_at = $5
        FROM life_areas a
        WHERE b.board_id = $1 AND b.area_id = a.area_id AND a.user_id = $2`
	tag, err := r.pool.Exec(ctx, stmt, board.ID, userID, board.Name, board.Description, board.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBoardNotFound
	}
	return nil
}

// DeleteBoard removes an owned board; columns and projects cascade.
func (r *KanbanStore) DeleteBoard(ctx context.Context, userID, boardID string) error {
	const stmt = `DELETE FROM boards b
        USING life_areas a
        WHERE b.board_id = $1 AND b.area_id = a.area_id AND a.user_id = $2`
	tag, err := r.pool.Exec(ctx, stmt, boardID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBoardNotFound
	}
	return nil
}

// CreateColumn inserts a column on an owned board.
func (r *KanbanStore) CreateColumn(ctx context.Context, userID string, column domain.Column) error {
	const stmt = `INSERT INTO board_columns (column_id, board_id, name, color, position, wip_limit, is_collapsed, created_at, updated_at)
        SELECT $1, b.board_id, $3, $4,
            (SELECT COALESCE(MAX(position), -1) + 1 FROM board_columns WHERE board_id = $2),
            $5, $6, $7, $8
        FROM boards b
        JOIN life_areas a ON a.area_id = b.area_id
        WHERE b.board_id = $2 AND a.user_id = $9`
	tag, err := r.pool.Exec(ctx, stmt,
		column.ID, column.BoardID, column.Name, column.Color,
		column.WIPLimit, column.IsCollapsed, column.CreatedAt, column.UpdatedAt, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBoardNotFound
	}
	return nil
}

// GetColumn loads an owned column. Returns nil when absent.
func (r *KanbanStore) GetColumn(ctx context.Context, userID, columnID string) (*domain.Column, error) {
	const query = `SELECT c.column_id, c.board_id, c.name, c.color, c.position, c.wip_limit, c.is_collapsed, c.created_at, c.updated_at
        FROM board_columns c
        JOIN boards b ON b.board_id = c.board_id
        JOIN life_areas a ON a.area_id = b.area_id
        WHERE c.column_id = $1 AND a.user_id = $2`

	var c domain.Column
	err := r.pool.QueryRow(ctx, query, columnID, userID).Scan(
		&c.ID, &c.BoardID, &c.Name, &c.Color, &c.Position,
		&c.WIPLimit, &c.IsCollapsed, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateColumn rewrites the mutable fields of an owned column.
func (r *KanbanStore) UpdateColumn(ctx context.Context, userID string, column domain.Column) error {
	const stmt = `UPDATE board_columns c
        SET name = $3, color = $4, wip_limit = $5, is_collapsed = $6, updated_at = $7
        FROM boards b
        JOIN life_areas a ON a.area_id = b.area_id
        WHERE c.column_id = $1 AND c.board_id = b.board_id AND a.user_id = $2`
	tag, err := r.pool.Exec(ctx, stmt,
		column.ID, userID, column.Name, column.Color, column.WIPLimit, column.IsCollapsed, column.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrColumnNotFound
	}
	return nil
}

// DeleteColumn removes an owned column; its projects cascade.
func (r *KanbanStore) DeleteColumn(ctx context.Context, userID, columnID string) error {
	const stmt = `DELETE FROM board_columns c
        USING boards b, life_areas a
        WHERE c.column_id = $1 AND c.board_id = b.board_id AND b.area_id = a.area_id AND a.user_id = $2`
	tag, err := r.pool.Exec(ctx, stmt, columnID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrColumnNotFound
	}
	return nil
}

// ReorderColumns rewrites positions to match the order of the provided ids.
func (r *KanbanStore) ReorderColumns(ctx context.Context, userID string, orderedIDs []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const stmt = `UPDATE board_columns c
        SET position = $3, updated_at = NOW()
        FROM boards b
        JOIN life_areas a ON a.area_id = b.area_id
        WHERE c.column_id = $1 AND c.board_id = b.board_id AND a.user_id = $2`
	for pos, id := range orderedIDs {
		if _, err := tx.Exec(ctx, stmt, id, userID, pos); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// CreateProject inserts a project in an owned column.
func (r *KanbanStore) CreateProject(ctx context.Context, userID string, project domain.Project) error {
	const stmt = `INSERT INTO projects (project_id, column_id, title, description, priority, due_date, position, is_archived, created_at, updated_at)
        SELECT $1, c.column_id, $3, $4, $5, $6,
            (SELECT COALESCE(MAX(position), -1) + 1 FROM projects WHERE column_id = $2),
            $7, $8, $9
        FROM board_columns c
        JOIN boards b ON b.board_id = c.board_id
        JOIN life_areas a ON a.area_id = b.area_id
        WHERE c.column_id = $2 AND a.user_id = $10`
	tag, err := r.pool.Exec(ctx, stmt,
		project.ID, project.ColumnID, project.Title, project.Description, string(project.Priority),
		project.DueDate, project.IsArchived, project.CreatedAt, project.UpdatedAt, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrColumnNotFound
	}
	return nil
}

// GetProject loads an owned project. Returns nil when absent.
func (r *KanbanStore) GetProject(ctx context.Context, userID, projectID string) (*domain.Project, error) {
	const query = `SELECT p.project_id, p.column_id, p.title, p.description, p.priority, p.due_date, p.position, p.is_archived, p.created_at, p.updated_at
        FROM projects p
        JOIN board_columns c ON c.column_id = p.column_id
        JOIN boards b ON b.board_id = c.board_id
        JOIN life_areas a ON a.area_id = b.area_id
        WHERE p.project_id = $1 AND a.user_id = $2`

	var p domain.Project
	err := r.pool.QueryRow(ctx, query, projectID, userID).Scan(
		&p.ID, &p.ColumnID, &p.Title, &p.Description, &p.Priority,
		&p.DueDate, &p.Position, &p.IsArchived, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProject rewrites the mutable fields of an owned project.
func (r *KanbanStore) UpdateProject(ctx context.Context, userID string, project domain.Project) error {
	const stmt = `UPDATE projects p
        SET title = $3, description = $4, priority = $5, due_date = $6, is_archived = $7, updated_at = $8
        FROM board_columns c
        JOIN boards b ON b.board_id = c.board_id
        JOIN life_areas a ON a.area_id = b.area_id
        WHERE p.project_id = $1 AND p.column_id = c.column_id AND a.user_id = $2`
	tag, err := r.pool.Exec(ctx, stmt,
		project.ID, userID, project.Title, project.Description, string(project.Priority),
		project.DueDate, project.IsArchived, project.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

// MoveProject relocates an owned project to an owned column at the given
// position. Both ends of the move are verified against the same user.
func (r *KanbanStore) MoveProject(ctx context.Context, userID, projectID, columnID string, position int) error {
	const stmt = `UPDATE projects p
        SET column_id = $3, position = $4, updated_at = NOW()
        FROM board_columns src
        JOIN boards sb ON sb.board_id = src.board_id
        JOIN life_areas sa ON sa.area_id = sb.area_id
        WHERE p.project_id = $1 AND p.column_id = src.column_id AND sa.user_id = $2
          AND EXISTS (
            SELECT 1 FROM board_columns dst
            JOIN boards db ON db.board_id = dst.board_id
            JOIN life_areas da ON da.area_id = db.area_id
            WHERE dst.column_id = $3 AND da.user_id = $2)`
	tag, err := r.pool.Exec(ctx, stmt, projectID, userID, columnID, position)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

// DeleteProject removes an owned project; its tasks and notes cascade.
func (r *KanbanStore) DeleteProject(ctx context.Context, userID, projectID string) error {
	const stmt = `DELETE FROM projects p
        USING board_columns c, boards b, life_areas a
        WHERE p.project_id = $1 AND p.column_id = c.column_id
          AND c.board_id = b.board_id AND b.area_id = a.area_id AND a.user_id = $2`
	tag, err := r.pool.Exec(ctx, stmt, projectID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}
