package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/lifeboard/internal/domain"
)

// NoteStore persists project notes.
type NoteStore struct {
	pool *pgxpool.Pool
}

// Create inserts a note under an owned project.
func (r *NoteStore) Create(ctx context.Context, userID string, note domain.Note) error {
	const stmt = `INSERT INTO notes (note_id, project_id, title, content, is_pinned, created_at, updated_at)
        SELECT $1, p.project_id, $3, $4, $5, $6, $7
        FROM projects p
        JOIN board_columns c ON c.column_id = p.column_id
        JOIN boards b ON b.board_id = c.board_id
        JOIN life_areas a ON a.area_id = b.area_id
        WHERE p.project_id = $2 AND a.user_id = $8`
	tag, err := r.pool.Exec(ctx, stmt,
		note.ID, note.ProjectID, note.Title, note.Content, note.IsPinned,
		note.CreatedAt, note.UpdatedAt, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

// Get loads an owned note. Returns nil when absent.
func (r *NoteStore) Get(ctx context.Context, userID, noteID string) (*domain.Note, error) {
	const query = `SELECT n.note_id, n.project_id, n.title, n.content, n.is_pinned, n.created_at, n.updated_at
        FROM notes n
        JOIN projects p ON p.project_id = n.project_id
        JOIN board_columns c ON c.column_id = p.column_id
        JOIN boards b ON b.board_id = c.board_id
        JOIN life_areas a ON a.area_id = b.area_id
        WHERE n.note_id = $1 AND a.user_id = $2`

	var n domain.Note
	err := r.pool.QueryRow(ctx, query, noteID, userID).Scan(
		&n.ID, &n.ProjectID, &n.Title, &n.Content, &n.IsPinned, &n.CreatedAt, &n.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// Update rewrites the mutable fields of an owned note.
func (r *NoteStore) Update(ctx context.Context, userID string, note domain.Note) error {
	const stmt = `UPDATE notes n
        SET title = $3, content = $4, is_pinned = $5, updated_at = $6
        FROM projects p
        JOIN board_columns c ON c.column_id = p.column_id
        JOIN boards b ON b.board_id = c.board_id
        JOIN life_areas a ON a.area_id = b.area_id
        WHERE n.note_id = $1 AND n.project_id = p.project_id AND a.user_id = $2`
	tag, err := r.pool.Exec(ctx, stmt,
		note.ID, userID, note.Title, note.Content, note.IsPinned, note.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNoteNotFound
	}
	return nil
}

// Delete removes an owned note.
func (r *NoteStore) Delete(ctx context.Context, userID, noteID string) error {
	const stmt = `DELETE FROM notes n
        USING projects p, board_columns c, boards b, life_areas a
        WHERE n.note_id = $1 AND n.project_id = p.project_id AND p.column_id = c.column_id
          AND c.board_id = b.board_id AND b.area_id = a.area_id AND a.user_id = $2`
	tag, err := r.pool.Exec(ctx, stmt, noteID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNoteNotFound
	}
	return nil
}

// ListByProject returns a project's notes, pinned first, newest first within
// each group.
func (r *NoteStore) ListByProject(ctx context.Context, userID, projectID string) ([]domain.Note, error) {
	const query = `SELECT n.note_id, n.project_id, n.title, n.content, n.is_pinned, n.created_at, n.updated_at
        FROM notes n
        JOIN projects p ON p.project_id = n.project_id
        JOIN board_columns c ON c.column_id = p.column_id
        JOIN boards b ON b.board_id = c.board_id
        JOIN life_areas a ON a.area_id = b.area_id
        WHERE n.project_id = $1 AND a.user_id = $2
        ORDER BY n.is_pinned DESC, n.updated_at DESC`

	rows, err := r.pool.Query(ctx, query, projectID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := []domain.Note{}
	for rows.Next() {
		var n domain.Note
		if err := rows.Scan(&n.ID, &n.ProjectID, &n.Title, &n.Content, &n.IsPinned, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}
