package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/lifeboard/internal/domain"
)

// SearchStore runs the global title search behind the command menu.
type SearchStore struct {
	pool *pgxpool.Pool
}

// SearchAll finds tasks, projects, and notes whose titles contain query,
// case-insensitively, scoped to the user's life areas. Each entity type
// returns at most limit hits.
func (r *SearchStore) SearchAll(ctx context.Context, userID, query string, limit int) (*domain.SearchResults, error) {
	pattern := "%" + query + "%"

	const taskQuery = `SELECT t.task_id, t.title, p.project_id, p.title, a.area_id
        FROM tasks t
        JOIN projects p ON p.project_id = t.project_id
        JOIN board_columns c ON c.column_id = p.column_id
        JOIN boards b ON b.board_id = c.board_id
        JOIN life_areas a ON a.area_id = b.area_id
        WHERE a.user_id = $1 AND t.title ILIKE $2
        LIMIT $3`

	tasks, err := r.searchHits(ctx, taskQuery, userID, pattern, limit, true)
	if err != nil {
		return nil, err
	}

	const projectQuery = `SELECT p.project_id, p.title, a.area_id
        FROM projects p
        JOIN board_columns c ON c.column_id = p.column_id
        JOIN boards b ON b.board_id = c.board_id
        JOIN life_areas a ON a.area_id = b.area_id
        WHERE a.user_id = $1 AND p.title ILIKE $2
        LIMIT $3`

	projects, err := r.searchHits(ctx, projectQuery, userID, pattern, limit, false)
	if err != nil {
		return nil, err
	}

	const noteQuery = `SELECT n.note_id, n.title, p.project_id, p.title, a.area_id
        FROM notes n
        JOIN projects p ON p.project_id = n.project_id
        JOIN board_columns c ON c.column_id = p.column_id
        JOIN boards b ON b.board_id = c.board_id
        JOIN life_areas a ON a.area_id = b.area_id
        WHERE a.user_id = $1 AND n.title ILIKE $2
        LIMIT $3`

	notes, err := r.searchHits(ctx, noteQuery, userID, pattern, limit, true)
	if err != nil {
		return nil, err
	}

	return &domain.SearchResults{Tasks: tasks, Projects: projects, Notes: notes}, nil
}

// searchHits scans hit rows; withProject selects the five-column shape used
// for tasks and notes, the three-column one for projects.
func (r *SearchStore) searchHits(ctx context.Context, query, userID, pattern string, limit int, withProject bool) ([]domain.SearchHit, error) {
	rows, err := r.pool.Query(ctx, query, userID, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hits := []domain.SearchHit{}
	for rows.Next() {
		var hit domain.SearchHit
		if withProject {
			err = rows.Scan(&hit.ID, &hit.Title, &hit.ProjectID, &hit.ProjectTitle, &hit.AreaID)
		} else {
			err = rows.Scan(&hit.ID, &hit.Title, &hit.AreaID)
		}
		if err != nil {
			return nil, err
		}
		hits = append(hits, hit)
	}
	return hits, rows.Err()
}
