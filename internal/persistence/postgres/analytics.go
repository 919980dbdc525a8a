package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/lifeboard/internal/domain"
)

// AnalyticsStore runs the aggregation queries behind the dashboards.
type AnalyticsStore struct {
	pool *pgxpool.Pool
}

// CompletionOverTime counts completed tasks per day inside [from, to].
func (r *AnalyticsStore) CompletionOverTime(ctx context.Context, userID string, from, to time.Time) ([]domain.CompletionPoint, error) {
	const query = `SELECT to_char(t.completed_at::date, 'YYYY-MM-DD') AS day, COUNT(*)
        FROM tasks t
        JOIN projects p ON p.project_id = t.project_id
        JOIN board_columns c ON c.column_id = p.column_id
        JOIN boards b ON b.board_id = c.board_id
        JOIN life_areas a ON a.area_id = b.area_id
        WHERE a.user_id = $1 AND t.completed_at BETWEEN $2 AND $3
        GROUP BY day ORDER BY day`

	rows, err := r.pool.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	points := []domain.CompletionPoint{}
	for rows.Next() {
		var p domain.CompletionPoint
		if err := rows.Scan(&p.Date, &p.Count); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// AreaDistribution counts completed tasks per life area inside [from, to].
func (r *AnalyticsStore) AreaDistribution(ctx context.Context, userID string, from, to time.Time) ([]domain.AreaCount, error) {
	const query = `SELECT a.name, a.color, COUNT(t.task_id)
        FROM tasks t
        JOIN projects p ON p.project_id = t.project_id
        JOIN board_columns c ON c.column_id = p.column_id
        JOIN boards b ON b.board_id = c.board_id
        JOIN life_areas a ON a.area_id = b.area_id
        WHERE a.user_id = $1 AND t.completed_at BETWEEN $2 AND $3
        GROUP BY a.area_id, a.name, a.color
        ORDER BY COUNT(t.task_id) DESC`

	rows, err := r.pool.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := []domain.AreaCount{}
	for rows.Next() {
		var c domain.AreaCount
		if err := rows.Scan(&c.AreaName, &c.AreaColor, &c.TaskCount); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// CompletedCount counts completed tasks inside [from, to).
func (r *AnalyticsStore) CompletedCount(ctx context.Context, userID string, from, to time.Time) (int, error) {
	const query = `SELECT COUNT(*)
        FROM tasks t
        JOIN projects p ON p.project_id = t.project_id
        JOIN board_columns c ON c.column_id = p.column_id
        JOIN boards b ON b.board_id = c.board_id
        JOIN life_areas a ON a.area_id = b.area_id
        WHERE a.user_id = $1 AND t.completed_at >= $2 AND t.completed_at < $3`

	var count int
	if err := r.pool.QueryRow(ctx, query, userID, from, to).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// TimeByArea sums tracked seconds per life area inside [from, to]. Entries
// without a project fall outside any area and are excluded.
func (r *AnalyticsStore) TimeByArea(ctx context.Context, userID string, from, to time.Time) ([]domain.AreaDuration, error) {
	const query = `SELECT a.name, a.color, COALESCE(SUM(e.duration), 0)
        FROM time_entries e
        JOIN projects p ON p.project_id = e.project_id
        JOIN board_columns c ON c.column_id = p.column_id
        JOIN boards b ON b.board_id = c.board_id
        JOIN life_areas a ON a.area_id = b.area_id
        WHERE e.user_id = $1 AND e.duration IS NOT NULL AND e.start_time BETWEEN $2 AND $3
        GROUP BY a.area_id, a.name, a.color
        ORDER BY SUM(e.duration) DESC`

	rows, err := r.pool.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	durations := []domain.AreaDuration{}
	for rows.Next() {
		var d domain.AreaDuration
		if err := rows.Scan(&d.AreaName, &d.AreaColor, &d.Seconds); err != nil {
			return nil, err
		}
		durations = append(durations, d)
	}
	return durations, rows.Err()
}

// AreaActivity collects per-area completed tasks, habit logs, and tracked
// seconds inside [from, to]. Areas with no activity still appear with zeros
// so the balance chart shows every slice.
func (r *AnalyticsStore) AreaActivity(ctx context.Context, userID string, from, to time.Time) ([]domain.AreaActivity, error) {
	const query = `WITH task_counts AS (
            SELECT b.area_id, COUNT(*) AS tasks
            FROM tasks t
            JOIN projects p ON p.project_id = t.project_id
            JOIN board_columns c ON c.column_id = p.column_id
            JOIN boards b ON b.board_id = c.board_id
            WHERE t.status = 'done' AND t.completed_at BETWEEN $2 AND $3
            GROUP BY b.area_id
        ), habit_counts AS (
            SELECT h.area_id, COUNT(*) AS logs
            FROM habit_logs l
            JOIN habits h ON h.habit_id = l.habit_id
            WHERE h.area_id IS NOT NULL AND l.completed_at BETWEEN $2 AND $3
            GROUP BY h.area_id
        ), time_sums AS (
            SELECT b.area_id, SUM(e.duration) AS seconds
            FROM time_entries e
            JOIN projects p ON p.project_id = e.project_id
            JOIN board_columns c ON c.column_id = p.column_id
            JOIN boards b ON b.board_id = c.board_id
            WHERE e.duration IS NOT NULL AND e.start_time BETWEEN $2 AND $3
            GROUP BY b.area_id
        )
        SELECT a.area_id, a.name,
            COALESCE(tc.tasks, 0), COALESCE(hc.logs, 0), COALESCE(ts.seconds, 0)
        FROM life_areas a
        LEFT JOIN task_counts tc ON tc.area_id = a.area_id
        LEFT JOIN habit_counts hc ON hc.area_id = a.area_id
        LEFT JOIN time_sums ts ON ts.area_id = a.area_id
        WHERE a.user_id = $1 AND NOT a.is_archived
        ORDER BY a.position`

	rows, err := r.pool.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	activity := []domain.AreaActivity{}
	for rows.Next() {
		var a domain.AreaActivity
		if err := rows.Scan(&a.AreaID, &a.AreaName, &a.TaskCount, &a.HabitCount, &a.TrackedSeconds); err != nil {
			return nil, err
		}
		activity = append(activity, a)
	}
	return activity, rows.Err()
}

// OverdueByArea counts todo tasks past their due date, grouped by life area.
func (r *AnalyticsStore) OverdueByArea(ctx context.Context, userID string, now time.Time) ([]domain.AreaOverdue, error) {
	const query = `SELECT a.name, COUNT(t.task_id)
        FROM tasks t
        JOIN projects p ON p.project_id = t.project_id
        JOIN board_columns c ON c.column_id = p.column_id
        JOIN boards b ON b.board_id = c.board_id
        JOIN life_areas a ON a.area_id = b.area_id
        WHERE a.user_id = $1 AND t.status = 'todo' AND t.due_date < $2
        GROUP BY a.name
        ORDER BY COUNT(t.task_id) DESC`

	rows, err := r.pool.Query(ctx, query, userID, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := []domain.AreaOverdue{}
	for rows.Next() {
		var c domain.AreaOverdue
		if err := rows.Scan(&c.AreaName, &c.OverdueCount); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// CompletedTasksSince lists tasks completed after since, with their area.
func (r *AnalyticsStore) CompletedTasksSince(ctx context.Context, userID string, since time.Time) ([]domain.SummaryTask, error) {
	const query = `SELECT t.task_id, t.title, a.name, t.due_date, t.completed_at
        FROM tasks t
        JOIN projects p ON p.project_id = t.project_id
        JOIN board_columns c ON c.column_id = p.column_id
        JOIN boards b ON b.board_id = c.board_id
        JOIN life_areas a ON a.area_id = b.area_id
        WHERE a.user_id = $1 AND t.status = 'done' AND t.completed_at >= $2
        ORDER BY t.completed_at DESC`

	return r.summaryTasks(ctx, query, userID, since)
}

// OverdueTasks lists todo tasks past their due date, oldest due first.
func (r *AnalyticsStore) OverdueTasks(ctx context.Context, userID string, now time.Time) ([]domain.SummaryTask, error) {
	const query = `SELECT t.task_id, t.title, a.name, t.due_date, t.completed_at
        FROM tasks t
        JOIN projects p ON p.project_id = t.project_id
        JOIN board_columns c ON c.column_id = p.column_id
        JOIN boards b ON b.board_id = c.board_id
        JOIN life_areas a ON a.area_id = b.area_id
        WHERE a.user_id = $1 AND t.status = 'todo' AND t.due_date < $2
        ORDER BY t.due_date`

	return r.summaryTasks(ctx, query, userID, now)
}

func (r *AnalyticsStore) summaryTasks(ctx context.Context, query, userID string, cutoff time.Time) ([]domain.SummaryTask, error) {
	rows, err := r.pool.Query(ctx, query, userID, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []domain.SummaryTask{}
	for rows.Next() {
		var t domain.SummaryTask
		if err := rows.Scan(&t.TaskID, &t.Title, &t.AreaName, &t.DueDate, &t.CompletedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// HabitCompletionsSince counts logs per active habit since the cutoff.
// Habits without logs appear with a zero count.
func (r *AnalyticsStore) HabitCompletionsSince(ctx context.Context, userID string, since time.Time) ([]domain.HabitCompletionCount, error) {
	const query = `SELECT h.habit_id, h.name, COUNT(l.log_id)
        FROM habits h
        LEFT JOIN habit_logs l ON l.habit_id = h.habit_id AND l.completed_at >= $2
        WHERE h.user_id = $1 AND NOT h.is_archived
        GROUP BY h.habit_id, h.name
        ORDER BY h.name`

	rows, err := r.pool.Query(ctx, query, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := []domain.HabitCompletionCount{}
	for rows.Next() {
		var s domain.HabitCompletionCount
		if err := rows.Scan(&s.HabitID, &s.Name, &s.Count); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// RecentActivity interleaves the latest task and project updates.
func (r *AnalyticsStore) RecentActivity(ctx context.Context, userID string, limit int) ([]domain.ActivityItem, error) {
	const query = `SELECT item_id, kind, title, status, parent_id, parent_title, updated_at FROM (
            SELECT t.task_id AS item_id, 'task' AS kind, t.title, t.status,
                p.project_id AS parent_id, p.title AS parent_title, t.updated_at
            FROM tasks t
            JOIN projects p ON p.project_id = t.project_id
            JOIN board_columns c ON c.column_id = p.column_id
            JOIN boards b ON b.board_id = c.board_id
            JOIN life_areas a ON a.area_id = b.area_id
            WHERE a.user_id = $1
        UNION ALL
            SELECT p.project_id, 'project', p.title, 'active',
                c.column_id, c.name, p.updated_at
            FROM projects p
            JOIN board_columns c ON c.column_id = p.column_id
            JOIN boards b ON b.board_id = c.board_id
            JOIN life_areas a ON a.area_id = b.area_id
            WHERE a.user_id = $1
        ) recent
        ORDER BY updated_at DESC
        LIMIT $2`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.ActivityItem{}
	for rows.Next() {
		var item domain.ActivityItem
		if err := rows.Scan(&item.ID, &item.Kind, &item.Title, &item.Status, &item.ParentID, &item.ParentTitle, &item.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// OpenTaskCount counts the user's not-done tasks.
func (r *AnalyticsStore) OpenTaskCount(ctx context.Context, userID string) (int, error) {
	const query = `SELECT COUNT(*)
        FROM tasks t
        JOIN projects p ON p.project_id = t.project_id
        JOIN board_columns c ON c.column_id = p.column_id
        JOIN boards b ON b.board_id = c.board_id
        JOIN life_areas a ON a.area_id = b.area_id
        WHERE a.user_id = $1 AND t.status <> 'done'`

	var count int
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// OverdueTaskCount counts not-done tasks whose due date has passed.
func (r *AnalyticsStore) OverdueTaskCount(ctx context.Context, userID string, now time.Time) (int, error) {
	const query = `SELECT COUNT(*)
        FROM tasks t
        JOIN projects p ON p.project_id = t.project_id
        JOIN board_columns c ON c.column_id = p.column_id
        JOIN boards b ON b.board_id = c.board_id
        JOIN life_areas a ON a.area_id = b.area_id
        WHERE a.user_id = $1 AND t.status <> 'done' AND t.due_date < $2`

	var count int
	if err := r.pool.QueryRow(ctx, query, userID, now).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
