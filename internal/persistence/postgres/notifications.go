package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/lifeboard/internal/domain"
)

// NotificationStore persists the notification feed.
type NotificationStore struct {
	pool *pgxpool.Pool
}

// Insert persists a planned notification.
func (r *NotificationStore) Insert(ctx context.Context, draft domain.NotificationDraft) error {
	const stmt = `INSERT INTO notifications (notification_id, user_id, title, message, type, link)
        VALUES ($1,$2,$3,$4,$5,$6)`
	_, err := r.pool.Exec(ctx, stmt,
		uuid.NewString(), draft.UserID, draft.Title, draft.Message, string(draft.Type), draft.Link)
	return err
}

// ListByUser returns the user's notifications, unread first, newest first
// within each group.
func (r *NotificationStore) ListByUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	const query = `SELECT notification_id, user_id, title, message, type, link, read_at, created_at
        FROM notifications WHERE user_id = $1
        ORDER BY (read_at IS NULL) DESC, created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := []domain.Notification{}
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type,
			&n.Link, &n.ReadAt, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkRead stamps read_at on one unread notification.
func (r *NotificationStore) MarkRead(ctx context.Context, userID, notificationID string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE notifications SET read_at = NOW() WHERE notification_id = $1 AND user_id = $2 AND read_at IS NULL`,
		notificationID, userID)
	return err
}

// MarkAllRead stamps read_at on every unread notification of the user.
func (r *NotificationStore) MarkAllRead(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE notifications SET read_at = NOW() WHERE user_id = $1 AND read_at IS NULL`, userID)
	return err
}

// UsersWithDueTasks returns the distinct owners of incomplete tasks whose due
// date has arrived. Used by the notifier scan to bound its work.
func (r *NotificationStore) UsersWithDueTasks(ctx context.Context, before time.Time) ([]string, error) {
	const query = `SELECT DISTINCT a.user_id
        FROM tasks t
        JOIN projects p ON p.project_id = t.project_id
        JOIN board_columns c ON c.column_id = p.column_id
        JOIN boards b ON b.board_id = c.board_id
        JOIN life_areas a ON a.area_id = b.area_id
        WHERE t.status <> 'done' AND t.due_date IS NOT NULL AND t.due_date < $1`

	rows, err := r.pool.Query(ctx, query, before)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		users = append(users, id)
	}
	return users, rows.Err()
}
