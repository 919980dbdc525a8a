package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// migrations holds all schema migrations in order. Each migration is applied
// once and tracked via the schema_version table.
var migrations = []string{
	// Migration 1: kanban hierarchy and tasks.
	`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS life_areas (
		area_id UUID PRIMARY KEY,
		user_id UUID NOT NULL,
		name TEXT NOT NULL,
		icon TEXT NOT NULL DEFAULT '',
		color TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		position INTEGER NOT NULL DEFAULT 0,
		is_archived BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_life_areas_user ON life_areas(user_id);

	CREATE TABLE IF NOT EXISTS boards (
		board_id UUID PRIMARY KEY,
		area_id UUID NOT NULL REFERENCES life_areas(area_id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		position INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);

	CREATE TABLE IF NOT EXISTS board_columns (
		column_id UUID PRIMARY KEY,
		board_id UUID NOT NULL REFERENCES boards(board_id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		color TEXT NOT NULL DEFAULT '',
		position INTEGER NOT NULL DEFAULT 0,
		wip_limit INTEGER,
		is_collapsed BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);

	CREATE TABLE IF NOT EXISTS projects (
		project_id UUID PRIMARY KEY,
		column_id UUID NOT NULL REFERENCES board_columns(column_id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		priority TEXT NOT NULL DEFAULT 'medium' CHECK (priority IN ('low','medium','high','urgent')),
		due_date TIMESTAMPTZ,
		position INTEGER NOT NULL DEFAULT 0,
		is_archived BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tasks (
		task_id UUID PRIMARY KEY,
		project_id UUID NOT NULL REFERENCES projects(project_id) ON DELETE CASCADE,
		parent_task_id UUID,
		title TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'todo' CHECK (status IN ('todo','in_progress','done')),
		priority TEXT NOT NULL DEFAULT 'medium' CHECK (priority IN ('low','medium','high','urgent')),
		due_date TIMESTAMPTZ,
		completed_at TIMESTAMPTZ,
		position INTEGER NOT NULL DEFAULT 0,
		is_recurring BOOLEAN NOT NULL DEFAULT FALSE,
		recurrence_rule TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id);
	CREATE INDEX IF NOT EXISTS idx_tasks_due ON tasks(due_date) WHERE completed_at IS NULL;

	CREATE TABLE IF NOT EXISTS notes (
		note_id UUID PRIMARY KEY,
		project_id UUID NOT NULL REFERENCES projects(project_id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		content TEXT NOT NULL DEFAULT '',
		is_pinned BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);`,

	// Migration 2: habits, goals, time tracking, notifications.
	`CREATE TABLE IF NOT EXISTS habits (
		habit_id UUID PRIMARY KEY,
		user_id UUID NOT NULL,
		area_id UUID REFERENCES life_areas(area_id) ON DELETE SET NULL,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		frequency TEXT NOT NULL DEFAULT 'daily' CHECK (frequency IN ('daily','weekly','custom')),
		target_count INTEGER NOT NULL DEFAULT 1,
		is_archived BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_habits_user ON habits(user_id);

	CREATE TABLE IF NOT EXISTS habit_logs (
		log_id UUID PRIMARY KEY,
		habit_id UUID NOT NULL REFERENCES habits(habit_id) ON DELETE CASCADE,
		completed_at TIMESTAMPTZ NOT NULL,
		value INTEGER NOT NULL DEFAULT 1,
		note TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_habit_logs_habit ON habit_logs(habit_id, completed_at DESC);

	CREATE TABLE IF NOT EXISTS goals (
		goal_id UUID PRIMARY KEY,
		user_id UUID NOT NULL,
		parent_goal_id UUID,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		target_date TIMESTAMPTZ,
		target_value INTEGER,
		current_value INTEGER NOT NULL DEFAULT 0,
		unit TEXT NOT NULL DEFAULT '',
		is_archived BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);

	CREATE TABLE IF NOT EXISTS time_entries (
		entry_id UUID PRIMARY KEY,
		user_id UUID NOT NULL,
		project_id UUID REFERENCES projects(project_id) ON DELETE CASCADE,
		task_id UUID REFERENCES tasks(task_id) ON DELETE CASCADE,
		start_time TIMESTAMPTZ NOT NULL,
		end_time TIMESTAMPTZ,
		duration INTEGER,
		description TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_time_entries_user ON time_entries(user_id, start_time DESC);

	CREATE TABLE IF NOT EXISTS notifications (
		notification_id UUID PRIMARY KEY,
		user_id UUID NOT NULL,
		title TEXT NOT NULL,
		message TEXT NOT NULL,
		type TEXT NOT NULL,
		link TEXT NOT NULL DEFAULT '',
		read_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id, created_at DESC);`,

	// Migration 3: outbox, DLQ, and the consumed event log.
	`CREATE TABLE IF NOT EXISTS outbox (
		event_id BIGSERIAL PRIMARY KEY,
		user_id UUID NOT NULL,
		aggregate_type TEXT NOT NULL,
		aggregate_id UUID NOT NULL,
		event_type TEXT NOT NULL,
		topic TEXT NOT NULL,
		schema_subject TEXT NOT NULL,
		partition_key TEXT NOT NULL,
		payload JSONB NOT NULL,
		dedupe_key TEXT NOT NULL,
		claimed_at TIMESTAMPTZ,
		published_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_outbox_unpublished ON outbox(event_id) WHERE published_at IS NULL;

	CREATE TABLE IF NOT EXISTS outbox_dlq (
		dlq_id BIGSERIAL PRIMARY KEY,
		user_id UUID NOT NULL,
		event_id BIGINT NOT NULL,
		event_type TEXT NOT NULL,
		topic TEXT NOT NULL,
		payload JSONB NOT NULL,
		reason TEXT NOT NULL,
		aggregate_type TEXT NOT NULL,
		aggregate_id UUID NOT NULL,
		schema_subject TEXT NOT NULL,
		partition_key TEXT NOT NULL,
		retry_count INTEGER NOT NULL DEFAULT 0,
		last_attempt_at TIMESTAMPTZ,
		next_retry_at TIMESTAMPTZ,
		quarantined_at TIMESTAMPTZ,
		quarantine_reason TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS task_events (
		id BIGSERIAL PRIMARY KEY,
		event_type TEXT NOT NULL,
		user_id TEXT NOT NULL DEFAULT '',
		schema_id INTEGER NOT NULL DEFAULT 0,
		schema_subject TEXT NOT NULL DEFAULT '',
		topic TEXT NOT NULL,
		partition INTEGER NOT NULL DEFAULT 0,
		record_offset BIGINT NOT NULL DEFAULT 0,
		payload JSONB NOT NULL,
		received_at TIMESTAMPTZ NOT NULL
	);`,
}

// Migrate applies any outstanding migrations.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`); err != nil {
		return err
	}

	var current int
	if err := pool.QueryRow(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&current); err != nil {
		return err
	}

	for i := current; i < len(migrations); i++ {
		tx, err := pool.Begin(ctx)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, migrations[i]); err != nil {
			tx.Rollback(ctx)
			return err
		}
		if _, err := tx.Exec(ctx, `INSERT INTO schema_version (version) VALUES ($1)`, i+1); err != nil {
			tx.Rollback(ctx)
			return err
		}
		if err := tx.Commit(ctx); err != nil {
			return err
		}
	}
	return nil
}
