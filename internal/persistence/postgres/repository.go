// Package postgres provides pgx-backed persistence for the lifeboard backend,
// including transactional outbox inserts for domain events.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository bundles the per-entity stores over one shared connection pool.
// Domain repository interfaces have overlapping method names, so each entity
// gets its own store type.
type Repository struct {
	pool *pgxpool.Pool

	Kanban        *KanbanStore
	Tasks         *TaskStore
	Habits        *HabitStore
	Notes         *NoteStore
	Goals         *GoalStore
	TimeEntries   *TimeEntryStore
	Notifications *NotificationStore
	Analytics     *AnalyticsStore
	Search        *SearchStore
}

// NewRepository constructs a Repository and its entity stores.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{
		pool:          pool,
		Kanban:        &KanbanStore{pool: pool},
		Tasks:         &TaskStore{pool: pool},
		Habits:        &HabitStore{pool: pool},
		Notes:         &NoteStore{pool: pool},
		Goals:         &GoalStore{pool: pool},
		TimeEntries:   &TimeEntryStore{pool: pool},
		Notifications: &NotificationStore{pool: pool},
		Analytics:     &AnalyticsStore{pool: pool},
		Search:        &SearchStore{pool: pool},
	}
}

// Pool exposes the underlying connection pool for components that manage
// their own queries (outbox dispatcher, notifier scan).
func (r *Repository) Pool() *pgxpool.Pool {
	return r.pool
}

func nullIfEmpty(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}

// EventMetadata describes how to route an outbox event.
type EventMetadata struct {
	Topic         string
	SchemaSubject string
}

var eventCatalog = map[string]EventMetadata{
	"task.created": {
		Topic:         "task_events",
		SchemaSubject: "task_events-value",
	},
	"task.completed": {
		Topic:         "task_events",
		SchemaSubject: "task_events-value",
	},
	"habit.logged": {
		Topic:         "habit_events",
		SchemaSubject: "habit_events-value",
	},
}

// insertOutbox records a domain event in the outbox table within the caller's
// transaction so the event is only published if the domain write commits.
func insertOutbox(ctx context.Context, tx pgx.Tx, userID, aggregateType, aggregateID, eventType string, occurredAt time.Time, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	meta, ok := eventCatalog[eventType]
	if !ok {
		return fmt.Errorf("unknown event type: %s", eventType)
	}

	dedupeKey := fmt.Sprintf("%s:%s:%d", aggregateID, eventType, occurredAt.UnixNano())

	const stmt = `INSERT INTO outbox (user_id, aggregate_type, aggregate_id, event_type, topic, schema_subject, partition_key, payload, dedupe_key)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`

	_, err = tx.Exec(ctx, stmt,
		userID,
		aggregateType,
		aggregateID,
		eventType,
		meta.Topic,
		meta.SchemaSubject,
		userID,
		body,
		dedupeKey,
	)
	return err
}
