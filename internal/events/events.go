// Package events defines event payloads published through the outbox.
package events

import "time"

// TaskCreated is emitted when a new task row is accepted.
type TaskCreated struct {
	TaskID    string     `json:"task_id"`
	UserID    string     `json:"user_id"`
	ProjectID string     `json:"project_id"`
	Title     string     `json:"title"`
	Priority  string     `json:"priority"`
	DueDate   *time.Time `json:"due_date,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// TaskCompleted tracks a task transitioning into done.
type TaskCompleted struct {
	TaskID      string    `json:"task_id"`
	UserID      string    `json:"user_id"`
	ProjectID   string    `json:"project_id"`
	CompletedAt time.Time `json:"completed_at"`
	Recurring   bool      `json:"recurring"`
}

// HabitLogged is emitted when a habit completion is recorded for a day.
type HabitLogged struct {
	HabitID     string    `json:"habit_id"`
	UserID      string    `json:"user_id"`
	CompletedAt time.Time `json:"completed_at"`
	Value       int       `json:"value"`
}
