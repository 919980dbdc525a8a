package domain

import "time"

// Recurrence rules understood by the scheduler. The table is string-keyed so
// new cadences can be added without touching callers.
const (
	RecurrenceDaily  = "daily"
	RecurrenceWeekly = "weekly"
)

var recurrenceOffsets = map[string]int{
	RecurrenceDaily:  1,
	RecurrenceWeekly: 7,
}

// NextOccurrence computes the due date of the next occurrence for the given
// rule. Unknown rules return ok=false; callers must treat that as "no
// successor", not as a failure.
func NextOccurrence(rule string, from time.Time) (time.Time, bool) {
	days, ok := recurrenceOffsets[rule]
	if !ok {
		return time.Time{}, false
	}
	return from.AddDate(0, 0, days), true
}

// ScheduleNext builds the successor draft for a completed recurring task.
// The draft copies the scheduling fields, resets progress state, and advances
// the due date from the previous one (or now when the task had none). ok is
// false when the recurrence rule is unrecognized and no successor applies.
func ScheduleNext(task Task, now time.Time) (Task, bool) {
	from := now
	if task.DueDate != nil {
		from = *task.DueDate
	}

	due, ok := NextOccurrence(task.RecurrenceRule, from)
	if !ok {
		return Task{}, false
	}

	return Task{
		ProjectID:      task.ProjectID,
		Title:          task.Title,
		Status:         TaskStatusTodo,
		Priority:       task.Priority,
		DueDate:        &due,
		IsRecurring:    true,
		RecurrenceRule: task.RecurrenceRule,
		Position:       task.Position,
	}, true
}
