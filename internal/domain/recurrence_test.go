package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNextOccurrenceDaily(t *testing.T) {
	from := time.Date(2026, time.February, 20, 0, 0, 0, 0, time.UTC)

	next, ok := NextOccurrence(RecurrenceDaily, from)
	require.True(t, ok)
	require.Equal(t, time.Date(2026, time.February, 21, 0, 0, 0, 0, time.UTC), next)
}

func TestNextOccurrenceWeekly(t *testing.T) {
	from := time.Date(2026, time.February, 20, 0, 0, 0, 0, time.UTC)

	next, ok := NextOccurrence(RecurrenceWeekly, from)
	require.True(t, ok)
	require.Equal(t, time.Date(2026, time.February, 27, 0, 0, 0, 0, time.UTC), next)
}

func TestNextOccurrenceUnknownRule(t *testing.T) {
	from := time.Date(2026, time.February, 20, 0, 0, 0, 0, time.UTC)

	_, ok := NextOccurrence("monthly", from)
	require.False(t, ok)
}

func TestScheduleNextCopiesFieldsAndResetsState(t *testing.T) {
	due := time.Date(2026, time.February, 20, 0, 0, 0, 0, time.UTC)
	completed := due.Add(9 * time.Hour)
	task := Task{
		ID:             "task-1",
		ProjectID:      "project-1",
		Title:          "Water the plants",
		Status:         TaskStatusDone,
		Priority:       PriorityHigh,
		DueDate:        &due,
		CompletedAt:    &completed,
		IsRecurring:    true,
		RecurrenceRule: RecurrenceDaily,
		Position:       3,
	}

	draft, ok := ScheduleNext(task, completed)
	require.True(t, ok)

	require.Equal(t, "project-1", draft.ProjectID)
	require.Equal(t, "Water the plants", draft.Title)
	require.Equal(t, PriorityHigh, draft.Priority)
	require.Equal(t, TaskStatusTodo, draft.Status)
	require.Nil(t, draft.CompletedAt)
	require.True(t, draft.IsRecurring)
	require.Equal(t, RecurrenceDaily, draft.RecurrenceRule)
	require.NotNil(t, draft.DueDate)
	require.Equal(t, time.Date(2026, time.February, 21, 0, 0, 0, 0, time.UTC), *draft.DueDate)
}

func TestScheduleNextWithoutDueDateAdvancesFromNow(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	task := Task{
		ProjectID:      "project-1",
		Title:          "Weekly review",
		IsRecurring:    true,
		RecurrenceRule: RecurrenceWeekly,
	}

	draft, ok := ScheduleNext(task, now)
	require.True(t, ok)
	require.Equal(t, now.AddDate(0, 0, 7), *draft.DueDate)
}

func TestScheduleNextUnknownRuleYieldsNoSuccessor(t *testing.T) {
	task := Task{
		ProjectID:      "project-1",
		Title:          "Pay rent",
		IsRecurring:    true,
		RecurrenceRule: "monthly",
	}

	_, ok := ScheduleNext(task, time.Now())
	require.False(t, ok)
}
