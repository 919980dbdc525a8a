package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPlanNotificationsOverdueTask(t *testing.T) {
	now := time.Date(2026, time.February, 20, 10, 0, 0, 0, time.UTC)
	due := now.AddDate(0, 0, -1)
	tasks := []Task{{ID: "task-1", Title: "File taxes", DueDate: &due}}

	drafts := PlanNotifications("user-1", tasks, nil, now)
	require.Len(t, drafts, 1)
	require.Equal(t, NotificationOverdue, drafts[0].Type)
	require.Equal(t, "/tasks/task-1", drafts[0].Link)
	require.Equal(t, "user-1", drafts[0].UserID)
}

func TestPlanNotificationsOverdueIdempotentWithinDay(t *testing.T) {
	now := time.Date(2026, time.February, 20, 10, 0, 0, 0, time.UTC)
	due := now.AddDate(0, 0, -1)
	tasks := []Task{{ID: "task-1", Title: "File taxes", DueDate: &due}}

	existing := []Notification{{
		Type:      NotificationOverdue,
		Link:      "/tasks/task-1",
		CreatedAt: time.Date(2026, time.February, 20, 8, 0, 0, 0, time.UTC),
	}}

	drafts := PlanNotifications("user-1", tasks, existing, now)
	require.Empty(t, drafts)
}

func TestPlanNotificationsOverdueRenotifiesNextDay(t *testing.T) {
	now := time.Date(2026, time.February, 20, 10, 0, 0, 0, time.UTC)
	due := now.AddDate(0, 0, -2)
	tasks := []Task{{ID: "task-1", Title: "File taxes", DueDate: &due}}

	// Yesterday's overdue alert does not suppress today's.
	existing := []Notification{{
		Type:      NotificationOverdue,
		Link:      "/tasks/task-1",
		CreatedAt: time.Date(2026, time.February, 19, 8, 0, 0, 0, time.UTC),
	}}

	drafts := PlanNotifications("user-1", tasks, existing, now)
	require.Len(t, drafts, 1)
}

func TestPlanNotificationsDueToday(t *testing.T) {
	now := time.Date(2026, time.February, 20, 10, 0, 0, 0, time.UTC)
	due := time.Date(2026, time.February, 20, 18, 0, 0, 0, time.UTC)
	tasks := []Task{{ID: "task-2", Title: "Call dentist", DueDate: &due}}

	drafts := PlanNotifications("user-1", tasks, nil, now)
	require.Len(t, drafts, 1)
	require.Equal(t, NotificationDueToday, drafts[0].Type)
}

func TestPlanNotificationsDueTodayDedupedWithoutDayBound(t *testing.T) {
	now := time.Date(2026, time.February, 20, 10, 0, 0, 0, time.UTC)
	due := time.Date(2026, time.February, 20, 18, 0, 0, 0, time.UTC)
	tasks := []Task{{ID: "task-2", Title: "Call dentist", DueDate: &due}}

	// A due_today alert from any prior day suppresses forever.
	existing := []Notification{{
		Type:      NotificationDueToday,
		Link:      "/tasks/task-2",
		CreatedAt: time.Date(2026, time.January, 3, 8, 0, 0, 0, time.UTC),
	}}

	drafts := PlanNotifications("user-1", tasks, existing, now)
	require.Empty(t, drafts)
}

func TestPlanNotificationsSkipsCompletedAndUndatedTasks(t *testing.T) {
	now := time.Date(2026, time.February, 20, 10, 0, 0, 0, time.UTC)
	due := now.AddDate(0, 0, -1)
	completed := now.Add(-time.Hour)

	tasks := []Task{
		{ID: "task-1", Title: "Done already", DueDate: &due, CompletedAt: &completed},
		{ID: "task-2", Title: "No due date"},
	}

	drafts := PlanNotifications("user-1", tasks, nil, now)
	require.Empty(t, drafts)
}

func TestPlanNotificationsFutureDueDateIsQuiet(t *testing.T) {
	now := time.Date(2026, time.February, 20, 10, 0, 0, 0, time.UTC)
	due := now.AddDate(0, 0, 3)
	tasks := []Task{{ID: "task-3", Title: "Plan trip", DueDate: &due}}

	drafts := PlanNotifications("user-1", tasks, nil, now)
	require.Empty(t, drafts)
}

func TestPlanNotificationsMixedBatch(t *testing.T) {
	now := time.Date(2026, time.February, 20, 10, 0, 0, 0, time.UTC)
	overdue := now.AddDate(0, 0, -5)
	today := time.Date(2026, time.February, 20, 23, 0, 0, 0, time.UTC)

	tasks := []Task{
		{ID: "task-1", Title: "Overdue", DueDate: &overdue},
		{ID: "task-2", Title: "Today", DueDate: &today},
	}

	drafts := PlanNotifications("user-1", tasks, nil, now)
	require.Len(t, drafts, 2)
	require.Equal(t, NotificationOverdue, drafts[0].Type)
	require.Equal(t, NotificationDueToday, drafts[1].Type)
}
