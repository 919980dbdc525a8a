package domain

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stubTaskRepo struct {
	tasks   map[string]Task
	created []Task
	updated []Task
}

func newStubTaskRepo(tasks ...Task) *stubTaskRepo {
	repo := &stubTaskRepo{tasks: make(map[string]Task)}
	for _, task := range tasks {
		repo.tasks[task.ID] = task
	}
	return repo
}

func (r *stubTaskRepo) Create(_ context.Context, _ string, task Task) error {
	r.created = append(r.created, task)
	r.tasks[task.ID] = task
	return nil
}

func (r *stubTaskRepo) Get(_ context.Context, _ string, taskID string) (*Task, error) {
	task, ok := r.tasks[taskID]
	if !ok {
		return nil, nil
	}
	return &task, nil
}

func (r *stubTaskRepo) Update(_ context.Context, _ string, task Task) error {
	r.updated = append(r.updated, task)
	r.tasks[task.ID] = task
	return nil
}

func (r *stubTaskRepo) UpdateStatus(_ context.Context, _ string, task Task) error {
	r.updated = append(r.updated, task)
	r.tasks[task.ID] = task
	return nil
}

func (r *stubTaskRepo) Delete(_ context.Context, _ string, taskID string) error {
	delete(r.tasks, taskID)
	return nil
}

func (r *stubTaskRepo) ListByProject(_ context.Context, _, _ string) ([]Task, error) {
	return nil, nil
}

func (r *stubTaskRepo) ListIncompleteDue(_ context.Context, _ string) ([]Task, error) {
	out := make([]Task, 0, len(r.tasks))
	for _, task := range r.tasks {
		if task.CompletedAt == nil && task.DueDate != nil {
			out = append(out, task)
		}
	}
	return out, nil
}

func (r *stubTaskRepo) Reorder(_ context.Context, _ string, _ []string) error { return nil }

func TestToggleTaskCompletesAndSchedulesSuccessor(t *testing.T) {
	due := time.Date(2026, time.February, 20, 0, 0, 0, 0, time.UTC)
	repo := newStubTaskRepo(Task{
		ID:             "task-1",
		ProjectID:      "project-1",
		Title:          "Water the plants",
		Status:         TaskStatusTodo,
		Priority:       PriorityMedium,
		DueDate:        &due,
		IsRecurring:    true,
		RecurrenceRule: RecurrenceDaily,
	})
	service := NewTaskService(repo)

	updated, successor, err := service.ToggleTask(context.Background(), "user-1", "task-1")
	require.NoError(t, err)

	require.Equal(t, TaskStatusDone, updated.Status)
	require.NotNil(t, updated.CompletedAt)

	require.NotNil(t, successor)
	require.Equal(t, TaskStatusTodo, successor.Status)
	require.Nil(t, successor.CompletedAt)
	require.Equal(t, "Water the plants", successor.Title)
	require.Equal(t, time.Date(2026, time.February, 21, 0, 0, 0, 0, time.UTC), *successor.DueDate)

	// The update and the insert are two independent writes.
	require.Len(t, repo.updated, 1)
	require.Len(t, repo.created, 1)
}

func TestToggleTaskBackToTodoDoesNotRecur(t *testing.T) {
	completed := time.Now().UTC()
	repo := newStubTaskRepo(Task{
		ID:             "task-1",
		ProjectID:      "project-1",
		Title:          "Water the plants",
		Status:         TaskStatusDone,
		CompletedAt:    &completed,
		IsRecurring:    true,
		RecurrenceRule: RecurrenceDaily,
	})
	service := NewTaskService(repo)

	updated, successor, err := service.ToggleTask(context.Background(), "user-1", "task-1")
	require.NoError(t, err)

	require.Equal(t, TaskStatusTodo, updated.Status)
	require.Nil(t, updated.CompletedAt)
	require.Nil(t, successor)
	require.Empty(t, repo.created)
}

func TestToggleTaskSubtaskDoesNotRecur(t *testing.T) {
	parent := "task-0"
	repo := newStubTaskRepo(Task{
		ID:             "task-1",
		ProjectID:      "project-1",
		ParentTaskID:   &parent,
		Title:          "Subtask",
		Status:         TaskStatusTodo,
		IsRecurring:    true,
		RecurrenceRule: RecurrenceDaily,
	})
	service := NewTaskService(repo)

	_, successor, err := service.ToggleTask(context.Background(), "user-1", "task-1")
	require.NoError(t, err)
	require.Nil(t, successor)
	require.Empty(t, repo.created)
}

func TestToggleTaskUnknownRuleIsSilentNoOp(t *testing.T) {
	repo := newStubTaskRepo(Task{
		ID:             "task-1",
		ProjectID:      "project-1",
		Title:          "Pay rent",
		Status:         TaskStatusTodo,
		IsRecurring:    true,
		RecurrenceRule: "monthly",
	})
	service := NewTaskService(repo)

	updated, successor, err := service.ToggleTask(context.Background(), "user-1", "task-1")
	require.NoError(t, err)
	require.Equal(t, TaskStatusDone, updated.Status)
	require.Nil(t, successor)
	require.Empty(t, repo.created)
}

type failingCreateRepo struct {
	*stubTaskRepo
	createErr error
}

func (r *failingCreateRepo) Create(ctx context.Context, userID string, task Task) error {
	if r.createErr != nil {
		return r.createErr
	}
	return r.stubTaskRepo.Create(ctx, userID, task)
}

// The status update and the successor insert are two independent writes; a
// failing insert leaves the completion already applied.
func TestToggleTaskStatusSurvivesFailedSuccessorInsert(t *testing.T) {
	due := time.Date(2026, time.February, 20, 0, 0, 0, 0, time.UTC)
	stub := newStubTaskRepo(Task{
		ID:             "task-1",
		ProjectID:      "project-1",
		Title:          "Water plants",
		Status:         TaskStatusTodo,
		DueDate:        &due,
		IsRecurring:    true,
		RecurrenceRule: RecurrenceDaily,
	})
	repo := &failingCreateRepo{stubTaskRepo: stub, createErr: context.DeadlineExceeded}
	service := NewTaskService(repo)

	updated, successor, err := service.ToggleTask(context.Background(), "user-1", "task-1")
	require.Error(t, err)
	require.Nil(t, successor)
	require.NotNil(t, updated)
	require.Equal(t, TaskStatusDone, updated.Status)
	require.Len(t, stub.updated, 1)
	require.Equal(t, TaskStatusDone, stub.tasks["task-1"].Status)
}

func TestToggleTaskNotFound(t *testing.T) {
	service := NewTaskService(newStubTaskRepo())

	_, _, err := service.ToggleTask(context.Background(), "user-1", "missing")
	require.ErrorIs(t, err, ErrTaskNotFound)
}

func TestDashboardTasksClassification(t *testing.T) {
	now := time.Date(2026, time.February, 20, 10, 0, 0, 0, time.UTC)
	overdue := now.AddDate(0, 0, -2)
	today := time.Date(2026, time.February, 20, 18, 0, 0, 0, time.UTC)
	upcoming := now.AddDate(0, 0, 4)

	repo := newStubTaskRepo(
		Task{ID: "task-1", DueDate: &overdue},
		Task{ID: "task-2", DueDate: &today},
		Task{ID: "task-3", DueDate: &upcoming},
	)
	service := NewTaskService(repo)

	dashboard, err := service.DashboardTasks(context.Background(), "user-1", now)
	require.NoError(t, err)
	require.Len(t, dashboard.Overdue, 1)
	require.Len(t, dashboard.DueToday, 1)
	require.Len(t, dashboard.Upcoming, 1)
}
