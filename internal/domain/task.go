// Package domain defines the entities and business logic for the lifeboard backend.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrTaskNotFound is returned when a task cannot be located for the user.
	ErrTaskNotFound = errors.New("task not found")
	// ErrProjectNotFound is returned when a project cannot be located for the user.
	ErrProjectNotFound = errors.New("project not found")
)

// TaskStatus represents the workflow state of a task.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

// Priority orders work items for display and triage.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Task is a unit of work inside a project. One level of nesting is allowed
// via ParentTaskID; subtasks never recur on their own.
type Task struct {
	ID             string
	ProjectID      string
	ParentTaskID   *string
	Title          string
	Status         TaskStatus
	Priority       Priority
	DueDate        *time.Time
	CompletedAt    *time.Time
	Position       int
	IsRecurring    bool
	RecurrenceRule string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TaskRepository captures task persistence operations. Every query is scoped
// to the owning user; a lookup for another user's row behaves as not found.
type TaskRepository interface {
	Create(ctx context.Context, userID string, task Task) error
	Get(ctx context.Context, userID, taskID string) (*Task, error)
	Update(ctx context.Context, userID string, task Task) error
	UpdateStatus(ctx context.Context, userID string, task Task) error
	Delete(ctx context.Context, userID, taskID string) error
	ListByProject(ctx context.Context, userID, projectID string) ([]Task, error)
	ListIncompleteDue(ctx context.Context, userID string) ([]Task, error)
	Reorder(ctx context.Context, userID string, orderedIDs []string) error
}

// TaskService orchestrates task workflows.
type TaskService struct {
	repo TaskRepository
}

// NewTaskService constructs a TaskService.
func NewTaskService(repo TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

// CreateTaskInput captures the payload from the API layer.
type CreateTaskInput struct {
	ProjectID      string
	ParentTaskID   *string
	Title          string
	Status         TaskStatus
	Priority       Priority
	DueDate        *time.Time
	IsRecurring    bool
	RecurrenceRule string
}

// CreateTask persists a new task.
func (s *TaskService) CreateTask(ctx context.Context, userID string, input CreateTaskInput) (*Task, error) {
	now := time.Now().UTC()
	task := Task{
		ID:             uuid.NewString(),
		ProjectID:      input.ProjectID,
		ParentTaskID:   input.ParentTaskID,
		Title:          input.Title,
		Status:         input.Status,
		Priority:       input.Priority,
		DueDate:        input.DueDate,
		IsRecurring:    input.IsRecurring,
		RecurrenceRule: input.RecurrenceRule,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if task.Status == "" {
		task.Status = TaskStatusTodo
	}
	if task.Priority == "" {
		task.Priority = PriorityMedium
	}

	if err := s.repo.Create(ctx, userID, task); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTaskInput carries mutable task fields.
type UpdateTaskInput struct {
	Title          string
	Status         TaskStatus
	Priority       Priority
	DueDate        *time.Time
	IsRecurring    bool
	RecurrenceRule string
}

// UpdateTask applies the edit to an owned task.
func (s *TaskService) UpdateTask(ctx context.Context, userID, taskID string, input UpdateTaskInput) (*Task, error) {
	task, err := s.repo.Get(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}

	task.Title = input.Title
	if input.Status != "" {
		task.Status = input.Status
	}
	if input.Priority != "" {
		task.Priority = input.Priority
	}
	task.DueDate = input.DueDate
	task.IsRecurring = input.IsRecurring
	task.RecurrenceRule = input.RecurrenceRule
	task.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, userID, *task); err != nil {
		return nil, err
	}
	return task, nil
}

// ToggleTask flips a task between done and todo. When a parentless recurring
// task transitions into done, a successor draft is appended as a second,
// independent write: the status update and the successor insert are not
// wrapped in one transaction, so two rapid toggles can double-create the
// successor. That matches the original behaviour and is covered by tests.
func (s *TaskService) ToggleTask(ctx context.Context, userID, taskID string) (*Task, *Task, error) {
	task, err := s.repo.Get(ctx, userID, taskID)
	if err != nil {
		return nil, nil, err
	}
	if task == nil {
		return nil, nil, ErrTaskNotFound
	}

	now := time.Now().UTC()
	if task.Status == TaskStatusDone {
		task.Status = TaskStatusTodo
		task.CompletedAt = nil
	} else {
		task.Status = TaskStatusDone
		completed := now
		task.CompletedAt = &completed
	}
	task.UpdatedAt = now

	if err := s.repo.UpdateStatus(ctx, userID, *task); err != nil {
		return nil, nil, err
	}

	var successor *Task
	if task.Status == TaskStatusDone && task.IsRecurring && task.ParentTaskID == nil {
		if draft, ok := ScheduleNext(*task, now); ok {
			draft.ID = uuid.NewString()
			draft.CreatedAt = now
			draft.UpdatedAt = now
			if err := s.repo.Create(ctx, userID, draft); err != nil {
				return task, nil, err
			}
			successor = &draft
		}
	}

	return task, successor, nil
}

// DeleteTask removes an owned task.
func (s *TaskService) DeleteTask(ctx context.Context, userID, taskID string) error {
	return s.repo.Delete(ctx, userID, taskID)
}

// ListTasks returns the ordered tasks for a project.
func (s *TaskService) ListTasks(ctx context.Context, userID, projectID string) ([]Task, error) {
	return s.repo.ListByProject(ctx, userID, projectID)
}

// ReorderTasks rewrites positions to match the provided id order.
func (s *TaskService) ReorderTasks(ctx context.Context, userID string, orderedIDs []string) error {
	return s.repo.Reorder(ctx, userID, orderedIDs)
}

// Dashboard groups incomplete due-dated tasks into triage buckets.
type Dashboard struct {
	Overdue  []Task
	DueToday []Task
	Upcoming []Task
}

// DashboardTasks classifies the user's incomplete tasks by due date relative
// to local midnight boundaries.
func (s *TaskService) DashboardTasks(ctx context.Context, userID string, now time.Time) (*Dashboard, error) {
	tasks, err := s.repo.ListIncompleteDue(ctx, userID)
	if err != nil {
		return nil, err
	}

	todayStart := startOfDay(now)
	tomorrowStart := todayStart.AddDate(0, 0, 1)

	dashboard := &Dashboard{}
	for _, task := range tasks {
		if task.DueDate == nil {
			continue
		}
		due := *task.DueDate
		switch {
		case due.Before(todayStart):
			dashboard.Overdue = append(dashboard.Overdue, task)
		case due.Before(tomorrowStart):
			dashboard.DueToday = append(dashboard.DueToday, task)
		default:
			dashboard.Upcoming = append(dashboard.Upcoming, task)
		}
	}
	return dashboard, nil
}
