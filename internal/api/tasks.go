package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"example.com/lifeboard/internal/auth"
	"example.com/lifeboard/internal/domain"
)

// TaskRequest is the payload for creating and updating tasks.
type TaskRequest struct {
	ProjectID      string     `json:"project_id,omitempty"`
	ParentTaskID   *string    `json:"parent_task_id,omitempty"`
	Title          string     `json:"title"`
	Status         string     `json:"status"`
	Priority       string     `json:"priority"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	IsRecurring    bool       `json:"is_recurring"`
	RecurrenceRule string     `json:"recurrence_rule,omitempty"`
}

// Validate ensures request correctness.
func (r TaskRequest) Validate(forCreate bool) error {
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("title is required")
	}
	if forCreate && strings.TrimSpace(r.ProjectID) == "" {
		return errors.New("project_id is required")
	}
	switch domain.TaskStatus(r.Status) {
	case "", domain.TaskStatusTodo, domain.TaskStatusInProgress, domain.TaskStatusDone:
	default:
		return errors.New("status must be one of todo, in_progress, done")
	}
	if err := validPriority(r.Priority); err != nil {
		return err
	}
	if r.IsRecurring && strings.TrimSpace(r.RecurrenceRule) == "" {
		return errors.New("recurrence_rule is required for recurring tasks")
	}
	return nil
}

// TaskView exposes a task.
type TaskView struct {
	TaskID         string     `json:"task_id"`
	ProjectID      string     `json:"project_id"`
	ParentTaskID   *string    `json:"parent_task_id,omitempty"`
	Title          string     `json:"title"`
	Status         string     `json:"status"`
	Priority       string     `json:"priority"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	Position       int        `json:"position"`
	IsRecurring    bool       `json:"is_recurring"`
	RecurrenceRule string     `json:"recurrence_rule,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func toTaskView(task domain.Task) TaskView {
	return TaskView{
		TaskID:         task.ID,
		ProjectID:      task.ProjectID,
		ParentTaskID:   task.ParentTaskID,
		Title:          task.Title,
		Status:         string(task.Status),
		Priority:       string(task.Priority),
		DueDate:        task.DueDate,
		CompletedAt:    task.CompletedAt,
		Position:       task.Position,
		IsRecurring:    task.IsRecurring,
		RecurrenceRule: task.RecurrenceRule,
		CreatedAt:      task.CreatedAt,
		UpdatedAt:      task.UpdatedAt,
	}
}

func toTaskViews(tasks []domain.Task) []TaskView {
	views := make([]TaskView, 0, len(tasks))
	for _, task := range tasks {
		views = append(views, toTaskView(task))
	}
	return views
}

func (h *Handler) createTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireScope(w, r, auth.ScopeWrite)
	if !ok {
		return
	}

	var req TaskRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(true); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	task, err := h.tasks.CreateTask(r.Context(), userID, domain.CreateTaskInput{
		ProjectID:      req.ProjectID,
		ParentTaskID:   req.ParentTaskID,
		Title:          req.Title,
		Status:         domain.TaskStatus(req.Status),
		Priority:       domain.Priority(req.Priority),
		DueDate:        req.DueDate,
		IsRecurring:    req.IsRecurring,
		RecurrenceRule: req.RecurrenceRule,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTaskView(*task))
}

func (h *Handler) updateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireScope(w, r, auth.ScopeWrite)
	if !ok {
		return
	}

	var req TaskRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(false); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	task, err := h.tasks.UpdateTask(r.Context(), userID, r.PathValue("id"), domain.UpdateTaskInput{
		Title:          req.Title,
		Status:         domain.TaskStatus(req.Status),
		Priority:       domain.Priority(req.Priority),
		DueDate:        req.DueDate,
		IsRecurring:    req.IsRecurring,
		RecurrenceRule: req.RecurrenceRule,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskView(*task))
}

// ToggleTaskResponse carries the flipped task plus the recurrence successor
// when completing a recurring task spawned one.
type ToggleTaskResponse struct {
	Task      TaskView  `json:"task"`
	Successor *TaskView `json:"successor,omitempty"`
}

func (h *Handler) toggleTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireScope(w, r, auth.ScopeWrite)
	if !ok {
		return
	}

	task, successor, err := h.tasks.ToggleTask(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := ToggleTaskResponse{Task: toTaskView(*task)}
	if successor != nil {
		view := toTaskView(*successor)
		resp.Successor = &view
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) deleteTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireScope(w, r, auth.ScopeWrite)
	if !ok {
		return
	}

	if err := h.tasks.DeleteTask(r.Context(), userID, r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireScope(w, r, auth.ScopeRead)
	if !ok {
		return
	}

	tasks, err := h.tasks.ListTasks(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": toTaskViews(tasks)})
}

func (h *Handler) reorderTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireScope(w, r, auth.ScopeWrite)
	if !ok {
		return
	}

	var req ReorderRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	if err := h.tasks.ReorderTasks(r.Context(), userID, req.OrderedIDs); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DashboardView buckets incomplete due-dated tasks for the home screen.
type DashboardView struct {
	Overdue  []TaskView `json:"overdue"`
	DueToday []TaskView `json:"due_today"`
	Upcoming []TaskView `json:"upcoming"`
}

func (h *Handler) dashboardTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireScope(w, r, auth.ScopeRead)
	if !ok {
		return
	}

	dash, err := h.tasks.DashboardTasks(r.Context(), userID, time.Now().UTC())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DashboardView{
		Overdue:  toTaskViews(dash.Overdue),
		DueToday: toTaskViews(dash.DueToday),
		Upcoming: toTaskViews(dash.Upcoming),
	})
}
