// Package api exposes the HTTP handlers for the lifeboard backend.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"example.com/lifeboard/internal/auth"
	"example.com/lifeboard/internal/domain"
)

// Handler coordinates HTTP requests with the domain services.
type Handler struct {
	kanban        *domain.KanbanService
	tasks         *domain.TaskService
	notes         *domain.NoteService
	habits        *domain.HabitService
	goals         *domain.GoalService
	timers        *domain.TimeService
	notifications *domain.NotificationService
	analytics     *domain.AnalyticsService
	searcher      *domain.SearchService
}

// NewHandler builds a Handler.
func NewHandler(
	kanban *domain.KanbanService,
	tasks *domain.TaskService,
	notes *domain.NoteService,
	habits *domain.HabitService,
	goals *domain.GoalService,
	timers *domain.TimeService,
	notifications *domain.NotificationService,
	analytics *domain.AnalyticsService,
	searcher *domain.SearchService,
) *Handler {
	return &Handler{
		kanban:        kanban,
		tasks:         tasks,
		notes:         notes,
		habits:        habits,
		goals:         goals,
		timers:        timers,
		notifications: notifications,
		analytics:     analytics,
		searcher:      searcher,
	}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/areas", h.createArea)
	mux.HandleFunc("GET /v1/areas", h.listAreas)
	mux.HandleFunc("PUT /v1/areas/{id}", h.updateArea)
	mux.HandleFunc("POST /v1/areas/{id}/archive", h.archiveArea)
	mux.HandleFunc("POST /v1/areas/reorder", h.reorderAreas)

	mux.HandleFunc("POST /v1/boards", h.createBoard)
	mux.HandleFunc("GET /v1/boards/{id}", h.getBoard)
	mux.HandleFunc("PUT /v1/boards/{id}", h.updateBoard)
	mux.HandleFunc("DELETE /v1/boards/{id}", h.deleteBoard)

	mux.HandleFunc("POST /v1/columns", h.createColumn)
	mux.HandleFunc("PUT /v1/columns/{id}", h.updateColumn)
	mux.HandleFunc("DELETE /v1/columns/{id}", h.deleteColumn)
	mux.HandleFunc("POST /v1/columns/reorder", h.reorderColumns)

	mux.HandleFunc("POST /v1/projects", h.createProject)
	mux.HandleFunc("PUT /v1/projects/{id}", h.updateProject)
	mux.HandleFunc("POST /v1/projects/{id}/move", h.moveProject)
	mux.HandleFunc("POST /v1/projects/{id}/archive", h.archiveProject)
	mux.HandleFunc("DELETE /v1/projects/{id}", h.deleteProject)
	mux.HandleFunc("GET /v1/projects/{id}/tasks", h.listTasks)
	mux.HandleFunc("GET /v1/projects/{id}/notes", h.listNotes)

	mux.HandleFunc("POST /v1/tasks", h.createTask)
	mux.HandleFunc("PUT /v1/tasks/{id}", h.updateTask)
	mux.HandleFunc("POST /v1/tasks/{id}/toggle", h.toggleTask)
	mux.HandleFunc("DELETE /v1/tasks/{id}", h.deleteTask)
	mux.HandleFunc("POST /v1/tasks/reorder", h.reorderTasks)
	mux.HandleFunc("GET /v1/tasks/dashboard", h.dashboardTasks)

	mux.HandleFunc("POST /v1/notes", h.createNote)
	mux.HandleFunc("PUT /v1/notes/{id}", h.updateNote)
	mux.HandleFunc("POST /v1/notes/{id}/pin", h.pinNote)
	mux.HandleFunc("DELETE /v1/notes/{id}", h.deleteNote)

	mux.HandleFunc("POST /v1/habits", h.createHabit)
	mux.HandleFunc("GET /v1/habits", h.listHabits)
	mux.HandleFunc("PUT /v1/habits/{id}", h.updateHabit)
	mux.HandleFunc("POST /v1/habits/{id}/archive", h.archiveHabit)
	mux.HandleFunc("DELETE /v1/habits/{id}", h.deleteHabit)
	mux.HandleFunc("POST /v1/habits/{id}/log", h.logHabit)
	mux.HandleFunc("POST /v1/habits/{id}/unlog", h.unlogHabit)

	mux.HandleFunc("POST /v1/goals", h.createGoal)
	mux.HandleFunc("GET /v1/goals", h.listGoals)
	mux.HandleFunc("PUT /v1/goals/{id}", h.updateGoal)
	mux.HandleFunc("POST /v1/goals/{id}/progress", h.updateGoalProgress)
	mux.HandleFunc("POST /v1/goals/{id}/archive", h.archiveGoal)
	mux.HandleFunc("DELETE /v1/goals/{id}", h.deleteGoal)

	mux.HandleFunc("POST /v1/time/start", h.startTimer)
	mux.HandleFunc("POST /v1/time/{id}/stop", h.stopTimer)
	mux.HandleFunc("GET /v1/time/running", h.runningTimer)
	mux.HandleFunc("GET /v1/time", h.listTimeEntries)
	mux.HandleFunc("DELETE /v1/time/{id}", h.deleteTimeEntry)

	mux.HandleFunc("GET /v1/notifications", h.listNotifications)
	mux.HandleFunc("POST /v1/notifications/{id}/read", h.markNotificationRead)
	mux.HandleFunc("POST /v1/notifications/read-all", h.markAllNotificationsRead)

	mux.HandleFunc("GET /v1/analytics/completion", h.completionOverTime)
	mux.HandleFunc("GET /v1/analytics/areas", h.areaDistribution)
	mux.HandleFunc("GET /v1/analytics/trends", h.productivityTrends)
	mux.HandleFunc("GET /v1/analytics/streaks", h.streakOverview)
	mux.HandleFunc("GET /v1/analytics/time", h.timeDistribution)
	mux.HandleFunc("GET /v1/analytics/balance", h.lifeBalance)
	mux.HandleFunc("GET /v1/analytics/overdue", h.overdueAnalysis)
	mux.HandleFunc("GET /v1/analytics/weekly-summary", h.weeklySummary)

	mux.HandleFunc("GET /v1/dashboard/stats", h.dashboardStats)
	mux.HandleFunc("GET /v1/dashboard/activity", h.recentActivity)

	mux.HandleFunc("GET /v1/search", h.search)

	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// requireScope resolves the authenticated user and enforces a scope. Writers
// implicitly hold the read scope.
func requireScope(w http.ResponseWriter, r *http.Request, scope string) (string, bool) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return "", false
	}

	allowed := claims.HasScope(scope)
	if !allowed && scope == auth.ScopeRead {
		allowed = claims.HasScope(auth.ScopeWrite)
	}
	if !allowed {
		writeError(w, http.StatusForbidden, "forbidden", "scope "+scope+" required")
		return "", false
	}
	return claims.UserID(), true
}

// decodeBody parses the JSON request body into dst.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return false
	}
	return true
}

// decodeOptionalBody is decodeBody for endpoints where an empty body is
// a valid request.
func decodeOptionalBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
	return false
}

// writeDomainError maps domain sentinel errors to HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrAreaNotFound),
		errors.Is(err, domain.ErrBoardNotFound),
		errors.Is(err, domain.ErrColumnNotFound),
		errors.Is(err, domain.ErrProjectNotFound),
		errors.Is(err, domain.ErrTaskNotFound),
		errors.Is(err, domain.ErrNoteNotFound),
		errors.Is(err, domain.ErrHabitNotFound),
		errors.Is(err, domain.ErrGoalNotFound),
		errors.Is(err, domain.ErrTimeEntryNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
