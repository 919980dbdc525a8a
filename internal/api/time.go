package api

import (
	"net/http"
	"strconv"
	"time"

	"example.com/lifeboard/internal/auth"
	"example.com/lifeboard/internal/domain"
	"example.com/lifeboard/internal/persistence"
)

const (
	defaultTimeEntryLimit = 50
	maxTimeEntryLimit     = 200
)

// StartTimerRequest opens a new time entry.
type StartTimerRequest struct {
	ProjectID   *string `json:"project_id,omitempty"`
	TaskID      *string `json:"task_id,omitempty"`
	Description string  `json:"description"`
}

// TimeEntryView exposes a time entry.
type TimeEntryView struct {
	EntryID     string     `json:"entry_id"`
	ProjectID   *string    `json:"project_id,omitempty"`
	TaskID      *string    `json:"task_id,omitempty"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	Duration    *int       `json:"duration_seconds,omitempty"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
}

func toTimeEntryView(entry domain.TimeEntry) TimeEntryView {
	return TimeEntryView{
		EntryID:     entry.ID,
		ProjectID:   entry.ProjectID,
		TaskID:      entry.TaskID,
		StartTime:   entry.StartTime,
		EndTime:     entry.EndTime,
		Duration:    entry.Duration,
		Description: entry.Description,
		CreatedAt:   entry.CreatedAt,
	}
}

func (h *Handler) startTimer(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireScope(w, r, auth.ScopeWrite)
	if !ok {
		return
	}

	var req StartTimerRequest
	if !decodeOptionalBody(w, r, &req) {
		return
	}

	entry, err := h.timers.StartTimer(r.Context(), userID, req.ProjectID, req.TaskID, req.Description)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTimeEntryView(*entry))
}

func (h *Handler) stopTimer(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireScope(w, r, auth.ScopeWrite)
	if !ok {
		return
	}

	entry, err := h.timers.StopTimer(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTimeEntryView(*entry))
}

func (h *Handler) runningTimer(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireScope(w, r, auth.ScopeRead)
	if !ok {
		return
	}

	entry, err := h.timers.RunningTimer(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if entry == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"running": nil})
		return
	}
	view := toTimeEntryView(*entry)
	writeJSON(w, http.StatusOK, map[string]interface{}{"running": &view})
}

// TimeEntryPage is a cursor-paginated slice of time entries.
type TimeEntryPage struct {
	Items      []TimeEntryView `json:"items"`
	NextCursor string          `json:"next_cursor,omitempty"`
}

func (h *Handler) listTimeEntries(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireScope(w, r, auth.ScopeRead)
	if !ok {
		return
	}

	limit := defaultTimeEntryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "invalid_request", "limit must be a positive integer")
			return
		}
		if parsed > maxTimeEntryLimit {
			parsed = maxTimeEntryLimit
		}
		limit = parsed
	}

	var cursor *domain.TimeCursor
	if token := r.URL.Query().Get("cursor"); token != "" {
		parsed, err := persistence.DecodeCursor(token)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "malformed cursor")
			return
		}
		cursor = parsed
	}

	entries, next, err := h.timers.ListEntries(r.Context(), userID, cursor, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	page := TimeEntryPage{Items: make([]TimeEntryView, 0, len(entries))}
	for _, entry := range entries {
		page.Items = append(page.Items, toTimeEntryView(entry))
	}
	if next != nil {
		page.NextCursor = persistence.EncodeCursor(next)
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *Handler) deleteTimeEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireScope(w, r, auth.ScopeWrite)
	if !ok {
		return
	}

	if err := h.timers.DeleteEntry(r.Context(), userID, r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
