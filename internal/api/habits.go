package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"example.com/lifeboard/internal/auth"
	"example.com/lifeboard/internal/domain"
)

// HabitRequest is the payload for creating and updating habits.
type HabitRequest struct {
	AreaID      *string `json:"area_id,omitempty"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Frequency   string  `json:"frequency"`
	TargetCount int     `json:"target_count"`
}

// Validate ensures request correctness.
func (r HabitRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	switch domain.Frequency(r.Frequency) {
	case "", domain.FrequencyDaily, domain.FrequencyWeekly, domain.FrequencyCustom:
	default:
		return errors.New("frequency must be one of daily, weekly, custom")
	}
	if r.TargetCount < 0 {
		return errors.New("target_count must be >= 0")
	}
	return nil
}

// HabitView exposes a habit with its computed streaks.
type HabitView struct {
	HabitID          string    `json:"habit_id"`
	AreaID           *string   `json:"area_id,omitempty"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	Frequency        string    `json:"frequency"`
	TargetCount      int       `json:"target_count"`
	IsCompletedToday bool      `json:"is_completed_today"`
	CurrentStreak    int       `json:"current_streak"`
	BestStreak       int       `json:"best_streak"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func toHabitView(habit domain.Habit) HabitView {
	return HabitView{
		HabitID:     habit.ID,
		AreaID:      habit.AreaID,
		Name:        habit.Name,
		Description: habit.Description,
		Frequency:   string(habit.Frequency),
		TargetCount: habit.TargetCount,
		CreatedAt:   habit.CreatedAt,
		UpdatedAt:   habit.UpdatedAt,
	}
}

func (h *Handler) createHabit(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireScope(w, r, auth.ScopeWrite)
	if !ok {
		return
	}

	var req HabitRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	habit, err := h.habits.CreateHabit(r.Context(), userID, domain.CreateHabitInput{
		AreaID:      req.AreaID,
		Name:        req.Name,
		Description: req.Description,
		Frequency:   domain.Frequency(req.Frequency),
		TargetCount: req.TargetCount,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toHabitView(*habit))
}

func (h *Handler) listHabits(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireScope(w, r, auth.ScopeRead)
	if !ok {
		return
	}

	habits, err := h.habits.ListHabits(r.Context(), userID, time.Now().UTC())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	items := make([]HabitView, 0, len(habits))
	for _, habit := range habits {
		view := toHabitView(habit.Habit)
		view.IsCompletedToday = habit.IsCompletedToday
		view.CurrentStreak = habit.CurrentStreak
		view.BestStreak = habit.BestStreak
		items = append(items, view)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

func (h *Handler) updateHabit(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireScope(w, r, auth.ScopeWrite)
	if !ok {
		return
	}

	var req HabitRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	habit, err := h.habits.UpdateHabit(r.Context(), userID, r.PathValue("id"), domain.CreateHabitInput{
		AreaID:      req.AreaID,
		Name:        req.Name,
		Description: req.Description,
		Frequency:   domain.Frequency(req.Frequency),
		TargetCount: req.TargetCount,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toHabitView(*habit))
}

func (h *Handler) archiveHabit(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireScope(w, r, auth.ScopeWrite)
	if !ok {
		return
	}

	if err := h.habits.ArchiveHabit(r.Context(), userID, r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteHabit(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireScope(w, r, auth.ScopeWrite)
	if !ok {
		return
	}

	if err := h.habits.DeleteHabit(r.Context(), userID, r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HabitLogRequest optionally backdates a log or unlog. An absent date means
// today.
type HabitLogRequest struct {
	Date *time.Time `json:"date,omitempty"`
}

func (r HabitLogRequest) day() time.Time {
	if r.Date != nil {
		return *r.Date
	}
	return time.Now().UTC()
}

func (h *Handler) logHabit(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireScope(w, r, auth.ScopeWrite)
	if !ok {
		return
	}

	var req HabitLogRequest
	if !decodeOptionalBody(w, r, &req) {
		return
	}

	if err := h.habits.LogHabit(r.Context(), userID, r.PathValue("id"), req.day()); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) unlogHabit(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireScope(w, r, auth.ScopeWrite)
	if !ok {
		return
	}

	var req HabitLogRequest
	if !decodeOptionalBody(w, r, &req) {
		return
	}

	if err := h.habits.UnlogHabit(r.Context(), userID, r.PathValue("id"), req.day()); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
