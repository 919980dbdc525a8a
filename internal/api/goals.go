package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"example.com/lifeboard/internal/auth"
	"example.com/lifeboard/internal/domain"
)

// GoalRequest is the payload for creating and updating goals.
type GoalRequest struct {
	ParentGoalID *string    `json:"parent_goal_id,omitempty"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	TargetDate   *time.Time `json:"target_date,omitempty"`
	TargetValue  *int       `json:"target_value,omitempty"`
	Unit         string     `json:"unit"`
}

// Validate ensures request correctness.
func (r GoalRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("title is required")
	}
	if r.TargetValue != nil && *r.TargetValue < 0 {
		return errors.New("target_value must be >= 0")
	}
	return nil
}

// GoalView exposes a goal with its progress.
type GoalView struct {
	GoalID       string     `json:"goal_id"`
	ParentGoalID *string    `json:"parent_goal_id,omitempty"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	TargetDate   *time.Time `json:"target_date,omitempty"`
	TargetValue  *int       `json:"target_value,omitempty"`
	CurrentValue int        `json:"current_value"`
	Unit         string     `json:"unit"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func toGoalView(goal domain.Goal) GoalView {
	return GoalView{
		GoalID:       goal.ID,
		ParentGoalID: goal.ParentGoalID,
		Title:        goal.Title,
		Description:  goal.Description,
		TargetDate:   goal.TargetDate,
		TargetValue:  goal.TargetValue,
		CurrentValue: goal.CurrentValue,
		Unit:         goal.Unit,
		CreatedAt:    goal.CreatedAt,
		UpdatedAt:    goal.UpdatedAt,
	}
}

func (h *Handler) createGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireScope(w, r, auth.ScopeWrite)
	if !ok {
		return
	}

	var req GoalRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	goal, err := h.goals.CreateGoal(r.Context(), userID, domain.CreateGoalInput{
		ParentGoalID: req.ParentGoalID,
		Title:        req.Title,
		Description:  req.Description,
		TargetDate:   req.TargetDate,
		TargetValue:  req.TargetValue,
		Unit:         req.Unit,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toGoalView(*goal))
}

func (h *Handler) listGoals(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireScope(w, r, auth.ScopeRead)
	if !ok {
		return
	}

	goals, err := h.goals.ListGoals(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	items := make([]GoalView, 0, len(goals))
	for _, goal := range goals {
		items = append(items, toGoalView(goal))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

func (h *Handler) updateGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireScope(w, r, auth.ScopeWrite)
	if !ok {
		return
	}

	var req GoalRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	goal, err := h.goals.UpdateGoal(r.Context(), userID, r.PathValue("id"), domain.CreateGoalInput{
		ParentGoalID: req.ParentGoalID,
		Title:        req.Title,
		Description:  req.Description,
		TargetDate:   req.TargetDate,
		TargetValue:  req.TargetValue,
		Unit:         req.Unit,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGoalView(*goal))
}

// GoalProgressRequest sets the goal's current value.
type GoalProgressRequest struct {
	CurrentValue int `json:"current_value"`
}

// Validate ensures request correctness.
func (r GoalProgressRequest) Validate() error {
	if r.CurrentValue < 0 {
		return errors.New("current_value must be >= 0")
	}
	return nil
}

func (h *Handler) updateGoalProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireScope(w, r, auth.ScopeWrite)
	if !ok {
		return
	}

	var req GoalProgressRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	goal, err := h.goals.UpdateProgress(r.Context(), userID, r.PathValue("id"), req.CurrentValue)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGoalView(*goal))
}

func (h *Handler) deleteGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireScope(w, r, auth.ScopeWrite)
	if !ok {
		return
	}

	if err := h.goals.DeleteGoal(r.Context(), userID, r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) archiveGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireScope(w, r, auth.ScopeWrite)
	if !ok {
		return
	}

	if err := h.goals.ArchiveGoal(r.Context(), userID, r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
