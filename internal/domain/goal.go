package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrGoalNotFound is returned when a goal cannot be located for the user.
var ErrGoalNotFound = errors.New("goal not found")

// Goal is a measurable long-term objective, optionally nested one level.
type Goal struct {
	ID           string
	UserID       string
	ParentGoalID *string
	Title        string
	Description  string
	TargetDate   *time.Time
	TargetValue  *int
	CurrentValue int
	Unit         string
	IsArchived   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// GoalRepository captures goal persistence operations.
type GoalRepository interface {
	Create(ctx context.Context, goal Goal) error
	Get(ctx context.Context, userID, goalID string) (*Goal, error)
	Update(ctx context.Context, goal Goal) error
	Delete(ctx context.Context, userID, goalID string) error
	ListActive(ctx context.Context, userID string) ([]Goal, error)
}

// GoalService orchestrates goal workflows.
type GoalService struct {
	repo GoalRepository
}

// NewGoalService constructs a GoalService.
func NewGoalService(repo GoalRepository) *GoalService {
	return &GoalService{repo: repo}
}

// CreateGoalInput captures the payload from the API layer.
type CreateGoalInput struct {
	ParentGoalID *string
	Title        string
	Description  string
	TargetDate   *time.Time
	TargetValue  *int
	Unit         string
}

// CreateGoal persists a new goal.
func (s *GoalService) CreateGoal(ctx context.Context, userID string, input CreateGoalInput) (*Goal, error) {
	now := time.Now().UTC()
	goal := Goal{
		ID:           uuid.NewString(),
		UserID:       userID,
		ParentGoalID: input.ParentGoalID,
		Title:        input.Title,
		Description:  input.Description,
		TargetDate:   input.TargetDate,
		TargetValue:  input.TargetValue,
		Unit:         input.Unit,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, goal); err != nil {
		return nil, err
	}
	return &goal, nil
}

// UpdateGoal applies the edit to an owned goal.
func (s *GoalService) UpdateGoal(ctx context.Context, userID, goalID string, input CreateGoalInput) (*Goal, error) {
	goal, err := s.repo.Get(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}
	if goal == nil {
		return nil, ErrGoalNotFound
	}

	goal.Title = input.Title
	goal.Description = input.Description
	goal.TargetDate = input.TargetDate
	goal.TargetValue = input.TargetValue
	goal.Unit = input.Unit
	goal.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, *goal); err != nil {
		return nil, err
	}
	return goal, nil
}

// UpdateProgress sets the goal's current value.
func (s *GoalService) UpdateProgress(ctx context.Context, userID, goalID string, currentValue int) (*Goal, error) {
	goal, err := s.repo.Get(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}
	if goal == nil {
		return nil, ErrGoalNotFound
	}

	goal.CurrentValue = currentValue
	goal.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, *goal); err != nil {
		return nil, err
	}
	return goal, nil
}

// ArchiveGoal hides a goal from the active list.
func (s *GoalService) ArchiveGoal(ctx context.Context, userID, goalID string) error {
	goal, err := s.repo.Get(ctx, userID, goalID)
	if err != nil {
		return err
	}
	if goal == nil {
		return ErrGoalNotFound
	}
	goal.IsArchived = true
	goal.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, *goal)
}

// DeleteGoal removes an owned goal.
func (s *GoalService) DeleteGoal(ctx context.Context, userID, goalID string) error {
	return s.repo.Delete(ctx, userID, goalID)
}

// ListGoals returns the user's active goals.
func (s *GoalService) ListGoals(ctx context.Context, userID string) ([]Goal, error) {
	return s.repo.ListActive(ctx, userID)
}
