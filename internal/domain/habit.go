package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrHabitNotFound is returned when a habit cannot be located for the user.
var ErrHabitNotFound = errors.New("habit not found")

// Frequency describes how often a habit is meant to be performed.
type Frequency string

const (
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
	FrequencyCustom Frequency = "custom"
)

// Habit is a recurring personal routine tracked through daily logs.
type Habit struct {
	ID          string
	UserID      string
	AreaID      *string
	Name        string
	Description string
	Frequency   Frequency
	TargetCount int
	IsArchived  bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HabitLog records a completion. Re-logging the same day increments Value
// instead of inserting a second row.
type HabitLog struct {
	ID          string
	HabitID     string
	CompletedAt time.Time
	Value       int
	Note        string
}

// HabitWithStats decorates a habit with its streaks and today's state.
type HabitWithStats struct {
	Habit
	IsCompletedToday bool
	CurrentStreak    int
	BestStreak       int
}

// HabitRepository captures habit persistence operations.
type HabitRepository interface {
	Create(ctx context.Context, habit Habit) error
	Get(ctx context.Context, userID, habitID string) (*Habit, error)
	Update(ctx context.Context, habit Habit) error
	Delete(ctx context.Context, userID, habitID string) error
	ListActive(ctx context.Context, userID string) ([]Habit, error)
	ListLogs(ctx context.Context, userID, habitID string) ([]HabitLog, error)
	FindLogForDay(ctx context.Context, userID, habitID string, dayStart, dayEnd time.Time) (*HabitLog, error)
	InsertLog(ctx context.Context, userID string, log HabitLog) error
	IncrementLogValue(ctx context.Context, userID, logID string) error
	DeleteLogsForDay(ctx context.Context, userID, habitID string, dayStart, dayEnd time.Time) error
}

// HabitService orchestrates habit tracking workflows.
type HabitService struct {
	repo HabitRepository
}

// NewHabitService constructs a HabitService.
func NewHabitService(repo HabitRepository) *HabitService {
	return &HabitService{repo: repo}
}

// CreateHabitInput captures the payload from the API layer.
type CreateHabitInput struct {
	AreaID      *string
	Name        string
	Description string
	Frequency   Frequency
	TargetCount int
}

// CreateHabit persists a new habit.
func (s *HabitService) CreateHabit(ctx context.Context, userID string, input CreateHabitInput) (*Habit, error) {
	now := time.Now().UTC()
	habit := Habit{
		ID:          uuid.NewString(),
		UserID:      userID,
		AreaID:      input.AreaID,
		Name:        input.Name,
		Description: input.Description,
		Frequency:   input.Frequency,
		TargetCount: input.TargetCount,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if habit.Frequency == "" {
		habit.Frequency = FrequencyDaily
	}
	if habit.TargetCount <= 0 {
		habit.TargetCount = 1
	}

	if err := s.repo.Create(ctx, habit); err != nil {
		return nil, err
	}
	return &habit, nil
}

// UpdateHabit applies the edit to an owned habit.
func (s *HabitService) UpdateHabit(ctx context.Context, userID, habitID string, input CreateHabitInput) (*Habit, error) {
	habit, err := s.repo.Get(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}
	if habit == nil {
		return nil, ErrHabitNotFound
	}

	habit.AreaID = input.AreaID
	habit.Name = input.Name
	habit.Description = input.Description
	if input.Frequency != "" {
		habit.Frequency = input.Frequency
	}
	if input.TargetCount > 0 {
		habit.TargetCount = input.TargetCount
	}
	habit.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, *habit); err != nil {
		return nil, err
	}
	return habit, nil
}

// ArchiveHabit hides a habit from the active list without deleting its logs.
func (s *HabitService) ArchiveHabit(ctx context.Context, userID, habitID string) error {
	habit, err := s.repo.Get(ctx, userID, habitID)
	if err != nil {
		return err
	}
	if habit == nil {
		return ErrHabitNotFound
	}
	habit.IsArchived = true
	habit.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, *habit)
}

// DeleteHabit removes a habit and (by cascade) its logs.
func (s *HabitService) DeleteHabit(ctx context.Context, userID, habitID string) error {
	return s.repo.Delete(ctx, userID, habitID)
}

// LogHabit records a completion for the given day. A same-day re-log
// increments the existing row's value.
func (s *HabitService) LogHabit(ctx context.Context, userID, habitID string, date time.Time) error {
	habit, err := s.repo.Get(ctx, userID, habitID)
	if err != nil {
		return err
	}
	if habit == nil {
		return ErrHabitNotFound
	}

	dayStart := startOfDay(date)
	dayEnd := dayStart.AddDate(0, 0, 1)

	existing, err := s.repo.FindLogForDay(ctx, userID, habitID, dayStart, dayEnd)
	if err != nil {
		return err
	}
	if existing != nil {
		return s.repo.IncrementLogValue(ctx, userID, existing.ID)
	}

	return s.repo.InsertLog(ctx, userID, HabitLog{
		ID:          uuid.NewString(),
		HabitID:     habitID,
		CompletedAt: date,
		Value:       1,
	})
}

// UnlogHabit removes the day's completion entirely.
func (s *HabitService) UnlogHabit(ctx context.Context, userID, habitID string, date time.Time) error {
	dayStart := startOfDay(date)
	dayEnd := dayStart.AddDate(0, 0, 1)
	return s.repo.DeleteLogsForDay(ctx, userID, habitID, dayStart, dayEnd)
}

// ListHabits returns the user's active habits decorated with streaks and
// today's completion state.
func (s *HabitService) ListHabits(ctx context.Context, userID string, now time.Time) ([]HabitWithStats, error) {
	habits, err := s.repo.ListActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	todayStart := startOfDay(now)
	tomorrowStart := todayStart.AddDate(0, 0, 1)

	out := make([]HabitWithStats, 0, len(habits))
	for _, habit := range habits {
		logs, err := s.repo.ListLogs(ctx, userID, habit.ID)
		if err != nil {
			return nil, err
		}

		completedToday := false
		for _, log := range logs {
			if !log.CompletedAt.Before(todayStart) && log.CompletedAt.Before(tomorrowStart) {
				completedToday = true
				break
			}
		}

		streaks := ComputeStreaks(logs, now)
		out = append(out, HabitWithStats{
			Habit:            habit,
			IsCompletedToday: completedToday,
			CurrentStreak:    streaks.Current,
			BestStreak:       streaks.Best,
		})
	}
	return out, nil
}
