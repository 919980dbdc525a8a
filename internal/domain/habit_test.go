package domain

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stubHabitRepo struct {
	habits     map[string]Habit
	logs       map[string][]HabitLog
	inserted   []HabitLog
	increments []string
	deletions  int
}

func newStubHabitRepo(habits ...Habit) *stubHabitRepo {
	repo := &stubHabitRepo{
		habits: make(map[string]Habit),
		logs:   make(map[string][]HabitLog),
	}
	for _, habit := range habits {
		repo.habits[habit.ID] = habit
	}
	return repo
}

func (r *stubHabitRepo) Create(_ context.Context, habit Habit) error {
	r.habits[habit.ID] = habit
	return nil
}

func (r *stubHabitRepo) Get(_ context.Context, _, habitID string) (*Habit, error) {
	habit, ok := r.habits[habitID]
	if !ok {
		return nil, nil
	}
	return &habit, nil
}

func (r *stubHabitRepo) Update(_ context.Context, habit Habit) error {
	r.habits[habit.ID] = habit
	return nil
}

func (r *stubHabitRepo) Delete(_ context.Context, _, habitID string) error {
	delete(r.habits, habitID)
	return nil
}

func (r *stubHabitRepo) ListActive(_ context.Context, _ string) ([]Habit, error) {
	out := make([]Habit, 0, len(r.habits))
	for _, habit := range r.habits {
		if !habit.IsArchived {
			out = append(out, habit)
		}
	}
	return out, nil
}

func (r *stubHabitRepo) ListLogs(_ context.Context, _, habitID string) ([]HabitLog, error) {
	return r.logs[habitID], nil
}

func (r *stubHabitRepo) FindLogForDay(_ context.Context, _, habitID string, dayStart, dayEnd time.Time) (*HabitLog, error) {
	for _, log := range r.logs[habitID] {
		if !log.CompletedAt.Before(dayStart) && log.CompletedAt.Before(dayEnd) {
			return &log, nil
		}
	}
	return nil, nil
}

func (r *stubHabitRepo) InsertLog(_ context.Context, _ string, log HabitLog) error {
	r.inserted = append(r.inserted, log)
	r.logs[log.HabitID] = append(r.logs[log.HabitID], log)
	return nil
}

func (r *stubHabitRepo) IncrementLogValue(_ context.Context, _, logID string) error {
	r.increments = append(r.increments, logID)
	return nil
}

func (r *stubHabitRepo) DeleteLogsForDay(_ context.Context, _, habitID string, dayStart, dayEnd time.Time) error {
	kept := r.logs[habitID][:0]
	for _, log := range r.logs[habitID] {
		if log.CompletedAt.Before(dayStart) || !log.CompletedAt.Before(dayEnd) {
			kept = append(kept, log)
		} else {
			r.deletions++
		}
	}
	r.logs[habitID] = kept
	return nil
}

func TestLogHabitInsertsFirstLogOfDay(t *testing.T) {
	repo := newStubHabitRepo(Habit{ID: "habit-1", UserID: "user-1", Name: "Read"})
	service := NewHabitService(repo)

	date := time.Date(2026, time.February, 20, 9, 0, 0, 0, time.UTC)
	require.NoError(t, service.LogHabit(context.Background(), "user-1", "habit-1", date))

	require.Len(t, repo.inserted, 1)
	require.Equal(t, 1, repo.inserted[0].Value)
	require.Empty(t, repo.increments)
}

func TestLogHabitSameDayIncrementsValue(t *testing.T) {
	repo := newStubHabitRepo(Habit{ID: "habit-1", UserID: "user-1", Name: "Hydrate"})
	service := NewHabitService(repo)

	morning := time.Date(2026, time.February, 20, 9, 0, 0, 0, time.UTC)
	evening := time.Date(2026, time.February, 20, 17, 0, 0, 0, time.UTC)

	require.NoError(t, service.LogHabit(context.Background(), "user-1", "habit-1", morning))
	require.NoError(t, service.LogHabit(context.Background(), "user-1", "habit-1", evening))

	require.Len(t, repo.inserted, 1)
	require.Len(t, repo.increments, 1)
}

func TestLogHabitUnknownHabit(t *testing.T) {
	service := NewHabitService(newStubHabitRepo())

	err := service.LogHabit(context.Background(), "user-1", "missing", time.Now())
	require.ErrorIs(t, err, ErrHabitNotFound)
}

func TestUnlogHabitRemovesDayRows(t *testing.T) {
	repo := newStubHabitRepo(Habit{ID: "habit-1", UserID: "user-1", Name: "Read"})
	service := NewHabitService(repo)

	date := time.Date(2026, time.February, 20, 9, 0, 0, 0, time.UTC)
	require.NoError(t, service.LogHabit(context.Background(), "user-1", "habit-1", date))
	require.NoError(t, service.UnlogHabit(context.Background(), "user-1", "habit-1", date))

	require.Equal(t, 1, repo.deletions)
}

func TestListHabitsDecoratesStreaksAndToday(t *testing.T) {
	now := time.Date(2026, time.February, 20, 15, 0, 0, 0, time.UTC)
	repo := newStubHabitRepo(Habit{ID: "habit-1", UserID: "user-1", Name: "Read"})
	repo.logs["habit-1"] = []HabitLog{
		{ID: "log-1", HabitID: "habit-1", CompletedAt: now.Add(-time.Hour), Value: 1},
		{ID: "log-2", HabitID: "habit-1", CompletedAt: now.AddDate(0, 0, -1), Value: 1},
	}
	service := NewHabitService(repo)

	habits, err := service.ListHabits(context.Background(), "user-1", now)
	require.NoError(t, err)
	require.Len(t, habits, 1)
	require.True(t, habits[0].IsCompletedToday)
	require.Equal(t, 2, habits[0].CurrentStreak)
	require.Equal(t, 2, habits[0].BestStreak)
}
