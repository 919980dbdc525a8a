package domain

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stubAnalyticsRepo struct {
	activity      []AreaActivity
	overdueAreas  []AreaOverdue
	completed     []SummaryTask
	overdueTasks  []SummaryTask
	habitStats    []HabitCompletionCount
	recent        []ActivityItem
	openCount     int
	completedN    int
	overdueCount  int
	summarySince  time.Time
	activityLimit int
}

func (r *stubAnalyticsRepo) CompletionOverTime(_ context.Context, _ string, _, _ time.Time) ([]CompletionPoint, error) {
	return nil, nil
}

func (r *stubAnalyticsRepo) AreaDistribution(_ context.Context, _ string, _, _ time.Time) ([]AreaCount, error) {
	return nil, nil
}

func (r *stubAnalyticsRepo) CompletedCount(_ context.Context, _ string, _, _ time.Time) (int, error) {
	return r.completedN, nil
}

func (r *stubAnalyticsRepo) TimeByArea(_ context.Context, _ string, _, _ time.Time) ([]AreaDuration, error) {
	return nil, nil
}

func (r *stubAnalyticsRepo) AreaActivity(_ context.Context, _ string, _, _ time.Time) ([]AreaActivity, error) {
	return r.activity, nil
}

func (r *stubAnalyticsRepo) OverdueByArea(_ context.Context, _ string, _ time.Time) ([]AreaOverdue, error) {
	return r.overdueAreas, nil
}

func (r *stubAnalyticsRepo) CompletedTasksSince(_ context.Context, _ string, since time.Time) ([]SummaryTask, error) {
	r.summarySince = since
	return r.completed, nil
}

func (r *stubAnalyticsRepo) OverdueTasks(_ context.Context, _ string, _ time.Time) ([]SummaryTask, error) {
	return r.overdueTasks, nil
}

func (r *stubAnalyticsRepo) HabitCompletionsSince(_ context.Context, _ string, _ time.Time) ([]HabitCompletionCount, error) {
	return r.habitStats, nil
}

func (r *stubAnalyticsRepo) RecentActivity(_ context.Context, _ string, limit int) ([]ActivityItem, error) {
	r.activityLimit = limit
	return r.recent, nil
}

func (r *stubAnalyticsRepo) OpenTaskCount(_ context.Context, _ string) (int, error) {
	return r.openCount, nil
}

func (r *stubAnalyticsRepo) OverdueTaskCount(_ context.Context, _ string, _ time.Time) (int, error) {
	return r.overdueCount, nil
}

func TestLifeBalanceWeighsActivity(t *testing.T) {
	repo := &stubAnalyticsRepo{
		activity: []AreaActivity{
			{AreaName: "Health", TaskCount: 3, HabitCount: 2, TrackedSeconds: 2 * 3600},
			{AreaName: "Career", TaskCount: 0, HabitCount: 0, TrackedSeconds: 1800},
		},
	}
	svc := NewAnalyticsService(repo, nil)

	scores, err := svc.LifeBalance(context.Background(), "user-1", PeriodWeek, nil, nil)
	require.NoError(t, err)
	require.Len(t, scores, 2)

	// 3 tasks * 10 + 2 logs * 5 + 2 full hours * 2.
	require.Equal(t, AreaScore{AreaName: "Health", Score: 44}, scores[0])
	// A partial hour contributes nothing.
	require.Equal(t, AreaScore{AreaName: "Career", Score: 0}, scores[1])
}

func TestWeeklySummaryCoversTrailingWeek(t *testing.T) {
	due := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	repo := &stubAnalyticsRepo{
		completed:    []SummaryTask{{TaskID: "task-1", Title: "Ship report", AreaName: "Career"}},
		overdueTasks: []SummaryTask{{TaskID: "task-2", Title: "Renew passport", AreaName: "Admin", DueDate: &due}},
		habitStats:   []HabitCompletionCount{{HabitID: "habit-1", Name: "Run", Count: 4}},
	}
	svc := NewAnalyticsService(repo, nil)

	now := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)
	summary, err := svc.WeeklySummary(context.Background(), "user-1", now)
	require.NoError(t, err)

	require.Equal(t, now.AddDate(0, 0, -7), repo.summarySince)
	require.Len(t, summary.CompletedTasks, 1)
	require.Equal(t, "Ship report", summary.CompletedTasks[0].Title)
	require.Len(t, summary.OverdueTasks, 1)
	require.Equal(t, "Renew passport", summary.OverdueTasks[0].Title)
	require.Len(t, summary.HabitStats, 1)
	require.Equal(t, 4, summary.HabitStats[0].Count)
}

func TestRecentActivityClampsLimit(t *testing.T) {
	repo := &stubAnalyticsRepo{}
	svc := NewAnalyticsService(repo, nil)

	_, err := svc.RecentActivity(context.Background(), "user-1", 0)
	require.NoError(t, err)
	require.Equal(t, defaultActivityLimit, repo.activityLimit)

	_, err = svc.RecentActivity(context.Background(), "user-1", 500)
	require.NoError(t, err)
	require.Equal(t, maxActivityLimit, repo.activityLimit)
}

func TestDashboardStatsUsesLongestStreak(t *testing.T) {
	now := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)

	habitRepo := newStubHabitRepo(
		Habit{ID: "habit-1", UserID: "user-1", Name: "Run", Frequency: FrequencyDaily},
		Habit{ID: "habit-2", UserID: "user-1", Name: "Read", Frequency: FrequencyDaily},
	)
	// Run has a two-day streak; Read was never logged.
	habitRepo.logs["habit-1"] = []HabitLog{
		{ID: "log-1", HabitID: "habit-1", CompletedAt: now.AddDate(0, 0, -1)},
		{ID: "log-2", HabitID: "habit-1", CompletedAt: now},
	}

	repo := &stubAnalyticsRepo{openCount: 7, completedN: 2, overdueCount: 3}
	svc := NewAnalyticsService(repo, NewHabitService(habitRepo))

	stats, err := svc.DashboardStats(context.Background(), "user-1", now)
	require.NoError(t, err)
	require.Equal(t, 7, stats.OpenTasks)
	require.Equal(t, 2, stats.CompletedToday)
	require.Equal(t, 3, stats.Overdue)
	require.Equal(t, 2, stats.ActiveStreak)
}

type stubSearchRepo struct {
	query   string
	limit   int
	results SearchResults
}

func (r *stubSearchRepo) SearchAll(_ context.Context, _, query string, limit int) (*SearchResults, error) {
	r.query = query
	r.limit = limit
	return &r.results, nil
}

func TestSearchTrimsQuery(t *testing.T) {
	repo := &stubSearchRepo{results: SearchResults{
		Tasks: []SearchHit{{ID: "task-1", Title: "Plan trip"}},
	}}
	svc := NewSearchService(repo)

	results, err := svc.Search(context.Background(), "user-1", "  trip  ")
	require.NoError(t, err)
	require.Equal(t, "trip", repo.query)
	require.Equal(t, searchResultLimit, repo.limit)
	require.Len(t, results.Tasks, 1)
}

func TestSearchRejectsBlankQuery(t *testing.T) {
	svc := NewSearchService(&stubSearchRepo{})

	_, err := svc.Search(context.Background(), "user-1", "   ")
	require.ErrorIs(t, err, ErrEmptySearchQuery)
}
