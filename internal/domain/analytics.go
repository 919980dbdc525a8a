package domain

import (
	"context"
	"time"
)

// AnalyticsPeriod selects the reporting window for dashboard charts.
type AnalyticsPeriod string

const (
	PeriodWeek   AnalyticsPeriod = "week"
	PeriodMonth  AnalyticsPeriod = "month"
	PeriodLast30 AnalyticsPeriod = "last30"
	PeriodLast90 AnalyticsPeriod = "last90"
	PeriodCustom AnalyticsPeriod = "custom"
)

// CompletionPoint is one day's completed-task count.
type CompletionPoint struct {
	Date  string // YYYY-MM-DD
	Count int
}

// AreaCount aggregates completed tasks per life area.
type AreaCount struct {
	AreaName  string
	AreaColor string
	TaskCount int
}

// AreaDuration aggregates tracked seconds per life area.
type AreaDuration struct {
	AreaName  string
	AreaColor string
	Seconds   int
}

// Trends compares completion volume week over week.
type Trends struct {
	ThisWeek int
	LastWeek int
}

// HabitStreakOverview is one habit's streak standing for the analytics page.
type HabitStreakOverview struct {
	HabitID       string
	Name          string
	CurrentStreak int
	BestStreak    int
}

// AreaActivity is the raw per-area activity feeding the life balance score.
type AreaActivity struct {
	AreaID         string
	AreaName       string
	TaskCount      int
	HabitCount     int
	TrackedSeconds int
}

// AreaScore is one life area's weekly-review balance score.
type AreaScore struct {
	AreaName string
	Score    int
}

// AreaOverdue counts overdue todo tasks per life area.
type AreaOverdue struct {
	AreaName     string
	OverdueCount int
}

// SummaryTask is a task row in the weekly review.
type SummaryTask struct {
	TaskID      string
	Title       string
	AreaName    string
	DueDate     *time.Time
	CompletedAt *time.Time
}

// HabitCompletionCount is one habit's log count over a window.
type HabitCompletionCount struct {
	HabitID string
	Name    string
	Count   int
}

// WeeklySummary bundles the weekly review: what got done, what slipped,
// and how the habits held up.
type WeeklySummary struct {
	CompletedTasks []SummaryTask
	OverdueTasks   []SummaryTask
	HabitStats     []HabitCompletionCount
}

// ActivityItem is one row in the recent-activity feed. Kind is "task" or
// "project"; ParentTitle names the project or column it lives in.
type ActivityItem struct {
	ID          string
	Kind        string
	Title       string
	Status      string
	ParentID    string
	ParentTitle string
	UpdatedAt   time.Time
}

// DashboardStats are the headline counters on the dashboard.
type DashboardStats struct {
	OpenTasks      int
	CompletedToday int
	Overdue        int
	ActiveStreak   int
}

// AnalyticsRepository captures the aggregation queries backing the dashboards.
type AnalyticsRepository interface {
	CompletionOverTime(ctx context.Context, userID string, from, to time.Time) ([]CompletionPoint, error)
	AreaDistribution(ctx context.Context, userID string, from, to time.Time) ([]AreaCount, error)
	CompletedCount(ctx context.Context, userID string, from, to time.Time) (int, error)
	TimeByArea(ctx context.Context, userID string, from, to time.Time) ([]AreaDuration, error)
	AreaActivity(ctx context.Context, userID string, from, to time.Time) ([]AreaActivity, error)
	OverdueByArea(ctx context.Context, userID string, now time.Time) ([]AreaOverdue, error)
	CompletedTasksSince(ctx context.Context, userID string, since time.Time) ([]SummaryTask, error)
	OverdueTasks(ctx context.Context, userID string, now time.Time) ([]SummaryTask, error)
	HabitCompletionsSince(ctx context.Context, userID string, since time.Time) ([]HabitCompletionCount, error)
	RecentActivity(ctx context.Context, userID string, limit int) ([]ActivityItem, error)
	OpenTaskCount(ctx context.Context, userID string) (int, error)
	OverdueTaskCount(ctx context.Context, userID string, now time.Time) (int, error)
}

// AnalyticsService resolves reporting periods and runs aggregations.
type AnalyticsService struct {
	repo   AnalyticsRepository
	habits *HabitService
}

// NewAnalyticsService constructs an AnalyticsService.
func NewAnalyticsService(repo AnalyticsRepository, habits *HabitService) *AnalyticsService {
	return &AnalyticsService{repo: repo, habits: habits}
}

// ResolvePeriod turns a named period into a concrete [from, to] range ending
// at now. Custom periods pass their explicit range through.
func ResolvePeriod(period AnalyticsPeriod, now time.Time, from, to *time.Time) (time.Time, time.Time) {
	if period == PeriodCustom && from != nil && to != nil {
		return *from, *to
	}

	end := now
	var start time.Time
	switch period {
	case PeriodWeek:
		start = now.AddDate(0, 0, -7)
	case PeriodMonth:
		prev := now.AddDate(0, -1, 0)
		start = time.Date(prev.Year(), prev.Month(), 1, 0, 0, 0, 0, now.Location())
	case PeriodLast90:
		start = now.AddDate(0, 0, -90)
	default:
		start = now.AddDate(0, 0, -30)
	}
	return start, end
}

// CompletionOverTime returns daily completed-task counts for the period.
func (s *AnalyticsService) CompletionOverTime(ctx context.Context, userID string, period AnalyticsPeriod, from, to *time.Time) ([]CompletionPoint, error) {
	start, end := ResolvePeriod(period, time.Now().UTC(), from, to)
	return s.repo.CompletionOverTime(ctx, userID, start, end)
}

// AreaDistribution returns completed-task counts grouped by life area.
func (s *AnalyticsService) AreaDistribution(ctx context.Context, userID string, period AnalyticsPeriod, from, to *time.Time) ([]AreaCount, error) {
	start, end := ResolvePeriod(period, time.Now().UTC(), from, to)
	return s.repo.AreaDistribution(ctx, userID, start, end)
}

// ProductivityTrends compares this week's completions against last week's.
// Weeks start on Sunday, matching the original dashboards.
func (s *AnalyticsService) ProductivityTrends(ctx context.Context, userID string, now time.Time) (*Trends, error) {
	thisWeekStart := startOfDay(now).AddDate(0, 0, -int(now.Weekday()))
	lastWeekStart := thisWeekStart.AddDate(0, 0, -7)

	thisWeek, err := s.repo.CompletedCount(ctx, userID, thisWeekStart, now)
	if err != nil {
		return nil, err
	}
	lastWeek, err := s.repo.CompletedCount(ctx, userID, lastWeekStart, thisWeekStart)
	if err != nil {
		return nil, err
	}
	return &Trends{ThisWeek: thisWeek, LastWeek: lastWeek}, nil
}

// TimeDistribution returns tracked time grouped by life area.
func (s *AnalyticsService) TimeDistribution(ctx context.Context, userID string, period AnalyticsPeriod, from, to *time.Time) ([]AreaDuration, error) {
	start, end := ResolvePeriod(period, time.Now().UTC(), from, to)
	return s.repo.TimeByArea(ctx, userID, start, end)
}

// Life balance weights: completed tasks count most, habit logs half as
// much, and each tracked hour adds a little.
const (
	balanceTaskWeight  = 10
	balanceHabitWeight = 5
	balanceHourWeight  = 2
)

// LifeBalance scores each life area's activity for the period.
func (s *AnalyticsService) LifeBalance(ctx context.Context, userID string, period AnalyticsPeriod, from, to *time.Time) ([]AreaScore, error) {
	start, end := ResolvePeriod(period, time.Now().UTC(), from, to)
	activity, err := s.repo.AreaActivity(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	scores := make([]AreaScore, 0, len(activity))
	for _, area := range activity {
		scores = append(scores, AreaScore{
			AreaName: area.AreaName,
			Score: area.TaskCount*balanceTaskWeight +
				area.HabitCount*balanceHabitWeight +
				(area.TrackedSeconds/3600)*balanceHourWeight,
		})
	}
	return scores, nil
}

// OverdueAnalysis counts overdue todo tasks grouped by life area.
func (s *AnalyticsService) OverdueAnalysis(ctx context.Context, userID string, now time.Time) ([]AreaOverdue, error) {
	return s.repo.OverdueByArea(ctx, userID, now)
}

// WeeklySummary assembles the weekly review over the trailing seven days.
func (s *AnalyticsService) WeeklySummary(ctx context.Context, userID string, now time.Time) (*WeeklySummary, error) {
	since := now.AddDate(0, 0, -7)

	completed, err := s.repo.CompletedTasksSince(ctx, userID, since)
	if err != nil {
		return nil, err
	}
	overdue, err := s.repo.OverdueTasks(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	habitStats, err := s.repo.HabitCompletionsSince(ctx, userID, since)
	if err != nil {
		return nil, err
	}

	return &WeeklySummary{
		CompletedTasks: completed,
		OverdueTasks:   overdue,
		HabitStats:     habitStats,
	}, nil
}

const (
	defaultActivityLimit = 10
	maxActivityLimit     = 50
)

// RecentActivity returns the latest task and project updates, newest first.
func (s *AnalyticsService) RecentActivity(ctx context.Context, userID string, limit int) ([]ActivityItem, error) {
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	if limit > maxActivityLimit {
		limit = maxActivityLimit
	}
	return s.repo.RecentActivity(ctx, userID, limit)
}

// DashboardStats computes the headline dashboard counters. ActiveStreak is
// the longest current streak across the user's habits.
func (s *AnalyticsService) DashboardStats(ctx context.Context, userID string, now time.Time) (*DashboardStats, error) {
	open, err := s.repo.OpenTaskCount(ctx, userID)
	if err != nil {
		return nil, err
	}
	completedToday, err := s.repo.CompletedCount(ctx, userID, startOfDay(now), now)
	if err != nil {
		return nil, err
	}
	overdue, err := s.repo.OverdueTaskCount(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	habits, err := s.habits.ListHabits(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	activeStreak := 0
	for _, habit := range habits {
		if habit.CurrentStreak > activeStreak {
			activeStreak = habit.CurrentStreak
		}
	}

	return &DashboardStats{
		OpenTasks:      open,
		CompletedToday: completedToday,
		Overdue:        overdue,
		ActiveStreak:   activeStreak,
	}, nil
}

// StreakOverview lists every active habit's streak standing.
func (s *AnalyticsService) StreakOverview(ctx context.Context, userID string, now time.Time) ([]HabitStreakOverview, error) {
	habits, err := s.habits.ListHabits(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	out := make([]HabitStreakOverview, 0, len(habits))
	for _, habit := range habits {
		out = append(out, HabitStreakOverview{
			HabitID:       habit.ID,
			Name:          habit.Name,
			CurrentStreak: habit.CurrentStreak,
			BestStreak:    habit.BestStreak,
		})
	}
	return out, nil
}
