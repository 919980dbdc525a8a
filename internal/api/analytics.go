package api

import (
	"net/http"
	"strconv"
	"time"

	"example.com/lifeboard/internal/auth"
	"example.com/lifeboard/internal/domain"
)

// analyticsWindow parses the shared period/from/to query parameters.
func analyticsWindow(r *http.Request) (domain.AnalyticsPeriod, *time.Time, *time.Time, error) {
	q := r.URL.Query()
	period := domain.AnalyticsPeriod(q.Get("period"))

	var from, to *time.Time
	if raw := q.Get("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return "", nil, nil, err
		}
		from = &parsed
	}
	if raw := q.Get("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return "", nil, nil, err
		}
		to = &parsed
	}
	return period, from, to, nil
}

// CompletionPointView is one day on the completion chart.
type CompletionPointView struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

func (h *Handler) completionOverTime(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireScope(w, r, auth.ScopeRead)
	if !ok {
		return
	}

	period, from, to, err := analyticsWindow(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "from/to must be RFC 3339 timestamps")
		return
	}

	points, err := h.analytics.CompletionOverTime(r.Context(), userID, period, from, to)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	items := make([]CompletionPointView, 0, len(points))
	for _, p := range points {
		items = append(items, CompletionPointView{Date: p.Date, Count: p.Count})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

// AreaCountView aggregates completed tasks for one life area.
type AreaCountView struct {
	AreaName  string `json:"area_name"`
	AreaColor string `json:"area_color"`
	TaskCount int    `json:"task_count"`
}

func (h *Handler) areaDistribution(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireScope(w, r, auth.ScopeRead)
	if !ok {
		return
	}

	period, from, to, err := analyticsWindow(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "from/to must be RFC 3339 timestamps")
		return
	}

	counts, err := h.analytics.AreaDistribution(r.Context(), userID, period, from, to)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	items := make([]AreaCountView, 0, len(counts))
	for _, c := range counts {
		items = append(items, AreaCountView{AreaName: c.AreaName, AreaColor: c.AreaColor, TaskCount: c.TaskCount})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

// TrendsView compares this week's completions against last week's.
type TrendsView struct {
	ThisWeek int `json:"this_week"`
	LastWeek int `json:"last_week"`
}

func (h *Handler) productivityTrends(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireScope(w, r, auth.ScopeRead)
	if !ok {
		return
	}

	trends, err := h.analytics.ProductivityTrends(r.Context(), userID, time.Now().UTC())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, TrendsView{ThisWeek: trends.ThisWeek, LastWeek: trends.LastWeek})
}

// StreakView is one habit's streak standing.
type StreakView struct {
	HabitID       string `json:"habit_id"`
	Name          string `json:"name"`
	CurrentStreak int    `json:"current_streak"`
	BestStreak    int    `json:"best_streak"`
}

func (h *Handler) streakOverview(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireScope(w, r, auth.ScopeRead)
	if !ok {
		return
	}

	streaks, err := h.analytics.StreakOverview(r.Context(), userID, time.Now().UTC())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	items := make([]StreakView, 0, len(streaks))
	for _, s := range streaks {
		items = append(items, StreakView{
			HabitID:       s.HabitID,
			Name:          s.Name,
			CurrentStreak: s.CurrentStreak,
			BestStreak:    s.BestStreak,
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

// AreaDurationView aggregates tracked time for one life area.
type AreaDurationView struct {
	AreaName  string `json:"area_name"`
	AreaColor string `json:"area_color"`
	Seconds   int    `json:"seconds"`
}

func (h *Handler) timeDistribution(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireScope(w, r, auth.ScopeRead)
	if !ok {
		return
	}

	period, from, to, err := analyticsWindow(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "from/to must be RFC 3339 timestamps")
		return
	}

	durations, err := h.analytics.TimeDistribution(r.Context(), userID, period, from, to)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	items := make([]AreaDurationView, 0, len(durations))
	for _, d := range durations {
		items = append(items, AreaDurationView{AreaName: d.AreaName, AreaColor: d.AreaColor, Seconds: d.Seconds})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

// AreaScoreView is one life area's balance score.
type AreaScoreView struct {
	AreaName string `json:"area_name"`
	Score    int    `json:"score"`
}

func (h *Handler) lifeBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireScope(w, r, auth.ScopeRead)
	if !ok {
		return
	}

	period, from, to, err := analyticsWindow(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "from/to must be RFC 3339 timestamps")
		return
	}

	scores, err := h.analytics.LifeBalance(r.Context(), userID, period, from, to)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	items := make([]AreaScoreView, 0, len(scores))
	for _, s := range scores {
		items = append(items, AreaScoreView{AreaName: s.AreaName, Score: s.Score})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

// AreaOverdueView counts overdue tasks for one life area.
type AreaOverdueView struct {
	AreaName     string `json:"area_name"`
	OverdueCount int    `json:"overdue_count"`
}

func (h *Handler) overdueAnalysis(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireScope(w, r, auth.ScopeRead)
	if !ok {
		return
	}

	counts, err := h.analytics.OverdueAnalysis(r.Context(), userID, time.Now().UTC())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	items := make([]AreaOverdueView, 0, len(counts))
	for _, c := range counts {
		items = append(items, AreaOverdueView{AreaName: c.AreaName, OverdueCount: c.OverdueCount})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

// SummaryTaskView is a task row in the weekly review.
type SummaryTaskView struct {
	TaskID      string     `json:"task_id"`
	Title       string     `json:"title"`
	AreaName    string     `json:"area_name"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// HabitStatView is one habit's log count over the review window.
type HabitStatView struct {
	HabitID string `json:"habit_id"`
	Name    string `json:"name"`
	Count   int    `json:"count"`
}

// WeeklySummaryView is the weekly review payload.
type WeeklySummaryView struct {
	CompletedTasks []SummaryTaskView `json:"completed_tasks"`
	OverdueTasks   []SummaryTaskView `json:"overdue_tasks"`
	HabitStats     []HabitStatView   `json:"habit_stats"`
}

func toSummaryTaskViews(tasks []domain.SummaryTask) []SummaryTaskView {
	views := make([]SummaryTaskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, SummaryTaskView{
			TaskID:      t.TaskID,
			Title:       t.Title,
			AreaName:    t.AreaName,
			DueDate:     t.DueDate,
			CompletedAt: t.CompletedAt,
		})
	}
	return views
}

func (h *Handler) weeklySummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireScope(w, r, auth.ScopeRead)
	if !ok {
		return
	}

	summary, err := h.analytics.WeeklySummary(r.Context(), userID, time.Now().UTC())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	stats := make([]HabitStatView, 0, len(summary.HabitStats))
	for _, s := range summary.HabitStats {
		stats = append(stats, HabitStatView{HabitID: s.HabitID, Name: s.Name, Count: s.Count})
	}
	writeJSON(w, http.StatusOK, WeeklySummaryView{
		CompletedTasks: toSummaryTaskViews(summary.CompletedTasks),
		OverdueTasks:   toSummaryTaskViews(summary.OverdueTasks),
		HabitStats:     stats,
	})
}

// ActivityItemView is one row in the recent-activity feed.
type ActivityItemView struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Title       string    `json:"title"`
	Status      string    `json:"status"`
	ParentID    string    `json:"parent_id"`
	ParentTitle string    `json:"parent_title"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (h *Handler) recentActivity(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireScope(w, r, auth.ScopeRead)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "limit must be an integer")
			return
		}
		limit = parsed
	}

	items, err := h.analytics.RecentActivity(r.Context(), userID, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	views := make([]ActivityItemView, 0, len(items))
	for _, item := range items {
		views = append(views, ActivityItemView{
			ID:          item.ID,
			Kind:        item.Kind,
			Title:       item.Title,
			Status:      item.Status,
			ParentID:    item.ParentID,
			ParentTitle: item.ParentTitle,
			UpdatedAt:   item.UpdatedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": views})
}

// DashboardStatsView holds the headline dashboard counters.
type DashboardStatsView struct {
	OpenTasks      int `json:"open_tasks"`
	CompletedToday int `json:"completed_today"`
	Overdue        int `json:"overdue"`
	ActiveStreak   int `json:"active_streak"`
}

func (h *Handler) dashboardStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireScope(w, r, auth.ScopeRead)
	if !ok {
		return
	}

	stats, err := h.analytics.DashboardStats(r.Context(), userID, time.Now().UTC())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, DashboardStatsView{
		OpenTasks:      stats.OpenTasks,
		CompletedToday: stats.CompletedToday,
		Overdue:        stats.Overdue,
		ActiveStreak:   stats.ActiveStreak,
	})
}
