package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"example.com/lifeboard/internal/auth"
	"example.com/lifeboard/internal/domain"
)

func authedRequest(method, target string, body string, scopes ...string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}

	scopeSet := make(map[string]struct{}, len(scopes))
	for _, scope := range scopes {
		scopeSet[scope] = struct{}{}
	}
	claims := &auth.Claims{
		Subject:   "user-1",
		Scopes:    scopeSet,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	return req.WithContext(auth.WithClaims(req.Context(), claims))
}

func taskHandler(repo domain.TaskRepository) *Handler {
	return NewHandler(nil, domain.NewTaskService(repo), nil, nil, nil, nil, nil, nil, nil)
}

func TestCreateTaskSuccess(t *testing.T) {
	repo := &mockTaskRepo{}
	handler := taskHandler(repo)

	req := authedRequest(http.MethodPost, "/v1/tasks",
		`{"project_id":"proj-1","title":"Write report","priority":"high"}`,
		auth.ScopeWrite)

	rr := httptest.NewRecorder()
	handler.createTask(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rr.Code, rr.Body.String())
	}

	var resp TaskView
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Title != "Write report" {
		t.Fatalf("unexpected title %q", resp.Title)
	}
	if resp.Status != "todo" {
		t.Fatalf("expected default status todo got %q", resp.Status)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected 1 create got %d", len(repo.created))
	}
	if repo.created[0].ProjectID != "proj-1" {
		t.Fatalf("unexpected project id %q", repo.created[0].ProjectID)
	}
}

func TestCreateTaskRejectsMissingTitle(t *testing.T) {
	handler := taskHandler(&mockTaskRepo{})

	req := authedRequest(http.MethodPost, "/v1/tasks", `{"project_id":"proj-1"}`, auth.ScopeWrite)

	rr := httptest.NewRecorder()
	handler.createTask(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}
}

func TestCreateTaskRequiresWriteScope(t *testing.T) {
	handler := taskHandler(&mockTaskRepo{})

	req := authedRequest(http.MethodPost, "/v1/tasks",
		`{"project_id":"proj-1","title":"Write report"}`,
		auth.ScopeRead)

	rr := httptest.NewRecorder()
	handler.createTask(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", rr.Code)
	}
}

func TestCreateTaskRejectsAnonymous(t *testing.T) {
	handler := taskHandler(&mockTaskRepo{})

	req := httptest.NewRequest(http.MethodPost, "/v1/tasks",
		strings.NewReader(`{"project_id":"proj-1","title":"Write report"}`))

	rr := httptest.NewRecorder()
	handler.createTask(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rr.Code)
	}
}

func TestWriteScopeImpliesRead(t *testing.T) {
	repo := &mockTaskRepo{}
	handler := taskHandler(repo)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	req := authedRequest(http.MethodGet, "/v1/projects/proj-1/tasks", "", auth.ScopeWrite)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestToggleTaskReturnsSuccessor(t *testing.T) {
	due := time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC)
	repo := &mockTaskRepo{
		tasks: map[string]domain.Task{
			"task-1": {
				ID:             "task-1",
				ProjectID:      "proj-1",
				Title:          "Water plants",
				Status:         domain.TaskStatusTodo,
				Priority:       domain.PriorityMedium,
				DueDate:        &due,
				IsRecurring:    true,
				RecurrenceRule: "daily",
			},
		},
	}
	handler := taskHandler(repo)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	req := authedRequest(http.MethodPost, "/v1/tasks/task-1/toggle", "", auth.ScopeWrite)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rr.Code, rr.Body.String())
	}

	var resp ToggleTaskResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Task.Status != "done" {
		t.Fatalf("expected done got %q", resp.Task.Status)
	}
	if resp.Task.CompletedAt == nil {
		t.Fatal("expected completed_at to be set")
	}
	if resp.Successor == nil {
		t.Fatal("expected a successor for a recurring task")
	}
	if resp.Successor.Status != "todo" {
		t.Fatalf("expected successor status todo got %q", resp.Successor.Status)
	}
	if resp.Successor.DueDate == nil || !resp.Successor.DueDate.Equal(due.AddDate(0, 0, 1)) {
		t.Fatalf("unexpected successor due date %v", resp.Successor.DueDate)
	}
}

func TestToggleTaskNotFound(t *testing.T) {
	handler := taskHandler(&mockTaskRepo{})

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	req := authedRequest(http.MethodPost, "/v1/tasks/missing/toggle", "", auth.ScopeWrite)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rr.Code)
	}
}

func TestDashboardBucketsTasks(t *testing.T) {
	now := time.Now().UTC()
	yesterday := now.AddDate(0, 0, -1)
	nextWeek := now.AddDate(0, 0, 7)
	repo := &mockTaskRepo{
		incompleteDue: []domain.Task{
			{ID: "task-past", Title: "Old", Status: domain.TaskStatusTodo, DueDate: &yesterday},
			{ID: "task-today", Title: "Now", Status: domain.TaskStatusTodo, DueDate: &now},
			{ID: "task-future", Title: "Later", Status: domain.TaskStatusTodo, DueDate: &nextWeek},
		},
	}
	handler := taskHandler(repo)

	req := authedRequest(http.MethodGet, "/v1/tasks/dashboard", "", auth.ScopeRead)

	rr := httptest.NewRecorder()
	handler.dashboardTasks(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rr.Code, rr.Body.String())
	}

	var resp DashboardView
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Overdue) != 1 || resp.Overdue[0].TaskID != "task-past" {
		t.Fatalf("unexpected overdue bucket %+v", resp.Overdue)
	}
	if len(resp.DueToday) != 1 || resp.DueToday[0].TaskID != "task-today" {
		t.Fatalf("unexpected due-today bucket %+v", resp.DueToday)
	}
	if len(resp.Upcoming) != 1 || resp.Upcoming[0].TaskID != "task-future" {
		t.Fatalf("unexpected upcoming bucket %+v", resp.Upcoming)
	}
}

func TestListGoalsReturnsItems(t *testing.T) {
	repo := &mockGoalRepo{
		goals: []domain.Goal{
			{ID: "goal-1", UserID: "user-1", Title: "Read 12 books", CurrentValue: 4, Unit: "books"},
		},
	}
	handler := NewHandler(nil, nil, nil, nil, domain.NewGoalService(repo), nil, nil, nil, nil)

	req := authedRequest(http.MethodGet, "/v1/goals", "", auth.ScopeRead)

	rr := httptest.NewRecorder()
	handler.listGoals(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Items []GoalView `json:"items"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Items) != 1 || resp.Items[0].GoalID != "goal-1" {
		t.Fatalf("unexpected items %+v", resp.Items)
	}
	if resp.Items[0].CurrentValue != 4 {
		t.Fatalf("unexpected current value %d", resp.Items[0].CurrentValue)
	}
}

type mockTaskRepo struct {
	tasks         map[string]domain.Task
	incompleteDue []domain.Task
	created       []domain.Task
	statusUpdates []domain.Task
}

func (m *mockTaskRepo) Create(ctx context.Context, userID string, task domain.Task) error {
	m.created = append(m.created, task)
	return nil
}

func (m *mockTaskRepo) Get(ctx context.Context, userID, taskID string) (*domain.Task, error) {
	task, ok := m.tasks[taskID]
	if !ok {
		return nil, nil
	}
	return &task, nil
}

func (m *mockTaskRepo) Update(ctx context.Context, userID string, task domain.Task) error {
	m.tasks[task.ID] = task
	return nil
}

func (m *mockTaskRepo) UpdateStatus(ctx context.Context, userID string, task domain.Task) error {
	m.statusUpdates = append(m.statusUpdates, task)
	m.tasks[task.ID] = task
	return nil
}

func (m *mockTaskRepo) Delete(ctx context.Context, userID, taskID string) error {
	delete(m.tasks, taskID)
	return nil
}

func (m *mockTaskRepo) ListByProject(ctx context.Context, userID, projectID string) ([]domain.Task, error) {
	var out []domain.Task
	for _, task := range m.tasks {
		if task.ProjectID == projectID {
			out = append(out, task)
		}
	}
	return out, nil
}

func (m *mockTaskRepo) ListIncompleteDue(ctx context.Context, userID string) ([]domain.Task, error) {
	return m.incompleteDue, nil
}

func (m *mockTaskRepo) Reorder(ctx context.Context, userID string, orderedIDs []string) error {
	return nil
}

type mockGoalRepo struct {
	goals []domain.Goal
}

func (m *mockGoalRepo) Create(ctx context.Context, goal domain.Goal) error {
	m.goals = append(m.goals, goal)
	return nil
}

func (m *mockGoalRepo) Get(ctx context.Context, userID, goalID string) (*domain.Goal, error) {
	for _, goal := range m.goals {
		if goal.ID == goalID && goal.UserID == userID {
			g := goal
			return &g, nil
		}
	}
	return nil, nil
}

func (m *mockGoalRepo) Update(ctx context.Context, goal domain.Goal) error {
	for i := range m.goals {
		if m.goals[i].ID == goal.ID {
			m.goals[i] = goal
		}
	}
	return nil
}

func (m *mockGoalRepo) Delete(ctx context.Context, userID, goalID string) error {
	return nil
}

func (m *mockGoalRepo) ListActive(ctx context.Context, userID string) ([]domain.Goal, error) {
	return m.goals, nil
}

type mockSearchRepo struct {
	query   string
	results domain.SearchResults
}

func (m *mockSearchRepo) SearchAll(ctx context.Context, userID, query string, limit int) (*domain.SearchResults, error) {
	m.query = query
	return &m.results, nil
}

func TestSearchGroupsHitsByType(t *testing.T) {
	repo := &mockSearchRepo{results: domain.SearchResults{
		Tasks:    []domain.SearchHit{{ID: "task-1", Title: "Book flights", ProjectID: "proj-1", ProjectTitle: "Trip", AreaID: "area-1"}},
		Projects: []domain.SearchHit{{ID: "proj-1", Title: "Trip planning", AreaID: "area-1"}},
	}}
	handler := NewHandler(nil, nil, nil, nil, nil, nil, nil, nil, domain.NewSearchService(repo))

	req := authedRequest(http.MethodGet, "/v1/search?q=trip", "", auth.ScopeRead)
	rr := httptest.NewRecorder()
	handler.search(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rr.Code, rr.Body.String())
	}
	if repo.query != "trip" {
		t.Fatalf("unexpected query %q", repo.query)
	}

	var resp SearchResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Tasks) != 1 || resp.Tasks[0].ProjectTitle != "Trip" {
		t.Fatalf("unexpected task hits %+v", resp.Tasks)
	}
	if len(resp.Projects) != 1 || resp.Projects[0].ID != "proj-1" {
		t.Fatalf("unexpected project hits %+v", resp.Projects)
	}
	if len(resp.Notes) != 0 {
		t.Fatalf("expected no note hits, got %+v", resp.Notes)
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	handler := NewHandler(nil, nil, nil, nil, nil, nil, nil, nil, domain.NewSearchService(&mockSearchRepo{}))

	req := authedRequest(http.MethodGet, "/v1/search", "", auth.ScopeRead)
	rr := httptest.NewRecorder()
	handler.search(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d: %s", rr.Code, rr.Body.String())
	}
}
