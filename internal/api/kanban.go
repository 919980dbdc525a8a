package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"example.com/lifeboard/internal/auth"
	"example.com/lifeboard/internal/domain"
)

// AreaRequest is the payload for creating and updating life areas.
type AreaRequest struct {
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

// Validate ensures request correctness.
func (r AreaRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	return nil
}

// AreaView exposes a life area with its board count.
type AreaView struct {
	AreaID      string    `json:"area_id"`
	Name        string    `json:"name"`
	Icon        string    `json:"icon"`
	Color       string    `json:"color"`
	Description string    `json:"description"`
	Position    int       `json:"position"`
	BoardCount  int       `json:"board_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toAreaView(area domain.LifeArea, boardCount int) AreaView {
	return AreaView{
		AreaID:      area.ID,
		Name:        area.Name,
		Icon:        area.Icon,
		Color:       area.Color,
		Description: area.Description,
		Position:    area.Position,
		BoardCount:  boardCount,
		CreatedAt:   area.CreatedAt,
		UpdatedAt:   area.UpdatedAt,
	}
}

func (h *Handler) createArea(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireScope(w, r, auth.ScopeWrite)
	if !ok {
		return
	}

	var req AreaRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	area, err := h.kanban.CreateArea(r.Context(), userID, domain.CreateAreaInput{
		Name:        req.Name,
		Icon:        req.Icon,
		Color:       req.Color,
		Description: req.Description,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAreaView(*area, 0))
}

func (h *Handler) listAreas(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireScope(w, r, auth.ScopeRead)
	if !ok {
		return
	}

	summaries, err := h.kanban.ListAreas(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	items := make([]AreaView, 0, len(summaries))
	for _, s := range summaries {
		items = append(items, toAreaView(s.LifeArea, s.BoardCount))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

func (h *Handler) updateArea(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireScope(w, r, auth.ScopeWrite)
	if !ok {
		return
	}

	var req AreaRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	area, err := h.kanban.UpdateArea(r.Context(), userID, r.PathValue("id"), domain.CreateAreaInput{
		Name:        req.Name,
		Icon:        req.Icon,
		Color:       req.Color,
		Description: req.Description,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAreaView(*area, 0))
}

func (h *Handler) archiveArea(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireScope(w, r, auth.ScopeWrite)
	if !ok {
		return
	}

	if err := h.kanban.ArchiveArea(r.Context(), userID, r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReorderRequest carries an explicit id ordering.
type ReorderRequest struct {
	OrderedIDs []string `json:"ordered_ids"`
}

// Validate ensures request correctness.
func (r ReorderRequest) Validate() error {
	if len(r.OrderedIDs) == 0 {
		return errors.New("ordered_ids is required")
	}
	return nil
}

func (h *Handler) reorderAreas(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireScope(w, r, auth.ScopeWrite)
	if !ok {
		return
	}

	var req ReorderRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	if err := h.kanban.ReorderAreas(r.Context(), userID, req.OrderedIDs); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BoardRequest is the payload for creating and updating boards.
type BoardRequest struct {
	AreaID      string `json:"area_id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Validate ensures request correctness. forCreate additionally requires the
// owning area.
func (r BoardRequest) Validate(forCreate bool) error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	if forCreate && strings.TrimSpace(r.AreaID) == "" {
		return errors.New("area_id is required")
	}
	return nil
}

// BoardView exposes board metadata.
type BoardView struct {
	BoardID     string    `json:"board_id"`
	AreaID      string    `json:"area_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Position    int       `json:"position"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ColumnView exposes a column with its projects for the board tree.
type ColumnView struct {
	ColumnID    string        `json:"column_id"`
	Name        string        `json:"name"`
	Color       string        `json:"color"`
	Position    int           `json:"position"`
	WIPLimit    *int          `json:"wip_limit,omitempty"`
	IsCollapsed bool          `json:"is_collapsed"`
	Projects    []ProjectView `json:"projects"`
}

// ProjectView exposes project details.
type ProjectView struct {
	ProjectID   string     `json:"project_id"`
	ColumnID    string     `json:"column_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Position    int        `json:"position"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// BoardTreeView is the full kanban response for one board.
type BoardTreeView struct {
	BoardView
	Columns []ColumnView `json:"columns"`
}

func toBoardView(board domain.Board) BoardView {
	return BoardView{
		BoardID:     board.ID,
		AreaID:      board.AreaID,
		Name:        board.Name,
		Description: board.Description,
		Position:    board.Position,
		CreatedAt:   board.CreatedAt,
		UpdatedAt:   board.UpdatedAt,
	}
}

func toProjectView(project domain.Project) ProjectView {
	return ProjectView{
		ProjectID:   project.ID,
		ColumnID:    project.ColumnID,
		Title:       project.Title,
		Description: project.Description,
		Priority:    string(project.Priority),
		DueDate:     project.DueDate,
		Position:    project.Position,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
}

func (h *Handler) createBoard(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireScope(w, r, auth.ScopeWrite)
	if !ok {
		return
	}

	var req BoardRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(true); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	board, err := h.kanban.CreateBoard(r.Context(), userID, req.AreaID, req.Name, req.Description)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toBoardView(*board))
}

func (h *Handler) getBoard(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireScope(w, r, auth.ScopeRead)
	if !ok {
		return
	}

	tree, err := h.kanban.GetBoard(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := BoardTreeView{
		BoardView: toBoardView(tree.Board),
		Columns:   make([]ColumnView, 0, len(tree.Columns)),
	}
	for _, column := range tree.Columns {
		view := ColumnView{
			ColumnID:    column.ID,
			Name:        column.Name,
			Color:       column.Color,
			Position:    column.Position,
			WIPLimit:    column.WIPLimit,
			IsCollapsed: column.IsCollapsed,
			Projects:    make([]ProjectView, 0, len(column.Projects)),
		}
		for _, project := range column.Projects {
			view.Projects = append(view.Projects, toProjectView(project))
		}
		resp.Columns = append(resp.Columns, view)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) updateBoard(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireScope(w, r, auth.ScopeWrite)
	if !ok {
		return
	}

	var req BoardRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(false); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	board, err := h.kanban.UpdateBoard(r.Context(), userID, r.PathValue("id"), req.Name, req.Description)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBoardView(*board))
}

func (h *Handler) deleteBoard(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireScope(w, r, auth.ScopeWrite)
	if !ok {
		return
	}

	if err := h.kanban.DeleteBoard(r.Context(), userID, r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ColumnRequest is the payload for creating and updating columns.
type ColumnRequest struct {
	BoardID     string `json:"board_id,omitempty"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	WIPLimit    *int   `json:"wip_limit,omitempty"`
	IsCollapsed bool   `json:"is_collapsed"`
}

// Validate ensures request correctness.
func (r ColumnRequest) Validate(forCreate bool) error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	if forCreate && strings.TrimSpace(r.BoardID) == "" {
		return errors.New("board_id is required")
	}
	if r.WIPLimit != nil && *r.WIPLimit < 0 {
		return errors.New("wip_limit must be >= 0")
	}
	return nil
}

func toColumnView(column domain.Column) ColumnView {
	return ColumnView{
		ColumnID:    column.ID,
		Name:        column.Name,
		Color:       column.Color,
		Position:    column.Position,
		WIPLimit:    column.WIPLimit,
		IsCollapsed: column.IsCollapsed,
		Projects:    []ProjectView{},
	}
}

func (h *Handler) createColumn(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireScope(w, r, auth.ScopeWrite)
	if !ok {
		return
	}

	var req ColumnRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(true); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	column, err := h.kanban.CreateColumn(r.Context(), userID, domain.CreateColumnInput{
		BoardID:  req.BoardID,
		Name:     req.Name,
		Color:    req.Color,
		WIPLimit: req.WIPLimit,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toColumnView(*column))
}

func (h *Handler) updateColumn(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireScope(w, r, auth.ScopeWrite)
	if !ok {
		return
	}

	var req ColumnRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(false); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	column, err := h.kanban.UpdateColumn(r.Context(), userID, r.PathValue("id"), domain.UpdateColumnInput{
		Name:        req.Name,
		Color:       req.Color,
		WIPLimit:    req.WIPLimit,
		IsCollapsed: req.IsCollapsed,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toColumnView(*column))
}

func (h *Handler) deleteColumn(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireScope(w, r, auth.ScopeWrite)
	if !ok {
		return
	}

	if err := h.kanban.DeleteColumn(r.Context(), userID, r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) reorderColumns(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireScope(w, r, auth.ScopeWrite)
	if !ok {
		return
	}

	var req ReorderRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	if err := h.kanban.ReorderColumns(r.Context(), userID, req.OrderedIDs); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ProjectRequest is the payload for creating and updating projects.
type ProjectRequest struct {
	ColumnID    string     `json:"column_id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// Validate ensures request correctness.
func (r ProjectRequest) Validate(forCreate bool) error {
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("title is required")
	}
	if forCreate && strings.TrimSpace(r.ColumnID) == "" {
		return errors.New("column_id is required")
	}
	return validPriority(r.Priority)
}

func validPriority(priority string) error {
	switch domain.Priority(priority) {
	case "", domain.PriorityLow, domain.PriorityMedium, domain.PriorityHigh, domain.PriorityUrgent:
		return nil
	}
	return errors.New("priority must be one of low, medium, high, urgent")
}

func (h *Handler) createProject(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireScope(w, r, auth.ScopeWrite)
	if !ok {
		return
	}

	var req ProjectRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(true); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	project, err := h.kanban.CreateProject(r.Context(), userID, domain.CreateProjectInput{
		ColumnID:    req.ColumnID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    domain.Priority(req.Priority),
		DueDate:     req.DueDate,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProjectView(*project))
}

func (h *Handler) updateProject(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireScope(w, r, auth.ScopeWrite)
	if !ok {
		return
	}

	var req ProjectRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(false); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	project, err := h.kanban.UpdateProject(r.Context(), userID, r.PathValue("id"), domain.CreateProjectInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    domain.Priority(req.Priority),
		DueDate:     req.DueDate,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectView(*project))
}

// MoveProjectRequest relocates a project on the board.
type MoveProjectRequest struct {
	ColumnID string `json:"column_id"`
	Position int    `json:"position"`
}

// Validate ensures request correctness.
func (r MoveProjectRequest) Validate() error {
	if strings.TrimSpace(r.ColumnID) == "" {
		return errors.New("column_id is required")
	}
	if r.Position < 0 {
		return errors.New("position must be >= 0")
	}
	return nil
}

func (h *Handler) moveProject(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireScope(w, r, auth.ScopeWrite)
	if !ok {
		return
	}

	var req MoveProjectRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	if err := h.kanban.MoveProject(r.Context(), userID, r.PathValue("id"), req.ColumnID, req.Position); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) archiveProject(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireScope(w, r, auth.ScopeWrite)
	if !ok {
		return
	}

	if err := h.kanban.ArchiveProject(r.Context(), userID, r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteProject(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireScope(w, r, auth.ScopeWrite)
	if !ok {
		return
	}

	if err := h.kanban.DeleteProject(r.Context(), userID, r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
