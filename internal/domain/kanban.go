package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrAreaNotFound is returned when a life area cannot be located for the user.
	ErrAreaNotFound = errors.New("life area not found")
	// ErrBoardNotFound is returned when a board cannot be located for the user.
	ErrBoardNotFound = errors.New("board not found")
	// ErrColumnNotFound is returned when a column cannot be located for the user.
	ErrColumnNotFound = errors.New("column not found")
)

// LifeArea is a top-level user-defined category ("Health", "Work").
type LifeArea struct {
	ID          string
	UserID      string
	Name        string
	Icon        string
	Color       string
	Description string
	Position    int
	IsArchived  bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Board groups ordered columns inside a life area.
type Board struct {
	ID          string
	AreaID      string
	Name        string
	Description string
	Position    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Column is an ordered lane on a board holding projects.
type Column struct {
	ID          string
	BoardID     string
	Name        string
	Color       string
	Position    int
	WIPLimit    *int
	IsCollapsed bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Project is a work item inside a column; it owns tasks and notes.
type Project struct {
	ID          string
	ColumnID    string
	Title       string
	Description string
	Priority    Priority
	DueDate     *time.Time
	Position    int
	IsArchived  bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ColumnTree is a column with its ordered projects, used by the board view.
type ColumnTree struct {
	Column
	Projects []Project
}

// BoardTree is the full kanban view of one board.
type BoardTree struct {
	Board
	Columns []ColumnTree
}

// AreaSummary decorates a life area with its board count for the area index.
type AreaSummary struct {
	LifeArea
	BoardCount int
}

// KanbanRepository captures persistence for the area/board/column/project
// hierarchy. All queries are user-scoped.
type KanbanRepository interface {
	CreateArea(ctx context.Context, area LifeArea) error
	GetArea(ctx context.Context, userID, areaID string) (*LifeArea, error)
	UpdateArea(ctx context.Context, area LifeArea) error
	ListAreas(ctx context.Context, userID string) ([]AreaSummary, error)
	ReorderAreas(ctx context.Context, userID string, orderedIDs []string) error

	CreateBoard(ctx context.Context, userID string, board Board) error
	GetBoardTree(ctx context.Context, userID, boardID string) (*BoardTree, error)
	UpdateBoard(ctx context.Context, userID string, board Board) error
	DeleteBoard(ctx context.Context, userID, boardID string) error

	CreateColumn(ctx context.Context, userID string, column Column) error
	GetColumn(ctx context.Context, userID, columnID string) (*Column, error)
	UpdateColumn(ctx context.Context, userID string, column Column) error
	DeleteColumn(ctx context.Context, userID, columnID string) error
	ReorderColumns(ctx context.Context, userID string, orderedIDs []string) error

	CreateProject(ctx context.Context, userID string, project Project) error
	GetProject(ctx context.Context, userID, projectID string) (*Project, error)
	UpdateProject(ctx context.Context, userID string, project Project) error
	MoveProject(ctx context.Context, userID, projectID, columnID string, position int) error
	DeleteProject(ctx context.Context, userID, projectID string) error
}

// KanbanService orchestrates board management workflows.
type KanbanService struct {
	repo KanbanRepository
}

// NewKanbanService constructs a KanbanService.
func NewKanbanService(repo KanbanRepository) *KanbanService {
	return &KanbanService{repo: repo}
}

// CreateAreaInput captures the payload from the API layer.
type CreateAreaInput struct {
	Name        string
	Icon        string
	Color       string
	Description string
}

// CreateArea persists a new life area.
func (s *KanbanService) CreateArea(ctx context.Context, userID string, input CreateAreaInput) (*LifeArea, error) {
	now := time.Now().UTC()
	area := LifeArea{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        input.Name,
		Icon:        input.Icon,
		Color:       input.Color,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateArea(ctx, area); err != nil {
		return nil, err
	}
	return &area, nil
}

// UpdateArea applies the edit to an owned life area.
func (s *KanbanService) UpdateArea(ctx context.Context, userID, areaID string, input CreateAreaInput) (*LifeArea, error) {
	area, err := s.repo.GetArea(ctx, userID, areaID)
	if err != nil {
		return nil, err
	}
	if area == nil {
		return nil, ErrAreaNotFound
	}

	area.Name = input.Name
	area.Icon = input.Icon
	area.Color = input.Color
	area.Description = input.Description
	area.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateArea(ctx, *area); err != nil {
		return nil, err
	}
	return area, nil
}

// ArchiveArea hides a life area from the index.
func (s *KanbanService) ArchiveArea(ctx context.Context, userID, areaID string) error {
	area, err := s.repo.GetArea(ctx, userID, areaID)
	if err != nil {
		return err
	}
	if area == nil {
		return ErrAreaNotFound
	}
	area.IsArchived = true
	area.UpdatedAt = time.Now().UTC()
	return s.repo.UpdateArea(ctx, *area)
}

// ListAreas returns the user's areas with board counts.
func (s *KanbanService) ListAreas(ctx context.Context, userID string) ([]AreaSummary, error) {
	return s.repo.ListAreas(ctx, userID)
}

// ReorderAreas rewrites positions to match the provided id order.
func (s *KanbanService) ReorderAreas(ctx context.Context, userID string, orderedIDs []string) error {
	return s.repo.ReorderAreas(ctx, userID, orderedIDs)
}

// CreateBoard persists a new board under an owned area.
func (s *KanbanService) CreateBoard(ctx context.Context, userID, areaID, name, description string) (*Board, error) {
	area, err := s.repo.GetArea(ctx, userID, areaID)
	if err != nil {
		return nil, err
	}
	if area == nil {
		return nil, ErrAreaNotFound
	}

	now := time.Now().UTC()
	board := Board{
		ID:          uuid.NewString(),
		AreaID:      areaID,
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateBoard(ctx, userID, board); err != nil {
		return nil, err
	}
	return &board, nil
}

// GetBoard returns the full kanban tree for a board.
func (s *KanbanService) GetBoard(ctx context.Context, userID, boardID string) (*BoardTree, error) {
	tree, err := s.repo.GetBoardTree(ctx, userID, boardID)
	if err != nil {
		return nil, err
	}
	if tree == nil {
		return nil, ErrBoardNotFound
	}
	return tree, nil
}

// UpdateBoard renames an owned board.
func (s *KanbanService) UpdateBoard(ctx context.Context, userID, boardID, name, description string) (*Board, error) {
	tree, err := s.repo.GetBoardTree(ctx, userID, boardID)
	if err != nil {
		return nil, err
	}
	if tree == nil {
		return nil, ErrBoardNotFound
	}

	board := tree.Board
	board.Name = name
	board.Description = description
	board.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateBoard(ctx, userID, board); err != nil {
		return nil, err
	}
	return &board, nil
}

// DeleteBoard removes a board and (by cascade) its columns and projects.
func (s *KanbanService) DeleteBoard(ctx context.Context, userID, boardID string) error {
	return s.repo.DeleteBoard(ctx, userID, boardID)
}

// CreateColumnInput captures the payload from the API layer.
type CreateColumnInput struct {
	BoardID  string
	Name     string
	Color    string
	WIPLimit *int
}

// CreateColumn persists a new column on an owned board.
func (s *KanbanService) CreateColumn(ctx context.Context, userID string, input CreateColumnInput) (*Column, error) {
	now := time.Now().UTC()
	column := Column{
		ID:        uuid.NewString(),
		BoardID:   input.BoardID,
		Name:      input.Name,
		Color:     input.Color,
		WIPLimit:  input.WIPLimit,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateColumn(ctx, userID, column); err != nil {
		return nil, err
	}
	return &column, nil
}

// UpdateColumnInput carries mutable column fields.
type UpdateColumnInput struct {
	Name        string
	Color       string
	WIPLimit    *int
	IsCollapsed bool
}

// UpdateColumn applies the edit to an owned column.
func (s *KanbanService) UpdateColumn(ctx context.Context, userID, columnID string, input UpdateColumnInput) (*Column, error) {
	column, err := s.repo.GetColumn(ctx, userID, columnID)
	if err != nil {
		return nil, err
	}
	if column == nil {
		return nil, ErrColumnNotFound
	}

	column.Name = input.Name
	column.Color = input.Color
	column.WIPLimit = input.WIPLimit
	column.IsCollapsed = input.IsCollapsed
	column.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateColumn(ctx, userID, *column); err != nil {
		return nil, err
	}
	return column, nil
}

// DeleteColumn removes an owned column.
func (s *KanbanService) DeleteColumn(ctx context.Context, userID, columnID string) error {
	return s.repo.DeleteColumn(ctx, userID, columnID)
}

// ReorderColumns rewrites positions to match the provided id order.
func (s *KanbanService) ReorderColumns(ctx context.Context, userID string, orderedIDs []string) error {
	return s.repo.ReorderColumns(ctx, userID, orderedIDs)
}

// CreateProjectInput captures the payload from the API layer.
type CreateProjectInput struct {
	ColumnID    string
	Title       string
	Description string
	Priority    Priority
	DueDate     *time.Time
}

// CreateProject persists a new project in an owned column.
func (s *KanbanService) CreateProject(ctx context.Context, userID string, input CreateProjectInput) (*Project, error) {
	now := time.Now().UTC()
	project := Project{
		ID:          uuid.NewString(),
		ColumnID:    input.ColumnID,
		Title:       input.Title,
		Description: input.Description,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if project.Priority == "" {
		project.Priority = PriorityMedium
	}
	if err := s.repo.CreateProject(ctx, userID, project); err != nil {
		return nil, err
	}
	return &project, nil
}

// UpdateProject applies the edit to an owned project.
func (s *KanbanService) UpdateProject(ctx context.Context, userID, projectID string, input CreateProjectInput) (*Project, error) {
	project, err := s.repo.GetProject(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}

	project.Title = input.Title
	project.Description = input.Description
	if input.Priority != "" {
		project.Priority = input.Priority
	}
	project.DueDate = input.DueDate
	project.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateProject(ctx, userID, *project); err != nil {
		return nil, err
	}
	return project, nil
}

// MoveProject relocates a project to a column at the given position.
func (s *KanbanService) MoveProject(ctx context.Context, userID, projectID, columnID string, position int) error {
	return s.repo.MoveProject(ctx, userID, projectID, columnID, position)
}

// ArchiveProject hides a project from its board.
func (s *KanbanService) ArchiveProject(ctx context.Context, userID, projectID string) error {
	project, err := s.repo.GetProject(ctx, userID, projectID)
	if err != nil {
		return err
	}
	if project == nil {
		return ErrProjectNotFound
	}
	project.IsArchived = true
	project.UpdatedAt = time.Now().UTC()
	return s.repo.UpdateProject(ctx, userID, *project)
}

// DeleteProject removes a project and (by cascade) its tasks and notes.
func (s *KanbanService) DeleteProject(ctx context.Context, userID, projectID string) error {
	return s.repo.DeleteProject(ctx, userID, projectID)
}
