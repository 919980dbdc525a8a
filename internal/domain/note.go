package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNoteNotFound is returned when a note cannot be located for the user.
var ErrNoteNotFound = errors.New("note not found")

// Note is a free-form markdown document attached to a project.
type Note struct {
	ID        string
	ProjectID string
	Title     string
	Content   string
	IsPinned  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NoteRepository captures note persistence operations.
type NoteRepository interface {
	Create(ctx context.Context, userID string, note Note) error
	Get(ctx context.Context, userID, noteID string) (*Note, error)
	Update(ctx context.Context, userID string, note Note) error
	Delete(ctx context.Context, userID, noteID string) error
	ListByProject(ctx context.Context, userID, projectID string) ([]Note, error)
}

// NoteService orchestrates note workflows.
type NoteService struct {
	repo NoteRepository
}

// NewNoteService constructs a NoteService.
func NewNoteService(repo NoteRepository) *NoteService {
	return &NoteService{repo: repo}
}

// CreateNote persists a new note under an owned project.
func (s *NoteService) CreateNote(ctx context.Context, userID, projectID, title, content string) (*Note, error) {
	now := time.Now().UTC()
	note := Note{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, userID, note); err != nil {
		return nil, err
	}
	return &note, nil
}

// UpdateNote applies the edit to an owned note.
func (s *NoteService) UpdateNote(ctx context.Context, userID, noteID, title, content string) (*Note, error) {
	note, err := s.repo.Get(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, ErrNoteNotFound
	}

	note.Title = title
	note.Content = content
	note.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, userID, *note); err != nil {
		return nil, err
	}
	return note, nil
}

// SetPinned toggles a note's pinned state.
func (s *NoteService) SetPinned(ctx context.Context, userID, noteID string, pinned bool) (*Note, error) {
	note, err := s.repo.Get(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, ErrNoteNotFound
	}

	note.IsPinned = pinned
	note.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, userID, *note); err != nil {
		return nil, err
	}
	return note, nil
}

// DeleteNote removes an owned note.
func (s *NoteService) DeleteNote(ctx context.Context, userID, noteID string) error {
	return s.repo.Delete(ctx, userID, noteID)
}

// ListNotes returns a project's notes, pinned first.
func (s *NoteService) ListNotes(ctx context.Context, userID, projectID string) ([]Note, error) {
	return s.repo.ListByProject(ctx, userID, projectID)
}
