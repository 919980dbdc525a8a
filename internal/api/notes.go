package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"example.com/lifeboard/internal/auth"
	"example.com/lifeboard/internal/domain"
)

// NoteRequest is the payload for creating and updating notes.
type NoteRequest struct {
	ProjectID string `json:"project_id,omitempty"`
	Title     string `json:"title"`
	Content   string `json:"content"`
}

// Validate ensures request correctness.
func (r NoteRequest) Validate(forCreate bool) error {
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("title is required")
	}
	if forCreate && strings.TrimSpace(r.ProjectID) == "" {
		return errors.New("project_id is required")
	}
	return nil
}

// NoteView exposes a note.
type NoteView struct {
	NoteID    string    `json:"note_id"`
	ProjectID string    `json:"project_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	IsPinned  bool      `json:"is_pinned"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toNoteView(note domain.Note) NoteView {
	return NoteView{
		NoteID:    note.ID,
		ProjectID: note.ProjectID,
		Title:     note.Title,
		Content:   note.Content,
		IsPinned:  note.IsPinned,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
}

func (h *Handler) createNote(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireScope(w, r, auth.ScopeWrite)
	if !ok {
		return
	}

	var req NoteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(true); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	note, err := h.notes.CreateNote(r.Context(), userID, req.ProjectID, req.Title, req.Content)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toNoteView(*note))
}

func (h *Handler) updateNote(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireScope(w, r, auth.ScopeWrite)
	if !ok {
		return
	}

	var req NoteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(false); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	note, err := h.notes.UpdateNote(r.Context(), userID, r.PathValue("id"), req.Title, req.Content)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toNoteView(*note))
}

// PinNoteRequest toggles a note's pinned flag.
type PinNoteRequest struct {
	Pinned bool `json:"pinned"`
}

func (h *Handler) pinNote(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireScope(w, r, auth.ScopeWrite)
	if !ok {
		return
	}

	var req PinNoteRequest
	if !decodeBody(w, r, &req) {
		return
	}

	note, err := h.notes.SetPinned(r.Context(), userID, r.PathValue("id"), req.Pinned)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toNoteView(*note))
}

func (h *Handler) deleteNote(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireScope(w, r, auth.ScopeWrite)
	if !ok {
		return
	}

	if err := h.notes.DeleteNote(r.Context(), userID, r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listNotes(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireScope(w, r, auth.ScopeRead)
	if !ok {
		return
	}

	notes, err := h.notes.ListNotes(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	items := make([]NoteView, 0, len(notes))
	for _, note := range notes {
		items = append(items, toNoteView(note))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}
