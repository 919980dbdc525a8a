package api

import (
	"errors"
	"net/http"

	"example.com/lifeboard/internal/auth"
	"example.com/lifeboard/internal/domain"
)

// SearchHitView is one row in a command-menu search section.
type SearchHitView struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	ProjectID    string `json:"project_id,omitempty"`
	ProjectTitle string `json:"project_title,omitempty"`
	AreaID       string `json:"area_id"`
}

// SearchResponse groups search hits by entity type.
type SearchResponse struct {
	Tasks    []SearchHitView `json:"tasks"`
	Projects []SearchHitView `json:"projects"`
	Notes    []SearchHitView `json:"notes"`
}

func toSearchHitViews(hits []domain.SearchHit) []SearchHitView {
	views := make([]SearchHitView, 0, len(hits))
	for _, hit := range hits {
		views = append(views, SearchHitView{
			ID:           hit.ID,
			Title:        hit.Title,
			ProjectID:    hit.ProjectID,
			ProjectTitle: hit.ProjectTitle,
			AreaID:       hit.AreaID,
		})
	}
	return views
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireScope(w, r, auth.ScopeRead)
	if !ok {
		return
	}

	results, err := h.searcher.Search(r.Context(), userID, r.URL.Query().Get("q"))
	if err != nil {
		if errors.Is(err, domain.ErrEmptySearchQuery) {
			writeError(w, http.StatusBadRequest, "invalid_request", "query parameter q is required")
			return
		}
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, SearchResponse{
		Tasks:    toSearchHitViews(results.Tasks),
		Projects: toSearchHitViews(results.Projects),
		Notes:    toSearchHitViews(results.Notes),
	})
}
