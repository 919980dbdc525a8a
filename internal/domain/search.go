package domain

import (
	"context"
	"errors"
	"strings"
)

// searchResultLimit caps matches per entity type; the command menu only
// shows a handful of rows per section.
const searchResultLimit = 5

// ErrEmptySearchQuery is returned when the search term is blank.
var ErrEmptySearchQuery = errors.New("search query is empty")

// SearchHit is one match from the global search. ProjectID and
// ProjectTitle are empty when the hit is itself a project.
type SearchHit struct {
	ID           string
	Title        string
	ProjectID    string
	ProjectTitle string
	AreaID       string
}

// SearchResults groups matches by entity type.
type SearchResults struct {
	Tasks    []SearchHit
	Projects []SearchHit
	Notes    []SearchHit
}

// SearchRepository runs the case-insensitive title search scoped to one
// user's life areas.
type SearchRepository interface {
	SearchAll(ctx context.Context, userID, query string, limit int) (*SearchResults, error)
}

// SearchService backs the global command-menu search.
type SearchService struct {
	repo SearchRepository
}

// NewSearchService constructs a SearchService.
func NewSearchService(repo SearchRepository) *SearchService {
	return &SearchService{repo: repo}
}

// Search finds tasks, projects, and notes whose titles contain query.
func (s *SearchService) Search(ctx context.Context, userID, query string) (*SearchResults, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptySearchQuery
	}
	return s.repo.SearchAll(ctx, userID, query, searchResultLimit)
}
