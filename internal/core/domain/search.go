package domain

import "time"

// Pagination defaults for search queries.
const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// SearchQuery configures a search request.
type SearchQuery struct {
	// Query is the raw user query.
	Query string

	// Page is the 1-based page number.
	Page int

	// PageSize is the number of results per page.
	PageSize int

	// Type restricts results to one document type. Empty means all types.
	Type DocumentType
}

// Normalised returns a copy with out-of-range pagination replaced by defaults.
func (q SearchQuery) Normalised() SearchQuery {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	return q
}

// SearchResult represents a single search hit.
type SearchResult struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	Path      string       `json:"path"`
	Type      DocumentType `json:"type"`
	Snippet   string       `json:"snippet"`
	UpdatedAt time.Time    `json:"updatedAt"`
	Relevance int          `json:"relevance"`
}

// SearchPage is one page of ranked search results.
type SearchPage struct {
	Results    []SearchResult `json:"results"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
}

// IndexHealth is a read-only snapshot of the search index state.
type IndexHealth struct {
	// Status is always "ok" while the process serves requests.
	Status string

	// DocumentCount is the number of indexed documents.
	DocumentCount int

	// LastIndexed is when the index was last built or updated.
	// Zero until the first successful build.
	LastIndexed time.Time
}
