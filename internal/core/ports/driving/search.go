package driving

import (
	"context"

	"github.com/custodia-labs/folio/internal/core/domain"
)

// SearchService provides search capabilities to external actors.
type SearchService interface {
	// Search returns one page of ranked results for the query.
	// An empty query yields an empty page, never an error.
	Search(ctx context.Context, query domain.SearchQuery) (domain.SearchPage, error)

	// Health returns a read-only snapshot of the index state.
	Health() domain.IndexHealth
}
