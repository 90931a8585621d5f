package driven

import (
	"context"

	"github.com/custodia-labs/folio/internal/core/domain"
)

// ContentSource reads documents from the content store.
// The core treats it purely as a data source to poll.
type ContentSource interface {
	// ListPublished returns every currently published document.
	ListPublished(ctx context.Context) ([]domain.ContentDocument, error)

	// ListAll returns every document regardless of state.
	ListAll(ctx context.Context) ([]domain.ContentDocument, error)

	// GetByPath returns the document at path.
	// When publishedOnly is set, drafts are reported as domain.ErrNotFound.
	GetByPath(ctx context.Context, path string, publishedOnly bool) (*domain.ContentDocument, error)
}
