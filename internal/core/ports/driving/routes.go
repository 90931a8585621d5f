package driving

import "github.com/custodia-labs/folio/internal/core/domain"

// RouteResolver maps published content paths to documents.
type RouteResolver interface {
	// Lookup returns the route for path, if it is currently published.
	Lookup(path string) (domain.Route, bool)
}
