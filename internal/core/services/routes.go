package services

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
	"github.com/custodia-labs/folio/internal/core/ports/driving"
	"github.com/custodia-labs/folio/internal/logger"
)

// Ensure RouteCache implements the interface.
var _ driving.RouteResolver = (*RouteCache)(nil)

// RouteCache maps published paths to their documents.
// Every refresh builds a new map and swaps it in whole.
type RouteCache struct {
	source driven.ContentSource
	routes atomic.Pointer[map[string]domain.Route]
}

// NewRouteCache creates an empty route cache fed by source.
func NewRouteCache(source driven.ContentSource) *RouteCache {
	c := &RouteCache{source: source}
	empty := make(map[string]domain.Route)
	c.routes.Store(&empty)
	return c
}

// Refresh rebuilds the cache from the published documents and returns
// the number of routes. On failure the previous routes are kept.
func (c *RouteCache) Refresh(ctx context.Context) (int, error) {
	docs, err := c.source.ListPublished(ctx)
	if err != nil {
		logger.Warn("routes: refresh failed, keeping %d cached routes: %v", c.Len(), err)
		return 0, fmt.Errorf("fetching published content: %w", err)
	}

	routes := make(map[string]domain.Route, len(docs))
	for _, doc := range docs {
		if !doc.IsPublished() {
			continue
		}
		routes[doc.Path] = domain.Route{ContentID: doc.ID, DocumentType: doc.Type()}
	}
	c.routes.Store(&routes)

	logger.Debug("routes: cached %d routes", len(routes))
	return len(routes), nil
}

// Lookup returns the route for path.
func (c *RouteCache) Lookup(path string) (domain.Route, bool) {
	route, ok := (*c.routes.Load())[path]
	return route, ok
}

// Len returns the number of cached routes.
func (c *RouteCache) Len() int {
	return len(*c.routes.Load())
}
