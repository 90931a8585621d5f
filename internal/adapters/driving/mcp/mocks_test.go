package mcp

import (
	"context"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driving"
)

// Verify interface compliance.
var (
	_ driving.SearchService = (*mockSearchService)(nil)
	_ driving.RouteResolver = mockRoutes(nil)
	_ DocumentReader        = mockDocuments(nil)
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	lastQuery domain.SearchQuery
	page      domain.SearchPage
	health    domain.IndexHealth
	err       error
}

func (m *mockSearchService) Search(_ context.Context, q domain.SearchQuery) (domain.SearchPage, error) {
	m.lastQuery = q
	return m.page, m.err
}

func (m *mockSearchService) Health() domain.IndexHealth {
	return m.health
}

// mockRoutes resolves paths from a fixed table.
type mockRoutes map[string]domain.Route

func (m mockRoutes) Lookup(path string) (domain.Route, bool) {
	r, ok := m[path]
	return r, ok
}

// mockDocuments serves indexed documents from a fixed table.
type mockDocuments map[string]domain.IndexedDocument

func (m mockDocuments) Document(id string) (domain.IndexedDocument, bool) {
	d, ok := m[id]
	return d, ok
}
