package mcp

import (
	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driving"
)

// DocumentReader returns indexed documents by id.
type DocumentReader interface {
	Document(id string) (domain.IndexedDocument, bool)
}

// Ports aggregates the services the MCP server drives.
type Ports struct {
	// Search provides search capabilities.
	Search driving.SearchService

	// Documents exposes indexed documents as resources. Optional.
	Documents DocumentReader

	// Routes answers route lookups. Optional.
	Routes driving.RouteResolver
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
