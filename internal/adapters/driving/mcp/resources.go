package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/folio/internal/adapters/driving/searchapi"
)

const uriScheme = "folio://"

// HealthURI names the index health resource.
const HealthURI = uriScheme + "index/health"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         HealthURI,
		Name:        "index-health",
		Description: "Search index status, document count and last indexing time",
		MIMEType:    "application/json",
	}, s.handleHealthResource)

	if s.ports.Documents != nil {
		s.server.AddResourceTemplate(&mcp.ResourceTemplate{
			URITemplate: uriScheme + "documents/{documentId}",
			Name:        "indexed-document",
			Description: "A published document as held by the search index",
			MIMEType:    "application/json",
		}, s.handleDocumentResource)
	}
}

// handleHealthResource returns the same body as the search API's /health.
func (s *Server) handleHealthResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(searchapi.NewHealthResponse(s.ports.Search.Health()), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling health: %w", err)
	}
	return jsonContents(req.Params.URI, data), nil
}

// documentInfo is the resource body for one indexed document.
type documentInfo struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Path      string `json:"path"`
	Type      string `json:"type"`
	UpdatedAt string `json:"updatedAt"`
	Text      string `json:"text"`
}

// handleDocumentResource returns an indexed document by id.
func (s *Server) handleDocumentResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Documents == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	id := extractDocumentID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	doc, ok := s.ports.Documents.Document(id)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	data, err := json.MarshalIndent(documentInfo{
		ID:        doc.ID,
		Title:     doc.Title,
		Path:      doc.Path,
		Type:      string(doc.Type),
		UpdatedAt: doc.UpdatedAt.UTC().Format(time.RFC3339),
		Text:      doc.Text,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling document: %w", err)
	}
	return jsonContents(req.Params.URI, data), nil
}

func jsonContents(uri string, data []byte) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}
}

// extractDocumentID extracts the id from a URI like folio://documents/{documentId}.
func extractDocumentID(uri string) string {
	const prefix = uriScheme + "documents/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
