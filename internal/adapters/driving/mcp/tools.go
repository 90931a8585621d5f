package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/folio/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query    string `json:"query" jsonschema:"the search query; every word must match"`
	Page     int    `json:"page,omitempty" jsonschema:"1-based page number (default 1)"`
	PageSize int    `json:"pageSize,omitempty" jsonschema:"results per page, at most 100 (default 10)"`
	Type     string `json:"type,omitempty" jsonschema:"restrict results to one document type: simple-page or guide"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results    []SearchResultOutput `json:"results"`
	Total      int                  `json:"total"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"pageSize"`
	TotalPages int                  `json:"totalPages"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Path      string `json:"path"`
	Type      string `json:"type"`
	Snippet   string `json:"snippet"`
	UpdatedAt string `json:"updatedAt"`
	Relevance int    `json:"relevance"`
}

// RouteInput is the input schema for the resolve_route tool.
type RouteInput struct {
	Path string `json:"path" jsonschema:"the public path to resolve, for example /guides/setup"`
}

// RouteOutput is the output schema for the resolve_route tool.
type RouteOutput struct {
	Path      string `json:"path"`
	Published bool   `json:"published"`
	ContentID string `json:"contentId,omitempty"`
	Type      string `json:"type,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search published content. Results are ranked by title and body matches.",
	}, s.handleSearch)

	if s.ports.Routes != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "resolve_route",
			Description: "Report whether a public path is served as published content",
		}, s.handleResolveRoute)
	}
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	query := domain.SearchQuery{
		Query:    input.Query,
		Page:     input.Page,
		PageSize: input.PageSize,
		Type:     domain.DocumentType(strings.TrimSpace(input.Type)),
	}.Normalised()

	page, err := s.ports.Search.Search(ctx, query)
	if err != nil {
		return nil, SearchOutput{}, fmt.Errorf("searching %q: %w", input.Query, err)
	}

	output := SearchOutput{
		Results:    make([]SearchResultOutput, len(page.Results)),
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}
	for i, r := range page.Results {
		output.Results[i] = SearchResultOutput{
			ID:        r.ID,
			Title:     r.Title,
			Path:      r.Path,
			Type:      string(r.Type),
			Snippet:   r.Snippet,
			UpdatedAt: r.UpdatedAt.UTC().Format(time.RFC3339),
			Relevance: r.Relevance,
		}
	}

	return nil, output, nil
}

// handleResolveRoute handles the resolve_route tool invocation.
func (s *Server) handleResolveRoute(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input RouteInput,
) (*mcp.CallToolResult, RouteOutput, error) {
	path := strings.TrimSpace(input.Path)
	if path == "" {
		return nil, RouteOutput{}, fmt.Errorf("%w: path is required", domain.ErrInvalidInput)
	}

	output := RouteOutput{Path: path}
	if route, ok := s.ports.Routes.Lookup(path); ok {
		output.Published = true
		output.ContentID = route.ContentID
		output.Type = string(route.DocumentType)
	}
	return nil, output, nil
}
