package mcp

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/folio/internal/core/domain"
)

func TestNewServer(t *testing.T) {
	t.Run("nil search service returns error", func(t *testing.T) {
		ports := &Ports{}
		server, err := NewServer(ports)
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingSearchService)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		ports := &Ports{
			Search: &mockSearchService{},
		}
		server, err := NewServer(ports)
		require.NoError(t, err)
		assert.NotNil(t, server)
		assert.NotNil(t, server.Handler())
	})
}

func TestPorts_Validate(t *testing.T) {
	t.Run("nil search service returns error", func(t *testing.T) {
		ports := &Ports{}
		err := ports.Validate()
		assert.ErrorIs(t, err, ErrMissingSearchService)
	})

	t.Run("search only is valid", func(t *testing.T) {
		ports := &Ports{
			Search: &mockSearchService{},
		}
		assert.NoError(t, ports.Validate())
	})

	t.Run("all ports is valid", func(t *testing.T) {
		ports := &Ports{
			Search:    &mockSearchService{},
			Documents: mockDocuments{},
			Routes:    mockRoutes{},
		}
		assert.NoError(t, ports.Validate())
	})
}

// connect starts s on an in-memory transport and returns a client session.
func connect(t *testing.T, s *Server) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serverSession, err := s.server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func TestServer_OverTransport(t *testing.T) {
	ctx := context.Background()
	search := &mockSearchService{
		page: domain.SearchPage{
			Results: []domain.SearchResult{{
				ID: "7", Title: "Proxy guide", Path: "/guides/proxy", Type: domain.DocumentTypeGuide,
				UpdatedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), Relevance: 4,
			}},
			Total: 1, Page: 1, PageSize: 10, TotalPages: 1,
		},
		health: domain.IndexHealth{Status: "ok", DocumentCount: 1},
	}
	server, err := NewServer(&Ports{Search: search, Routes: mockRoutes{}})
	require.NoError(t, err)
	session := connect(t, server)

	t.Run("lists tools", func(t *testing.T) {
		tools, err := session.ListTools(ctx, nil)
		require.NoError(t, err)

		var names []string
		for _, tool := range tools.Tools {
			names = append(names, tool.Name)
		}
		assert.ElementsMatch(t, []string{"search", "resolve_route"}, names)
	})

	t.Run("calls search", func(t *testing.T) {
		result, err := session.CallTool(ctx, &mcp.CallToolParams{
			Name:      "search",
			Arguments: map[string]any{"query": "proxy", "pageSize": 5, "type": "guide"},
		})
		require.NoError(t, err)
		require.False(t, result.IsError)

		data, err := json.Marshal(result.StructuredContent)
		require.NoError(t, err)
		var out SearchOutput
		require.NoError(t, json.Unmarshal(data, &out))
		require.Len(t, out.Results, 1)
		assert.Equal(t, "/guides/proxy", out.Results[0].Path)
		assert.Equal(t, "2026-02-01T00:00:00Z", out.Results[0].UpdatedAt)

		assert.Equal(t, domain.SearchQuery{
			Query: "proxy", Page: 1, PageSize: 5, Type: domain.DocumentTypeGuide,
		}, search.lastQuery)
	})

	t.Run("reads health", func(t *testing.T) {
		result, err := session.ReadResource(ctx, &mcp.ReadResourceParams{URI: HealthURI})
		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
		assert.JSONEq(t, `{"status":"ok","documents":1,"lastIndexed":null}`, result.Contents[0].Text)
	})
}
