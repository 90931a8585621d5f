// Package contentstore provides a driven.ContentSource adapter for the
// content store's HTTP API.
package contentstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/custodia-labs/folio/internal/adapters/driven/upstream"
	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
	"github.com/custodia-labs/folio/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.ContentSource = (*Client)(nil)

// listResponse is the content store's list payload.
type listResponse struct {
	Contents []json.RawMessage `json:"contents"`
}

// itemResponse is the content store's single-document payload.
type itemResponse struct {
	Content json.RawMessage `json:"content"`
}

// Client reads documents from the content store.
type Client struct {
	baseURL  string
	upstream *upstream.Client
}

// NewClient creates a content store client rooted at baseURL.
// The upstream client should accept 2xx statuses only.
func NewClient(baseURL string, up *upstream.Client) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		upstream: up,
	}
}

// ListPublished returns every currently published document.
func (c *Client) ListPublished(ctx context.Context) ([]domain.ContentDocument, error) {
	return c.list(ctx, "/published-content")
}

// ListAll returns every document regardless of state.
func (c *Client) ListAll(ctx context.Context) ([]domain.ContentDocument, error) {
	return c.list(ctx, "/content")
}

// GetByPath returns the document at path.
func (c *Client) GetByPath(ctx context.Context, path string, publishedOnly bool) (*domain.ContentDocument, error) {
	prefix := "/content/"
	if publishedOnly {
		prefix = "/published-content/"
	}
	target := c.baseURL + prefix + url.PathEscape(strings.TrimPrefix(path, "/"))

	var resp itemResponse
	if err := c.upstream.GetJSON(ctx, target, &resp); err != nil {
		if upstream.IsStatus(err, http.StatusNotFound) {
			return nil, fmt.Errorf("content %s: %w", path, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("fetching content %s: %w", path, err)
	}
	if len(resp.Content) == 0 || string(resp.Content) == "null" {
		return nil, fmt.Errorf("content %s: %w", path, domain.ErrNotFound)
	}

	var doc domain.ContentDocument
	if err := json.Unmarshal(resp.Content, &doc); err != nil {
		return nil, fmt.Errorf("decoding content %s: %w", path, err)
	}
	return &doc, nil
}

// list fetches a document listing, skipping documents of unsupported types.
func (c *Client) list(ctx context.Context, endpoint string) ([]domain.ContentDocument, error) {
	var resp listResponse
	if err := c.upstream.GetJSON(ctx, c.baseURL+endpoint, &resp); err != nil {
		return nil, fmt.Errorf("listing %s: %w", endpoint, err)
	}

	docs := make([]domain.ContentDocument, 0, len(resp.Contents))
	for _, raw := range resp.Contents {
		var doc domain.ContentDocument
		if err := json.Unmarshal(raw, &doc); err != nil {
			if errors.Is(err, domain.ErrUnsupportedType) {
				logger.Warn("content store: skipping %v", err)
				continue
			}
			return nil, fmt.Errorf("decoding %s: %w", endpoint, err)
		}
		docs = append(docs, doc)
	}

	logger.Debug("content store: %s returned %d documents", endpoint, len(docs))
	return docs, nil
}
