package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DocumentType identifies the kind of a content document.
type DocumentType string

// Known document types.
const (
	DocumentTypeSimplePage DocumentType = "simple-page"
	DocumentTypeGuide      DocumentType = "guide"
)

// ContentState is the publication state of a content document.
type ContentState string

// Content states owned by the content store.
const (
	ContentStateDraft     ContentState = "draft"
	ContentStatePublished ContentState = "published"
)

// ContentBody is the type-specific part of a content document.
// Each document type has exactly one implementation.
type ContentBody interface {
	// Type returns the document type this body belongs to.
	Type() DocumentType

	// SearchableText returns the concatenation of every searchable field,
	// starting with the document title.
	SearchableText(title string) string
}

// SimplePage is the body of a "simple-page" document.
type SimplePage struct {
	Body string `json:"body"`
}

// Type implements ContentBody.
func (SimplePage) Type() DocumentType { return DocumentTypeSimplePage }

// SearchableText implements ContentBody.
func (p SimplePage) SearchableText(title string) string {
	return joinText(title, p.Body)
}

// GuidePart is a single titled section of a guide.
type GuidePart struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Guide is the body of a "guide" document.
type Guide struct {
	Introduction string      `json:"introduction"`
	Parts        []GuidePart `json:"parts"`
}

// Type implements ContentBody.
func (Guide) Type() DocumentType { return DocumentTypeGuide }

// SearchableText implements ContentBody.
func (g Guide) SearchableText(title string) string {
	fields := make([]string, 0, 2+2*len(g.Parts))
	fields = append(fields, title, g.Introduction)
	for _, part := range g.Parts {
		fields = append(fields, part.Title, part.Body)
	}
	return joinText(fields...)
}

// bodyDecoders maps each document type to the decoder of its body.
// Adding a document type means adding a ContentBody and one entry here.
var bodyDecoders = map[DocumentType]func(data []byte) (ContentBody, error){
	DocumentTypeSimplePage: func(data []byte) (ContentBody, error) {
		var p SimplePage
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, err
		}
		return p, nil
	},
	DocumentTypeGuide: func(data []byte) (ContentBody, error) {
		var g Guide
		if err := json.Unmarshal(data, &g); err != nil {
			return nil, err
		}
		return g, nil
	},
}

// ContentDocument is a document as served by the content store.
type ContentDocument struct {
	// ID is the opaque unique identifier.
	ID string

	// Path is the unique human-readable route key.
	Path string

	// Title is the display title.
	Title string

	// State is the publication state.
	State ContentState

	// UpdatedAt is when the document last changed.
	UpdatedAt time.Time

	// Body holds the type-specific fields.
	Body ContentBody
}

// Type returns the document type, derived from the body.
func (d ContentDocument) Type() DocumentType {
	if d.Body == nil {
		return ""
	}
	return d.Body.Type()
}

// IsPublished reports whether the document is in the published state.
func (d ContentDocument) IsPublished() bool {
	return d.State == ContentStatePublished
}

// SearchableText returns the lower-cased text the search index is built from.
func (d ContentDocument) SearchableText() string {
	if d.Body == nil {
		return strings.ToLower(d.Title)
	}
	return strings.ToLower(d.Body.SearchableText(d.Title))
}

// contentHeader holds the fields shared by every document type.
type contentHeader struct {
	ID        string       `json:"id"`
	Path      string       `json:"path"`
	Title     string       `json:"title"`
	Type      DocumentType `json:"type"`
	State     ContentState `json:"state"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// UnmarshalJSON decodes a content store document, dispatching the body on its type.
// Unknown types yield an error wrapping ErrUnsupportedType.
func (d *ContentDocument) UnmarshalJSON(data []byte) error {
	var h contentHeader
	if err := json.Unmarshal(data, &h); err != nil {
		return err
	}

	decode, ok := bodyDecoders[h.Type]
	if !ok {
		return fmt.Errorf("document %s: %w: %q", h.ID, ErrUnsupportedType, h.Type)
	}
	body, err := decode(data)
	if err != nil {
		return fmt.Errorf("document %s: decoding %s body: %w", h.ID, h.Type, err)
	}

	*d = ContentDocument{
		ID:        h.ID,
		Path:      h.Path,
		Title:     h.Title,
		State:     h.State,
		UpdatedAt: h.UpdatedAt,
		Body:      body,
	}
	return nil
}

// MarshalJSON encodes the document in the content store's flat wire form.
func (d ContentDocument) MarshalJSON() ([]byte, error) {
	fields := map[string]any{
		"id":        d.ID,
		"path":      d.Path,
		"title":     d.Title,
		"type":      d.Type(),
		"state":     d.State,
		"updatedAt": d.UpdatedAt,
	}
	switch body := d.Body.(type) {
	case SimplePage:
		fields["body"] = body.Body
	case Guide:
		fields["introduction"] = body.Introduction
		fields["parts"] = body.Parts
	}
	return json.Marshal(fields)
}

func joinText(fields ...string) string {
	nonEmpty := fields[:0:0]
	for _, f := range fields {
		if f != "" {
			nonEmpty = append(nonEmpty, f)
		}
	}
	return strings.Join(nonEmpty, " ")
}
