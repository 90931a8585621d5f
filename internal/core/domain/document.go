package domain

import "time"

// IndexedDocument is a published document as held by the search index.
// It is the canonical representation after text extraction.
type IndexedDocument struct {
	// ID is the unique identifier, primary key of the index.
	ID string

	// Path is the unique human-readable route key.
	Path string

	// Title is the display title.
	Title string

	// Type is the document kind.
	Type DocumentType

	// Text is the fully lower-cased searchable text.
	// It is regenerated in full whenever the document is indexed.
	Text string

	// UpdatedAt is when the document last changed in the content store.
	UpdatedAt time.Time
}

// NewIndexedDocument builds the index representation of a content document.
func NewIndexedDocument(doc ContentDocument) IndexedDocument {
	return IndexedDocument{
		ID:        doc.ID,
		Path:      doc.Path,
		Title:     doc.Title,
		Type:      doc.Type(),
		Text:      doc.SearchableText(),
		UpdatedAt: doc.UpdatedAt,
	}
}
