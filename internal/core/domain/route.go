package domain

// Route maps a published content path to the document behind it.
type Route struct {
	// ContentID is the identifier of the published document.
	ContentID string

	// DocumentType is the kind of the published document.
	DocumentType DocumentType
}
