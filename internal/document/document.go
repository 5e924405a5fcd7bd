// Package document defines the document source collaborator: open a resource
// by location, report its page count, and extract per-page plain text.
package document

import (
	"context"
	"errors"
)

// ErrUnreadable is returned by Source.Open when the resource cannot be
// parsed as a document (missing, malformed, or zero pages).
var ErrUnreadable = errors.New("document: unreadable")

// PlaceholderText is substituted for pages with no extractable text.
// Absent text is expected (image-only pages) and not an error.
const PlaceholderText = "no text available"

// Document is one open document.
type Document interface {
	// PageCount reports the number of pages; always positive for an open
	// document.
	PageCount() int

	// PageText extracts the plain text of the zero-based page. Pages with
	// no extractable text yield "" and no error.
	PageText(ctx context.Context, page int) (string, error)

	// Title is the display title derived from the location.
	Title() string

	// Location is the resource reference the document was opened from.
	Location() string

	Close() error
}

// Source opens documents by location.
type Source interface {
	Open(location string) (Document, error)
}
