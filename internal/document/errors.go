package document

import "errors"

var (
	// ErrEncodingFailure is returned when the document could not be produced
	// or saved. The underlying cause is wrapped.
	ErrEncodingFailure = errors.New("failed to encode document")

	// ErrNoPages is returned when a document has no placements.
	ErrNoPages = errors.New("document has no pages")
)
