package document

import "errors"

// Errors returned by document operations.
var (
	ErrNoBody      = errors.New("document has no body")
	ErrNotWrapper  = errors.New("node is not a highlight wrapper")
	ErrNotOverlay  = errors.New("node is not an overlay")
	ErrEmptySource = errors.New("empty document source")
)
