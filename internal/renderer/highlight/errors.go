package highlight

import "errors"

// Errors returned by Show.
var (
	// ErrStaleSpan is returned when a span no longer matches the document.
	ErrStaleSpan = errors.New("span no longer matches document")

	// ErrNoGeometry is returned when an overlay is needed but the span has
	// no visible rectangle.
	ErrNoGeometry = errors.New("span has no visible geometry")
)
