package dom

import "errors"

var (
	// ErrRangeUnwrappable indicates a range cannot be wrapped in an inline
	// element without breaking the surrounding markup.
	ErrRangeUnwrappable = errors.New("range cannot be wrapped")

	// ErrDetached indicates a node has no parent.
	ErrDetached = errors.New("node is detached")

	// ErrNotElement indicates an element node was required.
	ErrNotElement = errors.New("not an element node")
)
