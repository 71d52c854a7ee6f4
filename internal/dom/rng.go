package dom

import (
	"unicode/utf8"

	"golang.org/x/net/html"
)

// Caret is a position between characters of a text node. Offset is a byte
// offset into the node's data.
type Caret struct {
	Node   *html.Node
	Offset int
}

// Range is a span between two carets.
type Range struct {
	StartNode   *html.Node
	StartOffset int
	EndNode     *html.Node
	EndOffset   int
}

// TextRange returns the range [start, end) of a single text node.
func TextRange(n *html.Node, start, end int) Range {
	return Range{StartNode: n, StartOffset: start, EndNode: n, EndOffset: end}
}

// Collapsed reports whether the range is empty.
func (r Range) Collapsed() bool {
	return r.StartNode == r.EndNode && r.StartOffset == r.EndOffset
}

// SingleText reports whether the range lies within one text node with
// in-bounds, rune-aligned offsets.
func (r Range) SingleText() bool {
	if r.StartNode != r.EndNode || !IsText(r.StartNode) {
		return false
	}
	d := r.StartNode.Data
	if r.StartOffset < 0 || r.StartOffset > r.EndOffset || r.EndOffset > len(d) {
		return false
	}
	return boundary(d, r.StartOffset) && boundary(d, r.EndOffset)
}

// Text returns the range's text when it lies within one text node.
func (r Range) Text() string {
	if !r.SingleText() {
		return ""
	}
	return r.StartNode.Data[r.StartOffset:r.EndOffset]
}

func boundary(s string, i int) bool {
	return i == 0 || i == len(s) || utf8.RuneStart(s[i])
}
