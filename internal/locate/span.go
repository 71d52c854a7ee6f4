package locate

import (
	"golang.org/x/net/html"

	"github.com/dshills/wordlens/internal/dom"
)

// Span is a located word: the byte range [Start, End) of a text node.
type Span struct {
	Node  *html.Node
	Start int
	End   int
	Text  string
}

// Valid reports whether the span still matches its node's text.
func (s Span) Valid() bool {
	if !dom.IsText(s.Node) || s.Start < 0 || s.Start > s.End || s.End > len(s.Node.Data) {
		return false
	}
	return s.Node.Data[s.Start:s.End] == s.Text
}

// Range returns the span as a DOM range.
func (s Span) Range() dom.Range {
	return dom.TextRange(s.Node, s.Start, s.End)
}

// IsZero reports whether the span is unset.
func (s Span) IsZero() bool {
	return s.Node == nil
}

// Rebase returns a copy of s moved onto the node its text was merged into.
// ok is false if the span can no longer be found.
func (s Span) Rebase(merges []dom.Merge) (Span, bool) {
	c, ok := dom.Rebase(dom.Caret{Node: s.Node, Offset: s.Start}, merges)
	if !ok {
		return Span{}, false
	}
	out := Span{Node: c.Node, Start: c.Offset, End: c.Offset + (s.End - s.Start), Text: s.Text}
	if !out.Valid() {
		return Span{}, false
	}
	return out, true
}
