package dom

import (
	"fmt"

	"golang.org/x/net/html"
)

// rawTextParents are elements whose text children cannot carry inline
// markup: their content is plain text, a form control value, or foreign
// content with its own text model.
var rawTextParents = map[string]bool{
	"textarea": true,
	"title":    true,
	"option":   true,
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
	"iframe":   true,
	"xmp":      true,
}

// Wrappable reports whether r can be wrapped by SurroundText.
func Wrappable(r Range) error {
	if r.Collapsed() {
		return fmt.Errorf("%w: collapsed", ErrRangeUnwrappable)
	}
	if !r.SingleText() {
		return fmt.Errorf("%w: not a single text run", ErrRangeUnwrappable)
	}
	parent := r.StartNode.Parent
	if parent == nil {
		return fmt.Errorf("%w: %w", ErrRangeUnwrappable, ErrDetached)
	}
	if parent.Type == html.ElementNode {
		if parent.Namespace != "" {
			return fmt.Errorf("%w: inside %s content", ErrRangeUnwrappable, parent.Namespace)
		}
		if rawTextParents[parent.Data] {
			return fmt.Errorf("%w: inside <%s>", ErrRangeUnwrappable, parent.Data)
		}
	}
	return nil
}

// SurroundText splits the text node of r and moves [start, end) into
// wrapper, which must be a detached, empty element. The original node keeps
// the text before the range, possibly empty, so references to it stay
// valid.
func SurroundText(r Range, wrapper *html.Node) error {
	if wrapper == nil || wrapper.Type != html.ElementNode {
		return ErrNotElement
	}
	if wrapper.Parent != nil || wrapper.FirstChild != nil {
		return fmt.Errorf("%w: wrapper must be detached and empty", ErrRangeUnwrappable)
	}
	if err := Wrappable(r); err != nil {
		return err
	}

	t := r.StartNode
	data := t.Data
	before, mid, after := data[:r.StartOffset], data[r.StartOffset:r.EndOffset], data[r.EndOffset:]

	t.Data = before
	wrapper.AppendChild(NewText(mid))
	t.Parent.InsertBefore(wrapper, t.NextSibling)
	if after != "" {
		t.Parent.InsertBefore(NewText(after), wrapper.NextSibling)
	}
	return nil
}

// Unwrap replaces wrapper with a text node holding its text content and
// normalizes the parent. It returns the restored text node and the merges
// performed; the restored node itself may appear as a merge source.
func Unwrap(wrapper *html.Node) (*html.Node, []Merge, error) {
	if wrapper == nil || wrapper.Type != html.ElementNode {
		return nil, nil, ErrNotElement
	}
	parent := wrapper.Parent
	if parent == nil {
		return nil, nil, ErrDetached
	}

	text := NewText(TextContent(wrapper))
	parent.InsertBefore(text, wrapper)
	parent.RemoveChild(wrapper)

	return text, Normalize(parent), nil
}

// Remove detaches n from its parent. Removing a detached node is a no-op.
func Remove(n *html.Node) {
	if n != nil && n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// Merge records that From's text was appended to Into at Offset. A Merge
// with a nil Into records an empty text node that was dropped.
type Merge struct {
	From   *html.Node
	Into   *html.Node
	Offset int
}

// Normalize merges adjacent text nodes and drops empty ones throughout n's
// subtree, as the DOM Node.normalize method does.
func Normalize(n *html.Node) []Merge {
	var merges []Merge
	normalize(n, &merges)
	return merges
}

func normalize(n *html.Node, merges *[]Merge) {
	for c := n.FirstChild; c != nil; {
		if c.Type != html.TextNode {
			normalize(c, merges)
			c = c.NextSibling
			continue
		}

		if c.Data == "" {
			next := c.NextSibling
			n.RemoveChild(c)
			*merges = append(*merges, Merge{From: c})
			c = next
			continue
		}

		for s := c.NextSibling; s != nil && s.Type == html.TextNode; s = c.NextSibling {
			n.RemoveChild(s)
			if s.Data == "" {
				*merges = append(*merges, Merge{From: s})
				continue
			}
			*merges = append(*merges, Merge{From: s, Into: c, Offset: len(c.Data)})
			c.Data += s.Data
		}
		c = c.NextSibling
	}
}

// Rebase maps a caret in a node that was merged away onto its survivor.
// ok is false if the node was dropped.
func Rebase(c Caret, merges []Merge) (Caret, bool) {
	for _, m := range merges {
		if m.From != c.Node {
			continue
		}
		if m.Into == nil {
			return Caret{}, false
		}
		return Caret{Node: m.Into, Offset: c.Offset + m.Offset}, true
	}
	return c, true
}
