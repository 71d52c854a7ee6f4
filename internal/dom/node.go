package dom

import (
	"bytes"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Markers written by the highlight renderer.
const (
	// HighlightAttr marks every element the engine inserts.
	HighlightAttr = "data-word-highlight"

	HoverClass   = "word-search-hover"
	OverlayClass = "word-search-overlay"
	ClickedClass = "word-search-clicked"
	TooltipClass = "word-search-tooltip"
)

// Parse parses an HTML document.
func Parse(r io.Reader) (*html.Node, error) {
	return html.Parse(r)
}

// ParseString parses an HTML document from a string.
func ParseString(s string) (*html.Node, error) {
	return html.Parse(strings.NewReader(s))
}

// Render serializes n and its subtree.
func Render(n *html.Node) string {
	var buf bytes.Buffer
	_ = html.Render(&buf, n)
	return buf.String()
}

// NewElement creates a detached element.
func NewElement(tag string, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
		Attr:     attrs,
	}
}

// NewText creates a detached text node.
func NewText(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// IsText reports whether n is a text node.
func IsText(n *html.Node) bool {
	return n != nil && n.Type == html.TextNode
}

// IsElement reports whether n is an element with the given tag. An empty
// tag matches any element.
func IsElement(n *html.Node, tag string) bool {
	return n != nil && n.Type == html.ElementNode && (tag == "" || n.Data == tag)
}

// TextContent concatenates the text of n's subtree.
func TextContent(n *html.Node) string {
	if n == nil {
		return ""
	}
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	Walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
		return true
	})
	return b.String()
}

// Walk visits n and its descendants depth-first in document order. If fn
// returns false the node's children are skipped.
func Walk(n *html.Node, fn func(*html.Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		Walk(c, fn)
		c = next
	}
}

// Find returns the first node in document order matching pred.
func Find(n *html.Node, pred func(*html.Node) bool) *html.Node {
	var found *html.Node
	Walk(n, func(c *html.Node) bool {
		if found != nil {
			return false
		}
		if pred(c) {
			found = c
			return false
		}
		return true
	})
	return found
}

// FindAll returns every node matching pred in document order.
func FindAll(n *html.Node, pred func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	Walk(n, func(c *html.Node) bool {
		if pred(c) {
			out = append(out, c)
		}
		return true
	})
	return out
}

// Body returns the document's body element, or nil.
func Body(doc *html.Node) *html.Node {
	return Find(doc, func(n *html.Node) bool { return IsElement(n, "body") })
}

// Attr returns the value of the named attribute.
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets or replaces an attribute.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr removes an attribute if present.
func RemoveAttr(n *html.Node, key string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}

// HasClass reports whether n's class attribute lists class.
func HasClass(n *html.Node, class string) bool {
	v, ok := Attr(n, "class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

// AddClass adds class to n's class list.
func AddClass(n *html.Node, class string) {
	if HasClass(n, class) {
		return
	}
	v, _ := Attr(n, "class")
	if v == "" {
		SetAttr(n, "class", class)
		return
	}
	SetAttr(n, "class", v+" "+class)
}

// RemoveClass removes class from n's class list.
func RemoveClass(n *html.Node, class string) {
	v, ok := Attr(n, "class")
	if !ok {
		return
	}
	fields := strings.Fields(v)
	kept := fields[:0]
	for _, c := range fields {
		if c != class {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		RemoveAttr(n, "class")
		return
	}
	SetAttr(n, "class", strings.Join(kept, " "))
}

// IsHighlight reports whether n is a wrapper or overlay element inserted
// by the highlight renderer. Page elements that happen to carry the marker
// attribute alone do not count.
func IsHighlight(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	if _, ok := Attr(n, HighlightAttr); !ok {
		return false
	}
	return HasClass(n, HoverClass) || HasClass(n, OverlayClass)
}

// IsArtifact reports whether n lies within an element inserted by the
// highlight renderer.
func IsArtifact(n *html.Node) bool {
	for c := n; c != nil; c = c.Parent {
		if IsHighlight(c) {
			return true
		}
	}
	return false
}

// Attached reports whether n is connected to a document node.
func Attached(n *html.Node) bool {
	for c := n; c != nil; c = c.Parent {
		if c.Type == html.DocumentNode {
			return true
		}
	}
	return false
}
