// Package layout flows a parsed HTML document into a grid of cells.
//
// The flow model is deliberately small: block elements start new rows,
// inline text wraps at word boundaries, runs of whitespace collapse to one
// cell outside preformatted content, and every visible grapheme becomes a
// Glyph that remembers the text node and byte offset it came from. That
// mapping is what lets hosts answer caret-at-point and range-rectangle
// queries.
package layout

import (
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"
	"golang.org/x/net/html"

	"github.com/dshills/wordlens/internal/dom"
	"github.com/dshills/wordlens/internal/geom"
)

// Glyph is one laid-out grapheme cluster.
type Glyph struct {
	Node   *html.Node // text node the grapheme came from
	Offset int        // byte offset within Node.Data
	Size   int        // byte length
	Text   string     // grapheme text; a single space for collapsed whitespace
	X, Y   int        // cell position in document coordinates
	Width  int        // cell width (1 or 2)
}

// Rect returns the glyph's cell rectangle.
func (g Glyph) Rect() geom.Rect {
	return geom.Rect{Left: float64(g.X), Top: float64(g.Y), Width: float64(g.Width), Height: 1}
}

// Layout is the result of flowing a document.
type Layout struct {
	width  int
	rows   int
	glyphs []Glyph
	byNode map[*html.Node][]int
	byRow  map[int][]int
}

// Width returns the wrap width used.
func (l *Layout) Width() int {
	return l.width
}

// Rows returns the number of rows the document occupies.
func (l *Layout) Rows() int {
	return l.rows
}

// Glyphs returns every glyph in document order.
func (l *Layout) Glyphs() []Glyph {
	return l.glyphs
}

// Row returns the glyphs on row y, left to right.
func (l *Layout) Row(y int) []Glyph {
	idx := l.byRow[y]
	out := make([]Glyph, len(idx))
	for i, gi := range idx {
		out[i] = l.glyphs[gi]
	}
	return out
}

// GlyphAt returns the glyph covering cell coordinates p.
func (l *Layout) GlyphAt(p geom.Point) (Glyph, bool) {
	if p.Y < 0 || p.X < 0 {
		return Glyph{}, false
	}
	for _, i := range l.byRow[int(p.Y)] {
		g := l.glyphs[i]
		if g.Rect().Contains(p) {
			return g, true
		}
	}
	return Glyph{}, false
}

// CaretAt resolves a document point to a caret. A point on the right half
// of a glyph resolves to the position after it, matching how browsers place
// a caret between characters.
func (l *Layout) CaretAt(p geom.Point) (dom.Caret, bool) {
	g, ok := l.GlyphAt(p)
	if !ok {
		return dom.Caret{}, false
	}
	off := g.Offset
	if p.X >= float64(g.X)+float64(g.Width)/2 {
		off += g.Size
	}
	return dom.Caret{Node: g.Node, Offset: off}, true
}

// RangeRect returns the bounding rectangle of the glyphs of n whose bytes
// fall in [start, end).
func (l *Layout) RangeRect(n *html.Node, start, end int) (geom.Rect, bool) {
	var r geom.Rect
	found := false
	for _, i := range l.byNode[n] {
		g := l.glyphs[i]
		if g.Offset >= start && g.Offset < end {
			r = r.Union(g.Rect())
			found = true
		}
	}
	return r, found
}

// NodeRect returns the bounding rectangle of every glyph in n's subtree.
func (l *Layout) NodeRect(n *html.Node) (geom.Rect, bool) {
	var r geom.Rect
	found := false
	dom.Walk(n, func(c *html.Node) bool {
		for _, i := range l.byNode[c] {
			r = r.Union(l.glyphs[i].Rect())
			found = true
		}
		return true
	})
	return r, found
}

// LayoutEngine flows documents at a fixed width.
type LayoutEngine struct {
	tabs  TabStops
	width int
}

// NewLayoutEngine creates an engine that wraps at width cells.
func NewLayoutEngine(width, tabWidth int) *LayoutEngine {
	if width < 1 {
		width = 80
	}
	return &LayoutEngine{tabs: NewTabStops(tabWidth), width: width}
}

// Width returns the wrap width.
func (e *LayoutEngine) Width() int {
	return e.width
}

// SetWidth changes the wrap width.
func (e *LayoutEngine) SetWidth(width int) {
	if width >= 1 {
		e.width = width
	}
}

// Layout flows root. For a full document only the body is laid out.
func (e *LayoutEngine) Layout(root *html.Node) *Layout {
	f := &flow{
		engine: e,
		out: &Layout{
			width:  e.width,
			byNode: make(map[*html.Node][]int),
			byRow:  make(map[int][]int),
		},
	}
	start := root
	if body := dom.Body(root); body != nil {
		start = body
	}
	f.walk(start)
	f.out.rows = f.y
	if f.x > 0 {
		f.out.rows++
	}
	return f.out
}

var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"body": true, "dd": true, "details": true, "div": true, "dl": true,
	"dt": true, "fieldset": true, "figcaption": true, "figure": true,
	"footer": true, "form": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "header": true, "hr": true,
	"li": true, "main": true, "nav": true, "ol": true, "p": true,
	"pre": true, "section": true, "summary": true, "table": true,
	"tr": true, "ul": true,
}

var hiddenTags = map[string]bool{
	"head": true, "script": true, "style": true, "noscript": true,
	"template": true, "title": true, "meta": true, "link": true,
}

type pendingSpace struct {
	node   *html.Node
	offset int
	size   int
}

type flow struct {
	engine   *LayoutEngine
	out      *Layout
	x, y     int
	preDepth int
	space    *pendingSpace
}

func (f *flow) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		f.text(n)
		return
	case html.ElementNode:
		if hiddenTags[n.Data] || dom.HasClass(n, dom.OverlayClass) || dom.HasClass(n, dom.TooltipClass) {
			return
		}
		if n.Data == "br" {
			f.newline()
			return
		}
	case html.DocumentNode:
	default:
		return
	}

	block := n.Type == html.ElementNode && blockTags[n.Data]
	if block {
		f.breakLine()
	}
	if dom.IsElement(n, "pre") || dom.IsElement(n, "textarea") {
		f.preDepth++
		defer func() { f.preDepth-- }()
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		f.walk(c)
	}
	if block {
		f.breakLine()
	}
}

func (f *flow) text(n *html.Node) {
	data := n.Data
	gr := uniseg.NewGraphemes(data)
	for gr.Next() {
		start, end := gr.Positions()
		cluster := gr.Str()
		first, _ := utf8.DecodeRuneInString(cluster)

		if f.preDepth > 0 {
			f.preformatted(n, start, end, cluster, first, gr.Width())
			continue
		}

		if unicode.IsSpace(first) {
			if f.space == nil {
				f.space = &pendingSpace{node: n, offset: start, size: end - start}
			}
			continue
		}

		width := gr.Width()
		if width < 1 {
			width = 1
		}
		if f.space != nil {
			f.flushSpace(wordWidth(data[start:]))
		} else if f.x+width > f.engine.width && f.x > 0 {
			f.newline()
		}
		f.emit(n, start, end-start, cluster, width)
	}
}

// flushSpace emits the collapsed space before a word, or wraps instead if
// the upcoming word does not fit on the current row.
func (f *flow) flushSpace(next int) {
	sp := f.space
	f.space = nil
	if f.x == 0 {
		return
	}
	if f.x+1+next > f.engine.width {
		f.newline()
		return
	}
	f.emit(sp.node, sp.offset, sp.size, " ", 1)
}

func (f *flow) preformatted(n *html.Node, start, end int, cluster string, first rune, width int) {
	switch first {
	case '\n':
		f.newline()
		return
	case '\r':
		return
	case '\t':
		width = f.engine.tabs.Advance(f.x)
		cluster = " "
	}
	if width < 1 {
		width = 1
	}
	if f.x+width > f.engine.width && f.x > 0 {
		f.newline()
	}
	f.emit(n, start, end-start, cluster, width)
}

func (f *flow) emit(n *html.Node, offset, size int, text string, width int) {
	idx := len(f.out.glyphs)
	f.out.glyphs = append(f.out.glyphs, Glyph{
		Node:   n,
		Offset: offset,
		Size:   size,
		Text:   text,
		X:      f.x,
		Y:      f.y,
		Width:  width,
	})
	f.out.byNode[n] = append(f.out.byNode[n], idx)
	f.out.byRow[f.y] = append(f.out.byRow[f.y], idx)
	f.x += width
}

// breakLine ends the current row if it has content.
func (f *flow) breakLine() {
	f.space = nil
	if f.x > 0 {
		f.newline()
	}
}

func (f *flow) newline() {
	f.space = nil
	f.x = 0
	f.y++
}

// wordWidth measures the cells up to the next whitespace.
func wordWidth(s string) int {
	w := 0
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		r, _ := utf8.DecodeRuneInString(gr.Str())
		if unicode.IsSpace(r) {
			break
		}
		cw := gr.Width()
		if cw < 1 {
			cw = 1
		}
		w += cw
	}
	return w
}
