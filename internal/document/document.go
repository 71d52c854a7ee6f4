package document

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rivo/uniseg"
	"golang.org/x/net/html"

	"github.com/dshills/wordlens/internal/dom"
	"github.com/dshills/wordlens/internal/geom"
	"github.com/dshills/wordlens/internal/renderer/layout"
)

// Document is a laid-out HTML page with a scrollable viewport.
// All methods are thread-safe.
type Document struct {
	mu sync.RWMutex

	root   *html.Node
	engine *layout.LayoutEngine
	flow   *layout.Layout
	dirty  bool

	width, height    int
	scrollX, scrollY int
	tabWidth         int
	padX, padY       int
}

// New creates a document host for root.
func New(root *html.Node, opts ...Option) *Document {
	d := &Document{
		root:     root,
		width:    80,
		height:   24,
		tabWidth: 8,
		padX:     2,
		padY:     2,
		dirty:    true,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.engine = layout.NewLayoutEngine(d.width, d.tabWidth)
	return d
}

// Load parses an HTML page from r.
func Load(r io.Reader, opts ...Option) (*Document, error) {
	root, err := dom.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	if dom.Body(root) == nil {
		return nil, ErrNoBody
	}
	return New(root, opts...), nil
}

// LoadString parses an HTML page from a string.
func LoadString(src string, opts ...Option) (*Document, error) {
	if strings.TrimSpace(src) == "" {
		return nil, ErrEmptySource
	}
	return Load(strings.NewReader(src), opts...)
}

// LoadFile parses the HTML file at path.
func LoadFile(path string, opts ...Option) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer f.Close()
	return Load(f, opts...)
}

// Root returns the document node.
func (d *Document) Root() *html.Node {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.root
}

// Title returns the text of the document's title element.
func (d *Document) Title() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	t := dom.Find(d.root, func(n *html.Node) bool { return dom.IsElement(n, "title") })
	return strings.TrimSpace(dom.TextContent(t))
}

// Layout returns the current layout, recomputing it if the tree changed.
func (d *Document) Layout() *layout.Layout {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.layoutLocked()
}

// Invalidate forces a relayout on the next geometry query. Callers that
// mutate the tree directly must call it.
func (d *Document) Invalidate() {
	d.mu.Lock()
	d.dirty = true
	d.mu.Unlock()
}

func (d *Document) layoutLocked() *layout.Layout {
	if d.dirty || d.flow == nil {
		d.flow = d.engine.Layout(d.root)
		d.dirty = false
		d.clampScrollLocked()
	}
	return d.flow
}

// ViewportSize returns the viewport size and scroll offset.
func (d *Document) ViewportSize() geom.Viewport {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return geom.Viewport{
		Width:   float64(d.width),
		Height:  float64(d.height),
		ScrollX: float64(d.scrollX),
		ScrollY: float64(d.scrollY),
	}
}

// Resize changes the viewport size. A width change reflows the page.
func (d *Document) Resize(width, height int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if width > 0 && width != d.width {
		d.width = width
		d.engine.SetWidth(width)
		d.dirty = true
	}
	if height > 0 {
		d.height = height
	}
	d.clampScrollLocked()
}

// Scroll moves the viewport by dy rows and reports whether it moved.
func (d *Document) Scroll(dy int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.layoutLocked()
	before := d.scrollY
	d.scrollY += dy
	d.clampScrollLocked()
	return d.scrollY != before
}

// ScrollTo sets the vertical scroll offset.
func (d *Document) ScrollTo(row int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.layoutLocked()
	d.scrollY = row
	d.clampScrollLocked()
}

func (d *Document) clampScrollLocked() {
	maxY := 0
	if d.flow != nil {
		maxY = d.flow.Rows() - d.height
	}
	if d.scrollY > maxY {
		d.scrollY = maxY
	}
	if d.scrollY < 0 {
		d.scrollY = 0
	}
	d.scrollX = 0
}

// CaretAtPoint resolves a viewport point to a text caret.
func (d *Document) CaretAtPoint(p geom.Point) (dom.Caret, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if p.X < 0 || p.Y < 0 || p.X >= float64(d.width) || p.Y >= float64(d.height) {
		return dom.Caret{}, false
	}
	l := d.layoutLocked()
	return l.CaretAt(geom.Pt(p.X+float64(d.scrollX), p.Y+float64(d.scrollY)))
}

// RangeRect returns the viewport rectangle covering r. Ranges spanning
// several text nodes cover every glyph between the two carets.
func (d *Document) RangeRect(r dom.Range) (geom.Rect, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	l := d.layoutLocked()

	if r.StartNode == r.EndNode {
		rect, ok := l.RangeRect(r.StartNode, r.StartOffset, r.EndOffset)
		return d.toViewport(rect), ok
	}

	var out geom.Rect
	found := false
	inside := false
	add := func(n *html.Node, start, end int) {
		if rect, ok := l.RangeRect(n, start, end); ok {
			out = out.Union(rect)
			found = true
		}
	}
	dom.Walk(d.root, func(n *html.Node) bool {
		if n.Type != html.TextNode {
			return true
		}
		switch {
		case n == r.StartNode:
			inside = true
			add(n, r.StartOffset, len(n.Data))
		case n == r.EndNode:
			add(n, 0, r.EndOffset)
			inside = false
		case inside:
			add(n, 0, len(n.Data))
		}
		return true
	})
	return d.toViewport(out), found
}

// NodeRect returns the viewport rectangle covering n's subtree.
func (d *Document) NodeRect(n *html.Node) (geom.Rect, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	rect, ok := d.layoutLocked().NodeRect(n)
	return d.toViewport(rect), ok
}

func (d *Document) toViewport(r geom.Rect) geom.Rect {
	if r.IsZero() {
		return r
	}
	r.Left -= float64(d.scrollX)
	r.Top -= float64(d.scrollY)
	return r
}

// Wrap moves the text of r into a new highlight wrapper element.
func (d *Document) Wrap(r dom.Range) (*html.Node, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	wrapper := dom.NewElement("span",
		html.Attribute{Key: "class", Val: dom.HoverClass},
		html.Attribute{Key: dom.HighlightAttr, Val: "true"},
	)
	if err := dom.SurroundText(r, wrapper); err != nil {
		return nil, err
	}
	d.dirty = true
	return wrapper, nil
}

// Unwrap replaces a wrapper created by Wrap with plain text and returns
// the text merges performed while normalizing.
func (d *Document) Unwrap(wrapper *html.Node) ([]dom.Merge, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !dom.IsHighlight(wrapper) || !dom.HasClass(wrapper, dom.HoverClass) {
		return nil, ErrNotWrapper
	}
	_, merges, err := dom.Unwrap(wrapper)
	if err != nil {
		return nil, err
	}
	d.dirty = true
	return merges, nil
}

// AddOverlay appends a positioned decoration covering rect, given in
// viewport coordinates, to the body.
func (d *Document) AddOverlay(rect geom.Rect) *html.Node {
	d.mu.Lock()
	defer d.mu.Unlock()
	style := fmt.Sprintf("position:absolute;pointer-events:none;left:%gpx;top:%gpx;width:%gpx;height:%gpx",
		rect.Left+float64(d.scrollX), rect.Top+float64(d.scrollY), rect.Width, rect.Height)
	overlay := dom.NewElement("div",
		html.Attribute{Key: "class", Val: dom.OverlayClass},
		html.Attribute{Key: dom.HighlightAttr, Val: "true"},
		html.Attribute{Key: "style", Val: style},
	)
	parent := dom.Body(d.root)
	if parent == nil {
		parent = d.root
	}
	parent.AppendChild(overlay)
	d.dirty = true
	return overlay
}

// RemoveOverlay detaches an overlay created by AddOverlay.
func (d *Document) RemoveOverlay(overlay *html.Node) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !dom.HasClass(overlay, dom.OverlayClass) {
		return ErrNotOverlay
	}
	dom.Remove(overlay)
	d.dirty = true
	return nil
}

// SetClass adds or removes class on n.
func (d *Document) SetClass(n *html.Node, class string, on bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if on {
		dom.AddClass(n, class)
	} else {
		dom.RemoveClass(n, class)
	}
}

// HTML serializes the current tree.
func (d *Document) HTML() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return dom.Render(d.root)
}

// MeasureTooltip returns the cell size of a popup showing text.
func (d *Document) MeasureTooltip(text string) geom.Size {
	d.mu.RLock()
	defer d.mu.RUnlock()
	lines := strings.Split(text, "\n")
	w := 0
	for _, line := range lines {
		if lw := uniseg.StringWidth(line); lw > w {
			w = lw
		}
	}
	return geom.Size{Width: float64(w + d.padX), Height: float64(len(lines) + d.padY)}
}
