package document

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/dshills/wordlens/internal/dom"
	"github.com/dshills/wordlens/internal/geom"
)

func newDoc(t *testing.T, src string, opts ...Option) *Document {
	t.Helper()
	d, err := LoadString(src, opts...)
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	return d
}

func textNode(t *testing.T, d *Document, contains string) *html.Node {
	t.Helper()
	n := dom.Find(d.Root(), func(n *html.Node) bool {
		return dom.IsText(n) && strings.Contains(n.Data, contains)
	})
	if n == nil {
		t.Fatalf("no text node containing %q", contains)
	}
	return n
}

func TestLoadString(t *testing.T) {
	if _, err := LoadString("   "); !errors.Is(err, ErrEmptySource) {
		t.Errorf("LoadString(blank) error = %v, want ErrEmptySource", err)
	}

	d := newDoc(t, "<title> Page </title><p>x</p>")
	if d.Title() != "Page" {
		t.Errorf("Title() = %q, want Page", d.Title())
	}
}

func TestCaretAtPoint(t *testing.T) {
	d := newDoc(t, "<p>hello world</p>", WithViewport(40, 10))
	n := textNode(t, d, "hello")

	c, ok := d.CaretAtPoint(geom.Pt(7.2, 0.5))
	if !ok || c.Node != n || c.Offset != 7 {
		t.Errorf("CaretAtPoint = %+v, %v; want offset 7", c, ok)
	}

	if _, ok := d.CaretAtPoint(geom.Pt(50, 0)); ok {
		t.Error("point outside viewport should miss")
	}
	if _, ok := d.CaretAtPoint(geom.Pt(2, 5)); ok {
		t.Error("point below content should miss")
	}
}

func TestScrollTranslatesGeometry(t *testing.T) {
	src := "<p>one</p><p>two</p><p>three</p><p>four</p><p>five</p>"
	d := newDoc(t, src, WithViewport(20, 2))
	n := textNode(t, d, "four")

	if !d.Scroll(2) {
		t.Fatal("Scroll(2) did not move")
	}
	vp := d.ViewportSize()
	if vp.ScrollY != 2 {
		t.Errorf("ScrollY = %v, want 2", vp.ScrollY)
	}

	c, ok := d.CaretAtPoint(geom.Pt(0.2, 1.5))
	if !ok || c.Node != n {
		t.Errorf("CaretAtPoint after scroll = %+v, %v; want node %q", c, ok, "four")
	}

	r, ok := d.RangeRect(dom.TextRange(n, 0, 4))
	if !ok || r.Top != 1 {
		t.Errorf("RangeRect after scroll = %v, %v; want top 1", r, ok)
	}

	if d.Scroll(100); d.ViewportSize().ScrollY != 3 {
		t.Errorf("scroll should clamp to 3, got %v", d.ViewportSize().ScrollY)
	}
	if d.Scroll(-100); d.ViewportSize().ScrollY != 0 {
		t.Errorf("scroll should clamp to 0, got %v", d.ViewportSize().ScrollY)
	}
}

func TestRangeRectMultiNode(t *testing.T) {
	d := newDoc(t, "<p>alpha <b>beta</b> gamma</p>", WithViewport(40, 5))
	start := textNode(t, d, "alpha")
	end := textNode(t, d, "gamma")

	r, ok := d.RangeRect(dom.Range{StartNode: start, StartOffset: 2, EndNode: end, EndOffset: 3})
	if !ok {
		t.Fatal("RangeRect found nothing")
	}
	want := geom.Rect{Left: 2, Top: 0, Width: 11, Height: 1}
	if r != want {
		t.Errorf("RangeRect = %v, want %v", r, want)
	}
}

func TestWrapUnwrap(t *testing.T) {
	d := newDoc(t, "<p>hello world</p>", WithViewport(40, 5))
	n := textNode(t, d, "hello")
	before := dom.Render(d.Root())

	w, err := d.Wrap(dom.TextRange(n, 6, 11))
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}
	if !dom.HasClass(w, dom.HoverClass) || !dom.IsArtifact(w.FirstChild) {
		t.Error("wrapper missing highlight markers")
	}

	r, ok := d.NodeRect(w)
	if !ok || r != (geom.Rect{Left: 6, Top: 0, Width: 5, Height: 1}) {
		t.Errorf("NodeRect(wrapper) = %v, %v", r, ok)
	}

	if _, err := d.Unwrap(d.Root()); !errors.Is(err, ErrNotWrapper) {
		t.Errorf("Unwrap(root) error = %v, want ErrNotWrapper", err)
	}

	merges, err := d.Unwrap(w)
	if err != nil {
		t.Fatalf("Unwrap: %v", err)
	}
	if len(merges) == 0 {
		t.Error("Unwrap should report merges")
	}
	if got := dom.Render(d.Root()); got != before {
		t.Errorf("Unwrap did not restore document:\n got %s\nwant %s", got, before)
	}
}

func TestWrapUnwrappable(t *testing.T) {
	d := newDoc(t, "<textarea>hello world</textarea>")
	n := textNode(t, d, "hello")

	if _, err := d.Wrap(dom.TextRange(n, 0, 5)); !errors.Is(err, dom.ErrRangeUnwrappable) {
		t.Errorf("Wrap in textarea error = %v, want ErrRangeUnwrappable", err)
	}
}

func TestOverlay(t *testing.T) {
	d := newDoc(t, "<p>hello</p>", WithViewport(40, 5))
	glyphs := len(d.Layout().Glyphs())

	o := d.AddOverlay(geom.Rect{Left: 1, Top: 0, Width: 4, Height: 1})
	if o.Parent != dom.Body(d.Root()) {
		t.Error("overlay should be appended to body")
	}
	style, _ := dom.Attr(o, "style")
	if !strings.Contains(style, "left:1px") || !strings.Contains(style, "width:4px") {
		t.Errorf("overlay style = %q", style)
	}
	if len(d.Layout().Glyphs()) != glyphs {
		t.Error("overlay should not affect layout")
	}

	if err := d.RemoveOverlay(o); err != nil {
		t.Fatalf("RemoveOverlay: %v", err)
	}
	if o.Parent != nil {
		t.Error("overlay still attached")
	}
	if err := d.RemoveOverlay(d.Root()); !errors.Is(err, ErrNotOverlay) {
		t.Errorf("RemoveOverlay(root) error = %v, want ErrNotOverlay", err)
	}
}

func TestMeasureTooltip(t *testing.T) {
	d := newDoc(t, "<p>x</p>")

	got := d.MeasureTooltip("Search images\n日本")
	want := geom.Size{Width: 15, Height: 4}
	if got != want {
		t.Errorf("MeasureTooltip = %v, want %v", got, want)
	}
}

func TestResizeReflows(t *testing.T) {
	d := newDoc(t, "<p>alpha beta</p>", WithViewport(40, 5))
	if d.Layout().Rows() != 1 {
		t.Fatalf("Rows() = %d, want 1", d.Layout().Rows())
	}
	d.Resize(6, 5)
	if d.Layout().Rows() != 2 {
		t.Errorf("Rows() after resize = %d, want 2", d.Layout().Rows())
	}
}
