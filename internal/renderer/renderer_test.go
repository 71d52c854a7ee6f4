package renderer

import (
	"strings"
	"testing"
	"time"

	"github.com/dshills/wordlens/internal/document"
	"github.com/dshills/wordlens/internal/geom"
	"github.com/dshills/wordlens/internal/lens"
	"github.com/dshills/wordlens/internal/renderer/backend"
	"github.com/dshills/wordlens/internal/renderer/highlight"
	"github.com/dshills/wordlens/internal/renderer/statusline"
)

const page = `<html><head><title>Greeting</title></head><body><p>hello world</p></body></html>`

type stopTimer struct{}

func (stopTimer) Stop() bool { return true }

// heldScheduler never fires, so a pulse stays visible.
var heldScheduler = highlight.SchedulerFunc(func(time.Duration, func()) highlight.Timer {
	return stopTimer{}
})

type setup struct {
	b      *backend.NullBackend
	r      *Renderer
	doc    *document.Document
	engine *lens.Engine
}

func newSetup(t *testing.T, opts ...lens.Option) *setup {
	t.Helper()
	b := backend.NewNullBackend(40, 10)
	r := New(b)
	doc, err := document.LoadString(page, document.WithViewport(40, r.PageHeight()))
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	base := []lens.Option{
		lens.WithMargin(1),
		lens.WithHighlightOptions(highlight.WithScheduler(heldScheduler)),
	}
	return &setup{b: b, r: r, doc: doc, engine: lens.New(doc, append(base, opts...)...)}
}

func (s *setup) frame(mode statusline.Mode) Frame {
	f := Frame{Page: s.doc, Highlight: s.engine.Active(), Mode: mode}
	if tip, ok := s.engine.Tooltip(); ok {
		f.Tooltip = &tip
	}
	return f
}

func findRow(b *backend.NullBackend, text string) int {
	_, h := b.Size()
	for y := 0; y < h; y++ {
		if strings.Contains(b.Row(y), text) {
			return y
		}
	}
	return -1
}

func TestRenderPage(t *testing.T) {
	s := newSetup(t)
	s.r.Render(s.frame(statusline.ModeIdle))

	if y := findRow(s.b, "hello world"); y < 0 || y >= s.r.PageHeight() {
		t.Fatalf("page text not drawn in page area (row %d)", y)
	}
	status := s.b.Row(9)
	if !strings.Contains(status, "LENS") || !strings.Contains(status, "Greeting") {
		t.Errorf("status row = %q", status)
	}
	if s.b.ShowCount() != 1 {
		t.Errorf("ShowCount() = %d, want 1", s.b.ShowCount())
	}
}

func TestRenderStructuralHighlight(t *testing.T) {
	s := newSetup(t)
	s.r.Render(s.frame(statusline.ModeIdle))
	y := findRow(s.b, "hello world")
	x := strings.Index(s.b.Row(y), "hello")

	s.engine.OnPointerMove(geom.Pt(float64(x+1), float64(y)), true)
	h := s.engine.Active()
	if h == nil || h.Kind() != highlight.Structural {
		t.Fatalf("expected structural highlight, got %v", h)
	}
	s.r.Render(s.frame(statusline.ModeActive))

	theme := s.r.Theme()
	if got := s.b.GetCell(x, y).Style.Background; !got.Equals(theme.Hover.Background) {
		t.Errorf("highlighted background = %v, want %v", got, theme.Hover.Background)
	}
	if got := s.b.GetCell(x+6, y).Style.Background; !got.Equals(theme.Background) {
		t.Errorf("next word background = %v, want page %v", got, theme.Background)
	}
	if !strings.Contains(s.b.Row(9), "ACTIVE") {
		t.Errorf("status row = %q, want ACTIVE", s.b.Row(9))
	}
	if findRow(s.b, "hello world") != y {
		t.Error("wrapping must not change the page text")
	}
}

func TestRenderTooltip(t *testing.T) {
	s := newSetup(t)
	s.r.Render(s.frame(statusline.ModeIdle))
	y := findRow(s.b, "hello world")
	x := strings.Index(s.b.Row(y), "hello")

	s.engine.OnPointerMove(geom.Pt(float64(x+1), float64(y)), true)
	tip, ok := s.engine.Tooltip()
	if !ok {
		t.Fatal("expected a placed tooltip")
	}
	s.r.Render(s.frame(statusline.ModeActive))

	left, top := int(tip.Rect.Left), int(tip.Rect.Top)
	if got := s.b.GetCell(left, top).Rune; got != '┌' {
		t.Errorf("tooltip corner = %q, want '┌'", got)
	}
	if row := findRow(s.b, `"hello"`); row != top+1 {
		t.Errorf("tooltip text row = %d, want %d", row, top+1)
	}
}

func TestRenderOverlayAndPulse(t *testing.T) {
	s := newSetup(t, lens.WithHighlightOptions(highlight.WithForceOverlay(true)))
	s.r.Render(s.frame(statusline.ModeIdle))
	y := findRow(s.b, "hello world")
	x := strings.Index(s.b.Row(y), "hello")

	p := geom.Pt(float64(x+1), float64(y))
	s.engine.OnPointerMove(p, true)
	h := s.engine.Active()
	if h == nil || h.Kind() != highlight.Overlay {
		t.Fatalf("expected overlay highlight, got %v", h)
	}
	s.r.Render(s.frame(statusline.ModeActive))

	theme := s.r.Theme()
	if got := s.b.GetCell(x, y).Style.Background; !got.Equals(theme.Hover.Background) {
		t.Errorf("overlay background = %v, want %v", got, theme.Hover.Background)
	}
	if got := s.b.GetCell(x, y).Rune; got != 'h' {
		t.Errorf("overlay hid the text: rune = %q", got)
	}

	if _, ok := s.engine.OnClick(p); !ok {
		t.Fatal("click should activate the word")
	}
	s.r.Render(s.frame(statusline.ModeActive))
	if got := s.b.GetCell(x, y).Style.Background; !got.Equals(theme.Clicked.Background) {
		t.Errorf("pulsing background = %v, want %v", got, theme.Clicked.Background)
	}
}

func TestRenderMessageReplacesStatus(t *testing.T) {
	s := newSetup(t)
	s.r.StatusLine().SetMessage("https://example.com/?q=hello", statusline.MessageInfo)
	s.r.Render(s.frame(statusline.ModeIdle))

	if got := s.b.Row(9); got != "https://example.com/?q=hello" {
		t.Errorf("status row = %q", got)
	}

	s.r.StatusLine().ClearMessage()
	s.r.Render(s.frame(statusline.ModeOff))
	if !strings.Contains(s.b.Row(9), "OFF") {
		t.Errorf("status row = %q, want OFF", s.b.Row(9))
	}
}

func TestRenderWideGlyphs(t *testing.T) {
	b := backend.NewNullBackend(20, 4)
	r := New(b)
	doc, err := document.LoadString(`<p>日本 ok</p>`, document.WithViewport(20, r.PageHeight()))
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	r.Render(Frame{Page: doc})

	if y := findRow(b, "日本 ok"); y < 0 {
		t.Errorf("wide text not drawn; rows: %q %q", b.Row(0), b.Row(1))
	}
}

func TestThemeByName(t *testing.T) {
	if got := ThemeByName("light").Name; got != "light" {
		t.Errorf("ThemeByName(light) = %q", got)
	}
	if got := ThemeByName("nope").Name; got != "dark" {
		t.Errorf("ThemeByName(nope) = %q, want dark", got)
	}

	dark := DefaultTheme()
	if dark.Hover.Background.Equals(dark.Background) {
		t.Error("hover background should differ from page background")
	}
	if dark.Clicked.Background.Equals(dark.Hover.Background) {
		t.Error("clicked background should differ from hover")
	}
}
