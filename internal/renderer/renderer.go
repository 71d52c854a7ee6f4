package renderer

import (
	"math"
	"strings"
	"sync"

	"github.com/rivo/uniseg"
	"golang.org/x/net/html"

	"github.com/dshills/wordlens/internal/geom"
	"github.com/dshills/wordlens/internal/lens"
	"github.com/dshills/wordlens/internal/renderer/backend"
	"github.com/dshills/wordlens/internal/renderer/core"
	"github.com/dshills/wordlens/internal/renderer/highlight"
	"github.com/dshills/wordlens/internal/renderer/layout"
	"github.com/dshills/wordlens/internal/renderer/statusline"
)

// Page is the document being displayed.
type Page interface {
	Layout() *layout.Layout
	ViewportSize() geom.Viewport
	Title() string
}

// Frame is everything drawn in one pass.
type Frame struct {
	Page      Page
	Highlight *highlight.Handle
	Tooltip   *lens.Tooltip
	Mode      statusline.Mode
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithTheme sets the theme.
func WithTheme(t *Theme) Option {
	return func(r *Renderer) {
		if t != nil {
			r.theme = t
		}
	}
}

// Renderer is the main rendering facade.
type Renderer struct {
	mu sync.Mutex

	backend backend.Backend
	theme   *Theme
	status  *statusline.StatusLine

	width  int
	height int
}

// New creates a renderer drawing to b.
func New(b backend.Backend, opts ...Option) *Renderer {
	r := &Renderer{
		backend: b,
		theme:   DefaultTheme(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.status = statusline.New(r.statusStyles())
	r.width, r.height = b.Size()
	r.status.Resize(r.width)
	return r
}

func (r *Renderer) statusStyles() statusline.Styles {
	return statusline.Styles{
		Bar:    r.theme.Status,
		Active: r.theme.StatusActive,
		Off:    r.theme.StatusOff,
		Info:   r.theme.Info,
		Error:  r.theme.Error,
	}
}

// Theme returns the current theme.
func (r *Renderer) Theme() *Theme {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.theme
}

// SetTheme replaces the theme.
func (r *Renderer) SetTheme(t *Theme) {
	if t == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.theme = t
	r.status.SetStyles(r.statusStyles())
}

// StatusLine returns the status line so callers can post messages.
func (r *Renderer) StatusLine() *statusline.StatusLine {
	return r.status
}

// Resize updates the screen dimensions.
func (r *Renderer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.width, r.height = width, height
	r.status.Resize(width)
}

// Size returns the screen dimensions.
func (r *Renderer) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

// PageHeight returns the number of rows available to the page.
func (r *Renderer) PageHeight() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return max(0, r.height-r.status.Height())
}

// Render draws f and flushes it to the terminal.
func (r *Renderer) Render(f Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pageH := max(0, r.height-r.status.Height())
	pageArea := core.RectFromSize(0, 0, pageH, r.width)
	r.backend.Fill(pageArea, core.Cell{Rune: ' ', Width: 1, Style: r.theme.Page()})

	if f.Page != nil {
		vp := f.Page.ViewportSize()
		top := int(vp.ScrollY)
		l := f.Page.Layout()

		r.drawGlyphs(l, top, pageH, f.Highlight)
		r.drawOverlay(f.Highlight, pageArea)
		if f.Tooltip != nil {
			r.drawTooltip(*f.Tooltip, vp, pageArea)
		}

		r.status.SetTitle(f.Page.Title())
		r.status.SetScroll(top, pageH, l.Rows())
	}

	r.status.SetMode(f.Mode)
	if r.height > 0 {
		r.status.Render(r.backend, r.height-r.status.Height())
	}
	r.backend.Show()
}

func (r *Renderer) drawGlyphs(l *layout.Layout, top, rows int, h *highlight.Handle) {
	var wrapper *html.Node
	var lensStyle core.Style
	if h.Alive() && h.Kind() == highlight.Structural {
		wrapper = h.Node()
		lensStyle = r.highlightStyle(h)
	}

	page := r.theme.Page()
	for y := 0; y < rows; y++ {
		for _, g := range l.Row(top + y) {
			if g.X >= r.width {
				break
			}
			style := page
			if wrapper != nil && within(g.Node, wrapper) {
				style = page.Merge(lensStyle)
			}
			r.putGlyph(g.X, y, g.Text, style)
		}
	}
}

func (r *Renderer) putGlyph(x, y int, text string, style core.Style) {
	cell := core.GraphemeCell(text, style)
	if cell.Width <= 0 {
		return
	}
	if x+cell.Width > r.width {
		return
	}
	r.backend.SetCell(x, y, cell)
	for i := 1; i < cell.Width; i++ {
		r.backend.SetCell(x+i, y, core.Cell{Width: 0, Style: style})
	}
}

// drawOverlay recolours the cells under an overlay handle's rectangle.
func (r *Renderer) drawOverlay(h *highlight.Handle, area core.ScreenRect) {
	if !h.Alive() || h.Kind() != highlight.Overlay {
		return
	}
	rect := toScreen(h.Rect()).Intersection(area)
	if rect.IsEmpty() {
		return
	}
	style := r.highlightStyle(h)
	for y := rect.Top; y < rect.Bottom; y++ {
		for x := rect.Left; x < rect.Right; x++ {
			cell := r.backend.GetCell(x, y)
			cell.Style = cell.Style.Merge(style)
			r.backend.SetCell(x, y, cell)
		}
	}
}

func (r *Renderer) highlightStyle(h *highlight.Handle) core.Style {
	if h.Pulsing() {
		return r.theme.Clicked
	}
	return r.theme.Hover
}

// drawTooltip draws a bordered box at the tooltip's rectangle, which is in
// document coordinates.
func (r *Renderer) drawTooltip(tip lens.Tooltip, vp geom.Viewport, area core.ScreenRect) {
	box := tip.Rect
	box.Left -= vp.ScrollX
	box.Top -= vp.ScrollY
	rect := toScreen(box).Intersection(area)
	if rect.IsEmpty() {
		return
	}

	style := r.theme.Tooltip
	r.backend.Fill(rect, core.Cell{Rune: ' ', Width: 1, Style: style})

	bordered := rect.Width() >= 2 && rect.Height() >= 2
	if bordered {
		r.drawBorder(rect, style)
	}

	inner := rect
	if bordered {
		inner = core.ScreenRect{Top: rect.Top + 1, Left: rect.Left + 1, Bottom: rect.Bottom - 1, Right: rect.Right - 1}
	}
	for i, line := range strings.Split(tip.Text, "\n") {
		y := inner.Top + i
		if y >= inner.Bottom {
			break
		}
		x := inner.Left
		g := uniseg.NewGraphemes(line)
		for g.Next() {
			cell := core.GraphemeCell(g.Str(), style)
			if cell.Width == 0 {
				continue
			}
			if x+cell.Width > inner.Right {
				break
			}
			r.backend.SetCell(x, y, cell)
			for c := 1; c < cell.Width; c++ {
				r.backend.SetCell(x+c, y, core.Cell{Width: 0, Style: style})
			}
			x += cell.Width
		}
	}
}

func (r *Renderer) drawBorder(rect core.ScreenRect, style core.Style) {
	right, bottom := rect.Right-1, rect.Bottom-1
	for x := rect.Left + 1; x < right; x++ {
		r.backend.SetCell(x, rect.Top, core.NewStyledCell('─', style))
		r.backend.SetCell(x, bottom, core.NewStyledCell('─', style))
	}
	for y := rect.Top + 1; y < bottom; y++ {
		r.backend.SetCell(rect.Left, y, core.NewStyledCell('│', style))
		r.backend.SetCell(right, y, core.NewStyledCell('│', style))
	}
	r.backend.SetCell(rect.Left, rect.Top, core.NewStyledCell('┌', style))
	r.backend.SetCell(right, rect.Top, core.NewStyledCell('┐', style))
	r.backend.SetCell(rect.Left, bottom, core.NewStyledCell('└', style))
	r.backend.SetCell(right, bottom, core.NewStyledCell('┘', style))
}

// toScreen snaps a cell-space rectangle outward to whole cells.
func toScreen(rect geom.Rect) core.ScreenRect {
	return core.ScreenRect{
		Top:    int(math.Floor(rect.Top)),
		Left:   int(math.Floor(rect.Left)),
		Bottom: int(math.Ceil(rect.Bottom())),
		Right:  int(math.Ceil(rect.Right())),
	}
}

func within(n, ancestor *html.Node) bool {
	for c := n; c != nil; c = c.Parent {
		if c == ancestor {
			return true
		}
	}
	return false
}
