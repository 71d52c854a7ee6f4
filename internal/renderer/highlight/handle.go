package highlight

import (
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/net/html"

	"github.com/dshills/wordlens/internal/geom"
	"github.com/dshills/wordlens/internal/locate"
)

// Kind distinguishes how a highlight is drawn.
type Kind uint8

const (
	// Structural highlights wrap the word's text in an element.
	Structural Kind = iota
	// Overlay highlights float a decoration over the word's rectangle.
	Overlay
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Structural:
		return "structural"
	case Overlay:
		return "overlay"
	default:
		return "unknown"
	}
}

// Handle is a reference to a rendered highlight.
type Handle struct {
	id      string
	kind    Kind
	node    *html.Node
	span    locate.Span
	rect    geom.Rect
	alive   atomic.Bool
	pulsing atomic.Bool
}

func newHandle(kind Kind, node *html.Node, span locate.Span, rect geom.Rect) *Handle {
	h := &Handle{
		id:   uuid.NewString(),
		kind: kind,
		node: node,
		span: span,
		rect: rect,
	}
	h.alive.Store(true)
	return h
}

// ID returns a unique identifier for the handle.
func (h *Handle) ID() string { return h.id }

// Kind returns how the highlight is drawn.
func (h *Handle) Kind() Kind { return h.kind }

// Node returns the wrapper or overlay element.
func (h *Handle) Node() *html.Node { return h.node }

// Span returns the span covering the highlighted word. For structural
// highlights this is the wrapper's text.
func (h *Handle) Span() locate.Span { return h.span }

// Rect returns the word's viewport rectangle when the highlight was shown.
func (h *Handle) Rect() geom.Rect { return h.rect }

// Alive reports whether the highlight is still rendered.
func (h *Handle) Alive() bool { return h != nil && h.alive.Load() }

// Pulsing reports whether the activation state is applied.
func (h *Handle) Pulsing() bool { return h != nil && h.pulsing.Load() }

// Covers reports whether the handle highlights the word s.
func (h *Handle) Covers(s locate.Span) bool {
	if !h.Alive() {
		return false
	}
	if h.span.Node == s.Node && h.span.Start == s.Start && h.span.End == s.End {
		return true
	}
	return h.kind == Structural && s.Node != nil && s.Node.Parent == h.node
}
