package lens

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/dshills/wordlens/internal/geom"
	"github.com/dshills/wordlens/internal/locate"
	"github.com/dshills/wordlens/internal/renderer/highlight"
	"github.com/dshills/wordlens/internal/renderer/tooltip"
	"github.com/dshills/wordlens/internal/word"
)

// Host is the full capability set the engine needs from a document.
type Host interface {
	locate.CaretResolver
	highlight.Host
	ViewportSize() geom.Viewport
	MeasureTooltip(text string) geom.Size
}

// Activator is called when a highlighted word is clicked. query is the
// word with surrounding punctuation removed.
type Activator func(span locate.Span, query string)

// Tooltip is a placed popup in document coordinates.
type Tooltip struct {
	Text string
	Rect geom.Rect
	Side tooltip.Side
}

// DefaultTooltipText returns the popup text for word.
func DefaultTooltipText(word string) string {
	return fmt.Sprintf("Click to search images of %q", word)
}

// Engine is the word lens controller.
type Engine struct {
	mu sync.Mutex

	host       Host
	locator    *locate.Locator
	renderer   *highlight.Renderer
	positioner *tooltip.Positioner
	logger     *slog.Logger
	activate   Activator
	tipText    func(string) string

	locateOpts    []locate.Option
	highlightOpts []highlight.Option
	margin        float64

	enabled bool
	held    bool
	tip     *Tooltip
}

// New creates an engine for host.
func New(host Host, opts ...Option) *Engine {
	e := &Engine{
		host:    host,
		logger:  slog.New(slog.DiscardHandler),
		tipText: DefaultTooltipText,
		margin:  tooltip.DefaultMargin,
		enabled: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.locator = locate.New(host, e.locateOpts...)
	hopts := append([]highlight.Option{highlight.WithLogger(e.logger)}, e.highlightOpts...)
	e.renderer = highlight.New(host, hopts...)
	e.positioner = tooltip.NewPositioner(e.margin)
	e.locateOpts, e.highlightOpts = nil, nil
	return e
}

// Renderer returns the highlight renderer.
func (e *Engine) Renderer() *highlight.Renderer {
	return e.renderer
}

// Held reports whether the modifier is held.
func (e *Engine) Held() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.held
}

// Enabled reports whether the engine reacts to events.
func (e *Engine) Enabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enabled
}

// SetEnabled turns the engine on or off. Disabling clears the highlight.
func (e *Engine) SetEnabled(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.enabled == enabled {
		return
	}
	e.enabled = enabled
	if !enabled {
		e.clearLocked()
	}
	e.logger.Info("lens toggled", "enabled", enabled)
}

// Active returns the live highlight, or nil.
func (e *Engine) Active() *highlight.Handle {
	return e.renderer.Active()
}

// Tooltip returns the placed tooltip, if one is shown.
func (e *Engine) Tooltip() (Tooltip, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.tip == nil {
		return Tooltip{}, false
	}
	return *e.tip, true
}

// Clear removes the highlight and tooltip. Hosts call it when geometry
// changes under the pointer, such as on scroll or resize.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clearLocked()
}

func (e *Engine) clearLocked() {
	e.renderer.Clear()
	e.tip = nil
}

// OnModifierChange records the modifier state. Releasing the modifier
// clears the highlight.
func (e *Engine) OnModifierChange(held bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.setHeldLocked(held)
}

func (e *Engine) setHeldLocked(held bool) {
	if e.held == held {
		return
	}
	e.held = held
	if !held {
		e.clearLocked()
	}
}

// OnPointerMove resolves and highlights the word under p. modifierHeld is
// the modifier state reported with the event; it updates the engine's
// state when the two disagree.
func (e *Engine) OnPointerMove(p geom.Point, modifierHeld bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.setHeldLocked(modifierHeld)
	if !e.held || !e.enabled {
		return
	}

	span, outcome := e.locator.Locate(p)
	switch outcome {
	case locate.Artifact:
		return
	case locate.Found:
		if e.renderer.Active().Covers(span) {
			return
		}
		e.showLocked(span)
	default:
		e.clearLocked()
	}
}

// OnPointerLeave handles the pointer leaving the word. related is where
// the pointer went, or nil if it left the document. The highlight is kept
// when the pointer moved onto the highlight itself or onto another word,
// which the following move event will pick up.
func (e *Engine) OnPointerLeave(related *geom.Point) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.held {
		return
	}
	if related != nil {
		if _, outcome := e.locator.Locate(*related); outcome == locate.Artifact || outcome == locate.Found {
			return
		}
	}
	e.clearLocked()
}

// OnClick activates the word under p. It returns the word's span and true
// if a word was activated; the Activator is invoked after the engine's
// state is updated.
func (e *Engine) OnClick(p geom.Point) (locate.Span, bool) {
	e.mu.Lock()

	if !e.held || !e.enabled {
		e.mu.Unlock()
		return locate.Span{}, false
	}

	var h *highlight.Handle
	span, outcome := e.locator.Locate(p)
	switch outcome {
	case locate.Artifact:
		h = e.renderer.Active()
		if !h.Alive() {
			e.mu.Unlock()
			return locate.Span{}, false
		}
		span = h.Span()
	case locate.Found:
		h = e.renderer.Active()
		if !h.Covers(span) {
			h = e.showLocked(span)
		}
	default:
		e.mu.Unlock()
		return locate.Span{}, false
	}

	if h != nil {
		e.renderer.Pulse(h)
	}
	activate := e.activate
	e.mu.Unlock()

	query := word.Clean(span.Text)
	e.logger.Info("word activated", "word", query)
	if activate != nil {
		activate(span, query)
	}
	return span, true
}

func (e *Engine) showLocked(span locate.Span) *highlight.Handle {
	h, err := e.renderer.Show(span)
	e.tip = nil
	if err != nil {
		e.logger.Debug("highlight skipped", "word", span.Text, "error", err)
		return nil
	}

	text := e.tipText(word.Clean(span.Text))
	size := e.host.MeasureTooltip(text)
	placement, ok := e.positioner.Place(h.Rect(), size, e.host.ViewportSize())
	if !ok {
		e.logger.Debug("tooltip skipped", "word", span.Text, "anchor", h.Rect())
		return h
	}
	e.tip = &Tooltip{Text: text, Rect: placement.Rect(size), Side: placement.Side}
	return h
}
