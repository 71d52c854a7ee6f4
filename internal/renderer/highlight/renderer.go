package highlight

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/net/html"

	"github.com/dshills/wordlens/internal/dom"
	"github.com/dshills/wordlens/internal/geom"
	"github.com/dshills/wordlens/internal/locate"
)

// DefaultPulseDuration is how long the activation state stays applied.
const DefaultPulseDuration = 300 * time.Millisecond

// Host is the document capability set the renderer draws through.
type Host interface {
	Wrap(r dom.Range) (*html.Node, error)
	Unwrap(wrapper *html.Node) ([]dom.Merge, error)
	RangeRect(r dom.Range) (geom.Rect, bool)
	NodeRect(n *html.Node) (geom.Rect, bool)
	AddOverlay(rect geom.Rect) *html.Node
	RemoveOverlay(overlay *html.Node) error
	// SetClass adds or removes class on n. Pulse reverts may call it from
	// a scheduler goroutine, so implementations must synchronize it with
	// their readers.
	SetClass(n *html.Node, class string, on bool)
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithScheduler sets the scheduler used for pulse reverts.
func WithScheduler(s Scheduler) Option {
	return func(r *Renderer) {
		if s != nil {
			r.sched = s
		}
	}
}

// WithPulseDuration sets how long Pulse keeps the activation state.
func WithPulseDuration(d time.Duration) Option {
	return func(r *Renderer) {
		if d > 0 {
			r.pulse = d
		}
	}
}

// WithForceOverlay skips structural wrapping.
func WithForceOverlay(force bool) Option {
	return func(r *Renderer) {
		r.forceOverlay = force
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// Renderer owns the single active highlight.
type Renderer struct {
	mu sync.Mutex

	host         Host
	sched        Scheduler
	pulse        time.Duration
	forceOverlay bool
	logger       *slog.Logger

	active *Handle
	timer  Timer
	gen    uint64
}

// New creates a renderer drawing into host.
func New(host Host, opts ...Option) *Renderer {
	r := &Renderer{
		host:   host,
		sched:  TimeScheduler,
		pulse:  DefaultPulseDuration,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Active returns the live handle, or nil.
func (r *Renderer) Active() *Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// SetForceOverlay switches between structural-first and overlay-only mode.
func (r *Renderer) SetForceOverlay(force bool) {
	r.mu.Lock()
	r.forceOverlay = force
	r.mu.Unlock()
}

// Show clears any active highlight and highlights span. A span located
// before the clear is rebased over the text merges the clear performed.
func (r *Renderer) Show(span locate.Span) (*Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	merges := r.clearLocked()
	span, ok := span.Rebase(merges)
	if !ok {
		return nil, ErrStaleSpan
	}
	rng := span.Range()

	if !r.forceOverlay {
		wrapper, err := r.host.Wrap(rng)
		if err == nil {
			rect, _ := r.host.NodeRect(wrapper)
			inner := locate.Span{Node: wrapper.FirstChild, Start: 0, End: len(span.Text), Text: span.Text}
			r.active = newHandle(Structural, wrapper, inner, rect)
			r.logger.Debug("highlight shown", "kind", Structural, "word", span.Text, "id", r.active.id)
			return r.active, nil
		}
		if !errors.Is(err, dom.ErrRangeUnwrappable) {
			return nil, fmt.Errorf("wrap %q: %w", span.Text, err)
		}
		r.logger.Debug("structural highlight unavailable", "word", span.Text, "reason", err)
	}

	rect, ok := r.host.RangeRect(rng)
	if !ok || rect.IsEmpty() || !rect.Finite() {
		return nil, ErrNoGeometry
	}
	overlay := r.host.AddOverlay(rect)
	r.active = newHandle(Overlay, overlay, span, rect)
	r.logger.Debug("highlight shown", "kind", Overlay, "word", span.Text, "id", r.active.id)
	return r.active, nil
}

// Clear removes the active highlight, restoring the document. It returns
// the text merges performed so callers can rebase spans they hold.
func (r *Renderer) Clear() []dom.Merge {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clearLocked()
}

func (r *Renderer) clearLocked() []dom.Merge {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	h := r.active
	if h == nil {
		return nil
	}
	r.active = nil
	h.alive.Store(false)
	h.pulsing.Store(false)

	switch h.kind {
	case Structural:
		merges, err := r.host.Unwrap(h.node)
		if err != nil {
			r.logger.Warn("unwrap highlight", "id", h.id, "error", err)
			return nil
		}
		return merges
	default:
		if err := r.host.RemoveOverlay(h.node); err != nil {
			r.logger.Warn("remove overlay", "id", h.id, "error", err)
		}
		return nil
	}
}

// Pulse applies the activation state to h and schedules its revert. It
// returns false if h is not the active highlight. Pulsing an already
// pulsing handle restarts the timer.
func (r *Renderer) Pulse(h *Handle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if h == nil || h != r.active || !h.Alive() {
		return false
	}
	if r.timer != nil {
		r.timer.Stop()
	}
	r.host.SetClass(h.node, dom.ClickedClass, true)
	h.pulsing.Store(true)
	r.gen++
	gen := r.gen
	r.timer = r.sched.AfterFunc(r.pulse, func() { r.endPulse(h, gen) })
	return true
}

func (r *Renderer) endPulse(h *Handle, gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !h.Alive() || r.active != h || r.gen != gen {
		return
	}
	r.host.SetClass(h.node, dom.ClickedClass, false)
	h.pulsing.Store(false)
	r.timer = nil
}
