package lens

import (
	"log/slog"

	"github.com/dshills/wordlens/internal/locate"
	"github.com/dshills/wordlens/internal/renderer/highlight"
)

// Option configures an Engine.
type Option func(*Engine)

// WithClassifier sets the classifier used to accept located words.
func WithClassifier(c locate.Classifier) Option {
	return func(e *Engine) {
		e.locateOpts = append(e.locateOpts, locate.WithClassifier(c))
	}
}

// WithHighlightOptions passes options to the highlight renderer.
func WithHighlightOptions(opts ...highlight.Option) Option {
	return func(e *Engine) {
		e.highlightOpts = append(e.highlightOpts, opts...)
	}
}

// WithMargin sets the tooltip margin.
func WithMargin(margin float64) Option {
	return func(e *Engine) {
		e.margin = margin
	}
}

// WithActivator sets the callback invoked when a word is clicked.
func WithActivator(a Activator) Option {
	return func(e *Engine) {
		e.activate = a
	}
}

// WithTooltipText sets the function producing the tooltip text for a word.
func WithTooltipText(fn func(word string) string) Option {
	return func(e *Engine) {
		if fn != nil {
			e.tipText = fn
		}
	}
}

// WithLogger sets the logger. The highlight renderer logs through it too.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithEnabled sets whether the engine starts enabled.
func WithEnabled(enabled bool) Option {
	return func(e *Engine) {
		e.enabled = enabled
	}
}
