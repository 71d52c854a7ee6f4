// Package locate resolves a pointer position to the word under it.
package locate

import (
	"unicode/utf8"

	"github.com/dshills/wordlens/internal/dom"
	"github.com/dshills/wordlens/internal/geom"
	"github.com/dshills/wordlens/internal/word"
)

// Outcome describes how a Locate call ended.
type Outcome uint8

const (
	// Found means a classified word was located.
	Found Outcome = iota
	// Miss means no caret could be resolved at the point.
	Miss
	// NonText means the caret landed outside a text node.
	NonText
	// Artifact means the caret landed inside a highlight decoration.
	Artifact
	// Rejected means the text under the point is not a word.
	Rejected
)

var outcomeNames = map[Outcome]string{
	Found:    "found",
	Miss:     "miss",
	NonText:  "non-text",
	Artifact: "artifact",
	Rejected: "rejected",
}

// String returns the outcome name.
func (o Outcome) String() string {
	if s, ok := outcomeNames[o]; ok {
		return s
	}
	return "unknown"
}

// CaretResolver is the host capability the locator needs.
type CaretResolver interface {
	CaretAtPoint(p geom.Point) (dom.Caret, bool)
}

// Classifier decides whether a candidate is a word.
type Classifier interface {
	Classify(candidate string) word.Verdict
}

// Locator maps pointer positions to word spans.
type Locator struct {
	host       CaretResolver
	classifier Classifier
}

// Option configures a Locator.
type Option func(*Locator)

// WithClassifier replaces the default classifier.
func WithClassifier(c Classifier) Option {
	return func(l *Locator) {
		if c != nil {
			l.classifier = c
		}
	}
}

// New creates a locator backed by host.
func New(host CaretResolver, opts ...Option) *Locator {
	l := &Locator{host: host, classifier: word.Default()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Locate returns the word under p. The span is only meaningful when the
// outcome is Found.
func (l *Locator) Locate(p geom.Point) (Span, Outcome) {
	c, ok := l.host.CaretAtPoint(p)
	if !ok || c.Node == nil {
		return Span{}, Miss
	}
	return l.AtCaret(c)
}

// AtCaret is Locate for an already resolved caret.
func (l *Locator) AtCaret(c dom.Caret) (Span, Outcome) {
	if !dom.IsText(c.Node) {
		return Span{}, NonText
	}
	if dom.IsArtifact(c.Node) {
		return Span{}, Artifact
	}
	s := Scan(c)
	if s.Text == "" || l.classifier.Classify(s.Text) != word.Accept {
		return Span{}, Rejected
	}
	return s, Found
}

// Scan expands a caret to the surrounding run of word characters without
// classifying it. The caret offset is clamped into the node's text.
func Scan(c dom.Caret) Span {
	data := c.Node.Data
	off := c.Offset
	if off < 0 {
		off = 0
	}
	if off > len(data) {
		off = len(data)
	}
	for off > 0 && off < len(data) && !utf8.RuneStart(data[off]) {
		off--
	}

	start := off
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(data[:start])
		if !IsWordChar(r) {
			break
		}
		start -= size
	}

	end := off
	for end < len(data) {
		r, size := utf8.DecodeRuneInString(data[end:])
		if !IsWordChar(r) {
			break
		}
		end += size
	}

	text := data[start:end]
	return Span{Node: c.Node, Start: start, End: end, Text: text}
}

// IsWordChar reports whether r belongs to the word run scanned around a
// caret: ASCII letters, Latin-1 Supplement and Latin Extended A/B letters,
// apostrophe and hyphen.
func IsWordChar(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		return true
	case r >= 0x00C0 && r <= 0x024F:
		return true
	case r == '\'' || r == '-':
		return true
	}
	return false
}
