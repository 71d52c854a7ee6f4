// Package tooltip places the informational popup shown next to a
// highlighted word.
package tooltip

import (
	"math"

	"github.com/dshills/wordlens/internal/geom"
)

// DefaultMargin is the gap kept between the popup, its anchor and the
// viewport edges.
const DefaultMargin = 10

// Side is the side of the anchor the popup was placed on.
type Side uint8

const (
	Below Side = iota
	Above
	Right
	Left
)

// String returns the side name.
func (s Side) String() string {
	switch s {
	case Below:
		return "below"
	case Above:
		return "above"
	case Right:
		return "right"
	case Left:
		return "left"
	default:
		return "unknown"
	}
}

// Placement is the popup's top-left corner in document coordinates.
type Placement struct {
	Left, Top float64
	Side      Side
}

// Rect returns the popup rectangle for a popup of the given size.
func (p Placement) Rect(size geom.Size) geom.Rect {
	return geom.Rect{Left: p.Left, Top: p.Top, Width: size.Width, Height: size.Height}
}

// Positioner computes popup placements.
type Positioner struct {
	margin float64
}

// NewPositioner creates a positioner with the given margin. A negative or
// non-finite margin selects DefaultMargin.
func NewPositioner(margin float64) *Positioner {
	if margin < 0 || math.IsNaN(margin) || math.IsInf(margin, 0) {
		margin = DefaultMargin
	}
	return &Positioner{margin: margin}
}

// Margin returns the configured margin.
func (p *Positioner) Margin() float64 {
	return p.margin
}

// Place positions a popup of size next to anchor, both in viewport
// coordinates. The result is in document coordinates, i.e. translated by
// the viewport scroll offset. ok is false when the popup must not be
// drawn: the anchor has no geometry or some input is not a usable number.
func (p *Positioner) Place(anchor geom.Rect, size geom.Size, vp geom.Viewport) (Placement, bool) {
	if anchor.IsZero() || !anchor.Finite() || !size.Valid() || !vp.Size().Valid() {
		return Placement{}, false
	}
	if math.IsNaN(vp.ScrollX) || math.IsNaN(vp.ScrollY) || math.IsInf(vp.ScrollX, 0) || math.IsInf(vp.ScrollY, 0) {
		return Placement{}, false
	}

	m := p.margin
	centerX := anchor.Left + (anchor.Width-size.Width)/2
	centerY := anchor.Top + (anchor.Height-size.Height)/2

	var left, top float64
	var side Side
	switch {
	case anchor.Bottom()+m+size.Height <= vp.Height-m:
		left, top, side = centerX, anchor.Bottom()+m, Below
	case anchor.Top-size.Height-m >= m:
		left, top, side = centerX, anchor.Top-size.Height-m, Above
	case anchor.Right()+m+size.Width <= vp.Width-m:
		left, top, side = anchor.Right()+m, centerY, Right
	default:
		left, top, side = anchor.Left-size.Width-m, centerY, Left
	}

	return Placement{
		Left: clamp(left, size.Width, vp.Width, m) + vp.ScrollX,
		Top:  clamp(top, size.Height, vp.Height, m) + vp.ScrollY,
		Side: side,
	}, true
}

// clamp keeps [v, v+size] inside [margin, extent-margin], pinning to the
// margin when the popup is larger than the room available.
func clamp(v, size, extent, margin float64) float64 {
	hi := extent - margin - size
	if hi < margin {
		return margin
	}
	return math.Max(margin, math.Min(v, hi))
}
