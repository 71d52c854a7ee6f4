// Package geom provides the viewport geometry shared by the word engine and
// its hosts. Coordinates are viewport-relative and use the same units as the
// host (CSS pixels in a browser, terminal cells in the tcell host).
package geom

import (
	"fmt"
	"math"
)

// Point is a position in viewport coordinates.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// String returns the point as "(x,y)".
func (p Point) String() string {
	return fmt.Sprintf("(%g,%g)", p.X, p.Y)
}

// Size is a width and height pair.
type Size struct {
	Width, Height float64
}

// Valid returns true if both dimensions are finite and positive.
func (s Size) Valid() bool {
	return finite(s.Width) && finite(s.Height) && s.Width > 0 && s.Height > 0
}

// Rect is an axis-aligned rectangle in viewport coordinates.
type Rect struct {
	Left, Top, Width, Height float64
}

// RectFromEdges creates a rectangle from its four edges.
func RectFromEdges(left, top, right, bottom float64) Rect {
	return Rect{Left: left, Top: top, Width: right - left, Height: bottom - top}
}

// Right returns the right edge.
func (r Rect) Right() float64 {
	return r.Left + r.Width
}

// Bottom returns the bottom edge.
func (r Rect) Bottom() float64 {
	return r.Top + r.Height
}

// IsZero returns true if the rectangle has neither width nor height.
// A zero rectangle is what hosts report for invisible or detached content.
func (r Rect) IsZero() bool {
	return r.Width == 0 && r.Height == 0
}

// IsEmpty returns true if the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Finite returns true if every component is a finite number.
func (r Rect) Finite() bool {
	return finite(r.Left) && finite(r.Top) && finite(r.Width) && finite(r.Height)
}

// Contains returns true if p lies inside r. Right and bottom edges are
// exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X < r.Right() && p.Y >= r.Top && p.Y < r.Bottom()
}

// Union returns the smallest rectangle containing both r and o. An empty
// rectangle does not contribute to the union.
func (r Rect) Union(o Rect) Rect {
	if r.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return r
	}
	return RectFromEdges(
		math.Min(r.Left, o.Left),
		math.Min(r.Top, o.Top),
		math.Max(r.Right(), o.Right()),
		math.Max(r.Bottom(), o.Bottom()),
	)
}

// String returns the rectangle as "[left,top width x height]".
func (r Rect) String() string {
	return fmt.Sprintf("[%g,%g %gx%g]", r.Left, r.Top, r.Width, r.Height)
}

// Viewport describes the visible area and its scroll offset within the
// document.
type Viewport struct {
	Width, Height    float64
	ScrollX, ScrollY float64
}

// Size returns the viewport dimensions.
func (v Viewport) Size() Size {
	return Size{Width: v.Width, Height: v.Height}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
