// Package geometry provides the pure constraint-solving functions for
/// pane layouts: proportional resize redistribution, collision detection,
// reflow after removal, and snap-to-grid positioning. Nothing here
// performs I/O or mutates its inputs.
package geometry

import "github.com/panekit/panekit/pkg/types"

// Rect is an axis-aligned bounding box with a top-left origin.
type Rect struct {
	X, Y, W, H float64
}

// RectOf returns the bounding box of a pane.
func RectOf(p types.Pane) Rect {
	return Rect{
		X: p.Position.X,
		Y: p.Position.Y,
		W: p.Size.Width,
		H: p.Size.Height,
	}
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Intersects reports whether two rects overlap with positive area.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() &&
		r.Y < o.Bottom() && o.Y < r.Bottom()
}

// OverlapX returns the horizontal overlap extent, zero when disjoint.
func (r Rect) OverlapX(o Rect) float64 {
	overlap := min(r.Right(), o.Right()) - max(r.X, o.X)
	if overlap < 0 {
		return 0
	}
	return overlap
}

// OverlapY returns the vertical overlap extent, zero when disjoint.
func (r Rect) OverlapY(o Rect) float64 {
	overlap := min(r.Bottom(), o.Bottom()) - max(r.Y, o.Y)
	if overlap < 0 {
		return 0
	}
	return overlap
}

// SharesVerticalEdge reports whether two rects touch along a vertical
// edge with a positive shared interval.
func (r Rect) SharesVerticalEdge(o Rect) bool {
	touching := r.Right() == o.X || o.Right() == r.X
	return touching && r.OverlapY(o) > 0
}

// SharesHorizontalEdge reports whether two rects touch along a horizontal
// edge with a positive shared interval.
func (r Rect) SharesHorizontalEdge(o Rect) bool {
	touching := r.Bottom() == o.Y || o.Bottom() == r.Y
	return touching && r.OverlapX(o) > 0
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
