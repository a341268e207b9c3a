// Package core provides the fundamental types shared by the game and the
// terminal platform. It has no external dependencies (in particular no
// Bubble Tea) so the simulation stays pure and testable.
package core

// Box is an axis-aligned bounding box in world units.
// Y grows downward, so Top < Bottom.
type Box struct {
	X, Y float64 // top-left corner
	W, H float64
}

// NewBox creates a box from its top-left corner and size.
func NewBox(x, y, w, h float64) Box {
	return Box{X: x, Y: y, W: w, H: h}
}

// BoxFromEdges creates a box from its four edges.
func BoxFromEdges(left, top, right, bottom float64) Box {
	return Box{X: left, Y: top, W: right - left, H: bottom - top}
}

// Right returns the x-coordinate of the right edge.
func (b Box) Right() float64 {
	return b.X + b.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (b Box) Bottom() float64 {
	return b.Y + b.H
}

// Overlaps reports whether the interiors of two boxes intersect.
// Boxes that only share an edge do not overlap.
func (b Box) Overlaps(o Box) bool {
	return b.X < o.Right() && b.Right() > o.X &&
		b.Y < o.Bottom() && b.Bottom() > o.Y
}

// Touches is the inclusive variant of Overlaps: shared edges count.
func (b Box) Touches(o Box) bool {
	return !(b.Right() < o.X || b.X > o.Right() ||
		b.Bottom() < o.Y || b.Y > o.Bottom())
}

// ContainsPoint reports whether (x, y) lies inside the box, edges included.
func (b Box) ContainsPoint(x, y float64) bool {
	return x >= b.X && x <= b.Right() && y >= b.Y && y <= b.Bottom()
}

// Expand grows the box by margin on every side.
func (b Box) Expand(margin float64) Box {
	return Box{X: b.X - margin, Y: b.Y - margin, W: b.W + 2*margin, H: b.H + 2*margin}
}

// Inset shrinks the box horizontally by dx and vertically by dy on each side.
func (b Box) Inset(dx, dy float64) Box {
	return Box{X: b.X + dx, Y: b.Y + dy, W: b.W - 2*dx, H: b.H - 2*dy}
}

// Center returns the center point of the box.
func (b Box) Center() (float64, float64) {
	return b.X + b.W/2, b.Y + b.H/2
}

// Rect is an integer rectangle in screen cells.
type Rect struct {
	X, Y int
	W, H int
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate one past the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate one past the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Clamp restricts a value to be within [lo, hi].
func Clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// ClampF restricts a float64 value to be within [lo, hi].
func ClampF(val, lo, hi float64) float64 {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// SpanOverlap returns the length of the intersection of [a0, a1] and [b0, b1],
// or zero when they are disjoint.
func SpanOverlap(a0, a1, b0, b1 float64) float64 {
	lo := max(a0, b0)
	hi := min(a1, b1)
	if hi <= lo {
		return 0
	}
	return hi - lo
}
