// Package core provides the screen, input and geometry types shared by the
// simulation and the terminal platform.
// It contains no UI dependencies (especially no Bubble Tea) to keep game
// logic pure and testable.
package core

// Rect is an area of screen cells. X and Y are the top-left cell.
type Rect struct {
	X, Y int
	W, H int
}

// NewRect creates a rectangle from its top-left cell and size.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the first column past the rectangle.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the first row past the rectangle.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Empty reports whether the rectangle covers no cells.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Box is an axis-aligned bounding box in continuous world units.
// Edges are open: boxes that only touch do not overlap.
type Box struct {
	Left, Top, Right, Bottom float64
}

// BoxAt builds a box from a top-left corner and a size.
func BoxAt(x, y, w, h float64) Box {
	return Box{Left: x, Top: y, Right: x + w, Bottom: y + h}
}

// Overlaps reports whether two boxes share any interior area.
func (b Box) Overlaps(o Box) bool {
	return b.Left < o.Right && b.Right > o.Left && b.Top < o.Bottom && b.Bottom > o.Top
}

// ClampF restricts v to [lo, hi].
func ClampF(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}

// AbsF returns |x|.
func AbsF(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
