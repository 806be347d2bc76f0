// Package geometry provides the integer layout primitives shared by the
// placement engine: positions, sizes, rectangles and grid helpers.
package geometry

import "math"

// Position represents a logical top-left coordinate on the canvas
type Position struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Size represents the dimensions of a rectangular area
type Size struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Rect is a positioned, axis-aligned box
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Bounds is the usable canvas area. MaxHeight is usually a generous
// multiple of the screen height since the canvas scrolls vertically.
type Bounds struct {
	MaxWidth  int `json:"max_width" yaml:"max_width"`
	MaxHeight int `json:"max_height" yaml:"max_height"`
}

// NewPosition creates a new position
func NewPosition(x, y int) Position {
	return Position{X: x, Y: y}
}

// NewSize creates a new size
func NewSize(width, height int) Size {
	return Size{Width: width, Height: height}
}

// NewRect creates a rectangle from its top-left corner and dimensions
func NewRect(x, y, width, height int) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// RectAt places a size at a position
func RectAt(pos Position, size Size) Rect {
	return Rect{X: pos.X, Y: pos.Y, Width: size.Width, Height: size.Height}
}

// Valid reports whether both dimensions are positive
func (s Size) Valid() bool {
	return s.Width > 0 && s.Height > 0
}

// Position returns the top-left corner
func (r Rect) Position() Position {
	return Position{X: r.X, Y: r.Y}
}

// Size returns the rectangle dimensions
func (r Rect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

// Right returns the exclusive right edge
func (r Rect) Right() int {
	return r.X + r.Width
}

// Bottom returns the exclusive bottom edge
func (r Rect) Bottom() int {
	return r.Y + r.Height
}

// Contains checks if a position is within the rectangle
func (r Rect) Contains(pos Position) bool {
	return pos.X >= r.X &&
		pos.X < r.Right() &&
		pos.Y >= r.Y &&
		pos.Y < r.Bottom()
}

// Intersects is IsColliding with r as the first operand
func (r Rect) Intersects(other Rect) bool {
	return IsColliding(r, other)
}

// Within reports whether r lies entirely inside the bounds
func (r Rect) Within(b Bounds) bool {
	return r.X >= 0 && r.Y >= 0 && r.Right() <= b.MaxWidth && r.Bottom() <= b.MaxHeight
}

// IsColliding reports whether the interiors of a and b overlap.
// Rectangles that only share an edge do not collide.
func IsColliding(a, b Rect) bool {
	return a.X < b.X+b.Width &&
		a.X+a.Width > b.X &&
		a.Y < b.Y+b.Height &&
		a.Y+a.Height > b.Y
}

// Clamp limits v to [lo, hi]. The upper bound is applied first, so when
// hi < lo the result is lo.
func Clamp(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

// SnapToGrid rounds v to the nearest multiple of grid.
// A non-positive grid leaves v unchanged.
func SnapToGrid(v, grid int) int {
	if grid <= 0 {
		return v
	}
	return int(math.Round(float64(v)/float64(grid))) * grid
}

// SnapPosition snaps both coordinates to the grid
func SnapPosition(pos Position, grid int) Position {
	return Position{X: SnapToGrid(pos.X, grid), Y: SnapToGrid(pos.Y, grid)}
}

// ClampPosition keeps a box of the given size inside the bounds
func ClampPosition(pos Position, size Size, b Bounds) Position {
	return Position{
		X: Clamp(pos.X, 0, b.MaxWidth-size.Width),
		Y: Clamp(pos.Y, 0, b.MaxHeight-size.Height),
	}
}
