package birch

import (
	"image/color"
	"math"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// isZero reports whether c is the zero value, which draw calls treat as white.
func (c Color) isZero() bool {
	return c.R == 0 && c.G == 0 && c.B == 0 && c.A == 0
}

// orWhite returns ColorWhite for the zero-value sentinel, otherwise c.
func (c Color) orWhite() Color {
	if c.isZero() {
		return ColorWhite
	}
	return c
}

// array32 converts the color to the float32 layout stored in an Item.
func (c Color) array32() [4]float32 {
	return [4]float32{float32(c.R), float32(c.G), float32(c.B), float32(c.A)}
}

// ToRGBA converts c to a premultiplied color.RGBA, for image.Fill and other
// standard library consumers. Components are clamped to [0, 1].
func (c Color) ToRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// Vec2 is a 2D vector used for positions, offsets, sizes, and directions
// throughout the API.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Right returns the X coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the Y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Empty reports whether the rectangle covers no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Intersect returns the largest rectangle contained by both r and other.
// Disjoint rectangles produce a zero-size rectangle positioned at the
// clamped corner, never negative dimensions.
func (r Rect) Intersect(other Rect) Rect {
	x0 := math.Max(r.X, other.X)
	y0 := math.Max(r.Y, other.Y)
	x1 := math.Min(r.Right(), other.Right())
	y1 := math.Min(r.Bottom(), other.Bottom())
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Flip mirrors the source rectangle of a draw. Values can be combined with
// bitwise OR.
type Flip uint8

const (
	FlipNone       Flip = 0 // draw the source as-is
	FlipHorizontal Flip = 1 // mirror along the vertical axis (u' = u + w, w' = -w)
	FlipVertical   Flip = 2 // mirror along the horizontal axis (v' = v + h, h' = -h)

	FlipBoth = FlipHorizontal | FlipVertical
)
