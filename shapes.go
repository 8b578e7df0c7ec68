package birch

import "math"

// Stroke styles the outline shapes.
type Stroke struct {
	Color     Color   // zero value is white
	Thickness float64 // line width; <= 0 means 1
	Depth     float64
}

func (s Stroke) thickness() float64 {
	if s.Thickness <= 0 {
		return 1
	}
	return s.Thickness
}

// FillRect draws a solid rectangle using the white texture.
func (b *SpriteBatch[T]) FillRect(r Rect, c Color, depth float64) error {
	return b.DrawDest(b.white, r, &DrawOptions{Color: c, Depth: depth})
}

// DrawRect draws the outline of r, with the stroke inside the rectangle.
// Outlines thicker than half the rectangle become a filled rectangle.
func (b *SpriteBatch[T]) DrawRect(r Rect, s Stroke) error {
	t := s.thickness()
	if 2*t >= r.Width || 2*t >= r.Height {
		return b.FillRect(r, s.Color, s.Depth)
	}
	edges := [4]Rect{
		{X: r.X, Y: r.Y, Width: r.Width, Height: t},                       // top
		{X: r.X, Y: r.Bottom() - t, Width: r.Width, Height: t},            // bottom
		{X: r.X, Y: r.Y + t, Width: t, Height: r.Height - 2*t},            // left
		{X: r.Right() - t, Y: r.Y + t, Width: t, Height: r.Height - 2*t}, // right
	}
	for _, e := range edges {
		if err := b.FillRect(e, s.Color, s.Depth); err != nil {
			return err
		}
	}
	return nil
}

// DrawDot draws a square of side size centered on p.
func (b *SpriteBatch[T]) DrawDot(p Vec2, size float64, c Color, depth float64) error {
	return b.FillRect(Rect{X: p.X - size/2, Y: p.Y - size/2, Width: size, Height: size}, c, depth)
}

// DrawSegment draws a line from a to c as a rotated quad centered on the
// segment.
func (b *SpriteBatch[T]) DrawSegment(a, c Vec2, s Stroke) error {
	t := s.thickness()
	dx, dy := c.X-a.X, c.Y-a.Y
	return b.DrawDest(b.white, Rect{X: a.X, Y: a.Y, Width: math.Hypot(dx, dy), Height: t}, &DrawOptions{
		Color:    s.Color,
		Origin:   Vec2{0, t / 2},
		Rotation: math.Atan2(dy, dx),
		Depth:    s.Depth,
	})
}
