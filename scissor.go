package birch

import "fmt"

// scissorExtent is the side length of the default scissor. float32 holds it
// exactly, and it dwarfs any render target.
const scissorExtent = 1 << 24

// unboundedScissor is the default clip: a huge box centered on the origin.
var unboundedScissor = Rect{
	X:      -scissorExtent / 2,
	Y:      -scissorExtent / 2,
	Width:  scissorExtent,
	Height: scissorExtent,
}

// UnboundedScissor returns the scissor rectangle a batch starts with.
func UnboundedScissor() Rect {
	return unboundedScissor
}

// Scissor returns the clip rectangle stamped into subsequent draws.
func (b *SpriteBatch[T]) Scissor() Rect {
	return b.scissor
}

// IntersectScissor narrows the active scissor to its intersection with r.
// The scissor is in render-target pixels: backends test it after the view
// matrix, so it does not move with the camera.
// Items already submitted keep the scissor they were drawn with. Disjoint
// rectangles leave an empty scissor that clips everything.
func (b *SpriteBatch[T]) IntersectScissor(r Rect) error {
	if r.Width < 0 || r.Height < 0 {
		return fmt.Errorf("%w: negative scissor size %vx%v", ErrInvalidArgument, r.Width, r.Height)
	}
	b.setScissor(b.scissor.Intersect(r))
	return nil
}

// ResetScissor restores the unbounded scissor.
func (b *SpriteBatch[T]) ResetScissor() {
	b.setScissor(unboundedScissor)
}

func (b *SpriteBatch[T]) setScissor(r Rect) {
	b.scissor = r
	b.clip = [4]float32{float32(r.X), float32(r.Y), float32(r.Right()), float32(r.Bottom())}
}
