package birch

import (
	"fmt"
	"time"
)

const defaultItemCapacity = 1024

// BatchConfig configures a SpriteBatch. A nil config uses the defaults.
type BatchConfig struct {
	// InitialCapacity is the number of items reserved up front. 0 selects
	// the default of 1024.
	InitialCapacity int

	// Debug enables per-frame stats logging to stderr. See SetDebugMode.
	Debug bool
}

// DrawOptions are the optional parameters of Draw and DrawDest. A nil
// *DrawOptions draws the whole texture, untinted and unscaled.
type DrawOptions struct {
	// Source is the sub-rectangle of the texture in pixels. nil selects the
	// whole texture.
	Source *Rect

	// Color multiplies the texture. The zero value is treated as opaque white.
	Color Color

	// Origin is the pivot the quad is positioned and rotated around. For Draw
	// it is in source pixels and is multiplied by Scale; for DrawDest it is
	// in destination units and used as-is.
	Origin Vec2

	// Scale multiplies the source size (Draw only). The zero value means
	// (1, 1).
	Scale Vec2

	// Rotation in radians, clockwise on a Y-down screen.
	Rotation float64

	// Flip mirrors the source rectangle.
	Flip Flip

	// Depth orders items when the render step builds with a depth sort.
	Depth float64
}

var defaultDrawOptions DrawOptions

// SpriteBatch is the Begin/Draw/End front end of the batching layer. It
// validates call order, turns high-level draw parameters into Items and
// hands them to its Batcher. The render step then calls Build and walks the
// slice table.
//
// The zero value of T is "no texture" and is rejected by every draw.
type SpriteBatch[T Texture] struct {
	batcher *Batcher[T]
	white   T

	active  bool
	view    Affine
	scissor Rect
	clip    [4]float32 // scissor as stamped into items

	debug bool
	stats FrameStats

	glyphs []Glyph[T] // DrawText scratch
}

// NewSpriteBatch creates a batch. white must be an opaque 1x1 texture; it is
// the image used by the shape helpers (FillRect, DrawRect, DrawDot,
// DrawSegment).
func NewSpriteBatch[T Texture](white T, cfg *BatchConfig) *SpriteBatch[T] {
	capacity := defaultItemCapacity
	var debug bool
	if cfg != nil {
		if cfg.InitialCapacity > 0 {
			capacity = cfg.InitialCapacity
		}
		debug = cfg.Debug
	}
	b := &SpriteBatch[T]{
		batcher: NewBatcher[T](capacity),
		white:   white,
		view:    Identity,
	}
	b.SetDebugMode(debug)
	b.setScissor(unboundedScissor)
	return b
}

// Begin starts a batch. It resets the view matrix to Identity, resets the
// scissor and clears every item from the previous batch, even if that batch
// was never built or rendered.
func (b *SpriteBatch[T]) Begin() error {
	if b.active {
		return fmt.Errorf("%w: Begin called twice without End", ErrInvalidState)
	}
	b.active = true
	b.view = Identity
	b.setScissor(unboundedScissor)
	b.batcher.Clear()
	b.stats = FrameStats{}
	return nil
}

// End finishes the batch. Items stay in submission order until Build.
func (b *SpriteBatch[T]) End() error {
	if !b.active {
		return fmt.Errorf("%w: End without Begin", ErrInvalidState)
	}
	b.active = false
	b.stats.Items = b.batcher.Len()
	return nil
}

// Active reports whether the batch is between Begin and End.
func (b *SpriteBatch[T]) Active() bool {
	return b.active
}

// Build orders the ended batch with mode and cuts the slice table. It must
// be called after End; the render step calls it before walking Slices.
func (b *SpriteBatch[T]) Build(mode SortMode) error {
	if b.active {
		return fmt.Errorf("%w: Build before End", ErrInvalidState)
	}
	var t0 time.Time
	if b.debug {
		t0 = time.Now()
	}
	b.batcher.Build(mode)
	b.stats.Items = b.batcher.Len()
	b.stats.Slices = len(b.batcher.Slices())
	if b.debug {
		b.stats.BuildTime = time.Since(t0)
		b.debugLog(mode)
	}
	return nil
}

// Batcher returns the underlying batcher for the render step.
func (b *SpriteBatch[T]) Batcher() *Batcher[T] {
	return b.batcher
}

// SetViewMatrix sets the view transform the render step applies to every
// item of this batch. Begin resets it to Identity.
func (b *SpriteBatch[T]) SetViewMatrix(m Affine) {
	b.view = m
}

// ViewMatrix returns the current view transform.
func (b *SpriteBatch[T]) ViewMatrix() Affine {
	return b.view
}

// WhiteTexture returns the reserved 1x1 texture used by the shape helpers.
func (b *SpriteBatch[T]) WhiteTexture() T {
	return b.white
}

// Stats returns the counters of the last built batch.
func (b *SpriteBatch[T]) Stats() FrameStats {
	return b.stats
}

// SetDebugMode enables or disables per-frame stats logging and the package
// debug warnings (missing atlas regions and glyphs).
func (b *SpriteBatch[T]) SetDebugMode(enabled bool) {
	b.debug = enabled
	globalDebug = enabled
}

// Draw submits tex at pos, sized by the source rectangle times Scale.
func (b *SpriteBatch[T]) Draw(tex T, pos Vec2, opts *DrawOptions) error {
	if err := b.checkDraw(tex); err != nil {
		return err
	}
	if opts == nil {
		opts = &defaultDrawOptions
	}
	tw, th := tex.Size()
	src, err := sourceRect(opts.Source, tw, th)
	if err != nil {
		return err
	}
	scale := opts.Scale
	if scale.X == 0 && scale.Y == 0 {
		scale = Vec2{1, 1}
	}
	dst := Rect{X: pos.X, Y: pos.Y, Width: src.Width * scale.X, Height: src.Height * scale.Y}
	origin := Vec2{opts.Origin.X * scale.X, opts.Origin.Y * scale.Y}
	b.push(tex, tw, th, src, dst, origin, opts)
	return nil
}

// DrawDest submits tex stretched over the destination rectangle dst.
func (b *SpriteBatch[T]) DrawDest(tex T, dst Rect, opts *DrawOptions) error {
	if err := b.checkDraw(tex); err != nil {
		return err
	}
	if dst.Width < 0 || dst.Height < 0 {
		return fmt.Errorf("%w: negative destination size %vx%v", ErrInvalidArgument, dst.Width, dst.Height)
	}
	if opts == nil {
		opts = &defaultDrawOptions
	}
	tw, th := tex.Size()
	src, err := sourceRect(opts.Source, tw, th)
	if err != nil {
		return err
	}
	b.push(tex, tw, th, src, dst, opts.Origin, opts)
	return nil
}

// checkDraw validates the batch state and the texture of a draw call.
func (b *SpriteBatch[T]) checkDraw(tex T) error {
	if !b.active {
		return fmt.Errorf("%w: Draw before Begin", ErrInvalidState)
	}
	var zero T
	if tex == zero {
		return fmt.Errorf("%w: nil texture", ErrInvalidArgument)
	}
	if tex.Format().BytesPerPixel() == 0 {
		return fmt.Errorf("%w: unknown pixel format %v", ErrUnsupportedTexture, tex.Format())
	}
	w, h := tex.Size()
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: texture size %dx%d", ErrInvalidArgument, w, h)
	}
	return nil
}

// sourceRect resolves an optional source rectangle against the texture size.
func sourceRect(src *Rect, tw, th int) (Rect, error) {
	if src == nil {
		return Rect{Width: float64(tw), Height: float64(th)}, nil
	}
	if src.Width < 0 || src.Height < 0 {
		return Rect{}, fmt.Errorf("%w: negative source size %vx%v", ErrInvalidArgument, src.Width, src.Height)
	}
	return *src, nil
}

// normalizeSource converts a pixel source rect to UV space and applies flip
// by moving the origin to the far edge and negating the size.
func normalizeSource(src Rect, tw, th int, flip Flip) [4]float32 {
	fw, fh := float64(tw), float64(th)
	u, v := src.X/fw, src.Y/fh
	uw, vh := src.Width/fw, src.Height/fh
	if flip&FlipHorizontal != 0 {
		u += uw
		uw = -uw
	}
	if flip&FlipVertical != 0 {
		v += vh
		vh = -vh
	}
	return [4]float32{float32(u), float32(v), float32(uw), float32(vh)}
}

// push fills a new item in place.
func (b *SpriteBatch[T]) push(tex T, tw, th int, src, dst Rect, origin Vec2, opts *DrawOptions) {
	it := b.batcher.Add(tex)
	it.UV = normalizeSource(src, tw, th, opts.Flip)
	it.Color = opts.Color.orWhite().array32()
	it.Scale = [2]float32{float32(dst.Width), float32(dst.Height)}
	it.Origin = [2]float32{float32(origin.X), float32(origin.Y)}
	it.Location = [3]float32{float32(dst.X), float32(dst.Y), float32(opts.Depth)}
	it.Rotation = float32(opts.Rotation)
	it.Scissor = b.clip
}
