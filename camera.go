package birch

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// scrollAnim holds active scroll-to tweens for camera X and Y.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Camera produces a view matrix from a position, zoom, rotation and
// viewport. Pass ViewMatrix to SpriteBatch.SetViewMatrix after Begin.
type Camera struct {
	// X and Y are the world-space position the camera centers on.
	X, Y float64
	// Zoom is the scale factor (1.0 = no zoom, >1 = zoom in, <1 = zoom out).
	Zoom float64
	// Rotation is the camera rotation in radians (clockwise).
	Rotation float64
	// Viewport is the screen-space rectangle this camera renders into.
	Viewport Rect

	follow        *Vec2
	followOffsetX float64
	followOffsetY float64
	followLerp    float64

	// BoundsEnabled clamps the camera position so the visible area stays
	// within Bounds.
	BoundsEnabled bool
	// Bounds is the world-space rectangle the camera is clamped to when
	// BoundsEnabled is true.
	Bounds Rect

	viewMatrix    Affine
	invViewMatrix Affine
	dirty         bool

	// last inputs the cached matrices were built from
	lastX, lastY, lastZoom, lastRot float64
	lastViewport                    Rect

	scrollTween *scrollAnim
}

// NewCamera creates a Camera centered on the origin with the given viewport.
func NewCamera(viewport Rect) *Camera {
	return &Camera{
		Zoom:     1.0,
		Viewport: viewport,
		dirty:    true,
	}
}

// Follow makes the camera track the point target with the given offset and
// lerp factor. A lerp of 1.0 snaps immediately; lower values give smoother
// following. The point is read on every Update.
func (c *Camera) Follow(target *Vec2, offsetX, offsetY, lerp float64) {
	c.follow = target
	c.followOffsetX = offsetX
	c.followOffsetY = offsetY
	c.followLerp = lerp
}

// Unfollow stops tracking the current target.
func (c *Camera) Unfollow() {
	c.follow = nil
}

// ScrollTo animates the camera to the given world position over duration seconds.
func (c *Camera) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	c.scrollTween = &scrollAnim{
		tweenX: gween.New(float32(c.X), float32(x), duration, easeFn),
		tweenY: gween.New(float32(c.Y), float32(y), duration, easeFn),
	}
}

// ScrollToTile scrolls to the center of the given tile in a tile-based layout.
func (c *Camera) ScrollToTile(tileX, tileY int, tileW, tileH float64, duration float32, easeFn ease.TweenFunc) {
	worldX := float64(tileX)*tileW + tileW/2
	worldY := float64(tileY)*tileH + tileH/2
	c.ScrollTo(worldX, worldY, duration, easeFn)
}

// Scrolling reports whether a ScrollTo animation is in progress.
func (c *Camera) Scrolling() bool {
	return c.scrollTween != nil
}

// SetBounds enables camera bounds clamping.
func (c *Camera) SetBounds(bounds Rect) {
	c.BoundsEnabled = true
	c.Bounds = bounds
}

// ClearBounds disables camera bounds clamping.
func (c *Camera) ClearBounds() {
	c.BoundsEnabled = false
}

// ClampToBounds immediately clamps the camera position so the visible area
// stays within Bounds. No-op if BoundsEnabled is false.
func (c *Camera) ClampToBounds() {
	if c.BoundsEnabled {
		c.clampToBounds()
	}
}

// Update advances follow, scroll and bounds clamping by dt seconds.
func (c *Camera) Update(dt float32) {
	if c.follow != nil {
		targetX := c.follow.X + c.followOffsetX
		targetY := c.follow.Y + c.followOffsetY
		c.X += (targetX - c.X) * c.followLerp
		c.Y += (targetY - c.Y) * c.followLerp
	}

	if c.scrollTween != nil {
		if !c.scrollTween.doneX {
			val, done := c.scrollTween.tweenX.Update(dt)
			c.X = float64(val)
			c.scrollTween.doneX = done
		}
		if !c.scrollTween.doneY {
			val, done := c.scrollTween.tweenY.Update(dt)
			c.Y = float64(val)
			c.scrollTween.doneY = done
		}
		if c.scrollTween.doneX && c.scrollTween.doneY {
			c.scrollTween = nil
		}
	}

	if c.BoundsEnabled {
		c.clampToBounds()
	}
}

// clampToBounds restricts camera position so the visible area stays within Bounds.
func (c *Camera) clampToBounds() {
	halfW := c.Viewport.Width / (2 * c.Zoom)
	halfH := c.Viewport.Height / (2 * c.Zoom)

	minX := c.Bounds.X + halfW
	maxX := c.Bounds.X + c.Bounds.Width - halfW
	minY := c.Bounds.Y + halfH
	maxY := c.Bounds.Y + c.Bounds.Height - halfH

	// If bounds are smaller than visible area, center the camera.
	if minX > maxX {
		c.X = c.Bounds.X + c.Bounds.Width/2
	} else {
		c.X = math.Max(minX, math.Min(c.X, maxX))
	}
	if minY > maxY {
		c.Y = c.Bounds.Y + c.Bounds.Height/2
	} else {
		c.Y = math.Max(minY, math.Min(c.Y, maxY))
	}
}

// ViewMatrix returns the world-to-screen transform:
//
//	Translate(cx, cy) * Scale(zoom) * Rotate(-rotation) * Translate(-X, -Y)
//
// where cx, cy is the viewport center. The result is cached until a field
// changes.
func (c *Camera) ViewMatrix() Affine {
	if c.X != c.lastX || c.Y != c.lastY || c.Zoom != c.lastZoom ||
		c.Rotation != c.lastRot || c.Viewport != c.lastViewport {
		c.dirty = true
	}
	if !c.dirty {
		return c.viewMatrix
	}
	c.dirty = false
	c.lastX, c.lastY, c.lastZoom, c.lastRot = c.X, c.Y, c.Zoom, c.Rotation
	c.lastViewport = c.Viewport

	cx := c.Viewport.X + c.Viewport.Width/2
	cy := c.Viewport.Y + c.Viewport.Height/2

	c.viewMatrix = Translation(cx, cy).
		Mul(Scaling(c.Zoom, c.Zoom)).
		Mul(Rotation(-c.Rotation)).
		Mul(Translation(-c.X, -c.Y))
	c.invViewMatrix = c.viewMatrix.Invert()
	return c.viewMatrix
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float64) (sx, sy float64) {
	return c.ViewMatrix().Apply(wx, wy)
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	c.ViewMatrix()
	return c.invViewMatrix.Apply(sx, sy)
}

// VisibleBounds returns the axis-aligned bounding rect of the camera's visible
// area in world space.
func (c *Camera) VisibleBounds() Rect {
	c.ViewMatrix()
	return transformedBounds(c.invViewMatrix, c.Viewport)
}

// MarkDirty forces a recomputation of the view matrix.
func (c *Camera) MarkDirty() {
	c.dirty = true
}

// transformedBounds returns the axis-aligned box around r transformed by m.
func transformedBounds(m Affine, r Rect) Rect {
	x0, y0 := m.Apply(r.X, r.Y)
	x1, y1 := m.Apply(r.Right(), r.Y)
	x2, y2 := m.Apply(r.Right(), r.Bottom())
	x3, y3 := m.Apply(r.X, r.Bottom())

	minX := math.Min(math.Min(x0, x1), math.Min(x2, x3))
	minY := math.Min(math.Min(y0, y1), math.Min(y2, y3))
	maxX := math.Max(math.Max(x0, x1), math.Max(x2, x3))
	maxY := math.Max(math.Max(y0, y1), math.Max(y2, y3))

	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
