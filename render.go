package birch

import (
	"image"

	"github.com/chewxy/math32"
	"github.com/hajimehoshi/ebiten/v2"
)

// EbitenRenderer is the render step for ebiten: it builds a SpriteBatch,
// expands every item into four vertices on the CPU and submits one
// DrawTriangles32 per slice. Items inside a slice that carry different
// scissors are split into runs drawn onto clipped sub-images of the target.
//
// The zero value is ready to use: submission order, linear filtering off
// (nearest), normal blending.
type EbitenRenderer struct {
	// SortMode is passed to SpriteBatch.Build.
	SortMode SortMode
	// Filter is the texture sampling filter.
	Filter ebiten.Filter
	// Blend is the compositing operation for every draw.
	Blend BlendMode

	verts     []ebiten.Vertex
	inds      []uint32
	drawCalls int
}

// DrawCalls returns the number of DrawTriangles32 calls issued by the last
// Render.
func (r *EbitenRenderer) DrawCalls() int { return r.drawCalls }

// Render builds batch and draws it onto target. batch must have been ended.
func (r *EbitenRenderer) Render(target *ebiten.Image, batch *SpriteBatch[EbitenTexture]) error {
	if err := batch.Build(r.SortMode); err != nil {
		return err
	}
	r.drawCalls = 0
	bt := batch.Batcher()
	items := bt.Items()
	view := batch.ViewMatrix().float32s()
	bounds := target.Bounds()

	for _, s := range bt.Slices() {
		img := bt.SliceTexture(s).Image()
		run := items[s.Start:s.End()]
		for len(run) > 0 {
			n := scissorRun(run)
			r.drawRun(target, bounds, img, run[:n], &view)
			run = run[n:]
		}
	}
	return nil
}

// scissorRun returns the length of the leading run of items sharing the
// first item's scissor.
func scissorRun(items []Item) int {
	n := 1
	for n < len(items) && items[n].Scissor == items[0].Scissor {
		n++
	}
	return n
}

// scissorBounds converts an item scissor to pixel bounds clipped to the
// target. Fractional edges round outward.
func scissorBounds(sc [4]float32, target image.Rectangle) image.Rectangle {
	clip := image.Rect(
		int(math32.Floor(sc[0])), int(math32.Floor(sc[1])),
		int(math32.Ceil(sc[2])), int(math32.Ceil(sc[3])),
	)
	return clip.Intersect(target)
}

func (r *EbitenRenderer) drawRun(target *ebiten.Image, bounds image.Rectangle, img *ebiten.Image, items []Item, view *[6]float32) {
	clip := scissorBounds(items[0].Scissor, bounds)
	if clip.Empty() {
		return
	}
	dst := target
	if clip != bounds {
		dst = target.SubImage(clip).(*ebiten.Image)
	}

	src := img.Bounds()
	r.verts = r.verts[:0]
	r.inds = r.inds[:0]
	for i := range items {
		r.verts, r.inds = appendQuad(r.verts, r.inds, &items[i], view, src)
	}

	var triOp ebiten.DrawTrianglesOptions
	triOp.Blend = r.Blend.EbitenBlend()
	triOp.Filter = r.Filter
	triOp.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	dst.DrawTriangles32(r.verts, r.inds, img, &triOp)
	r.drawCalls++
}

// appendQuad appends 4 vertices and 6 indices for one item. Vertex positions
// are the item corners transformed by view; source coordinates are the item
// UVs mapped into src, which may be a sub-image with a non-zero origin.
func appendQuad(verts []ebiten.Vertex, inds []uint32, it *Item, view *[6]float32, src image.Rectangle) ([]ebiten.Vertex, []uint32) {
	sin, cos := float32(0), float32(1)
	if it.Rotation != 0 {
		sin, cos = math32.Sincos(it.Rotation)
	}
	a, b, c, d, tx, ty := view[0], view[1], view[2], view[3], view[4], view[5]
	sx, sy := float32(src.Min.X), float32(src.Min.Y)
	sw, sh := float32(src.Dx()), float32(src.Dy())

	// Premultiplied RGBA.
	ca := it.Color[3]
	cr, cg, cb := it.Color[0]*ca, it.Color[1]*ca, it.Color[2]*ca

	base := uint32(len(verts))
	for i, q := range quadCorners {
		lx := q[0]*it.Scale[0] - it.Origin[0]
		ly := q[1]*it.Scale[1] - it.Origin[1]
		wx := cos*lx - sin*ly + it.Location[0]
		wy := sin*lx + cos*ly + it.Location[1]
		u, v := it.TexCoord(i)
		verts = append(verts, ebiten.Vertex{
			DstX:   a*wx + c*wy + tx,
			DstY:   b*wx + d*wy + ty,
			SrcX:   sx + u*sw,
			SrcY:   sy + v*sh,
			ColorR: cr,
			ColorG: cg,
			ColorB: cb,
			ColorA: ca,
		})
	}

	// Two triangles: TL-TR-BL, TR-BR-BL
	inds = append(inds,
		base+0, base+1, base+2,
		base+1, base+3, base+2,
	)
	return verts, inds
}
