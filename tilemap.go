package birch

import (
	"fmt"
	"math"
)

// GID flag bits (same convention as Tiled TMX format).
const (
	TileFlipH    uint32 = 1 << 31 // horizontal flip
	TileFlipV    uint32 = 1 << 30 // vertical flip
	TileFlipD    uint32 = 1 << 29 // diagonal flip (transpose)
	tileFlagMask uint32 = TileFlipH | TileFlipV | TileFlipD
)

// AnimFrame describes a single frame in a tile animation sequence.
type AnimFrame struct {
	GID      uint32 // tile GID for this frame (no flag bits)
	Duration int    // milliseconds
}

// TileLayer is a grid of tile GIDs drawn from one tileset texture. Each
// visible non-empty tile becomes one item, so a whole layer usually lands in
// a single slice.
//
// Diagonal flips rotate the tile by 90 degrees and assume square tiles.
type TileLayer[T Texture] struct {
	// Tileset is the page every tile samples from.
	Tileset T
	// TileWidth and TileHeight are the world size of one cell.
	TileWidth, TileHeight float64
	// Color tints every tile. The zero value is opaque white.
	Color Color
	Depth float64

	data    []uint32 // row-major, len = width * height
	width   int
	height  int
	regions []Rect // source rect by GID (after masking flags)

	anims       map[uint32][]AnimFrame
	animElapsed int // milliseconds
}

// NewTileLayer creates a layer of w x h cells. regions maps a GID to its
// source rectangle in the tileset; GID 0 is the empty tile.
func NewTileLayer[T Texture](tileset T, tileW, tileH float64, w, h int, data []uint32, regions []Rect) (*TileLayer[T], error) {
	l := &TileLayer[T]{
		Tileset:    tileset,
		TileWidth:  tileW,
		TileHeight: tileH,
		regions:    regions,
	}
	if err := l.SetData(data, w, h); err != nil {
		return nil, err
	}
	return l, nil
}

// Size returns the layer dimensions in cells.
func (l *TileLayer[T]) Size() (w, h int) {
	return l.width, l.height
}

// Tile returns the GID at (col, row), flag bits included, or 0 outside the
// layer.
func (l *TileLayer[T]) Tile(col, row int) uint32 {
	if col < 0 || col >= l.width || row < 0 || row >= l.height {
		return 0
	}
	return l.data[row*l.width+col]
}

// SetTile updates a single cell. Out-of-range cells are ignored.
func (l *TileLayer[T]) SetTile(col, row int, gid uint32) {
	if col < 0 || col >= l.width || row < 0 || row >= l.height {
		return
	}
	l.data[row*l.width+col] = gid
}

// SetData replaces the whole grid.
func (l *TileLayer[T]) SetData(data []uint32, w, h int) error {
	if w < 0 || h < 0 || len(data) != w*h {
		return fmt.Errorf("%w: tile data has %d cells, want %dx%d", ErrInvalidArgument, len(data), w, h)
	}
	l.data = data
	l.width = w
	l.height = h
	return nil
}

// SetAnimations sets the animation definitions, keyed by base GID (no flag
// bits).
func (l *TileLayer[T]) SetAnimations(anims map[uint32][]AnimFrame) {
	l.anims = anims
}

// Update advances tile animations by dt seconds.
func (l *TileLayer[T]) Update(dt float64) {
	if ms := int(dt * 1000); ms > 0 {
		l.animElapsed += ms
	}
}

// VisibleRange returns the half-open cell range [c0, c1) x [r0, r1) that
// overlaps view, clamped to the layer.
func (l *TileLayer[T]) VisibleRange(view Rect) (c0, r0, c1, r1 int) {
	if l.TileWidth <= 0 || l.TileHeight <= 0 {
		return 0, 0, 0, 0
	}
	c0 = max(int(math.Floor(view.X/l.TileWidth)), 0)
	r0 = max(int(math.Floor(view.Y/l.TileHeight)), 0)
	c1 = min(int(math.Ceil(view.Right()/l.TileWidth)), l.width)
	r1 = min(int(math.Ceil(view.Bottom()/l.TileHeight)), l.height)
	if c1 < c0 {
		c1 = c0
	}
	if r1 < r0 {
		r1 = r0
	}
	return c0, r0, c1, r1
}

// Draw submits every non-empty tile that overlaps view, typically
// Camera.VisibleBounds. GIDs without a region are skipped.
func (l *TileLayer[T]) Draw(b *SpriteBatch[T], view Rect) error {
	c0, r0, c1, r1 := l.VisibleRange(view)
	tw, th := l.TileWidth, l.TileHeight

	var opts DrawOptions
	for row := r0; row < r1; row++ {
		rowOffset := row * l.width
		for col := c0; col < c1; col++ {
			gid := l.data[rowOffset+col]
			if gid == 0 {
				continue
			}
			id := l.frameGID(gid &^ tileFlagMask)
			if int(id) >= len(l.regions) {
				continue
			}

			flip, rotated := tileOrientation(gid & tileFlagMask)
			dst := Rect{X: float64(col)*tw + tw/2, Y: float64(row)*th + th/2, Width: tw, Height: th}
			opts = DrawOptions{
				Source: &l.regions[id],
				Color:  l.Color,
				Origin: Vec2{tw / 2, th / 2},
				Flip:   flip,
				Depth:  l.Depth,
			}
			if rotated {
				dst.Width, dst.Height = th, tw
				opts.Origin = Vec2{th / 2, tw / 2}
				opts.Rotation = math.Pi / 2
			}
			if err := b.DrawDest(l.Tileset, dst, &opts); err != nil {
				return err
			}
		}
	}
	return nil
}

// tileOrientation turns Tiled flip flags into a source flip plus an optional
// 90 degree clockwise rotation. Tiled applies the diagonal flip first; after
// a quarter turn the display axes are swapped, so H and V flip the other
// source axis.
func tileOrientation(flags uint32) (Flip, bool) {
	h := flags&TileFlipH != 0
	v := flags&TileFlipV != 0
	if flags&TileFlipD == 0 {
		var f Flip
		if h {
			f |= FlipHorizontal
		}
		if v {
			f |= FlipVertical
		}
		return f, false
	}
	f := FlipVertical // transpose = quarter turn + mirror
	if h {
		f ^= FlipVertical
	}
	if v {
		f ^= FlipHorizontal
	}
	return f, true
}

// frameGID resolves an animated base GID to its current frame.
func (l *TileLayer[T]) frameGID(base uint32) uint32 {
	frames, ok := l.anims[base]
	if !ok || len(frames) == 0 {
		return base
	}
	total := 0
	for _, f := range frames {
		total += f.Duration
	}
	if total <= 0 {
		return base
	}
	elapsed := l.animElapsed % total
	acc := 0
	for _, f := range frames {
		acc += f.Duration
		if elapsed < acc {
			return f.GID
		}
	}
	return frames[0].GID
}

// GridRegions slices a tileset of cols x rows cells of tileW x tileH pixels
// into a region table for NewTileLayer. Index 0 is left empty; GID 1 is the
// top-left cell, numbered row by row.
func GridRegions(cols, rows int, tileW, tileH float64) []Rect {
	regions := make([]Rect, 1, 1+cols*rows)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			regions = append(regions, Rect{
				X:      float64(c) * tileW,
				Y:      float64(r) * tileH,
				Width:  tileW,
				Height: tileH,
			})
		}
	}
	return regions
}
