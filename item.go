package birch

import (
	"encoding/binary"
	"math"

	"github.com/chewxy/math32"
)

// Item is the GPU-ready record for one quad. It holds only plain numbers so
// a slice of items can be copied or packed straight into a mapped buffer.
//
// The packed layout (see AppendItems) matches this WGSL struct byte for byte:
//
//	struct Item {
//	    uv:       vec4<f32>, // offset 0
//	    color:    vec4<f32>, // offset 16
//	    scale:    vec2<f32>, // offset 32
//	    origin:   vec2<f32>, // offset 40
//	    location: vec3<f32>, // offset 48
//	    rotation: f32,       // offset 60
//	    scissor:  vec4<f32>, // offset 64
//	}                        // size 80
type Item struct {
	UV       [4]float32 // normalized source rect (x, y, w, h); negative w/h flips
	Color    [4]float32 // RGBA multiplier in [0, 1]
	Scale    [2]float32 // destination size in screen units
	Origin   [2]float32 // pivot offset in destination units, subtracted before rotation
	Location [3]float32 // x, y, depth
	Rotation float32    // radians, applied about Origin after scaling
	Scissor  [4]float32 // left, top, right, bottom in render-target pixels
}

// ItemSize is the packed size of one Item in bytes.
const ItemSize = 80

// quadCorners are the unit-square corners in TL, TR, BL, BR order, the
// triangle-strip order the GPU shader walks with vertex_index.
var quadCorners = [4][2]float32{{0, 0}, {1, 0}, {0, 1}, {1, 1}}

// Corner returns the position of corner i (0=TL, 1=TR, 2=BL, 3=BR) after
// scaling, origin subtraction, rotation and translation, before any view
// matrix is applied.
func (it *Item) Corner(i int) (x, y float32) {
	c := quadCorners[i]
	lx := c[0]*it.Scale[0] - it.Origin[0]
	ly := c[1]*it.Scale[1] - it.Origin[1]
	if it.Rotation != 0 {
		sin, cos := math32.Sincos(it.Rotation)
		lx, ly = cos*lx-sin*ly, sin*lx+cos*ly
	}
	return lx + it.Location[0], ly + it.Location[1]
}

// TexCoord returns the normalized texture coordinate for corner i.
func (it *Item) TexCoord(i int) (u, v float32) {
	c := quadCorners[i]
	return it.UV[0] + c[0]*it.UV[2], it.UV[1] + c[1]*it.UV[3]
}

// Depth returns the sort depth (Location z).
func (it *Item) Depth() float32 {
	return it.Location[2]
}

// AppendItems appends the little-endian packed form of items to dst and
// returns the extended buffer. Each item occupies exactly ItemSize bytes.
func AppendItems(dst []byte, items []Item) []byte {
	for i := range items {
		dst = appendItem(dst, &items[i])
	}
	return dst
}

func appendItem(dst []byte, it *Item) []byte {
	dst = appendFloats(dst, it.UV[:])
	dst = appendFloats(dst, it.Color[:])
	dst = appendFloats(dst, it.Scale[:])
	dst = appendFloats(dst, it.Origin[:])
	dst = appendFloats(dst, it.Location[:])
	dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(it.Rotation))
	return appendFloats(dst, it.Scissor[:])
}

func appendFloats(dst []byte, fs []float32) []byte {
	for _, f := range fs {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(f))
	}
	return dst
}
