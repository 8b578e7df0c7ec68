package birch

import (
	"image"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestScissorRun(t *testing.T) {
	a := [4]float32{0, 0, 10, 10}
	c := [4]float32{5, 5, 20, 20}
	items := []Item{{Scissor: a}, {Scissor: a}, {Scissor: c}, {Scissor: a}}
	if got := scissorRun(items); got != 2 {
		t.Errorf("scissorRun = %d, want 2", got)
	}
	if got := scissorRun(items[2:]); got != 1 {
		t.Errorf("scissorRun = %d, want 1", got)
	}
	if got := scissorRun(items[3:]); got != 1 {
		t.Errorf("scissorRun = %d, want 1", got)
	}
}

func TestScissorBounds(t *testing.T) {
	target := image.Rect(0, 0, 800, 600)
	tests := []struct {
		name string
		sc   [4]float32
		want image.Rectangle
	}{
		{"inside", [4]float32{10, 20, 30, 40}, image.Rect(10, 20, 30, 40)},
		{"fractional rounds out", [4]float32{10.5, 20.5, 30.2, 40.7}, image.Rect(10, 20, 31, 41)},
		{"clipped to target", [4]float32{-50, -50, 1000, 100}, image.Rect(0, 0, 800, 100)},
		{"outside", [4]float32{900, 900, 950, 950}, image.Rectangle{}},
	}
	for _, tt := range tests {
		got := scissorBounds(tt.sc, target)
		if tt.want.Empty() {
			if !got.Empty() {
				t.Errorf("%s: bounds = %v, want empty", tt.name, got)
			}
			continue
		}
		if got != tt.want {
			t.Errorf("%s: bounds = %v, want %v", tt.name, got, tt.want)
		}
	}

	u := UnboundedScissor()
	unbounded := [4]float32{float32(u.X), float32(u.Y), float32(u.Right()), float32(u.Bottom())}
	if got := scissorBounds(unbounded, target); got != target {
		t.Errorf("unbounded: bounds = %v, want full target", got)
	}
}

func TestAppendQuadIdentity(t *testing.T) {
	it := Item{
		UV:       [4]float32{0.25, 0.5, 0.5, 0.25},
		Color:    [4]float32{1, 0.5, 0, 0.5},
		Scale:    [2]float32{20, 10},
		Location: [3]float32{100, 50, 0},
	}
	view := Identity.float32s()
	src := image.Rect(0, 0, 64, 64)
	verts, inds := appendQuad(nil, nil, &it, &view, src)

	if len(verts) != 4 || len(inds) != 6 {
		t.Fatalf("got %d verts, %d indices, want 4, 6", len(verts), len(inds))
	}
	want := [4][4]float32{
		{100, 50, 16, 32},
		{120, 50, 48, 32},
		{100, 60, 16, 48},
		{120, 60, 48, 48},
	}
	for i, w := range want {
		v := verts[i]
		assertNear32(t, "DstX", v.DstX, w[0])
		assertNear32(t, "DstY", v.DstY, w[1])
		assertNear32(t, "SrcX", v.SrcX, w[2])
		assertNear32(t, "SrcY", v.SrcY, w[3])
	}
	// Premultiplied color.
	v := verts[0]
	if v.ColorR != 0.5 || v.ColorG != 0.25 || v.ColorB != 0 || v.ColorA != 0.5 {
		t.Errorf("color = (%v, %v, %v, %v), want premultiplied (0.5, 0.25, 0, 0.5)",
			v.ColorR, v.ColorG, v.ColorB, v.ColorA)
	}
	wantInds := []uint32{0, 1, 2, 1, 3, 2}
	for i := range wantInds {
		if inds[i] != wantInds[i] {
			t.Errorf("inds = %v, want %v", inds, wantInds)
			break
		}
	}
}

func TestAppendQuadViewAndSubImage(t *testing.T) {
	it := Item{
		UV:       [4]float32{0, 0, 1, 1},
		Color:    [4]float32{1, 1, 1, 1},
		Scale:    [2]float32{10, 10},
		Location: [3]float32{1, 2, 0},
	}
	view := Translation(100, 0).Mul(Scaling(2, 2)).float32s()
	src := image.Rect(32, 16, 48, 32)

	verts, inds := appendQuad(make([]ebiten.Vertex, 4), make([]uint32, 6), &it, &view, src)
	if len(verts) != 8 {
		t.Fatalf("verts = %d, want 8", len(verts))
	}
	if inds[6] != 4 {
		t.Errorf("second quad first index = %d, want base 4", inds[6])
	}
	br := verts[7]
	assertNear32(t, "DstX", br.DstX, 122)
	assertNear32(t, "DstY", br.DstY, 24)
	assertNear32(t, "SrcX", br.SrcX, 48)
	assertNear32(t, "SrcY", br.SrcY, 32)
	tl := verts[4]
	assertNear32(t, "SrcX", tl.SrcX, 32)
	assertNear32(t, "SrcY", tl.SrcY, 16)
}

func TestAppendQuadRotation(t *testing.T) {
	it := Item{
		UV:       [4]float32{0, 0, 1, 1},
		Scale:    [2]float32{10, 10},
		Origin:   [2]float32{5, 5},
		Location: [3]float32{50, 50, 0},
		Rotation: 3.14159265 / 2,
	}
	view := Identity.float32s()
	verts, _ := appendQuad(nil, nil, &it, &view, image.Rect(0, 0, 1, 1))
	for i := range verts {
		x, y := it.Corner(i)
		assertNear32(t, "DstX", verts[i].DstX, x)
		assertNear32(t, "DstY", verts[i].DstY, y)
	}
}

func TestBlendModeMapping(t *testing.T) {
	tests := []struct {
		mode BlendMode
		want ebiten.Blend
	}{
		{BlendNormal, ebiten.BlendSourceOver},
		{BlendAdd, ebiten.BlendLighter},
		{BlendErase, ebiten.BlendDestinationOut},
		{BlendBelow, ebiten.BlendDestinationOver},
		{BlendNone, ebiten.BlendCopy},
		{BlendMode(200), ebiten.BlendSourceOver},
	}
	for _, tt := range tests {
		if got := tt.mode.EbitenBlend(); got != tt.want {
			t.Errorf("BlendMode(%d).EbitenBlend() = %+v, want %+v", tt.mode, got, tt.want)
		}
	}
	if BlendMultiply.EbitenBlend().BlendFactorSourceRGB != ebiten.BlendFactorDestinationColor {
		t.Error("multiply should scale source by destination color")
	}
}
