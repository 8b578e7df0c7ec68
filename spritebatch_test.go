package birch

import (
	"errors"
	"math"
	"testing"
)

func TestSpriteBatchStateErrors(t *testing.T) {
	b := NewSpriteBatch(texWhite, nil)

	if err := b.Draw(texA, Vec2{}, nil); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Draw before Begin: err = %v, want ErrInvalidState", err)
	}
	if err := b.End(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("End without Begin: err = %v, want ErrInvalidState", err)
	}
	if err := b.Begin(); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if !b.Active() {
		t.Error("Active() = false after Begin")
	}
	if err := b.Begin(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("double Begin: err = %v, want ErrInvalidState", err)
	}
	if err := b.Build(SortNone); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Build before End: err = %v, want ErrInvalidState", err)
	}
	if err := b.End(); err != nil {
		t.Fatalf("End: %v", err)
	}
	if b.Active() {
		t.Error("Active() = true after End")
	}
	if err := b.Build(SortNone); err != nil {
		t.Errorf("Build after End: %v", err)
	}
}

func TestSpriteBatchDrawAfterEndFails(t *testing.T) {
	b := newActiveBatch(t)
	_ = b.End()
	if err := b.FillRect(Rect{Width: 1, Height: 1}, ColorWhite, 0); !errors.Is(err, ErrInvalidState) {
		t.Errorf("FillRect after End: err = %v, want ErrInvalidState", err)
	}
}

func TestSpriteBatchRejectsBadTextures(t *testing.T) {
	b := newActiveBatch(t)

	if err := b.Draw(fakeTexture{}, Vec2{}, nil); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("zero texture: err = %v, want ErrInvalidArgument", err)
	}
	empty := fakeTexture{id: 9, format: FormatRGBA8}
	if err := b.Draw(empty, Vec2{}, nil); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("0x0 texture: err = %v, want ErrInvalidArgument", err)
	}
	odd := fakeTexture{id: 10, w: 4, h: 4, format: PixelFormat(99)}
	if err := b.Draw(odd, Vec2{}, nil); !errors.Is(err, ErrUnsupportedTexture) {
		t.Errorf("unknown format: err = %v, want ErrUnsupportedTexture", err)
	}
	if b.Batcher().Len() != 0 {
		t.Errorf("rejected draws added %d items", b.Batcher().Len())
	}
}

func TestSpriteBatchRejectsNegativeRects(t *testing.T) {
	b := newActiveBatch(t)

	src := Rect{Width: -1, Height: 10}
	if err := b.Draw(texA, Vec2{}, &DrawOptions{Source: &src}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("negative source: err = %v, want ErrInvalidArgument", err)
	}
	if err := b.DrawDest(texA, Rect{Width: 10, Height: -2}, nil); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("negative dest: err = %v, want ErrInvalidArgument", err)
	}
	if b.Batcher().Len() != 0 {
		t.Errorf("rejected draws added %d items", b.Batcher().Len())
	}
}

func TestSpriteBatchSourceUV(t *testing.T) {
	src := Rect{X: 25, Y: 25, Width: 50, Height: 50}
	tests := []struct {
		flip Flip
		want [4]float32
	}{
		{FlipNone, [4]float32{0.25, 0.25, 0.5, 0.5}},
		{FlipHorizontal, [4]float32{0.75, 0.25, -0.5, 0.5}},
		{FlipVertical, [4]float32{0.25, 0.75, 0.5, -0.5}},
		{FlipBoth, [4]float32{0.75, 0.75, -0.5, -0.5}},
	}
	for _, tt := range tests {
		b := newActiveBatch(t)
		if err := b.Draw(texA, Vec2{}, &DrawOptions{Source: &src, Flip: tt.flip}); err != nil {
			t.Fatalf("Draw: %v", err)
		}
		it := b.Batcher().Items()[0]
		for i := range tt.want {
			assertNear32(t, "UV", it.UV[i], tt.want[i])
		}
	}
}

func TestSpriteBatchFlipCoversSameTexels(t *testing.T) {
	src := Rect{X: 25, Y: 25, Width: 50, Height: 50}
	b := newActiveBatch(t)
	_ = b.Draw(texA, Vec2{}, &DrawOptions{Source: &src})
	_ = b.Draw(texA, Vec2{}, &DrawOptions{Source: &src, Flip: FlipHorizontal})
	items := b.Batcher().Items()

	// TL of the flipped quad samples what TR of the plain quad samples.
	u0, v0 := items[0].TexCoord(1)
	u1, v1 := items[1].TexCoord(0)
	assertNear32(t, "u", u1, u0)
	assertNear32(t, "v", v1, v0)
}

func TestSpriteBatchDrawDefaults(t *testing.T) {
	b := newActiveBatch(t)
	if err := b.Draw(texB, Vec2{X: 10, Y: 20}, nil); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	it := b.Batcher().Items()[0]
	if it.Scale != [2]float32{64, 32} {
		t.Errorf("Scale = %v, want texture size", it.Scale)
	}
	if it.Location != [3]float32{10, 20, 0} {
		t.Errorf("Location = %v", it.Location)
	}
	if it.UV != [4]float32{0, 0, 1, 1} {
		t.Errorf("UV = %v, want full texture", it.UV)
	}
	if it.Color != [4]float32{1, 1, 1, 1} {
		t.Errorf("Color = %v, want white", it.Color)
	}
	if it.Origin != [2]float32{} || it.Rotation != 0 {
		t.Errorf("Origin = %v, Rotation = %v", it.Origin, it.Rotation)
	}
}

func TestSpriteBatchDrawScalesSourceAndOrigin(t *testing.T) {
	b := newActiveBatch(t)
	src := Rect{X: 0, Y: 0, Width: 10, Height: 20}
	err := b.Draw(texA, Vec2{X: 50, Y: 50}, &DrawOptions{
		Source:   &src,
		Scale:    Vec2{2, 3},
		Origin:   Vec2{5, 10},
		Rotation: math.Pi,
		Depth:    4,
		Color:    Color{R: 1, G: 0.5, B: 0.25, A: 0.5},
	})
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	it := b.Batcher().Items()[0]
	if it.Scale != [2]float32{20, 60} {
		t.Errorf("Scale = %v, want [20 60]", it.Scale)
	}
	if it.Origin != [2]float32{10, 30} {
		t.Errorf("Origin = %v, want [10 30]", it.Origin)
	}
	if it.Depth() != 4 {
		t.Errorf("Depth = %v, want 4", it.Depth())
	}
	assertNear32(t, "Rotation", it.Rotation, math.Pi)
	if it.Color != [4]float32{1, 0.5, 0.25, 0.5} {
		t.Errorf("Color = %v", it.Color)
	}
	// Rotating 180 degrees about the center keeps the quad centered on pos.
	x, y := it.Corner(0)
	assertNear32(t, "TL.x", x, 60)
	assertNear32(t, "TL.y", y, 80)
}

func TestSpriteBatchDrawDestKeepsOrigin(t *testing.T) {
	b := newActiveBatch(t)
	err := b.DrawDest(texA, Rect{X: 1, Y: 2, Width: 300, Height: 40}, &DrawOptions{Origin: Vec2{150, 20}})
	if err != nil {
		t.Fatalf("DrawDest: %v", err)
	}
	it := b.Batcher().Items()[0]
	if it.Scale != [2]float32{300, 40} {
		t.Errorf("Scale = %v", it.Scale)
	}
	if it.Origin != [2]float32{150, 20} {
		t.Errorf("Origin = %v, want unscaled [150 20]", it.Origin)
	}
	if it.UV != [4]float32{0, 0, 1, 1} {
		t.Errorf("UV = %v", it.UV)
	}
}

func TestSpriteBatchBeginResets(t *testing.T) {
	b := newActiveBatch(t)
	b.SetViewMatrix(Translation(5, 5))
	_ = b.IntersectScissor(Rect{Width: 10, Height: 10})
	_ = b.Draw(texA, Vec2{}, nil)
	_ = b.End()

	// Never built: Begin still drops the items.
	if err := b.Begin(); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if b.Batcher().Len() != 0 {
		t.Errorf("Len = %d after Begin, want 0", b.Batcher().Len())
	}
	if !b.ViewMatrix().IsIdentity() {
		t.Errorf("ViewMatrix = %v after Begin, want Identity", b.ViewMatrix())
	}
	if b.Scissor() != UnboundedScissor() {
		t.Errorf("Scissor = %+v after Begin, want unbounded", b.Scissor())
	}
}

func TestSpriteBatchStats(t *testing.T) {
	b := newActiveBatch(t)
	_ = b.Draw(texA, Vec2{}, nil)
	_ = b.Draw(texA, Vec2{}, nil)
	_ = b.Draw(texB, Vec2{}, nil)
	_ = b.Draw(texA, Vec2{}, nil)
	_ = b.End()
	if err := b.Build(SortNone); err != nil {
		t.Fatalf("Build: %v", err)
	}
	s := b.Stats()
	if s.Items != 4 || s.Slices != 3 {
		t.Errorf("Stats = %+v, want 4 items in 3 slices", s)
	}
	assertNear(t, "ItemsPerSlice", s.ItemsPerSlice(), 4.0/3.0)
	if (FrameStats{}).ItemsPerSlice() != 0 {
		t.Error("empty ItemsPerSlice != 0")
	}
}

func TestSpriteBatchInitialCapacity(t *testing.T) {
	b := NewSpriteBatch(texWhite, &BatchConfig{InitialCapacity: 10})
	if got := b.Batcher().Cap(); got < 10 {
		t.Errorf("Cap = %d, want >= 10", got)
	}
	d := NewSpriteBatch(texWhite, nil)
	if got := d.Batcher().Cap(); got < defaultItemCapacity {
		t.Errorf("default Cap = %d, want >= %d", got, defaultItemCapacity)
	}
	if d.WhiteTexture() != texWhite {
		t.Error("WhiteTexture mismatch")
	}
}

func BenchmarkSpriteBatchFrame(b *testing.B) {
	sb := NewSpriteBatch(texWhite, &BatchConfig{InitialCapacity: 10000})
	texs := []fakeTexture{texA, texB}
	b.ReportAllocs()
	for b.Loop() {
		_ = sb.Begin()
		for i := 0; i < 10000; i++ {
			_ = sb.Draw(texs[(i/100)%2], Vec2{X: float64(i % 640), Y: float64(i % 480)}, &DrawOptions{
				Rotation: float64(i) * 0.01,
				Depth:    float64(i % 8),
			})
		}
		_ = sb.End()
		_ = sb.Build(SortBackToFront)
	}
}
