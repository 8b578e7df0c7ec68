package ecs

import (
	"errors"
	"testing"

	"github.com/phanxgames/birch"

	"github.com/yohamta/donburi"
)

type fakeTexture struct {
	id   int
	w, h int
}

func (t *fakeTexture) Size() (int, int)           { return t.w, t.h }
func (t *fakeTexture) Format() birch.PixelFormat { return birch.FormatRGBA8 }

var (
	white = &fakeTexture{id: 0, w: 1, h: 1}
	texA  = &fakeTexture{id: 1, w: 64, h: 64}
)

var sprites = NewSpriteComponent[*fakeTexture]()

func newEntity(world donburi.World, tr TransformData, sp SpriteData[*fakeTexture]) {
	e := world.Create(Transform, sprites)
	entry := world.Entry(e)
	Transform.SetValue(entry, tr)
	sprites.SetValue(entry, sp)
}

func TestDrawSystemSubmitsEntities(t *testing.T) {
	world := donburi.NewWorld()
	newEntity(world, TransformData{Position: birch.Vec2{X: 10, Y: 20}}, SpriteData[*fakeTexture]{Texture: texA})
	newEntity(world, TransformData{Position: birch.Vec2{X: 30, Y: 40}, Scale: birch.Vec2{X: 2, Y: 2}}, SpriteData[*fakeTexture]{
		Texture: texA,
		Source:  birch.Rect{X: 0, Y: 0, Width: 16, Height: 16},
	})

	system := NewDrawSystem(sprites)
	if got := system.Count(world); got != 2 {
		t.Fatalf("Count = %d, want 2", got)
	}

	batch := birch.NewSpriteBatch(white, nil)
	if err := batch.Begin(); err != nil {
		t.Fatal(err)
	}
	if err := system.Draw(world, batch); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if err := batch.End(); err != nil {
		t.Fatal(err)
	}

	items := batch.Batcher().Items()
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	sizes := map[[2]float32]bool{}
	for _, it := range items {
		sizes[it.Scale] = true
	}
	if !sizes[[2]float32{64, 64}] || !sizes[[2]float32{32, 32}] {
		t.Errorf("item sizes = %v, want 64x64 and 32x32", sizes)
	}
}

func TestDrawSystemSkipsHidden(t *testing.T) {
	world := donburi.NewWorld()
	newEntity(world, TransformData{}, SpriteData[*fakeTexture]{Texture: texA, Hidden: true})
	newEntity(world, TransformData{}, SpriteData[*fakeTexture]{Texture: texA})

	batch := birch.NewSpriteBatch(white, nil)
	_ = batch.Begin()
	if err := NewDrawSystem(sprites).Draw(world, batch); err != nil {
		t.Fatal(err)
	}
	if got := batch.Batcher().Len(); got != 1 {
		t.Errorf("Len = %d, want 1", got)
	}
}

func TestDrawSystemReturnsDrawError(t *testing.T) {
	world := donburi.NewWorld()
	newEntity(world, TransformData{}, SpriteData[*fakeTexture]{Texture: nil})

	batch := birch.NewSpriteBatch(white, nil)
	_ = batch.Begin()
	err := NewDrawSystem(sprites).Draw(world, batch)
	if !errors.Is(err, birch.ErrInvalidArgument) {
		t.Errorf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestDrawSystemBeforeBegin(t *testing.T) {
	world := donburi.NewWorld()
	newEntity(world, TransformData{}, SpriteData[*fakeTexture]{Texture: texA})

	batch := birch.NewSpriteBatch(white, nil)
	err := NewDrawSystem(sprites).Draw(world, batch)
	if !errors.Is(err, birch.ErrInvalidState) {
		t.Errorf("err = %v, want ErrInvalidState", err)
	}
}

func TestPublishStats(t *testing.T) {
	world := donburi.NewWorld()
	newEntity(world, TransformData{}, SpriteData[*fakeTexture]{Texture: texA})
	newEntity(world, TransformData{}, SpriteData[*fakeTexture]{Texture: texA})

	var received []birch.FrameStats
	StatsEventType.Subscribe(world, func(w donburi.World, s birch.FrameStats) {
		received = append(received, s)
	})

	batch := birch.NewSpriteBatch(white, nil)
	_ = batch.Begin()
	_ = NewDrawSystem(sprites).Draw(world, batch)
	_ = batch.End()
	if err := batch.Build(birch.SortNone); err != nil {
		t.Fatal(err)
	}
	PublishStats(world, batch)

	// Events are queued until processed.
	if len(received) != 0 {
		t.Fatalf("received %d events before ProcessEvents", len(received))
	}
	StatsEventType.ProcessEvents(world)

	if len(received) != 1 {
		t.Fatalf("received %d events, want 1", len(received))
	}
	if received[0].Items != 2 || received[0].Slices != 1 {
		t.Errorf("stats = %+v, want 2 items in 1 slice", received[0])
	}
}
