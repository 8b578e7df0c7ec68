package ecs

import (
	"github.com/phanxgames/birch"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
)

// TransformData places an entity in world space.
type TransformData struct {
	Position birch.Vec2
	Rotation float64
	// Scale multiplies the sprite size. The zero value means (1, 1).
	Scale birch.Vec2
}

// Transform is the component type shared by every DrawSystem.
var Transform = donburi.NewComponentType[TransformData]()

// SpriteData is the drawable part of an entity.
type SpriteData[T birch.Texture] struct {
	Texture T
	// Source is the sub-rectangle of Texture; the zero value draws all of it.
	Source birch.Rect
	Origin birch.Vec2
	Color  birch.Color
	Flip   birch.Flip
	Depth  float64
	Hidden bool
}

// NewSpriteComponent creates the sprite component type for texture type T.
// Create it once and share it between entity setup and the DrawSystem.
func NewSpriteComponent[T birch.Texture]() *donburi.ComponentType[SpriteData[T]] {
	return donburi.NewComponentType[SpriteData[T]]()
}

// StatsEventType carries the FrameStats of each rendered batch.
var StatsEventType = events.NewEventType[birch.FrameStats]()

// DrawSystem submits every entity with a Transform and a sprite component to
// a SpriteBatch. Entities are visited in query order, so use depth with a
// sorting render step when draw order matters.
type DrawSystem[T birch.Texture] struct {
	sprite *donburi.ComponentType[SpriteData[T]]
	query  *donburi.Query
}

// NewDrawSystem creates a system over the given sprite component type.
func NewDrawSystem[T birch.Texture](sprite *donburi.ComponentType[SpriteData[T]]) *DrawSystem[T] {
	return &DrawSystem[T]{
		sprite: sprite,
		query:  donburi.NewQuery(filter.Contains(Transform, sprite)),
	}
}

// Draw submits all visible entities. The batch must be active. The first
// draw error stops submission and is returned.
func (s *DrawSystem[T]) Draw(world donburi.World, batch *birch.SpriteBatch[T]) error {
	var err error
	var opts birch.DrawOptions
	s.query.Each(world, func(entry *donburi.Entry) {
		if err != nil {
			return
		}
		sp := s.sprite.Get(entry)
		if sp.Hidden {
			return
		}
		tr := Transform.Get(entry)
		opts = birch.DrawOptions{
			Color:    sp.Color,
			Origin:   sp.Origin,
			Scale:    tr.Scale,
			Rotation: tr.Rotation,
			Flip:     sp.Flip,
			Depth:    sp.Depth,
		}
		if sp.Source.Width != 0 || sp.Source.Height != 0 {
			opts.Source = &sp.Source
		}
		err = batch.Draw(sp.Texture, tr.Position, &opts)
	})
	return err
}

// Count returns the number of entities the system would visit.
func (s *DrawSystem[T]) Count(world donburi.World) int {
	return s.query.Count(world)
}

// PublishStats queues the stats of the last built batch as a StatsEventType
// event. Subscribers receive it on the next StatsEventType.ProcessEvents.
func PublishStats[T birch.Texture](world donburi.World, batch *birch.SpriteBatch[T]) {
	StatsEventType.Publish(world, batch.Stats())
}
