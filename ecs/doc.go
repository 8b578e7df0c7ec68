// Package ecs adapts birch batches to the [Donburi] entity component system.
//
// Entities carrying a [Transform] and a sprite component are submitted to a
// SpriteBatch by a [DrawSystem]. Batch statistics can be published to the
// world as typed events through [PublishStats].
//
// Usage:
//
//	sprites := ecs.NewSpriteComponent[birch.EbitenTexture]()
//	system := ecs.NewDrawSystem(sprites)
//
//	batch.Begin()
//	system.Draw(world, batch)
//	batch.End()
//	renderer.Render(screen, batch)
//	ecs.PublishStats(world, batch)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
