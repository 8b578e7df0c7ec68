// Package birch is a CPU-side 2D sprite batching layer for [Ebitengine] and
// WebGPU renderers.
//
// Birch accepts per-frame draw calls (textured quads, glyphs, rectangles,
// dots and lines), groups them by texture, computes per-instance data and
// hands a render step an ordered list of slices: runs of consecutive items
// that share one texture and can be drawn with a single instanced call.
// It is not a scene graph and does no culling.
//
// # Quick start
//
//	batch := birch.NewEbitenSpriteBatch(nil)
//	var renderer birch.EbitenRenderer
//
//	func (g *Game) Draw(screen *ebiten.Image) {
//		batch.Begin()
//		batch.SetViewMatrix(g.camera.ViewMatrix())
//		batch.Draw(g.hero, birch.Vec2{X: 100, Y: 50}, nil)
//		batch.FillRect(birch.Rect{X: 10, Y: 10, Width: 80, Height: 4}, birch.ColorWhite, 0)
//		batch.End()
//		renderer.Render(screen, batch)
//	}
//
// # Layers
//
// [Batcher] is the generic core: a growable item store keyed by any
// comparable texture handle, a stable depth sort and the slice scan.
// [SpriteBatch] is the Begin/Draw/End front end that validates calls and
// turns positions, source rectangles, flips, rotation and scissors into
// [Item] records. Backends walk the built slice table: [EbitenRenderer]
// expands items into vertices for DrawTriangles32, and the birch/gpu
// module uploads the packed items to a storage buffer and issues one
// instanced draw per slice.
//
// Integration with the [Donburi] ECS lives in birch/ecs.
//
// [Ebitengine]: https://ebitengine.org
// [Donburi]: https://github.com/yohamta/donburi
package birch
