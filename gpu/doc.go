// Package gpu is the WebGPU render step for birch batches.
//
// A [Renderer] owns the sprite pipeline, one instance storage buffer and the
// textures registered through it. Each frame it packs the built batch items
// into the storage buffer with a single queue write, then records one
// instanced draw per slice: four triangle-strip vertices times the slice
// length, starting at the slice's first item. Scissors are applied per
// fragment in the shader.
//
//	r, err := gpu.NewRenderer(device, queue, gpu.WithTargetFormat(format))
//	hero, err := r.NewTexture(w, h, birch.FormatRGBA8, pixels)
//	batch := r.NewSpriteBatch(nil)
//
//	batch.Begin()
//	batch.Draw(hero, birch.Vec2{X: 10, Y: 10}, nil)
//	batch.End()
//	err = r.Render(pass, batch, width, height)
package gpu
