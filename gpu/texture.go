package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/phanxgames/birch"
)

// Texture is a registration handle for a texture uploaded through a
// Renderer. Handles compare equal exactly when they name the same
// registration, which makes them birch batch keys.
type Texture struct {
	owner  *Renderer
	id     uint32
	width  int
	height int
	format birch.PixelFormat
}

// Size returns the texture size in pixels, or 0x0 for the zero handle.
func (t Texture) Size() (width, height int) { return t.width, t.height }

// Format returns the pixel format the texture was created with.
func (t Texture) Format() birch.PixelFormat { return t.format }

// textureEntry is the GPU side of a registration.
type textureEntry struct {
	texture   *wgpu.Texture
	view      *wgpu.TextureView
	bindGroup *wgpu.BindGroup
}

func (e *textureEntry) release() {
	if e.bindGroup != nil {
		e.bindGroup.Release()
	}
	if e.view != nil {
		e.view.Release()
	}
	if e.texture != nil {
		e.texture.Release()
	}
}

// wgpuFormat maps a birch pixel format to a filterable sampled texture
// format. Integer, 16-bit and 32-bit float formats cannot be sampled with a
// filtering sampler and are unsupported.
func wgpuFormat(f birch.PixelFormat) (wgpu.TextureFormat, error) {
	switch f {
	case birch.FormatR8:
		return wgpu.TextureFormatR8Unorm, nil
	case birch.FormatRG8:
		return wgpu.TextureFormatRG8Unorm, nil
	case birch.FormatRGBA8:
		return wgpu.TextureFormatRGBA8Unorm, nil
	case birch.FormatBGRA8:
		return wgpu.TextureFormatBGRA8Unorm, nil
	default:
		return wgpu.TextureFormatUndefined, fmt.Errorf("%w: pixel format %v", birch.ErrUnsupportedTexture, f)
	}
}

// validatePixels checks the upload size for a width x height texture.
func validatePixels(width, height int, format birch.PixelFormat, pixels []byte) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: texture size %dx%d", birch.ErrInvalidArgument, width, height)
	}
	want := width * height * format.BytesPerPixel()
	if len(pixels) != want {
		return fmt.Errorf("%w: %d pixel bytes for %dx%d %v, want %d",
			birch.ErrInvalidArgument, len(pixels), width, height, format, want)
	}
	return nil
}

// NewTexture uploads pixels (tightly packed rows) as a new texture and
// returns its handle.
func (r *Renderer) NewTexture(width, height int, format birch.PixelFormat, pixels []byte) (Texture, error) {
	wf, err := wgpuFormat(format)
	if err != nil {
		return Texture{}, err
	}
	if err := validatePixels(width, height, format, pixels); err != nil {
		return Texture{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.released {
		return Texture{}, fmt.Errorf("%w: renderer released", birch.ErrInvalidState)
	}

	size := wgpu.Extent3D{
		Width:              uint32(width),
		Height:             uint32(height),
		DepthOrArrayLayers: 1,
	}
	tex, err := r.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         r.cfg.Label + " Texture",
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension:     wgpu.TextureDimension2D,
		Size:          size,
		Format:        wf,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return Texture{}, fmt.Errorf("birch: create texture: %w", err)
	}
	entry := &textureEntry{texture: tex}

	err = r.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(width * format.BytesPerPixel()),
			RowsPerImage: uint32(height),
		},
		&size,
	)
	if err != nil {
		entry.release()
		return Texture{}, fmt.Errorf("birch: write texture: %w", err)
	}

	entry.view, err = tex.CreateView(nil)
	if err != nil {
		entry.release()
		return Texture{}, fmt.Errorf("birch: create texture view: %w", err)
	}
	entry.bindGroup, err = r.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  r.cfg.Label + " Texture Bind Group",
		Layout: r.textureLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: entry.view},
			{Binding: 1, Sampler: r.sampler},
		},
	})
	if err != nil {
		entry.release()
		return Texture{}, fmt.Errorf("birch: create texture bind group: %w", err)
	}

	r.nextID++
	t := Texture{owner: r, id: r.nextID, width: width, height: height, format: format}
	r.textures[t.id] = entry
	return t, nil
}

// ReleaseTexture frees the GPU resources of t. Batches that still reference
// t fail to render with ErrUnsupportedTexture.
func (r *Renderer) ReleaseTexture(t Texture) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, err := r.lookup(t)
	if err != nil {
		return err
	}
	entry.release()
	delete(r.textures, t.id)
	return nil
}

// lookup resolves a handle. Callers hold r.mu.
func (r *Renderer) lookup(t Texture) (*textureEntry, error) {
	if t.owner != r {
		return nil, fmt.Errorf("%w: texture registered on another renderer", birch.ErrUnsupportedTexture)
	}
	entry, ok := r.textures[t.id]
	if !ok {
		return nil, fmt.Errorf("%w: texture %d released", birch.ErrUnsupportedTexture, t.id)
	}
	return entry, nil
}
