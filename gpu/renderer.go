package gpu

import (
	_ "embed"
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/phanxgames/birch"
)

//go:embed assets/sprite.wgsl
var spriteShaderSource string

// globalsSize is the byte size of the Globals uniform: two matrix rows and
// the target size, each a vec4<f32>.
const globalsSize = 48

// Renderer draws birch batches with one instanced draw call per slice.
// Device calls are serialized by an internal mutex.
type Renderer struct {
	mu       *sync.Mutex
	device   *wgpu.Device
	queue    *wgpu.Queue
	cfg      Config
	released bool

	pipeline      *wgpu.RenderPipeline
	itemLayout    *wgpu.BindGroupLayout
	textureLayout *wgpu.BindGroupLayout
	sampler       *wgpu.Sampler

	globals   *wgpu.Buffer
	items     *wgpu.Buffer
	itemCap   int
	itemGroup *wgpu.BindGroup

	textures map[uint32]*textureEntry
	nextID   uint32
	white    Texture

	packed    []byte
	drawCalls int
}

// NewRenderer creates the pipeline, sampler, uniform and instance buffers
// on device. It also registers the 1x1 white texture used for shapes.
func NewRenderer(device *wgpu.Device, queue *wgpu.Queue, opts ...Option) (*Renderer, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	r := &Renderer{
		mu:       &sync.Mutex{},
		device:   device,
		queue:    queue,
		cfg:      cfg,
		textures: make(map[uint32]*textureEntry),
	}
	if err := r.init(); err != nil {
		r.Release()
		return nil, err
	}
	white, err := r.NewTexture(1, 1, birch.FormatRGBA8, []byte{255, 255, 255, 255})
	if err != nil {
		r.Release()
		return nil, err
	}
	r.white = white
	return r, nil
}

func (r *Renderer) init() error {
	label := r.cfg.Label
	module, err := r.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: label + " Sprite Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: spriteShaderSource,
		},
	})
	if err != nil {
		return fmt.Errorf("birch: create shader module: %w", err)
	}
	defer module.Release()

	r.itemLayout, err = r.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: label + " Item Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageVertex,
				Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeReadOnlyStorage},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("birch: create item bind group layout: %w", err)
	}

	r.textureLayout, err = r.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: label + " Texture Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Sampler:    wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("birch: create texture bind group layout: %w", err)
	}

	layout, err := r.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            label + " Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{r.itemLayout, r.textureLayout},
	})
	if err != nil {
		return fmt.Errorf("birch: create pipeline layout: %w", err)
	}
	defer layout.Release()

	blend := r.cfg.Blend
	r.pipeline, err = r.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  label + " Sprite Pipeline",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    r.cfg.TargetFormat,
				Blend:     &blend,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleStrip,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("birch: create render pipeline: %w", err)
	}

	r.sampler, err = r.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         label + " Sampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     r.cfg.Filter,
		MinFilter:     r.cfg.Filter,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return fmt.Errorf("birch: create sampler: %w", err)
	}

	r.globals, err = r.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label + " Globals Buffer",
		Size:  globalsSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("birch: create globals buffer: %w", err)
	}

	return r.growItems(r.cfg.InitialCapacity)
}

// growItems replaces the instance buffer with one holding at least need
// items. Capacities follow birch.GrowCapacity so the GPU buffer reallocates
// exactly when the item store would.
func (r *Renderer) growItems(need int) error {
	if need <= r.itemCap && r.items != nil {
		return nil
	}
	capacity := need
	if r.items != nil {
		capacity = birch.GrowCapacity(r.itemCap, need)
	}
	buf, err := r.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: r.cfg.Label + " Item Buffer",
		Size:  uint64(capacity * birch.ItemSize),
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("birch: create item buffer for %d items: %w", capacity, err)
	}
	group, err := r.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  r.cfg.Label + " Item Bind Group",
		Layout: r.itemLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: r.globals, Offset: 0, Size: wgpu.WholeSize},
			{Binding: 1, Buffer: buf, Offset: 0, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		buf.Release()
		return fmt.Errorf("birch: create item bind group: %w", err)
	}

	if r.itemGroup != nil {
		r.itemGroup.Release()
	}
	if r.items != nil {
		r.items.Release()
	}
	r.items, r.itemGroup, r.itemCap = buf, group, capacity
	return nil
}

// WhiteTexture returns the renderer's 1x1 white texture.
func (r *Renderer) WhiteTexture() Texture {
	return r.white
}

// NewSpriteBatch creates a batch whose shapes draw with the renderer's white
// texture.
func (r *Renderer) NewSpriteBatch(cfg *birch.BatchConfig) *birch.SpriteBatch[Texture] {
	return birch.NewSpriteBatch(r.white, cfg)
}

// Capacity returns the instance buffer size in items.
func (r *Renderer) Capacity() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.itemCap
}

// DrawCalls returns the number of instanced draws recorded by the last
// Render.
func (r *Renderer) DrawCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.drawCalls
}

// Render builds batch, uploads its items and records the draws into pass.
// width and height are the render target size in pixels. Every slice
// texture is resolved before anything is recorded, so an unknown texture
// leaves the pass untouched.
func (r *Renderer) Render(pass *wgpu.RenderPassEncoder, batch *birch.SpriteBatch[Texture], width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: target size %dx%d", birch.ErrInvalidArgument, width, height)
	}
	if err := batch.Build(r.cfg.SortMode); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.released {
		return fmt.Errorf("%w: renderer released", birch.ErrInvalidState)
	}
	r.drawCalls = 0

	bt := batch.Batcher()
	slices := bt.Slices()
	if len(slices) == 0 {
		return nil
	}
	for _, s := range slices {
		if _, err := r.lookup(bt.SliceTexture(s)); err != nil {
			return err
		}
	}

	items := bt.Items()
	if err := r.growItems(len(items)); err != nil {
		return err
	}
	if err := r.uploadFrame(r.queue, batch.ViewMatrix(), items, width, height); err != nil {
		return err
	}

	pass.SetPipeline(r.pipeline)
	pass.SetBindGroup(0, r.itemGroup, nil)
	for _, s := range slices {
		entry := r.textures[bt.SliceTexture(s).id]
		pass.SetBindGroup(1, entry.bindGroup, nil)
		pass.Draw(4, uint32(s.Length), 0, uint32(s.Start))
		r.drawCalls++
	}
	return nil
}

// bufferWriter is the part of *wgpu.Queue the frame upload needs.
type bufferWriter interface {
	WriteBuffer(buffer *wgpu.Buffer, offset uint64, data []byte) error
}

// uploadFrame writes the globals uniform and the packed items. Render records
// no draws when it fails.
func (r *Renderer) uploadFrame(w bufferWriter, view birch.Affine, items []birch.Item, width, height int) error {
	r.packed = appendGlobals(r.packed[:0], view, width, height)
	if err := w.WriteBuffer(r.globals, 0, r.packed); err != nil {
		return fmt.Errorf("birch: write globals buffer: %w", err)
	}
	r.packed = birch.AppendItems(r.packed[:0], items)
	if err := w.WriteBuffer(r.items, 0, r.packed); err != nil {
		return fmt.Errorf("birch: write item buffer: %w", err)
	}
	return nil
}

// Release frees every GPU object owned by the renderer, including all
// registered textures. The renderer cannot be used afterwards.
func (r *Renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.released {
		return
	}
	r.released = true
	for id, entry := range r.textures {
		entry.release()
		delete(r.textures, id)
	}
	if r.itemGroup != nil {
		r.itemGroup.Release()
	}
	if r.items != nil {
		r.items.Release()
	}
	if r.globals != nil {
		r.globals.Release()
	}
	if r.sampler != nil {
		r.sampler.Release()
	}
	if r.pipeline != nil {
		r.pipeline.Release()
	}
	if r.textureLayout != nil {
		r.textureLayout.Release()
	}
	if r.itemLayout != nil {
		r.itemLayout.Release()
	}
}

// appendGlobals packs the Globals uniform: the view matrix rows (a, c, tx)
// and (b, d, ty), each padded to a vec4, then the target size.
func appendGlobals(dst []byte, view birch.Affine, width, height int) []byte {
	fs := [12]float32{
		float32(view[0]), float32(view[2]), float32(view[4]), 0,
		float32(view[1]), float32(view[3]), float32(view[5]), 0,
		float32(width), float32(height), 0, 0,
	}
	for _, f := range fs {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(f))
	}
	return dst
}
