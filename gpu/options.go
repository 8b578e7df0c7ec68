package gpu

import (
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/phanxgames/birch"
)

// Config holds the Renderer settings. Build one with Options.
type Config struct {
	// InitialCapacity is the number of items the instance buffer holds
	// before it must grow.
	InitialCapacity int
	// TargetFormat is the color attachment format of the render pass.
	TargetFormat wgpu.TextureFormat
	// Filter is the sampler min/mag filter.
	Filter wgpu.FilterMode
	// Blend is the color target blend state.
	Blend wgpu.BlendState
	// SortMode is passed to SpriteBatch.Build.
	SortMode birch.SortMode
	// Label prefixes every GPU object label.
	Label string
}

// Option is a functional option applied to a Config by NewRenderer.
type Option func(*Config)

// defaultBlend is straight-alpha source-over.
var defaultBlend = wgpu.BlendState{
	Color: wgpu.BlendComponent{
		Operation: wgpu.BlendOperationAdd,
		SrcFactor: wgpu.BlendFactorSrcAlpha,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
	},
	Alpha: wgpu.BlendComponent{
		Operation: wgpu.BlendOperationAdd,
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
	},
}

func defaultConfig() Config {
	return Config{
		InitialCapacity: 1024,
		TargetFormat:    wgpu.TextureFormatBGRA8Unorm,
		Filter:          wgpu.FilterModeNearest,
		Blend:           defaultBlend,
		SortMode:        birch.SortNone,
		Label:           "birch",
	}
}

// WithInitialCapacity sets the initial instance buffer size in items.
func WithInitialCapacity(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.InitialCapacity = n
		}
	}
}

// WithTargetFormat sets the color attachment format the pipeline renders to.
func WithTargetFormat(format wgpu.TextureFormat) Option {
	return func(c *Config) {
		c.TargetFormat = format
	}
}

// WithFilter sets the sampler filter (e.g. wgpu.FilterModeLinear).
func WithFilter(filter wgpu.FilterMode) Option {
	return func(c *Config) {
		c.Filter = filter
	}
}

// WithBlendState replaces the default straight-alpha blend state.
func WithBlendState(blend wgpu.BlendState) Option {
	return func(c *Config) {
		c.Blend = blend
	}
}

// WithSortMode sets the depth sort applied when building each batch.
func WithSortMode(mode birch.SortMode) Option {
	return func(c *Config) {
		c.SortMode = mode
	}
}

// WithLabel sets the prefix of GPU object labels.
func WithLabel(label string) Option {
	return func(c *Config) {
		c.Label = label
	}
}
