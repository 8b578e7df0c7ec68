package birch

import (
	"encoding/json"
	"fmt"
)

// Region is a named sub-rectangle of an atlas page, ready to pass to
// SpriteBatch.DrawRegion.
type Region[T Texture] struct {
	Texture T
	// Source is the packed rectangle within the page, in pixels.
	Source Rect
	// Offset is the trim offset: where Source sits inside the untrimmed
	// sprite.
	Offset Vec2
	// Original is the untrimmed sprite size as authored.
	Original Vec2
}

// Atlas holds one or more atlas pages and a map of named regions.
type Atlas[T Texture] struct {
	// Pages contains the atlas page textures indexed by page number.
	Pages []T

	// Placeholder is returned by Region for unknown names, typically a 1x1
	// magenta texture (see MagentaTexture). The zero value makes missing
	// regions fail at draw time instead.
	Placeholder T

	regions map[string]Region[T]
}

// Region returns the region for the given name. If the name doesn't exist,
// it logs a warning in debug mode and returns a 1x1 region on Placeholder.
func (a *Atlas[T]) Region(name string) Region[T] {
	if r, ok := a.regions[name]; ok {
		return r
	}
	debugf("atlas region %q not found, using placeholder", name)
	return Region[T]{
		Texture:  a.Placeholder,
		Source:   Rect{Width: 1, Height: 1},
		Original: Vec2{1, 1},
	}
}

// Lookup returns the region for name and whether it exists.
func (a *Atlas[T]) Lookup(name string) (Region[T], bool) {
	r, ok := a.regions[name]
	return r, ok
}

// Len returns the number of named regions.
func (a *Atlas[T]) Len() int {
	return len(a.regions)
}

// LoadAtlas parses TexturePacker JSON data and associates the given page
// textures. Supports both the hash format (single "frames" object) and the
// array format ("textures" array with per-page frame lists). Frames stored
// rotated are rejected.
func LoadAtlas[T Texture](jsonData []byte, pages []T) (*Atlas[T], error) {
	var probe struct {
		Frames   json.RawMessage `json:"frames"`
		Textures json.RawMessage `json:"textures"`
	}
	if err := json.Unmarshal(jsonData, &probe); err != nil {
		return nil, fmt.Errorf("birch: failed to parse atlas JSON: %w", err)
	}

	atlas := &Atlas[T]{
		Pages:   pages,
		regions: make(map[string]Region[T]),
	}

	var err error
	switch {
	case probe.Textures != nil:
		err = parseArrayFormat(probe.Textures, atlas)
	case probe.Frames != nil:
		err = parseHashFrames(probe.Frames, 0, atlas)
	default:
		err = fmt.Errorf("birch: atlas JSON has neither \"frames\" nor \"textures\" key")
	}
	if err != nil {
		return nil, err
	}
	return atlas, nil
}

// --- JSON structure types ---

type jsonRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type jsonSize struct {
	W int `json:"w"`
	H int `json:"h"`
}

type jsonFrame struct {
	Frame            jsonRect `json:"frame"`
	Rotated          bool     `json:"rotated"`
	Trimmed          bool     `json:"trimmed"`
	SpriteSourceSize jsonRect `json:"spriteSourceSize"`
	SourceSize       jsonSize `json:"sourceSize"`
}

type jsonTexturePage struct {
	Image  string               `json:"image"`
	Frames map[string]jsonFrame `json:"frames"`
}

// parseHashFrames parses the hash format: {"name": {frame...}, ...}
func parseHashFrames[T Texture](raw json.RawMessage, page int, atlas *Atlas[T]) error {
	var frames map[string]jsonFrame
	if err := json.Unmarshal(raw, &frames); err != nil {
		return fmt.Errorf("birch: failed to parse atlas frames: %w", err)
	}
	for name, f := range frames {
		if err := atlas.addFrame(name, f, page); err != nil {
			return err
		}
	}
	return nil
}

// parseArrayFormat parses the array format: [{"image":"...", "frames":{...}}, ...]
func parseArrayFormat[T Texture](raw json.RawMessage, atlas *Atlas[T]) error {
	var textures []jsonTexturePage
	if err := json.Unmarshal(raw, &textures); err != nil {
		return fmt.Errorf("birch: failed to parse atlas textures array: %w", err)
	}
	for i, tex := range textures {
		for name, f := range tex.Frames {
			if err := atlas.addFrame(name, f, i); err != nil {
				return err
			}
		}
	}
	return nil
}

func (a *Atlas[T]) addFrame(name string, f jsonFrame, page int) error {
	if page >= len(a.Pages) {
		return fmt.Errorf("%w: atlas frame %q on page %d, only %d pages given", ErrInvalidArgument, name, page, len(a.Pages))
	}
	if f.Rotated {
		return fmt.Errorf("%w: atlas frame %q is rotated", ErrInvalidArgument, name)
	}
	original := Vec2{float64(f.SourceSize.W), float64(f.SourceSize.H)}
	if original.X == 0 && original.Y == 0 {
		original = Vec2{float64(f.Frame.W), float64(f.Frame.H)}
	}
	a.regions[name] = Region[T]{
		Texture: a.Pages[page],
		Source: Rect{
			X:      float64(f.Frame.X),
			Y:      float64(f.Frame.Y),
			Width:  float64(f.Frame.W),
			Height: float64(f.Frame.H),
		},
		Offset:   Vec2{float64(f.SpriteSourceSize.X), float64(f.SpriteSourceSize.Y)},
		Original: original,
	}
	return nil
}

// DrawRegion draws an atlas region at pos. opts.Origin is in untrimmed
// sprite pixels; the trim offset is folded in so trimmed and untrimmed
// frames line up. opts.Source is ignored.
func (b *SpriteBatch[T]) DrawRegion(r Region[T], pos Vec2, opts *DrawOptions) error {
	var o DrawOptions
	if opts != nil {
		o = *opts
	}
	o.Source = &r.Source
	o.Origin.X -= r.Offset.X
	o.Origin.Y -= r.Offset.Y
	return b.Draw(r.Texture, pos, &o)
}
