package birch

import (
	"bytes"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// TTFGlyphs is a GlyphSource over an ebiten text/v2 face. Shaping and
// rasterization stay inside ebiten; TTFGlyphs only turns the laid-out glyph
// images into batch glyphs. Each distinct glyph image is its own batch key.
type TTFGlyphs struct {
	Face text.Face
	// LineSpacing is the distance between baselines. 0 uses the face
	// metrics.
	LineSpacing float64

	layout []text.Glyph
}

// NewTTFGlyphs wraps face.
func NewTTFGlyphs(face text.Face) *TTFGlyphs {
	return &TTFGlyphs{Face: face}
}

// LoadTTFGlyphs loads a TrueType or OpenType font from raw data at the given
// size.
func LoadTTFGlyphs(ttfData []byte, size float64) (*TTFGlyphs, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(ttfData))
	if err != nil {
		return nil, fmt.Errorf("birch: failed to parse TTF data: %w", err)
	}
	return NewTTFGlyphs(&text.GoTextFace{Source: source, Size: size}), nil
}

// LineHeight returns the effective line spacing.
func (g *TTFGlyphs) LineHeight() float64 {
	if g.LineSpacing > 0 {
		return g.LineSpacing
	}
	m := g.Face.Metrics()
	return m.HAscent + m.HDescent + m.HLineGap
}

// MeasureString returns the width and height of the laid-out text.
func (g *TTFGlyphs) MeasureString(s string) (width, height float64) {
	return text.Measure(s, g.Face, g.LineHeight())
}

// AppendGlyphs lays s out with text.AppendGlyphs and appends one glyph per
// visible image.
func (g *TTFGlyphs) AppendGlyphs(dst []Glyph[EbitenTexture], s string) []Glyph[EbitenTexture] {
	g.layout = text.AppendGlyphs(g.layout[:0], s, g.Face, &text.LayoutOptions{
		LineSpacing: g.LineHeight(),
	})
	for i := range g.layout {
		lg := &g.layout[i]
		if lg.Image == nil {
			continue
		}
		b := lg.Image.Bounds()
		dst = append(dst, Glyph[EbitenTexture]{
			Texture:  EbitenTexture{img: lg.Image},
			Source:   Rect{Width: float64(b.Dx()), Height: float64(b.Dy())},
			Position: Vec2{lg.X, lg.Y},
		})
	}
	return dst
}
