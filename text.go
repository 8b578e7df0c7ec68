package birch

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Glyph is one positioned glyph image produced by a GlyphSource.
type Glyph[T Texture] struct {
	Texture T
	// Source is the glyph rectangle within Texture, in pixels.
	Source Rect
	// Position is the top-left of the glyph relative to the text origin,
	// before scaling.
	Position Vec2
}

// GlyphSource lays out a string as glyph images. Rasterization and shaping
// are the source's business; the batch only draws the result.
type GlyphSource[T Texture] interface {
	// AppendGlyphs appends the visible glyphs of s to dst and returns the
	// extended slice. Lines are separated by '\n'.
	AppendGlyphs(dst []Glyph[T], s string) []Glyph[T]
}

// TextOptions are the optional parameters of DrawText.
type TextOptions struct {
	// Color tints every glyph. The zero value is treated as opaque white.
	Color Color
	// Scale multiplies glyph size and spacing. 0 means 1.
	Scale float64
	// Rotation in radians around Origin.
	Rotation float64
	// Origin is the pivot relative to the text origin, in unscaled units.
	Origin Vec2
	Depth  float64
}

// DrawText draws s at pos, one Draw per glyph. All glyphs share the text
// pivot so the string scales and rotates as a unit.
func (b *SpriteBatch[T]) DrawText(src GlyphSource[T], s string, pos Vec2, opts *TextOptions) error {
	if !b.active {
		return fmt.Errorf("%w: Draw before Begin", ErrInvalidState)
	}
	var o TextOptions
	if opts != nil {
		o = *opts
	}
	scale := o.Scale
	if scale == 0 {
		scale = 1
	}

	b.glyphs = src.AppendGlyphs(b.glyphs[:0], s)
	var dopts DrawOptions
	for i := range b.glyphs {
		g := &b.glyphs[i]
		dopts = DrawOptions{
			Source:   &g.Source,
			Color:    o.Color,
			Origin:   Vec2{o.Origin.X - g.Position.X, o.Origin.Y - g.Position.Y},
			Scale:    Vec2{scale, scale},
			Rotation: o.Rotation,
			Depth:    o.Depth,
		}
		if err := b.Draw(g.Texture, pos, &dopts); err != nil {
			return err
		}
	}
	return nil
}

// --- glyph (internal) ---

type glyph struct {
	id       rune
	x, y     uint16
	width    uint16
	height   uint16
	xOffset  int16
	yOffset  int16
	xAdvance int16
	page     uint16
}

// --- BitmapFont ---

const asciiGlyphCount = 128

// BitmapFont lays out text from pre-rasterized glyph pages in BMFont text
// format. It implements GlyphSource.
type BitmapFont[T Texture] struct {
	// Pages are the glyph page textures indexed by the .fnt page id.
	Pages []T

	lineHeight float64
	base       float64

	asciiGlyphs [asciiGlyphCount]glyph // fixed array for ASCII, zero-alloc lookup
	asciiSet    [asciiGlyphCount]bool  // which ASCII entries are populated
	extGlyphs   map[rune]*glyph        // extended Unicode (pointer avoids per-lookup alloc)

	kernings map[[2]rune]int16
}

// AppendGlyphs lays out s left-aligned with kerning. Glyphs with no image
// (spaces) advance the cursor but are not appended. Unknown runes are
// skipped.
func (f *BitmapFont[T]) AppendGlyphs(dst []Glyph[T], s string) []Glyph[T] {
	var cursorX, cursorY float64
	var prevRune rune
	var hasPrev bool

	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size

		if r == '\n' {
			cursorX = 0
			cursorY += f.lineHeight
			hasPrev = false
			continue
		}

		g := f.glyph(r)
		if g == nil {
			debugf("bitmap font has no glyph for %q", r)
			hasPrev = false
			continue
		}

		if hasPrev {
			cursorX += float64(f.kern(prevRune, r))
		}
		if g.width > 0 && g.height > 0 && int(g.page) < len(f.Pages) {
			dst = append(dst, Glyph[T]{
				Texture: f.Pages[g.page],
				Source: Rect{
					X:      float64(g.x),
					Y:      float64(g.y),
					Width:  float64(g.width),
					Height: float64(g.height),
				},
				Position: Vec2{cursorX + float64(g.xOffset), cursorY + float64(g.yOffset)},
			})
		}
		cursorX += float64(g.xAdvance)
		prevRune = r
		hasPrev = true
	}
	return dst
}

// MeasureString returns the width and height of the rendered text.
func (f *BitmapFont[T]) MeasureString(s string) (width, height float64) {
	var maxW float64
	var cursorX float64
	var prevRune rune
	var hasPrev bool
	lines := 1

	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size

		if r == '\n' {
			if cursorX > maxW {
				maxW = cursorX
			}
			cursorX = 0
			lines++
			hasPrev = false
			continue
		}

		g := f.glyph(r)
		if g == nil {
			hasPrev = false
			continue
		}

		if hasPrev {
			cursorX += float64(f.kern(prevRune, r))
		}
		cursorX += float64(g.xAdvance)
		prevRune = r
		hasPrev = true
	}

	if cursorX > maxW {
		maxW = cursorX
	}
	return maxW, float64(lines) * f.lineHeight
}

// LineHeight returns the vertical distance between baselines.
func (f *BitmapFont[T]) LineHeight() float64 {
	return f.lineHeight
}

// Base returns the distance from the top of a line to the baseline.
func (f *BitmapFont[T]) Base() float64 {
	return f.base
}

// glyph returns the glyph for the given rune, or nil if not found.
func (f *BitmapFont[T]) glyph(r rune) *glyph {
	if r >= 0 && r < asciiGlyphCount {
		if f.asciiSet[r] {
			return &f.asciiGlyphs[r]
		}
		return nil
	}
	if g, ok := f.extGlyphs[r]; ok {
		return g
	}
	return nil
}

// kern returns the kerning amount for the given rune pair.
func (f *BitmapFont[T]) kern(first, second rune) int16 {
	if f.kernings == nil {
		return 0
	}
	return f.kernings[[2]rune{first, second}]
}

// LoadBitmapFont parses BMFont .fnt text-format data. pages are the glyph
// page textures indexed by the page ids used in the file.
func LoadBitmapFont[T Texture](fntData []byte, pages []T) (*BitmapFont[T], error) {
	f := &BitmapFont[T]{
		Pages: pages,
	}

	scanner := bufio.NewScanner(bytes.NewReader(fntData))
	var charCount int

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tag, rest := splitTag(line)
		fields := parseFields(rest)

		switch tag {
		case "common":
			if v, ok := fields["lineHeight"]; ok {
				f.lineHeight, _ = strconv.ParseFloat(v, 64)
			}
			if v, ok := fields["base"]; ok {
				f.base, _ = strconv.ParseFloat(v, 64)
			}

		case "char":
			charCount++
			g := glyph{
				id:       rune(fieldInt(fields, "id")),
				x:        uint16(fieldInt(fields, "x")),
				y:        uint16(fieldInt(fields, "y")),
				width:    uint16(fieldInt(fields, "width")),
				height:   uint16(fieldInt(fields, "height")),
				xOffset:  int16(fieldInt(fields, "xoffset")),
				yOffset:  int16(fieldInt(fields, "yoffset")),
				xAdvance: int16(fieldInt(fields, "xadvance")),
				page:     uint16(fieldInt(fields, "page")),
			}
			if int(g.page) >= len(pages) {
				return nil, fmt.Errorf("%w: .fnt char %d on page %d, only %d pages given",
					ErrInvalidArgument, g.id, g.page, len(pages))
			}

			if g.id >= 0 && g.id < asciiGlyphCount {
				f.asciiGlyphs[g.id] = g
				f.asciiSet[g.id] = true
			} else {
				if f.extGlyphs == nil {
					f.extGlyphs = make(map[rune]*glyph)
				}
				f.extGlyphs[g.id] = &g
			}

		case "kerning":
			if f.kernings == nil {
				f.kernings = make(map[[2]rune]int16)
			}
			first := rune(fieldInt(fields, "first"))
			second := rune(fieldInt(fields, "second"))
			f.kernings[[2]rune{first, second}] = int16(fieldInt(fields, "amount"))
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("birch: error reading .fnt data: %w", err)
	}

	if f.lineHeight == 0 {
		return nil, fmt.Errorf("birch: .fnt data missing common lineHeight")
	}
	if charCount == 0 {
		return nil, fmt.Errorf("birch: .fnt data has no char definitions")
	}

	return f, nil
}

// fieldInt returns the integer value of key, or 0 if absent or malformed.
func fieldInt(fields map[string]string, key string) int {
	v, ok := fields[key]
	if !ok {
		return 0
	}
	n, _ := strconv.Atoi(v)
	return n
}

// splitTag splits a BMFont line into its tag and the rest of the line.
func splitTag(line string) (string, string) {
	idx := strings.IndexByte(line, ' ')
	if idx == -1 {
		return line, ""
	}
	return line[:idx], line[idx+1:]
}

// parseFields parses "key=value key=value ..." into a map.
func parseFields(s string) map[string]string {
	fields := make(map[string]string)
	for _, part := range strings.Fields(s) {
		eq := strings.IndexByte(part, '=')
		if eq == -1 {
			continue
		}
		key := part[:eq]
		val := part[eq+1:]
		// Strip quotes from values like face="Arial"
		if len(val) >= 2 && val[0] == '"' && val[len(val)-1] == '"' {
			val = val[1 : len(val)-1]
		}
		fields[key] = val
	}
	return fields
}
