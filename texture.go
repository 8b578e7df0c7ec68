package birch

import "fmt"

// PixelFormat identifies the storage format of a texture.
type PixelFormat uint8

const (
	FormatR8      PixelFormat = iota // 8-bit single channel
	FormatR16                        // 16-bit single channel
	FormatBGRA8                      // 8 bits per channel, BGRA order
	FormatRGBAF32                    // 32-bit float per channel
	FormatRG8                        // 8-bit two channel
	FormatRG16                       // 16-bit two channel
	FormatRGBAI32                    // 32-bit signed integer per channel
	FormatRGBA8                      // 8 bits per channel, RGBA order
)

var pixelFormatNames = [...]string{
	FormatR8:      "R8",
	FormatR16:     "R16",
	FormatBGRA8:   "BGRA8",
	FormatRGBAF32: "RGBAF32",
	FormatRG8:     "RG8",
	FormatRG16:    "RG16",
	FormatRGBAI32: "RGBAI32",
	FormatRGBA8:   "RGBA8",
}

func (f PixelFormat) String() string {
	if int(f) < len(pixelFormatNames) {
		return pixelFormatNames[f]
	}
	return fmt.Sprintf("PixelFormat(%d)", uint8(f))
}

// BytesPerPixel returns the size of one texel, or 0 for unknown formats.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case FormatR8:
		return 1
	case FormatR16, FormatRG8:
		return 2
	case FormatBGRA8, FormatRG16, FormatRGBA8:
		return 4
	case FormatRGBAF32, FormatRGBAI32:
		return 16
	default:
		return 0
	}
}

// Texture is the capability a backend image must provide to be drawn by a
// SpriteBatch. Values are used directly as batch keys, so equality must
// reflect the underlying GPU resource: two values that compare equal are
// bound once, and the zero value means "no texture".
type Texture interface {
	comparable

	// Size returns the texture dimensions in pixels. Source rectangles are
	// normalized against it.
	Size() (width, height int)

	// Format returns the texel storage format.
	Format() PixelFormat
}
