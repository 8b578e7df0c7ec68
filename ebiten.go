package birch

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// EbitenTexture adapts an *ebiten.Image to the Texture constraint. Two
// EbitenTextures are the same batch key exactly when they wrap the same
// image, so sub-images of one page must be shared rather than re-created per
// draw. Prefer one page texture plus DrawOptions.Source.
type EbitenTexture struct {
	img *ebiten.Image
}

// NewEbitenTexture wraps img.
func NewEbitenTexture(img *ebiten.Image) EbitenTexture {
	return EbitenTexture{img: img}
}

// Image returns the wrapped image.
func (t EbitenTexture) Image() *ebiten.Image { return t.img }

// Size returns the image size in pixels, or 0x0 for the zero texture.
func (t EbitenTexture) Size() (width, height int) {
	if t.img == nil {
		return 0, 0
	}
	b := t.img.Bounds()
	return b.Dx(), b.Dy()
}

// Format is always FormatRGBA8; ebiten images are premultiplied RGBA.
func (t EbitenTexture) Format() PixelFormat { return FormatRGBA8 }

// 1x1 singletons (no sync.Once, rendering is single-threaded)
var (
	whiteImage   *ebiten.Image
	magentaImage *ebiten.Image
)

// WhiteTexture returns the shared opaque 1x1 white texture, the one to pass
// to NewSpriteBatch for shape drawing.
func WhiteTexture() EbitenTexture {
	if whiteImage == nil {
		whiteImage = ebiten.NewImage(1, 1)
		whiteImage.Fill(color.White)
	}
	return EbitenTexture{img: whiteImage}
}

// MagentaTexture returns the shared 1x1 magenta texture used as the atlas
// placeholder for missing regions.
func MagentaTexture() EbitenTexture {
	if magentaImage == nil {
		magentaImage = ebiten.NewImage(1, 1)
		magentaImage.Fill(color.RGBA{R: 255, G: 0, B: 255, A: 255})
	}
	return EbitenTexture{img: magentaImage}
}

// NewEbitenSpriteBatch creates a SpriteBatch over ebiten images using
// WhiteTexture for shapes.
func NewEbitenSpriteBatch(cfg *BatchConfig) *SpriteBatch[EbitenTexture] {
	return NewSpriteBatch(WhiteTexture(), cfg)
}
