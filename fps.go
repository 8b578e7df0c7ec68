package birch

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// fpsRefreshInterval is how often the overlay text is redrawn, in seconds.
const fpsRefreshInterval = 0.5

// FPSOverlay displays the current FPS, TPS and the batch counters of the
// previous frame. The text is rendered into its own image with
// ebitenutil.DebugPrint about twice per second; every frame it costs one
// item.
type FPSOverlay struct {
	img     *ebiten.Image
	tex     EbitenTexture
	elapsed float64
}

// NewFPSOverlay creates the overlay and its backing image.
func NewFPSOverlay() *FPSOverlay {
	// 160x48 is enough for three lines of debug text
	img := ebiten.NewImage(160, 48)
	return &FPSOverlay{
		img:     img,
		tex:     NewEbitenTexture(img),
		elapsed: fpsRefreshInterval,
	}
}

// Update refreshes the text when the interval has passed. stats are usually
// the Stats of the batch rendered in the previous frame.
func (o *FPSOverlay) Update(dt float64, stats FrameStats) {
	o.elapsed += dt
	if o.elapsed < fpsRefreshInterval {
		return
	}
	o.elapsed = 0

	o.img.Clear()
	// Semi-transparent background for readability
	o.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(o.img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nitems: %d slices: %d",
		ebiten.ActualFPS(), ebiten.ActualTPS(), stats.Items, stats.Slices))
}

// Draw submits the overlay at pos. Give it a depth in front of the scene
// when building with a depth sort.
func (o *FPSOverlay) Draw(b *SpriteBatch[EbitenTexture], pos Vec2, depth float64) error {
	return b.Draw(o.tex, pos, &DrawOptions{Depth: depth})
}
