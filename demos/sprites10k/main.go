// sprites10k spawns 10,000 sprites that rotate, scale, fade and bounce
// around the screen simultaneously. A stress test for the batching path.
//
// Sprites alternate between two textures in submission order, which would
// produce one slice per sprite. Each texture has its own depth, so the
// back-to-front sort regroups them into two slices.
package main

import (
	"image"
	"image/color"
	"log"
	"math"
	"math/rand/v2"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/birch"
)

const (
	screenW    = 1280
	screenH    = 720
	count      = 10_000
	spriteSize = 128
)

type sprite struct {
	tex        birch.EbitenTexture
	depth      float64
	pos        birch.Vec2
	rotation   float64
	color      birch.Color
	dx, dy     float64
	rotSpeed   float64
	scaleSpeed float64
	scaleBase  float64
	scaleAmp   float64
	alphaSpeed float64
	phase      float64
	scale      float64
}

type demo struct {
	batch    *birch.SpriteBatch[birch.EbitenTexture]
	renderer birch.EbitenRenderer
	fps      *birch.FPSOverlay
	sprites  []sprite
	frame    float64
}

// blob draws a filled circle with a darker ring, a stand-in for a character
// sprite.
func blob(fill, ring color.RGBA) *ebiten.Image {
	img := image.NewRGBA(image.Rect(0, 0, spriteSize, spriteSize))
	c := float64(spriteSize) / 2
	for y := 0; y < spriteSize; y++ {
		for x := 0; x < spriteSize; x++ {
			d := math.Hypot(float64(x)+0.5-c, float64(y)+0.5-c)
			switch {
			case d < c-10:
				img.SetRGBA(x, y, fill)
			case d < c-2:
				img.SetRGBA(x, y, ring)
			}
		}
	}
	// An eye so rotation is visible.
	for y := 40; y < 56; y++ {
		for x := 76; x < 92; x++ {
			img.SetRGBA(x, y, color.RGBA{A: 255})
		}
	}
	return ebiten.NewImageFromImage(img)
}

func main() {
	textures := [2]birch.EbitenTexture{
		birch.NewEbitenTexture(blob(color.RGBA{R: 230, G: 120, B: 60, A: 255}, color.RGBA{R: 120, G: 50, B: 20, A: 255})),
		birch.NewEbitenTexture(blob(color.RGBA{R: 90, G: 180, B: 230, A: 255}, color.RGBA{R: 30, G: 70, B: 120, A: 255})),
	}

	sprites := make([]sprite, count)
	for i := range sprites {
		base := 0.15 + rand.Float64()*0.2
		sprites[i] = sprite{
			tex:   textures[i%2],
			depth: float64(i % 2),
			pos:   birch.Vec2{X: rand.Float64() * screenW, Y: rand.Float64() * screenH},
			color: birch.Color{
				R: 0.5 + rand.Float64()*0.5,
				G: 0.5 + rand.Float64()*0.5,
				B: 0.5 + rand.Float64()*0.5,
				A: 1,
			},
			dx:         (rand.Float64() - 0.5) * 4,
			dy:         (rand.Float64() - 0.5) * 4,
			rotSpeed:   (rand.Float64() - 0.5) * 0.08,
			scaleSpeed: 1 + rand.Float64()*2,
			scaleBase:  base,
			scaleAmp:   0.03 + rand.Float64()*0.07,
			alphaSpeed: 0.5 + rand.Float64()*2,
			phase:      rand.Float64() * math.Pi * 2,
			scale:      base,
		}
	}

	d := &demo{
		batch:    birch.NewEbitenSpriteBatch(&birch.BatchConfig{InitialCapacity: count + 64}),
		renderer: birch.EbitenRenderer{SortMode: birch.SortBackToFront, Filter: ebiten.FilterLinear},
		fps:      birch.NewFPSOverlay(),
		sprites:  sprites,
	}

	ebiten.SetWindowTitle("Birch — 10k Sprites")
	ebiten.SetWindowSize(screenW, screenH)
	if err := ebiten.RunGame(d); err != nil {
		log.Fatal(err)
	}
}

func (d *demo) Update() error {
	d.frame++
	t := d.frame / 60.0

	for i := range d.sprites {
		s := &d.sprites[i]
		s.pos.X += s.dx
		s.pos.Y += s.dy

		half := s.scaleBase * spriteSize / 2
		if s.pos.X < half {
			s.pos.X = half
			s.dx = -s.dx
		} else if s.pos.X > screenW-half {
			s.pos.X = screenW - half
			s.dx = -s.dx
		}
		if s.pos.Y < half {
			s.pos.Y = half
			s.dy = -s.dy
		} else if s.pos.Y > screenH-half {
			s.pos.Y = screenH - half
			s.dy = -s.dy
		}

		s.rotation += s.rotSpeed
		s.scale = s.scaleBase + s.scaleAmp*math.Sin(t*s.scaleSpeed+s.phase)
		s.color.A = 0.5 + 0.5*math.Sin(t*s.alphaSpeed+s.phase)
	}

	d.fps.Update(1.0/float64(ebiten.TPS()), d.batch.Stats())
	return nil
}

func (d *demo) Draw(screen *ebiten.Image) {
	screen.Fill(birch.Color{R: 0.06, G: 0.06, B: 0.09, A: 1}.ToRGBA())
	if err := d.draw(); err != nil {
		log.Fatal(err)
	}
	if err := d.renderer.Render(screen, d.batch); err != nil {
		log.Fatal(err)
	}
}

func (d *demo) draw() error {
	b := d.batch
	if err := b.Begin(); err != nil {
		return err
	}
	var opts birch.DrawOptions
	for i := range d.sprites {
		s := &d.sprites[i]
		// Fully faded sprites would read as opaque white.
		if s.color.A <= 0 {
			continue
		}
		opts = birch.DrawOptions{
			Color:    s.color,
			Origin:   birch.Vec2{X: spriteSize / 2, Y: spriteSize / 2},
			Scale:    birch.Vec2{X: s.scale, Y: s.scale},
			Rotation: s.rotation,
			Depth:    s.depth,
		}
		if err := b.Draw(s.tex, s.pos, &opts); err != nil {
			return err
		}
	}
	// Depth -1 keeps the overlay in front under the back-to-front sort.
	if err := d.fps.Draw(b, birch.Vec2{X: 4, Y: 4}, -1); err != nil {
		return err
	}
	return b.End()
}

func (d *demo) Layout(_, _ int) (int, int) {
	return screenW, screenH
}
