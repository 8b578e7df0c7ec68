package birch

import (
	"math"
	"math/rand/v2"
)

// Range is a general-purpose min/max range.
type Range struct {
	Min, Max float64
}

// Random returns a random float64 in [Min, Max].
func (r Range) Random() float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + rand.Float64()*(r.Max-r.Min)
}

// particle holds per-particle simulation state. Managed by ParticleEmitter.
type particle struct {
	x, y       float64
	vx, vy     float64
	life       float64 // remaining lifetime in seconds
	maxLife    float64 // initial lifetime (for computing t)
	startScale float32
	endScale   float32
	scale      float32
	startAlpha float32
	endAlpha   float32
	alpha      float32
	startR     float32
	startG     float32
	startB     float32
	endR       float32
	endG       float32
	endB       float32
	colorR     float32
	colorG     float32
	colorB     float32
}

// EmitterConfig controls how particles are spawned and behave.
type EmitterConfig[T Texture] struct {
	// MaxParticles is the pool size. New particles are silently dropped when full.
	MaxParticles int
	// EmitRate is the number of particles spawned per second.
	EmitRate float64
	// Lifetime is the range of particle lifetimes in seconds.
	Lifetime Range
	// Speed is the range of initial particle speeds in pixels per second.
	Speed Range
	// Angle is the range of emission angles in radians.
	Angle Range
	// StartScale is the range of scale factors at birth, interpolated to EndScale over lifetime.
	StartScale Range
	// EndScale is the range of scale factors at death.
	EndScale Range
	// StartAlpha is the range of alpha values at birth, interpolated to EndAlpha over lifetime.
	StartAlpha Range
	// EndAlpha is the range of alpha values at death.
	EndAlpha Range
	// Gravity is the constant acceleration applied to all particles each frame.
	Gravity Vec2
	// StartColor is the tint at birth, interpolated to EndColor over lifetime.
	StartColor Color
	// EndColor is the tint at death.
	EndColor Color
	// Region is drawn for every particle, centered on the particle.
	Region Region[T]
	// Depth is the sort depth of every particle.
	Depth float64
	// WorldSpace, when true, makes particles keep their world position once
	// emitted instead of following the emitter.
	WorldSpace bool
}

// ParticleEmitter manages a pool of particles with CPU-based simulation and
// draws them through a SpriteBatch. All particles share one region, so an
// emitter adds a single slice unless interleaved with other textures.
type ParticleEmitter[T Texture] struct {
	// X and Y are the emitter position in world space.
	X, Y float64

	config    EmitterConfig[T]
	particles []particle
	alive     int
	emitAccum float64
	active    bool
}

// NewParticleEmitter creates an emitter with a preallocated pool.
func NewParticleEmitter[T Texture](cfg EmitterConfig[T]) *ParticleEmitter[T] {
	n := cfg.MaxParticles
	if n <= 0 {
		n = 128
	}
	return &ParticleEmitter[T]{
		config:    cfg,
		particles: make([]particle, n),
	}
}

// Start begins emitting particles.
func (e *ParticleEmitter[T]) Start() {
	e.active = true
}

// Stop stops emitting new particles. Existing particles continue to live out.
func (e *ParticleEmitter[T]) Stop() {
	e.active = false
}

// Reset stops emitting and kills all alive particles.
func (e *ParticleEmitter[T]) Reset() {
	e.active = false
	e.alive = 0
	e.emitAccum = 0
}

// IsActive reports whether the emitter is currently emitting new particles.
func (e *ParticleEmitter[T]) IsActive() bool {
	return e.active
}

// AliveCount returns the number of alive particles.
func (e *ParticleEmitter[T]) AliveCount() int {
	return e.alive
}

// Config returns a pointer to the emitter's config for live tuning.
func (e *ParticleEmitter[T]) Config() *EmitterConfig[T] {
	return &e.config
}

// Update advances particle simulation by dt seconds.
func (e *ParticleEmitter[T]) Update(dt float64) {
	gx := e.config.Gravity.X * dt
	gy := e.config.Gravity.Y * dt

	// Update existing particles, swap-remove dead ones.
	i := 0
	for i < e.alive {
		p := &e.particles[i]
		p.life -= dt
		if p.life <= 0 {
			e.alive--
			e.particles[i] = e.particles[e.alive]
			continue
		}

		p.vx += gx
		p.vy += gy
		p.x += p.vx * dt
		p.y += p.vy * dt

		t := float32(1.0 - p.life/p.maxLife)
		p.scale = lerp32(p.startScale, p.endScale, t)
		p.alpha = lerp32(p.startAlpha, p.endAlpha, t)
		p.colorR = lerp32(p.startR, p.endR, t)
		p.colorG = lerp32(p.startG, p.endG, t)
		p.colorB = lerp32(p.startB, p.endB, t)

		i++
	}

	if e.active && e.config.EmitRate > 0 {
		e.emitAccum += e.config.EmitRate * dt
		for e.emitAccum >= 1.0 {
			e.emitAccum -= 1.0
			if e.alive < len(e.particles) {
				e.spawnParticle()
			}
		}
	}
}

// Draw submits one item per visible particle.
func (e *ParticleEmitter[T]) Draw(b *SpriteBatch[T]) error {
	r := &e.config.Region
	cx, cy := r.Source.Width/2, r.Source.Height/2
	var ox, oy float64
	if !e.config.WorldSpace {
		ox, oy = e.X, e.Y
	}

	var opts DrawOptions
	for i := 0; i < e.alive; i++ {
		p := &e.particles[i]
		// Fully transparent particles are skipped: the zero Color would
		// otherwise read as white.
		if p.alpha <= 0 || p.scale <= 0 {
			continue
		}
		s := float64(p.scale)
		opts = DrawOptions{
			Source: &r.Source,
			Color:  Color{R: float64(p.colorR), G: float64(p.colorG), B: float64(p.colorB), A: float64(p.alpha)},
			Origin: Vec2{cx, cy},
			Scale:  Vec2{s, s},
			Depth:  e.config.Depth,
		}
		if err := b.Draw(r.Texture, Vec2{p.x + ox, p.y + oy}, &opts); err != nil {
			return err
		}
	}
	return nil
}

// spawnParticle initializes the particle at slot e.alive and increments alive.
func (e *ParticleEmitter[T]) spawnParticle() {
	p := &e.particles[e.alive]

	angle := e.config.Angle.Random()
	speed := e.config.Speed.Random()
	p.vx = math.Cos(angle) * speed
	p.vy = math.Sin(angle) * speed

	if e.config.WorldSpace {
		p.x = e.X
		p.y = e.Y
	} else {
		p.x = 0
		p.y = 0
	}

	p.life = e.config.Lifetime.Random()
	if p.life <= 0 {
		p.life = 1.0
	}
	p.maxLife = p.life

	p.startScale = float32(e.config.StartScale.Random())
	p.endScale = float32(e.config.EndScale.Random())
	p.scale = p.startScale

	p.startAlpha = float32(e.config.StartAlpha.Random())
	p.endAlpha = float32(e.config.EndAlpha.Random())
	p.alpha = p.startAlpha

	p.startR = float32(e.config.StartColor.R)
	p.startG = float32(e.config.StartColor.G)
	p.startB = float32(e.config.StartColor.B)
	p.endR = float32(e.config.EndColor.R)
	p.endG = float32(e.config.EndColor.G)
	p.endB = float32(e.config.EndColor.B)
	p.colorR = p.startR
	p.colorG = p.startG
	p.colorB = p.startB

	e.alive++
}

// lerp32 linearly interpolates between a and b by t (float32).
func lerp32(a, b, t float32) float32 {
	return a + (b-a)*t
}
