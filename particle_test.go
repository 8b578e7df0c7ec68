package birch

import (
	"math"
	"testing"
)

func defaultTestConfig(max int) EmitterConfig[fakeTexture] {
	return EmitterConfig[fakeTexture]{
		MaxParticles: max,
		EmitRate:     100,
		Lifetime:     Range{1.0, 1.0},
		Speed:        Range{100, 100},
		Angle:        Range{0, 0},
		StartScale:   Range{1, 1},
		EndScale:     Range{0.5, 0.5},
		StartAlpha:   Range{1, 1},
		EndAlpha:     Range{0, 0},
		Gravity:      Vec2{0, 0},
		StartColor:   Color{1, 1, 1, 1},
		EndColor:     Color{0, 0, 0, 1},
		Region:       Region[fakeTexture]{Texture: texA, Source: Rect{Width: 16, Height: 16}, Original: Vec2{16, 16}},
	}
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func TestEmitterConfigCreatesPool(t *testing.T) {
	e := NewParticleEmitter(defaultTestConfig(500))
	if len(e.particles) != 500 {
		t.Errorf("pool size = %d, want 500", len(e.particles))
	}
	if e.alive != 0 {
		t.Errorf("alive = %d, want 0", e.alive)
	}
}

func TestEmitterDefaultMaxParticles(t *testing.T) {
	e := NewParticleEmitter(EmitterConfig[fakeTexture]{})
	if len(e.particles) != 128 {
		t.Errorf("default pool size = %d, want 128", len(e.particles))
	}
}

func TestStartStopReset(t *testing.T) {
	e := NewParticleEmitter(defaultTestConfig(100))

	if e.IsActive() {
		t.Error("emitter should not be active initially")
	}
	e.Start()
	if !e.IsActive() {
		t.Error("emitter should be active after Start")
	}
	e.Stop()
	if e.IsActive() {
		t.Error("emitter should not be active after Stop")
	}

	e.Start()
	e.Update(0.1) // ~10 particles at rate 100/s
	if e.AliveCount() == 0 {
		t.Fatal("expected particles after update")
	}

	e.Reset()
	if e.IsActive() {
		t.Error("emitter should not be active after Reset")
	}
	if e.AliveCount() != 0 {
		t.Errorf("alive = %d, want 0 after Reset", e.AliveCount())
	}
}

func TestParticleSpawnRate(t *testing.T) {
	cfg := defaultTestConfig(1000)
	cfg.EmitRate = 64
	e := NewParticleEmitter(cfg)
	e.Start()

	for i := 0; i < 64; i++ {
		e.Update(1.0 / 64.0)
	}
	if alive := e.AliveCount(); alive != 64 {
		t.Errorf("alive = %d, want 64", alive)
	}
}

func TestParticlesExpire(t *testing.T) {
	cfg := defaultTestConfig(100)
	cfg.Lifetime = Range{0.05, 0.05}
	e := NewParticleEmitter(cfg)
	e.Start()

	e.Update(0.02)
	if e.AliveCount() == 0 {
		t.Fatal("expected particles spawned")
	}
	e.Stop()
	e.Update(0.1)
	if e.AliveCount() != 0 {
		t.Errorf("alive = %d, want 0 after particles expire", e.AliveCount())
	}
}

func TestGravityAffectsVelocity(t *testing.T) {
	cfg := defaultTestConfig(10)
	cfg.Gravity = Vec2{0, 100}
	cfg.Speed = Range{0, 0}
	cfg.Lifetime = Range{10, 10}
	cfg.EmitRate = 10000
	e := NewParticleEmitter(cfg)
	e.Start()

	e.Update(0.001) // emitAccum = 10 → spawn 10
	e.Stop()
	e.Update(1.0)
	if e.AliveCount() == 0 {
		t.Fatal("expected alive particles")
	}
	p := &e.particles[0]
	assertNear(t, "vy", p.vy, 100.0)
	assertNear(t, "y", p.y, 100.0)
}

func TestLifetimeInterpolation(t *testing.T) {
	cfg := defaultTestConfig(1)
	cfg.EmitRate = 1000
	cfg.StartScale = Range{2, 2}
	cfg.EndScale = Range{0, 0}
	cfg.StartColor = Color{1, 0, 0, 1}
	cfg.EndColor = Color{0, 1, 0, 1}
	e := NewParticleEmitter(cfg)
	e.Start()

	e.Update(0.001)
	e.Stop()
	if e.AliveCount() != 1 {
		t.Fatalf("alive = %d, want 1", e.AliveCount())
	}

	p := &e.particles[0]
	assertNear(t, "scale@t0", float64(p.scale), 2.0)
	assertNear(t, "alpha@t0", float64(p.alpha), 1.0)
	assertNear(t, "colorR@t0", float64(p.colorR), 1.0)

	// Spawned particles skip the update that created them, so this brings
	// life from 1.0 to 0.5.
	e.Update(0.5)
	t50 := 1.0 - p.life/p.maxLife
	assertNear(t, "t", t50, 0.5)
	assertNear(t, "scale@t0.5", float64(p.scale), lerp(2, 0, t50))
	assertNear(t, "alpha@t0.5", float64(p.alpha), lerp(1, 0, t50))
	assertNear(t, "colorR@t0.5", float64(p.colorR), lerp(1, 0, t50))
	assertNear(t, "colorG@t0.5", float64(p.colorG), lerp(0, 1, t50))
}

func TestMaxParticlesCap(t *testing.T) {
	cfg := defaultTestConfig(5)
	cfg.EmitRate = 10000
	e := NewParticleEmitter(cfg)
	e.Start()

	e.Update(1.0)
	if e.AliveCount() > 5 {
		t.Errorf("alive = %d, exceeds max 5", e.AliveCount())
	}
}

func TestRangeRandom(t *testing.T) {
	r := Range{10, 20}
	for i := 0; i < 100; i++ {
		if v := r.Random(); v < 10 || v > 20 {
			t.Fatalf("Random() = %f, outside [10, 20]", v)
		}
	}
	if (Range{5, 5}).Random() != 5 {
		t.Fatal("Random() with Min==Max should return Min")
	}
}

func TestConfigPointerForLiveTuning(t *testing.T) {
	e := NewParticleEmitter(defaultTestConfig(100))
	e.Config().EmitRate = 999
	if e.config.EmitRate != 999 {
		t.Error("Config() should return pointer to internal config")
	}
}

func TestParticleMovesWithAngle(t *testing.T) {
	cfg := defaultTestConfig(1)
	cfg.EmitRate = 10000
	cfg.Angle = Range{math.Pi / 2, math.Pi / 2} // straight down
	cfg.Lifetime = Range{10, 10}
	e := NewParticleEmitter(cfg)
	e.Start()

	e.Update(1.0)
	if e.AliveCount() == 0 {
		t.Fatal("expected alive particles")
	}
	p := &e.particles[0]
	assertNear(t, "vx", p.vx, 0)
	assertNear(t, "vy", p.vy, 100)
}

func TestParticleDraw(t *testing.T) {
	cfg := defaultTestConfig(1)
	cfg.EmitRate = 1000
	cfg.StartScale = Range{2, 2}
	cfg.Depth = 5
	e := NewParticleEmitter(cfg)
	e.X, e.Y = 100, 200
	e.Start()
	e.Update(0.001)

	b := newActiveBatch(t)
	if err := e.Draw(b); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	items := b.Batcher().Items()
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1", len(items))
	}
	it := items[0]
	if b.Batcher().Textures()[0] != texA {
		t.Errorf("texture = %v, want region texture", b.Batcher().Textures()[0])
	}
	if it.Scale != [2]float32{32, 32} || it.Origin != [2]float32{16, 16} {
		t.Errorf("Scale = %v, Origin = %v", it.Scale, it.Origin)
	}
	if it.Location != [3]float32{100, 200, 5} {
		t.Errorf("Location = %v, want emitter position", it.Location)
	}

	// Local particles follow the emitter.
	e.X = 0
	b = newActiveBatch(t)
	_ = e.Draw(b)
	if got := b.Batcher().Items()[0].Location[0]; got != 0 {
		t.Errorf("x after emitter moved = %v, want 0", got)
	}
}

func TestParticleDrawWorldSpace(t *testing.T) {
	cfg := defaultTestConfig(1)
	cfg.EmitRate = 1000
	cfg.WorldSpace = true
	e := NewParticleEmitter(cfg)
	e.X, e.Y = 50, 60
	e.Start()
	e.Update(0.001)
	e.X = 500

	b := newActiveBatch(t)
	_ = e.Draw(b)
	if got := b.Batcher().Items()[0].Location; got[0] != 50 || got[1] != 60 {
		t.Errorf("Location = %v, want spawn point (50, 60)", got)
	}
}

func TestParticleDrawSkipsInvisible(t *testing.T) {
	cfg := defaultTestConfig(10)
	cfg.EmitRate = 10000
	cfg.StartAlpha = Range{0, 0}
	e := NewParticleEmitter(cfg)
	e.Start()
	e.Update(0.001)

	b := newActiveBatch(t)
	_ = e.Draw(b)
	if got := b.Batcher().Len(); got != 0 {
		t.Errorf("items = %d, want 0 for transparent particles", got)
	}
}

func TestZeroAllocsDuringUpdate(t *testing.T) {
	cfg := defaultTestConfig(1000)
	cfg.EmitRate = 500
	e := NewParticleEmitter(cfg)
	e.Start()
	for i := 0; i < 100; i++ {
		e.Update(1.0 / 60.0)
	}
	if allocs := testing.AllocsPerRun(100, func() { e.Update(1.0 / 60.0) }); allocs > 0 {
		t.Errorf("update allocs = %f, want 0", allocs)
	}
}

func BenchmarkParticleUpdate_10000(b *testing.B) {
	cfg := defaultTestConfig(10000)
	cfg.EmitRate = 5000
	e := NewParticleEmitter(cfg)
	e.Start()
	for i := 0; i < 200; i++ {
		e.Update(1.0 / 60.0)
	}
	b.ReportAllocs()
	for b.Loop() {
		e.Update(1.0 / 60.0)
	}
}
