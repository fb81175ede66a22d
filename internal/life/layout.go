package life

import (
	"math/rand"

	"github.com/aquilax/go-perlin"
)

const (
	perlinAlpha    = 2.0
	perlinBeta     = 2.0
	perlinOctaves  = 3
	perlinScale    = 200.0 // world units per noise unit
	perlinTypeSkew = 1000.0
	perlinAttempts = 32
)

// PlaceParticles generates cfg.NumParticles particles from cfg.Seed using
// cfg.Layout. The result depends only on cfg.
func PlaceParticles(cfg Config) []Particle {
	rng := rand.New(rand.NewSource(cfg.Seed))
	particles := make([]Particle, cfg.NumParticles)

	switch cfg.Layout {
	case LayoutPerlin:
		noise := perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctaves, cfg.Seed)
		for i := range particles {
			x, y := perlinPoint(rng, noise, cfg.Width, cfg.Height)
			particles[i] = Particle{
				X:      x,
				Y:      y,
				Type:   perlinType(noise, x, y, cfg.NumTypes),
				Radius: cfg.ParticleRadius,
			}
		}
	default:
		for i := range particles {
			particles[i] = Particle{
				X:      rng.Float64() * cfg.Width,
				Y:      rng.Float64() * cfg.Height,
				Type:   ParticleType(rng.Intn(cfg.NumTypes)),
				Radius: cfg.ParticleRadius,
			}
		}
	}
	return particles
}

// perlinPoint rejection-samples a position, preferring high-noise regions.
func perlinPoint(rng *rand.Rand, noise *perlin.Perlin, width, height float64) (float64, float64) {
	var x, y float64
	for attempt := 0; attempt < perlinAttempts; attempt++ {
		x = rng.Float64() * width
		y = rng.Float64() * height
		density := (noise.Noise2D(x/perlinScale, y/perlinScale) + 1) / 2
		if rng.Float64() < density {
			break
		}
	}
	return x, y
}

func perlinType(noise *perlin.Perlin, x, y float64, types int) ParticleType {
	v := (noise.Noise2D(x/perlinScale+perlinTypeSkew, y/perlinScale+perlinTypeSkew) + 1) / 2
	t := int(v * float64(types))
	if t < 0 {
		t = 0
	}
	if t >= types {
		t = types - 1
	}
	return ParticleType(t)
}
