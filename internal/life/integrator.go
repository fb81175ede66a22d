package life

import "math"

// Integrator commits accumulated velocity deltas, applies friction and moves
// particles with toroidal wrap.
type Integrator struct {
	Friction      float64
	Width, Height float64
}

// Integrate updates every particle: v = (v + dv) * Friction, p += v, wrap.
// dvx and dvy must have one entry per particle.
func (in Integrator) Integrate(particles []Particle, dvx, dvy []float64) {
	for i := range particles {
		p := &particles[i]
		p.VX = (p.VX + dvx[i]) * in.Friction
		p.VY = (p.VY + dvy[i]) * in.Friction
		p.X = Wrap(p.X+p.VX, in.Width)
		p.Y = Wrap(p.Y+p.VY, in.Height)
	}
}

// Wrap folds v into [0, size).
func Wrap(v, size float64) float64 {
	if v < 0 {
		v += size
	} else if v >= size {
		v -= size
	}
	if v < 0 || v >= size {
		// Displacement larger than the world itself.
		v = math.Mod(v, size)
		if v < 0 {
			v += size
		}
	}
	// -tiny + size rounds up to size.
	if v >= size {
		v = 0
	}
	return v
}
