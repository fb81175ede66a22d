package life

import (
	"errors"
	"fmt"
	"math"
)

// Defaults taken from the reference particle life setup.
const (
	DefaultMinDist           = 15.0
	DefaultMaxDist           = 100.0
	DefaultFriction          = 0.8
	DefaultRepulsiveStrength = 3.0
	DefaultParticleRadius    = 3.0
	DefaultWidth             = 1550.0
	DefaultHeight            = 900.0
	DefaultParticles         = 700
	DefaultSeed              = 4
)

// ErrConfiguration is wrapped by every error returned while building a world.
var ErrConfiguration = errors.New("life: configuration error")

// ConfigError reports the offending setting.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("life: invalid %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrConfiguration }

func configErrorf(field, format string, args ...any) error {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Layout selects how NewWorld places the initial particles.
type Layout int

const (
	LayoutUniform Layout = iota
	LayoutPerlin
)

func (l Layout) String() string {
	switch l {
	case LayoutUniform:
		return "uniform"
	case LayoutPerlin:
		return "perlin"
	}
	return fmt.Sprintf("layout(%d)", int(l))
}

// ParseLayout maps a layout name to its value.
func ParseLayout(name string) (Layout, error) {
	switch name {
	case "uniform", "":
		return LayoutUniform, nil
	case "perlin":
		return LayoutPerlin, nil
	}
	return 0, configErrorf("layout", "unknown layout %q", name)
}

// Config is the immutable description of a world. It is copied into the
// World at construction; later changes to the caller's value have no effect.
type Config struct {
	Width, Height float64

	NumParticles int
	NumTypes     int

	MinDist           float64
	MaxDist           float64
	Friction          float64 // velocity multiplier applied once per tick
	RepulsiveStrength float64
	ParticleRadius    float64

	// CellSize of the spatial grid. Zero means MaxDist/2.
	CellSize float64

	Seed   int64
	Layout Layout

	// Workers > 1 splits force accumulation across goroutines.
	Workers int
}

// DefaultConfig returns the reference setup: 700 particles of four types on
// a 1550x900 torus.
func DefaultConfig() Config {
	return Config{
		Width:             DefaultWidth,
		Height:            DefaultHeight,
		NumParticles:      DefaultParticles,
		NumTypes:          DefaultTypeCount,
		MinDist:           DefaultMinDist,
		MaxDist:           DefaultMaxDist,
		Friction:          DefaultFriction,
		RepulsiveStrength: DefaultRepulsiveStrength,
		ParticleRadius:    DefaultParticleRadius,
		Seed:              DefaultSeed,
	}
}

// EffectiveCellSize resolves the zero default.
func (c Config) EffectiveCellSize() float64 {
	if c.CellSize == 0 {
		return c.MaxDist / 2
	}
	return c.CellSize
}

// Profile returns the force profile described by c.
func (c Config) Profile() ForceProfile {
	return ForceProfile{
		MinDist:   c.MinDist,
		MaxDist:   c.MaxDist,
		Repulsion: c.RepulsiveStrength,
	}
}

// Validate reports the first invalid setting as a *ConfigError.
func (c Config) Validate() error {
	switch {
	case !positive(c.Width):
		return configErrorf("width", "must be positive, got %v", c.Width)
	case !positive(c.Height):
		return configErrorf("height", "must be positive, got %v", c.Height)
	case c.NumParticles < 0:
		return configErrorf("particles", "must not be negative, got %d", c.NumParticles)
	case c.NumTypes < 1 || c.NumTypes > MaxTypes:
		return configErrorf("types", "must be in [1,%d], got %d", MaxTypes, c.NumTypes)
	case !positive(c.MinDist):
		return configErrorf("min distance", "must be positive, got %v", c.MinDist)
	case !positive(c.MaxDist):
		return configErrorf("max distance", "must be positive, got %v", c.MaxDist)
	case c.MaxDist <= c.MinDist:
		return configErrorf("max distance", "%v must exceed min distance %v", c.MaxDist, c.MinDist)
	case !finite(c.RepulsiveStrength):
		return configErrorf("repulsive strength", "must be finite")
	case !finite(c.Friction) || c.Friction < 0 || c.Friction > 1:
		return configErrorf("friction", "must be in [0,1], got %v", c.Friction)
	case c.Workers < 0:
		return configErrorf("workers", "must not be negative, got %d", c.Workers)
	case c.Layout != LayoutUniform && c.Layout != LayoutPerlin:
		return configErrorf("layout", "unknown layout %d", int(c.Layout))
	}

	cell := c.EffectiveCellSize()
	if !positive(cell) {
		return configErrorf("cell size", "must be positive, got %v", cell)
	}
	// Larger cells push interacting pairs outside the 8-neighbor window.
	if cell > c.MaxDist/2 {
		return configErrorf("cell size", "%v exceeds half of max distance %v", cell, c.MaxDist)
	}
	if d := gridDim(c.Width, c.Height, cell); d > MaxGridDim {
		return configErrorf("cell size", "%v gives a grid dimension of %v, limit is %d", cell, d, MaxGridDim)
	}
	return nil
}

func positive(v float64) bool { return v > 0 && !math.IsInf(v, 1) }

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
