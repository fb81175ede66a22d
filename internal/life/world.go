package life

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

// TickObserver receives stats after every completed tick.
type TickObserver interface {
	ObserveTick(stats TickStats, elapsed time.Duration)
}

// Pacer blocks until the next tick may start. *rate.Limiter satisfies it.
type Pacer interface {
	Wait(ctx context.Context) error
}

// Option configures a World.
type Option func(*World)

// WithLogger sets the logger used for construction and run events.
func WithLogger(l *slog.Logger) Option {
	return func(w *World) { w.log = l }
}

// WithObserver registers a tick observer.
func WithObserver(o TickObserver) Option {
	return func(w *World) { w.observers = append(w.observers, o) }
}

// World owns the particle set and advances it one tick at a time.
// All methods are safe for concurrent use; a snapshot never observes a
// partially applied tick.
type World struct {
	cfg    Config
	matrix *ForceMatrix

	mu         sync.RWMutex
	particles  []Particle
	grid       *SpatialGrid
	engine     *InteractionEngine
	integrator Integrator
	tick       uint64

	log       *slog.Logger
	observers []TickObserver
}

// NewWorld validates cfg and matrix and places cfg.NumParticles particles
// using cfg.Layout and cfg.Seed.
func NewWorld(cfg Config, matrix *ForceMatrix, opts ...Option) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newWorld(cfg, matrix, PlaceParticles(cfg), opts)
}

// NewWorldFromParticles builds a world around an explicit particle set.
// Positions are wrapped into bounds and the slice is copied;
// cfg.NumParticles is replaced by len(particles).
func NewWorldFromParticles(cfg Config, matrix *ForceMatrix, particles []Particle, opts ...Option) (*World, error) {
	cfg.NumParticles = len(particles)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	own := make([]Particle, len(particles))
	for i, p := range particles {
		if !finite(p.X) || !finite(p.Y) || !finite(p.VX) || !finite(p.VY) {
			return nil, configErrorf("particles", "particle %d has a non-finite position or velocity", i)
		}
		p.X = Wrap(p.X, cfg.Width)
		p.Y = Wrap(p.Y, cfg.Height)
		own[i] = p
	}
	return newWorld(cfg, matrix, own, opts)
}

func newWorld(cfg Config, matrix *ForceMatrix, particles []Particle, opts []Option) (*World, error) {
	if matrix == nil {
		return nil, configErrorf("force matrix", "missing")
	}
	if matrix.Types() != cfg.NumTypes {
		return nil, configErrorf("force matrix", "covers %d types, world has %d", matrix.Types(), cfg.NumTypes)
	}
	for i, p := range particles {
		if int(p.Type) >= cfg.NumTypes {
			return nil, configErrorf("particles", "particle %d has type %d, world has %d types", i, p.Type, cfg.NumTypes)
		}
	}

	cellSize := cfg.EffectiveCellSize()
	grid := NewSpatialGrid(cfg.Width, cfg.Height, cellSize, len(particles))
	w := &World{
		cfg:       cfg,
		matrix:    matrix,
		particles: particles,
		grid:      grid,
		engine:    NewInteractionEngine(cfg.Profile(), matrix, cfg.Width, cfg.Height, grid, cfg.Workers),
		integrator: Integrator{
			Friction: cfg.Friction,
			Width:    cfg.Width,
			Height:   cfg.Height,
		},
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(w)
	}

	w.log.Info("world created",
		"particles", len(particles),
		"types", cfg.NumTypes,
		"width", cfg.Width,
		"height", cfg.Height,
		"cell_size", cellSize,
		"grid_dim", grid.Dim(),
		"seed", cfg.Seed,
		"layout", cfg.Layout.String(),
		"workers", max(cfg.Workers, 1),
	)
	return w, nil
}

// Step advances the world by one tick: grid build, force accumulation over
// all pairs, then integration of every particle.
func (w *World) Step() TickStats {
	start := time.Now()

	w.mu.Lock()
	stats := w.engine.Accumulate(w.particles)
	dvx, dvy := w.engine.Deltas()
	w.integrator.Integrate(w.particles, dvx, dvy)
	w.tick++
	stats.Tick = w.tick
	w.mu.Unlock()

	elapsed := time.Since(start)
	for _, o := range w.observers {
		o.ObserveTick(stats, elapsed)
	}
	return stats
}

// Run steps the world until ctx is done, maxTicks ticks have run (0 means no
// limit) or pacer fails. Cancellation is only observed between ticks.
// pacer and onTick may be nil.
func (w *World) Run(ctx context.Context, pacer Pacer, maxTicks int, onTick func(TickStats)) error {
	w.log.Info("run started", "max_ticks", maxTicks, "tick", w.Tick())
	for n := 0; maxTicks == 0 || n < maxTicks; n++ {
		if err := ctx.Err(); err != nil {
			w.log.Info("run stopped", "tick", w.Tick(), "reason", err)
			return err
		}
		if pacer != nil {
			if err := pacer.Wait(ctx); err != nil {
				w.log.Info("run stopped", "tick", w.Tick(), "reason", err)
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				return fmt.Errorf("pace tick %d: %w", w.Tick()+1, err)
			}
		}
		stats := w.Step()
		if onTick != nil {
			onTick(stats)
		}
	}
	w.log.Info("run finished", "tick", w.Tick())
	return nil
}

// Snapshot copies the particles into dst, growing it if needed, and returns
// the filled slice.
func (w *World) Snapshot(dst []Particle) []Particle {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append(dst[:0], w.particles...)
}

// Tick returns the number of completed ticks.
func (w *World) Tick() uint64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.tick
}

// GridStats returns statistics of the grid built by the last tick.
func (w *World) GridStats() GridStats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.grid.Stats()
}

// Matrix returns the immutable force matrix.
func (w *World) Matrix() *ForceMatrix { return w.matrix }

// Config returns the configuration the world was built with.
func (w *World) Config() Config { return w.cfg }

// Bounds returns the world dimensions.
func (w *World) Bounds() (width, height float64) { return w.cfg.Width, w.cfg.Height }

// Len returns the number of particles.
func (w *World) Len() int { return w.cfg.NumParticles }
