package life

import (
	"math"
	"sync"
)

// TickStats summarizes one tick.
type TickStats struct {
	Tick          uint64
	Pairs         int // pair evaluations, including out-of-range ones
	Interactions  int // evaluations where at least one side felt a force
	OccupiedCells int
}

// accumulator collects velocity deltas for one worker.
type accumulator struct {
	dvx, dvy     []float64
	pairs        int
	interactions int
}

func (a *accumulator) reset(n int) {
	if cap(a.dvx) < n {
		a.dvx = make([]float64, n)
		a.dvy = make([]float64, n)
	}
	a.dvx = a.dvx[:n]
	a.dvy = a.dvy[:n]
	clear(a.dvx)
	clear(a.dvy)
	a.pairs = 0
	a.interactions = 0
}

// InteractionEngine computes per-tick velocity deltas from pairwise forces.
//
// Occupied cells are visited in row-major order. Within a cell each particle
// is paired with the particles after it in the same cell, then with every
// particle of the 8 neighbor cells. A pair split across two cells is thus
// evaluated once from each side, while a same-cell pair is evaluated once.
// Every evaluation updates both particles.
type InteractionEngine struct {
	profile       ForceProfile
	matrix        *ForceMatrix
	width, height float64
	grid          *SpatialGrid
	workers       int
	acc           []accumulator
}

// NewInteractionEngine builds an engine over the given grid.
// workers <= 1 runs single-threaded.
func NewInteractionEngine(profile ForceProfile, matrix *ForceMatrix, width, height float64, grid *SpatialGrid, workers int) *InteractionEngine {
	if workers < 1 {
		workers = 1
	}
	return &InteractionEngine{
		profile: profile,
		matrix:  matrix,
		width:   width,
		height:  height,
		grid:    grid,
		workers: workers,
		acc:     make([]accumulator, workers),
	}
}

// Accumulate rebuilds the grid from particles and computes velocity deltas.
// Particles are not modified; read the result with Deltas.
func (e *InteractionEngine) Accumulate(particles []Particle) TickStats {
	e.grid.Rebuild(particles)
	occupied := e.grid.occupied

	if e.workers == 1 || len(occupied) < 2*e.workers {
		acc := &e.acc[0]
		acc.reset(len(particles))
		for _, idx := range occupied {
			e.accumulateCell(acc, particles, e.grid.cell(idx))
		}
		return TickStats{Pairs: acc.pairs, Interactions: acc.interactions, OccupiedCells: len(occupied)}
	}

	chunk := (len(occupied) + e.workers - 1) / e.workers
	var wg sync.WaitGroup
	for w := 0; w < e.workers; w++ {
		acc := &e.acc[w]
		acc.reset(len(particles))
		lo := min(w*chunk, len(occupied))
		hi := min(lo+chunk, len(occupied))
		cells := occupied[lo:hi]
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, idx := range cells {
				e.accumulateCell(acc, particles, e.grid.cell(idx))
			}
		}()
	}
	wg.Wait()

	// Single writer: fold partial buffers into the first one in worker order.
	total := &e.acc[0]
	for w := 1; w < e.workers; w++ {
		part := &e.acc[w]
		for i := range part.dvx {
			total.dvx[i] += part.dvx[i]
			total.dvy[i] += part.dvy[i]
		}
		total.pairs += part.pairs
		total.interactions += part.interactions
	}
	return TickStats{Pairs: total.pairs, Interactions: total.interactions, OccupiedCells: len(occupied)}
}

// Deltas returns the velocity deltas from the last Accumulate call.
// The slices are reused by the next call.
func (e *InteractionEngine) Deltas() (dvx, dvy []float64) {
	return e.acc[0].dvx, e.acc[0].dvy
}

func (e *InteractionEngine) accumulateCell(acc *accumulator, particles []Particle, c Cell) {
	members := e.grid.ParticlesIn(c)
	neighbors := e.grid.NeighborCells(c)
	for n, i := range members {
		for _, j := range members[n+1:] {
			e.interact(acc, particles, i, j)
		}
		for _, nc := range neighbors {
			for _, j := range e.grid.ParticlesIn(nc) {
				e.interact(acc, particles, i, j)
			}
		}
	}
}

// interact applies the force particle i feels from j and the one j feels
// from i. The two use their own matrix coefficients.
func (e *InteractionEngine) interact(acc *accumulator, particles []Particle, i, j int) {
	p, o := &particles[i], &particles[j]
	dx := ToroidalDelta(p.X, o.X, e.width)
	dy := ToroidalDelta(p.Y, o.Y, e.height)
	acc.pairs++

	distance := math.Hypot(dx, dy)
	if distance == 0 {
		return
	}

	onP := e.profile.Force(distance, e.matrix.Coefficient(p.Type, o.Type))
	onO := e.profile.Force(distance, e.matrix.Coefficient(o.Type, p.Type))
	if onP != 0 {
		acc.dvx[i] += onP * dx / distance
		acc.dvy[i] += onP * dy / distance
	}
	if onO != 0 {
		acc.dvx[j] += -onO * dx / distance
		acc.dvy[j] += -onO * dy / distance
	}
	if onP != 0 || onO != 0 {
		acc.interactions++
	}
}

// ToroidalDelta returns to-from along an axis of length size, taking the
// short way around when the direct distance exceeds half the axis.
func ToroidalDelta(from, to, size float64) float64 {
	d := to - from
	if ad := math.Abs(d); ad > size/2 {
		d = -math.Copysign(size-ad, d)
	}
	return d
}
