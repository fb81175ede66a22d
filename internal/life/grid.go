package life

import (
	"math"
	"slices"
)

// Cell is an integer grid coordinate.
type Cell struct {
	X, Y int
}

// MaxGridDim bounds the grid modulus accepted by Config.Validate.
const MaxGridDim = 1 << 16

// gridDim returns max(ceil(W/cs), ceil(H/cs)) + 1 as a float so oversized
// worlds can be rejected before conversion.
func gridDim(width, height, cellSize float64) float64 {
	return math.Max(math.Ceil(width/cellSize), math.Ceil(height/cellSize)) + 1
}

// spareCells is how many empty cells a grid keeps between rebuilds before
// pruning them.
const spareCells = 64

// SpatialGrid buckets particle indices into square toroidal cells.
//
// Both axes wrap with the same modulus, dim = max(ceil(W/cs), ceil(H/cs)) + 1.
// Cells are keyed by row-major index (y*dim+x) and only exist once a particle
// lands in them. They keep their capacity across rebuilds, so a steady-state
// tick does not allocate.
type SpatialGrid struct {
	cellSize float64
	dim      int
	cells    map[int][]int
	occupied []int // cell indices holding at least one particle, ascending
}

// NewSpatialGrid sizes a grid for a width x height world.
func NewSpatialGrid(width, height, cellSize float64, particles int) *SpatialGrid {
	return &SpatialGrid{
		cellSize: cellSize,
		dim:      int(gridDim(width, height, cellSize)),
		cells:    make(map[int][]int, min(particles, 1024)),
		occupied: make([]int, 0, min(particles, 1024)),
	}
}

// Dim returns the modulus used on both axes.
func (g *SpatialGrid) Dim() int { return g.dim }

// CellSize returns the edge length of one cell.
func (g *SpatialGrid) CellSize() float64 { return g.cellSize }

// Clear empties every occupied cell without releasing memory.
func (g *SpatialGrid) Clear() {
	for _, idx := range g.occupied {
		g.cells[idx] = g.cells[idx][:0]
	}
	g.occupied = g.occupied[:0]
}

// Rebuild clears the grid and inserts every particle in one pass.
func (g *SpatialGrid) Rebuild(particles []Particle) {
	g.Clear()
	for i := range particles {
		idx := g.index(g.CellOf(particles[i].X, particles[i].Y))
		if len(g.cells[idx]) == 0 {
			g.occupied = append(g.occupied, idx)
		}
		g.cells[idx] = append(g.cells[idx], i)
	}
	slices.Sort(g.occupied)

	if len(g.cells) > 2*len(g.occupied)+spareCells {
		for idx, members := range g.cells {
			if len(members) == 0 {
				delete(g.cells, idx)
			}
		}
	}
}

// CellOf returns the cell holding position (x, y).
func (g *SpatialGrid) CellOf(x, y float64) Cell {
	return Cell{
		X: floorMod(int(math.Floor(x/g.cellSize)), g.dim),
		Y: floorMod(int(math.Floor(y/g.cellSize)), g.dim),
	}
}

// ParticlesIn returns the indices of the particles in c, in insertion order.
// The slice is owned by the grid and valid until the next Rebuild; it is empty
// for cells no particle has reached.
func (g *SpatialGrid) ParticlesIn(c Cell) []int {
	return g.cells[g.index(c)]
}

// NeighborCells returns the 8 cells around c, wrapped on both axes.
func (g *SpatialGrid) NeighborCells(c Cell) [8]Cell {
	var out [8]Cell
	n := 0
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			out[n] = Cell{X: floorMod(c.X+dx, g.dim), Y: floorMod(c.Y+dy, g.dim)}
			n++
		}
	}
	return out
}

// OccupiedCells lists the non-empty cells in row-major order.
func (g *SpatialGrid) OccupiedCells() []Cell {
	out := make([]Cell, len(g.occupied))
	for i, idx := range g.occupied {
		out[i] = g.cell(idx)
	}
	return out
}

// Stats returns grid statistics for debugging.
func (g *SpatialGrid) Stats() GridStats {
	var total, maxInCell int
	for _, idx := range g.occupied {
		count := len(g.cells[idx])
		total += count
		if count > maxInCell {
			maxInCell = count
		}
	}
	avg := 0.0
	if len(g.occupied) > 0 {
		avg = float64(total) / float64(len(g.occupied))
	}
	return GridStats{
		TotalCells:     g.dim * g.dim,
		NonEmptyCells:  len(g.occupied),
		TotalParticles: total,
		MaxInCell:      maxInCell,
		AvgPerNonEmpty: avg,
	}
}

// GridStats contains grid statistics for debugging.
type GridStats struct {
	TotalCells     int
	NonEmptyCells  int
	TotalParticles int
	MaxInCell      int
	AvgPerNonEmpty float64
}

func (g *SpatialGrid) index(c Cell) int { return c.Y*g.dim + c.X }

func (g *SpatialGrid) cell(idx int) Cell { return Cell{X: idx % g.dim, Y: idx / g.dim} }

func floorMod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}
