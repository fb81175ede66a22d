package life

import (
	"math"
	"math/rand"
	"testing"
)

func randomParticles(n int, width, height float64, seed int64) []Particle {
	rng := rand.New(rand.NewSource(seed))
	ps := make([]Particle, n)
	for i := range ps {
		ps[i] = Particle{X: rng.Float64() * width, Y: rng.Float64() * height, Type: ParticleType(rng.Intn(4))}
	}
	return ps
}

func TestGridDimension(t *testing.T) {
	tests := []struct {
		name          string
		width, height float64
		cell          float64
		want          int
	}{
		{"reference world", 1550, 900, 50, 32},
		{"exact multiple", 1000, 500, 50, 21},
		{"tall world", 100, 420, 50, 10},
		{"world smaller than a cell", 30, 20, 50, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewSpatialGrid(tt.width, tt.height, tt.cell, 10)
			if g.Dim() != tt.want {
				t.Errorf("Dim() = %d, want %d", g.Dim(), tt.want)
			}
		})
	}
}

func TestGridPartitionIsComplete(t *testing.T) {
	ps := randomParticles(800, 1550, 900, 3)
	g := NewSpatialGrid(1550, 900, 50, len(ps))
	g.Rebuild(ps)

	seen := make([]int, len(ps))
	for x := 0; x < g.Dim(); x++ {
		for y := 0; y < g.Dim(); y++ {
			for _, i := range g.ParticlesIn(Cell{X: x, Y: y}) {
				seen[i]++
				if c := g.CellOf(ps[i].X, ps[i].Y); c != (Cell{X: x, Y: y}) {
					t.Errorf("particle %d stored in %v, belongs to %v", i, Cell{X: x, Y: y}, c)
				}
			}
		}
	}
	for i, n := range seen {
		if n != 1 {
			t.Errorf("particle %d appears in %d cells", i, n)
		}
	}
	if s := g.Stats(); s.TotalParticles != len(ps) {
		t.Errorf("Stats().TotalParticles = %d, want %d", s.TotalParticles, len(ps))
	}
}

func TestGridRebuildClearsPreviousTick(t *testing.T) {
	g := NewSpatialGrid(200, 200, 50, 4)
	ps := []Particle{{X: 10, Y: 10}, {X: 20, Y: 20}}
	g.Rebuild(ps)
	if n := len(g.ParticlesIn(Cell{})); n != 2 {
		t.Fatalf("cell (0,0) holds %d particles, want 2", n)
	}

	ps[0].X, ps[0].Y = 160, 160
	g.Rebuild(ps)
	if n := len(g.ParticlesIn(Cell{})); n != 1 {
		t.Errorf("cell (0,0) holds %d particles after rebuild, want 1", n)
	}
	if got := g.ParticlesIn(Cell{X: 3, Y: 3}); len(got) != 1 || got[0] != 0 {
		t.Errorf("cell (3,3) = %v, want [0]", got)
	}
}

func TestGridOccupiedCellsRowMajor(t *testing.T) {
	g := NewSpatialGrid(200, 200, 50, 4)
	g.Rebuild([]Particle{{X: 160, Y: 10}, {X: 10, Y: 160}, {X: 60, Y: 10}, {X: 10, Y: 10}})
	got := g.OccupiedCells()
	want := []Cell{{0, 0}, {1, 0}, {3, 0}, {0, 3}}
	if len(got) != len(want) {
		t.Fatalf("OccupiedCells() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("OccupiedCells()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestNeighborCellsWrap(t *testing.T) {
	g := NewSpatialGrid(1550, 900, 50, 0)
	got := g.NeighborCells(Cell{X: 0, Y: 0})
	want := [8]Cell{
		{31, 31}, {31, 0}, {31, 1},
		{0, 31}, {0, 1},
		{1, 31}, {1, 0}, {1, 1},
	}
	if got != want {
		t.Errorf("NeighborCells(0,0) = %v, want %v", got, want)
	}

	got = g.NeighborCells(Cell{X: 31, Y: 5})
	if got[6] != (Cell{X: 0, Y: 5}) {
		t.Errorf("right neighbor of (31,5) = %v, want (0,5)", got[6])
	}
}

func TestCellOfJustBelowBoundary(t *testing.T) {
	g := NewSpatialGrid(1550, 900, 50, 10)
	for k := 1; k < 31; k++ {
		x := math.Nextafter(float64(k)*50, 0)
		if c := g.CellOf(x, x); c.X != k-1 || c.Y != (k-1)%g.Dim() {
			t.Errorf("CellOf(%v) = %v, want column %d", x, c, k-1)
		}
	}

	// 1/33.3 is inexact; multiplying by it would put this in cell 23.
	g = NewSpatialGrid(1550, 900, 33.3, 10)
	if c := g.CellOf(765.8999999999999, 0); c.X != 22 {
		t.Errorf("CellOf(765.8999999999999).X = %d, want 22", c.X)
	}
}

func TestCellOfMatchesFloorDivision(t *testing.T) {
	for _, cs := range []float64{33.3, 41.7, 50, 12.9} {
		g := NewSpatialGrid(1550, 900, cs, 10)
		for k := 1; float64(k)*cs < 1550; k++ {
			edge := float64(k) * cs
			for _, x := range []float64{math.Nextafter(edge, 0), edge, math.Nextafter(edge, math.Inf(1))} {
				want := floorMod(int(math.Floor(x/cs)), g.Dim())
				if got := g.CellOf(x, 0).X; got != want {
					t.Fatalf("cs=%v CellOf(%v).X = %d, want %d", cs, x, got, want)
				}
			}
		}
	}
}

func TestGridStorageTracksOccupiedCells(t *testing.T) {
	g := NewSpatialGrid(1e6, 10, 50, 10)
	if g.Dim() != 20001 {
		t.Fatalf("Dim() = %d, want 20001", g.Dim())
	}

	rng := rand.New(rand.NewSource(9))
	ps := randomParticles(10, 1e6, 10, 9)
	for tick := 0; tick < 200; tick++ {
		for i := range ps {
			ps[i].X = rng.Float64() * 1e6
		}
		g.Rebuild(ps)
		if limit := 2*len(g.occupied) + spareCells; len(g.cells) > limit {
			t.Fatalf("tick %d: %d stored cells, want at most %d", tick, len(g.cells), limit)
		}
	}

	s := g.Stats()
	if s.TotalCells != 20001*20001 {
		t.Errorf("TotalCells = %d, want %d", s.TotalCells, 20001*20001)
	}
	if s.TotalParticles != len(ps) {
		t.Errorf("TotalParticles = %d, want %d", s.TotalParticles, len(ps))
	}
	if got := g.ParticlesIn(Cell{X: 19999, Y: 19999}); len(got) != 0 {
		t.Errorf("ParticlesIn(empty) = %v, want empty", got)
	}
}
