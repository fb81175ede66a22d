package metrics

import (
	"testing"
	"time"

	"github.com/olivierh59500/particlelife/internal/life"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectorObserveTick(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.SetParticles(700)

	c.ObserveTick(life.TickStats{Tick: 1, Pairs: 120, Interactions: 80, OccupiedCells: 30}, 2*time.Millisecond)
	c.ObserveTick(life.TickStats{Tick: 2, Pairs: 100, Interactions: 60, OccupiedCells: 28}, 3*time.Millisecond)

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"ticks", testutil.ToFloat64(c.ticks), 2},
		{"pairs", testutil.ToFloat64(c.pairs), 220},
		{"interactions", testutil.ToFloat64(c.interactions), 140},
		{"occupied cells", testutil.ToFloat64(c.occupiedCells), 28},
		{"particles", testutil.ToFloat64(c.particles), 700},
		{"last tick", testutil.ToFloat64(c.lastTick), 2},
	}
	for _, tt := range checks {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}

	if n := testutil.CollectAndCount(c.tickDuration); n != 1 {
		t.Errorf("tick duration series = %d, want 1", n)
	}
}

func TestCollectorAsWorldObserver(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	cfg := life.DefaultConfig()
	cfg.NumParticles = 200
	w, err := life.NewWorld(cfg, life.DefaultForceMatrix(), life.WithObserver(c))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 4; i++ {
		w.Step()
	}
	if got := testutil.ToFloat64(c.ticks); got != 4 {
		t.Errorf("ticks = %v, want 4", got)
	}
	if got := testutil.ToFloat64(c.lastTick); got != 4 {
		t.Errorf("last tick = %v, want 4", got)
	}
}
