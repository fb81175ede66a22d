// Package metrics exposes simulation tick statistics as Prometheus metrics.
package metrics

import (
	"time"

	"github.com/olivierh59500/particlelife/internal/life"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector implements life.TickObserver.
// Labels are fixed; nothing per particle is exported.
type Collector struct {
	tickDuration  prometheus.Histogram
	ticks         prometheus.Counter
	pairs         prometheus.Counter
	interactions  prometheus.Counter
	occupiedCells prometheus.Gauge
	particles     prometheus.Gauge
	lastTick      prometheus.Gauge
}

// NewCollector registers the simulation metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		tickDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "particlelife_tick_duration_seconds",
			Help:    "Time spent in one simulation tick",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		}),
		ticks: f.NewCounter(prometheus.CounterOpts{
			Name: "particlelife_ticks_total",
			Help: "Completed simulation ticks",
		}),
		pairs: f.NewCounter(prometheus.CounterOpts{
			Name: "particlelife_pair_evaluations_total",
			Help: "Candidate pairs evaluated by the interaction engine",
		}),
		interactions: f.NewCounter(prometheus.CounterOpts{
			Name: "particlelife_interactions_total",
			Help: "Pair evaluations that applied a nonzero force",
		}),
		occupiedCells: f.NewGauge(prometheus.GaugeOpts{
			Name: "particlelife_occupied_cells",
			Help: "Grid cells holding at least one particle in the last tick",
		}),
		particles: f.NewGauge(prometheus.GaugeOpts{
			Name: "particlelife_particles",
			Help: "Particles in the world",
		}),
		lastTick: f.NewGauge(prometheus.GaugeOpts{
			Name: "particlelife_tick",
			Help: "Number of the last completed tick",
		}),
	}
}

// SetParticles records the particle count, which is fixed for a run.
func (c *Collector) SetParticles(n int) {
	c.particles.Set(float64(n))
}

// ObserveTick records one tick.
func (c *Collector) ObserveTick(stats life.TickStats, elapsed time.Duration) {
	c.tickDuration.Observe(elapsed.Seconds())
	c.ticks.Inc()
	c.pairs.Add(float64(stats.Pairs))
	c.interactions.Add(float64(stats.Interactions))
	c.occupiedCells.Set(float64(stats.OccupiedCells))
	c.lastTick.Set(float64(stats.Tick))
}
