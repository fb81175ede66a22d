// Command particle-server runs a particle life world without a window. It can
// print a report after a fixed number of ticks, export a PNG of the final
// state, and serve snapshots, a websocket stream and metrics over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/olivierh59500/particlelife/internal/config"
	"github.com/olivierh59500/particlelife/internal/life"
	"github.com/olivierh59500/particlelife/internal/metrics"
	"github.com/olivierh59500/particlelife/internal/render"
	"github.com/olivierh59500/particlelife/internal/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/time/rate"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables only")
	} else {
		log.Println("Loaded environment from .env")
	}

	app := config.Load()
	sim := &app.Simulation
	srv := &app.Server

	var (
		ticks  int
		png    string
		layout string
	)
	flag.IntVar(&ticks, "ticks", 0, "ticks to run, 0 runs until interrupted")
	flag.StringVar(&png, "png", "", "write the final state to this PNG file")
	flag.StringVar(&srv.Addr, "serve", srv.Addr, "HTTP listen address, empty disables serving")
	flag.Float64Var(&srv.TPS, "tps", srv.TPS, "ticks per second, 0 runs unpaced")
	flag.StringVar(&sim.Matrix, "matrix", sim.Matrix, `force matrix: "default", "random" or a JSON file`)
	flag.Int64Var(&sim.World.Seed, "seed", sim.World.Seed, "seed for placement and random matrices")
	flag.IntVar(&sim.World.NumParticles, "particles", sim.World.NumParticles, "number of particles")
	flag.IntVar(&sim.World.NumTypes, "types", sim.World.NumTypes, "number of particle types")
	flag.IntVar(&sim.World.Workers, "workers", sim.World.Workers, "force accumulation goroutines")
	flag.StringVar(&layout, "layout", sim.World.Layout.String(), "initial layout: uniform or perlin")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	l, err := life.ParseLayout(layout)
	if err != nil {
		log.Fatal(err)
	}
	sim.World.Layout = l

	if ticks == 0 && srv.Addr == "" {
		log.Fatal("error: -ticks must be > 0 when -serve is not set")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	collector := metrics.NewCollector(reg)

	matrix, err := sim.ForceMatrix()
	if err != nil {
		log.Fatalf("force matrix: %v", err)
	}
	world, err := life.NewWorld(sim.World, matrix, life.WithLogger(logger), life.WithObserver(collector))
	if err != nil {
		log.Fatalf("world: %v", err)
	}
	collector.SetParticles(world.Len())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var httpServer *http.Server
	if srv.Addr != "" {
		hub := server.NewHub(logger, nil)
		go hub.Run(ctx)
		go hub.StartBroadcastLoop(ctx, world, srv.BroadcastInterval)

		httpServer = &http.Server{
			Addr: srv.Addr,
			Handler: server.NewRouter(server.RouterConfig{
				Source:      world,
				Hub:         hub,
				Gatherer:    reg,
				CORSOrigins: srv.CORSOrigins,
			}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			log.Printf("Serving on %s", srv.Addr)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("HTTP server error: %v", err)
				stop()
			}
		}()
	}

	var pacer life.Pacer
	if srv.TPS > 0 {
		pacer = rate.NewLimiter(rate.Limit(srv.TPS), 1)
	}

	start := time.Now()
	var totalPairs, totalInteractions int
	err = world.Run(ctx, pacer, ticks, func(s life.TickStats) {
		totalPairs += s.Pairs
		totalInteractions += s.Interactions
	})
	elapsed := time.Since(start)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("Run stopped: %v", err)
	}

	printReport(world, elapsed, totalPairs, totalInteractions)

	if png != "" {
		w, h := world.Bounds()
		img := render.Snapshot(world.Snapshot(nil), int(w), int(h), world.Matrix().Types())
		if err := render.SavePNG(png, img); err != nil {
			log.Printf("PNG export failed: %v", err)
		} else {
			log.Printf("Wrote %s", png)
		}
	}

	if httpServer != nil {
		if ticks > 0 && ctx.Err() == nil {
			// Keep serving the final state until interrupted.
			<-ctx.Done()
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP shutdown: %v", err)
		}
	}
}

func printReport(world *life.World, elapsed time.Duration, pairs, interactions int) {
	cfg := world.Config()
	ticks := world.Tick()
	fmt.Printf("=== Particle Life Report ===\n")
	fmt.Printf("particles=%d types=%d world=%gx%g seed=%d layout=%s\n",
		world.Len(), cfg.NumTypes, cfg.Width, cfg.Height, cfg.Seed, cfg.Layout)
	fmt.Printf("ticks=%d elapsed=%s", ticks, elapsed.Round(time.Millisecond))
	if ticks > 0 {
		fmt.Printf(" per_tick=%s avg_pairs=%d avg_interactions=%d",
			(elapsed / time.Duration(ticks)).Round(time.Microsecond),
			pairs/int(ticks), interactions/int(ticks))
	}
	fmt.Println()

	gs := world.GridStats()
	fmt.Printf("grid cells=%d occupied=%d max_in_cell=%d avg_per_occupied=%.2f\n",
		gs.TotalCells, gs.NonEmptyCells, gs.MaxInCell, gs.AvgPerNonEmpty)

	counts := make([]int, cfg.NumTypes)
	var kinetic float64
	for _, p := range world.Snapshot(nil) {
		counts[p.Type]++
		kinetic += 0.5 * (p.VX*p.VX + p.VY*p.VY)
	}
	for t, n := range counts {
		fmt.Printf("  %-8s %d\n", life.ParticleType(t), n)
	}
	fmt.Printf("kinetic_energy=%.4f\n", kinetic)
}
