package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/olivierh59500/particlelife/internal/config"
	"github.com/olivierh59500/particlelife/internal/life"
)

func main() {
	sim := config.Load().Simulation

	var layout string
	flag.IntVar(&sim.World.NumParticles, "particles", sim.World.NumParticles, "number of particles")
	flag.IntVar(&sim.World.NumTypes, "types", sim.World.NumTypes, "number of particle types")
	flag.Int64Var(&sim.World.Seed, "seed", sim.World.Seed, "seed for placement and random matrices")
	flag.StringVar(&sim.Matrix, "matrix", sim.Matrix, `force matrix: "default", "random" or a JSON file`)
	flag.IntVar(&sim.World.Workers, "workers", sim.World.Workers, "force accumulation goroutines")
	flag.StringVar(&layout, "layout", sim.World.Layout.String(), "initial layout: uniform or perlin")
	flag.Parse()

	l, err := life.ParseLayout(layout)
	if err != nil {
		log.Fatal(err)
	}
	sim.World.Layout = l

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	game, err := NewSimulation(sim, logger)
	if err != nil {
		log.Fatal(err)
	}

	// Set up Ebitengine game
	ebiten.SetWindowSize(int(sim.World.Width), int(sim.World.Height))
	ebiten.SetWindowTitle("Particle Life Simulation")
	ebiten.SetTPS(60)

	// Run the game loop
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
