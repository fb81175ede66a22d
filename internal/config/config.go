// Package config assembles application settings from defaults and
// environment variables. Command-line flags are applied on top by the
// commands themselves.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/olivierh59500/particlelife/internal/life"
)

// =============================================================================
// SIMULATION
// =============================================================================

// SimulationConfig selects the world and its force matrix.
type SimulationConfig struct {
	World life.Config

	// Matrix is "default", "random" or a path to a JSON matrix file.
	Matrix         string
	MaxRandomForce float64
}

// DefaultSimulation returns the reference world with the default matrix.
func DefaultSimulation() SimulationConfig {
	return SimulationConfig{
		World:          life.DefaultConfig(),
		Matrix:         "default",
		MaxRandomForce: life.DefaultMaxRandomForce,
	}
}

// ForceMatrix builds the matrix named by Matrix. Random matrices are drawn
// from the world seed so a run is reproducible from its configuration.
func (s SimulationConfig) ForceMatrix() (*life.ForceMatrix, error) {
	switch s.Matrix {
	case "", "default":
		if s.World.NumTypes != life.DefaultTypeCount {
			return life.RandomForceMatrix(s.World.NumTypes, s.MaxRandomForce, s.World.Seed)
		}
		return life.DefaultForceMatrix(), nil
	case "random":
		return life.RandomForceMatrix(s.World.NumTypes, s.MaxRandomForce, s.World.Seed)
	}

	f, err := os.Open(s.Matrix)
	if err != nil {
		return nil, fmt.Errorf("open force matrix: %w", err)
	}
	defer f.Close()
	m, err := life.ReadForceMatrix(f)
	if err != nil {
		return nil, fmt.Errorf("read force matrix %s: %w", s.Matrix, err)
	}
	return m, nil
}

// =============================================================================
// SERVER
// =============================================================================

// ServerConfig controls the headless runner and its HTTP surface.
type ServerConfig struct {
	Addr              string        // empty disables HTTP
	TPS               float64       // ticks per second, 0 = unpaced
	BroadcastInterval time.Duration // websocket frame interval
	CORSOrigins       []string
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Addr:              "",
		TPS:               60,
		BroadcastInterval: 100 * time.Millisecond, // 10 frames per second
		CORSOrigins:       []string{"http://localhost:*", "http://127.0.0.1:*"},
	}
}

// =============================================================================
// LOADING
// =============================================================================

// AppConfig groups every configuration section.
type AppConfig struct {
	Simulation SimulationConfig
	Server     ServerConfig
}

// Default returns defaults for every section.
func Default() AppConfig {
	return AppConfig{
		Simulation: DefaultSimulation(),
		Server:     DefaultServer(),
	}
}

// Load returns defaults overridden by environment variables.
func Load() AppConfig {
	cfg := Default()

	w := &cfg.Simulation.World
	w.Width = getEnvFloat("PARTICLE_WIDTH", w.Width)
	w.Height = getEnvFloat("PARTICLE_HEIGHT", w.Height)
	w.NumParticles = getEnvInt("PARTICLE_COUNT", w.NumParticles)
	w.NumTypes = getEnvInt("PARTICLE_TYPES", w.NumTypes)
	w.MinDist = getEnvFloat("PARTICLE_MIN_DIST", w.MinDist)
	w.MaxDist = getEnvFloat("PARTICLE_MAX_DIST", w.MaxDist)
	w.Friction = getEnvFloat("PARTICLE_FRICTION", w.Friction)
	w.RepulsiveStrength = getEnvFloat("PARTICLE_REPULSION", w.RepulsiveStrength)
	w.CellSize = getEnvFloat("PARTICLE_CELL_SIZE", w.CellSize)
	w.Seed = int64(getEnvInt("PARTICLE_SEED", int(w.Seed)))
	w.Workers = getEnvInt("PARTICLE_WORKERS", w.Workers)
	if v := os.Getenv("PARTICLE_LAYOUT"); v != "" {
		if l, err := life.ParseLayout(v); err == nil {
			w.Layout = l
		} else {
			slog.Warn("ignoring PARTICLE_LAYOUT", "value", v, "err", err)
		}
	}

	cfg.Simulation.Matrix = getEnvString("PARTICLE_MATRIX", cfg.Simulation.Matrix)
	cfg.Simulation.MaxRandomForce = getEnvFloat("PARTICLE_MAX_RANDOM_FORCE", cfg.Simulation.MaxRandomForce)

	s := &cfg.Server
	s.Addr = getEnvString("SERVER_ADDR", s.Addr)
	s.TPS = getEnvFloat("SERVER_TPS", s.TPS)
	if ms := getEnvInt("SERVER_BROADCAST_MS", 0); ms > 0 {
		s.BroadcastInterval = time.Duration(ms) * time.Millisecond
	}

	return cfg
}

func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
