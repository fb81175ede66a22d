package config

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/olivierh59500/particlelife/internal/life"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Simulation.World.Validate(); err != nil {
		t.Fatalf("default world invalid: %v", err)
	}
	if cfg.Simulation.Matrix != "default" {
		t.Errorf("Matrix = %q, want default", cfg.Simulation.Matrix)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PARTICLE_WIDTH", "800")
	t.Setenv("PARTICLE_COUNT", "1200")
	t.Setenv("PARTICLE_SEED", "8")
	t.Setenv("PARTICLE_LAYOUT", "perlin")
	t.Setenv("PARTICLE_MATRIX", "random")
	t.Setenv("SERVER_ADDR", ":9090")
	t.Setenv("SERVER_BROADCAST_MS", "250")

	cfg := Load()
	w := cfg.Simulation.World
	if w.Width != 800 || w.NumParticles != 1200 || w.Seed != 8 {
		t.Errorf("world = %+v, want width 800, 1200 particles, seed 8", w)
	}
	if w.Layout != life.LayoutPerlin {
		t.Errorf("Layout = %v, want perlin", w.Layout)
	}
	if cfg.Simulation.Matrix != "random" {
		t.Errorf("Matrix = %q, want random", cfg.Simulation.Matrix)
	}
	if cfg.Server.Addr != ":9090" || cfg.Server.BroadcastInterval != 250*time.Millisecond {
		t.Errorf("server = %+v", cfg.Server)
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("PARTICLE_COUNT", "many")
	t.Setenv("PARTICLE_FRICTION", "sticky")
	t.Setenv("PARTICLE_LAYOUT", "spiral")

	cfg := Load()
	def := Default()
	if cfg.Simulation.World != def.Simulation.World {
		t.Errorf("world = %+v, want defaults", cfg.Simulation.World)
	}
}

func TestLoadWarnsOnUnknownLayout(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	t.Setenv("PARTICLE_LAYOUT", "spiral")
	if got := Load().Simulation.World.Layout; got != life.LayoutUniform {
		t.Errorf("Layout = %v, want uniform", got)
	}
	out := buf.String()
	if !strings.Contains(out, "PARTICLE_LAYOUT") || !strings.Contains(out, "spiral") {
		t.Errorf("log = %q, want a warning naming PARTICLE_LAYOUT", out)
	}

	buf.Reset()
	t.Setenv("PARTICLE_LAYOUT", "perlin")
	if got := Load().Simulation.World.Layout; got != life.LayoutPerlin {
		t.Errorf("Layout = %v, want perlin", got)
	}
	if buf.Len() != 0 {
		t.Errorf("unexpected log for a valid layout: %q", buf.String())
	}
}

func TestSimulationForceMatrix(t *testing.T) {
	s := DefaultSimulation()
	m, err := s.ForceMatrix()
	if err != nil {
		t.Fatal(err)
	}
	if got := m.Coefficient(life.TypeCyan, life.TypeYellow); got != 0.04 {
		t.Errorf("default matrix cyan/yellow = %v, want 0.04", got)
	}

	s.Matrix = "random"
	a, err := s.ForceMatrix()
	if err != nil {
		t.Fatal(err)
	}
	b, _ := s.ForceMatrix()
	if a.Coefficient(0, 1) != b.Coefficient(0, 1) {
		t.Error("random matrix not reproducible from seed")
	}

	s.World.NumTypes = 6
	s.Matrix = "default"
	m, err = s.ForceMatrix()
	if err != nil {
		t.Fatal(err)
	}
	if m.Types() != 6 {
		t.Errorf("default with 6 types built %d types", m.Types())
	}
}

func TestSimulationForceMatrixFromFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.json")
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(good, []byte(`[[0.1, -0.2], [0.3, 0]]`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bad, []byte(`[[0.1, -0.2], [0.3]]`), 0o644); err != nil {
		t.Fatal(err)
	}

	s := DefaultSimulation()
	s.Matrix = good
	m, err := s.ForceMatrix()
	if err != nil {
		t.Fatal(err)
	}
	if m.Types() != 2 || m.Coefficient(0, 1) != -0.2 {
		t.Errorf("matrix = %v", m.Rows())
	}

	s.Matrix = bad
	if _, err := s.ForceMatrix(); !errors.Is(err, life.ErrConfiguration) {
		t.Errorf("ragged file: err = %v, want ErrConfiguration", err)
	}

	s.Matrix = filepath.Join(dir, "missing.json")
	if _, err := s.ForceMatrix(); err == nil {
		t.Error("expected error for missing file")
	}
}
