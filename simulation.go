package main

import (
	"bytes"
	"fmt"
	"image/color"
	"log/slog"
	"os"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/olivierh59500/particlelife/internal/config"
	"github.com/olivierh59500/particlelife/internal/life"
	"github.com/olivierh59500/particlelife/internal/render"
	"golang.org/x/image/font/basicfont"
)

const (
	matrixFile     = "config.json"
	overlayCell    = 30 // matrix overlay cell size in pixels
	overlayMargin  = 10
	statusLineYPos = 16
)

// Simulation is the ebiten game driving a life.World. It draws particles and
// the force matrix and maps keys to world operations; the physics lives in
// the world.
type Simulation struct {
	world *life.World
	sim   config.SimulationConfig
	log   *slog.Logger

	Paused     bool
	ShowMatrix bool

	matrixSeed int64
	snap       []life.Particle
	overlay    *ebiten.Image
	status     string
}

// NewSimulation creates a world from sim.
func NewSimulation(sim config.SimulationConfig, log *slog.Logger) (*Simulation, error) {
	m, err := sim.ForceMatrix()
	if err != nil {
		return nil, err
	}
	world, err := life.NewWorld(sim.World, m, life.WithLogger(log))
	if err != nil {
		return nil, err
	}
	return &Simulation{
		world:      world,
		sim:        sim,
		log:        log,
		ShowMatrix: true,
		matrixSeed: sim.World.Seed,
	}, nil
}

// Update is called each tick by Ebitengine
func (s *Simulation) Update() error {
	s.handleInput()

	if s.Paused {
		if inpututil.IsKeyJustPressed(ebiten.KeyN) {
			s.world.Step()
		}
		return nil
	}
	s.world.Step()
	return nil
}

// Draw is called each frame by Ebitengine
func (s *Simulation) Draw(screen *ebiten.Image) {
	screen.Fill(render.Background)

	types := s.world.Matrix().Types()
	s.snap = s.world.Snapshot(s.snap)
	for _, p := range s.snap {
		vector.DrawFilledCircle(screen, float32(p.X), float32(p.Y), float32(p.Radius), render.TypeColor(p.Type, types), true)
	}

	y := statusLineYPos
	if s.ShowMatrix {
		if s.overlay == nil {
			s.overlay = ebiten.NewImageFromImage(render.MatrixOverlay(s.world.Matrix(), overlayCell))
		}
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(overlayMargin, overlayMargin)
		op.ColorScale.ScaleAlpha(0.85)
		screen.DrawImage(s.overlay, op)
		y += s.overlay.Bounds().Dy() + overlayMargin
	}

	line := fmt.Sprintf("tick %d  %.0f TPS", s.world.Tick(), ebiten.ActualTPS())
	if s.Paused {
		line += "  [paused, N steps]"
	}
	text.Draw(screen, line, basicfont.Face7x13, overlayMargin, y, color.White)
	if s.status != "" {
		text.Draw(screen, s.status, basicfont.Face7x13, overlayMargin, y+16, color.White)
	}
}

// Layout returns the screen size
func (s *Simulation) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := s.world.Bounds()
	return int(w), int(h)
}

// handleInput processes keyboard input
func (s *Simulation) handleInput() {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		s.Paused = !s.Paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		s.ShowMatrix = !s.ShowMatrix
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		s.randomizeMatrix()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		s.saveMatrix(matrixFile)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyL) {
		s.loadMatrix(matrixFile)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		s.copyMatrix()
	}
}

// replaceMatrix rebuilds the world around the current particles. The force
// matrix is immutable, so a new matrix means a new world.
func (s *Simulation) replaceMatrix(m *life.ForceMatrix) error {
	cfg := s.world.Config()
	cfg.NumTypes = m.Types()
	world, err := life.NewWorldFromParticles(cfg, m, s.world.Snapshot(nil), life.WithLogger(s.log))
	if err != nil {
		return err
	}
	s.world = world
	s.overlay = nil
	return nil
}

// randomizeMatrix draws a new matrix from the next seed
func (s *Simulation) randomizeMatrix() {
	s.matrixSeed++
	m, err := life.RandomForceMatrix(s.world.Matrix().Types(), s.sim.MaxRandomForce, s.matrixSeed)
	if err == nil {
		err = s.replaceMatrix(m)
	}
	s.report(fmt.Sprintf("random matrix seed %d", s.matrixSeed), err)
}

// saveMatrix saves to JSON
func (s *Simulation) saveMatrix(filename string) {
	var buf bytes.Buffer
	err := s.world.Matrix().WriteJSON(&buf)
	if err == nil {
		err = os.WriteFile(filename, buf.Bytes(), 0o644)
	}
	s.report("saved "+filename, err)
}

// loadMatrix loads from JSON
func (s *Simulation) loadMatrix(filename string) {
	f, err := os.Open(filename)
	if err != nil {
		s.report("", err)
		return
	}
	defer f.Close()
	m, err := life.ReadForceMatrix(f)
	if err == nil {
		err = s.replaceMatrix(m)
	}
	s.report("loaded "+filename, err)
}

// copyMatrix puts the matrix JSON on the clipboard
func (s *Simulation) copyMatrix() {
	var buf bytes.Buffer
	err := s.world.Matrix().WriteJSON(&buf)
	if err == nil {
		err = clipboard.WriteAll(buf.String())
	}
	s.report("matrix copied to clipboard", err)
}

func (s *Simulation) report(msg string, err error) {
	if err != nil {
		s.status = "error: " + err.Error()
		s.log.Error("matrix operation failed", "err", err)
		return
	}
	s.status = msg
	s.log.Info(msg)
}
