package render

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/olivierh59500/particlelife/internal/life"
)

func TestTypeColorDefaultPalette(t *testing.T) {
	if got := TypeColor(life.TypeYellow, 4); got != (color.RGBA{255, 255, 0, 255}) {
		t.Errorf("yellow = %v", got)
	}
	if got := TypeColor(life.TypeGreen, 4); got != (color.RGBA{0, 255, 0, 255}) {
		t.Errorf("green = %v", got)
	}
	// Hue wheel for larger palettes: type 0 is red.
	if got := TypeColor(0, 8); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("type 0 of 8 = %v, want red", got)
	}
}

func TestSnapshotDrawsParticles(t *testing.T) {
	ps := []life.Particle{
		{X: 10, Y: 10, Type: life.TypeCyan, Radius: 3},
		{X: 40, Y: 30, Type: life.TypeMagenta},
	}
	img := Snapshot(ps, 64, 48, 4)
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 48 {
		t.Fatalf("bounds = %v, want 64x48", b)
	}
	r, g, b, _ := img.At(10, 10).RGBA()
	if r>>8 != 0 || g>>8 != 255 || b>>8 != 255 {
		t.Errorf("pixel at particle = (%d, %d, %d), want cyan", r>>8, g>>8, b>>8)
	}
	r, g, b, _ = img.At(60, 5).RGBA()
	if r>>8 != 11 || g>>8 != 10 || b>>8 != 34 {
		t.Errorf("background pixel = (%d, %d, %d)", r>>8, g>>8, b>>8)
	}
}

func TestSavePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matrix.png")
	if err := SavePNG(path, MatrixOverlay(life.DefaultForceMatrix(), 30)); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Error("empty PNG")
	}

	if err := SavePNG(filepath.Join(t.TempDir(), "missing", "x.png"), Snapshot(nil, 4, 4, 1)); err == nil {
		t.Error("expected error for missing directory")
	}
}
