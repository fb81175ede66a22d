package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/olivierh59500/particlelife/internal/life"
)

// Snapshot draws particles onto a width x height image at scale 1.
func Snapshot(particles []life.Particle, width, height, types int) image.Image {
	dc := gg.NewContext(width, height)
	dc.SetColor(Background)
	dc.DrawRectangle(0, 0, float64(width), float64(height))
	dc.Fill()

	for _, p := range particles {
		dc.SetColor(TypeColor(p.Type, types))
		r := p.Radius
		if r <= 0 {
			r = 1
		}
		dc.DrawCircle(p.X, p.Y, r)
		dc.Fill()
	}
	return dc.Image()
}

// MatrixOverlay draws the force matrix as a table of colored cells with the
// type colors as headers. Negative coefficients pull across the whole band and
// are drawn green; positive ones push and are drawn red.
func MatrixOverlay(m *life.ForceMatrix, cellSize int) image.Image {
	n := m.Types()
	size := (n + 1) * cellSize
	dc := gg.NewContext(size, size)
	dc.SetColor(Background)
	dc.Clear()

	half := float64(cellSize) / 2
	for i := 0; i < n; i++ {
		c := TypeColor(life.ParticleType(i), n)
		dc.SetColor(c)
		dc.DrawCircle(float64((i+1)*cellSize)+half, half, half*0.6)
		dc.Fill()
		dc.DrawCircle(half, float64((i+1)*cellSize)+half, half*0.6)
		dc.Fill()
	}

	rows := m.Rows()
	for a, row := range rows {
		for b, k := range row {
			x := float64((b + 1) * cellSize)
			y := float64((a + 1) * cellSize)
			dc.SetColor(coefficientColor(k))
			dc.DrawRectangle(x, y, float64(cellSize), float64(cellSize))
			dc.Fill()
			dc.SetColor(color.White)
			dc.DrawRectangle(x, y, float64(cellSize), float64(cellSize))
			dc.Stroke()
			dc.DrawStringAnchored(fmt.Sprintf("%.2f", k), x+half, y+half, 0.5, 0.5)
		}
	}
	return dc.Image()
}

func coefficientColor(k float64) color.RGBA {
	v := k / life.DefaultMaxRandomForce
	if v > 1 {
		v = 1
	}
	if v < -1 {
		v = -1
	}
	if v < 0 {
		return color.RGBA{0, uint8(-v * 200), 0, 255}
	}
	return color.RGBA{uint8(v * 200), 0, 0, 255}
}

// SavePNG writes img to path.
func SavePNG(path string, img image.Image) error {
	if err := gg.SavePNG(path, img); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
