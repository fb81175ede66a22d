// Package render turns particle snapshots into images.
package render

import (
	"image/color"
	"math"

	"github.com/olivierh59500/particlelife/internal/life"
)

// Background is the world fill color.
var Background = color.RGBA{11, 10, 34, 255}

var palette = [life.DefaultTypeCount]color.RGBA{
	life.TypeYellow:  {255, 255, 0, 255},
	life.TypeCyan:    {0, 255, 255, 255},
	life.TypeMagenta: {255, 0, 255, 255},
	life.TypeGreen:   {0, 255, 0, 255},
}

// TypeColor returns the display color of t in a world of n types.
// The four default types keep their fixed colors; larger palettes are
// spread around the hue wheel.
func TypeColor(t life.ParticleType, n int) color.RGBA {
	if n <= life.DefaultTypeCount && int(t) < len(palette) {
		return palette[t]
	}
	h := float64(t) / float64(n) * 360
	r, g, b := hsvToRGB(h, 1, 1)
	return color.RGBA{uint8(r * 255), uint8(g * 255), uint8(b * 255), 255}
}

func hsvToRGB(h, s, v float64) (float64, float64, float64) {
	h = math.Mod(h, 360)
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c
	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return r + m, g + m, b + m
}
