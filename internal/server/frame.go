package server

import (
	"github.com/olivierh59500/particlelife/internal/life"
	"github.com/vmihailenco/msgpack/v5"
)

// Frame is the compact websocket payload: parallel arrays, one entry per
// particle, float32 positions.
type Frame struct {
	Tick   uint64    `msgpack:"tick"`
	Width  float64   `msgpack:"w"`
	Height float64   `msgpack:"h"`
	X      []float32 `msgpack:"x"`
	Y      []float32 `msgpack:"y"`
	Types  []uint8   `msgpack:"t"`
}

// Fill overwrites f from a snapshot, reusing its slices.
func (f *Frame) Fill(tick uint64, width, height float64, ps []life.Particle) {
	f.Tick = tick
	f.Width, f.Height = width, height
	f.X = f.X[:0]
	f.Y = f.Y[:0]
	f.Types = f.Types[:0]
	for _, p := range ps {
		f.X = append(f.X, float32(p.X))
		f.Y = append(f.Y, float32(p.Y))
		f.Types = append(f.Types, uint8(p.Type))
	}
}

// EncodeFrame serializes f with msgpack.
func EncodeFrame(f *Frame) ([]byte, error) {
	return msgpack.Marshal(f)
}

// DecodeFrame parses a msgpack frame.
func DecodeFrame(data []byte) (*Frame, error) {
	var f Frame
	if err := msgpack.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// ParticleView is the JSON shape of one particle in /api/state.
type ParticleView struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Type uint8   `json:"type"`
}

// StateView is the JSON body of /api/state.
type StateView struct {
	Tick      uint64         `json:"tick"`
	Width     float64        `json:"width"`
	Height    float64        `json:"height"`
	Particles []ParticleView `json:"particles"`
}
