// Package life implements the particle life interaction engine: typed point
// particles on a toroidal plane pulled and pushed by an asymmetric
// type-to-type force matrix, with a uniform grid pruning pairwise checks.
//
// The engine owns no display resources. Callers advance it one tick at a
// time and read particle state back through snapshots.
package life

import "strconv"

// MaxTypes bounds the number of particle types a world may use.
const MaxTypes = 16

// ParticleType indexes rows and columns of a ForceMatrix.
type ParticleType uint8

// The four types of the default palette.
const (
	TypeYellow ParticleType = iota
	TypeCyan
	TypeMagenta
	TypeGreen
)

// DefaultTypeCount is the number of types in the default palette.
const DefaultTypeCount = 4

var typeNames = [DefaultTypeCount]string{"yellow", "cyan", "magenta", "green"}

// String returns the palette name for default types and "type-N" otherwise.
func (t ParticleType) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "type-" + strconv.Itoa(int(t))
}

// Particle is a single point in the world.
// Radius is carried for renderers; the engine never reads it.
type Particle struct {
	X, Y   float64 // Position
	VX, VY float64 // Velocity
	Type   ParticleType
	Radius float64
}
