package life

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
)

// DefaultMaxRandomForce bounds coefficients drawn by RandomForceMatrix in the
// reference setup.
const DefaultMaxRandomForce = 0.3

// ForceMatrix holds the coefficient felt by a particle of type a from a
// particle of type b. It is not symmetric and never changes after
// construction.
type ForceMatrix struct {
	n int
	k []float64 // row-major, k[a*n+b]
}

// NewForceMatrix copies rows into a matrix. Every row must have one entry per
// type; there is no implicit default.
func NewForceMatrix(rows [][]float64) (*ForceMatrix, error) {
	n := len(rows)
	if n == 0 || n > MaxTypes {
		return nil, configErrorf("force matrix", "needs 1 to %d types, got %d", MaxTypes, n)
	}
	m := &ForceMatrix{n: n, k: make([]float64, n*n)}
	for a, row := range rows {
		if len(row) != n {
			return nil, configErrorf("force matrix", "row %d has %d entries, want %d", a, len(row), n)
		}
		for b, v := range row {
			if !finite(v) {
				return nil, configErrorf("force matrix", "entry [%d][%d] is not finite", a, b)
			}
			m.k[a*n+b] = v
		}
	}
	return m, nil
}

// DefaultForceMatrix returns the reference table for the four default types.
// Each type is drawn to its own kind and chases the next type in the palette.
func DefaultForceMatrix() *ForceMatrix {
	m, err := NewForceMatrix([][]float64{
		{-0.1, -0.05, 0, 0},
		{0.04, -0.1, -0.06, 0},
		{0, 0.05, -0.1, -0.07},
		{0, 0, 0.06, -0.1},
	})
	if err != nil {
		panic(err)
	}
	return m
}

// RandomForceMatrix draws every coefficient uniformly from [-maxAbs, maxAbs].
// The same seed always yields the same matrix.
func RandomForceMatrix(types int, maxAbs float64, seed int64) (*ForceMatrix, error) {
	if types < 1 || types > MaxTypes {
		return nil, configErrorf("force matrix", "needs 1 to %d types, got %d", MaxTypes, types)
	}
	if !finite(maxAbs) || maxAbs < 0 {
		return nil, configErrorf("force matrix", "max random force must be a finite non-negative value")
	}
	rng := rand.New(rand.NewSource(seed))
	m := &ForceMatrix{n: types, k: make([]float64, types*types)}
	for i := range m.k {
		m.k[i] = (rng.Float64()*2 - 1) * maxAbs
	}
	return m, nil
}

// Types returns the number of particle types the matrix covers.
func (m *ForceMatrix) Types() int { return m.n }

// Coefficient returns the maximum force a particle of type a feels from b.
func (m *ForceMatrix) Coefficient(a, b ParticleType) float64 {
	return m.k[int(a)*m.n+int(b)]
}

// Rows returns a copy of the matrix as nested slices.
func (m *ForceMatrix) Rows() [][]float64 {
	rows := make([][]float64, m.n)
	for a := range rows {
		rows[a] = append([]float64(nil), m.k[a*m.n:(a+1)*m.n]...)
	}
	return rows
}

// MarshalJSON encodes the matrix as [from][to] nested arrays.
func (m *ForceMatrix) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Rows())
}

// UnmarshalJSON decodes nested arrays and validates them like NewForceMatrix.
func (m *ForceMatrix) UnmarshalJSON(data []byte) error {
	var rows [][]float64
	if err := json.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("decode force matrix: %w", err)
	}
	parsed, err := NewForceMatrix(rows)
	if err != nil {
		return err
	}
	*m = *parsed
	return nil
}

// ReadForceMatrix decodes a JSON matrix from r.
func ReadForceMatrix(r io.Reader) (*ForceMatrix, error) {
	var m ForceMatrix
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// WriteJSON writes the matrix to w in the format ReadForceMatrix accepts.
func (m *ForceMatrix) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m.Rows())
}
