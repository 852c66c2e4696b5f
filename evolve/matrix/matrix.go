// Package matrix provides the dense parameter matrix used by the networks.
// Storage is a flat row-major slice owned exclusively by its Matrix; every
// operation that yields a different shape or a genetic offspring allocates
// fresh storage, so two matrices never alias each other.
package matrix

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrInvalidDimensions indicates that requested matrix dimensions are non-positive.
	ErrInvalidDimensions = errors.New("matrix: dimensions must be > 0")

	// ErrDimensionMismatch indicates that two operands have incompatible shapes.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrIndexOutOfBounds indicates that a row or column index is outside valid range.
	ErrIndexOutOfBounds = errors.New("matrix: index out of bounds")
)

// Source is the random source consumed by Randomize, Crossover and Mutate.
// *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// Matrix is a rows×cols grid of float64 values.
type Matrix struct {
	rows, cols int
	data       []float64 // len == rows*cols
}

// New creates a zero-filled rows×cols matrix.
func New(rows, cols int) (*Matrix, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("New(%d,%d): %w", rows, cols, ErrInvalidDimensions)
	}
	return &Matrix{rows: rows, cols: cols, data: make([]float64, rows*cols)}, nil
}

// FromVector builds a column matrix (len(values)×1) holding a copy of values.
func FromVector(values []float64) (*Matrix, error) {
	m, err := New(len(values), 1)
	if err != nil {
		return nil, fmt.Errorf("FromVector: %w", err)
	}
	copy(m.data, values)
	return m, nil
}

// newUnchecked allocates a matrix whose dimensions are already known to be valid.
func newUnchecked(rows, cols int) *Matrix {
	return &Matrix{rows: rows, cols: cols, data: make([]float64, rows*cols)}
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Matrix) Cols() int { return m.cols }

// Shape returns (rows, cols).
func (m *Matrix) Shape() (int, int) { return m.rows, m.cols }

// SameShape reports whether m and other have identical dimensions.
func (m *Matrix) SameShape(other *Matrix) bool {
	return m.rows == other.rows && m.cols == other.cols
}

// At returns the element at (row, col).
func (m *Matrix) At(row, col int) (float64, error) {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		return 0, fmt.Errorf("At(%d,%d): %w", row, col, ErrIndexOutOfBounds)
	}
	return m.data[row*m.cols+col], nil
}

// Set assigns v to the element at (row, col).
func (m *Matrix) Set(row, col int, v float64) error {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		return fmt.Errorf("Set(%d,%d): %w", row, col, ErrIndexOutOfBounds)
	}
	m.data[row*m.cols+col] = v
	return nil
}

// ToVector returns the contents flattened in row-major order.
func (m *Matrix) ToVector() []float64 {
	out := make([]float64, len(m.data))
	copy(out, m.data)
	return out
}

// Clone returns a deep copy of m.
func (m *Matrix) Clone() *Matrix {
	c := newUnchecked(m.rows, m.cols)
	copy(c.data, m.data)
	return c
}

// Equal reports whether m and other have the same shape and identical cells.
func (m *Matrix) Equal(other *Matrix) bool {
	if other == nil || !m.SameShape(other) {
		return false
	}
	for i, v := range m.data {
		if other.data[i] != v {
			return false
		}
	}
	return true
}

// String returns a short description of the matrix.
func (m *Matrix) String() string {
	return fmt.Sprintf("Matrix(%dx%d)", m.rows, m.cols)
}

// Multiply returns the matrix product a·b, which has shape a.Rows()×b.Cols().
func Multiply(a, b *Matrix) (*Matrix, error) {
	if a.cols != b.rows {
		return nil, fmt.Errorf("Multiply(%dx%d, %dx%d): %w", a.rows, a.cols, b.rows, b.cols, ErrDimensionMismatch)
	}
	out := newUnchecked(a.rows, b.cols)
	// gonum wraps the slices without copying; a and b are only read.
	var dst mat.Dense
	dst.Mul(mat.NewDense(a.rows, a.cols, a.data), mat.NewDense(b.rows, b.cols, b.data))
	copy(out.data, dst.RawMatrix().Data)
	return out, nil
}

// Scale returns a new matrix with every cell of a multiplied by k.
func Scale(a *Matrix, k float64) *Matrix {
	return Map(a, func(v float64, _, _ int) float64 { return v * k })
}

// Add returns the elementwise sum of a and b.
func Add(a, b *Matrix) (*Matrix, error) {
	if !a.SameShape(b) {
		return nil, fmt.Errorf("Add(%dx%d, %dx%d): %w", a.rows, a.cols, b.rows, b.cols, ErrDimensionMismatch)
	}
	out := newUnchecked(a.rows, a.cols)
	for i := range out.data {
		out.data[i] = a.data[i] + b.data[i]
	}
	return out, nil
}

// AddScalar returns a new matrix with k added to every cell of a.
func AddScalar(a *Matrix, k float64) *Matrix {
	return Map(a, func(v float64, _, _ int) float64 { return v + k })
}

// Map returns a new matrix holding f applied to every cell of a; a is not modified.
func Map(a *Matrix, f func(v float64, row, col int) float64) *Matrix {
	out := newUnchecked(a.rows, a.cols)
	for i, v := range a.data {
		out.data[i] = f(v, i/a.cols, i%a.cols)
	}
	return out
}

// Apply replaces every cell of m with f(cell) and returns m.
func (m *Matrix) Apply(f func(v float64, row, col int) float64) *Matrix {
	for i, v := range m.data {
		m.data[i] = f(v, i/m.cols, i%m.cols)
	}
	return m
}
