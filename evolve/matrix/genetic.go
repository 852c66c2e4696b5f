package matrix

import "fmt"

const (
	// DefaultCrossoverBias is the probability that a crossover cell is taken from the first parent.
	DefaultCrossoverBias = 0.5
	// DefaultMutationPower bounds the uniform perturbation added by Mutate.
	DefaultMutationPower = 0.05
)

// Randomize fills every cell with a value drawn uniformly from [-1, 1) and returns m.
func (m *Matrix) Randomize(rng Source) *Matrix {
	for i := range m.data {
		m.data[i] = rng.Float64()*2 - 1
	}
	return m
}

// Crossover returns a new matrix where every cell is independently copied from
// a with probability bias, and from b otherwise.
func Crossover(a, b *Matrix, bias float64, rng Source) (*Matrix, error) {
	if !a.SameShape(b) {
		return nil, fmt.Errorf("Crossover(%dx%d, %dx%d): %w", a.rows, a.cols, b.rows, b.cols, ErrDimensionMismatch)
	}
	child := newUnchecked(a.rows, a.cols)
	for i := range child.data {
		if rng.Float64() < bias {
			child.data[i] = a.data[i]
		} else {
			child.data[i] = b.data[i]
		}
	}
	return child, nil
}

// Mutate returns a copy of m where each cell, with probability rate, has a
// perturbation drawn uniformly from [-power, power) added to it.
// Values are not clamped and may drift across generations.
func (m *Matrix) Mutate(rate, power float64, rng Source) *Matrix {
	out := m.Clone()
	if rate <= 0 {
		return out
	}
	for i, v := range out.data {
		if rng.Float64() < rate {
			out.data[i] = v + rng.Float64()*2*power - power
		}
	}
	return out
}
