// Package nn implements the fixed two-layer feedforward network that serves
// as an agent's brain, together with its genetic operators and genome record.
package nn

import (
	"errors"
	"fmt"

	"github.com/baldhumanity/neuroevo-go/evolve/matrix"
)

// ErrIncompatibleArchitecture is returned when two networks (or a network and a
// genome record) do not share the same layer sizes.
var ErrIncompatibleArchitecture = errors.New("nn: incompatible architecture")

// Architecture describes the layer sizes of a network.
type Architecture struct {
	Input  int
	Hidden int
	Output int
}

// Validate checks that every layer has at least one node.
func (a Architecture) Validate() error {
	if a.Input <= 0 || a.Hidden <= 0 || a.Output <= 0 {
		return fmt.Errorf("architecture %s: every layer needs at least one node", a)
	}
	return nil
}

func (a Architecture) String() string {
	return fmt.Sprintf("(%d,%d,%d)", a.Input, a.Hidden, a.Output)
}

// NeuralNetwork is an input→hidden→output network with sigmoid activations.
// It owns its four parameter matrices; no other network ever references them.
type NeuralNetwork struct {
	arch Architecture

	weightsIH *matrix.Matrix // hidden×input
	weightsHO *matrix.Matrix // output×hidden
	biasH     *matrix.Matrix // hidden×1
	biasO     *matrix.Matrix // output×1
}

// New creates a network with all parameters drawn uniformly from [-1, 1).
func New(arch Architecture, rng matrix.Source) (*NeuralNetwork, error) {
	if err := arch.Validate(); err != nil {
		return nil, err
	}
	n := allocate(arch)
	n.weightsIH.Randomize(rng)
	n.weightsHO.Randomize(rng)
	n.biasH.Randomize(rng)
	n.biasO.Randomize(rng)
	return n, nil
}

// allocate builds zeroed parameter matrices for a validated architecture.
func allocate(arch Architecture) *NeuralNetwork {
	mustNew := func(r, c int) *matrix.Matrix {
		m, err := matrix.New(r, c)
		if err != nil {
			// Validate already rejected non-positive sizes.
			panic(err)
		}
		return m
	}
	return &NeuralNetwork{
		arch:      arch,
		weightsIH: mustNew(arch.Hidden, arch.Input),
		weightsHO: mustNew(arch.Output, arch.Hidden),
		biasH:     mustNew(arch.Hidden, 1),
		biasO:     mustNew(arch.Output, 1),
	}
}

// Architecture returns the layer sizes of n.
func (n *NeuralNetwork) Architecture() Architecture {
	return n.arch
}

// Predict runs a forward pass. inputs must have Architecture().Input values;
// the result has Architecture().Output values, each in (0,1).
func (n *NeuralNetwork) Predict(inputs []float64) ([]float64, error) {
	if len(inputs) != n.arch.Input {
		return nil, fmt.Errorf("predict: got %d inputs, network expects %d: %w", len(inputs), n.arch.Input, matrix.ErrDimensionMismatch)
	}
	x, err := matrix.FromVector(inputs)
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}

	hidden, err := layer(n.weightsIH, n.biasH, x)
	if err != nil {
		return nil, fmt.Errorf("predict hidden layer: %w", err)
	}
	output, err := layer(n.weightsHO, n.biasO, hidden)
	if err != nil {
		return nil, fmt.Errorf("predict output layer: %w", err)
	}
	return output.ToVector(), nil
}

// layer computes sigmoid(w·x + b).
func layer(w, b, x *matrix.Matrix) (*matrix.Matrix, error) {
	z, err := matrix.Multiply(w, x)
	if err != nil {
		return nil, err
	}
	z, err = matrix.Add(z, b)
	if err != nil {
		return nil, err
	}
	return z.Apply(sigmoidCell), nil
}

// Crossover returns a child whose four parameter matrices are each the
// per-cell crossover of the parents' corresponding matrices. bias is the
// probability of taking a cell from a.
func Crossover(a, b *NeuralNetwork, bias float64, rng matrix.Source) (*NeuralNetwork, error) {
	if a.arch != b.arch {
		return nil, fmt.Errorf("crossover %s with %s: %w", a.arch, b.arch, ErrIncompatibleArchitecture)
	}
	child := &NeuralNetwork{arch: a.arch}
	pairs := []struct {
		dst        **matrix.Matrix
		from, with *matrix.Matrix
	}{
		{&child.weightsIH, a.weightsIH, b.weightsIH},
		{&child.weightsHO, a.weightsHO, b.weightsHO},
		{&child.biasH, a.biasH, b.biasH},
		{&child.biasO, a.biasO, b.biasO},
	}
	for _, p := range pairs {
		m, err := matrix.Crossover(p.from, p.with, bias, rng)
		if err != nil {
			return nil, fmt.Errorf("crossover: %w", err)
		}
		*p.dst = m
	}
	return child, nil
}

// Mutate perturbs every parameter matrix of n in place; see matrix.Matrix.Mutate.
func (n *NeuralNetwork) Mutate(rate, power float64, rng matrix.Source) {
	n.weightsIH = n.weightsIH.Mutate(rate, power, rng)
	n.weightsHO = n.weightsHO.Mutate(rate, power, rng)
	n.biasH = n.biasH.Mutate(rate, power, rng)
	n.biasO = n.biasO.Mutate(rate, power, rng)
}

// Clone returns a deep copy of n.
func (n *NeuralNetwork) Clone() *NeuralNetwork {
	return &NeuralNetwork{
		arch:      n.arch,
		weightsIH: n.weightsIH.Clone(),
		weightsHO: n.weightsHO.Clone(),
		biasH:     n.biasH.Clone(),
		biasO:     n.biasO.Clone(),
	}
}

// Equal reports whether n and other have the same architecture and parameters.
func (n *NeuralNetwork) Equal(other *NeuralNetwork) bool {
	if other == nil || n.arch != other.arch {
		return false
	}
	return n.weightsIH.Equal(other.weightsIH) &&
		n.weightsHO.Equal(other.weightsHO) &&
		n.biasH.Equal(other.biasH) &&
		n.biasO.Equal(other.biasO)
}

// String returns a short description of the network.
func (n *NeuralNetwork) String() string {
	return fmt.Sprintf("NeuralNetwork%s", n.arch)
}
