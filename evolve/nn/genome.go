package nn

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/baldhumanity/neuroevo-go/evolve/matrix"
)

// Genome is the persisted form of a NeuralNetwork.
type Genome struct {
	InputNodes  int           `json:"inputNodes"`
	HiddenNodes int           `json:"hiddenNodes"`
	OutputNodes int           `json:"outputNodes"`
	WeightsIH   matrix.Record `json:"weightsIH"`
	WeightsHO   matrix.Record `json:"weightsHO"`
	BiasH       matrix.Record `json:"biasH"`
	BiasO       matrix.Record `json:"biasO"`
}

// Architecture returns the layer sizes declared by the genome.
func (g Genome) Architecture() Architecture {
	return Architecture{Input: g.InputNodes, Hidden: g.HiddenNodes, Output: g.OutputNodes}
}

// Genome returns the serialized form of n.
func (n *NeuralNetwork) Genome() Genome {
	return Genome{
		InputNodes:  n.arch.Input,
		HiddenNodes: n.arch.Hidden,
		OutputNodes: n.arch.Output,
		WeightsIH:   n.weightsIH.Record(),
		WeightsHO:   n.weightsHO.Record(),
		BiasH:       n.biasH.Record(),
		BiasO:       n.biasO.Record(),
	}
}

// FromGenome rebuilds a network from g. Every matrix must match the shape
// implied by the declared layer sizes.
func FromGenome(g Genome) (*NeuralNetwork, error) {
	arch := g.Architecture()
	if err := arch.Validate(); err != nil {
		return nil, fmt.Errorf("genome: %v: %w", err, ErrIncompatibleArchitecture)
	}

	n := &NeuralNetwork{arch: arch}
	slots := []struct {
		name       string
		dst        **matrix.Matrix
		rec        matrix.Record
		rows, cols int
	}{
		{"weightsIH", &n.weightsIH, g.WeightsIH, arch.Hidden, arch.Input},
		{"weightsHO", &n.weightsHO, g.WeightsHO, arch.Output, arch.Hidden},
		{"biasH", &n.biasH, g.BiasH, arch.Hidden, 1},
		{"biasO", &n.biasO, g.BiasO, arch.Output, 1},
	}
	for _, s := range slots {
		if s.rec.Rows != s.rows || s.rec.Cols != s.cols {
			return nil, fmt.Errorf("genome %s is %dx%d, architecture %s needs %dx%d: %w",
				s.name, s.rec.Rows, s.rec.Cols, arch, s.rows, s.cols, ErrIncompatibleArchitecture)
		}
		m, err := matrix.FromRecord(s.rec)
		if err != nil {
			return nil, fmt.Errorf("genome %s: %w", s.name, err)
		}
		*s.dst = m
	}
	return n, nil
}

// FromGenomeAs is FromGenome for a context that requires the given architecture.
func FromGenomeAs(g Genome, expect Architecture) (*NeuralNetwork, error) {
	if got := g.Architecture(); got != expect {
		return nil, fmt.Errorf("genome declares %s, expected %s: %w", got, expect, ErrIncompatibleArchitecture)
	}
	return FromGenome(g)
}

// Marshal encodes n as a JSON genome record.
func Marshal(n *NeuralNetwork) ([]byte, error) {
	return json.Marshal(n.Genome())
}

// Unmarshal decodes a JSON genome record. It also accepts the older export
// format in which the record was itself encoded as a JSON string.
func Unmarshal(data []byte) (Genome, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var inner string
		if err := json.Unmarshal(data, &inner); err != nil {
			return Genome{}, fmt.Errorf("decode wrapped genome: %w", err)
		}
		data = []byte(inner)
	}
	var g Genome
	if err := json.Unmarshal(data, &g); err != nil {
		return Genome{}, fmt.Errorf("decode genome: %w", err)
	}
	return g, nil
}
