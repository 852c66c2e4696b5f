package evolve

import (
	"fmt"

	"github.com/baldhumanity/neuroevo-go/evolve/nn"
)

// ActionThreshold is the output level above which a host usually treats a
// decision as "act". The engine itself never applies it.
const ActionThreshold = 0.5

// Agent pairs one brain with the bookkeeping of a single trial.
type Agent struct {
	ID      int               // Unique within an engine.
	Brain   *nn.NeuralNetwork // Owned exclusively by this agent.
	Score   int               // Non-decreasing during a trial.
	Fitness float64           // Score share, valid only during evaluation.
	Alive   bool
}

func newAgent(id int, brain *nn.NeuralNetwork) *Agent {
	return &Agent{ID: id, Brain: brain, Alive: true}
}

// Think runs the brain on an observation.
func (a *Agent) Think(observation []float64) ([]float64, error) {
	out, err := a.Brain.Predict(observation)
	if err != nil {
		return nil, fmt.Errorf("agent %d: %w", a.ID, err)
	}
	return out, nil
}

// Decide reports whether the first output exceeds ActionThreshold.
func Decide(output []float64) bool {
	return len(output) > 0 && output[0] > ActionThreshold
}

// String returns a short description of the agent.
func (a *Agent) String() string {
	return fmt.Sprintf("Agent(ID: %d, Score: %d, Fitness: %.4f, Alive: %t)", a.ID, a.Score, a.Fitness, a.Alive)
}
