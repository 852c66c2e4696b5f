package evolve

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"os"

	"github.com/baldhumanity/neuroevo-go/evolve/nn"
)

// checkpointData holds the parts of an Engine needed to resume evolution.
// The Config is not saved; it is reloaded from its file.
// Brains are saved without trial state, so a checkpoint taken mid-generation
// resumes at the start of that generation.
type checkpointData struct {
	Generation  int
	BestScore   int
	BestEver    *nn.Genome // nil until some agent scored
	Population  []nn.Genome
	NextAgentID int
}

// SaveCheckpoint saves the current state of the engine to a gzip-compressed file.
func (e *Engine) SaveCheckpoint(filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create checkpoint file '%s': %w", filePath, err)
	}
	defer file.Close()

	gzWriter := gzip.NewWriter(file)

	saveData := checkpointData{
		Generation:  e.generation,
		BestScore:   e.bestScore,
		Population:  make([]nn.Genome, len(e.population)),
		NextAgentID: e.Reproduction.NextAgentID,
	}
	for i, a := range e.population {
		saveData.Population[i] = a.Brain.Genome()
	}
	if e.bestEver != nil {
		g := e.bestEver.Genome()
		saveData.BestEver = &g
	}

	if err := gob.NewEncoder(gzWriter).Encode(saveData); err != nil {
		return fmt.Errorf("failed to encode engine state: %w", err)
	}
	if err := gzWriter.Close(); err != nil {
		return fmt.Errorf("failed to flush checkpoint '%s': %w", filePath, err)
	}

	e.logger.Info("checkpoint saved", "path", filePath, "generation", e.generation)
	return nil
}

// LoadCheckpoint restores an engine from a checkpoint file.
// It requires the configuration file path the engine was built from to reconstruct the Config.
func LoadCheckpoint(checkpointPath string, configPath string, opts ...Option) (*Engine, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config '%s' for checkpoint: %w", configPath, err)
	}

	file, err := os.Open(checkpointPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open checkpoint file '%s': %w", checkpointPath, err)
	}
	defer file.Close()

	gzReader, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader for checkpoint: %w", err)
	}
	defer gzReader.Close()

	saveData := checkpointData{}
	if err := gob.NewDecoder(gzReader).Decode(&saveData); err != nil {
		return nil, fmt.Errorf("failed to decode engine state from checkpoint: %w", err)
	}

	e, err := NewEngine(config, opts...)
	if err != nil {
		return nil, err
	}
	if err := e.restore(saveData); err != nil {
		return nil, fmt.Errorf("failed to restore checkpoint '%s': %w", checkpointPath, err)
	}

	e.logger.Info("checkpoint loaded", "path", checkpointPath, "generation", e.generation)
	return e, nil
}

// restore replaces the engine state with saved data after validating every
// genome against the configured architecture.
func (e *Engine) restore(data checkpointData) error {
	popSize := e.Config.Evolution.PopulationSize
	if len(data.Population) != popSize {
		return fmt.Errorf("checkpoint holds %d agents, config expects %d", len(data.Population), popSize)
	}
	arch := e.Config.Architecture()

	population := make([]*Agent, popSize)
	ancestors := make(map[int][]int, popSize)
	nextID := data.NextAgentID
	for i, g := range data.Population {
		brain, err := nn.FromGenomeAs(g, arch)
		if err != nil {
			return fmt.Errorf("agent %d: %w", i, err)
		}
		population[i] = newAgent(nextID, brain)
		ancestors[nextID] = []int{}
		nextID++
	}

	var best *nn.NeuralNetwork
	if data.BestEver != nil {
		b, err := nn.FromGenomeAs(*data.BestEver, arch)
		if err != nil {
			return fmt.Errorf("best brain: %w", err)
		}
		best = b
	}

	e.population = population
	e.finished = nil
	e.generation = data.Generation
	e.currentBest = 0
	e.bestScore = data.BestScore
	e.bestEver = best
	e.resetPending = true
	e.Reproduction.NextAgentID = nextID
	e.Reproduction.Ancestors = ancestors
	return nil
}
