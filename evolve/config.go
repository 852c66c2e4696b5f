package evolve

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/baldhumanity/neuroevo-go/evolve/matrix"
	"github.com/baldhumanity/neuroevo-go/evolve/nn"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

// Config stores the parameters fixed at engine construction.
type Config struct {
	Evolution EvolutionConfig `yaml:"evolution"`
	Network   NetworkConfig   `yaml:"network"`
}

// EvolutionConfig holds the genetic algorithm parameters.
type EvolutionConfig struct {
	PopulationSize int     `ini:"population_size" yaml:"population_size"`
	MutationRate   float64 `ini:"mutation_rate" yaml:"mutation_rate"`   // per-cell probability
	ElitismCount   int     `ini:"elitism_count" yaml:"elitism_count"`   // brains carried over unmutated
	CrossoverBias  float64 `ini:"crossover_bias" yaml:"crossover_bias"` // P(cell from first parent)
	MutationPower  float64 `ini:"mutation_power" yaml:"mutation_power"` // perturbation bound
	Seed           int64   `ini:"seed" yaml:"seed"`                     // 0 seeds from the clock
}

// NetworkConfig holds the brain architecture.
type NetworkConfig struct {
	InputNodes  int `ini:"input_nodes" yaml:"input_nodes"`
	HiddenNodes int `ini:"hidden_nodes" yaml:"hidden_nodes"`
	OutputNodes int `ini:"output_nodes" yaml:"output_nodes"`
}

// DefaultConfig returns the parameters the survival task was tuned with.
func DefaultConfig() *Config {
	return &Config{
		Evolution: EvolutionConfig{
			PopulationSize: 500,
			MutationRate:   0.1,
			ElitismCount:   5,
			CrossoverBias:  matrix.DefaultCrossoverBias,
			MutationPower:  matrix.DefaultMutationPower,
		},
		Network: NetworkConfig{
			InputNodes:  3,
			HiddenNodes: 8,
			OutputNodes: 1,
		},
	}
}

// Architecture returns the brain layer sizes described by the config.
func (c *Config) Architecture() nn.Architecture {
	return nn.Architecture{
		Input:  c.Network.InputNodes,
		Hidden: c.Network.HiddenNodes,
		Output: c.Network.OutputNodes,
	}
}

// LoadConfig loads configuration from an INI file, or from YAML when the
// path ends in .yaml or .yml. Keys missing from the file keep their defaults.
func LoadConfig(filePath string) (*Config, error) {
	config := DefaultConfig()

	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file '%s': %w", filePath, err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file '%s': %w", filePath, err)
		}
	default:
		cfg, err := ini.Load(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file '%s': %w", filePath, err)
		}
		if err := cfg.Section("Evolution").MapTo(&config.Evolution); err != nil {
			return nil, fmt.Errorf("failed to map [Evolution] section: %w", err)
		}
		if err := cfg.Section("Network").MapTo(&config.Network); err != nil {
			return nil, fmt.Errorf("failed to map [Network] section: %w", err)
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks every parameter against its allowed range.
func (c *Config) Validate() error {
	e := c.Evolution
	if math.IsNaN(e.MutationRate) || math.IsNaN(e.CrossoverBias) || math.IsNaN(e.MutationPower) {
		return fmt.Errorf("config error: mutation_rate, crossover_bias and mutation_power must be numbers")
	}
	if e.PopulationSize <= 0 {
		return fmt.Errorf("config error: population_size must be positive")
	}
	if e.MutationRate < 0 || e.MutationRate > 1 {
		return fmt.Errorf("config error: mutation_rate must be between 0 and 1")
	}
	if e.ElitismCount < 0 || e.ElitismCount > e.PopulationSize {
		return fmt.Errorf("config error: elitism_count must be between 0 and population_size (%d)", e.PopulationSize)
	}
	if e.CrossoverBias < 0 || e.CrossoverBias > 1 {
		return fmt.Errorf("config error: crossover_bias must be between 0 and 1")
	}
	if e.MutationPower < 0 {
		return fmt.Errorf("config error: mutation_power cannot be negative")
	}
	if err := c.Architecture().Validate(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}
