package evolve

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/baldhumanity/neuroevo-go/evolve/nn"
)

// Reproduction creates new agents, either from scratch or from a finished generation.
type Reproduction struct {
	Config      *EvolutionConfig
	NextAgentID int           // State for the next agent ID
	Ancestors   map[int][]int // Agent ID -> parent IDs for the current generation
	rng         *rand.Rand
}

// NewReproduction creates a new reproduction manager drawing from rng.
func NewReproduction(config *EvolutionConfig, rng *rand.Rand) *Reproduction {
	return &Reproduction{
		Config:      config,
		NextAgentID: 1,
		Ancestors:   make(map[int][]int),
		rng:         rng,
	}
}

// getNextID gets the next available agent ID and increments the internal counter.
func (r *Reproduction) getNextID() int {
	id := r.NextAgentID
	r.NextAgentID++
	return id
}

// CreateNewPopulation creates popSize agents with freshly randomized brains.
func (r *Reproduction) CreateNewPopulation(arch nn.Architecture, popSize int) ([]*Agent, error) {
	agents := make([]*Agent, 0, popSize)
	ancestors := make(map[int][]int, popSize)
	for i := 0; i < popSize; i++ {
		brain, err := nn.New(arch, r.rng)
		if err != nil {
			return nil, fmt.Errorf("failed to create brain: %w", err)
		}
		a := newAgent(r.getNextID(), brain)
		agents = append(agents, a)
		ancestors[a.ID] = []int{} // No parents for initial population
	}
	r.Ancestors = ancestors
	return agents, nil
}

// Reproduce builds the next generation of popSize agents from a finished pool
// whose fitness has already been assigned. The top ElitismCount agents by raw
// score are carried over as brain clones; every other slot is filled with the
// mutated crossover of two roulette-selected parents.
func (r *Reproduction) Reproduce(pool []*Agent, popSize int) ([]*Agent, error) {
	if len(pool) == 0 {
		return nil, fmt.Errorf("cannot reproduce from an empty pool")
	}

	next := make([]*Agent, 0, popSize)
	ancestors := make(map[int][]int, popSize)

	// Transfer elites.
	for _, elite := range TopAgents(pool, min(r.Config.ElitismCount, popSize)) {
		a := newAgent(r.getNextID(), elite.Brain.Clone())
		next = append(next, a)
		ancestors[a.ID] = []int{elite.ID}
	}

	// Produce offspring.
	for len(next) < popSize {
		parent1 := selectOne(pool, r.rng)
		parent2 := selectOne(pool, r.rng)

		brain, err := nn.Crossover(parent1.Brain, parent2.Brain, r.Config.CrossoverBias, r.rng)
		if err != nil {
			return nil, fmt.Errorf("crossover of agents %d and %d: %w", parent1.ID, parent2.ID, err)
		}
		brain.Mutate(r.Config.MutationRate, r.Config.MutationPower, r.rng)

		a := newAgent(r.getNextID(), brain)
		next = append(next, a)
		ancestors[a.ID] = []int{parent1.ID, parent2.ID}
	}

	r.Ancestors = ancestors
	return next, nil
}

// assignFitness sets each agent's fitness to its share of the pool's total
// score. When every agent scored zero the distribution falls back to uniform.
// It reports whether the fallback was used.
func assignFitness(pool []*Agent) (uniform bool) {
	sum := 0
	for _, a := range pool {
		sum += a.Score
	}
	if sum == 0 {
		share := 1.0 / float64(len(pool))
		for _, a := range pool {
			a.Fitness = share
		}
		return true
	}
	for _, a := range pool {
		a.Fitness = float64(a.Score) / float64(sum)
	}
	return false
}

// selectOne draws an agent with probability proportional to its fitness by
// walking the pool in order. Rounding can leave r positive after the last
// member, in which case the last member is returned.
func selectOne(pool []*Agent, rng *rand.Rand) *Agent {
	r := rng.Float64()
	for _, a := range pool {
		r -= a.Fitness
		if r <= 0 {
			return a
		}
	}
	return pool[len(pool)-1]
}

// TopAgents returns the min(k, len(pool)) agents with the highest raw score,
// highest first. Ties keep their pool order. pool itself is not reordered.
func TopAgents(pool []*Agent, k int) []*Agent {
	if k <= 0 {
		return nil
	}
	ranked := make([]*Agent, len(pool))
	copy(ranked, pool)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if k > len(ranked) {
		k = len(ranked)
	}
	return ranked[:k]
}
