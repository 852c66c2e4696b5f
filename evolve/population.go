package evolve

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"time"

	"github.com/baldhumanity/neuroevo-go/evolve/nn"
)

var (
	// ErrGenerationRunning is returned by Advance while agents are still alive.
	ErrGenerationRunning = errors.New("evolve: generation still running")

	// ErrUnknownAgent is returned by Report for an agent outside the current population.
	ErrUnknownAgent = errors.New("evolve: agent is not part of the current population")
)

// Environment is the survival task the agents are evaluated on.
type Environment interface {
	// Reset prepares a fresh trial; it is called before the first tick of every generation.
	Reset()
	// Observe returns the agent's observation for this tick, or false when
	// there is nothing to decide on.
	Observe(a *Agent) ([]float64, bool)
	// Act applies the agent's decision (nil without an observation) and
	// returns its updated score and whether it is still alive.
	Act(a *Agent, output []float64) (score int, alive bool)
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand makes the engine draw all randomness from rng.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

// WithLogger sets the logger used for generation summaries.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithGenerationHook registers fn to be called after every generation advance.
func WithGenerationHook(fn func(GenerationStats)) Option {
	return func(e *Engine) { e.hook = fn }
}

// Engine holds the state of the evolutionary process: the live population,
// the finished pool of the running generation and the best brain seen so far.
// It is driven by a single caller and performs no locking.
type Engine struct {
	Config       *Config
	Reproduction *Reproduction

	rng    *rand.Rand
	logger *slog.Logger
	hook   func(GenerationStats)

	population []*Agent
	finished   []*Agent // in order of death

	generation   int
	currentBest  int // best score of the running generation
	bestScore    int // best score across all generations
	bestEver     *nn.NeuralNetwork
	resetPending bool // environment must be reset before the next tick
}

// NewEngine validates config and creates the initial population.
func NewEngine(config *Config, opts ...Option) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{Config: config}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		seed := config.Evolution.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		e.rng = rand.New(rand.NewSource(seed))
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	e.Reproduction = NewReproduction(&config.Evolution, e.rng)

	if err := e.Reset(); err != nil {
		return nil, err
	}
	return e, nil
}

// Reset discards all progress and starts again from a random population at generation 0.
func (e *Engine) Reset() error {
	population, err := e.Reproduction.CreateNewPopulation(e.Config.Architecture(), e.Config.Evolution.PopulationSize)
	if err != nil {
		return fmt.Errorf("failed to create initial population: %w", err)
	}
	e.population = population
	e.finished = nil
	e.generation = 0
	e.currentBest = 0
	e.bestScore = 0
	e.bestEver = nil
	e.resetPending = true
	return nil
}

// Tick advances the simulation by one step: every alive agent observes, thinks
// and acts. When the last agent dies the generation is evaluated and replaced,
// and Tick reports advanced = true.
func (e *Engine) Tick(env Environment) (advanced bool, err error) {
	if e.resetPending {
		env.Reset()
		e.resetPending = false
	}

	// Every brain decides before any agent acts, so a bad observation leaves
	// the generation as it was.
	acting := make([]*Agent, 0, len(e.population)-len(e.finished))
	outputs := make([][]float64, 0, cap(acting))
	for _, a := range e.population {
		if !a.Alive {
			continue
		}
		var output []float64
		if obs, ok := env.Observe(a); ok {
			output, err = a.Think(obs)
			if err != nil {
				return false, fmt.Errorf("tick in generation %d: %w", e.generation, err)
			}
		}
		acting = append(acting, a)
		outputs = append(outputs, output)
	}

	for i, a := range acting {
		score, alive := env.Act(a, outputs[i])
		e.record(a, score, alive)
	}

	if len(e.finished) < len(e.population) {
		return false, nil
	}
	if err := e.Advance(); err != nil {
		return false, err
	}
	return true, nil
}

// Report records a score and survival update for an agent, for hosts that
// drive agents themselves instead of through Tick. Reports for dead agents
// are ignored. When the report finishes the generation it is advanced.
func (e *Engine) Report(a *Agent, score int, alive bool) (advanced bool, err error) {
	if a == nil {
		return false, fmt.Errorf("report for nil agent: %w", ErrUnknownAgent)
	}
	if !e.contains(a) {
		return false, fmt.Errorf("report for agent %d: %w", a.ID, ErrUnknownAgent)
	}
	if !a.Alive {
		return false, nil
	}
	e.record(a, score, alive)
	if len(e.finished) < len(e.population) {
		return false, nil
	}
	if err := e.Advance(); err != nil {
		return false, err
	}
	return true, nil
}

// KillAll ends the running generation: every alive agent is moved to the
// finished pool with the score it has accrued, and the generation advances.
func (e *Engine) KillAll() error {
	for _, a := range e.population {
		if a.Alive {
			a.Alive = false
			e.finished = append(e.finished, a)
		}
	}
	return e.Advance()
}

// Advance evaluates the finished generation and replaces the population with
// its offspring. It fails with ErrGenerationRunning while any agent is alive.
func (e *Engine) Advance() error {
	if len(e.finished) < len(e.population) {
		return fmt.Errorf("advance generation %d with %d of %d agents finished: %w",
			e.generation, len(e.finished), len(e.population), ErrGenerationRunning)
	}

	stats := e.evaluate()

	next, err := e.Reproduction.Reproduce(e.finished, e.Config.Evolution.PopulationSize)
	if err != nil {
		return fmt.Errorf("reproduction failed in generation %d: %w", e.generation, err)
	}

	e.population = next
	e.finished = nil
	e.generation++
	e.currentBest = 0
	e.resetPending = true

	e.logger.Info("generation complete",
		"generation", stats.Generation,
		"best", stats.BestScore,
		"mean", stats.MeanScore,
		"stdev", stats.StdevScore,
		"all_time_best", stats.AllTimeBest,
	)
	if e.hook != nil {
		e.hook(stats)
	}
	return nil
}

// evaluate assigns fitness over the finished pool and updates the best-ever record.
func (e *Engine) evaluate() GenerationStats {
	uniform := assignFitness(e.finished)
	if uniform {
		e.logger.Debug("all agents scored zero, using uniform fitness", "generation", e.generation)
	}

	best, mean, stdev := scoreStats(e.finished)
	if best > e.bestScore {
		top := TopAgents(e.finished, 1)[0]
		e.bestScore = top.Score
		e.bestEver = top.Brain.Clone()
		e.logger.Info("new best brain", "generation", e.generation, "agent", top.ID, "score", top.Score)
	}

	return GenerationStats{
		Generation:     e.generation,
		Agents:         len(e.finished),
		BestScore:      best,
		MeanScore:      mean,
		StdevScore:     stdev,
		AllTimeBest:    e.bestScore,
		UniformFitness: uniform,
	}
}

// record applies a score and survival update to a live agent.
func (e *Engine) record(a *Agent, score int, alive bool) {
	if score > a.Score {
		a.Score = score
	}
	if a.Score > e.currentBest {
		e.currentBest = a.Score
	}
	if !alive {
		a.Alive = false
		e.finished = append(e.finished, a)
	}
}

func (e *Engine) contains(a *Agent) bool {
	for _, p := range e.population {
		if p == a {
			return true
		}
	}
	return false
}

// Import seeds the population from an external genome: the first
// floor(populationSize/2) agents get independent copies of the imported brain and the rest get
// fresh random brains. The generation counter and best-ever record are kept.
func (e *Engine) Import(g nn.Genome) error {
	arch := e.Config.Architecture()
	brain, err := nn.FromGenomeAs(g, arch)
	if err != nil {
		return fmt.Errorf("import genome: %w", err)
	}

	popSize := e.Config.Evolution.PopulationSize
	half := popSize / 2
	next := make([]*Agent, 0, popSize)
	ancestors := make(map[int][]int, popSize)
	for i := 0; i < popSize; i++ {
		var b *nn.NeuralNetwork
		if i < half {
			b = brain.Clone()
		} else if b, err = nn.New(arch, e.rng); err != nil {
			return fmt.Errorf("import genome: %w", err)
		}
		a := newAgent(e.Reproduction.getNextID(), b)
		next = append(next, a)
		ancestors[a.ID] = []int{}
	}

	e.population = next
	e.finished = nil
	e.currentBest = 0
	e.resetPending = true
	e.Reproduction.Ancestors = ancestors
	e.logger.Info("imported genome", "generation", e.generation, "copies", half)
	return nil
}

// Generation returns the index of the running generation, starting at 0.
func (e *Engine) Generation() int { return e.generation }

// CurrentBestScore returns the best score reached so far in the running generation.
func (e *Engine) CurrentBestScore() int { return e.currentBest }

// BestScore returns the best score of any completed generation.
func (e *Engine) BestScore() int { return e.bestScore }

// BestEver returns a copy of the brain that achieved BestScore.
// ok is false until some agent has scored above zero.
func (e *Engine) BestEver() (brain *nn.NeuralNetwork, score int, ok bool) {
	if e.bestEver == nil {
		return nil, 0, false
	}
	return e.bestEver.Clone(), e.bestScore, true
}

// Population returns a snapshot of the current population in order.
func (e *Engine) Population() []*Agent {
	out := make([]*Agent, len(e.population))
	copy(out, e.population)
	return out
}

// Alive returns the agents of the running generation that are still alive.
func (e *Engine) Alive() []*Agent {
	out := make([]*Agent, 0, len(e.population)-len(e.finished))
	for _, a := range e.population {
		if a.Alive {
			out = append(out, a)
		}
	}
	return out
}

// Finished returns the agents of the running generation that have died, in order of death.
func (e *Engine) Finished() []*Agent {
	out := make([]*Agent, len(e.finished))
	copy(out, e.finished)
	return out
}

// Stats summarizes the scores of the running generation so far.
func (e *Engine) Stats() GenerationStats {
	best, mean, stdev := scoreStats(e.population)
	return GenerationStats{
		Generation:  e.generation,
		Agents:      len(e.population),
		BestScore:   best,
		MeanScore:   mean,
		StdevScore:  stdev,
		AllTimeBest: e.bestScore,
	}
}
