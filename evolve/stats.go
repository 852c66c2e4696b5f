package evolve

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// GenerationStats summarizes the scores of one generation.
type GenerationStats struct {
	Generation     int
	Agents         int
	BestScore      int
	MeanScore      float64
	StdevScore     float64 // sample standard deviation
	AllTimeBest    int
	UniformFitness bool // every agent scored zero
}

func (s GenerationStats) String() string {
	return fmt.Sprintf("Generation %d: best %d, mean %.2f, stdev %.2f, all-time best %d",
		s.Generation, s.BestScore, s.MeanScore, s.StdevScore, s.AllTimeBest)
}

// scoreStats computes best, mean and sample standard deviation of the agents' scores.
func scoreStats(agents []*Agent) (best int, mean, stdev float64) {
	if len(agents) == 0 {
		return 0, 0, 0
	}
	scores := make([]float64, len(agents))
	for i, a := range agents {
		scores[i] = float64(a.Score)
	}
	best = int(floats.Max(scores))
	if len(scores) < 2 {
		// Standard deviation is undefined for less than 2 values
		return best, scores[0], 0
	}
	mean, stdev = stat.MeanStdDev(scores, nil)
	return best, mean, stdev
}
