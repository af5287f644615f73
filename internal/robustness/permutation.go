package robustness

import (
	"context"
	"math/rand/v2"

	"momentumlab/internal/domain"
)

type PermutationResult struct {
	Periods        int     `json:"n_periods"`
	ObservedMean   float64 `json:"observed_mean"`
	PValue         float64 `json:"p_value"`
	Significant005 bool    `json:"significant_005"`
	Significant001 bool    `json:"significant_001"`
}

// PermutationTest flips the sign of each excess return independently and
// counts the null means above the observed mean, ties at half weight. It
// returns nil for an empty series.
func PermutationTest(excess []float64, trials int, r *rand.Rand) *PermutationResult {
	if len(excess) == 0 || trials <= 0 {
		return nil
	}
	observed := mean(excess)
	n := float64(len(excess))

	above, ties := 0, 0
	for t := 0; t < trials; t++ {
		sum := 0.0
		for _, x := range excess {
			if r.IntN(2) == 0 {
				sum -= x
			} else {
				sum += x
			}
		}
		switch m := sum / n; {
		case m > observed:
			above++
		case m == observed:
			ties++
		}
	}

	p := (float64(above) + 0.5*float64(ties)) / float64(trials)
	return &PermutationResult{
		Periods:        len(excess),
		ObservedMean:   observed,
		PValue:         p,
		Significant005: p < 0.05,
		Significant001: p < 0.01,
	}
}

func permutationFor(s suite, strategy, benchmark domain.StrategyResult) *PermutationResult {
	return PermutationTest(alignWithBenchmark(strategy, benchmark).Excess(), s.opts.PermutationTrials, s.rng())
}

func permutation(_ context.Context, s suite) (any, error) {
	benchmark, err := s.benchmark()
	if err != nil {
		return nil, err
	}
	out := map[string]*PermutationResult{}
	for _, name := range s.strategies() {
		if name == domain.StrategyBenchmark {
			continue
		}
		out[name] = permutationFor(s, s.baseline.Strategies[name], benchmark)
	}
	return out, nil
}
