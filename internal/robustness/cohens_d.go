package robustness

import (
	"context"
	"math"

	"momentumlab/internal/domain"
)

const (
	EffectNegligible = "negligible"
	EffectSmall      = "small"
	EffectMedium     = "medium"
	EffectLarge      = "large"
)

type CohensDResult struct {
	Value          float64 `json:"value"`
	Interpretation string  `json:"interpretation"`
}

// CohensD is the mean difference over the pooled sample stdev; 0 when the
// pooled stdev is 0 or undefined
func CohensD(a, b []float64) float64 {
	n1, n2 := float64(len(a)), float64(len(b))
	if n1+n2 <= 2 || n1 < 2 || n2 < 2 {
		return 0
	}
	v1 := math.Pow(sampleStd(a), 2)
	v2 := math.Pow(sampleStd(b), 2)
	pooled := math.Sqrt(((n1-1)*v1 + (n2-1)*v2) / (n1 + n2 - 2))
	if pooled == 0 || math.IsNaN(pooled) {
		return 0
	}
	return (mean(a) - mean(b)) / pooled
}

func InterpretCohensD(d float64) string {
	switch abs := math.Abs(d); {
	case abs < 0.2:
		return EffectNegligible
	case abs < 0.5:
		return EffectSmall
	case abs < 0.8:
		return EffectMedium
	default:
		return EffectLarge
	}
}

func cohensDFor(strategy, benchmark domain.StrategyResult) CohensDResult {
	a := alignWithBenchmark(strategy, benchmark)
	d := CohensD(a.Strategy, a.Benchmark)
	return CohensDResult{Value: d, Interpretation: InterpretCohensD(d)}
}

func cohensD(_ context.Context, s suite) (any, error) {
	benchmark, err := s.benchmark()
	if err != nil {
		return nil, err
	}
	out := map[string]CohensDResult{}
	for _, name := range s.strategies() {
		if name == domain.StrategyBenchmark {
			continue
		}
		out[name] = cohensDFor(s.baseline.Strategies[name], benchmark)
	}
	return out, nil
}
