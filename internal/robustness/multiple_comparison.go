package robustness

import (
	"context"
	"math"
	"sort"

	"momentumlab/internal/domain"
)

type CorrectedPValue struct {
	OriginalP      float64 `json:"original_p"`
	AdjustedP      float64 `json:"adjusted_p"`
	FDRSignificant bool    `json:"fdr_significant"`
	BonferroniSig  bool    `json:"bonferroni_significant"`
}

type MultipleComparisonResult struct {
	Tests           int                        `json:"n_tests"`
	Alpha           float64                    `json:"alpha"`
	BonferroniAlpha float64                    `json:"bonferroni_alpha"`
	Strategies      map[string]CorrectedPValue `json:"strategies"`
}

// CorrectPValues applies Bonferroni and Benjamini-Hochberg step-up
// corrections. Adjusted values are capped at 1 for reporting; FDR
// significance compares the uncapped value against alpha.
func CorrectPValues(pValues map[string]float64, alpha float64) MultipleComparisonResult {
	names := make([]string, 0, len(pValues))
	for name := range pValues {
		names = append(names, name)
	}
	sort.SliceStable(names, func(i, j int) bool {
		pi, pj := pValues[names[i]], pValues[names[j]]
		if pi != pj {
			return pi < pj
		}
		return names[i] < names[j]
	})

	n := len(names)
	out := MultipleComparisonResult{
		Tests:      n,
		Alpha:      alpha,
		Strategies: make(map[string]CorrectedPValue, n),
	}
	if n == 0 {
		return out
	}
	out.BonferroniAlpha = alpha / float64(n)

	adjusted := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		adjusted[i] = pValues[names[i]] * float64(n) / float64(i+1)
		if i < n-1 {
			adjusted[i] = math.Min(adjusted[i], adjusted[i+1])
		}
	}

	for i, name := range names {
		p := pValues[name]
		out.Strategies[name] = CorrectedPValue{
			OriginalP:      p,
			AdjustedP:      math.Min(adjusted[i], 1),
			FDRSignificant: adjusted[i] < alpha,
			BonferroniSig:  p < out.BonferroniAlpha,
		}
	}
	return out
}

func multipleComparison(_ context.Context, s suite) (any, error) {
	benchmark, err := s.benchmark()
	if err != nil {
		return nil, err
	}
	pValues := map[string]float64{}
	for _, name := range s.strategies() {
		if name == domain.StrategyBenchmark {
			continue
		}
		if res := permutationFor(s, s.baseline.Strategies[name], benchmark); res != nil {
			pValues[name] = res.PValue
		}
	}
	return CorrectPValues(pValues, s.opts.Alpha), nil
}
