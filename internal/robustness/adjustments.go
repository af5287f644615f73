package robustness

import (
	"context"

	"momentumlab/internal/domain"
	l3_service "momentumlab/internal/service/l3"
)

type SurvivorshipResult struct {
	Original domain.Metrics `json:"original"`
	Adjusted domain.Metrics `json:"adjusted"`
	Penalty  float64        `json:"monthly_penalty"`
}

// SurvivorshipAdjust subtracts a flat monthly penalty from every return
func SurvivorshipAdjust(returns []float64, annualPenalty float64) []float64 {
	monthly := annualPenalty / periodsPerYear
	out := make([]float64, len(returns))
	for i, r := range returns {
		out[i] = r - monthly
	}
	return out
}

// survivorship leaves the benchmark unadjusted
func survivorship(_ context.Context, s suite) (any, error) {
	out := map[string]SurvivorshipResult{}
	for _, name := range s.strategies() {
		returns := s.baseline.Strategies[name].Returns
		original := l3_service.CalculateMetrics(returns)
		if name == domain.StrategyBenchmark {
			out[name] = SurvivorshipResult{Original: original, Adjusted: original}
			continue
		}
		out[name] = SurvivorshipResult{
			Original: original,
			Adjusted: l3_service.CalculateMetrics(SurvivorshipAdjust(returns, s.opts.SurvivorshipPenalty)),
			Penalty:  s.opts.SurvivorshipPenalty / periodsPerYear,
		}
	}
	return out, nil
}

type LeverageResult struct {
	MeanScale      float64        `json:"mean_scale"`
	MaxScale       float64        `json:"max_scale"`
	LeveragedRatio float64        `json:"lev_gt_1_ratio"`
	Original       domain.Metrics `json:"original"`
	FundingAdj     domain.Metrics `json:"funding_adjusted"`
	SharpeDelta    float64        `json:"sharpe_delta"`
}

// FundingAdjust charges annualRate/12 on the leveraged part of each period.
// returns and scales must be the same length.
func FundingAdjust(returns, scales []float64, annualRate float64) []float64 {
	out := make([]float64, len(returns))
	for i, r := range returns {
		lev := 0.0
		if i < len(scales) && scales[i] > 1 {
			lev = scales[i] - 1
		}
		out[i] = r - lev*annualRate/periodsPerYear
	}
	return out
}

func CalculateLeverage(result domain.StrategyResult, annualRate float64) *LeverageResult {
	if len(result.Scales) == 0 {
		return nil
	}
	maxScale := result.Scales[0]
	leveraged := 0
	for _, sc := range result.Scales {
		if sc > maxScale {
			maxScale = sc
		}
		if sc > 1 {
			leveraged++
		}
	}

	original := l3_service.CalculateMetrics(result.Returns)
	adjusted := l3_service.CalculateMetrics(FundingAdjust(result.Returns, result.Scales, annualRate))
	return &LeverageResult{
		MeanScale:      mean(result.Scales),
		MaxScale:       maxScale,
		LeveragedRatio: float64(leveraged) / float64(len(result.Scales)),
		Original:       original,
		FundingAdj:     adjusted,
		SharpeDelta:    adjusted.Sharpe - original.Sharpe,
	}
}

// leverage only reports vol-scaled variants
func leverage(_ context.Context, s suite) (any, error) {
	out := map[string]*LeverageResult{}
	for _, name := range s.strategies() {
		if !domain.IsVolScaledName(name) {
			continue
		}
		out[name] = CalculateLeverage(s.baseline.Strategies[name], s.opts.FundingRate)
	}
	return out, nil
}
