package robustness

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"momentumlab/internal/domain"
	l3_service "momentumlab/internal/service/l3"
)

const (
	SensitivityLow    = "low"
	SensitivityMedium = "medium"
	SensitivityHigh   = "high"
)

func classifySensitivity(maxDiff float64) string {
	switch {
	case maxDiff < 0.1:
		return SensitivityLow
	case maxDiff < 0.2:
		return SensitivityMedium
	default:
		return SensitivityHigh
	}
}

type RebalanceStability struct {
	MaxSharpeDiff float64 `json:"max_sharpe_diff"`
	Sensitivity   string  `json:"sensitivity"`
}

type RebalanceSensitivityResult struct {
	Offsets []int `json:"offsets"`

	// offset -> strategy -> metrics
	Metrics   map[string]map[string]domain.Metrics `json:"metrics"`
	Stability map[string]RebalanceStability        `json:"stability"`
}

func rebalanceSensitivity(ctx context.Context, s suite) (any, error) {
	out := RebalanceSensitivityResult{
		Offsets:   s.opts.RebalanceOffsets,
		Metrics:   map[string]map[string]domain.Metrics{},
		Stability: map[string]RebalanceStability{},
	}

	for _, offset := range s.opts.RebalanceOffsets {
		var metrics map[string]domain.Metrics
		if offset == s.base.RebalanceOffset {
			metrics = metricsByStrategy(s.baseline)
		} else {
			result, err := s.simulate(ctx, func(in *l3_service.RunSimulationInput) {
				in.RebalanceOffset = offset
			})
			if err != nil {
				return nil, fmt.Errorf("failed to simulate rebalance offset %d: %w", offset, err)
			}
			metrics = metricsByStrategy(result)
		}
		out.Metrics[strconv.Itoa(offset)] = metrics
	}

	reference := metricsByStrategy(s.baseline)
	for _, name := range s.strategies() {
		baseSharpe := reference[name].Sharpe
		maxDiff := 0.0
		for _, metrics := range out.Metrics {
			maxDiff = math.Max(maxDiff, math.Abs(metrics[name].Sharpe-baseSharpe))
		}
		out.Stability[name] = RebalanceStability{
			MaxSharpeDiff: maxDiff,
			Sensitivity:   classifySensitivity(maxDiff),
		}
	}

	return out, nil
}
