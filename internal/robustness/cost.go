package robustness

import (
	"context"
	"fmt"
	"strconv"

	"momentumlab/internal/domain"
	l3_service "momentumlab/internal/service/l3"
)

type CostSensitivityResult struct {
	Rates           []float64 `json:"rates"`
	BenchmarkSharpe float64   `json:"benchmark_sharpe"`

	// rate -> strategy -> metrics
	Metrics map[string]map[string]domain.Metrics `json:"metrics"`

	// first rate at which the strategy's Sharpe falls below the benchmark's
	// Sharpe at the default rate; nil when it never does
	Breakeven map[string]*float64 `json:"breakeven"`
}

func rateKey(rate float64) string {
	return strconv.FormatFloat(rate, 'f', -1, 64)
}

func metricsByStrategy(result *domain.SimulationResult) map[string]domain.Metrics {
	out := make(map[string]domain.Metrics, len(result.Order))
	for _, name := range result.Order {
		out[name] = l3_service.CalculateMetrics(result.Strategies[name].Returns)
	}
	return out
}

func costSensitivity(ctx context.Context, s suite) (any, error) {
	benchmark, err := s.benchmark()
	if err != nil {
		return nil, err
	}

	out := CostSensitivityResult{
		Rates:           s.opts.CostRates,
		Metrics:         map[string]map[string]domain.Metrics{},
		Breakeven:       map[string]*float64{},
		BenchmarkSharpe: l3_service.Sharpe(benchmark.Returns),
	}

	for _, rate := range s.opts.CostRates {
		result, err := s.simulate(ctx, func(in *l3_service.RunSimulationInput) {
			in.CostRate = rate
		})
		if err != nil {
			return nil, fmt.Errorf("failed to simulate cost rate %f: %w", rate, err)
		}
		out.Metrics[rateKey(rate)] = metricsByStrategy(result)
	}

	for _, name := range s.strategies() {
		if name == domain.StrategyBenchmark {
			continue
		}
		out.Breakeven[name] = nil
		for _, rate := range s.opts.CostRates {
			if out.Metrics[rateKey(rate)][name].Sharpe < out.BenchmarkSharpe {
				r := rate
				out.Breakeven[name] = &r
				break
			}
		}
	}

	return out, nil
}
