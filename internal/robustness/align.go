package robustness

import "momentumlab/internal/domain"

// aligned pairs a strategy's returns with the benchmark's on shared period
// labels. Series skip periods independently, so position is not enough.
type aligned struct {
	Labels    []string
	Strategy  []float64
	Benchmark []float64
}

func (a aligned) Excess() []float64 {
	out := make([]float64, len(a.Strategy))
	for i := range a.Strategy {
		out[i] = a.Strategy[i] - a.Benchmark[i]
	}
	return out
}

func (a aligned) Len() int {
	return len(a.Labels)
}

func alignWithBenchmark(strategy, benchmark domain.StrategyResult) aligned {
	byLabel := make(map[string]float64, len(benchmark.Labels))
	for i, label := range benchmark.Labels {
		byLabel[label] = benchmark.Returns[i]
	}
	out := aligned{
		Labels:    []string{},
		Strategy:  []float64{},
		Benchmark: []float64{},
	}
	for i, label := range strategy.Labels {
		b, ok := byLabel[label]
		if !ok {
			continue
		}
		out.Labels = append(out.Labels, label)
		out.Strategy = append(out.Strategy, strategy.Returns[i])
		out.Benchmark = append(out.Benchmark, b)
	}
	return out
}
