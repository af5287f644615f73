package robustness

import (
	"context"

	"momentumlab/internal/domain"
	l3_service "momentumlab/internal/service/l3"
)

// WindowResult holds per-strategy metrics restricted to one named window.
// A strategy with no periods inside the window maps to nil.
type WindowResult struct {
	Start      string                     `json:"start"`
	End        string                     `json:"end"`
	Strategies map[string]*domain.Metrics `json:"strategies"`
}

func returnsInWindow(r domain.StrategyResult, w Window) []float64 {
	out := []float64{}
	for i, label := range r.Labels {
		if w.Contains(label) {
			out = append(out, r.Returns[i])
		}
	}
	return out
}

func windowBreakdown(result *domain.SimulationResult, windows []Window) map[string]WindowResult {
	out := make(map[string]WindowResult, len(windows))
	for _, w := range windows {
		wr := WindowResult{
			Start:      w.Start,
			End:        w.End,
			Strategies: map[string]*domain.Metrics{},
		}
		for _, name := range result.Order {
			returns := returnsInWindow(result.Strategies[name], w)
			if len(returns) == 0 {
				wr.Strategies[name] = nil
				continue
			}
			m := l3_service.CalculateMetrics(returns)
			wr.Strategies[name] = &m
		}
		out[w.Name] = wr
	}
	return out
}

func regimeBreakdown(_ context.Context, s suite) (any, error) {
	return windowBreakdown(s.baseline, s.opts.Windows), nil
}

func crisisWindows(_ context.Context, s suite) (any, error) {
	return windowBreakdown(s.baseline, s.opts.Crises), nil
}
