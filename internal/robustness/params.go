package robustness

import (
	"context"
	"fmt"
	"sync"

	l3_service "momentumlab/internal/service/l3"

	"golang.org/x/sync/errgroup"
)

type ParamStability struct {
	BaselineSharpe float64 `json:"baseline_sharpe"`
	StableCells    int     `json:"stable_cells"`
	TotalCells     int     `json:"total_cells"`
	StableFraction float64 `json:"stable_fraction"`
}

type ParamSensitivityResult struct {
	Keys []string `json:"keys"`
	// cell key -> strategy -> Sharpe
	Sharpe    map[string]map[string]float64 `json:"sharpe"`
	Stability map[string]ParamStability     `json:"stability"`
}

// ParamKey names a grid cell by lookback in months and top-N
func ParamKey(lookback, topN int) string {
	return fmt.Sprintf("mom%dm_top%d", lookback/21, topN)
}

func paramSensitivity(ctx context.Context, s suite) (any, error) {
	type cell struct {
		lookback int
		topN     int
	}
	cells := []cell{}
	for _, p := range s.opts.ParamLookbacks {
		for _, n := range s.opts.ParamTopNs {
			cells = append(cells, cell{p, n})
		}
	}

	out := ParamSensitivityResult{
		Keys:      make([]string, 0, len(cells)),
		Sharpe:    map[string]map[string]float64{},
		Stability: map[string]ParamStability{},
	}
	mu := sync.Mutex{}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, s.opts.Workers))
	for _, c := range cells {
		key := ParamKey(c.lookback, c.topN)
		out.Keys = append(out.Keys, key)
		g.Go(func() error {
			result, err := s.simulate(gctx, func(in *l3_service.RunSimulationInput) {
				in.MomentumPeriod = c.lookback
				in.MomentumTopN = c.topN
			})
			if err != nil {
				return fmt.Errorf("failed to simulate %s: %w", key, err)
			}
			sharpes := map[string]float64{}
			for _, name := range result.Order {
				sharpes[name] = l3_service.Sharpe(result.Strategies[name].Returns)
			}
			mu.Lock()
			out.Sharpe[key] = sharpes
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	baselineKey := ParamKey(s.opts.BaselineLookback, s.opts.BaselineTopN)
	for _, name := range s.strategies() {
		var baseline float64
		if cell, ok := out.Sharpe[baselineKey]; ok {
			baseline = cell[name]
		} else {
			baseline = l3_service.Sharpe(s.baseline.Strategies[name].Returns)
		}

		st := ParamStability{BaselineSharpe: baseline}
		for _, key := range out.Keys {
			st.TotalCells++
			if out.Sharpe[key][name] >= baseline*s.opts.StableRatio {
				st.StableCells++
			}
		}
		if st.TotalCells > 0 {
			st.StableFraction = float64(st.StableCells) / float64(st.TotalCells)
		}
		out.Stability[name] = st
	}

	return out, nil
}
