package robustness

import (
	"context"
	"math"
	"math/rand/v2"

	l3_service "momentumlab/internal/service/l3"
)

type BootstrapResult struct {
	Trials        int     `json:"trials"`
	BlockSize     int     `json:"block_size"`
	SharpeMean    float64 `json:"sharpe_mean"`
	SharpeStd     float64 `json:"sharpe_std"`
	SharpeCILower float64 `json:"sharpe_ci_lower"`
	SharpeCIUpper float64 `json:"sharpe_ci_upper"`
	MaxDDMean     float64 `json:"max_dd_mean"`
	MaxDDCILower  float64 `json:"max_dd_ci_lower"`
	MaxDDCIUpper  float64 `json:"max_dd_ci_upper"`
	ProbSharpeGt1 float64 `json:"prob_sharpe_gt_1"`
}

// BlockBootstrap resamples contiguous blocks with replacement. It returns
// nil when the series is shorter than one block.
func BlockBootstrap(returns []float64, trials, blockSize int, r *rand.Rand) *BootstrapResult {
	n := len(returns)
	if n < blockSize || blockSize <= 0 || trials <= 0 {
		return nil
	}

	nBlocks := int(math.Ceil(float64(n) / float64(blockSize)))
	sharpes := make([]float64, 0, trials)
	drawdowns := make([]float64, 0, trials)
	sample := make([]float64, 0, nBlocks*blockSize)
	above := 0

	for t := 0; t < trials; t++ {
		sample = sample[:0]
		for b := 0; b < nBlocks; b++ {
			start := r.IntN(n - blockSize + 1)
			sample = append(sample, returns[start:start+blockSize]...)
		}
		m := l3_service.CalculateMetrics(sample[:n])
		sharpes = append(sharpes, m.Sharpe)
		drawdowns = append(drawdowns, m.MaxDrawdown)
		if m.Sharpe > 1 {
			above++
		}
	}

	return &BootstrapResult{
		Trials:        trials,
		BlockSize:     blockSize,
		SharpeMean:    mean(sharpes),
		SharpeStd:     populationStd(sharpes),
		SharpeCILower: percentile(sharpes, 2.5),
		SharpeCIUpper: percentile(sharpes, 97.5),
		MaxDDMean:     mean(drawdowns),
		MaxDDCILower:  percentile(drawdowns, 2.5),
		MaxDDCIUpper:  percentile(drawdowns, 97.5),
		ProbSharpeGt1: float64(above) / float64(trials),
	}
}

func bootstrap(_ context.Context, s suite) (any, error) {
	out := map[string]*BootstrapResult{}
	for _, name := range s.strategies() {
		out[name] = BlockBootstrap(
			s.baseline.Strategies[name].Returns,
			s.opts.BootstrapTrials,
			s.opts.BootstrapBlockSize,
			s.rng(),
		)
	}
	return out, nil
}
