package robustness

import (
	"context"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/combin"

	"momentumlab/internal/domain"
)

const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

func InterpretPBO(pbo float64) string {
	switch {
	case pbo < 0.10:
		return RiskLow
	case pbo < 0.30:
		return RiskMedium
	default:
		return RiskHigh
	}
}

type PBOResult struct {
	Combinations     int     `json:"n_combinations"`
	PBO              float64 `json:"pbo"`
	Risk             string  `json:"risk"`
	RankCorrelation  float64 `json:"rank_correlation"`
	MedianTestSharpe float64 `json:"median_test_sharpe"`
}

// blockMoments lets a split's Sharpe be assembled without concatenating
// the underlying returns. m2 is the sum of squared deviations from mean.
type blockMoments struct {
	n    int
	mean float64
	m2   float64
}

func newBlockMoments(values []float64) blockMoments {
	m := blockMoments{n: len(values), mean: mean(values)}
	for _, x := range values {
		d := x - m.mean
		m.m2 += d * d
	}
	return m
}

// add merges o in with the pairwise update of Chan et al.
func (m *blockMoments) add(o blockMoments) {
	if o.n == 0 {
		return
	}
	if m.n == 0 {
		*m = o
		return
	}
	n := m.n + o.n
	delta := o.mean - m.mean
	m.m2 += o.m2 + delta*delta*float64(m.n)*float64(o.n)/float64(n)
	m.mean += delta * float64(o.n) / float64(n)
	m.n = n
}

// relative dispersion below this is rounding noise, not variance
const minRelativeStd = 1e-9

// sharpe uses the sample stdev, 0 when degenerate
func (m blockMoments) sharpe() float64 {
	if m.n < 2 {
		return 0
	}
	std := math.Sqrt(m.m2 / float64(m.n-1))
	if std == 0 || std <= minRelativeStd*math.Abs(m.mean) {
		return 0
	}
	return m.mean / std * math.Sqrt(periodsPerYear)
}

// CSCV estimates the probability of backtest overfitting over contiguous
// blocks of excess returns. The last block takes the remainder. It returns
// nil when a block would hold fewer than two periods.
func CSCV(excess []float64, nBlocks int) *PBOResult {
	if nBlocks < 2 || nBlocks%2 != 0 {
		return nil
	}
	size := len(excess) / nBlocks
	if size < 2 {
		return nil
	}

	blocks := make([]blockMoments, nBlocks)
	for b := range blocks {
		start := b * size
		end := start + size
		if b == nBlocks-1 {
			end = len(excess)
		}
		blocks[b] = newBlockMoments(excess[start:end])
	}

	splits := combin.Combinations(nBlocks, nBlocks/2)
	train := make([]float64, len(splits))
	test := make([]float64, len(splits))
	inTrain := make([]bool, nBlocks)
	for i, split := range splits {
		for b := range inTrain {
			inTrain[b] = false
		}
		for _, b := range split {
			inTrain[b] = true
		}
		var tr, te blockMoments
		for b, m := range blocks {
			if inTrain[b] {
				tr.add(m)
			} else {
				te.add(m)
			}
		}
		train[i] = tr.sharpe()
		test[i] = te.sharpe()
	}

	med := median(test)

	// top decile by train Sharpe, ties kept in enumeration order
	idx := make([]int, len(train))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return train[idx[a]] > train[idx[b]]
	})

	nTop := max(1, len(splits)/10)
	below := 0
	for _, i := range idx[:nTop] {
		if test[i] <= med {
			below++
		}
	}
	pbo := float64(below) / float64(nTop)

	return &PBOResult{
		Combinations:     len(splits),
		PBO:              pbo,
		Risk:             InterpretPBO(pbo),
		RankCorrelation:  spearman(train, test),
		MedianTestSharpe: med,
	}
}

func pboFor(s suite, strategy, benchmark domain.StrategyResult) *PBOResult {
	return CSCV(alignWithBenchmark(strategy, benchmark).Excess(), s.opts.PBOBlocks)
}

func pbo(_ context.Context, s suite) (any, error) {
	benchmark, err := s.benchmark()
	if err != nil {
		return nil, err
	}
	out := map[string]*PBOResult{}
	for _, name := range s.strategies() {
		if name == domain.StrategyBenchmark {
			continue
		}
		out[name] = pboFor(s, s.baseline.Strategies[name], benchmark)
	}
	return out, nil
}
