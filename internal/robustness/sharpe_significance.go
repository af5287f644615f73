package robustness

import (
	"context"
	"math"
)

// Euler-Mascheroni, as used by the expected maximum Sharpe approximation
const eulerGamma = 0.5772

type PSRResult struct {
	Sharpe    float64 `json:"sharpe"`
	Skewness  float64 `json:"skewness"`
	Kurtosis  float64 `json:"kurtosis"`
	PSR       float64 `json:"psr"`
	Periods   int     `json:"n_samples"`
	Benchmark float64 `json:"benchmark_sharpe"`
}

// ProbabilisticSharpe is the probability the true Sharpe exceeds
// benchmarkSharpe given the sample's skew and excess kurtosis. It falls back
// to 0.5 when the variance term is not positive.
func ProbabilisticSharpe(returns []float64, benchmarkSharpe float64) PSRResult {
	n := len(returns)
	sharpe := 0.0
	if s := sampleStd(returns); s > 0 {
		sharpe = mean(returns) / s * math.Sqrt(periodsPerYear)
	}
	skew, kurt := populationMoments(returns)

	psr := 0.5
	radicand := 1 - skew*sharpe + (kurt-1)/4*sharpe*sharpe
	if denom := math.Sqrt(radicand); denom > 0 && n > 1 {
		z := (sharpe - benchmarkSharpe) * math.Sqrt(float64(n-1)) / denom
		psr = normalCDF(z)
	}

	return PSRResult{
		Sharpe:    sharpe,
		Skewness:  skew,
		Kurtosis:  kurt,
		PSR:       psr,
		Periods:   n,
		Benchmark: benchmarkSharpe,
	}
}

// ExpectedMaxSharpe approximates the best Sharpe expected from trials
// independent attempts, scaled to a series of n monthly returns
func ExpectedMaxSharpe(trials, n int) float64 {
	if trials < 2 || n == 0 {
		return 0
	}
	t := float64(trials)
	sr := (1-eulerGamma)*normalQuantile(1-1/t) + eulerGamma*normalQuantile(1-1/(t*math.E))
	return sr * math.Sqrt(periodsPerYear/float64(n))
}

type DSRResult struct {
	Sharpe        float64 `json:"sharpe"`
	ExpectedMaxSR float64 `json:"expected_max_sr"`
	DSR           float64 `json:"dsr"`
	Trials        int     `json:"n_trials"`
}

func DeflatedSharpe(returns []float64, trials int) DSRResult {
	expected := ExpectedMaxSharpe(trials, len(returns))
	psr := ProbabilisticSharpe(returns, expected)
	return DSRResult{
		Sharpe:        psr.Sharpe,
		ExpectedMaxSR: expected,
		DSR:           psr.PSR,
		Trials:        trials,
	}
}

type SharpeSignificanceResult struct {
	PSR PSRResult `json:"psr"`
	DSR DSRResult `json:"dsr"`
}

func sharpeSignificance(_ context.Context, s suite) (any, error) {
	out := map[string]*SharpeSignificanceResult{}
	for _, name := range s.strategies() {
		returns := s.baseline.Strategies[name].Returns
		if len(returns) < 2 {
			out[name] = nil
			continue
		}
		out[name] = &SharpeSignificanceResult{
			PSR: ProbabilisticSharpe(returns, 0),
			DSR: DeflatedSharpe(returns, s.opts.DSRTrials),
		}
	}
	return out, nil
}
