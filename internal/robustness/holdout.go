package robustness

import (
	"context"

	l3_service "momentumlab/internal/service/l3"
)

type HoldoutResult struct {
	TrainPeriods      int     `json:"train_months"`
	TestPeriods       int     `json:"test_months"`
	TrainSharpe       float64 `json:"train_sharpe"`
	TestSharpe        float64 `json:"test_sharpe"`
	SharpeDegradation float64 `json:"sharpe_degradation"`
	TrainCAGR         float64 `json:"train_cagr"`
	TestCAGR          float64 `json:"test_cagr"`
	CAGRDegradation   float64 `json:"cagr_degradation"`
	TestTStat         float64 `json:"test_t_stat"`
	TestPValue        float64 `json:"test_p_value"`
	TestSignificant   bool    `json:"test_significant"`
	Robust            bool    `json:"is_robust"`
}

// Holdout compares the first trainRatio of the series with the rest. It
// returns nil when either side is empty.
func Holdout(returns []float64, trainRatio, alpha float64) *HoldoutResult {
	split := int(float64(len(returns)) * trainRatio)
	if split == 0 || split == len(returns) {
		return nil
	}
	trainReturns, testReturns := returns[:split], returns[split:]
	train := l3_service.CalculateMetrics(trainReturns)
	test := l3_service.CalculateMetrics(testReturns)
	t, p := tTestOneSample(testReturns, 0)

	sharpeDegradation := degradation(train.Sharpe, test.Sharpe)
	return &HoldoutResult{
		TrainPeriods:      len(trainReturns),
		TestPeriods:       len(testReturns),
		TrainSharpe:       train.Sharpe,
		TestSharpe:        test.Sharpe,
		SharpeDegradation: sharpeDegradation,
		TrainCAGR:         train.CAGR,
		TestCAGR:          test.CAGR,
		CAGRDegradation:   degradation(train.CAGR, test.CAGR),
		TestTStat:         t,
		TestPValue:        p,
		TestSignificant:   p < alpha,
		Robust:            sharpeDegradation > -0.5 && test.Sharpe > 0,
	}
}

func holdout(_ context.Context, s suite) (any, error) {
	out := map[string]*HoldoutResult{}
	for _, name := range s.strategies() {
		out[name] = Holdout(s.baseline.Strategies[name].Returns, s.opts.HoldoutRatio, s.opts.Alpha)
	}
	return out, nil
}
