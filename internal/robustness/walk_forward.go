package robustness

import (
	"context"
	"math"
)

type WalkForwardStep struct {
	StartYear   int     `json:"start"`
	TrainSharpe float64 `json:"train_sharpe"`
	TestSharpe  float64 `json:"test_sharpe"`
	Degradation float64 `json:"degradation"`
}

type WalkForwardResult struct {
	Steps          int               `json:"n_periods"`
	AvgDegradation float64           `json:"avg_degradation"`
	Consistency    float64           `json:"consistency"`
	Periods        []WalkForwardStep `json:"periods"`
}

// degradation is the relative change from a to b, 0 when a is 0
func degradation(a, b float64) float64 {
	if a == 0 {
		return 0
	}
	return (b - a) / math.Abs(a)
}

// WalkForward slides a train window followed by a test window forward by
// one test length at a time. It returns nil when one full step does not fit.
func WalkForward(returns []float64, train, test int) *WalkForwardResult {
	if train <= 0 || test <= 0 || len(returns) < train+test {
		return nil
	}

	out := &WalkForwardResult{Periods: []WalkForwardStep{}}
	positive := 0
	totalDegradation := 0.0
	for start := 0; start+train+test <= len(returns); start += test {
		trainSharpe := sampleSharpe(returns[start : start+train])
		testSharpe := sampleSharpe(returns[start+train : start+train+test])
		step := WalkForwardStep{
			StartYear:   start / periodsPerYear,
			TrainSharpe: trainSharpe,
			TestSharpe:  testSharpe,
			Degradation: degradation(trainSharpe, testSharpe),
		}
		out.Periods = append(out.Periods, step)
		totalDegradation += step.Degradation
		if testSharpe > 0 {
			positive++
		}
	}

	out.Steps = len(out.Periods)
	out.AvgDegradation = totalDegradation / float64(out.Steps)
	out.Consistency = float64(positive) / float64(out.Steps)
	return out
}

func walkForward(_ context.Context, s suite) (any, error) {
	out := map[string]*WalkForwardResult{}
	for _, name := range s.strategies() {
		out[name] = WalkForward(s.baseline.Strategies[name].Returns, s.opts.WalkForwardTrain, s.opts.WalkForwardTest)
	}
	return out, nil
}
