package robustness

import "context"

type RegimeChangeResult struct {
	KSStatistic    float64 `json:"ks_statistic"`
	KSPValue       float64 `json:"ks_p_value"`
	Changed        bool    `json:"regime_changed"`
	FirstHalfMean  float64 `json:"first_half_mean"`
	SecondHalfMean float64 `json:"second_half_mean"`
	MeanChangeStd  float64 `json:"mean_change_std"`
	FirstHalfVol   float64 `json:"first_half_vol"`
	SecondHalfVol  float64 `json:"second_half_vol"`
	VolChangeRatio float64 `json:"vol_change_pct"`
}

// RegimeChange tests whether the two halves of a series share a
// distribution. Mean and vol shifts are relative to the first half's
// sample stdev. It returns nil when either half is empty.
func RegimeChange(returns []float64, splitRatio, alpha float64) *RegimeChangeResult {
	split := int(float64(len(returns)) * splitRatio)
	if split == 0 || split == len(returns) {
		return nil
	}
	first, second := returns[:split], returns[split:]
	d, p := ksTwoSample(first, second)

	firstMean, secondMean := mean(first), mean(second)
	firstVol, secondVol := sampleStd(first), sampleStd(second)
	out := &RegimeChangeResult{
		KSStatistic:    d,
		KSPValue:       p,
		Changed:        p < alpha,
		FirstHalfMean:  firstMean,
		SecondHalfMean: secondMean,
		FirstHalfVol:   firstVol,
		SecondHalfVol:  secondVol,
	}
	if firstVol > 0 {
		out.MeanChangeStd = (secondMean - firstMean) / firstVol
		out.VolChangeRatio = (secondVol - firstVol) / firstVol
	}
	return out
}

func regimeChange(_ context.Context, s suite) (any, error) {
	out := map[string]*RegimeChangeResult{}
	for _, name := range s.strategies() {
		out[name] = RegimeChange(s.baseline.Strategies[name].Returns, s.opts.SplitRatio, s.opts.Alpha)
	}
	return out, nil
}
