package app

import (
	"momentumlab/internal/config"
	"momentumlab/internal/robustness"
	l1_service "momentumlab/internal/service/l1"
	l2_service "momentumlab/internal/service/l2"
	l3_service "momentumlab/internal/service/l3"
)

func volatilityOptions(cfg *config.Config) l1_service.VolatilityOptions {
	v := cfg.Volatility
	return l1_service.VolatilityOptions{
		ShortPeriod:     v.ShortPeriod,
		LongPeriod:      v.LongPeriod,
		ShortWeight:     v.ShortWeight,
		LongWeight:      v.LongWeight,
		ShortMinReturns: v.ShortMinReturns,
		LongMinReturns:  v.LongMinReturns,
		Default:         v.Default,
		Floor:           v.Floor,
	}
}

func regimeOptions(cfg *config.Config) l1_service.RegimeOptions {
	return l1_service.RegimeOptions{
		Benchmark: cfg.Universe.Benchmark,
		MAPeriod:  cfg.Strategy.MAPeriod,
		Threshold: cfg.Strategy.RegimeThreshold,
	}
}

func selectionOptions(cfg *config.Config) (l2_service.SelectionOptions, error) {
	mode, err := l2_service.ParseCapMode(cfg.Strategy.CapMode)
	if err != nil {
		return l2_service.SelectionOptions{}, err
	}
	return l2_service.SelectionOptions{
		WeightCap: cfg.Strategy.WeightCap,
		CapMode:   mode,
	}, nil
}

func volScaleOptions(cfg *config.Config) l2_service.VolScaleOptions {
	vs := cfg.VolScale
	return l2_service.VolScaleOptions{
		Lookback: vs.Lookback,
		Min:      vs.Min,
		Max:      vs.Max,
		Fallback: vs.Fallback,
		Floor:    vs.Floor,
	}
}

func primaryInput(cfg *config.Config) l3_service.RunSimulationInput {
	s := cfg.Strategy
	return l3_service.RunSimulationInput{
		MomentumPeriod:     s.MomentumPeriod,
		MomentumTopN:       s.MomentumTopN,
		DefensiveTopN:      s.DefensiveTopN,
		DefensiveTopNSmall: s.DefensiveTopNSmall,
		CostRate:           s.TransactionCost,
		Targets:            cfg.PrimaryTargets(),
	}
}

// robustnessInput is the baseline every battery re-simulation mutates
func robustnessInput(cfg *config.Config) l3_service.RunSimulationInput {
	in := primaryInput(cfg)
	in.Targets = cfg.RobustnessTargets()
	return in
}

func toWindows(windows []config.Window) []robustness.Window {
	out := make([]robustness.Window, 0, len(windows))
	for _, w := range windows {
		out = append(out, robustness.Window{Name: w.Name, Start: w.Start, End: w.End})
	}
	return out
}

func batteryOptions(cfg *config.Config) robustness.Options {
	r := cfg.Robustness
	return robustness.Options{
		Workers:             r.Workers,
		Seed:                uint64(r.Seed),
		CostRates:           r.CostRates,
		DefaultCostRate:     cfg.Strategy.TransactionCost,
		ParamLookbacks:      r.ParamLookbacks,
		ParamTopNs:          r.ParamTopNs,
		BaselineLookback:    cfg.Strategy.MomentumPeriod,
		BaselineTopN:        cfg.Strategy.MomentumTopN,
		StableRatio:         r.StableRatio,
		BootstrapTrials:     r.BootstrapTrials,
		BootstrapBlockSize:  r.BootstrapBlockSize,
		DSRTrials:           r.DSRTrials,
		SurvivorshipPenalty: r.SurvivorshipPenalty,
		FundingRate:         r.FundingRate,
		RebalanceOffsets:    r.RebalanceOffsets,
		PermutationTrials:   r.PermutationTrials,
		Alpha:               r.Alpha,
		ScoreTests:          r.ScoreTests,
		PBOBlocks:           r.PBOBlocks,
		WalkForwardTrain:    r.WalkForwardTrain,
		WalkForwardTest:     r.WalkForwardTest,
		HoldoutRatio:        r.HoldoutRatio,
		SplitRatio:          r.SplitRatio,
		MinScorePeriods:     r.MinScorePeriods,
		Windows:             toWindows(r.Windows),
		Crises:              toWindows(r.Crises),
	}
}

// parameters are echoed into the report metadata
func parameters(cfg *config.Config) map[string]any {
	s := cfg.Strategy
	return map[string]any{
		"momentum_period":       s.MomentumPeriod,
		"momentum_top_n":        s.MomentumTopN,
		"defensive_top_n":       s.DefensiveTopN,
		"defensive_top_n_small": s.DefensiveTopNSmall,
		"weight_cap":            s.WeightCap,
		"cap_mode":              s.CapMode,
		"ma_period":             s.MAPeriod,
		"regime_threshold":      s.RegimeThreshold,
		"transaction_cost":      s.TransactionCost,
		"vol_short_period":      cfg.Volatility.ShortPeriod,
		"vol_long_period":       cfg.Volatility.LongPeriod,
		"vol_floor":             cfg.Volatility.Floor,
		"vol_scale_min":         cfg.VolScale.Min,
		"vol_scale_max":         cfg.VolScale.Max,
		"bootstrap_trials":      cfg.Robustness.BootstrapTrials,
		"permutation_trials":    cfg.Robustness.PermutationTrials,
		"seed":                  cfg.Robustness.Seed,
		"benchmark":             cfg.Universe.Benchmark,
	}
}
