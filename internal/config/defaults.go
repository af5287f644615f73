package config

import (
	"fmt"
	"time"

	"momentumlab/internal/domain"
)

// large-cap membership list used for the D2 universe
var defaultMomentumA = []string{
	"AAPL", "ABBV", "ABT", "ACN", "ADBE", "AIG", "AMD", "AMGN", "AMT", "AMZN",
	"AVGO", "AXP", "BA", "BAC", "BK", "BKNG", "BLK", "BMY", "BRK.B", "C",
	"CAT", "CHTR", "CL", "CMCSA", "COF", "COP", "COST", "CRM", "CSCO", "CVS",
	"CVX", "DE", "DHR", "DIS", "DOW", "DUK", "EMR", "EXC", "F", "FDX",
	"GD", "GE", "GILD", "GM", "GOOG", "GOOGL", "GS", "HD", "HON", "IBM",
	"INTC", "JNJ", "JPM", "KHC", "KO", "LIN", "LLY", "LMT", "LOW", "MA",
	"MCD", "MDLZ", "MDT", "MET", "META", "MMM", "MO", "MRK", "MS", "MSFT",
	"NEE", "NFLX", "NKE", "NVDA", "ORCL", "PEP", "PFE", "PG", "PM", "PYPL",
	"QCOM", "RTX", "SBUX", "SCHW", "SO", "SPG", "T", "TGT", "TMO", "TMUS",
	"TSLA", "TXN", "UNH", "UNP", "UPS", "USB", "V", "VZ", "WBA", "WFC",
	"WMT", "XOM",
}

var defaultDefensive = []string{
	"GLD", "EEM", "IWM", "QQQ", "SPY", "EFA", "DBC", "LQD", "AGG", "SHY", "TLT", "TIP", "IYR",
}

func Default() *Config {
	return &Config{
		Data: Data{
			Format:     "parquet",
			OutputPath: "report.json",
		},
		Universe: Universe{
			Benchmark: "SPY",
			MomentumA: append([]string{}, defaultMomentumA...),
			Defensive: append([]string{}, defaultDefensive...),
		},
		Strategy: Strategy{
			MomentumPeriod:     126,
			MomentumTopN:       5,
			DefensiveTopN:      5,
			DefensiveTopNSmall: 3,
			WeightCap:          0.40,
			CapMode:            "single_pass",
			MAPeriod:           200,
			RegimeThreshold:    0.95,
			TransactionCost:    0.002,
		},
		Volatility: Volatility{
			ShortPeriod:     21,
			LongPeriod:      60,
			ShortWeight:     0.7,
			LongWeight:      0.3,
			ShortMinReturns: 10,
			LongMinReturns:  20,
			Default:         0.20,
			Floor:           0.05,
		},
		VolScale: VolScale{
			Lookback: 21,
			Min:      0.5,
			Max:      1.5,
			Fallback: 0.15,
			Floor:    0.05,
			Targets:  targetsToMap(domain.PrimaryTargets()),

			RobustBaseTarget:         0.14,
			RobustMomentumMultiplier: 1.36,
		},
		Robustness: Robustness{
			Workers:             4,
			Seed:                42,
			CostRates:           []float64{0.001, 0.002, 0.005, 0.010},
			ParamLookbacks:      []int{63, 126, 189, 252},
			ParamTopNs:          []int{3, 5, 10},
			StableRatio:         0.7,
			BootstrapTrials:     1000,
			BootstrapBlockSize:  12,
			DSRTrials:           12,
			SurvivorshipPenalty: 0.02,
			FundingRate:         0.05,
			RebalanceOffsets:    []int{0, 5, -5},
			PermutationTrials:   10000,
			Alpha:               0.05,
			ScoreTests:          13,
			PBOBlocks:           16,
			WalkForwardTrain:    60,
			WalkForwardTest:     12,
			HoldoutRatio:        0.8,
			SplitRatio:          0.5,
			MinScorePeriods:     60,
			Windows: []Window{
				{Name: "GFC", Start: "2007-01", End: "2009-12"},
				{Name: "LowRate", Start: "2010-01", End: "2019-12"},
				{Name: "Covid", Start: "2020-01", End: "2020-12"},
				{Name: "Inflation", Start: "2021-01", End: "2022-12"},
				{Name: "Recent", Start: "2023-01", End: "2025-12"},
			},
			Crises: []Window{
				{Name: "Lehman", Start: "2008-09", End: "2009-03"},
				{Name: "EuroDebt", Start: "2010-05", End: "2012-06"},
				{Name: "ChinaDevaluation", Start: "2015-08", End: "2016-02"},
				{Name: "CovidCrash", Start: "2020-02", End: "2020-04"},
				{Name: "Bear2022", Start: "2022-01", End: "2022-10"},
			},
		},
		Server: Server{
			Port: 3009,
		},
		Logging: Logging{
			Level: "info",
		},
	}
}

func targetsToMap(p domain.TargetProfile) map[string]float64 {
	out := map[string]float64{}
	for k, v := range p {
		out[string(k)] = v
	}
	return out
}

// PrimaryTargets returns the configured per-family targets of the main run
func (c Config) PrimaryTargets() domain.TargetProfile {
	out := domain.TargetProfile{}
	for k, v := range c.VolScale.Targets {
		out[domain.TargetKey(k)] = v
	}
	return out
}

// RobustnessTargets returns the targets battery re-simulations run with
func (c Config) RobustnessTargets() domain.TargetProfile {
	return domain.RobustnessTargets(c.VolScale.RobustBaseTarget, c.VolScale.RobustMomentumMultiplier)
}

func (c Config) Validate() error {
	s := c.Strategy
	if s.MomentumPeriod <= 0 {
		return fmt.Errorf("momentum_period must be positive, got %d", s.MomentumPeriod)
	}
	if s.MomentumTopN <= 0 || s.DefensiveTopN <= 0 || s.DefensiveTopNSmall <= 0 {
		return fmt.Errorf("top-n values must be positive")
	}
	if s.WeightCap <= 0 || s.WeightCap > 1 {
		return fmt.Errorf("weight_cap must be in (0, 1], got %f", s.WeightCap)
	}
	if s.CapMode != "single_pass" && s.CapMode != "iterative" {
		return fmt.Errorf("cap_mode must be single_pass or iterative, got %q", s.CapMode)
	}
	if s.MAPeriod <= 0 {
		return fmt.Errorf("ma_period must be positive, got %d", s.MAPeriod)
	}
	if s.TransactionCost < 0 {
		return fmt.Errorf("transaction_cost must not be negative")
	}

	v := c.Volatility
	if v.ShortPeriod <= 1 || v.LongPeriod <= 1 {
		return fmt.Errorf("volatility periods must be greater than 1")
	}
	if v.Floor <= 0 {
		return fmt.Errorf("volatility floor must be positive")
	}

	vs := c.VolScale
	if vs.Min <= 0 || vs.Max < vs.Min {
		return fmt.Errorf("vol_scale bounds invalid: min=%f max=%f", vs.Min, vs.Max)
	}
	if vs.Lookback <= 1 {
		return fmt.Errorf("vol_scale lookback must be greater than 1")
	}

	u := c.Universe
	if u.Benchmark == "" {
		return fmt.Errorf("universe benchmark is required")
	}
	if len(u.Defensive) < s.DefensiveTopN {
		return fmt.Errorf("defensive universe has %d symbols, need at least %d", len(u.Defensive), s.DefensiveTopN)
	}

	r := c.Robustness
	if r.PermutationTrials <= 0 || r.BootstrapTrials <= 0 {
		return fmt.Errorf("trial counts must be positive")
	}
	if r.PBOBlocks < 2 || r.PBOBlocks%2 != 0 {
		return fmt.Errorf("pbo_blocks must be an even number >= 2, got %d", r.PBOBlocks)
	}
	if r.HoldoutRatio <= 0 || r.HoldoutRatio >= 1 || r.SplitRatio <= 0 || r.SplitRatio >= 1 {
		return fmt.Errorf("holdout_ratio and split_ratio must be in (0, 1)")
	}
	for _, w := range append(append([]Window{}, r.Windows...), r.Crises...) {
		start, err := time.Parse("2006-01", w.Start)
		if err != nil {
			return fmt.Errorf("window %s: invalid start %q", w.Name, w.Start)
		}
		end, err := time.Parse("2006-01", w.End)
		if err != nil {
			return fmt.Errorf("window %s: invalid end %q", w.Name, w.End)
		}
		if end.Before(start) {
			return fmt.Errorf("window %s ends before it starts", w.Name)
		}
	}
	return nil
}
