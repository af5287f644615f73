package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the full parameter set of a run. It is fixed for the duration of
// a run.
type Config struct {
	Data       Data       `yaml:"data"`
	Universe   Universe   `yaml:"universe"`
	Strategy   Strategy   `yaml:"strategy"`
	Volatility Volatility `yaml:"volatility"`
	VolScale   VolScale   `yaml:"vol_scale"`
	Robustness Robustness `yaml:"robustness"`
	Server     Server     `yaml:"server"`
	Logging    Logging    `yaml:"logging"`
}

// Data locates the price source and the report destination.
type Data struct {
	Path       string `yaml:"path"`
	Format     string `yaml:"format"`
	OutputPath string `yaml:"output_path"`
}

// Universe holds the static symbol sets.
type Universe struct {
	Benchmark string   `yaml:"benchmark"`
	MomentumA []string `yaml:"momentum_a"`
	MomentumB []string `yaml:"momentum_b"`
	Defensive []string `yaml:"defensive"`
	Strict    bool     `yaml:"strict"`
}

// Strategy holds selection, weighting, regime and cost parameters.
type Strategy struct {
	MomentumPeriod     int     `yaml:"momentum_period"`
	MomentumTopN       int     `yaml:"momentum_top_n"`
	DefensiveTopN      int     `yaml:"defensive_top_n"`
	DefensiveTopNSmall int     `yaml:"defensive_top_n_small"`
	WeightCap          float64 `yaml:"weight_cap"`
	CapMode            string  `yaml:"cap_mode"`
	MAPeriod           int     `yaml:"ma_period"`
	RegimeThreshold    float64 `yaml:"regime_threshold"`
	TransactionCost    float64 `yaml:"transaction_cost"`
}

// Volatility configures the blended per-asset estimator.
type Volatility struct {
	ShortPeriod     int     `yaml:"short_period"`
	LongPeriod      int     `yaml:"long_period"`
	ShortWeight     float64 `yaml:"short_weight"`
	LongWeight      float64 `yaml:"long_weight"`
	ShortMinReturns int     `yaml:"short_min_returns"`
	LongMinReturns  int     `yaml:"long_min_returns"`
	Default         float64 `yaml:"default"`
	Floor           float64 `yaml:"floor"`
}

// VolScale configures portfolio vol targeting.
type VolScale struct {
	Lookback int                `yaml:"lookback"`
	Min      float64            `yaml:"min"`
	Max      float64            `yaml:"max"`
	Fallback float64            `yaml:"fallback"`
	Floor    float64            `yaml:"floor"`
	Targets  map[string]float64 `yaml:"targets"`

	// battery re-simulations derive their targets from these two
	RobustBaseTarget         float64 `yaml:"robust_base_target"`
	RobustMomentumMultiplier float64 `yaml:"robust_momentum_multiplier"`
}

// Robustness configures the statistical battery.
type Robustness struct {
	Workers int `yaml:"workers"`
	Seed    int `yaml:"seed"`

	CostRates []float64 `yaml:"cost_rates"`

	ParamLookbacks []int   `yaml:"param_lookbacks"`
	ParamTopNs     []int   `yaml:"param_top_ns"`
	StableRatio    float64 `yaml:"stable_ratio"`

	BootstrapTrials    int `yaml:"bootstrap_trials"`
	BootstrapBlockSize int `yaml:"bootstrap_block_size"`

	DSRTrials int `yaml:"dsr_trials"`

	SurvivorshipPenalty float64 `yaml:"survivorship_penalty"`
	FundingRate         float64 `yaml:"funding_rate"`

	RebalanceOffsets []int `yaml:"rebalance_offsets"`

	PermutationTrials int     `yaml:"permutation_trials"`
	Alpha             float64 `yaml:"alpha"`
	ScoreTests        int     `yaml:"score_tests"`

	PBOBlocks int `yaml:"pbo_blocks"`

	WalkForwardTrain int `yaml:"walk_forward_train"`
	WalkForwardTest  int `yaml:"walk_forward_test"`

	HoldoutRatio float64 `yaml:"holdout_ratio"`
	SplitRatio   float64 `yaml:"split_ratio"`

	MinScorePeriods int `yaml:"min_score_periods"`

	Windows []Window `yaml:"windows"`
	Crises  []Window `yaml:"crises"`
}

// Window is a named calendar range in "YYYY-MM" labels, inclusive.
type Window struct {
	Name  string `yaml:"name"`
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

// Server holds network listener configuration.
type Server struct {
	Port int `yaml:"port"`
}

// Logging configures the application logger.
type Logging struct {
	Level string `yaml:"level"`
}

// Load reads the YAML configuration file at the given path on top of the
// defaults, then applies environment variable overrides and validates.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides checks well-known environment variables and overrides the
// corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LAB_DATA_PATH"); v != "" {
		cfg.Data.Path = v
	}
	if v := os.Getenv("LAB_DATA_FORMAT"); v != "" {
		cfg.Data.Format = v
	}
	if v := os.Getenv("LAB_OUTPUT_PATH"); v != "" {
		cfg.Data.OutputPath = v
	}
	if v := os.Getenv("LAB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
