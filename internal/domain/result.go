package domain

// Metrics summarizes one monthly return series. Ratios that are undefined
// for the input fall back to 0.
type Metrics struct {
	Periods     int     `json:"periods"`
	Cumulative  float64 `json:"cumulative"`
	CAGR        float64 `json:"cagr"`
	MaxDrawdown float64 `json:"max_dd"`
	Volatility  float64 `json:"volatility"`
	Sharpe      float64 `json:"sharpe"`
	Sortino     float64 `json:"sortino"`
	Calmar      float64 `json:"calmar"`
}

// StrategySummary is Metrics plus the trading statistics reported for the
// main run
type StrategySummary struct {
	Metrics
	AvgTurnover float64  `json:"avg_turnover"`
	AnnualCost  float64  `json:"annual_cost"`
	AvgScale    *float64 `json:"avg_scale"`
}

// StrategyResult is the frozen output of one variant. All slices have the
// same length; Scales is nil for variants without vol scaling.
type StrategyResult struct {
	Name       string
	Returns    []float64
	Cumulative []float64
	Turnovers  []float64
	Scales     []float64
	Labels     []string
	Regimes    []Regime
}

func (r StrategyResult) Len() int {
	return len(r.Returns)
}

// Equity is the terminal cumulative equity, starting from 1.0
func (r StrategyResult) Equity() float64 {
	if len(r.Cumulative) == 0 {
		return 1
	}
	return r.Cumulative[len(r.Cumulative)-1]
}

// SimulationResult holds every variant of one run plus the run-level month
// and regime labels of each period that was not globally skipped
type SimulationResult struct {
	Months     []string
	Regimes    []Regime
	Order      []string
	Strategies map[string]StrategyResult
}

func (s SimulationResult) Get(name string) (StrategyResult, bool) {
	r, ok := s.Strategies[name]
	return r, ok
}

// RegimeTransition marks a period whose regime differs from the previous one
type RegimeTransition struct {
	Month string
	From  Regime
	To    Regime
}

func (s SimulationResult) RegimeSwitches() []RegimeTransition {
	out := []RegimeTransition{}
	for i := 1; i < len(s.Regimes); i++ {
		if s.Regimes[i] != s.Regimes[i-1] {
			out = append(out, RegimeTransition{
				Month: s.Months[i],
				From:  s.Regimes[i-1],
				To:    s.Regimes[i],
			})
		}
	}
	return out
}
