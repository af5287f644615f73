package report

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"momentumlab/internal/domain"
	"momentumlab/internal/robustness"
	l3_service "momentumlab/internal/service/l3"

	"github.com/shopspring/decimal"
)

// AssembleInput is everything a report is built from. Battery may be nil
// when the run skipped robustness.
type AssembleInput struct {
	RunID       string
	GeneratedAt time.Time
	Parameters  map[string]any

	PrimaryTargets    domain.TargetProfile
	RobustnessTargets domain.TargetProfile

	Primary  *domain.SimulationResult
	CostRate float64

	Battery *robustness.BatteryResult
	Crises  []robustness.Window

	Timings []domain.Span
}

// Assemble packages a run into primitive nested maps, ready for encoding
func Assemble(in AssembleInput) (map[string]any, error) {
	if in.Primary == nil {
		return nil, fmt.Errorf("report needs a primary simulation result")
	}

	out := map[string]any{
		"metadata":     metadata(in),
		"summary":      summary(in.Primary, in.CostRate),
		"yearly":       yearly(in.Primary),
		"monthly_data": monthlyData(in.Primary, in.Crises),
		"timings":      timings(in.Timings),
	}

	if in.Battery != nil {
		robust := map[string]any{}
		for _, name := range in.Battery.Order {
			if result, ok := in.Battery.Results[name]; ok {
				robust[name] = Primitive(result)
			}
		}
		errs := map[string]any{}
		for name, msg := range in.Battery.Errors {
			errs[name] = msg
		}
		out["robustness"] = robust
		out["errors"] = errs
		out["test_order"] = Primitive(in.Battery.Order)
	}

	return out, nil
}

func metadata(in AssembleInput) map[string]any {
	m := map[string]any{
		"run_id":       in.RunID,
		"generated_at": in.GeneratedAt.UTC().Format(time.RFC3339),
		"n_periods":    len(in.Primary.Months),
		"strategies":   Primitive(in.Primary.Order),
		"parameters":   Primitive(in.Parameters),
		"targets": map[string]any{
			"primary":    Primitive(in.PrimaryTargets),
			"robustness": Primitive(in.RobustnessTargets),
		},
	}
	if n := len(in.Primary.Months); n > 0 {
		m["start"] = in.Primary.Months[0]
		m["end"] = in.Primary.Months[n-1]
	}
	return m
}

func summary(result *domain.SimulationResult, costRate float64) map[string]any {
	out := map[string]any{}
	for _, name := range result.Order {
		out[name] = Primitive(l3_service.Summarize(result.Strategies[name], costRate))
	}
	return out
}

func yearly(result *domain.SimulationResult) map[string]any {
	out := map[string]any{}
	for _, name := range result.Order {
		years := map[string]any{}
		for _, y := range l3_service.YearlyReturns(result.Strategies[name]) {
			years[strconv.Itoa(y.Year)] = Primitive(y.Return)
		}
		out[name] = years
	}
	return out
}

// Round2 rounds half away from zero to two decimals
func Round2(x float64) float64 {
	return decimal.NewFromFloat(x).Round(2).InexactFloat64()
}

// cumulativePercent is the equity curve starting from 100, aligned to the
// run's months. Months the strategy skipped carry the previous value.
func cumulativePercent(months []string, r domain.StrategyResult) []any {
	byLabel := make(map[string]float64, len(r.Labels))
	for i, label := range r.Labels {
		byLabel[label] = r.Cumulative[i]
	}
	out := make([]any, len(months))
	equity := 1.0
	for i, month := range months {
		if v, ok := byLabel[month]; ok {
			equity = v
		}
		out[i] = Primitive(Round2(equity * 100))
	}
	return out
}

func monthlyData(result *domain.SimulationResult, crises []robustness.Window) map[string]any {
	cumulative := map[string]any{}
	for _, name := range result.Order {
		cumulative[name] = cumulativePercent(result.Months, result.Strategies[name])
	}

	switches := []any{}
	for _, s := range result.RegimeSwitches() {
		switches = append(switches, map[string]any{
			"month": s.Month,
			"from":  string(s.From),
			"to":    string(s.To),
		})
	}

	windows := []any{}
	for _, w := range crises {
		windows = append(windows, map[string]any{
			"name":  w.Name,
			"start": w.Start,
			"end":   w.End,
		})
	}

	return map[string]any{
		"months":             Primitive(result.Months),
		"regimes":            Primitive(result.Regimes),
		"cumulative_returns": cumulative,
		"regime_switches":    switches,
		"crisis_windows":     windows,
	}
}

func timings(spans []domain.Span) []any {
	sorted := make([]domain.Span, 0, len(spans))
	for _, s := range spans {
		if s.Elapsed != nil {
			sorted = append(sorted, s)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return *sorted[i].Elapsed > *sorted[j].Elapsed
	})
	out := make([]any, 0, len(sorted))
	for _, s := range sorted {
		out = append(out, map[string]any{
			"name":       s.Name,
			"elapsed_ms": int(*s.Elapsed),
		})
	}
	return out
}
