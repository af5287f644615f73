package robustness

import (
	"context"
	"math"
)

const minTailRiskPeriods = 12

type TailRiskResult struct {
	CVaR5               float64 `json:"cvar_5"`
	Worst12m            float64 `json:"worst_12m"`
	Worst3m             float64 `json:"worst_3m"`
	AvgDrawdownDuration float64 `json:"avg_dd_duration"`
	MaxDrawdownDuration int     `json:"max_dd_duration"`
	MaxLosingStreak     int     `json:"max_losing_streak"`
}

// CalculateTailRisk returns nil for fewer than 12 returns
func CalculateTailRisk(returns []float64) *TailRiskResult {
	if len(returns) < minTailRiskPeriods {
		return nil
	}

	var5 := percentile(returns, 5)
	tail := []float64{}
	for _, r := range returns {
		if r <= var5 {
			tail = append(tail, r)
		}
	}

	durations := drawdownDurations(returns)
	avgDuration := 0.0
	maxDuration := 0
	if len(durations) > 0 {
		total := 0
		for _, d := range durations {
			total += d
			if d > maxDuration {
				maxDuration = d
			}
		}
		avgDuration = float64(total) / float64(len(durations))
	}

	streak, maxStreak := 0, 0
	for _, r := range returns {
		if r < 0 {
			streak++
			if streak > maxStreak {
				maxStreak = streak
			}
		} else {
			streak = 0
		}
	}

	return &TailRiskResult{
		CVaR5:               mean(tail),
		Worst12m:            worstRolling(returns, 12),
		Worst3m:             worstRolling(returns, 3),
		AvgDrawdownDuration: avgDuration,
		MaxDrawdownDuration: maxDuration,
		MaxLosingStreak:     maxStreak,
	}
}

func worstRolling(returns []float64, window int) float64 {
	worst := math.Inf(1)
	for i := 0; i+window <= len(returns); i++ {
		worst = math.Min(worst, compound(returns[i:i+window]))
	}
	if math.IsInf(worst, 1) {
		return math.NaN()
	}
	return worst
}

// drawdownDurations counts consecutive periods below the running peak,
// including a run still open at the end of the series
func drawdownDurations(returns []float64) []int {
	out := []int{}
	equity := 1.0
	peak := math.Inf(-1)
	run := 0
	for _, r := range returns {
		equity *= 1 + r
		peak = math.Max(peak, equity)
		if equity < peak {
			run++
			continue
		}
		if run > 0 {
			out = append(out, run)
		}
		run = 0
	}
	if run > 0 {
		out = append(out, run)
	}
	return out
}

func tailRisk(_ context.Context, s suite) (any, error) {
	out := map[string]*TailRiskResult{}
	for _, name := range s.strategies() {
		out[name] = CalculateTailRisk(s.baseline.Strategies[name].Returns)
	}
	return out, nil
}
