package l3_service

import (
	"math"
	"sort"
	"strconv"

	"momentumlab/internal/domain"

	"github.com/montanaflynn/stats"
)

const periodsPerYear = 12

var monthlyAnnualization = math.Sqrt(periodsPerYear)

// CalculateMetrics summarizes a monthly return series. CAGR is annualized,
// so a constant monthly r gives (1+r)^12-1. An empty series gives zero
// metrics.
func CalculateMetrics(returns []float64) domain.Metrics {
	n := len(returns)
	if n == 0 {
		return domain.Metrics{}
	}

	equity := 1.0
	peak := 1.0
	maxDrawdown := 0.0
	for i, r := range returns {
		equity *= 1 + r
		if i == 0 || equity > peak {
			peak = equity
		}
		if dd := equity/peak - 1; dd < maxDrawdown {
			maxDrawdown = dd
		}
	}
	cumulative := equity - 1

	cagr := -1.0
	if equity > 0 {
		cagr = math.Pow(equity, periodsPerYear/float64(n)) - 1
	}

	mean, _ := stats.Mean(returns)
	stdev, _ := stats.StandardDeviationPopulation(returns)
	annualMean := mean * periodsPerYear
	vol := stdev * monthlyAnnualization

	sharpe := 0.0
	if vol > 0 {
		sharpe = annualMean / vol
	}

	negatives := []float64{}
	for _, r := range returns {
		if r < 0 {
			negatives = append(negatives, r)
		}
	}
	downside := 0.001
	if len(negatives) > 0 {
		d, _ := stats.StandardDeviationPopulation(negatives)
		downside = d * monthlyAnnualization
	}
	sortino := 0.0
	if downside > 0 {
		sortino = annualMean / downside
	}

	calmar := 0.0
	if maxDrawdown < 0 {
		calmar = cagr / math.Abs(maxDrawdown)
	}

	return domain.Metrics{
		Periods:     n,
		Cumulative:  cumulative,
		CAGR:        cagr,
		MaxDrawdown: maxDrawdown,
		Volatility:  vol,
		Sharpe:      sharpe,
		Sortino:     sortino,
		Calmar:      calmar,
	}
}

// Sharpe is the annualized Sharpe ratio of monthly returns using the
// population stdev; 0 when undefined
func Sharpe(returns []float64) float64 {
	return CalculateMetrics(returns).Sharpe
}

// Summarize adds the trading statistics of a simulated variant
func Summarize(result domain.StrategyResult, costRate float64) domain.StrategySummary {
	out := domain.StrategySummary{
		Metrics: CalculateMetrics(result.Returns),
	}
	if len(result.Turnovers) > 0 {
		avg, _ := stats.Mean(result.Turnovers)
		out.AvgTurnover = avg
		out.AnnualCost = avg * periodsPerYear * costRate
	}
	if len(result.Scales) > 0 {
		avg, _ := stats.Mean(result.Scales)
		out.AvgScale = &avg
	}
	return out
}

type YearlyReturn struct {
	Year   int
	Return float64
}

// YearlyReturns compounds the monthly returns of each calendar year,
// keyed by the year of the period label
func YearlyReturns(result domain.StrategyResult) []YearlyReturn {
	byYear := map[int]float64{}
	for i, r := range result.Returns {
		if i >= len(result.Labels) || len(result.Labels[i]) < 4 {
			continue
		}
		year, err := strconv.Atoi(result.Labels[i][:4])
		if err != nil {
			continue
		}
		if _, ok := byYear[year]; !ok {
			byYear[year] = 1
		}
		byYear[year] *= 1 + r
	}

	out := make([]YearlyReturn, 0, len(byYear))
	for year, equity := range byYear {
		out = append(out, YearlyReturn{Year: year, Return: equity - 1})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Year < out[j].Year
	})
	return out
}
