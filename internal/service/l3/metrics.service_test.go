package l3_service

import (
	"math"
	"testing"

	"momentumlab/internal/domain"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestCalculateMetrics(t *testing.T) {
	t.Run("empty series", func(t *testing.T) {
		require.Equal(t, domain.Metrics{}, CalculateMetrics(nil))
	})

	t.Run("hand computed", func(t *testing.T) {
		m := CalculateMetrics([]float64{0.1, -0.05, 0.02})

		equity := 1.1 * 0.95 * 1.02
		mean := (0.1 - 0.05 + 0.02) / 3
		variance := (math.Pow(0.1-mean, 2) + math.Pow(-0.05-mean, 2) + math.Pow(0.02-mean, 2)) / 3
		vol := math.Sqrt(variance) * math.Sqrt(12)

		require.Equal(t, 3, m.Periods)
		require.InDelta(t, equity-1, m.Cumulative, 1e-12)
		require.InDelta(t, math.Pow(equity, 4)-1, m.CAGR, 1e-12)
		require.InDelta(t, -0.05, m.MaxDrawdown, 1e-12)
		require.InDelta(t, vol, m.Volatility, 1e-12)
		require.InDelta(t, mean*12/vol, m.Sharpe, 1e-12)
		// a single negative month has zero downside dispersion
		require.Equal(t, 0.0, m.Sortino)
		require.InDelta(t, m.CAGR/0.05, m.Calmar, 1e-12)
	})

	t.Run("no losing months", func(t *testing.T) {
		m := CalculateMetrics([]float64{0.01, 0.02, 0.03})
		require.Equal(t, 0.0, m.MaxDrawdown)
		require.Equal(t, 0.0, m.Calmar)
		require.InDelta(t, 0.02*12/0.001, m.Sortino, 1e-9)
	})

	t.Run("constant returns have no sharpe", func(t *testing.T) {
		m := CalculateMetrics([]float64{0.01, 0.01, 0.01})
		require.Equal(t, 0.0, m.Sharpe)
		require.Equal(t, 0.0, m.Volatility)
	})

	t.Run("constant return round trip", func(t *testing.T) {
		// r held for n monthly periods; CAGR annualizes the monthly rate
		r, n := 0.01, 36
		returns := make([]float64, n)
		for i := range returns {
			returns[i] = r
		}
		m := CalculateMetrics(returns)

		require.Equal(t, n, m.Periods)
		require.InDelta(t, math.Pow(1+r, float64(n))-1, m.Cumulative, 1e-12)
		require.InDelta(t, math.Pow(1+r, 12)-1, m.CAGR, 1e-12)
		require.InDelta(t, r, math.Pow(1+m.CAGR, 1.0/12)-1, 1e-12)
		require.Equal(t, 0.0, m.MaxDrawdown)
	})

	t.Run("wiped out equity", func(t *testing.T) {
		m := CalculateMetrics([]float64{0.1, -1})
		require.Equal(t, -1.0, m.CAGR)
		require.InDelta(t, -1.0, m.MaxDrawdown, 1e-12)
	})

	t.Run("drawdown measured from the running peak", func(t *testing.T) {
		m := CalculateMetrics([]float64{0.5, -0.2, 0.1, -0.5})
		// peak 1.5, trough 1.5*0.8*1.1*0.5 = 0.66
		require.InDelta(t, 0.66/1.5-1, m.MaxDrawdown, 1e-12)
	})
}

func TestSummarize(t *testing.T) {
	t.Run("unscaled variant has no average scale", func(t *testing.T) {
		s := Summarize(domain.StrategyResult{
			Returns:   []float64{0.01, 0.02},
			Turnovers: []float64{0.5, 0.1},
		}, 0.002)
		require.InDelta(t, 0.3, s.AvgTurnover, 1e-12)
		require.InDelta(t, 0.3*12*0.002, s.AnnualCost, 1e-12)
		require.Nil(t, s.AvgScale)
	})

	t.Run("scaled variant", func(t *testing.T) {
		s := Summarize(domain.StrategyResult{
			Returns:   []float64{0.01, 0.02},
			Turnovers: []float64{0, 0},
			Scales:    []float64{0.5, 1.5},
		}, 0.002)
		require.NotNil(t, s.AvgScale)
		require.InDelta(t, 1.0, *s.AvgScale, 1e-12)
	})
}

func TestYearlyReturns(t *testing.T) {
	got := YearlyReturns(domain.StrategyResult{
		Returns: []float64{0.1, 0.1, -0.5, 0.2},
		Labels:  []string{"2020-11", "2020-12", "2021-01", "2021-02"},
	})
	require.Len(t, got, 2)
	require.Equal(t, 2020, got[0].Year)
	require.InDelta(t, 0.21, got[0].Return, 1e-12)
	require.Equal(t, 2021, got[1].Year)
	require.InDelta(t, -0.4, got[1].Return, 1e-12)
	require.Equal(t, "", cmp.Diff([]int{2020, 2021}, []int{got[0].Year, got[1].Year}))
}
