package data

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func universeStore(t *testing.T) *PriceStore {
	dates := []time.Time{day(2020, 1, 2), day(2020, 1, 3)}
	series := map[string][]float64{}
	for _, s := range []string{"SPY", "AAPL", "MSFT", "NVDA", "GLD", "TLT"} {
		series[s] = []float64{1, 2}
	}
	store, err := NewPriceStore(dates, series)
	require.NoError(t, err)
	return store
}

func TestResolveUniverses(t *testing.T) {
	store := universeStore(t)
	base := ResolveUniversesInput{
		MomentumA: []string{"AAPL", "MSFT", "ZZZZ"},
		Defensive: []string{"GLD", "TLT"},
		Benchmark: "SPY",
	}

	t.Run("drops missing momentum symbols", func(t *testing.T) {
		got, dropped, err := ResolveUniverses(store, base)
		require.NoError(t, err)
		require.Equal(t, "", cmp.Diff([]string{"AAPL", "MSFT"}, got.MomentumA))
		require.Equal(t, "", cmp.Diff([]string{"ZZZZ"}, dropped))
	})

	t.Run("momentum b defaults to remaining symbols", func(t *testing.T) {
		got, _, err := ResolveUniverses(store, base)
		require.NoError(t, err)
		require.Equal(t, "", cmp.Diff([]string{"AAPL", "MSFT", "NVDA"}, got.MomentumB))
	})

	t.Run("strict fails on missing symbols", func(t *testing.T) {
		in := base
		in.Strict = true
		_, _, err := ResolveUniverses(store, in)
		require.ErrorContains(t, err, "momentum_a symbols not found in price data: ZZZZ")
	})

	t.Run("missing benchmark", func(t *testing.T) {
		in := base
		in.Benchmark = "QQQ"
		_, _, err := ResolveUniverses(store, in)
		require.ErrorContains(t, err, "benchmark QQQ not found")
	})

	t.Run("missing defensive", func(t *testing.T) {
		in := base
		in.Defensive = []string{"GLD", "IEF"}
		_, _, err := ResolveUniverses(store, in)
		require.ErrorContains(t, err, "IEF")
	})

	t.Run("empty momentum universe", func(t *testing.T) {
		in := base
		in.MomentumA = []string{"ZZZZ"}
		_, _, err := ResolveUniverses(store, in)
		require.ErrorContains(t, err, "momentum_a universe has no symbols")
	})
}
