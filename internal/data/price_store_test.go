package data

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"momentumlab/internal/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewPriceStore(t *testing.T) {
	dates := []time.Time{day(2020, 1, 2), day(2020, 1, 3), day(2020, 1, 6)}

	t.Run("rejects empty calendar", func(t *testing.T) {
		_, err := NewPriceStore(nil, nil)
		require.ErrorContains(t, err, "calendar is empty")
	})

	t.Run("rejects unordered calendar", func(t *testing.T) {
		_, err := NewPriceStore([]time.Time{dates[1], dates[0]}, nil)
		require.ErrorContains(t, err, "not strictly increasing")
	})

	t.Run("rejects length mismatch", func(t *testing.T) {
		_, err := NewPriceStore(dates, map[string][]float64{"SPY": {1, 2}})
		require.ErrorContains(t, err, "SPY has 2 prices")
	})

	t.Run("treats NaN and out of range as missing", func(t *testing.T) {
		store, err := NewPriceStore(dates, map[string][]float64{
			"SPY": {100, math.NaN(), 102},
			"AGG": {50, 51, math.Inf(1)},
		})
		require.NoError(t, err)

		require.Equal(t, "", cmp.Diff([]string{"AGG", "SPY"}, store.Symbols()))
		require.Equal(t, 3, store.Len())

		p, ok := store.Price("SPY", 0)
		require.True(t, ok)
		require.Equal(t, 100.0, p)

		_, ok = store.Price("SPY", 1)
		require.False(t, ok)
		_, ok = store.Price("AGG", 2)
		require.False(t, ok)
		_, ok = store.Price("SPY", 3)
		require.False(t, ok)
		_, ok = store.Price("QQQ", 0)
		require.False(t, ok)
		require.False(t, store.Has("QQQ"))
	})

	t.Run("copies its inputs", func(t *testing.T) {
		series := map[string][]float64{"SPY": {1, 2, 3}}
		store, err := NewPriceStore(dates, series)
		require.NoError(t, err)
		series["SPY"][0] = 99

		p, _ := store.Price("SPY", 0)
		require.Equal(t, 1.0, p)
	})
}

func TestNewPriceStoreFromPrices(t *testing.T) {
	t.Run("pivots onto the union of dates", func(t *testing.T) {
		store, err := NewPriceStoreFromPrices([]domain.AssetPrice{
			{Symbol: "SPY", Date: day(2020, 1, 3), Price: 101},
			{Symbol: "SPY", Date: day(2020, 1, 2), Price: 100},
			{Symbol: "AGG", Date: day(2020, 1, 6).Add(15 * time.Hour), Price: 52},
			{Symbol: "SPY", Date: day(2020, 1, 3), Price: 105},
		})
		require.NoError(t, err)

		require.Equal(t, "", cmp.Diff(
			[]time.Time{day(2020, 1, 2), day(2020, 1, 3), day(2020, 1, 6)},
			store.Dates(),
		))

		p, ok := store.Price("SPY", 1)
		require.True(t, ok)
		require.Equal(t, 105.0, p)

		_, ok = store.Price("AGG", 0)
		require.False(t, ok)
		p, ok = store.Price("AGG", 2)
		require.True(t, ok)
		require.Equal(t, 52.0, p)
	})

	t.Run("rejects no prices", func(t *testing.T) {
		_, err := NewPriceStoreFromPrices(nil)
		require.Error(t, err)
	})
}
