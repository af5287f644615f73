package data

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"momentumlab/internal/domain"
)

func TestCsvLoader(t *testing.T) {
	t.Run("skips blank and nan closes", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "prices.csv")
		require.NoError(t, os.WriteFile(path, []byte(
			"date,symbol,close\n"+
				"2020-01-02,SPY,100.5\n"+
				"2020-01-03,SPY,\n"+
				"2020-01-03,AGG,NaN\n"+
				"2020-01-06, AGG ,51\n",
		), 0o644))

		got, err := CsvLoader{Path: path}.Load(context.Background())
		require.NoError(t, err)
		require.Equal(t, "", cmp.Diff([]domain.AssetPrice{
			{Symbol: "SPY", Date: day(2020, 1, 2), Price: 100.5},
			{Symbol: "AGG", Date: day(2020, 1, 6), Price: 51},
		}, got))
	})

	t.Run("bad date names the row", func(t *testing.T) {
		_, err := csvRecordsToPrices([]CsvPriceRecord{
			{Date: "2020-01-02", Symbol: "SPY", Close: "1"},
			{Date: "01/03/2020", Symbol: "SPY", Close: "1"},
		})
		require.ErrorContains(t, err, "row 2")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := CsvLoader{Path: filepath.Join(t.TempDir(), "nope.csv")}.Load(context.Background())
		require.Error(t, err)
	})
}

func TestParquetRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prices.parquet")
	prices := []domain.AssetPrice{
		{Symbol: "SPY", Date: day(2020, 1, 3), Price: 101},
		{Symbol: "AGG", Date: day(2020, 1, 2), Price: 50},
		{Symbol: "SPY", Date: day(2020, 1, 2), Price: 100},
	}
	require.NoError(t, WriteParquet(path, prices))

	loader, err := NewPriceLoader(FormatParquet, path)
	require.NoError(t, err)
	got, err := loader.Load(context.Background())
	require.NoError(t, err)

	require.Equal(t, "", cmp.Diff([]domain.AssetPrice{
		{Symbol: "AGG", Date: day(2020, 1, 2), Price: 50},
		{Symbol: "SPY", Date: day(2020, 1, 2), Price: 100},
		{Symbol: "SPY", Date: day(2020, 1, 3), Price: 101},
	}, got))
}

func TestNewPriceLoader(t *testing.T) {
	_, err := NewPriceLoader("csv", "")
	require.ErrorContains(t, err, "no price data path")

	_, err = NewPriceLoader("xlsx", "prices.xlsx")
	require.ErrorContains(t, err, "unsupported")

	l, err := NewPriceLoader("CSV", "prices.csv")
	require.NoError(t, err)
	require.Equal(t, CsvLoader{Path: "prices.csv"}, l)
}

func TestIngest(t *testing.T) {
	start, end := day(2020, 1, 1), day(2020, 1, 31)

	t.Run("writes every fetched symbol", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "prices.parquet")
		fetch := func(ctx context.Context, symbol string, s, e time.Time) ([]domain.AssetPrice, error) {
			require.Equal(t, start, s)
			require.Equal(t, end, e)
			return []domain.AssetPrice{
				{Symbol: symbol, Date: day(2020, 1, 2), Price: 10},
				{Symbol: symbol, Date: day(2020, 1, 3), Price: 11},
			}, nil
		}

		n, err := Ingest(context.Background(), fetch, IngestInput{
			Symbols:    []string{"SPY", "AGG", "GLD"},
			Start:      start,
			End:        end,
			OutPath:    path,
			MaxWorkers: 2,
		})
		require.NoError(t, err)
		require.Equal(t, 6, n)

		store, err := LoadPriceStore(context.Background(), ParquetLoader{Path: path})
		require.NoError(t, err)
		symbols := store.Symbols()
		sort.Strings(symbols)
		require.Equal(t, "", cmp.Diff([]string{"AGG", "GLD", "SPY"}, symbols))
	})

	t.Run("one failed fetch fails the ingest", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "prices.parquet")
		fetch := func(ctx context.Context, symbol string, s, e time.Time) ([]domain.AssetPrice, error) {
			if symbol == "AGG" {
				return nil, fmt.Errorf("rate limited")
			}
			return []domain.AssetPrice{{Symbol: symbol, Date: s, Price: 1}}, nil
		}
		_, err := Ingest(context.Background(), fetch, IngestInput{
			Symbols: []string{"SPY", "AGG"},
			OutPath: path,
		})
		require.ErrorContains(t, err, "rate limited")
		_, statErr := os.Stat(path)
		require.True(t, os.IsNotExist(statErr))
	})

	t.Run("no symbols", func(t *testing.T) {
		_, err := Ingest(context.Background(), nil, IngestInput{})
		require.ErrorContains(t, err, "no symbols")
	})
}
