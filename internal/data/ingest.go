package data

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"golang.org/x/sync/errgroup"

	"momentumlab/internal/domain"
	"momentumlab/internal/logger"
)

// FetchFunc returns daily adjusted closes for one symbol
type FetchFunc func(ctx context.Context, symbol string, start, end time.Time) ([]domain.AssetPrice, error)

// FetchYahooPrices pulls daily adjusted closes from the yahoo chart api
func FetchYahooPrices(ctx context.Context, symbol string, start, end time.Time) ([]domain.AssetPrice, error) {
	params := &chart.Params{
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Symbol:   symbol,
		Interval: datetime.OneDay,
	}
	iter := chart.Get(params)

	out := []domain.AssetPrice{}
	for iter.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		bar := iter.Bar()
		out = append(out, domain.AssetPrice{
			Symbol: symbol,
			Date:   time.Unix(int64(bar.Timestamp), 0).UTC(),
			Price:  bar.AdjClose.InexactFloat64(),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to get prices for %s: %w", symbol, err)
	}

	return out, nil
}

type IngestInput struct {
	Symbols    []string
	Start      time.Time
	End        time.Time
	OutPath    string
	MaxWorkers int
}

// Ingest fetches every symbol concurrently and writes a single parquet
// file. Any fetch failure fails the whole ingest.
func Ingest(ctx context.Context, fetch FetchFunc, in IngestInput) (int, error) {
	log := logger.FromContext(ctx)
	if len(in.Symbols) == 0 {
		return 0, fmt.Errorf("no symbols to ingest")
	}

	var (
		mu  sync.Mutex
		all []domain.AssetPrice
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(in.MaxWorkers, 1))
	for _, symbol := range in.Symbols {
		g.Go(func() error {
			prices, err := fetch(gctx, symbol, in.Start, in.End)
			if err != nil {
				return err
			}
			log.Infof("fetched %d prices for %s", len(prices), symbol)
			mu.Lock()
			all = append(all, prices...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, fmt.Errorf("failed to fetch prices: %w", err)
	}

	if err := WriteParquet(in.OutPath, all); err != nil {
		return 0, err
	}
	return len(all), nil
}
