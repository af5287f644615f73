package data

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/parquet-go/parquet-go"

	"momentumlab/internal/domain"
)

// PriceRecord is the on-disk parquet schema for daily closes, one row per
// (symbol, day)
type PriceRecord struct {
	Symbol    string  `parquet:"symbol"`
	Timestamp int64   `parquet:"timestamp,timestamp(millisecond)"` // Unix ms
	Close     float64 `parquet:"close"`
}

type ParquetLoader struct {
	Path string
}

func (l ParquetLoader) Load(ctx context.Context) ([]domain.AssetPrice, error) {
	rows, err := parquet.ReadFile[PriceRecord](l.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet file %s: %w", l.Path, err)
	}

	out := make([]domain.AssetPrice, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.AssetPrice{
			Symbol: r.Symbol,
			Price:  r.Close,
			Date:   time.UnixMilli(r.Timestamp).UTC(),
		})
	}
	return out, nil
}

// WriteParquet writes prices sorted by (symbol, date)
func WriteParquet(path string, prices []domain.AssetPrice) error {
	records := make([]PriceRecord, 0, len(prices))
	for _, p := range prices {
		records = append(records, PriceRecord{
			Symbol:    p.Symbol,
			Timestamp: p.Date.UnixMilli(),
			Close:     p.Price,
		})
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].Symbol != records[j].Symbol {
			return records[i].Symbol < records[j].Symbol
		}
		return records[i].Timestamp < records[j].Timestamp
	})

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := parquet.WriteFile(path, records); err != nil {
		return fmt.Errorf("failed to write parquet file %s: %w", path, err)
	}
	return nil
}
