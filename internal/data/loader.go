package data

import (
	"context"
	"fmt"
	"strings"

	"momentumlab/internal/domain"
)

// PriceLoader reads long-format daily closes from an external source
type PriceLoader interface {
	Load(ctx context.Context) ([]domain.AssetPrice, error)
}

const (
	FormatParquet = "parquet"
	FormatCsv     = "csv"
)

func NewPriceLoader(format, path string) (PriceLoader, error) {
	if path == "" {
		return nil, fmt.Errorf("no price data path configured")
	}
	switch strings.ToLower(format) {
	case FormatParquet, "":
		return ParquetLoader{Path: path}, nil
	case FormatCsv:
		return CsvLoader{Path: path}, nil
	default:
		return nil, fmt.Errorf("unsupported price data format %q", format)
	}
}

// LoadPriceStore loads prices and builds the aligned store
func LoadPriceStore(ctx context.Context, loader PriceLoader) (*PriceStore, error) {
	prices, err := loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load prices: %w", err)
	}
	store, err := NewPriceStoreFromPrices(prices)
	if err != nil {
		return nil, fmt.Errorf("failed to build price store: %w", err)
	}
	return store, nil
}
