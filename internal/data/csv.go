package data

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"momentumlab/internal/domain"
)

// CsvPriceRecord is one row of a long-format "date,symbol,close" file. Close
// is kept as text so blank and NaN cells can be treated as gaps.
type CsvPriceRecord struct {
	Date   string `csv:"date"`
	Symbol string `csv:"symbol"`
	Close  string `csv:"close"`
}

type CsvLoader struct {
	Path string
}

func (l CsvLoader) Load(ctx context.Context) ([]domain.AssetPrice, error) {
	f, err := os.Open(l.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv file %s: %w", l.Path, err)
	}
	defer f.Close()

	records := []CsvPriceRecord{}
	if err := gocsv.UnmarshalFile(f, &records); err != nil {
		return nil, fmt.Errorf("failed to parse csv file %s: %w", l.Path, err)
	}

	return csvRecordsToPrices(records)
}

func csvRecordsToPrices(records []CsvPriceRecord) ([]domain.AssetPrice, error) {
	out := make([]domain.AssetPrice, 0, len(records))
	for i, r := range records {
		date, err := time.Parse(time.DateOnly, strings.TrimSpace(r.Date))
		if err != nil {
			return nil, fmt.Errorf("row %d: failed to parse date %q: %w", i+1, r.Date, err)
		}
		symbol := strings.TrimSpace(r.Symbol)
		if symbol == "" {
			return nil, fmt.Errorf("row %d: missing symbol", i+1)
		}

		raw := strings.TrimSpace(r.Close)
		if raw == "" || strings.EqualFold(raw, "nan") {
			continue
		}
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: failed to parse close %q: %w", i+1, r.Close, err)
		}

		out = append(out, domain.AssetPrice{
			Symbol: symbol,
			Price:  price,
			Date:   date,
		})
	}
	return out, nil
}
