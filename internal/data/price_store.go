package data

import (
	"fmt"
	"math"
	"sort"
	"time"

	"momentumlab/internal/domain"
)

// PriceReader is the read-only view of aligned daily prices the estimators
// and the simulation work against
type PriceReader interface {
	Len() int
	Dates() []time.Time
	Has(symbol string) bool
	Price(symbol string, index int) (float64, bool)
	Date(index int) time.Time
}

// Compile-time interface check.
var _ PriceReader = (*PriceStore)(nil)

// PriceStore holds one price sequence per symbol, all aligned to a shared
// trading-day calendar. Missing entries are NaN. Immutable once built.
type PriceStore struct {
	dates   []time.Time
	series  map[string][]float64
	symbols []string
}

// NewPriceStore validates and copies the inputs. A calendar that is empty or
// not strictly increasing, or a series whose length differs from the
// calendar, is a structural error.
func NewPriceStore(dates []time.Time, series map[string][]float64) (*PriceStore, error) {
	if len(dates) == 0 {
		return nil, fmt.Errorf("calendar is empty")
	}
	for i := 1; i < len(dates); i++ {
		if !dates[i].After(dates[i-1]) {
			return nil, fmt.Errorf("calendar is not strictly increasing at index %d (%s after %s)", i, dates[i].Format(time.DateOnly), dates[i-1].Format(time.DateOnly))
		}
	}

	s := &PriceStore{
		dates:   append([]time.Time{}, dates...),
		series:  make(map[string][]float64, len(series)),
		symbols: make([]string, 0, len(series)),
	}
	for symbol, prices := range series {
		if len(prices) != len(dates) {
			return nil, fmt.Errorf("series %s has %d prices but calendar has %d days", symbol, len(prices), len(dates))
		}
		s.series[symbol] = append([]float64{}, prices...)
		s.symbols = append(s.symbols, symbol)
	}
	sort.Strings(s.symbols)

	return s, nil
}

// NewPriceStoreFromPrices pivots long-format prices onto the union of their
// dates. Later duplicates of a (symbol, date) pair win.
func NewPriceStoreFromPrices(prices []domain.AssetPrice) (*PriceStore, error) {
	if len(prices) == 0 {
		return nil, fmt.Errorf("no prices to build store from")
	}

	dateSet := map[time.Time]struct{}{}
	for _, p := range prices {
		dateSet[normalizeDate(p.Date)] = struct{}{}
	}
	dates := make([]time.Time, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool {
		return dates[i].Before(dates[j])
	})
	indexByDate := make(map[time.Time]int, len(dates))
	for i, d := range dates {
		indexByDate[d] = i
	}

	series := map[string][]float64{}
	for _, p := range prices {
		values, ok := series[p.Symbol]
		if !ok {
			values = make([]float64, len(dates))
			for i := range values {
				values[i] = math.NaN()
			}
			series[p.Symbol] = values
		}
		values[indexByDate[normalizeDate(p.Date)]] = p.Price
	}

	return NewPriceStore(dates, series)
}

func normalizeDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *PriceStore) Len() int {
	return len(s.dates)
}

func (s *PriceStore) Dates() []time.Time {
	return append([]time.Time{}, s.dates...)
}

func (s *PriceStore) Date(index int) time.Time {
	return s.dates[index]
}

func (s *PriceStore) Symbols() []string {
	return append([]string{}, s.symbols...)
}

func (s *PriceStore) Has(symbol string) bool {
	_, ok := s.series[symbol]
	return ok
}

// Price returns the price at index; ok is false for unknown symbols, out of
// range indices and NaN/Inf entries
func (s *PriceStore) Price(symbol string, index int) (float64, bool) {
	values, ok := s.series[symbol]
	if !ok || index < 0 || index >= len(values) {
		return 0, false
	}
	v := values[index]
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
