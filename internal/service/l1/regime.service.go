package l1_service

import (
	"momentumlab/internal/data"
	"momentumlab/internal/domain"

	"github.com/montanaflynn/stats"
)

// RegimeService classifies the market state from the benchmark's price
// relative to its simple moving average
type RegimeService interface {
	IsBull(idx int) bool
	Classify(idx int) domain.Regime
}

type RegimeOptions struct {
	Benchmark string
	MAPeriod  int
	Threshold float64
}

type regimeServiceHandler struct {
	Prices  data.PriceReader
	Options RegimeOptions
}

func NewRegimeService(prices data.PriceReader, opts RegimeOptions) RegimeService {
	return regimeServiceHandler{
		Prices:  prices,
		Options: opts,
	}
}

// IsBull defaults to true when there is not enough history or any price in
// the average window is missing
func (h regimeServiceHandler) IsBull(idx int) bool {
	period := h.Options.MAPeriod
	if idx < period {
		return true
	}
	price, ok := h.Prices.Price(h.Options.Benchmark, idx)
	if !ok {
		return true
	}

	window := make([]float64, 0, period)
	for i := idx - period + 1; i <= idx; i++ {
		p, ok := h.Prices.Price(h.Options.Benchmark, i)
		if !ok {
			return true
		}
		window = append(window, p)
	}
	sma, err := stats.Mean(window)
	if err != nil {
		return true
	}

	return price >= sma*h.Options.Threshold
}

func (h regimeServiceHandler) Classify(idx int) domain.Regime {
	if h.IsBull(idx) {
		return domain.RegimeBull
	}
	return domain.RegimeBear
}
