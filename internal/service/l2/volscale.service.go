package l2_service

import (
	"math"

	"momentumlab/internal/data"
	"momentumlab/internal/domain"

	"github.com/montanaflynn/stats"
)

// VolScaleService sizes a selection so its recent realized vol tracks a
// target
type VolScaleService interface {
	PortfolioVolatility(selection domain.SelectionResult, idx int) float64
	ScaleFactor(selection domain.SelectionResult, idx int, target float64) (scale float64, realized float64)
}

type VolScaleOptions struct {
	Lookback int
	Min      float64
	Max      float64
	Fallback float64
	Floor    float64
}

func DefaultVolScaleOptions() VolScaleOptions {
	return VolScaleOptions{
		Lookback: 21,
		Min:      0.5,
		Max:      1.5,
		Fallback: 0.15,
		Floor:    0.05,
	}
}

type volScaleServiceHandler struct {
	Prices  data.PriceReader
	Options VolScaleOptions
}

func NewVolScaleService(prices data.PriceReader, opts VolScaleOptions) VolScaleService {
	return volScaleServiceHandler{
		Prices:  prices,
		Options: opts,
	}
}

// PortfolioVolatility is the annualized population stdev of the weighted
// daily returns over [idx-lookback, idx]. Members with any invalid return in
// the window are dropped and the remaining weights renormalized.
func (h volScaleServiceHandler) PortfolioVolatility(selection domain.SelectionResult, idx int) float64 {
	lookback := h.Options.Lookback
	if idx < lookback {
		return h.Options.Fallback
	}

	portfolio := make([]float64, lookback)
	totalWeight := 0.0
	for _, symbol := range selection.Symbols {
		returns, ok := h.windowReturns(symbol, idx-lookback, idx)
		if !ok {
			continue
		}
		w := selection.Weights[symbol]
		for i, r := range returns {
			portfolio[i] += w * r
		}
		totalWeight += w
	}
	if totalWeight == 0 {
		return h.Options.Fallback
	}
	for i := range portfolio {
		portfolio[i] /= totalWeight
	}

	stdev, err := stats.StandardDeviationPopulation(portfolio)
	if err != nil || math.IsNaN(stdev) || stdev <= 0 {
		return h.Options.Fallback
	}
	return math.Max(stdev*math.Sqrt(252), h.Options.Floor)
}

func (h volScaleServiceHandler) windowReturns(symbol string, start, end int) ([]float64, bool) {
	out := make([]float64, 0, end-start)
	for i := start + 1; i <= end; i++ {
		prev, ok := h.Prices.Price(symbol, i-1)
		if !ok || prev <= 0 {
			return nil, false
		}
		cur, ok := h.Prices.Price(symbol, i)
		if !ok {
			return nil, false
		}
		out = append(out, cur/prev-1)
	}
	return out, true
}

// ScaleFactor is target/realized clipped to the configured bounds
func (h volScaleServiceHandler) ScaleFactor(selection domain.SelectionResult, idx int, target float64) (float64, float64) {
	realized := h.PortfolioVolatility(selection, idx)
	scale := 1.0
	if realized > 0 {
		scale = target / realized
	}
	return math.Min(math.Max(scale, h.Options.Min), h.Options.Max), realized
}
