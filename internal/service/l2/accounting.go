package l2_service

import (
	"math"

	"momentumlab/internal/data"
	"momentumlab/internal/domain"
)

// Turnover is half the L1 distance between two weight maps. A symbol
// missing from one side counts as weight 0.
func Turnover(prev, curr domain.Weights) float64 {
	total := 0.0
	for symbol, w := range curr {
		total += math.Abs(w - prev[symbol])
	}
	for symbol, w := range prev {
		if _, ok := curr[symbol]; !ok {
			total += math.Abs(w)
		}
	}
	return total / 2
}

// GrossReturn is the weighted holding-period return from start to end.
// Members with a missing or non-positive start price or a missing end price
// contribute nothing; their weight is not redistributed.
func GrossReturn(prices data.PriceReader, selection domain.SelectionResult, start, end int) float64 {
	ret := 0.0
	for _, symbol := range selection.Symbols {
		startPrice, ok := prices.Price(symbol, start)
		if !ok || startPrice <= 0 {
			continue
		}
		endPrice, ok := prices.Price(symbol, end)
		if !ok {
			continue
		}
		ret += (endPrice/startPrice - 1) * selection.Weights[symbol]
	}
	return ret
}

type PeriodReturn struct {
	Gross    float64
	Turnover float64
	Cost     float64
	Net      float64
}

// NetReturn applies turnover cost against the previously held weights
func NetReturn(prices data.PriceReader, selection domain.SelectionResult, start, end int, prev domain.Weights, costRate float64) PeriodReturn {
	gross := GrossReturn(prices, selection, start, end)
	turnover := Turnover(prev, selection.Weights)
	cost := turnover * costRate
	return PeriodReturn{
		Gross:    gross,
		Turnover: turnover,
		Cost:     cost,
		Net:      gross - cost,
	}
}
