package l1_service

import (
	"math"
	"sync"

	"momentumlab/internal/data"

	"github.com/montanaflynn/stats"
)

/**

estimators over the aligned price store. everything here is a pure function
of (symbol, index) so volatility results are cached for the life of the
service and can be shared between concurrent simulations

*/

type PriceService interface {
	Momentum(symbol string, idx, period int) (float64, bool)
	Volatility(symbol string, idx int) float64
}

// VolatilityOptions configures the blended short/long horizon estimator
type VolatilityOptions struct {
	ShortPeriod     int
	LongPeriod      int
	ShortWeight     float64
	LongWeight      float64
	ShortMinReturns int
	LongMinReturns  int
	Default         float64
	Floor           float64
}

func DefaultVolatilityOptions() VolatilityOptions {
	return VolatilityOptions{
		ShortPeriod:     21,
		LongPeriod:      60,
		ShortWeight:     0.7,
		LongWeight:      0.3,
		ShortMinReturns: 10,
		LongMinReturns:  20,
		Default:         0.20,
		Floor:           0.05,
	}
}

var annualizationFactor = math.Sqrt(252)

type volKey struct {
	symbol string
	idx    int
}

type volCache struct {
	mu    sync.RWMutex
	cache map[volKey]float64
}

func (c *volCache) get(symbol string, idx int) (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.cache[volKey{symbol, idx}]
	return v, ok
}

func (c *volCache) set(symbol string, idx int, v float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[volKey{symbol, idx}] = v
}

type priceServiceHandler struct {
	Prices  data.PriceReader
	Options VolatilityOptions
	vols    *volCache
}

func NewPriceService(prices data.PriceReader, opts VolatilityOptions) PriceService {
	return &priceServiceHandler{
		Prices:  prices,
		Options: opts,
		vols: &volCache{
			cache: map[volKey]float64{},
		},
	}
}

// Momentum is the trailing simple return over period trading days. It is
// undefined before the lookback is available, when either price is missing
// or when the past price is not positive.
func (h priceServiceHandler) Momentum(symbol string, idx, period int) (float64, bool) {
	if idx < period || period <= 0 {
		return 0, false
	}
	current, ok := h.Prices.Price(symbol, idx)
	if !ok {
		return 0, false
	}
	past, ok := h.Prices.Price(symbol, idx-period)
	if !ok || past <= 0 {
		return 0, false
	}
	return current/past - 1, true
}

// Volatility is the blended annualized vol of symbol at idx. It never
// returns less than the configured floor.
func (h priceServiceHandler) Volatility(symbol string, idx int) float64 {
	if !h.Prices.Has(symbol) {
		return h.Options.Floor
	}
	if v, ok := h.vols.get(symbol, idx); ok {
		return v
	}

	short, shortOk := h.windowVolatility(symbol, idx, h.Options.ShortPeriod, h.Options.ShortMinReturns)
	long, longOk := h.windowVolatility(symbol, idx, h.Options.LongPeriod, h.Options.LongMinReturns)

	var vol float64
	switch {
	case shortOk && longOk:
		vol = h.Options.ShortWeight*short + h.Options.LongWeight*long
	case shortOk:
		vol = short
	case longOk:
		vol = long
	default:
		vol = h.Options.Default
	}
	vol = math.Max(vol, h.Options.Floor)

	h.vols.set(symbol, idx, vol)
	return vol
}

// windowVolatility uses prices [idx-period, idx] and the population stdev of
// the valid day-over-day returns in that range
func (h priceServiceHandler) windowVolatility(symbol string, idx, period, minReturns int) (float64, bool) {
	if idx < period {
		return 0, false
	}
	returns := dailyReturns(h.Prices, symbol, idx-period, idx)
	if len(returns) < minReturns {
		return 0, false
	}
	stdev, err := stats.StandardDeviationPopulation(returns)
	if err != nil || math.IsNaN(stdev) {
		return 0, false
	}
	return stdev * annualizationFactor, true
}

// dailyReturns computes p[i]/p[i-1]-1 for i in (start, end], dropping any
// return whose endpoints are missing or whose base is not positive
func dailyReturns(prices data.PriceReader, symbol string, start, end int) []float64 {
	out := make([]float64, 0, end-start)
	for i := start + 1; i <= end; i++ {
		prev, ok := prices.Price(symbol, i-1)
		if !ok || prev <= 0 {
			continue
		}
		cur, ok := prices.Price(symbol, i)
		if !ok {
			continue
		}
		out = append(out, cur/prev-1)
	}
	return out
}
