package l2_service

import (
	"fmt"
	"math"
	"sort"

	"momentumlab/internal/domain"
	l1_service "momentumlab/internal/service/l1"
)

type CapMode string

const (
	// CapSinglePass clips each weight at the cap once and renormalizes,
	// which can leave a weight above the cap
	CapSinglePass CapMode = "single_pass"
	// CapIterative redistributes excess over uncapped names until every
	// weight is within the cap
	CapIterative CapMode = "iterative"
)

// SelectionService ranks a universe by trailing momentum and weights the
// top names by inverse volatility
type SelectionService interface {
	SelectTopN(in SelectTopNInput) domain.SelectionResult
}

type SelectTopNInput struct {
	Universe       []string
	Index          int
	TopN           int
	MomentumPeriod int
}

type SelectionOptions struct {
	WeightCap float64
	CapMode   CapMode
}

type selectionServiceHandler struct {
	PriceService l1_service.PriceService
	Options      SelectionOptions
}

func NewSelectionService(priceService l1_service.PriceService, opts SelectionOptions) SelectionService {
	return selectionServiceHandler{
		PriceService: priceService,
		Options:      opts,
	}
}

type symbolScore struct {
	symbol string
	score  float64
}

// SelectTopN returns an empty result when fewer than TopN members have a
// defined momentum. Ties keep universe order.
func (h selectionServiceHandler) SelectTopN(in SelectTopNInput) domain.SelectionResult {
	if in.TopN <= 0 {
		return domain.SelectionResult{}
	}

	scores := []symbolScore{}
	for _, symbol := range in.Universe {
		m, ok := h.PriceService.Momentum(symbol, in.Index, in.MomentumPeriod)
		if !ok {
			continue
		}
		scores = append(scores, symbolScore{symbol: symbol, score: m})
	}
	if len(scores) < in.TopN {
		return domain.SelectionResult{}
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].score > scores[j].score
	})

	selected := make([]string, 0, in.TopN)
	invVols := make([]float64, 0, in.TopN)
	for _, s := range scores[:in.TopN] {
		selected = append(selected, s.symbol)
		invVols = append(invVols, 1/h.PriceService.Volatility(s.symbol, in.Index))
	}

	return domain.SelectionResult{
		Symbols: selected,
		Weights: capWeights(selected, invVols, h.Options),
	}
}

func capWeights(symbols []string, raw []float64, opts SelectionOptions) domain.Weights {
	total := 0.0
	for _, v := range raw {
		total += v
	}
	normalized := make([]float64, len(raw))
	for i, v := range raw {
		normalized[i] = v / total
	}

	var out []float64
	switch opts.CapMode {
	case CapIterative:
		out = waterFill(normalized, opts.WeightCap)
	default:
		out = singlePassCap(normalized, opts.WeightCap)
	}

	weights := make(domain.Weights, len(symbols))
	for i, symbol := range symbols {
		weights[symbol] = out[i]
	}
	return weights
}

func singlePassCap(weights []float64, maxWeight float64) []float64 {
	out := make([]float64, len(weights))
	total := 0.0
	for i, w := range weights {
		out[i] = math.Min(w, maxWeight)
		total += out[i]
	}
	for i := range out {
		out[i] /= total
	}
	return out
}

// waterFill caps weights and hands the excess to uncapped names in
// proportion to their weight. Infeasible caps (n*cap < 1) give equal weights.
func waterFill(weights []float64, maxWeight float64) []float64 {
	n := len(weights)
	out := append([]float64{}, weights...)
	if float64(n)*maxWeight < 1 {
		for i := range out {
			out[i] = 1 / float64(n)
		}
		return out
	}

	capped := make([]bool, n)
	for iter := 0; iter < n; iter++ {
		excess := 0.0
		for i, w := range out {
			if !capped[i] && w > maxWeight {
				excess += w - maxWeight
				out[i] = maxWeight
				capped[i] = true
			}
		}
		if excess == 0 {
			break
		}
		free := 0.0
		for i, w := range out {
			if !capped[i] {
				free += w
			}
		}
		if free == 0 {
			break
		}
		for i, w := range out {
			if !capped[i] {
				out[i] = w + excess*w/free
			}
		}
	}
	return out
}

// ParseCapMode maps a configured mode name
func ParseCapMode(s string) (CapMode, error) {
	switch CapMode(s) {
	case CapSinglePass, "":
		return CapSinglePass, nil
	case CapIterative:
		return CapIterative, nil
	default:
		return "", fmt.Errorf("unknown cap mode %q", s)
	}
}
