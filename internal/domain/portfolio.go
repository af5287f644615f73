package domain

import (
	"fmt"
	"math"
)

// Weights maps symbol to portfolio fraction
type Weights map[string]float64

func (w Weights) Copy() Weights {
	out := make(Weights, len(w))
	for symbol, weight := range w {
		out[symbol] = weight
	}
	return out
}

func (w Weights) Sum() float64 {
	sum := 0.0
	for _, weight := range w {
		sum += weight
	}
	return sum
}

// SelectionResult is the output of a top-N momentum selection. An empty
// result means there were not enough scorable candidates.
type SelectionResult struct {
	Symbols []string
	Weights Weights
}

func (s SelectionResult) Empty() bool {
	return len(s.Symbols) == 0
}

const weightTolerance = 1e-6

// Validate checks the weights are finite, non-negative, sum to 1 and that
// the result holds exactly n symbols
func (s SelectionResult) Validate(n int) error {
	if s.Empty() {
		return nil
	}
	if len(s.Symbols) != n || len(s.Weights) != n {
		return fmt.Errorf("selection should have %d assets but has %d symbols and %d weights", n, len(s.Symbols), len(s.Weights))
	}
	for symbol, w := range s.Weights {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("invalid weight %f for %s", w, symbol)
		}
		if w < 0 {
			return fmt.Errorf("negative weight %f for %s", w, symbol)
		}
	}
	if sum := s.Weights.Sum(); math.Abs(sum-1) > weightTolerance {
		return fmt.Errorf("weights should sum to 1, got %f", sum)
	}
	return nil
}
