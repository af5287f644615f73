package data

import (
	"fmt"
	"strings"
)

// Universes are the static symbol sets a run selects from
type Universes struct {
	MomentumA []string
	MomentumB []string
	Defensive []string
	Benchmark string
}

type ResolveUniversesInput struct {
	MomentumA []string
	// empty means every store symbol outside the defensive set and the
	// benchmark
	MomentumB []string
	Defensive []string
	Benchmark string
	// when false, momentum-universe members missing from the store are
	// dropped instead of failing
	Strict bool
}

// ResolveUniverses checks the configured universes against the store. The
// benchmark and every defensive member must be present.
func ResolveUniverses(store *PriceStore, in ResolveUniversesInput) (*Universes, []string, error) {
	if in.Benchmark == "" {
		return nil, nil, fmt.Errorf("no benchmark symbol configured")
	}
	if !store.Has(in.Benchmark) {
		return nil, nil, fmt.Errorf("benchmark %s not found in price data", in.Benchmark)
	}
	if len(in.Defensive) == 0 {
		return nil, nil, fmt.Errorf("defensive universe is empty")
	}

	missingDefensive := []string{}
	for _, symbol := range in.Defensive {
		if !store.Has(symbol) {
			missingDefensive = append(missingDefensive, symbol)
		}
	}
	if len(missingDefensive) > 0 {
		return nil, nil, fmt.Errorf("defensive symbols not found in price data: %s", strings.Join(missingDefensive, ", "))
	}

	dropped := []string{}
	filter := func(name string, symbols []string) ([]string, error) {
		out := []string{}
		missing := []string{}
		for _, symbol := range symbols {
			if store.Has(symbol) {
				out = append(out, symbol)
			} else {
				missing = append(missing, symbol)
			}
		}
		if len(missing) > 0 && in.Strict {
			return nil, fmt.Errorf("%s symbols not found in price data: %s", name, strings.Join(missing, ", "))
		}
		dropped = append(dropped, missing...)
		if len(out) == 0 {
			return nil, fmt.Errorf("%s universe has no symbols with price data", name)
		}
		return out, nil
	}

	momentumA, err := filter("momentum_a", in.MomentumA)
	if err != nil {
		return nil, nil, err
	}

	var momentumB []string
	if len(in.MomentumB) == 0 {
		excluded := map[string]bool{in.Benchmark: true}
		for _, symbol := range in.Defensive {
			excluded[symbol] = true
		}
		for _, symbol := range store.Symbols() {
			if !excluded[symbol] {
				momentumB = append(momentumB, symbol)
			}
		}
		if len(momentumB) == 0 {
			return nil, nil, fmt.Errorf("momentum_b universe has no symbols with price data")
		}
	} else {
		momentumB, err = filter("momentum_b", in.MomentumB)
		if err != nil {
			return nil, nil, err
		}
	}

	return &Universes{
		MomentumA: momentumA,
		MomentumB: momentumB,
		Defensive: append([]string{}, in.Defensive...),
		Benchmark: in.Benchmark,
	}, dropped, nil
}
