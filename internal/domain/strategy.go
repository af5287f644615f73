package domain

import "strings"

type Regime string

const (
	RegimeBull Regime = "Bull"
	RegimeBear Regime = "Bear"
)

// BaseSelection identifies one of the selections computed once per period
// and shared by every variant that needs it
type BaseSelection string

const (
	SelectionMomentumA  BaseSelection = "momentum_a"
	SelectionMomentumB  BaseSelection = "momentum_b"
	SelectionDefensive5 BaseSelection = "defensive_5"
	SelectionDefensive3 BaseSelection = "defensive_3"
)

type RegimePolicy string

const (
	// RegimeStatic holds the same base selection in every regime
	RegimeStatic RegimePolicy = "static"
	// RegimeSwitch holds Base in Bull periods and BearBase in Bear periods
	RegimeSwitch RegimePolicy = "switch"
)

// TargetKey picks the vol target a scaled variant uses out of a TargetProfile
type TargetKey string

const (
	TargetMomentumA  TargetKey = "momentum_a"
	TargetMomentumB  TargetKey = "momentum_b"
	TargetDefensive5 TargetKey = "defensive_5"
	TargetDefensive3 TargetKey = "defensive_3"
	TargetHybridA    TargetKey = "hybrid_a"
	TargetHybridB    TargetKey = "hybrid_b"
)

const defaultTargetVol = 0.12

// TargetProfile is a set of annualized vol targets keyed by strategy family
type TargetProfile map[TargetKey]float64

func (p TargetProfile) Target(key TargetKey) float64 {
	if v, ok := p[key]; ok {
		return v
	}
	return defaultTargetVol
}

// StrategyConfig describes one simulated variant. The simulation loop has a
// single body; every behavioral difference between variants lives here.
type StrategyConfig struct {
	Name      string
	Benchmark bool
	Policy    RegimePolicy
	Base      BaseSelection
	BearBase  BaseSelection
	VolScaled bool
	Target    TargetKey
}

// SelectionFor returns the base selection the variant holds in the given regime
func (c StrategyConfig) SelectionFor(regime Regime) BaseSelection {
	if c.Policy == RegimeSwitch && regime == RegimeBear {
		return c.BearBase
	}
	return c.Base
}

const (
	StrategyD2        = "D2"
	StrategyD3        = "D3"
	StrategyDefTop5   = "DEF_TOP5"
	StrategyDefTop3   = "DEF_TOP3"
	StrategyD2Def     = "D2_DEF"
	StrategyD3Def     = "D3_DEF"
	StrategyBenchmark = "SPY"

	volScaleSuffix = "_VOLSCALE"

	StrategyD2VolScale      = StrategyD2 + volScaleSuffix
	StrategyD3VolScale      = StrategyD3 + volScaleSuffix
	StrategyDefTop5VolScale = StrategyDefTop5 + volScaleSuffix
	StrategyDefTop3VolScale = StrategyDefTop3 + volScaleSuffix
	StrategyD2DefVolScale   = StrategyD2Def + volScaleSuffix
	StrategyD3DefVolScale   = StrategyD3Def + volScaleSuffix
)

func IsVolScaledName(name string) bool {
	return strings.HasSuffix(name, volScaleSuffix)
}

// DefaultStrategies returns the 13 variants in report order. D2 runs on the
// large-cap momentum universe, D3 on the broad one.
func DefaultStrategies() []StrategyConfig {
	plain := []StrategyConfig{
		{Name: StrategyD2, Policy: RegimeStatic, Base: SelectionMomentumA, Target: TargetMomentumA},
		{Name: StrategyD3, Policy: RegimeStatic, Base: SelectionMomentumB, Target: TargetMomentumB},
		{Name: StrategyDefTop5, Policy: RegimeStatic, Base: SelectionDefensive5, Target: TargetDefensive5},
		{Name: StrategyDefTop3, Policy: RegimeStatic, Base: SelectionDefensive3, Target: TargetDefensive3},
		{Name: StrategyD2Def, Policy: RegimeSwitch, Base: SelectionMomentumA, BearBase: SelectionDefensive3, Target: TargetHybridA},
		{Name: StrategyD3Def, Policy: RegimeSwitch, Base: SelectionMomentumB, BearBase: SelectionDefensive3, Target: TargetHybridB},
	}

	out := make([]StrategyConfig, 0, 2*len(plain)+1)
	out = append(out, plain...)
	out = append(out, StrategyConfig{Name: StrategyBenchmark, Benchmark: true})
	for _, c := range plain {
		scaled := c
		scaled.Name = c.Name + volScaleSuffix
		scaled.VolScaled = true
		out = append(out, scaled)
	}
	return out
}

// PrimaryTargets are the per-family targets of the cost-bearing main run
func PrimaryTargets() TargetProfile {
	return TargetProfile{
		TargetMomentumA:  0.19,
		TargetMomentumB:  0.19,
		TargetDefensive5: 0.08,
		TargetDefensive3: 0.08,
		TargetHybridA:    0.11,
		TargetHybridB:    0.14,
	}
}

// RobustnessTargets derives the targets used by battery re-simulations from
// a single base: momentum families run at base*momentumMultiplier, all
// others at base. This intentionally differs from PrimaryTargets.
func RobustnessTargets(base, momentumMultiplier float64) TargetProfile {
	return TargetProfile{
		TargetMomentumA:  base * momentumMultiplier,
		TargetMomentumB:  base * momentumMultiplier,
		TargetDefensive5: base,
		TargetDefensive3: base,
		TargetHybridA:    base,
		TargetHybridB:    base,
	}
}
