package robustness

import (
	"context"
	"fmt"
	"math/rand/v2"

	"momentumlab/internal/domain"
	l3_service "momentumlab/internal/service/l3"
)

const (
	TestCostSensitivity      = "cost_sensitivity"
	TestRegimeBreakdown      = "regime_breakdown"
	TestCrisisWindows        = "crisis_windows"
	TestTailRisk             = "tail_risk"
	TestParamSensitivity     = "param_sensitivity"
	TestBootstrap            = "bootstrap"
	TestSharpeSignificance   = "sharpe_significance"
	TestSurvivorship         = "survivorship"
	TestLeverage             = "leverage"
	TestRebalanceSensitivity = "rebalance_sensitivity"
	TestPermutation          = "permutation"
	TestCohensD              = "cohens_d"
	TestMultipleComparison   = "multiple_comparison"
	TestPBO                  = "pbo"
	TestWalkForward          = "walk_forward"
	TestHoldout              = "holdout"
	TestRegimeChange         = "regime_change"
	TestComprehensiveScore   = "comprehensive_score"
)

// Window is a named, inclusive range of "YYYY-MM" period labels
type Window struct {
	Name  string
	Start string
	End   string
}

func (w Window) Contains(label string) bool {
	return label >= w.Start && label <= w.End
}

type Options struct {
	Workers int
	Seed    uint64

	CostRates       []float64
	DefaultCostRate float64

	ParamLookbacks   []int
	ParamTopNs       []int
	BaselineLookback int
	BaselineTopN     int
	StableRatio      float64

	BootstrapTrials    int
	BootstrapBlockSize int

	DSRTrials int

	SurvivorshipPenalty float64
	FundingRate         float64

	RebalanceOffsets []int

	PermutationTrials int
	Alpha             float64
	ScoreTests        int

	PBOBlocks int

	WalkForwardTrain int
	WalkForwardTest  int

	HoldoutRatio float64
	SplitRatio   float64

	MinScorePeriods int

	Windows []Window
	Crises  []Window
}

func DefaultOptions() Options {
	return Options{
		Workers:             4,
		Seed:                42,
		CostRates:           []float64{0.001, 0.002, 0.005, 0.010},
		DefaultCostRate:     0.002,
		ParamLookbacks:      []int{63, 126, 189, 252},
		ParamTopNs:          []int{3, 5, 10},
		BaselineLookback:    126,
		BaselineTopN:        5,
		StableRatio:         0.7,
		BootstrapTrials:     1000,
		BootstrapBlockSize:  12,
		DSRTrials:           12,
		SurvivorshipPenalty: 0.02,
		FundingRate:         0.05,
		RebalanceOffsets:    []int{0, 5, -5},
		PermutationTrials:   10000,
		Alpha:               0.05,
		ScoreTests:          13,
		PBOBlocks:           16,
		WalkForwardTrain:    60,
		WalkForwardTest:     12,
		HoldoutRatio:        0.8,
		SplitRatio:          0.5,
		MinScorePeriods:     60,
	}
}

// suite is the shared read-only state every test sees
type suite struct {
	opts       Options
	simulation l3_service.SimulationService
	base       l3_service.RunSimulationInput
	primary    *domain.SimulationResult
	baseline   *domain.SimulationResult
}

// rng gives every resampling call its own deterministic stream
func (s suite) rng() *rand.Rand {
	return rand.New(rand.NewPCG(s.opts.Seed, s.opts.Seed))
}

func (s suite) strategies() []string {
	return s.baseline.Order
}

func (s suite) benchmark() (domain.StrategyResult, error) {
	b, ok := s.baseline.Get(domain.StrategyBenchmark)
	if !ok {
		return domain.StrategyResult{}, fmt.Errorf("baseline has no %s series", domain.StrategyBenchmark)
	}
	return b, nil
}

// simulate re-runs the baseline with one parameter changed
func (s suite) simulate(ctx context.Context, mutate func(*l3_service.RunSimulationInput)) (*domain.SimulationResult, error) {
	in := s.base
	mutate(&in)
	return s.simulation.Run(ctx, in)
}

type testFunc func(ctx context.Context, s suite) (any, error)

type namedTest struct {
	name string
	run  testFunc
}

func registry() []namedTest {
	return []namedTest{
		{TestCostSensitivity, costSensitivity},
		{TestRegimeBreakdown, regimeBreakdown},
		{TestCrisisWindows, crisisWindows},
		{TestTailRisk, tailRisk},
		{TestParamSensitivity, paramSensitivity},
		{TestBootstrap, bootstrap},
		{TestSharpeSignificance, sharpeSignificance},
		{TestSurvivorship, survivorship},
		{TestLeverage, leverage},
		{TestRebalanceSensitivity, rebalanceSensitivity},
		{TestPermutation, permutation},
		{TestCohensD, cohensD},
		{TestMultipleComparison, multipleComparison},
		{TestPBO, pbo},
		{TestWalkForward, walkForward},
		{TestHoldout, holdout},
		{TestRegimeChange, regimeChange},
		{TestComprehensiveScore, comprehensiveScore},
	}
}

// TestNames lists every test in report order
func TestNames() []string {
	out := []string{}
	for _, t := range registry() {
		out = append(out, t.name)
	}
	return out
}
