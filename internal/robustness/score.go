package robustness

import (
	"context"
	"fmt"
	"math"

	"momentumlab/internal/domain"
)

const MaxScore = 5

const (
	ScoreReasonBenchmark    = "benchmark"
	ScoreReasonInsufficient = "insufficient data"
)

type ScoreComponents struct {
	PermutationP          float64 `json:"permutation_p"`
	PermutationSig        bool    `json:"permutation_significant"`
	CohensD               float64 `json:"cohens_d"`
	CohensDInterpretation string  `json:"cohens_d_interpretation"`
	BonferroniAlpha       float64 `json:"bonferroni_alpha"`
	BonferroniSig         bool    `json:"bonferroni_significant"`
	PBO                   float64 `json:"pbo"`
	PBORisk               string  `json:"pbo_risk"`
	WFAConsistency        float64 `json:"wfa_consistency"`
	WFADegradation        float64 `json:"wfa_avg_degradation"`
}

type ScoreResult struct {
	Score      int              `json:"score"`
	MaxScore   int              `json:"max_score"`
	Reason     string           `json:"reason,omitempty"`
	Components *ScoreComponents `json:"components"`
}

// scoreStrategy awards one point per passed check. A missing PBO counts
// as 0.5 and a missing walk-forward as zero consistency.
func scoreStrategy(s suite, strategy, benchmark domain.StrategyResult) ScoreResult {
	a := alignWithBenchmark(strategy, benchmark)
	if a.Len() < s.opts.MinScorePeriods {
		return ScoreResult{MaxScore: MaxScore, Reason: ScoreReasonInsufficient}
	}

	excess := a.Excess()
	c := &ScoreComponents{
		PermutationP:    1,
		BonferroniAlpha: s.opts.Alpha / float64(s.opts.ScoreTests),
		PBO:             0.5,
		PBORisk:         RiskMedium,
	}

	if perm := PermutationTest(excess, s.opts.PermutationTrials, s.rng()); perm != nil {
		c.PermutationP = perm.PValue
		c.PermutationSig = perm.PValue < s.opts.Alpha
	}
	c.BonferroniSig = c.PermutationP < c.BonferroniAlpha

	c.CohensD = CohensD(a.Strategy, a.Benchmark)
	c.CohensDInterpretation = InterpretCohensD(c.CohensD)

	if res := CSCV(excess, s.opts.PBOBlocks); res != nil {
		c.PBO = res.PBO
		c.PBORisk = res.Risk
	}
	if wfa := WalkForward(a.Strategy, s.opts.WalkForwardTrain, s.opts.WalkForwardTest); wfa != nil {
		c.WFAConsistency = wfa.Consistency
		c.WFADegradation = wfa.AvgDegradation
	}

	score := 0
	for _, passed := range []bool{
		c.PermutationSig,
		math.Abs(c.CohensD) >= 0.2,
		c.BonferroniSig,
		c.PBO < 0.30,
		c.WFAConsistency >= 0.60,
	} {
		if passed {
			score++
		}
	}
	return ScoreResult{Score: score, MaxScore: MaxScore, Components: c}
}

// comprehensiveScore grades the primary run rather than the baseline
func comprehensiveScore(_ context.Context, s suite) (any, error) {
	if s.primary == nil {
		return nil, fmt.Errorf("comprehensive score needs the primary simulation")
	}
	benchmark, ok := s.primary.Get(domain.StrategyBenchmark)
	if !ok {
		return nil, fmt.Errorf("primary run has no %s series", domain.StrategyBenchmark)
	}

	out := map[string]ScoreResult{}
	for _, name := range s.primary.Order {
		if name == domain.StrategyBenchmark {
			out[name] = ScoreResult{MaxScore: MaxScore, Reason: ScoreReasonBenchmark}
			continue
		}
		out[name] = scoreStrategy(s, s.primary.Strategies[name], benchmark)
	}
	return out, nil
}
