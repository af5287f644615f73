package robustness

import (
	"fmt"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"momentumlab/internal/domain"
)

func randomReturns(n int, seed uint64, mu, sigma float64) []float64 {
	r := rand.New(rand.NewPCG(seed, seed))
	out := make([]float64, n)
	for i := range out {
		out[i] = mu + sigma*r.NormFloat64()
	}
	return out
}

func seeded() *rand.Rand {
	return rand.New(rand.NewPCG(42, 42))
}

func TestBlockBootstrap(t *testing.T) {
	t.Run("too short", func(t *testing.T) {
		require.Nil(t, BlockBootstrap(make([]float64, 11), 100, 12, seeded()))
	})

	t.Run("same seed same result", func(t *testing.T) {
		returns := randomReturns(60, 7, 0.01, 0.04)
		a := BlockBootstrap(returns, 200, 12, seeded())
		b := BlockBootstrap(returns, 200, 12, seeded())
		require.Equal(t, "", cmp.Diff(a, b))
		require.LessOrEqual(t, a.SharpeCILower, a.SharpeCIUpper)
		require.LessOrEqual(t, a.MaxDDCIUpper, 0.0)
		require.GreaterOrEqual(t, a.ProbSharpeGt1, 0.0)
		require.LessOrEqual(t, a.ProbSharpeGt1, 1.0)
	})

	t.Run("constant series", func(t *testing.T) {
		returns := make([]float64, 24)
		for i := range returns {
			returns[i] = 0.25
		}
		got := BlockBootstrap(returns, 50, 12, seeded())
		require.Equal(t, 0.0, got.SharpeMean)
		require.Equal(t, 0.0, got.SharpeStd)
		require.Equal(t, 0.0, got.ProbSharpeGt1)
	})
}

func TestSharpeSignificanceFamily(t *testing.T) {
	t.Run("positive drift raises psr above one half", func(t *testing.T) {
		got := ProbabilisticSharpe(randomReturns(120, 3, 0.02, 0.03), 0)
		require.Greater(t, got.PSR, 0.5)
		require.LessOrEqual(t, got.PSR, 1.0)
		require.Equal(t, 120, got.Periods)
	})

	t.Run("degenerate series falls back to one half", func(t *testing.T) {
		got := ProbabilisticSharpe([]float64{0.25, 0.25, 0.25, 0.25}, 0)
		require.Equal(t, 0.5, got.PSR)
	})

	t.Run("expected max sharpe", func(t *testing.T) {
		require.Equal(t, 0.0, ExpectedMaxSharpe(1, 100))
		e12 := ExpectedMaxSharpe(12, 120)
		require.Greater(t, e12, 0.0)
		require.Greater(t, ExpectedMaxSharpe(100, 120), e12)
		// longer histories shrink the bar
		require.Less(t, ExpectedMaxSharpe(12, 240), e12)
	})

	t.Run("dsr never exceeds psr against zero", func(t *testing.T) {
		returns := randomReturns(120, 5, 0.01, 0.04)
		require.LessOrEqual(t, DeflatedSharpe(returns, 12).DSR, ProbabilisticSharpe(returns, 0).PSR)
	})
}

func TestAdjustments(t *testing.T) {
	t.Run("survivorship penalty per month", func(t *testing.T) {
		got := SurvivorshipAdjust([]float64{0.01, -0.02}, 0.12)
		require.InDeltaSlice(t, []float64{0, -0.03}, got, 1e-12)
	})

	t.Run("funding on leveraged periods only", func(t *testing.T) {
		got := FundingAdjust([]float64{0.02, 0.02, 0.02}, []float64{0.5, 1, 1.5}, 0.12)
		require.InDeltaSlice(t, []float64{0.02, 0.02, 0.015}, got, 1e-12)
	})

	t.Run("leverage statistics", func(t *testing.T) {
		got := CalculateLeverage(domain.StrategyResult{
			Returns: []float64{0.01, 0.02, -0.01, 0.03},
			Scales:  []float64{0.5, 1.5, 1.0, 1.2},
		}, 0.05)
		require.InDelta(t, 1.05, got.MeanScale, 1e-12)
		require.InDelta(t, 1.5, got.MaxScale, 1e-12)
		require.InDelta(t, 0.5, got.LeveragedRatio, 1e-12)
		require.Less(t, got.SharpeDelta, 0.0)

		require.Nil(t, CalculateLeverage(domain.StrategyResult{Returns: []float64{0.01}}, 0.05))
	})

	t.Run("rebalance sensitivity classes", func(t *testing.T) {
		require.Equal(t, SensitivityLow, classifySensitivity(0.05))
		require.Equal(t, SensitivityMedium, classifySensitivity(0.1))
		require.Equal(t, SensitivityHigh, classifySensitivity(0.2))
	})
}

func TestPermutationFamily(t *testing.T) {
	t.Run("symmetric excess gives p near one half", func(t *testing.T) {
		magnitudes := randomReturns(30, 11, 0, 0.02)
		excess := []float64{}
		for _, m := range magnitudes {
			excess = append(excess, m, -m)
		}
		got := PermutationTest(excess, 10000, seeded())
		require.InDelta(t, 0, got.ObservedMean, 1e-15)
		require.InDelta(t, 0.5, got.PValue, 0.05)
		require.False(t, got.Significant005)
	})

	t.Run("identical strategy and benchmark gives one half", func(t *testing.T) {
		returns := randomReturns(60, 7, 0.01, 0.04)
		strategy := domain.StrategyResult{Labels: []string{}, Returns: returns}
		for i := range returns {
			strategy.Labels = append(strategy.Labels, fmt.Sprintf("2020-%02d", i))
		}
		excess := alignWithBenchmark(strategy, strategy).Excess()

		got := PermutationTest(excess, 1000, seeded())
		require.Equal(t, 0.0, got.ObservedMean)
		require.Equal(t, 0.5, got.PValue)
		require.False(t, got.Significant005)
	})

	t.Run("strong positive excess is significant", func(t *testing.T) {
		got := PermutationTest(randomReturns(120, 13, 0.01, 0.01), 2000, seeded())
		require.Less(t, got.PValue, 0.01)
		require.True(t, got.Significant001)
	})

	t.Run("empty series", func(t *testing.T) {
		require.Nil(t, PermutationTest(nil, 100, seeded()))
	})

	t.Run("aligned on labels", func(t *testing.T) {
		strategy := domain.StrategyResult{Labels: []string{"2020-02", "2020-03"}, Returns: []float64{0.05, 0.01}}
		benchmark := domain.StrategyResult{Labels: []string{"2020-01", "2020-02", "2020-03"}, Returns: []float64{0.9, 0.04, 0.02}}
		a := alignWithBenchmark(strategy, benchmark)
		require.Equal(t, []string{"2020-02", "2020-03"}, a.Labels)
		require.InDeltaSlice(t, []float64{0.01, -0.01}, a.Excess(), 1e-12)
	})
}

func TestCohensDFamily(t *testing.T) {
	t.Run("pooled stdev", func(t *testing.T) {
		a := []float64{1, 2, 3}
		b := []float64{0, 1, 2}
		require.InDelta(t, 1, CohensD(a, b), 1e-12)
		require.Equal(t, EffectLarge, InterpretCohensD(1))
	})

	t.Run("zero pooled stdev", func(t *testing.T) {
		require.Equal(t, 0.0, CohensD([]float64{1, 1}, []float64{0, 0}))
	})

	t.Run("interpretation", func(t *testing.T) {
		require.Equal(t, EffectNegligible, InterpretCohensD(-0.1))
		require.Equal(t, EffectSmall, InterpretCohensD(0.3))
		require.Equal(t, EffectMedium, InterpretCohensD(-0.6))
	})
}

func TestCorrectPValues(t *testing.T) {
	pValues := map[string]float64{
		"a": 0.001,
		"b": 0.008,
		"c": 0.039,
		"d": 0.041,
		"e": 0.042,
		"f": 0.06,
		"g": 0.074,
		"h": 0.205,
		"i": 0.212,
		"j": 0.216,
	}
	got := CorrectPValues(pValues, 0.05)

	t.Run("bonferroni", func(t *testing.T) {
		require.InDelta(t, 0.005, got.BonferroniAlpha, 1e-12)
		require.True(t, got.Strategies["a"].BonferroniSig)
		require.False(t, got.Strategies["b"].BonferroniSig)
	})

	t.Run("adjusted values are monotone in p", func(t *testing.T) {
		order := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
		for i := 1; i < len(order); i++ {
			require.LessOrEqual(t, got.Strategies[order[i-1]].AdjustedP, got.Strategies[order[i]].AdjustedP)
		}
		require.InDelta(t, 0.01, got.Strategies["a"].AdjustedP, 1e-12)
		require.InDelta(t, 0.04, got.Strategies["b"].AdjustedP, 1e-12)
		require.InDelta(t, 0.084, got.Strategies["c"].AdjustedP, 1e-12)
	})

	t.Run("fdr set contains bonferroni set", func(t *testing.T) {
		for name, c := range got.Strategies {
			if c.BonferroniSig {
				require.True(t, c.FDRSignificant, name)
			}
		}
		require.True(t, got.Strategies["b"].FDRSignificant)
		require.False(t, got.Strategies["c"].FDRSignificant)
	})

	t.Run("adjusted capped at one", func(t *testing.T) {
		got := CorrectPValues(map[string]float64{"x": 0.9, "y": 0.95}, 0.05)
		for _, c := range got.Strategies {
			require.LessOrEqual(t, c.AdjustedP, 1.0)
		}
	})

	t.Run("empty", func(t *testing.T) {
		got := CorrectPValues(map[string]float64{}, 0.05)
		require.Equal(t, 0, got.Tests)
		require.Empty(t, got.Strategies)
	})
}

func TestCSCV(t *testing.T) {
	t.Run("blocks too small", func(t *testing.T) {
		require.Nil(t, CSCV(make([]float64, 31), 16))
	})

	t.Run("enumerates every split", func(t *testing.T) {
		got := CSCV(randomReturns(192, 17, 0.002, 0.03), 16)
		require.Equal(t, 12870, got.Combinations)
		require.GreaterOrEqual(t, got.PBO, 0.0)
		require.LessOrEqual(t, got.PBO, 1.0)
		require.Equal(t, InterpretPBO(got.PBO), got.Risk)
		require.False(t, math.IsNaN(got.RankCorrelation))
	})

	t.Run("halves of a fixed sample mirror each other", func(t *testing.T) {
		// train and test of complementary splits swap, so high train
		// Sharpe implies low test Sharpe
		got := CSCV(randomReturns(160, 19, 0.001, 0.02), 16)
		require.Less(t, got.RankCorrelation, 0.0)
	})

	t.Run("near constant blocks have no sharpe", func(t *testing.T) {
		// 0.01 is not exact in binary and blocks of three do not divide
		// evenly, so any cancellation shows up as a huge Sharpe
		excess := make([]float64, 48)
		for i := range excess {
			excess[i] = 0.01
		}
		got := CSCV(excess, 16)
		require.Equal(t, 0.0, got.MedianTestSharpe)
		require.Equal(t, 1.0, got.PBO)
	})

	t.Run("merged blocks match the concatenated series", func(t *testing.T) {
		a := randomReturns(7, 51, 0.01, 0.03)
		b := randomReturns(5, 53, -0.02, 0.05)
		m := newBlockMoments(a)
		m.add(newBlockMoments(b))
		require.Equal(t, 12, m.n)
		require.InDelta(t, sampleSharpe(append(append([]float64{}, a...), b...)), m.sharpe(), 1e-12)
	})

	t.Run("flat excess", func(t *testing.T) {
		got := CSCV(make([]float64, 64), 16)
		require.Equal(t, 1.0, got.PBO)
		require.Equal(t, 0.0, got.MedianTestSharpe)
	})

	t.Run("risk levels", func(t *testing.T) {
		require.Equal(t, RiskLow, InterpretPBO(0.05))
		require.Equal(t, RiskMedium, InterpretPBO(0.1))
		require.Equal(t, RiskHigh, InterpretPBO(0.3))
	})
}

func TestWalkForwardFamily(t *testing.T) {
	t.Run("needs one full step", func(t *testing.T) {
		require.Nil(t, WalkForward(make([]float64, 71), 60, 12))
		require.Equal(t, 1, WalkForward(randomReturns(72, 1, 0.01, 0.02), 60, 12).Steps)
	})

	t.Run("steps by the test length", func(t *testing.T) {
		got := WalkForward(randomReturns(100, 2, 0.01, 0.02), 60, 12)
		require.Equal(t, 3, got.Steps)
		require.Equal(t, []int{0, 1, 2}, []int{got.Periods[0].StartYear, got.Periods[1].StartYear, got.Periods[2].StartYear})
	})

	t.Run("zero train sharpe gives zero degradation", func(t *testing.T) {
		returns := make([]float64, 72)
		for i := 60; i < 72; i++ {
			returns[i] = 0.01 * float64(i%3)
		}
		got := WalkForward(returns, 60, 12)
		require.Equal(t, 0.0, got.Periods[0].TrainSharpe)
		require.Equal(t, 0.0, got.AvgDegradation)
		require.Equal(t, 1.0, got.Consistency)
	})
}

func TestHoldoutFamily(t *testing.T) {
	t.Run("split and robustness", func(t *testing.T) {
		got := Holdout(randomReturns(100, 23, 0.015, 0.02), 0.8, 0.05)
		require.Equal(t, 80, got.TrainPeriods)
		require.Equal(t, 20, got.TestPeriods)
		require.Greater(t, got.TestSharpe, 0.0)
		require.Equal(t, got.SharpeDegradation > -0.5 && got.TestSharpe > 0, got.Robust)
		require.Equal(t, got.TestPValue < 0.05, got.TestSignificant)
	})

	t.Run("losing holdout is not robust", func(t *testing.T) {
		returns := append(randomReturns(40, 29, 0.02, 0.01), randomReturns(10, 31, -0.02, 0.01)...)
		got := Holdout(returns, 0.8, 0.05)
		require.False(t, got.Robust)
		require.Less(t, got.SharpeDegradation, -0.5)
	})

	t.Run("empty test side", func(t *testing.T) {
		require.Nil(t, Holdout([]float64{0.01}, 0.8, 0.05))
	})
}

func TestRegimeChangeFamily(t *testing.T) {
	t.Run("shifted second half", func(t *testing.T) {
		returns := append(randomReturns(60, 37, 0, 0.01), randomReturns(60, 41, 0.05, 0.03)...)
		got := RegimeChange(returns, 0.5, 0.05)
		require.True(t, got.Changed)
		require.Greater(t, got.MeanChangeStd, 1.0)
		require.Greater(t, got.VolChangeRatio, 0.0)
	})

	t.Run("flat first half", func(t *testing.T) {
		returns := append(make([]float64, 10), randomReturns(10, 43, 0, 0.01)...)
		got := RegimeChange(returns, 0.5, 0.05)
		require.Equal(t, 0.0, got.MeanChangeStd)
		require.Equal(t, 0.0, got.VolChangeRatio)
	})
}

func TestTailRiskFamily(t *testing.T) {
	t.Run("too short", func(t *testing.T) {
		require.Nil(t, CalculateTailRisk(make([]float64, 11)))
	})

	t.Run("drawdown runs and streaks", func(t *testing.T) {
		returns := []float64{0.1, -0.1, -0.1, 0.5, 0.01, -0.05, -0.05, -0.05, 0.02, 0.02, 0.02, 0.02}
		got := CalculateTailRisk(returns)
		require.Equal(t, 3, got.MaxLosingStreak)
		// the trailing run is still open at the end
		require.Equal(t, 7, got.MaxDrawdownDuration)
		require.InDelta(t, 4.5, got.AvgDrawdownDuration, 1e-12)
		require.InDelta(t, 0.95*0.95*0.95-1, got.Worst3m, 1e-12)
		require.Less(t, got.CVaR5, -0.09)
	})
}
