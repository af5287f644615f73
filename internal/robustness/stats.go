package robustness

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

const periodsPerYear = 12

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m, _ := stats.Mean(values)
	return m
}

// sampleStd is the ddof=1 stdev; 0 for fewer than two values
func sampleStd(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	s, err := stats.StandardDeviationSample(values)
	if err != nil || math.IsNaN(s) {
		return 0
	}
	return s
}

func populationStd(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	s, _ := stats.StandardDeviationPopulation(values)
	return s
}

// sampleSharpe annualizes mean/sampleStd of monthly returns. It is 0 when the
// series has no dispersion.
func sampleSharpe(returns []float64) float64 {
	if populationStd(returns) == 0 {
		return 0
	}
	s := sampleStd(returns)
	if s == 0 {
		return 0
	}
	return mean(returns) / s * math.Sqrt(periodsPerYear)
}

// percentile interpolates linearly between closest ranks, p in [0, 100]
func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := append([]float64{}, values...)
	sort.Float64s(sorted)
	pos := p / 100 * float64(len(sorted)-1)
	lo := math.Floor(pos)
	hi := math.Ceil(pos)
	return sorted[int(lo)] + (sorted[int(hi)]-sorted[int(lo)])*(pos-lo)
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	m, _ := stats.Median(values)
	return m
}

// populationMoments returns the biased skewness and excess kurtosis. Both
// are NaN for a series without dispersion.
func populationMoments(values []float64) (skew, excessKurtosis float64) {
	n := float64(len(values))
	if n == 0 {
		return math.NaN(), math.NaN()
	}
	m := mean(values)
	var m2, m3, m4 float64
	for _, v := range values {
		d := v - m
		d2 := d * d
		m2 += d2
		m3 += d2 * d
		m4 += d2 * d2
	}
	m2 /= n
	m3 /= n
	m4 /= n
	if m2 == 0 {
		return math.NaN(), math.NaN()
	}
	return m3 / math.Pow(m2, 1.5), m4/(m2*m2) - 3
}

// averageRanks gives 1-based ranks with ties sharing their mean rank
func averageRanks(values []float64) []float64 {
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return values[idx[a]] < values[idx[b]]
	})

	ranks := make([]float64, len(values))
	for i := 0; i < len(idx); {
		j := i
		for j+1 < len(idx) && values[idx[j+1]] == values[idx[i]] {
			j++
		}
		r := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[idx[k]] = r
		}
		i = j + 1
	}
	return ranks
}

// spearman is the Pearson correlation of average ranks; NaN when either side
// is constant
func spearman(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 {
		return math.NaN()
	}
	return stat.Correlation(averageRanks(x), averageRanks(y), nil)
}

// samples with n1*n2 at most this use the exact KS distribution
const ksExactLimit = 1_000_000

// ksTwoSample returns the two-sample Kolmogorov-Smirnov statistic and its
// two-sided p-value, exact for small samples and asymptotic otherwise
func ksTwoSample(a, b []float64) (float64, float64) {
	if len(a) == 0 || len(b) == 0 {
		return math.NaN(), math.NaN()
	}
	x := append([]float64{}, a...)
	y := append([]float64{}, b...)
	sort.Float64s(x)
	sort.Float64s(y)

	d := stat.KolmogorovSmirnov(x, nil, y, nil)
	if len(x)*len(y) <= ksExactLimit {
		return d, ksExact(len(x), len(y), d)
	}
	n1, n2 := float64(len(x)), float64(len(y))
	en := math.Sqrt(n1 * n2 / (n1 + n2))
	return d, ksSurvival((en + 0.12 + 0.11/en) * d)
}

// ksExact is P(D >= d) when both samples come from one continuous
// distribution. Every merge order of the two sorted samples is equally
// likely, so it walks the (n1+1)x(n2+1) lattice carrying the probability of
// reaching each point without the empirical CDFs ever differing by d.
func ksExact(n1, n2 int, d float64) float64 {
	// D is a multiple of 1/lcm(n1, n2), so d*n1*n2 is an integer up to rounding
	limit := math.Round(d * float64(n1) * float64(n2))
	if limit <= 0 {
		return 1
	}
	inside := func(i, j int) bool {
		return math.Abs(float64(i*n2-j*n1)) < limit
	}

	// prob[j] holds row i-1 until overwritten with row i
	prob := make([]float64, n2+1)
	for i := 0; i <= n1; i++ {
		for j := 0; j <= n2; j++ {
			if !inside(i, j) {
				prob[j] = 0
				continue
			}
			if i == 0 && j == 0 {
				prob[j] = 1
				continue
			}
			v := 0.0
			if i > 0 {
				left1, left2 := n1-i+1, n2-j
				v += prob[j] * float64(left1) / float64(left1+left2)
			}
			if j > 0 {
				left1, left2 := n1-i, n2-j+1
				v += prob[j-1] * float64(left2) / float64(left1+left2)
			}
			prob[j] = v
		}
	}
	return math.Min(math.Max(1-prob[n2], 0), 1)
}

// ksSurvival is the Kolmogorov distribution tail Q(lambda)
func ksSurvival(lambda float64) float64 {
	a2 := -2 * lambda * lambda
	fac := 2.0
	sum := 0.0
	prev := 0.0
	for j := 1; j <= 100; j++ {
		term := fac * math.Exp(a2*float64(j*j))
		sum += term
		if math.Abs(term) <= 0.001*prev || math.Abs(term) <= 1e-8*sum {
			return math.Min(math.Max(sum, 0), 1)
		}
		fac = -fac
		prev = math.Abs(term)
	}
	return 1
}

// tTestOneSample is the two-sided Student t test of the mean against mu
func tTestOneSample(values []float64, mu float64) (float64, float64) {
	n := len(values)
	if n < 2 {
		return math.NaN(), 1
	}
	m := mean(values)
	s := sampleStd(values)
	if s == 0 {
		if m == mu {
			return 0, 1
		}
		return math.Copysign(math.Inf(1), m-mu), 0
	}
	t := (m - mu) / (s / math.Sqrt(float64(n)))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 1)}
	return t, 2 * (1 - dist.CDF(math.Abs(t)))
}

func normalCDF(x float64) float64 {
	return distuv.UnitNormal.CDF(x)
}

func normalQuantile(p float64) float64 {
	return distuv.UnitNormal.Quantile(p)
}

func compound(returns []float64) float64 {
	equity := 1.0
	for _, r := range returns {
		equity *= 1 + r
	}
	return equity - 1
}
