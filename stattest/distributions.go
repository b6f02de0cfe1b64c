// Package stattest implements the statistical tests the evaluation
// session runs: normality, variance homogeneity, sphericity, omnibus
// repeated-measures comparisons, and paired two-sample tests with
// effect sizes. Test statistics are computed directly; distribution
// functions come from gonum.
package stattest

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// exact Wilcoxon enumeration is cheap up to this many pairs
const wilcoxonExactLimit = 25

// Distributions provides unified access to the distribution functions
// the tests need.
type Distributions struct{}

// NewDistributions creates a new distributions utility
func NewDistributions() *Distributions {
	return &Distributions{}
}

// TTestPValue computes the two-tailed p-value for a t statistic
func (sd *Distributions) TTestPValue(tStatistic float64, degreesOfFreedom int) float64 {
	if degreesOfFreedom <= 0 {
		return 1.0
	}

	df := float64(degreesOfFreedom)
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}

	return 2 * (1 - tDist.CDF(math.Abs(tStatistic)))
}

// FTestPValue computes the upper-tail p-value for an F statistic
func (sd *Distributions) FTestPValue(fStatistic float64, df1, df2 float64) float64 {
	if df1 <= 0 || df2 <= 0 {
		return 1.0
	}

	fDist := distuv.F{D1: df1, D2: df2}
	return 1 - fDist.CDF(fStatistic)
}

// ChiSquarePValue computes the upper-tail p-value for a chi-square statistic
func (sd *Distributions) ChiSquarePValue(chiSquare float64, degreesOfFreedom int) float64 {
	if degreesOfFreedom <= 0 {
		return 1.0
	}

	chiDist := distuv.ChiSquared{K: float64(degreesOfFreedom)}
	return 1 - chiDist.CDF(chiSquare)
}

// NormalCDF computes the standard normal cumulative distribution function
func (sd *Distributions) NormalCDF(x float64) float64 {
	return distuv.UnitNormal.CDF(x)
}

// NormalQuantile computes the standard normal quantile (inverse CDF)
func (sd *Distributions) NormalQuantile(p float64) float64 {
	return distuv.UnitNormal.Quantile(p)
}

// WilcoxonPValue computes the two-sided p-value for a Wilcoxon
// signed-rank statistic over n untied pairs: the exact distribution
// while enumeration stays cheap, a normal approximation beyond.
func (sd *Distributions) WilcoxonPValue(wStatistic float64, n int) float64 {
	if n <= 0 {
		return 1.0
	}

	if n > wilcoxonExactLimit {
		meanW := float64(n*(n+1)) / 4.0
		stdW := math.Sqrt(float64(n*(n+1)*(2*n+1)) / 24.0)

		if stdW == 0 {
			return 1.0
		}

		z := (wStatistic - meanW) / stdW
		return 2 * (1 - sd.NormalCDF(math.Abs(z)))
	}

	return sd.wilcoxonExactTwoSidedPValue(wStatistic, n)
}

func (sd *Distributions) wilcoxonExactTwoSidedPValue(wStatistic float64, n int) float64 {
	// The statistic is integer-valued when there are no ties or zeros
	// (callers preprocess); round to be robust to float representation.
	wObs := int(math.Round(wStatistic))
	if wObs < 0 {
		wObs = 0
	}

	totalRankSum := n * (n + 1) / 2
	if wObs > totalRankSum {
		wObs = totalRankSum
	}

	// Two-sided p-value uses symmetry: P(W <= w) where w = min(W, total-W), then *2.
	w := wObs
	if totalRankSum-wObs < w {
		w = totalRankSum - wObs
	}

	// Dynamic programming over subset sums of ranks 1..n.
	// dp[s] = number of sign assignments producing rank sum s.
	dp := make([]uint64, totalRankSum+1)
	dp[0] = 1
	for r := 1; r <= n; r++ {
		for s := totalRankSum; s >= r; s-- {
			dp[s] += dp[s-r]
		}
	}

	totalOutcomes := uint64(1) << uint(n) // 2^n
	var cum uint64
	for s := 0; s <= w; s++ {
		cum += dp[s]
	}

	pOneSide := float64(cum) / float64(totalOutcomes)
	pTwoSide := 2 * pOneSide
	if pTwoSide > 1.0 {
		pTwoSide = 1.0
	}
	return pTwoSide
}

// EffectSizeCohenD computes Cohen's d for two groups from their
// summary statistics, pooling the standard deviations.
func (sd *Distributions) EffectSizeCohenD(mean1, mean2, std1, std2 float64, n1, n2 int) float64 {
	if n1 <= 0 || n2 <= 0 {
		return 0
	}

	pooledStd := math.Sqrt(((float64(n1-1) * std1 * std1) + (float64(n2-1) * std2 * std2)) / float64(n1+n2-2))

	if pooledStd == 0 {
		return 0
	}

	return (mean1 - mean2) / pooledStd
}

// EffectSizeHedgesG computes Hedges' g (bias-corrected Cohen's d)
func (sd *Distributions) EffectSizeHedgesG(cohenD float64, totalN int) float64 {
	if totalN < 3 {
		return cohenD
	}

	correction := 1.0 - (3.0 / (4.0*float64(totalN) - 9.0))
	return cohenD * correction
}
