package stattest

import (
	"math"

	"github.com/MarcRuble/experiment-evaluation/internal/errors"
	"github.com/montanaflynn/stats"
)

// WilcoxonResult is the outcome of a paired signed-rank test
type WilcoxonResult struct {
	W       float64 // min of the positive and negative rank sums
	P       float64
	RBC     float64 // rank-biserial correlation, positive when x ranks above y
	CohenDZ float64 // mean(x-y) / sd(x-y)
	N       int     // non-zero differences ranked
}

// Wilcoxon runs the paired signed-rank test on two equal-length
// series, implicitly paired by index. Zero differences are dropped
// before ranking. The exact null distribution is used for small
// untied samples, a tie-corrected normal approximation otherwise.
func Wilcoxon(x, y []float64) (WilcoxonResult, error) {
	if len(x) == 0 || len(y) == 0 {
		return WilcoxonResult{}, errors.StatPrecondition("wilcoxon needs non-empty series")
	}
	if len(x) != len(y) {
		return WilcoxonResult{}, errors.StatPrecondition("wilcoxon needs equal-length series")
	}

	diffs := make([]float64, len(x))
	for i := range x {
		diffs[i] = x[i] - y[i]
	}

	var nonzero []float64
	for _, d := range diffs {
		if d != 0 {
			nonzero = append(nonzero, d)
		}
	}
	n := len(nonzero)
	if n == 0 {
		return WilcoxonResult{}, errors.StatPrecondition("wilcoxon is undefined when all differences are zero")
	}

	abs := make([]float64, n)
	for i, d := range nonzero {
		abs[i] = math.Abs(d)
	}
	ranks, ties := averageRanks(abs)

	var tPlus, tMinus float64
	for i, d := range nonzero {
		if d > 0 {
			tPlus += ranks[i]
		} else {
			tMinus += ranks[i]
		}
	}
	w := math.Min(tPlus, tMinus)
	total := float64(n*(n+1)) / 2.0

	sd := NewDistributions()
	var p float64
	if len(ties) == 0 && n <= wilcoxonExactLimit {
		p = sd.WilcoxonPValue(w, n)
	} else {
		tieTerm := 0.0
		for _, t := range ties {
			tieTerm += float64(t*t*t - t)
		}
		variance := float64(n*(n+1)*(2*n+1))/24.0 - tieTerm/48.0
		z := (w - float64(n*(n+1))/4.0) / math.Sqrt(variance)
		p = 2 * (1 - sd.NormalCDF(math.Abs(z)))
		if p > 1 {
			p = 1
		}
	}

	meanD, _ := stats.Mean(diffs)
	sdD, _ := stats.StandardDeviationSample(diffs)

	return WilcoxonResult{
		W:       w,
		P:       p,
		RBC:     (tPlus - tMinus) / total,
		CohenDZ: meanD / sdD,
		N:       n,
	}, nil
}
