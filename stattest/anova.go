package stattest

import (
	"github.com/MarcRuble/experiment-evaluation/domain/frame"
	"github.com/MarcRuble/experiment-evaluation/internal/errors"
)

// AnovaTable summarizes a one-way repeated-measures ANOVA
type AnovaTable struct {
	Effect  string
	DFCond  int
	DFError int
	F       float64
	PUnc    float64 // uncorrected
	PGG     float64 // Greenhouse-Geisser corrected
	Epsilon float64
	Eta2    float64
	N       int // subjects
	K       int // conditions
}

// RMAnova runs a one-way repeated-measures ANOVA on a long-format
// frame: one within-subjects factor, subjects crossed with conditions.
func RMAnova(f *frame.Frame, subject, within, value string) (AnovaTable, error) {
	x, subjects, conditions, err := pivotWide(f, subject, within, value)
	if err != nil {
		return AnovaTable{}, err
	}
	n, k := len(subjects), len(conditions)
	if k < 2 {
		return AnovaTable{}, errors.StatPrecondition("rm-anova needs at least 2 conditions")
	}
	if n < 2 {
		return AnovaTable{}, errors.StatPrecondition("rm-anova needs at least 2 subjects")
	}

	// Sum-of-squares decomposition over the subjects x conditions grid.
	var grand float64
	subjMeans := make([]float64, n)
	condMeans := make([]float64, k)
	for i := 0; i < n; i++ {
		for j := 0; j < k; j++ {
			v := x.At(i, j)
			grand += v
			subjMeans[i] += v
			condMeans[j] += v
		}
	}
	grand /= float64(n * k)
	for i := range subjMeans {
		subjMeans[i] /= float64(k)
	}
	for j := range condMeans {
		condMeans[j] /= float64(n)
	}

	var ssTotal, ssSubj, ssCond float64
	for i := 0; i < n; i++ {
		for j := 0; j < k; j++ {
			d := x.At(i, j) - grand
			ssTotal += d * d
		}
	}
	for _, m := range subjMeans {
		ssSubj += (m - grand) * (m - grand)
	}
	ssSubj *= float64(k)
	for _, m := range condMeans {
		ssCond += (m - grand) * (m - grand)
	}
	ssCond *= float64(n)
	ssErr := ssTotal - ssSubj - ssCond

	dfCond := k - 1
	dfErr := (n - 1) * (k - 1)
	msCond := ssCond / float64(dfCond)
	msErr := ssErr / float64(dfErr)
	if msErr <= 0 {
		return AnovaTable{}, errors.StatPrecondition("rm-anova has no residual variance")
	}

	fStat := msCond / msErr

	eps := 1.0
	if k > 2 {
		eps = greenhouseGeisser(contrastCovariance(x))
	}

	sd := NewDistributions()
	return AnovaTable{
		Effect:  within,
		DFCond:  dfCond,
		DFError: dfErr,
		F:       fStat,
		PUnc:    sd.FTestPValue(fStat, float64(dfCond), float64(dfErr)),
		PGG:     sd.FTestPValue(fStat, eps*float64(dfCond), eps*float64(dfErr)),
		Epsilon: eps,
		Eta2:    ssCond / (ssCond + ssSubj + ssErr),
		N:       n,
		K:       k,
	}, nil
}
