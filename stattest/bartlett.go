package stattest

import (
	"math"

	"github.com/MarcRuble/experiment-evaluation/internal/errors"
	"github.com/montanaflynn/stats"
)

// Homogeneity is the outcome of a variance homogeneity test
type Homogeneity struct {
	Statistic float64
	P         float64
	Groups    int
}

// Bartlett tests k series for equal variances. Sensitive to
// non-normality; pair with a normality check.
func Bartlett(groups ...[]float64) (Homogeneity, error) {
	k := len(groups)
	if k < 2 {
		return Homogeneity{}, errors.StatPrecondition("bartlett needs at least 2 groups")
	}

	total := 0
	variances := make([]float64, k)
	for i, g := range groups {
		if len(g) < 2 {
			return Homogeneity{}, errors.StatPrecondition("bartlett needs at least 2 observations per group")
		}
		v, err := stats.SampleVariance(g)
		if err != nil {
			return Homogeneity{}, errors.Wrap(err, "bartlett variance")
		}
		if v <= 0 {
			return Homogeneity{}, errors.StatPrecondition("bartlett needs non-zero variance in every group")
		}
		variances[i] = v
		total += len(g)
	}

	pooledDF := float64(total - k)
	var pooled, logSum, invSum float64
	for i, g := range groups {
		df := float64(len(g) - 1)
		pooled += df * variances[i]
		logSum += df * math.Log(variances[i])
		invSum += 1 / df
	}
	pooled /= pooledDF

	statistic := (pooledDF*math.Log(pooled) - logSum) /
		(1 + (invSum-1/pooledDF)/(3*float64(k-1)))

	sd := NewDistributions()
	return Homogeneity{
		Statistic: statistic,
		P:         sd.ChiSquarePValue(statistic, k-1),
		Groups:    k,
	}, nil
}
