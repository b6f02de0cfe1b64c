package stattest

import (
	"sort"

	"github.com/MarcRuble/experiment-evaluation/internal/errors"
)

// Omnibus is the outcome of an omnibus k-sample test
type Omnibus struct {
	Statistic float64
	P         float64
	DF        int
	N         int // subjects
	K         int // conditions
}

// Friedman runs the Friedman rank test over k paired series of equal
// length: the non-parametric omnibus comparison for repeated measures.
// Ranks are averaged within ties and the statistic carries the usual
// tie correction.
func Friedman(samples ...[]float64) (Omnibus, error) {
	k := len(samples)
	if k < 2 {
		return Omnibus{}, errors.StatPrecondition("friedman needs at least 2 conditions")
	}
	n := len(samples[0])
	if n == 0 {
		return Omnibus{}, errors.StatPrecondition("friedman needs non-empty samples")
	}
	for _, s := range samples {
		if len(s) != n {
			return Omnibus{}, errors.StatPrecondition("friedman needs equal-length samples")
		}
	}

	rankSums := make([]float64, k)
	tieTerm := 0.0
	row := make([]float64, k)
	for subject := 0; subject < n; subject++ {
		for j := 0; j < k; j++ {
			row[j] = samples[j][subject]
		}
		ranks, ties := averageRanks(row)
		for j, r := range ranks {
			rankSums[j] += r
		}
		for _, t := range ties {
			tieTerm += float64(t*t*t - t)
		}
	}

	var sumSq float64
	for _, r := range rankSums {
		sumSq += r * r
	}
	statistic := 12/(float64(n*k*(k+1)))*sumSq - 3*float64(n*(k+1))

	// Tie correction shrinks the denominator of the rank variance.
	correction := 1 - tieTerm/float64(n*k*(k*k-1))
	if correction <= 0 {
		return Omnibus{}, errors.StatPrecondition("friedman is undefined when every subject's values are tied")
	}
	statistic /= correction

	sd := NewDistributions()
	return Omnibus{
		Statistic: statistic,
		P:         sd.ChiSquarePValue(statistic, k-1),
		DF:        k - 1,
		N:         n,
		K:         k,
	}, nil
}

// averageRanks ranks one observation vector, averaging ranks inside
// tie groups, and reports the size of each tie group.
func averageRanks(values []float64) (ranks []float64, tieSizes []int) {
	n := len(values)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return values[order[a]] < values[order[b]]
	})

	ranks = make([]float64, n)
	for start := 0; start < n; {
		end := start + 1
		for end < n && values[order[end]] == values[order[start]] {
			end++
		}
		// Average the 1-based ranks start+1 .. end.
		avg := float64(start+1+end) / 2.0
		for i := start; i < end; i++ {
			ranks[order[i]] = avg
		}
		if end-start > 1 {
			tieSizes = append(tieSizes, end-start)
		}
		start = end
	}
	return ranks, tieSizes
}
