package stattest

import (
	"math"

	"github.com/MarcRuble/experiment-evaluation/domain/frame"
	"github.com/MarcRuble/experiment-evaluation/internal/errors"
	"github.com/montanaflynn/stats"
)

// TTestResult is the outcome of a paired Student's t-test
type TTestResult struct {
	T       float64
	DF      int
	P       float64
	CohenD  float64 // pooled standardized mean difference
	HedgesG float64 // small-sample corrected
	N       int     // pairs
}

// PairedT runs Student's t-test on the differences of two equal-length
// series paired by index.
func PairedT(x, y []float64) (TTestResult, error) {
	n := len(x)
	if n == 0 || len(y) == 0 {
		return TTestResult{}, errors.StatPrecondition("paired t-test needs non-empty series")
	}
	if len(y) != n {
		return TTestResult{}, errors.StatPrecondition("paired t-test needs equal-length series")
	}
	if n < 2 {
		return TTestResult{}, errors.StatPrecondition("paired t-test needs at least 2 pairs")
	}

	diffs := make([]float64, n)
	for i := range x {
		diffs[i] = x[i] - y[i]
	}
	meanD, _ := stats.Mean(diffs)
	sdD, _ := stats.StandardDeviationSample(diffs)
	if sdD == 0 {
		return TTestResult{}, errors.StatPrecondition("paired t-test needs non-zero variance of differences")
	}

	t := meanD / (sdD / math.Sqrt(float64(n)))
	df := n - 1

	mean1, _ := stats.Mean(x)
	mean2, _ := stats.Mean(y)
	std1, _ := stats.StandardDeviationSample(x)
	std2, _ := stats.StandardDeviationSample(y)

	sd := NewDistributions()
	cohenD := sd.EffectSizeCohenD(mean1, mean2, std1, std2, n, n)
	return TTestResult{
		T:       t,
		DF:      df,
		P:       sd.TTestPValue(t, df),
		CohenD:  cohenD,
		HedgesG: sd.EffectSizeHedgesG(cohenD, 2*n),
		N:       n,
	}, nil
}

// PairwiseRow is one comparison from the batched pairwise routine
type PairwiseRow struct {
	A, B    frame.Value
	T       float64
	DF      int
	P       float64
	HedgesG float64
	N       int
}

// PairwiseT runs paired t-tests for every unordered pair of groups of
// the within column, joining the two series of each pair on the
// subject column. Subjects missing either observation are dropped from
// that pair. The long-format result covers each pair exactly once.
func PairwiseT(f *frame.Frame, value, within, subject string) ([]PairwiseRow, error) {
	groups, err := f.OrderedGroups(within, nil)
	if err != nil {
		return nil, err
	}
	if !f.HasColumn(value) {
		return nil, errors.ColumnNotFound(value)
	}
	if !f.HasColumn(subject) {
		return nil, errors.ColumnNotFound(subject)
	}

	var rows []PairwiseRow
	for i := 0; i < len(groups); i++ {
		for j := i + 1; j < len(groups); j++ {
			x, y, err := joinPair(f, value, within, subject, groups[i], groups[j])
			if err != nil {
				return nil, err
			}
			res, err := PairedT(x, y)
			if err != nil {
				return nil, errors.Wrapf(err, "pairwise t-test %s vs %s", groups[i].Text(), groups[j].Text())
			}
			rows = append(rows, PairwiseRow{
				A:       groups[i],
				B:       groups[j],
				T:       res.T,
				DF:      res.DF,
				P:       res.P,
				HedgesG: res.HedgesG,
				N:       res.N,
			})
		}
	}
	return rows, nil
}

// joinPair extracts the value series of two groups aligned by subject
func joinPair(f *frame.Frame, value, within, subject string, a, b frame.Value) ([]float64, []float64, error) {
	collect := func(group frame.Value) (map[string]float64, []string, error) {
		series := make(map[string]float64)
		var order []string
		for i := 0; i < f.Len(); i++ {
			row := f.At(i)
			if !group.Equal(row[within]) {
				continue
			}
			key := row[subject].Text()
			if _, ok := series[key]; ok {
				continue
			}
			num, ok := row[value].Float()
			if !ok {
				return nil, nil, errors.ValueNotNumeric(value)
			}
			series[key] = num
			order = append(order, key)
		}
		return series, order, nil
	}

	aSeries, aOrder, err := collect(a)
	if err != nil {
		return nil, nil, err
	}
	bSeries, _, err := collect(b)
	if err != nil {
		return nil, nil, err
	}

	var x, y []float64
	for _, key := range aOrder {
		if bv, ok := bSeries[key]; ok {
			x = append(x, aSeries[key])
			y = append(y, bv)
		}
	}
	return x, y, nil
}
