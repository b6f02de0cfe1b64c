package stattest

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/MarcRuble/experiment-evaluation/domain/frame"
	"github.com/MarcRuble/experiment-evaluation/internal/errors"
)

// Sphericity is the outcome of Mauchly's test on a repeated-measures
// design.
type Sphericity struct {
	W    float64
	Chi2 float64
	DF   int
	P    float64
	N    int // subjects
	K    int // conditions
}

// Mauchly tests the sphericity assumption of a repeated-measures
// design given in long format. Two conditions are trivially spherical.
func Mauchly(f *frame.Frame, subject, within, value string) (Sphericity, error) {
	x, subjects, conditions, err := pivotWide(f, subject, within, value)
	if err != nil {
		return Sphericity{}, err
	}
	n, k := len(subjects), len(conditions)
	if k < 2 {
		return Sphericity{}, errors.StatPrecondition("mauchly needs at least 2 conditions")
	}
	if n < 3 {
		return Sphericity{}, errors.StatPrecondition("mauchly needs at least 3 subjects")
	}
	if k == 2 {
		return Sphericity{W: 1, Chi2: 0, DF: 0, P: 1, N: n, K: k}, nil
	}

	sc := contrastCovariance(x)
	d := float64(k - 1)

	trace := mat.Trace(sc)
	det := mat.Det(sc)
	if trace <= 0 || det <= 0 {
		return Sphericity{}, errors.StatPrecondition("contrast covariance is singular")
	}

	w := det / math.Pow(trace/d, d)
	if w > 1 {
		w = 1
	}

	chi2 := -(float64(n-1) - (2*d*d+d+2)/(6*d)) * math.Log(w)
	df := k*(k-1)/2 - 1

	sd := NewDistributions()
	return Sphericity{
		W:    w,
		Chi2: chi2,
		DF:   df,
		P:    sd.ChiSquarePValue(chi2, df),
		N:    n,
		K:    k,
	}, nil
}

// greenhouseGeisser estimates the epsilon used to correct F-test
// degrees of freedom when sphericity is violated, clamped to its
// theoretical range [1/(k-1), 1].
func greenhouseGeisser(sc *mat.Dense) float64 {
	d, _ := sc.Dims()
	trace := mat.Trace(sc)

	var sumSq float64
	for i := 0; i < d; i++ {
		for j := 0; j < d; j++ {
			v := sc.At(i, j)
			sumSq += v * v
		}
	}
	if sumSq == 0 {
		return 1
	}

	eps := trace * trace / (float64(d) * sumSq)
	if eps < 1/float64(d) {
		eps = 1 / float64(d)
	}
	if eps > 1 {
		eps = 1
	}
	return eps
}
