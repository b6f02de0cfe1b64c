package stattest

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/MarcRuble/experiment-evaluation/domain/frame"
	"github.com/MarcRuble/experiment-evaluation/internal/errors"
)

// pivotWide reshapes a long-format frame into a subjects x conditions
// matrix of the value column. Repeated-measures tests need exactly one
// observation per subject and condition; duplicates and missing cells
// are precondition violations.
func pivotWide(f *frame.Frame, subject, within, value string) (*mat.Dense, []frame.Value, []frame.Value, error) {
	subjects, err := f.OrderedGroups(subject, nil)
	if err != nil {
		return nil, nil, nil, err
	}
	conditions, err := f.OrderedGroups(within, nil)
	if err != nil {
		return nil, nil, nil, err
	}
	if !f.HasColumn(value) {
		return nil, nil, nil, errors.ColumnNotFound(value)
	}

	subjectIdx := indexByText(subjects)
	conditionIdx := indexByText(conditions)

	n, k := len(subjects), len(conditions)
	x := mat.NewDense(n, k, nil)
	seen := make([]bool, n*k)

	for i := 0; i < f.Len(); i++ {
		row := f.At(i)
		si := subjectIdx[row[subject].Text()]
		ci := conditionIdx[row[within].Text()]
		num, ok := row[value].Float()
		if !ok {
			return nil, nil, nil, errors.ValueNotNumeric(value)
		}
		if seen[si*k+ci] {
			return nil, nil, nil, errors.StatPrecondition(
				"repeated-measures design needs one observation per subject and condition")
		}
		seen[si*k+ci] = true
		x.Set(si, ci, num)
	}

	for _, ok := range seen {
		if !ok {
			return nil, nil, nil, errors.StatPrecondition(
				"repeated-measures design is unbalanced: missing subject/condition cells")
		}
	}
	return x, subjects, conditions, nil
}

func indexByText(values []frame.Value) map[string]int {
	idx := make(map[string]int, len(values))
	for i, v := range values {
		idx[v.Text()] = i
	}
	return idx
}

// contrastCovariance computes the covariance of the k-1 orthonormal
// Helmert contrasts of a subjects x conditions matrix. Its eigenvalues
// drive both Mauchly's W and the Greenhouse-Geisser epsilon.
func contrastCovariance(x *mat.Dense) *mat.Dense {
	_, k := x.Dims()
	d := k - 1

	contrasts := mat.NewDense(d, k, nil)
	for j := 0; j < d; j++ {
		norm := 1.0 / math.Sqrt(float64((j+1)*(j+2)))
		for c := 0; c <= j; c++ {
			contrasts.Set(j, c, norm)
		}
		contrasts.Set(j, j+1, -float64(j+1)*norm)
	}

	cov := mat.NewSymDense(k, nil)
	stat.CovarianceMatrix(cov, x, nil)

	var cs mat.Dense
	cs.Mul(contrasts, cov)
	var sc mat.Dense
	sc.Mul(&cs, contrasts.T())
	return &sc
}
