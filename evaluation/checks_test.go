package evaluation

import (
	"testing"

	"github.com/MarcRuble/experiment-evaluation/domain/frame"
	"github.com/MarcRuble/experiment-evaluation/internal/errors"
)

// TestCheckNormalDistribution checks the verdict against the session
// significance level for a clean and a degenerate sample.
func TestCheckNormalDistribution(t *testing.T) {
	e, err := New(sizeFixture(t))
	if err != nil {
		t.Fatalf("Expected session, got %v", err)
	}

	check, err := e.CheckNormalDistribution("score", frame.Where("size", frame.Str("S")))
	if err != nil {
		t.Fatalf("Expected normality check, got %v", err)
	}
	if check.N != 3 {
		t.Errorf("Expected 3 values under the condition, got %d", check.N)
	}
	if !almostEqual(check.W, 1, 1e-9) || !almostEqual(check.P, 1, 1e-9) {
		t.Errorf("Expected an evenly spaced triple to look perfectly normal, got W=%v p=%v", check.W, check.P)
	}
	if !check.Gaussian {
		t.Error("Expected the evenly spaced triple to pass the check")
	}

	skewed := frame.New("score")
	for i := 0; i < 9; i++ {
		if err := skewed.Append(frame.Num(1)); err != nil {
			t.Fatalf("Expected fixture row, got %v", err)
		}
	}
	if err := skewed.Append(frame.Num(10)); err != nil {
		t.Fatalf("Expected fixture row, got %v", err)
	}
	se, err := New(skewed)
	if err != nil {
		t.Fatalf("Expected session, got %v", err)
	}
	out, err := se.CheckNormalDistribution("score", frame.NoCondition())
	if err != nil {
		t.Fatalf("Expected normality check, got %v", err)
	}
	if out.Gaussian {
		t.Errorf("Expected the outlier sample to fail the check, got W=%v p=%v", out.W, out.P)
	}
	if out.P > 0.01 {
		t.Errorf("Expected a small p for the outlier sample, got %v", out.P)
	}

	if _, err := e.CheckNormalDistribution("missing", frame.NoCondition()); err == nil {
		t.Error("Expected error for missing column, got none")
	} else if errors.GetCode(err) != errors.CodeColumnNotFound {
		t.Errorf("Expected code %s, got %s", errors.CodeColumnNotFound, errors.GetCode(err))
	}
}

// TestCheckHomogeneVariances checks the verdict for groups with
// identical spread.
func TestCheckHomogeneVariances(t *testing.T) {
	e, err := New(sizeFixture(t))
	if err != nil {
		t.Fatalf("Expected session, got %v", err)
	}
	check, err := e.CheckHomogeneVariances("score", "size", frame.NoCondition())
	if err != nil {
		t.Fatalf("Expected homogeneity check, got %v", err)
	}
	if check.Groups != 3 {
		t.Errorf("Expected 3 groups, got %d", check.Groups)
	}
	if !almostEqual(check.Statistic, 0, 1e-9) || !almostEqual(check.P, 1, 1e-9) {
		t.Errorf("Expected identical spreads to score T=0 p=1, got T=%v p=%v", check.Statistic, check.P)
	}
	if !check.Homogene {
		t.Error("Expected identical spreads to pass the check")
	}

	if _, err := e.CheckHomogeneVariances("score", "missing", frame.NoCondition()); err == nil {
		t.Error("Expected error for missing group column, got none")
	} else if errors.GetCode(err) != errors.CodeColumnNotFound {
		t.Errorf("Expected code %s, got %s", errors.CodeColumnNotFound, errors.GetCode(err))
	}
}

// TestCheckSphericity checks the verdict on a five-subject
// three-condition design.
func TestCheckSphericity(t *testing.T) {
	f := experimentFrame(t, []string{"A", "B", "C"},
		[][]float64{{1, 2, 3, 2, 1}, {2, 4, 3, 5, 3}, {4, 5, 7, 6, 5}})
	e, err := New(f)
	if err != nil {
		t.Fatalf("Expected session, got %v", err)
	}
	check, err := e.CheckSphericity("score", "size", "participant", frame.NoCondition())
	if err != nil {
		t.Fatalf("Expected sphericity check, got %v", err)
	}
	if check.N != 5 || check.K != 3 {
		t.Errorf("Expected 5 subjects over 3 conditions, got N=%d K=%d", check.N, check.K)
	}
	if !almostEqual(check.W, 0.48387, 1e-3) {
		t.Errorf("Expected W near 0.48387, got %v", check.W)
	}
	if !almostEqual(check.P, 0.33652, 2e-3) {
		t.Errorf("Expected p near 0.33652, got %v", check.P)
	}
	if !check.Spherical {
		t.Error("Expected the design to pass the check")
	}

	two := experimentFrame(t, []string{"A", "B"}, [][]float64{{1, 2, 3}, {2, 4, 5}})
	te, err := New(two)
	if err != nil {
		t.Fatalf("Expected session, got %v", err)
	}
	trivial, err := te.CheckSphericity("score", "size", "participant", frame.NoCondition())
	if err != nil {
		t.Fatalf("Expected trivial check, got %v", err)
	}
	if trivial.W != 1 || trivial.P != 1 || !trivial.Spherical {
		t.Errorf("Expected two conditions to be trivially spherical, got W=%v p=%v", trivial.W, trivial.P)
	}
}
