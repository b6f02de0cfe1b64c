package stattest

import (
	"testing"

	"github.com/MarcRuble/experiment-evaluation/domain/frame"
	"github.com/MarcRuble/experiment-evaluation/internal/errors"
)

// TestPairedT_KnownValue checks a hand-computed four-pair sample:
// differences (-1,-2,-3,-4) give t=-3.872983 with df=3.
func TestPairedT_KnownValue(t *testing.T) {
	res, err := PairedT([]float64{1, 2, 3, 4}, []float64{2, 4, 6, 8})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !almostEqual(res.T, -3.872983, 1e-6) {
		t.Errorf("Expected t near -3.872983, got %v", res.T)
	}
	if res.DF != 3 {
		t.Errorf("Expected DF=3, got %d", res.DF)
	}
	if !almostEqual(res.P, 0.030517, 5e-4) {
		t.Errorf("Expected p near 0.030517, got %v", res.P)
	}
	if !almostEqual(res.CohenD, -1.224745, 1e-6) {
		t.Errorf("Expected d near -1.224745, got %v", res.CohenD)
	}
	if !almostEqual(res.HedgesG, -1.064996, 1e-6) {
		t.Errorf("Expected g near -1.064996, got %v", res.HedgesG)
	}
	if res.N != 4 {
		t.Errorf("Expected N=4, got %d", res.N)
	}
}

// TestPairedT_SignFlips verifies swapping the series negates the
// statistic and effect sizes but keeps the p-value.
func TestPairedT_SignFlips(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	y := []float64{2, 4, 6, 8}

	fwd, err := PairedT(x, y)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	rev, err := PairedT(y, x)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !almostEqual(fwd.T, -rev.T, 1e-12) {
		t.Errorf("Expected negated t, got %v and %v", fwd.T, rev.T)
	}
	if !almostEqual(fwd.P, rev.P, 1e-12) {
		t.Errorf("Expected identical p, got %v and %v", fwd.P, rev.P)
	}
	if !almostEqual(fwd.HedgesG, -rev.HedgesG, 1e-12) {
		t.Errorf("Expected negated g, got %v and %v", fwd.HedgesG, rev.HedgesG)
	}
}

// TestPairedT_Preconditions covers the rejected inputs
func TestPairedT_Preconditions(t *testing.T) {
	tests := []struct {
		name string
		x, y []float64
	}{
		{"empty series", nil, nil},
		{"length mismatch", []float64{1, 2, 3}, []float64{1, 2}},
		{"single pair", []float64{1}, []float64{2}},
		{"constant differences", []float64{1, 2, 3}, []float64{2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := PairedT(tt.x, tt.y); err == nil {
				t.Error("Expected an error, got none")
			}
		})
	}
}

// pairwiseFixture builds three participants measured under three
// conditions in discovery order S, M, L.
func pairwiseFixture(t *testing.T) *frame.Frame {
	t.Helper()
	return longFrame(t, []string{"S", "M", "L"}, [][]float64{
		{1, 2, 5},
		{2, 4, 6},
		{4, 5, 9},
	})
}

// TestPairwiseT_AllPairs verifies every unordered pair appears once,
// in group discovery order, with the first-listed group on the left.
func TestPairwiseT_AllPairs(t *testing.T) {
	rows, err := PairwiseT(pairwiseFixture(t), "score", "condition", "participant")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected 3 pairs, got %d", len(rows))
	}

	wantPairs := [][2]string{{"S", "M"}, {"S", "L"}, {"M", "L"}}
	for i, want := range wantPairs {
		if rows[i].A.Text() != want[0] || rows[i].B.Text() != want[1] {
			t.Errorf("Expected pair %d to be %v vs %v, got %v vs %v",
				i, want[0], want[1], rows[i].A.Text(), rows[i].B.Text())
		}
	}

	// S vs M: differences (-1,-2,-1) give t=-4 with df=2
	sm := rows[0]
	if !almostEqual(sm.T, -4.0, 1e-9) {
		t.Errorf("Expected t=-4 for S vs M, got %v", sm.T)
	}
	if sm.DF != 2 {
		t.Errorf("Expected DF=2, got %d", sm.DF)
	}
	if !almostEqual(sm.P, 0.057191, 1e-4) {
		t.Errorf("Expected p near 0.057191, got %v", sm.P)
	}
	if !almostEqual(sm.HedgesG, -0.698297, 1e-5) {
		t.Errorf("Expected g near -0.698297, got %v", sm.HedgesG)
	}
	if sm.N != 3 {
		t.Errorf("Expected N=3, got %d", sm.N)
	}
}

// TestPairwiseT_DropsUnmatchedSubjects verifies participants missing
// one side of a pair are excluded from that comparison only.
func TestPairwiseT_DropsUnmatchedSubjects(t *testing.T) {
	f := pairwiseFixture(t)
	if err := f.Append(frame.Num(4), frame.Str("S"), frame.Num(9)); err != nil {
		t.Fatalf("Failed to append row: %v", err)
	}

	rows, err := PairwiseT(f, "score", "condition", "participant")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	for _, row := range rows {
		if row.N != 3 {
			t.Errorf("Expected N=3 for %v vs %v, got %d", row.A.Text(), row.B.Text(), row.N)
		}
	}
}

// TestPairwiseT_UnknownColumns verifies the column checks
func TestPairwiseT_UnknownColumns(t *testing.T) {
	f := pairwiseFixture(t)

	if _, err := PairwiseT(f, "missing", "condition", "participant"); errors.GetCode(err) != errors.CodeColumnNotFound {
		t.Errorf("Expected COLUMN_NOT_FOUND for value column, got %v", err)
	}
	if _, err := PairwiseT(f, "score", "missing", "participant"); errors.GetCode(err) != errors.CodeColumnNotFound {
		t.Errorf("Expected COLUMN_NOT_FOUND for group column, got %v", err)
	}
	if _, err := PairwiseT(f, "score", "condition", "missing"); errors.GetCode(err) != errors.CodeColumnNotFound {
		t.Errorf("Expected COLUMN_NOT_FOUND for subject column, got %v", err)
	}
}
