package stattest

import (
	"math"
	"testing"
)

// TestBartlett_EqualVariances verifies the statistic vanishes when all
// group variances match.
func TestBartlett_EqualVariances(t *testing.T) {
	res, err := Bartlett(
		[]float64{1, 2, 3},
		[]float64{2, 3, 4},
		[]float64{5, 6, 7},
	)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if math.Abs(res.Statistic) > 1e-12 {
		t.Errorf("Expected statistic 0 for equal variances, got %v", res.Statistic)
	}
	if !almostEqual(res.P, 1.0, 1e-9) {
		t.Errorf("Expected p=1 for equal variances, got %v", res.P)
	}
	if res.Groups != 3 {
		t.Errorf("Expected 3 groups, got %d", res.Groups)
	}
}

// TestBartlett_UnequalVariances checks a hand-computed two-group case:
// sample variances 2.5 and 0.7 give T=1.35250 with p=0.24484.
func TestBartlett_UnequalVariances(t *testing.T) {
	res, err := Bartlett(
		[]float64{1, 2, 3, 4, 5},
		[]float64{1, 1, 2, 2, 3},
	)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !almostEqual(res.Statistic, 1.35250, 1e-4) {
		t.Errorf("Expected statistic near 1.35250, got %v", res.Statistic)
	}
	if !almostEqual(res.P, 0.24484, 1e-3) {
		t.Errorf("Expected p near 0.24484, got %v", res.P)
	}
	if res.Groups != 2 {
		t.Errorf("Expected 2 groups, got %d", res.Groups)
	}
}

// TestBartlett_Preconditions covers the rejected inputs
func TestBartlett_Preconditions(t *testing.T) {
	tests := []struct {
		name   string
		groups [][]float64
	}{
		{"single group", [][]float64{{1, 2, 3}}},
		{"short group", [][]float64{{1, 2, 3}, {4}}},
		{"constant group", [][]float64{{1, 2, 3}, {2, 2, 2}}},
		{"no groups", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Bartlett(tt.groups...); err == nil {
				t.Error("Expected an error, got none")
			}
		})
	}
}
