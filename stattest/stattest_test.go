package stattest

import (
	"math"
	"testing"

	"github.com/MarcRuble/experiment-evaluation/domain/frame"
)

// longFrame builds a repeated-measures frame in long format with one
// row per participant and condition. scores[i][j] is participant i+1
// under conditions[j].
func longFrame(t *testing.T, conditions []string, scores [][]float64) *frame.Frame {
	t.Helper()
	f := frame.New("participant", "condition", "score")
	for i, row := range scores {
		for j, s := range row {
			if err := f.Append(frame.Num(float64(i+1)), frame.Str(conditions[j]), frame.Num(s)); err != nil {
				t.Fatalf("Failed to append row: %v", err)
			}
		}
	}
	return f
}

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
