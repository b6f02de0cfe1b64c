package evaluation

import (
	"math"
	"strconv"

	"github.com/MarcRuble/experiment-evaluation/domain/frame"
)

// Bonferroni corrects a p-value for a family of simultaneous tests,
// capped at 1. A family below one leaves the p-value unchanged.
func Bonferroni(p float64, family int) float64 {
	if family < 1 {
		return p
	}
	corrected := p * float64(family)
	if corrected > 1 {
		return 1
	}
	return corrected
}

// AnnotateP renders a numeric p-value with significance stars: three
// for p <= 0.001 at five decimals, two for p <= 0.01 and one for
// p <= 0.05 at three decimals. Values above 0.05 and non-numeric
// cells pass through unchanged, so annotation is idempotent. The
// magnitude decides the stars, so sign-carrying values keep their
// sign in the rendered text.
func AnnotateP(v frame.Value) frame.Value {
	num, ok := v.Float()
	if !ok {
		return v
	}
	p := math.Abs(num)
	switch {
	case p <= 0.001:
		return frame.Str(formatP(num, 5) + "***")
	case p <= 0.01:
		return frame.Str(formatP(num, 3) + "**")
	case p <= 0.05:
		return frame.Str(formatP(num, 3) + "*")
	default:
		return v
	}
}

func formatP(p float64, decimals int) string {
	return strconv.FormatFloat(p, 'f', decimals, 64)
}
