package stattest

import (
	"math"
	"sort"

	"github.com/MarcRuble/experiment-evaluation/internal/errors"
)

// Normality is the outcome of a normality test
type Normality struct {
	W float64
	P float64
	N int
}

// ShapiroWilk tests a sample against the normal distribution using the
// Royston (1995) approximation of the Shapiro-Wilk W statistic.
// Supports 3 <= n <= 5000 observations.
func ShapiroWilk(sample []float64) (Normality, error) {
	n := len(sample)
	if n < 3 {
		return Normality{}, errors.StatPrecondition("shapiro-wilk needs at least 3 observations")
	}
	if n > 5000 {
		return Normality{}, errors.StatPrecondition("shapiro-wilk supports at most 5000 observations")
	}

	sorted := make([]float64, n)
	copy(sorted, sample)
	sort.Float64s(sorted)

	if sorted[n-1] == sorted[0] {
		return Normality{}, errors.StatPrecondition("shapiro-wilk needs a sample with non-zero range")
	}

	sd := NewDistributions()

	// Expected normal order statistics (Blom scores) and their norm.
	m := make([]float64, n)
	var mSum float64
	for i := 0; i < n; i++ {
		m[i] = sd.NormalQuantile((float64(i+1) - 0.375) / (float64(n) + 0.25))
		mSum += m[i] * m[i]
	}

	// Polynomial-smoothed weights for the upper tail (Royston AS R94).
	u := 1.0 / math.Sqrt(float64(n))
	a := make([]float64, n)
	rootMSum := math.Sqrt(mSum)

	if n == 3 {
		a[0] = -math.Sqrt(0.5)
		a[2] = math.Sqrt(0.5)
	} else if n > 5 {
		an := m[n-1]/rootMSum + polyval(u, 0.221157, -0.147981, -2.071190, 4.434685, -2.706056)
		an1 := m[n-2]/rootMSum + polyval(u, 0.042981, -0.293762, -1.752461, 5.682633, -3.582633)
		phi := (mSum - 2*m[n-1]*m[n-1] - 2*m[n-2]*m[n-2]) / (1 - 2*an*an - 2*an1*an1)
		rootPhi := math.Sqrt(phi)
		for i := 2; i < n-2; i++ {
			a[i] = m[i] / rootPhi
		}
		a[n-1] = an
		a[n-2] = an1
		a[0] = -an
		a[1] = -an1
	} else {
		an := m[n-1]/rootMSum + polyval(u, 0.221157, -0.147981, -2.071190, 4.434685, -2.706056)
		phi := (mSum - 2*m[n-1]*m[n-1]) / (1 - 2*an*an)
		rootPhi := math.Sqrt(phi)
		for i := 1; i < n-1; i++ {
			a[i] = m[i] / rootPhi
		}
		a[n-1] = an
		a[0] = -an
	}

	// W = (sum a_i x_(i))^2 / sum (x_i - mean)^2
	var mean float64
	for _, x := range sorted {
		mean += x
	}
	mean /= float64(n)

	var num, den float64
	for i, x := range sorted {
		num += a[i] * x
		den += (x - mean) * (x - mean)
	}
	w := num * num / den
	if w > 1 {
		w = 1
	}

	return Normality{W: w, P: shapiroPValue(w, n, sd), N: n}, nil
}

// shapiroPValue maps W to a p-value via Royston's normalizing transforms
func shapiroPValue(w float64, n int, sd *Distributions) float64 {
	switch {
	case n == 3:
		// Exact for three observations.
		p := (6.0 / math.Pi) * (math.Asin(math.Sqrt(w)) - math.Asin(math.Sqrt(0.75)))
		return clamp01(p)
	case n <= 11:
		fn := float64(n)
		gamma := -2.273 + 0.459*fn
		mu := 0.5440 - 0.39978*fn + 0.025054*fn*fn - 0.0006714*fn*fn*fn
		sigma := math.Exp(1.3822 - 0.77857*fn + 0.062767*fn*fn - 0.0020322*fn*fn*fn)
		z := (-math.Log(gamma-math.Log(1-w)) - mu) / sigma
		return clamp01(1 - sd.NormalCDF(z))
	default:
		ln := math.Log(float64(n))
		mu := -1.5861 - 0.31082*ln - 0.083751*ln*ln + 0.0038915*ln*ln*ln
		sigma := math.Exp(-0.4803 - 0.082676*ln + 0.0030302*ln*ln)
		z := (math.Log(1-w) - mu) / sigma
		return clamp01(1 - sd.NormalCDF(z))
	}
}

// polyval evaluates c1*u + c2*u^2 + ... in ascending powers
func polyval(u float64, coeffs ...float64) float64 {
	sum := 0.0
	pow := u
	for _, c := range coeffs {
		sum += c * pow
		pow *= u
	}
	return sum
}

func clamp01(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
