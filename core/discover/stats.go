package discover

import "math"

// pearson computes the Pearson correlation coefficient between xs and ys.
// ok is false when the correlation is undefined: fewer than two samples, or
// zero variance in either series. An undefined correlation is excluded from
// pattern candidates, never reported as zero.
func pearson(xs, ys []float64) (r float64, ok bool) {
	n := len(xs)
	if n < 2 || n != len(ys) {
		return 0, false
	}

	var sumX, sumY float64
	for i := range n {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX := sumX / float64(n)
	meanY := sumY / float64(n)

	var cov, varX, varY float64
	for i := range n {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0, false
	}

	r = cov / math.Sqrt(varX*varY)
	return math.Min(math.Max(r, -1), 1), true
}

// tStatistic converts a correlation coefficient and sample size into a t
// statistic for significance testing.
func tStatistic(r float64, n int) float64 {
	if n <= 2 {
		return 0
	}
	denom := 1 - r*r
	if denom <= 0 {
		return math.Inf(1)
	}
	return math.Abs(r) * math.Sqrt(float64(n-2)/denom)
}

// pValueFromT maps a t statistic to an approximate two-sided p-value using
// the normal approximation. For the sample sizes this engine works with
// (dozens to thousands of positions) the approximation error is well below
// the retention thresholds.
func pValueFromT(t float64) float64 {
	if math.IsInf(t, 1) {
		return 0
	}
	return math.Erfc(t / math.Sqrt2)
}

// stdDev computes the population standard deviation of xs.
func stdDev(xs []float64) float64 {
	n := len(xs)
	if n == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	mean := sum / float64(n)
	var varSum float64
	for _, x := range xs {
		d := x - mean
		varSum += d * d
	}
	return math.Sqrt(varSum / float64(n))
}

// impliedEffectCP estimates the centipawn effect of a feature: the expected
// change in the target over one standard deviation of the feature, derived
// from the regression of the target on the feature. Equal to r times the
// standard deviation of the target, preserving the correlation's sign.
func impliedEffectCP(r float64, ys []float64) float64 {
	return r * stdDev(ys)
}

// mean computes the arithmetic mean of xs, 0 for an empty slice.
func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
