package seasonality

import "pvbess/internal/timeutil"

// rollingMedian7 smooths a daily series with a 7-day centered median
// window, shrinking the window near the series' edges rather than
// reflecting or padding.
func rollingMedian7(p95 []float64) []float64 {
	const halfWindow = 3
	out := make([]float64, len(p95))
	for i := range p95 {
		lo := i - halfWindow
		if lo < 0 {
			lo = 0
		}
		hi := i + halfWindow
		if hi > len(p95)-1 {
			hi = len(p95) - 1
		}
		out[i] = timeutil.Median(p95[lo : hi+1])
	}
	return out
}
