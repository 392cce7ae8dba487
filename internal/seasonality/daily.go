package seasonality

import "pvbess/internal/timeutil"

// dailyP95 groups load into calendar days via grid.DayIndex and returns the
// 95th-percentile power for each day.
func dailyP95(load []float64, grid timeutil.Grid) []float64 {
	nDays := grid.NumDays()
	buckets := make([][]float64, nDays)
	for t, v := range load {
		d := grid.DayIndex(t)
		buckets[d] = append(buckets[d], v)
	}
	p95 := make([]float64, nDays)
	for i, b := range buckets {
		p95[i] = timeutil.Percentile(b, 95)
	}
	return p95
}
