package seasonality

import (
	"time"

	"pvbess/internal/timeutil"
)

// classifyMonths buckets the raw load series (not the daily P95 series) by
// calendar month, sums each month's energy, and bands each month against
// 115%/85% of the mean monthly total.
func classifyMonths(load []float64, dtHours float64, grid timeutil.Grid) []MonthResult {
	type key struct {
		year  int
		month int
	}
	order := make([]key, 0)
	totals := make(map[key]float64)

	for t, v := range load {
		ts := grid.TimeAt(t)
		k := key{year: ts.Year(), month: int(ts.Month())}
		if _, ok := totals[k]; !ok {
			order = append(order, k)
		}
		totals[k] += v * dtHours
	}

	if len(order) == 0 {
		return nil
	}

	sum := 0.0
	for _, k := range order {
		sum += totals[k]
	}
	mean := sum / float64(len(order))

	months := make([]MonthResult, len(order))
	for i, k := range order {
		total := totals[k]
		band := BandMid
		if mean > 0 {
			switch {
			case total > 1.15*mean:
				band = BandHigh
			case total < 0.85*mean:
				band = BandLow
			}
		}
		months[i] = MonthResult{
			Year:     k.year,
			Month:    time.Month(k.month),
			TotalKWh: total,
			Band:     band,
		}
	}
	return months
}
