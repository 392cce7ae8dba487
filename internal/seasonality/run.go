package seasonality

import "pvbess/internal/timeutil"

// Run classifies a load series: daily P95 → 7-day centered median
// smoothing → MAD z-score banding → run-length cleaning → monthly
// consumption banding → seasonality score.
func Run(req Request) (*Result, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	grid, err := timeutil.NewGrid(req.Start, req.DtHours, len(req.Load))
	if err != nil {
		return nil, invalidInput("%s", err.Error())
	}

	p95 := dailyP95(req.Load, grid)
	smoothed := rollingMedian7(p95)
	z := zScores(smoothed)
	rawBands := assignBands(z, req.zHigh(), req.zLow())
	cleaned := cleanRuns(rawBands, req.minRunLenDays())

	days := make([]DayResult, len(p95))
	stepsPerDay := grid.StepsPerDay()
	for i := range p95 {
		date := req.Start
		if stepsPerDay > 0 {
			date = grid.TimeAt(i * stepsPerDay)
		}
		days[i] = DayResult{
			Date:     date,
			P95:      p95[i],
			Smoothed: smoothed[i],
			Z:        z[i],
			Band:     cleaned[i],
		}
	}

	months := classifyMonths(req.Load, req.DtHours, grid)

	score, detected := seasonalityScore(cleaned)

	return &Result{
		Days:             days,
		Months:           months,
		SeasonalityScore: score,
		Detected:         detected,
	}, nil
}
