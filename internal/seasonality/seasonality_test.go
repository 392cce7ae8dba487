package seasonality

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hourlySeries(dailyValues []float64) []float64 {
	out := make([]float64, 0, len(dailyValues)*24)
	for _, v := range dailyValues {
		for h := 0; h < 24; h++ {
			out = append(out, v)
		}
	}
	return out
}

func TestRun_FlatLoadIsAllMidNotDetected(t *testing.T) {
	days := make([]float64, 40)
	for i := range days {
		days[i] = 50
	}
	req := Request{
		Load:    hourlySeries(days),
		DtHours: 1.0,
		Start:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	res, err := Run(req)
	require.NoError(t, err)

	for _, d := range res.Days {
		assert.Equal(t, BandMid, d.Band)
	}
	assert.False(t, res.Detected)
}

func TestRun_SummerSpikeIsDetectedHigh(t *testing.T) {
	days := make([]float64, 90)
	for i := range days {
		days[i] = 50
		if i >= 30 && i < 60 {
			days[i] = 150
		}
	}
	req := Request{
		Load:    hourlySeries(days),
		DtHours: 1.0,
		Start:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	res, err := Run(req)
	require.NoError(t, err)
	require.Len(t, res.Days, 90)

	assert.Equal(t, BandHigh, res.Days[45].Band)
	assert.Equal(t, BandMid, res.Days[5].Band)
	assert.True(t, res.Detected)
	assert.GreaterOrEqual(t, res.SeasonalityScore, 0.3)
}

func TestRun_ShortRunsAbsorbedIntoStrongerNeighbor(t *testing.T) {
	bands := []Band{
		BandHigh, BandHigh, BandHigh, BandHigh, BandHigh, BandHigh, BandHigh, BandHigh, BandHigh, BandHigh, BandHigh, BandHigh,
		BandLow, BandLow,
		BandHigh, BandHigh, BandHigh, BandHigh, BandHigh, BandHigh, BandHigh, BandHigh, BandHigh, BandHigh, BandHigh, BandHigh,
	}
	cleaned := cleanRuns(bands, 10)
	for _, b := range cleaned {
		assert.Equal(t, BandHigh, b)
	}
}

func TestRun_PermutationOfHoursWithinADayIsInvariant(t *testing.T) {
	days := make([]float64, 45)
	for i := range days {
		days[i] = 40
		if i >= 15 && i < 25 {
			days[i] = 120
		}
	}

	base := hourlySeries(days)

	shuffled := make([]float64, len(base))
	copy(shuffled, base)
	for d := 0; d < len(days); d++ {
		start := d * 24
		shuffled[start], shuffled[start+23] = shuffled[start+23], shuffled[start]
	}

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	res1, err := Run(Request{Load: base, DtHours: 1.0, Start: start})
	require.NoError(t, err)
	res2, err := Run(Request{Load: shuffled, DtHours: 1.0, Start: start})
	require.NoError(t, err)

	require.Equal(t, len(res1.Days), len(res2.Days))
	for i := range res1.Days {
		assert.Equal(t, res1.Days[i].Band, res2.Days[i].Band)
		assert.InDelta(t, res1.Days[i].P95, res2.Days[i].P95, 1e-9)
	}
}

func TestRun_InvalidDtHoursIsError(t *testing.T) {
	_, err := Run(Request{Load: []float64{1, 2, 3}, DtHours: 0.5})
	require.Error(t, err)
}

func TestRun_EmptyLoadIsError(t *testing.T) {
	_, err := Run(Request{Load: nil, DtHours: 1.0})
	require.Error(t, err)
}

func TestClassifyMonths_SpikeMonthIsHigh(t *testing.T) {
	load := make([]float64, 0)
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cur := start
	for cur.Before(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)) {
		v := 10.0
		if cur.Month() == time.March {
			v = 40.0
		}
		load = append(load, v)
		cur = cur.Add(time.Hour)
	}

	res, err := Run(Request{Load: load, DtHours: 1.0, Start: start})
	require.NoError(t, err)

	var march *MonthResult
	for i := range res.Months {
		if res.Months[i].Month == time.March {
			march = &res.Months[i]
		}
	}
	require.NotNil(t, march)
	assert.Equal(t, BandHigh, march.Band)
}
