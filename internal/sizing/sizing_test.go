package sizing

import (
	"context"
	"testing"

	"pvbess/internal/dispatch"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flatSeries(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func baseRequest() Request {
	n := 24 * 30
	pv := make([]float64, n)
	for i := 0; i < n; i++ {
		hour := i % 24
		if hour >= 7 && hour < 19 {
			pv[i] = 80
		}
	}
	load := flatSeries(60, n)

	return Request{
		PV:                  pv,
		Load:                load,
		DtHours:             1.0,
		Policy:              dispatch.PVSurplus{},
		Prices:              dispatch.PriceConfig{ImportPricePerKWh: 0.30, ExportPricePerKWh: 0.05},
		RoundtripEfficiency: 0.9,
		SOCMin:              0.1,
		SOCMax:              0.9,
		PVCapacityKWp:       100,
		Econ: EconomicParams{
			CapexPerKWh:    400,
			CapexPerKW:     300,
			OpexPctPerYear: 0.02,
			DiscountRate:   0.06,
			AnalysisYears:  15,
		},
		Durations:      []float64{1, 2},
		MinPowerKW:     20,
		MaxPowerKW:     80,
		PowerSteps:     3,
		StrategyChoice: StrategyNPVMax,
	}
}

func TestRun_ProducesVariantsAndFrontier(t *testing.T) {
	res, err := Run(context.Background(), baseRequest())
	require.NoError(t, err)
	require.NotEmpty(t, res.Variants)
	assert.GreaterOrEqual(t, res.RecommendedIndex, 0)

	// One representative variant per duration, but the frontier keeps
	// every evaluated (power, energy) grid point.
	assert.Len(t, res.Variants, len(baseRequest().Durations))
	assert.Len(t, res.ParetoFrontier, len(baseRequest().Durations)*baseRequest().PowerSteps)

	hasNonDominated := false
	for _, p := range res.ParetoFrontier {
		if !p.Dominated {
			hasNonDominated = true
		}
	}
	assert.True(t, hasNonDominated)
}

func TestRun_VariantsAreOnePerDurationSortedAscending(t *testing.T) {
	res, err := Run(context.Background(), baseRequest())
	require.NoError(t, err)
	require.Len(t, res.Variants, 2)
	assert.Less(t, res.Variants[0].DurationHours, res.Variants[1].DurationHours)

	seen := make(map[float64]bool)
	for _, v := range res.Variants {
		assert.False(t, seen[v.DurationHours], "duration %g appeared twice in Variants", v.DurationHours)
		seen[v.DurationHours] = true
	}
}

func TestRun_RecommendedIsNonDominated(t *testing.T) {
	res, err := Run(context.Background(), baseRequest())
	require.NoError(t, err)
	require.GreaterOrEqual(t, res.RecommendedIndex, 0)

	rec := res.Variants[res.RecommendedIndex]
	found := false
	for _, p := range res.ParetoFrontier {
		if p.PowerKW == rec.PowerKW && p.EnergyKWh == rec.EnergyKWh {
			assert.False(t, p.Dominated)
			found = true
		}
	}
	assert.True(t, found)
}

func TestRun_CyclesMaxStrategyPicksHighestCycles(t *testing.T) {
	req := baseRequest()
	req.StrategyChoice = StrategyCyclesMax
	res, err := Run(context.Background(), req)
	require.NoError(t, err)
	require.GreaterOrEqual(t, res.RecommendedIndex, 0)

	rec := res.Variants[res.RecommendedIndex]
	for _, v := range res.Variants {
		assert.LessOrEqual(t, v.Dispatch.Degradation.EFC, rec.Dispatch.Degradation.EFC+1e-9)
	}
}

func TestRun_EmptySearchRangeReturnsWarningNotError(t *testing.T) {
	req := baseRequest()
	req.MinPowerKW = 50
	req.MaxPowerKW = 50
	res, err := Run(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, -1, res.RecommendedIndex)
	assert.NotEmpty(t, res.Warnings)
}

func TestRun_InvalidEfficiencyIsError(t *testing.T) {
	req := baseRequest()
	req.RoundtripEfficiency = 0
	_, err := Run(context.Background(), req)
	require.Error(t, err)
}

func TestSelectRecommended_ArgmaxScoreTiesBrokenByLowerPower(t *testing.T) {
	variants := []VariantResult{
		{PowerKW: 50, EnergyKWh: 100, Score: 80},
		{PowerKW: 30, EnergyKWh: 60, Score: 80},
	}
	// A trade-off (50kW has higher NPV, 30kW has more cycles) so both are
	// non-dominated; equal Score should be broken by the lower PowerKW.
	frontier := []ParetoPoint{
		{PowerKW: 50, EnergyKWh: 100, NPV: 100, AnnualCycles: 200},
		{PowerKW: 30, EnergyKWh: 60, NPV: 90, AnnualCycles: 250},
	}
	idx := selectRecommended(variants, frontier, StrategyNPVMax, 0, 0)
	require.GreaterOrEqual(t, idx, 0)
	assert.Equal(t, 30.0, variants[idx].PowerKW, "equal score should be broken by lower power")
}

func TestSelectRecommended_HigherScoreWinsOverHigherNPV(t *testing.T) {
	variants := []VariantResult{
		{PowerKW: 50, EnergyKWh: 100, Score: 60},
		{PowerKW: 30, EnergyKWh: 60, Score: 90},
	}
	// Neither point dominates the other (50kW has higher NPV, 30kW has more
	// cycles), so both are live; the higher-scoring 30kW point should win
	// even though it has the lower raw NPV.
	frontier := []ParetoPoint{
		{PowerKW: 50, EnergyKWh: 100, NPV: 200, AnnualCycles: 200},
		{PowerKW: 30, EnergyKWh: 60, NPV: 150, AnnualCycles: 250},
	}
	idx := selectRecommended(variants, frontier, StrategyNPVMax, 0, 0)
	require.GreaterOrEqual(t, idx, 0)
	assert.Equal(t, 30.0, variants[idx].PowerKW)
}

func TestBuildParetoFrontier_DominatedMarkedCorrectly(t *testing.T) {
	points := []ParetoPoint{
		{PowerKW: 10, NPV: 100, AnnualCycles: 200},
		{PowerKW: 20, NPV: 50, AnnualCycles: 100}, // dominated by point 0
		{PowerKW: 30, NPV: 120, AnnualCycles: 150},
	}
	out := buildParetoFrontier(points)
	assert.False(t, out[0].Dominated)
	assert.True(t, out[1].Dominated)
	assert.False(t, out[2].Dominated)
}
