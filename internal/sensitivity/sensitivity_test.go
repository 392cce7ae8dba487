package sensitivity

import (
	"testing"

	"pvbess/internal/dispatch"
	"pvbess/internal/economics"

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
		PV:      pv,
		Load:    load,
		DtHours: 1.0,
		Battery: dispatch.BatterySpec{
			PowerKW:    40,
			EnergyKWh:  80,
			SOCMin:     0.1,
			SOCMax:     0.9,
			SOCInitial: 0.5,
			Efficiency: 0.9,
		},
		Policy: dispatch.PVSurplus{},
		Prices: dispatch.PriceConfig{ImportPricePerKWh: 0.30, ExportPricePerKWh: 0.05},

		PVCapacityKWp: 100,
		Econ: economics.Params{
			CapexPerKWh:    400,
			CapexPerKW:     300,
			BatteryOpexPct: 0.02,
			DiscountRate:   0.06,
			AnalysisYears:  15,
			IRRMode:        economics.Real,
		},
		Parameters: []ParameterRange{
			{Parameter: EnergyPrice, LowPct: -20, HighPct: 20},
			{Parameter: CapexPerKWh, LowPct: -20, HighPct: 20},
			{Parameter: CapexPerKW, LowPct: -20, HighPct: 20},
			{Parameter: DiscountRate, LowPct: -20, HighPct: 20},
			{Parameter: RoundtripEfficiency, LowPct: -10, HighPct: 10},
			{Parameter: OpexPct, LowPct: -20, HighPct: 20},
		},
	}
}

func TestRun_ProducesOneResultPerParameter(t *testing.T) {
	res, err := Run(baseRequest())
	require.NoError(t, err)
	assert.Len(t, res.Parameters, 6)
	assert.Len(t, res.AllPoints, 18)
}

func TestRun_EnergyPriceIncreaseRaisesNPV(t *testing.T) {
	res, err := Run(baseRequest())
	require.NoError(t, err)

	var priceResult *ParameterResult
	for i := range res.Parameters {
		if res.Parameters[i].Parameter == EnergyPrice {
			priceResult = &res.Parameters[i]
		}
	}
	require.NotNil(t, priceResult)
	assert.Greater(t, priceResult.HighNPV, priceResult.LowNPV)
}

func TestRun_CapexIncreaseLowersNPV(t *testing.T) {
	res, err := Run(baseRequest())
	require.NoError(t, err)

	for _, param := range []Parameter{CapexPerKWh, CapexPerKW} {
		var pr *ParameterResult
		for i := range res.Parameters {
			if res.Parameters[i].Parameter == param {
				pr = &res.Parameters[i]
			}
		}
		require.NotNil(t, pr)
		assert.Less(t, pr.HighNPV, pr.LowNPV)
	}
}

func TestRun_RankedDescendingByNPVSwing(t *testing.T) {
	res, err := Run(baseRequest())
	require.NoError(t, err)

	for i := 1; i < len(res.Parameters); i++ {
		assert.GreaterOrEqual(t, res.Parameters[i-1].NPVSwing, res.Parameters[i].NPVSwing)
	}
	assert.Equal(t, res.Parameters[0].ParameterLabel, res.MostSensitiveParameter)
	assert.Equal(t, res.Parameters[len(res.Parameters)-1].ParameterLabel, res.LeastSensitiveParameter)
}

func TestRun_EfficiencyPerturbationRerunsDispatch(t *testing.T) {
	req := baseRequest()
	req.Parameters = []ParameterRange{{Parameter: RoundtripEfficiency, LowPct: -30, HighPct: 30}}

	res, err := Run(req)
	require.NoError(t, err)
	require.Len(t, res.Parameters, 1)

	pr := res.Parameters[0]
	assert.NotEqual(t, pr.LowNPV, pr.HighNPV)
}

func TestRun_InvalidParameterIsError(t *testing.T) {
	req := baseRequest()
	req.Parameters = []ParameterRange{{Parameter: "not_a_real_parameter", LowPct: -10, HighPct: 10}}

	_, err := Run(req)
	require.Error(t, err)
}

func TestRun_NoParametersIsError(t *testing.T) {
	req := baseRequest()
	req.Parameters = nil

	_, err := Run(req)
	require.Error(t, err)
}

func TestRun_BaseCaseMatchesDirectDispatchAndEconomics(t *testing.T) {
	req := baseRequest()

	dres, err := dispatch.Run(dispatch.Request{
		PV:      req.PV,
		Load:    req.Load,
		DtHours: req.DtHours,
		Battery: req.Battery,
		Prices:  req.Prices,
		Policy:  req.Policy,
	})
	require.NoError(t, err)

	variant := economics.Variant{
		CapacityKWp:          req.PVCapacityKWp,
		SelfConsumedKWh:      dres.TotalDirectPV,
		ExportedKWh:          dres.TotalGridExport,
		BatteryDischargedKWh: dres.TotalDischarge,
		HasBattery:           true,
		BatteryEnergyKWh:     req.Battery.EnergyKWh,
		BatteryPowerKW:       req.Battery.PowerKW,
	}
	econ := req.Econ
	econ.ImportPricePerKWh = req.Prices.ImportPricePerKWh
	want, err := economics.Evaluate(variant, econ)
	require.NoError(t, err)

	got, err := Run(req)
	require.NoError(t, err)

	assert.InDelta(t, want.NPV, got.BaseNPV, 1e-6)
	assert.InDelta(t, want.PaybackYears, got.BasePaybackYears, 1e-6)
}
