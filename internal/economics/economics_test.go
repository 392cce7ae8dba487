package economics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate_NPVConsistency(t *testing.T) {
	v := Variant{
		CapacityKWp:     100,
		SelfConsumedKWh: 80000,
		ExportedKWh:     20000,
	}
	p := Params{
		CapexPerKWp:   3500,
		OpexPerKWp:    15,
		DiscountRate:  0.07,
		AnalysisYears: 25,
		IRRMode:       Real,
		ImportPricePerKWh: 0.45,
		ExportEnabled:     true,
		FeedInPerKWh:      0.05,
	}

	res, err := Evaluate(v, p)
	require.NoError(t, err)

	var manual float64
	manual = -res.Investment
	for _, l := range res.Cashflows {
		manual += l.NetCashFlow / math.Pow(1+p.DiscountRate, float64(l.Year))
	}
	assert.InDelta(t, manual, res.NPV, math.Abs(manual)*1e-3+1e-6)
}

func TestEvaluate_PaybackInfiniteWhenUnprofitable(t *testing.T) {
	v := Variant{CapacityKWp: 10, SelfConsumedKWh: 100}
	p := Params{
		CapexPerKWp: 100000, OpexPerKWp: 50000, DiscountRate: 0.07,
		AnalysisYears: 5, IRRMode: Real, ImportPricePerKWh: 0.4,
	}
	res, err := Evaluate(v, p)
	require.NoError(t, err)
	assert.True(t, math.IsInf(res.PaybackYears, 1))
}

func TestEvaluate_BatteryReplacementAppliedOnce(t *testing.T) {
	v := Variant{
		CapacityKWp: 50, SelfConsumedKWh: 40000,
		HasBattery: true, BatteryEnergyKWh: 100, BatteryPowerKW: 50,
		BatteryDischargedKWh: 10000,
	}
	p := Params{
		CapexPerKWp: 3000, CapexPerKWh: 1500, CapexPerKW: 300,
		OpexPerKWp: 10, BatteryOpexPct: 0.01,
		DiscountRate: 0.06, AnalysisYears: 20,
		PVDegradationRate: 0.005, BatteryDegradationRate: 0.02,
		BatteryLifetimeYears: 10, ReplacementCostFactor: 0.7,
		IRRMode: Real, ImportPricePerKWh: 0.4,
	}
	res, err := Evaluate(v, p)
	require.NoError(t, err)

	count := 0
	for _, l := range res.Cashflows {
		if l.Replacement > 0 {
			count++
			assert.Equal(t, 10, l.Year)
		}
	}
	assert.Equal(t, 1, count)
}

func TestEvaluate_InvalidAnalysisYears(t *testing.T) {
	v := Variant{CapacityKWp: 10}
	p := Params{AnalysisYears: 0, IRRMode: Real}
	_, err := Evaluate(v, p)
	require.Error(t, err)
}
