package montecarlo

import (
	"context"
	"math/rand"
	"testing"

	"pvbess/internal/economics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseRequest() Request {
	params, correlations := DefaultDistributions()
	seed := int64(42)
	return Request{
		NSimulations: 500,
		Parameters:   params,
		Correlations: correlations,
		BaseVariant: economics.Variant{
			CapacityKWp:     100,
			SelfConsumedKWh: 80000,
			ExportedKWh:     20000,
		},
		BaseParams: economics.Params{
			CapexPerKWp:   3500,
			OpexPerKWp:    15,
			DiscountRate:  0.07,
			AnalysisYears: 20,
			IRRMode:       economics.Real,
			ImportPricePerKWh: 0.45,
		},
		Seed:          &seed,
		HistogramBins: 20,
	}
}

func TestRun_Deterministic_SameSeedSameResult(t *testing.T) {
	req := baseRequest()

	r1, err := Run(context.Background(), req)
	require.NoError(t, err)
	r2, err := Run(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, r1.NPVPercentiles, r2.NPVPercentiles)
	assert.Equal(t, r1.NPVMean, r2.NPVMean)
	assert.Equal(t, r1.Risk, r2.Risk)
}

func TestRun_DifferentSeedsDiffer(t *testing.T) {
	req := baseRequest()
	seedA, seedB := int64(1), int64(2)

	reqA := req
	reqA.Seed = &seedA
	reqB := req
	reqB.Seed = &seedB

	rA, err := Run(context.Background(), reqA)
	require.NoError(t, err)
	rB, err := Run(context.Background(), reqB)
	require.NoError(t, err)

	assert.NotEqual(t, rA.NPVMean, rB.NPVMean)
}

func TestRun_ProbabilityPositiveInRange(t *testing.T) {
	res, err := Run(context.Background(), baseRequest())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, res.Risk.ProbabilityPositive, 0.0)
	assert.LessOrEqual(t, res.Risk.ProbabilityPositive, 1.0)
}

func TestRun_VaR99LessOrEqualVaR95(t *testing.T) {
	res, err := Run(context.Background(), baseRequest())
	require.NoError(t, err)
	// VaR99 is a more extreme (lower) quantile than VaR95.
	assert.LessOrEqual(t, res.Risk.VaR99, res.Risk.VaR95)
}

func TestRun_ReturnDistributions(t *testing.T) {
	req := baseRequest()
	req.ReturnDistributions = true
	res, err := Run(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, res.NPVDistribution, req.NSimulations)
	assert.Contains(t, res.SampledParameters, "electricity_price")
}

func TestRun_InvalidNSimulations(t *testing.T) {
	req := baseRequest()
	req.NSimulations = 0
	_, err := Run(context.Background(), req)
	require.Error(t, err)
}

func TestGenerateCorrelatedSamples_MatchesPinnedCorrelation(t *testing.T) {
	params := []ParameterDistribution{
		{Name: "a", DistType: Normal, BaseValue: 0, StdDev: 1},
		{Name: "b", DistType: Normal, BaseValue: 0, StdDev: 1},
	}
	pairs := []CorrelationPair{{Param1: "a", Param2: "b", Correlation: 0.8}}

	samples := generateCorrelatedSamples(params, pairs, 20000, rand.New(rand.NewSource(7)))
	corr := pearsonCorrelation(samples["a"], samples["b"])
	assert.InDelta(t, 0.8, corr, 0.05)
}
