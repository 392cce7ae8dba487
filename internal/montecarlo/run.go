package montecarlo

import (
	"context"
	"math"
	"math/rand"

	"pvbess/internal/economics"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

// Run draws req.NSimulations correlated samples of the uncertain
// parameters, evaluates NPV/IRR/payback for each sample by overriding the
// corresponding field(s) of req.BaseVariant/req.BaseParams and delegating
// to economics.Evaluate, and summarizes the resulting distributions.
// Sample generation is single-threaded and seeded, so results are fully
// reproducible for a fixed Seed regardless of how evaluation is scheduled;
// per-sample evaluation only fans out across workers because each sample is
// an independent, side-effect-free economics.Evaluate call.
func Run(ctx context.Context, req Request) (*Result, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	var seed int64 = 1
	if req.Seed != nil {
		seed = *req.Seed
	}
	rng := rand.New(rand.NewSource(seed))

	samples := generateCorrelatedSamples(req.Parameters, req.Correlations, req.NSimulations, rng)

	n := req.NSimulations
	npvResults := make([]float64, n)
	irrResults := make([]float64, n)
	paybackResults := make([]float64, n)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			variant, params := applySample(req.BaseVariant, req.BaseParams, samples, i)
			res, err := economics.Evaluate(variant, params)
			if err != nil {
				return err
			}
			npvResults[i] = res.NPV
			paybackResults[i] = res.PaybackYears
			if res.IRR.Status == economics.IRRConverged {
				irrResults[i] = res.IRR.Rate
			} else {
				irrResults[i] = math.NaN()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return summarize(req, samples, npvResults, irrResults, paybackResults), nil
}

// applySample overrides base with the i-th draw of each sampled parameter.
// production_factor scales the energy-delivery fields of the variant;
// the rest override the matching economics.Params field directly.
func applySample(base economics.Variant, params economics.Params, samples map[string][]float64, i int) (economics.Variant, economics.Params) {
	v := base
	p := params

	if s, ok := samples["production_factor"]; ok {
		v.SelfConsumedKWh = base.SelfConsumedKWh * s[i]
		v.ExportedKWh = base.ExportedKWh * s[i]
		v.BatteryDischargedKWh = base.BatteryDischargedKWh * s[i]
	}
	if s, ok := samples["electricity_price"]; ok {
		p.ImportPricePerKWh = s[i]
	}
	if s, ok := samples["investment_cost"]; ok {
		p.CapexPerKWp = s[i]
	}
	if s, ok := samples["inflation_rate"]; ok {
		p.InflationRate = s[i]
	}
	if s, ok := samples["degradation_rate"]; ok {
		p.PVDegradationRate = s[i]
	}
	if s, ok := samples["discount_rate"]; ok {
		p.DiscountRate = s[i]
	}

	return v, p
}

func summarize(req Request, samples map[string][]float64, npv, irr, payback []float64) *Result {
	names := make([]string, len(req.Parameters))
	for i, p := range req.Parameters {
		names[i] = p.Name
	}

	res := &Result{
		NSimulations:       req.NSimulations,
		ParametersAnalyzed: names,
		NPVMean:            stat.Mean(npv, nil),
		NPVStd:             stat.StdDev(npv, nil),
		NPVPercentiles:     computePercentiles(npv),
		NPVHistogram:       computeHistogram(npv, histBins(req)),
		Risk:               computeRiskMetrics(npv),
		BreakevenPrice:     estimateBreakevenPrice(samples, npv),
	}

	validIRR := filterFinite(irr)
	if len(validIRR) > 0 {
		mean, std := stat.Mean(validIRR, nil), stat.StdDev(validIRR, nil)
		percentiles := computePercentiles(validIRR)
		hist := computeHistogram(validIRR, histBins(req))
		res.IRRMean = &mean
		res.IRRStd = &std
		res.IRRPercentiles = &percentiles
		res.IRRHistogram = &hist
	}
	res.IRRValidPct = float64(len(validIRR)) / float64(len(irr)) * 100

	validPayback := filterFinite(payback)
	if len(validPayback) > 0 {
		mean, std := stat.Mean(validPayback, nil), stat.StdDev(validPayback, nil)
		percentiles := computePercentiles(validPayback)
		hist := computeHistogram(validPayback, histBins(req))
		res.PaybackMean = &mean
		res.PaybackStd = &std
		res.PaybackPercentiles = &percentiles
		res.PaybackHistogram = &hist
	}

	res.Insights = generateInsights(npv, irr, payback, res.Risk, samples)

	res.ScenarioBase = Scenario{NPV: res.NPVPercentiles.P50}
	res.ScenarioPessimistic = Scenario{NPV: res.NPVPercentiles.P10}
	res.ScenarioOptimistic = Scenario{NPV: res.NPVPercentiles.P90}
	if len(validIRR) > 0 {
		p := computePercentiles(validIRR)
		res.ScenarioBase.IRR = &p.P50
		res.ScenarioPessimistic.IRR = &p.P10
		res.ScenarioOptimistic.IRR = &p.P90
	}
	if len(validPayback) > 0 {
		p := computePercentiles(validPayback)
		res.ScenarioBase.Payback = &p.P50
		res.ScenarioPessimistic.Payback = &p.P90 // worse case = longer payback
		res.ScenarioOptimistic.Payback = &p.P10
	}

	if req.ReturnDistributions {
		res.NPVDistribution = npv
		res.IRRDistribution = irr
		res.PaybackDistribution = payback
		res.SampledParameters = samples
	}

	return res
}

func histBins(req Request) int {
	if req.HistogramBins > 0 {
		return req.HistogramBins
	}
	return 50
}

