package montecarlo

import (
	"math"

	"pvbess/internal/timeutil"

	"gonum.org/v1/gonum/stat"
)

// computeRiskMetrics summarizes an NPV outcome distribution: probability of
// a positive NPV, 95%/99% Value-at-Risk (as the lower 5%/1% quantiles),
// Conditional VaR-95 (mean of outcomes at or below VaR-95), coefficient of
// variation, downside (semi-deviation) risk, and a simplified
// Sharpe-like ratio (mean/std, since NPV is already net of the discount
// rate's risk-free component).
func computeRiskMetrics(npv []float64) RiskMetrics {
	n := float64(len(npv))

	positives := 0
	for _, v := range npv {
		if v > 0 {
			positives++
		}
	}
	mean := stat.Mean(npv, nil)
	std := stat.StdDev(npv, nil)

	var95 := timeutil.Percentile(npv, 5)
	var99 := timeutil.Percentile(npv, 1)

	var cvarSum float64
	cvarN := 0
	for _, v := range npv {
		if v <= var95 {
			cvarSum += v
			cvarN++
		}
	}
	cvar95 := mean
	if cvarN > 0 {
		cvar95 = cvarSum / float64(cvarN)
	}

	cv := math.Inf(1)
	if mean != 0 {
		cv = math.Abs(std / mean)
	}

	var downSumSq float64
	for _, v := range npv {
		d := math.Min(v-mean, 0)
		downSumSq += d * d
	}
	downsideRisk := math.Sqrt(downSumSq / n)

	var sharpe *float64
	if std > 0 {
		s := mean / std
		sharpe = &s
	}

	return RiskMetrics{
		ProbabilityPositive:    float64(positives) / n,
		VaR95:                  var95,
		VaR99:                  var99,
		CVaR95:                 cvar95,
		ExpectedValue:          mean,
		StandardDeviation:      std,
		CoefficientOfVariation: cv,
		DownsideRisk:           downsideRisk,
		SharpeRatio:            sharpe,
	}
}
