package montecarlo

import (
	"fmt"
	"math"
	"sort"

	"pvbess/internal/timeutil"
)

// generateInsights produces the narrative summary of one Monte Carlo run:
// profit probability, NPV variability, VaR interpretation, IRR spread, and
// payback spread, followed by one line per parameter whose correlation with
// NPV exceeds |0.5|.
func generateInsights(npv, irr, payback []float64, risk RiskMetrics, samples map[string][]float64) []string {
	var out []string

	prob := risk.ProbabilityPositive * 100
	switch {
	case prob >= 95:
		out = append(out, fmt.Sprintf("Very high confidence of profit: %.1f%% of simulations yield a positive NPV", prob))
	case prob >= 80:
		out = append(out, fmt.Sprintf("High confidence of profit: %.1f%% of simulations yield a positive NPV", prob))
	case prob >= 50:
		out = append(out, fmt.Sprintf("Moderate risk: %.1f%% of simulations yield a positive NPV", prob))
	default:
		out = append(out, fmt.Sprintf("WARNING: high risk of loss — only %.1f%% of simulations yield a positive NPV", prob))
	}

	switch cv := risk.CoefficientOfVariation; {
	case cv < 0.3:
		out = append(out, "Low NPV variability — results are stable")
	case cv < 0.6:
		out = append(out, "Moderate NPV variability")
	default:
		out = append(out, "High NPV variability — substantial outcome uncertainty")
	}

	if risk.VaR95 > 0 {
		out = append(out, fmt.Sprintf("VaR 95%%: even in the worst 5%% of scenarios, NPV stays positive (%.0f)", risk.VaR95))
	} else {
		out = append(out, fmt.Sprintf("VaR 95%%: in the worst 5%% of scenarios, losses reach %.0f", math.Abs(risk.VaR95)))
	}

	validIRR := filterFinite(irr)
	if len(validIRR) > 0 {
		median := timeutil.Percentile(validIRR, 50) * 100
		p10 := timeutil.Percentile(validIRR, 10) * 100
		p90 := timeutil.Percentile(validIRR, 90) * 100
		out = append(out, fmt.Sprintf("IRR: median %.1f%% (P10-P90 range: %.1f%% - %.1f%%)", median, p10, p90))
		if p10 > 7 {
			out = append(out, "Even in the pessimistic (P10) scenario, IRR exceeds a typical 7% discount rate")
		}
	}

	validPayback := filterFinite(payback)
	if len(validPayback) > 0 {
		median := timeutil.Percentile(validPayback, 50)
		p90 := timeutil.Percentile(validPayback, 90)
		out = append(out, fmt.Sprintf("Payback: median %.1f years (90%% of cases < %.1f years)", median, p90))
	}

	names := make([]string, 0, len(samples))
	for name := range samples {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		corr := pearsonCorrelation(samples[name], npv)
		if math.Abs(corr) > 0.5 {
			direction := "positively"
			if corr < 0 {
				direction = "negatively"
			}
			out = append(out, fmt.Sprintf("%s is strongly %s correlated with NPV (r=%.2f)", name, direction, corr))
		}
	}

	return out
}

func filterFinite(vs []float64) []float64 {
	out := make([]float64, 0, len(vs))
	for _, v := range vs {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

func pearsonCorrelation(a, b []float64) float64 {
	n := float64(len(a))
	if n == 0 {
		return 0
	}
	var sumA, sumB float64
	for i := range a {
		sumA += a[i]
		sumB += b[i]
	}
	meanA, meanB := sumA/n, sumB/n

	var cov, varA, varB float64
	for i := range a {
		da, db := a[i]-meanA, b[i]-meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}
	if varA == 0 || varB == 0 {
		return 0
	}
	return cov / math.Sqrt(varA*varB)
}
