package montecarlo

import (
	"math"
	"math/rand"
)

// generateCorrelatedSamples draws n joint samples of the given parameters,
// honoring the pinned pairwise correlations: independent standard-normal
// draws are correlated via the Cholesky factor of the (possibly
// eigen-clipped) correlation matrix, mapped through Φ to a uniform, then
// through each parameter's own inverse CDF to its target marginal.
func generateCorrelatedSamples(params []ParameterDistribution, pairs []CorrelationPair, n int, rng *rand.Rand) map[string][]float64 {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}

	corr := buildCorrelationMatrix(names, pairs)
	l := choleskyFactor(corr)
	z := sampleCorrelatedStandardNormals(l, len(params), n, rng)

	out := make(map[string][]float64, len(params))
	for i, p := range params {
		samples := make([]float64, n)
		for j := 0; j < n; j++ {
			u := normCDF(z[i][j])
			samples[j] = p.invCDF(u)
		}
		out[p.Name] = samples
	}
	return out
}

// normCDF is the standard normal CDF, via the standard library's
// complementary error function.
func normCDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}
