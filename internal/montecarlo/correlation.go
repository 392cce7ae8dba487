package montecarlo

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// CorrelationPair pins the correlation coefficient between two named
// parameters; any pair not listed defaults to 0 (independent).
type CorrelationPair struct {
	Param1, Param2 string
	Correlation    float64
}

// buildCorrelationMatrix assembles the symmetric n x n correlation matrix
// for the given parameter order, with 1s on the diagonal and the listed
// pairs off-diagonal.
func buildCorrelationMatrix(names []string, pairs []CorrelationPair) *mat.SymDense {
	n := len(names)
	idx := make(map[string]int, n)
	for i, name := range names {
		idx[name] = i
	}

	m := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		m.SetSym(i, i, 1)
	}
	for _, pr := range pairs {
		i, ok1 := idx[pr.Param1]
		j, ok2 := idx[pr.Param2]
		if !ok1 || !ok2 || i == j {
			continue
		}
		m.SetSym(i, j, pr.Correlation)
	}
	return m
}

// choleskyFactor returns the lower-triangular Cholesky factor L of corr
// such that L*L^T = corr. When corr is not positive definite (numerically
// inconsistent correlation pins), it first projects corr onto the nearest
// correlation matrix via eigenvalue clipping: negative/near-zero
// eigenvalues are floored at 1e-8, then the matrix is renormalized back to
// unit diagonal before the Cholesky retry.
func choleskyFactor(corr *mat.SymDense) *mat.TriDense {
	var chol mat.Cholesky
	if chol.Factorize(corr) {
		var l mat.TriDense
		chol.LTo(&l)
		return &l
	}

	n, _ := corr.Dims()
	var eig mat.EigenSym
	eig.Factorize(corr, true)

	values := eig.Values(nil)
	for i := range values {
		if values[i] < 1e-8 {
			values[i] = 1e-8
		}
	}

	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	diag := mat.NewDiagDense(n, values)
	var tmp mat.Dense
	tmp.Mul(&vectors, diag)
	var projected mat.Dense
	projected.Mul(&tmp, vectors.T())

	d := make([]float64, n)
	for i := 0; i < n; i++ {
		d[i] = math.Sqrt(projected.At(i, i))
	}
	normalized := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			normalized.SetSym(i, j, projected.At(i, j)/(d[i]*d[j]))
		}
	}

	var chol2 mat.Cholesky
	if !chol2.Factorize(normalized) {
		// Numerically still not PSD after clipping; fall back to the
		// identity (independent samples) rather than panicking.
		ident := mat.NewSymDense(n, nil)
		for i := 0; i < n; i++ {
			ident.SetSym(i, i, 1)
		}
		chol2.Factorize(ident)
	}
	var l mat.TriDense
	chol2.LTo(&l)
	return &l
}

// sampleCorrelatedStandardNormals draws n independent standard-normal
// vectors of length len(names) and applies L to introduce the pinned
// correlation structure, returning one []float64 of length n per parameter.
func sampleCorrelatedStandardNormals(l *mat.TriDense, nParams, n int, rng *rand.Rand) [][]float64 {
	z := mat.NewDense(nParams, n, nil)
	for i := 0; i < nParams; i++ {
		for j := 0; j < n; j++ {
			z.Set(i, j, rng.NormFloat64())
		}
	}
	var correlated mat.Dense
	correlated.Mul(l, z)

	out := make([][]float64, nParams)
	for i := 0; i < nParams; i++ {
		row := make([]float64, n)
		for j := 0; j < n; j++ {
			row[j] = correlated.At(i, j)
		}
		out[i] = row
	}
	return out
}
