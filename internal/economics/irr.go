package economics

import "math"

// IRRStatus is a three-way status in place of a bare float-with-sentinel.
type IRRStatus string

const (
	IRRConverged IRRStatus = "converged"
	IRRNoRoot    IRRStatus = "no_root"
	IRRInvalid   IRRStatus = "invalid"
)

// IRRResult carries the solved rate plus its status; Rate is only
// meaningful when Status == IRRConverged.
type IRRResult struct {
	Rate   float64
	Status IRRStatus
}

const (
	irrLow       = -0.99
	irrHigh      = 10.0
	irrScanN     = 100
	irrMaxIter   = 200
	irrNPVTol    = 1e-6
	irrWidthTol  = 1e-6
)

func npvAt(rate float64, cashflows []float64) float64 {
	var sum float64
	df := 1.0
	factor := 1 + rate
	for y, cf := range cashflows {
		if y == 0 {
			sum += cf
			continue
		}
		df *= factor
		sum += cf / df
	}
	return sum
}

// SolveIRR implements a hybrid bracket+Newton method. It first verifies
// the cashflow vector has at least one negative and one positive
// entry (else IRRInvalid); scans [-0.99, 10] at 100 points for a sign
// change (else IRRNoRoot); then refines the bracket with a Newton step
// falling back to bisection whenever the Newton step would leave the
// bracket, guaranteeing convergence within the bracket regardless of local
// derivative behavior.
func SolveIRR(cashflows []float64) IRRResult {
	if !hasSignChange(cashflows) {
		return IRRResult{Status: IRRInvalid}
	}

	lo, hi, ok := findBracket(cashflows)
	if !ok {
		return IRRResult{Status: IRRNoRoot}
	}

	fLo := npvAt(lo, cashflows)
	fHi := npvAt(hi, cashflows)

	// bisection midpoint as the initial guess
	r := (lo + hi) / 2

	for iter := 0; iter < irrMaxIter; iter++ {
		fr := npvAt(r, cashflows)
		if math.Abs(fr) < irrNPVTol || (hi-lo) < irrWidthTol {
			return IRRResult{Rate: r, Status: IRRConverged}
		}

		if fLo*fr < 0 {
			hi = r
			fHi = fr
		} else {
			lo = r
			fLo = fr
		}

		deriv := npvDerivative(r, cashflows)
		next := r
		if deriv != 0 {
			next = r - fr/deriv
		}
		if next <= lo || next >= hi || deriv == 0 {
			next = (lo + hi) / 2
		}
		r = next
	}

	// Ran out of iterations: report the last estimate as converged if it
	// satisfies the NPV tolerance or the bracket is already tight enough.
	fr := npvAt(r, cashflows)
	if math.Abs(fr) < irrNPVTol || (hi-lo) < irrWidthTol {
		return IRRResult{Rate: r, Status: IRRConverged}
	}
	return IRRResult{Status: IRRNoRoot}
}

func npvDerivative(rate float64, cashflows []float64) float64 {
	var sum float64
	factor := 1 + rate
	df := 1.0
	for y, cf := range cashflows {
		if y == 0 {
			continue
		}
		df *= factor
		sum += -float64(y) * cf / (df * factor)
	}
	return sum
}

func hasSignChange(cashflows []float64) bool {
	var hasNeg, hasPos bool
	for _, cf := range cashflows {
		if cf < 0 {
			hasNeg = true
		}
		if cf > 0 {
			hasPos = true
		}
	}
	return hasNeg && hasPos
}

// findBracket rescans [-0.99, 10] at irrScanN points looking for the first
// sub-interval where NPV changes sign.
func findBracket(cashflows []float64) (lo, hi float64, ok bool) {
	step := (irrHigh - irrLow) / float64(irrScanN)
	prevR := irrLow
	prevV := npvAt(prevR, cashflows)
	for i := 1; i <= irrScanN; i++ {
		r := irrLow + float64(i)*step
		v := npvAt(r, cashflows)
		if prevV == 0 {
			return prevR, prevR, true
		}
		if v == 0 {
			return r, r, true
		}
		if prevV*v < 0 {
			return prevR, r, true
		}
		prevR, prevV = r, v
	}
	return 0, 0, false
}
