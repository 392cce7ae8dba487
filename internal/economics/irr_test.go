package economics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSolveIRR_Converges(t *testing.T) {
	cashflows := []float64{-1000, 300, 300, 300, 300, 300}
	res := SolveIRR(cashflows)
	assert.Equal(t, IRRConverged, res.Status)
	assert.Less(t, math.Abs(npvAt(res.Rate, cashflows)), 1e-4)
}

func TestSolveIRR_ImpossiblyProfitable_Converges(t *testing.T) {
	cashflows := []float64{-100, 1000, 1000, 1000}
	res := SolveIRR(cashflows)
	assert.Equal(t, IRRConverged, res.Status)
}

func TestSolveIRR_NoInvestment_Invalid(t *testing.T) {
	cashflows := []float64{100, 100, 100}
	res := SolveIRR(cashflows)
	assert.Equal(t, IRRInvalid, res.Status)
}

func TestSolveIRR_AllNegative_Invalid(t *testing.T) {
	cashflows := []float64{-100, -50, -20}
	res := SolveIRR(cashflows)
	assert.Equal(t, IRRInvalid, res.Status)
}

func TestSolveIRR_NPVConsistency(t *testing.T) {
	cashflows := []float64{-5000, 1200, 1200, 1200, 1200, 1200, 1200}
	res := SolveIRR(cashflows)
	if res.Status == IRRConverged {
		assert.InDelta(t, 0, npvAt(res.Rate, cashflows), 1e-4)
	}
}
