package montecarlo

import "gonum.org/v1/gonum/stat"

// estimateBreakevenPrice fits a simple linear regression of NPV against
// sampled electricity price and solves for the price at which NPV=0. It
// returns nil when electricity_price wasn't sampled, the fitted slope is
// (numerically) zero, or the breakeven point falls outside the plausible
// (0, 2000) price range.
func estimateBreakevenPrice(samples map[string][]float64, npv []float64) *float64 {
	prices, ok := samples["electricity_price"]
	if !ok || len(prices) != len(npv) {
		return nil
	}

	intercept, slope := stat.LinearRegression(prices, npv, nil, false)
	if slope == 0 {
		return nil
	}

	breakeven := -intercept / slope
	if breakeven <= 0 || breakeven >= 2000 {
		return nil
	}
	return &breakeven
}
