package sizing

import "pvbess/internal/dispatch"

// score computes the recommendation score:
//
//	min(100, max(0, (NPV/capex + 0.5) * 50))
//
// scaled by the degradation-budget status (0.5x EXCEEDED, 0.8x WARNING,
// 1.0x otherwise). This is the value selectRecommended ranks candidates by.
// Carried over verbatim from
// original_source/services/bess-dispatch/sizing_runner.py.
func score(npv, capex float64, status dispatch.BudgetStatus) float64 {
	if capex <= 0 {
		return 0
	}
	raw := (npv/capex + 0.5) * 50
	if raw < 0 {
		raw = 0
	}
	if raw > 100 {
		raw = 100
	}

	switch status {
	case dispatch.BudgetExceeded:
		raw *= 0.5
	case dispatch.BudgetWarning:
		raw *= 0.8
	}
	return raw
}
