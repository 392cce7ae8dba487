// Package economics implements the multi-year life-cycle financial model:
// NPV, IRR (hybrid bracket+Newton), LCOE in real terms, and simple payback,
// with PV and battery degradation, inflation indexing, and a mid-life
// battery replacement. Grounded structurally on
// original_source/services/bess-dispatch/sizing_runner.py's NPV/payback
// loop shape; the IRR solver and LCOE formula are fresh implementations
// (see DESIGN.md) because a guaranteed-convergence root finder requires
// stronger guarantees than that source's plain Newton solver provides.
package economics

// IRRMode selects whether inflation is applied to prices/OPEX/feed-in
// (Nominal) or held at identity (Real). Exactly one mode is active per
// call.
type IRRMode string

const (
	Real    IRRMode = "real"
	Nominal IRRMode = "nominal"
)

// Variant carries the energy-metrics inputs for one economics(...) call:
// the annual (year-one, pre-degradation) energy quantities a dispatch run
// produced, plus the battery CAPEX inputs if a battery is present.
type Variant struct {
	CapacityKWp          float64
	SelfConsumedKWh      float64 // annual, year 1
	ExportedKWh          float64 // annual, year 1
	BatteryDischargedKWh float64 // annual, year 1; 0 if no battery

	HasBattery      bool
	BatteryEnergyKWh float64
	BatteryPowerKW   float64
}

// Params bundles the economic assumptions for one call.
type Params struct {
	CapexPerKWp float64 // PV CAPEX rate
	CapexPerKWh float64 // battery energy CAPEX rate
	CapexPerKW  float64 // battery power CAPEX rate

	OpexPerKWp     float64
	BatteryOpexPct float64

	DiscountRate  float64
	AnalysisYears int

	PVDegradationRate      float64
	BatteryDegradationRate float64
	BatteryLifetimeYears   int     // 0 means "no replacement modeled"
	ReplacementCostFactor  float64 // default 0.7 if zero

	InflationRate float64
	IRRMode       IRRMode

	ImportPricePerKWh float64
	ExportEnabled     bool
	FeedInPerKWh      float64
}

func (p Params) replacementFactor() float64 {
	if p.ReplacementCostFactor == 0 {
		return 0.7
	}
	return p.ReplacementCostFactor
}

func (p Params) validate() error {
	if p.AnalysisYears < 1 {
		return invalidInput("analysisYears must be >= 1, got %d", p.AnalysisYears)
	}
	if p.DiscountRate <= -1 {
		return invalidInput("discountRate must be > -1, got %g", p.DiscountRate)
	}
	if p.IRRMode != Real && p.IRRMode != Nominal {
		return invalidInput("irrMode must be 'real' or 'nominal', got %q", p.IRRMode)
	}
	if p.CapexPerKWp < 0 || p.CapexPerKWh < 0 || p.CapexPerKW < 0 {
		return invalidInput("CAPEX rates must be non-negative")
	}
	return nil
}

func (v Variant) validate() error {
	if v.CapacityKWp < 0 {
		return invalidInput("capacity_kWp must be >= 0, got %g", v.CapacityKWp)
	}
	if v.SelfConsumedKWh < 0 || v.ExportedKWh < 0 || v.BatteryDischargedKWh < 0 {
		return invalidInput("energy quantities must be non-negative")
	}
	return nil
}

// CashflowLine is one year's row in the annual cashflow table (one row per
// analysis year).
type CashflowLine struct {
	Year           int
	Revenue        float64
	Opex           float64
	Replacement    float64
	NetCashFlow    float64
	DiscountedCF   float64
	EnergyDeliveredKWh float64
}

// Result is the full output of one economics(...) call.
type Result struct {
	Investment    float64
	AnnualSavings float64 // year-one net cash flow (pre-discount)
	NPV           float64
	IRR           IRRResult
	LCOE          float64
	PaybackYears  float64 // math.Inf(1) if never recovered
	Cashflows     []CashflowLine
}
