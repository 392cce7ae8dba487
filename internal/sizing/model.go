// Package sizing implements the grid-search sizing optimizer: for each
// duration class, derive a power search range from load/PV statistics,
// evaluate dispatch+economics at each (power, energy) point, filter to the
// Pareto frontier of NPV vs. cycles, and pick a recommended variant by a
// configurable strategy. Grounded on
// original_source/services/bess-dispatch/sizing_runner.py for the grid
// search and scoring formula; the Pareto/strategy-selection logic has no
// original_source counterpart (see DESIGN.md) and is grounded instead on
// the teacher's internal/analysis/rank.go sort.Slice ranking idiom.
package sizing

import (
	"pvbess/internal/dispatch"

	"github.com/google/uuid"
)

// DurationClass labels a battery's energy/power ratio.
type DurationClass string

const (
	DurationSmall  DurationClass = "small"
	DurationMedium DurationClass = "medium"
	DurationLarge  DurationClass = "large"
	DurationCustom DurationClass = "custom"
)

func classifyDuration(hours float64) DurationClass {
	switch {
	case hours <= 1.0+1e-9:
		return DurationSmall
	case hours <= 2.0+1e-9:
		return DurationMedium
	case hours <= 4.0+1e-9:
		return DurationLarge
	default:
		return DurationCustom
	}
}

// Strategy selects which non-dominated Pareto point is recommended.
type Strategy string

const (
	StrategyNPVMax    Strategy = "NPV_MAX"
	StrategyCyclesMax Strategy = "CYCLES_MAX"
	StrategyBalanced  Strategy = "BALANCED"
)

// EconomicParams mirrors the economic-parameter subset of a size(...)
// request (capexPerKWh, capexPerKW, opexPctPerYear, discountRate,
// analysisYears). Each variant is evaluated with zero PV-side CAPEX/OPEX,
// no degradation and no inflation; the caller cannot supply them.
type EconomicParams struct {
	CapexPerKWh    float64
	CapexPerKW     float64
	OpexPctPerYear float64
	DiscountRate   float64
	AnalysisYears  int
}

// Request bundles one size(...) call's inputs.
type Request struct {
	PV     []float64
	Load   []float64
	DtHours float64

	Policy dispatch.Policy
	Prices dispatch.PriceConfig

	RoundtripEfficiency float64
	SOCMin, SOCMax      float64

	// PVCapacityKWp is the already-installed (or assumed) PV array rating;
	// sizing optimizes the battery only, so this feeds economics.Variant's
	// CapacityKWp as a fixed pass-through.
	PVCapacityKWp float64

	Econ EconomicParams

	Durations       []float64 // hours; default [1, 2, 4]
	MinPowerKW      float64
	MaxPowerKW      float64
	PowerSteps      int // default 5

	Budget *dispatch.DegradationBudget

	StrategyChoice Strategy
	MinCycles, MaxCycles float64 // only used by StrategyBalanced
}

func (r Request) validate() error {
	if len(r.Load) == 0 {
		return invalidInput("load series must have length >= 1")
	}
	if r.Econ.AnalysisYears < 1 {
		return invalidInput("econ.analysisYears must be >= 1")
	}
	if r.RoundtripEfficiency <= 0 || r.RoundtripEfficiency > 1 {
		return invalidInput("roundtripEfficiency must be in (0,1], got %g", r.RoundtripEfficiency)
	}
	if r.SOCMin >= r.SOCMax {
		return invalidInput("socMin must be < socMax")
	}
	return nil
}

// ParetoPoint is one candidate in the returned frontier.
type ParetoPoint struct {
	PowerKW           float64
	EnergyKWh         float64
	NPV               float64
	AnnualCycles      float64
	AnnualDischargeMWh float64
	PaybackYears      float64
	Dominated         bool
}

// VariantResult is one fully evaluated (power, energy) grid point. When
// returned in Result.Variants it is the best-NPV representative for its
// DurationHours; the full grid of evaluated points survives only in
// Result.ParetoFrontier.
type VariantResult struct {
	ID            string
	Duration      DurationClass
	DurationHours float64
	PowerKW       float64
	EnergyKWh     float64
	CapexTotal    float64
	AnnualOpex    float64
	AnnualSavings float64
	NPV           float64
	PaybackYears  float64
	IRR           *float64
	Dispatch      *dispatch.Result
	Score         float64
}

// Result is the full output of one size(...) call.
type Result struct {
	Variants          []VariantResult
	RecommendedIndex  int // -1 if Variants is empty
	ParetoFrontier     []ParetoPoint
	Warnings          []string
}

func newID() string {
	return uuid.NewString()
}
