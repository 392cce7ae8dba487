// Package sensitivity implements one-at-a-time tornado analysis for a
// fixed battery configuration: each parameter is perturbed independently
// by a low/high percentage deviation, NPV is recomputed at each point via
// internal/economics, and parameters are ranked by NPV swing for tornado
// chart display. Grounded on
// original_source/services/bess-dispatch/sensitivity_runner.py.
package sensitivity

import (
	"pvbess/internal/dispatch"
	"pvbess/internal/economics"
)

// Parameter identifies one varied input.
type Parameter string

const (
	EnergyPrice         Parameter = "energy_price"
	CapexPerKWh         Parameter = "capex_per_kwh"
	CapexPerKW          Parameter = "capex_per_kw"
	DiscountRate        Parameter = "discount_rate"
	RoundtripEfficiency Parameter = "roundtrip_efficiency"
	OpexPct             Parameter = "opex_pct"
)

// parameterLabel mirrors sensitivity_runner.py's PARAMETER_INFO table.
var parameterLabel = map[Parameter]string{
	EnergyPrice:         "Energy price",
	CapexPerKWh:         "CAPEX/kWh",
	CapexPerKW:          "CAPEX/kW",
	DiscountRate:        "Discount rate",
	RoundtripEfficiency: "Round-trip efficiency",
	OpexPct:             "OPEX %/year",
}

// dispatchAffecting is the subset of parameters whose perturbation changes
// the dispatch simulation's output (and so requires re-running it); the
// rest only affect the economics layer.
var dispatchAffecting = map[Parameter]bool{
	EnergyPrice:         true,
	RoundtripEfficiency: true,
}

// ParameterRange is one parameter's perturbation band, in percent
// deviation from its base value (e.g. LowPct: -20, HighPct: +20).
type ParameterRange struct {
	Parameter Parameter
	LowPct    float64
	HighPct   float64
}

// Request bundles one tornado-analysis call's inputs: the fixed battery/
// dispatch configuration plus the economics assumptions each parameter
// perturbs around.
type Request struct {
	PV      []float64
	Load    []float64
	DtHours float64

	Battery dispatch.BatterySpec
	Policy  dispatch.Policy
	Prices  dispatch.PriceConfig

	PVCapacityKWp float64
	Econ          economics.Params

	Parameters []ParameterRange
}

func (r Request) validate() error {
	if len(r.Load) == 0 {
		return invalidInput("load series must have length >= 1")
	}
	if len(r.Parameters) == 0 {
		return invalidInput("at least one parameter range is required")
	}
	for _, p := range r.Parameters {
		if _, ok := parameterLabel[p.Parameter]; !ok {
			return invalidInput("unknown sensitivity parameter %q", p.Parameter)
		}
	}
	return nil
}

// Point is one evaluated (parameter, deviation) combination.
type Point struct {
	Parameter      Parameter
	ParameterLabel string
	DeviationPct   float64
	ParameterValue float64
	NPV            float64
	NPVDelta       float64
	NPVDeltaPct    float64
	PaybackYears   float64
}

// ParameterResult is one parameter's low/base/high tornado bar.
type ParameterResult struct {
	Parameter      Parameter
	ParameterLabel string
	BaseValue      float64

	LowValue        float64
	LowNPV          float64
	LowNPVDeltaPct  float64
	HighValue       float64
	HighNPV         float64
	HighNPVDeltaPct float64

	NPVSwing    float64
	NPVSwingPct float64
}

// Result is the full tornado-analysis output.
type Result struct {
	BaseNPV           float64
	BasePaybackYears  float64
	BaseAnnualSavings float64
	BaseCapex         float64

	Parameters []ParameterResult
	AllPoints  []Point

	MostSensitiveParameter  string
	LeastSensitiveParameter string
	BreakevenScenarios      []string
}
