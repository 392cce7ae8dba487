package montecarlo

func f(v float64) *float64 { return &v }

// DefaultDistributions returns the moderate-uncertainty bundle: production
// ±8%, electricity price ±12%, CAPEX ±8%, inflation ±1.5pp, matching
// industry-standard bankable assumptions (NREL/SolarGIS production,
// FfE/IMF price volatility).
func DefaultDistributions() ([]ParameterDistribution, []CorrelationPair) {
	params := []ParameterDistribution{
		{Name: "electricity_price", DistType: Normal, BaseValue: 450.0, StdDevPct: 12.0, ClipMin: f(250), ClipMax: f(750)},
		{Name: "production_factor", DistType: Normal, BaseValue: 1.0, StdDevPct: 8.0, ClipMin: f(0.75), ClipMax: f(1.25)},
		{Name: "degradation_rate", DistType: Triangular, BaseValue: 0.005, MinVal: f(0.003), MaxVal: f(0.007), ModeVal: f(0.005)},
		{Name: "investment_cost", DistType: Lognormal, BaseValue: 3500.0, StdDevPct: 8.0, ClipMin: f(2800), ClipMax: f(4500)},
		{Name: "inflation_rate", DistType: Normal, BaseValue: 0.025, StdDev: 0.015, ClipMin: f(0), ClipMax: f(0.08)},
		{Name: "discount_rate", DistType: Triangular, BaseValue: 0.07, MinVal: f(0.055), MaxVal: f(0.09), ModeVal: f(0.07)},
	}
	correlations := []CorrelationPair{
		{Param1: "electricity_price", Param2: "inflation_rate", Correlation: 0.5},
		{Param1: "investment_cost", Param2: "production_factor", Correlation: -0.15},
		{Param1: "production_factor", Param2: "degradation_rate", Correlation: -0.1},
	}
	return params, correlations
}

// ConservativeDistributions widens the uncertainty bands (the
// degradation_rate band keeps its width and moves up) and shifts the
// base values pessimistically (lower price, lower production, higher
// CAPEX) for a higher-risk bankable case.
func ConservativeDistributions() ([]ParameterDistribution, []CorrelationPair) {
	params := []ParameterDistribution{
		{Name: "electricity_price", DistType: Normal, BaseValue: 420.0, StdDevPct: 15.0, ClipMin: f(200), ClipMax: f(700)},
		{Name: "production_factor", DistType: Normal, BaseValue: 0.97, StdDevPct: 10.0, ClipMin: f(0.70), ClipMax: f(1.20)},
		{Name: "degradation_rate", DistType: Triangular, BaseValue: 0.006, MinVal: f(0.004), MaxVal: f(0.008), ModeVal: f(0.006)},
		{Name: "investment_cost", DistType: Lognormal, BaseValue: 3700.0, StdDevPct: 12.0, ClipMin: f(2800), ClipMax: f(5000)},
		{Name: "inflation_rate", DistType: Normal, BaseValue: 0.030, StdDev: 0.020, ClipMin: f(0), ClipMax: f(0.10)},
		{Name: "discount_rate", DistType: Triangular, BaseValue: 0.08, MinVal: f(0.06), MaxVal: f(0.10), ModeVal: f(0.08)},
	}
	correlations := []CorrelationPair{
		{Param1: "electricity_price", Param2: "inflation_rate", Correlation: 0.6},
		{Param1: "investment_cost", Param2: "production_factor", Correlation: -0.2},
		{Param1: "production_factor", Param2: "degradation_rate", Correlation: -0.15},
	}
	return params, correlations
}

// OptimisticDistributions narrows every uncertainty band and shifts the
// base values favorably for a signed-EPC, low-risk case.
func OptimisticDistributions() ([]ParameterDistribution, []CorrelationPair) {
	params := []ParameterDistribution{
		{Name: "electricity_price", DistType: Normal, BaseValue: 480.0, StdDevPct: 10.0, ClipMin: f(300), ClipMax: f(800)},
		{Name: "production_factor", DistType: Normal, BaseValue: 1.02, StdDevPct: 6.0, ClipMin: f(0.80), ClipMax: f(1.20)},
		{Name: "degradation_rate", DistType: Triangular, BaseValue: 0.004, MinVal: f(0.003), MaxVal: f(0.006), ModeVal: f(0.004)},
		{Name: "investment_cost", DistType: Lognormal, BaseValue: 3300.0, StdDevPct: 5.0, ClipMin: f(2800), ClipMax: f(4000)},
		{Name: "inflation_rate", DistType: Normal, BaseValue: 0.022, StdDev: 0.010, ClipMin: f(0), ClipMax: f(0.06)},
		{Name: "discount_rate", DistType: Triangular, BaseValue: 0.065, MinVal: f(0.05), MaxVal: f(0.08), ModeVal: f(0.065)},
	}
	correlations := []CorrelationPair{
		{Param1: "electricity_price", Param2: "inflation_rate", Correlation: 0.4},
		{Param1: "investment_cost", Param2: "production_factor", Correlation: -0.1},
		{Param1: "production_factor", Param2: "degradation_rate", Correlation: -0.05},
	}
	return params, correlations
}
