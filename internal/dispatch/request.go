package dispatch

// PriceConfig is the non-negative price/tariff bundle for one dispatch run.
type PriceConfig struct {
	ImportPricePerKWh float64
	ExportPricePerKWh float64
	DemandChargePerKW float64 // per kW of peak, annualized; 0 if unused
}

func (p PriceConfig) validate() error {
	if p.ImportPricePerKWh < 0 || p.ExportPricePerKWh < 0 || p.DemandChargePerKW < 0 {
		return invalidInput("prices must be non-negative")
	}
	return nil
}

// DegradationBudget optionally caps annual EFC and/or annual throughput.
// Either field may be zero to mean "no cap on that quantity".
type DegradationBudget struct {
	MaxEFCPerYear        float64
	MaxThroughputMWhYear float64
}

func (d *DegradationBudget) any() bool {
	return d != nil && (d.MaxEFCPerYear > 0 || d.MaxThroughputMWhYear > 0)
}

// Request bundles everything one dispatch(...) call needs.
type Request struct {
	PV              []float64 // kW, length N; ignored (treated as 0) for LoadOnly
	Load            []float64 // kW, length N
	DtHours         float64   // 0.25 or 1.0
	Battery         BatterySpec
	Prices          PriceConfig
	Policy          Policy
	Budget          *DegradationBudget
	ReturnSeries    bool
}

// EngineVersion is reported in the audit block of every result.
const EngineVersion = "pvbess-dispatch-1"

func (r Request) validate() error {
	n := len(r.Load)
	if n == 0 {
		return invalidInput("load series must have length >= 1")
	}
	if _, isLoadOnly := r.Policy.(LoadOnly); !isLoadOnly {
		if len(r.PV) != n {
			return invalidInput("pv and load series must share length N; pv=%d load=%d", len(r.PV), n)
		}
	} else if len(r.PV) != 0 && len(r.PV) != n {
		return invalidInput("pv series, if present, must match load length; pv=%d load=%d", len(r.PV), n)
	}
	if !validDt(r.DtHours) {
		return invalidInput("dt must be 0.25 or 1.0 hours, got %g", r.DtHours)
	}
	for i, v := range r.Load {
		if v < 0 {
			return invalidInput("load[%d] is negative: %g", i, v)
		}
	}
	for i, v := range r.PV {
		if v < 0 {
			return invalidInput("pv[%d] is negative: %g", i, v)
		}
	}
	if err := r.Battery.Validate(); err != nil {
		return err
	}
	if err := r.Prices.validate(); err != nil {
		return err
	}
	if r.Policy == nil {
		return invalidInput("policy is required")
	}
	if err := r.Policy.validate(); err != nil {
		return err
	}
	if s, ok := r.Policy.(Stacked); ok {
		band := r.Battery.SOCMax - r.Battery.SOCMin
		if s.ReserveFraction > band {
			return invalidInput("STACKED reserveFraction %g exceeds usable SOC band %g", s.ReserveFraction, band)
		}
	}
	return nil
}

func validDt(dt float64) bool {
	return dt == 0.25 || dt == 1.0
}
