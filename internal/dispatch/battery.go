package dispatch

import "math"

// BatterySpec is the immutable description of a battery used by one
// dispatch run. Round-trip efficiency is decomposed symmetrically into
// charge and discharge efficiencies, eta_c = eta_d = sqrt(eta), matching
// the teacher's internal/model.BatteryParams shape but generalized from a
// single round-trip field to explicit SOC-fraction bounds.
type BatterySpec struct {
	PowerKW     float64
	EnergyKWh   float64
	SOCMin      float64 // fraction in [0,1]
	SOCMax      float64 // fraction in [0,1], SOCMin < SOCMax
	SOCInitial  float64 // fraction in [SOCMin, SOCMax]
	Efficiency  float64 // round-trip eta in (0,1]
}

// Derived holds the quantities derived from a BatterySpec once, up front,
// so the per-step loop never recomputes them.
type Derived struct {
	UsableCapacityKWh float64
	SOCMinEnergyKWh   float64
	SOCMaxEnergyKWh   float64
	EtaCharge         float64
	EtaDischarge      float64
}

// Validate checks the battery invariants: non-negative power and energy,
// SOCMin < SOCMax within [0,1], SOCInitial within [SOCMin,SOCMax], and a
// round-trip efficiency in (0,1].
func (b BatterySpec) Validate() error {
	if b.PowerKW < 0 {
		return invalidInput("battery power_kW must be >= 0, got %g", b.PowerKW)
	}
	if b.EnergyKWh < 0 {
		return invalidInput("battery energy_kWh must be >= 0, got %g", b.EnergyKWh)
	}
	if b.SOCMin < 0 || b.SOCMax > 1 || b.SOCMin >= b.SOCMax {
		return invalidInput("battery socMin/socMax invalid: socMin=%g socMax=%g", b.SOCMin, b.SOCMax)
	}
	if b.SOCInitial < b.SOCMin || b.SOCInitial > b.SOCMax {
		return invalidInput("battery socInitial %g outside [socMin=%g, socMax=%g]", b.SOCInitial, b.SOCMin, b.SOCMax)
	}
	if b.Efficiency <= 0 || b.Efficiency > 1 {
		return invalidInput("battery round-trip efficiency must be in (0,1], got %g", b.Efficiency)
	}
	return nil
}

// Derive computes the derived quantities used throughout the dispatch loop.
func (b BatterySpec) Derive() Derived {
	return Derived{
		UsableCapacityKWh: b.EnergyKWh * (b.SOCMax - b.SOCMin),
		SOCMinEnergyKWh:   b.EnergyKWh * b.SOCMin,
		SOCMaxEnergyKWh:   b.EnergyKWh * b.SOCMax,
		EtaCharge:         math.Sqrt(b.Efficiency),
		EtaDischarge:      math.Sqrt(b.Efficiency),
	}
}

// InitialSOCEnergyKWh returns soc[0] = energy_kWh * socInitial.
func (b BatterySpec) InitialSOCEnergyKWh() float64 {
	return b.EnergyKWh * b.SOCInitial
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
