package dispatch

// Policy is a sum type in place of a dataclass-style bundle with mutually
// exclusive fields: exactly one of PVSurplus, PeakShaving, Stacked,
// LoadOnly. Each concrete type validates its own parameters in validate(),
// which Run calls on entry (the types are plain structs with no
// constructor), so the engine never needs runtime mode-dispatch guards
// beyond a single type switch.
type Policy interface {
	policyName() string
	validate() error
}

// PVSurplus is the self-consumption policy: charge from PV surplus, then
// discharge to cover any remaining deficit. Carries no parameters.
type PVSurplus struct{}

func (PVSurplus) policyName() string { return "PV_SURPLUS" }
func (PVSurplus) validate() error    { return nil }

// PeakShaving discharges to cap grid import at PeakLimitKW.
type PeakShaving struct {
	PeakLimitKW float64
}

func (p PeakShaving) policyName() string { return "PEAK_SHAVING" }
func (p PeakShaving) validate() error {
	if p.PeakLimitKW <= 0 {
		return invalidInput("PEAK_SHAVING requires peakLimit_kW > 0, got %g", p.PeakLimitKW)
	}
	return nil
}

// Stacked combines peak shaving (priority 1, may use the full usable-energy
// band) with PV shifting (priority 2, may only use energy above
// SOCMin+ReserveFraction). ReserveFraction is a fraction of total energy
// capacity, constrained to [0, socMax-socMin] by the engine at validation
// time (the engine knows socMax/socMin; this type only checks it is
// non-negative here).
type Stacked struct {
	PeakLimitKW     float64
	ReserveFraction float64
}

func (s Stacked) policyName() string { return "STACKED" }
func (s Stacked) validate() error {
	if s.PeakLimitKW <= 0 {
		return invalidInput("STACKED requires peakLimit_kW > 0, got %g", s.PeakLimitKW)
	}
	if s.ReserveFraction < 0 {
		return invalidInput("STACKED requires reserveFraction >= 0, got %g", s.ReserveFraction)
	}
	return nil
}

// LoadOnly is grid-charged peak shaving: pv is treated as zero regardless
// of what the caller supplies.
type LoadOnly struct {
	PeakLimitKW float64
}

func (l LoadOnly) policyName() string { return "LOAD_ONLY" }
func (l LoadOnly) validate() error {
	if l.PeakLimitKW <= 0 {
		return invalidInput("LOAD_ONLY requires peakLimit_kW > 0, got %g", l.PeakLimitKW)
	}
	return nil
}
