// Package dispatch implements the BESS dispatch engine: four mutually
// exclusive operating policies (PV-surplus self-consumption, peak shaving,
// stacked dual-service, and load-only grid-charged peak shaving), each a
// strictly sequential per-step simulation because soc[t+1] depends on
// soc[t]. Grounded on the teacher's internal/backtest/engine.go (sequential
// loop shape) and internal/model/battery.go (SOC-bounded charge/discharge),
// generalized from wholesale-arbitrage dispatch to the four policies in
// original_source/services/bess-dispatch/dispatch_engine.py.
package dispatch

// Run is the package's single entry point, dispatch(req) -> DispatchResult.
// Preconditions are validated up front; any violation returns an *Error
// with Kind InvalidInput and no partial result.
func Run(req Request) (*Result, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	der := req.Battery.Derive()

	switch p := req.Policy.(type) {
	case PVSurplus:
		return runPVSurplus(req, der), nil
	case PeakShaving:
		return runPeakShaving(req, der, p.PeakLimitKW), nil
	case Stacked:
		return runStacked(req, der, p.PeakLimitKW, p.ReserveFraction), nil
	case LoadOnly:
		return runLoadOnly(req, der, p.PeakLimitKW), nil
	default:
		return nil, invalidInput("unsupported policy type %T", req.Policy)
	}
}
