package dispatch

// runLoadOnly runs the same skeleton as peak shaving with pv treated as
// identically zero. The value driver is demand-charge avoidance, so
// annualSavings adds the demand-charge term explicitly to the (typically
// negative, due to round-trip losses) energy-cost delta.
func runLoadOnly(req Request, der Derived, peakLimitKW float64) *Result {
	n := len(req.Load)
	dt := req.DtHours
	zeroPV := make([]float64, n)

	s := newSeries(n, false)
	s.SOC[0] = req.Battery.InitialSOCEnergyKWh()

	soc := s.SOC[0]
	etaC, etaD := der.EtaCharge, der.EtaDischarge

	var originalPeak, newPeak float64

	for t := 0; t < n; t++ {
		load := req.Load[t]
		netLoad := load

		originalPeak = maxF(originalPeak, maxF(netLoad, 0))

		switch {
		case netLoad > peakLimitKW:
			required := netLoad - peakLimitKW
			available := soc - der.SOCMinEnergyKWh
			dischargeKW := minF(required, maxDischargePowerKW(available, etaD, dt, req.Battery.PowerKW))
			s.DischargeTotal[t] = dischargeKW
			s.GridImport[t] = netLoad - dischargeKW
			applyDischarge(&soc, dischargeKW, etaD, dt)
		case netLoad > 0:
			headroomPeak := peakLimitKW - netLoad
			headroomSOC := der.SOCMaxEnergyKWh - soc
			chargeKW := minF(headroomPeak, maxChargePowerKW(headroomSOC, etaC, dt, req.Battery.PowerKW))
			s.Charge[t] = chargeKW
			s.ChargeFromGrid[t] = chargeKW
			s.GridImport[t] = netLoad + chargeKW
			applyCharge(&soc, chargeKW, etaC, dt)
		}

		newPeak = maxF(newPeak, s.GridImport[t])
		s.SOC[t+1] = soc
	}

	res := &Result{Policy: "LOAD_ONLY", N: n, DtHours: dt}
	finalizeCommon(res, s, zeroPV, req.Load, dt, req.Prices)
	res.Series = seriesOrNil(req.ReturnSeries, s)
	res.Degradation = computeDegradation(s, der, dt, req.Budget, nil)
	res.HasPeakMetrics = true
	res.OriginalPeakKW = originalPeak
	res.NewPeakKW = newPeak
	res.PeakReductionKW = originalPeak - newPeak

	demandSavings := res.PeakReductionKW * req.Prices.DemandChargePerKW
	res.AnnualSavings += demandSavings
	return res
}
