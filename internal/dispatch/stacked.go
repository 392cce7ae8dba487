package dispatch

// runStacked runs the dual-service policy: peak shaving (priority 1) may
// draw from the full usable-capacity band; PV shifting (priority 2) may
// only draw from energy above a reserve floor at socMin+reserveFraction.
func runStacked(req Request, der Derived, peakLimitKW, reserveFraction float64) *Result {
	n := len(req.Load)
	dt := req.DtHours
	s := newSeries(n, true)
	s.SOC[0] = req.Battery.InitialSOCEnergyKWh()

	soc := s.SOC[0]
	etaC, etaD := der.EtaCharge, der.EtaDischarge
	reserveFloorKWh := req.Battery.EnergyKWh * (req.Battery.SOCMin + reserveFraction)

	var originalPeak, newPeak float64
	var peakEvents int
	var peakMaxDischarge float64

	for t := 0; t < n; t++ {
		pv := req.PV[t]
		load := req.Load[t]
		s.DirectPV[t] = minF(pv, load)

		netLoad := load - pv
		originalPeak = maxF(originalPeak, maxF(netLoad, 0))

		switch {
		case netLoad > peakLimitKW:
			required := netLoad - peakLimitKW
			available := soc - der.SOCMinEnergyKWh
			dischargeKW := minF(required, maxDischargePowerKW(available, etaD, dt, req.Battery.PowerKW))
			s.DischargePeak[t] = dischargeKW
			s.DischargeTotal[t] = dischargeKW
			s.GridImport[t] = netLoad - dischargeKW
			applyDischarge(&soc, dischargeKW, etaD, dt)
			if dischargeKW > 0 {
				peakEvents++
				peakMaxDischarge = maxF(peakMaxDischarge, dischargeKW)
			}
		case pv > load:
			surplus := pv - load
			headroom := der.SOCMaxEnergyKWh - soc
			chargeKW := minF(surplus, maxChargePowerKW(headroom, etaC, dt, req.Battery.PowerKW))
			s.Charge[t] = chargeKW
			s.ChargeFromPV[t] = chargeKW
			s.Curtailment[t] = surplus - chargeKW
			applyCharge(&soc, chargeKW, etaC, dt)
		case load > pv:
			deficit := load - pv
			available := soc - reserveFloorKWh
			dischargeKW := minF(deficit, maxDischargePowerKW(available, etaD, dt, req.Battery.PowerKW))
			s.DischargePV[t] = dischargeKW
			s.DischargeTotal[t] = dischargeKW
			s.GridImport[t] = deficit - dischargeKW
			applyDischarge(&soc, dischargeKW, etaD, dt)
		}

		newPeak = maxF(newPeak, s.GridImport[t])
		s.SOC[t+1] = soc
	}

	res := &Result{Policy: "STACKED", N: n, DtHours: dt}
	finalizeCommon(res, s, req.PV, req.Load, dt, req.Prices)
	res.Series = seriesOrNil(req.ReturnSeries, s)

	split := &ServiceSplit{PeakEventsCount: peakEvents, PeakMaxDischargeKW: peakMaxDischarge}
	res.Degradation = computeDegradation(s, der, dt, req.Budget, split)
	res.HasPeakMetrics = true
	res.OriginalPeakKW = originalPeak
	res.NewPeakKW = newPeak
	res.PeakReductionKW = originalPeak - newPeak
	return res
}
