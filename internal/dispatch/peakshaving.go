package dispatch

// runPeakShaving discharges to cap net grid import (load - pv) at
// peakLimit, opportunistically charging from the grid in the headroom
// below the limit when net load is positive but under the limit, and
// curtailing any PV surplus when net load is negative (zero-export
// assumption).
func runPeakShaving(req Request, der Derived, peakLimitKW float64) *Result {
	n := len(req.Load)
	dt := req.DtHours
	s := newSeries(n, false)
	s.SOC[0] = req.Battery.InitialSOCEnergyKWh()

	soc := s.SOC[0]
	etaC, etaD := der.EtaCharge, der.EtaDischarge

	var originalPeak, newPeak float64

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
			s.DischargeTotal[t] = dischargeKW
			imp := netLoad - dischargeKW
			s.GridImport[t] = imp
			applyDischarge(&soc, dischargeKW, etaD, dt)
		case netLoad > 0:
			headroomPeak := peakLimitKW - netLoad
			headroomSOC := der.SOCMaxEnergyKWh - soc
			chargeKW := minF(headroomPeak, maxChargePowerKW(headroomSOC, etaC, dt, req.Battery.PowerKW))
			s.Charge[t] = chargeKW
			s.ChargeFromGrid[t] = chargeKW
			s.GridImport[t] = netLoad + chargeKW
			applyCharge(&soc, chargeKW, etaC, dt)
		default:
			s.Curtailment[t] = -netLoad
		}

		newPeak = maxF(newPeak, s.GridImport[t])
		s.SOC[t+1] = soc
	}

	res := &Result{Policy: "PEAK_SHAVING", N: n, DtHours: dt}
	finalizeCommon(res, s, req.PV, req.Load, dt, req.Prices)
	res.Series = seriesOrNil(req.ReturnSeries, s)
	res.Degradation = computeDegradation(s, der, dt, req.Budget, nil)
	res.HasPeakMetrics = true
	res.OriginalPeakKW = originalPeak
	res.NewPeakKW = newPeak
	res.PeakReductionKW = originalPeak - newPeak
	return res
}
