package dispatch

// runPVSurplus implements the self-consumption policy: apply PV directly
// to load first, then greedily charge from surplus or discharge to cover a
// deficit, whichever applies, each step bounded by power, SOC
// headroom/availability, and the surplus/deficit itself.
func runPVSurplus(req Request, der Derived) *Result {
	n := len(req.Load)
	dt := req.DtHours
	s := newSeries(n, false)
	s.SOC[0] = req.Battery.InitialSOCEnergyKWh()

	soc := s.SOC[0]
	etaC, etaD := der.EtaCharge, der.EtaDischarge

	for t := 0; t < n; t++ {
		pv := req.PV[t]
		load := req.Load[t]

		direct := minF(pv, load)
		s.DirectPV[t] = direct

		surplus := pv - direct
		deficit := load - direct

		if surplus > 0 {
			headroom := der.SOCMaxEnergyKWh - soc
			chargeKW := minF(surplus, maxChargePowerKW(headroom, etaC, dt, req.Battery.PowerKW))
			s.Charge[t] = chargeKW
			s.ChargeFromPV[t] = chargeKW
			s.Curtailment[t] = surplus - chargeKW
			applyCharge(&soc, chargeKW, etaC, dt)
		} else if deficit > 0 {
			available := soc - der.SOCMinEnergyKWh
			dischargeKW := minF(deficit, maxDischargePowerKW(available, etaD, dt, req.Battery.PowerKW))
			s.DischargeTotal[t] = dischargeKW
			s.GridImport[t] = deficit - dischargeKW
			applyDischarge(&soc, dischargeKW, etaD, dt)
		}

		s.SOC[t+1] = soc
	}

	res := &Result{Policy: "PV_SURPLUS", N: n, DtHours: dt}
	finalizeCommon(res, s, req.PV, req.Load, dt, req.Prices)
	res.Series = seriesOrNil(req.ReturnSeries, s)
	res.Degradation = computeDegradation(s, der, dt, req.Budget, nil)
	return res
}

func seriesOrNil(want bool, s Series) *Series {
	if !want {
		return nil
	}
	cp := s
	return &cp
}
