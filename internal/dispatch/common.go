package dispatch

// maxChargePowerKW returns the largest charging power (kW) that can be
// applied this step without exceeding the power cap or the SOC headroom.
// Energy actually stored in the battery is etaC * chargeKW * dt.
func maxChargePowerKW(headroomKWh, etaC, dt, powerCapKW float64) float64 {
	if etaC <= 0 || dt <= 0 {
		return 0
	}
	fromSOC := headroomKWh / (etaC * dt)
	return maxF(0, minF(powerCapKW, fromSOC))
}

// maxDischargePowerKW returns the largest discharge power (kW) deliverable
// this step without exceeding the power cap or available above-floor
// energy. Energy removed from the battery is dischargeKW * dt / etaD.
func maxDischargePowerKW(availableKWh, etaD, dt, powerCapKW float64) float64 {
	if dt <= 0 {
		return 0
	}
	fromSOC := availableKWh * etaD / dt
	return maxF(0, minF(powerCapKW, fromSOC))
}

// applyCharge updates soc for a charge of chargeKW this step.
func applyCharge(soc *float64, chargeKW, etaC, dt float64) {
	*soc += etaC * dt * chargeKW
}

// applyDischarge updates soc for a discharge of dischargeKW this step.
func applyDischarge(soc *float64, dischargeKW, etaD, dt float64) {
	*soc -= dt * dischargeKW / etaD
}

func sumSeries(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x
	}
	return s
}

// finalizeCommon fills in the energetics totals and KPIs shared by every
// policy, given the fully populated per-step series and the raw pv/load
// inputs (needed for totals and the baseline-cost line).
func finalizeCommon(res *Result, s Series, pv, load []float64, dt float64, prices PriceConfig) {
	res.TotalPV = sumSeries(pv) * dt
	res.TotalLoad = sumSeries(load) * dt
	res.TotalDirectPV = sumSeries(s.DirectPV) * dt
	res.TotalCharge = sumSeries(s.Charge) * dt
	res.TotalDischarge = sumSeries(s.DischargeTotal) * dt
	res.TotalGridImport = sumSeries(s.GridImport) * dt
	res.TotalGridExport = sumSeries(s.GridExport) * dt
	res.TotalCurtailment = sumSeries(s.Curtailment) * dt

	res.SelfConsumptionKWh = res.TotalDirectPV + res.TotalDischarge
	if res.TotalPV > 0 {
		res.SelfConsumptionPct = res.SelfConsumptionKWh / res.TotalPV * 100
	}
	if res.TotalLoad > 0 {
		res.GridIndependencePct = (res.TotalLoad - res.TotalGridImport) / res.TotalLoad * 100
	}

	res.FinalSOCKWh = s.SOC[len(s.SOC)-1]

	var baseline float64
	for i := range load {
		net := load[i]
		if i < len(pv) {
			net -= pv[i]
		}
		if net > 0 {
			baseline += net * dt * prices.ImportPricePerKWh
		}
	}
	res.BaselineEnergyCost = baseline
	res.ProjectEnergyCost = res.TotalGridImport*prices.ImportPricePerKWh - res.TotalGridExport*prices.ExportPricePerKWh
	res.AnnualSavings = res.BaselineEnergyCost - res.ProjectEnergyCost

	res.AuditEngineVersion = EngineVersion
	if dt == 0.25 {
		res.AuditIntervalMinutes = 15
	} else {
		res.AuditIntervalMinutes = 60
	}
}
