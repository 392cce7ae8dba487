package dispatch

// computeDegradation computes throughput/EFC from the completed series, an
// optional per-service split for STACKED, and a budget utilization check.
// Grounded on
// original_source/services/bess-dispatch/dispatch_engine.py's
// calculate_degradation_metrics[_stacked] and check_degradation_budget.
func computeDegradation(s Series, der Derived, dt float64, budget *DegradationBudget, split *ServiceSplit) DegradationMetrics {
	totalCharge := sumSeries(s.Charge) * dt
	totalDischarge := sumSeries(s.DischargeTotal) * dt

	m := DegradationMetrics{
		ThroughputMWh: (totalCharge + totalDischarge) / 1000.0,
		Status:        BudgetOK,
	}
	if der.UsableCapacityKWh > 0 {
		m.EFC = totalDischarge / der.UsableCapacityKWh
	}

	if split != nil {
		peakDischarge := sumSeries(s.DischargePeak) * dt
		pvDischarge := sumSeries(s.DischargePV) * dt
		chargeFromPV := sumSeries(s.ChargeFromPV) * dt
		chargeFromGrid := sumSeries(s.ChargeFromGrid) * dt

		var peakRatio, pvRatio float64
		if totalDischarge > 0 {
			peakRatio = peakDischarge / totalDischarge
			pvRatio = pvDischarge / totalDischarge
		}

		split.ChargeFromPVKWh = chargeFromPV
		split.ChargeFromGridKWh = chargeFromGrid
		if totalCharge > 0 {
			split.ChargeFromPVPct = chargeFromPV / totalCharge * 100
		}
		if der.UsableCapacityKWh > 0 {
			split.PeakEFC = peakDischarge / der.UsableCapacityKWh
			split.PVEFC = pvDischarge / der.UsableCapacityKWh
		}
		split.PeakThroughputMWh = (peakDischarge + totalCharge*peakRatio) / 1000.0
		split.PVThroughputMWh = (pvDischarge + totalCharge*pvRatio) / 1000.0
		m.Service = split
	}

	if budget.any() {
		var utilEFC, utilThroughput float64
		if budget.MaxEFCPerYear > 0 {
			utilEFC = m.EFC / budget.MaxEFCPerYear * 100
		}
		if budget.MaxThroughputMWhYear > 0 {
			utilThroughput = m.ThroughputMWh / budget.MaxThroughputMWhYear * 100
		}
		util := maxF(utilEFC, utilThroughput)
		m.UtilizationPct = util

		switch {
		case util > 100:
			m.Status = BudgetExceeded
			m.Warnings = append(m.Warnings, "degradation budget exceeded; results are informational, not contractual")
		case util > 90:
			m.Status = BudgetWarning
			m.Warnings = append(m.Warnings, "degradation budget utilization above 90%; approaching limit")
		case util > 80:
			m.Warnings = append(m.Warnings, "degradation budget utilization above 80%; informational only")
		}
	}

	return m
}
