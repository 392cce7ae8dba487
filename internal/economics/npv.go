package economics

import "math"

// Evaluate is economics(variant, econParams) -> EconomicsResult.
func Evaluate(v Variant, p Params) (*Result, error) {
	if err := v.validate(); err != nil {
		return nil, err
	}
	if err := p.validate(); err != nil {
		return nil, err
	}

	batteryCapex := 0.0
	if v.HasBattery {
		batteryCapex = v.BatteryEnergyKWh*p.CapexPerKWh + v.BatteryPowerKW*p.CapexPerKW
	}
	investment := v.CapacityKWp*p.CapexPerKWp + batteryCapex

	lines := make([]CashflowLine, 0, p.AnalysisYears)
	cashflows := make([]float64, p.AnalysisYears+1)
	cashflows[0] = -investment

	var sumEnergyDiscounted, sumOpexRealDiscounted float64

	for year := 1; year <= p.AnalysisYears; year++ {
		pvFactor := math.Pow(1-p.PVDegradationRate, float64(year))

		batteryFactor := 1.0
		replacement := 0.0
		if v.HasBattery && p.BatteryLifetimeYears > 0 {
			ageInLife := year % p.BatteryLifetimeYears
			if ageInLife == 0 {
				ageInLife = p.BatteryLifetimeYears
			}
			batteryFactor = math.Pow(1-p.BatteryDegradationRate, float64(ageInLife))
			if year == p.BatteryLifetimeYears && p.BatteryLifetimeYears < p.AnalysisYears {
				replacement = batteryCapex * p.replacementFactor()
			}
		}

		inflationFactor := 1.0
		if p.IRRMode == Nominal {
			inflationFactor = math.Pow(1+p.InflationRate, float64(year))
		}
		if replacement > 0 && p.IRRMode == Nominal {
			replacement *= inflationFactor
		}

		importPriceYear := p.ImportPricePerKWh * inflationFactor
		feedInYear := p.FeedInPerKWh * inflationFactor

		selfConsumedYear := v.SelfConsumedKWh * pvFactor
		batteryDischargedYear := v.BatteryDischargedKWh * pvFactor * batteryFactor
		exportedYear := 0.0
		var exportRevenue float64
		if p.ExportEnabled {
			exportedYear = v.ExportedKWh * pvFactor
			exportRevenue = exportedYear * feedInYear
		}

		revenue := selfConsumedYear*importPriceYear + batteryDischargedYear*importPriceYear + exportRevenue

		opex := (v.CapacityKWp*p.OpexPerKWp + batteryCapex*p.BatteryOpexPct) * inflationFactor

		netCF := revenue - opex - replacement
		discountFactor := math.Pow(1+p.DiscountRate, float64(year))
		discountedCF := netCF / discountFactor

		cashflows[year] = netCF

		energyDelivered := selfConsumedYear + batteryDischargedYear + exportedYear
		sumEnergyDiscounted += energyDelivered / discountFactor

		opexReal := v.CapacityKWp*p.OpexPerKWp + batteryCapex*p.BatteryOpexPct
		if p.IRRMode == Nominal {
			// LCOE is always computed in real terms; undo the nominal
			// inflation applied to opex above for this sum.
			opexReal = opex / math.Pow(1+p.InflationRate, float64(year))
		} else {
			opexReal = opex
		}
		sumOpexRealDiscounted += opexReal / discountFactor

		lines = append(lines, CashflowLine{
			Year:               year,
			Revenue:            revenue,
			Opex:               opex,
			Replacement:        replacement,
			NetCashFlow:        netCF,
			DiscountedCF:       discountedCF,
			EnergyDeliveredKWh: energyDelivered,
		})
	}

	npv := -investment
	for _, l := range lines {
		npv += l.DiscountedCF
	}

	irr := SolveIRR(cashflows)

	lcoe := 0.0
	if sumEnergyDiscounted > 0 {
		lcoe = (investment + sumOpexRealDiscounted) / sumEnergyDiscounted
	}

	payback := math.Inf(1)
	if len(lines) > 0 && lines[0].NetCashFlow > 0 {
		payback = investment / lines[0].NetCashFlow
	}

	res := &Result{
		Investment:    investment,
		AnnualSavings: 0,
		NPV:           npv,
		IRR:           irr,
		LCOE:          lcoe,
		PaybackYears:  payback,
		Cashflows:     lines,
	}
	if len(lines) > 0 {
		res.AnnualSavings = lines[0].NetCashFlow
	}
	return res, nil
}
