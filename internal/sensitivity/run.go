package sensitivity

import (
	"fmt"
	"math"
	"sort"

	"pvbess/internal/dispatch"
	"pvbess/internal/economics"
)

// Run evaluates the tornado sensitivity analysis: for each parameter
// range, perturb that parameter to its low and high bound
// (re-running dispatch only when the perturbation would change dispatch's
// output), recompute NPV via internal/economics, and rank parameters by
// NPV swing.
func Run(req Request) (*Result, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	baseDres, err := runDispatch(req, req.Prices.ImportPricePerKWh, req.Battery.Efficiency)
	if err != nil {
		return nil, err
	}

	baseCapex := req.Battery.EnergyKWh*req.Econ.CapexPerKWh + req.Battery.PowerKW*req.Econ.CapexPerKW
	baseParams := buildParams(req, req.Econ.CapexPerKWh, req.Econ.CapexPerKW, req.Econ.DiscountRate, req.Econ.BatteryOpexPct, req.Prices.ImportPricePerKWh)
	baseEres, err := economics.Evaluate(buildVariant(req, baseDres), baseParams)
	if err != nil {
		return nil, err
	}
	baseNPV := baseEres.NPV

	var allPoints []Point
	var paramResults []ParameterResult
	var breakeven []string

	for _, pr := range req.Parameters {
		label := parameterLabel[pr.Parameter]

		low, err := evaluatePoint(req, pr.Parameter, pr.LowPct, baseNPV, baseDres)
		if err != nil {
			return nil, err
		}
		base, err := evaluatePoint(req, pr.Parameter, 0, baseNPV, baseDres)
		if err != nil {
			return nil, err
		}
		high, err := evaluatePoint(req, pr.Parameter, pr.HighPct, baseNPV, baseDres)
		if err != nil {
			return nil, err
		}
		allPoints = append(allPoints, low, base, high)

		swing := math.Abs(high.NPV - low.NPV)
		swingPct := 0.0
		if baseNPV != 0 {
			swingPct = swing / math.Abs(baseNPV) * 100
		}

		if low.NPV*high.NPV < 0 {
			breakeven = append(breakeven, fmt.Sprintf(
				"%s: NPV crosses zero between %+.0f%% and %+.0f%%", label, pr.LowPct, pr.HighPct))
		}

		paramResults = append(paramResults, ParameterResult{
			Parameter:       pr.Parameter,
			ParameterLabel:  label,
			BaseValue:       getBaseValue(pr.Parameter, req),
			LowValue:        low.ParameterValue,
			LowNPV:          low.NPV,
			LowNPVDeltaPct:  low.NPVDeltaPct,
			HighValue:       high.ParameterValue,
			HighNPV:         high.NPV,
			HighNPVDeltaPct: high.NPVDeltaPct,
			NPVSwing:        swing,
			NPVSwingPct:     swingPct,
		})
	}

	sort.SliceStable(paramResults, func(i, j int) bool {
		return paramResults[i].NPVSwing > paramResults[j].NPVSwing
	})

	mostSensitive, leastSensitive := "N/A", "N/A"
	if len(paramResults) > 0 {
		mostSensitive = paramResults[0].ParameterLabel
		leastSensitive = paramResults[len(paramResults)-1].ParameterLabel
	}

	return &Result{
		BaseNPV:                 baseNPV,
		BasePaybackYears:        baseEres.PaybackYears,
		BaseAnnualSavings:       baseEres.AnnualSavings,
		BaseCapex:               baseCapex,
		Parameters:              paramResults,
		AllPoints:               allPoints,
		MostSensitiveParameter:  mostSensitive,
		LeastSensitiveParameter: leastSensitive,
		BreakevenScenarios:      breakeven,
	}, nil
}

func getBaseValue(param Parameter, req Request) float64 {
	switch param {
	case EnergyPrice:
		return req.Prices.ImportPricePerKWh
	case CapexPerKWh:
		return req.Econ.CapexPerKWh
	case CapexPerKW:
		return req.Econ.CapexPerKW
	case DiscountRate:
		return req.Econ.DiscountRate * 100
	case RoundtripEfficiency:
		return req.Battery.Efficiency * 100
	case OpexPct:
		return req.Econ.BatteryOpexPct * 100
	default:
		return 0
	}
}

func evaluatePoint(req Request, param Parameter, deviationPct, baseNPV float64, baseDres *dispatch.Result) (Point, error) {
	baseValue := getBaseValue(param, req)
	paramValue := baseValue * (1 + deviationPct/100)

	energyPrice := req.Prices.ImportPricePerKWh
	efficiency := req.Battery.Efficiency
	capexPerKWh := req.Econ.CapexPerKWh
	capexPerKW := req.Econ.CapexPerKW
	discountRate := req.Econ.DiscountRate
	opexPct := req.Econ.BatteryOpexPct

	switch param {
	case EnergyPrice:
		energyPrice = paramValue
	case CapexPerKWh:
		capexPerKWh = paramValue
	case CapexPerKW:
		capexPerKW = paramValue
	case DiscountRate:
		discountRate = paramValue / 100
	case RoundtripEfficiency:
		efficiency = math.Min(paramValue/100, 0.99)
	case OpexPct:
		opexPct = paramValue / 100
	}

	dres := baseDres
	if dispatchAffecting[param] {
		var err error
		dres, err = runDispatch(req, energyPrice, efficiency)
		if err != nil {
			return Point{}, err
		}
	}

	params := buildParams(req, capexPerKWh, capexPerKW, discountRate, opexPct, energyPrice)
	eres, err := economics.Evaluate(buildVariant(req, dres), params)
	if err != nil {
		return Point{}, err
	}

	npvDelta := eres.NPV - baseNPV
	npvDeltaPct := 0.0
	if baseNPV != 0 {
		npvDeltaPct = npvDelta / math.Abs(baseNPV) * 100
	}

	return Point{
		Parameter:      param,
		ParameterLabel: parameterLabel[param],
		DeviationPct:   deviationPct,
		ParameterValue: paramValue,
		NPV:            eres.NPV,
		NPVDelta:       npvDelta,
		NPVDeltaPct:    npvDeltaPct,
		PaybackYears:   eres.PaybackYears,
	}, nil
}

func runDispatch(req Request, importPrice, efficiency float64) (*dispatch.Result, error) {
	battery := req.Battery
	battery.Efficiency = efficiency

	dreq := dispatch.Request{
		PV:      req.PV,
		Load:    req.Load,
		DtHours: req.DtHours,
		Battery: battery,
		Prices: dispatch.PriceConfig{
			ImportPricePerKWh: importPrice,
			ExportPricePerKWh: req.Prices.ExportPricePerKWh,
			DemandChargePerKW: req.Prices.DemandChargePerKW,
		},
		Policy: req.Policy,
	}
	return dispatch.Run(dreq)
}

func buildVariant(req Request, dres *dispatch.Result) economics.Variant {
	return economics.Variant{
		CapacityKWp:          req.PVCapacityKWp,
		SelfConsumedKWh:      dres.TotalDirectPV,
		ExportedKWh:          dres.TotalGridExport,
		BatteryDischargedKWh: dres.TotalDischarge,
		HasBattery:           true,
		BatteryEnergyKWh:     req.Battery.EnergyKWh,
		BatteryPowerKW:       req.Battery.PowerKW,
	}
}

func buildParams(req Request, capexPerKWh, capexPerKW, discountRate, opexPct, importPrice float64) economics.Params {
	p := req.Econ
	p.CapexPerKWh = capexPerKWh
	p.CapexPerKW = capexPerKW
	p.DiscountRate = discountRate
	p.BatteryOpexPct = opexPct
	p.ImportPricePerKWh = importPrice
	return p
}
