package sizing

import (
	"context"
	"fmt"
	"sort"

	"pvbess/internal/dispatch"
	"pvbess/internal/economics"
	"pvbess/internal/timeutil"

	"golang.org/x/sync/errgroup"
)

var defaultDurations = []float64{1, 2, 4}

// Run evaluates the grid-search sizing procedure: derive a power search
// range per duration class from load statistics, evaluate dispatch+economics
// at every (power, energy) grid point in parallel, build the NPV-vs-cycles
// Pareto frontier over the full grid, collapse each duration down to its
// best-NPV power as the representative variant, and select a recommended
// variant per req.StrategyChoice.
func Run(ctx context.Context, req Request) (*Result, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	durations := req.Durations
	if len(durations) == 0 {
		durations = defaultDurations
	}
	steps := req.PowerSteps
	if steps <= 0 {
		steps = 5
	}

	minPower, maxPower := req.MinPowerKW, req.MaxPowerKW
	if maxPower <= 0 {
		minPower, maxPower = derivePowerRange(req.Load, req.PV)
	}
	if maxPower <= minPower {
		return &Result{RecommendedIndex: -1, Warnings: []string{
			"sizing: power search range is empty after deriving bounds from load/PV statistics",
		}}, nil
	}

	type point struct {
		powerKW       float64
		energyKWh     float64
		durationHours float64
		duration      DurationClass
	}
	var points []point
	for _, d := range durations {
		for i := 0; i < steps; i++ {
			frac := float64(i) / float64(steps-1)
			if steps == 1 {
				frac = 0
			}
			p := minPower + frac*(maxPower-minPower)
			if p <= 0 {
				continue
			}
			points = append(points, point{
				powerKW:       p,
				energyKWh:     p * d,
				durationHours: d,
				duration:      classifyDuration(d),
			})
		}
	}
	if len(points) == 0 {
		return &Result{RecommendedIndex: -1, Warnings: []string{
			"sizing: grid search produced zero candidate points",
		}}, nil
	}

	variants := make([]VariantResult, len(points))
	warnings := make([]string, len(points))

	g, gctx := errgroup.WithContext(ctx)
	for idx := range points {
		idx := idx
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			pt := points[idx]
			vr, warn, err := evaluateVariant(req, pt.powerKW, pt.energyKWh, pt.durationHours, pt.duration)
			if err != nil {
				return fmt.Errorf("sizing: variant power=%g energy=%g: %w", pt.powerKW, pt.energyKWh, err)
			}
			variants[idx] = vr
			warnings[idx] = warn
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var allWarnings []string
	for _, w := range warnings {
		if w != "" {
			allWarnings = append(allWarnings, w)
		}
	}

	frontierPoints := make([]ParetoPoint, len(variants))
	for i, v := range variants {
		frontierPoints[i] = ParetoPoint{
			PowerKW:            v.PowerKW,
			EnergyKWh:          v.EnergyKWh,
			NPV:                v.NPV,
			AnnualCycles:       v.Dispatch.Degradation.EFC,
			AnnualDischargeMWh: v.Dispatch.Degradation.ThroughputMWh,
			PaybackYears:       v.PaybackYears,
		}
	}
	frontier := buildParetoFrontier(frontierPoints)

	representatives := collapseToDurationBest(variants)
	sort.SliceStable(representatives, func(i, j int) bool {
		return representatives[i].DurationHours < representatives[j].DurationHours
	})

	repFrontier := make([]ParetoPoint, 0, len(representatives))
	for _, v := range representatives {
		for _, p := range frontier {
			if p.PowerKW == v.PowerKW && p.EnergyKWh == v.EnergyKWh {
				repFrontier = append(repFrontier, p)
				break
			}
		}
	}

	recommended := selectRecommended(representatives, repFrontier, req.StrategyChoice, req.MinCycles, req.MaxCycles)

	return &Result{
		Variants:         representatives,
		RecommendedIndex: recommended,
		ParetoFrontier:   frontier,
		Warnings:         allWarnings,
	}, nil
}

// collapseToDurationBest picks, for each distinct duration (hours) present
// in variants, the grid point with the highest NPV: the one representative
// variant per duration that a size(...) call returns.
func collapseToDurationBest(variants []VariantResult) []VariantResult {
	bestByDuration := make(map[float64]VariantResult, len(variants))
	for _, v := range variants {
		cur, ok := bestByDuration[v.DurationHours]
		if !ok || v.NPV > cur.NPV {
			bestByDuration[v.DurationHours] = v
		}
	}
	out := make([]VariantResult, 0, len(bestByDuration))
	for _, v := range bestByDuration {
		out = append(out, v)
	}
	return out
}

func evaluateVariant(req Request, powerKW, energyKWh, durationHours float64, duration DurationClass) (VariantResult, string, error) {
	battery := dispatch.BatterySpec{
		PowerKW:    powerKW,
		EnergyKWh:  energyKWh,
		SOCMin:     req.SOCMin,
		SOCMax:     req.SOCMax,
		SOCInitial: (req.SOCMin + req.SOCMax) / 2,
		Efficiency: req.RoundtripEfficiency,
	}

	dreq := dispatch.Request{
		PV:      req.PV,
		Load:    req.Load,
		DtHours: req.DtHours,
		Battery: battery,
		Prices:  req.Prices,
		Policy:  req.Policy,
		Budget:  req.Budget,
	}
	dres, err := dispatch.Run(dreq)
	if err != nil {
		return VariantResult{}, "", err
	}

	capex := powerKW*req.Econ.CapexPerKW + energyKWh*req.Econ.CapexPerKWh
	variant := economics.Variant{
		CapacityKWp:          req.PVCapacityKWp,
		SelfConsumedKWh:      dres.TotalDirectPV,
		ExportedKWh:          dres.TotalGridExport,
		BatteryDischargedKWh: dres.TotalDischarge,
		HasBattery:           true,
		BatteryEnergyKWh:     energyKWh,
		BatteryPowerKW:       powerKW,
	}
	eparams := economics.Params{
		CapexPerKWp:   0, // PV is already installed/sunk; sizing evaluates the battery's incremental economics only
		CapexPerKWh:   req.Econ.CapexPerKWh,
		CapexPerKW:    req.Econ.CapexPerKW,
		OpexPerKWp:     0,
		BatteryOpexPct: req.Econ.OpexPctPerYear,
		DiscountRate:   req.Econ.DiscountRate,
		AnalysisYears:  req.Econ.AnalysisYears,
		IRRMode:        economics.Real,
		ImportPricePerKWh: req.Prices.ImportPricePerKWh,
		ExportEnabled:     false,
	}

	eres, err := economics.Evaluate(variant, eparams)
	if err != nil {
		return VariantResult{}, "", err
	}

	var irr *float64
	if eres.IRR.Status == economics.IRRConverged {
		r := eres.IRR.Rate
		irr = &r
	}

	var warn string
	if dres.Degradation.Status == dispatch.BudgetExceeded {
		warn = fmt.Sprintf("power=%g energy=%g exceeds the configured degradation budget", powerKW, energyKWh)
	}

	sc := score(eres.NPV, capex, dres.Degradation.Status)

	return VariantResult{
		ID:            newID(),
		Duration:      duration,
		DurationHours: durationHours,
		PowerKW:       powerKW,
		EnergyKWh:     energyKWh,
		CapexTotal:    capex,
		AnnualOpex:    eres.Cashflows[0].Opex,
		AnnualSavings: eres.AnnualSavings,
		NPV:           eres.NPV,
		PaybackYears:  eres.PaybackYears,
		IRR:           irr,
		Dispatch:      dres,
		Score:         sc,
	}, warn, nil
}

// derivePowerRange derives [min, max] kW search bounds from the net-load
// statistics: P10 of max(load-pv,0) as the floor, P95 as the ceiling, per
// sizing_runner.py's percentile-based power bracketing.
func derivePowerRange(load, pv []float64) (float64, float64) {
	net := make([]float64, len(load))
	for i, l := range load {
		v := l
		if i < len(pv) {
			v -= pv[i]
		}
		if v < 0 {
			v = 0
		}
		net[i] = v
	}
	lo := timeutil.Percentile(net, 10)
	hi := timeutil.Percentile(net, 95)
	if hi <= lo {
		hi = lo + 1
	}
	return lo, hi
}
