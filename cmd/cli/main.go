package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"pvbess/internal/config"
	"pvbess/internal/dispatch"
	"pvbess/internal/economics"
	"pvbess/internal/montecarlo"
	"pvbess/internal/sensitivity"
	"pvbess/internal/seriesio"
	"pvbess/internal/sizing"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "dispatch":
		cmdDispatch(os.Args[2:])
	case "size":
		cmdSize(os.Args[2:])
	case "montecarlo":
		cmdMonteCarlo(os.Args[2:])
	case "sensitivity":
		cmdSensitivity(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli dispatch --data series.csv --config config.yaml [--out results/series.csv]")
	fmt.Println("  cli size --data series.csv --config config.yaml")
	fmt.Println("  cli montecarlo --data series.csv --config config.yaml [--n 10000] [--seed 42]")
	fmt.Println("  cli sensitivity --data series.csv --config config.yaml")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - series.csv has header timestamp,pv_kw,load_kw (RFC3339 timestamps)")
	fmt.Println("  - dispatch --out writes the per-step flow series as CSV")
}

func cmdDispatch(args []string) {
	fs := flag.NewFlagSet("dispatch", flag.ExitOnError)
	dataPath := fs.String("data", "", "Path to PV/load CSV")
	cfgPath := fs.String("config", "", "Path to YAML config")
	outPath := fs.String("out", "", "Optional path to write per-step series CSV")
	_ = fs.Parse(args)

	series, cfg := mustLoadSeriesAndConfig(*dataPath, *cfgPath)

	policy, err := cfg.ToPolicy()
	if err != nil {
		panic(err)
	}

	req := dispatch.Request{
		PV:           series.PV,
		Load:         series.Load,
		DtHours:      series.DtHours,
		Battery:      cfg.ToBatterySpec(),
		Prices:       cfg.ToPriceConfig(),
		Policy:       policy,
		ReturnSeries: *outPath != "",
	}
	res, err := dispatch.Run(req)
	if err != nil {
		panic(err)
	}

	fmt.Printf("Policy=%s steps=%d\n", res.Policy, res.N)
	fmt.Printf("Self-consumption: %.1f%%  Grid independence: %.1f%%\n", res.SelfConsumptionPct, res.GridIndependencePct)
	fmt.Printf("Grid import=%.1f kWh  Grid export=%.1f kWh  Curtailment=%.1f kWh\n",
		res.TotalGridImport, res.TotalGridExport, res.TotalCurtailment)
	fmt.Printf("Annual savings=$%.2f  Degradation status=%s (%.1f%% utilization)\n",
		res.AnnualSavings, res.Degradation.Status, res.Degradation.UtilizationPct)

	if *outPath != "" {
		if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
			panic(err)
		}
		if err := dispatch.WriteSeriesCSV(*outPath, res.Series); err != nil {
			panic(err)
		}
		fmt.Printf("Wrote per-step series to %s\n", *outPath)
	}
}

func cmdSize(args []string) {
	fs := flag.NewFlagSet("size", flag.ExitOnError)
	dataPath := fs.String("data", "", "Path to PV/load CSV")
	cfgPath := fs.String("config", "", "Path to YAML config")
	_ = fs.Parse(args)

	series, cfg := mustLoadSeriesAndConfig(*dataPath, *cfgPath)

	req := sizing.Request{
		PV:                  series.PV,
		Load:                series.Load,
		DtHours:             series.DtHours,
		Policy:              mustPolicy(cfg),
		Prices:              cfg.ToPriceConfig(),
		RoundtripEfficiency: cfg.Battery.Efficiency,
		SOCMin:              cfg.Battery.SOCMin,
		SOCMax:              cfg.Battery.SOCMax,
		PVCapacityKWp:       cfg.PVCapacityKWp,
		Econ: sizing.EconomicParams{
			CapexPerKWh:    cfg.Economics.CapexPerKWh,
			CapexPerKW:     cfg.Economics.CapexPerKW,
			OpexPctPerYear: cfg.Economics.BatteryOpexPct,
			DiscountRate:   cfg.Economics.DiscountRate,
			AnalysisYears:  cfg.Economics.AnalysisYears,
		},
		Durations:      cfg.Sizing.Durations,
		MinPowerKW:     cfg.Sizing.MinPowerKW,
		MaxPowerKW:     cfg.Sizing.MaxPowerKW,
		PowerSteps:     cfg.Sizing.PowerSteps,
		StrategyChoice: cfg.ToSizingStrategy(),
		MinCycles:      cfg.Sizing.MinCycles,
		MaxCycles:      cfg.Sizing.MaxCycles,
	}

	res, err := sizing.Run(context.Background(), req)
	if err != nil {
		panic(err)
	}

	fmt.Printf("%-4s %-8s %-8s %-10s %-10s %-10s %-8s %-6s\n",
		"#", "power", "energy", "duration", "NPV", "payback", "cycles", "score")
	for i, v := range res.Variants {
		marker := "  "
		if i == res.RecommendedIndex {
			marker = "->"
		}
		fmt.Printf("%s%-4d %-8.1f %-8.1f %-10s %-10.0f %-10.1f %-8.1f %-6.1f\n",
			marker, i, v.PowerKW, v.EnergyKWh, v.Duration, v.NPV, v.PaybackYears, v.Dispatch.Degradation.EFC, v.Score)
	}
	for _, w := range res.Warnings {
		fmt.Printf("warning: %s\n", w)
	}
}

func cmdMonteCarlo(args []string) {
	fs := flag.NewFlagSet("montecarlo", flag.ExitOnError)
	dataPath := fs.String("data", "", "Path to PV/load CSV")
	cfgPath := fs.String("config", "", "Path to YAML config")
	n := fs.Int("n", 0, "Number of simulations (0 = use config, default 10000)")
	seed := fs.Int64("seed", 0, "Random seed (0 = use config's seed, or 1 if unset)")
	_ = fs.Parse(args)

	series, cfg := mustLoadSeriesAndConfig(*dataPath, *cfgPath)

	policy, err := cfg.ToPolicy()
	if err != nil {
		panic(err)
	}
	dres, err := dispatch.Run(dispatch.Request{
		PV:      series.PV,
		Load:    series.Load,
		DtHours: series.DtHours,
		Battery: cfg.ToBatterySpec(),
		Prices:  cfg.ToPriceConfig(),
		Policy:  policy,
	})
	if err != nil {
		panic(err)
	}

	variant := economics.Variant{
		CapacityKWp:          cfg.PVCapacityKWp,
		SelfConsumedKWh:      dres.TotalDirectPV,
		ExportedKWh:          dres.TotalGridExport,
		BatteryDischargedKWh: dres.TotalDischarge,
		HasBattery:           true,
		BatteryEnergyKWh:     cfg.Battery.EnergyKWh,
		BatteryPowerKW:       cfg.Battery.PowerKW,
	}
	params, correlations := cfg.ToMonteCarloDistributions()

	nSims := cfg.MonteCarlo.NSimulations
	if *n > 0 {
		nSims = *n
	}
	if nSims == 0 {
		nSims = 10000
	}

	var seedPtr *int64
	switch {
	case *seed != 0:
		seedPtr = seed
	case cfg.MonteCarlo.Seed != nil:
		seedPtr = cfg.MonteCarlo.Seed
	}

	req := montecarlo.Request{
		NSimulations:  nSims,
		Parameters:    params,
		Correlations:  correlations,
		BaseVariant:   variant,
		BaseParams:    cfg.ToEconomicsParams(),
		Seed:          seedPtr,
		HistogramBins: cfg.MonteCarlo.HistogramBins,
	}

	res, err := montecarlo.Run(context.Background(), req)
	if err != nil {
		panic(err)
	}

	fmt.Printf("Ran %d simulations over %v\n", res.NSimulations, res.ParametersAnalyzed)
	fmt.Printf("NPV mean=%.0f std=%.0f  P10=%.0f P50=%.0f P90=%.0f\n",
		res.NPVMean, res.NPVStd, res.NPVPercentiles.P10, res.NPVPercentiles.P50, res.NPVPercentiles.P90)
	fmt.Printf("P(NPV>0)=%.1f%%  VaR95=%.0f  VaR99=%.0f  CVaR95=%.0f\n",
		res.Risk.ProbabilityPositive*100, res.Risk.VaR95, res.Risk.VaR99, res.Risk.CVaR95)
	for _, line := range res.Insights {
		fmt.Printf("  - %s\n", line)
	}
}

func cmdSensitivity(args []string) {
	fs := flag.NewFlagSet("sensitivity", flag.ExitOnError)
	dataPath := fs.String("data", "", "Path to PV/load CSV")
	cfgPath := fs.String("config", "", "Path to YAML config")
	_ = fs.Parse(args)

	series, cfg := mustLoadSeriesAndConfig(*dataPath, *cfgPath)

	req := sensitivity.Request{
		PV:            series.PV,
		Load:          series.Load,
		DtHours:       series.DtHours,
		Battery:       cfg.ToBatterySpec(),
		Policy:        mustPolicy(cfg),
		Prices:        cfg.ToPriceConfig(),
		PVCapacityKWp: cfg.PVCapacityKWp,
		Econ:          cfg.ToEconomicsParams(),
		Parameters: []sensitivity.ParameterRange{
			{Parameter: sensitivity.EnergyPrice, LowPct: -20, HighPct: 20},
			{Parameter: sensitivity.CapexPerKWh, LowPct: -20, HighPct: 20},
			{Parameter: sensitivity.CapexPerKW, LowPct: -20, HighPct: 20},
			{Parameter: sensitivity.DiscountRate, LowPct: -20, HighPct: 20},
			{Parameter: sensitivity.RoundtripEfficiency, LowPct: -10, HighPct: 10},
			{Parameter: sensitivity.OpexPct, LowPct: -20, HighPct: 20},
		},
	}

	res, err := sensitivity.Run(req)
	if err != nil {
		panic(err)
	}

	fmt.Printf("Base NPV=%.0f payback=%.1fy\n\n", res.BaseNPV, res.BasePaybackYears)
	fmt.Printf("%-24s %-12s %-12s %-10s\n", "parameter", "low NPV", "high NPV", "swing")
	for _, p := range res.Parameters {
		fmt.Printf("%-24s %-12.0f %-12.0f %-10.0f\n", p.ParameterLabel, p.LowNPV, p.HighNPV, p.NPVSwing)
	}
	fmt.Printf("\nMost sensitive: %s   Least sensitive: %s\n", res.MostSensitiveParameter, res.LeastSensitiveParameter)
	for _, b := range res.BreakevenScenarios {
		fmt.Printf("breakeven: %s\n", b)
	}
}

func mustLoadSeriesAndConfig(dataPath, cfgPath string) (*seriesio.Series, *config.Config) {
	if dataPath == "" || cfgPath == "" {
		fmt.Println("--data and --config are required")
		os.Exit(2)
	}
	series, err := seriesio.LoadCSV(dataPath)
	if err != nil {
		panic(err)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		panic(err)
	}
	return series, cfg
}

func mustPolicy(cfg *config.Config) dispatch.Policy {
	policy, err := cfg.ToPolicy()
	if err != nil {
		panic(err)
	}
	return policy
}
