package main

import (
	"flag"
	"fmt"
	"time"

	"pvbess/internal/config"
	"pvbess/internal/dispatch"
	"pvbess/internal/seriesio"
)

// Demo:
// - Load a PV/load CSV series
// - Build a battery + policy, from flag defaults or an optional config file
// - Run one dispatch and print the first few steps, to show how the
//   pieces fit together end to end.
func main() {
	dataPath := flag.String("data", "sample_series.csv", "Path to PV/load CSV (timestamp,pv_kw,load_kw)")
	cfgPath := flag.String("config", "", "Path to YAML config (optional)")
	n := flag.Int("n", 12, "Number of steps to print")
	flag.Parse()

	series, err := seriesio.LoadCSV(*dataPath)
	if err != nil {
		panic(err)
	}

	// Defaults (overridden via --config).
	battery := dispatch.BatterySpec{
		PowerKW:    50,
		EnergyKWh:  100,
		SOCMin:     0.10,
		SOCMax:     0.90,
		SOCInitial: 0.50,
		Efficiency: 0.95,
	}
	var policy dispatch.Policy = dispatch.PVSurplus{}
	prices := dispatch.PriceConfig{ImportPricePerKWh: 0.30, ExportPricePerKWh: 0.05}

	if *cfgPath != "" {
		cfg, err := config.Load(*cfgPath)
		if err != nil {
			panic(err)
		}
		battery = cfg.ToBatterySpec()
		prices = cfg.ToPriceConfig()
		policy, err = cfg.ToPolicy()
		if err != nil {
			panic(err)
		}
	}

	res, err := dispatch.Run(dispatch.Request{
		PV:           series.PV,
		Load:         series.Load,
		DtHours:      series.DtHours,
		Battery:      battery,
		Prices:       prices,
		Policy:       policy,
		ReturnSeries: true,
	})
	if err != nil {
		panic(err)
	}

	fmt.Printf("Loaded %d steps starting %s\n", res.N, series.Start.Format("2006-01-02 15:04"))
	fmt.Printf("Policy=%s\n\n", res.Policy)

	steps := *n
	if steps > res.N {
		steps = res.N
	}
	fmt.Printf("%-17s %7s %7s %7s %7s %8s\n", "time", "pv", "load", "charge", "disch.", "soc_kwh")
	for t := 0; t < steps; t++ {
		ts := series.Start.Add(durationFromHours(float64(t) * series.DtHours))
		fmt.Printf("%-17s %7.2f %7.2f %7.2f %7.2f %8.2f\n",
			ts.Format("2006-01-02 15:04"),
			series.PV[t], series.Load[t],
			res.Series.Charge[t], res.Series.DischargeTotal[t], res.Series.SOC[t+1],
		)
	}

	fmt.Printf("\nSelf-consumption=%.1f%%  Annual savings=$%.2f  Final SOC=%.2f kWh\n",
		res.SelfConsumptionPct, res.AnnualSavings, res.FinalSOCKWh)
}

func durationFromHours(hours float64) time.Duration {
	return time.Duration(hours * float64(time.Hour))
}
