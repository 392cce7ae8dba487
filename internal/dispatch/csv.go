package dispatch

import (
	"encoding/csv"
	"fmt"
	"os"
)

// WriteSeriesCSV writes the per-step series of a dispatch result to path,
// one row per timestep. Adapted from the teacher's
// internal/backtest/csv.go (WriteLedgerCSV), same stdlib encoding/csv
// idiom, generalized to the richer per-step flow record this engine
// produces.
func WriteSeriesCSV(path string, s *Series) error {
	if s == nil {
		return fmt.Errorf("dispatch: no series to write (ReturnSeries was false)")
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"t", "direct_pv_kw", "charge_kw", "discharge_total_kw",
		"discharge_peak_kw", "discharge_pv_kw", "charge_from_pv_kw",
		"charge_from_grid_kw", "grid_import_kw", "grid_export_kw",
		"curtailment_kw", "soc_kwh",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	n := len(s.DirectPV)
	get := func(v []float64, i int) float64 {
		if i < len(v) {
			return v[i]
		}
		return 0
	}
	for t := 0; t < n; t++ {
		row := []string{
			fmt.Sprintf("%d", t),
			fmt.Sprintf("%.6f", s.DirectPV[t]),
			fmt.Sprintf("%.6f", s.Charge[t]),
			fmt.Sprintf("%.6f", s.DischargeTotal[t]),
			fmt.Sprintf("%.6f", get(s.DischargePeak, t)),
			fmt.Sprintf("%.6f", get(s.DischargePV, t)),
			fmt.Sprintf("%.6f", s.ChargeFromPV[t]),
			fmt.Sprintf("%.6f", s.ChargeFromGrid[t]),
			fmt.Sprintf("%.6f", s.GridImport[t]),
			fmt.Sprintf("%.6f", s.GridExport[t]),
			fmt.Sprintf("%.6f", s.Curtailment[t]),
			fmt.Sprintf("%.6f", s.SOC[t]),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
