// Package seriesio loads PV/load time series from a CSV file for the CLI
// drivers (cmd/cli, cmd/demo). The engine packages themselves never touch
// the filesystem; this is glue code analogous to the teacher's
// data.LoadGridStatusJSON, generalized from a single LMP column to a
// timestamp,pv_kw,load_kw layout.
package seriesio

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"
)

// Series is a loaded PV/load time series on a fixed-step grid.
type Series struct {
	PV      []float64
	Load    []float64
	Start   time.Time
	DtHours float64
}

// LoadCSV reads a CSV with header "timestamp,pv_kw,load_kw" (RFC3339
// timestamps) and infers the step duration from the first two rows: a gap
// of at most 0.375h is taken as 0.25h steps, anything longer as 1h steps.
func LoadCSV(path string) (*Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("seriesio: %s has no data rows", path)
	}

	header := rows[0]
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[h] = i
	}
	for _, want := range []string{"timestamp", "pv_kw", "load_kw"} {
		if _, ok := col[want]; !ok {
			return nil, fmt.Errorf("seriesio: %s missing required column %q", path, want)
		}
	}

	data := rows[1:]
	pv := make([]float64, len(data))
	load := make([]float64, len(data))
	timestamps := make([]time.Time, len(data))

	for i, row := range data {
		ts, err := time.Parse(time.RFC3339, row[col["timestamp"]])
		if err != nil {
			return nil, fmt.Errorf("seriesio: %s row %d: %w", path, i+1, err)
		}
		timestamps[i] = ts

		if pv[i], err = parseFloat(row[col["pv_kw"]]); err != nil {
			return nil, fmt.Errorf("seriesio: %s row %d pv_kw: %w", path, i+1, err)
		}
		if load[i], err = parseFloat(row[col["load_kw"]]); err != nil {
			return nil, fmt.Errorf("seriesio: %s row %d load_kw: %w", path, i+1, err)
		}
	}

	dt := 1.0
	if len(timestamps) >= 2 {
		gap := timestamps[1].Sub(timestamps[0]).Hours()
		if gap <= 0.25+0.125 {
			dt = 0.25
		} else {
			dt = 1.0
		}
	}

	return &Series{PV: pv, Load: load, Start: timestamps[0], DtHours: dt}, nil
}

func parseFloat(s string) (float64, error) {
	var v float64
	_, err := fmt.Sscanf(s, "%g", &v)
	return v, err
}
