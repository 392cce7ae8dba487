// Package timeutil provides interval-bookkeeping helpers (validating a step
// duration, mapping step index to elapsed hours, grouping steps into
// calendar days), used by the seasonality package, and the percentile
// helpers shared by the sizing, montecarlo, and seasonality packages.
package timeutil

import (
	"fmt"
	"time"
)

// Grid describes a fixed-step time series: N steps of duration Step hours
// starting at Start (if known; Start may be the zero time when only
// relative offsets matter).
type Grid struct {
	Start time.Time
	Step  float64 // hours; either 0.25 or 1.0
	N     int
}

// ValidStep reports whether a step duration in hours is one of the two
// supported intervals.
func ValidStep(stepHours float64) bool {
	return stepHours == 0.25 || stepHours == 1.0
}

// NewGrid constructs a Grid, validating the step duration and step count.
func NewGrid(start time.Time, stepHours float64, n int) (Grid, error) {
	if !ValidStep(stepHours) {
		return Grid{}, fmt.Errorf("timeutil: unsupported step duration %.4fh, want 0.25 or 1.0", stepHours)
	}
	if n < 1 {
		return Grid{}, fmt.Errorf("timeutil: step count must be >= 1, got %d", n)
	}
	return Grid{Start: start, Step: stepHours, N: n}, nil
}

// StepsPerDay returns how many steps make up one 24h day on this grid.
func (g Grid) StepsPerDay() int {
	return int(24.0 / g.Step)
}

// HoursAt returns the elapsed hours at the start of step t.
func (g Grid) HoursAt(t int) float64 {
	return float64(t) * g.Step
}

// TimeAt returns the wall-clock time of step t, given a known Start.
func (g Grid) TimeAt(t int) time.Time {
	return g.Start.Add(time.Duration(g.HoursAt(t) * float64(time.Hour)))
}

// DayIndex returns which calendar day (0-based, by elapsed time, not wall
// clock) step t falls into.
func (g Grid) DayIndex(t int) int {
	perDay := g.StepsPerDay()
	if perDay <= 0 {
		return 0
	}
	return t / perDay
}

// NumDays returns how many (possibly partial) days this grid spans.
func (g Grid) NumDays() int {
	perDay := g.StepsPerDay()
	if perDay <= 0 {
		return 0
	}
	return (g.N + perDay - 1) / perDay
}

// IntervalMinutesToHours converts the external wire representation
// (15 or 60 minutes) to the internal step-duration-in-hours convention.
func IntervalMinutesToHours(minutes int) (float64, error) {
	switch minutes {
	case 15:
		return 0.25, nil
	case 60:
		return 1.0, nil
	default:
		return 0, fmt.Errorf("timeutil: interval must be 15 or 60 minutes, got %d", minutes)
	}
}
