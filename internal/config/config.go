// Package config loads the YAML-driven configuration bundle a CLI driver
// uses to build one dispatch/sizing/Monte Carlo/sensitivity request:
// battery spec, policy, prices, economics assumptions, sizing search
// ranges, and Monte Carlo defaults. Grounded on the teacher's
// internal/config/config.go load/validate/merge-override idiom, generalized
// from a single battery+strategy bundle to the full set of SPEC_FULL.md
// request shapes.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"pvbess/internal/dispatch"
	"pvbess/internal/economics"
	"pvbess/internal/montecarlo"
	"pvbess/internal/sizing"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// Optional: load battery parameters from a separate YAML (e.g.
	// examples/batteries/*.yaml). If both BatteryFile and Battery are
	// provided, Battery overrides BatteryFile.
	BatteryFile string         `yaml:"battery_file"`
	Battery     BatteryConfig  `yaml:"battery"`
	Policy      PolicyConfig   `yaml:"policy"`
	Prices      PricesConfig   `yaml:"prices"`
	Economics   EconomicsConfig `yaml:"economics"`
	Sizing      SizingConfig    `yaml:"sizing"`
	MonteCarlo  MonteCarloConfig `yaml:"monte_carlo"`

	PVCapacityKWp float64 `yaml:"pv_capacity_kwp"`
}

type BatteryConfig struct {
	Name       string  `yaml:"name"`
	PowerKW    float64 `yaml:"power_kw"`
	EnergyKWh  float64 `yaml:"energy_kwh"`
	SOCMin     float64 `yaml:"soc_min"`
	SOCMax     float64 `yaml:"soc_max"`
	SOCInitial float64 `yaml:"soc_initial"`
	Efficiency float64 `yaml:"efficiency"`
}

type PolicyConfig struct {
	Name            string  `yaml:"name"` // PV_SURPLUS | PEAK_SHAVING | STACKED | LOAD_ONLY
	PeakLimitKW     float64 `yaml:"peak_limit_kw"`
	ReserveFraction float64 `yaml:"reserve_fraction"`
}

type PricesConfig struct {
	ImportPricePerKWh float64 `yaml:"import_price_per_kwh"`
	ExportPricePerKWh float64 `yaml:"export_price_per_kwh"`
	DemandChargePerKW float64 `yaml:"demand_charge_per_kw"`
}

type EconomicsConfig struct {
	CapexPerKWp float64 `yaml:"capex_per_kwp"`
	CapexPerKWh float64 `yaml:"capex_per_kwh"`
	CapexPerKW  float64 `yaml:"capex_per_kw"`

	OpexPerKWp     float64 `yaml:"opex_per_kwp"`
	BatteryOpexPct float64 `yaml:"battery_opex_pct"`

	DiscountRate  float64 `yaml:"discount_rate"`
	AnalysisYears int     `yaml:"analysis_years"`

	PVDegradationRate      float64 `yaml:"pv_degradation_rate"`
	BatteryDegradationRate float64 `yaml:"battery_degradation_rate"`
	BatteryLifetimeYears   int     `yaml:"battery_lifetime_years"`
	ReplacementCostFactor  float64 `yaml:"replacement_cost_factor"`

	InflationRate float64 `yaml:"inflation_rate"`
	IRRMode       string  `yaml:"irr_mode"` // real | nominal

	ExportEnabled bool    `yaml:"export_enabled"`
	FeedInPerKWh  float64 `yaml:"feed_in_per_kwh"`
}

type SizingConfig struct {
	Durations      []float64 `yaml:"durations_hours"`
	MinPowerKW     float64   `yaml:"min_power_kw"`
	MaxPowerKW     float64   `yaml:"max_power_kw"`
	PowerSteps     int       `yaml:"power_steps"`
	Strategy       string    `yaml:"strategy"` // NPV_MAX | CYCLES_MAX | BALANCED
	MinCycles      float64   `yaml:"min_cycles"`
	MaxCycles      float64   `yaml:"max_cycles"`
}

type MonteCarloConfig struct {
	NSimulations int    `yaml:"n_simulations"`
	Preset       string `yaml:"preset"` // default | conservative | optimistic
	Seed         *int64 `yaml:"seed"`
	HistogramBins int   `yaml:"histogram_bins"`
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	// If soc_initial is not provided, default it to the midpoint of
	// [soc_min, soc_max], matching the midpoint sizing uses for its
	// generated variants.
	if c.Battery.SOCInitial == 0 {
		c.Battery.SOCInitial = (c.Battery.SOCMin + c.Battery.SOCMax) / 2
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it. Useful
// for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	if c.BatteryFile != "" {
		batteryPath := c.BatteryFile
		if !filepath.IsAbs(batteryPath) {
			cand := filepath.Join(filepath.Dir(path), batteryPath)
			if _, err := os.Stat(cand); err == nil {
				batteryPath = cand
			}
		}
		loaded, err := loadBatteryFile(batteryPath)
		if err != nil {
			return nil, err
		}
		c.Battery = MergeBattery(loaded, c.Battery)
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Policy.Name == "" {
		return errors.New("policy.name is required")
	}
	if _, err := c.ToPolicy(); err != nil {
		return fmt.Errorf("policy config invalid: %w", err)
	}
	if err := c.ToBatterySpec().Validate(); err != nil {
		return fmt.Errorf("battery config invalid: %w", err)
	}
	return nil
}

func (b BatteryConfig) toSpec() dispatch.BatterySpec {
	return dispatch.BatterySpec{
		PowerKW:    b.PowerKW,
		EnergyKWh:  b.EnergyKWh,
		SOCMin:     b.SOCMin,
		SOCMax:     b.SOCMax,
		SOCInitial: b.SOCInitial,
		Efficiency: b.Efficiency,
	}
}

// ToBatterySpec builds the dispatch.BatterySpec this config describes.
func (c *Config) ToBatterySpec() dispatch.BatterySpec {
	return c.Battery.toSpec()
}

// ToPolicy builds the dispatch.Policy this config describes, returning an
// error for an unknown or missing policy name.
func (c *Config) ToPolicy() (dispatch.Policy, error) {
	switch c.Policy.Name {
	case "PV_SURPLUS":
		return dispatch.PVSurplus{}, nil
	case "PEAK_SHAVING":
		return dispatch.PeakShaving{PeakLimitKW: c.Policy.PeakLimitKW}, nil
	case "STACKED":
		return dispatch.Stacked{PeakLimitKW: c.Policy.PeakLimitKW, ReserveFraction: c.Policy.ReserveFraction}, nil
	case "LOAD_ONLY":
		return dispatch.LoadOnly{PeakLimitKW: c.Policy.PeakLimitKW}, nil
	default:
		return nil, fmt.Errorf("unknown policy name %q", c.Policy.Name)
	}
}

// ToPriceConfig builds the dispatch.PriceConfig this config describes.
func (c *Config) ToPriceConfig() dispatch.PriceConfig {
	return dispatch.PriceConfig{
		ImportPricePerKWh: c.Prices.ImportPricePerKWh,
		ExportPricePerKWh: c.Prices.ExportPricePerKWh,
		DemandChargePerKW: c.Prices.DemandChargePerKW,
	}
}

// ToEconomicsParams builds the economics.Params this config describes.
func (c *Config) ToEconomicsParams() economics.Params {
	mode := economics.Real
	if c.Economics.IRRMode == "nominal" {
		mode = economics.Nominal
	}
	return economics.Params{
		CapexPerKWp:            c.Economics.CapexPerKWp,
		CapexPerKWh:            c.Economics.CapexPerKWh,
		CapexPerKW:             c.Economics.CapexPerKW,
		OpexPerKWp:             c.Economics.OpexPerKWp,
		BatteryOpexPct:         c.Economics.BatteryOpexPct,
		DiscountRate:           c.Economics.DiscountRate,
		AnalysisYears:          c.Economics.AnalysisYears,
		PVDegradationRate:      c.Economics.PVDegradationRate,
		BatteryDegradationRate: c.Economics.BatteryDegradationRate,
		BatteryLifetimeYears:   c.Economics.BatteryLifetimeYears,
		ReplacementCostFactor:  c.Economics.ReplacementCostFactor,
		InflationRate:          c.Economics.InflationRate,
		IRRMode:                mode,
		ImportPricePerKWh:      c.Prices.ImportPricePerKWh,
		ExportEnabled:          c.Economics.ExportEnabled,
		FeedInPerKWh:           c.Economics.FeedInPerKWh,
	}
}

// ToSizingStrategy parses the configured sizing strategy name, defaulting
// to NPV_MAX when unset.
func (c *Config) ToSizingStrategy() sizing.Strategy {
	switch c.Sizing.Strategy {
	case "CYCLES_MAX":
		return sizing.StrategyCyclesMax
	case "BALANCED":
		return sizing.StrategyBalanced
	default:
		return sizing.StrategyNPVMax
	}
}

// ToMonteCarloDistributions resolves the configured preset name to its
// parameter/correlation bundle, defaulting to the moderate preset.
func (c *Config) ToMonteCarloDistributions() ([]montecarlo.ParameterDistribution, []montecarlo.CorrelationPair) {
	switch c.MonteCarlo.Preset {
	case "conservative":
		return montecarlo.ConservativeDistributions()
	case "optimistic":
		return montecarlo.OptimisticDistributions()
	default:
		return montecarlo.DefaultDistributions()
	}
}

type batteryFileWrapper struct {
	Battery BatteryConfig `yaml:"battery"`
}

func loadBatteryFile(path string) (BatteryConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return BatteryConfig{}, err
	}
	var w batteryFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return BatteryConfig{}, err
	}
	return w.Battery, nil
}

// MergeBattery overlays non-zero fields from override onto base. Used when
// loading a battery file and then applying inline overrides from the main
// config document.
func MergeBattery(base, override BatteryConfig) BatteryConfig {
	out := base
	if override.Name != "" {
		out.Name = override.Name
	}
	if override.PowerKW != 0 {
		out.PowerKW = override.PowerKW
	}
	if override.EnergyKWh != 0 {
		out.EnergyKWh = override.EnergyKWh
	}
	if override.SOCMin != 0 {
		out.SOCMin = override.SOCMin
	}
	if override.SOCMax != 0 {
		out.SOCMax = override.SOCMax
	}
	if override.SOCInitial != 0 {
		out.SOCInitial = override.SOCInitial
	}
	if override.Efficiency != 0 {
		out.Efficiency = override.Efficiency
	}
	return out
}
