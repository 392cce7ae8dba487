package config

import (
	"os"
	"path/filepath"
	"testing"

	"pvbess/internal/dispatch"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
pv_capacity_kwp: 100

battery:
  name: test-bess
  power_kw: 50
  energy_kwh: 100
  soc_min: 0.1
  soc_max: 0.9
  efficiency: 0.92

policy:
  name: PEAK_SHAVING
  peak_limit_kw: 80

prices:
  import_price_per_kwh: 0.30
  export_price_per_kwh: 0.05

economics:
  capex_per_kwp: 900
  capex_per_kwh: 400
  capex_per_kw: 300
  discount_rate: 0.06
  analysis_years: 15
  irr_mode: real

sizing:
  durations_hours: [1, 2, 4]
  min_power_kw: 20
  max_power_kw: 100
  power_steps: 5
  strategy: BALANCED
  min_cycles: 200
  max_cycles: 400

monte_carlo:
  n_simulations: 2000
  preset: conservative
`

func writeTemp(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoad_ValidConfigParsesAndDefaultsSOCInitial(t *testing.T) {
	path := writeTemp(t, sampleYAML)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.InDelta(t, 0.5, cfg.Battery.SOCInitial, 1e-9)

	spec := cfg.ToBatterySpec()
	assert.NoError(t, spec.Validate())
	assert.Equal(t, 50.0, spec.PowerKW)

	policy, err := cfg.ToPolicy()
	require.NoError(t, err)
	assert.IsType(t, dispatch.PeakShaving{}, policy)

	assert.Equal(t, "BALANCED", cfg.Sizing.Strategy)
}

func TestLoad_MissingPolicyNameIsError(t *testing.T) {
	path := writeTemp(t, `
battery:
  power_kw: 10
  energy_kwh: 20
  soc_min: 0.1
  soc_max: 0.9
  efficiency: 0.9
`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_UnknownPolicyNameIsError(t *testing.T) {
	path := writeTemp(t, `
battery:
  power_kw: 10
  energy_kwh: 20
  soc_min: 0.1
  soc_max: 0.9
  efficiency: 0.9
policy:
  name: NOT_A_POLICY
`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestMergeBattery_OverrideWinsOverBase(t *testing.T) {
	base := BatteryConfig{Name: "base", PowerKW: 10, EnergyKWh: 20, Efficiency: 0.9}
	override := BatteryConfig{PowerKW: 15}

	merged := MergeBattery(base, override)
	assert.Equal(t, "base", merged.Name)
	assert.Equal(t, 15.0, merged.PowerKW)
	assert.Equal(t, 20.0, merged.EnergyKWh)
}

func TestToEconomicsParams_CarriesImportPriceFromPricesBlock(t *testing.T) {
	path := writeTemp(t, sampleYAML)
	cfg, err := Load(path)
	require.NoError(t, err)

	params := cfg.ToEconomicsParams()
	assert.Equal(t, cfg.Prices.ImportPricePerKWh, params.ImportPricePerKWh)
}

func TestToMonteCarloDistributions_ConservativePresetSelected(t *testing.T) {
	path := writeTemp(t, sampleYAML)
	cfg, err := Load(path)
	require.NoError(t, err)

	params, _ := cfg.ToMonteCarloDistributions()
	assert.NotEmpty(t, params)
}
