package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.False(t, cfg.Execution.RunConstructionChecker)
	assert.True(t, cfg.Execution.RunAlternatingChecker)
	assert.True(t, cfg.Execution.RunSimulationChecker)
	assert.Equal(t, "proportional", cfg.Application.AlternatingScheme)
	assert.Equal(t, 1e-8, cfg.Functionality.TraceThreshold)
	assert.Equal(t, 1e-8, cfg.Simulation.FidelityThreshold)
	assert.Equal(t, 16, cfg.Simulation.MaxSims)
	assert.Equal(t, StateComputational, cfg.Simulation.StateType)
	require.NoError(t, cfg.Validate())
}

func TestLoadMergesOntoDefaults(t *testing.T) {
	src := `execution:
  runConstructionChecker: true
  timeout: 30s
application:
  alternatingScheme: lookahead
simulation:
  maxSims: 4
  seed: 42
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Execution.RunConstructionChecker)
	// untouched fields keep their defaults
	assert.True(t, cfg.Execution.RunAlternatingChecker)
	assert.Equal(t, 30*time.Second, cfg.Execution.Timeout.Std())
	assert.Equal(t, "lookahead", cfg.Application.AlternatingScheme)
	assert.Equal(t, "proportional", cfg.Application.ConstructionScheme)
	assert.Equal(t, 4, cfg.Simulation.MaxSims)
	assert.Equal(t, uint64(42), cfg.Simulation.Seed)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadBadDuration(t *testing.T) {
	src := "execution:\n  timeout: fortnight\n"
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	_, err := Load(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"unknown scheme":             func(c *Config) { c.Application.AlternatingScheme = "psychic" },
		"lookahead for simulation":   func(c *Config) { c.Application.SimulationScheme = "lookahead" },
		"lookahead for construction": func(c *Config) { c.Application.ConstructionScheme = "lookahead" },
		"negative trace threshold":   func(c *Config) { c.Functionality.TraceThreshold = -1 },
		"negative fidelity":          func(c *Config) { c.Simulation.FidelityThreshold = -1 },
		"negative tolerance":         func(c *Config) { c.Execution.NumericalTolerance = -1 },
		"negative sims":              func(c *Config) { c.Simulation.MaxSims = -1 },
		"unknown state type":         func(c *Config) { c.Simulation.StateType = "entangled" },
		"negative timeout":           func(c *Config) { c.Execution.Timeout = Duration(-time.Second) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
