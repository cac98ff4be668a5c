// Package config holds the configuration for an equivalence check: which
// checkers to run, which application scheme they use, and the numerical
// thresholds of the classification.
package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"qcheck/circuit"
	"qcheck/dd"
)

// Duration parses from YAML in time.ParseDuration notation, e.g. "30s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return errors.Wrap(err, "config: parse timeout")
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config collects all settings of an equivalence check.
type Config struct {
	Execution     Execution     `yaml:"execution"`
	Application   Application   `yaml:"application"`
	Functionality Functionality `yaml:"functionality"`
	Simulation    Simulation    `yaml:"simulation"`
}

// Execution controls which checkers run and how long they may take.
type Execution struct {
	RunConstructionChecker bool `yaml:"runConstructionChecker"`
	RunAlternatingChecker  bool `yaml:"runAlternatingChecker"`
	RunSimulationChecker   bool `yaml:"runSimulationChecker"`

	// Timeout bounds the whole check. Zero means no limit.
	Timeout Duration `yaml:"timeout"`

	// NumericalTolerance is the edge weight tolerance of the decision
	// diagram package.
	NumericalTolerance float64 `yaml:"numericalTolerance"`
}

// Application selects the scheduling policy for folding operations into the
// canonical representation.
type Application struct {
	// ConstructionScheme and SimulationScheme name the scheme used by the
	// respective checkers. AlternatingScheme may additionally name the
	// lookahead scheme.
	ConstructionScheme string `yaml:"constructionScheme"`
	SimulationScheme   string `yaml:"simulationScheme"`
	AlternatingScheme  string `yaml:"alternatingScheme"`

	// ProfileLocation points at a YAML gate cost profile. Only consulted
	// by the gate cost scheme when no CostFunction is set.
	ProfileLocation string `yaml:"profileLocation"`

	// CostFunction, when non-nil, supplies gate costs programmatically.
	CostFunction func(op circuit.Operation) int `yaml:"-"`
}

// Functionality holds thresholds for the matrix-based checkers.
type Functionality struct {
	// TraceThreshold bounds the deviation of the composed operator from
	// the identity.
	TraceThreshold float64 `yaml:"traceThreshold"`
}

// Simulation holds the settings of the simulation checker.
type Simulation struct {
	// FidelityThreshold bounds the deviation of the squared inner product
	// from one.
	FidelityThreshold float64 `yaml:"fidelityThreshold"`

	// MaxSims is the number of random states to simulate.
	MaxSims int `yaml:"maxSims"`

	// StateType selects the random state population: "computational" or
	// "onequbitbasis".
	StateType string `yaml:"stateType"`

	// Seed for the random state generator. Zero draws a fresh seed.
	Seed uint64 `yaml:"seed"`
}

// StateType values.
const (
	StateComputational = "computational"
	StateOneQubitBasis = "onequbitbasis"
)

// Default returns the configuration used when nothing is specified: the
// alternating and simulation checkers with proportional scheduling.
func Default() Config {
	return Config{
		Execution: Execution{
			RunConstructionChecker: false,
			RunAlternatingChecker:  true,
			RunSimulationChecker:   true,
			NumericalTolerance:     dd.Eps,
		},
		Application: Application{
			ConstructionScheme: "proportional",
			SimulationScheme:   "proportional",
			AlternatingScheme:  "proportional",
		},
		Functionality: Functionality{TraceThreshold: 1e-8},
		Simulation: Simulation{
			FidelityThreshold: 1e-8,
			MaxSims:           16,
			StateType:         StateComputational,
		},
	}
}

// Load reads a YAML configuration file on top of the defaults.
func Load(location string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(location)
	if err != nil {
		return cfg, errors.Wrap(err, "config: read")
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, errors.Wrap(err, "config: parse")
	}
	return cfg, cfg.Validate()
}

var validSchemes = map[string]bool{
	"onetoone":     true,
	"proportional": true,
	"lookahead":    true,
	"gatecost":     true,
}

// Validate reports the first inconsistency in the configuration.
func (c *Config) Validate() error {
	for _, name := range []string{
		c.Application.ConstructionScheme,
		c.Application.SimulationScheme,
		c.Application.AlternatingScheme,
	} {
		if name != "" && !validSchemes[name] {
			return errors.Errorf("config: unknown application scheme %q", name)
		}
	}
	if c.Application.ConstructionScheme == "lookahead" ||
		c.Application.SimulationScheme == "lookahead" {
		return errors.New("config: lookahead scheme is only available for the alternating checker")
	}
	if c.Execution.NumericalTolerance < 0 {
		return errors.New("config: numerical tolerance must not be negative")
	}
	if c.Functionality.TraceThreshold < 0 {
		return errors.New("config: trace threshold must not be negative")
	}
	if c.Simulation.FidelityThreshold < 0 {
		return errors.New("config: fidelity threshold must not be negative")
	}
	if c.Simulation.MaxSims < 0 {
		return errors.New("config: number of simulations must not be negative")
	}
	switch c.Simulation.StateType {
	case "", StateComputational, StateOneQubitBasis:
	default:
		return errors.Errorf("config: unknown state type %q", c.Simulation.StateType)
	}
	if c.Execution.Timeout < 0 {
		return errors.New("config: timeout must not be negative")
	}
	return nil
}
