// Command qcheck checks two OpenQASM circuits for equivalence.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"qcheck"
	"qcheck/checker"
	"qcheck/circuit"
	"qcheck/config"
)

var flags struct {
	configPath string
	checkers   []string
	scheme     string
	profile    string
	sims       int
	seed       uint64
	stateType  string
	timeout    time.Duration
	jsonOut    bool
	debug      bool
}

func main() {
	root := &cobra.Command{
		Use:   "qcheck <circuit1.qasm> <circuit2.qasm>",
		Short: "Check two quantum circuits for equivalence",
		Long: "qcheck decides whether two OpenQASM 2.0 circuits implement the same\n" +
			"operation, using decision diagram based construction, alternating and\n" +
			"simulation checkers.",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	root.Flags().StringVarP(&flags.configPath, "config", "c", "", "YAML configuration file")
	root.Flags().StringSliceVar(&flags.checkers, "checkers", nil,
		"checkers to run (construction, alternating, simulation)")
	root.Flags().StringVar(&flags.scheme, "scheme", "",
		"application scheme (onetoone, proportional, lookahead, gatecost)")
	root.Flags().StringVar(&flags.profile, "profile", "", "gate cost profile for the gatecost scheme")
	root.Flags().IntVar(&flags.sims, "sims", -1, "number of random simulations")
	root.Flags().Uint64Var(&flags.seed, "seed", 0, "seed for the random state generator")
	root.Flags().StringVar(&flags.stateType, "state-type", "",
		"random state population (computational, onequbitbasis)")
	root.Flags().DurationVar(&flags.timeout, "timeout", 0, "overall time limit")
	root.Flags().BoolVar(&flags.jsonOut, "json", false, "print the result as JSON")
	root.Flags().BoolVarP(&flags.debug, "debug", "d", false, "verbose logging")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
}

func run(cmd *cobra.Command, args []string) error {
	log, err := newLogger(flags.debug)
	if err != nil {
		return err
	}
	defer log.Sync()

	c1, err := loadCircuit(args[0])
	if err != nil {
		return err
	}
	c2, err := loadCircuit(args[1])
	if err != nil {
		return err
	}

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	result, err := qcheck.Verify(c1, c2, qcheck.WithConfig(cfg), qcheck.WithLogger(log))
	if err != nil {
		return err
	}

	if flags.jsonOut {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  (%s)\n", result.Verdict, result.Runtime.Round(time.Microsecond))
		for _, cr := range result.Checkers {
			fmt.Fprintf(cmd.OutOrStdout(), "  %-13s %s\n", cr.Name+":", cr.Verdict)
		}
	}

	if result.Verdict == checker.NotEquivalent {
		os.Exit(1)
	}
	return nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

func loadCircuit(path string) (*circuit.Circuit, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	c, err := circuit.ParseQASM(string(raw))
	return c, errors.Wrapf(err, "parse %s", path)
}

func buildConfig() (config.Config, error) {
	cfg := config.Default()
	if flags.configPath != "" {
		loaded, err := config.Load(flags.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	if len(flags.checkers) > 0 {
		cfg.Execution.RunConstructionChecker = false
		cfg.Execution.RunAlternatingChecker = false
		cfg.Execution.RunSimulationChecker = false
		for _, name := range flags.checkers {
			switch strings.ToLower(strings.TrimSpace(name)) {
			case "construction":
				cfg.Execution.RunConstructionChecker = true
			case "alternating":
				cfg.Execution.RunAlternatingChecker = true
			case "simulation":
				cfg.Execution.RunSimulationChecker = true
			default:
				return cfg, errors.Errorf("unknown checker %q", name)
			}
		}
	}

	if flags.scheme != "" {
		cfg.Application.ConstructionScheme = flags.scheme
		cfg.Application.SimulationScheme = flags.scheme
		cfg.Application.AlternatingScheme = flags.scheme
		if flags.scheme == "lookahead" {
			// Only the alternating checker supports lookahead.
			cfg.Application.ConstructionScheme = "proportional"
			cfg.Application.SimulationScheme = "proportional"
		}
	}
	if flags.profile != "" {
		cfg.Application.ProfileLocation = flags.profile
	}
	if flags.sims >= 0 {
		cfg.Simulation.MaxSims = flags.sims
	}
	if flags.seed != 0 {
		cfg.Simulation.Seed = flags.seed
	}
	if flags.stateType != "" {
		cfg.Simulation.StateType = flags.stateType
	}
	if flags.timeout > 0 {
		cfg.Execution.Timeout = config.Duration(flags.timeout)
	}
	return cfg, cfg.Validate()
}
