package qcheck

import (
	"go.uber.org/zap"

	"qcheck/circuit"
	"qcheck/config"
)

// Option customizes a Manager.
type Option func(*Manager)

// WithConfig replaces the default configuration.
func WithConfig(cfg config.Config) Option {
	return func(m *Manager) { m.cfg = cfg }
}

// WithLogger installs a logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// WithCheckers selects exactly which checkers run.
func WithCheckers(construction, alternating, simulation bool) Option {
	return func(m *Manager) {
		m.cfg.Execution.RunConstructionChecker = construction
		m.cfg.Execution.RunAlternatingChecker = alternating
		m.cfg.Execution.RunSimulationChecker = simulation
	}
}

// WithCostFunction installs a programmatic gate cost function and selects the
// gate cost scheme for all checkers.
func WithCostFunction(cost func(op circuit.Operation) int) Option {
	return func(m *Manager) {
		m.cfg.Application.CostFunction = cost
		m.cfg.Application.ConstructionScheme = "gatecost"
		m.cfg.Application.SimulationScheme = "gatecost"
		m.cfg.Application.AlternatingScheme = "gatecost"
	}
}
