package scheme

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"qcheck/checker/task"
	"qcheck/circuit"
)

// CostFunc assigns a cost to an operation, measured in operations of the
// other circuit.
type CostFunc func(op circuit.Operation) int

// GateCost batches operations of the second circuit to match the cost of the
// first circuit's next operation, so that expensive operations on one side
// are balanced by several cheap ones on the other.
type GateCost struct {
	t1   *task.Task
	cost CostFunc
}

// NewGateCost creates the scheme from an explicit cost function.
func NewGateCost(t1, t2 *task.Task, cost CostFunc) (*GateCost, error) {
	if cost == nil {
		return nil, ErrNoCostSource
	}
	_ = t2
	return &GateCost{t1: t1, cost: cost}, nil
}

// NewGateCostFromProfile creates the scheme from a cost profile file.
func NewGateCostFromProfile(t1, t2 *task.Task, location string) (*GateCost, error) {
	if location == "" {
		return nil, ErrNoCostSource
	}
	cost, err := LoadProfile(location)
	if err != nil {
		return nil, err
	}
	return NewGateCost(t1, t2, cost)
}

func (s *GateCost) Apply() (int, int, error) {
	cost := s.cost(s.t1.Pending())
	if cost < 1 {
		cost = 1
	}
	return 1, cost, nil
}

type profileEntry struct {
	Gate     string `yaml:"gate"`
	Controls int    `yaml:"controls"`
	Cost     int    `yaml:"cost"`
}

type profileKey struct {
	gate     string
	controls int
}

// LoadProfile reads a YAML cost profile: a list of {gate, controls, cost}
// entries. Operations without an entry cost one.
func LoadProfile(location string) (CostFunc, error) {
	raw, err := os.ReadFile(location)
	if err != nil {
		return nil, errors.Wrap(err, "scheme: read cost profile")
	}
	var entries []profileEntry
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, errors.Wrap(err, "scheme: parse cost profile")
	}
	table := make(map[profileKey]int, len(entries))
	for _, e := range entries {
		table[profileKey{gate: e.Gate, controls: e.Controls}] = e.Cost
	}
	return func(op circuit.Operation) int {
		if c, ok := table[profileKey{gate: op.Gate.String(), controls: len(op.Controls)}]; ok {
			return c
		}
		return 1
	}, nil
}
