package problems

import (
	"fmt"
	"sort"

	"github.com/jrenard/optiex/internal/model"
)

// BuildOptions selects the exercise instance a builder constructs.
type BuildOptions struct {
	// Seed feeds the instance generators of the random exercises.
	Seed uint64

	// DataPath points at the JSON instance file for data-driven exercises
	// (portfolio, lot sizing). Those exercises fail without one.
	DataPath string

	// Steps is the trajectory length for the moving robot arm exercise.
	Steps int
}

// Builder constructs an exercise model from the shared build options.
type Builder func(opts BuildOptions) (*model.Model, error)

var registry = map[string]Builder{
	"knapsack": func(opts BuildOptions) (*model.Model, error) {
		return Knapsack(GenerateKnapsack(20, opts.Seed)), nil
	},
	"multiknapsack": func(opts BuildOptions) (*model.Model, error) {
		return MultiKnapsack(GenerateMultiKnapsack(20, 3, opts.Seed)), nil
	},
	"portfolio": func(opts BuildOptions) (*model.Model, error) {
		if opts.DataPath == "" {
			return nil, fmt.Errorf("portfolio requires a data file")
		}
		data, err := LoadPortfolio(opts.DataPath)
		if err != nil {
			return nil, err
		}
		return Portfolio(data), nil
	},
	"lotsizing": func(opts BuildOptions) (*model.Model, error) {
		if opts.DataPath == "" {
			return nil, fmt.Errorf("lotsizing requires a data file")
		}
		data, err := LoadLotSizing(opts.DataPath)
		if err != nil {
			return nil, err
		}
		return LotSizing(data), nil
	},
	"bucket": func(opts BuildOptions) (*model.Model, error) {
		return Bucket(DefaultBucket()), nil
	},
	"unitcommit": func(opts BuildOptions) (*model.Model, error) {
		return UnitCommitment(DefaultUnitCommitment()), nil
	},
	"robotarm": func(opts BuildOptions) (*model.Model, error) {
		return RobotArm(DefaultRobotArm()), nil
	},
	"robotarm_trajectory": func(opts BuildOptions) (*model.Model, error) {
		steps := opts.Steps
		if steps <= 0 {
			steps = 10
		}
		return RobotArmTrajectory(DefaultRobotArm(), steps), nil
	},
}

// Build constructs the named exercise model.
func Build(name string, opts BuildOptions) (*model.Model, error) {
	builder, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown exercise: %s", name)
	}
	return builder(opts)
}

// Names returns the registered exercise names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
