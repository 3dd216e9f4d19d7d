// Package solve is the boundary to the external black-box solver. It adapts
// a model to the solver's evaluation interface, streams progress samples to
// caller-supplied hooks, and translates a termination decision into a stop
// request.
package solve

import (
	"time"

	"github.com/jrenard/optiex/internal/model"
	"github.com/jrenard/optiex/internal/stall"
)

// Status describes how a solve run ended.
type Status int

const (
	// StatusOptimal means the gap between incumbent and bound closed.
	StatusOptimal Status = iota
	// StatusIterationLimit means the iteration budget ran out.
	StatusIterationLimit
	// StatusInterrupted means a stop policy requested early termination.
	StatusInterrupted
	// StatusFailed means the solver itself reported an error.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusIterationLimit:
		return "iteration_limit"
	case StatusInterrupted:
		return "interrupted"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// Options configures a single solve run.
type Options struct {
	// Iterations is the solver's iteration budget.
	Iterations int

	// Population is the solver's population size.
	Population int

	// Seed makes runs reproducible.
	Seed int64

	// Stop, when non-nil, is consulted for each emitted progress sample;
	// a Terminate decision soft-stops the run.
	Stop stall.Policy

	// Progress, when non-nil, receives every emitted progress sample along
	// with the stop policy's decision for it (Continue when Stop is nil).
	// It is invoked synchronously on the solver's evaluation path.
	Progress func(s stall.Sample, d stall.Decision)

	// SampleEvery is the number of objective evaluations between emitted
	// progress samples. Samples are also emitted whenever the incumbent
	// improves. Defaults to the population size.
	SampleEvery int

	// FeasibilityTol is the constraint violation tolerance below which a
	// point counts as feasible (and can become the incumbent).
	FeasibilityTol float64

	// GapTol is the relative gap below which the run is declared optimal.
	GapTol float64
}

func (o Options) withDefaults() Options {
	if o.Iterations <= 0 {
		o.Iterations = 200
	}
	if o.Population <= 0 {
		o.Population = 30
	}
	if o.Seed == 0 {
		o.Seed = 42
	}
	if o.SampleEvery <= 0 {
		o.SampleEvery = o.Population
	}
	if o.FeasibilityTol <= 0 {
		o.FeasibilityTol = 1e-6
	}
	if o.GapTol <= 0 {
		o.GapTol = 1e-6
	}
	return o
}

// Result holds the outcome of a solve run.
type Result struct {
	// X is the best point found, rounded to the model's variable domains.
	X []float64

	// Objective is the raw objective value at X, in the model's own sense.
	Objective float64

	// Cost is the penalized minimization cost at X.
	Cost float64

	// Feasible reports whether X satisfies all constraints within tolerance.
	Feasible bool

	// Gap is the final relative optimality gap, +Inf when unknown.
	Gap float64

	// Status describes how the run ended.
	Status Status

	// Evaluations is the number of objective evaluations performed.
	Evaluations int

	// Elapsed is the wall-clock duration of the run.
	Elapsed time.Duration
}

// Engine runs a model through an external solver.
type Engine interface {
	Solve(m *model.Model, opts Options) (*Result, error)
}
