package solve

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/cwbudde/mayfly"

	"github.com/jrenard/optiex/internal/model"
	"github.com/jrenard/optiex/internal/stall"
)

// MayflyEngine drives the external Mayfly metaheuristic. The library only
// exposes scalar bounds shared across all dimensions, so the engine searches
// the unit cube and rescales each point to the model's box bounds inside the
// objective wrapper.
type MayflyEngine struct{}

// NewMayfly creates a Mayfly-backed engine.
func NewMayfly() Engine {
	return &MayflyEngine{}
}

// Solve runs the model through the Mayfly optimizer. Progress samples and
// the stop policy are serviced from inside the objective wrapper, which is
// the only hook the library offers; extra state lives on the run struct
// captured by the closure, never in globals. A Terminate decision flips the
// stopped flag, after which remaining evaluations return +Inf without
// touching the model, so the solver drains its budget almost instantly.
func (e *MayflyEngine) Solve(m *model.Model, opts Options) (*Result, error) {
	opts = opts.withDefaults()

	dim := m.Dim()
	if dim == 0 {
		return nil, fmt.Errorf("model %q has no variables", m.Name)
	}

	lower, upper := m.Bounds()

	sign := 1.0
	if m.Sense() == model.Maximize {
		sign = -1
	}

	// Normalize the objective bound to minimization sense. Without a known
	// bound the gap stays +Inf and a stop policy can never see stagnation.
	bound := math.Inf(-1)
	if raw, ok := m.BestBound(); ok {
		bound = sign * raw
	}

	run := &mayflyRun{
		model:   m,
		opts:    opts,
		lower:   lower,
		upper:   upper,
		sign:    sign,
		bound:   bound,
		started: time.Now(),
		best:    math.Inf(1),
	}

	config := mayfly.NewDefaultConfig()
	config.ObjectiveFunc = run.evaluate
	config.ProblemSize = dim
	config.MaxIterations = opts.Iterations
	config.NPop = opts.Population
	config.LowerBound = 0
	config.UpperBound = 1
	config.Rand = rand.New(rand.NewSource(opts.Seed))

	slog.Info("Starting solve",
		"model", m.Name,
		"vars", dim,
		"iterations", opts.Iterations,
		"population", opts.Population,
		"seed", opts.Seed,
	)

	if _, err := mayfly.Optimize(config); err != nil {
		return nil, fmt.Errorf("solver failed on model %q: %w", m.Name, err)
	}

	return run.result(), nil
}

// mayflyRun is the per-run state threaded into the solver-invoked objective.
type mayflyRun struct {
	model *model.Model
	opts  Options
	lower []float64
	upper []float64
	sign  float64
	bound float64

	started time.Time
	evals   int
	stopped bool

	best  float64   // lowest penalized cost seen
	bestX []float64 // rounded point achieving best

	incumbent    float64 // normalized objective of the best feasible point
	hasIncumbent bool
}

// evaluate is the objective handed to the solver. It rescales the unit-cube
// point, evaluates the penalized cost, updates incumbent bookkeeping, and
// periodically emits a progress sample.
func (r *mayflyRun) evaluate(u []float64) float64 {
	if r.stopped {
		return math.Inf(1)
	}

	x := r.model.Round(r.scale(u))
	cost := r.model.Cost(x)
	r.evals++

	improved := false
	if cost < r.best {
		r.best = cost
		r.bestX = x
	}
	if r.model.Feasible(x, r.opts.FeasibilityTol) {
		obj := r.sign * r.model.Objective(x)
		if !r.hasIncumbent || obj < r.incumbent {
			r.incumbent = obj
			r.hasIncumbent = true
			improved = true
		}
	}

	if improved || r.evals%r.opts.SampleEvery == 0 {
		r.emit()
	}

	return cost
}

// emit consults the stop policy on one progress sample and publishes the
// sample together with the resulting decision.
func (r *mayflyRun) emit() {
	s := stall.Sample{
		Elapsed:      time.Since(r.started),
		BestBound:    r.bound,
		Incumbent:    r.incumbent,
		HasIncumbent: r.hasIncumbent,
	}

	decision := stall.Continue
	if r.opts.Stop != nil {
		decision = r.opts.Stop.Observe(s)
	}
	if decision == stall.Terminate {
		slog.Info("Stop policy requested termination",
			"model", r.model.Name,
			"elapsed", s.Elapsed,
			"evaluations", r.evals,
		)
		r.stopped = true
	}

	if r.opts.Progress != nil {
		r.opts.Progress(s, decision)
	}
}

func (r *mayflyRun) scale(u []float64) []float64 {
	x := make([]float64, len(u))
	for i := range u {
		x[i] = r.lower[i] + u[i]*(r.upper[i]-r.lower[i])
	}
	return x
}

func (r *mayflyRun) result() *Result {
	res := &Result{
		Gap:         math.Inf(1),
		Evaluations: r.evals,
		Elapsed:     time.Since(r.started),
	}

	if r.bestX == nil {
		res.Status = StatusFailed
		return res
	}

	res.X = r.bestX
	res.Objective = r.model.Objective(r.bestX)
	res.Cost = r.best
	res.Feasible = r.model.Feasible(r.bestX, r.opts.FeasibilityTol)

	if r.hasIncumbent {
		res.Gap = stall.Gap(r.incumbent, r.bound)
	}

	// A closed gap outranks an interruption: stopping because the gap
	// reached zero is still a proven optimum.
	switch {
	case r.hasIncumbent && res.Gap <= r.opts.GapTol:
		res.Status = StatusOptimal
	case r.stopped:
		res.Status = StatusInterrupted
	default:
		res.Status = StatusIterationLimit
	}

	slog.Info("Solve finished",
		"model", r.model.Name,
		"status", res.Status,
		"objective", res.Objective,
		"feasible", res.Feasible,
		"gap", res.Gap,
		"evaluations", res.Evaluations,
		"elapsed", res.Elapsed,
	)
	return res
}
