// Package stall detects stagnation of the relative optimality gap during a
// solver run. A Monitor watches the stream of progress samples a solver emits
// and decides, after each sample, whether the run should stop early because
// the gap has not improved enough over a sliding time window.
package stall

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"
)

// ErrInvalidConfig is returned by New for out-of-range configuration values.
var ErrInvalidConfig = errors.New("invalid stall monitor configuration")

// epsDenominator guards the gap denominator against division by zero.
// Matches the 1e-10 floor conventionally used for relative MIP gaps.
const epsDenominator = 1e-10

// Decision is the outcome of observing one progress sample.
type Decision int

const (
	// Continue means the run should keep going.
	Continue Decision = iota
	// Terminate means the caller should request an early stop from the solver.
	Terminate
)

func (d Decision) String() string {
	if d == Terminate {
		return "terminate"
	}
	return "continue"
}

// Sample is one progress report from a running solver.
type Sample struct {
	// Elapsed is wall-clock time since the run started.
	// Expected to be non-decreasing across a run.
	Elapsed time.Duration

	// BestBound is the proven limit on how much better the optimum could be.
	BestBound float64

	// Incumbent is the objective value of the best feasible solution so far.
	// Only meaningful when HasIncumbent is true.
	Incumbent float64

	// HasIncumbent reports whether any feasible solution exists yet.
	HasIncumbent bool
}

// Gap returns the relative optimality gap between an incumbent objective and
// a best bound. A gap of 0 means proven optimal.
func Gap(incumbent, bound float64) float64 {
	return math.Abs(incumbent-bound) / math.Max(math.Abs(incumbent), epsDenominator)
}

// Config defines parameters for gap stagnation detection.
type Config struct {
	// Window is the sliding time span over which gap improvement is judged.
	// Must be positive.
	Window time.Duration

	// MinImprovement is the smallest gap reduction over a full window that
	// still counts as progress. Dimensionless, same units as the gap.
	// Must be non-negative.
	MinImprovement float64
}

// DefaultConfig mirrors the classic stopping rule of terminating when the
// gap improves by less than 1e-4 over 15 seconds.
func DefaultConfig() Config {
	return Config{
		Window:         15 * time.Second,
		MinImprovement: 1e-4,
	}
}

// Policy is the decision hook a solver consults after each progress sample.
type Policy interface {
	Observe(s Sample) Decision
}

type entry struct {
	elapsed time.Duration
	gap     float64
}

// Monitor tracks the recent gap trajectory of a single solver run.
// It holds no reference to the solver; translating a Terminate decision into
// an actual stop request is the caller's job. A Monitor is not safe for
// concurrent use, but solvers deliver progress callbacks sequentially, so no
// locking is needed. One run, one monitor.
type Monitor struct {
	config  Config
	history []entry
}

// New creates a monitor. It fails with ErrInvalidConfig if the window is not
// positive or the minimum improvement is negative.
func New(config Config) (*Monitor, error) {
	if config.Window <= 0 {
		return nil, fmt.Errorf("%w: window must be positive, got %v", ErrInvalidConfig, config.Window)
	}
	if config.MinImprovement < 0 {
		return nil, fmt.Errorf("%w: min improvement must be non-negative, got %g", ErrInvalidConfig, config.MinImprovement)
	}
	return &Monitor{config: config}, nil
}

// Observe records one progress sample and decides whether the run should
// stop. It never fails: samples without an incumbent, out-of-order
// timestamps, and temporary gap increases are all absorbed as Continue.
func (m *Monitor) Observe(s Sample) Decision {
	// No feasible solution yet means no gap to judge.
	if !s.HasIncumbent {
		return Continue
	}

	gap := Gap(s.Incumbent, s.BestBound)

	// Proven optimal is terminal regardless of window state.
	if gap == 0 {
		slog.Debug("Gap closed, stopping", "elapsed", s.Elapsed)
		return Terminate
	}

	m.record(s.Elapsed, gap)
	m.evict(s.Elapsed)

	// An infinite gap (no usable bound) can never witness stagnation.
	if math.IsInf(gap, 0) {
		return Continue
	}

	// Not enough history to cover a full window yet.
	oldest := m.history[0]
	if s.Elapsed-oldest.elapsed < m.config.Window {
		return Continue
	}

	improvement := oldest.gap - gap
	if improvement < m.config.MinImprovement {
		slog.Info("Gap stagnated, stopping",
			"elapsed", s.Elapsed,
			"gap", gap,
			"improvement", improvement,
			"window", m.config.Window,
		)
		return Terminate
	}

	slog.Debug("Gap improving",
		"elapsed", s.Elapsed,
		"gap", gap,
		"improvement", improvement,
	)
	return Continue
}

// record appends a gap observation. A sample sharing the timestamp of the
// previous one supersedes it instead of being double-counted.
func (m *Monitor) record(elapsed time.Duration, gap float64) {
	if n := len(m.history); n > 0 && m.history[n-1].elapsed == elapsed {
		m.history[n-1].gap = gap
		return
	}
	m.history = append(m.history, entry{elapsed: elapsed, gap: gap})
}

// evict drops entries that fell out of the trailing window.
func (m *Monitor) evict(now time.Duration) {
	cutoff := now - m.config.Window
	i := 0
	for i < len(m.history) && m.history[i].elapsed < cutoff {
		i++
	}
	if i > 0 {
		m.history = m.history[i:]
	}
}

// Len returns the number of samples currently retained in the window.
func (m *Monitor) Len() int {
	return len(m.history)
}

// LatestGap returns the most recently recorded gap, or +Inf if no sample
// with an incumbent has been observed yet.
func (m *Monitor) LatestGap() float64 {
	if len(m.history) == 0 {
		return math.Inf(1)
	}
	return m.history[len(m.history)-1].gap
}

// Reset clears the history so the monitor can watch a fresh run.
func (m *Monitor) Reset() {
	m.history = nil
}
