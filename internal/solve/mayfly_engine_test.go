package solve

import (
	"math"
	"testing"
	"time"

	"github.com/jrenard/optiex/internal/model"
	"github.com/jrenard/optiex/internal/stall"
)

// sphereModel builds min sum(x_i^2) over [-10, 10]^dim.
func sphereModel(dim int) *model.Model {
	m := model.New("sphere")
	m.AddVars("x", dim, -10, 10)
	m.SetObjective(model.Minimize, func(x []float64) float64 {
		var sum float64
		for _, v := range x {
			sum += v * v
		}
		return sum
	})
	return m
}

func TestSolveSphere(t *testing.T) {
	engine := NewMayfly()

	res, err := engine.Solve(sphereModel(3), Options{Iterations: 100, Population: 20, Seed: 42})
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}

	if len(res.X) != 3 {
		t.Fatalf("Expected 3 parameters, got %d", len(res.X))
	}
	if res.Objective > 0.1 {
		t.Errorf("Expected objective near 0, got %f", res.Objective)
	}
	for i, v := range res.X {
		if math.Abs(v) > 1.0 {
			t.Errorf("Parameter %d = %f, expected near 0", i, v)
		}
	}
	if !res.Feasible {
		t.Error("Unconstrained model should always be feasible")
	}
	if res.Evaluations == 0 {
		t.Error("Expected evaluation count to be tracked")
	}
}

func TestSolveDeterministic(t *testing.T) {
	engine := NewMayfly()
	opts := Options{Iterations: 50, Population: 20, Seed: 123}

	res1, err := engine.Solve(sphereModel(2), opts)
	if err != nil {
		t.Fatalf("First solve failed: %v", err)
	}
	res2, err := engine.Solve(sphereModel(2), opts)
	if err != nil {
		t.Fatalf("Second solve failed: %v", err)
	}

	if res1.Objective != res2.Objective {
		t.Errorf("Non-deterministic: %f vs %f", res1.Objective, res2.Objective)
	}
}

func TestSolveRescalesHeterogeneousBounds(t *testing.T) {
	// min (x-3)^2 + (y+0.5)^2 with x in [2,4], y in [-1,0].
	m := model.New("shifted")
	m.AddVar("x", 2, 4)
	m.AddVar("y", -1, 0)
	m.SetObjective(model.Minimize, func(x []float64) float64 {
		dx := x[0] - 3
		dy := x[1] + 0.5
		return dx*dx + dy*dy
	})

	engine := NewMayfly()
	res, err := engine.Solve(m, Options{Iterations: 100, Population: 20, Seed: 7})
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}

	if res.X[0] < 2 || res.X[0] > 4 {
		t.Errorf("x out of bounds: %f", res.X[0])
	}
	if res.X[1] < -1 || res.X[1] > 0 {
		t.Errorf("y out of bounds: %f", res.X[1])
	}
	if res.Objective > 0.05 {
		t.Errorf("Expected objective near 0, got %f", res.Objective)
	}
}

// stopAfter terminates once it has seen n samples carrying an incumbent.
type stopAfter struct {
	n    int
	seen int
}

func (p *stopAfter) Observe(s stall.Sample) stall.Decision {
	if !s.HasIncumbent {
		return stall.Continue
	}
	p.seen++
	if p.seen >= p.n {
		return stall.Terminate
	}
	return stall.Continue
}

func TestSolveStopPolicyInterrupts(t *testing.T) {
	engine := NewMayfly()

	res, err := engine.Solve(sphereModel(3), Options{
		Iterations: 5000,
		Population: 20,
		Seed:       42,
		Stop:       &stopAfter{n: 1},
	})
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}

	if res.Status != StatusInterrupted {
		t.Errorf("Expected interrupted status, got %v", res.Status)
	}
	// The soft stop short-circuits remaining evaluations, so the run must
	// finish far below the full budget's cost.
	if res.X == nil {
		t.Error("Interrupted run should still report its best point")
	}
}

func TestSolveReachesProvenOptimum(t *testing.T) {
	// max x over binary vars with known bound 3: rounding lands exactly on
	// the optimum, closing the gap.
	m := model.New("binary")
	m.AddBinaryVars("b", 3)
	m.SetObjective(model.Maximize, func(x []float64) float64 {
		return x[0] + x[1] + x[2]
	})
	m.SetBestBound(3)

	engine := NewMayfly()
	res, err := engine.Solve(m, Options{Iterations: 100, Population: 20, Seed: 42})
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}

	if res.Status != StatusOptimal {
		t.Errorf("Expected optimal status, got %v (gap %g)", res.Status, res.Gap)
	}
	if res.Objective != 3 {
		t.Errorf("Expected objective 3, got %f", res.Objective)
	}
}

func TestSolveEmitsProgressSamples(t *testing.T) {
	engine := NewMayfly()

	var samples []stall.Sample
	_, err := engine.Solve(sphereModel(2), Options{
		Iterations: 50,
		Population: 20,
		Seed:       42,
		Progress: func(s stall.Sample, d stall.Decision) {
			samples = append(samples, s)
			if d != stall.Continue {
				t.Errorf("Expected continue decision without a stop policy, got %v", d)
			}
		},
	})
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}

	if len(samples) == 0 {
		t.Fatal("Expected progress samples")
	}
	var last time.Duration
	for i, s := range samples {
		if s.Elapsed < last {
			t.Errorf("Sample %d: elapsed went backwards (%v after %v)", i, s.Elapsed, last)
		}
		last = s.Elapsed
	}
	if !samples[len(samples)-1].HasIncumbent {
		t.Error("Unconstrained model should produce an incumbent")
	}
}

func TestSolveProgressCarriesStopDecision(t *testing.T) {
	engine := NewMayfly()

	var decisions []stall.Decision
	res, err := engine.Solve(sphereModel(2), Options{
		Iterations: 5000,
		Population: 20,
		Seed:       42,
		Stop:       &stopAfter{n: 1},
		Progress: func(s stall.Sample, d stall.Decision) {
			decisions = append(decisions, d)
		},
	})
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}

	if res.Status != StatusInterrupted {
		t.Fatalf("Expected interrupted status, got %v", res.Status)
	}
	if len(decisions) == 0 {
		t.Fatal("Expected progress samples")
	}
	// The sample that triggered the stop must report it, so the consumer
	// sees the terminate decision alongside the gap state, not after it.
	if got := decisions[len(decisions)-1]; got != stall.Terminate {
		t.Errorf("Expected final decision terminate, got %v", got)
	}
	for _, d := range decisions[:len(decisions)-1] {
		if d != stall.Continue {
			t.Errorf("Expected continue before the stop fired, got %v", d)
		}
	}
}

func TestSolveEmptyModelFails(t *testing.T) {
	engine := NewMayfly()
	if _, err := engine.Solve(model.New("empty"), Options{}); err == nil {
		t.Fatal("Expected error for model without variables")
	}
}
