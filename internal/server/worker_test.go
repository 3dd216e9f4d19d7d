package server

import (
	"testing"

	"github.com/jrenard/optiex/internal/solve"
	"github.com/jrenard/optiex/internal/store"
)

func TestExecuteRunCompletes(t *testing.T) {
	dataDir := t.TempDir()
	st, err := store.NewFSStore(dataDir)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	rm := NewRunManager()
	run := rm.CreateRun(RunConfig{
		Exercise:       "bucket",
		Iterations:     30,
		Population:     20,
		Seed:           1,
		WindowSeconds:  15,
		MinImprovement: 1e-4,
	})

	if err := executeRun(rm, st, dataDir, solve.NewMayfly(), run.ID); err != nil {
		t.Fatalf("executeRun failed: %v", err)
	}

	got, _ := rm.GetRun(run.ID)
	if got.State != StateCompleted {
		t.Fatalf("Expected completed state, got %s (%s)", got.State, got.Error)
	}
	if got.EndTime == nil {
		t.Error("Expected end time to be set")
	}
	if got.Evaluations == 0 {
		t.Error("Expected nonzero evaluation count")
	}

	record, err := st.LoadRun(run.ID)
	if err != nil {
		t.Fatalf("Result was not persisted: %v", err)
	}
	if record.Config.Exercise != "bucket" {
		t.Errorf("Wrong exercise in record: %q", record.Config.Exercise)
	}
	if len(record.X) != 3 {
		t.Errorf("Expected 3 variables in solution, got %d", len(record.X))
	}

	entries, err := store.ReadTrace(dataDir, run.ID)
	if err != nil {
		t.Fatalf("Trace was not written: %v", err)
	}
	if len(entries) == 0 {
		t.Error("Expected trace entries")
	}
}

// Streamed progress events must carry the stagnation monitor's decision so
// SSE clients can tell why a run is still going or about to stop.
func TestExecuteRunEventsCarryDecision(t *testing.T) {
	dataDir := t.TempDir()
	st, err := store.NewFSStore(dataDir)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	rm := NewRunManager()
	run := rm.CreateRun(RunConfig{
		Exercise:       "bucket",
		Iterations:     30,
		Population:     20,
		Seed:           1,
		WindowSeconds:  15,
		MinImprovement: 1e-4,
	})

	ch := rm.broadcaster.Subscribe(run.ID)
	defer rm.broadcaster.Unsubscribe(run.ID, ch)

	if err := executeRun(rm, st, dataDir, solve.NewMayfly(), run.ID); err != nil {
		t.Fatalf("executeRun failed: %v", err)
	}

	sawDecision := false
	for len(ch) > 0 {
		event := <-ch
		if event.State != StateRunning {
			continue
		}
		if event.Decision == "" {
			t.Errorf("Running event missing decision: %+v", event)
		} else {
			sawDecision = true
		}
	}
	if !sawDecision {
		t.Error("Expected at least one progress event with a decision")
	}
}

func TestExecuteRunUnknownExercise(t *testing.T) {
	dataDir := t.TempDir()
	st, err := store.NewFSStore(dataDir)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	rm := NewRunManager()
	run := rm.CreateRun(RunConfig{
		Exercise:       "sudoku",
		Iterations:     10,
		Population:     20,
		WindowSeconds:  15,
		MinImprovement: 1e-4,
	})

	if err := executeRun(rm, st, dataDir, solve.NewMayfly(), run.ID); err == nil {
		t.Fatal("Expected error for unknown exercise")
	}

	got, _ := rm.GetRun(run.ID)
	if got.State != StateFailed {
		t.Errorf("Expected failed state, got %s", got.State)
	}
	if got.Error == "" {
		t.Error("Expected error message on run")
	}
}

func TestExecuteRunUnknownRunID(t *testing.T) {
	st, err := store.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	if err := executeRun(NewRunManager(), st, t.TempDir(), solve.NewMayfly(), "missing"); err == nil {
		t.Fatal("Expected error for unknown run ID")
	}
}
