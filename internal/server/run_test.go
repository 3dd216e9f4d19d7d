package server

import (
	"sync"
	"testing"
)

func TestCreateRun(t *testing.T) {
	rm := NewRunManager()

	config := RunConfig{Exercise: "knapsack", Iterations: 100, Population: 30, Seed: 42}
	run := rm.CreateRun(config)

	if run.ID == "" {
		t.Error("Expected non-empty run ID")
	}
	if run.State != StatePending {
		t.Errorf("Expected pending state, got %s", run.State)
	}
	if run.Config.Exercise != "knapsack" {
		t.Errorf("Config not stored: %+v", run.Config)
	}
	if run.StartTime.IsZero() {
		t.Error("Expected start time to be set")
	}
}

func TestCreateRunUniqueIDs(t *testing.T) {
	rm := NewRunManager()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		run := rm.CreateRun(RunConfig{Exercise: "bucket"})
		if seen[run.ID] {
			t.Fatalf("Duplicate run ID: %s", run.ID)
		}
		seen[run.ID] = true
	}
}

func TestGetRun(t *testing.T) {
	rm := NewRunManager()

	run := rm.CreateRun(RunConfig{Exercise: "bucket"})

	got, exists := rm.GetRun(run.ID)
	if !exists {
		t.Fatal("Expected run to exist")
	}
	if got.ID != run.ID {
		t.Errorf("ID mismatch: %s vs %s", got.ID, run.ID)
	}

	if _, exists := rm.GetRun("nonexistent"); exists {
		t.Error("Expected missing run to not exist")
	}
}

func TestUpdateRun(t *testing.T) {
	rm := NewRunManager()

	run := rm.CreateRun(RunConfig{Exercise: "bucket"})

	err := rm.UpdateRun(run.ID, func(r *Run) {
		r.State = StateRunning
		r.Evaluations = 500
	})
	if err != nil {
		t.Fatalf("UpdateRun failed: %v", err)
	}

	got, _ := rm.GetRun(run.ID)
	if got.State != StateRunning {
		t.Errorf("Expected running state, got %s", got.State)
	}
	if got.Evaluations != 500 {
		t.Errorf("Expected 500 evaluations, got %d", got.Evaluations)
	}

	if err := rm.UpdateRun("nonexistent", func(r *Run) {}); err == nil {
		t.Error("Expected error for unknown run ID")
	}
}

func TestListRuns(t *testing.T) {
	rm := NewRunManager()

	if len(rm.ListRuns()) != 0 {
		t.Error("Expected empty manager to list no runs")
	}

	rm.CreateRun(RunConfig{Exercise: "bucket"})
	rm.CreateRun(RunConfig{Exercise: "knapsack"})

	if got := len(rm.ListRuns()); got != 2 {
		t.Errorf("Expected 2 runs, got %d", got)
	}
}

// Accessors hand out snapshots, so mutating a returned Run must not leak
// into the manager's copy.
func TestGetRunReturnsSnapshot(t *testing.T) {
	rm := NewRunManager()

	run := rm.CreateRun(RunConfig{Exercise: "bucket"})
	run.State = StateFailed
	run.Evaluations = 999

	got, _ := rm.GetRun(run.ID)
	if got.State != StatePending {
		t.Errorf("Mutation of returned run leaked into manager: state %s", got.State)
	}
	if got.Evaluations != 0 {
		t.Errorf("Mutation of returned run leaked into manager: %d evaluations", got.Evaluations)
	}

	got.State = StateCompleted
	again, _ := rm.GetRun(run.ID)
	if again.State != StatePending {
		t.Errorf("GetRun returned a live pointer: state %s", again.State)
	}
}

// Readers must be able to walk returned runs while the worker goroutine is
// updating them. Fails under the race detector if accessors return live
// pointers.
func TestConcurrentUpdatesAndReads(t *testing.T) {
	rm := NewRunManager()

	a := rm.CreateRun(RunConfig{Exercise: "bucket"})
	b := rm.CreateRun(RunConfig{Exercise: "knapsack"})

	var wg sync.WaitGroup
	for _, id := range []string{a.ID, b.ID} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				rm.UpdateRun(id, func(r *Run) {
					r.State = StateRunning
					r.Evaluations = i
					r.Gap = float64(i)
				})
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			if run, ok := rm.GetRun(a.ID); ok {
				_ = run.Evaluations
			}
			for _, run := range rm.ListRuns() {
				_ = run.Gap
			}
			for _, run := range rm.ActiveRuns() {
				_ = run.State
			}
		}
	}()

	wg.Wait()
}

func TestActiveRuns(t *testing.T) {
	rm := NewRunManager()

	a := rm.CreateRun(RunConfig{Exercise: "bucket"})
	rm.CreateRun(RunConfig{Exercise: "knapsack"})

	rm.UpdateRun(a.ID, func(r *Run) { r.State = StateRunning })

	active := rm.ActiveRuns()
	if len(active) != 1 {
		t.Fatalf("Expected 1 active run, got %d", len(active))
	}
	if active[0].ID != a.ID {
		t.Errorf("Wrong run reported active: %s", active[0].ID)
	}
}
