// Package server exposes solve runs over HTTP: create a run, poll its
// status, stream its gap trajectory as server-sent events, and fetch the
// persisted result.
package server

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jrenard/optiex/internal/store"
)

// RunState represents the current state of a run.
type RunState string

const (
	StatePending   RunState = "pending"
	StateRunning   RunState = "running"
	StateCompleted RunState = "completed"
	StateFailed    RunState = "failed"
)

// RunConfig is an alias to avoid duplication with store.RunConfig.
type RunConfig = store.RunConfig

// Run represents one solve run owned by the server.
type Run struct {
	ID           string     `json:"id"`
	State        RunState   `json:"state"`
	Config       RunConfig  `json:"config"`
	Status       string     `json:"status,omitempty"`
	Objective    float64    `json:"objective"`
	Incumbent    float64    `json:"incumbent"`
	HasIncumbent bool       `json:"hasIncumbent"`
	BestBound    float64    `json:"bestBound"`
	Gap          float64    `json:"gap"`
	GapKnown     bool       `json:"gapKnown"`
	Feasible     bool       `json:"feasible"`
	Evaluations  int        `json:"evaluations"`
	StartTime    time.Time  `json:"startTime"`
	EndTime      *time.Time `json:"endTime,omitempty"`
	Error        string     `json:"error,omitempty"`
}

// RunManager manages the lifecycle of runs.
type RunManager struct {
	mu          sync.RWMutex
	runs        map[string]*Run
	broadcaster *EventBroadcaster
}

// NewRunManager creates a new RunManager.
func NewRunManager() *RunManager {
	return &RunManager{
		runs:        make(map[string]*Run),
		broadcaster: NewEventBroadcaster(),
	}
}

// CreateRun registers a new pending run with the given configuration.
// Like all accessors it returns a snapshot, never the live struct: the
// worker goroutine mutates runs under the manager's lock, so handing out
// interior pointers would let handlers read them unsynchronized.
func (rm *RunManager) CreateRun(config RunConfig) *Run {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	run := &Run{
		ID:        uuid.New().String(),
		State:     StatePending,
		Config:    config,
		StartTime: time.Now(),
	}

	rm.runs[run.ID] = run
	snapshot := *run
	return &snapshot
}

// GetRun retrieves a snapshot of a run by ID.
func (rm *RunManager) GetRun(id string) (*Run, bool) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	run, exists := rm.runs[id]
	if !exists {
		return nil, false
	}
	snapshot := *run
	return &snapshot, true
}

// ListRuns returns snapshots of all runs.
func (rm *RunManager) ListRuns() []*Run {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	runs := make([]*Run, 0, len(rm.runs))
	for _, run := range rm.runs {
		snapshot := *run
		runs = append(runs, &snapshot)
	}
	return runs
}

// UpdateRun atomically updates a run using the provided function.
func (rm *RunManager) UpdateRun(id string, updateFn func(*Run)) error {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	run, exists := rm.runs[id]
	if !exists {
		return fmt.Errorf("run not found: %s", id)
	}

	updateFn(run)
	return nil
}

// ActiveRuns returns snapshots of all runs currently in the running state.
func (rm *RunManager) ActiveRuns() []*Run {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	active := make([]*Run, 0)
	for _, run := range rm.runs {
		if run.State == StateRunning {
			snapshot := *run
			active = append(active, &snapshot)
		}
	}
	return active
}
