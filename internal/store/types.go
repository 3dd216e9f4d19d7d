package store

import "time"

// RunConfig captures the settings a run was started with, persisted alongside
// the result so runs can be compared and reproduced.
type RunConfig struct {
	Exercise       string  `json:"exercise"`
	Iterations     int     `json:"iterations"`
	Population     int     `json:"population"`
	Seed           int64   `json:"seed"`
	WindowSeconds  float64 `json:"windowSeconds,omitempty"`
	MinImprovement float64 `json:"minImprovement,omitempty"`
	DataPath       string  `json:"dataPath,omitempty"`
}

// RunRecord is the persisted outcome of one solve run.
type RunRecord struct {
	RunID string `json:"runId"`

	// Status is the engine's terminal status
	// (optimal, iteration_limit, interrupted, failed).
	Status string `json:"status"`

	// Objective is the raw objective value in the model's own sense.
	Objective float64 `json:"objective"`

	// Gap is the final relative optimality gap. GapKnown is false when the
	// run produced no incumbent; the infinite gap is not serialized.
	Gap      float64 `json:"gap,omitempty"`
	GapKnown bool    `json:"gapKnown"`

	Feasible    bool      `json:"feasible"`
	X           []float64 `json:"x,omitempty"`
	VarNames    []string  `json:"varNames,omitempty"`
	Evaluations int       `json:"evaluations"`
	ElapsedSecs float64   `json:"elapsedSecs"`
	Timestamp   time.Time `json:"timestamp"`
	Config      RunConfig `json:"config"`
}

// RunInfo is the listing view of a run: metadata without the solution vector.
type RunInfo struct {
	RunID     string    `json:"runId"`
	Exercise  string    `json:"exercise"`
	Status    string    `json:"status"`
	Objective float64   `json:"objective"`
	Feasible  bool      `json:"feasible"`
	Timestamp time.Time `json:"timestamp"`
}

// ToInfo strips a record down to its listing metadata.
func (r *RunRecord) ToInfo() RunInfo {
	return RunInfo{
		RunID:     r.RunID,
		Exercise:  r.Config.Exercise,
		Status:    r.Status,
		Objective: r.Objective,
		Feasible:  r.Feasible,
		Timestamp: r.Timestamp,
	}
}
