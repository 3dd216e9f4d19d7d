package server

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/jrenard/optiex/internal/model"
	"github.com/jrenard/optiex/internal/problems"
	"github.com/jrenard/optiex/internal/solve"
	"github.com/jrenard/optiex/internal/stall"
	"github.com/jrenard/optiex/internal/store"
)

// executeRun runs one exercise to completion in the background: it builds
// the model, solves it with a stagnation monitor attached, streams progress
// to SSE clients and the trace file, and persists the final record.
func executeRun(rm *RunManager, st store.Store, dataDir string, engine solve.Engine, runID string) error {
	run, exists := rm.GetRun(runID)
	if !exists {
		return fmt.Errorf("run not found: %s", runID)
	}

	if err := rm.UpdateRun(runID, func(r *Run) {
		r.State = StateRunning
	}); err != nil {
		return err
	}

	slog.Info("Starting run", "runID", runID, "exercise", run.Config.Exercise)

	m, err := problems.Build(run.Config.Exercise, problems.BuildOptions{
		Seed:     uint64(run.Config.Seed),
		DataPath: run.Config.DataPath,
	})
	if err != nil {
		markRunFailed(rm, runID, fmt.Errorf("failed to build exercise: %w", err))
		return err
	}

	monitor, err := stall.New(stall.Config{
		Window:         time.Duration(run.Config.WindowSeconds * float64(time.Second)),
		MinImprovement: run.Config.MinImprovement,
	})
	if err != nil {
		markRunFailed(rm, runID, fmt.Errorf("invalid monitor settings: %w", err))
		return err
	}

	trace, err := store.NewTraceWriter(dataDir, runID)
	if err != nil {
		markRunFailed(rm, runID, err)
		return err
	}
	defer trace.Close()

	progress := func(s stall.Sample, d stall.Decision) {
		gap := stall.Gap(s.Incumbent, s.BestBound)
		gapKnown := s.HasIncumbent

		rm.UpdateRun(runID, func(r *Run) {
			r.BestBound = s.BestBound
			r.Incumbent = s.Incumbent
			r.HasIncumbent = s.HasIncumbent
			if gapKnown {
				r.Gap = gap
				r.GapKnown = true
			}
		})

		entry := store.TraceEntry{
			ElapsedSecs: s.Elapsed.Seconds(),
			BestBound:   s.BestBound,
			HasInc:      s.HasIncumbent,
		}
		if gapKnown {
			entry.Incumbent = s.Incumbent
			entry.Gap = gap
		}
		if err := trace.Write(entry); err != nil {
			slog.Warn("Failed to write trace entry", "runID", runID, "error", err)
		}

		event := ProgressEvent{
			RunID:        runID,
			State:        StateRunning,
			ElapsedSecs:  s.Elapsed.Seconds(),
			BestBound:    s.BestBound,
			HasIncumbent: s.HasIncumbent,
			Decision:     d.String(),
			Timestamp:    time.Now(),
		}
		if gapKnown {
			event.Incumbent = s.Incumbent
			event.Gap = gap
		}
		rm.broadcaster.Broadcast(event)
	}

	result, err := engine.Solve(m, solve.Options{
		Iterations: run.Config.Iterations,
		Population: run.Config.Population,
		Seed:       run.Config.Seed,
		Stop:       monitor,
		Progress:   progress,
	})
	if err != nil {
		markRunFailed(rm, runID, err)
		return err
	}

	if err := trace.Flush(); err != nil {
		slog.Warn("Failed to flush trace", "runID", runID, "error", err)
	}

	endTime := time.Now()
	gapKnown := !math.IsInf(result.Gap, 0)
	if err := rm.UpdateRun(runID, func(r *Run) {
		r.State = StateCompleted
		r.Status = result.Status.String()
		r.Objective = result.Objective
		r.Feasible = result.Feasible
		r.Evaluations = result.Evaluations
		if gapKnown {
			r.Gap = result.Gap
			r.GapKnown = true
		}
		r.EndTime = &endTime
	}); err != nil {
		return err
	}

	record := &store.RunRecord{
		RunID:       runID,
		Status:      result.Status.String(),
		Objective:   result.Objective,
		GapKnown:    gapKnown,
		Feasible:    result.Feasible,
		X:           result.X,
		VarNames:    varNames(m.Vars()),
		Evaluations: result.Evaluations,
		ElapsedSecs: result.Elapsed.Seconds(),
		Timestamp:   endTime,
		Config:      run.Config,
	}
	if gapKnown {
		record.Gap = result.Gap
	}
	if err := st.SaveRun(runID, record); err != nil {
		slog.Error("Failed to persist run", "runID", runID, "error", err)
	}

	slog.Info("Run completed",
		"runID", runID,
		"status", result.Status.String(),
		"objective", result.Objective,
		"feasible", result.Feasible,
		"evaluations", result.Evaluations,
		"elapsed", result.Elapsed,
	)

	run, _ = rm.GetRun(runID)
	finalEvent := ProgressEvent{
		RunID:        runID,
		State:        StateCompleted,
		ElapsedSecs:  result.Elapsed.Seconds(),
		BestBound:    run.BestBound,
		HasIncumbent: run.HasIncumbent,
		Evaluations:  result.Evaluations,
		Timestamp:    time.Now(),
	}
	if gapKnown {
		finalEvent.Incumbent = run.Incumbent
		finalEvent.Gap = result.Gap
	}
	rm.broadcaster.Broadcast(finalEvent)

	return nil
}

// varNames extracts the variable names in model order.
func varNames(vars []model.Var) []string {
	names := make([]string, len(vars))
	for i, v := range vars {
		names[i] = v.Name
	}
	return names
}

// markRunFailed marks a run as failed with an error message.
func markRunFailed(rm *RunManager, runID string, err error) {
	endTime := time.Now()
	rm.UpdateRun(runID, func(r *Run) {
		r.State = StateFailed
		r.Error = err.Error()
		r.EndTime = &endTime
	})
	slog.Error("Run failed", "runID", runID, "error", err)
}
