package main

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jrenard/optiex/internal/model"
	"github.com/jrenard/optiex/internal/solve"
	"github.com/jrenard/optiex/internal/stall"
	"github.com/jrenard/optiex/internal/store"
	"github.com/spf13/cobra"
)

// Shared solver flags. Every exercise command registers these and funnels
// through solveExercise, so runs behave the same way everywhere.
var (
	iters               int
	popSize             int
	seed                int64
	stallWindow         time.Duration
	stallMinImprovement float64
	noStall             bool
	saveRun             bool
	dataDir             string
)

func addSolveFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&iters, "iters", 200, "Max solver iterations")
	cmd.Flags().IntVar(&popSize, "pop", 30, "Population size")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed")
	cmd.Flags().DurationVar(&stallWindow, "stall-window", 15*time.Second, "Gap stagnation window")
	cmd.Flags().Float64Var(&stallMinImprovement, "stall-min-improvement", 1e-4, "Minimum gap improvement over the window")
	cmd.Flags().BoolVar(&noStall, "no-stall", false, "Disable gap stagnation termination")
	cmd.Flags().BoolVar(&saveRun, "save", false, "Persist the run result under the data directory")
	cmd.Flags().StringVar(&dataDir, "data-dir", "./data", "Base directory for run storage")
}

// applyConfigDefaults copies config file values into flags the user did not
// set explicitly. Flags always win over the config file.
func applyConfigDefaults(cmd *cobra.Command) {
	f := cmd.Flags()
	if !f.Changed("iters") {
		iters = cfg.Engine.Iterations
	}
	if !f.Changed("pop") {
		popSize = cfg.Engine.Population
	}
	if !f.Changed("seed") {
		seed = cfg.Engine.Seed
	}
	if !f.Changed("stall-window") {
		stallWindow = cfg.Stall.Window()
	}
	if !f.Changed("stall-min-improvement") {
		stallMinImprovement = cfg.Stall.MinImprovement
	}
	if !f.Changed("data-dir") && cfg.Server.DataDir != "" {
		dataDir = cfg.Server.DataDir
	}
}

// solveExercise runs one exercise model through the solver with the shared
// flags applied, prints a summary, and optionally persists the result.
func solveExercise(exercise string, m *model.Model) (*solve.Result, error) {
	var stop stall.Policy
	if !noStall {
		monitor, err := stall.New(stall.Config{
			Window:         stallWindow,
			MinImprovement: stallMinImprovement,
		})
		if err != nil {
			return nil, err
		}
		stop = monitor
	}

	engine := solve.NewMayfly()
	result, err := engine.Solve(m, solve.Options{
		Iterations: iters,
		Population: popSize,
		Seed:       seed,
		Stop:       stop,
		Progress: func(s stall.Sample, d stall.Decision) {
			if s.HasIncumbent {
				slog.Debug("Progress",
					"elapsed", s.Elapsed,
					"bound", s.BestBound,
					"incumbent", s.Incumbent,
					"gap", stall.Gap(s.Incumbent, s.BestBound),
					"decision", d,
				)
			}
		},
	})
	if err != nil {
		return nil, fmt.Errorf("solve failed: %w", err)
	}

	reportResult(exercise, result)

	if saveRun {
		if err := persistResult(exercise, m, result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func reportResult(exercise string, result *solve.Result) {
	fmt.Printf("\n=== %s ===\n", exercise)
	fmt.Printf("status:      %s\n", result.Status)
	fmt.Printf("objective:   %.6f\n", result.Objective)
	fmt.Printf("feasible:    %t\n", result.Feasible)
	if !math.IsInf(result.Gap, 0) {
		fmt.Printf("gap:         %.6f\n", result.Gap)
	}
	fmt.Printf("evaluations: %d\n", result.Evaluations)
	fmt.Printf("elapsed:     %s\n", result.Elapsed.Round(time.Millisecond))

	if result.Status == solve.StatusInterrupted {
		fmt.Printf("stopped early: gap improved less than %g over the last %s\n",
			stallMinImprovement, stallWindow)
	}
}

func persistResult(exercise string, m *model.Model, result *solve.Result) error {
	st, err := store.NewFSStore(dataDir)
	if err != nil {
		return fmt.Errorf("failed to create run store: %w", err)
	}

	names := make([]string, 0, m.Dim())
	for _, v := range m.Vars() {
		names = append(names, v.Name)
	}

	runID := uuid.New().String()
	record := &store.RunRecord{
		RunID:       runID,
		Status:      result.Status.String(),
		Objective:   result.Objective,
		GapKnown:    !math.IsInf(result.Gap, 0),
		Feasible:    result.Feasible,
		X:           result.X,
		VarNames:    names,
		Evaluations: result.Evaluations,
		ElapsedSecs: result.Elapsed.Seconds(),
		Timestamp:   time.Now(),
		Config: store.RunConfig{
			Exercise:       exercise,
			Iterations:     iters,
			Population:     popSize,
			Seed:           seed,
			WindowSeconds:  stallWindow.Seconds(),
			MinImprovement: stallMinImprovement,
		},
	}
	if record.GapKnown {
		record.Gap = result.Gap
	}

	if err := st.SaveRun(runID, record); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	fmt.Printf("saved run %s\n", runID)
	return nil
}
