package main

import (
	"fmt"
	"math"
	"os"
	"text/tabwriter"
	"time"

	"github.com/jrenard/optiex/internal/problems"
	"github.com/jrenard/optiex/internal/solve"
	"github.com/jrenard/optiex/internal/stall"
	"github.com/spf13/cobra"
)

var stagnationCmd = &cobra.Command{
	Use:   "stagnation",
	Short: "Demonstrate gap stagnation termination on a hard knapsack",
	Long: `Runs a multi-constraint knapsack whose relaxation bound is loose, so
the optimality gap plateaus long before the iteration budget runs out.
The stagnation monitor watches the gap over a sliding window and stops
the run once the improvement over that window falls below the threshold.
Prints the observed gap trajectory afterwards.`,
	RunE: runStagnation,
}

var (
	stagnationItems       int
	stagnationConstraints int
)

func init() {
	stagnationCmd.Flags().IntVar(&stagnationItems, "items", 30, "Number of items")
	stagnationCmd.Flags().IntVar(&stagnationConstraints, "constraints", 5, "Number of capacity constraints")
	addSolveFlags(stagnationCmd)
	rootCmd.AddCommand(stagnationCmd)
}

func runStagnation(cmd *cobra.Command, args []string) error {
	inst := problems.GenerateMultiKnapsack(stagnationItems, stagnationConstraints, uint64(seed))
	m := problems.MultiKnapsack(inst)

	monitor, err := stall.New(stall.Config{
		Window:         stallWindow,
		MinImprovement: stallMinImprovement,
	})
	if err != nil {
		return err
	}

	type trackPoint struct {
		sample   stall.Sample
		decision stall.Decision
	}
	var trajectory []trackPoint

	engine := solve.NewMayfly()
	result, err := engine.Solve(m, solve.Options{
		Iterations: iters,
		Population: popSize,
		Seed:       seed,
		Stop:       monitor,
		Progress: func(s stall.Sample, d stall.Decision) {
			trajectory = append(trajectory, trackPoint{sample: s, decision: d})
		},
	})
	if err != nil {
		return fmt.Errorf("solve failed: %w", err)
	}

	fmt.Printf("Gap trajectory (%d samples):\n\n", len(trajectory))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ELAPSED\tBOUND\tINCUMBENT\tGAP\tDECISION")
	for _, p := range trajectory {
		s := p.sample
		if !s.HasIncumbent {
			fmt.Fprintf(w, "%s\t%.2f\t-\t-\t%s\n",
				s.Elapsed.Round(time.Millisecond), s.BestBound, p.decision)
			continue
		}
		gap := stall.Gap(s.Incumbent, s.BestBound)
		fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.4f\t%s\n",
			s.Elapsed.Round(time.Millisecond), s.BestBound, s.Incumbent, gap, p.decision)
	}
	w.Flush()

	fmt.Printf("\nstatus: %s\n", result.Status)
	switch result.Status {
	case solve.StatusInterrupted:
		fmt.Printf("terminated early: gap improved less than %g over %s\n",
			stallMinImprovement, stallWindow)
	case solve.StatusOptimal:
		fmt.Println("gap closed, solution proven optimal")
	}
	if !math.IsInf(result.Gap, 0) {
		fmt.Printf("final gap: %.4f\n", result.Gap)
	}
	return nil
}
