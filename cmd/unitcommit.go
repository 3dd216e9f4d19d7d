package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/jrenard/optiex/internal/problems"
	"github.com/spf13/cobra"
)

var unitCommitCmd = &cobra.Command{
	Use:   "unitcommit",
	Short: "Solve a 24-hour unit commitment",
	Long: `Schedules a fleet of thermal generators over a 24-hour horizon to meet
the load forecast net of solar at minimum cost, counting quadratic
production costs plus startup and shutdown costs.`,
	RunE: runUnitCommit,
}

func init() {
	addSolveFlags(unitCommitCmd)
	rootCmd.AddCommand(unitCommitCmd)
}

func runUnitCommit(cmd *cobra.Command, args []string) error {
	data := problems.DefaultUnitCommitment()
	m := problems.UnitCommitment(data)

	result, err := solveExercise("unitcommit", m)
	if err != nil {
		return err
	}

	schedule := data.Schedule(result.X)

	fmt.Println("\ndispatch:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprint(w, "HOUR\tLOAD\tSOLAR")
	for _, unit := range data.Units {
		fmt.Fprintf(w, "\t%s", unit.Name)
	}
	fmt.Fprintln(w)
	for t := 0; t < data.Horizon(); t++ {
		fmt.Fprintf(w, "%d\t%.1f\t%.1f", t, data.Load[t], data.Solar[t])
		for g := range data.Units {
			fmt.Fprintf(w, "\t%.2f", schedule[g][t])
		}
		fmt.Fprintln(w)
	}
	w.Flush()
	return nil
}
