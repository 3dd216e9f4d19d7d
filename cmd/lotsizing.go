package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/jrenard/optiex/internal/problems"
	"github.com/spf13/cobra"
)

var lotSizingDataPath string

var lotSizingCmd = &cobra.Command{
	Use:   "lotsizing",
	Short: "Solve a single-item lot sizing plan",
	Long: `Plans production over a multi-period horizon against known demand,
trading off variable, setup, and holding costs under minimum batch and
capacity limits. The instance is read from a JSON file.`,
	RunE: runLotSizing,
}

func init() {
	lotSizingCmd.Flags().StringVar(&lotSizingDataPath, "data", "", "Lot sizing instance JSON file (required)")
	lotSizingCmd.MarkFlagRequired("data")
	addSolveFlags(lotSizingCmd)
	rootCmd.AddCommand(lotSizingCmd)
}

func runLotSizing(cmd *cobra.Command, args []string) error {
	data, err := problems.LoadLotSizing(lotSizingDataPath)
	if err != nil {
		return err
	}
	m := problems.LotSizing(data)

	result, err := solveExercise("lotsizing", m)
	if err != nil {
		return err
	}

	production := result.X[:data.Horizon]
	stocks := data.Stocks(production)

	fmt.Println("\nproduction plan:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PERIOD\tDEMAND\tPRODUCE\tSTOCK")
	for t := 0; t < data.Horizon; t++ {
		fmt.Fprintf(w, "%d\t%.1f\t%.1f\t%.1f\n", t+1, data.Demand[t], production[t], stocks[t])
	}
	w.Flush()
	return nil
}
