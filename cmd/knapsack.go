package main

import (
	"fmt"

	"github.com/jrenard/optiex/internal/problems"
	"github.com/spf13/cobra"
)

var (
	knapsackItems       int
	knapsackConstraints int
)

var knapsackCmd = &cobra.Command{
	Use:   "knapsack",
	Short: "Solve a randomly generated 0/1 knapsack",
	Long: `Generates a knapsack instance with uniform random values and weights,
capacity set to 70% of the total weight, and maximizes the packed value.
The fractional relaxation provides the optimality bound.`,
	RunE: runKnapsack,
}

var multiKnapsackCmd = &cobra.Command{
	Use:   "multiknapsack",
	Short: "Solve a randomly generated multi-constraint knapsack",
	RunE:  runMultiKnapsack,
}

func init() {
	knapsackCmd.Flags().IntVar(&knapsackItems, "items", 20, "Number of items")
	addSolveFlags(knapsackCmd)
	rootCmd.AddCommand(knapsackCmd)

	multiKnapsackCmd.Flags().IntVar(&knapsackItems, "items", 20, "Number of items")
	multiKnapsackCmd.Flags().IntVar(&knapsackConstraints, "constraints", 3, "Number of capacity constraints")
	addSolveFlags(multiKnapsackCmd)
	rootCmd.AddCommand(multiKnapsackCmd)
}

func runKnapsack(cmd *cobra.Command, args []string) error {
	inst := problems.GenerateKnapsack(knapsackItems, uint64(seed))
	m := problems.Knapsack(inst)

	result, err := solveExercise("knapsack", m)
	if err != nil {
		return err
	}

	value, weight := problems.KnapsackSummary(inst, result.X)
	fmt.Printf("packed %d of %d items, value %.2f, weight %.2f / %.2f\n",
		len(problems.SelectedItems(result.X)), knapsackItems, value, weight, inst.Capacity)
	return nil
}

func runMultiKnapsack(cmd *cobra.Command, args []string) error {
	inst := problems.GenerateMultiKnapsack(knapsackItems, knapsackConstraints, uint64(seed))
	m := problems.MultiKnapsack(inst)

	result, err := solveExercise("multiknapsack", m)
	if err != nil {
		return err
	}

	fmt.Printf("packed %d of %d items under %d constraints\n",
		len(problems.SelectedItems(result.X)), knapsackItems, knapsackConstraints)
	return nil
}
