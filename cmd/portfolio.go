package main

import (
	"fmt"

	"github.com/jrenard/optiex/internal/problems"
	"github.com/spf13/cobra"
)

var portfolioDataPath string

var portfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Solve a minimum-risk portfolio selection",
	Long: `Minimizes portfolio variance subject to a target expected return, a
full-budget allocation, and a cap on the number of held assets. The
instance (covariance matrix, expected returns, limits) is read from a
JSON file.`,
	RunE: runPortfolio,
}

func init() {
	portfolioCmd.Flags().StringVar(&portfolioDataPath, "data", "", "Portfolio instance JSON file (required)")
	portfolioCmd.MarkFlagRequired("data")
	addSolveFlags(portfolioCmd)
	rootCmd.AddCommand(portfolioCmd)
}

func runPortfolio(cmd *cobra.Command, args []string) error {
	data, err := problems.LoadPortfolio(portfolioDataPath)
	if err != nil {
		return err
	}
	m := problems.Portfolio(data)

	result, err := solveExercise("portfolio", m)
	if err != nil {
		return err
	}

	fmt.Println("\nallocation:")
	held := 0
	for i := 0; i < data.NumAssets; i++ {
		if result.X[i] > 1e-4 {
			fmt.Printf("  asset %d: %.4f\n", i, result.X[i])
			held++
		}
	}
	fmt.Printf("assets held: %d / %d (max %d)\n", held, data.NumAssets, data.MaxAssets)
	fmt.Printf("expected return: %.4f (target %.4f)\n",
		problems.PortfolioReturn(data, result.X), data.TargetReturn)
	return nil
}
