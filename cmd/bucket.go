package main

import (
	"fmt"

	"github.com/jrenard/optiex/internal/plot"
	"github.com/jrenard/optiex/internal/problems"
	"github.com/spf13/cobra"
)

var bucketPlotPath string

var bucketCmd = &cobra.Command{
	Use:   "bucket",
	Short: "Maximize the volume of a conical bucket",
	Long: `Finds the frustum (bottom radius, top radius, height) of maximum volume
buildable from one square meter of material. The sphere of equal surface
area provides the volume bound.`,
	RunE: runBucket,
}

func init() {
	bucketCmd.Flags().StringVar(&bucketPlotPath, "plot", "", "Write a cross-section PNG to this path")
	addSolveFlags(bucketCmd)
	rootCmd.AddCommand(bucketCmd)
}

func runBucket(cmd *cobra.Command, args []string) error {
	p := problems.DefaultBucket()
	m := problems.Bucket(p)

	result, err := solveExercise("bucket", m)
	if err != nil {
		return err
	}

	r, rTop, h := result.X[0], result.X[1], result.X[2]
	bottom, lateral := problems.BucketSurfaceArea(r, rTop, h)
	fmt.Printf("bottom radius: %.4f m\n", r)
	fmt.Printf("top radius:    %.4f m\n", rTop)
	fmt.Printf("height:        %.4f m\n", h)
	fmt.Printf("volume:        %.4f m^3\n", problems.BucketVolume(r, rTop, h))
	fmt.Printf("surface used:  %.4f m^2\n", bottom+lateral)

	if bucketPlotPath != "" {
		scene := plot.BucketScene(r, rTop, h)
		if err := scene.SavePNG(bucketPlotPath); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", bucketPlotPath)
	}
	return nil
}
