package main

import (
	"fmt"
	"math"

	"github.com/jrenard/optiex/internal/plot"
	"github.com/jrenard/optiex/internal/problems"
	"github.com/spf13/cobra"
)

var (
	armTrajectory bool
	armSteps      int
	armPlotPath   string
)

var robotArmCmd = &cobra.Command{
	Use:   "robotarm",
	Short: "Point a two-link robot arm at a target",
	Long: `Finds joint angles that bring the end effector of a two-link planar arm
to the target point while the first link avoids a disk obstacle. With
--trajectory, plans a whole motion from the initial configuration under
per-step joint velocity limits instead of a single pose.`,
	RunE: runRobotArm,
}

func init() {
	robotArmCmd.Flags().BoolVar(&armTrajectory, "trajectory", false, "Plan a multi-step motion instead of a single pose")
	robotArmCmd.Flags().IntVar(&armSteps, "steps", 10, "Number of trajectory steps")
	robotArmCmd.Flags().StringVar(&armPlotPath, "plot", "", "Write a workspace PNG to this path")
	addSolveFlags(robotArmCmd)
	rootCmd.AddCommand(robotArmCmd)
}

func runRobotArm(cmd *cobra.Command, args []string) error {
	p := problems.DefaultRobotArm()

	if armTrajectory {
		return runArmTrajectory(p)
	}

	m := problems.RobotArm(p)
	result, err := solveExercise("robotarm", m)
	if err != nil {
		return err
	}

	pose := p.Pose(result.X[0], result.X[1])
	fmt.Printf("theta1: %.4f rad\n", pose.Theta1)
	fmt.Printf("theta2: %.4f rad\n", pose.Theta2)
	fmt.Printf("end effector: (%.4f, %.4f), target (%.2f, %.2f)\n",
		pose.X, pose.Y, p.TargetX, p.TargetY)

	if armPlotPath != "" {
		scene := plot.RobotArmScene(p, []problems.ArmPose{pose})
		if err := scene.SavePNG(armPlotPath); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", armPlotPath)
	}
	return nil
}

func runArmTrajectory(p problems.RobotArmParams) error {
	m := problems.RobotArmTrajectory(p, armSteps)
	result, err := solveExercise("robotarm_trajectory", m)
	if err != nil {
		return err
	}

	poses := problems.TrajectoryPoses(p, armSteps, result.X)
	fmt.Println("\ntrajectory:")
	for t, pose := range poses {
		fmt.Printf("  step %2d: theta=(%.3f, %.3f) effector=(%.3f, %.3f)\n",
			t, pose.Theta1, pose.Theta2, pose.X, pose.Y)
	}
	final := poses[len(poses)-1]
	fmt.Printf("final distance to target: %.4f\n",
		math.Hypot(final.X-p.TargetX, final.Y-p.TargetY))

	if armPlotPath != "" {
		scene := plot.RobotArmScene(p, poses)
		if err := scene.SavePNG(armPlotPath); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", armPlotPath)
	}
	return nil
}
