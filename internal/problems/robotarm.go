package problems

import (
	"fmt"
	"math"

	"github.com/jrenard/optiex/internal/model"
)

// RobotArmParams describes the two-link planar arm: reach a target point with
// the end effector while keeping the midpoint of the first link outside a
// disk obstacle, within joint and (for trajectories) velocity limits.
type RobotArmParams struct {
	L1, L2             float64 // link lengths
	TargetX, TargetY   float64
	ObstacleX          float64
	ObstacleY          float64
	ObstacleR          float64
	Theta1Min          float64
	Theta1Max          float64
	Theta2Min          float64
	Theta2Max          float64
	DTheta1Max         float64 // per-step joint velocity limits
	DTheta2Max         float64
	Theta1Init         float64 // initial configuration for trajectories
	Theta2Init         float64
	MotionPenaltyCoeff float64 // weight on total joint motion in trajectories
}

// DefaultRobotArm returns the classic instance: links 1.0/0.8, target
// (1.2, 0.6), a radius-0.2 disk at (0.5, 0).
func DefaultRobotArm() RobotArmParams {
	return RobotArmParams{
		L1: 1.0, L2: 0.8,
		TargetX: 1.20, TargetY: 0.60,
		ObstacleX: 0.50, ObstacleY: 0.00, ObstacleR: 0.20,
		Theta1Min: -math.Pi, Theta1Max: math.Pi,
		Theta2Min: -0.75 * math.Pi, Theta2Max: 0.75 * math.Pi,
		DTheta1Max: 0.25 * math.Pi, DTheta2Max: 0.25 * math.Pi,
		Theta1Init: 0, Theta2Init: 0,
		MotionPenaltyCoeff: 0.01,
	}
}

// ArmPose holds the forward kinematics of one joint configuration.
type ArmPose struct {
	Theta1, Theta2 float64
	ElbowX, ElbowY float64 // end of link 1
	X, Y           float64 // end effector
	MidX, MidY     float64 // midpoint of link 1
}

// Pose computes the forward kinematics for a joint configuration.
func (p RobotArmParams) Pose(theta1, theta2 float64) ArmPose {
	return ArmPose{
		Theta1: theta1,
		Theta2: theta2,
		ElbowX: p.L1 * math.Cos(theta1),
		ElbowY: p.L1 * math.Sin(theta1),
		X:      p.L1*math.Cos(theta1) + p.L2*math.Cos(theta1+theta2),
		Y:      p.L1*math.Sin(theta1) + p.L2*math.Sin(theta1+theta2),
		MidX:   0.5 * p.L1 * math.Cos(theta1),
		MidY:   0.5 * p.L1 * math.Sin(theta1),
	}
}

// obstacleClearance is negative when the link midpoint is safely outside the
// obstacle disk.
func (p RobotArmParams) obstacleClearance(theta1 float64) float64 {
	mx := 0.5 * p.L1 * math.Cos(theta1)
	my := 0.5 * p.L1 * math.Sin(theta1)
	dx := mx - p.ObstacleX
	dy := my - p.ObstacleY
	return p.ObstacleR*p.ObstacleR - (dx*dx + dy*dy)
}

// RobotArm builds the single-pose model with variables theta1, theta2:
// minimize the squared distance from the end effector to the target. All
// positions are derived from the joint angles, so the kinematic equalities
// of the original formulation disappear into the objective.
func RobotArm(p RobotArmParams) *model.Model {
	m := model.New("robot_arm")
	m.AddVar("theta1", p.Theta1Min, p.Theta1Max)
	m.AddVar("theta2", p.Theta2Min, p.Theta2Max)

	m.SetObjective(model.Minimize, func(x []float64) float64 {
		pose := p.Pose(x[0], x[1])
		dx := pose.X - p.TargetX
		dy := pose.Y - p.TargetY
		return dx*dx + dy*dy
	})

	m.AddLe("obstacle", func(x []float64) float64 {
		return p.obstacleClearance(x[0])
	})

	// The target is reachable, so zero distance bounds the objective.
	m.SetBestBound(0)
	return m
}

// RobotArmTrajectory builds the T-step trajectory model. The arm starts at
// the initial configuration (step 0 is fixed, not a variable); variables are
// theta1 and theta2 for steps 1..T-1. The objective is the final squared
// distance to the target plus a small penalty on total joint motion.
func RobotArmTrajectory(p RobotArmParams, steps int) *model.Model {
	if steps < 2 {
		steps = 2
	}
	n := steps - 1 // decision steps

	m := model.New("robot_arm_trajectory")
	m.AddVars("theta1", n, p.Theta1Min, p.Theta1Max)
	m.AddVars("theta2", n, p.Theta2Min, p.Theta2Max)

	angles := func(x []float64, t int) (float64, float64) {
		if t == 0 {
			return p.Theta1Init, p.Theta2Init
		}
		return x[t-1], x[n+t-1]
	}

	m.SetObjective(model.Minimize, func(x []float64) float64 {
		th1, th2 := angles(x, steps-1)
		pose := p.Pose(th1, th2)
		dx := pose.X - p.TargetX
		dy := pose.Y - p.TargetY
		cost := dx*dx + dy*dy

		for t := 1; t < steps; t++ {
			a1, a2 := angles(x, t)
			b1, b2 := angles(x, t-1)
			cost += p.MotionPenaltyCoeff * ((a1-b1)*(a1-b1) + (a2-b2)*(a2-b2))
		}
		return cost
	})

	for t := 1; t < steps; t++ {
		t := t
		m.AddLe(fmt.Sprintf("obstacle_%d", t), func(x []float64) float64 {
			th1, _ := angles(x, t)
			return p.obstacleClearance(th1)
		})
		m.AddLe(fmt.Sprintf("vel1_%d", t), func(x []float64) float64 {
			a1, _ := angles(x, t)
			b1, _ := angles(x, t-1)
			return math.Abs(a1-b1) - p.DTheta1Max
		})
		m.AddLe(fmt.Sprintf("vel2_%d", t), func(x []float64) float64 {
			_, a2 := angles(x, t)
			_, b2 := angles(x, t-1)
			return math.Abs(a2-b2) - p.DTheta2Max
		})
	}

	m.SetBestBound(0)
	return m
}

// TrajectoryPoses decodes a solved trajectory point into per-step poses,
// including the fixed initial configuration.
func TrajectoryPoses(p RobotArmParams, steps int, x []float64) []ArmPose {
	if steps < 2 {
		steps = 2
	}
	n := steps - 1
	poses := make([]ArmPose, steps)
	poses[0] = p.Pose(p.Theta1Init, p.Theta2Init)
	for t := 1; t < steps; t++ {
		poses[t] = p.Pose(x[t-1], x[n+t-1])
	}
	return poses
}
