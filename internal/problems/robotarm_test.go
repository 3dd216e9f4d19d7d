package problems

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoseForwardKinematics(t *testing.T) {
	p := DefaultRobotArm()

	// Fully stretched along the x axis.
	pose := p.Pose(0, 0)
	assert.InDelta(t, p.L1+p.L2, pose.X, 1e-12)
	assert.InDelta(t, 0, pose.Y, 1e-12)
	assert.InDelta(t, p.L1, pose.ElbowX, 1e-12)
	assert.InDelta(t, 0.5*p.L1, pose.MidX, 1e-12)

	// First link straight up, second folded back horizontally.
	pose = p.Pose(math.Pi/2, -math.Pi/2)
	assert.InDelta(t, p.L2, pose.X, 1e-12)
	assert.InDelta(t, p.L1, pose.Y, 1e-12)
}

func TestRobotArmModel(t *testing.T) {
	p := DefaultRobotArm()
	m := RobotArm(p)

	require.Equal(t, 2, m.Dim())

	// theta1 = 0 puts the link-1 midpoint at (0.5, 0), the obstacle
	// center: maximal violation.
	assert.False(t, m.Feasible([]float64{0, 0}, 1e-9))

	// Pointing straight up clears the obstacle by a wide margin.
	up := []float64{math.Pi / 2, 0}
	assert.True(t, m.Feasible(up, 1e-9))

	// The objective is the squared distance to the target.
	pose := p.Pose(math.Pi/2, 0)
	want := (pose.X-p.TargetX)*(pose.X-p.TargetX) + (pose.Y-p.TargetY)*(pose.Y-p.TargetY)
	assert.InDelta(t, want, m.Objective(up), 1e-12)
}

func TestRobotArmTrajectoryModel(t *testing.T) {
	p := DefaultRobotArm()
	steps := 5
	m := RobotArmTrajectory(p, steps)

	// Two joints for each of the steps-1 decision steps.
	require.Equal(t, 2*(steps-1), m.Dim())

	// Staying put forever: velocities are zero, but theta1 = 0 sits on the
	// obstacle, so the trajectory is infeasible.
	still := make([]float64, m.Dim())
	assert.False(t, m.Feasible(still, 1e-9))

	// Swinging up in 0.2*pi increments stays within the 0.25*pi velocity
	// limit, and every visited theta1 keeps the link midpoint clear of the
	// obstacle disk.
	n := steps - 1
	x := make([]float64, 2*n)
	for t2 := 1; t2 <= n; t2++ {
		x[t2-1] = float64(t2) * 0.2 * math.Pi // theta1 ramp
		x[n+t2-1] = 0
	}
	assert.True(t, m.Feasible(x, 1e-9), "violation: %g", m.Violation(x))
}

func TestTrajectoryPoses(t *testing.T) {
	p := DefaultRobotArm()
	steps := 3
	x := []float64{0.3, 0.6, -0.1, -0.2}

	poses := TrajectoryPoses(p, steps, x)
	require.Len(t, poses, steps)

	assert.Equal(t, p.Theta1Init, poses[0].Theta1)
	assert.Equal(t, 0.3, poses[1].Theta1)
	assert.Equal(t, -0.2, poses[2].Theta2)
}
