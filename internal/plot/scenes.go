package plot

import (
	"image/color"

	"github.com/jrenard/optiex/internal/problems"
)

var (
	obstacleColor = color.NRGBA{R: 220, G: 80, B: 80, A: 160}
	targetColor   = color.NRGBA{R: 30, G: 140, B: 30, A: 255}
	armColor      = color.NRGBA{R: 40, G: 70, B: 200, A: 255}
	jointColor    = color.NRGBA{R: 20, G: 20, B: 20, A: 255}
	bucketColor   = color.NRGBA{R: 40, G: 70, B: 200, A: 255}
	axisColor     = color.NRGBA{R: 180, G: 180, B: 180, A: 255}
)

// RobotArmScene renders the arm workspace with the obstacle disk, the target
// point, and one or more poses. With multiple poses (a trajectory), earlier
// poses are drawn faded and the final one at full strength.
func RobotArmScene(p problems.RobotArmParams, poses []problems.ArmPose) *Scene {
	reach := p.L1 + p.L2
	margin := 0.15 * reach
	s := NewScene(800, 800, -reach-margin, reach+margin, -reach-margin, reach+margin)

	s.DrawLine(-reach, 0, reach, 0, 1, axisColor)
	s.DrawLine(0, -reach, 0, reach, 1, axisColor)

	s.FillCircle(p.ObstacleX, p.ObstacleY, p.ObstacleR, obstacleColor)
	s.StrokeCircle(p.ObstacleX, p.ObstacleY, p.ObstacleR, color.NRGBA{R: 160, G: 40, B: 40, A: 255})

	for i, pose := range poses {
		c := armColor
		if len(poses) > 1 && i < len(poses)-1 {
			// Fade intermediate poses from light to dark.
			alpha := 60 + uint8(140*i/(len(poses)-1))
			c = color.NRGBA{R: armColor.R, G: armColor.G, B: armColor.B, A: alpha}
		}
		s.DrawLine(0, 0, pose.ElbowX, pose.ElbowY, 3, c)
		s.DrawLine(pose.ElbowX, pose.ElbowY, pose.X, pose.Y, 3, c)
		s.FillCircle(pose.ElbowX, pose.ElbowY, 0.02*reach, jointColor)
	}
	s.FillCircle(0, 0, 0.025*reach, jointColor)

	s.DrawMarker(p.TargetX, p.TargetY, targetColor)
	s.StrokeCircle(p.TargetX, p.TargetY, 0.02*reach, targetColor)

	return s
}

// BucketScene renders the cross-section of the solved frustum: bottom radius
// r, top radius rTop, height h, drawn symmetric about the vertical axis.
func BucketScene(r, rTop, h float64) *Scene {
	halfWidth := rTop
	if r > halfWidth {
		halfWidth = r
	}
	margin := 0.2 * halfWidth
	if h*0.2 > margin {
		margin = h * 0.2
	}
	s := NewScene(800, 800, -halfWidth-margin, halfWidth+margin, -margin, h+margin)

	s.DrawLine(-halfWidth-margin, 0, halfWidth+margin, 0, 1, axisColor)
	s.DrawLine(0, 0, 0, h, 1, axisColor)

	s.DrawLine(-r, 0, r, 0, 3, bucketColor)      // bottom
	s.DrawLine(-r, 0, -rTop, h, 3, bucketColor)  // left wall
	s.DrawLine(r, 0, rTop, h, 3, bucketColor)    // right wall
	s.DrawLine(-rTop, h, rTop, h, 1, axisColor)  // open rim

	return s
}
