package trajectory

import (
	"github.com/banshee-data/stripcam/internal/geometry"
)

// Pose is a camera position and yaw.
type Pose struct {
	Position geometry.Vec2
	Yaw      float64
}

// Linear returns n poses starting at start, each offset from the last by
// step in position and yawStep in yaw.
func Linear(start Pose, step geometry.Vec2, yawStep float64, n int) []Pose {
	if n <= 0 {
		return nil
	}
	poses := make([]Pose, n)
	for i := range poses {
		k := float64(i)
		poses[i] = Pose{
			Position: start.Position.Add(step.Scale(k)),
			Yaw:      start.Yaw + yawStep*k,
		}
	}
	return poses
}
