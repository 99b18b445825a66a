package camera

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/stripcam/internal/geometry"
	"github.com/banshee-data/stripcam/internal/world"
)

// RenderFrame casts one ray per pixel and returns the resulting image.
//
// Pose and matrices are read once at entry. A wall colour lookup failure
// aborts the frame; it means a wall's segments do not cover its length.
func (c *Camera) RenderFrame() (*Frame, error) {
	ext, err := c.extrinsics()
	if err != nil {
		return nil, err
	}
	snap := snapshot{
		kInv:       c.kInv,
		c2w:        ext.c2w,
		position:   c.position,
		visibility: c.visibility,
		walls:      c.walls.Walls(),
	}

	frame := newFrame(c.size.X, c.size.Y)
	frame.Position = c.position
	frame.Yaw = c.yaw

	for x := 0; x < c.size.X; x++ {
		for y := 0; y < c.size.Y; y++ {
			col, err := snap.castRay(float64(x), float64(y))
			if err != nil {
				opsf("render aborted at pixel (%d,%d): %v", x, y, err)
				return nil, fmt.Errorf("pixel (%d,%d): %w", x, y, err)
			}
			frame.set(x, y, col)
		}
	}

	tracef("frame at %v yaw=%.4f: %d walls, coverage %.2f", frame.Position, frame.Yaw, len(snap.walls), frame.Coverage())
	return frame, nil
}

// snapshot is the state one frame is rendered from.
type snapshot struct {
	kInv       *mat.Dense
	c2w        *mat.Dense
	position   geometry.Vec2
	visibility Visibility
	walls      []*world.Wall
}

// imagePlanePoint back-projects pixel (x, y) onto the normalised image
// plane (unit depth in front of the camera centre), in world coordinates.
func (s *snapshot) imagePlanePoint(x, y float64) geometry.Vec2 {
	var dir mat.VecDense
	dir.MulVec(s.kInv, mat.NewVecDense(3, []float64{x, y, 1}))

	var pt mat.VecDense
	pt.MulVec(s.c2w, mat.NewVecDense(4, []float64{dir.AtVec(0), dir.AtVec(1), dir.AtVec(2), 1}))
	w := pt.AtVec(3)
	return geometry.V(pt.AtVec(0)/w, pt.AtVec(1)/w)
}

// castRay returns the colour seen through pixel (x, y).
func (s *snapshot) castRay(x, y float64) (color.RGBA, error) {
	p1 := s.position
	p2 := s.imagePlanePoint(x, y)
	dir := p2.Sub(p1)

	col := Background
	nearest := math.Inf(1)
	for _, wall := range s.walls {
		q1, q2 := wall.Vertex1, wall.Vertex2
		u, ok := geometry.IntersectRaySegment(p1, p2, q1, q2)
		if !ok {
			continue
		}

		// Only hits beyond the image plane count.
		hit := geometry.Lerp(q1, q2, u)
		if dir.Dot(hit.Sub(p2)) <= 0 {
			continue
		}

		if s.visibility == NearestHit {
			d := geometry.Distance(p1, hit)
			if d >= nearest {
				continue
			}
			nearest = d
		}

		wc, err := wall.ColorAt(u)
		if err != nil {
			return color.RGBA{}, err
		}
		col = wc
	}
	return col, nil
}
