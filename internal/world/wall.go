package world

import (
	"fmt"
	"image/color"
	"math"

	"github.com/banshee-data/stripcam/internal/geometry"
)

const (
	// MinWallLength is the shortest wall accepted by NewWall.
	MinWallLength = 1e-9

	// MaxSegmentsPerWall bounds length/expected segment length for one wall.
	MaxSegmentsPerWall = 1_000_000
)

// Segment is a constant-colour stretch of a wall, from T1 to T2 measured in
// world units from the wall's first vertex.
type Segment struct {
	T1, T2 float64
	Color  color.RGBA
}

// Length returns T2 - T1.
func (s Segment) Length() float64 { return s.T2 - s.T1 }

// Contains reports whether distance d lies within [T1, T2].
func (s Segment) Contains(d float64) bool { return s.T1 <= d && d <= s.T2 }

// Wall is a straight line from Vertex1 to Vertex2 painted with Segments.
// Segments are ordered, contiguous, and cover [0, Length()] exactly.
type Wall struct {
	Vertex1  geometry.Vec2
	Vertex2  geometry.Vec2
	Segments []Segment

	length float64
}

// NewWall builds a wall and paints it from paint.
func NewWall(v1, v2 geometry.Vec2, paint *PaintStream) (*Wall, error) {
	if !v1.IsFinite() || !v2.IsFinite() {
		return nil, fmt.Errorf("%w: non-finite vertex %v -> %v", ErrDegenerateWall, v1, v2)
	}
	length := geometry.Distance(v1, v2)
	if length < MinWallLength {
		return nil, fmt.Errorf("%w: %v -> %v has length %g", ErrDegenerateWall, v1, v2, length)
	}

	segments, err := paintSegments(length, paint)
	if err != nil {
		return nil, fmt.Errorf("paint wall %v -> %v: %w", v1, v2, err)
	}

	return &Wall{
		Vertex1:  v1,
		Vertex2:  v2,
		Segments: segments,
		length:   length,
	}, nil
}

// paintSegments splits [0, length] into segments drawn from paint. The last
// segment is clipped so it ends exactly at length.
func paintSegments(length float64, paint *PaintStream) ([]Segment, error) {
	expected := length / paint.ExpectedLength()
	if !(expected <= MaxSegmentsPerWall) {
		return nil, fmt.Errorf("%w: wall of length %g needs ~%g segments of %g (max %d)",
			ErrInvalidSegmentLength, length, expected, paint.ExpectedLength(), MaxSegmentsPerWall)
	}

	segments := make([]Segment, 0, int(expected)+1)
	painted := 0.0
	for painted < length {
		l, err := paint.nextLength()
		if err != nil {
			return nil, err
		}
		c := paint.nextColor()

		next := math.Min(painted+l, length)
		if next <= painted {
			return nil, fmt.Errorf("%w: draw %g makes no progress at %g", ErrInvalidSegmentLength, l, painted)
		}
		segments = append(segments, Segment{T1: painted, T2: next, Color: c})
		tracef("segment [%.3f, %.3f] rgb(%d,%d,%d)", painted, next, c.R, c.G, c.B)
		painted = next
	}
	return segments, nil
}

// Length returns the wall's length in world units.
func (w *Wall) Length() float64 { return w.length }

// Direction returns the unit vector from Vertex1 to Vertex2.
func (w *Wall) Direction() geometry.Vec2 {
	return w.Vertex2.Sub(w.Vertex1).Scale(1 / w.length)
}

// PointAt returns the world point at fraction t along the wall.
func (w *Wall) PointAt(t float64) geometry.Vec2 {
	return geometry.Lerp(w.Vertex1, w.Vertex2, t)
}

// ColorAt returns the colour at fraction t in [0, 1] along the wall.
func (w *Wall) ColorAt(t float64) (color.RGBA, error) {
	if !(t >= 0 && t <= 1) {
		return color.RGBA{}, fmt.Errorf("%w: %v", ErrFractionOutOfRange, t)
	}

	d := t * w.length
	for _, s := range w.Segments {
		if s.Contains(d) {
			return s.Color, nil
		}
	}

	opsf("no segment covers distance %.6f on wall %v -> %v (%d segments)", d, w.Vertex1, w.Vertex2, len(w.Segments))
	return color.RGBA{}, fmt.Errorf("%w: distance %v of %v", ErrNoCoveringSegment, d, w.length)
}
