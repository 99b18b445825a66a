package world

import (
	"fmt"
	"math"

	"github.com/banshee-data/stripcam/internal/geometry"
)

// BuildOptions controls how a Map is painted.
type BuildOptions struct {
	// Seed for the map's PaintStream.
	Seed uint64
	// SegmentLength is the expected segment length; zero selects
	// DefaultSegmentLength.
	SegmentLength float64
	// Closed adds a wall from the last vertex back to the first.
	Closed bool
}

// DefaultBuildOptions returns the reference seed and segment length.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{Seed: DefaultSeed, SegmentLength: DefaultSegmentLength}
}

func (o BuildOptions) segmentLength() float64 {
	if o.SegmentLength == 0 {
		return DefaultSegmentLength
	}
	return o.SegmentLength
}

// Map is an ordered collection of walls.
type Map struct {
	walls []*Wall
}

// Edge is a pair of wall endpoints.
type Edge [2]geometry.Vec2

// NewMap builds walls from consecutive vertex pairs (i, i+1).
func NewMap(vertices []geometry.Vec2, opts BuildOptions) (*Map, error) {
	if len(vertices) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewVertices, len(vertices))
	}

	edges := make([]Edge, 0, len(vertices))
	for i := 0; i+1 < len(vertices); i++ {
		edges = append(edges, Edge{vertices[i], vertices[i+1]})
	}
	if opts.Closed && len(vertices) > 2 {
		edges = append(edges, Edge{vertices[len(vertices)-1], vertices[0]})
	}
	return NewMapFromEdges(edges, opts)
}

// NewMapFromEdges builds one wall per edge, in order. The Closed option is
// ignored. All walls share one PaintStream seeded from opts.
func NewMapFromEdges(edges []Edge, opts BuildOptions) (*Map, error) {
	if len(edges) == 0 {
		return nil, fmt.Errorf("%w: no walls", ErrTooFewVertices)
	}

	paint, err := NewPaintStream(opts.Seed, opts.segmentLength())
	if err != nil {
		return nil, err
	}

	walls := make([]*Wall, 0, len(edges))
	for i, e := range edges {
		w, err := NewWall(e[0], e[1], paint)
		if err != nil {
			opsf("rejecting map: wall %d: %v", i, err)
			return nil, fmt.Errorf("wall %d: %w", i, err)
		}
		walls = append(walls, w)
	}

	segments := 0
	for _, w := range walls {
		segments += len(w.Segments)
	}
	diagf("built map: %d walls, %d segments, seed=%d", len(walls), segments, opts.Seed)

	return &Map{walls: walls}, nil
}

// Walls returns the map's walls in construction order. The slice must be
// treated as read-only.
func (m *Map) Walls() []*Wall { return m.walls }

// Bounds returns the axis-aligned box enclosing every wall vertex.
func (m *Map) Bounds() (min, max geometry.Vec2) {
	min = geometry.V(math.Inf(1), math.Inf(1))
	max = geometry.V(math.Inf(-1), math.Inf(-1))
	for _, w := range m.walls {
		for _, v := range [...]geometry.Vec2{w.Vertex1, w.Vertex2} {
			min = geometry.V(math.Min(min.X, v.X), math.Min(min.Y, v.Y))
			max = geometry.V(math.Max(max.X, v.X), math.Max(max.Y, v.Y))
		}
	}
	return min, max
}
