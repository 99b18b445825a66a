package world

import "errors"

var (
	// ErrFractionOutOfRange is returned by Wall.ColorAt for t outside [0, 1].
	ErrFractionOutOfRange = errors.New("wall fraction out of range [0, 1]")

	// ErrNoCoveringSegment means a wall's segments failed to cover a
	// queried distance. Segment generation guarantees coverage, so this
	// indicates a defect.
	ErrNoCoveringSegment = errors.New("no segment covers wall position")

	// ErrDegenerateWall is returned when a wall's endpoints coincide or are
	// not finite.
	ErrDegenerateWall = errors.New("degenerate wall")

	// ErrTooFewVertices is returned when a map has fewer than two vertices.
	ErrTooFewVertices = errors.New("map needs at least two vertices")

	// ErrInvalidSegmentLength is returned when the paint stream cannot
	// produce a positive segment length, or when the expected segment
	// length is too small to paint a wall in MaxSegmentsPerWall segments.
	ErrInvalidSegmentLength = errors.New("invalid segment length")
)
