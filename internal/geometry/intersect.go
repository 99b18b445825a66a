package geometry

import "gonum.org/v1/gonum/floats/scalar"

// ParallelTolerance is the absolute cross-product magnitude below which a
// ray and a segment are treated as parallel.
const ParallelTolerance = 1e-8

// IntersectRaySegment intersects the infinite line through p1 and p2 with
// the bounded segment q1→q2.
//
// It returns the parameter u along the segment (hit = q1 + u(q2-q1)) and
// true when the two are not parallel and 0 <= u <= 1. Parallel and
// collinear inputs never intersect, even when they overlap. Hits behind
// p1 are not filtered here; callers decide which side of the ray counts.
func IntersectRaySegment(p1, p2, q1, q2 Vec2) (float64, bool) {
	r := p2.Sub(p1)
	s := q2.Sub(q1)
	sCrossR := s.Cross(r)

	if scalar.EqualWithinAbs(sCrossR, 0, ParallelTolerance) {
		return 0, false
	}

	u := p1.Sub(q1).Cross(r) / sCrossR
	if u < 0 || u > 1 {
		return 0, false
	}
	return u, true
}
