// Package world owns the wall world the camera looks at.
//
// A Map is an ordered list of Walls built from a vertex polyline. Each Wall
// is painted once, at construction, into coloured Segments by a
// PaintStream: a seeded random stream owned by whoever builds the map.
// Two maps built from the same vertices and seed are identical.
//
// Maps are read-only after construction and safe to share between
// goroutines.
package world
