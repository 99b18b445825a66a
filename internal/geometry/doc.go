// Package geometry holds the planar primitives shared by the world model
// and the camera: 2D vectors, the yaw rotation about the world vertical
// axis, and ray/segment intersection.
//
// Everything in this package is pure; no function keeps state.
package geometry
