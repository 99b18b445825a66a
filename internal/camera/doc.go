// Package camera implements a 2D pinhole camera that renders a wall world
// by ray casting.
//
// The camera owns its intrinsics K (fixed for its lifetime) and its pose
// (position and yaw in the world plane). Extrinsics C2W, W2C and the
// projection P = K·W2C[:3,:] are derived lazily and cached; changing the
// pose invalidates them, never K.
//
// Frames are 1-pixel-tall strips in the usual deployment, though any
// height is accepted. Each pixel's ray is tested against every wall; see
// Visibility for how overlapping walls are resolved.
//
// A Camera is not safe for concurrent use. Pose setters must not run
// while RenderFrame is in progress on the same camera.
package camera
