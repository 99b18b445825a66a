package camera

import "errors"

var (
	// ErrInvalidCamera is returned by New for non-positive focal length or
	// image size, or a non-finite pose.
	ErrInvalidCamera = errors.New("invalid camera parameters")

	// ErrSingularPose means C2W could not be inverted. Finite yaw always
	// yields an orthonormal rotation, so this only follows NaN/Inf poses.
	ErrSingularPose = errors.New("camera pose is singular")
)
