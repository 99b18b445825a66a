// Package trajectory drives a camera along a scripted sequence of poses,
// rendering one frame per pose.
//
// Consecutive frames can be handed to a FeatureMatcher, which is where a
// visual-odometry experiment plugs in its detector and descriptor
// matcher. No matcher is provided here.
package trajectory
