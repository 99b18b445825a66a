// Package view draws what the camera sees for a human: a plot of the map
// with the camera's field of view, and the rendered strip enlarged
// underneath it.
package view
