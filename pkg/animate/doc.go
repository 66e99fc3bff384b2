// Package animate drives the timed rotation sweep of the grid.
//
// A [Driver] toggles a single continuous sweep of rotationY from its current
// value to one full turn further. Progress is derived from wall-clock time
// elapsed since the sweep started, not from frame counts, so the sweep lasts
// BaseDuration/speed regardless of frame rate. The angle is eased with
// [EaseInOutCubic].
//
// Each frame the driver hands the interpolated angle to its Observe hook
// (the shape morph controller) before the Commit hook writes it into the
// settings. Toggling while a sweep runs cancels the pending frame and leaves
// the rotation at its current interpolated value.
package animate
