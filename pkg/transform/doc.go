// Package transform computes the pose of each grid unit.
//
// Poses are always derived from a unit's immutable baseline position, never
// from a previous pose. Editing a parameter and setting it back therefore
// restores the original pose exactly, and repeated updates cannot accumulate
// floating-point drift.
//
// [ComputePose] applies three steps in order:
//
//  1. Cylindrical wrap around the configured axis, scaled by curvature.
//  2. Translation by the object position.
//  3. Rotation composition: the wrap angle and the manual rotation are
//     added on the wrap axis; the other manual rotations are applied as-is.
//
// At curvature 0 the wrap is the identity. At curvature 1 the grid lies on
// a cylinder of the configured radius, tangent to the original plane at the
// origin.
package transform
