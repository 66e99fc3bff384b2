// Package morph decides when the animated grid swaps its shapes.
//
// A [Controller] is a two-state machine: the dominant shape kind is either
// disc or quad. It watches the animated rotation angle and flips the
// dominant kind each time the angle passes π/2 or 3π/2, the two angles at
// which the grid is edge-on to the viewer and a geometry swap is invisible.
//
// A watermark holding the angle of the last trigger prevents the controller
// from firing repeatedly while the angle lingers near a boundary across
// several frames. The controller only decides; applying the swap to units
// and render resources is the caller's job.
//
// Only the rotation animation feeds a controller. Manual rotation edits
// never reach it.
package morph
