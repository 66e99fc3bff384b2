// Package grid lays out the flat shape grid that every other stage works on.
//
// A [Config] describes the structural parameters of a grid: dimensions,
// spacing, the initial shape kind and its size. [Generate] turns a config into
// an ordered slice of [Unit] values whose baseline positions are centered on
// the origin. Baselines are set once and never mutated; poses are derived
// from them by package transform.
//
// # Layout
//
// Units are produced in row-major order (row 0 all columns, then row 1, ...).
// For a unit at (row, col):
//
//	x = col*ColSpacing - (Cols-1)*ColSpacing/2
//	y = row*RowSpacing - (Rows-1)*RowSpacing/2
//	z = 0
//
// # Width Scaling
//
// Elongated shapes can widen linearly from the first to the last column.
// [ScaledWidth] computes the ramp, and [DimensionsFor] resolves the full size
// of one unit so that fill and stroke geometry share a single result.
//
// Generate does not validate its input. Callers reject malformed configs
// with [Validate] before generating.
package grid
