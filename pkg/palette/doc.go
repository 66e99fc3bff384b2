// Package palette assigns grid units to color groups.
//
// A palette has three [Group] presets, each with a fill color, a stroke
// color and a relative frequency. [Assign] walks the units in generation
// order and draws one value per unit from an [LCG], a small linear
// congruential generator:
//
//	state' = (state*9301 + 49297) mod 233280
//	r      = state' / 233280
//
// The draw is classified against the normalized frequencies. The same unit
// order, frequencies and seed always yield the same assignment, which is
// what lets saved and shared projects reproduce their colors exactly.
//
// When no seed is available, callers obtain one from [RandomSeed] and store
// it alongside their settings so the result can be reproduced later.
package palette
