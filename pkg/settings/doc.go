// Package settings defines the flat settings record that crosses every
// persistence boundary: project stores, share links, settings files and
// the HTTP API.
//
// # Record
//
// [Settings] has one typed field for every grid, transform and color-group
// parameter, plus the color seed and the animation speed. It is a value:
// callers edit a copy and hand the new snapshot to the pipeline, which diffs
// it against the previous one with [Diff].
//
// # Decoding
//
// [Parse] reads JSON or TOML strictly. Fields missing from the input keep
// their [Default] values. Unknown keys are rejected with
// UNKNOWN_FIELD, except camera keys (view state, not generation state),
// which are dropped and logged at debug level.
//
// # Color Seed
//
// ColorSeed is optional in the record. [Settings.EnsureSeed] fills it with a
// fresh random seed and logs the substitution, so a record that was shared
// or saved afterwards reproduces the same coloring.
package settings
