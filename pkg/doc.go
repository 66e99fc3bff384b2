// Package pkg provides the core libraries for Shapegrid.
//
// # Overview
//
// Shapegrid generates rectangular grids of discs and quads, wraps them onto a
// cylinder, colors them from a seeded three-group palette and morphs their
// shapes while the grid spins about its Y axis. The pkg directory is organized
// into four areas:
//
//  1. Core: [grid], [transform], [palette], [morph], [animate], [frame]
//  2. Rendering: [render] and its [render/scene] and [render/sink] subpackages
//  3. Orchestration: [settings], [pipeline]
//  4. Infrastructure: [project], [cache], [api], [httputil], [errors],
//     [observability], [buildinfo]
//
// # Architecture
//
// The typical data flow:
//
//	settings record (JSON, TOML, share token)
//	         ↓
//	    [settings] package (defaults, validation, diffing)
//	         ↓
//	    [pipeline] Runner (generate → assign groups → pose → morph/animate)
//	         ↓
//	    [render] Adapter (retained scene, or any other backend)
//	         ↓
//	    [render/sink] JSON, SVG, PNG, PDF, DOT snapshots
//
// # Quick Start
//
// Render a snapshot of the default grid:
//
//	sn := pipeline.NewSnapshotter(nil, nil, logger)
//	snap, err := sn.Render(ctx, settings.Default(), pipeline.SnapshotOptions{
//	    Formats: []string{pipeline.FormatSVG},
//	})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("grid.svg", snap.Artifacts[pipeline.FormatSVG], 0o644)
//
// Drive a live grid:
//
//	r := pipeline.New(scene.New(), pipeline.Options{Logger: logger})
//	r.Load(ctx, s)
//	r.ToggleAnimation(ctx)
//	for r.Animating() {
//	    r.Advance(<-ticker.C)
//	}
//
// # Main Packages
//
// [grid] - Unit generation: baseline positions, per-column widths, shape kinds.
//
// [transform] - Cylindrical wrap around X or Y plus whole-grid rotation and
// offset. Poses are always recomputed from baselines.
//
// [palette] - Hex colors, group probabilities and the seeded generator that
// assigns units to color groups reproducibly.
//
// [morph] - Boundary detection at ±π/2 that flips the dominant shape kind
// twice per full turn.
//
// [animate] and [frame] - Eased rotation sweeps on a per-frame scheduler with
// cancellable requests and one-frame debouncing.
//
// [project] - Named settings records in memory, file, Redis or MongoDB
// stores, and URL-safe share tokens.
//
// [api] - chi HTTP server and matching client for projects, snapshots and
// share links.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...
//	SHAPEGRID_REDIS_ADDR=localhost:6379 go test ./pkg/project/...
//	SHAPEGRID_MONGO_URI=mongodb://localhost:27017 go test ./pkg/project/...
package pkg
