// Package render defines the boundary between the grid core and whatever
// draws it.
//
// # Adapter
//
// The core never draws. It owns geometry, material and mesh handles obtained
// from an [Adapter] and writes computed poses to them. Every handle has
// exactly one owner, and every replacement (width change, shape morph,
// regeneration) releases the previous handle explicitly before dropping it.
//
// The [scene] subpackage provides a retained in-memory adapter used by tests,
// the CLI and the HTTP API. Snapshot exporters live in [sink].
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert SVG snapshots using the external rsvg-convert
// tool (from librsvg).
//
//	svg := sink.RenderSVG(sc, sink.WithBackground("#ffffff"))
//	pdf, err := render.ToPDF(ctx, svg)
//
// [scene]: github.com/matzehuels/shapegrid/pkg/render/scene
// [sink]: github.com/matzehuels/shapegrid/pkg/render/sink
package render
