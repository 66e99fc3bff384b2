// Package sink exports snapshots of a [scene.Scene].
//
// A snapshot is the scene as it stands at one instant: every mesh currently
// in the scene together with its geometry, material and pose. Three formats
// are provided:
//
//   - [RenderJSON]: machine-readable dump of every item
//   - [RenderSVG]: orthographic front view, painter-sorted by depth
//   - [ToDOT] and [RenderDOT]: Graphviz document with pinned node
//     positions, laid out by neato and rendered in-process to SVG or PNG
//
// All exporters share [Collect], which flattens the scene into [Item]
// values and projects them with the same camera. The camera looks down the
// negative Z axis; larger Z is closer to the viewer.
//
// [scene.Scene]: github.com/matzehuels/shapegrid/pkg/render/scene
package sink
