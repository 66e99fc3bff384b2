package sink

import (
	"cmp"
	"encoding/json"
	"math"
	"slices"

	"github.com/matzehuels/shapegrid/pkg/grid"
	"github.com/matzehuels/shapegrid/pkg/palette"
	"github.com/matzehuels/shapegrid/pkg/render"
	"github.com/matzehuels/shapegrid/pkg/render/scene"
)

// discSegments is the number of polygon edges used to approximate a disc.
const discSegments = 32

// Item is one mesh of a snapshot.
type Item struct {
	Mesh     render.MeshID   `json:"mesh"`
	Part     string          `json:"part"`
	Shape    grid.Shape      `json:"shape"`
	Dims     grid.Dimensions `json:"dims"`
	Color    string          `json:"color"`
	Opacity  float64         `json:"opacity"`
	Position grid.Vec3       `json:"position"`
	Rotation grid.Vec3       `json:"rotation"`

	// Outline is the projected polygon in world units, Y up.
	Outline [][2]float64 `json:"-"`
	// Depth is the mean Z of the outline after rotation.
	Depth float64 `json:"-"`

	part  render.Part
	color palette.RGBA
}

// Collect flattens the meshes in sc into items sorted back to front. Meshes
// whose geometry or material has been released are skipped.
func Collect(sc *scene.Scene) []Item {
	meshes := sc.Meshes()
	items := make([]Item, 0, len(meshes))
	for _, m := range meshes {
		g, ok := sc.Geometry(m.Geometry)
		if !ok {
			continue
		}
		mat, ok := sc.Material(m.Material)
		if !ok {
			continue
		}
		it := Item{
			Mesh:     m.ID,
			Part:     g.Part.String(),
			Shape:    g.Dims.Shape,
			Dims:     g.Dims,
			Color:    mat.Color.Hex(),
			Opacity:  mat.Color.A,
			Position: m.Position,
			Rotation: m.Rotation,
			part:     g.Part,
			color:    mat.Color,
		}
		it.Outline, it.Depth = project(g, m.Position, m.Rotation)
		items = append(items, it)
	}

	// Back to front. At equal depth the stroke ring goes under the fill.
	slices.SortStableFunc(items, func(a, b Item) int {
		if c := cmp.Compare(a.Depth, b.Depth); c != 0 {
			return c
		}
		return cmp.Compare(b.part, a.part)
	})
	return items
}

// Bounds returns the extent of all outlines. It returns zeros when items
// is empty.
func Bounds(items []Item) (minX, minY, maxX, maxY float64) {
	if len(items) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, it := range items {
		for _, p := range it.Outline {
			minX, maxX = min(minX, p[0]), max(maxX, p[0])
			minY, maxY = min(minY, p[1]), max(maxY, p[1])
		}
	}
	return minX, minY, maxX, maxY
}

// outline returns the local-space polygon of a geometry part. The stroke
// part is the full shape; the fill is inset by the border fraction on each
// side.
func outline(g render.GeometrySpec) [][2]float64 {
	scale := 1.0
	if g.Part == render.Fill {
		scale = max(1-2*g.Dims.Border, 0)
	}
	w, h := g.Dims.Width*scale/2, g.Dims.Height*scale/2

	if g.Dims.Shape == grid.Quad {
		return [][2]float64{{-w, -h}, {w, -h}, {w, h}, {-w, h}}
	}
	pts := make([][2]float64, discSegments)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / discSegments
		pts[i] = [2]float64{w * math.Cos(a), h * math.Sin(a)}
	}
	return pts
}

// project rotates the local outline by rot (X then Y then Z intrinsic, the
// usual XYZ Euler order), translates it to pos and drops Z.
func project(g render.GeometrySpec, pos, rot grid.Vec3) ([][2]float64, float64) {
	local := outline(g)
	out := make([][2]float64, len(local))
	depth := 0.0
	for i, p := range local {
		v := rotate(grid.Vec3{X: p[0], Y: p[1]}, rot).Add(pos)
		out[i] = [2]float64{v.X, v.Y}
		depth += v.Z
	}
	if len(local) > 0 {
		depth /= float64(len(local))
	}
	return out, depth
}

// rotate applies R = Rx·Ry·Rz to v.
func rotate(v, r grid.Vec3) grid.Vec3 {
	sz, cz := math.Sincos(r.Z)
	v = grid.Vec3{X: v.X*cz - v.Y*sz, Y: v.X*sz + v.Y*cz, Z: v.Z}
	sy, cy := math.Sincos(r.Y)
	v = grid.Vec3{X: v.X*cy + v.Z*sy, Y: v.Y, Z: -v.X*sy + v.Z*cy}
	sx, cx := math.Sincos(r.X)
	return grid.Vec3{X: v.X, Y: v.Y*cx - v.Z*sx, Z: v.Y*sx + v.Z*cx}
}

// Snapshot is the JSON document produced by RenderJSON.
type Snapshot struct {
	Meshes int    `json:"meshes"`
	Items  []Item `json:"items"`
}

// RenderJSON encodes the current scene as indented JSON.
func RenderJSON(sc *scene.Scene) ([]byte, error) {
	items := Collect(sc)
	return json.MarshalIndent(Snapshot{Meshes: len(items), Items: items}, "", "  ")
}
