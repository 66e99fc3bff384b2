package pipeline

import (
	"context"

	"github.com/matzehuels/shapegrid/pkg/grid"
	"github.com/matzehuels/shapegrid/pkg/observability"
	"github.com/matzehuels/shapegrid/pkg/palette"
	"github.com/matzehuels/shapegrid/pkg/render"
)

// parts lists the meshes of a unit in draw order.
var parts = [2]render.Part{render.Stroke, render.Fill}

// visual holds the adapter handles of one unit, indexed like parts. The
// runner owns every handle.
type visual struct {
	geometries [2]render.GeometryID
	materials  [2]render.MaterialID
	meshes     [2]render.MeshID
}

func (r *Runner) colorsFor(u grid.Unit) [2]palette.RGBA {
	g := r.palette[u.Group]
	return [2]palette.RGBA{g.StrokeColor(), g.Fill}
}

func (r *Runner) geometriesFor(u grid.Unit) [2]render.GeometrySpec {
	dims := grid.DimensionsFor(r.cfg, u.Shape, u.Col)
	return [2]render.GeometrySpec{
		{Part: parts[0], Dims: dims},
		{Part: parts[1], Dims: dims},
	}
}

func (r *Runner) createVisual(u grid.Unit) visual {
	var v visual
	specs := r.geometriesFor(u)
	colors := r.colorsFor(u)
	for i := range parts {
		v.geometries[i] = r.adapter.NewGeometry(specs[i])
		v.materials[i] = r.adapter.NewMaterial(render.MaterialSpec{Color: colors[i]})
		v.meshes[i] = r.adapter.CreateMesh(v.geometries[i], v.materials[i])
		r.adapter.AddToScene(v.meshes[i])
	}
	return v
}

// swapShapes replaces the geometry of every unit of kind from with geometry
// of kind to. Old geometry is released before the replacement is created.
// Positions and color groups are untouched.
func (r *Runner) swapShapes(from, to grid.Shape) int {
	n := 0
	for i := range r.units {
		u := &r.units[i]
		if u.Shape != from {
			continue
		}
		u.Shape = to
		v := &r.visuals[i]
		specs := r.geometriesFor(*u)
		for j := range parts {
			r.warn(r.adapter.DisposeGeometry(v.geometries[j]), "dispose geometry")
			v.geometries[j] = r.adapter.NewGeometry(specs[j])
			r.warn(r.adapter.SetMeshGeometry(v.meshes[j], v.geometries[j]), "set mesh geometry")
		}
		n++
	}
	return n
}

// refreshColors pushes current group colors into every material.
func (r *Runner) refreshColors() {
	count := 0
	for i, u := range r.units {
		colors := r.colorsFor(u)
		for j := range parts {
			r.warn(r.adapter.UpdateMaterial(r.visuals[i].materials[j], render.MaterialSpec{Color: colors[j]}), "update material")
			count++
		}
	}
	observability.Pipeline().OnColorRefresh(context.Background(), count)
	r.logger.Debug("refreshed materials", "materials", count)
}

// releaseAll removes and releases every handle the runner owns.
func (r *Runner) releaseAll() {
	for _, v := range r.visuals {
		for j := range parts {
			r.adapter.RemoveFromScene(v.meshes[j])
			r.warn(r.adapter.DisposeMesh(v.meshes[j]), "dispose mesh")
			r.warn(r.adapter.DisposeGeometry(v.geometries[j]), "dispose geometry")
			r.warn(r.adapter.DisposeMaterial(v.materials[j]), "dispose material")
		}
	}
	r.visuals = nil
}

func (r *Runner) warn(err error, op string) {
	if err != nil {
		r.logger.Warn("render adapter", "op", op, "err", err)
	}
}
