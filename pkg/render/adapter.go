package render

import (
	"github.com/matzehuels/shapegrid/pkg/grid"
	"github.com/matzehuels/shapegrid/pkg/palette"
)

// Part distinguishes the two meshes that make up one unit.
type Part int

const (
	// Fill is the solid interior of a shape.
	Fill Part = iota
	// Stroke is the border ring or frame around the fill.
	Stroke
)

// String returns "fill" or "stroke".
func (p Part) String() string {
	if p == Stroke {
		return "stroke"
	}
	return "fill"
}

// GeometrySpec describes geometry for one part of a unit. Fill and stroke
// geometry of a unit share the same Dims.
type GeometrySpec struct {
	Part Part
	Dims grid.Dimensions
}

// MaterialSpec describes a flat material.
type MaterialSpec struct {
	Color palette.RGBA
}

// Handle types issued by an Adapter. Zero is never a valid handle.
type (
	GeometryID uint64
	MaterialID uint64
	MeshID     uint64
)

// Adapter is the capability set the core needs from a rendering engine.
// Dispose and update methods return an error for missing or already
// released handles; the core logs such errors and carries on.
type Adapter interface {
	NewGeometry(spec GeometrySpec) GeometryID
	NewMaterial(spec MaterialSpec) MaterialID
	UpdateMaterial(id MaterialID, spec MaterialSpec) error

	CreateMesh(g GeometryID, m MaterialID) MeshID
	SetMeshGeometry(mesh MeshID, g GeometryID) error

	DisposeGeometry(id GeometryID) error
	DisposeMaterial(id MaterialID) error
	DisposeMesh(id MeshID) error

	SetPosition(mesh MeshID, x, y, z float64)
	SetRotation(mesh MeshID, x, y, z float64)

	AddToScene(mesh MeshID)
	RemoveFromScene(mesh MeshID)
}
