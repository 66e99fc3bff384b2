// Package scene is a retained, in-memory render adapter.
//
// A [Scene] records every geometry, material and mesh the core creates and
// tracks which meshes are currently part of the scene. It draws nothing
// itself; snapshot exporters in package sink read it back. Because it keeps
// exact counts of live handles, it is also how tests verify that the core
// releases every resource it replaces.
package scene

import (
	"errors"
	"fmt"
	"slices"

	"github.com/matzehuels/shapegrid/pkg/grid"
	"github.com/matzehuels/shapegrid/pkg/render"
)

// ErrUnknownID is returned when a handle is missing or already released.
var ErrUnknownID = errors.New("unknown or released handle")

// Mesh is the recorded state of one mesh.
type Mesh struct {
	ID       render.MeshID
	Geometry render.GeometryID
	Material render.MaterialID
	Position grid.Vec3
	Rotation grid.Vec3
	InScene  bool

	// seq orders meshes by the time they were added to the scene.
	seq uint64
}

// Stats counts handles by lifecycle.
type Stats struct {
	Geometries int // live geometries
	Materials  int // live materials
	Meshes     int // live meshes
	InScene    int // meshes currently added

	GeometriesDisposed int
	MaterialsDisposed  int
	MeshesDisposed     int
}

// Scene implements render.Adapter in memory. It is not safe for concurrent
// use.
type Scene struct {
	next       uint64
	seq        uint64
	geometries map[render.GeometryID]render.GeometrySpec
	materials  map[render.MaterialID]render.MaterialSpec
	meshes     map[render.MeshID]*Mesh

	disposedGeometries int
	disposedMaterials  int
	disposedMeshes     int
}

// New returns an empty scene.
func New() *Scene {
	return &Scene{
		geometries: make(map[render.GeometryID]render.GeometrySpec),
		materials:  make(map[render.MaterialID]render.MaterialSpec),
		meshes:     make(map[render.MeshID]*Mesh),
	}
}

func (s *Scene) id() uint64 {
	s.next++
	return s.next
}

// NewGeometry records spec and returns its handle.
func (s *Scene) NewGeometry(spec render.GeometrySpec) render.GeometryID {
	id := render.GeometryID(s.id())
	s.geometries[id] = spec
	return id
}

// NewMaterial records spec and returns its handle.
func (s *Scene) NewMaterial(spec render.MaterialSpec) render.MaterialID {
	id := render.MaterialID(s.id())
	s.materials[id] = spec
	return id
}

// UpdateMaterial replaces the parameters of a live material.
func (s *Scene) UpdateMaterial(id render.MaterialID, spec render.MaterialSpec) error {
	if _, ok := s.materials[id]; !ok {
		return fmt.Errorf("material %d: %w", id, ErrUnknownID)
	}
	s.materials[id] = spec
	return nil
}

// CreateMesh pairs a geometry and a material. The mesh is not in the scene
// until AddToScene.
func (s *Scene) CreateMesh(g render.GeometryID, m render.MaterialID) render.MeshID {
	id := render.MeshID(s.id())
	s.meshes[id] = &Mesh{ID: id, Geometry: g, Material: m}
	return id
}

// SetMeshGeometry points a mesh at different geometry.
func (s *Scene) SetMeshGeometry(mesh render.MeshID, g render.GeometryID) error {
	m, ok := s.meshes[mesh]
	if !ok {
		return fmt.Errorf("mesh %d: %w", mesh, ErrUnknownID)
	}
	if _, ok := s.geometries[g]; !ok {
		return fmt.Errorf("geometry %d: %w", g, ErrUnknownID)
	}
	m.Geometry = g
	return nil
}

// DisposeGeometry releases a geometry.
func (s *Scene) DisposeGeometry(id render.GeometryID) error {
	if _, ok := s.geometries[id]; !ok {
		return fmt.Errorf("geometry %d: %w", id, ErrUnknownID)
	}
	delete(s.geometries, id)
	s.disposedGeometries++
	return nil
}

// DisposeMaterial releases a material.
func (s *Scene) DisposeMaterial(id render.MaterialID) error {
	if _, ok := s.materials[id]; !ok {
		return fmt.Errorf("material %d: %w", id, ErrUnknownID)
	}
	delete(s.materials, id)
	s.disposedMaterials++
	return nil
}

// DisposeMesh releases a mesh. It does not release the mesh's geometry or
// material.
func (s *Scene) DisposeMesh(id render.MeshID) error {
	if _, ok := s.meshes[id]; !ok {
		return fmt.Errorf("mesh %d: %w", id, ErrUnknownID)
	}
	delete(s.meshes, id)
	s.disposedMeshes++
	return nil
}

// SetPosition moves a mesh. Unknown meshes are ignored.
func (s *Scene) SetPosition(mesh render.MeshID, x, y, z float64) {
	if m, ok := s.meshes[mesh]; ok {
		m.Position = grid.Vec3{X: x, Y: y, Z: z}
	}
}

// SetRotation rotates a mesh. Unknown meshes are ignored.
func (s *Scene) SetRotation(mesh render.MeshID, x, y, z float64) {
	if m, ok := s.meshes[mesh]; ok {
		m.Rotation = grid.Vec3{X: x, Y: y, Z: z}
	}
}

// AddToScene makes a mesh visible.
func (s *Scene) AddToScene(mesh render.MeshID) {
	if m, ok := s.meshes[mesh]; ok && !m.InScene {
		s.seq++
		m.InScene = true
		m.seq = s.seq
	}
}

// RemoveFromScene hides a mesh.
func (s *Scene) RemoveFromScene(mesh render.MeshID) {
	if m, ok := s.meshes[mesh]; ok {
		m.InScene = false
	}
}

// Meshes returns copies of the meshes currently in the scene, in the order
// they were added.
func (s *Scene) Meshes() []Mesh {
	out := make([]Mesh, 0, len(s.meshes))
	for _, m := range s.meshes {
		if m.InScene {
			out = append(out, *m)
		}
	}
	slices.SortFunc(out, func(a, b Mesh) int {
		switch {
		case a.seq < b.seq:
			return -1
		case a.seq > b.seq:
			return 1
		}
		return 0
	})
	return out
}

// Mesh returns a copy of one mesh.
func (s *Scene) Mesh(id render.MeshID) (Mesh, bool) {
	m, ok := s.meshes[id]
	if !ok {
		return Mesh{}, false
	}
	return *m, true
}

// Geometry returns the spec of a live geometry.
func (s *Scene) Geometry(id render.GeometryID) (render.GeometrySpec, bool) {
	g, ok := s.geometries[id]
	return g, ok
}

// Material returns the spec of a live material.
func (s *Scene) Material(id render.MaterialID) (render.MaterialSpec, bool) {
	m, ok := s.materials[id]
	return m, ok
}

// Stats returns live and disposed handle counts.
func (s *Scene) Stats() Stats {
	st := Stats{
		Geometries:         len(s.geometries),
		Materials:          len(s.materials),
		Meshes:             len(s.meshes),
		GeometriesDisposed: s.disposedGeometries,
		MaterialsDisposed:  s.disposedMaterials,
		MeshesDisposed:     s.disposedMeshes,
	}
	for _, m := range s.meshes {
		if m.InScene {
			st.InScene++
		}
	}
	return st
}

// Ensure Scene implements render.Adapter.
var _ render.Adapter = (*Scene)(nil)
