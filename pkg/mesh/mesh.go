// Package mesh holds the in-memory triangle buffers the estimation kernel
// consumes, and decodes supported source formats into them.
package mesh

import (
	"errors"
	"fmt"

	"github.com/philipparndt/printcost/pkg/geometry"
)

var (
	// ErrMissingPositions is returned when a mesh has no usable position data
	ErrMissingPositions = errors.New("missing position data")
	// ErrInvalidIndices is returned when the index buffer does not describe whole triangles
	ErrInvalidIndices = errors.New("invalid triangle indices")
)

// Mesh is a triangle mesh in millimetres.
// Positions has 3 floats per vertex (x,y,z). Indices has 3 entries per
// triangle; when Indices is empty, Positions is read as consecutive
// unindexed triangles (9 floats each).
//
// A Mesh handed to the kernel is treated as moved: kernel functions never
// modify it, and callers must not modify it while a computation runs.
type Mesh struct {
	Positions []float32 `json:"positions"`
	Indices   []uint32  `json:"indices,omitempty"`
}

// New creates a mesh over the given buffers without copying them
func New(positions []float32, indices []uint32) *Mesh {
	return &Mesh{Positions: positions, Indices: indices}
}

// VertexCount returns the number of vertices
func (m *Mesh) VertexCount() int {
	return len(m.Positions) / 3
}

// IsIndexed reports whether triangles are described by the index buffer
func (m *Mesh) IsIndexed() bool {
	return len(m.Indices) > 0
}

// TriangleCount returns the number of triangles
func (m *Mesh) TriangleCount() int {
	if m.IsIndexed() {
		return len(m.Indices) / 3
	}
	return len(m.Positions) / 9
}

// IsEmpty returns true if the mesh has no geometry
func (m *Mesh) IsEmpty() bool {
	return len(m.Positions) == 0
}

// Vertex returns vertex i
func (m *Mesh) Vertex(i int) geometry.Vector3 {
	o := i * 3
	return geometry.NewVector3(float64(m.Positions[o]), float64(m.Positions[o+1]), float64(m.Positions[o+2]))
}

// TriangleIndices returns the vertex indices of triangle i
func (m *Mesh) TriangleIndices(i int) [3]int {
	if m.IsIndexed() {
		o := i * 3
		return [3]int{int(m.Indices[o]), int(m.Indices[o+1]), int(m.Indices[o+2])}
	}
	o := i * 3
	return [3]int{o, o + 1, o + 2}
}

// Triangle returns triangle i. The stored normal is computed from winding.
func (m *Mesh) Triangle(i int) geometry.Triangle {
	idx := m.TriangleIndices(i)
	t := geometry.Triangle{
		V1: m.Vertex(idx[0]),
		V2: m.Vertex(idx[1]),
		V3: m.Vertex(idx[2]),
	}
	t.Normal = t.CalculateNormal()
	return t
}

// BoundingBox scans every vertex once. An empty mesh yields an all-zero box.
func (m *Mesh) BoundingBox() geometry.BoundingBox {
	bbox := geometry.NewBoundingBox()
	for i := 0; i < m.VertexCount(); i++ {
		bbox.Extend(m.Vertex(i))
	}
	return bbox
}

// Validate checks the buffer invariants
func (m *Mesh) Validate() error {
	if m == nil {
		return ErrMissingPositions
	}
	if len(m.Positions)%3 != 0 {
		return fmt.Errorf("%w: %d floats is not a whole number of vertices", ErrMissingPositions, len(m.Positions))
	}
	if len(m.Indices) > 0 && len(m.Positions) == 0 {
		return ErrMissingPositions
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("%w: %d indices is not a multiple of 3", ErrInvalidIndices, len(m.Indices))
	}
	vertices := uint32(m.VertexCount())
	for i, index := range m.Indices {
		if index >= vertices {
			return fmt.Errorf("%w: index %d at position %d exceeds %d vertices", ErrInvalidIndices, index, i, vertices)
		}
	}
	return nil
}

// Transform returns a new mesh with every vertex scaled then translated.
// The index buffer is shared with the receiver since it is never modified.
func (m *Mesh) Transform(scale float64, offset geometry.Vector3) *Mesh {
	positions := make([]float32, len(m.Positions))
	for i := 0; i+2 < len(m.Positions); i += 3 {
		positions[i] = float32(float64(m.Positions[i])*scale + offset.X)
		positions[i+1] = float32(float64(m.Positions[i+1])*scale + offset.Y)
		positions[i+2] = float32(float64(m.Positions[i+2])*scale + offset.Z)
	}
	return &Mesh{Positions: positions, Indices: m.Indices}
}
