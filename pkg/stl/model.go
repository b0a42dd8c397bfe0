package stl

import (
	"github.com/philipparndt/printcost/pkg/geometry"
)

// Model represents a decoded STL solid
type Model struct {
	Name      string
	Triangles []geometry.Triangle
}

// NewModel creates a new STL model
func NewModel(name string) *Model {
	return &Model{
		Name:      name,
		Triangles: make([]geometry.Triangle, 0),
	}
}

// AddTriangle adds a triangle to the model
func (m *Model) AddTriangle(triangle geometry.Triangle) {
	m.Triangles = append(m.Triangles, triangle)
}

// TriangleCount returns the number of triangles in the model
func (m *Model) TriangleCount() int {
	return len(m.Triangles)
}

// Positions flattens the triangles into unindexed xyz triples,
// three vertices per triangle in file order.
func (m *Model) Positions() []float32 {
	positions := make([]float32, 0, len(m.Triangles)*9)
	for _, t := range m.Triangles {
		for _, v := range t.Vertices() {
			positions = append(positions, float32(v.X), float32(v.Y), float32(v.Z))
		}
	}
	return positions
}
