package mesh_test

import (
	"bytes"
	"math"
	"testing"

	"github.com/hpinc/go3mf"

	"github.com/philipparndt/printcost/pkg/analysis"
	"github.com/philipparndt/printcost/pkg/mesh"
)

func tetrahedron(id uint32, offsetX float32) *go3mf.Object {
	return &go3mf.Object{
		ID: id,
		Mesh: &go3mf.Mesh{
			Vertices: go3mf.Vertices{Vertex: []go3mf.Point3D{
				{offsetX, 0, 0},
				{offsetX + 1, 0, 0},
				{offsetX, 1, 0},
				{offsetX, 0, 1},
			}},
			Triangles: go3mf.Triangles{Triangle: []go3mf.Triangle{
				{V1: 0, V2: 2, V3: 1},
				{V1: 0, V2: 1, V3: 3},
				{V1: 0, V2: 3, V3: 2},
				{V1: 1, V2: 2, V3: 3},
			}},
		},
	}
}

func encode3MF(t *testing.T, model *go3mf.Model) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := go3mf.NewEncoder(&buf).Encode(model); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	return buf.Bytes()
}

func TestParsePackagedMergesObjects(t *testing.T) {
	model := &go3mf.Model{Units: go3mf.UnitCentimeter}
	model.Resources.Objects = []*go3mf.Object{tetrahedron(1, 0), tetrahedron(2, 2)}
	model.Build.Items = []*go3mf.Item{{ObjectID: 1}, {ObjectID: 2}}

	m, units, err := mesh.Parse(mesh.Source{Kind: mesh.Packaged, Name: "pair.3mf", Data: encode3MF(t, model)})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if units != mesh.Centimeter {
		t.Errorf("Units failed: expected %s, got %s", mesh.Centimeter, units)
	}
	if m.VertexCount() != 8 {
		t.Errorf("VertexCount failed: expected 8, got %d", m.VertexCount())
	}
	if m.TriangleCount() != 8 {
		t.Errorf("TriangleCount failed: expected 8, got %d", m.TriangleCount())
	}
	if err := m.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}

	// the second object's indices are shifted past the first object's vertices
	want := []uint32{4, 6, 5}
	for i, index := range m.Indices[12:15] {
		if index != want[i] {
			t.Errorf("Index %d failed: expected %d, got %d", 12+i, want[i], index)
		}
	}
	if second := m.Vertex(4); second.X != 2 {
		t.Errorf("Vertex 4 failed: expected x=2, got %v", second.X)
	}

	normalized, err := analysis.Normalize(m, units)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	size := normalized.BoundingBox().Size()
	if math.Abs(size.X-30) > 1e-4 || math.Abs(size.Y-10) > 1e-4 || math.Abs(size.Z-10) > 1e-4 {
		t.Errorf("Normalized size failed: expected (30, 10, 10), got %v", size)
	}
	if center := normalized.BoundingBox().Center(); center.Length() > 1e-4 {
		t.Errorf("Normalized center failed: expected origin, got %v", center)
	}
}
