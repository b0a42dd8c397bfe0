package analysis

import (
	"testing"

	"github.com/philipparndt/printcost/pkg/mesh"
)

func TestCheckClosure(t *testing.T) {
	box := mesh.Box(1, 2, 3)

	open := mesh.New(box.Positions, box.Indices[:len(box.Indices)-3])

	oneFlipped := mesh.New(box.Positions, append([]uint32(nil), box.Indices...))
	oneFlipped.Indices[1], oneFlipped.Indices[2] = oneFlipped.Indices[2], oneFlipped.Indices[1]

	finned := mesh.New(
		append(append([]float32(nil), box.Positions...), 5, 5, 5),
		append(append([]uint32(nil), box.Indices...), 0, 1, 8),
	)

	tests := []struct {
		name         string
		mesh         *mesh.Mesh
		closed       bool
		boundary     int
		nonManifold  int
		inconsistent int
	}{
		{"closed box", box, true, 0, 0, 0},
		{"unindexed box", box.Unindexed(), true, 0, 0, 0},
		{"cylinder", mesh.Cylinder(1, 1, 12), true, 0, 0, 0},
		{"missing triangle", open, false, 3, 0, 0},
		{"flipped triangle", oneFlipped, false, 0, 0, 3},
		{"fin on edge", finned, false, 2, 1, 1},
		{"empty", &mesh.Mesh{}, true, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := CheckClosure(tt.mesh)
			if report.Closed() != tt.closed {
				t.Errorf("Closed() = %v, want %v (%+v)", report.Closed(), tt.closed, report)
			}
			if report.BoundaryEdges != tt.boundary {
				t.Errorf("BoundaryEdges = %d, want %d", report.BoundaryEdges, tt.boundary)
			}
			if report.NonManifoldEdges != tt.nonManifold {
				t.Errorf("NonManifoldEdges = %d, want %d", report.NonManifoldEdges, tt.nonManifold)
			}
			if report.InconsistentEdges != tt.inconsistent {
				t.Errorf("InconsistentEdges = %d, want %d", report.InconsistentEdges, tt.inconsistent)
			}
		})
	}
}
