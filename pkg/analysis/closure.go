package analysis

import "github.com/philipparndt/printcost/pkg/mesh"

// ClosureReport summarizes how far a mesh is from a closed, consistently
// wound 2-manifold. Vertices are welded by exact coordinate before edges are
// counted, so triangle soups from STL are handled like indexed meshes.
type ClosureReport struct {
	Edges             int `json:"edges"`
	BoundaryEdges     int `json:"boundaryEdges"`
	NonManifoldEdges  int `json:"nonManifoldEdges"`
	InconsistentEdges int `json:"inconsistentEdges"`
}

// Closed reports whether the signed volume can be trusted
func (r ClosureReport) Closed() bool {
	return r.BoundaryEdges == 0 && r.NonManifoldEdges == 0 && r.InconsistentEdges == 0
}

type edgeKey struct{ a, b int }

// CheckClosure inspects mesh topology. It never fails: invalid buffers
// report nothing and degenerate triangles (repeated vertices) are skipped.
func CheckClosure(m *mesh.Mesh) ClosureReport {
	if m.Validate() != nil {
		return ClosureReport{}
	}

	welded := make(map[[3]float32]int)
	weld := func(i int) int {
		o := i * 3
		key := [3]float32{m.Positions[o], m.Positions[o+1], m.Positions[o+2]}
		id, ok := welded[key]
		if !ok {
			id = len(welded)
			welded[key] = id
		}
		return id
	}

	undirected := make(map[edgeKey]int)
	directed := make(map[edgeKey]int)

	for i := 0; i < m.TriangleCount(); i++ {
		idx := m.TriangleIndices(i)
		v := [3]int{weld(idx[0]), weld(idx[1]), weld(idx[2])}
		if v[0] == v[1] || v[1] == v[2] || v[2] == v[0] {
			continue
		}
		for e := 0; e < 3; e++ {
			from, to := v[e], v[(e+1)%3]
			directed[edgeKey{from, to}]++
			if from > to {
				from, to = to, from
			}
			undirected[edgeKey{from, to}]++
		}
	}

	var report ClosureReport
	report.Edges = len(undirected)
	for _, count := range undirected {
		switch {
		case count == 1:
			report.BoundaryEdges++
		case count > 2:
			report.NonManifoldEdges++
		}
	}
	for _, count := range directed {
		if count > 1 {
			report.InconsistentEdges++
		}
	}
	return report
}
