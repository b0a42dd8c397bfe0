package mesh

import (
	"bytes"

	"github.com/hpinc/go3mf"
)

// decode3MF merges every mesh object of a 3MF package into one indexed mesh.
// Build-item transforms are not applied; coordinates stay in model space.
func decode3MF(data []byte) (*Mesh, Units, error) {
	var model go3mf.Model
	decoder := go3mf.NewDecoder(bytes.NewReader(data), int64(len(data)))
	if err := decoder.Decode(&model); err != nil {
		return nil, "", err
	}

	units, err := ParseUnits(model.Units.String())
	if err != nil {
		return nil, "", err
	}

	out := &Mesh{}
	for _, obj := range model.Resources.Objects {
		if obj.Mesh == nil {
			continue
		}
		base := uint32(out.VertexCount())
		for _, v := range obj.Mesh.Vertices.Vertex {
			out.Positions = append(out.Positions, v.X(), v.Y(), v.Z())
		}
		for _, t := range obj.Mesh.Triangles.Triangle {
			out.Indices = append(out.Indices, base+t.V1, base+t.V2, base+t.V3)
		}
	}

	if out.IsEmpty() {
		return nil, "", ErrMissingPositions
	}
	if err := out.Validate(); err != nil {
		return nil, "", err
	}
	return out, units, nil
}
