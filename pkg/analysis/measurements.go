package analysis

import (
	"fmt"
	"math"

	"github.com/philipparndt/printcost/pkg/geometry"
	"github.com/philipparndt/printcost/pkg/mesh"
)

// Winding classifies the orientation implied by the signed volume
type Winding string

const (
	WindingOutward    Winding = "outward"
	WindingInward     Winding = "inward"
	WindingDegenerate Winding = "degenerate"
)

// Volume holds the divergence-theorem volume of a mesh in mm³
type Volume struct {
	Signed   float64 `json:"signed"`
	Absolute float64 `json:"absolute"`
}

// GeometryMetrics is an immutable snapshot of a mesh's derived properties.
// Recompute it whenever the mesh is replaced, rescaled or recentred.
type GeometryMetrics struct {
	BoundingBox   geometry.BoundingBox `json:"boundingBox"`
	Size          geometry.Vector3     `json:"size"`
	Center        geometry.Vector3     `json:"center"`
	TriangleCount int                  `json:"triangleCount"`
	Volume        Volume               `json:"volume"`
	SurfaceArea   float64              `json:"surfaceArea"`
	Winding       Winding              `json:"winding"`
}

// AnalyzeMesh derives bounding box, triangle count and enclosed volume.
//
// The volume sums signed tetrahedra against the origin. It is exact for
// closed, consistently wound meshes; open or inconsistently wound input
// silently yields a wrong magnitude (see CheckClosure).
func AnalyzeMesh(m *mesh.Mesh) (*GeometryMetrics, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	bbox := m.BoundingBox()
	result := &GeometryMetrics{
		BoundingBox:   bbox,
		Size:          bbox.Size(),
		Center:        bbox.Center(),
		TriangleCount: m.TriangleCount(),
	}

	signed := 0.0
	area := 0.0
	for i := 0; i < result.TriangleCount; i++ {
		triangle := m.Triangle(i)
		signed += triangle.SignedVolume()
		area += triangle.Area()
	}

	result.Volume = Volume{Signed: signed, Absolute: math.Abs(signed)}
	result.SurfaceArea = area
	result.Winding = classifyWinding(signed, bbox)

	return result, nil
}

func classifyWinding(signed float64, bbox geometry.BoundingBox) Winding {
	// relative to the box so tiny round-off on flat meshes is not read as a direction
	tolerance := 1e-9 * math.Max(bbox.Volume(), 1)
	switch {
	case signed > tolerance:
		return WindingOutward
	case signed < -tolerance:
		return WindingInward
	default:
		return WindingDegenerate
	}
}

// Normalize returns a copy of m scaled to millimetres and translated so the
// bounding-box center sits at the origin.
func Normalize(m *mesh.Mesh, units mesh.Units) (*mesh.Mesh, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	scale, err := units.Scale()
	if err != nil {
		return nil, err
	}

	center := m.BoundingBox().Center().Mul(scale)
	return m.Transform(scale, center.Mul(-1)), nil
}

// FormatMeasurement formats a measurement with appropriate units
func FormatMeasurement(value float64, unit string) string {
	if unit == "" {
		unit = "mm"
	}
	return fmt.Sprintf("%.3f %s", value, unit)
}

// FormatVector formats a 3D vector
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", v.X, v.Y, v.Z)
}
