// Package slicer cuts triangle meshes with planes and measures the
// resulting cross-sections.
package slicer

import (
	"math"

	"github.com/samber/lo"

	"github.com/philipparndt/printcost/pkg/geometry"
	"github.com/philipparndt/printcost/pkg/mesh"
)

const (
	// DefaultThickness is used when SliceMesh receives a non-positive thickness
	DefaultThickness = 0.05

	minEpsilon = 1e-4

	// maxAreaPoints bounds the shoelace pass
	maxAreaPoints = 64
)

// Plane is the cutting plane; its Normal need not be unit length
type Plane = geometry.Plane

// Segment is one triangle's contribution to a cross-section boundary
type Segment struct {
	Start geometry.Vector3 `json:"start"`
	End   geometry.Vector3 `json:"end"`
}

// Length returns the distance between the segment endpoints
func (s Segment) Length() float64 {
	return s.Start.Distance(s.End)
}

// CrossSection is the measured intersection of a mesh with one plane
type CrossSection struct {
	Elevation      float64              `json:"elevation"`
	Segments       []Segment            `json:"segments"`
	Contours       [][]geometry.Vector3 `json:"contours,omitempty"`
	Centroid       geometry.Vector3     `json:"centroid"`
	Area           float64              `json:"area"`
	Perimeter      float64              `json:"perimeter"`
	BoundingRadius float64              `json:"boundingRadius"`
}

// IsEmpty reports whether the plane missed the mesh
func (c CrossSection) IsEmpty() bool {
	return len(c.Segments) == 0
}

// SliceMesh intersects every triangle of m with plane.
//
// Vertices closer to the plane than max(thickness, 1e-4) count as lying on
// it. A triangle contributes a segment between the first two points it
// records; further points only feed the centroid and radius. The area is the
// shoelace sum over the chained contours, limited to the first 64 contour
// points. A plane that misses the mesh, or an invalid mesh, yields an empty
// cross-section.
func SliceMesh(m *mesh.Mesh, plane Plane, thickness float64) CrossSection {
	if thickness <= 0 || math.IsNaN(thickness) {
		thickness = DefaultThickness
	}
	epsilon := math.Max(thickness, minEpsilon)

	plane.Normal = plane.Normal.Normalize()
	if plane.Normal.IsZero() {
		plane.Normal = geometry.UnitZ
	}

	section := CrossSection{
		Elevation: plane.Origin.Dot(plane.Normal),
		Segments:  []Segment{},
	}
	if m.Validate() != nil {
		return section
	}

	var points []geometry.Vector3
	local := make([]geometry.Vector3, 0, 6)

	for i := 0; i < m.TriangleCount(); i++ {
		corners := m.Triangle(i).Vertices()
		distances := [3]float64{
			plane.Distance(corners[0]),
			plane.Distance(corners[1]),
			plane.Distance(corners[2]),
		}

		local = local[:0]
		for e := 0; e < 3; e++ {
			next := (e + 1) % 3
			current, following := distances[e], distances[next]

			if math.Abs(current) <= epsilon {
				local = append(local, corners[e])
			}
			if current*following < 0 {
				t := current / (current - following)
				local = append(local, corners[e].Lerp(corners[next], t))
			}
		}

		if len(local) < 2 {
			continue
		}
		section.Segments = append(section.Segments, Segment{Start: local[0], End: local[1]})
		points = append(points, local...)
	}

	if len(points) == 0 {
		return section
	}

	sum := geometry.Vector3{}
	for _, p := range points {
		sum = sum.Add(p)
		section.BoundingRadius = math.Max(section.BoundingRadius, p.Distance(plane.Origin))
	}
	section.Centroid = sum.Mul(1 / float64(len(points)))
	section.Perimeter = lo.SumBy(section.Segments, Segment.Length)
	section.Contours = chainContours(section.Segments)
	section.Area = contourArea(plane, section.Contours)

	return section
}

// contourArea sums the absolute shoelace area of each contour in the plane
// basis. Only the first maxAreaPoints points across all contours take part.
func contourArea(plane Plane, contours [][]geometry.Vector3) float64 {
	u, v := plane.Basis()
	budget := maxAreaPoints
	area := 0.0

	for _, contour := range contours {
		if budget < 3 {
			break
		}
		if len(contour) > budget {
			contour = contour[:budget]
		}
		budget -= len(contour)
		if len(contour) < 3 {
			continue
		}

		twice := 0.0
		for i := range contour {
			x1, y1 := plane.Project(contour[i], u, v)
			x2, y2 := plane.Project(contour[(i+1)%len(contour)], u, v)
			twice += x1*y2 - x2*y1
		}
		area += math.Abs(twice) * 0.5
	}

	return area
}
