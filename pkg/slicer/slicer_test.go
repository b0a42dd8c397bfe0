package slicer

import (
	"math"
	"testing"

	"github.com/philipparndt/printcost/pkg/geometry"
	"github.com/philipparndt/printcost/pkg/mesh"
)

func TestSliceMeshMiss(t *testing.T) {
	box := mesh.Box(10, 20, 30)
	section := SliceMesh(box, Plane{Origin: geometry.NewVector3(0, 0, 100), Normal: geometry.UnitZ}, 0.05)

	if !section.IsEmpty() {
		t.Errorf("Expected empty section, got %d segments", len(section.Segments))
	}
	if section.Segments == nil {
		t.Errorf("Expected empty, non-nil segment list")
	}
	if section.Area != 0 || section.Perimeter != 0 || section.BoundingRadius != 0 {
		t.Errorf("Expected zero measurements, got %+v", section)
	}
}

func TestSliceMeshBoxMidHeight(t *testing.T) {
	box := mesh.Box(10, 20, 30)
	origin := geometry.NewVector3(5, 10, 15)
	section := SliceMesh(box, Plane{Origin: origin, Normal: geometry.UnitZ}, 0.05)

	if len(section.Segments) != 8 {
		t.Fatalf("Segments failed: expected 8, got %d", len(section.Segments))
	}
	if math.Abs(section.Area-200) > 1e-3 {
		t.Errorf("Area failed: expected 200, got %v", section.Area)
	}
	if math.Abs(section.Perimeter-60) > 1e-3 {
		t.Errorf("Perimeter failed: expected 60, got %v", section.Perimeter)
	}
	if section.Centroid.Distance(origin) > 1e-4 {
		t.Errorf("Centroid failed: expected %v, got %v", origin, section.Centroid)
	}
	if math.Abs(section.BoundingRadius-math.Sqrt(125)) > 1e-4 {
		t.Errorf("BoundingRadius failed: expected %v, got %v", math.Sqrt(125), section.BoundingRadius)
	}
	if math.Abs(section.Elevation-15) > 1e-9 {
		t.Errorf("Elevation failed: expected 15, got %v", section.Elevation)
	}
	if len(section.Contours) != 1 {
		t.Errorf("Contours failed: expected 1, got %d", len(section.Contours))
	}
}

func TestSliceMeshSideways(t *testing.T) {
	box := mesh.Box(10, 20, 30)
	section := SliceMesh(box, Plane{Origin: geometry.NewVector3(5, 0, 0), Normal: geometry.NewVector3(2, 0, 0)}, 0.05)

	if math.Abs(section.Area-600) > 1e-3 {
		t.Errorf("Area failed: expected 600, got %v", section.Area)
	}
	if math.Abs(section.Perimeter-100) > 1e-3 {
		t.Errorf("Perimeter failed: expected 100, got %v", section.Perimeter)
	}
}

func TestSliceMeshCylinder(t *testing.T) {
	radius := 10.0
	cylinder := mesh.Cylinder(radius, 10, 30)
	section := SliceMesh(cylinder, Plane{Origin: geometry.NewVector3(0, 0, 5), Normal: geometry.UnitZ}, 0.05)

	circle := math.Pi * radius * radius
	if math.Abs(section.Area-circle)/circle > 0.015 {
		t.Errorf("Area failed: expected about %v, got %v", circle, section.Area)
	}

	circumference := 2 * math.Pi * radius
	if math.Abs(section.Perimeter-circumference)/circumference > 0.01 {
		t.Errorf("Perimeter failed: expected about %v, got %v", circumference, section.Perimeter)
	}

	if math.Abs(section.BoundingRadius-radius) > 1e-3 {
		t.Errorf("BoundingRadius failed: expected %v, got %v", radius, section.BoundingRadius)
	}
	if len(section.Contours) != 1 || len(section.Contours[0]) != 60 {
		t.Errorf("Contours failed: expected one loop of 60 points, got %d loops", len(section.Contours))
	}
}

func TestSliceMeshDefaultThickness(t *testing.T) {
	box := mesh.Box(10, 20, 30)
	plane := Plane{Origin: geometry.NewVector3(0, 0, 15), Normal: geometry.UnitZ}

	explicit := SliceMesh(box, plane, DefaultThickness)
	defaulted := SliceMesh(box, plane, 0)
	if explicit.Area != defaulted.Area || len(explicit.Segments) != len(defaulted.Segments) {
		t.Errorf("Default thickness failed: %v vs %v", explicit.Area, defaulted.Area)
	}
}

func TestSliceMeshDoesNotMutateInput(t *testing.T) {
	box := mesh.Box(1, 1, 1)
	before := append([]float32(nil), box.Positions...)
	SliceMesh(box, Plane{Origin: geometry.NewVector3(0, 0, 0.5), Normal: geometry.UnitZ}, 0.05)

	for i := range before {
		if before[i] != box.Positions[i] {
			t.Fatalf("Positions changed at %d", i)
		}
	}
}

func TestSliceMeshInvalidMesh(t *testing.T) {
	broken := &mesh.Mesh{Positions: make([]float32, 9), Indices: []uint32{0, 1, 7}}
	section := SliceMesh(broken, Plane{Normal: geometry.UnitZ}, 0.05)
	if !section.IsEmpty() {
		t.Errorf("Expected empty section for invalid mesh")
	}
}

func TestChainContoursOpenPolyline(t *testing.T) {
	segments := []Segment{
		{Start: geometry.NewVector3(0, 0, 0), End: geometry.NewVector3(1, 0, 0)},
		{Start: geometry.NewVector3(2, 0, 0), End: geometry.NewVector3(1, 0, 0)},
		{Start: geometry.NewVector3(2, 0, 0), End: geometry.NewVector3(2, 1, 0)},
		{Start: geometry.NewVector3(50, 50, 0), End: geometry.NewVector3(51, 50, 0)},
	}

	contours := chainContours(segments)
	if len(contours) != 1 {
		t.Fatalf("Expected one contour, got %d", len(contours))
	}
	if len(contours[0]) != 4 {
		t.Errorf("Expected four vertices, got %d", len(contours[0]))
	}
	if contours[0][3] != geometry.NewVector3(2, 1, 0) {
		t.Errorf("Unexpected last vertex %v", contours[0][3])
	}
}
