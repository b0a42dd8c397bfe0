package geometry

import (
	"math"
	"testing"
)

func TestBoundingBoxExtend(t *testing.T) {
	bbox := NewBoundingBox()

	bbox.Extend(NewVector3(1, 2, 3))
	bbox.Extend(NewVector3(4, 5, 6))
	bbox.Extend(NewVector3(-1, 0, 2))

	expectedMin := NewVector3(-1, 0, 2)
	expectedMax := NewVector3(4, 5, 6)

	if bbox.Min != expectedMin {
		t.Errorf("Min failed: expected %v, got %v", expectedMin, bbox.Min)
	}
	if bbox.Max != expectedMax {
		t.Errorf("Max failed: expected %v, got %v", expectedMax, bbox.Max)
	}
}

func TestBoundingBoxEmptyIsZero(t *testing.T) {
	bbox := NewBoundingBox()

	if !bbox.IsEmpty() {
		t.Error("IsEmpty failed: expected new box to be empty")
	}
	if bbox.Min != (Vector3{}) || bbox.Max != (Vector3{}) {
		t.Errorf("Empty box failed: expected zero corners, got %v %v", bbox.Min, bbox.Max)
	}
	if bbox.Volume() != 0 {
		t.Errorf("Empty volume failed: expected 0, got %v", bbox.Volume())
	}
}

func TestBoundingBoxNegativeOnly(t *testing.T) {
	bbox := NewBoundingBox()
	bbox.Extend(NewVector3(-5, -6, -7))
	bbox.Extend(NewVector3(-1, -2, -3))

	if bbox.Max != NewVector3(-1, -2, -3) {
		t.Errorf("Max failed: expected (-1,-2,-3), got %v", bbox.Max)
	}
}

func TestBoundingBoxSize(t *testing.T) {
	bbox := NewBoundingBox()
	bbox.Extend(NewVector3(0, 0, 0))
	bbox.Extend(NewVector3(10, 20, 30))

	size := bbox.Size()
	expected := NewVector3(10, 20, 30)

	if size != expected {
		t.Errorf("Size failed: expected %v, got %v", expected, size)
	}
}

func TestBoundingBoxCenter(t *testing.T) {
	bbox := NewBoundingBox()
	bbox.Extend(NewVector3(0, 0, 0))
	bbox.Extend(NewVector3(10, 20, 30))

	center := bbox.Center()
	expected := NewVector3(5, 10, 15)

	if center != expected {
		t.Errorf("Center failed: expected %v, got %v", expected, center)
	}
}

func TestBoundingBoxVolume(t *testing.T) {
	bbox := NewBoundingBox()
	bbox.Extend(NewVector3(0, 0, 0))
	bbox.Extend(NewVector3(2, 3, 4))

	volume := bbox.Volume()
	expected := 24.0 // 2 * 3 * 4 = 24

	if math.Abs(volume-expected) > 1e-10 {
		t.Errorf("Volume failed: expected %v, got %v", expected, volume)
	}
}

func TestBoundingBoxExtentAndStartCorner(t *testing.T) {
	bbox := BoundingBoxOf(NewVector3(-1, -2, -3), NewVector3(1, 2, 3))

	if e := bbox.Extent(UnitZ); math.Abs(e-6) > 1e-10 {
		t.Errorf("Extent Z failed: expected 6, got %v", e)
	}
	if e := bbox.Extent(NewVector3(0, -1, 0)); math.Abs(e-4) > 1e-10 {
		t.Errorf("Extent -Y failed: expected 4, got %v", e)
	}

	if c := bbox.StartCorner(UnitZ); c != NewVector3(-1, -2, -3) {
		t.Errorf("StartCorner +Z failed: got %v", c)
	}
	if c := bbox.StartCorner(NewVector3(0, 0, -1)); c != NewVector3(-1, -2, 3) {
		t.Errorf("StartCorner -Z failed: got %v", c)
	}
}
