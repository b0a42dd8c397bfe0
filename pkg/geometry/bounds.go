package geometry

import "math"

// BoundingBox represents an axis-aligned bounding box.
// A box that has never been extended is empty and reports all-zero corners.
type BoundingBox struct {
	Min Vector3 `json:"min"`
	Max Vector3 `json:"max"`

	populated bool
}

// NewBoundingBox creates a new, empty bounding box
func NewBoundingBox() BoundingBox {
	return BoundingBox{}
}

// BoundingBoxOf returns the box spanning the given corners
func BoundingBoxOf(min, max Vector3) BoundingBox {
	return BoundingBox{Min: min.Min(max), Max: max.Max(min), populated: true}
}

// Extend expands the bounding box to include a point
func (b *BoundingBox) Extend(point Vector3) {
	if !b.populated {
		b.Min = point
		b.Max = point
		b.populated = true
		return
	}
	b.Min = b.Min.Min(point)
	b.Max = b.Max.Max(point)
}

// IsEmpty reports whether no point has been added to the box
func (b BoundingBox) IsEmpty() bool {
	return !b.populated
}

// Size returns the dimensions of the bounding box
func (b BoundingBox) Size() Vector3 {
	return b.Max.Sub(b.Min)
}

// Center returns the center point of the bounding box
func (b BoundingBox) Center() Vector3 {
	return Vector3{
		X: (b.Min.X + b.Max.X) / 2.0,
		Y: (b.Min.Y + b.Max.Y) / 2.0,
		Z: (b.Min.Z + b.Max.Z) / 2.0,
	}
}

// Diagonal returns the length of the bounding box diagonal
func (b BoundingBox) Diagonal() float64 {
	size := b.Size()
	return size.Length()
}

// Volume returns the volume of the bounding box
func (b BoundingBox) Volume() float64 {
	size := b.Size()
	return size.X * size.Y * size.Z
}

// Extent returns the length of the box projected onto direction
func (b BoundingBox) Extent(direction Vector3) float64 {
	return math.Abs(b.Size().Dot(direction))
}

// StartCorner returns the corner a sweep along direction starts from:
// per axis the minimum when the direction component is non-negative,
// otherwise the maximum.
func (b BoundingBox) StartCorner(direction Vector3) Vector3 {
	pick := func(component, lo, hi float64) float64 {
		if component < 0 {
			return hi
		}
		return lo
	}
	return Vector3{
		X: pick(direction.X, b.Min.X, b.Max.X),
		Y: pick(direction.Y, b.Min.Y, b.Max.Y),
		Z: pick(direction.Z, b.Min.Z, b.Max.Z),
	}
}

// Translate returns the box moved by offset
func (b BoundingBox) Translate(offset Vector3) BoundingBox {
	if !b.populated {
		return b
	}
	return BoundingBox{Min: b.Min.Add(offset), Max: b.Max.Add(offset), populated: true}
}
