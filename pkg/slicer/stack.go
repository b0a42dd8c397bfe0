package slicer

import (
	"errors"
	"fmt"
	"math"

	"github.com/samber/lo"

	"github.com/philipparndt/printcost/pkg/geometry"
	"github.com/philipparndt/printcost/pkg/mesh"
)

// ErrInvalidLayerHeight is returned when the layer pitch is not a positive number
var ErrInvalidLayerHeight = errors.New("layer height must be positive")

// LayerStack is an elevation-ascending sequence of cross-sections taken at a
// fixed pitch along Orientation
type LayerStack struct {
	Orientation geometry.Vector3 `json:"orientation"`
	LayerHeight float64          `json:"layerHeight"`
	Layers      []CrossSection   `json:"layers"`
}

// SliceLayers cuts m into layers of layerHeight along orientation.
//
// A zero orientation means +Z. The first plane passes through the bounding
// box corner the orientation starts from and layer i sits i*layerHeight
// further along. Elevations are measured from that corner.
func SliceLayers(m *mesh.Mesh, orientation geometry.Vector3, layerHeight float64) (*LayerStack, error) {
	if !(layerHeight > 0) || math.IsInf(layerHeight, 1) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidLayerHeight, layerHeight)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	direction := orientation.Normalize()
	if direction.IsZero() {
		direction = geometry.UnitZ
	}

	bbox := m.BoundingBox()
	count := int(math.Ceil(bbox.Extent(direction) / layerHeight))
	if count < 1 {
		count = 1
	}
	start := bbox.StartCorner(direction)

	stack := &LayerStack{
		Orientation: direction,
		LayerHeight: layerHeight,
		Layers:      make([]CrossSection, 0, count),
	}
	for i := 0; i < count; i++ {
		elevation := float64(i) * layerHeight
		plane := Plane{Origin: start.Add(direction.Mul(elevation)), Normal: direction}

		layer := SliceMesh(m, plane, layerHeight)
		layer.Elevation = elevation
		stack.Layers = append(stack.Layers, layer)
	}

	return stack, nil
}

// Volume approximates the enclosed volume as the sum of layer area times
// pitch. It is coarser than the tetrahedron sum from mesh analysis.
func (s *LayerStack) Volume() float64 {
	return lo.SumBy(s.Layers, func(layer CrossSection) float64 {
		return layer.Area * s.LayerHeight
	})
}

// Height returns the distance covered by the stack
func (s *LayerStack) Height() float64 {
	return float64(len(s.Layers)) * s.LayerHeight
}

// MaxArea returns the largest layer area
func (s *LayerStack) MaxArea() float64 {
	largest := 0.0
	for _, layer := range s.Layers {
		largest = math.Max(largest, layer.Area)
	}
	return largest
}

// CentroidTrend returns each layer's centroid offset from the first
// non-empty layer. Empty layers report a zero offset.
func (s *LayerStack) CentroidTrend() []geometry.Vector3 {
	trend := make([]geometry.Vector3, len(s.Layers))
	reference, found := lo.Find(s.Layers, func(layer CrossSection) bool {
		return !layer.IsEmpty()
	})
	if !found {
		return trend
	}
	for i, layer := range s.Layers {
		if layer.IsEmpty() {
			continue
		}
		trend[i] = layer.Centroid.Sub(reference.Centroid)
	}
	return trend
}
