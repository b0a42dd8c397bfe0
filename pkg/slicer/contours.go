package slicer

import (
	"slices"

	"github.com/dhconnelly/rtreego"

	"github.com/philipparndt/printcost/pkg/geometry"
)

// endpoints closer than this are treated as the same contour vertex
const contourTolerance = 1e-3

// endpoint is one end of a segment, stored in the spatial index
type endpoint struct {
	segment int
	end     int
	bounds  rtreego.Rect
}

func (e *endpoint) Bounds() rtreego.Rect {
	return e.bounds
}

func toPoint(v geometry.Vector3) rtreego.Point {
	return rtreego.Point{v.X, v.Y, v.Z}
}

// chainContours links unordered segments into contours by joining endpoints
// that coincide within contourTolerance. Closed loops drop their repeated
// closing vertex; chains that cannot be closed are kept as open polylines.
// Contours with fewer than three vertices are discarded.
func chainContours(segments []Segment) [][]geometry.Vector3 {
	if len(segments) == 0 {
		return nil
	}

	objects := make([]rtreego.Spatial, 0, 2*len(segments))
	for i, s := range segments {
		objects = append(objects,
			&endpoint{segment: i, end: 0, bounds: toPoint(s.Start).ToRect(contourTolerance)},
			&endpoint{segment: i, end: 1, bounds: toPoint(s.End).ToRect(contourTolerance)},
		)
	}
	index := rtreego.NewTree(3, 25, 50, objects...)

	used := make([]bool, len(segments))
	unused := func(_ []rtreego.Spatial, obj rtreego.Spatial) (bool, bool) {
		return used[obj.(*endpoint).segment], false
	}

	// next finds the lowest-numbered unused segment touching vertex and
	// returns its opposite endpoint
	next := func(vertex geometry.Vector3) (geometry.Vector3, bool) {
		hits := index.SearchIntersect(toPoint(vertex).ToRect(contourTolerance), unused)
		best := -1
		var far geometry.Vector3
		for _, hit := range hits {
			e := hit.(*endpoint)
			s := segments[e.segment]
			near, other := s.Start, s.End
			if e.end == 1 {
				near, other = s.End, s.Start
			}
			if near.Sub(vertex).LengthSquared() >= contourTolerance*contourTolerance {
				continue
			}
			if best < 0 || e.segment < best {
				best = e.segment
				far = other
			}
		}
		if best < 0 {
			return geometry.Vector3{}, false
		}
		used[best] = true
		return far, true
	}

	closes := func(a, b geometry.Vector3) bool {
		return a.Sub(b).LengthSquared() < contourTolerance*contourTolerance
	}

	var contours [][]geometry.Vector3
	for start := range segments {
		if used[start] {
			continue
		}
		used[start] = true
		contour := []geometry.Vector3{segments[start].Start, segments[start].End}

		for {
			vertex, ok := next(contour[len(contour)-1])
			if !ok {
				break
			}
			if len(contour) >= 3 && closes(vertex, contour[0]) {
				break
			}
			contour = append(contour, vertex)
		}

		if len(contour) >= 3 {
			contours = append(contours, slices.Clip(contour))
		}
	}

	return contours
}
