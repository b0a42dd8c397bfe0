package geometry

import "math"

// Plane is an infinite plane through Origin with unit Normal
type Plane struct {
	Origin Vector3
	Normal Vector3
}

// NewPlane creates a plane through origin; normal is normalized
func NewPlane(origin, normal Vector3) Plane {
	return Plane{Origin: origin, Normal: normal.Normalize()}
}

// Distance returns the signed distance from point to the plane.
// Positive on the side the normal points to.
func (p Plane) Distance(point Vector3) float64 {
	return point.Sub(p.Origin).Dot(p.Normal)
}

// Basis returns two unit vectors spanning the plane, orthogonal to the
// normal and to each other. The reference axis is +Z unless the normal is
// nearly parallel to it, in which case +Y is used.
func (p Plane) Basis() (u, v Vector3) {
	reference := UnitZ
	if math.Abs(p.Normal.Z) >= 0.9 {
		reference = UnitY
	}
	u = reference.Cross(p.Normal).Normalize()
	v = p.Normal.Cross(u).Normalize()
	return u, v
}

// Project maps point into the 2D coordinates of the plane basis, relative to Origin
func (p Plane) Project(point Vector3, u, v Vector3) (float64, float64) {
	relative := point.Sub(p.Origin)
	return relative.Dot(u), relative.Dot(v)
}
