package mesh

import "math"

// Box returns a closed, outward-wound cuboid spanning [0,w]×[0,h]×[0,d]
func Box(w, h, d float64) *Mesh {
	positions := make([]float32, 0, 8*3)
	for i := 0; i < 8; i++ {
		x := float64(i&1) * w
		y := float64((i>>1)&1) * h
		z := float64((i>>2)&1) * d
		positions = append(positions, float32(x), float32(y), float32(z))
	}

	// vertex i sits at (i&1, i>>1&1, i>>2&1) scaled by the box size
	indices := []uint32{
		0, 2, 3, 0, 3, 1, // bottom  -Z
		4, 5, 7, 4, 7, 6, // top     +Z
		0, 1, 5, 0, 5, 4, // front   -Y
		2, 6, 7, 2, 7, 3, // back    +Y
		0, 4, 6, 0, 6, 2, // left    -X
		1, 3, 7, 1, 7, 5, // right   +X
	}

	return &Mesh{Positions: positions, Indices: indices}
}

// Cylinder returns a closed, outward-wound prism approximating a cylinder of
// the given radius, centred on the Z axis and spanning z in [0,height].
func Cylinder(radius, height float64, segments int) *Mesh {
	if segments < 3 {
		segments = 3
	}

	n := segments
	positions := make([]float32, 0, (2*n+2)*3)
	for ring := 0; ring < 2; ring++ {
		z := float64(ring) * height
		for i := 0; i < n; i++ {
			angle := 2 * math.Pi * float64(i) / float64(n)
			positions = append(positions,
				float32(radius*math.Cos(angle)),
				float32(radius*math.Sin(angle)),
				float32(z))
		}
	}
	bottomCenter := uint32(2 * n)
	topCenter := uint32(2*n + 1)
	positions = append(positions, 0, 0, 0, 0, 0, float32(height))

	indices := make([]uint32, 0, n*12)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		bi, bj := uint32(i), uint32(j)
		ti, tj := uint32(n+i), uint32(n+j)
		indices = append(indices,
			bi, bj, tj,
			bi, tj, ti,
			bottomCenter, bj, bi,
			topCenter, ti, tj,
		)
	}

	return &Mesh{Positions: positions, Indices: indices}
}

// Unindexed expands an indexed mesh into consecutive triangle triples
func (m *Mesh) Unindexed() *Mesh {
	if !m.IsIndexed() {
		return &Mesh{Positions: append([]float32(nil), m.Positions...)}
	}
	positions := make([]float32, 0, len(m.Indices)*3)
	for _, index := range m.Indices {
		o := int(index) * 3
		positions = append(positions, m.Positions[o], m.Positions[o+1], m.Positions[o+2])
	}
	return &Mesh{Positions: positions}
}
