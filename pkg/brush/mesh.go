package brush

import (
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Mesh is a flat-shaded triangle list. Each face owns its own copies of
// its corner positions so that every vertex carries the face normal.
// UVs are placeholders and always zero.
type Mesh struct {
	Positions []v3.Vec
	Normals   []v3.Vec
	UVs       []v2.Vec
	Indices   []uint32
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Triangulate fan-triangulates each polygon from its first point. A
// polygon with n points emits n-2 triangles whose winding follows the
// polygon's, so geometric normals agree with the stored face normal.
// Polygons with fewer than three points are skipped.
func Triangulate(polys []Polygon) *Mesh {
	m := &Mesh{}
	for _, p := range polys {
		n := len(p.Points)
		if n < 3 {
			continue
		}
		first := uint32(len(m.Positions))
		for _, pt := range p.Points {
			m.Positions = append(m.Positions, pt)
			m.Normals = append(m.Normals, p.Normal)
			m.UVs = append(m.UVs, v2.Vec{})
		}
		for i := 1; i < n-1; i++ {
			m.Indices = append(m.Indices, first, first+uint32(i), first+uint32(i)+1)
		}
	}
	return m
}
