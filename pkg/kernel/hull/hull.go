// Package hull implements the kernel.Kernel interface exactly, on top of
// the plane-based reconstruction in package brush. A solid keeps its
// planes in the frame they were authored in and carries its placement as
// a matrix, so the hull is always solved on the original planes and
// transforms only move the finished vertices.
package hull

import (
	"fmt"
	"math"

	"github.com/chazu/brushwork/pkg/brush"
	"github.com/chazu/brushwork/pkg/kernel"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.Kernel = (*HullKernel)(nil)

// hullSolid is a brush in its local frame placed by m.
type hullSolid struct {
	b *brush.Brush
	m sdf.M44
}

// point maps a local position into world space.
func (s *hullSolid) point(p v3.Vec) v3.Vec {
	return s.m.MulPosition(p)
}

// direction maps a local normal into world space, snapping rounding
// noise so quarter turns keep axis-aligned normals exact.
func (s *hullSolid) direction(n v3.Vec) v3.Vec {
	r := s.m.MulPosition(n).Sub(s.m.MulPosition(v3.Vec{}))
	return v3.Vec{X: snap(r.X), Y: snap(r.Y), Z: snap(r.Z)}
}

// placed returns a copy of s with t applied after its current placement.
func (s *hullSolid) placed(t sdf.M44) *hullSolid {
	return &hullSolid{b: s.b, m: t.Mul(s.m)}
}

// BoundingBox returns the axis-aligned box around the placed hull
// vertices, or a zero box when the brush encloses nothing.
func (s *hullSolid) BoundingBox() (min, max [3]float64) {
	verts := s.b.Vertices()
	if len(verts) == 0 {
		return min, max
	}
	lo := s.point(verts[0].Point)
	hi := lo
	for _, v := range verts[1:] {
		p := s.point(v.Point)
		lo = lo.Min(p)
		hi = hi.Max(p)
	}
	min = [3]float64{lo.X, lo.Y, lo.Z}
	max = [3]float64{hi.X, hi.Y, hi.Z}
	return min, max
}

// snapEpsilon bounds the rounding noise removed from rotated normals.
const snapEpsilon = 1e-12

// HullKernel implements kernel.Kernel by plane intersection. With a zero
// tolerance the hull containment test is exact.
type HullKernel struct {
	tol float64
}

// New returns an exact HullKernel.
func New() *HullKernel {
	return &HullKernel{}
}

// NewWithTolerance returns a HullKernel whose brushes accept vertices up
// to tol beyond a plane. Negative values are treated as zero.
func NewWithTolerance(tol float64) *HullKernel {
	return &HullKernel{tol: math.Max(tol, 0)}
}

// unwrap extracts the hull solid from a kernel.Solid.
func unwrap(s kernel.Solid) *hullSolid {
	return s.(*hullSolid)
}

// Planes returns the world-space planes of a solid built by this kernel.
func Planes(s kernel.Solid) []brush.Plane {
	hs := unwrap(s)
	origin := hs.point(v3.Vec{})
	planes := hs.b.Planes()
	for i, p := range planes {
		planes[i] = brush.Plane{Normal: hs.direction(p.Normal), Distance: p.Distance}.Translate(origin)
	}
	return planes
}

// Brush creates a solid from half-space planes.
func (k *HullKernel) Brush(planes []brush.Plane) (kernel.Solid, error) {
	b, err := brush.NewWithTolerance(planes, k.tol)
	if err != nil {
		return nil, fmt.Errorf("hull: %w", err)
	}
	return &hullSolid{b: b, m: sdf.Identity3d()}, nil
}

// snap removes rounding noise from a unit-scale component so quarter
// turns of axis-aligned brushes stay exactly axis-aligned.
func snap(v float64) float64 {
	for _, target := range [...]float64{-1, 0, 1} {
		if math.Abs(v-target) < snapEpsilon {
			return target
		}
	}
	return v
}

// Translate moves a solid by (x, y, z).
func (k *HullKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return unwrap(s).placed(sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z}))
}

// Rotate rotates a solid about the origin by Euler angles (degrees),
// X first, then Y, then Z.
func (k *HullKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return unwrap(s).placed(kernel.Rotation(x, y, z))
}

// ToMesh assembles the brush faces and fan-triangulates them.
func (k *HullKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	hs := unwrap(s)
	m := hs.b.Mesh()

	n := len(m.Positions)
	vertices := make([]float32, 0, n*3)
	normals := make([]float32, 0, n*3)
	uvs := make([]float32, 0, n*2)

	for i, p := range m.Positions {
		p = hs.point(p)
		nrm := hs.direction(m.Normals[i])
		uv := m.UVs[i]
		vertices = append(vertices, float32(p.X), float32(p.Y), float32(p.Z))
		normals = append(normals, float32(nrm.X), float32(nrm.Y), float32(nrm.Z))
		uvs = append(uvs, float32(uv.X), float32(uv.Y))
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		UVs:      uvs,
		Indices:  append([]uint32(nil), m.Indices...),
	}, nil
}

// ToWireframe returns the hull vertices and edges.
func (k *HullKernel) ToWireframe(s kernel.Solid) (*kernel.Wireframe, error) {
	hs := unwrap(s)
	points, edges := hs.b.PointsEdges()

	w := &kernel.Wireframe{
		Points: make([]float32, 0, len(points)*3),
		Edges:  make([]uint32, 0, len(edges)*2),
	}
	for _, p := range points {
		p = hs.point(p)
		w.Points = append(w.Points, float32(p.X), float32(p.Y), float32(p.Z))
	}
	for _, e := range edges {
		w.Edges = append(w.Edges, uint32(e.A), uint32(e.B))
	}
	return w, nil
}
