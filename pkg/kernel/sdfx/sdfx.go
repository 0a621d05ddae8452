// Package sdfx is an approximate kernel.Kernel backed by
// github.com/deadsy/sdfx. A brush becomes a signed distance field and is
// meshed with marching cubes, which makes it a cross-check for the exact
// hull kernel rather than a replacement.
package sdfx

import (
	"math"

	"github.com/chazu/brushwork/pkg/brush"
	"github.com/chazu/brushwork/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

var _ sdf.SDF3 = (*BrushSDF)(nil)

// DefaultMeshCells is the marching cubes resolution along the longest axis.
const DefaultMeshCells = 64

// boxPadding is the fraction of the largest extent added around a brush
// bounding box so the surface never touches the sampling boundary.
const boxPadding = 0.01

// BrushSDF is the signed distance bound of a convex brush: the largest
// signed plane distance. It is exact inside and on faces and a lower
// bound near edges and corners, which marching cubes tolerates.
type BrushSDF struct {
	planes []brush.Plane
	bb     sdf.Box3
	empty  bool
}

// NewBrushSDF wraps a brush as an sdf.SDF3.
func NewBrushSDF(b *brush.Brush) *BrushSDF {
	s := &BrushSDF{planes: b.Planes()}
	min, max, ok := b.Bounds()
	if !ok {
		s.empty = true
		return s
	}
	size := max.Sub(min)
	pad := math.Max(size.X, math.Max(size.Y, size.Z)) * boxPadding
	padding := v3.Vec{X: pad, Y: pad, Z: pad}
	s.bb = sdf.Box3{Min: min.Sub(padding), Max: max.Add(padding)}
	return s
}

// Evaluate returns max over planes of dot(n, p) - d.
func (s *BrushSDF) Evaluate(p v3.Vec) float64 {
	d := math.Inf(-1)
	for _, pl := range s.planes {
		d = math.Max(d, pl.SignedDistance(p))
	}
	return d
}

// BoundingBox returns the padded box around the hull vertices.
func (s *BrushSDF) BoundingBox() sdf.Box3 {
	return s.bb
}

// sdfxSolid is a field in world space. empty marks a brush whose hull has
// no volume; it renders to nothing.
type sdfxSolid struct {
	s     sdf.SDF3
	empty bool
}

func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	if !s.empty {
		bb := s.s.BoundingBox()
		min, max = corner(bb.Min), corner(bb.Max)
	}
	return min, max
}

func corner(v v3.Vec) [3]float64 { return [3]float64{v.X, v.Y, v.Z} }

// transformed applies m to the field.
func (s *sdfxSolid) transformed(m sdf.M44) *sdfxSolid {
	return &sdfxSolid{s: sdf.Transform3D(s.s, m), empty: s.empty}
}

// SdfxKernel meshes brushes by sampling their distance fields on a uniform
// grid with cells cubes along the longest axis.
type SdfxKernel struct {
	cells int
}

var _ kernel.Kernel = (*SdfxKernel)(nil)

// New returns a kernel at DefaultMeshCells resolution.
func New() *SdfxKernel { return NewWithCells(DefaultMeshCells) }

// NewWithCells returns a kernel at the given resolution. Non-positive
// values select DefaultMeshCells.
func NewWithCells(cells int) *SdfxKernel {
	if cells <= 0 {
		cells = DefaultMeshCells
	}
	return &SdfxKernel{cells: cells}
}

func (k *SdfxKernel) Brush(planes []brush.Plane) (kernel.Solid, error) {
	b, err := brush.New(planes)
	if err != nil {
		return nil, err
	}
	f := NewBrushSDF(b)
	return &sdfxSolid{s: f, empty: f.empty}, nil
}

func (k *SdfxKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return s.(*sdfxSolid).transformed(sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z}))
}

func (k *SdfxKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return s.(*sdfxSolid).transformed(kernel.Rotation(x, y, z))
}

// Triangles runs marching cubes over the solid's bounding box.
func (k *SdfxKernel) Triangles(s kernel.Solid) []*sdf.Triangle3 {
	src := s.(*sdfxSolid)
	if src.empty {
		return nil
	}
	return render.ToTriangles(src.s, render.NewMarchingCubesUniform(k.cells))
}

// ToMesh returns the marching cubes triangles unwelded: every triangle
// owns three vertices carrying its face normal, so edges render sharp.
func (k *SdfxKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	tris := k.Triangles(s)
	m := &kernel.Mesh{
		Vertices: make([]float32, 0, 9*len(tris)),
		Normals:  make([]float32, 0, 9*len(tris)),
		UVs:      make([]float32, 6*len(tris)),
		Indices:  make([]uint32, 0, 3*len(tris)),
	}
	for _, tri := range tris {
		n := tri.Normal()
		for _, v := range tri {
			m.Indices = append(m.Indices, uint32(m.VertexCount()))
			m.Vertices = append(m.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
			m.Normals = append(m.Normals, float32(n.X), float32(n.Y), float32(n.Z))
		}
	}
	return m, nil
}

// ToWireframe returns the unique triangle edges of the marching cubes
// mesh, with coincident corners welded.
func (k *SdfxKernel) ToWireframe(s kernel.Solid) (*kernel.Wireframe, error) {
	type edgeKey struct{ a, b uint32 }

	w := &kernel.Wireframe{}
	index := make(map[[3]float32]uint32)
	seen := make(map[edgeKey]bool)

	pointIndex := func(v v3.Vec) uint32 {
		key := [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
		if i, ok := index[key]; ok {
			return i
		}
		i := uint32(len(index))
		index[key] = i
		w.Points = append(w.Points, key[0], key[1], key[2])
		return i
	}

	for _, tri := range k.Triangles(s) {
		var ids [3]uint32
		for j := 0; j < 3; j++ {
			ids[j] = pointIndex(tri[j])
		}
		for j := 0; j < 3; j++ {
			a, b := ids[j], ids[(j+1)%3]
			if a == b {
				continue
			}
			if a > b {
				a, b = b, a
			}
			if seen[edgeKey{a, b}] {
				continue
			}
			seen[edgeKey{a, b}] = true
			w.Edges = append(w.Edges, a, b)
		}
	}
	return w, nil
}
