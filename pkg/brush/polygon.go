package brush

import (
	"cmp"
	"math"
	"slices"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Polygon is the face a single plane contributes to the hull. Points are
// in convex winding order, counter-clockwise when viewed from outside
// along Normal. Vertices holds the matching indices into the generated
// vertex list.
//
// A plane that does not touch the hull yields a polygon with fewer than
// three points. That is not an error; such faces simply produce no
// triangles.
type Polygon struct {
	Plane     int      `json:"plane"`
	Normal    v3.Vec   `json:"normal"`
	Tangent   v3.Vec   `json:"tangent"`
	Bitangent v3.Vec   `json:"bitangent"`
	Points    []v3.Vec `json:"points"`
	Vertices  []int    `json:"vertices"`
}

// TangentFrame returns a basis spanning the plane with the given normal.
// The reference axis is +Y unless the normal is within 60 degrees of it,
// in which case +X is used, so the cross product never degenerates.
func TangentFrame(normal v3.Vec) (tangent, bitangent v3.Vec) {
	ref := AxisY
	if math.Abs(normal.Dot(AxisY)) > 0.5 {
		ref = AxisX
	}
	tangent = normal.Cross(ref)
	bitangent = tangent.Cross(normal)
	return tangent, bitangent
}

// Center returns the mean of the polygon's points.
func (p *Polygon) Center() v3.Vec {
	var sum v3.Vec
	if len(p.Points) == 0 {
		return sum
	}
	for _, pt := range p.Points {
		sum = sum.Add(pt)
	}
	return sum.DivScalar(float64(len(p.Points)))
}

// Angle returns the polar angle of pt around center in the tangent frame.
func (p *Polygon) Angle(center, pt v3.Vec) float64 {
	off := pt.Sub(center)
	return math.Atan2(off.Dot(p.Bitangent), off.Dot(p.Tangent))
}

// sortWinding orders points by descending angle around the centroid.
// Because tangent x bitangent points against the normal, descending angle
// in that frame is counter-clockwise about the normal.
func (p *Polygon) sortWinding() {
	if len(p.Points) < 2 {
		return
	}
	center := p.Center()

	type corner struct {
		pt    v3.Vec
		idx   int
		angle float64
	}
	corners := make([]corner, len(p.Points))
	for i, pt := range p.Points {
		corners[i] = corner{pt: pt, idx: p.Vertices[i], angle: p.Angle(center, pt)}
	}
	slices.SortStableFunc(corners, func(a, b corner) int {
		return cmp.Compare(b.angle, a.angle)
	})
	for i, c := range corners {
		p.Points[i] = c.pt
		p.Vertices[i] = c.idx
	}
}

// IsDegenerate reports whether the polygon has too few points to form a face.
func (p *Polygon) IsDegenerate() bool {
	return len(p.Points) < 3
}

// AssembleFaces builds one polygon per plane, in plane order, from the
// vertices that plane helped generate. A corner produced by several
// triples appears once, as its first copy in the vertex list, so faces
// meeting there agree on its position. The vertex list is only read.
func AssembleFaces(planes []Plane, verts []Vertex) []Polygon {
	canon := Weld(verts)
	polys := make([]Polygon, len(planes))
	for i, pl := range planes {
		t, b := TangentFrame(pl.Normal)
		poly := Polygon{
			Plane:     i,
			Normal:    pl.Normal,
			Tangent:   t,
			Bitangent: b,
		}
		for vi, v := range verts {
			c := canon[vi]
			if v.On(i) && !slices.Contains(poly.Vertices, c) {
				poly.Points = append(poly.Points, verts[c].Point)
				poly.Vertices = append(poly.Vertices, c)
			}
		}
		poly.sortWinding()
		polys[i] = poly
	}
	return polys
}
