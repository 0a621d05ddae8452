package brush

import (
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Vertex is a hull corner together with the indices of the three planes
// whose intersection produced it, in ascending order.
type Vertex struct {
	Point  v3.Vec `json:"point"`
	Planes [3]int `json:"planes"`
}

// On reports whether plane index i is one of the generating planes.
func (v Vertex) On(i int) bool {
	return v.Planes[0] == i || v.Planes[1] == i || v.Planes[2] == i
}

// shared counts generating plane indices common to v and o.
func (v Vertex) shared(o Vertex) int {
	n := 0
	for _, a := range v.Planes {
		for _, b := range o.Planes {
			if a == b {
				n++
			}
		}
	}
	return n
}

// weldEpsilon is the relative distance under which two generated points
// are the same corner. Four or more planes meeting at one point yield one
// copy per triple, equal up to rounding.
const weldEpsilon = 1e-9

// coincident reports whether a and b are the same corner.
func coincident(a, b v3.Vec) bool {
	scale := math.Max(1, math.Max(maxAbs(a), maxAbs(b)))
	return maxAbs(a.Sub(b)) <= weldEpsilon*scale
}

// maxAbs returns the largest absolute component of v.
func maxAbs(v v3.Vec) float64 {
	return math.Max(math.Abs(v.X), math.Max(math.Abs(v.Y), math.Abs(v.Z)))
}

// Weld maps every vertex to the index of the first vertex at the same
// point. Vertices where exactly three planes meet map to themselves.
func Weld(verts []Vertex) []int {
	canon := make([]int, len(verts))
	for i, v := range verts {
		canon[i] = i
		for j := 0; j < i; j++ {
			if canon[j] == j && coincident(v.Point, verts[j].Point) {
				canon[i] = j
				break
			}
		}
	}
	return canon
}

// EnumerateVertices intersects every triple i<j<k of planes and keeps the
// points that lie inside all planes. Output follows triple order. The
// cubic cost is fine at brush scale (tens of planes).
//
// It panics when given fewer than 3 planes.
func EnumerateVertices(planes []Plane) []Vertex {
	return EnumerateVerticesTol(planes, 0)
}

// EnumerateVerticesTol is EnumerateVertices with tol applied both to the
// containment test and to the determinant, so near-parallel triples are
// skipped instead of producing far-away points.
func EnumerateVerticesTol(planes []Plane, tol float64) []Vertex {
	n := len(planes)
	if n < 3 {
		panic(fmt.Sprintf("brush: need at least 3 planes to enumerate vertices, got %d", n))
	}

	var verts []Vertex
	for i := 0; i < n-2; i++ {
		for j := i + 1; j < n-1; j++ {
			for k := j + 1; k < n; k++ {
				p, ok := PlaneIntersectionTol(planes[i], planes[j], planes[k], tol)
				if !ok {
					continue
				}
				if !IsPointInHullTol(planes, p, tol) {
					continue
				}
				verts = append(verts, Vertex{Point: p, Planes: [3]int{i, j, k}})
			}
		}
	}
	return verts
}
