package brush

import (
	"errors"
	"fmt"
	"slices"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ErrTooFewPlanes is returned when a brush has fewer than 3 planes, the
// minimum for which vertex enumeration is defined.
var ErrTooFewPlanes = errors.New("brush: fewer than 3 planes")

// Brush is a convex solid defined by an ordered list of half-spaces. It
// is built once and only queried afterwards. Plane order does not change
// the geometry but fixes the indices used to tag generated vertices.
type Brush struct {
	planes []Plane
	tol    float64
}

// New copies planes into a new brush.
func New(planes []Plane) (*Brush, error) {
	if len(planes) < 3 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewPlanes, len(planes))
	}
	return &Brush{planes: slices.Clone(planes)}, nil
}

// NewWithTolerance is like New but accepts hull vertices lying up to tol
// beyond a plane. Use it for brushes whose planes come from rotations or
// other inexact arithmetic, where the exact test may drop real corners.
func NewWithTolerance(planes []Plane, tol float64) (*Brush, error) {
	b, err := New(planes)
	if err != nil {
		return nil, err
	}
	if tol < 0 {
		return nil, fmt.Errorf("brush: negative tolerance %g", tol)
	}
	b.tol = tol
	return b, nil
}

// Tolerance returns the containment slack, 0 for exact brushes.
func (b *Brush) Tolerance() float64 {
	return b.tol
}

// MustNew is like New but panics on error.
func MustNew(planes []Plane) *Brush {
	b, err := New(planes)
	if err != nil {
		panic(err)
	}
	return b
}

// Planes returns a copy of the brush's planes.
func (b *Brush) Planes() []Plane {
	return slices.Clone(b.planes)
}

// Contains reports whether p is inside the brush.
func (b *Brush) Contains(p v3.Vec) bool {
	return IsPointInHullTol(b.planes, p, b.tol)
}

// Vertices enumerates the brush's hull vertices.
func (b *Brush) Vertices() []Vertex {
	return EnumerateVerticesTol(b.planes, b.tol)
}

// PointsEdges returns the distinct hull corners and the edges between
// them, the form a line renderer consumes. Copies of a corner where more
// than three planes meet are welded, and the zero-length or repeated
// edges they would produce are dropped.
func (b *Brush) PointsEdges() ([]v3.Vec, []Edge) {
	verts := b.Vertices()
	canon := Weld(verts)

	slot := make([]int, len(verts))
	var points []v3.Vec
	for i, v := range verts {
		if canon[i] == i {
			slot[i] = len(points)
			points = append(points, v.Point)
		}
	}

	var edges []Edge
	seen := make(map[Edge]bool)
	for _, e := range DeriveEdges(verts) {
		a, c := slot[canon[e.A]], slot[canon[e.B]]
		if a == c {
			continue
		}
		w := Edge{A: min(a, c), B: max(a, c)}
		if !seen[w] {
			seen[w] = true
			edges = append(edges, w)
		}
	}
	return points, edges
}

// Faces returns one wound polygon per plane.
func (b *Brush) Faces() []Polygon {
	return AssembleFaces(b.planes, b.Vertices())
}

// Mesh returns the triangulated, flat-shaded surface of the brush.
func (b *Brush) Mesh() *Mesh {
	return Triangulate(b.Faces())
}

// Bounds returns the axis-aligned box around the hull vertices. ok is
// false when the brush has no vertices.
func (b *Brush) Bounds() (min, max v3.Vec, ok bool) {
	verts := b.Vertices()
	if len(verts) == 0 {
		return v3.Vec{}, v3.Vec{}, false
	}
	min, max = verts[0].Point, verts[0].Point
	for _, v := range verts[1:] {
		min = min.Min(v.Point)
		max = max.Max(v.Point)
	}
	return min, max, true
}
