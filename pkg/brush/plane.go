// Package brush reconstructs convex polyhedra from half-space planes.
// A brush is the intersection of a small set of half-spaces, as used by
// BSP-style level editors. The package derives the brush's vertices,
// edges, faces and a flat-shaded triangle mesh. Every function is pure
// and safe to call concurrently on shared inputs.
package brush

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Plane is the half-space {p : dot(Normal, p) <= Distance}.
// Normal is expected to be unit length. It is never normalized here;
// a scaled normal scales Distance with it and yields a different hull.
type Plane struct {
	Normal   v3.Vec  `json:"normal"`
	Distance float64 `json:"distance"`
}

// NewPlane returns the plane with the given outward normal and distance.
func NewPlane(normal v3.Vec, distance float64) Plane {
	return Plane{Normal: normal, Distance: distance}
}

// NewPlaneNormalized normalizes normal before building the plane.
func NewPlaneNormalized(normal v3.Vec, distance float64) Plane {
	return Plane{Normal: normal.Normalize(), Distance: distance}
}

// SignedDistance returns dot(Normal, p) - Distance. Negative values are
// inside the half-space.
func (p Plane) SignedDistance(pt v3.Vec) float64 {
	return p.Normal.Dot(pt) - p.Distance
}

// Translate returns the plane moved by t.
func (p Plane) Translate(t v3.Vec) Plane {
	return Plane{Normal: p.Normal, Distance: p.Distance + p.Normal.Dot(t)}
}

// Rotate returns the plane rotated about the origin by the rotation part
// of m. Translation components of m are ignored.
func (p Plane) Rotate(m sdf.M44) Plane {
	origin := m.MulPosition(v3.Vec{})
	n := m.MulPosition(p.Normal).Sub(origin)
	return Plane{Normal: n, Distance: p.Distance}
}

// IsZero reports whether the plane has a zero normal.
func (p Plane) IsZero() bool {
	return p.Normal.X == 0 && p.Normal.Y == 0 && p.Normal.Z == 0
}

// IsUnit reports whether the normal is unit length within tol.
func (p Plane) IsUnit(tol float64) bool {
	return math.Abs(p.Normal.Length()-1) <= tol
}

// Axis planes for building boxes.
var (
	AxisX    = v3.Vec{X: 1}
	AxisY    = v3.Vec{Y: 1}
	AxisZ    = v3.Vec{Z: 1}
	AxisNegX = v3.Vec{X: -1}
	AxisNegY = v3.Vec{Y: -1}
	AxisNegZ = v3.Vec{Z: -1}
)

// BoxPlanes returns the six axis-aligned planes bounding [min, max],
// ordered +X, +Y, +Z, -X, -Y, -Z.
func BoxPlanes(min, max v3.Vec) []Plane {
	return []Plane{
		NewPlane(AxisX, max.X),
		NewPlane(AxisY, max.Y),
		NewPlane(AxisZ, max.Z),
		NewPlane(AxisNegX, -min.X),
		NewPlane(AxisNegY, -min.Y),
		NewPlane(AxisNegZ, -min.Z),
	}
}
