package brush

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// PlaneIntersection returns the single point lying on all three planes.
// The scalar triple product of the normals is the system determinant;
// when it is zero the planes are parallel, coincident or share a line,
// and ok is false. That case is routine during triple enumeration.
func PlaneIntersection(a, b, c Plane) (p v3.Vec, ok bool) {
	return PlaneIntersectionTol(a, b, c, 0)
}

// PlaneIntersectionTol treats the planes as having no single intersection
// when the determinant magnitude is at or below tol.
func PlaneIntersectionTol(a, b, c Plane, tol float64) (p v3.Vec, ok bool) {
	na, nb, nc := a.Normal, b.Normal, c.Normal

	denom := na.Cross(nb).Dot(nc)
	if math.Abs(denom) <= tol {
		return v3.Vec{}, false
	}

	p = nb.Cross(nc).MulScalar(a.Distance).
		Add(nc.Cross(na).MulScalar(b.Distance)).
		Add(na.Cross(nb).MulScalar(c.Distance)).
		DivScalar(denom)
	return p, true
}

// IsPointInHull reports whether p satisfies every plane's half-space.
// The comparison is exact: points on a plane are inside, any positive
// excess is outside.
func IsPointInHull(planes []Plane, p v3.Vec) bool {
	for _, pl := range planes {
		proj := pl.Normal.Dot(p)
		if proj > pl.Distance && proj-pl.Distance > 0 {
			return false
		}
	}
	return true
}

// IsPointInHullTol is IsPointInHull with a slack of tol: a point is
// outside only when it lies more than tol beyond some plane. tol = 0 is
// the exact test.
func IsPointInHullTol(planes []Plane, p v3.Vec, tol float64) bool {
	if tol == 0 {
		return IsPointInHull(planes, p)
	}
	for _, pl := range planes {
		if pl.Normal.Dot(p)-pl.Distance > tol {
			return false
		}
	}
	return true
}
