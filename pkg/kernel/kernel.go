// Package kernel is the seam between the design graph and the geometry
// backends. A backend builds a Solid from a brush's planes, poses it, and
// renders it as a triangle mesh and an edge wireframe. The hull backend is
// exact; the sdfx backend samples a signed distance field.
package kernel

import (
	"errors"
	"math"

	"github.com/chazu/brushwork/pkg/brush"
	"github.com/deadsy/sdfx/sdf"
)

var (
	// ErrTooFewPlanes is returned by Brush for fewer than three planes.
	ErrTooFewPlanes = brush.ErrTooFewPlanes
	// ErrUnsupported is returned for an output a backend cannot produce.
	ErrUnsupported = errors.New("kernel: unsupported operation")
)

// Solid is a backend-specific solid. Callers only ever hand it back to the
// Kernel that created it.
type Solid interface {
	// BoundingBox returns the axis-aligned bounds in world space.
	BoundingBox() (min, max [3]float64)
}

// Kernel builds and renders brush solids. Translate and Rotate return new
// solids and leave their argument untouched.
type Kernel interface {
	Brush(planes []brush.Plane) (Solid, error)

	Translate(s Solid, x, y, z float64) Solid
	// Rotate applies XYZ Euler angles given in degrees.
	Rotate(s Solid, x, y, z float64) Solid

	ToMesh(s Solid) (*Mesh, error)
	ToWireframe(s Solid) (*Wireframe, error)
}

// Rotation returns the matrix for XYZ Euler angles in degrees: X is applied
// first, then Y, then Z, all about the origin.
func Rotation(x, y, z float64) sdf.M44 {
	rad := func(deg float64) float64 { return deg * math.Pi / 180 }
	return sdf.RotateZ(rad(z)).Mul(sdf.RotateY(rad(y))).Mul(sdf.RotateX(rad(x)))
}
