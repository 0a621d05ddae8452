package graph

import (
	"github.com/chazu/brushwork/pkg/brush"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// PlaneSpec is a half-space {p : dot(Normal, p) <= Distance} as written in
// the source. Normals are kept as authored; validation flags non-unit ones.
type PlaneSpec struct {
	Normal   Vec3    `json:"normal"`
	Distance float64 `json:"distance"`
}

// Plane converts the spec to a kernel plane.
func (p PlaneSpec) Plane() brush.Plane {
	return brush.NewPlane(v3.Vec{X: p.Normal.X, Y: p.Normal.Y, Z: p.Normal.Z}, p.Distance)
}

// BrushData is a convex solid described by its bounding planes.
// Plane order is significant: face and vertex output follows it.
type BrushData struct {
	Planes   []PlaneSpec `json:"planes"`
	Material string      `json:"material,omitempty"`
}

func (BrushData) nodeData() {}

// KernelPlanes converts every plane spec, preserving order.
func (d BrushData) KernelPlanes() []brush.Plane {
	planes := make([]brush.Plane, len(d.Planes))
	for i, p := range d.Planes {
		planes[i] = p.Plane()
	}
	return planes
}

// TransformData is the payload of a (place ...) form. Rotation is applied
// before Translation; a nil field leaves that part of the pose unchanged.
type TransformData struct {
	Translation *Vec3 `json:"translation,omitempty"`
	Rotation    *Vec3 `json:"rotation,omitempty"` // XYZ Euler degrees
}

func (TransformData) nodeData() {}

// GroupData is the payload of a (group ...) form.
type GroupData struct {
	Description string `json:"description,omitempty"`
}

func (GroupData) nodeData() {}
