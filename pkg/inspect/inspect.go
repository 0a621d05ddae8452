// Package inspect reports manifold and measurement diagnostics for
// tessellated meshes.
package inspect

import (
	"fmt"

	"github.com/chazu/brushwork/pkg/kernel"
	"github.com/unixpickle/model3d"
)

// Report summarises one mesh.
type Report struct {
	PartName         string  `json:"partName"`
	Triangles        int     `json:"triangles"`
	Closed           bool    `json:"closed"`
	SingularVertices int     `json:"singularVertices"`
	Area             float64 `json:"area"`
	Volume           float64 `json:"volume"`
}

// String formats the report on a single line.
func (r Report) String() string {
	state := "closed"
	if !r.Closed {
		state = "open"
	}
	return fmt.Sprintf("%s: %d triangles, %s, %d singular, area %.4g, volume %.4g",
		r.PartName, r.Triangles, state, r.SingularVertices, r.Area, r.Volume)
}

// Triangles converts the indexed mesh into model3d triangles. Corners are
// welded by position when the triangles are put into a model3d.Mesh.
func Triangles(m *kernel.Mesh) []*model3d.Triangle {
	if m == nil {
		return nil
	}
	tris := make([]*model3d.Triangle, 0, m.TriangleCount())
	for i := 0; i < m.TriangleCount(); i++ {
		a, b, c := m.Triangle(i)
		tris = append(tris, &model3d.Triangle{coord(a), coord(b), coord(c)})
	}
	return tris
}

func coord(p [3]float32) model3d.Coord3D {
	return model3d.Coord3D{X: float64(p[0]), Y: float64(p[1]), Z: float64(p[2])}
}

// Inspect measures a mesh. Volume is signed: it is negative when the
// triangles wind inward.
func Inspect(m *kernel.Mesh) Report {
	r := Report{}
	if m == nil {
		return r
	}
	r.PartName = m.PartName
	tris := Triangles(m)
	r.Triangles = len(tris)
	if len(tris) == 0 {
		return r
	}

	mesh := model3d.NewMeshTriangles(tris)
	r.Closed = !mesh.NeedsRepair()
	r.SingularVertices = len(mesh.SingularVertices())

	for _, t := range tris {
		r.Area += t.Area()
		r.Volume += t[0].Dot(t[1].Cross(t[2])) / 6
	}
	return r
}

// InspectAll measures every mesh in order.
func InspectAll(meshes []*kernel.Mesh) []Report {
	reports := make([]Report, 0, len(meshes))
	for _, m := range meshes {
		reports = append(reports, Inspect(m))
	}
	return reports
}
