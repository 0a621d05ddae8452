package inspect_test

import (
	"math"
	"strings"
	"testing"

	"github.com/chazu/brushwork/pkg/brush"
	"github.com/chazu/brushwork/pkg/inspect"
	"github.com/chazu/brushwork/pkg/kernel"
	"github.com/chazu/brushwork/pkg/kernel/hull"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

func hullMesh(t *testing.T, planes []brush.Plane) *kernel.Mesh {
	t.Helper()
	k := hull.New()
	s, err := k.Brush(planes)
	if err != nil {
		t.Fatalf("Brush() error = %v", err)
	}
	m, err := k.ToMesh(s)
	if err != nil {
		t.Fatalf("ToMesh() error = %v", err)
	}
	m.PartName = "part"
	return m
}

func cube(h float64) []brush.Plane {
	return brush.BoxPlanes(v3.Vec{X: -h, Y: -h, Z: -h}, v3.Vec{X: h, Y: h, Z: h})
}

func TestInspectCube(t *testing.T) {
	r := inspect.Inspect(hullMesh(t, cube(1)))
	if r.Triangles != 12 {
		t.Errorf("Triangles = %d, want 12", r.Triangles)
	}
	if !r.Closed {
		t.Error("cube mesh should be closed")
	}
	if r.SingularVertices != 0 {
		t.Errorf("SingularVertices = %d, want 0", r.SingularVertices)
	}
	if math.Abs(r.Area-24) > 1e-9 {
		t.Errorf("Area = %v, want 24", r.Area)
	}
	if math.Abs(r.Volume-8) > 1e-9 {
		t.Errorf("Volume = %v, want 8", r.Volume)
	}
	if r.PartName != "part" {
		t.Errorf("PartName = %q, want %q", r.PartName, "part")
	}
}

func TestInspectCutCube(t *testing.T) {
	planes := append(cube(0.5), brush.NewPlaneNormalized(v3.Vec{X: 1, Y: 1, Z: 1}, 0.5))
	r := inspect.Inspect(hullMesh(t, planes))
	if !r.Closed {
		t.Error("cut cube mesh should be closed")
	}
	leg := 1.5 - math.Sqrt(3)/2
	want := 1 - leg*leg*leg/6
	if math.Abs(r.Volume-want) > 1e-5 {
		t.Errorf("Volume = %v, want %v", r.Volume, want)
	}
}

func TestInspectOpenMesh(t *testing.T) {
	m := hullMesh(t, cube(1))
	// Drop the last face.
	m.Indices = m.Indices[:len(m.Indices)-6]
	r := inspect.Inspect(m)
	if r.Triangles != 10 {
		t.Errorf("Triangles = %d, want 10", r.Triangles)
	}
	if r.Closed {
		t.Error("mesh with a missing face should not be closed")
	}
}

func TestInspectInvertedWinding(t *testing.T) {
	m := hullMesh(t, cube(1))
	for i := 0; i < len(m.Indices); i += 3 {
		m.Indices[i+1], m.Indices[i+2] = m.Indices[i+2], m.Indices[i+1]
	}
	r := inspect.Inspect(m)
	if math.Abs(r.Volume+8) > 1e-9 {
		t.Errorf("Volume = %v, want -8", r.Volume)
	}
}

func TestInspectEmpty(t *testing.T) {
	tests := []struct {
		name string
		mesh *kernel.Mesh
	}{
		{"nil", nil},
		{"no triangles", &kernel.Mesh{PartName: "empty"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := inspect.Inspect(tt.mesh)
			if r.Triangles != 0 || r.Closed || r.Volume != 0 {
				t.Errorf("Inspect() = %+v, want zero measurements", r)
			}
		})
	}
}

func TestInspectAll(t *testing.T) {
	reports := inspect.InspectAll([]*kernel.Mesh{hullMesh(t, cube(1)), hullMesh(t, cube(0.5))})
	if len(reports) != 2 {
		t.Fatalf("len(reports) = %d, want 2", len(reports))
	}
	if math.Abs(reports[1].Volume-1) > 1e-9 {
		t.Errorf("reports[1].Volume = %v, want 1", reports[1].Volume)
	}
}

func TestReportString(t *testing.T) {
	s := inspect.Report{PartName: "wall", Triangles: 12, Closed: true, Area: 24, Volume: 8}.String()
	for _, want := range []string{"wall", "12 triangles", "closed", "volume 8"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}
