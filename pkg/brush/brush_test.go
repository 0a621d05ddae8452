package brush

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// --- Fixtures ---

// unitCube is the six axis planes at distance 0.5.
func unitCube() []Plane {
	return []Plane{
		NewPlane(AxisX, 0.5),
		NewPlane(AxisY, 0.5),
		NewPlane(AxisZ, 0.5),
		NewPlane(AxisNegX, 0.5),
		NewPlane(AxisNegY, 0.5),
		NewPlane(AxisNegZ, 0.5),
	}
}

// cutCube is the unit cube with its +X+Y+Z corner sliced off by
// x+y+z <= 1. The cut normal is not unit length so every intersection
// stays exactly representable.
func cutCube() []Plane {
	return append(unitCube(), NewPlane(v3.Vec{X: 1, Y: 1, Z: 1}, 1))
}

// octahedron is |x|+|y|+|z| <= 1. Four faces meet at each of its six
// corners.
func octahedron() []Plane {
	var planes []Plane
	for _, sx := range []float64{1, -1} {
		for _, sy := range []float64{1, -1} {
			for _, sz := range []float64{1, -1} {
				planes = append(planes, NewPlane(v3.Vec{X: sx, Y: sy, Z: sz}, 1))
			}
		}
	}
	return planes
}

// pyramid is a square pyramid on z >= 0 with its apex at (0, 0, 1). The
// four sloped faces meet at the apex.
func pyramid() []Plane {
	return []Plane{
		NewPlane(AxisNegZ, 0),
		NewPlane(v3.Vec{X: 1, Z: 1}, 1),
		NewPlane(v3.Vec{X: -1, Z: 1}, 1),
		NewPlane(v3.Vec{Y: 1, Z: 1}, 1),
		NewPlane(v3.Vec{Y: -1, Z: 1}, 1),
	}
}

func near(a, b v3.Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol && math.Abs(a.Z-b.Z) <= tol
}

// --- Enumeration and edges ---

func TestCubeVerticesAndEdges(t *testing.T) {
	b := MustNew(unitCube())
	points, edges := b.PointsEdges()
	if len(points) != 8 {
		t.Errorf("len(points) = %d, want 8", len(points))
	}
	if len(edges) != 12 {
		t.Errorf("len(edges) = %d, want 12", len(edges))
	}

	for _, p := range points {
		if math.Abs(p.X) != 0.5 || math.Abs(p.Y) != 0.5 || math.Abs(p.Z) != 0.5 {
			t.Errorf("point %v is not a cube corner", p)
		}
	}

	// Every corner touches three edges.
	degree := make(map[int]int)
	for _, e := range edges {
		if e.A >= e.B {
			t.Errorf("edge %v not ordered", e)
		}
		degree[e.A]++
		degree[e.B]++
		if l := points[e.A].Sub(points[e.B]).Length(); l != 1 {
			t.Errorf("edge %v length = %v, want 1", e, l)
		}
	}
	for i := range points {
		if degree[i] != 3 {
			t.Errorf("vertex %d degree = %d, want 3", i, degree[i])
		}
	}
}

func TestEnumerateVerticesTripleOrder(t *testing.T) {
	verts := EnumerateVertices(unitCube())
	for i, v := range verts {
		if !(v.Planes[0] < v.Planes[1] && v.Planes[1] < v.Planes[2]) {
			t.Errorf("vertex %d planes %v not ascending", i, v.Planes)
		}
		if i == 0 {
			continue
		}
		prev := verts[i-1].Planes
		if !lessTriple(prev, v.Planes) {
			t.Errorf("vertex %d planes %v do not follow %v", i, v.Planes, prev)
		}
	}
	first := verts[0]
	if first.Planes != [3]int{0, 1, 2} || first.Point != (v3.Vec{X: 0.5, Y: 0.5, Z: 0.5}) {
		t.Errorf("first vertex = %+v, want +X+Y+Z corner from planes 0,1,2", first)
	}
}

func lessTriple(a, b [3]int) bool {
	for i := 0; i < 3; i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

func TestEnumerateVerticesInsideHull(t *testing.T) {
	planes := cutCube()
	verts := EnumerateVertices(planes)
	if len(verts) != 10 {
		t.Fatalf("len(verts) = %d, want 10", len(verts))
	}
	for _, v := range verts {
		if !IsPointInHull(planes, v.Point) {
			t.Errorf("vertex %v outside hull", v.Point)
		}
		for _, i := range v.Planes {
			if d := planes[i].SignedDistance(v.Point); d != 0 {
				t.Errorf("vertex %v off generating plane %d by %g", v.Point, i, d)
			}
		}
	}
	if got := len(DeriveEdges(verts)); got != 15 {
		t.Errorf("len(DeriveEdges()) = %d, want 15", got)
	}
}

func TestEnumerateVerticesPanicsBelowThreePlanes(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("EnumerateVertices() with 2 planes did not panic")
		}
	}()
	EnumerateVertices(unitCube()[:2])
}

func TestEnumerateVerticesUnbounded(t *testing.T) {
	// Three planes bound an infinite corner: one vertex, no volume.
	verts := EnumerateVertices(unitCube()[:3])
	if len(verts) != 1 {
		t.Errorf("len(verts) = %d, want 1", len(verts))
	}
	if got := DeriveEdges(verts); len(got) != 0 {
		t.Errorf("DeriveEdges() = %v, want none", got)
	}
}

func TestDeriveEdgesSharedCount(t *testing.T) {
	verts := []Vertex{
		{Planes: [3]int{0, 1, 2}},
		{Planes: [3]int{0, 1, 3}}, // shares 0,1 with first
		{Planes: [3]int{0, 4, 5}}, // shares 0 only
		{Planes: [3]int{3, 4, 5}}, // shares none with first
	}
	got := DeriveEdges(verts)
	want := []Edge{{A: 0, B: 1}, {A: 2, B: 3}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DeriveEdges() = %v, want %v", got, want)
	}
}

// --- Faces ---

func TestConcurrentPlanes(t *testing.T) {
	tests := []struct {
		name               string
		planes             []Plane
		raw, points, edges int
		triangles          int
		facePoints         []int
	}{
		{"octahedron", octahedron(), 24, 6, 12, 8, []int{3, 3, 3, 3, 3, 3, 3, 3}},
		{"pyramid", pyramid(), 8, 5, 8, 6, []int{4, 3, 3, 3, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Enumeration keeps one copy per generating triple.
			if got := len(EnumerateVertices(tt.planes)); got != tt.raw {
				t.Errorf("len(EnumerateVertices()) = %d, want %d", got, tt.raw)
			}

			b := MustNew(tt.planes)
			points, edges := b.PointsEdges()
			if len(points) != tt.points {
				t.Errorf("len(points) = %d, want %d", len(points), tt.points)
			}
			if len(edges) != tt.edges {
				t.Errorf("len(edges) = %d, want %d", len(edges), tt.edges)
			}
			seen := make(map[Edge]bool)
			for _, e := range edges {
				if e.A >= e.B {
					t.Errorf("edge %v not ordered", e)
				}
				if seen[e] {
					t.Errorf("edge %v repeated", e)
				}
				seen[e] = true
				if l := points[e.A].Sub(points[e.B]).Length(); l < 1e-6 {
					t.Errorf("edge %v has length %g", e, l)
				}
			}

			for _, f := range b.Faces() {
				if got := len(f.Points); got != tt.facePoints[f.Plane] {
					t.Errorf("plane %d: %d points, want %d", f.Plane, got, tt.facePoints[f.Plane])
				}
			}

			m := b.Mesh()
			if m.TriangleCount() != tt.triangles {
				t.Errorf("TriangleCount() = %d, want %d", m.TriangleCount(), tt.triangles)
			}
			for i := 0; i < len(m.Indices); i += 3 {
				a, p, c := m.Positions[m.Indices[i]], m.Positions[m.Indices[i+1]], m.Positions[m.Indices[i+2]]
				if area := p.Sub(a).Cross(c.Sub(a)).Length(); area < 1e-9 {
					t.Errorf("triangle %d has zero area", i/3)
				}
			}
		})
	}
}

func TestWeld(t *testing.T) {
	verts := []Vertex{
		{Point: v3.Vec{X: 1}},
		{Point: v3.Vec{Y: 1}},
		{Point: v3.Vec{X: 1 + 1e-15}},
		{Point: v3.Vec{X: 1.001}},
	}
	if got, want := Weld(verts), []int{0, 1, 0, 3}; !reflect.DeepEqual(got, want) {
		t.Errorf("Weld() = %v, want %v", got, want)
	}
}

func TestTangentFrame(t *testing.T) {
	for _, n := range []v3.Vec{AxisX, AxisY, AxisZ, AxisNegX, AxisNegY, AxisNegZ, v3.Vec{X: 1, Y: 1, Z: 1}.Normalize()} {
		tan, bit := TangentFrame(n)
		if tan.Length() < 0.5 {
			t.Errorf("normal %v: tangent %v degenerate", n, tan)
		}
		if d := tan.Dot(n); math.Abs(d) > 1e-12 {
			t.Errorf("normal %v: tangent not in plane (dot %g)", n, d)
		}
		if d := bit.Dot(n); math.Abs(d) > 1e-12 {
			t.Errorf("normal %v: bitangent not in plane (dot %g)", n, d)
		}
		if d := tan.Dot(bit); math.Abs(d) > 1e-12 {
			t.Errorf("normal %v: tangent and bitangent not orthogonal (dot %g)", n, d)
		}
	}
}

// signedArea returns twice the polygon area projected on its normal.
func signedArea(p Polygon) float64 {
	c := p.Center()
	var sum v3.Vec
	for i := range p.Points {
		a := p.Points[i].Sub(c)
		b := p.Points[(i+1)%len(p.Points)].Sub(c)
		sum = sum.Add(a.Cross(b))
	}
	return sum.Dot(p.Normal)
}

func TestAssembleFacesWinding(t *testing.T) {
	for name, planes := range map[string][]Plane{
		"cube": unitCube(), "cut cube": cutCube(), "octahedron": octahedron(), "pyramid": pyramid(),
	} {
		t.Run(name, func(t *testing.T) {
			polys := AssembleFaces(planes, EnumerateVertices(planes))
			if len(polys) != len(planes) {
				t.Fatalf("len(polys) = %d, want %d", len(polys), len(planes))
			}
			for i, p := range polys {
				if p.Plane != i {
					t.Errorf("polygon %d has plane %d", i, p.Plane)
				}
				if p.IsDegenerate() {
					t.Errorf("polygon %d degenerate with %d points", i, len(p.Points))
					continue
				}
				c := p.Center()
				for j := 1; j < len(p.Points); j++ {
					prev := p.Angle(c, p.Points[j-1])
					cur := p.Angle(c, p.Points[j])
					if !(cur < prev) {
						t.Errorf("polygon %d: angle %d (%g) not below angle %d (%g)", i, j, cur, j-1, prev)
					}
				}
				if a := signedArea(p); a <= 0 {
					t.Errorf("polygon %d: signed area %g, want positive", i, a)
				}
				for j, pt := range p.Points {
					if d := planes[i].SignedDistance(pt); d != 0 {
						t.Errorf("polygon %d point %d off plane by %g", i, j, d)
					}
				}
			}
		})
	}
}

func TestAssembleFacesVertexIndices(t *testing.T) {
	planes := cutCube()
	verts := EnumerateVertices(planes)
	polys := AssembleFaces(planes, verts)

	wantSizes := []int{5, 5, 5, 4, 4, 4, 3}
	for i, p := range polys {
		if len(p.Points) != wantSizes[i] {
			t.Errorf("polygon %d has %d points, want %d", i, len(p.Points), wantSizes[i])
		}
		if len(p.Vertices) != len(p.Points) {
			t.Fatalf("polygon %d: %d vertex indices for %d points", i, len(p.Vertices), len(p.Points))
		}
		for j, vi := range p.Vertices {
			if verts[vi].Point != p.Points[j] {
				t.Errorf("polygon %d: index %d points at %v, want %v", i, vi, verts[vi].Point, p.Points[j])
			}
		}
	}
}

func TestAssembleFacesUnusedPlane(t *testing.T) {
	// The last plane lies outside the cube and never touches the hull.
	planes := append(unitCube(), NewPlane(AxisX, 3))
	polys := AssembleFaces(planes, EnumerateVertices(planes))
	last := polys[len(polys)-1]
	if !last.IsDegenerate() {
		t.Errorf("unused plane produced %d points, want fewer than 3", len(last.Points))
	}
	if m := Triangulate(polys); m.TriangleCount() != 12 {
		t.Errorf("TriangleCount() = %d, want 12", m.TriangleCount())
	}
}

// --- Triangulation ---

func TestTriangulateConservation(t *testing.T) {
	planes := cutCube()
	polys := AssembleFaces(planes, EnumerateVertices(planes))
	m := Triangulate(polys)

	if len(m.Positions) != len(m.Normals) || len(m.Positions) != len(m.UVs) {
		t.Fatalf("buffer lengths differ: %d positions, %d normals, %d uvs",
			len(m.Positions), len(m.Normals), len(m.UVs))
	}
	if m.TriangleCount() != 16 {
		t.Errorf("TriangleCount() = %d, want 16", m.TriangleCount())
	}

	base := 0
	for _, p := range polys {
		n := len(p.Points)
		tris := m.Indices[:(n-2)*3]
		m.Indices = m.Indices[(n-2)*3:]

		seen := make(map[uint32]bool)
		for _, idx := range tris {
			seen[idx] = true
		}
		if len(seen) != n {
			t.Errorf("plane %d: triangles cover %d of %d vertices", p.Plane, len(seen), n)
		}
		for i := 0; i < n; i++ {
			if !seen[uint32(base+i)] {
				t.Errorf("plane %d: vertex %d not referenced", p.Plane, base+i)
			}
		}
		for i := 0; i < len(tris); i += 3 {
			if tris[i] != uint32(base) {
				t.Errorf("plane %d: triangle %d does not fan from %d", p.Plane, i/3, base)
			}
		}
		base += n
	}
}

func TestTriangulateWindingMatchesNormal(t *testing.T) {
	m := MustNew(cutCube()).Mesh()
	for i := 0; i < len(m.Indices); i += 3 {
		a, b, c := m.Positions[m.Indices[i]], m.Positions[m.Indices[i+1]], m.Positions[m.Indices[i+2]]
		geo := b.Sub(a).Cross(c.Sub(a))
		if d := geo.Dot(m.Normals[m.Indices[i]]); d <= 0 {
			t.Errorf("triangle %d faces inward (dot %g)", i/3, d)
		}
	}
	for i, uv := range m.UVs {
		if uv.X != 0 || uv.Y != 0 {
			t.Errorf("uv %d = %v, want zero", i, uv)
		}
	}
}

func TestTriangulateSkipsDegenerate(t *testing.T) {
	polys := []Polygon{
		{Normal: AxisZ},
		{Normal: AxisZ, Points: []v3.Vec{{}, {X: 1}}},
	}
	m := Triangulate(polys)
	if len(m.Positions) != 0 || len(m.Indices) != 0 {
		t.Errorf("Triangulate() = %d positions, %d indices, want empty", len(m.Positions), len(m.Indices))
	}
}

func TestTriangulateLeavesInputUntouched(t *testing.T) {
	polys := MustNew(unitCube()).Faces()
	before := make([][]v3.Vec, len(polys))
	for i, p := range polys {
		before[i] = append([]v3.Vec(nil), p.Points...)
	}
	Triangulate(polys)
	for i, p := range polys {
		if !reflect.DeepEqual(p.Points, before[i]) {
			t.Errorf("polygon %d mutated", i)
		}
	}
}

// --- Brush ---

func TestNewTooFewPlanes(t *testing.T) {
	_, err := New(unitCube()[:2])
	if !errors.Is(err, ErrTooFewPlanes) {
		t.Errorf("New() error = %v, want ErrTooFewPlanes", err)
	}
}

func TestNewCopiesPlanes(t *testing.T) {
	planes := unitCube()
	b := MustNew(planes)
	planes[0].Distance = 10
	if got := b.Planes()[0].Distance; got != 0.5 {
		t.Errorf("brush plane distance = %v after caller mutation, want 0.5", got)
	}
}

func TestBrushDeterminism(t *testing.T) {
	b := MustNew(cutCube())
	p1, e1 := b.PointsEdges()
	p2, e2 := b.PointsEdges()
	if !reflect.DeepEqual(p1, p2) || !reflect.DeepEqual(e1, e2) {
		t.Error("PointsEdges() differs between calls")
	}
	if !reflect.DeepEqual(b.Faces(), b.Faces()) {
		t.Error("Faces() differs between calls")
	}
	if !reflect.DeepEqual(b.Mesh(), b.Mesh()) {
		t.Error("Mesh() differs between calls")
	}
}

func TestBrushBounds(t *testing.T) {
	b := MustNew(BoxPlanes(v3.Vec{X: -1, Y: 0, Z: 2}, v3.Vec{X: 3, Y: 1, Z: 5}))
	min, max, ok := b.Bounds()
	if !ok {
		t.Fatal("Bounds() ok = false")
	}
	if min != (v3.Vec{X: -1, Y: 0, Z: 2}) || max != (v3.Vec{X: 3, Y: 1, Z: 5}) {
		t.Errorf("Bounds() = %v, %v", min, max)
	}
	if !b.Contains(v3.Vec{X: 0, Y: 0.5, Z: 3}) {
		t.Error("Contains(interior) = false")
	}
}

func TestBrushBoundsEmpty(t *testing.T) {
	// x <= 0 and x >= 1 bound nothing.
	b := MustNew([]Plane{
		NewPlane(AxisX, 0),
		NewPlane(AxisNegX, -1),
		NewPlane(AxisY, 1),
		NewPlane(AxisZ, 1),
	})
	if _, _, ok := b.Bounds(); ok {
		t.Error("Bounds() ok = true for empty brush")
	}
	if m := b.Mesh(); m.TriangleCount() != 0 {
		t.Errorf("TriangleCount() = %d, want 0", m.TriangleCount())
	}
}

// --- Plane transforms ---

func TestPlaneTranslate(t *testing.T) {
	p := NewPlane(AxisX, 0.5).Translate(v3.Vec{X: 2, Y: 7})
	if p.Distance != 2.5 {
		t.Errorf("Translate() distance = %v, want 2.5", p.Distance)
	}
}

func TestPlaneRotate(t *testing.T) {
	p := NewPlane(AxisX, 0.5).Rotate(sdf.RotateZ(math.Pi / 2))
	if !near(p.Normal, AxisY, 1e-12) {
		t.Errorf("Rotate() normal = %v, want %v", p.Normal, AxisY)
	}
	if p.Distance != 0.5 {
		t.Errorf("Rotate() distance = %v, want 0.5", p.Distance)
	}
}

func TestPlaneNormalized(t *testing.T) {
	p := NewPlaneNormalized(v3.Vec{X: 3, Y: 4}, 1)
	if !p.IsUnit(1e-12) {
		t.Errorf("normal %v not unit", p.Normal)
	}
	if NewPlane(v3.Vec{X: 3, Y: 4}, 1).IsUnit(1e-12) {
		t.Error("IsUnit() = true for (3,4,0)")
	}
	if !(Plane{}).IsZero() {
		t.Error("IsZero() = false for zero plane")
	}
}

func TestNewWithTolerance(t *testing.T) {
	if _, err := NewWithTolerance(unitCube(), -1); err == nil {
		t.Error("NewWithTolerance(-1) error = nil")
	}
	b, err := NewWithTolerance(unitCube(), 1e-9)
	if err != nil {
		t.Fatalf("NewWithTolerance() error = %v", err)
	}
	if b.Tolerance() != 1e-9 {
		t.Errorf("Tolerance() = %g, want 1e-9", b.Tolerance())
	}
	if !b.Contains(v3.Vec{X: 0.5 + 1e-12}) {
		t.Error("Contains() rejected a point within tolerance")
	}
	if got := len(b.Vertices()); got != 8 {
		t.Errorf("len(Vertices()) = %d, want 8", got)
	}
}
