package kernel

// Mesh is an indexed triangle list laid out for upload to a GPU buffer.
// Positions and normals take three floats per vertex, UVs two, and every
// three indices form one triangle wound counter-clockwise seen from outside.
type Mesh struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	UVs      []float32 `json:"uvs"`
	Indices  []uint32  `json:"indices"`
	// PartName is the brush the mesh was built from.
	PartName string `json:"partName"`
}

func (m *Mesh) VertexCount() int   { return len(m.Vertices) / 3 }
func (m *Mesh) TriangleCount() int { return len(m.Indices) / 3 }
func (m *Mesh) IsEmpty() bool      { return len(m.Vertices) == 0 }

// vertex returns the position stored at index idx.
func (m *Mesh) vertex(idx uint32) [3]float32 {
	return [3]float32(m.Vertices[3*idx : 3*idx+3])
}

// Triangle returns the three corners of triangle i in winding order.
func (m *Mesh) Triangle(i int) (a, b, c [3]float32) {
	tri := m.Indices[3*i : 3*i+3]
	return m.vertex(tri[0]), m.vertex(tri[1]), m.vertex(tri[2])
}

// Wireframe is the edge overlay of a solid: Points has three floats per
// point and each pair in Edges joins two points.
type Wireframe struct {
	Points   []float32 `json:"points"`
	Edges    []uint32  `json:"edges"`
	PartName string    `json:"partName"`
}

func (w *Wireframe) PointCount() int { return len(w.Points) / 3 }
func (w *Wireframe) EdgeCount() int  { return len(w.Edges) / 2 }
func (w *Wireframe) IsEmpty() bool   { return len(w.Points) == 0 }
