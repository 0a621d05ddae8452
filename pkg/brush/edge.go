package brush

// Edge joins two generated vertices, by index, with A < B.
type Edge struct {
	A int `json:"a"`
	B int `json:"b"`
}

// DeriveEdges returns every pair of vertices that share exactly two
// generating planes. Such a pair lies on the line where those two planes
// meet, so it is a hull edge.
func DeriveEdges(verts []Vertex) []Edge {
	var edges []Edge
	for i := 0; i < len(verts); i++ {
		for j := i + 1; j < len(verts); j++ {
			if verts[i].shared(verts[j]) == 2 {
				edges = append(edges, Edge{A: i, B: j})
			}
		}
	}
	return edges
}
