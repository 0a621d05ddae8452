package graph

import (
	"fmt"
	"sort"
)

// DefaultMaterial is assigned to brushes declared without :material.
const DefaultMaterial = "default"

// GlobalDefaults holds settings that apply to every node unless the node
// overrides them.
type GlobalDefaults struct {
	Material string `json:"material"`
}

// DesignGraph is what one evaluation of a source file produces. Nodes are
// keyed by ID; Roots lists the top-level parts in declaration order. A graph
// is built once by the engine and treated as read-only afterwards.
type DesignGraph struct {
	Nodes     map[NodeID]*Node  `json:"nodes"`
	Roots     []NodeID          `json:"roots"`
	NameIndex map[string]NodeID `json:"name_index"`
	Defaults  GlobalDefaults    `json:"defaults"`
	// Version is the engine generation that produced the graph.
	Version uint64 `json:"version"`
}

// New returns an empty graph.
func New() *DesignGraph {
	return &DesignGraph{
		Nodes:     map[NodeID]*Node{},
		NameIndex: map[string]NodeID{},
		Defaults:  GlobalDefaults{Material: DefaultMaterial},
	}
}

// AddNode stores n, replacing any node with the same ID, and indexes its
// name. Name clashes are left for Validate to report.
func (g *DesignGraph) AddNode(n *Node) {
	g.Nodes[n.ID] = n
	if n.Name == "" {
		return
	}
	g.NameIndex[n.Name] = n.ID
}

// AddRoot appends id to the top-level parts.
func (g *DesignGraph) AddRoot(id NodeID) {
	g.Roots = append(g.Roots, id)
}

// Get returns the node with the given ID, or nil.
func (g *DesignGraph) Get(id NodeID) *Node {
	return g.Nodes[id]
}

// Lookup returns the node registered under name, or nil.
func (g *DesignGraph) Lookup(name string) *Node {
	if id, ok := g.NameIndex[name]; ok {
		return g.Nodes[id]
	}
	return nil
}

// MustLookup is like Lookup but panics when name is unknown. It is meant
// for tests and for callers that have already validated the graph.
func (g *DesignGraph) MustLookup(name string) *Node {
	if n := g.Lookup(name); n != nil {
		return n
	}
	panic(fmt.Sprintf("graph: no node named %q", name))
}

// Brushes returns the brush nodes sorted by DisplayName.
func (g *DesignGraph) Brushes() []*Node {
	out := make([]*Node, 0, len(g.Nodes))
	for _, id := range sortedIDs(g) {
		if n := g.Nodes[id]; n.Kind == NodeBrush {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DisplayName() < out[j].DisplayName()
	})
	return out
}

// Children resolves n's child IDs, skipping any that are missing.
func (g *DesignGraph) Children(n *Node) []*Node {
	out := make([]*Node, 0, len(n.Children))
	for _, id := range n.Children {
		if c, ok := g.Nodes[id]; ok {
			out = append(out, c)
		}
	}
	return out
}

// NodeCount returns the number of nodes in the graph.
func (g *DesignGraph) NodeCount() int { return len(g.Nodes) }
