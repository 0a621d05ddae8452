package graph

// NodeKind says which payload a Node carries and how the tessellator walks
// it.
type NodeKind int

const (
	// NodeBrush is a convex solid cut from half-spaces (defbrush). It is
	// always a leaf.
	NodeBrush NodeKind = iota
	// NodeTransform places its single child (place).
	NodeTransform
	// NodeGroup collects parts under one name (group).
	NodeGroup
)

var kindNames = [...]string{
	NodeBrush:     "brush",
	NodeTransform: "transform",
	NodeGroup:     "group",
}

func (k NodeKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Node is one vertex of the design graph. Children hold IDs rather than
// pointers so that graphs from separate evaluations can be compared by ID.
type Node struct {
	ID   NodeID   `json:"id"`
	Kind NodeKind `json:"kind"`
	// Name is the user-facing name; transforms are usually unnamed.
	Name        string      `json:"name,omitempty"`
	Source      SourceRef   `json:"source"`
	ContentHash ContentHash `json:"content_hash"`
	Children    []NodeID    `json:"children,omitempty"`
	Data        NodeData    `json:"data"`
}

// DisplayName is the name used in messages: Name when set, the short ID
// otherwise.
func (n *Node) DisplayName() string {
	if n.Name == "" {
		return n.ID.Short()
	}
	return n.Name
}

// NodeData is implemented by BrushData, TransformData and GroupData only.
type NodeData interface {
	nodeData()
}
