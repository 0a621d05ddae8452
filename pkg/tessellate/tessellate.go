// Package tessellate walks a design graph and produces triangle meshes and
// wireframes using a geometry kernel. One part is produced per brush reached
// from a root; a brush placed twice yields two parts.
package tessellate

import (
	"fmt"

	"github.com/chazu/brushwork/pkg/graph"
	"github.com/chazu/brushwork/pkg/kernel"
)

// Part is the tessellated output for one brush occurrence.
type Part struct {
	Name      string
	Material  string
	NodeID    graph.NodeID
	Mesh      *kernel.Mesh
	Wireframe *kernel.Wireframe
}

// Result holds every tessellated part in traversal order.
type Result struct {
	Parts []Part
}

// Meshes returns the part meshes in order.
func (r *Result) Meshes() []*kernel.Mesh {
	meshes := make([]*kernel.Mesh, len(r.Parts))
	for i, p := range r.Parts {
		meshes[i] = p.Mesh
	}
	return meshes
}

// Wireframes returns the part wireframes in order.
func (r *Result) Wireframes() []*kernel.Wireframe {
	wires := make([]*kernel.Wireframe, len(r.Parts))
	for i, p := range r.Parts {
		wires[i] = p.Wireframe
	}
	return wires
}

// transformStack holds the transforms between the current node and its root,
// outermost first.
type transformStack struct {
	frames []graph.TransformData
}

func newTransformStack() *transformStack {
	return &transformStack{}
}

func (ts *transformStack) push(td graph.TransformData) {
	ts.frames = append(ts.frames, td)
}

func (ts *transformStack) pop() {
	if len(ts.frames) > 0 {
		ts.frames = ts.frames[:len(ts.frames)-1]
	}
}

// apply places a solid in world space. Each frame rotates then translates,
// innermost frame first, so nested placements compose like matrices.
func (ts *transformStack) apply(k kernel.Kernel, s kernel.Solid) kernel.Solid {
	for i := len(ts.frames) - 1; i >= 0; i-- {
		td := ts.frames[i]
		if r := td.Rotation; r != nil && !r.IsZero() {
			s = k.Rotate(s, r.X, r.Y, r.Z)
		}
		if t := td.Translation; t != nil && !t.IsZero() {
			s = k.Translate(s, t.X, t.Y, t.Z)
		}
	}
	return s
}

// Tessellate walks the design graph and produces one mesh and one wireframe
// per brush occurrence using the provided geometry kernel. The tessellator
// is read-only and never mutates the graph.
func Tessellate(g *graph.DesignGraph, k kernel.Kernel) (*Result, error) {
	result := &Result{}
	if g == nil {
		return result, nil
	}

	ts := newTransformStack()

	for _, rootID := range g.Roots {
		root := g.Get(rootID)
		if root == nil {
			continue
		}
		collected, err := walkNode(g, k, root, ts)
		if err != nil {
			return nil, fmt.Errorf("tessellate: error walking root %s: %w", rootID.Short(), err)
		}
		result.Parts = append(result.Parts, collected...)
	}

	return result, nil
}

// walkNode recursively traverses a node and its children, collecting parts.
func walkNode(g *graph.DesignGraph, k kernel.Kernel, n *graph.Node, ts *transformStack) ([]Part, error) {
	switch n.Kind {
	case graph.NodeBrush:
		return handleBrush(g, k, n, ts)

	case graph.NodeTransform:
		return handleTransform(g, k, n, ts)

	case graph.NodeGroup:
		return handleGroup(g, k, n, ts)

	default:
		return nil, fmt.Errorf("unknown node kind: %v", n.Kind)
	}
}

// handleBrush builds the brush solid, places it and tessellates it.
func handleBrush(g *graph.DesignGraph, k kernel.Kernel, n *graph.Node, ts *transformStack) ([]Part, error) {
	data, ok := n.Data.(graph.BrushData)
	if !ok {
		return nil, fmt.Errorf("brush node %s has unsupported data type %T", n.ID.Short(), n.Data)
	}

	solid, err := k.Brush(data.KernelPlanes())
	if err != nil {
		return nil, fmt.Errorf("tessellate: brush %q: %w", n.DisplayName(), err)
	}
	solid = ts.apply(k, solid)

	mesh, err := k.ToMesh(solid)
	if err != nil {
		return nil, fmt.Errorf("tessellate: ToMesh failed for node %s: %w", n.ID.Short(), err)
	}
	wire, err := k.ToWireframe(solid)
	if err != nil {
		return nil, fmt.Errorf("tessellate: ToWireframe failed for node %s: %w", n.ID.Short(), err)
	}

	// Set the part name: prefer the node's Name, fall back to short ID.
	name := n.DisplayName()
	mesh.PartName = name
	wire.PartName = name

	material := data.Material
	if material == "" {
		material = g.Defaults.Material
	}

	return []Part{{
		Name:      name,
		Material:  material,
		NodeID:    n.ID,
		Mesh:      mesh,
		Wireframe: wire,
	}}, nil
}

// handleTransform pushes the transform, recurses into children, then pops.
func handleTransform(g *graph.DesignGraph, k kernel.Kernel, n *graph.Node, ts *transformStack) ([]Part, error) {
	td, ok := n.Data.(graph.TransformData)
	if !ok {
		return nil, fmt.Errorf("transform node %s has unexpected data type %T", n.ID.Short(), n.Data)
	}

	ts.push(td)
	defer ts.pop()

	var parts []Part
	for _, child := range g.Children(n) {
		collected, err := walkNode(g, k, child, ts)
		if err != nil {
			return nil, err
		}
		parts = append(parts, collected...)
	}
	return parts, nil
}

// handleGroup recurses into children transparently.
func handleGroup(g *graph.DesignGraph, k kernel.Kernel, n *graph.Node, ts *transformStack) ([]Part, error) {
	var parts []Part
	for _, child := range g.Children(n) {
		collected, err := walkNode(g, k, child, ts)
		if err != nil {
			return nil, err
		}
		parts = append(parts, collected...)
	}
	return parts, nil
}
