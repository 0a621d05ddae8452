package engine

import (
	"fmt"

	"github.com/chazu/brushwork/pkg/brush"
	"github.com/chazu/brushwork/pkg/graph"
	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"
)

// builder accumulates graph nodes for one evaluation. Anonymous node IDs
// come from a per-evaluation counter so repeated evaluations of the same
// source produce identical graphs.
type builder struct {
	g       *graph.DesignGraph
	order   []graph.NodeID
	counter uint64
}

func newBuilder() *builder {
	return &builder{g: graph.New()}
}

func (b *builder) add(n *graph.Node) *sexpNodeRef {
	n.ContentHash = graph.NewContentHash(n.Data)
	b.g.AddNode(n)
	b.order = append(b.order, n.ID)
	return &sexpNodeRef{id: n.ID, name: n.Name}
}

// anonID derives the ID of an unnamed node from its form, its subject and
// the order of creation.
func (b *builder) anonID(form, subject string) graph.NodeID {
	b.counter++
	return graph.NewNodeID(fmt.Sprintf("%s/%s#%d", form, subject, b.counter))
}

// claimName rejects empty names and a second definition of the same name.
func (b *builder) claimName(form, name string) error {
	if name == "" {
		return fmt.Errorf("%s: name must not be empty", form)
	}
	if existing := b.g.Lookup(name); existing != nil {
		return fmt.Errorf("%s: name %q already defined as a %s", form, name, existing.Kind)
	}
	return nil
}

// demote removes nested groups from the root list once a parent group
// claims them.
func (b *builder) demote(children []graph.NodeID) {
	nested := make(map[graph.NodeID]bool, len(children))
	for _, c := range children {
		nested[c] = true
	}
	roots := b.g.Roots[:0]
	for _, r := range b.g.Roots {
		if !nested[r] {
			roots = append(roots, r)
		}
	}
	b.g.Roots = roots
}

// finish picks implicit roots when the program declared no group: every
// node that no other node references, in creation order.
func (b *builder) finish() *graph.DesignGraph {
	if len(b.g.Roots) > 0 {
		return b.g
	}
	referenced := make(map[graph.NodeID]bool)
	for _, n := range b.g.Nodes {
		for _, c := range n.Children {
			referenced[c] = true
		}
	}
	for _, id := range b.order {
		if !referenced[id] {
			b.g.AddRoot(id)
		}
	}
	return b.g
}

// registerBuiltins installs the DSL forms into env. Source must go through
// preprocessSource first so that keywords arrive as marked strings.
func registerBuiltins(env *zygo.Zlisp, b *builder) {
	forms := []struct {
		name string
		fn   func(*zygo.Zlisp, string, []zygo.Sexp) (zygo.Sexp, error)
	}{
		{"vec3", b.vec3},
		{"plane", b.plane},
		{"cuboid", b.cuboid},
		{"defbrush", b.defbrush},
		{"brush", b.brush},
		{"place", b.place},
		{"group", b.group},
	}
	for _, f := range forms {
		env.AddFunction(f.name, f.fn)
	}
}

// (vec3 x y z)
func (b *builder) vec3(_ *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 3 {
		return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
	}
	var c [3]float64
	for i, arg := range args {
		f, err := toFloat64(arg)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: %c: %w", "xyz"[i], err)
		}
		c[i] = f
	}
	return &sexpVec3{vec: graph.Vec3{X: c[0], Y: c[1], Z: c[2]}}, nil
}

// (plane (vec3 1 0 0) 0.5)
// (plane :normal (vec3 1 1 1) :distance 0.5 :normalize true)
//
// Keyword options override positional arguments. :normalize scales the
// normal to unit length and keeps the distance as written.
func (b *builder) plane(_ *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
	fa := splitArgs(args)
	if len(fa.pos) > 2 {
		return zygo.SexpNull, fmt.Errorf("plane takes a normal and a distance, got %d positional arguments", len(fa.pos))
	}

	var spec graph.PlaneSpec
	haveNormal, haveDist := false, false
	if len(fa.pos) > 0 {
		n, err := toVec3(fa.pos[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("plane: normal: %w", err)
		}
		spec.Normal, haveNormal = n, true
	}
	if len(fa.pos) > 1 {
		d, err := toFloat64(fa.pos[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("plane: distance: %w", err)
		}
		spec.Distance, haveDist = d, true
	}

	n, ok, err := option(fa, "normal", toVec3)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("plane: %w", err)
	} else if ok {
		spec.Normal, haveNormal = n, true
	}
	d, ok, err := option(fa, "distance", toFloat64)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("plane: %w", err)
	} else if ok {
		spec.Distance, haveDist = d, true
	}

	switch {
	case !haveNormal:
		return zygo.SexpNull, fmt.Errorf("plane requires a normal")
	case !haveDist:
		return zygo.SexpNull, fmt.Errorf("plane requires a distance")
	}

	normalize, _, err := option(fa, "normalize", toBool)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("plane: %w", err)
	}
	if normalize {
		if spec.Normal.IsZero() {
			return zygo.SexpNull, fmt.Errorf("plane: cannot normalize a zero normal")
		}
		spec = specOf(brush.NewPlaneNormalized(kernelVec(spec.Normal), spec.Distance))
	}
	return &sexpPlane{spec: spec}, nil
}

// (cuboid :size (vec3 2 1 2))
// (cuboid :min (vec3 -1 0 -1) :max (vec3 1 1 1))
func (b *builder) cuboid(_ *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
	fa := splitArgs(args)

	var lo, hi graph.Vec3
	size, haveSize, err := option(fa, "size", toVec3)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("cuboid: %w", err)
	}
	if haveSize {
		hi = size.Scale(0.5)
		lo = hi.Scale(-1)
	} else {
		var haveMin, haveMax bool
		if lo, haveMin, err = option(fa, "min", toVec3); err != nil {
			return zygo.SexpNull, fmt.Errorf("cuboid: %w", err)
		}
		if hi, haveMax, err = option(fa, "max", toVec3); err != nil {
			return zygo.SexpNull, fmt.Errorf("cuboid: %w", err)
		}
		if !haveMin || !haveMax {
			return zygo.SexpNull, fmt.Errorf("cuboid requires :size or both :min and :max")
		}
	}
	if lo.X >= hi.X || lo.Y >= hi.Y || lo.Z >= hi.Z {
		return zygo.SexpNull, fmt.Errorf("cuboid: extent %s..%s is empty on at least one axis", lo, hi)
	}

	planes := brush.BoxPlanes(kernelVec(lo), kernelVec(hi))
	specs := make([]graph.PlaneSpec, len(planes))
	for i, p := range planes {
		specs[i] = specOf(p)
	}
	return &sexpPlanes{specs: specs}, nil
}

// (defbrush "name" (plane ...) (cuboid ...) ... :material "stone")
func (b *builder) defbrush(_ *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
	fa := splitArgs(args)
	if len(fa.pos) < 2 {
		return zygo.SexpNull, fmt.Errorf("defbrush requires a name and at least one plane")
	}
	name, err := toString(fa.pos[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("defbrush: name: %w", err)
	}
	if err := b.claimName("defbrush", name); err != nil {
		return zygo.SexpNull, err
	}

	planes, err := flatten(fa.pos[1:], planeSpecs)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("defbrush %q: %w", name, err)
	}
	material, ok, err := option(fa, "material", toString)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("defbrush %q: %w", name, err)
	}
	if !ok {
		material = b.g.Defaults.Material
	}

	return b.add(&graph.Node{
		ID:   graph.NewNodeID("defbrush/" + name),
		Kind: graph.NodeBrush,
		Name: name,
		Data: graph.BrushData{Planes: planes, Material: material},
	}), nil
}

// (brush "name")
func (b *builder) brush(_ *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 1 {
		return zygo.SexpNull, fmt.Errorf("brush requires a name argument")
	}
	name, err := toString(args[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("brush: name: %w", err)
	}
	n := b.g.Lookup(name)
	switch {
	case n == nil:
		return zygo.SexpNull, fmt.Errorf("brush: no brush named %q", name)
	case n.Kind != graph.NodeBrush:
		return zygo.SexpNull, fmt.Errorf("brush: %q is a %s, not a brush", name, n.Kind)
	}
	return &sexpNodeRef{id: n.ID, name: name}, nil
}

// (place (brush "pillar") :at (vec3 0 0 4) :rotate (vec3 0 90 0))
func (b *builder) place(_ *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
	fa := splitArgs(args)
	if len(fa.pos) != 1 {
		return zygo.SexpNull, fmt.Errorf("place requires exactly one node reference, got %d", len(fa.pos))
	}
	child, err := toNodeRef(fa.pos[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("place: %w", err)
	}

	var td graph.TransformData
	at, ok, err := option(fa, "at", toVec3)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("place: %w", err)
	} else if ok {
		td.Translation = &at
	}
	rot, ok, err := option(fa, "rotate", toVec3)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("place: %w", err)
	} else if ok {
		td.Rotation = &rot
	}

	return b.add(&graph.Node{
		ID:       b.anonID("place", child.label()),
		Kind:     graph.NodeTransform,
		Children: []graph.NodeID{child.id},
		Data:     td,
	}), nil
}

// (group "name" (brush "a") (place ...) ... :description "text")
//
// A group becomes a root; a group nested inside another stops being one.
func (b *builder) group(_ *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
	fa := splitArgs(args)
	if len(fa.pos) < 1 {
		return zygo.SexpNull, fmt.Errorf("group requires a name argument")
	}
	name, err := toString(fa.pos[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("group: name: %w", err)
	}
	if err := b.claimName("group", name); err != nil {
		return zygo.SexpNull, err
	}

	refs, err := flatten(fa.pos[1:], nodeRefs)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("group %q: %w", name, err)
	}
	children := make([]graph.NodeID, len(refs))
	for i, r := range refs {
		children[i] = r.id
	}
	desc, _, err := option(fa, "description", toString)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("group %q: %w", name, err)
	}

	ref := b.add(&graph.Node{
		ID:       graph.NewNodeID("group/" + name),
		Kind:     graph.NodeGroup,
		Name:     name,
		Children: children,
		Data:     graph.GroupData{Description: desc},
	})
	b.demote(children)
	b.g.AddRoot(ref.id)
	return ref, nil
}

func kernelVec(v graph.Vec3) v3.Vec {
	return v3.Vec{X: v.X, Y: v.Y, Z: v.Z}
}

func specOf(p brush.Plane) graph.PlaneSpec {
	return graph.PlaneSpec{
		Normal:   graph.Vec3{X: p.Normal.X, Y: p.Normal.Y, Z: p.Normal.Z},
		Distance: p.Distance,
	}
}
