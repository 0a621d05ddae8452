package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/brushwork/pkg/graph"
	zygo "github.com/glycerine/zygomys/zygo"
)

// Values the DSL forms hand to each other. They print as the form that
// would rebuild them, which keeps REPL output and error text readable.

type sexpVec3 struct{ vec graph.Vec3 }

type sexpPlane struct{ spec graph.PlaneSpec }

// sexpPlanes is an ordered plane set such as the six faces of a cuboid.
type sexpPlanes struct{ specs []graph.PlaneSpec }

// sexpNodeRef points at a node already added to the graph. name is empty
// for anonymous nodes such as placements.
type sexpNodeRef struct {
	id   graph.NodeID
	name string
}

func (v *sexpVec3) SexpString(*zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}

func (p *sexpPlane) SexpString(*zygo.PrintState) string {
	return fmt.Sprintf("(plane %s %g)", p.spec.Normal, p.spec.Distance)
}

func (p *sexpPlanes) SexpString(*zygo.PrintState) string {
	return fmt.Sprintf("(planes %d)", len(p.specs))
}

func (n *sexpNodeRef) SexpString(*zygo.PrintState) string {
	if n.name == "" {
		return fmt.Sprintf("(noderef %s)", n.id.Short())
	}
	return fmt.Sprintf("(noderef %q)", n.name)
}

func (*sexpVec3) Type() *zygo.RegisteredType    { return nil }
func (*sexpPlane) Type() *zygo.RegisteredType   { return nil }
func (*sexpPlanes) Type() *zygo.RegisteredType  { return nil }
func (*sexpNodeRef) Type() *zygo.RegisteredType { return nil }

// label names the referenced node in derived IDs and messages.
func (n *sexpNodeRef) label() string {
	if n.name == "" {
		return n.id.Short()
	}
	return n.name
}

// formArgs is a form's argument list split into positional values and
// keyword options. A trailing keyword with no value is a bare flag and maps
// to SexpNull.
type formArgs struct {
	pos  []zygo.Sexp
	opts map[string]zygo.Sexp
}

func splitArgs(args []zygo.Sexp) formArgs {
	fa := formArgs{opts: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		key, ok := keyword(args[i])
		switch {
		case !ok:
			fa.pos = append(fa.pos, args[i])
		case i+1 == len(args):
			fa.opts[key] = zygo.SexpNull
		default:
			fa.opts[key] = args[i+1]
			i++
		}
	}
	return fa
}

// keyword reports whether s is a keyword rewritten by preprocessSource and
// returns its bare name.
func keyword(s zygo.Sexp) (string, bool) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return strings.CutPrefix(str.S, kwPrefix)
	}
	return "", false
}

// option converts keyword option key with conv. ok is false when the option
// was not given.
func option[T any](fa formArgs, key string, conv func(zygo.Sexp) (T, error)) (v T, ok bool, err error) {
	s, ok := fa.opts[key]
	if !ok {
		return v, false, nil
	}
	if v, err = conv(s); err != nil {
		return v, true, fmt.Errorf("%s: %w", key, err)
	}
	return v, true, nil
}

func mismatch(want string, s zygo.Sexp) error {
	return fmt.Errorf("expected %s, got %T (%s)", want, s, s.SexpString(nil))
}

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, mismatch("number", s)
}

func toString(s zygo.Sexp) (string, error) {
	if v, ok := s.(*zygo.SexpStr); ok {
		return v.S, nil
	}
	return "", mismatch("string", s)
}

// toBool accepts true, false and a bare keyword flag, which counts as true.
func toBool(s zygo.Sexp) (bool, error) {
	if v, ok := s.(*zygo.SexpBool); ok {
		return v.Val, nil
	}
	if s == zygo.SexpNull {
		return true, nil
	}
	return false, mismatch("true or false", s)
}

func toVec3(s zygo.Sexp) (graph.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return graph.Vec3{}, mismatch("vec3", s)
}

func toNodeRef(s zygo.Sexp) (*sexpNodeRef, error) {
	if v, ok := s.(*sexpNodeRef); ok {
		return v, nil
	}
	return nil, mismatch("node reference", s)
}

// elements returns the members of a list or array.
func elements(s zygo.Sexp) ([]zygo.Sexp, bool) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		items, err := zygo.ListToArray(v)
		return items, err == nil
	case *zygo.SexpArray:
		return v.Val, true
	}
	return nil, false
}

// flatten expands nested lists and arrays in args and converts every leaf
// with conv, preserving order. Leaves are numbered from one in errors.
func flatten[T any](args []zygo.Sexp, conv func(zygo.Sexp) ([]T, error)) ([]T, error) {
	var out []T
	for i, arg := range args {
		if items, ok := elements(arg); ok {
			nested, err := flatten(items, conv)
			if err != nil {
				return nil, err
			}
			out = append(out, nested...)
			continue
		}
		vals, err := conv(arg)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		out = append(out, vals...)
	}
	return out, nil
}

// planeSpecs converts one plane or plane set.
func planeSpecs(s zygo.Sexp) ([]graph.PlaneSpec, error) {
	switch v := s.(type) {
	case *sexpPlane:
		return []graph.PlaneSpec{v.spec}, nil
	case *sexpPlanes:
		return v.specs, nil
	}
	return nil, mismatch("plane or cuboid", s)
}

func nodeRefs(s zygo.Sexp) ([]*sexpNodeRef, error) {
	ref, err := toNodeRef(s)
	if err != nil {
		return nil, err
	}
	return []*sexpNodeRef{ref}, nil
}
