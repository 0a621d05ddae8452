package graph

import (
	"bytes"
	"fmt"
	"sort"
)

// ValidationSeverity indicates whether a validation finding blocks evaluation
// or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks evaluation
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	NodeID   NodeID             // which node has the problem (zero if graph-level)
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.NodeID.IsZero() {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] node %s: %s", e.Severity, e.NodeID.Short(), e.Message)
}

// ValidationWarning describes a non-blocking advisory finding.
type ValidationWarning struct {
	NodeID  NodeID
	Message string
}

// ValidationResult bundles errors (blocking) and warnings (advisory)
// from all validation tiers.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// findings collects the results of one validation pass.
type findings []ValidationError

func (f *findings) errorf(id NodeID, format string, args ...any) {
	*f = append(*f, ValidationError{NodeID: id, Message: fmt.Sprintf(format, args...), Severity: SeverityError})
}

func (f *findings) warnf(id NodeID, format string, args ...any) {
	*f = append(*f, ValidationError{NodeID: id, Message: fmt.Sprintf(format, args...), Severity: SeverityWarning})
}

// sortedIDs lists node IDs in byte order so findings come out in the same
// order on every run.
func sortedIDs(g *DesignGraph) []NodeID {
	ids := make([]NodeID, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return bytes.Compare(ids[i][:], ids[j][:]) < 0 })
	return ids
}

// Validate runs the structural checks (tier 1): cycles, dangling
// references, names, roots and per-kind shape. Orphans and empty groups
// are reported with SeverityWarning. Validate never mutates g.
func Validate(g *DesignGraph) []ValidationError {
	ids := sortedIDs(g)
	var f findings
	checkCycles(g, ids, &f)
	checkReferences(g, ids, &f)
	checkNames(g, &f)
	checkRoots(g, ids, &f)
	checkKinds(g, ids, &f)
	return f
}

// ValidateAll runs both tiers and splits the findings into blocking errors
// and advisory warnings. Hull checks use the exact containment test.
func ValidateAll(g *DesignGraph) ValidationResult {
	return ValidateAllTol(g, 0)
}

// ValidateAllTol is ValidateAll with hull checks run at the given solver
// tolerance, so a brush is judged the way a tolerant kernel builds it.
func ValidateAllTol(g *DesignGraph, tol float64) ValidationResult {
	var f findings
	f = append(f, Validate(g)...)
	for _, id := range sortedIDs(g) {
		n := g.Nodes[id]
		if bd, ok := n.Data.(BrushData); ok {
			checkBrush(n, bd, tol, &f)
		}
	}

	var result ValidationResult
	for _, v := range f {
		if v.Severity == SeverityWarning {
			result.Warnings = append(result.Warnings, ValidationWarning{NodeID: v.NodeID, Message: v.Message})
			continue
		}
		result.Errors = append(result.Errors, v)
	}
	return result
}

// checkCycles reports the first cycle reachable by depth-first search. A
// node is on the stack while its descendants are being explored; meeting
// it again closes a cycle.
func checkCycles(g *DesignGraph, ids []NodeID, f *findings) {
	onStack := make(map[NodeID]bool)
	done := make(map[NodeID]bool)

	var visit func(id NodeID) bool
	visit = func(id NodeID) bool {
		if done[id] {
			return false
		}
		if onStack[id] {
			f.errorf(id, "cycle detected: node %s is part of a cycle", id.Short())
			return true
		}
		n, ok := g.Nodes[id]
		if !ok {
			return false
		}
		onStack[id] = true
		for _, child := range n.Children {
			if visit(child) {
				return true
			}
		}
		onStack[id] = false
		done[id] = true
		return false
	}

	for _, id := range ids {
		if visit(id) {
			return
		}
	}
}

// checkReferences reports children that are not in the graph.
func checkReferences(g *DesignGraph, ids []NodeID, f *findings) {
	for _, id := range ids {
		for _, child := range g.Nodes[id].Children {
			if _, ok := g.Nodes[child]; !ok {
				f.errorf(id, "child reference %s does not exist", child.Short())
			}
		}
	}
}

// checkNames reports NameIndex entries without a node and names shared by
// more than one node.
func checkNames(g *DesignGraph, f *findings) {
	names := make([]string, 0, len(g.NameIndex))
	for name := range g.NameIndex {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		id := g.NameIndex[name]
		if _, ok := g.Nodes[id]; !ok {
			f.errorf(NodeID{}, "name index entry %q references non-existent node %s", name, id.Short())
		}
	}

	count := make(map[string]int)
	for _, n := range g.Nodes {
		if n.Name != "" {
			count[n.Name]++
		}
	}
	shared := make([]string, 0)
	for name, c := range count {
		if c > 1 {
			shared = append(shared, name)
		}
	}
	sort.Strings(shared)
	for _, name := range shared {
		f.errorf(NodeID{}, "duplicate name %q assigned to %d nodes", name, count[name])
	}
}

// reachable returns every node that can be reached from a root.
func reachable(g *DesignGraph) map[NodeID]bool {
	seen := make(map[NodeID]bool)
	stack := make([]NodeID, 0, len(g.Roots))
	for _, rid := range g.Roots {
		if _, ok := g.Nodes[rid]; ok && !seen[rid] {
			seen[rid] = true
			stack = append(stack, rid)
		}
	}
	for len(stack) > 0 {
		n := g.Nodes[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]
		if n == nil {
			continue
		}
		for _, child := range n.Children {
			if !seen[child] {
				seen[child] = true
				stack = append(stack, child)
			}
		}
	}
	return seen
}

// checkRoots reports roots without a node and warns about nodes that no
// root reaches.
func checkRoots(g *DesignGraph, ids []NodeID, f *findings) {
	for _, rid := range g.Roots {
		if _, ok := g.Nodes[rid]; !ok {
			f.errorf(NodeID{}, "root reference %s does not exist", rid.Short())
		}
	}

	seen := reachable(g)
	for _, id := range ids {
		if !seen[id] {
			f.warnf(id, "node %q is not reachable from any root (orphan)", g.Nodes[id].DisplayName())
		}
	}
}

// checkKinds enforces per-kind shape: a brush is a leaf, a transform wraps
// exactly one child and every payload matches its node kind.
func checkKinds(g *DesignGraph, ids []NodeID, f *findings) {
	for _, id := range ids {
		n := g.Nodes[id]
		switch n.Kind {
		case NodeBrush:
			if _, ok := n.Data.(BrushData); !ok {
				f.errorf(id, "brush node carries %T, want BrushData", n.Data)
			}
			if len(n.Children) > 0 {
				f.errorf(id, "brush node has %d children, want none", len(n.Children))
			}
		case NodeTransform:
			if _, ok := n.Data.(TransformData); !ok {
				f.errorf(id, "transform node carries %T, want TransformData", n.Data)
			}
			if len(n.Children) != 1 {
				f.errorf(id, "transform must wrap exactly one child, has %d", len(n.Children))
			}
		case NodeGroup:
			if _, ok := n.Data.(GroupData); !ok {
				f.errorf(id, "group node carries %T, want GroupData", n.Data)
			}
			if len(n.Children) == 0 {
				f.warnf(id, "group %q is empty", n.DisplayName())
			}
		default:
			f.errorf(id, "unknown node kind %d", int(n.Kind))
		}
	}
}
