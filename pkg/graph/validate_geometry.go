package graph

import (
	"math"

	"github.com/chazu/brushwork/pkg/brush"
)

// UnitTolerance is how far a normal's length may stray from 1 before it is
// reported as non-unit.
const UnitTolerance = 1e-6

// duplicateTolerance bounds the difference between normalized planes that
// are reported as duplicates.
const duplicateTolerance = 1e-9

// checkBrush runs the geometric checks (tier 2) on one brush. Hull checks
// only run once the plane set is usable by the solver, and use tol as the
// containment slack.
func checkBrush(node *Node, bd BrushData, tol float64, f *findings) {
	id, name := node.ID, node.DisplayName()

	switch {
	case len(bd.Planes) < 3:
		f.errorf(id, "brush %q has %d planes, need at least 3", name, len(bd.Planes))
	case len(bd.Planes) == 3:
		f.warnf(id, "brush %q has %d planes and cannot bound a finite volume", name, len(bd.Planes))
	}

	planes := bd.KernelPlanes()
	usable := len(planes) >= 3
	for i, p := range planes {
		if p.IsZero() {
			f.errorf(id, "brush %q plane %d has a zero normal", name, i)
			usable = false
			continue
		}
		if !p.IsUnit(UnitTolerance) {
			f.warnf(id, "brush %q plane %d normal %s is not unit length", name, i, bd.Planes[i].Normal)
		}
	}

	for j := 1; j < len(planes); j++ {
		for i := 0; i < j; i++ {
			if samePlane(planes[i], planes[j]) {
				f.warnf(id, "brush %q plane %d duplicates plane %d", name, j, i)
			}
		}
	}
	if !usable {
		return
	}

	verts := brush.EnumerateVerticesTol(planes, math.Max(tol, 0))
	if len(verts) < 4 {
		f.warnf(id, "brush %q has %d hull vertices; hull is empty or degenerate", name, len(verts))
		return
	}
	for _, face := range brush.AssembleFaces(planes, verts) {
		if face.IsDegenerate() {
			f.warnf(id, "brush %q plane %d contributes no face (redundant)", name, face.Plane)
		}
	}
}

// samePlane reports whether a and b bound the same half-space once their
// normals are scaled to unit length.
func samePlane(a, b brush.Plane) bool {
	la, lb := a.Normal.Length(), b.Normal.Length()
	if la == 0 || lb == 0 {
		return false
	}
	na, nb := a.Normal.DivScalar(la), b.Normal.DivScalar(lb)
	return math.Abs(na.X-nb.X) <= duplicateTolerance &&
		math.Abs(na.Y-nb.Y) <= duplicateTolerance &&
		math.Abs(na.Z-nb.Z) <= duplicateTolerance &&
		math.Abs(a.Distance/la-b.Distance/lb) <= duplicateTolerance
}
