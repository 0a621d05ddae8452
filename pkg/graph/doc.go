// Package graph holds the design graph: brushes, the transforms that place
// them and the groups that name collections of parts. The engine builds a
// graph per evaluation; Validate and ValidateAll check it before the
// tessellator walks it from its roots.
package graph
