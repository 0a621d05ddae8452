package graph

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// NodeID is a content-addressed node identifier: the SHA-256 of the path
// that created the node (for example "defbrush/floor").
type NodeID [32]byte

// NewNodeID derives a NodeID from a creation path.
func NewNodeID(path string) NodeID {
	return NodeID(sha256.Sum256([]byte(path)))
}

// IsZero reports whether the ID is unset.
func (id NodeID) IsZero() bool {
	return id == NodeID{}
}

// Short returns the first 6 bytes of the ID as hex.
func (id NodeID) Short() string {
	return hex.EncodeToString(id[:6])
}

func (id NodeID) String() string {
	return hex.EncodeToString(id[:])
}

// MarshalText encodes the ID as hex so it can key JSON maps.
func (id NodeID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText decodes a hex ID.
func (id *NodeID) UnmarshalText(b []byte) error {
	if hex.DecodedLen(len(b)) != len(id) {
		return fmt.Errorf("graph: node id: want %d hex chars, got %d", hex.EncodedLen(len(id)), len(b))
	}
	_, err := hex.Decode(id[:], b)
	return err
}

// ContentHash fingerprints a node's payload so unchanged nodes can be
// recognised across evaluations.
type ContentHash [32]byte

// NewContentHash hashes the printed form of a node payload.
func NewContentHash(data NodeData) ContentHash {
	return ContentHash(sha256.Sum256([]byte(fmt.Sprintf("%#v", data))))
}

// SourceRef points back at the DSL form that created a node.
type SourceRef struct {
	Line int `json:"line"`
	Col  int `json:"col"`
}

// Vec3 is a plain 3-component vector used in node payloads.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// IsZero reports whether all components are zero.
func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}
