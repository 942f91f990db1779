package formats

import (
	gomath "math"

	"github.com/Faultbox/evo-smf/pkg/math"
)

// VertexIndex assigns sequential slots to keys in first-seen order.
// Export uses it to split corners into unique SMF vertices (SplitKey);
// import uses it to weld SMF vertices that share geometry (WeldKey).
// An index lives for a single object pass and is not safe for concurrent use.
type VertexIndex[K comparable] struct {
	slots map[K]int
}

// NewVertexIndex creates an empty index sized for about n keys.
func NewVertexIndex[K comparable](n int) *VertexIndex[K] {
	return &VertexIndex[K]{slots: make(map[K]int, n)}
}

// Intern returns the slot for key. A key seen for the first time gets the next
// slot (0-based) and isNew is true.
func (x *VertexIndex[K]) Intern(key K) (index int, isNew bool) {
	if i, ok := x.slots[key]; ok {
		return i, false
	}
	index = len(x.slots)
	x.slots[key] = index
	return index, true
}

// Len returns the number of distinct keys interned so far.
func (x *VertexIndex[K]) Len() int {
	return len(x.slots)
}

// SplitKey identifies an exported vertex by its serialized SMF line, so two
// corners merge exactly when they would be written identically.
type SplitKey string

// WeldKey identifies an imported vertex by the bit patterns of its position
// and normal. UV is deliberately not part of the key.
type WeldKey [6]uint32

// NewWeldKey builds a WeldKey from a position and normal.
func NewWeldKey(pos, normal math.Vec3) WeldKey {
	return WeldKey{
		gomath.Float32bits(pos.X), gomath.Float32bits(pos.Y), gomath.Float32bits(pos.Z),
		gomath.Float32bits(normal.X), gomath.Float32bits(normal.Y), gomath.Float32bits(normal.Z),
	}
}
