package reactive

import (
	"fmt"
	"sync/atomic"
)

// NodeID identifies a signal, memo or effect within its Runtime's arena.
// The generation distinguishes the current occupant of a slot from earlier,
// released ones, so a stale handle never aliases a recycled node.
type NodeID struct {
	index uint32
	gen   uint32
}

// IsZero reports whether id was never allocated.
func (id NodeID) IsZero() bool {
	return id.gen == 0
}

// String returns the id as index@generation.
func (id NodeID) String() string {
	return fmt.Sprintf("%d@%d", id.index, id.gen)
}

// less orders ids by slot index, then generation.
func (id NodeID) less(other NodeID) bool {
	if id.index != other.index {
		return id.index < other.index
	}
	return id.gen < other.gen
}

// scopeIDCounter is the source of scope identifiers.
var scopeIDCounter uint64

// nextScopeID returns the next unique scope id. Scope ids are never reused.
func nextScopeID() uint64 {
	return atomic.AddUint64(&scopeIDCounter, 1)
}
