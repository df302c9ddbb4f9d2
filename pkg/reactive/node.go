package reactive

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// Kind identifies the type of a reactive node.
type Kind uint8

const (
	KindSignal Kind = iota + 1
	KindMemo
	KindEffect
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindSignal:
		return "signal"
	case KindMemo:
		return "memo"
	case KindEffect:
		return "effect"
	default:
		return "unknown"
	}
}

// NodeInfo describes a node to observers.
type NodeInfo struct {
	ID   NodeID
	Kind Kind
	Name string
}

// node is one arena slot. Edges between nodes are id sets, never pointers.
type node struct {
	kind Kind
	gen  uint32
	live bool
	name string

	// scope owns the node and releases it on dispose.
	scope *Scope

	// value is the signal value or the memo's cached value.
	value any

	// equal is an optional equality check for signal writes.
	equal func(a, b any) bool

	// compute produces a memo value.
	compute func() any

	// run is the effect body; cleanup is what its last run returned.
	run     func() Cleanup
	cleanup Cleanup

	// dirty means the memo's cached value is stale.
	dirty bool

	// evaluating is set while compute or run is on the stack.
	evaluating bool

	// height is 0 for signals and 1+max(source heights) otherwise.
	height int

	// sources are the nodes read during the last successful evaluation.
	sources mapset.Set[NodeID]

	// subs are the memos and effects that read this node.
	subs mapset.Set[NodeID]
}

func (n *node) info(id NodeID) NodeInfo {
	return NodeInfo{ID: id, Kind: n.kind, Name: n.name}
}

func newIDSet() mapset.Set[NodeID] {
	return mapset.NewThreadUnsafeSet[NodeID]()
}

// arena stores nodes by index and recycles released slots.
type arena struct {
	nodes []*node
	free  []uint32
	live  Stats
}

// alloc reserves a slot for a new node of the given kind.
func (a *arena) alloc(kind Kind) (NodeID, *node) {
	var index uint32
	var gen uint32 = 1
	if n := len(a.free); n > 0 {
		index = a.free[n-1]
		a.free = a.free[:n-1]
		gen = a.nodes[index].gen
	} else {
		index = uint32(len(a.nodes))
		a.nodes = append(a.nodes, nil)
	}

	nd := &node{
		kind:    kind,
		gen:     gen,
		live:    true,
		dirty:   kind == KindMemo,
		sources: newIDSet(),
		subs:    newIDSet(),
	}
	a.nodes[index] = nd
	a.live.add(kind, 1)
	return NodeID{index: index, gen: gen}, nd
}

// get returns the live node for id.
func (a *arena) get(id NodeID) (*node, bool) {
	if id.gen == 0 || int(id.index) >= len(a.nodes) {
		return nil, false
	}
	nd := a.nodes[id.index]
	if nd == nil || !nd.live || nd.gen != id.gen {
		return nil, false
	}
	return nd, true
}

// release retires id's slot. The old node struct is detached so any code
// still holding it sees live == false.
func (a *arena) release(id NodeID) {
	nd, ok := a.get(id)
	if !ok {
		return
	}
	nd.live = false
	a.live.add(nd.kind, -1)
	a.nodes[id.index] = &node{gen: nd.gen + 1}
	a.free = append(a.free, id.index)
}

// count returns the number of live nodes of each kind.
func (a *arena) count() Stats {
	return a.live
}

// Stats counts live nodes in a Runtime.
type Stats struct {
	Signals int
	Memos   int
	Effects int
}

// Total returns the number of live nodes.
func (s Stats) Total() int {
	return s.Signals + s.Memos + s.Effects
}

func (s *Stats) add(kind Kind, n int) {
	switch kind {
	case KindSignal:
		s.Signals += n
	case KindMemo:
		s.Memos += n
	case KindEffect:
		s.Effects += n
	}
}
