package reactive

// Scope is an ownership boundary, typically one component instance.
// Signals, memos and effects belong to the scope they were created in and
// are released when it is disposed. Scopes form a tree mirroring the
// component tree; context lookups walk it upward.
type Scope struct {
	id     uint64
	rt     *Runtime
	parent *Scope

	children []*Scope

	// nodes are owned nodes in creation order.
	nodes []NodeID

	// cleanups run on dispose, last registered first.
	cleanups []func()

	// values holds context values provided at this scope.
	values map[any]any

	disposed  bool
	disposing bool
}

func newScope(rt *Runtime, parent *Scope) *Scope {
	s := &Scope{
		id:     nextScopeID(),
		rt:     rt,
		parent: parent,
	}
	if parent != nil {
		parent.children = append(parent.children, s)
	}
	return s
}

// Child creates a scope nested in s. A child of a disposed scope is born
// disposed and is not recorded in s.
func (s *Scope) Child() *Scope {
	if s.disposed {
		return &Scope{id: nextScopeID(), rt: s.rt, parent: s, disposed: true}
	}
	return newScope(s.rt, s)
}

// ID returns the unique identifier for this scope.
func (s *Scope) ID() uint64 {
	return s.id
}

// Parent returns the parent scope, or nil for the root.
func (s *Scope) Parent() *Scope {
	return s.parent
}

// Runtime returns the runtime the scope belongs to.
func (s *Scope) Runtime() *Runtime {
	return s.rt
}

// IsDisposed reports whether the scope has been disposed.
func (s *Scope) IsDisposed() bool {
	return s.disposed
}

// OnCleanup registers fn to run when the scope is disposed. On a scope that
// is already disposed fn runs immediately.
func (s *Scope) OnCleanup(fn func()) {
	if s.disposed {
		fn()
		return
	}
	s.cleanups = append(s.cleanups, fn)
}

// own records id as created in this scope.
func (s *Scope) own(id NodeID) {
	s.nodes = append(s.nodes, id)
}

// forget drops id after it was disposed individually.
func (s *Scope) forget(id NodeID) {
	if s.disposing {
		return
	}
	for i, n := range s.nodes {
		if n == id {
			s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)
			return
		}
	}
}

// Dispose tears the scope down: children first (last created first), then
// owned nodes in reverse creation order, then cleanups in reverse
// registration order. Context values provided here disappear. Dispose is
// idempotent.
func (s *Scope) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true
	s.disposing = true
	defer func() {
		s.disposing = false
	}()

	if s.parent != nil {
		s.parent.removeChild(s)
	}

	children := s.children
	s.children = nil
	for i := len(children) - 1; i >= 0; i-- {
		children[i].Dispose()
	}

	nodes := s.nodes
	s.nodes = nil
	for i := len(nodes) - 1; i >= 0; i-- {
		if nd, ok := s.rt.nodes.get(nodes[i]); ok {
			s.rt.release(nodes[i], nd)
		}
	}

	cleanups := s.cleanups
	s.cleanups = nil
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}

	s.values = nil
}

// removeChild removes a child scope from this scope's children.
func (s *Scope) removeChild(child *Scope) {
	for i, c := range s.children {
		if c == child {
			s.children = append(s.children[:i], s.children[i+1:]...)
			return
		}
	}
}

// WithScope creates a child scope, runs fn in it and returns the scope.
// If fn returns an error the child is disposed and the error returned.
// This mirrors how a component instance is mounted.
func (s *Scope) WithScope(fn func(child *Scope) error) (*Scope, error) {
	child := s.Child()
	if err := fn(child); err != nil {
		child.Dispose()
		return nil, err
	}
	return child, nil
}
