package reactive

import "time"

// Memo is a cached computation that automatically tracks its dependencies.
// When any dependency changes, the memo is invalidated and will recompute
// on the next read.
//
// Memos are lazy: they only compute their value when read. If several
// dependencies change before a read, the memo recomputes once.
//
// Memos can be read by other memos and effects, which lets derived values
// form chains.
type Memo[T any] struct {
	rt   *Runtime
	id   NodeID
	name string
}

// NewMemo creates a memo in scope. The computation is not run until the
// first read.
func NewMemo[T any](scope *Scope, compute func() T, opts ...NodeOption) *Memo[T] {
	o := applyNodeOptions(opts)
	m := &Memo[T]{rt: scope.rt, name: o.name}
	if scope.disposed {
		return m
	}

	id, nd := scope.rt.nodes.alloc(KindMemo)
	nd.name = o.name
	nd.scope = scope
	nd.compute = func() any {
		return compute()
	}
	scope.own(id)

	m.id = id
	return m
}

// ID returns the memo's node id.
func (m *Memo[T]) ID() NodeID {
	return m.id
}

func (m *Memo[T]) info() NodeInfo {
	return NodeInfo{ID: m.id, Kind: KindMemo, Name: m.name}
}

// Read returns the memo's value, recomputing it first if a dependency
// changed since the last computation. During an evaluation the memo is
// recorded as a dependency.
func (m *Memo[T]) Read() (T, error) {
	var zero T
	nd, ok := m.rt.nodes.get(m.id)
	if !ok {
		return zero, nodeError("read", m.info(), ErrUseAfterDispose)
	}
	if nd.evaluating {
		return zero, nodeError("read", m.info(), ErrCyclicDependency)
	}

	m.rt.track(m.id)
	if nd.dirty {
		if err := m.rt.recompute(m.id, nd); err != nil {
			return zero, err
		}
	}
	value := valueOf[T](nd.value)

	// Writes made by the computation were deferred; run them now if this
	// read was the outermost operation.
	if len(m.rt.sched.deferred) > 0 {
		if err := m.rt.settle(); err != nil {
			return value, err
		}
	}
	return value, nil
}

// Get returns the memo's value and subscribes the current evaluation.
// Failures are reported the same way as Signal.Get.
func (m *Memo[T]) Get() T {
	v, err := m.Read()
	if err != nil {
		m.rt.fail(err)
	}
	return v
}

// Peek returns the memo's value without subscribing.
// It still recomputes if the value is stale.
func (m *Memo[T]) Peek() (T, error) {
	var v T
	var err error
	m.rt.Untracked(func() {
		v, err = m.Read()
	})
	return v, err
}

// Dispose releases the memo. Dependents are invalidated.
func (m *Memo[T]) Dispose() error {
	return m.rt.dispose(m.id, m.info())
}

// recompute runs a dirty memo's computation and caches the result.
// A failed computation leaves the memo dirty with its previous edges.
func (rt *Runtime) recompute(id NodeID, nd *node) error {
	if nd.evaluating {
		return nodeError("evaluate", nd.info(id), ErrCyclicDependency)
	}

	start := time.Now()
	var value any
	sources, err := rt.evaluate(id, nd, func() {
		value = nd.compute()
	})
	if err != nil {
		return err
	}
	if !nd.live {
		return nodeError("evaluate", nd.info(id), ErrUseAfterDispose)
	}

	rt.commit(id, nd, sources)
	nd.value = value
	nd.dirty = false

	rt.sched.recomputes++
	if rt.observer != nil {
		rt.observer.OnRecompute(nd.info(id), time.Since(start))
	}
	return nil
}
