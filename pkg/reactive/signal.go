package reactive

// Signal is a reactive value container owned by a Scope.
// Reading a Signal during a memo computation or effect run subscribes that
// memo or effect; writing it propagates to every subscriber.
type Signal[T any] struct {
	rt   *Runtime
	id   NodeID
	name string
}

// NewSignal creates a signal in scope with the given initial value.
// If scope is already disposed the returned handle is dead: every operation
// on it fails with ErrUseAfterDispose.
func NewSignal[T any](scope *Scope, initial T, opts ...NodeOption) *Signal[T] {
	o := applyNodeOptions(opts)
	s := &Signal[T]{rt: scope.rt, name: o.name}
	if scope.disposed {
		return s
	}

	id, nd := scope.rt.nodes.alloc(KindSignal)
	nd.name = o.name
	nd.value = initial
	nd.scope = scope
	scope.own(id)

	s.id = id
	return s
}

// ID returns the signal's node id.
func (s *Signal[T]) ID() NodeID {
	return s.id
}

func (s *Signal[T]) info() NodeInfo {
	return NodeInfo{ID: s.id, Kind: KindSignal, Name: s.name}
}

// Read returns the current value. During an evaluation the signal is
// recorded as a dependency.
func (s *Signal[T]) Read() (T, error) {
	nd, ok := s.rt.nodes.get(s.id)
	if !ok {
		var zero T
		return zero, nodeError("read", s.info(), ErrUseAfterDispose)
	}
	s.rt.track(s.id)
	return valueOf[T](nd.value), nil
}

// Get returns the current value and subscribes the current evaluation.
// A failure aborts the enclosing memo computation, effect run or batch, which
// then reports the error. Outside of those Get panics with the error; use
// Read to handle it instead.
func (s *Signal[T]) Get() T {
	v, err := s.Read()
	if err != nil {
		s.rt.fail(err)
	}
	return v
}

// Peek returns the current value without subscribing.
func (s *Signal[T]) Peek() (T, error) {
	nd, ok := s.rt.nodes.get(s.id)
	if !ok {
		var zero T
		return zero, nodeError("read", s.info(), ErrUseAfterDispose)
	}
	return valueOf[T](nd.value), nil
}

// Set replaces the value and propagates to subscribers. Every write counts
// as a change, including one that stores the current value, unless the
// signal was configured with WithEquals.
func (s *Signal[T]) Set(value T) error {
	return s.rt.write(s.id, s.info(), func(any) any {
		return value
	})
}

// Update replaces the value with fn applied to the current one.
// The function receives the current value and returns the new value.
func (s *Signal[T]) Update(fn func(T) T) error {
	return s.rt.write(s.id, s.info(), func(old any) any {
		return fn(valueOf[T](old))
	})
}

// WithEquals makes writes that compare equal to the current value no-ops.
// This is an opt-in; by default every write propagates.
func (s *Signal[T]) WithEquals(fn func(a, b T) bool) *Signal[T] {
	if nd, ok := s.rt.nodes.get(s.id); ok {
		nd.equal = func(a, b any) bool {
			return fn(valueOf[T](a), valueOf[T](b))
		}
	}
	return s
}

// Dispose releases the signal. Dependent memos are invalidated and every
// later operation on this handle fails with ErrUseAfterDispose.
func (s *Signal[T]) Dispose() error {
	return s.rt.dispose(s.id, s.info())
}

// valueOf converts a stored value back to T. A nil interface value yields
// the zero T.
func valueOf[T any](v any) T {
	t, _ := v.(T)
	return t
}
