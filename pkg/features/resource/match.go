package resource

// Handler renders a Resource in one specific state.
type Handler[T, R any] interface {
	handle(*Resource[T]) (R, bool)
}

// Match renders different content based on the resource state. The first
// handler matching the current state wins; ok is false when none matched.
// Reading the state subscribes the caller, so a Match inside an effect
// re-renders on every state change.
//
// Example:
//
//	text, _ := resource.Match(user,
//	    resource.OnLoading[*User](func() string { return "Loading..." }),
//	    resource.OnError[*User](func(err error) string { return err.Error() }),
//	    resource.OnReady(func(u *User) string { return u.Name }),
//	)
func Match[T, R any](r *Resource[T], handlers ...Handler[T, R]) (out R, ok bool) {
	for _, h := range handlers {
		if v, ok := h.handle(r); ok {
			return v, true
		}
	}
	return out, false
}

// Handler implementations

type stateHandler[T, R any] struct {
	states []State
	fn     func() R
}

func (h stateHandler[T, R]) handle(r *Resource[T]) (R, bool) {
	state := r.State()
	for _, s := range h.states {
		if s == state {
			return h.fn(), true
		}
	}
	var zero R
	return zero, false
}

type errorHandler[T, R any] struct {
	fn func(error) R
}

func (h errorHandler[T, R]) handle(r *Resource[T]) (R, bool) {
	if r.State() == Error {
		return h.fn(r.Error()), true
	}
	var zero R
	return zero, false
}

type readyHandler[T, R any] struct {
	fn func(T) R
}

func (h readyHandler[T, R]) handle(r *Resource[T]) (R, bool) {
	if r.State() == Ready {
		return h.fn(r.Data()), true
	}
	var zero R
	return zero, false
}

// Constructors

// OnPending handles the Pending state.
func OnPending[T, R any](fn func() R) Handler[T, R] {
	return stateHandler[T, R]{states: []State{Pending}, fn: fn}
}

// OnLoading handles the Loading state.
func OnLoading[T, R any](fn func() R) Handler[T, R] {
	return stateHandler[T, R]{states: []State{Loading}, fn: fn}
}

// OnLoadingOrPending handles both Loading and Pending states.
func OnLoadingOrPending[T, R any](fn func() R) Handler[T, R] {
	return stateHandler[T, R]{states: []State{Loading, Pending}, fn: fn}
}

// OnError handles the Error state.
func OnError[T, R any](fn func(error) R) Handler[T, R] {
	return errorHandler[T, R]{fn: fn}
}

// OnReady handles the Ready state.
func OnReady[T, R any](fn func(T) R) Handler[T, R] {
	return readyHandler[T, R]{fn: fn}
}
