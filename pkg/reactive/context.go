package reactive

// Context passes a value from a scope to all of its descendants without
// threading it through every component in between. Create a context with
// CreateContext, provide a value at an ancestor scope, use it anywhere below.
//
// Example:
//
//	var ThemeContext = reactive.CreateContext[string]("theme")
//
//	ThemeContext.Provide(app, "dark")
//	theme, ok := ThemeContext.Use(button)  // "dark", true
type Context[T any] struct {
	// key uniquely identifies this context in scope value maps.
	key *contextKey
}

type contextKey struct {
	name string
}

// CreateContext creates a new context. The name is used for diagnostics.
func CreateContext[T any](name string) *Context[T] {
	return &Context[T]{key: &contextKey{name: name}}
}

// Name returns the context's diagnostic name.
func (c *Context[T]) Name() string {
	return c.key.name
}

// Provide makes value visible to scope and its descendants, shadowing any
// value provided for this context further up.
func (c *Context[T]) Provide(scope *Scope, value T) {
	scope.setValue(c.key, value)
}

// Use returns the value provided at the nearest ancestor (or scope itself).
// ok is false when no ancestor provided one; a provided zero value yields
// ok == true.
func (c *Context[T]) Use(scope *Scope) (value T, ok bool) {
	v, ok := scope.lookup(c.key)
	if !ok {
		return value, false
	}
	return valueOf[T](v), true
}

// UseOr returns the provided value, or fallback when none was provided.
func (c *Context[T]) UseOr(scope *Scope, fallback T) T {
	if v, ok := c.Use(scope); ok {
		return v
	}
	return fallback
}

// typeKey keys context values by their Go type.
type typeKey[T any] struct{}

// Provide makes value available to scope and its descendants under the
// key of its type T. Defining a named type per purpose keeps unrelated
// values of the same underlying type apart:
//
//	type ObjectContain struct{ Set *reactive.Signal[bool] }
//	reactive.Provide(parent, ObjectContain{Set: flag})
func Provide[T any](scope *Scope, value T) {
	scope.setValue(typeKey[T]{}, value)
}

// Consume returns the nearest value of type T provided at scope or an
// ancestor. ok is false when none was provided.
func Consume[T any](scope *Scope) (value T, ok bool) {
	v, ok := scope.lookup(typeKey[T]{})
	if !ok {
		return value, false
	}
	return valueOf[T](v), true
}

// setValue stores a context value on this scope.
func (s *Scope) setValue(key, value any) {
	if s.disposed {
		return
	}
	if s.values == nil {
		s.values = make(map[any]any)
	}
	s.values[key] = value
}

// lookup walks from s to the root looking for key.
func (s *Scope) lookup(key any) (any, bool) {
	if s.disposed {
		return nil, false
	}
	for cur := s; cur != nil; cur = cur.parent {
		if v, ok := cur.values[key]; ok {
			return v, true
		}
	}
	return nil, false
}
