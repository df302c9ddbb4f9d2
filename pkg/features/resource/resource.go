package resource

import (
	"context"
	"sync"
	"time"

	"github.com/vango-dev/signals/pkg/reactive"
)

// State represents the current state of a resource.
type State int

const (
	Pending State = iota // Initial state, before first fetch
	Loading              // Fetch in progress
	Ready                // Data successfully loaded
	Error                // Fetch failed
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Resource manages asynchronous data fetching and state.
//
// The fetch runs on its own goroutine; results come back to the runtime
// through Dispatch and are applied in a single batch, so readers never see
// Ready without the matching data.
type Resource[T any] struct {
	rt    *reactive.Runtime
	state *reactive.Signal[State]
	data  *reactive.Signal[T]
	err   *reactive.Signal[error]

	// trigger is bumped by Refetch to rerun the fetching effect.
	trigger *reactive.Signal[int]
	effect  *reactive.Effect

	// Options
	opts      options
	onSuccess func(T)
	onError   func(error)

	// Internal
	fetchID uint64 // For ignoring outdated fetches
	mu      sync.Mutex
}

// New creates a Resource in scope with the given fetcher function.
// The fetch is triggered immediately and cancelled when scope is disposed.
//
// Example:
//
//	user := resource.New(scope, func(ctx context.Context) (*User, error) {
//	    return db.Users.Find(ctx, id)
//	})
func New[T any](scope *reactive.Scope, fetcher func(ctx context.Context) (T, error), opts ...Option) *Resource[T] {
	return NewWithSource(scope,
		func() struct{} { return struct{}{} },
		func(ctx context.Context, _ struct{}) (T, error) { return fetcher(ctx) },
		opts...)
}

// NewWithSource creates a Resource that refetches whenever source changes.
// The source function is tracked reactively; each change cancels the
// in-flight fetch and starts a new one with the new source value.
//
// Example:
//
//	profile := resource.NewWithSource(scope, userID.Get,
//	    func(ctx context.Context, id int) (*Profile, error) {
//	        return api.Profile(ctx, id)
//	    })
func NewWithSource[S, T any](scope *reactive.Scope, source func() S, fetcher func(ctx context.Context, src S) (T, error), opts ...Option) *Resource[T] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var zero T
	r := &Resource[T]{
		opts:    o,
		rt:      scope.Runtime(),
		state:   reactive.NewSignal(scope, Pending, reactive.Named("resource.state")),
		data:    reactive.NewSignal(scope, zero, reactive.Named("resource.data")),
		err:     reactive.NewSignal[error](scope, nil, reactive.Named("resource.error")),
		trigger: reactive.NewSignal(scope, 0, reactive.Named("resource.trigger")),
	}

	effect, err := reactive.NewEffect(scope, func() reactive.Cleanup {
		src := source()
		_ = r.trigger.Get()
		return r.start(func(ctx context.Context) (T, error) {
			return fetcher(ctx, src)
		})
	}, reactive.Named("resource.fetch"))
	if err != nil {
		r.rt.Logger().Warn("resource fetch effect failed", "error", err)
	}
	r.effect = effect
	return r
}

// start launches one fetch and returns the cleanup that cancels it.
func (r *Resource[T]) start(fetch func(ctx context.Context) (T, error)) reactive.Cleanup {
	r.mu.Lock()
	r.fetchID++
	currentID := r.fetchID
	r.mu.Unlock()
	retryCount, retryDelay, timeout := r.opts.retryCount, r.opts.retryDelay, r.opts.timeout

	// Deferred by the runtime until the effect returns.
	_ = r.state.Set(Loading)
	_ = r.err.Set(nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		var result T
		var err error

		maxAttempts := 1 + retryCount
		for i := 0; i < maxAttempts; i++ {
			if i > 0 {
				select {
				case <-ctx.Done():
					return
				case <-time.After(retryDelay):
				}
			}

			result, err = r.attempt(ctx, fetch, timeout)
			if err == nil || ctx.Err() != nil {
				break
			}
		}

		// Cancelled: a newer fetch or disposal owns the state now.
		if ctx.Err() != nil {
			return
		}
		if !r.rt.Dispatch(func() error { return r.complete(currentID, result, err) }) && !r.rt.IsClosed() {
			r.rt.Logger().Warn("resource result dropped", "fetch", currentID)
		}
	}()

	return reactive.Cleanup(cancel)
}

func (r *Resource[T]) attempt(ctx context.Context, fetch func(ctx context.Context) (T, error), timeout time.Duration) (T, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return fetch(ctx)
}

// complete writes a fetch result back. It runs on the runtime goroutine.
func (r *Resource[T]) complete(id uint64, result T, fetchErr error) error {
	r.mu.Lock()
	stale := id != r.fetchID
	onSuccess, onError := r.onSuccess, r.onError
	r.mu.Unlock()
	if stale {
		return nil
	}

	err := r.rt.Batch(func() error {
		if fetchErr != nil {
			if err := r.err.Set(fetchErr); err != nil {
				return err
			}
			return r.state.Set(Error)
		}
		if err := r.data.Set(result); err != nil {
			return err
		}
		if err := r.err.Set(nil); err != nil {
			return err
		}
		return r.state.Set(Ready)
	})
	if err != nil {
		return err
	}

	if fetchErr != nil {
		if onError != nil {
			onError(fetchErr)
		}
	} else if onSuccess != nil {
		onSuccess(result)
	}
	return nil
}

// State methods

// State returns the current state and subscribes the caller.
func (r *Resource[T]) State() State {
	return r.state.Get()
}

func (r *Resource[T]) IsLoading() bool {
	s := r.state.Get()
	return s == Loading || s == Pending
}

func (r *Resource[T]) IsReady() bool {
	return r.state.Get() == Ready
}

func (r *Resource[T]) IsError() bool {
	return r.state.Get() == Error
}

// Data access methods

// Data returns the last successfully loaded value. It keeps the previous
// value while a refetch is loading or after it failed.
func (r *Resource[T]) Data() T {
	return r.data.Get()
}

func (r *Resource[T]) DataOr(fallback T) T {
	if r.IsReady() {
		return r.data.Get()
	}
	return fallback
}

func (r *Resource[T]) Error() error {
	return r.err.Get()
}

// Control methods

// Refetch forces a new fetch with the current source value. It must be
// called on the runtime goroutine.
func (r *Resource[T]) Refetch() error {
	return r.trigger.Update(func(n int) int { return n + 1 })
}

// Mutate optimistically updates the local data.
func (r *Resource[T]) Mutate(fn func(T) T) error {
	return r.data.Update(fn)
}

// Dispose cancels the in-flight fetch and stops refetching. The state
// signals stay readable until their scope is disposed.
func (r *Resource[T]) Dispose() error {
	r.mu.Lock()
	r.fetchID++
	r.mu.Unlock()
	if r.effect == nil {
		return nil
	}
	return r.effect.Dispose()
}
