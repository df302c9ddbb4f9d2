package reactive

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Runtime owns a reactive graph: the node arena, the scope tree, the
// dependency tracker and the scheduler. It is not safe for concurrent use;
// see Dispatch for handing work to the runtime goroutine.
type Runtime struct {
	id    string
	nodes arena
	root  *Scope

	// frame is the evaluation currently recording dependencies.
	frame *frame

	// depth counts evaluations on the stack.
	depth int

	// guarded counts recover frames on the stack. While positive, a failing
	// Get aborts the enclosing evaluation instead of panicking outward.
	guarded int

	sched scheduler

	logger    *slog.Logger
	observer  Observer
	maxPasses int
	autoFlush bool

	dispatchBuffer int
	dispatchCh     chan func() error
	done           chan struct{}
	closed         atomic.Bool
	closeOnce      sync.Once

	// runMu guards running, which is set while a Run loop owns the graph.
	runMu   sync.Mutex
	running bool
}

// NewRuntime creates a runtime with an empty root scope.
func NewRuntime(opts ...Option) *Runtime {
	rt := &Runtime{
		id:             uuid.NewString(),
		autoFlush:      true,
		maxPasses:      DefaultMaxPasses,
		dispatchBuffer: DefaultDispatchBuffer,
		done:           make(chan struct{}),
	}
	for _, opt := range opts {
		opt(rt)
	}

	if rt.logger == nil {
		rt.logger = slog.Default()
	}
	rt.logger = rt.logger.With("runtime", rt.id)
	if rt.maxPasses < 1 {
		rt.maxPasses = DefaultMaxPasses
	}
	if rt.dispatchBuffer < 1 {
		rt.dispatchBuffer = DefaultDispatchBuffer
	}
	rt.dispatchCh = make(chan func() error, rt.dispatchBuffer)
	rt.sched.init()
	rt.root = newScope(rt, nil)
	return rt
}

// ID returns the runtime's unique identifier.
func (rt *Runtime) ID() string {
	return rt.id
}

// Root returns the root scope.
func (rt *Runtime) Root() *Scope {
	return rt.root
}

// Logger returns the runtime's logger.
func (rt *Runtime) Logger() *slog.Logger {
	return rt.logger
}

// Stats returns the number of live nodes per kind.
func (rt *Runtime) Stats() Stats {
	return rt.nodes.count()
}

// Close stops Run and disposes the root scope. Queued dispatch callbacks
// are discarded. Close is idempotent and safe to call from any goroutine:
// while a Run loop is active the root is disposed by Run on its way out,
// otherwise Close disposes it before returning.
func (rt *Runtime) Close() {
	rt.closeOnce.Do(func() {
		rt.runMu.Lock()
		rt.closed.Store(true)
		close(rt.done)
		owned := rt.running
		rt.runMu.Unlock()

		if !owned {
			rt.root.Dispose()
		}
	})
}

// IsClosed reports whether Close was called.
func (rt *Runtime) IsClosed() bool {
	return rt.closed.Load()
}

// guard runs fn with a recover frame: an abort raised inside fn is returned
// as an error, any other panic continues unwinding.
func (rt *Runtime) guard(fn func()) (err error) {
	rt.guarded++
	defer func() {
		rt.guarded--
		if r := recover(); r != nil {
			a, ok := r.(abort)
			if !ok {
				panic(r)
			}
			err = a.err
		}
	}()
	fn()
	return nil
}

// fail reports an error from a value-returning accessor such as Get.
func (rt *Runtime) fail(err error) {
	if rt.guarded > 0 {
		panic(abort{err: err})
	}
	panic(err)
}
