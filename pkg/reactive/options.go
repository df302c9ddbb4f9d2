package reactive

import "log/slog"

const (
	// DefaultMaxPasses bounds the passes of a single flush.
	DefaultMaxPasses = 100

	// DefaultDispatchBuffer is the capacity of the dispatch queue.
	DefaultDispatchBuffer = 256
)

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the structured logger. If nil, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(rt *Runtime) {
		rt.logger = logger
	}
}

// WithObserver installs an observer for pass and evaluation events.
func WithObserver(o Observer) Option {
	return func(rt *Runtime) {
		rt.observer = o
	}
}

// WithMaxPasses sets how many passes a flush may run before failing with
// ErrPassLimit. Values below 1 select DefaultMaxPasses.
func WithMaxPasses(n int) Option {
	return func(rt *Runtime) {
		rt.maxPasses = n
	}
}

// WithManualFlush disables flushing on top-level writes. Writes only mark
// their dependents; nothing runs until Flush is called.
func WithManualFlush() Option {
	return func(rt *Runtime) {
		rt.autoFlush = false
	}
}

// WithDispatchBuffer sets the capacity of the Dispatch queue.
func WithDispatchBuffer(n int) Option {
	return func(rt *Runtime) {
		rt.dispatchBuffer = n
	}
}

// NodeOption configures a signal, memo or effect.
type NodeOption func(*nodeOptions)

type nodeOptions struct {
	name string
}

// Named labels a node for errors, logs and observers.
func Named(name string) NodeOption {
	return func(o *nodeOptions) {
		o.name = name
	}
}

func applyNodeOptions(opts []NodeOption) nodeOptions {
	var o nodeOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
