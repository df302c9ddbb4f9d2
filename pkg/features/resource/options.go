package resource

import "time"

// Option configures a Resource at creation.
type Option func(*options)

type options struct {
	retryCount int
	retryDelay time.Duration
	timeout    time.Duration
}

// WithRetry retries a failed fetch count more times, waiting delay between
// attempts. Cancellation stops retrying.
func WithRetry(count int, delay time.Duration) Option {
	return func(o *options) {
		o.retryCount = count
		o.retryDelay = delay
	}
}

// WithTimeout bounds each fetch attempt.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// OnSuccess registers a callback to be called when data is successfully loaded.
// It runs on the runtime goroutine after the state signals were updated.
func (r *Resource[T]) OnSuccess(fn func(T)) *Resource[T] {
	r.mu.Lock()
	r.onSuccess = fn
	r.mu.Unlock()
	return r
}

// OnError registers a callback to be called when data loading fails.
func (r *Resource[T]) OnError(fn func(error)) *Resource[T] {
	r.mu.Lock()
	r.onError = fn
	r.mu.Unlock()
	return r
}
