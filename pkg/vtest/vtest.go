package vtest

import (
	"log/slog"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/vango-dev/signals/pkg/reactive"
)

// DefaultTimeout bounds Eventually.
const DefaultTimeout = 2 * time.Second

// Harness owns a Runtime for the duration of a test.
type Harness struct {
	t       testing.TB
	rt      *reactive.Runtime
	timeout time.Duration
}

// New creates a harness whose runtime is closed when the test ends.
// Options are passed to reactive.NewRuntime after the harness defaults,
// so a WithLogger option replaces the test logger.
//
// Example:
//
//	h := vtest.New(t, reactive.WithManualFlush())
func New(t testing.TB, opts ...reactive.Option) *Harness {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{Level: slog.LevelDebug}))
	opts = append([]reactive.Option{reactive.WithLogger(logger)}, opts...)

	h := &Harness{
		t:       t,
		rt:      reactive.NewRuntime(opts...),
		timeout: DefaultTimeout,
	}
	t.Cleanup(h.rt.Close)
	return h
}

// Runtime returns the harness runtime.
func (h *Harness) Runtime() *reactive.Runtime {
	return h.rt
}

// Root returns the runtime's root scope.
func (h *Harness) Root() *reactive.Scope {
	return h.rt.Root()
}

// WithTimeout changes how long Eventually waits.
func (h *Harness) WithTimeout(d time.Duration) *Harness {
	h.timeout = d
	return h
}

// Must fails the test immediately if err is non-nil.
//
// Example:
//
//	h.Must(count.Set(5))
func (h *Harness) Must(err error) {
	h.t.Helper()
	if err != nil {
		h.t.Fatalf("unexpected error: %v", err)
	}
}

// Flush runs pending propagation and fails the test on error.
func (h *Harness) Flush() {
	h.t.Helper()
	h.Must(h.rt.Flush())
}

// Eventually drains dispatched callbacks until cond returns true, failing
// the test once the timeout elapses. cond runs on the test goroutine, so it
// may read signals.
//
// Example:
//
//	h.Eventually(func() bool { return user.IsReady() })
func (h *Harness) Eventually(cond func() bool) {
	h.t.Helper()
	deadline := time.Now().Add(h.timeout)
	for {
		if err := h.rt.Drain(); err != nil {
			h.t.Logf("dispatched callback failed: %v", err)
		}
		if cond() {
			return
		}
		if time.Now().After(deadline) {
			h.t.Fatalf("condition not met within %v", h.timeout)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// Recorder collects every value an effect observed.
type Recorder[T any] struct {
	mu     sync.Mutex
	values []T
}

// Record creates an effect in scope that appends read() to the recorder on
// every run. The first value is recorded immediately.
//
// Example:
//
//	seen := vtest.Record(h, h.Root(), doubled.Get)
func Record[T any](h *Harness, scope *reactive.Scope, read func() T) *Recorder[T] {
	h.t.Helper()
	rec := &Recorder[T]{}
	_, err := reactive.NewEffect(scope, func() reactive.Cleanup {
		v := read()
		rec.mu.Lock()
		rec.values = append(rec.values, v)
		rec.mu.Unlock()
		return nil
	}, reactive.Named("vtest.Record"))
	h.Must(err)
	return rec
}

// Values returns a copy of the recorded values.
func (r *Recorder[T]) Values() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]T(nil), r.values...)
}

// Len returns the number of recorded runs.
func (r *Recorder[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.values)
}

// Last returns the most recent value, or the zero value if none.
func (r *Recorder[T]) Last() T {
	r.mu.Lock()
	defer r.mu.Unlock()
	var zero T
	if len(r.values) == 0 {
		return zero
	}
	return r.values[len(r.values)-1]
}

// ExpectValues asserts that the recorder saw exactly want, in order.
//
// Example:
//
//	vtest.ExpectValues(t, seen, 0, 10, 10)
func ExpectValues[T any](t testing.TB, rec *Recorder[T], want ...T) {
	t.Helper()
	got := rec.Values()
	if len(got) == 0 && len(want) == 0 {
		return
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected recorded values %v, got %v", want, got)
	}
}

// ExpectContains asserts that rendered text contains expected.
//
// Example:
//
//	vtest.ExpectContains(t, screen.String(), "Count: 5")
func ExpectContains(t testing.TB, text, expected string) {
	t.Helper()
	if !strings.Contains(text, expected) {
		t.Errorf("expected output to contain %q, got:\n%s", expected, truncate(text, 500))
	}
}

// ExpectNotContains asserts that rendered text does not contain unexpected.
func ExpectNotContains(t testing.TB, text, unexpected string) {
	t.Helper()
	if strings.Contains(text, unexpected) {
		t.Errorf("expected output to NOT contain %q, got:\n%s", unexpected, truncate(text, 500))
	}
}

// testWriter forwards log lines to the test log.
type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
