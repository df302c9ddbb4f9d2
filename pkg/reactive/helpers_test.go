package reactive

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"
)

func newTestRuntime(t *testing.T, opts ...Option) *Runtime {
	t.Helper()
	opts = append([]Option{WithLogger(discardLogger())}, opts...)
	rt := NewRuntime(opts...)
	t.Cleanup(rt.Close)
	return rt
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustEffect(t *testing.T, scope *Scope, fn func() Cleanup) *Effect {
	t.Helper()
	e, err := NewEffect(scope, fn)
	if err != nil {
		t.Fatalf("NewEffect: %v", err)
	}
	return e
}

// recordingObserver collects observer callbacks.
type recordingObserver struct {
	mu         sync.Mutex
	passes     []PassInfo
	recomputes []NodeInfo
	effects    []NodeInfo
}

func (o *recordingObserver) OnPass(info PassInfo) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.passes = append(o.passes, info)
}

func (o *recordingObserver) OnRecompute(node NodeInfo, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.recomputes = append(o.recomputes, node)
}

func (o *recordingObserver) OnEffect(node NodeInfo, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.effects = append(o.effects, node)
}
