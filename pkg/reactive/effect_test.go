package reactive

import (
	"errors"
	"reflect"
	"testing"
)

func TestEffectRunsImmediately(t *testing.T) {
	rt := newTestRuntime(t)
	ran := false
	mustEffect(t, rt.Root(), func() Cleanup {
		ran = true
		return nil
	})
	if !ran {
		t.Error("effect should run on creation")
	}
}

func TestEffectNoSpuriousReruns(t *testing.T) {
	rt := newTestRuntime(t)
	x := NewSignal(rt.Root(), 0)
	y := NewSignal(rt.Root(), 0)

	runs := 0
	mustEffect(t, rt.Root(), func() Cleanup {
		_ = x.Get()
		runs++
		return nil
	})

	_ = y.Set(1)
	_ = y.Set(2)
	if runs != 1 {
		t.Errorf("effect re-ran for a signal it never read (%d runs)", runs)
	}

	_ = x.Set(1)
	if runs != 2 {
		t.Errorf("expected 2 runs, got %d", runs)
	}
}

func TestEffectCleanup(t *testing.T) {
	rt := newTestRuntime(t)
	count := NewSignal(rt.Root(), 0)

	var log []string
	e := mustEffect(t, rt.Root(), func() Cleanup {
		n := count.Get()
		log = append(log, "run")
		return func() {
			log = append(log, "cleanup")
			_ = n
		}
	})

	_ = count.Set(1)
	_ = e.Dispose()

	want := []string{"run", "cleanup", "run", "cleanup"}
	if !reflect.DeepEqual(log, want) {
		t.Errorf("expected %v, got %v", want, log)
	}
}

func TestEffectDisposeStopsReruns(t *testing.T) {
	rt := newTestRuntime(t)
	count := NewSignal(rt.Root(), 0)

	runs := 0
	e := mustEffect(t, rt.Root(), func() Cleanup {
		_ = count.Get()
		runs++
		return nil
	})
	if err := e.Dispose(); err != nil {
		t.Fatalf("Dispose: %v", err)
	}

	_ = count.Set(1)
	if runs != 1 {
		t.Errorf("disposed effect re-ran (%d runs)", runs)
	}
	nd, _ := rt.nodes.get(count.ID())
	if nd.subs.Cardinality() != 0 {
		t.Error("disposed effect left a subscriber edge behind")
	}
	if err := e.Dispose(); !errors.Is(err, ErrUseAfterDispose) {
		t.Errorf("expected ErrUseAfterDispose, got %v", err)
	}
}

func TestEffectDiamondRunsOnce(t *testing.T) {
	rt := newTestRuntime(t)
	a := NewSignal(rt.Root(), 1)

	bRuns, cRuns, dRuns := 0, 0, 0
	b := NewMemo(rt.Root(), func() int { bRuns++; return a.Get() + 1 })
	c := NewMemo(rt.Root(), func() int { cRuns++; return a.Get() * 2 })
	d := NewMemo(rt.Root(), func() int { dRuns++; return b.Get() + c.Get() })

	var seen []int
	mustEffect(t, rt.Root(), func() Cleanup {
		seen = append(seen, d.Get())
		return nil
	})

	_ = a.Set(2)

	if !reflect.DeepEqual(seen, []int{4, 7}) {
		t.Errorf("expected [4 7], got %v", seen)
	}
	if bRuns != 2 || cRuns != 2 || dRuns != 2 {
		t.Errorf("each memo should compute once per pass, got b=%d c=%d d=%d", bRuns, cRuns, dRuns)
	}
}

func TestEffectWriteDeferredToNextPass(t *testing.T) {
	rt := newTestRuntime(t)
	source := NewSignal(rt.Root(), 1)
	mirror := NewSignal(rt.Root(), 0)

	mustEffect(t, rt.Root(), func() Cleanup {
		v := source.Get()
		_ = mirror.Set(v * 10)
		return nil
	})

	var seen []int
	mustEffect(t, rt.Root(), func() Cleanup {
		seen = append(seen, mirror.Get())
		return nil
	})

	_ = source.Set(2)
	if got := mirror.Get(); got != 20 {
		t.Errorf("expected 20, got %d", got)
	}
	if !reflect.DeepEqual(seen, []int{10, 20}) {
		t.Errorf("expected [10 20], got %v", seen)
	}
}

func TestEffectPassLimit(t *testing.T) {
	rt := newTestRuntime(t, WithMaxPasses(5))
	count := NewSignal(rt.Root(), 0)
	trigger := NewSignal(rt.Root(), false)

	mustEffect(t, rt.Root(), func() Cleanup {
		if trigger.Get() {
			n := count.Get()
			_ = count.Set(n + 1)
		}
		return nil
	})

	err := trigger.Set(true)
	if !errors.Is(err, ErrPassLimit) {
		t.Fatalf("expected ErrPassLimit, got %v", err)
	}
	if count.Get() < 4 {
		t.Errorf("expected several passes to have run, count=%d", count.Get())
	}
}

func TestEffectInitialRunFailure(t *testing.T) {
	rt := newTestRuntime(t)
	gone := NewSignal(rt.Root(), 1)
	_ = gone.Dispose()

	_, err := NewEffect(rt.Root(), func() Cleanup {
		_ = gone.Get()
		return nil
	})
	if !errors.Is(err, ErrUseAfterDispose) {
		t.Fatalf("expected ErrUseAfterDispose, got %v", err)
	}
	if rt.Stats().Effects != 0 {
		t.Error("failed effect should be released")
	}
}

func TestOnUpdateSkipsFirstRun(t *testing.T) {
	rt := newTestRuntime(t)
	count := NewSignal(rt.Root(), 0)

	calls := 0
	if _, err := OnUpdate(rt.Root(), func() { _ = count.Get() }, func() { calls++ }); err != nil {
		t.Fatalf("OnUpdate: %v", err)
	}
	if calls != 0 {
		t.Errorf("callback must not run on mount, got %d", calls)
	}
	_ = count.Set(1)
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestCounterEndToEnd(t *testing.T) {
	rt := newTestRuntime(t)
	count := NewSignal(rt.Root(), 0, Named("count"))

	doubledRuns := 0
	doubled := NewMemo(rt.Root(), func() int {
		doubledRuns++
		return count.Get() * 2
	}, Named("doubled"))

	var lastSeen []int
	mustEffect(t, rt.Root(), func() Cleanup {
		lastSeen = append(lastSeen, doubled.Get())
		return nil
	})

	if err := count.Set(5); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := doubled.Get(); got != 10 {
		t.Errorf("expected 10, got %d", got)
	}
	if !reflect.DeepEqual(lastSeen, []int{0, 10}) {
		t.Errorf("effect should observe 10 exactly once, got %v", lastSeen)
	}

	// Same value again still recomputes and re-runs.
	if err := count.Set(5); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if doubledRuns != 3 {
		t.Errorf("expected 3 computations, got %d", doubledRuns)
	}
	if !reflect.DeepEqual(lastSeen, []int{0, 10, 10}) {
		t.Errorf("expected [0 10 10], got %v", lastSeen)
	}
}

func TestEffectCreatedDuringPass(t *testing.T) {
	rt := newTestRuntime(t)
	show := NewSignal(rt.Root(), false)
	label := NewSignal(rt.Root(), "hello")

	var child *Scope
	var rendered []string
	mustEffect(t, rt.Root(), func() Cleanup {
		if !show.Get() {
			return nil
		}
		child = rt.Root().Child()
		_, err := NewEffect(child, func() Cleanup {
			rendered = append(rendered, label.Get())
			return nil
		})
		if err != nil {
			t.Errorf("nested NewEffect: %v", err)
		}
		return child.Dispose
	})

	_ = show.Set(true)
	_ = label.Set("world")
	_ = show.Set(false)
	_ = label.Set("ignored")

	want := []string{"hello", "world"}
	if !reflect.DeepEqual(rendered, want) {
		t.Errorf("expected %v, got %v", want, rendered)
	}
	if !child.IsDisposed() {
		t.Error("child scope should be disposed by the cleanup")
	}
}
