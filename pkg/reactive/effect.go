package reactive

import "time"

// Cleanup is a function returned by effects to clean up resources.
// It is called before the effect re-runs and when the effect is disposed.
type Cleanup func()

// Effect is a reactive side effect. It runs once when created and again,
// exactly once per propagation pass, whenever something it read during its
// previous run changed.
type Effect struct {
	rt   *Runtime
	id   NodeID
	name string
}

// NewEffect creates an effect in scope and runs it immediately to establish
// its dependencies. If the first run fails the effect is released and the
// error returned.
//
// Example:
//
//	reactive.NewEffect(scope, func() reactive.Cleanup {
//	    fmt.Println("Count is:", count.Get())
//	    return func() { fmt.Println("Cleanup") }
//	})
func NewEffect(scope *Scope, fn func() Cleanup, opts ...NodeOption) (*Effect, error) {
	o := applyNodeOptions(opts)
	e := &Effect{rt: scope.rt, name: o.name}
	if scope.disposed {
		return e, nodeError("run", e.info(), ErrUseAfterDispose)
	}

	rt := scope.rt
	id, nd := rt.nodes.alloc(KindEffect)
	nd.name = o.name
	nd.scope = scope
	nd.run = fn
	scope.own(id)
	e.id = id

	if err := rt.runEffect(id, nd); err != nil {
		_ = rt.dispose(id, e.info())
		return e, err
	}
	return e, rt.settle()
}

// OnUpdate creates an effect that tracks deps on every run but calls
// callback only on runs after the first, reacting to changes but not to the
// initial value.
//
// Example:
//
//	reactive.OnUpdate(scope,
//	    func() { _ = count.Get() },          // deps: read signals to track
//	    func() { fmt.Println("Updated!") },  // callback: only on changes
//	)
func OnUpdate(scope *Scope, deps func(), callback func(), opts ...NodeOption) (*Effect, error) {
	first := true
	return NewEffect(scope, func() Cleanup {
		deps()
		if first {
			first = false
			return nil
		}
		callback()
		return nil
	}, opts...)
}

// ID returns the effect's node id.
func (e *Effect) ID() NodeID {
	return e.id
}

func (e *Effect) info() NodeInfo {
	return NodeInfo{ID: e.id, Kind: KindEffect, Name: e.name}
}

// Dispose runs the effect's cleanup and releases it.
func (e *Effect) Dispose() error {
	return e.rt.dispose(e.id, e.info())
}

// runEffect runs the previous cleanup, then the effect body with tracking.
func (rt *Runtime) runEffect(id NodeID, nd *node) error {
	if nd.evaluating {
		return nodeError("run", nd.info(id), ErrCyclicDependency)
	}
	rt.runCleanup(nd)

	start := time.Now()
	var cleanup Cleanup
	sources, err := rt.evaluate(id, nd, func() {
		cleanup = nd.run()
	})
	if err != nil {
		return err
	}
	if !nd.live {
		// The effect disposed its own scope while running.
		if cleanup != nil {
			cleanup()
		}
		return nil
	}

	rt.commit(id, nd, sources)
	nd.cleanup = cleanup

	rt.sched.effects++
	if rt.observer != nil {
		rt.observer.OnEffect(nd.info(id), time.Since(start))
	}
	return nil
}

// runCleanup calls and clears the cleanup of an effect's last run.
func (rt *Runtime) runCleanup(nd *node) {
	c := nd.cleanup
	if c == nil {
		return
	}
	nd.cleanup = nil
	if err := rt.guard(func() { rt.Untracked(c) }); err != nil {
		rt.logger.Warn("effect cleanup failed", "effect", nd.name, "error", err)
	}
}
