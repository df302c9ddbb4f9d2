// Package reactive provides the reactive core used by signals components.
//
// The reactive system provides fine-grained reactivity: dependencies are
// tracked automatically at runtime. Reading a signal while a memo computes or
// an effect runs subscribes that memo or effect to the signal's changes.
//
// # Core Types
//
// Every primitive lives in a Scope of a Runtime:
//
//	rt := reactive.NewRuntime()
//	root := rt.Root()
//
// Signal[T] is a reactive value container:
//
//	count := reactive.NewSignal(root, 0)
//	value := count.Get()  // Read (subscribes the current evaluation)
//	_ = count.Set(5)      // Write (propagates to subscribers)
//
// Memo[T] is a cached derived computation. It is lazy: it recomputes on the
// next read after a dependency changed, never on the write itself.
//
//	doubled := reactive.NewMemo(root, func() int { return count.Get() * 2 })
//
// Effect runs side effects once immediately and again whenever something it
// read changes:
//
//	reactive.NewEffect(root, func() reactive.Cleanup {
//	    fmt.Println("Count is:", count.Get())
//	    return nil
//	})
//
// # Propagation
//
// A write marks dependent memos dirty and collects dependent effects into a
// pending set. A flush then runs every pending effect exactly once, upstream
// first. By default a top-level write flushes immediately; Batch groups
// several writes into one pass:
//
//	rt.Batch(func() error {
//	    if err := a.Set(1); err != nil {
//	        return err
//	    }
//	    return b.Set(2)
//	})
//
// Writing a value equal to the current one still propagates unless the
// signal opted in with WithEquals.
//
// # Scopes and Context
//
// Scopes form a tree mirroring the component tree. Disposing a scope
// releases everything created in it, and every later use of a released
// handle fails with ErrUseAfterDispose. Scopes also carry context values
// that descendants retrieve without threading them through every call:
//
//	var Theme = reactive.CreateContext[string]("theme")
//	Theme.Provide(parent, "dark")
//	theme, ok := Theme.Use(grandchild)
//
// # Thread Safety
//
// A Runtime is single-threaded: create, read and write its primitives from
// one goroutine. Other goroutines hand results back with Runtime.Dispatch,
// which the runtime goroutine executes from Drain or Run.
package reactive
