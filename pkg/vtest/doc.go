// Package vtest provides testing helpers for code built on package reactive.
//
// The vtest package reduces boilerplate when testing components: it owns a
// Runtime for the duration of a test, records what effects observe, and
// waits for asynchronous work that re-enters the runtime through Dispatch.
//
// # Quick Start
//
//	func TestCounter(t *testing.T) {
//	    h := vtest.New(t)
//	    count := reactive.NewSignal(h.Root(), 0)
//	    seen := vtest.Record(h, h.Root(), count.Get)
//
//	    h.Must(count.Set(5))
//	    vtest.ExpectValues(t, seen, 0, 5)
//	}
//
// # Asynchronous Work
//
// Goroutines hand results back with Runtime.Dispatch. Eventually drains the
// dispatch queue until a condition holds:
//
//	user := resource.New(h.Root(), fetchUser)
//	h.Eventually(user.IsReady)
//
// # Logging
//
// The harness logs through the test's own output at debug level, so pass
// summaries and warnings show up with go test -v.
package vtest
