// Package resource provides async data loading on top of package reactive.
//
// Resources are reactive primitives that handle the complete lifecycle of
// asynchronous data fetching, including:
//
//   - Pending, Loading, Ready and Error states as signals
//   - Refetching when a tracked source changes, cancelling the old fetch
//   - Retries and per-attempt timeouts
//   - Pattern matching for rendering
//
// Fetches run on their own goroutines and never touch the runtime
// directly. Results come back through Runtime.Dispatch, so the runtime
// goroutine must drain the dispatch queue (Runtime.Run or Runtime.Drain).
//
// Basic Usage:
//
//	user := resource.New(scope, func(ctx context.Context) (*User, error) {
//	    return db.Users.Find(ctx, id)
//	})
//
//	text, _ := resource.Match(user,
//	    resource.OnLoadingOrPending[*User](func() string { return "Loading..." }),
//	    resource.OnError[*User](func(err error) string { return err.Error() }),
//	    resource.OnReady(func(u *User) string { return u.Name }),
//	)
package resource
