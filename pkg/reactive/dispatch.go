package reactive

import (
	"context"
	"errors"
)

// Dispatch queues fn to run on the runtime goroutine. It is the only
// Runtime method that is safe to call from other goroutines, and the way
// asynchronous work writes its results back into signals.
//
// Dispatch reports false when the runtime is closed or the queue is full;
// the callback is dropped in both cases.
//
// Example:
//
//	go func() {
//	    user, err := db.Users.FindByID(ctx, id)
//	    rt.Dispatch(func() error {
//	        if err != nil {
//	            return errSignal.Set(err)
//	        }
//	        return userSignal.Set(user)
//	    })
//	}()
func (rt *Runtime) Dispatch(fn func() error) bool {
	if rt.closed.Load() {
		return false
	}
	select {
	case rt.dispatchCh <- fn:
		return true
	case <-rt.done:
		return false
	default:
		rt.logger.Warn("dispatch queue full, discarding callback")
		return false
	}
}

// Drain runs every callback queued so far and returns their errors joined.
// Failed callbacks are also logged.
func (rt *Runtime) Drain() error {
	var errs []error
	for {
		select {
		case fn := <-rt.dispatchCh:
			if err := rt.runDispatched(fn); err != nil {
				errs = append(errs, err)
			}
		default:
			return errors.Join(errs...)
		}
	}
}

// Run processes dispatched callbacks until ctx is done or the runtime is
// closed. Callback errors are logged, not returned. When Close is called
// while Run is active, Run disposes the root scope before returning.
func (rt *Runtime) Run(ctx context.Context) error {
	rt.runMu.Lock()
	if rt.closed.Load() {
		rt.runMu.Unlock()
		return nil
	}
	rt.running = true
	rt.runMu.Unlock()

	defer func() {
		rt.runMu.Lock()
		rt.running = false
		closed := rt.closed.Load()
		rt.runMu.Unlock()
		if closed {
			rt.root.Dispose()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-rt.done:
			return nil
		case fn := <-rt.dispatchCh:
			if rt.closed.Load() {
				return nil
			}
			_ = rt.runDispatched(fn)
		}
	}
}

func (rt *Runtime) runDispatched(fn func() error) error {
	var err error
	if gerr := rt.guard(func() { err = fn() }); gerr != nil {
		err = gerr
	}
	if err == nil {
		err = rt.settle()
	}
	if err != nil {
		rt.logger.Warn("dispatched callback failed", "error", err)
	}
	return err
}
