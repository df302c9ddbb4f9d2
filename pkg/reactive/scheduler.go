package reactive

import (
	"fmt"
	"sort"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
)

// scheduler holds propagation state. A pass moves from idle to collecting
// (writes mark memos dirty and add effects to pending) to flushing (pending
// effects run once each, upstream first) and back to idle.
type scheduler struct {
	// pending are effects scheduled for the next pass. It is a set so an
	// effect reached through several changed dependencies runs once.
	pending mapset.Set[NodeID]

	// deferred are writes issued while flushing or evaluating. They are
	// applied at the start of the next pass.
	deferred []pendingWrite

	// journal keeps the value each signal had before its first write since
	// the last committed pass, so an aborted pass can restore it.
	journal      map[NodeID]any
	journalOrder []NodeID

	// undo records every write made inside a batch, for rollback.
	undo []undoEntry

	flushing   bool
	batchDepth int

	// per-pass counters
	effects    int
	recomputes int
}

type pendingWrite struct {
	id   NodeID
	info NodeInfo
	next func(any) any
}

type undoEntry struct {
	id  NodeID
	old any
}

func (s *scheduler) init() {
	s.pending = newIDSet()
	s.journal = make(map[NodeID]any)
}

// commit forgets the journal: the writes it covered are now permanent.
func (s *scheduler) commit() {
	if len(s.journalOrder) == 0 {
		return
	}
	s.journal = make(map[NodeID]any)
	s.journalOrder = s.journalOrder[:0]
}

// write applies a signal write, or defers it when a pass or evaluation is
// in progress.
func (rt *Runtime) write(id NodeID, info NodeInfo, next func(any) any) error {
	nd, ok := rt.nodes.get(id)
	if !ok {
		return nodeError("write", info, ErrUseAfterDispose)
	}
	if rt.sched.flushing || rt.evaluating() {
		rt.sched.deferred = append(rt.sched.deferred, pendingWrite{id: id, info: info, next: next})
		return nil
	}
	rt.apply(id, nd, next)
	return rt.settle()
}

// apply stores the new value and invalidates dependents.
func (rt *Runtime) apply(id NodeID, nd *node, next func(any) any) {
	s := &rt.sched
	old := nd.value
	value := next(old)
	if nd.equal != nil && nd.equal(old, value) {
		return
	}

	if _, seen := s.journal[id]; !seen {
		s.journal[id] = old
		s.journalOrder = append(s.journalOrder, id)
	}
	if s.batchDepth > 0 {
		s.undo = append(s.undo, undoEntry{id: id, old: old})
	}

	nd.value = value
	rt.invalidate(nd.subs.ToSlice(), true)
}

// invalidate marks memos reachable from ids dirty. Effects reached are added
// to the pending set when schedule is true.
func (rt *Runtime) invalidate(ids []NodeID, schedule bool) {
	visited := newIDSet()
	stack := ids
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !visited.Add(id) {
			continue
		}

		nd, ok := rt.nodes.get(id)
		if !ok {
			continue
		}
		switch nd.kind {
		case KindMemo:
			nd.dirty = true
			stack = append(stack, nd.subs.ToSlice()...)
		case KindEffect:
			if schedule {
				rt.sched.pending.Add(id)
			}
		}
	}
}

// settle flushes after a top-level operation when auto-flush is on.
func (rt *Runtime) settle() error {
	s := &rt.sched
	if !rt.autoFlush || s.flushing || s.batchDepth > 0 || rt.evaluating() {
		return nil
	}
	if s.pending.Cardinality() == 0 && len(s.deferred) == 0 {
		s.commit()
		return nil
	}
	return rt.Flush()
}

// Flush runs propagation passes until no effect is pending. Writes made by
// effects during a pass are applied at the start of the following pass.
// A failed pass is aborted: signals written since the last committed pass
// get their previous values back and the error is returned.
//
// Flush is a no-op when called from inside a pass or an evaluation.
func (rt *Runtime) Flush() error {
	s := &rt.sched
	if s.flushing || rt.evaluating() {
		return nil
	}
	s.flushing = true
	defer func() {
		s.flushing = false
	}()

	for pass := 0; ; pass++ {
		if err := rt.applyDeferred(); err != nil {
			rt.abort(err, nil)
			return err
		}
		if s.pending.Cardinality() == 0 {
			s.commit()
			return nil
		}
		if pass >= rt.maxPasses {
			err := fmt.Errorf("%w: %d passes", ErrPassLimit, pass)
			rt.abort(err, nil)
			return err
		}
		if err := rt.runPass(pass); err != nil {
			return err
		}
	}
}

// applyDeferred applies writes queued during the previous pass.
func (rt *Runtime) applyDeferred() error {
	s := &rt.sched
	writes := s.deferred
	s.deferred = nil
	for _, w := range writes {
		nd, ok := rt.nodes.get(w.id)
		if !ok {
			return nodeError("write", w.info, ErrUseAfterDispose)
		}
		rt.apply(w.id, nd, w.next)
	}
	return nil
}

// runPass runs every pending effect once, in height order. Before any
// effect runs, the dirty memos the pending effects observed last time are
// brought up to date, so a cycle among them aborts the pass before any
// side effect happens. A failure found later, on a branch an effect had not
// taken before, aborts the pass and re-runs the effects that already ran.
func (rt *Runtime) runPass(index int) error {
	s := &rt.sched
	start := time.Now()
	s.effects, s.recomputes = 0, 0

	order := rt.ordered(s.pending.ToSlice())
	s.pending.Clear()

	var ran []NodeID
	err := rt.validate(order)
	if err == nil {
		for _, id := range order {
			nd, ok := rt.nodes.get(id)
			if !ok {
				// Disposed by an earlier effect in this pass.
				continue
			}
			ran = append(ran, id)
			if err = rt.runEffect(id, nd); err != nil {
				break
			}
		}
	}

	info := PassInfo{
		Runtime:    rt.id,
		Index:      index,
		Pending:    len(order),
		Effects:    s.effects,
		Recomputes: s.recomputes,
		Nodes:      rt.nodes.count(),
		Start:      start,
		Duration:   time.Since(start),
		Err:        err,
	}
	if err != nil {
		rt.abort(err, ran)
	} else {
		s.commit()
		rt.logger.Debug("propagation pass complete",
			"pass", index,
			"pending", info.Pending,
			"effects", info.Effects,
			"recomputes", info.Recomputes,
			"duration", info.Duration)
	}
	if rt.observer != nil {
		rt.observer.OnPass(info)
	}
	return err
}

// ordered sorts live ids upstream first: by height, then by id.
func (rt *Runtime) ordered(ids []NodeID) []NodeID {
	out := ids[:0]
	heights := make(map[NodeID]int, len(ids))
	for _, id := range ids {
		if nd, ok := rt.nodes.get(id); ok {
			heights[id] = nd.height
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		hi, hj := heights[out[i]], heights[out[j]]
		if hi != hj {
			return hi < hj
		}
		return out[i].less(out[j])
	})
	return out
}

// validate recomputes the dirty memos read by the given effects.
func (rt *Runtime) validate(effects []NodeID) error {
	for _, id := range effects {
		nd, ok := rt.nodes.get(id)
		if !ok {
			continue
		}
		for _, src := range rt.ordered(nd.sources.ToSlice()) {
			sn, ok := rt.nodes.get(src)
			if !ok || sn.kind != KindMemo || !sn.dirty {
				continue
			}
			if err := rt.recompute(src, sn); err != nil {
				return err
			}
		}
	}
	return nil
}

// abort undoes the writes of a failed pass. Restored signals invalidate
// their dependents without scheduling effects: effects that did not run in
// the pass last ran against the restored values. Those in ran saw the
// rolled-back values and are run again by repair.
func (rt *Runtime) abort(err error, ran []NodeID) {
	s := &rt.sched
	var restored []NodeID
	for i := len(s.journalOrder) - 1; i >= 0; i-- {
		id := s.journalOrder[i]
		if nd, ok := rt.nodes.get(id); ok {
			nd.value = s.journal[id]
			restored = append(restored, nd.subs.ToSlice()...)
		}
	}
	rt.invalidate(restored, false)

	s.pending.Clear()
	s.deferred = nil
	s.journal = make(map[NodeID]any)
	s.journalOrder = s.journalOrder[:0]

	rt.logger.Warn("propagation pass aborted", "error", err)
	rt.repair(ran)
}

// repair re-runs effects against the values restored by abort. Writes they
// make and effects they schedule are dropped: the restored state was
// already settled when it was committed.
func (rt *Runtime) repair(ids []NodeID) {
	if len(ids) == 0 {
		return
	}
	s := &rt.sched
	for _, id := range rt.ordered(ids) {
		nd, ok := rt.nodes.get(id)
		if !ok {
			continue
		}
		if err := rt.runEffect(id, nd); err != nil {
			rt.logger.Warn("effect repair failed", "effect", nd.name, "error", err)
		}
	}
	s.pending.Clear()
	s.deferred = nil
}

// Batch groups the writes made by fn into a single propagation pass that
// runs when the outermost batch returns. If fn returns an error (or a Get
// inside it fails) the writes it made are rolled back and no effect runs
// for them.
//
// Example:
//
//	err := rt.Batch(func() error {
//	    if err := firstName.Set("John"); err != nil {
//	        return err
//	    }
//	    return lastName.Set("Doe")
//	})
func (rt *Runtime) Batch(fn func() error) error {
	s := &rt.sched
	mark := len(s.undo)
	deferredMark := len(s.deferred)
	pendingBefore := s.pending.Clone()

	var err error
	func() {
		s.batchDepth++
		defer func() { s.batchDepth-- }()
		if gerr := rt.guard(func() { err = fn() }); gerr != nil {
			err = gerr
		}
	}()

	if err != nil {
		rt.rollback(mark)
		if len(s.deferred) > deferredMark {
			s.deferred = s.deferred[:deferredMark]
		}
		s.pending = pendingBefore
		if s.batchDepth == 0 {
			s.undo = nil
		}
		return err
	}
	if s.batchDepth == 0 {
		s.undo = nil
	}
	return rt.settle()
}

// rollback restores the values recorded in the undo log after mark.
func (rt *Runtime) rollback(mark int) {
	s := &rt.sched
	var restored []NodeID
	for i := len(s.undo) - 1; i >= mark; i-- {
		u := s.undo[i]
		if nd, ok := rt.nodes.get(u.id); ok {
			nd.value = u.old
			restored = append(restored, nd.subs.ToSlice()...)
		}
	}
	s.undo = s.undo[:mark]
	rt.invalidate(restored, false)
}

// Tx is an alias for Batch that reads better at call sites treating the
// group of writes as a transaction.
func (rt *Runtime) Tx(fn func() error) error {
	return rt.Batch(fn)
}

// dispose releases a node on behalf of a handle.
func (rt *Runtime) dispose(id NodeID, info NodeInfo) error {
	nd, ok := rt.nodes.get(id)
	if !ok {
		return nodeError("dispose", info, ErrUseAfterDispose)
	}
	rt.release(id, nd)
	return nil
}

// release tears down a live node: cleanup, edges, scheduling and slot.
func (rt *Runtime) release(id NodeID, nd *node) {
	if nd.kind == KindEffect {
		rt.runCleanup(nd)
	}
	rt.detach(id, nd)
	rt.sched.pending.Remove(id)
	if nd.scope != nil {
		nd.scope.forget(id)
	}
	rt.nodes.release(id)
}
