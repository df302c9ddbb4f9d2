package reactive

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// frame is one evaluation recording its dependencies. Frames nest when an
// evaluation reads a dirty memo; the previous frame is restored afterwards.
type frame struct {
	id      NodeID
	sources mapset.Set[NodeID]
	prev    *frame
}

// track records dep as a dependency of the current evaluation, if any.
func (rt *Runtime) track(dep NodeID) {
	if f := rt.frame; f != nil && f.id != dep {
		f.sources.Add(dep)
	}
}

// evaluating reports whether a memo computation or effect body is running.
func (rt *Runtime) evaluating() bool {
	return rt.depth > 0
}

// evaluate runs body as the evaluation of id and returns the dependencies it
// read. On error the node's previous edges are left untouched.
func (rt *Runtime) evaluate(id NodeID, nd *node, body func()) (mapset.Set[NodeID], error) {
	f := &frame{id: id, sources: newIDSet(), prev: rt.frame}
	rt.frame = f
	rt.depth++
	nd.evaluating = true
	defer func() {
		nd.evaluating = false
		rt.depth--
		rt.frame = f.prev
	}()

	if err := rt.guard(body); err != nil {
		return nil, err
	}
	return f.sources, nil
}

// commit replaces id's edge set with sources: dropped dependencies forget
// id, new ones learn it. Sources that died during the evaluation are
// discarded.
func (rt *Runtime) commit(id NodeID, nd *node, sources mapset.Set[NodeID]) {
	for _, dep := range nd.sources.Difference(sources).ToSlice() {
		if dn, ok := rt.nodes.get(dep); ok {
			dn.subs.Remove(id)
		}
	}

	height := 0
	for _, dep := range sources.ToSlice() {
		dn, ok := rt.nodes.get(dep)
		if !ok {
			sources.Remove(dep)
			continue
		}
		dn.subs.Add(id)
		if dn.height+1 > height {
			height = dn.height + 1
		}
	}

	nd.sources = sources
	nd.height = height
}

// detach removes every edge touching id. Dependents lose their edge to id
// and dependent memos are marked dirty so none of them keeps serving a value
// computed from a node that no longer exists.
func (rt *Runtime) detach(id NodeID, nd *node) {
	for _, dep := range nd.sources.ToSlice() {
		if dn, ok := rt.nodes.get(dep); ok {
			dn.subs.Remove(id)
		}
	}
	nd.sources.Clear()

	subs := nd.subs.ToSlice()
	nd.subs.Clear()
	for _, sub := range subs {
		if sn, ok := rt.nodes.get(sub); ok {
			sn.sources.Remove(id)
		}
	}
	rt.invalidate(subs, false)
}

// Untracked runs fn without recording the reads it performs as
// dependencies of the current evaluation.
//
// Example:
//
//	reactive.NewEffect(scope, func() reactive.Cleanup {
//	    n := count.Get() // tracked
//	    rt.Untracked(func() {
//	        log.Println(n, label.Get()) // not tracked
//	    })
//	    return nil
//	})
func (rt *Runtime) Untracked(fn func()) {
	prev := rt.frame
	rt.frame = nil
	defer func() {
		rt.frame = prev
	}()
	fn()
}

// UntrackedGet reads a signal's value without creating a dependency.
func UntrackedGet[T any](s *Signal[T]) T {
	var v T
	s.rt.Untracked(func() {
		v = s.Get()
	})
	return v
}
