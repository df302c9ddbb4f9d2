package reactive

import "time"

// PassInfo summarizes one propagation pass.
type PassInfo struct {
	// Runtime is the id of the runtime that ran the pass.
	Runtime string

	// Index is the pass number within its flush, starting at 0.
	Index int

	// Pending is the number of effects scheduled when the pass began.
	Pending int

	// Effects and Recomputes count effect runs and memo recomputations.
	Effects    int
	Recomputes int

	// Nodes counts live nodes when the pass ended.
	Nodes Stats

	Start    time.Time
	Duration time.Duration

	// Err is non-nil when the pass was aborted.
	Err error
}

// Observer receives notifications about propagation. Implementations must
// not call back into the runtime.
type Observer interface {
	OnPass(info PassInfo)
	OnRecompute(node NodeInfo, d time.Duration)
	OnEffect(node NodeInfo, d time.Duration)
}

type multiObserver []Observer

// Observers combines observers into one that notifies each in order.
func Observers(obs ...Observer) Observer {
	var out multiObserver
	for _, o := range obs {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}

func (m multiObserver) OnPass(info PassInfo) {
	for _, o := range m {
		o.OnPass(info)
	}
}

func (m multiObserver) OnRecompute(node NodeInfo, d time.Duration) {
	for _, o := range m {
		o.OnRecompute(node, d)
	}
}

func (m multiObserver) OnEffect(node NodeInfo, d time.Duration) {
	for _, o := range m {
		o.OnEffect(node, d)
	}
}
