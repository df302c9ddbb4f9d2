package reactive

import (
	"errors"
	"fmt"
)

// ErrUseAfterDispose is returned when a handle is used after its node was
// disposed, either directly or because its owning scope was torn down.
// It indicates a programming error and is never retried.
var ErrUseAfterDispose = errors.New("signals: use after dispose")

// ErrCyclicDependency is returned when evaluating a memo requires the value
// of a memo that is already being evaluated. The pass that hit it is aborted.
var ErrCyclicDependency = errors.New("signals: cyclic dependency")

// ErrPassLimit is returned when a flush keeps producing new work (usually
// effects writing signals they read) beyond the configured pass limit.
var ErrPassLimit = errors.New("signals: propagation pass limit exceeded")

// NodeError records the operation and node that failed.
type NodeError struct {
	Op   string // "read", "write", "dispose", "evaluate", "run"
	Node NodeInfo
	Err  error
}

// Error implements the error interface.
func (e *NodeError) Error() string {
	name := e.Node.Name
	if name == "" {
		name = e.Node.ID.String()
	}
	return fmt.Sprintf("%s %s %s: %v", e.Op, e.Node.Kind, name, e.Err)
}

// Unwrap returns the underlying sentinel for errors.Is support.
func (e *NodeError) Unwrap() error {
	return e.Err
}

func nodeError(op string, info NodeInfo, err error) error {
	return &NodeError{Op: op, Node: info, Err: err}
}

// abort carries an error out of a user callback through panic. It is only
// raised while the runtime has a recover frame on the stack.
type abort struct {
	err error
}
