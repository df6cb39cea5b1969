package vdom

import (
	"github.com/vango-dev/reconcile/internal/errors"
)

// Sentinel errors. Returned errors carry the same code with occurrence
// details attached, so match them with errors.Is.
var (
	ErrNoHandle        = errors.New("E101")
	ErrDuplicateKey    = errors.New("E102")
	ErrHostFailure     = errors.New("E103")
	ErrHandleRebound   = errors.New("E104")
	ErrContainerFailed = errors.New("E105")
	ErrMaxDepth        = errors.New("E106")
	ErrNotNormalized   = errors.New("E107")
)

// hostError wraps a Host failure with the operation that produced it.
func hostError(op OpCode, err error) error {
	return errors.New("E103").WithDetailf("%s failed", op).Wrap(err)
}

func errNotNormalized(v *VNode) error {
	return errors.New("E107").WithDetailf("%s has %d children but cardinality %s", v, len(v.Children), v.Cardinality)
}

func errNoHandle(v *VNode) error {
	return errors.New("E101").WithDetailf("node %s", v)
}

func errMaxDepth(limit int) error {
	return errors.New("E106").WithDetailf("limit %d", limit)
}

func errDuplicateKey(key string, parent *VNode) error {
	return errors.New("E102").WithDetailf("key %q under %s", key, parent)
}

func errRebound(v *VNode) error {
	return errors.New("E104").WithDetailf("node %s", v)
}

func errContainerFailed(s State) error {
	return errors.New("E105").WithDetailf("state %s", s)
}
