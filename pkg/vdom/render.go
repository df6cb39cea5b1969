package vdom

import "time"

// State is the lifecycle state of a Container.
type State uint8

const (
	StateUnmounted State = iota // Nothing rendered yet, or unmounted
	StateMounted                // Host tree matches Tree()
	StateFailed                 // A render aborted mid-way; see Reset
)

// String returns the string representation of the State.
func (s State) String() string {
	switch s {
	case StateUnmounted:
		return "unmounted"
	case StateMounted:
		return "mounted"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Container binds a host parent node to the tree last rendered into it.
//
// A Container is not safe for concurrent use; renders must be serialized.
type Container struct {
	host  Host
	root  Handle
	opts  Options
	state State
	tree  *VNode
	stats Stats
}

// NewContainer creates a container rendering into the host node root.
func NewContainer(host Host, root Handle, opts ...Option) *Container {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	o.resolve()
	return &Container{
		host: host,
		root: root,
		opts: o,
	}
}

// Render makes the host output under the container match next.
//
// The first render mounts, later renders patch against the previous tree,
// and rendering nil over a mounted tree removes it. When a render fails
// after touching the host, the container keeps the previous tree, moves
// to StateFailed and refuses further renders until Reset.
func (c *Container) Render(next *VNode) error {
	if c.state == StateFailed {
		return errContainerFailed(c.state)
	}

	start := time.Now()
	r := newReconciler(c.host, c.opts)
	var err error
	switch {
	case c.state == StateUnmounted && next == nil:
		r.stats.Mode = ModeNone
	case c.state == StateUnmounted:
		r.stats.Mode = ModeMount
		err = r.mount(next, c.root, nil, 0)
	case next == nil:
		r.stats.Mode = ModeUnmount
		err = r.remove(c.root, c.tree)
	default:
		r.stats.Mode = ModePatch
		err = r.patch(c.tree, next, c.root, 0)
	}
	c.stats = r.stats

	if err != nil {
		if r.stats.HostOps > 0 {
			c.state = StateFailed
		}
		c.opts.Logger.Error("vdom: render failed",
			"mode", r.stats.Mode.String(),
			"host_ops", r.stats.HostOps,
			"error", err,
		)
		return err
	}

	if next == nil {
		c.state = StateUnmounted
		c.tree = nil
	} else {
		c.state = StateMounted
		c.tree = next
	}

	c.opts.Logger.Debug("vdom: render",
		"mode", r.stats.Mode.String(),
		"created", r.stats.Created,
		"patched", r.stats.Patched,
		"removed", r.stats.Removed,
		"moved", r.stats.Moved,
		"host_ops", r.stats.HostOps,
		"duration", time.Since(start),
	)
	return nil
}

// Render renders next into c. It is shorthand for c.Render(next).
func Render(next *VNode, c *Container) error {
	return c.Render(next)
}

// Reset forgets the rendered tree and returns the container to
// StateUnmounted. The host nodes under the root are left untouched; the
// caller is responsible for clearing them before rendering again.
func (c *Container) Reset() {
	c.state = StateUnmounted
	c.tree = nil
	c.stats = Stats{}
}

// State returns the container's lifecycle state.
func (c *Container) State() State {
	return c.state
}

// Tree returns the tree the host output currently matches, or nil.
func (c *Container) Tree() *VNode {
	return c.tree
}

// Root returns the host parent node.
func (c *Container) Root() Handle {
	return c.root
}

// Stats returns the counters of the most recent render.
func (c *Container) Stats() Stats {
	return c.stats
}

// Options returns the resolved options.
func (c *Container) Options() Options {
	return c.opts
}
