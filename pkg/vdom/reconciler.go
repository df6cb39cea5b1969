package vdom

import "log/slog"

// Stats counts what one render did.
type Stats struct {
	Mode       Mode // What the render did at the root
	Mounted    int  // Subtrees inserted into an existing host node
	Created    int  // Host nodes created
	Patched    int  // Nodes updated in place
	Replaced   int  // Nodes replaced after a kind or tag change
	Removed    int  // Subtrees removed
	Moved      int  // Existing host nodes repositioned
	PropWrites int  // Attribute, style and listener mutations
	HostOps    int  // All host mutations
}

// Mode describes what a render did at the root.
type Mode uint8

const (
	ModeNone    Mode = iota // Nothing rendered and nothing to remove
	ModeMount               // First render
	ModePatch               // Update against the previous tree
	ModeUnmount             // Rendering nil over a mounted tree
)

// String returns the string representation of the Mode.
func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "none"
	case ModeMount:
		return "mount"
	case ModePatch:
		return "patch"
	case ModeUnmount:
		return "unmount"
	default:
		return "unknown"
	}
}

// reconciler carries the state of a single render pass.
type reconciler struct {
	host   Host
	opts   Options
	logger *slog.Logger
	stats  Stats
}

func newReconciler(host Host, opts Options) *reconciler {
	return &reconciler{host: host, opts: opts, logger: opts.Logger}
}

// enter enforces the depth limit.
func (r *reconciler) enter(depth int) error {
	if depth > r.opts.MaxDepth {
		return errMaxDepth(r.opts.MaxDepth)
	}
	return nil
}

// insert places child into parent before ref, appending when ref is nil.
func (r *reconciler) insert(parent, child, ref Handle) error {
	r.stats.HostOps++
	if ref == nil {
		if err := r.host.AppendChild(parent, child); err != nil {
			return hostError(OpAppendChild, err)
		}
		return nil
	}
	if err := r.host.InsertBefore(parent, child, ref); err != nil {
		return hostError(OpInsertBefore, err)
	}
	return nil
}

// move repositions an already mounted host node.
func (r *reconciler) move(parent, child, ref Handle) error {
	r.stats.Moved++
	return r.insert(parent, child, ref)
}

// remove detaches v's host subtree from parent.
func (r *reconciler) remove(parent Handle, v *VNode) error {
	if v.handle == nil {
		return errNoHandle(v)
	}
	r.stats.HostOps++
	r.stats.Removed++
	if err := r.host.RemoveChild(parent, v.handle); err != nil {
		return hostError(OpRemoveChild, err)
	}
	return nil
}

// removeAll detaches every node in list from parent.
func (r *reconciler) removeAll(parent Handle, list []*VNode) error {
	for _, v := range list {
		if err := r.remove(parent, v); err != nil {
			return err
		}
	}
	return nil
}
