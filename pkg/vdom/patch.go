package vdom

// patch updates the host output of prev, mounted under parent, to match
// next. The host node is reused unless the kind or tag changed.
func (r *reconciler) patch(prev, next *VNode, parent Handle, depth int) error {
	if err := r.enter(depth); err != nil {
		return err
	}
	if prev.handle == nil {
		return errNoHandle(prev)
	}
	if prev.Kind != next.Kind || prev.Tag != next.Tag {
		return r.replace(prev, next, parent, depth)
	}
	if err := prepare(next); err != nil {
		return err
	}
	if err := next.bind(prev.handle); err != nil {
		return err
	}
	r.stats.Patched++

	if next.Kind == KindText {
		if prev.Text == next.Text {
			return nil
		}
		r.stats.HostOps++
		if err := r.host.SetText(next.handle, next.Text); err != nil {
			return hostError(OpSetText, err)
		}
		return nil
	}

	if err := r.diffProps(next.handle, prev.Props, next.Props); err != nil {
		return err
	}
	return r.patchChildren(prev, next, next.handle, depth+1)
}

// replace removes prev's host subtree and mounts next in its place. No prop
// or child diffing happens across a kind or tag change.
func (r *reconciler) replace(prev, next *VNode, parent Handle, depth int) error {
	ref := r.host.NextSibling(prev.handle)
	if err := r.remove(parent, prev); err != nil {
		return err
	}
	r.stats.Replaced++
	return r.mount(next, parent, ref, depth)
}
