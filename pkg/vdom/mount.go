package vdom

import "sort"

// mount materializes v and inserts it into parent before ref (append when
// ref is nil).
func (r *reconciler) mount(v *VNode, parent, ref Handle, depth int) error {
	h, err := r.build(v, depth)
	if err != nil {
		return err
	}
	r.stats.Mounted++
	return r.insert(parent, h, ref)
}

// build creates the host node for v and its subtree without attaching it.
// Children are attached first, then props are applied.
func (r *reconciler) build(v *VNode, depth int) (Handle, error) {
	if err := r.enter(depth); err != nil {
		return nil, err
	}
	if v.handle != nil {
		return nil, errRebound(v)
	}
	if err := prepare(v); err != nil {
		return nil, err
	}

	if v.Cardinality == CardinalityMultiple {
		if err := r.checkKeys(v, v.Children); err != nil {
			return nil, err
		}
	}

	r.stats.Created++
	r.stats.HostOps++
	if v.Kind == KindText {
		h, err := r.host.CreateText(v.Text)
		if err != nil {
			return nil, hostError(OpCreateText, err)
		}
		return h, v.bind(h)
	}

	h, err := r.host.CreateElement(v.Tag)
	if err != nil {
		return nil, hostError(OpCreateElement, err)
	}
	if err := v.bind(h); err != nil {
		return nil, err
	}

	for _, child := range v.Children {
		ch, err := r.build(child, depth+1)
		if err != nil {
			return nil, err
		}
		if err := r.insert(h, ch, nil); err != nil {
			return nil, err
		}
	}

	for _, name := range sortedKeys(v.Props) {
		if err := r.patchProperty(h, name, nil, v.Props[name]); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// sortedKeys returns the prop names in a stable order.
func sortedKeys(m Props) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
