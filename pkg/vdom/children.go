package vdom

// patchChildren reconciles the children of two elements sharing the host
// node parent. The cases are keyed by the next cardinality.
func (r *reconciler) patchChildren(prev, next *VNode, parent Handle, depth int) error {
	switch next.Cardinality {
	case CardinalityNone:
		if prev.Cardinality == CardinalityNone {
			return nil
		}
		return r.removeAll(parent, prev.Children)

	case CardinalitySingle:
		switch prev.Cardinality {
		case CardinalityNone:
			return r.mount(next.Child(), parent, nil, depth)
		case CardinalitySingle:
			return r.patch(prev.Child(), next.Child(), parent, depth)
		default:
			if err := r.removeAll(parent, prev.Children); err != nil {
				return err
			}
			return r.mount(next.Child(), parent, nil, depth)
		}

	default:
		if err := r.checkKeys(next, next.Children); err != nil {
			return err
		}
		switch prev.Cardinality {
		case CardinalityNone:
			return r.mountAll(next.Children, parent, depth)
		case CardinalitySingle:
			if err := r.remove(parent, prev.Child()); err != nil {
				return err
			}
			return r.mountAll(next.Children, parent, depth)
		default:
			if r.opts.Strategy == StrategyForward {
				return r.diffKeyedForward(prev.Children, next.Children, parent, depth)
			}
			return r.diffKeyedLIS(prev.Children, next.Children, parent, depth)
		}
	}
}

// mountAll appends every node of list to parent in order.
func (r *reconciler) mountAll(list []*VNode, parent Handle, depth int) error {
	for _, v := range list {
		if err := r.mount(v, parent, nil, depth); err != nil {
			return err
		}
	}
	return nil
}

// checkKeys reports duplicate keys among siblings. Duplicates are a caller
// error: strict mode fails, otherwise a warning is logged and matching
// falls back to the earliest unused candidate.
func (r *reconciler) checkKeys(parent *VNode, list []*VNode) error {
	var seen map[string]struct{}
	for _, v := range list {
		if v.Key == "" {
			continue
		}
		if seen == nil {
			seen = make(map[string]struct{}, len(list))
		}
		if _, dup := seen[v.Key]; !dup {
			seen[v.Key] = struct{}{}
			continue
		}
		if r.opts.StrictKeys {
			return errDuplicateKey(v.Key, parent)
		}
		r.logger.Warn("vdom: duplicate sibling key",
			"key", v.Key,
			"parent", parent.String(),
		)
	}
	return nil
}
