package vdom

// matchChildren pairs every next node with the previous node it reuses.
//
// Keyed nodes match a previous node with the same key; unkeyed nodes match
// only the unkeyed previous node at the same index. Each previous node is
// reused at most once, and among duplicates the earliest unused one wins.
// sources[i] is the previous index reused by next[i], or -1 for a new node.
func matchChildren(prev, next []*VNode) (sources []int, used []bool) {
	byKey := make(map[string][]int, len(prev))
	for j, p := range prev {
		if p.Key != "" {
			byKey[p.Key] = append(byKey[p.Key], j)
		}
	}

	sources = make([]int, len(next))
	used = make([]bool, len(prev))
	for i, n := range next {
		sources[i] = -1
		if n.Key == "" {
			if i < len(prev) && prev[i].Key == "" && !used[i] {
				sources[i] = i
				used[i] = true
			}
			continue
		}
		for _, j := range byKey[n.Key] {
			if !used[j] {
				sources[i] = j
				used[j] = true
				break
			}
		}
	}
	return sources, used
}

// removeUnmatched removes every previous node that no next node reuses.
func (r *reconciler) removeUnmatched(prev []*VNode, used []bool, parent Handle) error {
	for j, p := range prev {
		if used[j] {
			continue
		}
		if err := r.remove(parent, p); err != nil {
			return err
		}
	}
	return nil
}

// diffKeyedLIS reconciles two multi-child lists moving as few host nodes as
// possible. Reused nodes whose previous indices form the longest increasing
// subsequence stay put; the rest are moved, walking next from the end so
// that the following sibling is always already in its final place.
func (r *reconciler) diffKeyedLIS(prev, next []*VNode, parent Handle, depth int) error {
	sources, used := matchChildren(prev, next)
	if err := r.removeUnmatched(prev, used, parent); err != nil {
		return err
	}

	for i, n := range next {
		if j := sources[i]; j >= 0 {
			if err := r.patch(prev[j], n, parent, depth); err != nil {
				return err
			}
		}
	}

	stable := longestIncreasing(sources)
	var ref Handle
	for i := len(next) - 1; i >= 0; i-- {
		n := next[i]
		switch {
		case sources[i] < 0:
			if err := r.mount(n, parent, ref, depth); err != nil {
				return err
			}
		case !stable[i]:
			if err := r.move(parent, n.handle, ref); err != nil {
				return err
			}
		}
		ref = n.handle
	}
	return nil
}

// diffKeyedForward reconciles two multi-child lists in a single forward
// pass. lastIndex tracks the furthest previous index reused so far; a reused
// node found behind it is moved right after the node placed before it.
func (r *reconciler) diffKeyedForward(prev, next []*VNode, parent Handle, depth int) error {
	sources, used := matchChildren(prev, next)
	if err := r.removeUnmatched(prev, used, parent); err != nil {
		return err
	}

	// New nodes at the head of the list go before the first survivor.
	var head Handle
	for j, p := range prev {
		if used[j] {
			head = p.handle
			break
		}
	}

	lastIndex := 0
	for i, n := range next {
		j := sources[i]
		if j < 0 {
			ref := head
			if i > 0 {
				ref = r.host.NextSibling(next[i-1].handle)
			}
			if err := r.mount(n, parent, ref, depth); err != nil {
				return err
			}
			continue
		}

		if err := r.patch(prev[j], n, parent, depth); err != nil {
			return err
		}
		if j < lastIndex {
			ref := r.host.NextSibling(next[i-1].handle)
			if err := r.move(parent, n.handle, ref); err != nil {
				return err
			}
		} else {
			lastIndex = j
		}
	}
	return nil
}
