package vdom

// Text creates a text node.
func Text(content string) *VNode {
	return &VNode{Kind: KindText, Text: content}
}

// If yields node when cond holds and nil otherwise. Normalization drops the
// nil, so the child simply disappears from its parent.
func If(cond bool, node *VNode) *VNode {
	if !cond {
		return nil
	}
	return node
}

// Range builds one child per item. Nil results are skipped.
func Range[T any](items []T, fn func(int, T) *VNode) []*VNode {
	out := make([]*VNode, 0, len(items))
	for i := range items {
		if n := fn(i, items[i]); n != nil {
			out = append(out, n)
		}
	}
	return out
}

// Repeat builds n children from fn. Nil results are skipped.
func Repeat(n int, fn func(i int) *VNode) []*VNode {
	if n <= 0 {
		return nil
	}
	out := make([]*VNode, 0, n)
	for i := 0; i < n; i++ {
		if c := fn(i); c != nil {
			out = append(out, c)
		}
	}
	return out
}
