package dom

import (
	"sort"

	"github.com/vango-dev/reconcile/pkg/vdom"
)

// NodeType distinguishes elements from text nodes.
type NodeType uint8

const (
	ElementNode NodeType = iota + 1
	TextNode
)

// String returns the string representation of the NodeType.
func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	default:
		return "unknown"
	}
}

// Node is one host node.
type Node struct {
	Type NodeType
	Tag  string

	text      string
	attrs     map[string]string
	style     map[string]string
	listeners map[string][]*vdom.Listener

	parent   *Node
	children []*Node
}

// Parent returns the node's parent, or nil when detached.
func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// ChildCount returns the number of children.
func (n *Node) ChildCount() int { return len(n.children) }

// FirstChild returns the first child, or nil.
func (n *Node) FirstChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[0]
}

// Next returns the following sibling, or nil.
func (n *Node) Next() *Node {
	if n.parent == nil {
		return nil
	}
	i := n.parent.indexOf(n)
	if i < 0 || i+1 >= len(n.parent.children) {
		return nil
	}
	return n.parent.children[i+1]
}

// Text returns a text node's content, or the concatenated text of an
// element's descendants.
func (n *Node) Text() string {
	if n.Type == TextNode {
		return n.text
	}
	var s string
	for _, c := range n.children {
		s += c.Text()
	}
	return s
}

// Attr returns the value of an attribute and whether it is set.
func (n *Node) Attr(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

// Attrs returns the attribute names in sorted order.
func (n *Node) Attrs() []string {
	return sortedNames(n.attrs)
}

// StyleProp returns a style property, or "" when unset.
func (n *Node) StyleProp(name string) string {
	return n.style[name]
}

// StyleProps returns the set style property names in sorted order.
func (n *Node) StyleProps() []string {
	return sortedNames(n.style)
}

// ListenerCount returns how many listeners are attached for event.
func (n *Node) ListenerCount(event string) int {
	return len(n.listeners[event])
}

// Events returns the names of events with at least one listener, sorted.
func (n *Node) Events() []string {
	names := make([]string, 0, len(n.listeners))
	for name := range n.listeners {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (n *Node) indexOf(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

func (n *Node) detach() {
	if n.parent == nil {
		return
	}
	p := n.parent
	if i := p.indexOf(n); i >= 0 {
		p.children = append(p.children[:i], p.children[i+1:]...)
	}
	n.parent = nil
}

// contains reports whether other is n or one of its descendants.
func (n *Node) contains(other *Node) bool {
	for c := other; c != nil; c = c.parent {
		if c == n {
			return true
		}
	}
	return false
}

func sortedNames(m map[string]string) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
