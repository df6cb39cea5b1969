package vdom

import "strings"

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement VKind = iota // <div>, <button>, etc.
	KindText                 // Plain text node
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	default:
		return "Unknown"
	}
}

// Cardinality classifies how many children an element has.
type Cardinality uint8

const (
	CardinalityNone     Cardinality = iota // No children
	CardinalitySingle                      // Exactly one child
	CardinalityMultiple                    // Two or more children
)

// String returns the string representation of the Cardinality.
func (c Cardinality) String() string {
	switch c {
	case CardinalityNone:
		return "None"
	case CardinalitySingle:
		return "Single"
	case CardinalityMultiple:
		return "Multiple"
	default:
		return "Unknown"
	}
}

// cardinalityOf returns the cardinality matching n children.
func cardinalityOf(n int) Cardinality {
	switch {
	case n == 0:
		return CardinalityNone
	case n == 1:
		return CardinalitySingle
	default:
		return CardinalityMultiple
	}
}

// VNode is the virtual tree node.
//
// Element nodes use Tag, Props, Children and Cardinality; text nodes use
// Text only. Nodes are immutable by convention once rendered: every render
// should build fresh instances.
type VNode struct {
	Kind        VKind       // Node type
	Tag         string      // Element tag name (e.g., "div")
	Key         string      // Reconciliation key, empty when unkeyed
	Props       Props       // Attributes, style and event listeners
	Children    []*VNode    // Child nodes (elements only)
	Cardinality Cardinality // Shape of Children
	Text        string      // Payload for KindText

	handle Handle // Host node produced by mount, bound once
}

// Props holds attributes, the style sub-mapping and event listeners.
type Props map[string]any

// Handle returns the host node this VNode was mounted to, or nil.
func (v *VNode) Handle() Handle {
	if v == nil {
		return nil
	}
	return v.handle
}

// Mounted reports whether the node has been bound to a host node.
func (v *VNode) Mounted() bool {
	return v.Handle() != nil
}

// Child returns the only child of a single-cardinality element, or nil.
func (v *VNode) Child() *VNode {
	if v == nil || v.Cardinality != CardinalitySingle || len(v.Children) != 1 {
		return nil
	}
	return v.Children[0]
}

// bind records h as this node's host handle. Rebinding the same handle is
// allowed (re-rendering an identical instance); a different one is not.
func (v *VNode) bind(h Handle) error {
	if v.handle != nil && v.handle != h {
		return errRebound(v)
	}
	v.handle = h
	return nil
}

// setChildren stores children and the matching cardinality.
func (v *VNode) setChildren(children []*VNode) {
	if len(children) == 0 {
		children = nil
	}
	v.Children = children
	v.Cardinality = cardinalityOf(len(children))
}

// IsInteractive returns true if this node has event listeners.
func (v *VNode) IsInteractive() bool {
	if v == nil || v.Kind != KindElement {
		return false
	}
	for key := range v.Props {
		if isEventProp(key) {
			return true
		}
	}
	return false
}

// String returns a compact description for logs, e.g. `li#b` or `"hello"`.
func (v *VNode) String() string {
	if v == nil {
		return "<nil>"
	}
	if v.Kind == KindText {
		return `"` + v.Text + `"`
	}
	var b strings.Builder
	b.WriteString(v.Tag)
	if v.Key != "" {
		b.WriteString("#")
		b.WriteString(v.Key)
	}
	return b.String()
}

// Attr represents a single attribute.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}
