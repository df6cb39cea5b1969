// Package vdom provides the virtual tree model and the reconciliation engine
// that keeps a host tree in sync with it.
//
// A virtual tree is an immutable description of desired UI. The engine
// materializes it through a Host (the rendering target) on the first render
// and, on every later render, applies only the mutations needed to turn the
// previous tree's output into the next one's.
//
// # Core Types
//
// VNode describes one element or text node. Props holds attributes, the
// style sub-mapping and event listeners. Cardinality classifies an element's
// children as none, single or multiple and drives which diff strategy runs.
//
// # Element API
//
// Nodes are created with CreateNode or the variadic element helpers, which
// normalize loosely-typed children (strings, numbers, nested slices, nil):
//
//	Ul(Class("todo"),
//	    Li(Key("a"), "Write tests"),
//	    Li(Key("b"), "Ship it"),
//	)
//
// # Rendering
//
// A Container binds a host parent node to the most recently rendered tree:
//
//	c := vdom.NewContainer(host, root)
//	err := c.Render(tree) // mount
//	err = c.Render(next)  // patch
//	err = c.Render(nil)   // unmount
//
// # Keyed Reconciliation
//
// Children carrying a Key are matched by identity across renders; unkeyed
// children match by position only. Sibling keys must be unique. With
// duplicate keys the earliest unused match wins and the result is otherwise
// undefined; WithStrictKeys turns duplicates into an error instead.
//
// # Listeners
//
// Listeners are compared by *Listener identity. A plain func passed to an
// event helper is wrapped in a fresh Listener on every render, so it is
// detached and reattached each time. Create the Listener once with
// NewListener and reuse it across renders to get a zero-op re-render.
package vdom
