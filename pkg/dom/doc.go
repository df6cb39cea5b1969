// Package dom is an in-memory host tree implementing vdom.Host.
//
// It models the subset of a document that the reconciler drives: elements
// with attributes, a style map and event listeners, and text nodes. Handles
// are *Node values. Mutations follow browser semantics where they matter to
// reconciliation: inserting an attached node moves it, and removing a node
// that is not a child of the given parent is an error.
//
// A Document is not safe for concurrent use.
package dom
