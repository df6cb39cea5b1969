// Package scenario loads YAML documents describing a sequence of virtual
// trees to render.
//
// A scenario is a list of steps. Each step carries the full tree for that
// render; the engine diffs consecutive steps. Scalar children are text
// nodes. Event handlers are referenced by name so that the same name keeps
// the same listener across steps.
//
//	name: todo
//	root: main
//	steps:
//	  - name: initial
//	    tree:
//	      tag: ul
//	      attrs: {class: todos}
//	      children:
//	        - {tag: li, key: a, children: [Buy milk]}
//	        - {tag: li, key: b, children: [Walk dog]}
//	  - name: reorder
//	    tree:
//	      tag: ul
//	      attrs: {class: todos}
//	      style: {color: red}
//	      on: {click: select}
//	      children:
//	        - {tag: li, key: b, children: [Walk dog]}
//	        - {tag: li, key: a, children: [Buy milk]}
//	  - name: clear
//	    unmount: true
package scenario
