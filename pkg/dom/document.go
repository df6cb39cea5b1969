package dom

import (
	"errors"
	"fmt"

	"github.com/vango-dev/reconcile/pkg/vdom"
)

// Host errors.
var (
	ErrNotNode      = errors.New("dom: handle is not a *dom.Node")
	ErrNotElement   = errors.New("dom: operation requires an element")
	ErrNotChild     = errors.New("dom: node is not a child of parent")
	ErrHierarchy    = errors.New("dom: node cannot be inserted into its own subtree")
	ErrNilListener  = errors.New("dom: nil listener")
	ErrEmptyTagName = errors.New("dom: empty tag name")
)

// Document owns a tree of nodes rooted at Root and implements vdom.Host.
type Document struct {
	root  *Node
	nodes int
}

var _ vdom.Host = (*Document)(nil)

// New creates a document whose root is an element with the given tag.
func New(rootTag string) *Document {
	if rootTag == "" {
		rootTag = "body"
	}
	return &Document{root: newElement(rootTag)}
}

// Root returns the document root.
func (d *Document) Root() *Node { return d.root }

// NodesCreated returns how many nodes the document has created.
func (d *Document) NodesCreated() int { return d.nodes }

func newElement(tag string) *Node {
	return &Node{
		Type:  ElementNode,
		Tag:   tag,
		attrs: make(map[string]string),
		style: make(map[string]string),
	}
}

// node resolves a handle to a node.
func node(h vdom.Handle) (*Node, error) {
	n, ok := h.(*Node)
	if !ok || n == nil {
		return nil, fmt.Errorf("%w: %T", ErrNotNode, h)
	}
	return n, nil
}

func element(h vdom.Handle) (*Node, error) {
	n, err := node(h)
	if err != nil {
		return nil, err
	}
	if n.Type != ElementNode {
		return nil, ErrNotElement
	}
	return n, nil
}

// CreateElement implements vdom.Host.
func (d *Document) CreateElement(tag string) (vdom.Handle, error) {
	if tag == "" {
		return nil, ErrEmptyTagName
	}
	d.nodes++
	return newElement(tag), nil
}

// CreateText implements vdom.Host.
func (d *Document) CreateText(text string) (vdom.Handle, error) {
	d.nodes++
	return &Node{Type: TextNode, text: text}, nil
}

// AppendChild implements vdom.Host. An attached child is moved.
func (d *Document) AppendChild(parent, child vdom.Handle) error {
	return d.InsertBefore(parent, child, nil)
}

// InsertBefore implements vdom.Host. A nil ref appends.
func (d *Document) InsertBefore(parent, child, ref vdom.Handle) error {
	p, err := element(parent)
	if err != nil {
		return err
	}
	c, err := node(child)
	if err != nil {
		return err
	}
	if c.contains(p) {
		return ErrHierarchy
	}

	var r *Node
	if ref != nil {
		if r, err = node(ref); err != nil {
			return err
		}
		if r.parent != p {
			return fmt.Errorf("%w: reference node", ErrNotChild)
		}
		if r == c {
			return nil
		}
	}

	c.detach()
	if r == nil {
		p.children = append(p.children, c)
	} else {
		i := p.indexOf(r)
		p.children = append(p.children, nil)
		copy(p.children[i+1:], p.children[i:])
		p.children[i] = c
	}
	c.parent = p
	return nil
}

// RemoveChild implements vdom.Host.
func (d *Document) RemoveChild(parent, child vdom.Handle) error {
	p, err := element(parent)
	if err != nil {
		return err
	}
	c, err := node(child)
	if err != nil {
		return err
	}
	if c.parent != p {
		return ErrNotChild
	}
	c.detach()
	return nil
}

// SetAttribute implements vdom.Host.
func (d *Document) SetAttribute(h vdom.Handle, name, value string) error {
	n, err := element(h)
	if err != nil {
		return err
	}
	n.attrs[name] = value
	return nil
}

// RemoveAttribute implements vdom.Host.
func (d *Document) RemoveAttribute(h vdom.Handle, name string) error {
	n, err := element(h)
	if err != nil {
		return err
	}
	delete(n.attrs, name)
	return nil
}

// SetStyle implements vdom.Host. An empty value clears the property.
func (d *Document) SetStyle(h vdom.Handle, name, value string) error {
	n, err := element(h)
	if err != nil {
		return err
	}
	if value == "" {
		delete(n.style, name)
		return nil
	}
	n.style[name] = value
	return nil
}

// AddEventListener implements vdom.Host. Adding the same listener twice for
// one event has no effect.
func (d *Document) AddEventListener(h vdom.Handle, event string, l *vdom.Listener) error {
	n, err := element(h)
	if err != nil {
		return err
	}
	if l == nil {
		return ErrNilListener
	}
	for _, existing := range n.listeners[event] {
		if existing == l {
			return nil
		}
	}
	if n.listeners == nil {
		n.listeners = make(map[string][]*vdom.Listener)
	}
	n.listeners[event] = append(n.listeners[event], l)
	return nil
}

// RemoveEventListener implements vdom.Host. Removing an unknown listener has
// no effect.
func (d *Document) RemoveEventListener(h vdom.Handle, event string, l *vdom.Listener) error {
	n, err := element(h)
	if err != nil {
		return err
	}
	list := n.listeners[event]
	for i, existing := range list {
		if existing == l {
			n.listeners[event] = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(n.listeners[event]) == 0 {
		delete(n.listeners, event)
	}
	return nil
}

// SetText implements vdom.Host.
func (d *Document) SetText(h vdom.Handle, text string) error {
	n, err := node(h)
	if err != nil {
		return err
	}
	if n.Type != TextNode {
		return fmt.Errorf("dom: SetText on %s node", n.Type)
	}
	n.text = text
	return nil
}

// NextSibling implements vdom.Host.
func (d *Document) NextSibling(h vdom.Handle) vdom.Handle {
	n, err := node(h)
	if err != nil {
		return nil
	}
	if next := n.Next(); next != nil {
		return next
	}
	return nil
}

// Dispatch fires event on n, calling its listeners in attach order, and
// returns how many ran. Events do not bubble.
func (d *Document) Dispatch(n *Node, event string, detail any) int {
	list := append([]*vdom.Listener(nil), n.listeners[event]...)
	for _, l := range list {
		l.Handle(vdom.Event{Type: event, Target: n, Detail: detail})
	}
	return len(list)
}

// Clear removes every child of the root.
func (d *Document) Clear() {
	for _, c := range d.root.Children() {
		c.detach()
	}
}
