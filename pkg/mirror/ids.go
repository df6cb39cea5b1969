package mirror

import (
	"fmt"

	rerrors "github.com/vango-dev/reconcile/internal/errors"
	"github.com/vango-dev/reconcile/pkg/dom"
)

// rootID is the ID of the container root on both ends.
const rootID uint32 = 1

// idTable maps host nodes to wire IDs. Callers hold the owner's lock.
type idTable struct {
	counter uint32
	ids     map[*dom.Node]uint32
	nodes   map[uint32]*dom.Node
}

func newIDTable(root *dom.Node) *idTable {
	t := &idTable{
		counter: rootID,
		ids:     map[*dom.Node]uint32{root: rootID},
		nodes:   map[uint32]*dom.Node{rootID: root},
	}
	return t
}

// assign gives n the next ID.
func (t *idTable) assign(n *dom.Node) uint32 {
	t.counter++
	t.ids[n] = t.counter
	t.nodes[t.counter] = n
	return t.counter
}

// put binds a known ID to n (replica side).
func (t *idTable) put(id uint32, n *dom.Node) {
	t.ids[n] = id
	t.nodes[id] = n
	if id > t.counter {
		t.counter = id
	}
}

func (t *idTable) id(n *dom.Node) (uint32, error) {
	id, ok := t.ids[n]
	if !ok {
		return 0, fmt.Errorf("mirror: node %s has no id", describe(n))
	}
	return id, nil
}

func (t *idTable) node(id uint32) (*dom.Node, error) {
	n, ok := t.nodes[id]
	if !ok {
		return nil, rerrors.New("E402").WithDetailf("node id %d", id)
	}
	return n, nil
}

// forget drops n and its subtree. Removed nodes are never reattached by the
// reconciler, so their IDs can go.
func (t *idTable) forget(n *dom.Node) {
	if id, ok := t.ids[n]; ok {
		delete(t.ids, n)
		delete(t.nodes, id)
	}
	for _, c := range n.Children() {
		t.forget(c)
	}
}

// len returns the number of tracked nodes, root included.
func (t *idTable) len() int {
	return len(t.ids)
}

func describe(n *dom.Node) string {
	if n.Type == dom.TextNode {
		return fmt.Sprintf("%q", n.Text())
	}
	return "<" + n.Tag + ">"
}
