package mirror

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/vango-dev/reconcile/pkg/dom"
	"github.com/vango-dev/reconcile/pkg/protocol"
	"github.com/vango-dev/reconcile/pkg/vdom"
)

// Mirror is a vdom.Host that records every mutation it applies to its
// document so the mutations can be replayed remotely.
//
// All methods are safe for concurrent use. Host calls, Flush and client
// attachment are serialized, so a client never sees a batch twice or misses
// one between its snapshot and the live stream.
type Mirror struct {
	mu      sync.Mutex
	doc     *dom.Document
	ids     *idTable
	pending []protocol.Op
	seq     uint64

	hub    *Hub
	config *Config
	logger *slog.Logger
}

var _ vdom.Host = (*Mirror)(nil)

// New creates a mirror over doc. A nil config uses DefaultConfig().
func New(doc *dom.Document, config *Config) *Mirror {
	if config == nil {
		config = DefaultConfig()
	}
	config = config.resolve()
	return &Mirror{
		doc:    doc,
		ids:    newIDTable(doc.Root()),
		hub:    NewHub(config),
		config: config,
		logger: config.Logger,
	}
}

// Root returns the document root, the handle to render into.
func (m *Mirror) Root() vdom.Handle {
	return m.doc.Root()
}

// Hub returns the client hub.
func (m *Mirror) Hub() *Hub {
	return m.hub
}

// Seq returns the sequence number of the last flushed batch.
func (m *Mirror) Seq() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.seq
}

// Pending returns how many recorded ops await Flush.
func (m *Mirror) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Nodes returns how many nodes currently have IDs, root included.
func (m *Mirror) Nodes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ids.len()
}

// HTML serializes the mirrored document.
func (m *Mirror) HTML() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.doc.HTML()
}

// Flush broadcasts the pending ops as one batch. Flushing with nothing
// pending is a no-op.
func (m *Mirror) Flush() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.flushLocked()
}

func (m *Mirror) flushLocked() error {
	if len(m.pending) == 0 {
		return nil
	}
	m.seq++
	batch := &protocol.Batch{Seq: m.seq, Root: rootID, Ops: m.pending}
	m.pending = nil

	data, err := encodeFrame(protocol.FrameOps, batch)
	if err != nil {
		m.logger.Error("mirror: encode batch", "seq", batch.Seq, "ops", len(batch.Ops), "error", err)
		return err
	}
	sent := m.hub.Broadcast(data)
	m.logger.Debug("mirror: flush", "seq", batch.Seq, "ops", len(batch.Ops), "bytes", len(data), "clients", sent)
	return nil
}

// Snapshot returns a FrameSnapshot rebuilding the current tree. Pending ops
// are flushed first so the snapshot and the live stream line up.
func (m *Mirror) Snapshot() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.flushLocked(); err != nil {
		return nil, err
	}
	return m.snapshotLocked()
}

func (m *Mirror) snapshotLocked() ([]byte, error) {
	var ops []protocol.Op
	for _, c := range m.doc.Root().Children() {
		if err := m.replay(&ops, c, rootID); err != nil {
			return nil, err
		}
	}
	return encodeFrame(protocol.FrameSnapshot, &protocol.Batch{Seq: m.seq, Root: rootID, Ops: ops})
}

// replay appends the ops that recreate n under parent.
func (m *Mirror) replay(ops *[]protocol.Op, n *dom.Node, parent uint32) error {
	id, err := m.ids.id(n)
	if err != nil {
		return err
	}
	if n.Type == dom.TextNode {
		*ops = append(*ops,
			protocol.Op{Code: vdom.OpCreateText, Node: id, Value: n.Text()},
			protocol.Op{Code: vdom.OpAppendChild, Node: id, Parent: parent},
		)
		return nil
	}

	*ops = append(*ops, protocol.Op{Code: vdom.OpCreateElement, Node: id, Name: n.Tag})
	for _, c := range n.Children() {
		if err := m.replay(ops, c, id); err != nil {
			return err
		}
	}
	for _, name := range n.Attrs() {
		v, _ := n.Attr(name)
		*ops = append(*ops, protocol.Op{Code: vdom.OpSetAttribute, Node: id, Name: name, Value: v})
	}
	for _, name := range n.StyleProps() {
		*ops = append(*ops, protocol.Op{Code: vdom.OpSetStyle, Node: id, Name: name, Value: n.StyleProp(name)})
	}
	for _, event := range n.Events() {
		for i := 0; i < n.ListenerCount(event); i++ {
			*ops = append(*ops, protocol.Op{Code: vdom.OpAddListener, Node: id, Name: event})
		}
	}
	*ops = append(*ops, protocol.Op{Code: vdom.OpAppendChild, Node: id, Parent: parent})
	return nil
}

// Close disconnects every client.
func (m *Mirror) Close() {
	m.hub.Close()
}

func encodeFrame(ft protocol.FrameType, b *protocol.Batch) ([]byte, error) {
	f, err := protocol.EncodeOps(ft, b)
	if err != nil {
		return nil, err
	}
	return f.Encode()
}

func (m *Mirror) record(op protocol.Op) {
	m.pending = append(m.pending, op)
}

func asNode(h vdom.Handle) (*dom.Node, error) {
	n, ok := h.(*dom.Node)
	if !ok || n == nil {
		return nil, fmt.Errorf("%w: %T", dom.ErrNotNode, h)
	}
	return n, nil
}

// idOf returns the wire ID of a handle.
func (m *Mirror) idOf(h vdom.Handle) (uint32, error) {
	n, err := asNode(h)
	if err != nil {
		return 0, err
	}
	return m.ids.id(n)
}

// CreateElement implements vdom.Host.
func (m *Mirror) CreateElement(tag string) (vdom.Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, err := m.doc.CreateElement(tag)
	if err != nil {
		return nil, err
	}
	id := m.ids.assign(h.(*dom.Node))
	m.record(protocol.Op{Code: vdom.OpCreateElement, Node: id, Name: tag})
	return h, nil
}

// CreateText implements vdom.Host.
func (m *Mirror) CreateText(text string) (vdom.Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, err := m.doc.CreateText(text)
	if err != nil {
		return nil, err
	}
	id := m.ids.assign(h.(*dom.Node))
	m.record(protocol.Op{Code: vdom.OpCreateText, Node: id, Value: text})
	return h, nil
}

// AppendChild implements vdom.Host.
func (m *Mirror) AppendChild(parent, child vdom.Handle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	pid, err := m.idOf(parent)
	if err != nil {
		return err
	}
	cid, err := m.idOf(child)
	if err != nil {
		return err
	}
	if err := m.doc.AppendChild(parent, child); err != nil {
		return err
	}
	m.record(protocol.Op{Code: vdom.OpAppendChild, Node: cid, Parent: pid})
	return nil
}

// InsertBefore implements vdom.Host.
func (m *Mirror) InsertBefore(parent, child, ref vdom.Handle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	pid, err := m.idOf(parent)
	if err != nil {
		return err
	}
	cid, err := m.idOf(child)
	if err != nil {
		return err
	}
	var rid uint32
	if ref != nil {
		if rid, err = m.idOf(ref); err != nil {
			return err
		}
	}
	if err := m.doc.InsertBefore(parent, child, ref); err != nil {
		return err
	}
	m.record(protocol.Op{Code: vdom.OpInsertBefore, Node: cid, Parent: pid, Ref: rid})
	return nil
}

// RemoveChild implements vdom.Host. The removed subtree's IDs are released.
func (m *Mirror) RemoveChild(parent, child vdom.Handle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	pid, err := m.idOf(parent)
	if err != nil {
		return err
	}
	cid, err := m.idOf(child)
	if err != nil {
		return err
	}
	if err := m.doc.RemoveChild(parent, child); err != nil {
		return err
	}
	m.record(protocol.Op{Code: vdom.OpRemoveChild, Node: cid, Parent: pid})
	m.ids.forget(child.(*dom.Node))
	return nil
}

// mutate applies fn to the node behind h and records op with its ID.
func (m *Mirror) mutate(h vdom.Handle, op protocol.Op, fn func() error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, err := m.idOf(h)
	if err != nil {
		return err
	}
	if err := fn(); err != nil {
		return err
	}
	op.Node = id
	m.record(op)
	return nil
}

// SetAttribute implements vdom.Host.
func (m *Mirror) SetAttribute(h vdom.Handle, name, value string) error {
	return m.mutate(h, protocol.Op{Code: vdom.OpSetAttribute, Name: name, Value: value}, func() error {
		return m.doc.SetAttribute(h, name, value)
	})
}

// RemoveAttribute implements vdom.Host.
func (m *Mirror) RemoveAttribute(h vdom.Handle, name string) error {
	return m.mutate(h, protocol.Op{Code: vdom.OpRemoveAttr, Name: name}, func() error {
		return m.doc.RemoveAttribute(h, name)
	})
}

// SetStyle implements vdom.Host.
func (m *Mirror) SetStyle(h vdom.Handle, name, value string) error {
	return m.mutate(h, protocol.Op{Code: vdom.OpSetStyle, Name: name, Value: value}, func() error {
		return m.doc.SetStyle(h, name, value)
	})
}

// AddEventListener implements vdom.Host. Only the event name crosses the
// wire; callbacks stay with the primary.
func (m *Mirror) AddEventListener(h vdom.Handle, event string, l *vdom.Listener) error {
	return m.mutate(h, protocol.Op{Code: vdom.OpAddListener, Name: event}, func() error {
		return m.doc.AddEventListener(h, event, l)
	})
}

// RemoveEventListener implements vdom.Host.
func (m *Mirror) RemoveEventListener(h vdom.Handle, event string, l *vdom.Listener) error {
	return m.mutate(h, protocol.Op{Code: vdom.OpRemoveListener, Name: event}, func() error {
		return m.doc.RemoveEventListener(h, event, l)
	})
}

// SetText implements vdom.Host.
func (m *Mirror) SetText(h vdom.Handle, text string) error {
	return m.mutate(h, protocol.Op{Code: vdom.OpSetText, Value: text}, func() error {
		return m.doc.SetText(h, text)
	})
}

// NextSibling implements vdom.Host.
func (m *Mirror) NextSibling(h vdom.Handle) vdom.Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.doc.NextSibling(h)
}
