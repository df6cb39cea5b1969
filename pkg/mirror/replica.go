package mirror

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	rerrors "github.com/vango-dev/reconcile/internal/errors"
	"github.com/vango-dev/reconcile/pkg/dom"
	"github.com/vango-dev/reconcile/pkg/protocol"
	"github.com/vango-dev/reconcile/pkg/vdom"
)

// ErrOutOfSync is returned when a batch does not follow the last applied
// one. The replica stays out of sync until the next snapshot.
var ErrOutOfSync = errors.New("mirror: replica out of sync")

// Replica rebuilds a mirrored document from frames.
// It is safe for concurrent use.
type Replica struct {
	mu        sync.Mutex
	rootTag   string
	doc       *dom.Document
	ids       *idTable
	listeners map[*dom.Node]map[string][]*vdom.Listener
	seq       uint64
	synced    bool
	changed   chan struct{}

	logger *slog.Logger
}

// NewReplica creates an empty replica whose root has the given tag.
func NewReplica(rootTag string, logger *slog.Logger) *Replica {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Replica{rootTag: rootTag, logger: logger, changed: make(chan struct{})}
	r.resetLocked()
	return r
}

func (r *Replica) resetLocked() {
	r.doc = dom.New(r.rootTag)
	r.ids = newIDTable(r.doc.Root())
	r.listeners = make(map[*dom.Node]map[string][]*vdom.Listener)
	r.seq = 0
	r.synced = false
}

// HTML serializes the replica document.
func (r *Replica) HTML() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.doc.HTML()
}

// Seq returns the sequence number of the last applied batch.
func (r *Replica) Seq() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seq
}

// Synced reports whether the replica has a snapshot and no gaps since.
func (r *Replica) Synced() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.synced
}

// Wait blocks until the replica is synced at seq or later, or ctx is done.
func (r *Replica) Wait(ctx context.Context, seq uint64) error {
	for {
		r.mu.Lock()
		if r.synced && r.seq >= seq {
			r.mu.Unlock()
			return nil
		}
		ch := r.changed
		r.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Apply applies one frame.
func (r *Replica) Apply(f *protocol.Frame) error {
	if f.Type == protocol.FrameError {
		msg, err := protocol.DecodeError(f.Payload)
		if err != nil {
			return err
		}
		return fmt.Errorf("mirror: remote error: %s", msg)
	}
	batch, err := protocol.DecodeOps(f)
	if err != nil {
		return rerrors.New("E401").WithDetail(err.Error()).Wrap(err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	defer r.notifyLocked()

	if f.Type == protocol.FrameSnapshot {
		r.resetLocked()
	} else if !r.synced || batch.Seq != r.seq+1 {
		r.synced = false
		return fmt.Errorf("%w: have %d, got %d", ErrOutOfSync, r.seq, batch.Seq)
	}

	for i, op := range batch.Ops {
		if err := r.apply(op); err != nil {
			r.synced = false
			return fmt.Errorf("mirror: batch %d op %d (%s): %w", batch.Seq, i, op, err)
		}
	}
	r.seq = batch.Seq
	r.synced = true
	return nil
}

func (r *Replica) notifyLocked() {
	close(r.changed)
	r.changed = make(chan struct{})
}

func (r *Replica) apply(op protocol.Op) error {
	switch op.Code {
	case vdom.OpCreateElement:
		h, err := r.doc.CreateElement(op.Name)
		if err != nil {
			return err
		}
		r.ids.put(op.Node, h.(*dom.Node))
		return nil
	case vdom.OpCreateText:
		h, err := r.doc.CreateText(op.Value)
		if err != nil {
			return err
		}
		r.ids.put(op.Node, h.(*dom.Node))
		return nil
	}

	n, err := r.ids.node(op.Node)
	if err != nil {
		return err
	}
	switch op.Code {
	case vdom.OpAppendChild, vdom.OpInsertBefore, vdom.OpRemoveChild:
		parent, err := r.ids.node(op.Parent)
		if err != nil {
			return err
		}
		switch op.Code {
		case vdom.OpAppendChild:
			return r.doc.AppendChild(parent, n)
		case vdom.OpInsertBefore:
			var ref vdom.Handle
			if op.Ref != 0 {
				refNode, err := r.ids.node(op.Ref)
				if err != nil {
					return err
				}
				ref = refNode
			}
			return r.doc.InsertBefore(parent, n, ref)
		default:
			if err := r.doc.RemoveChild(parent, n); err != nil {
				return err
			}
			r.forget(n)
			return nil
		}
	case vdom.OpSetAttribute:
		return r.doc.SetAttribute(n, op.Name, op.Value)
	case vdom.OpRemoveAttr:
		return r.doc.RemoveAttribute(n, op.Name)
	case vdom.OpSetStyle:
		return r.doc.SetStyle(n, op.Name, op.Value)
	case vdom.OpSetText:
		return r.doc.SetText(n, op.Value)
	case vdom.OpAddListener:
		// Replicas only track which events are wired; the callbacks live
		// with the primary.
		l := vdom.NewListener(nil)
		if r.listeners[n] == nil {
			r.listeners[n] = make(map[string][]*vdom.Listener)
		}
		r.listeners[n][op.Name] = append(r.listeners[n][op.Name], l)
		return r.doc.AddEventListener(n, op.Name, l)
	case vdom.OpRemoveListener:
		list := r.listeners[n][op.Name]
		if len(list) == 0 {
			return nil
		}
		l := list[len(list)-1]
		r.listeners[n][op.Name] = list[:len(list)-1]
		return r.doc.RemoveEventListener(n, op.Name, l)
	default:
		return fmt.Errorf("%w: 0x%02x", protocol.ErrUnknownOp, byte(op.Code))
	}
}

// forget releases a removed subtree.
func (r *Replica) forget(n *dom.Node) {
	r.ids.forget(n)
	var walk func(*dom.Node)
	walk = func(n *dom.Node) {
		delete(r.listeners, n)
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(n)
}

// Connect dials a mirror's websocket endpoint and applies frames until the
// connection ends, a frame fails to apply, or ctx is done.
func (r *Replica) Connect(ctx context.Context, url string) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("mirror: dial %s: %w", url, err)
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return nil
			}
			return err
		}
		f, err := protocol.DecodeFrame(msg)
		if err != nil {
			return err
		}
		if err := r.Apply(f); err != nil {
			return err
		}
		r.logger.Debug("mirror: replica applied", "type", f.Type.String(), "seq", r.Seq())
	}
}
