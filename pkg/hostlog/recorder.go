// Package hostlog records the primitive calls a reconciler makes against a
// vdom.Host.
//
// A Recorder wraps any Host, forwards every call and appends one Op per
// successful mutation. Tests use the log to assert exactly which host
// operations a render performed; the CLI prints it after each step.
package hostlog

import (
	"fmt"
	"strings"
	"sync"

	"github.com/vango-dev/reconcile/pkg/vdom"
)

// Op is one recorded host mutation.
//
// Target is the node the operation applies to: the created node for
// CreateElement and CreateText, the parent for AppendChild, InsertBefore and
// RemoveChild, and the mutated node otherwise. Child and Ref are set for
// structural operations.
type Op struct {
	Code   vdom.OpCode
	Target vdom.Handle
	Child  vdom.Handle
	Ref    vdom.Handle
	Name   string // Tag, attribute, style property or event name
	Value  string // Text, attribute or style value
}

// String returns a compact form such as `SetStyle color=red`.
func (op Op) String() string {
	var b strings.Builder
	b.WriteString(op.Code.String())
	switch {
	case op.Name != "" && op.Value != "":
		fmt.Fprintf(&b, " %s=%s", op.Name, op.Value)
	case op.Name != "":
		b.WriteString(" ")
		b.WriteString(op.Name)
	case op.Value != "":
		fmt.Fprintf(&b, " %q", op.Value)
	}
	return b.String()
}

// Recorder is a vdom.Host decorator that logs mutations.
// It is safe for concurrent use.
type Recorder struct {
	host vdom.Host

	mu    sync.Mutex
	ops   []Op
	fail  map[vdom.OpCode]error
	calls int
}

var _ vdom.Host = (*Recorder)(nil)

// New wraps host.
func New(host vdom.Host) *Recorder {
	return &Recorder{host: host}
}

// Ops returns a copy of the recorded operations.
func (r *Recorder) Ops() []Op {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Op, len(r.ops))
	copy(out, r.ops)
	return out
}

// Codes returns the opcode of every recorded operation, in order.
func (r *Recorder) Codes() []vdom.OpCode {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]vdom.OpCode, len(r.ops))
	for i, op := range r.ops {
		out[i] = op.Code
	}
	return out
}

// Strings returns String() of every recorded operation, in order.
func (r *Recorder) Strings() []string {
	ops := r.Ops()
	out := make([]string, len(ops))
	for i, op := range ops {
		out[i] = op.String()
	}
	return out
}

// Len returns the number of recorded operations.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ops)
}

// Count returns how many operations with the given code were recorded.
func (r *Recorder) Count(code vdom.OpCode) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, op := range r.ops {
		if op.Code == code {
			n++
		}
	}
	return n
}

// Calls returns how many mutations were attempted, including failed ones.
func (r *Recorder) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

// Reset clears the log. Injected failures are kept.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = nil
	r.calls = 0
}

// FailOn makes every later call with the given code return err without
// reaching the wrapped host. A nil err clears the injection.
func (r *Recorder) FailOn(code vdom.OpCode, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err == nil {
		delete(r.fail, code)
		return
	}
	if r.fail == nil {
		r.fail = make(map[vdom.OpCode]error)
	}
	r.fail[code] = err
}

// do runs call unless a failure is injected for op.Code, and records op on
// success. For create operations the returned handle becomes op.Target.
func (r *Recorder) do(op Op, call func() (vdom.Handle, error)) (vdom.Handle, error) {
	r.mu.Lock()
	r.calls++
	injected := r.fail[op.Code]
	r.mu.Unlock()
	if injected != nil {
		return nil, injected
	}

	h, err := call()
	if err != nil {
		return nil, err
	}
	if h != nil {
		op.Target = h
	}
	r.mu.Lock()
	r.ops = append(r.ops, op)
	r.mu.Unlock()
	return h, nil
}

func (r *Recorder) exec(op Op, call func() error) error {
	_, err := r.do(op, func() (vdom.Handle, error) { return nil, call() })
	return err
}

func (r *Recorder) CreateElement(tag string) (vdom.Handle, error) {
	return r.do(Op{Code: vdom.OpCreateElement, Name: tag}, func() (vdom.Handle, error) {
		return r.host.CreateElement(tag)
	})
}

func (r *Recorder) CreateText(text string) (vdom.Handle, error) {
	return r.do(Op{Code: vdom.OpCreateText, Value: text}, func() (vdom.Handle, error) {
		return r.host.CreateText(text)
	})
}

func (r *Recorder) AppendChild(parent, child vdom.Handle) error {
	return r.exec(Op{Code: vdom.OpAppendChild, Target: parent, Child: child}, func() error {
		return r.host.AppendChild(parent, child)
	})
}

func (r *Recorder) InsertBefore(parent, child, ref vdom.Handle) error {
	return r.exec(Op{Code: vdom.OpInsertBefore, Target: parent, Child: child, Ref: ref}, func() error {
		return r.host.InsertBefore(parent, child, ref)
	})
}

func (r *Recorder) RemoveChild(parent, child vdom.Handle) error {
	return r.exec(Op{Code: vdom.OpRemoveChild, Target: parent, Child: child}, func() error {
		return r.host.RemoveChild(parent, child)
	})
}

func (r *Recorder) SetAttribute(h vdom.Handle, name, value string) error {
	return r.exec(Op{Code: vdom.OpSetAttribute, Target: h, Name: name, Value: value}, func() error {
		return r.host.SetAttribute(h, name, value)
	})
}

func (r *Recorder) RemoveAttribute(h vdom.Handle, name string) error {
	return r.exec(Op{Code: vdom.OpRemoveAttr, Target: h, Name: name}, func() error {
		return r.host.RemoveAttribute(h, name)
	})
}

func (r *Recorder) SetStyle(h vdom.Handle, name, value string) error {
	return r.exec(Op{Code: vdom.OpSetStyle, Target: h, Name: name, Value: value}, func() error {
		return r.host.SetStyle(h, name, value)
	})
}

func (r *Recorder) AddEventListener(h vdom.Handle, event string, l *vdom.Listener) error {
	return r.exec(Op{Code: vdom.OpAddListener, Target: h, Name: event}, func() error {
		return r.host.AddEventListener(h, event, l)
	})
}

func (r *Recorder) RemoveEventListener(h vdom.Handle, event string, l *vdom.Listener) error {
	return r.exec(Op{Code: vdom.OpRemoveListener, Target: h, Name: event}, func() error {
		return r.host.RemoveEventListener(h, event, l)
	})
}

func (r *Recorder) SetText(h vdom.Handle, text string) error {
	return r.exec(Op{Code: vdom.OpSetText, Target: h, Value: text}, func() error {
		return r.host.SetText(h, text)
	})
}

// NextSibling is a query and is not recorded.
func (r *Recorder) NextSibling(h vdom.Handle) vdom.Handle {
	return r.host.NextSibling(h)
}
