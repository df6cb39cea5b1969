package instrument

import "github.com/vango-dev/reconcile/pkg/vdom"

// Host wraps h so that every successful mutation is counted in m.
func Host(h vdom.Host, m *Metrics) vdom.Host {
	return &countingHost{host: h, m: m}
}

type countingHost struct {
	host vdom.Host
	m    *Metrics
}

func (c *countingHost) count(op vdom.OpCode, err error) error {
	if err == nil {
		c.m.ObserveHostOp(op)
	}
	return err
}

func (c *countingHost) CreateElement(tag string) (vdom.Handle, error) {
	h, err := c.host.CreateElement(tag)
	return h, c.count(vdom.OpCreateElement, err)
}

func (c *countingHost) CreateText(text string) (vdom.Handle, error) {
	h, err := c.host.CreateText(text)
	return h, c.count(vdom.OpCreateText, err)
}

func (c *countingHost) AppendChild(parent, child vdom.Handle) error {
	return c.count(vdom.OpAppendChild, c.host.AppendChild(parent, child))
}

func (c *countingHost) InsertBefore(parent, child, ref vdom.Handle) error {
	return c.count(vdom.OpInsertBefore, c.host.InsertBefore(parent, child, ref))
}

func (c *countingHost) RemoveChild(parent, child vdom.Handle) error {
	return c.count(vdom.OpRemoveChild, c.host.RemoveChild(parent, child))
}

func (c *countingHost) SetAttribute(h vdom.Handle, name, value string) error {
	return c.count(vdom.OpSetAttribute, c.host.SetAttribute(h, name, value))
}

func (c *countingHost) RemoveAttribute(h vdom.Handle, name string) error {
	return c.count(vdom.OpRemoveAttr, c.host.RemoveAttribute(h, name))
}

func (c *countingHost) SetStyle(h vdom.Handle, name, value string) error {
	return c.count(vdom.OpSetStyle, c.host.SetStyle(h, name, value))
}

func (c *countingHost) AddEventListener(h vdom.Handle, event string, l *vdom.Listener) error {
	return c.count(vdom.OpAddListener, c.host.AddEventListener(h, event, l))
}

func (c *countingHost) RemoveEventListener(h vdom.Handle, event string, l *vdom.Listener) error {
	return c.count(vdom.OpRemoveListener, c.host.RemoveEventListener(h, event, l))
}

func (c *countingHost) SetText(h vdom.Handle, text string) error {
	return c.count(vdom.OpSetText, c.host.SetText(h, text))
}

func (c *countingHost) NextSibling(h vdom.Handle) vdom.Handle {
	return c.host.NextSibling(h)
}
