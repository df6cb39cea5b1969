package vdom

import "strings"

// Event is delivered to listeners by the host.
type Event struct {
	Type   string // "click", "input", ...
	Target Handle // Host node the event fired on
	Detail any    // Host-specific payload
}

// Listener wraps an event callback so that it has a stable identity.
// The engine compares listeners by pointer: a new Listener is detached and
// reattached even when it wraps the same function.
type Listener struct {
	fn func(Event)
}

// NewListener wraps fn.
func NewListener(fn func(Event)) *Listener {
	return &Listener{fn: fn}
}

// Handle invokes the callback. A nil Listener is a no-op.
func (l *Listener) Handle(e Event) {
	if l == nil || l.fn == nil {
		return
	}
	l.fn(e)
}

// toListener converts an event prop value into a Listener.
// Accepted: *Listener, func(), func(Event). Anything else is absent.
func toListener(v any) *Listener {
	switch fn := v.(type) {
	case *Listener:
		return fn
	case func(Event):
		if fn == nil {
			return nil
		}
		return NewListener(fn)
	case func():
		if fn == nil {
			return nil
		}
		return NewListener(func(Event) { fn() })
	default:
		return nil
	}
}

// EventHandler represents an event handler prop.
type EventHandler struct {
	Event   string // "onclick", "oninput", etc.
	Handler any    // *Listener, func() or func(Event)
}

// eventPrefix marks props that are event listeners.
const eventPrefix = "on"

// isEventProp returns true if the key is an event handler (starts with "on").
// Case-insensitive to catch onclick, onClick and ONCLICK alike.
func isEventProp(key string) bool {
	return len(key) > len(eventPrefix) && strings.EqualFold(key[:len(eventPrefix)], eventPrefix)
}

// eventName derives the host event name from a prop key: "onClick" -> "click".
func eventName(key string) string {
	return strings.ToLower(key[len(eventPrefix):])
}

// event creates an EventHandler with the given name and handler.
// The name is prefixed with "on" (e.g., "click" becomes "onclick").
func event(name string, handler any) EventHandler {
	return EventHandler{Event: eventPrefix + name, Handler: handler}
}

// On handles an arbitrary event type.
func On(name string, handler any) EventHandler { return event(name, handler) }

// OnClick handles click events.
func OnClick(handler any) EventHandler { return event("click", handler) }

// OnDblClick handles double-click events.
func OnDblClick(handler any) EventHandler { return event("dblclick", handler) }

// OnInput handles input events (fired when value changes).
func OnInput(handler any) EventHandler { return event("input", handler) }

// OnChange handles change events (fired when value is committed).
func OnChange(handler any) EventHandler { return event("change", handler) }

// OnSubmit handles form submit events.
func OnSubmit(handler any) EventHandler { return event("submit", handler) }

// OnKeyDown handles keydown events.
func OnKeyDown(handler any) EventHandler { return event("keydown", handler) }

// OnKeyUp handles keyup events.
func OnKeyUp(handler any) EventHandler { return event("keyup", handler) }

// OnFocus handles focus events.
func OnFocus(handler any) EventHandler { return event("focus", handler) }

// OnBlur handles blur events.
func OnBlur(handler any) EventHandler { return event("blur", handler) }

// OnMouseEnter handles mouseenter events.
func OnMouseEnter(handler any) EventHandler { return event("mouseenter", handler) }

// OnMouseLeave handles mouseleave events.
func OnMouseLeave(handler any) EventHandler { return event("mouseleave", handler) }
