package vdom

// Handle is an opaque reference to a node owned by a Host. Handles must be
// comparable; pointer types are the usual choice.
type Handle any

// Host is the rendering target the engine mutates. Implementations own the
// real node tree; the engine only holds handles to it.
//
// Any error returned by a mutation aborts the current render and is
// reported to the caller wrapped in ErrHostFailure.
type Host interface {
	CreateElement(tag string) (Handle, error)
	CreateText(text string) (Handle, error)

	AppendChild(parent, child Handle) error
	// InsertBefore inserts child before ref. A child already attached
	// elsewhere is moved.
	InsertBefore(parent, child, ref Handle) error
	RemoveChild(parent, child Handle) error

	SetAttribute(h Handle, name, value string) error
	RemoveAttribute(h Handle, name string) error
	// SetStyle sets one style property; an empty value clears it.
	SetStyle(h Handle, name, value string) error

	AddEventListener(h Handle, event string, l *Listener) error
	RemoveEventListener(h Handle, event string, l *Listener) error

	SetText(h Handle, text string) error

	// NextSibling returns the node following h in its parent, or nil.
	NextSibling(h Handle) Handle
}

// OpCode identifies a Host mutation. Recorders and the wire protocol use it
// to describe what the engine did.
type OpCode uint8

const (
	OpCreateElement  OpCode = 0x01
	OpCreateText     OpCode = 0x02
	OpAppendChild    OpCode = 0x03
	OpInsertBefore   OpCode = 0x04
	OpRemoveChild    OpCode = 0x05
	OpSetAttribute   OpCode = 0x06
	OpRemoveAttr     OpCode = 0x07
	OpSetStyle       OpCode = 0x08
	OpAddListener    OpCode = 0x09
	OpRemoveListener OpCode = 0x0A
	OpSetText        OpCode = 0x0B
)

// String returns the string representation of the OpCode.
func (op OpCode) String() string {
	switch op {
	case OpCreateElement:
		return "CreateElement"
	case OpCreateText:
		return "CreateText"
	case OpAppendChild:
		return "AppendChild"
	case OpInsertBefore:
		return "InsertBefore"
	case OpRemoveChild:
		return "RemoveChild"
	case OpSetAttribute:
		return "SetAttribute"
	case OpRemoveAttr:
		return "RemoveAttribute"
	case OpSetStyle:
		return "SetStyle"
	case OpAddListener:
		return "AddEventListener"
	case OpRemoveListener:
		return "RemoveEventListener"
	case OpSetText:
		return "SetText"
	default:
		return "Unknown"
	}
}

// Valid reports whether op is a known opcode.
func (op OpCode) Valid() bool {
	return op >= OpCreateElement && op <= OpSetText
}
