package protocol

import (
	"errors"
	"fmt"

	"github.com/vango-dev/reconcile/pkg/vdom"
)

// ErrUnknownOp is returned when a batch contains an invalid opcode.
var ErrUnknownOp = errors.New("protocol: unknown op")

// Op is one host mutation with nodes named by ID. ID 0 means "none" and is
// only meaningful for Ref (append).
type Op struct {
	Code   vdom.OpCode
	Node   uint32 // Created or mutated node; the child for structural ops
	Parent uint32 // Parent for AppendChild, InsertBefore and RemoveChild
	Ref    uint32 // Insert-before reference, 0 to append
	Name   string // Tag, attribute, style property or event name
	Value  string // Text, attribute or style value
}

// String returns a readable form for logs and test failures.
func (op Op) String() string {
	switch op.Code {
	case vdom.OpCreateElement:
		return fmt.Sprintf("%s #%d <%s>", op.Code, op.Node, op.Name)
	case vdom.OpCreateText, vdom.OpSetText:
		return fmt.Sprintf("%s #%d %q", op.Code, op.Node, op.Value)
	case vdom.OpAppendChild, vdom.OpRemoveChild:
		return fmt.Sprintf("%s #%d -> #%d", op.Code, op.Node, op.Parent)
	case vdom.OpInsertBefore:
		return fmt.Sprintf("%s #%d -> #%d before #%d", op.Code, op.Node, op.Parent, op.Ref)
	case vdom.OpSetAttribute, vdom.OpSetStyle:
		return fmt.Sprintf("%s #%d %s=%q", op.Code, op.Node, op.Name, op.Value)
	default:
		return fmt.Sprintf("%s #%d %s", op.Code, op.Node, op.Name)
	}
}

// Batch is the payload of an ops or snapshot frame.
type Batch struct {
	Seq  uint64 // Increases by one per batch from the same source
	Root uint32 // ID of the container root node
	Ops  []Op
}

// field bits describe which Op fields an opcode carries on the wire.
const (
	fNode = 1 << iota
	fParent
	fRef
	fName
	fValue
)

var opFields = map[vdom.OpCode]uint8{
	vdom.OpCreateElement:  fNode | fName,
	vdom.OpCreateText:     fNode | fValue,
	vdom.OpAppendChild:    fNode | fParent,
	vdom.OpInsertBefore:   fNode | fParent | fRef,
	vdom.OpRemoveChild:    fNode | fParent,
	vdom.OpSetAttribute:   fNode | fName | fValue,
	vdom.OpRemoveAttr:     fNode | fName,
	vdom.OpSetStyle:       fNode | fName | fValue,
	vdom.OpAddListener:    fNode | fName,
	vdom.OpRemoveListener: fNode | fName,
	vdom.OpSetText:        fNode | fValue,
}

// EncodeOp appends one op to e.
func EncodeOp(e *Encoder, op Op) error {
	fields, ok := opFields[op.Code]
	if !ok {
		return fmt.Errorf("%w: 0x%02x", ErrUnknownOp, byte(op.Code))
	}
	e.WriteU8(byte(op.Code))
	if fields&fNode != 0 {
		e.WriteUvarint(uint64(op.Node))
	}
	if fields&fParent != 0 {
		e.WriteUvarint(uint64(op.Parent))
	}
	if fields&fRef != 0 {
		e.WriteUvarint(uint64(op.Ref))
	}
	if fields&fName != 0 {
		e.WriteString(op.Name)
	}
	if fields&fValue != 0 {
		e.WriteString(op.Value)
	}
	return nil
}

// DecodeOp reads one op from d.
func DecodeOp(d *Decoder) (Op, error) {
	b, err := d.ReadByte()
	if err != nil {
		return Op{}, err
	}
	op := Op{Code: vdom.OpCode(b)}
	fields, ok := opFields[op.Code]
	if !ok {
		return Op{}, fmt.Errorf("%w: 0x%02x", ErrUnknownOp, b)
	}

	readID := func() (uint32, error) {
		v, err := d.ReadUvarint()
		if err != nil {
			return 0, err
		}
		if v > 1<<32-1 {
			return 0, ErrVarintOverflow
		}
		return uint32(v), nil
	}
	if fields&fNode != 0 {
		if op.Node, err = readID(); err != nil {
			return Op{}, err
		}
	}
	if fields&fParent != 0 {
		if op.Parent, err = readID(); err != nil {
			return Op{}, err
		}
	}
	if fields&fRef != 0 {
		if op.Ref, err = readID(); err != nil {
			return Op{}, err
		}
	}
	if fields&fName != 0 {
		if op.Name, err = d.ReadString(); err != nil {
			return Op{}, err
		}
	}
	if fields&fValue != 0 {
		if op.Value, err = d.ReadString(); err != nil {
			return Op{}, err
		}
	}
	return op, nil
}

// EncodeBatch encodes b as a frame payload.
func EncodeBatch(b *Batch) ([]byte, error) {
	e := NewEncoder()
	e.WriteUvarint(b.Seq)
	e.WriteUvarint(uint64(b.Root))
	e.WriteUvarint(uint64(len(b.Ops)))
	for _, op := range b.Ops {
		if err := EncodeOp(e, op); err != nil {
			return nil, err
		}
	}
	return e.Bytes(), nil
}

// DecodeBatch decodes a frame payload produced by EncodeBatch.
func DecodeBatch(payload []byte) (*Batch, error) {
	d := NewDecoder(payload)
	seq, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	root, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	if root > 1<<32-1 {
		return nil, ErrVarintOverflow
	}
	count, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	// Every op takes at least two bytes.
	if count > MaxBatchOps || count > uint64(d.Remaining()) {
		return nil, ErrCollectionTooLarge
	}

	b := &Batch{Seq: seq, Root: uint32(root), Ops: make([]Op, 0, count)}
	for i := uint64(0); i < count; i++ {
		op, err := DecodeOp(d)
		if err != nil {
			return nil, fmt.Errorf("op %d: %w", i, err)
		}
		b.Ops = append(b.Ops, op)
	}
	return b, nil
}

// EncodeOps builds a frame of type ft (FrameOps or FrameSnapshot) for b.
func EncodeOps(ft FrameType, b *Batch) (*Frame, error) {
	payload, err := EncodeBatch(b)
	if err != nil {
		return nil, err
	}
	if len(payload) > MaxPayloadSize {
		return nil, ErrFrameTooLarge
	}
	return NewFrame(ft, payload), nil
}

// DecodeOps decodes the batch carried by an ops or snapshot frame.
func DecodeOps(f *Frame) (*Batch, error) {
	if f.Type != FrameOps && f.Type != FrameSnapshot {
		return nil, fmt.Errorf("%w: %s carries no ops", ErrInvalidFrameType, f.Type)
	}
	return DecodeBatch(f.Payload)
}
