// Package protocol implements the binary encoding of host operation batches.
//
// A reconciler's host mutations are streamed to remote replicas as batches
// of operations. Host handles cannot cross the wire, so every node is named
// by a numeric ID assigned when it is created.
//
// # Wire Format
//
// All messages are framed with a 4-byte header:
//
//	┌─────────────┬───────────────────────────────────────────┐
//	│ Frame Type  │ Payload Length                            │
//	│ (1 byte)    │ (3 bytes, big-endian)                     │
//	└─────────────┴───────────────────────────────────────────┘
//
// # Frame Types
//
//   - FrameOps (0x01): one render's operations, applied in order
//   - FrameSnapshot (0x02): operations rebuilding the whole tree; the
//     receiver discards its tree first
//   - FrameError (0x03): a UTF-8 error message
//
// # Batch Encoding
//
// An ops or snapshot payload is a varint sequence number, a varint root ID,
// a varint op count, and then each op: the opcode byte followed by the
// fields that opcode uses, in the order Node, Parent, Ref, Name, Value.
// IDs are varints and strings are varint length-prefixed.
package protocol
