// Package mirror replicates a host document to remote viewers.
//
// A Mirror is a vdom.Host that applies every mutation to a local
// dom.Document and records it as a protocol.Op naming nodes by numeric ID.
// Flush ships the recorded ops as one FrameOps batch to every connected
// client through a Hub. New clients first receive a FrameSnapshot that
// rebuilds the current tree, then the live batches.
//
// A Replica is the receiving end: it applies frames to its own document, so
// its HTML always matches the primary after each batch.
package mirror
