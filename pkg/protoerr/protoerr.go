// Package protoerr defines the sentinel error kinds shared by the wire
// protocol packages (frame, registry, nbt). Callers wrap these with
// cockroachdb/errors for context; errors.Is still matches the sentinel.
package protoerr

import "github.com/cockroachdb/errors"

// Malformed indicates a protocol byte sequence violated framing: a bad
// VarInt, an overlong encoding, a length beyond the protocol cap, an
// unknown enum id, or a truncated payload.
var Malformed = errors.New("protoerr: malformed data")

// DepthExceeded indicates an NBT decode hit the configured depth cap.
var DepthExceeded = errors.New("protoerr: depth exceeded")

// Closed indicates a connection endpoint observed DISCONNECTED.
var Closed = errors.New("protoerr: closed")

// OutOfRange indicates a generated registry id lookup received an id
// greater than the set's MAX.
var OutOfRange = errors.New("protoerr: out of range")
