// Package varint implements the two variable-length integer encodings
// used across the wire protocol: V32 (up to 5 bytes, full uint32 range)
// and V21 (up to 3 bytes, values in [0, 2^21-1]). Both use 7 data bits
// per byte with the MSB as a continuation flag, low byte first.
package varint

import "github.com/StoreStation/blockwright/pkg/protoerr"

// MaxV21 is the largest value V21 can encode (2^21 - 1).
const MaxV21 = 1<<21 - 1

// PutV32 encodes v into buf (which must have len >= 5) and returns the
// number of bytes written.
func PutV32(buf []byte, v uint32) int {
	n := 0
	for {
		if v&^uint32(0x7F) == 0 {
			buf[n] = byte(v)
			n++
			return n
		}
		buf[n] = byte(v&0x7F) | 0x80
		n++
		v >>= 7
	}
}

// SizeV32 returns the number of bytes PutV32 would write for v.
func SizeV32(v uint32) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}

// AppendV32 appends the V32 encoding of v to dst and returns the result.
func AppendV32(dst []byte, v uint32) []byte {
	var buf [5]byte
	n := PutV32(buf[:], v)
	return append(dst, buf[:n]...)
}

// ReadV32 decodes a V32 from buf, returning the value, the number of
// bytes consumed, and whether enough bytes were present. An overlong
// continuation run is also reported only as ok == false; ReadV32E
// reports it separately as protoerr.Malformed.
func ReadV32(buf []byte) (value uint32, n int, ok bool) {
	v, consumed, _, ok := readVarUint(buf, 5)
	return v, consumed, ok
}

// ReadV32E is ReadV32 but reports a malformed-overlong condition via err.
func ReadV32E(buf []byte) (value uint32, n int, err error) {
	v, consumed, overlong, ok := readVarUint(buf, 5)
	if overlong {
		return 0, consumed, protoerr.Malformed
	}
	if !ok {
		return 0, consumed, nil // need more data; n==0 signals that to callers
	}
	return v, consumed, nil
}

// PutV21 encodes v (which must fit in 21 bits) into buf and returns the
// number of bytes written (1..3).
func PutV21(buf []byte, v uint32) int {
	return PutV32(buf, v&MaxV21)
}

// SizeV21 returns the number of bytes PutV21 would write for v.
func SizeV21(v uint32) int {
	return SizeV32(v & MaxV21)
}

// ReadV21 decodes a V21 from buf. A fourth continuation byte (or a value
// exceeding MaxV21) is a protocol error per spec: V21 is capped at 3 bytes.
func ReadV21(buf []byte) (value uint32, n int, ok bool, err error) {
	v, consumed, _, gotOK := readVarUint(buf, 3)
	if !gotOK {
		if consumed >= 3 {
			return 0, consumed, false, protoerr.Malformed
		}
		return 0, consumed, false, nil
	}
	if v > MaxV21 {
		return 0, consumed, false, protoerr.Malformed
	}
	return v, consumed, true, nil
}

// readVarUint reads up to maxBytes 7-bit groups from buf. ok is true iff a
// terminating byte (MSB clear) was found within maxBytes. overlong is true
// iff the first maxBytes bytes all had the continuation bit set and buf
// holds a further byte.
func readVarUint(buf []byte, maxBytes int) (value uint32, n int, overlong bool, ok bool) {
	var result uint32
	for n = 0; n < len(buf); n++ {
		b := buf[n]
		if n >= maxBytes {
			return 0, n + 1, true, false
		}
		result |= uint32(b&0x7F) << (7 * uint(n))
		if b&0x80 == 0 {
			return result, n + 1, false, true
		}
	}
	return 0, n, false, false
}
