// Package protocol implements the 1.20.x wire primitives layered over
// pkg/varint: identifier strings, length-prefixed UTF-8 strings, the
// packed block-position and chunk-section-position encodings, UUIDs,
// and ItemStack framing (spec.md §6.1).
//
// Grounded on the teacher's pkg/protocol (fixed-width big-endian reads
// over io.Reader, plus a hand-rolled VarInt pair) generalized from the
// 1.8 wire shapes that package originally carried into the 1.20.x ones
// spec.md §6.1 describes. VarInt/VarLong encode/decode is delegated to
// pkg/varint rather than duplicated; everything here is append-to-slice
// to match pkg/varint/pkg/frame's style instead of the teacher's
// io.Writer-based one.
package protocol

import (
	"encoding/binary"
	"math"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/StoreStation/blockwright/pkg/protoerr"
	"github.com/StoreStation/blockwright/pkg/varint"
)

// MaxStringBytes bounds the UTF-8 byte length of any wire string. A
// byte cap (rather than vanilla's 32767-character cap) is what actually
// protects ReadString from a tiny VarInt claiming a huge buffer.
const MaxStringBytes = 32767 * 3

// WriteVarInt appends v's VarInt encoding to dst.
func WriteVarInt(dst []byte, v int32) []byte { return varint.AppendV32(dst, uint32(v)) }

// ReadVarInt decodes one VarInt from buf.
func ReadVarInt(buf []byte) (v int32, n int, ok bool) {
	u, n, ok := varint.ReadV32(buf)
	return int32(u), n, ok
}

// VarIntSize returns the number of bytes WriteVarInt would emit for v.
func VarIntSize(v int32) int { return varint.SizeV32(uint32(v)) }

// WriteVarLong appends v's VarInt-style encoding (up to 10 bytes) to dst.
func WriteVarLong(dst []byte, v int64) []byte {
	u := uint64(v)
	for {
		if u&^uint64(0x7F) == 0 {
			return append(dst, byte(u))
		}
		dst = append(dst, byte(u&0x7F)|0x80)
		u >>= 7
	}
}

// ReadVarLong decodes one VarLong (at most 10 bytes) from buf.
func ReadVarLong(buf []byte) (v int64, n int, err error) {
	var result uint64
	for n = 0; n < len(buf); n++ {
		b := buf[n]
		if n >= 10 {
			return 0, 0, errors.Wrap(protoerr.Malformed, "protocol: overlong varlong")
		}
		result |= uint64(b&0x7F) << (7 * uint(n))
		if b&0x80 == 0 {
			return int64(result), n + 1, nil
		}
	}
	return 0, 0, nil // need more data; n==0 signals that
}

// WriteString appends s as a VarInt-length-prefixed UTF-8 string.
func WriteString(dst []byte, s string) []byte {
	dst = WriteVarInt(dst, int32(len(s)))
	return append(dst, s...)
}

// ReadString decodes one VarInt-length-prefixed UTF-8 string from buf.
func ReadString(buf []byte) (string, int, error) {
	l, n, ok := ReadVarInt(buf)
	if !ok {
		return "", 0, errors.Wrap(protoerr.Malformed, "protocol: truncated string length")
	}
	if l < 0 || int(l) > MaxStringBytes {
		return "", 0, errors.Wrap(protoerr.Malformed, "protocol: string length out of range")
	}
	if len(buf)-n < int(l) {
		return "", 0, errors.Wrap(protoerr.Malformed, "protocol: truncated string body")
	}
	return string(buf[n : n+int(l)]), n + int(l), nil
}

// WriteBool appends a one-byte boolean.
func WriteBool(dst []byte, v bool) []byte {
	if v {
		return append(dst, 1)
	}
	return append(dst, 0)
}

// ReadBool decodes a one-byte boolean.
func ReadBool(buf []byte) (bool, int, error) {
	if len(buf) < 1 {
		return false, 0, errors.Wrap(protoerr.Malformed, "protocol: truncated bool")
	}
	return buf[0] != 0, 1, nil
}

// WriteUint16 appends v big-endian.
func WriteUint16(dst []byte, v uint16) []byte {
	return append(dst, byte(v>>8), byte(v))
}

// ReadUint16 decodes a big-endian uint16.
func ReadUint16(buf []byte) (uint16, int, error) {
	if len(buf) < 2 {
		return 0, 0, errors.Wrap(protoerr.Malformed, "protocol: truncated uint16")
	}
	return binary.BigEndian.Uint16(buf), 2, nil
}

// WriteInt64 appends v big-endian.
func WriteInt64(dst []byte, v int64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(v))
	return append(dst, b[:]...)
}

// ReadInt64 decodes a big-endian int64.
func ReadInt64(buf []byte) (int64, int, error) {
	if len(buf) < 8 {
		return 0, 0, errors.Wrap(protoerr.Malformed, "protocol: truncated int64")
	}
	return int64(binary.BigEndian.Uint64(buf)), 8, nil
}

// WriteFloat64 appends v big-endian.
func WriteFloat64(dst []byte, v float64) []byte {
	return WriteInt64(dst, int64(math.Float64bits(v)))
}

// ReadFloat64 decodes a big-endian float64.
func ReadFloat64(buf []byte) (float64, int, error) {
	v, n, err := ReadInt64(buf)
	return math.Float64frombits(uint64(v)), n, err
}

// WriteFloat32 appends v big-endian.
func WriteFloat32(dst []byte, v float32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], math.Float32bits(v))
	return append(dst, b[:]...)
}

// ReadFloat32 decodes a big-endian float32.
func ReadFloat32(buf []byte) (float32, int, error) {
	if len(buf) < 4 {
		return 0, 0, errors.Wrap(protoerr.Malformed, "protocol: truncated float32")
	}
	return math.Float32frombits(binary.BigEndian.Uint32(buf)), 4, nil
}

// WriteUUID appends id as its 16 raw bytes.
func WriteUUID(dst []byte, id uuid.UUID) []byte {
	return append(dst, id[:]...)
}

// ReadUUID decodes 16 raw bytes into a UUID.
func ReadUUID(buf []byte) (uuid.UUID, int, error) {
	if len(buf) < 16 {
		return uuid.UUID{}, 0, errors.Wrap(protoerr.Malformed, "protocol: truncated uuid")
	}
	var id uuid.UUID
	copy(id[:], buf[:16])
	return id, 16, nil
}

// Identifier is a namespaced resource name ("minecraft:stone").
type Identifier struct {
	Namespace string
	Path      string
}

// ParseIdentifier splits s on its first ':'; an absent namespace
// defaults to "minecraft", matching vanilla's identifier parsing.
func ParseIdentifier(s string) Identifier {
	if ns, path, ok := strings.Cut(s, ":"); ok {
		return Identifier{Namespace: ns, Path: path}
	}
	return Identifier{Namespace: "minecraft", Path: s}
}

// String renders the identifier back to "namespace:path" form.
func (id Identifier) String() string { return id.Namespace + ":" + id.Path }

// EncodeBlockPos packs absolute block coordinates into the 26/26/12-bit
// wire format (x, z, y from high to low bits), per spec.md §6.1.
func EncodeBlockPos(x, y, z int32) int64 {
	return (int64(x)&0x3FFFFFF)<<38 | (int64(z)&0x3FFFFFF)<<12 | (int64(y) & 0xFFF)
}

// DecodeBlockPos unpacks a value written by EncodeBlockPos, sign-extending
// each field from its declared bit width.
func DecodeBlockPos(v int64) (x, y, z int32) {
	x = int32(v >> 38)
	z = int32(v << 26 >> 38)
	y = int32(v << 52 >> 52)
	return
}

// EncodeSectionPos packs chunk-section coordinates into the 22/22/20-bit
// wire format (x, z, y from high to low bits).
func EncodeSectionPos(x, y, z int32) int64 {
	return (int64(x)&0x3FFFFF)<<42 | (int64(z)&0x3FFFFF)<<20 | (int64(y) & 0xFFFFF)
}

// DecodeSectionPos unpacks a value written by EncodeSectionPos.
func DecodeSectionPos(v int64) (x, y, z int32) {
	x = int32(v >> 42)
	z = int32(v << 22 >> 42)
	y = int32(v << 44 >> 44)
	return
}
