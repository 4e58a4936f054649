package nbt

import (
	"encoding/binary"
	"math"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/cockroachdb/errors"

	"github.com/StoreStation/blockwright/pkg/protoerr"
)

// EncodeNamed writes the binary form of a top-level tag as a single
// (tagType, name, payload) entry. It is the general entry point used by
// packet fields that carry a `tagType==10` prefix per spec.md §6.1.
func EncodeNamed(name string, t Tag) []byte {
	var buf []byte
	buf = append(buf, byte(t.Kind))
	buf = appendModUTF8String(buf, name)
	buf = appendPayload(buf, t)
	return buf
}

// Encode writes the binary payload of t with no enclosing name/tagType
// byte (used when the caller already knows the kind, e.g. a Compound
// nested inside a List).
func Encode(t Tag) []byte {
	return appendPayload(nil, t)
}

func appendModUTF8String(buf []byte, s string) []byte {
	encoded := encodeModUTF8(s)
	var lenBuf [2]byte
	binary.BigEndian.PutUint16(lenBuf[:], uint16(len(encoded)))
	buf = append(buf, lenBuf[:]...)
	return append(buf, encoded...)
}

func appendPayload(buf []byte, t Tag) []byte {
	switch t.Kind {
	case KindByte:
		return append(buf, byte(t.Byte))
	case KindShort:
		var b [2]byte
		binary.BigEndian.PutUint16(b[:], uint16(t.Short))
		return append(buf, b[:]...)
	case KindInt:
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], uint32(t.Int))
		return append(buf, b[:]...)
	case KindLong:
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], uint64(t.Long))
		return append(buf, b[:]...)
	case KindFloat:
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], math.Float32bits(t.Float))
		return append(buf, b[:]...)
	case KindDouble:
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], math.Float64bits(t.Double))
		return append(buf, b[:]...)
	case KindString:
		return appendModUTF8String(buf, t.Str)
	case KindByteArray:
		buf = appendInt32(buf, int32(len(t.ByteArray)))
		for _, v := range t.ByteArray {
			buf = append(buf, byte(v))
		}
		return buf
	case KindIntArray:
		buf = appendInt32(buf, int32(len(t.IntArray)))
		for _, v := range t.IntArray {
			buf = appendInt32(buf, v)
		}
		return buf
	case KindLongArray:
		buf = appendInt32(buf, int32(len(t.LongArray)))
		for _, v := range t.LongArray {
			var b [8]byte
			binary.BigEndian.PutUint64(b[:], uint64(v))
			buf = append(buf, b[:]...)
		}
		return buf
	case KindList:
		elemKind := t.ListKind
		if len(t.List) == 0 {
			elemKind = KindEnd
		}
		buf = append(buf, byte(elemKind))
		buf = appendInt32(buf, int32(len(t.List)))
		for _, elem := range t.List {
			buf = appendPayload(buf, elem)
		}
		return buf
	case KindCompound:
		for _, e := range t.Compound {
			buf = append(buf, byte(e.Tag.Kind))
			buf = appendModUTF8String(buf, e.Name)
			buf = appendPayload(buf, e.Tag)
		}
		return append(buf, byte(KindEnd))
	default:
		return buf
	}
}

func appendInt32(buf []byte, v int32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(v))
	return append(buf, b[:]...)
}

// decoder reads the binary form sequentially from an in-memory buffer.
type decoder struct {
	buf   []byte
	pos   int
	depth int
	max   int
}

// DefaultMaxDepth matches spec.md §4.3's default decoder depth cap.
const DefaultMaxDepth = 512

// DecodeNamed reads one (tagType, name, payload) entry from data and
// returns the name, tag, and bytes consumed.
func DecodeNamed(data []byte) (name string, t Tag, consumed int, err error) {
	return DecodeNamedDepth(data, DefaultMaxDepth)
}

// DecodeNamedDepth is DecodeNamed with an explicit depth cap.
func DecodeNamedDepth(data []byte, maxDepth int) (name string, t Tag, consumed int, err error) {
	d := &decoder{buf: data, max: maxDepth}
	kindByte, err := d.readByte()
	if err != nil {
		return "", Tag{}, d.pos, err
	}
	kind := Kind(kindByte)
	if kind == KindEnd {
		return "", Tag{Kind: KindEnd}, d.pos, nil
	}
	name, err = d.readModUTF8String()
	if err != nil {
		return "", Tag{}, d.pos, err
	}
	t, err = d.readPayload(kind)
	if err != nil {
		return "", Tag{}, d.pos, err
	}
	return name, t, d.pos, nil
}

// Decode reads a payload of the given kind with no enclosing name.
func Decode(data []byte, kind Kind) (t Tag, consumed int, err error) {
	d := &decoder{buf: data, max: DefaultMaxDepth}
	t, err = d.readPayload(kind)
	return t, d.pos, err
}

func (d *decoder) readByte() (byte, error) {
	if d.pos >= len(d.buf) {
		return 0, errors.Wrap(errTruncated, "nbt: read tag byte")
	}
	b := d.buf[d.pos]
	d.pos++
	return b, nil
}

func (d *decoder) readN(n int) ([]byte, error) {
	if d.pos+n > len(d.buf) || n < 0 {
		return nil, errors.Wrap(errTruncated, "nbt: read bytes")
	}
	out := d.buf[d.pos : d.pos+n]
	d.pos += n
	return out, nil
}

func (d *decoder) readInt16() (int16, error) {
	b, err := d.readN(2)
	if err != nil {
		return 0, err
	}
	return int16(binary.BigEndian.Uint16(b)), nil
}

func (d *decoder) readInt32() (int32, error) {
	b, err := d.readN(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(b)), nil
}

func (d *decoder) readInt64() (int64, error) {
	b, err := d.readN(8)
	if err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(b)), nil
}

func (d *decoder) readModUTF8String() (string, error) {
	l, err := d.readInt16()
	if err != nil {
		return "", err
	}
	if l < 0 {
		return "", errors.Wrap(errTruncated, "nbt: negative string length")
	}
	b, err := d.readN(int(l))
	if err != nil {
		return "", err
	}
	return decodeModUTF8(b), nil
}

func (d *decoder) readPayload(kind Kind) (Tag, error) {
	switch kind {
	case KindByte:
		b, err := d.readByte()
		return Byte(int8(b)), err
	case KindShort:
		v, err := d.readInt16()
		return Short(v), err
	case KindInt:
		v, err := d.readInt32()
		return Int(v), err
	case KindLong:
		v, err := d.readInt64()
		return Long(v), err
	case KindFloat:
		v, err := d.readInt32()
		if err != nil {
			return Tag{}, err
		}
		return Float(math.Float32frombits(uint32(v))), nil
	case KindDouble:
		v, err := d.readInt64()
		if err != nil {
			return Tag{}, err
		}
		return Double(math.Float64frombits(uint64(v))), nil
	case KindString:
		s, err := d.readModUTF8String()
		return String(s), err
	case KindByteArray:
		n, err := d.readInt32()
		if err != nil {
			return Tag{}, err
		}
		if n < 0 {
			return Tag{}, errors.Wrap(errTruncated, "nbt: negative byte array length")
		}
		raw, err := d.readN(int(n))
		if err != nil {
			return Tag{}, err
		}
		arr := make([]int8, len(raw))
		for i, b := range raw {
			arr[i] = int8(b)
		}
		return ByteArray(arr), nil
	case KindIntArray:
		n, err := d.readInt32()
		if err != nil {
			return Tag{}, err
		}
		if n < 0 {
			return Tag{}, errors.Wrap(errTruncated, "nbt: negative int array length")
		}
		arr := make([]int32, n)
		for i := range arr {
			arr[i], err = d.readInt32()
			if err != nil {
				return Tag{}, err
			}
		}
		return IntArray(arr), nil
	case KindLongArray:
		n, err := d.readInt32()
		if err != nil {
			return Tag{}, err
		}
		if n < 0 {
			return Tag{}, errors.Wrap(errTruncated, "nbt: negative long array length")
		}
		arr := make([]int64, n)
		for i := range arr {
			arr[i], err = d.readInt64()
			if err != nil {
				return Tag{}, err
			}
		}
		return LongArray(arr), nil
	case KindList:
		d.depth++
		if d.depth > d.max {
			return Tag{}, errDepth
		}
		defer func() { d.depth-- }()

		elemKindB, err := d.readByte()
		if err != nil {
			return Tag{}, err
		}
		elemKind := Kind(elemKindB)
		n, err := d.readInt32()
		if err != nil {
			return Tag{}, err
		}
		if n < 0 {
			return Tag{}, errors.Wrap(errTruncated, "nbt: negative list length")
		}
		if n == 0 {
			return Tag{Kind: KindList, ListKind: KindEnd}, nil
		}
		elems := make([]Tag, n)
		for i := range elems {
			elems[i], err = d.readPayload(elemKind)
			if err != nil {
				return Tag{}, err
			}
		}
		return Tag{Kind: KindList, ListKind: elemKind, List: elems}, nil
	case KindCompound:
		d.depth++
		if d.depth > d.max {
			return Tag{}, errDepth
		}
		defer func() { d.depth-- }()

		var entries []Entry
		for {
			kindB, err := d.readByte()
			if err != nil {
				return Tag{}, err
			}
			if Kind(kindB) == KindEnd {
				break
			}
			name, err := d.readModUTF8String()
			if err != nil {
				return Tag{}, err
			}
			val, err := d.readPayload(Kind(kindB))
			if err != nil {
				return Tag{}, err
			}
			entries = append(entries, Entry{Name: name, Tag: val})
		}
		return Tag{Kind: KindCompound, Compound: entries}, nil
	default:
		return Tag{}, errors.Wrapf(errMalformedKind, "nbt: unknown tag kind %d", kind)
	}
}

// encodeModUTF8 encodes s as Java's modified UTF-8 when s contains
// codepoints outside strict ASCII-safe UTF-8 (NUL, or anything requiring
// a surrogate pair); otherwise it ships the strict UTF-8 bytes verbatim.
func encodeModUTF8(s string) []byte {
	needsModified := false
	for _, r := range s {
		if r == 0 || r > 0xFFFF {
			needsModified = true
			break
		}
	}
	if !needsModified {
		return []byte(s)
	}
	var out []byte
	for _, r := range s {
		switch {
		case r == 0:
			out = append(out, 0xC0, 0x80)
		case r <= 0xFFFF:
			out = appendUTF8Codepoint(out, rune(r))
		default:
			hi, lo := utf16.EncodeRune(r)
			out = appendUTF8Codepoint(out, hi)
			out = appendUTF8Codepoint(out, lo)
		}
	}
	return out
}

func appendUTF8Codepoint(out []byte, r rune) []byte {
	var tmp [4]byte
	n := utf8.EncodeRune(tmp[:], r)
	return append(out, tmp[:n]...)
}

// decodeModUTF8 accepts both strict UTF-8 and Java's modified UTF-8
// (overlong NUL, unpaired/paired surrogate encoding of codepoints > 0xFFFF).
func decodeModUTF8(b []byte) string {
	var out []rune
	i := 0
	for i < len(b) {
		c := b[i]
		switch {
		case c&0x80 == 0:
			out = append(out, rune(c))
			i++
		case c&0xE0 == 0xC0 && i+1 < len(b):
			r := (rune(c&0x1F) << 6) | rune(b[i+1]&0x3F)
			out = append(out, r)
			i += 2
		case c&0xF0 == 0xE0 && i+2 < len(b):
			r := (rune(c&0x0F) << 12) | (rune(b[i+1]&0x3F) << 6) | rune(b[i+2]&0x3F)
			out = append(out, r)
			i += 3
		case c&0xF8 == 0xF0 && i+3 < len(b):
			r := (rune(c&0x07) << 18) | (rune(b[i+1]&0x3F) << 12) | (rune(b[i+2]&0x3F) << 6) | rune(b[i+3]&0x3F)
			out = append(out, r)
			i += 4
		default:
			out = append(out, rune(c))
			i++
		}
	}
	return string(mergeSurrogates(out))
}

func mergeSurrogates(rs []rune) []rune {
	out := make([]rune, 0, len(rs))
	for i := 0; i < len(rs); i++ {
		if utf16.IsSurrogate(rs[i]) && i+1 < len(rs) {
			merged := utf16.DecodeRune(rs[i], rs[i+1])
			if merged != utf8.RuneError {
				out = append(out, merged)
				i++
				continue
			}
		}
		out = append(out, rs[i])
	}
	return out
}

var (
	errTruncated     = protoerr.Malformed
	errDepth         = protoerr.DepthExceeded
	errMalformedKind = protoerr.Malformed
)
