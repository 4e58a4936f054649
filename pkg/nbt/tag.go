// Package nbt implements Minecraft's Named Binary Tag format: a tagged
// Compound/List/Tag tree with a binary wire encoding and a stringified
// textual form (SNBT). Grounded on the teacher's wire-primitive style
// (pkg/protocol/types.go: big-endian fixed-width reads over io.Reader)
// and on oriumgames-pile's encode.go for the shape of a recursive tagged
// binary encoder over a byte-string tree.
package nbt

import "fmt"

// Kind identifies a Tag's payload type, matching the wire tagType byte.
type Kind byte

const (
	KindEnd Kind = iota
	KindByte
	KindShort
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindByteArray
	KindString
	KindList
	KindCompound
	KindIntArray
	KindLongArray
)

func (k Kind) String() string {
	switch k {
	case KindEnd:
		return "End"
	case KindByte:
		return "Byte"
	case KindShort:
		return "Short"
	case KindInt:
		return "Int"
	case KindLong:
		return "Long"
	case KindFloat:
		return "Float"
	case KindDouble:
		return "Double"
	case KindByteArray:
		return "ByteArray"
	case KindString:
		return "String"
	case KindList:
		return "List"
	case KindCompound:
		return "Compound"
	case KindIntArray:
		return "IntArray"
	case KindLongArray:
		return "LongArray"
	default:
		return fmt.Sprintf("Kind(%d)", byte(k))
	}
}

// Tag is the sum type at the heart of the NBT tree. Exactly one of the
// typed fields is meaningful, selected by Kind.
type Tag struct {
	Kind Kind

	Byte   int8
	Short  int16
	Int    int32
	Long   int64
	Float  float32
	Double float64

	Str string

	ByteArray []int8
	IntArray  []int32
	LongArray []int64

	// List holds a uniform-kind sequence; ListKind is KindEnd for the
	// dedicated empty-list representation.
	List     []Tag
	ListKind Kind

	// Compound is an ordered sequence of (name, Tag) pairs; order is
	// significant for serialization, duplicates are permitted.
	Compound []Entry
}

// Entry is one named member of a Compound.
type Entry struct {
	Name string
	Tag  Tag
}

// Constructors for the scalar and container kinds, mirroring the
// teacher's plain-struct-literal style.

func Byte(v int8) Tag      { return Tag{Kind: KindByte, Byte: v} }
func Short(v int16) Tag     { return Tag{Kind: KindShort, Short: v} }
func Int(v int32) Tag       { return Tag{Kind: KindInt, Int: v} }
func Long(v int64) Tag      { return Tag{Kind: KindLong, Long: v} }
func Float(v float32) Tag   { return Tag{Kind: KindFloat, Float: v} }
func Double(v float64) Tag  { return Tag{Kind: KindDouble, Double: v} }
func String(v string) Tag   { return Tag{Kind: KindString, Str: v} }
func ByteArray(v []int8) Tag { return Tag{Kind: KindByteArray, ByteArray: v} }
func IntArray(v []int32) Tag { return Tag{Kind: KindIntArray, IntArray: v} }
func LongArray(v []int64) Tag { return Tag{Kind: KindLongArray, LongArray: v} }

func Bool(v bool) Tag {
	if v {
		return Byte(1)
	}
	return Byte(0)
}

// NewList builds a List tag. elemKind must be KindEnd when elems is empty.
func NewList(elemKind Kind, elems []Tag) Tag {
	if len(elems) == 0 {
		return Tag{Kind: KindList, ListKind: KindEnd}
	}
	return Tag{Kind: KindList, ListKind: elemKind, List: elems}
}

// NewCompound builds a Compound tag from ordered entries.
func NewCompound(entries ...Entry) Tag {
	return Tag{Kind: KindCompound, Compound: entries}
}

// Get returns the first entry in a Compound with the given name.
func (t Tag) Get(name string) (Tag, bool) {
	for _, e := range t.Compound {
		if e.Name == name {
			return e.Tag, true
		}
	}
	return Tag{}, false
}

// With returns a copy of the Compound with a (name, value) entry appended.
// An existing entry of the same name is not replaced, so Get keeps
// returning the earlier one (duplicates are permitted but discouraged by
// the data model).
func (t Tag) With(name string, value Tag) Tag {
	out := Tag{Kind: KindCompound, Compound: append([]Entry(nil), t.Compound...)}
	out.Compound = append(out.Compound, Entry{Name: name, Tag: value})
	return out
}

// Equal performs a deep structural comparison of two tags, used by the
// round-trip tests (binary_decode(binary_encode(t)) == t, etc).
func Equal(a, b Tag) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindByte:
		return a.Byte == b.Byte
	case KindShort:
		return a.Short == b.Short
	case KindInt:
		return a.Int == b.Int
	case KindLong:
		return a.Long == b.Long
	case KindFloat:
		return a.Float == b.Float
	case KindDouble:
		return a.Double == b.Double
	case KindString:
		return a.Str == b.Str
	case KindByteArray:
		return equalSlice(a.ByteArray, b.ByteArray)
	case KindIntArray:
		return equalSlice(a.IntArray, b.IntArray)
	case KindLongArray:
		return equalSlice(a.LongArray, b.LongArray)
	case KindList:
		if a.ListKind != b.ListKind || len(a.List) != len(b.List) {
			return false
		}
		for i := range a.List {
			if !Equal(a.List[i], b.List[i]) {
				return false
			}
		}
		return true
	case KindCompound:
		if len(a.Compound) != len(b.Compound) {
			return false
		}
		for i := range a.Compound {
			if a.Compound[i].Name != b.Compound[i].Name || !Equal(a.Compound[i].Tag, b.Compound[i].Tag) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

func equalSlice[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
