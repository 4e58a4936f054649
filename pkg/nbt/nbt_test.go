package nbt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBinaryRoundTrip(t *testing.T) {
	tree := NewCompound(
		Entry{Name: "name", Tag: String("x")},
		Entry{Name: "v", Tag: ByteArray([]int8{1, 2, 3})},
		Entry{Name: "l", Tag: LongArray([]int64{1, 2})},
		Entry{Name: "nested", Tag: NewCompound(
			Entry{Name: "n", Tag: Int(42)},
			Entry{Name: "list", Tag: NewList(KindShort, []Tag{Short(1), Short(2), Short(3)})},
		)},
		Entry{Name: "empty_list", Tag: NewList(KindEnd, nil)},
	)

	encoded := EncodeNamed("root", tree)
	// Literal 0x0A compound tag type byte at the start.
	require.Equal(t, byte(KindCompound), encoded[0])
	// Terminal End tag byte.
	require.Equal(t, byte(KindEnd), encoded[len(encoded)-1])

	name, decoded, consumed, err := DecodeNamed(encoded)
	require.NoError(t, err)
	require.Equal(t, "root", name)
	require.Equal(t, len(encoded), consumed)
	require.True(t, Equal(tree, decoded))
}

func TestSNBTRoundTripScenario(t *testing.T) {
	src := `{name:"x",v:[B;1b,2b,3b],l:[1L,2L]}`
	tree, err := ParseSNBT(src)
	require.NoError(t, err)

	encoded := EncodeNamed("", tree)
	require.Equal(t, byte(KindCompound), encoded[0])
	require.Equal(t, byte(KindEnd), encoded[len(encoded)-1])

	_, decoded, _, err := DecodeNamed(encoded)
	require.NoError(t, err)

	reprinted := EncodeSNBT(decoded)
	reparsed, err := ParseSNBT(reprinted)
	require.NoError(t, err)

	require.True(t, Equal(tree, reparsed))
}

func TestSNBTNumberSuffixes(t *testing.T) {
	cases := map[string]Tag{
		"5b":    Byte(5),
		"5s":    Short(5),
		"5":     Int(5),
		"5i":    Int(5),
		"5l":    Long(5),
		"5.5f":  Float(5.5),
		"5.5d":  Double(5.5),
		"5.5":   Double(5.5),
		"0x1A":  Int(26),
		"0b101": Int(5),
	}
	for input, want := range cases {
		got, err := parseNumberToken(input)
		require.NoError(t, err, input)
		require.True(t, Equal(want, got), "input %q: got %+v want %+v", input, got, want)
	}
}

func TestSNBTBooleans(t *testing.T) {
	tag, err := ParseSNBT("true")
	require.NoError(t, err)
	require.True(t, Equal(Byte(1), tag))

	tag, err = ParseSNBT("FALSE")
	require.NoError(t, err)
	require.True(t, Equal(Byte(0), tag))
}

func TestSNBTDepthCap(t *testing.T) {
	// Build a deeply nested compound that exceeds a tiny cap.
	src := "{a:{a:{a:{a:1}}}}"
	_, err := ParseSNBTDepth(src, 2)
	require.ErrorIs(t, err, errDepth)
}

func TestModUTF8RoundTrip(t *testing.T) {
	s := "héllo   \U0001F600"
	encoded := encodeModUTF8(s)
	decoded := decodeModUTF8(encoded)
	require.Equal(t, s, decoded)
}
