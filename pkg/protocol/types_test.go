package protocol

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/StoreStation/blockwright/pkg/nbt"
)

func TestVarIntRoundTrip(t *testing.T) {
	for _, v := range []int32{0, 1, 127, 128, 255, 25565, 2097151, 2147483647, -1, -2147483648} {
		buf := WriteVarInt(nil, v)
		require.Len(t, buf, VarIntSize(v))
		got, n, ok := ReadVarInt(buf)
		require.True(t, ok)
		require.Equal(t, len(buf), n)
		require.Equal(t, v, got)
	}
}

func TestVarLongRoundTrip(t *testing.T) {
	for _, v := range []int64{0, 1, -1, 9223372036854775807, -9223372036854775808} {
		buf := WriteVarLong(nil, v)
		got, n, err := ReadVarLong(buf)
		require.NoError(t, err)
		require.Equal(t, len(buf), n)
		require.Equal(t, v, got)
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, s := range []string{"", "Hello", "Hello, World!", "日本語テスト"} {
		buf := WriteString(nil, s)
		got, n, err := ReadString(buf)
		require.NoError(t, err)
		require.Equal(t, len(buf), n)
		require.Equal(t, s, got)
	}
}

func TestReadStringRejectsOversizedLength(t *testing.T) {
	buf := WriteVarInt(nil, MaxStringBytes+1)
	_, _, err := ReadString(buf)
	require.Error(t, err)
}

func TestBoolRoundTrip(t *testing.T) {
	for _, v := range []bool{true, false} {
		buf := WriteBool(nil, v)
		got, n, err := ReadBool(buf)
		require.NoError(t, err)
		require.Equal(t, 1, n)
		require.Equal(t, v, got)
	}
}

func TestFloat64RoundTrip(t *testing.T) {
	for _, v := range []float64{0, 1.5, -1.5, 3.14159265} {
		buf := WriteFloat64(nil, v)
		got, n, err := ReadFloat64(buf)
		require.NoError(t, err)
		require.Equal(t, 8, n)
		require.Equal(t, v, got)
	}
}

func TestFloat32RoundTrip(t *testing.T) {
	for _, v := range []float32{0, 1.5, -1.5} {
		buf := WriteFloat32(nil, v)
		got, n, err := ReadFloat32(buf)
		require.NoError(t, err)
		require.Equal(t, 4, n)
		require.Equal(t, v, got)
	}
}

func TestUUIDRoundTrip(t *testing.T) {
	id := uuid.New()
	buf := WriteUUID(nil, id)
	got, n, err := ReadUUID(buf)
	require.NoError(t, err)
	require.Equal(t, 16, n)
	require.Equal(t, id, got)
}

func TestIdentifierDefaultsToMinecraftNamespace(t *testing.T) {
	require.Equal(t, Identifier{Namespace: "minecraft", Path: "stone"}, ParseIdentifier("stone"))
	require.Equal(t, Identifier{Namespace: "custom", Path: "thing"}, ParseIdentifier("custom:thing"))
	require.Equal(t, "minecraft:stone", ParseIdentifier("stone").String())
}

func TestBlockPosRoundTrip(t *testing.T) {
	tests := []struct{ x, y, z int32 }{
		{0, 0, 0},
		{8, 64, 8},
		{-1, 0, -1},
		{33554431, 2047, 33554431},
		{-33554432, -2048, -33554432},
	}
	for _, tt := range tests {
		v := EncodeBlockPos(tt.x, tt.y, tt.z)
		x, y, z := DecodeBlockPos(v)
		require.Equal(t, tt.x, x)
		require.Equal(t, tt.y, y)
		require.Equal(t, tt.z, z)
	}
}

func TestSectionPosRoundTrip(t *testing.T) {
	tests := []struct{ x, y, z int32 }{
		{0, 0, 0},
		{1, 2, 3},
		{-1, -2, -3},
		{2097151, 524287, 2097151},
		{-2097152, -524288, -2097152},
	}
	for _, tt := range tests {
		v := EncodeSectionPos(tt.x, tt.y, tt.z)
		x, y, z := DecodeSectionPos(v)
		require.Equal(t, tt.x, x)
		require.Equal(t, tt.y, y)
		require.Equal(t, tt.z, z)
	}
}

func TestItemStackRoundTripEmpty(t *testing.T) {
	buf := WriteItemStack(nil, ItemStack{})
	got, n, err := ReadItemStack(buf)
	require.NoError(t, err)
	require.Equal(t, len(buf), n)
	require.Equal(t, ItemStack{}, got)
}

func TestItemStackRoundTripWithoutTag(t *testing.T) {
	stack := ItemStack{Present: true, Item: 42, Count: 5}
	buf := WriteItemStack(nil, stack)
	got, n, err := ReadItemStack(buf)
	require.NoError(t, err)
	require.Equal(t, len(buf), n)
	require.Equal(t, stack, got)
}

func TestItemStackRoundTripWithTag(t *testing.T) {
	stack := ItemStack{
		Present: true,
		Item:    7,
		Count:   1,
		Tag:     nbt.NewCompound(nbt.Entry{Name: "Damage", Tag: nbt.Int(3)}),
	}
	buf := WriteItemStack(nil, stack)
	got, n, err := ReadItemStack(buf)
	require.NoError(t, err)
	require.Equal(t, len(buf), n)
	require.True(t, nbt.Equal(stack.Tag, got.Tag))
	require.Equal(t, stack.Item, got.Item)
	require.Equal(t, stack.Count, got.Count)
}
