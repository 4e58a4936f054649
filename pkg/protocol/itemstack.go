package protocol

import (
	"github.com/cockroachdb/errors"

	"github.com/StoreStation/blockwright/pkg/nbt"
	"github.com/StoreStation/blockwright/pkg/protoerr"
)

// ItemStack is the wire shape of one inventory slot: an empty stack is
// Present=false with every other field zero, per spec.md §6.1.
type ItemStack struct {
	Present bool
	Item    uint32
	Count   uint8
	Tag     nbt.Tag
}

// WriteItemStack appends the present flag, and when present, the item
// id (VarInt), count, and an NBT tag payload — a lone KindEnd byte when
// the stack carries no tag, per spec.md §6.1's tagType==0 "no tag" case.
func WriteItemStack(dst []byte, s ItemStack) []byte {
	if !s.Present {
		return append(dst, 0)
	}
	dst = append(dst, 1)
	dst = WriteVarInt(dst, int32(s.Item))
	dst = append(dst, s.Count)
	if s.Tag.Kind == nbt.KindEnd {
		return append(dst, byte(nbt.KindEnd))
	}
	return append(dst, nbt.EncodeNamed("", s.Tag)...)
}

// ReadItemStack decodes one ItemStack per WriteItemStack's layout.
func ReadItemStack(buf []byte) (ItemStack, int, error) {
	if len(buf) < 1 {
		return ItemStack{}, 0, errors.Wrap(protoerr.Malformed, "protocol: truncated item stack")
	}
	if buf[0] == 0 {
		return ItemStack{}, 1, nil
	}
	pos := 1
	item, n, ok := ReadVarInt(buf[pos:])
	if !ok {
		return ItemStack{}, 0, errors.Wrap(protoerr.Malformed, "protocol: truncated item id")
	}
	pos += n
	if pos >= len(buf) {
		return ItemStack{}, 0, errors.Wrap(protoerr.Malformed, "protocol: truncated item count")
	}
	count := buf[pos]
	pos++
	if pos >= len(buf) {
		return ItemStack{}, 0, errors.Wrap(protoerr.Malformed, "protocol: truncated item tag")
	}
	if buf[pos] == byte(nbt.KindEnd) {
		return ItemStack{Present: true, Item: uint32(item), Count: count}, pos + 1, nil
	}
	_, tag, consumed, err := nbt.DecodeNamed(buf[pos:])
	if err != nil {
		return ItemStack{}, 0, errors.Wrap(err, "protocol: item tag")
	}
	pos += consumed
	return ItemStack{Present: true, Item: uint32(item), Count: count, Tag: tag}, pos, nil
}
