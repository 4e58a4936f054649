// Package registry turns the decoded build-time data (pkg/regdata) into
// the generated-style dense enums and lookup tables described in
// spec.md §4.2/§4.7: bounds-checked `new`/`id`, PHF-backed `parse`,
// packed name tables, wire `Write`/`Read` sized by each registry's MAX,
// and the block-state-specific machinery (state_index, PROPS_INDEX,
// DEFAULT, property encode/decode, to_block/to_fluid, static
// luminance/flags/bounds accessors).
//
// Grounded on the teacher's gamemode/block byte constants
// (pkg/server/gamemode.go, pkg/world/chunk.go's block-id bytes)
// generalized from hand-written constant tables into data-driven dense
// enums backed by pkg/phf, since the teacher's 1.8 registry is small
// enough to hardcode but the 1.20.x one is not.
package registry

import (
	"github.com/cockroachdb/errors"

	"github.com/StoreStation/blockwright/pkg/phf"
	"github.com/StoreStation/blockwright/pkg/protoerr"
	"github.com/StoreStation/blockwright/pkg/varint"
)

// nameTable packs variant names into one byte buffer addressed by
// [offset, length] pairs per index, per spec.md §4.2's "name(self)"
// contract, instead of keeping a live []string per enum.
type nameTable struct {
	buf     []byte
	offsets []uint32
	lengths []uint32
}

func buildNameTable(names []string) nameTable {
	nt := nameTable{offsets: make([]uint32, len(names)), lengths: make([]uint32, len(names))}
	for i, n := range names {
		nt.offsets[i] = uint32(len(nt.buf))
		nt.lengths[i] = uint32(len(n))
		nt.buf = append(nt.buf, n...)
	}
	return nt
}

func (nt nameTable) name(id uint32) string {
	o, l := nt.offsets[id], nt.lengths[id]
	return string(nt.buf[o : o+l])
}

// Enum is a dense, PHF-backed registry of distinct names with stable
// integer ids 0..MAX-1.
type Enum struct {
	names nameTable
	table *phf.Table
	max   uint32
}

func newEnum(names []string) *Enum {
	keys := make([][]byte, len(names))
	for i, n := range names {
		keys[i] = []byte(n)
	}
	table, err := phf.Build(keys)
	if err != nil {
		panic(errors.Wrap(err, "registry: building perfect hash table"))
	}
	return &Enum{names: buildNameTable(names), table: table, max: uint32(len(names))}
}

// MAX is the number of distinct variants (one past the largest valid id).
func (e *Enum) MAX() uint32 { return e.max }

// New bounds-checks id, returning ok=false when id >= MAX.
func (e *Enum) New(id uint32) (uint32, bool) {
	if id >= e.max {
		return 0, false
	}
	return id, true
}

// Default returns the zero-valued variant, matching spec.md §3's
// air/state_default(0) convention: index 0 is always the sentinel.
func (e *Enum) Default() uint32 { return 0 }

// Name returns id's canonical source name.
func (e *Enum) Name(id uint32) string { return e.names.name(id) }

// Parse resolves name back to an id via the PHF table, rejecting
// false-positive membership by comparing the recovered name.
func (e *Enum) Parse(name []byte) (uint32, bool) {
	id, ok := e.table.Lookup(name)
	if !ok || id >= e.max || e.names.name(id) != string(name) {
		return 0, false
	}
	return id, true
}

// wireWidth picks single-byte / V21 / V32 encoding by MAX, per
// spec.md §4.2 ("id as V21 when MAX > 127, else V32 when MAX >
// 2^21-1, else single byte"): read as a size cascade — MAX fitting in
// a byte uses a byte, MAX fitting in 21 bits uses V21, anything larger
// needs the full V32 range. The literal spec prose lists the V21/V32
// conditions in the opposite order from how they're actually reached;
// this function follows the size cascade.
func wireWidth(max uint32) int {
	switch {
	case max <= 128:
		return 1
	case max <= varint.MaxV21+1:
		return 21
	default:
		return 32
	}
}

// Write appends id's wire encoding to dst, sized by e's MAX.
func (e *Enum) Write(dst []byte, id uint32) []byte {
	switch wireWidth(e.max) {
	case 1:
		return append(dst, byte(id))
	case 21:
		return varint.AppendV32(dst, id) // V21 values always fit V32's encoder
	default:
		return varint.AppendV32(dst, id)
	}
}

// Read decodes one id from buf per e's MAX-derived width, returning the
// id, bytes consumed, and an error for malformed/out-of-range input.
func (e *Enum) Read(buf []byte) (id uint32, n int, err error) {
	switch wireWidth(e.max) {
	case 1:
		if len(buf) < 1 {
			return 0, 0, errors.Wrap(protoerr.Malformed, "registry: truncated single-byte id")
		}
		id = uint32(buf[0])
		n = 1
	case 21:
		v, sz, ok, rerr := varint.ReadV21(buf)
		if rerr != nil {
			return 0, 0, rerr
		}
		if !ok {
			return 0, 0, errors.Wrap(protoerr.Malformed, "registry: truncated V21 id")
		}
		id, n = v, sz
	default:
		v, sz, ok := varint.ReadV32(buf)
		if !ok {
			return 0, 0, errors.Wrap(protoerr.Malformed, "registry: truncated V32 id")
		}
		id, n = v, sz
	}
	if id >= e.max {
		return 0, 0, errors.Wrap(protoerr.OutOfRange, "registry: id out of range")
	}
	return id, n, nil
}
