// Package palette implements PalettedContainer (spec.md §4.4): an
// adaptive single/indirect/direct store over a fixed number of cells,
// used for both block states (BPE derived from the block_state MAX) and
// biomes (BPE = ceil(log2(len))) in a chunk section.
//
// Grounded on the bit-packing shape in
// other_examples/b904e295_oomph-ac-dragonfly__server-world-chunk-decode.go.go
// (palette + packed index words) adapted to the single/indirect/direct
// three-way discriminator spec.md §4.4 requires, rather than Bedrock's
// on/off persistent-bit layout.
package palette

import (
	"encoding/binary"

	"github.com/StoreStation/blockwright/pkg/protoerr"
	"github.com/StoreStation/blockwright/pkg/varint"
	"github.com/cockroachdb/errors"
)

// Value is any registry id small enough to pack into the palette (block
// state ids and biome ids are both represented as uint32 at this layer;
// callers narrow on read).
type Value = uint32

// Container is a PalettedContainer<T=Value, PAL, BPE, LEN>. len==1 means
// single mode, 1<len<=PAL means indirect, len==0 is the direct sentinel.
type Container struct {
	cells   int // LEN
	maxPal  int // PAL
	bpe     int // bits-per-entry for the wire direct encoding

	palette []Value
	length  int    // discriminator: 1, 2..PAL, or 0 (direct)
	nibbles []byte // indirect mode: ceil(cells/2) bytes, 4 bits per cell
	direct  []Value
}

// New builds a single-mode container over cells cells, maxPal distinct
// values before promotion to direct, and bpe bits-per-entry for the
// direct wire encoding.
func New(initial Value, cells, maxPal, bpe int) *Container {
	return &Container{
		cells:   cells,
		maxPal:  maxPal,
		bpe:     bpe,
		palette: []Value{initial},
		length:  1,
	}
}

// Len reports the container's discriminator value (the spec's len field:
// 1 for single, 2..PAL for indirect, 0 for direct).
func (c *Container) Len() int { return c.length }

// Get returns the value stored at cell i.
func (c *Container) Get(i int) Value {
	switch {
	case c.length == 1:
		return c.palette[0]
	case c.length == 0:
		return c.direct[i]
	default:
		return c.palette[c.nibble(i)]
	}
}

func (c *Container) nibble(i int) byte {
	b := c.nibbles[i/2]
	if i%2 == 0 {
		return b & 0xF
	}
	return (b >> 4) & 0xF
}

func (c *Container) setNibble(i int, v byte) {
	idx := i / 2
	if i%2 == 0 {
		c.nibbles[idx] = (c.nibbles[idx] &^ 0x0F) | (v & 0xF)
	} else {
		c.nibbles[idx] = (c.nibbles[idx] &^ 0xF0) | ((v & 0xF) << 4)
	}
}

// Set stores v at cell i and returns the previous value, performing any
// necessary mode transition (single -> indirect -> direct, monotonic).
func (c *Container) Set(i int, v Value) Value {
	switch {
	case c.length == 1:
		if v == c.palette[0] {
			return c.palette[0]
		}
		old := c.palette[0]
		c.nibbles = make([]byte, (c.cells+1)/2)
		c.palette = append(c.palette, v)
		c.length = 2
		c.setNibble(i, 1)
		return old
	case c.length == 0:
		old := c.direct[i]
		c.direct[i] = v
		return old
	default:
		idx := -1
		for pi, pv := range c.palette {
			if pv == v {
				idx = pi
				break
			}
		}
		old := c.palette[c.nibble(i)]
		if idx >= 0 {
			c.setNibble(i, byte(idx))
			return old
		}
		if c.length < c.maxPal {
			c.palette = append(c.palette, v)
			c.setNibble(i, byte(len(c.palette)-1))
			c.length = len(c.palette)
			return old
		}
		c.promoteToDirect()
		c.direct[i] = v
		return old
	}
}

// promoteToDirect materializes every cell as a raw value and frees the
// palette/nibble storage, per spec.md §4.4's promotion algorithm.
func (c *Container) promoteToDirect() {
	direct := make([]Value, c.cells)
	for i := 0; i < c.cells; i++ {
		direct[i] = c.palette[c.nibble(i)]
	}
	c.direct = direct
	c.palette = nil
	c.nibbles = nil
	c.length = 0
}

// ShrinkToFit best-effort compacts the container: reorders the palette
// by descending frequency (indirect mode) or rebuilds a palette from a
// direct mode container when the distinct count fits within maxPal, and
// collapses to single mode when only one distinct value remains.
func (c *Container) ShrinkToFit() {
	switch {
	case c.length == 1:
		return
	case c.length == 0:
		c.shrinkFromDirect()
	default:
		c.shrinkIndirect()
	}
}

func (c *Container) shrinkIndirect() {
	counts := make([]int, len(c.palette))
	for i := 0; i < c.cells; i++ {
		counts[c.nibble(i)]++
	}
	order := make([]int, len(c.palette))
	for i := range order {
		order[i] = i
	}
	for i := 0; i < len(order); i++ {
		for j := i + 1; j < len(order); j++ {
			if counts[order[j]] > counts[order[i]] {
				order[i], order[j] = order[j], order[i]
			}
		}
	}
	distinct := 0
	for _, cnt := range counts {
		if cnt > 0 {
			distinct++
		}
	}
	if distinct <= 1 {
		var only Value
		for i := 0; i < c.cells; i++ {
			only = c.palette[c.nibble(i)]
			break
		}
		c.palette = []Value{only}
		c.nibbles = nil
		c.length = 1
		return
	}

	newIndexOf := make([]int, len(c.palette))
	newPalette := make([]Value, 0, distinct)
	for _, oldIdx := range order {
		if counts[oldIdx] == 0 {
			continue
		}
		newIndexOf[oldIdx] = len(newPalette)
		newPalette = append(newPalette, c.palette[oldIdx])
	}
	newNibbles := make([]byte, len(c.nibbles))
	tmp := &Container{cells: c.cells, nibbles: newNibbles}
	for i := 0; i < c.cells; i++ {
		tmp.setNibble(i, byte(newIndexOf[c.nibble(i)]))
	}
	c.palette = newPalette
	c.nibbles = newNibbles
	c.length = len(newPalette)
}

func (c *Container) shrinkFromDirect() {
	seen := make(map[Value]int)
	order := make([]Value, 0, c.maxPal+1)
	for _, v := range c.direct {
		if _, ok := seen[v]; !ok {
			seen[v] = len(order)
			order = append(order, v)
			if len(order) > c.maxPal {
				return // too many distinct values, stays direct
			}
		}
	}
	if len(order) == 1 {
		c.palette = []Value{order[0]}
		c.direct = nil
		c.length = 1
		return
	}
	c.palette = order
	c.nibbles = make([]byte, (c.cells+1)/2)
	for i, v := range c.direct {
		c.setNibble(i, byte(seen[v]))
	}
	c.direct = nil
	c.length = len(order)
}

// --- wire serialization ---

// headerSingle, headerIndirectBlocks are the fixed header bytes used for
// block containers (indirect is always 4 bpe for blocks per spec.md
// §4.4); biome containers pass their own bpe through WriteBiome.
const headerSingle = 0
const headerIndirectBlocks = 4

// WriteBlock serializes a block container (fixed 4-bit indirect mode)
// into dst, appending and returning the extended slice.
func (c *Container) WriteBlock(dst []byte) []byte {
	return c.write(dst, headerIndirectBlocks, c.bpe)
}

// WriteBiome serializes a biome container; indirect bpe is
// ceil(log2(len)) of the current palette, recomputed at write time.
func (c *Container) WriteBiome(dst []byte) []byte {
	bpe := c.bpe
	if c.length > 1 && c.length <= c.maxPal {
		bpe = bitsFor(len(c.palette))
	}
	return c.write(dst, byte(bpe), c.bpe)
}

func bitsFor(n int) int {
	b := 0
	for (1 << b) < n {
		b++
	}
	if b == 0 {
		b = 1
	}
	return b
}

func (c *Container) write(dst []byte, indirectHeader byte, directBPE int) []byte {
	switch c.length {
	case 1:
		dst = append(dst, headerSingle)
		dst = varint.AppendV32(dst, c.palette[0])
		dst = varint.AppendV32(dst, 0)
		return dst
	case 0:
		dst = append(dst, byte(directBPE))
		perLong := 64 / directBPE
		numLongs := (c.cells + perLong - 1) / perLong
		dst = varint.AppendV32(dst, uint32(numLongs))
		return appendPacked(dst, c.direct, directBPE, perLong, numLongs)
	default:
		dst = append(dst, indirectHeader)
		dst = varint.AppendV32(dst, uint32(len(c.palette)))
		for _, v := range c.palette {
			dst = varint.AppendV32(dst, v)
		}
		bpe := int(indirectHeader)
		perLong := 64 / bpe
		numLongs := (c.cells + perLong - 1) / perLong
		dst = varint.AppendV32(dst, uint32(numLongs))
		values := make([]Value, c.cells)
		for i := range values {
			values[i] = Value(c.nibble(i))
		}
		return appendPacked(dst, values, bpe, perLong, numLongs)
	}
}

func appendPacked(dst []byte, values []Value, bpe, perLong, numLongs int) []byte {
	mask := uint64(1)<<uint(bpe) - 1
	for l := 0; l < numLongs; l++ {
		var word uint64
		for k := 0; k < perLong; k++ {
			idx := l*perLong + k
			if idx >= len(values) {
				break
			}
			word |= (uint64(values[idx]) & mask) << uint(k*bpe)
		}
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], word)
		dst = append(dst, b[:]...)
	}
	return dst
}

// ReadBlock decodes a block-mode container from src, returning the
// container and bytes consumed.
func ReadBlock(src []byte, cells, maxPal, bpe int) (*Container, int, error) {
	return readContainer(src, cells, maxPal, bpe, true)
}

// ReadBiome decodes a biome-mode container from src.
func ReadBiome(src []byte, cells, maxPal, bpe int) (*Container, int, error) {
	return readContainer(src, cells, maxPal, bpe, false)
}

func readContainer(src []byte, cells, maxPal, directBPE int, blockMode bool) (*Container, int, error) {
	if len(src) < 1 {
		return nil, 0, errors.Wrap(protoerr.Malformed, "palette: truncated header")
	}
	header := src[0]
	pos := 1
	c := &Container{cells: cells, maxPal: maxPal, bpe: directBPE}

	switch {
	case header == headerSingle:
		v, n, ok := varint.ReadV32(src[pos:])
		if !ok {
			return nil, 0, errors.Wrap(protoerr.Malformed, "palette: truncated single value")
		}
		pos += n
		_, n, ok = varint.ReadV32(src[pos:])
		if !ok {
			return nil, 0, errors.Wrap(protoerr.Malformed, "palette: truncated single padding")
		}
		pos += n
		c.palette = []Value{v}
		c.length = 1
		return c, pos, nil
	case (blockMode && header == headerIndirectBlocks) || (!blockMode && int(header) != directBPE && header != 0):
		palLen, n, ok := varint.ReadV32(src[pos:])
		if !ok {
			return nil, 0, errors.Wrap(protoerr.Malformed, "palette: truncated palette length")
		}
		pos += n
		pal := make([]Value, palLen)
		for i := range pal {
			v, n, ok := varint.ReadV32(src[pos:])
			if !ok {
				return nil, 0, errors.Wrap(protoerr.Malformed, "palette: truncated palette entry")
			}
			pos += n
			pal[i] = v
		}
		numLongs, n, ok := varint.ReadV32(src[pos:])
		if !ok {
			return nil, 0, errors.Wrap(protoerr.Malformed, "palette: truncated long count")
		}
		pos += n
		bpe := int(header)
		perLong := 64 / bpe
		need := int(numLongs) * 8
		if pos+need > len(src) {
			return nil, 0, errors.Wrap(protoerr.Malformed, "palette: truncated packed data")
		}
		c.palette = pal
		c.nibbles = make([]byte, (cells+1)/2)
		idx := 0
		for l := 0; l < int(numLongs) && idx < cells; l++ {
			word := binary.BigEndian.Uint64(src[pos+l*8 : pos+l*8+8])
			mask := uint64(1)<<uint(bpe) - 1
			for k := 0; k < perLong && idx < cells; k++ {
				c.setNibble(idx, byte((word>>uint(k*bpe))&mask))
				idx++
			}
		}
		pos += need
		c.length = len(pal)
		return c, pos, nil
	default:
		bpe := int(header)
		if bpe == 0 {
			return nil, 0, errors.Wrap(protoerr.Malformed, "palette: zero bpe direct header")
		}
		perLong := 64 / bpe
		numLongs, n, ok := varint.ReadV32(src[pos:])
		if !ok {
			return nil, 0, errors.Wrap(protoerr.Malformed, "palette: truncated long count")
		}
		pos += n
		need := int(numLongs) * 8
		if pos+need > len(src) {
			return nil, 0, errors.Wrap(protoerr.Malformed, "palette: truncated direct data")
		}
		c.direct = make([]Value, cells)
		idx := 0
		mask := uint64(1)<<uint(bpe) - 1
		for l := 0; l < int(numLongs) && idx < cells; l++ {
			word := binary.BigEndian.Uint64(src[pos+l*8 : pos+l*8+8])
			for k := 0; k < perLong && idx < cells; k++ {
				c.direct[idx] = Value((word >> uint(k*bpe)) & mask)
				idx++
			}
		}
		pos += need
		c.length = 0
		return c, pos, nil
	}
}
