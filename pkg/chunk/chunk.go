// Package chunk implements the chunk section described in spec.md §3:
// a 16x16x16 BlockPC paletted container of block states, a 4x4x4
// BiomePC paletted container of biomes, and a non_air counter maintained
// incrementally as blocks are set.
//
// Grounded on the teacher's pkg/world/chunk.go (flat per-section byte
// arrays addressed by a 16^3 index, streamed to clients one section at
// a time) generalized onto pkg/palette's adaptive containers in place of
// the teacher's flat-array 1.8 format.
package chunk

import (
	"github.com/cockroachdb/errors"

	"github.com/StoreStation/blockwright/pkg/palette"
	"github.com/StoreStation/blockwright/pkg/protoerr"
)

// BlockStates per axis in one section.
const blockDim = 16

// Biomes per axis in one section (4x4x4, one per 4x4x4 sub-volume).
const biomeDim = 4

const blockCells = blockDim * blockDim * blockDim
const biomeCells = biomeDim * biomeDim * biomeDim

// biomePAL matches spec.md §3's BiomePC PAL=16.
const biomePAL = 16

// AirState is the global block-state id that represents air: state 0 of
// block 0, by the registry's air-sentinel construction.
const AirState = 0

// Section is one 16-block-tall horizontal slice of a chunk.
type Section struct {
	blocks *palette.Container
	biomes *palette.Container
	nonAir int
}

// blockBPE returns ceil(log2(stateMax)), the bits-per-entry spec.md §3
// requires for BlockPC, clamped to at least 1.
func blockBPE(stateMax uint32) int {
	bits := 0
	for v := stateMax - 1; v > 0; v >>= 1 {
		bits++
	}
	if bits < 1 {
		bits = 1
	}
	return bits
}

func biomeBPE(biomeMax uint32) int {
	return blockBPE(biomeMax)
}

// NewSection builds an empty (all-air) section. stateMax/biomeMax are
// the owning world's block_state/biome registry MAX, used to size the
// direct-mode wire encodings.
func NewSection(stateMax, biomeMax uint32) *Section {
	return &Section{
		blocks: palette.New(AirState, blockCells, 16, blockBPE(stateMax)),
		biomes: palette.New(0, biomeCells, biomePAL, biomeBPE(biomeMax)),
	}
}

// index computes the flat cell index for block-local coordinates
// (0..15 each), matching the teacher's y*256+z*16+x addressing in
// pkg/world/chunk.go.
func index(x, y, z int) int {
	return y*blockDim*blockDim + z*blockDim + x
}

func biomeIndex(x, y, z int) int {
	return y*biomeDim*biomeDim + z*biomeDim + x
}

// BlockAt returns the block state at local coordinates.
func (s *Section) BlockAt(x, y, z int) uint32 {
	return s.blocks.Get(index(x, y, z))
}

// SetBlock writes a new block state at local coordinates, maintaining
// non_air incrementally per spec.md §3.
func (s *Section) SetBlock(x, y, z int, state uint32) {
	i := index(x, y, z)
	prev := s.blocks.Set(i, state)
	if prev == AirState && state != AirState {
		s.nonAir++
	} else if prev != AirState && state == AirState {
		s.nonAir--
	}
}

// BiomeAt returns the biome id covering the 4x4x4 sub-volume containing
// local coordinates.
func (s *Section) BiomeAt(x, y, z int) uint32 {
	return s.biomes.Get(biomeIndex(x/4, y/4, z/4))
}

// SetBiome writes the biome id for a 4x4x4 sub-volume, addressed by its
// own 0..3 coordinates (already divided by 4).
func (s *Section) SetBiome(x, y, z int, biome uint32) {
	s.biomes.Set(biomeIndex(x, y, z), biome)
}

// NonAirCount is the number of cells whose block state isn't air,
// maintained incrementally by SetBlock rather than recomputed.
func (s *Section) NonAirCount() int { return s.nonAir }

// IsEmpty reports whether the section has no non-air blocks at all,
// the signal servers use to skip sending/rendering a section.
func (s *Section) IsEmpty() bool { return s.nonAir == 0 }

// WriteTo appends this section's wire encoding (non-air block count,
// then the block and biome paletted containers) to dst.
func (s *Section) WriteTo(dst []byte) []byte {
	dst = append(dst, byte(s.nonAir>>8), byte(s.nonAir))
	dst = s.blocks.WriteBlock(dst)
	dst = s.biomes.WriteBiome(dst)
	return dst
}

// ReadSection parses one section's wire encoding produced by WriteTo.
func ReadSection(src []byte, stateMax, biomeMax uint32) (*Section, int, error) {
	if len(src) < 2 {
		return nil, 0, errors.Wrap(protoerr.Malformed, "chunk: truncated section header")
	}
	nonAir := int(src[0])<<8 | int(src[1])
	pos := 2

	blocks, n, err := palette.ReadBlock(src[pos:], blockCells, 16, blockBPE(stateMax))
	if err != nil {
		return nil, 0, err
	}
	pos += n

	biomes, n, err := palette.ReadBiome(src[pos:], biomeCells, biomePAL, biomeBPE(biomeMax))
	if err != nil {
		return nil, 0, err
	}
	pos += n

	return &Section{blocks: blocks, biomes: biomes, nonAir: nonAir}, pos, nil
}
