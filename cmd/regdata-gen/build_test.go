package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/StoreStation/blockwright/pkg/regdata"
)

func TestGenerateSectionOrderMatchesLoader(t *testing.T) {
	sections := generate()
	require.Len(t, sections, len(regdata.SectionOrder))
	for i, want := range regdata.SectionOrder {
		require.Equal(t, want, sections[i].Name)
	}
}

func TestGenerateTotalStateCountMatchesBlocks(t *testing.T) {
	total := 0
	for _, b := range blocks {
		total += stateCount(b)
	}
	require.Equal(t, 70, total)

	sections := generate()
	for _, sec := range sections {
		if sec.Name == "settings" || sec.Name == "static_bounds" {
			require.Len(t, sec.Values, total)
		}
	}
}

func TestGenerateOakSlabDoubleIsOpaqueFullCube(t *testing.T) {
	sections := generate()
	var settings, bounds []uint64
	for _, sec := range sections {
		switch sec.Name {
		case "settings":
			settings = sec.Values
		case "static_bounds":
			bounds = sec.Values
		}
	}

	offset := 0
	var slab blockDef
	for _, b := range blocks {
		if b.Name == "oak_slab" {
			slab = b
			break
		}
		offset += stateCount(b)
	}

	doubleOrdinal := 0
	for ordinal := 0; ordinal < stateCount(slab); ordinal++ {
		if stateValues(slab, ordinal)["type"] == "double" {
			doubleOrdinal = ordinal
			break
		}
	}

	idx := offset + doubleOrdinal
	require.NotZero(t, bounds[idx], "double slab state must carry a shape")
	require.Equal(t, uint64(0x30), settings[idx]&0x30, "double slab must be solid and opaque")
}

func TestGenerateEncodesAndRoundTripsThroughParse(t *testing.T) {
	sections := generate()
	var buf bytes.Buffer
	require.NoError(t, regdata.Encode(&buf, sections))

	parsed, err := regdata.Parse(&buf, regdata.SectionOrder)
	require.NoError(t, err)
	require.Len(t, parsed, len(sections))
}

func TestGenerateItemToBlockAndBlockToFluidMappings(t *testing.T) {
	sections := generate()
	var itemToBlock, blockToFluid []uint64
	for _, sec := range sections {
		switch sec.Name {
		case "item_to_block":
			itemToBlock = sec.Values
		case "block_to_fluid":
			blockToFluid = sec.Values
		}
	}

	require.Equal(t, uint64(blockIndex("oak_planks")+1), itemToBlock[2])
	require.Zero(t, itemToBlock[5]) // water_bucket places no block

	require.Equal(t, uint64(2), blockToFluid[blockIndex("water")])
	require.Equal(t, uint64(3), blockToFluid[blockIndex("lava")])
	require.Zero(t, blockToFluid[blockIndex("stone")])
}
