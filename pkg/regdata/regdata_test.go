package regdata

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRunLengthAndPlainTokens(t *testing.T) {
	src := ";s;u8;5\n~3:ff\n1 2\n"
	sections, err := Parse(strings.NewReader(src), []string{"s"})
	require.NoError(t, err)
	require.Len(t, sections, 1)
	require.Equal(t, []uint64{0xff, 0xff, 0xff, 1, 2}, sections[0].Values)
}

func TestParseStringSection(t *testing.T) {
	src := ";names;str;2\nfoo\nbar\n"
	sections, err := Parse(strings.NewReader(src), []string{"names"})
	require.NoError(t, err)
	require.Equal(t, []string{"foo", "bar"}, sections[0].Strs)
}

func TestParseSectionNameMismatchIsFatal(t *testing.T) {
	src := ";wrong;u8;1\n1\n"
	_, err := Parse(strings.NewReader(src), []string{"expected"})
	require.Error(t, err)
}

func TestParseSizeMismatchIsFatal(t *testing.T) {
	src := ";s;u8;2\n1\n"
	_, err := Parse(strings.NewReader(src), []string{"s"})
	require.Error(t, err)
}

func TestParseOverflowIsFatal(t *testing.T) {
	src := ";s;u8;1\n1 2\n"
	_, err := Parse(strings.NewReader(src), []string{"s"})
	require.Error(t, err)
}

func TestParseTrailingGarbageIsFatal(t *testing.T) {
	src := ";s;u8;1\n1\njunk\n"
	_, err := Parse(strings.NewReader(src), []string{"s"})
	require.Error(t, err)
}

func TestLoadEmbeddedData(t *testing.T) {
	d := Load()

	require.Equal(t, []string{
		"air", "stone", "dirt", "grass_block", "oak_log", "oak_planks",
		"oak_slab", "oak_stairs", "glass", "torch", "chest", "water", "lava",
	}, d.Registries["block"])

	require.Len(t, d.BlockDefs, len(d.Registries["block"]))

	slabIdx := indexOf(d.Registries["block"], "oak_slab")
	slabDef := d.BlockDefs[slabIdx]
	require.Len(t, slabDef.Props, 2)

	require.Equal(t, []string{"false", "true"}, d.PropertyValueNames["waterlogged"])
	require.Equal(t, []string{"top", "bottom", "double"}, d.PropertyValueNames["type"])

	require.Len(t, d.ItemMaxStack, len(d.Registries["item"]))
	require.Len(t, d.FluidStateCount, len(d.Registries["fluid"]))
	require.NotEmpty(t, d.TagGroups["mineable/axe"])
}

func TestEncodeParseRoundTrip(t *testing.T) {
	sections := []Section{
		{Name: "nums", Repr: "u8", Values: []uint64{1, 2, 0xff}},
		{Name: "names", Repr: ReprString, Strs: []string{"air", "stone"}},
	}
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sections))

	got, err := Parse(&buf, []string{"nums", "names"})
	require.NoError(t, err)
	require.Equal(t, []uint64{1, 2, 0xff}, got[0].Values)
	require.Equal(t, []string{"air", "stone"}, got[1].Strs)
}

func indexOf(s []string, v string) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}
