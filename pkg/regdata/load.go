package regdata

import (
	_ "embed"
	"strings"

	"github.com/cockroachdb/errors"
)

//go:embed data/blocks.txt
var blocksData []byte

// SectionOrder is the fixed section sequence spec.md §4.2 requires:
// registries, fluid state, block state, item data, entity data, packet
// ids, tag groups, then the packed tables (shapes, settings, static
// bounds, item-to-block, block-to-fluid).
var SectionOrder = []string{
	"registries",
	"fluid_state",
	"block_state",
	"item_data",
	"entity_data",
	"packet_ids",
	"tag_groups",
	"shapes",
	"settings",
	"static_bounds",
	"item_to_block",
	"block_to_fluid",
}

// BlockProp is one (property key registry index, cardinality) pair
// attached to a block, in declaration order.
type BlockProp struct {
	KeyIdx int
	Card   int
}

// BlockDef is one block's property-set declaration: the mixed-radix
// ordinal of its default state and its ordered property list.
type BlockDef struct {
	DefaultOrdinal int
	Props          []BlockProp
}

// Data is the fully-decoded contents of the build-time registry data
// file, ready for pkg/registry to build dense enums and lookup tables
// from.
type Data struct {
	Registries         map[string][]string
	PropertyValueNames map[string][]string // property key name -> ordered value tokens

	FluidStateCount []uint32
	BlockDefs       []BlockDef
	ItemMaxStack    []uint16
	EntityData      []uint32
	PacketIDs       []uint32
	TagGroups       map[string][]string

	Shapes       []uint64
	Settings     []uint16
	StaticBounds []uint32
	ItemToBlock  []uint32
	BlockToFluid []uint32
}

// Load parses the embedded build-time data file. It panics on failure:
// a malformed embedded registry file is a build defect, not a runtime
// condition callers can recover from.
func Load() *Data {
	d, err := parse(blocksData)
	if err != nil {
		panic(errors.Wrap(err, "regdata: embedded data file"))
	}
	return d
}

func parse(raw []byte) (*Data, error) {
	sections, err := Parse(strings.NewReader(string(raw)), SectionOrder)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]Section, len(sections))
	for _, s := range sections {
		byName[s.Name] = s
	}

	d := &Data{}

	d.Registries, d.PropertyValueNames, err = parseRegistries(byName["registries"])
	if err != nil {
		return nil, err
	}

	d.FluidStateCount = toU32(byName["fluid_state"].Values)

	d.BlockDefs, err = parseBlockState(byName["block_state"].Values, len(d.Registries["block"]))
	if err != nil {
		return nil, err
	}

	d.ItemMaxStack = toU16(byName["item_data"].Values)
	d.EntityData = toU32(byName["entity_data"].Values)
	d.PacketIDs = toU32(byName["packet_ids"].Values)
	d.TagGroups = parseGroups(byName["tag_groups"].Strs)

	d.Shapes = byName["shapes"].Values
	d.Settings = toU16(byName["settings"].Values)
	d.StaticBounds = toU32(byName["static_bounds"].Values)
	d.ItemToBlock = toU32(byName["item_to_block"].Values)
	d.BlockToFluid = toU32(byName["block_to_fluid"].Values)

	return d, nil
}

// parseRegistries splits the registries section's flat, "@name"-grouped
// string body into named registries, pulling the
// "block_state_property_value" registry's "key:token" entries out into
// a per-key value-name table instead of leaving it as a flat list.
func parseRegistries(sec Section) (map[string][]string, map[string][]string, error) {
	registries := make(map[string][]string)
	var current string
	for _, line := range sec.Strs {
		if strings.HasPrefix(line, "@") {
			current = line[1:]
			if _, exists := registries[current]; exists {
				return nil, nil, errors.Newf("regdata: duplicate registry %q", current)
			}
			registries[current] = nil
			continue
		}
		if current == "" {
			return nil, nil, errors.Newf("regdata: registries entry %q before any @name header", line)
		}
		registries[current] = append(registries[current], line)
	}

	propValues := make(map[string][]string)
	for _, tok := range registries["block_state_property_value"] {
		key, value, ok := strings.Cut(tok, ":")
		if !ok {
			return nil, nil, errors.Newf("regdata: malformed property value token %q", tok)
		}
		propValues[key] = append(propValues[key], value)
	}
	delete(registries, "block_state_property_value")

	return registries, propValues, nil
}

// parseBlockState expands the flat [defaultOrdinal, numProps, (keyIdx,
// card)*] encoding into one BlockDef per block, in registry order.
func parseBlockState(values []uint64, numBlocks int) ([]BlockDef, error) {
	defs := make([]BlockDef, 0, numBlocks)
	pos := 0
	for b := 0; b < numBlocks; b++ {
		if pos+2 > len(values) {
			return nil, errors.Newf("regdata: block_state truncated at block %d", b)
		}
		def := BlockDef{DefaultOrdinal: int(values[pos])}
		numProps := int(values[pos+1])
		pos += 2
		for p := 0; p < numProps; p++ {
			if pos+2 > len(values) {
				return nil, errors.Newf("regdata: block_state truncated reading props for block %d", b)
			}
			def.Props = append(def.Props, BlockProp{KeyIdx: int(values[pos]), Card: int(values[pos+1])})
			pos += 2
		}
		defs = append(defs, def)
	}
	if pos != len(values) {
		return nil, errors.Newf("regdata: block_state has %d trailing values", len(values)-pos)
	}
	return defs, nil
}

func parseGroups(strs []string) map[string][]string {
	groups := make(map[string][]string)
	var current string
	for _, line := range strs {
		if strings.HasPrefix(line, "@") {
			current = line[1:]
			groups[current] = nil
			continue
		}
		groups[current] = append(groups[current], line)
	}
	return groups
}

func toU32(vals []uint64) []uint32 {
	out := make([]uint32, len(vals))
	for i, v := range vals {
		out[i] = uint32(v)
	}
	return out
}

func toU16(vals []uint64) []uint16 {
	out := make([]uint16, len(vals))
	for i, v := range vals {
		out[i] = uint16(v)
	}
	return out
}
