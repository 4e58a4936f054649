package main

import (
	"github.com/StoreStation/blockwright/pkg/regdata"
)

// shapeTable interns AABBs into a shared index space, index 0 reserved
// as the "no shape" sentinel static_bounds entries use — mirroring
// pkg/registry's PROPS_INDEX-style dedup for property sets.
type shapeTable struct {
	list []aabb
}

func newShapeTable() *shapeTable {
	return &shapeTable{list: []aabb{{}}} // index 0: unused zero sentinel
}

func (t *shapeTable) intern(a aabb) uint32 {
	for i, existing := range t.list {
		if existing == a {
			return uint32(i)
		}
	}
	t.list = append(t.list, a)
	return uint32(len(t.list) - 1)
}

func packAABB(a aabb) uint64 {
	return uint64(a.MinX)<<40 | uint64(a.MinY)<<32 | uint64(a.MinZ)<<24 |
		uint64(a.MaxX)<<16 | uint64(a.MaxY)<<8 | uint64(a.MaxZ)
}

func isFullCube(a aabb) bool {
	return a == fullCube()
}

// stateValues decodes block's ordinal into a key->value-token map,
// using the same mixed-radix convention as pkg/registry.DecodeProps:
// the last declared property is least significant.
func stateValues(b blockDef, ordinal int) map[string]string {
	values := make([]int, len(b.Props))
	o := ordinal
	for i := len(b.Props) - 1; i >= 0; i-- {
		card := propertyCard(b.Props[i])
		values[i] = o % card
		o /= card
	}
	out := make(map[string]string, len(b.Props))
	for i, key := range b.Props {
		for _, p := range propertyDefs {
			if p.Key == key {
				out[key] = p.Values[values[i]]
				break
			}
		}
	}
	return out
}

func stateCount(b blockDef) int {
	count := 1
	for _, key := range b.Props {
		count *= propertyCard(key)
	}
	return count
}

func defaultOrdinal(b blockDef) int {
	ordinal := 0
	for i, key := range b.Props {
		ordinal = ordinal*propertyCard(key) + b.Default[i]
	}
	return ordinal
}

// generate expands the declarative dataset in dataset.go into the
// ordered regdata.Section list the embedded file's grammar expects.
func generate() []regdata.Section {
	var registryStrs []string

	appendRegistry := func(name string, names []string) {
		registryStrs = append(registryStrs, "@"+name)
		registryStrs = append(registryStrs, names...)
	}

	blockNames := make([]string, len(blocks))
	for i, b := range blocks {
		blockNames[i] = b.Name
	}
	itemNames := make([]string, len(items))
	for i, it := range items {
		itemNames[i] = it.Name
	}
	entityNames := make([]string, len(entities))
	for i, e := range entities {
		entityNames[i] = e.Name
	}
	fluidNames := make([]string, len(fluids))
	for i, f := range fluids {
		fluidNames[i] = f.Name
	}
	packetNames := make([]string, len(packets))
	for i, p := range packets {
		packetNames[i] = p.Name
	}
	propertyKeyNames := make([]string, len(propertyDefs))
	for i, p := range propertyDefs {
		propertyKeyNames[i] = p.Key
	}

	appendRegistry("block", blockNames)
	appendRegistry("item", itemNames)
	appendRegistry("entity_type", entityNames)
	appendRegistry("biome", biomes)
	appendRegistry("block_entity_type", blockEntityTypes)
	appendRegistry("block_state_property_key", propertyKeyNames)
	appendRegistry("fluid", fluidNames)
	appendRegistry("packet", packetNames)

	var propValueTokens []string
	for _, p := range propertyDefs {
		for _, v := range p.Values {
			propValueTokens = append(propValueTokens, p.Key+":"+v)
		}
	}
	appendRegistry("block_state_property_value", propValueTokens)

	fluidStateCount := make([]uint64, len(fluids))
	for i, f := range fluids {
		fluidStateCount[i] = uint64(f.StateCount)
	}

	var blockState []uint64
	shapes := newShapeTable()
	var settings []uint64
	var staticBounds []uint64
	tagGroups := make(map[string][]string)
	var tagOrder []string

	for _, b := range blocks {
		blockState = append(blockState, uint64(defaultOrdinal(b)), uint64(len(b.Props)))
		for _, key := range b.Props {
			blockState = append(blockState, uint64(propertyIndex(key)), uint64(propertyCard(key)))
		}

		for ordinal := 0; ordinal < stateCount(b); ordinal++ {
			var settingsWord uint64
			var shapeIdx uint32
			if b.Shape != nil {
				a, ok := b.Shape(stateValues(b, ordinal))
				if ok {
					shapeIdx = shapes.intern(a)
					settingsWord |= 0x10 // solid
					if isFullCube(a) {
						settingsWord |= 0x20 // opaque
					}
				}
			}
			settingsWord |= uint64(b.Luminance) & 0xF
			settings = append(settings, settingsWord)
			staticBounds = append(staticBounds, uint64(shapeIdx))
		}

		for _, tag := range b.Tags {
			if _, ok := tagGroups[tag]; !ok {
				tagOrder = append(tagOrder, tag)
			}
			tagGroups[tag] = append(tagGroups[tag], b.Name)
		}
	}

	shapeValues := make([]uint64, len(shapes.list))
	for i, a := range shapes.list {
		shapeValues[i] = packAABB(a)
	}

	itemMaxStack := make([]uint64, len(items))
	itemToBlock := make([]uint64, len(items))
	for i, it := range items {
		itemMaxStack[i] = uint64(it.MaxStack)
		if it.PlacesBlock != "" {
			itemToBlock[i] = uint64(blockIndex(it.PlacesBlock) + 1)
		}
	}

	blockToFluid := make([]uint64, len(blocks))
	for fi, f := range fluids {
		if f.Block == "" {
			continue
		}
		blockToFluid[blockIndex(f.Block)] = uint64(fi + 1)
	}

	entityData := make([]uint64, len(entities))
	for i, e := range entities {
		entityData[i] = uint64(e.WidthHundredths&0xFF)<<24 | uint64(e.HeightHundredths&0xFF)<<16 | uint64(e.Flags)
	}

	packetIDs := make([]uint64, len(packets))
	for i, p := range packets {
		packetIDs[i] = uint64(p.ID)
	}

	var tagStrs []string
	for _, tag := range tagOrder {
		tagStrs = append(tagStrs, "@"+tag)
		tagStrs = append(tagStrs, tagGroups[tag]...)
	}

	return []regdata.Section{
		{Name: "registries", Repr: regdata.ReprString, Strs: registryStrs},
		{Name: "fluid_state", Repr: "u32", Values: fluidStateCount},
		{Name: "block_state", Repr: "u32", Values: blockState},
		{Name: "item_data", Repr: "u16", Values: itemMaxStack},
		{Name: "entity_data", Repr: "u32", Values: entityData},
		{Name: "packet_ids", Repr: "u32", Values: packetIDs},
		{Name: "tag_groups", Repr: regdata.ReprString, Strs: tagStrs},
		{Name: "shapes", Repr: "u64", Values: shapeValues},
		{Name: "settings", Repr: "u16", Values: settings},
		{Name: "static_bounds", Repr: "u32", Values: staticBounds},
		{Name: "item_to_block", Repr: "u32", Values: itemToBlock},
		{Name: "block_to_fluid", Repr: "u32", Values: blockToFluid},
	}
}

func blockIndex(name string) int {
	for i, b := range blocks {
		if b.Name == name {
			return i
		}
	}
	panic("regdata-gen: unknown block " + name)
}
