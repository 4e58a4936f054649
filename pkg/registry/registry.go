package registry

import (
	"github.com/StoreStation/blockwright/pkg/regdata"
)

// FluidState names a fluid and its level (0 = source, higher = more
// spread/shallower, per vanilla fluid semantics).
type FluidState struct {
	Fluid uint32
	Level uint32
}

// Registries is the complete set of dense enums and lookup tables built
// from one pkg/regdata.Data at process start.
type Registries struct {
	Block           *Enum
	Item            *Enum
	EntityType      *Enum
	Biome           *Enum
	BlockEntityType *Enum
	PropertyKey     *Enum
	Fluid           *Enum
	Packet          *Enum

	blockDefs []blockStateDef
	// propsList/propsIndex implement spec.md §4.2's PROPS/PROPS_INDEX
	// dedup: identical property-key sequences across blocks (e.g. every
	// "facing+half+waterlogged" stair) share one entry.
	propsList  [][]PropDef
	propsIndex []int

	stateToBlock []uint32

	propertyValueNames map[string][]string

	itemMaxStack []uint16
	itemToBlock  []uint32

	blockToFluid    []uint32
	fluidStateCount []uint32

	entityData []uint32

	shapes       []uint64
	settings     []uint16
	staticBounds []uint32

	packetIDs []uint32

	tagGroups map[string][]uint32
}

// Load builds a Registries from the embedded build-time data file.
func Load() *Registries {
	return build(regdata.Load())
}

func build(d *regdata.Data) *Registries {
	r := &Registries{
		Block:              newEnum(d.Registries["block"]),
		Item:               newEnum(d.Registries["item"]),
		EntityType:         newEnum(d.Registries["entity_type"]),
		Biome:              newEnum(d.Registries["biome"]),
		BlockEntityType:    newEnum(d.Registries["block_entity_type"]),
		PropertyKey:        newEnum(d.Registries["block_state_property_key"]),
		Fluid:              newEnum(d.Registries["fluid"]),
		Packet:             newEnum(d.Registries["packet"]),
		propertyValueNames: d.PropertyValueNames,
		itemMaxStack:       d.ItemMaxStack,
		itemToBlock:        d.ItemToBlock,
		blockToFluid:       d.BlockToFluid,
		fluidStateCount:    d.FluidStateCount,
		entityData:         d.EntityData,
		shapes:             d.Shapes,
		settings:           d.Settings,
		staticBounds:       d.StaticBounds,
		packetIDs:          d.PacketIDs,
	}

	r.buildBlockStates(d)
	r.buildTagGroups(d)
	return r
}

func (r *Registries) buildBlockStates(d *regdata.Data) {
	numBlocks := len(d.BlockDefs)
	r.blockDefs = make([]blockStateDef, numBlocks)

	var stateCursor uint32
	for b, raw := range d.BlockDefs {
		props := make([]PropDef, len(raw.Props))
		for i, p := range raw.Props {
			props[i] = PropDef{
				KeyID:   uint32(p.KeyIdx),
				KeyName: d.Registries["block_state_property_key"][p.KeyIdx],
				Card:    p.Card,
			}
		}
		count := uint32(1)
		for _, p := range props {
			count *= uint32(p.Card)
		}
		r.blockDefs[b] = blockStateDef{
			props:          props,
			defaultOrdinal: raw.DefaultOrdinal,
			stateIndex:     stateCursor,
			stateCount:     count,
		}
		r.propsIndex = append(r.propsIndex, r.internProps(props))
		stateCursor += count
	}

	r.stateToBlock = make([]uint32, stateCursor)
	for b := range r.blockDefs {
		def := r.blockDefs[b]
		for s := def.stateIndex; s < def.stateIndex+def.stateCount; s++ {
			r.stateToBlock[s] = uint32(b)
		}
	}
}

// internProps dedups identical property-key sequences into r.propsList,
// returning the shared index (spec.md §4.2's PROPS_INDEX).
func (r *Registries) internProps(props []PropDef) int {
	for i, existing := range r.propsList {
		if propsEqual(existing, props) {
			return i
		}
	}
	r.propsList = append(r.propsList, props)
	return len(r.propsList) - 1
}

func propsEqual(a, b []PropDef) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].KeyID != b[i].KeyID || a[i].Card != b[i].Card {
			return false
		}
	}
	return true
}

func (r *Registries) buildTagGroups(d *regdata.Data) {
	r.tagGroups = make(map[string][]uint32, len(d.TagGroups))
	for tag, members := range d.TagGroups {
		ids := make([]uint32, 0, len(members))
		for _, name := range members {
			if id, ok := r.Block.Parse([]byte(name)); ok {
				ids = append(ids, id)
			}
		}
		r.tagGroups[tag] = ids
	}
}

// TagMembers returns the block ids belonging to a tag group (e.g.
// "mineable/axe"), resolved at build time from the data file's block
// name lists.
func (r *Registries) TagMembers(tag string) ([]uint32, bool) {
	ids, ok := r.tagGroups[tag]
	return ids, ok
}

// MaxStackSize is the item's maximum stack size, the registry
// supplement spec.md's SPEC_FULL expansion adds per original_source's
// Item::AIR/max_stack_size pairing.
func (r *Registries) MaxStackSize(item uint32) int { return int(r.itemMaxStack[item]) }

// ItemToBlock resolves an item's placed-block form, if any.
func (r *Registries) ItemToBlock(item uint32) (uint32, bool) {
	v := r.itemToBlock[item]
	if v == 0 {
		return 0, false
	}
	return v - 1, true
}

// ToFluid resolves a block state's fluid identity, if the owning block
// has one: a two-level lookup through block_to_fluid then a
// state-relative offset into the fluid's own state count.
func (r *Registries) ToFluid(state uint32) (FluidState, bool) {
	block, ok := r.ToBlock(state)
	if !ok {
		return FluidState{}, false
	}
	link := r.blockToFluid[block]
	if link == 0 {
		return FluidState{}, false
	}
	fluid := link - 1
	offset := state - r.blockDefs[block].stateIndex
	if offset >= r.fluidStateCount[fluid] {
		return FluidState{}, false
	}
	return FluidState{Fluid: fluid, Level: offset}, true
}

// EntityDims returns an entity type's bounding-box width/height in
// hundredths of a block, and its packed behavior-flag bits.
func (r *Registries) EntityDims(entity uint32) (width, height int, flags uint16) {
	packed := r.entityData[entity]
	return int(packed >> 24 & 0xFF), int(packed >> 16 & 0xFF), uint16(packed & 0xFFFF)
}

// PacketWireID returns the wire id registered for a named packet.
func (r *Registries) PacketWireID(packet uint32) uint32 { return r.packetIDs[packet] }
